package offload

import (
	"crypto/sha256"
	"encoding/base64"
)

// scratchSalt is mixed into every content hash so that this driver's
// scratch directories never collide with another pipeline's hash of the
// same bytes.
const scratchSalt = "zhc-offload-scratch-v1\x00"

// ScratchDirName derives a deterministic, URL-safe directory name from the
// bundle bytes: two bundles with identical content always hash to the same
// path, letting concurrent steps that produce the same bundle land on the
// same scratch directory and race harmlessly.
func ScratchDirName(bundle []byte) string {
	h := sha256.New()
	h.Write([]byte(scratchSalt))
	h.Write(bundle)
	sum := h.Sum(nil)
	return base64.RawURLEncoding.EncodeToString(sum)
}
