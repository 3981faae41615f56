package offload

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
)

const (
	Magic            = "__CLANG_OFFLOAD_BUNDLE__"
	DefaultAlignment = 4096
)

// Entry is one payload to pack into an offload bundle, identified by its
// entry id. A HIP fat binary's first entry must be the host placeholder
// with an empty Payload.
type Entry struct {
	ID      string
	Payload []byte
}

// Bundle assembles a Clang-compatible offload-bundle container. Entries
// accumulate via Add; Bytes performs the two-pass layout: the entry table's
// size is only known once every entry id string length is known, so the
// payload region's starting offset cannot be fixed until the table is
// complete. This driver resolves that by accumulating all entries before
// computing any offset, never writing the table speculatively and
// patching it in place.
type Bundle struct {
	alignment uint64
	entries   []Entry
}

func NewBundle(alignment uint64) *Bundle {
	if alignment == 0 {
		alignment = DefaultAlignment
	}
	return &Bundle{alignment: alignment}
}

func (b *Bundle) Add(e Entry) {
	b.entries = append(b.entries, e)
}

func alignUp(n, align uint64) uint64 {
	if align == 0 {
		return n
	}
	rem := n % align
	if rem == 0 {
		return n
	}
	return n + (align - rem)
}

// Bytes renders the complete bundle.
func (b *Bundle) Bytes() ([]byte, error) {
	if len(b.entries) == 0 {
		return nil, fmt.Errorf("offload: bundle has no entries")
	}
	if !strings.HasPrefix(b.entries[0].ID, string(KindHost)+"-") {
		return nil, fmt.Errorf("offload: first entry must be the host placeholder, got %q", b.entries[0].ID)
	}

	tableSize := uint64(len(Magic)) + 8 // magic + num_entries
	for _, e := range b.entries {
		tableSize += 8 + 8 + 8 + uint64(len(e.ID))
	}
	payloadStart := alignUp(tableSize, b.alignment)

	// pass 1: compute each entry's payload offset
	offsets := make([]uint64, len(b.entries))
	cursor := payloadStart
	for i, e := range b.entries {
		offsets[i] = cursor
		cursor = alignUp(cursor+uint64(len(e.Payload)), b.alignment)
	}

	// pass 2: emit
	var buf bytes.Buffer
	buf.WriteString(Magic)
	writeU64(&buf, uint64(len(b.entries)))
	for i, e := range b.entries {
		writeU64(&buf, offsets[i])
		writeU64(&buf, uint64(len(e.Payload)))
		writeU64(&buf, uint64(len(e.ID)))
		buf.WriteString(e.ID)
	}
	padTo(&buf, payloadStart)

	for i, e := range b.entries {
		if uint64(buf.Len()) != offsets[i] {
			return nil, fmt.Errorf("offload: internal layout error, entry %d at %d, expected %d", i, buf.Len(), offsets[i])
		}
		buf.Write(e.Payload)
		padTo(&buf, alignUp(uint64(buf.Len()), b.alignment))
	}

	return buf.Bytes(), nil
}

func writeU64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}

func padTo(buf *bytes.Buffer, target uint64) {
	for uint64(buf.Len()) < target {
		buf.WriteByte(0)
	}
}
