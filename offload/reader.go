package offload

import (
	"encoding/binary"
	"fmt"
)

// ReadEntries parses a bundle produced by Bundle.Bytes back into its
// entries, used by tests and by any step that needs to inspect a bundle it
// did not just build in memory.
func ReadEntries(raw []byte) ([]Entry, error) {
	if len(raw) < len(Magic)+8 {
		return nil, fmt.Errorf("offload: bundle too short for header")
	}
	if string(raw[:len(Magic)]) != Magic {
		return nil, fmt.Errorf("offload: bad magic")
	}
	pos := len(Magic)
	numEntries := binary.LittleEndian.Uint64(raw[pos : pos+8])
	pos += 8

	entries := make([]Entry, 0, numEntries)
	for i := uint64(0); i < numEntries; i++ {
		if pos+24 > len(raw) {
			return nil, fmt.Errorf("offload: entry table truncated at entry %d", i)
		}
		off := binary.LittleEndian.Uint64(raw[pos : pos+8])
		length := binary.LittleEndian.Uint64(raw[pos+8 : pos+16])
		idLen := binary.LittleEndian.Uint64(raw[pos+16 : pos+24])
		pos += 24

		if pos+int(idLen) > len(raw) {
			return nil, fmt.Errorf("offload: entry id truncated at entry %d", i)
		}
		id := string(raw[pos : pos+int(idLen)])
		pos += int(idLen)

		if off+length > uint64(len(raw)) {
			return nil, fmt.Errorf("offload: payload for entry %d runs past end of bundle", i)
		}
		entries = append(entries, Entry{ID: id, Payload: raw[off : off+length]})
	}
	return entries, nil
}
