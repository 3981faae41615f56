package objfile

import "encoding/binary"

// Note is one entry from a .note section: a zero-terminated name, a
// vendor-defined type, and an opaque descriptor. AMDGPU code objects
// carry their HSA metadata as the descriptor of the note named "AMDGPU"
// with Type 32 (NT_AMDGPU_METADATA).
type Note struct {
	Name       string
	Type       uint32
	Descriptor []byte
}

func align4(n uint32) uint32 {
	return (n + 3) &^ 3
}

// Notes returns every note in the named section, in file order. Both the
// name and descriptor fields are 4-byte aligned on disk (the typical ELF
// note layout used by every common note producer, including LLVM); the
// alignment padding after each field is skipped, not returned.
func (f *File) Notes(path, sectionName string) ([]Note, error) {
	sec := f.Section(sectionName)
	if sec == nil {
		return nil, nil
	}
	buf := sliceAt(f.raw, sec.Offset, sec.Size)
	if buf == nil {
		return nil, invalidElf(path, "section %q runs past end of file", sectionName)
	}

	e := binary.LittleEndian
	var notes []Note
	pos := uint32(0)
	for pos < uint32(len(buf)) {
		if pos+12 > uint32(len(buf)) {
			return nil, invalidElf(path, "note header in %q runs past end of section", sectionName)
		}
		nameSize := e.Uint32(buf[pos : pos+4])
		descSize := e.Uint32(buf[pos+4 : pos+8])
		noteType := e.Uint32(buf[pos+8 : pos+12])
		pos += 12

		nameEnd := pos + nameSize
		if nameEnd > uint32(len(buf)) {
			return nil, invalidElf(path, "note name in %q runs past end of section", sectionName)
		}
		name := ""
		if nameSize > 0 {
			name = cNoteString(buf[pos:nameEnd])
		}
		pos = align4(nameEnd)

		descEnd := pos + descSize
		if descEnd > uint32(len(buf)) {
			return nil, invalidElf(path, "note descriptor in %q runs past end of section", sectionName)
		}
		desc := buf[pos:descEnd]
		pos = align4(descEnd)

		notes = append(notes, Note{Name: name, Type: noteType, Descriptor: desc})
	}
	return notes, nil
}

// cNoteString trims a single trailing NUL, the usual note-name framing;
// note names are not arbitrary-length C strings inside a larger buffer the
// way symbol/string-table entries are, so this does not need the
// out-of-range checks cString does.
func cNoteString(b []byte) string {
	if len(b) > 0 && b[len(b)-1] == 0 {
		b = b[:len(b)-1]
	}
	return string(b)
}
