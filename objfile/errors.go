// Package objfile implements a hand-rolled reader for 64-bit little-endian
// ELF object files: section headers, the symbol table, and the .note
// section iterator the build driver needs to recover overload sets and
// AMDGPU code-object metadata.
package objfile

import "fmt"

// InvalidElf is the single error kind for every structural ELF problem:
// bad magic, wrong class/endianness, truncated header, or a section/note
// table that runs past the end of the file.
type InvalidElf struct {
	Path   string
	Reason string
}

func (e *InvalidElf) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("objfile: invalid ELF %q: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("objfile: invalid ELF: %s", e.Reason)
}

func invalidElf(path, format string, args ...interface{}) error {
	return &InvalidElf{Path: path, Reason: fmt.Sprintf(format, args...)}
}
