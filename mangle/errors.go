package mangle

import "fmt"

// ErrInvalidMangledName is the single error kind used for every demangle
// failure: invalid tag byte, missing digits, an unterminated const_int,
// or a decimal overflowing its target width.
type ErrInvalidMangledName struct {
	Input  string
	Offset int
	Reason string
}

func (e *ErrInvalidMangledName) Error() string {
	return fmt.Sprintf("invalid mangled name at offset %d in %q: %s", e.Offset, e.Input, e.Reason)
}

func invalidAt(input string, offset int, format string, args ...interface{}) error {
	return &ErrInvalidMangledName{Input: input, Offset: offset, Reason: fmt.Sprintf(format, args...)}
}
