package mangle

import (
	"math/big"
	"strconv"

	"github.com/notargets/zhc/abi"
)

// scanner walks a mangled string left to right; every Demangle* entry point
// requires the scanner to be fully consumed at the end: the demangler
// consumes its input exactly to its end.
type scanner struct {
	input string
	pos   int
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.input)
}

func (s *scanner) peek() (byte, bool) {
	if s.eof() {
		return 0, false
	}
	return s.input[s.pos], true
}

func (s *scanner) next() (byte, error) {
	c, ok := s.peek()
	if !ok {
		return 0, invalidAt(s.input, s.pos, "unexpected end of input")
	}
	s.pos++
	return c, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// readDigits reads one or more ASCII decimal digits; missing digits is a
// distinct, named demangle error condition.
func (s *scanner) readDigits() (string, error) {
	start := s.pos
	for !s.eof() && isDigit(s.input[s.pos]) {
		s.pos++
	}
	if s.pos == start {
		return "", invalidAt(s.input, start, "missing digits")
	}
	return s.input[start:s.pos], nil
}

func (s *scanner) readUint(bitSize int) (uint64, error) {
	start := s.pos
	digits, err := s.readDigits()
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(digits, 10, bitSize)
	if err != nil {
		return 0, invalidAt(s.input, start, "decimal %q overflows %d-bit width", digits, bitSize)
	}
	return n, nil
}

func (s *scanner) readHexDigits() (string, error) {
	start := s.pos
	for !s.eof() && isHexDigit(s.input[s.pos]) {
		s.pos++
	}
	if s.pos == start {
		return "", invalidAt(s.input, start, "missing digits")
	}
	return s.input[start:s.pos], nil
}

// demangleValueFrom parses exactly one abi.Value starting at s's position
// and leaves s immediately after it (used by Overload/KernelConfig to
// chain values without separators).
func demangleValueFrom(s *scanner) (*abi.Value, error) {
	tag, err := s.next()
	if err != nil {
		return nil, err
	}
	switch tag {
	case 'i', 'u':
		start := s.pos
		bits, err := s.readUint(32)
		if err != nil {
			return nil, err
		}
		if bits < 1 || bits > 65535 {
			return nil, invalidAt(s.input, start, "int bits out of range: %d", bits)
		}
		return abi.NewInt(tag == 'i', uint32(bits))
	case 'f':
		start := s.pos
		bits, err := s.readUint(32)
		if err != nil {
			return nil, err
		}
		v, err := abi.NewFloat(uint32(bits))
		if err != nil {
			return nil, invalidAt(s.input, start, "%s", err)
		}
		return v, nil
	case 'b':
		return abi.NewBool(), nil
	case 'a':
		length, err := s.readUint(64)
		if err != nil {
			return nil, err
		}
		child, err := demangleValueFrom(s)
		if err != nil {
			return nil, err
		}
		return abi.NewArray(length, child)
	case 'p', 'P', 'S':
		var size abi.PointerSize
		switch tag {
		case 'p':
			size = abi.PointerOne
		case 'P':
			size = abi.PointerMany
		case 'S':
			size = abi.PointerSlice
		}
		constTag, err := s.next()
		if err != nil {
			return nil, err
		}
		var isConst bool
		switch constTag {
		case 'c':
			isConst = true
		case 'm':
			isConst = false
		default:
			return nil, invalidAt(s.input, s.pos-1, "invalid pointer const/mut tag %q", constTag)
		}
		align, err := s.readUint(32)
		if err != nil {
			return nil, err
		}
		child, err := demangleValueFrom(s)
		if err != nil {
			return nil, err
		}
		return abi.NewPointer(size, isConst, uint32(align), child)
	case 'I':
		hexStart := s.pos
		hexDigits, err := s.readHexDigits()
		if err != nil {
			return nil, err
		}
		signByte, err := s.next()
		if err != nil {
			return nil, invalidAt(s.input, hexStart, "unterminated const_int")
		}
		if signByte != 'p' && signByte != 'n' {
			return nil, invalidAt(s.input, s.pos-1, "unterminated const_int: expected sign terminator, got %q", signByte)
		}
		magnitude, ok := new(big.Int).SetString(hexDigits, 16)
		if !ok {
			return nil, invalidAt(s.input, hexStart, "invalid const_int magnitude %q", hexDigits)
		}
		if signByte == 'n' {
			if magnitude.Sign() == 0 {
				return nil, invalidAt(s.input, hexStart, "zero must be encoded as I0p, not I0n")
			}
			magnitude.Neg(magnitude)
		}
		return abi.NewConstantInt(magnitude), nil
	case 'T':
		return abi.NewConstantBool(true), nil
	case 'F':
		return abi.NewConstantBool(false), nil
	case 'r':
		child, err := demangleValueFrom(s)
		if err != nil {
			return nil, err
		}
		return abi.NewTypedRuntimeValue(child)
	default:
		return nil, invalidAt(s.input, s.pos-1, "invalid tag byte %q", tag)
	}
}

// DemangleValue parses a whole string as exactly one abi.Value, requiring
// the input to be consumed to its end.
func DemangleValue(input string) (*abi.Value, error) {
	s := &scanner{input: input}
	v, err := demangleValueFrom(s)
	if err != nil {
		return nil, err
	}
	if !s.eof() {
		return nil, invalidAt(s.input, s.pos, "trailing data after value")
	}
	return v, nil
}

// demangleOverloadFrom parses count values in sequence from s, without
// requiring the scanner to reach end-of-input (used by DemangleKernelConfig,
// which owns the end-of-input check).
func demangleOverloadFrom(s *scanner, count uint64) (abi.Overload, error) {
	args := make([]*abi.Value, 0, count)
	for i := uint64(0); i < count; i++ {
		v, err := demangleValueFrom(s)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return abi.NewOverload(args)
}

// DemangleKernelConfig parses "<n>_<name><k><arg1>...<argk>" back into a
// KernelConfig, requiring the input to be consumed to its end.
func DemangleKernelConfig(input string) (abi.KernelConfig, error) {
	s := &scanner{input: input}

	nameLen, err := s.readUint(64)
	if err != nil {
		return abi.KernelConfig{}, err
	}
	sep, err := s.next()
	if err != nil {
		return abi.KernelConfig{}, err
	}
	if sep != '_' {
		return abi.KernelConfig{}, invalidAt(s.input, s.pos-1, "expected '_' after kernel-name length")
	}
	if uint64(s.pos)+nameLen > uint64(len(s.input)) {
		return abi.KernelConfig{}, invalidAt(s.input, s.pos, "kernel name length %d exceeds remaining input", nameLen)
	}
	name := s.input[s.pos : s.pos+int(nameLen)]
	s.pos += int(nameLen)

	argCount, err := s.readUint(64)
	if err != nil {
		return abi.KernelConfig{}, err
	}
	overload, err := demangleOverloadFrom(s, argCount)
	if err != nil {
		return abi.KernelConfig{}, err
	}
	if !s.eof() {
		return abi.KernelConfig{}, invalidAt(s.input, s.pos, "trailing data after kernel config")
	}
	return abi.KernelConfig{Kernel: abi.Kernel{Name: name}, Overload: overload}, nil
}

// DemangleOverload parses a whole string as count-prefixed-free sequence is
// not part of the grammar on its own (Overload has no length prefix at the
// value level); provided for symmetry when the argument count is already
// known from context (e.g. re-parsing a generated options module entry).
func DemangleOverload(input string, count uint64) (abi.Overload, error) {
	s := &scanner{input: input}
	ov, err := demangleOverloadFrom(s, count)
	if err != nil {
		return nil, err
	}
	if !s.eof() {
		return nil, invalidAt(s.input, s.pos, "trailing data after overload")
	}
	return ov, nil
}
