// Package abi defines the value model shared by the host and device sides
// of a kernel launch: AbiValue, Overload, Kernel, KernelConfig and
// OverloadSet.
//
// AbiValue is a tagged union (Kind + payload fields) covering runtime
// types, compile-time values, arrays and pointers recursively.
package abi

import (
	"fmt"
	"math/big"
)

// Kind tags the variant a Value holds.
type Kind int

const (
	Invalid Kind = iota
	Int
	Float
	Bool
	Array
	Pointer
	ConstantInt
	ConstantBool
	TypedRuntimeValue
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case Array:
		return "array"
	case Pointer:
		return "pointer"
	case ConstantInt:
		return "constant_int"
	case ConstantBool:
		return "constant_bool"
	case TypedRuntimeValue:
		return "typed_runtime_value"
	default:
		return "invalid"
	}
}

// PointerSize distinguishes single-element, many-element and slice pointers.
type PointerSize int

const (
	PointerOne PointerSize = iota
	PointerMany
	PointerSlice
)

func (p PointerSize) String() string {
	switch p {
	case PointerOne:
		return "one"
	case PointerMany:
		return "many"
	case PointerSlice:
		return "slice"
	default:
		return "?"
	}
}

// Value is the AbiValue sum type. Exactly one set of fields is meaningful
// per Kind; callers should only read fields documented for the current
// Kind.
type Value struct {
	Kind Kind

	// Int
	Signed bool
	Bits   uint32 // Int: 1..65535; Float: 16|32|64

	// Array
	Len   uint64
	Child *Value // Array.child, Pointer.child, TypedRuntimeValue.child

	// Pointer
	PtrSize   PointerSize
	IsConst   bool
	Alignment uint32

	// ConstantInt
	Int *big.Int

	// ConstantBool
	Bool bool
}

// NewInt builds a runtime integer type descriptor.
func NewInt(signed bool, bits uint32) (*Value, error) {
	if bits < 1 || bits > 65535 {
		return nil, fmt.Errorf("abi: int bits out of range: %d", bits)
	}
	return &Value{Kind: Int, Signed: signed, Bits: bits}, nil
}

// NewFloat builds a runtime float type descriptor.
func NewFloat(bits uint32) (*Value, error) {
	switch bits {
	case 16, 32, 64:
	default:
		return nil, fmt.Errorf("abi: unsupported float width: %d", bits)
	}
	return &Value{Kind: Float, Bits: bits}, nil
}

// NewBool builds a runtime boolean type descriptor.
func NewBool() *Value {
	return &Value{Kind: Bool}
}

// NewArray builds a fixed-length array type descriptor.
func NewArray(length uint64, child *Value) (*Value, error) {
	if child == nil {
		return nil, fmt.Errorf("abi: array child must not be nil")
	}
	return &Value{Kind: Array, Len: length, Child: child}, nil
}

// NewPointer builds a pointer type descriptor. Pointers are never
// ABI-safe-by-memory-layout: host and device pointer width may differ.
func NewPointer(size PointerSize, isConst bool, alignment uint32, child *Value) (*Value, error) {
	if child == nil {
		return nil, fmt.Errorf("abi: pointer child must not be nil")
	}
	if alignment == 0 {
		alignment = 1
	}
	return &Value{Kind: Pointer, PtrSize: size, IsConst: isConst, Alignment: alignment, Child: child}, nil
}

// NewConstantInt builds a compile-time integer value. v is copied and
// normalised by math/big (no leading zero limbs, zero is positive).
func NewConstantInt(v *big.Int) *Value {
	n := new(big.Int).Set(v)
	return &Value{Kind: ConstantInt, Int: n}
}

// NewConstantBool builds a compile-time boolean value.
func NewConstantBool(b bool) *Value {
	return &Value{Kind: ConstantBool, Bool: b}
}

// NewTypedRuntimeValue wraps a type descriptor as "a runtime value of this
// type will be passed". child must satisfy IsType(); this is the one
// constructor-enforced invariant on this variant.
func NewTypedRuntimeValue(child *Value) (*Value, error) {
	if child == nil || !child.IsType() {
		return nil, fmt.Errorf("abi: typed_runtime_value child must be a type variant, got %v", child)
	}
	return &Value{Kind: TypedRuntimeValue, Child: child}, nil
}

// IsType reports whether v is one of the type-descriptor variants
// (int/float/bool/array/pointer) as opposed to a compile-time value or a
// typed_runtime_value marker.
func (v *Value) IsType() bool {
	if v == nil {
		return false
	}
	switch v.Kind {
	case Int, Float, Bool, Array, Pointer:
		return true
	default:
		return false
	}
}

// IsABISafe reports whether v's memory layout is identical on host and
// device (true for int/float/bool and arrays of ABI-safe children; false
// for pointers, whose width may differ across host/device). Only
// meaningful for type-descriptor variants; returns false for anything else.
func (v *Value) IsABISafe() bool {
	if v == nil {
		return false
	}
	switch v.Kind {
	case Int, Float, Bool:
		return true
	case Array:
		return v.Child.IsABISafe()
	case Pointer:
		return false
	default:
		return false
	}
}

// Eql reports structural equality, recursing into array/pointer/typed
// children by value rather than by pointer identity.
func (v *Value) Eql(other *Value) bool {
	if v == nil || other == nil {
		return v == other
	}
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case Int:
		return v.Signed == other.Signed && v.Bits == other.Bits
	case Float:
		return v.Bits == other.Bits
	case Bool:
		return true
	case Array:
		return v.Len == other.Len && v.Child.Eql(other.Child)
	case Pointer:
		return v.PtrSize == other.PtrSize && v.IsConst == other.IsConst &&
			v.Alignment == other.Alignment && v.Child.Eql(other.Child)
	case ConstantInt:
		return v.Int.Cmp(other.Int) == 0
	case ConstantBool:
		return v.Bool == other.Bool
	case TypedRuntimeValue:
		return v.Child.Eql(other.Child)
	default:
		return false
	}
}

// String renders a short debug form, not the mangled form (see package
// mangle for that).
func (v *Value) String() string {
	if v == nil {
		return "<nil>"
	}
	switch v.Kind {
	case Int:
		sign := "u"
		if v.Signed {
			sign = "s"
		}
		return fmt.Sprintf("int{%s,%d}", sign, v.Bits)
	case Float:
		return fmt.Sprintf("float{%d}", v.Bits)
	case Bool:
		return "bool"
	case Array:
		return fmt.Sprintf("array{%d,%s}", v.Len, v.Child)
	case Pointer:
		return fmt.Sprintf("pointer{%s,const=%v,align=%d,%s}", v.PtrSize, v.IsConst, v.Alignment, v.Child)
	case ConstantInt:
		return fmt.Sprintf("constant_int{%s}", v.Int.String())
	case ConstantBool:
		return fmt.Sprintf("constant_bool{%v}", v.Bool)
	case TypedRuntimeValue:
		return fmt.Sprintf("typed_runtime_value{%s}", v.Child)
	default:
		return "invalid"
	}
}
