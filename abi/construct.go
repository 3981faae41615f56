package abi

import (
	"fmt"
	"math/big"
	"reflect"
)

// This file builds AbiValues from the positional argument tuple of a launch
// site. Go has no compile-time reflection over a generic
// argument pack the way the design note's target language does, so the
// launch-site wrapper (the generated or hand-written `launch(k, args...)`
// call) is itself the "translation-time" step: each argument is classified
// here, once, at the point of the call, the same way DefineBindings
// classifies host values via reflect in runner/binding.go.

// typeArg marks an argument as a compile-time-known *type* rather than a
// value: constructed with TypeArg.
type typeArg struct{ t *Value }

// TypeArg wraps an already-built type descriptor so BuildOverload emits it
// directly instead of wrapping it in TypedRuntimeValue.
func TypeArg(t *Value) interface{} {
	return typeArg{t: t}
}

type constIntArg struct{ n *big.Int }

// ConstInt marks an argument as a compile-time integer constant.
func ConstInt(n int64) interface{} {
	return constIntArg{n: big.NewInt(n)}
}

// ConstBigInt marks an argument as a compile-time integer constant of
// arbitrary magnitude.
func ConstBigInt(n *big.Int) interface{} {
	return constIntArg{n: n}
}

type constBoolArg struct{ b bool }

// ConstBool marks an argument as a compile-time boolean constant.
func ConstBool(b bool) interface{} {
	return constBoolArg{b: b}
}

// BuildOverload classifies a positional argument tuple into an Overload:
//   - TypeArg(t) -> t emitted directly (compile-time type)
//   - ConstInt/ConstBigInt/ConstBool -> constant_int/constant_bool
//   - anything else -> typed_runtime_value wrapping typeOf(arg)
func BuildOverload(args ...interface{}) (Overload, error) {
	out := make([]*Value, 0, len(args))
	for i, arg := range args {
		v, err := classifyArg(arg)
		if err != nil {
			return nil, fmt.Errorf("abi: argument %d: %w", i, err)
		}
		out = append(out, v)
	}
	return NewOverload(out)
}

func classifyArg(arg interface{}) (*Value, error) {
	switch x := arg.(type) {
	case typeArg:
		if !x.t.IsType() {
			return nil, fmt.Errorf("TypeArg must wrap a type variant")
		}
		return x.t, nil
	case constIntArg:
		return NewConstantInt(x.n), nil
	case constBoolArg:
		return NewConstantBool(x.b), nil
	default:
		t, err := TypeOfGoValue(reflect.TypeOf(arg))
		if err != nil {
			return nil, err
		}
		return NewTypedRuntimeValue(t)
	}
}

// TypeOfGoValue converts a Go reflect.Type into its AbiValue type-variant
// equivalent. Slice pointers are preserved as pointer{size=slice} here;
// they are only split into (many-pointer, usize) at device entry-point
// synthesis time — see platform/amdgpu.
func TypeOfGoValue(rt reflect.Type) (*Value, error) {
	if rt == nil {
		return nil, fmt.Errorf("unsupported abi value: untyped nil")
	}
	switch rt.Kind() {
	case reflect.Bool:
		return NewBool(), nil
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int:
		return NewInt(true, uint32(rt.Bits()))
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint, reflect.Uintptr:
		return NewInt(false, uint32(rt.Bits()))
	case reflect.Float32:
		return NewFloat(32)
	case reflect.Float64:
		return NewFloat(64)
	case reflect.Array:
		child, err := TypeOfGoValue(rt.Elem())
		if err != nil {
			return nil, err
		}
		return NewArray(uint64(rt.Len()), child)
	case reflect.Ptr:
		child, err := TypeOfGoValue(rt.Elem())
		if err != nil {
			return nil, err
		}
		return NewPointer(PointerOne, false, uint32(rt.Elem().Align()), child)
	case reflect.Slice:
		child, err := TypeOfGoValue(rt.Elem())
		if err != nil {
			return nil, err
		}
		return NewPointer(PointerSlice, false, uint32(rt.Elem().Align()), child)
	default:
		return nil, fmt.Errorf("unsupported abi value: %s", rt.Kind())
	}
}
