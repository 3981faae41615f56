package amdgpu

import (
	"fmt"

	"github.com/notargets/zhc/abi"
	"github.com/notargets/zhc/mangle"
)

// NativeParam is one parameter of a synthesised device entry point.
// Params belonging to the same source argument share an ArgIndex; a
// slice argument produces two NativeParams with the same ArgIndex.
type NativeParam struct {
	Name     string
	Type     *abi.Value
	ArgIndex int
}

// usizeBits is the platform's native pointer-sized unsigned integer width,
// used for the length parameter synthesised from a slice argument.
const usizeBits = 64

// GenerateParams walks overload's arguments in order and produces the
// native parameter list a device entry point exports for it: zero
// parameters for a compile-time constant, one for any non-slice typed
// runtime value, and two (many-pointer, usize length) for a slice.
// Compile-time type arguments (abi.Int/Float/Bool/Array/Pointer
// appearing bare, without a TypedRuntimeValue wrapper) contribute
// nothing either — they are resolved entirely at the call site.
func GenerateParams(overload abi.Overload) ([]NativeParam, error) {
	var params []NativeParam
	for i, v := range overload {
		switch v.Kind {
		case abi.ConstantInt, abi.ConstantBool:
			continue
		case abi.TypedRuntimeValue:
			child := v.Child
			if child.Kind == abi.Pointer && child.PtrSize == abi.PointerSlice {
				many, err := abi.NewPointer(abi.PointerMany, child.IsConst, child.Alignment, child.Child)
				if err != nil {
					return nil, err
				}
				usize, err := abi.NewInt(false, usizeBits)
				if err != nil {
					return nil, err
				}
				params = append(params,
					NativeParam{Name: fmt.Sprintf("arg%d_ptr", i), Type: many, ArgIndex: i},
					NativeParam{Name: fmt.Sprintf("arg%d_len", i), Type: usize, ArgIndex: i},
				)
				continue
			}
			params = append(params, NativeParam{Name: fmt.Sprintf("arg%d", i), Type: child, ArgIndex: i})
		case abi.Int, abi.Float, abi.Bool, abi.Array, abi.Pointer:
			// bare compile-time type argument: materialised at the call
			// site, contributes no entry-point parameter.
			continue
		default:
			return nil, fmt.Errorf("amdgpu: unsupported argument kind %v at position %d", v.Kind, i)
		}
	}
	return params, nil
}

// DefinitionSymbol returns the __zhc_kd_-prefixed exported symbol name for
// kc, the convention every synthesised entry point's export name follows.
func DefinitionSymbol(kc abi.KernelConfig) (string, error) {
	return mangle.DefinitionSymbol(kc)
}
