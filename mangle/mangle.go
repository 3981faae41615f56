// Package mangle implements a bidirectional, printable encoding of
// abi.Value/abi.Overload/abi.KernelConfig: a compact ELF-symbol-safe
// suffix with one character per type tag and no separators within a
// value.
package mangle

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/notargets/zhc/abi"
)

const (
	LaunchSitePrefix = "__zhc_ka_"
	DefinitionPrefix = "__zhc_kd_"
)

// Value mangles a single abi.Value per the value grammar.
func Value(v *abi.Value) (string, error) {
	var b strings.Builder
	if err := writeValue(&b, v); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeValue(b *strings.Builder, v *abi.Value) error {
	if v == nil {
		return fmt.Errorf("mangle: nil value")
	}
	switch v.Kind {
	case abi.Int:
		tag := byte('i')
		if !v.Signed {
			tag = 'u'
		}
		fmt.Fprintf(b, "%c%d", tag, v.Bits)
		return nil
	case abi.Float:
		fmt.Fprintf(b, "f%d", v.Bits)
		return nil
	case abi.Bool:
		b.WriteByte('b')
		return nil
	case abi.Array:
		fmt.Fprintf(b, "a%d", v.Len)
		return writeValue(b, v.Child)
	case abi.Pointer:
		tag := byte('p')
		switch v.PtrSize {
		case abi.PointerMany:
			tag = 'P'
		case abi.PointerSlice:
			tag = 'S'
		}
		constTag := byte('c')
		if !v.IsConst {
			constTag = 'm'
		}
		fmt.Fprintf(b, "%c%c%d", tag, constTag, v.Alignment)
		return writeValue(b, v.Child)
	case abi.ConstantInt:
		hex := "0"
		if v.Int.Sign() != 0 {
			hex = new(big.Int).Abs(v.Int).Text(16)
		}
		sign := byte('p')
		if v.Int.Sign() < 0 {
			sign = 'n'
		}
		fmt.Fprintf(b, "I%s%c", hex, sign)
		return nil
	case abi.ConstantBool:
		if v.Bool {
			b.WriteByte('T')
		} else {
			b.WriteByte('F')
		}
		return nil
	case abi.TypedRuntimeValue:
		b.WriteByte('r')
		return writeValue(b, v.Child)
	default:
		return fmt.Errorf("mangle: unknown value kind %v", v.Kind)
	}
}

// Overload mangles an ordered list of values: their mangled forms
// concatenated with no separator (the count is carried by the caller,
// e.g. KernelConfig below, not by Overload itself).
func Overload(o abi.Overload) (string, error) {
	var b strings.Builder
	for i, v := range o {
		s, err := Value(v)
		if err != nil {
			return "", fmt.Errorf("mangle: arg %d: %w", i, err)
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

// KernelConfig mangles a KernelConfig as
// "<n>_<name><k><arg1><arg2>...<argk>".
func KernelConfig(kc abi.KernelConfig) (string, error) {
	args, err := Overload(kc.Overload)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d_%s%d%s", len(kc.Kernel.Name), kc.Kernel.Name, len(kc.Overload), args)
	return b.String(), nil
}

// LaunchSiteSymbol returns the full ELF symbol name emitted at a launch
// site: __zhc_ka_<mangled KernelConfig>.
func LaunchSiteSymbol(kc abi.KernelConfig) (string, error) {
	s, err := KernelConfig(kc)
	if err != nil {
		return "", err
	}
	return LaunchSitePrefix + s, nil
}

// DefinitionSymbol returns the full ELF symbol name emitted at a device-side
// definition: __zhc_kd_<mangled KernelConfig>.
func DefinitionSymbol(kc abi.KernelConfig) (string, error) {
	s, err := KernelConfig(kc)
	if err != nil {
		return "", err
	}
	return DefinitionPrefix + s, nil
}
