package mangle

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/zhc/abi"
)

func roundTripValue(t *testing.T, v *abi.Value) {
	t.Helper()
	s, err := Value(v)
	require.NoError(t, err)
	got, err := DemangleValue(s)
	require.NoError(t, err)
	assert.True(t, v.Eql(got), "round trip of %s produced %s", s, got.String())
}

func TestRoundTripScalarValues(t *testing.T) {
	u64, _ := abi.NewInt(false, 64)
	i32, _ := abi.NewInt(true, 32)
	f32, _ := abi.NewFloat(32)
	f64, _ := abi.NewFloat(64)
	roundTripValue(t, u64)
	roundTripValue(t, i32)
	roundTripValue(t, f32)
	roundTripValue(t, f64)
	roundTripValue(t, abi.NewBool())
}

func TestRoundTripArrayAndPointer(t *testing.T) {
	i32, _ := abi.NewInt(true, 32)
	arr, err := abi.NewArray(4, i32)
	require.NoError(t, err)
	roundTripValue(t, arr)

	ptr, err := abi.NewPointer(abi.PointerOne, true, 8, arr)
	require.NoError(t, err)
	roundTripValue(t, ptr)

	many, err := abi.NewPointer(abi.PointerMany, false, 1, i32)
	require.NoError(t, err)
	roundTripValue(t, many)

	slice, err := abi.NewPointer(abi.PointerSlice, false, 4, i32)
	require.NoError(t, err)
	roundTripValue(t, slice)
}

func TestRoundTripConstants(t *testing.T) {
	roundTripValue(t, abi.NewConstantInt(big.NewInt(0)))
	roundTripValue(t, abi.NewConstantInt(big.NewInt(42)))
	roundTripValue(t, abi.NewConstantInt(big.NewInt(-42)))

	big65, ok := new(big.Int).SetString("36893488147419103232", 10)
	require.True(t, ok)
	roundTripValue(t, abi.NewConstantInt(big65))

	negBig, ok := new(big.Int).SetString("-111122223333444455556666777", 16)
	require.True(t, ok)
	roundTripValue(t, abi.NewConstantInt(negBig))

	roundTripValue(t, abi.NewConstantBool(true))
	roundTripValue(t, abi.NewConstantBool(false))
}

func TestRoundTripTypedRuntimeValue(t *testing.T) {
	u64, _ := abi.NewInt(false, 64)
	rtv, err := abi.NewTypedRuntimeValue(u64)
	require.NoError(t, err)
	roundTripValue(t, rtv)
}

func TestZeroIsAlwaysEncodedPositive(t *testing.T) {
	s, err := Value(abi.NewConstantInt(big.NewInt(0)))
	require.NoError(t, err)
	assert.Equal(t, "I0p", s)
}

func TestKernelConfigRoundTrip(t *testing.T) {
	u64, _ := abi.NewInt(false, 64)
	ptr, _ := abi.NewPointer(abi.PointerMany, false, 1, u64)
	rtvPtr, _ := abi.NewTypedRuntimeValue(ptr)
	rtvU64a, _ := abi.NewTypedRuntimeValue(u64)
	rtvU64b, _ := abi.NewTypedRuntimeValue(u64)

	ov, err := abi.NewOverload([]*abi.Value{rtvPtr, rtvU64a, rtvU64b})
	require.NoError(t, err)
	kc := abi.KernelConfig{Kernel: abi.Kernel{Name: "testKernel"}, Overload: ov}

	s, err := KernelConfig(kc)
	require.NoError(t, err)
	assert.Equal(t, "10_testKernel3rPm1u64ru64ru64", s)

	got, err := DemangleKernelConfig(s)
	require.NoError(t, err)
	assert.Equal(t, kc.Kernel.Name, got.Kernel.Name)
	assert.True(t, kc.Overload.Eql(got.Overload))
}

func TestKernelConfigEmptyOverload(t *testing.T) {
	kc := abi.KernelConfig{Kernel: abi.Kernel{Name: "noop"}}
	s, err := KernelConfig(kc)
	require.NoError(t, err)
	assert.Equal(t, "4_noop0", s)

	got, err := DemangleKernelConfig(s)
	require.NoError(t, err)
	assert.Equal(t, "noop", got.Kernel.Name)
	assert.Len(t, got.Overload, 0)
}

func TestLaunchSiteAndDefinitionSymbolsSharePrefix(t *testing.T) {
	kc := abi.KernelConfig{Kernel: abi.Kernel{Name: "vadd"}}
	launch, err := LaunchSiteSymbol(kc)
	require.NoError(t, err)
	def, err := DefinitionSymbol(kc)
	require.NoError(t, err)

	assert.Equal(t, LaunchSitePrefix+"4_vadd0", launch)
	assert.Equal(t, DefinitionPrefix+"4_vadd0", def)
	assert.NotEqual(t, launch, def)
}

func TestDemangleInvalidTagByte(t *testing.T) {
	_, err := DemangleValue("z")
	require.Error(t, err)
	var target *ErrInvalidMangledName
	assert.ErrorAs(t, err, &target)
}

func TestDemangleMissingDigits(t *testing.T) {
	_, err := DemangleValue("i")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing digits")
}

func TestDemangleUnterminatedConstInt(t *testing.T) {
	_, err := DemangleValue("I2a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unterminated const_int")
}

func TestDemangleIntBitsOutOfRange(t *testing.T) {
	_, err := DemangleValue("i0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestDemangleTrailingDataRejected(t *testing.T) {
	_, err := DemangleValue("bb")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trailing data")
}

func TestDemangleKernelConfigBadNameLength(t *testing.T) {
	_, err := DemangleKernelConfig("99_short0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds remaining input")
}
