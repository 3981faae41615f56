package abi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildOverloadRuntimeValues(t *testing.T) {
	var a uint64 = 7
	ov, err := BuildOverload(&a, a, a)
	require.NoError(t, err)
	require.Len(t, ov, 3)

	for i, v := range ov {
		require.Equal(t, TypedRuntimeValue, v.Kind, "arg %d", i)
	}
	assert.Equal(t, Pointer, ov[0].Child.Kind)
	assert.Equal(t, PointerOne, ov[0].Child.PtrSize)
	assert.Equal(t, Int, ov[0].Child.Child.Kind)
	assert.False(t, ov[0].Child.Child.Signed)
	assert.Equal(t, uint32(64), ov[0].Child.Child.Bits)

	assert.Equal(t, Int, ov[1].Child.Kind)
	assert.False(t, ov[1].Child.Signed)
}

func TestBuildOverloadCompileTimeTypeAndRuntimeValues(t *testing.T) {
	var a int64 = 1
	var b int32 = 2
	var c int16 = 3

	i64Type, err := NewInt(true, 64)
	require.NoError(t, err)

	ov, err := BuildOverload(TypeArg(i64Type), &a, b, c)
	require.NoError(t, err)
	require.Len(t, ov, 4)

	assert.Equal(t, Int, ov[0].Kind, "compile-time type emitted directly")
	assert.True(t, ov[0].Signed)
	assert.Equal(t, uint32(64), ov[0].Bits)

	assert.Equal(t, TypedRuntimeValue, ov[1].Kind)
	assert.Equal(t, Pointer, ov[1].Child.Kind)

	assert.Equal(t, TypedRuntimeValue, ov[2].Kind)
	assert.Equal(t, uint32(32), ov[2].Child.Bits)

	assert.Equal(t, TypedRuntimeValue, ov[3].Kind)
	assert.Equal(t, uint32(16), ov[3].Child.Bits)
}

func TestBuildOverloadConstants(t *testing.T) {
	ov, err := BuildOverload(ConstInt(-42), ConstBool(true))
	require.NoError(t, err)
	require.Len(t, ov, 2)
	assert.Equal(t, ConstantInt, ov[0].Kind)
	assert.Equal(t, int64(-42), ov[0].Int.Int64())
	assert.Equal(t, ConstantBool, ov[1].Kind)
	assert.True(t, ov[1].Bool)
}
