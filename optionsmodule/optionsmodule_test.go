package optionsmodule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/zhc/abi"
	"github.com/notargets/zhc/mangle"
)

func buildSet(t *testing.T) *abi.OverloadSet {
	t.Helper()
	mangleFn := func(o abi.Overload) (string, error) { return mangle.Overload(o) }
	set := abi.NewOverloadSet(mangleFn)

	i32, _ := abi.NewInt(true, 32)
	u64, _ := abi.NewInt(false, 64)
	ov1, _ := abi.NewOverload([]*abi.Value{i32})
	ov2, _ := abi.NewOverload([]*abi.Value{i32, u64})

	require.NoError(t, set.Add(abi.KernelConfig{Kernel: abi.Kernel{Name: "vadd"}, Overload: ov1}))
	require.NoError(t, set.Add(abi.KernelConfig{Kernel: abi.Kernel{Name: "vadd"}, Overload: ov2}))
	require.NoError(t, set.Add(abi.KernelConfig{Kernel: abi.Kernel{Name: "vsub"}, Overload: ov1}))
	return set
}

func TestGenerateContainsSideAndPlatformTags(t *testing.T) {
	set := buildSet(t)
	src, err := Generate(SideDevice, "amdgpu", set)
	require.NoError(t, err)
	assert.Contains(t, src, "side = device")
	assert.Contains(t, src, "platform = amdgpu")
	assert.Contains(t, src, "vadd")
	assert.Contains(t, src, "vsub")
}

func TestGenerateHostSideOmitsPlatform(t *testing.T) {
	set := buildSet(t)
	src, err := Generate(SideHost, "", set)
	require.NoError(t, err)
	assert.Contains(t, src, "side = host")
	assert.NotContains(t, src, "platform =")
}

func TestRoundTripGeneratedModule(t *testing.T) {
	set := buildSet(t)
	src, err := Generate(SideDevice, "amdgpu", set)
	require.NoError(t, err)

	entries, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, entries, 3, "two vadd overloads plus one vsub overload")

	require.NoError(t, VerifyRoundTrip(src))
}

func TestParseRecoversKernelNamesAndArgCounts(t *testing.T) {
	set := buildSet(t)
	src, err := Generate(SideDevice, "amdgpu", set)
	require.NoError(t, err)

	entries, err := Parse(src)
	require.NoError(t, err)

	var vaddCounts []int
	for _, e := range entries {
		if e.Config.Kernel.Name == "vadd" {
			vaddCounts = append(vaddCounts, len(e.Config.Overload))
		}
	}
	assert.ElementsMatch(t, []int{1, 2}, vaddCounts)
}
