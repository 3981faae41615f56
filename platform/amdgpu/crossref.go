package amdgpu

import (
	"fmt"
	"sort"
	"strings"

	"github.com/notargets/zhc/abi"
	"github.com/notargets/zhc/mangle"
)

// MissingKernelDeclaration is returned when the OverloadSet expects an
// overload that the device object never defined: a fatal user error
// listing every missing overload.
type MissingKernelDeclaration struct {
	Missing []abi.KernelConfig
}

func (e *MissingKernelDeclaration) Error() string {
	var b strings.Builder
	b.WriteString("missing kernel declarations:\n")
	for _, kc := range e.Missing {
		fmt.Fprintf(&b, "  %s\n", kc.String())
	}
	return b.String()
}

// Binding pairs an overload the device object actually defines with the
// HSA symbol name the offload bundle needs to reference.
type Binding struct {
	Config    abi.KernelConfig
	HSASymbol string
}

// UnknownConfig is a non-fatal warning: the device object defines a
// kernel configuration that no launch site in the host object ever
// requested. It does not stop the pipeline; the caller decides whether
// to surface it.
type UnknownConfig struct {
	Config abi.KernelConfig
}

func (w UnknownConfig) String() string {
	return fmt.Sprintf("unknown kernel configuration defined by device object: %s", w.Config.String())
}

// CrossReference strips the __zhc_kd_ prefix from every kernel name in md,
// demangles it, and checks it against overloads. Kernels present in the
// object but absent from overloads are collected as UnknownConfig
// warnings rather than dropped; overloads expected by the set but absent
// from the object are collected into a MissingKernelDeclaration and
// returned as a single fatal error.
func CrossReference(overloads *abi.OverloadSet, md Metadata) ([]Binding, []UnknownConfig, error) {
	bindings := make([]Binding, 0, len(md.Kernels))
	var unknown []UnknownConfig
	found := make(map[string]map[string]bool) // kernel name -> mangled overload -> seen

	for _, k := range md.Kernels {
		name := strings.TrimPrefix(k.Name, mangle.DefinitionPrefix)
		if name == k.Name {
			return nil, nil, fmt.Errorf("amdgpu: kernel %q missing %s prefix", k.Name, mangle.DefinitionPrefix)
		}
		kc, err := mangle.DemangleKernelConfig(name)
		if err != nil {
			return nil, nil, fmt.Errorf("amdgpu: kernel %q: %w", k.Name, err)
		}

		mangledOverload, err := mangle.Overload(kc.Overload)
		if err != nil {
			return nil, nil, err
		}
		if !overloads.Lookup(kc.Kernel.Name, mangledOverload) {
			unknown = append(unknown, UnknownConfig{Config: kc})
			continue
		}

		if found[kc.Kernel.Name] == nil {
			found[kc.Kernel.Name] = make(map[string]bool)
		}
		found[kc.Kernel.Name][mangledOverload] = true

		bindings = append(bindings, Binding{Config: kc, HSASymbol: k.Symbol})
	}

	var missing []abi.KernelConfig
	for _, kernelName := range overloads.SortedKernelNames() {
		for _, ov := range overloads.Overloads(kernelName) {
			mangledOverload, err := mangle.Overload(ov)
			if err != nil {
				return nil, nil, err
			}
			if !found[kernelName][mangledOverload] {
				missing = append(missing, abi.KernelConfig{Kernel: abi.Kernel{Name: kernelName}, Overload: ov})
			}
		}
	}
	if len(missing) > 0 {
		sort.Slice(missing, func(i, j int) bool { return missing[i].Kernel.Name < missing[j].Kernel.Name })
		return nil, nil, &MissingKernelDeclaration{Missing: missing}
	}

	return bindings, unknown, nil
}
