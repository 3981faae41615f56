// Package optionsmodule generates the small source artefact fed into
// device compilation: a per-kernel constant sequence of Overload literals,
// tagged with side/platform, that declareKernel iterates to synthesise one
// entry point per requested overload.
package optionsmodule

import (
	"fmt"
	"strings"

	"github.com/notargets/zhc/abi"
	"github.com/notargets/zhc/mangle"
)

// Side is the side tag every generated module carries.
type Side string

const (
	SideHost   Side = "host"
	SideDevice Side = "device"
)

// Generate renders the options module source for overloads. On the device
// side platform must name the backend (e.g. "amdgpu"); it is empty for a
// host-side module. Each overload is rendered as the mangled form of its
// KernelConfig — the round-trip law this module must satisfy is that
// mangle.KernelConfig of the demangled literal reproduces the exact string
// written here.
func Generate(side Side, platform string, overloads *abi.OverloadSet) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "side = %s\n", side)
	if platform != "" {
		fmt.Fprintf(&b, "platform = %s\n", platform)
	}
	b.WriteString("\nlaunch_configurations {\n")

	for _, kernelName := range overloads.SortedKernelNames() {
		memberName := sanitizeMemberName(kernelName)
		fmt.Fprintf(&b, "  %s: [\n", memberName)
		for _, ov := range overloads.Overloads(kernelName) {
			kc := abi.KernelConfig{Kernel: abi.Kernel{Name: kernelName}, Overload: ov}
			mangled, err := mangle.KernelConfig(kc)
			if err != nil {
				return "", fmt.Errorf("optionsmodule: kernel %q: %w", kernelName, err)
			}
			fmt.Fprintf(&b, "    overload(%q),\n", mangled)
		}
		b.WriteString("  ],\n")
	}
	b.WriteString("}\n")
	return b.String(), nil
}

// sanitizeMemberName maps a kernel name to the structure-member syntax the
// generated module uses to index launch_configurations, keyed by
// sanitised kernel name.
func sanitizeMemberName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
