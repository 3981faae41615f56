package amdgpu

import (
	"fmt"
	"strings"

	"github.com/notargets/zhc/offload"
)

// ParseTargetTriple splits an amdhsa.target string such as
// "amdgcn-amd-amdhsa--gfx942:sramecc+:xnack-" into an offload.Target,
// vendor "amd" being the hallmark of an HSA/PAL target.
func ParseTargetTriple(target string) (offload.Target, error) {
	cpuAndFeatures := target
	triple := target
	if idx := strings.Index(target, "--"); idx >= 0 {
		triple = target[:idx]
		cpuAndFeatures = target[idx+2:]
	} else {
		return offload.Target{}, fmt.Errorf("amdgpu: malformed target triple %q, expected a \"--\" cpu separator", target)
	}

	parts := strings.Split(triple, "-")
	if len(parts) < 3 {
		return offload.Target{}, fmt.Errorf("amdgpu: malformed target triple %q", target)
	}
	t := offload.Target{Arch: parts[0], Vendor: parts[1], OS: parts[2]}
	if len(parts) >= 4 {
		t.ABI = parts[3]
	}

	featureParts := strings.Split(cpuAndFeatures, ":")
	t.CPU = featureParts[0]
	t.Features = featureParts[1:]
	return t, nil
}

// BundleEntryID builds the hipv4 offload-bundle entry id for a device
// object whose amdhsa.target string is target.
func BundleEntryID(target string) (string, error) {
	t, err := ParseTargetTriple(target)
	if err != nil {
		return "", err
	}
	return offload.EntryID(offload.KindHIPv4, t)
}
