package offload

import (
	"fmt"
	"strings"
)

// Kind is the offload-kind component of an entry id.
type Kind string

const (
	KindHost   Kind = "host"
	KindHIP    Kind = "hip"
	KindHIPv4  Kind = "hipv4"
	KindOpenMP Kind = "openmp"
)

func (k Kind) valid() bool {
	switch k {
	case KindHost, KindHIP, KindHIPv4, KindOpenMP:
		return true
	default:
		return false
	}
}

// Target names the triple an entry id is built from: <arch>-<vendor>-<os>
// with an optional abi and a required cpu, plus explicitly-enabled LLVM
// feature names. Vendor is "amd" on HSA/PAL targets and "unknown"
// otherwise — callers building a host entry pass vendor "unknown".
type Target struct {
	Arch     string
	Vendor   string
	OS       string
	ABI      string
	CPU      string
	Features []string
}

// EntryID renders "<kind>-<arch>-<vendor>-<os>[-<abi>]-<cpu>[: <feat>+]*".
func EntryID(kind Kind, t Target) (string, error) {
	if !kind.valid() {
		return "", fmt.Errorf("offload: invalid offload-kind %q", kind)
	}
	if t.Arch == "" || t.Vendor == "" || t.OS == "" || t.CPU == "" {
		return "", fmt.Errorf("offload: target triple requires arch, vendor, os, and cpu")
	}
	parts := []string{string(kind), t.Arch, t.Vendor, t.OS}
	if t.ABI != "" {
		parts = append(parts, t.ABI)
	}
	parts = append(parts, t.CPU)
	id := strings.Join(parts, "-")
	for _, f := range t.Features {
		id += ":" + f
	}
	return id, nil
}

// ParseTriple parses a target triple of the form
// "<arch>-<vendor>-<os>[-<abi>]-<cpu>[:<feat>]*" into a Target — the same
// grammar EntryID renders. Everything from the first ":" on is a list of
// explicitly-enabled feature names.
func ParseTriple(triple string) (Target, error) {
	body := triple
	var features []string
	if idx := strings.IndexByte(triple, ':'); idx >= 0 {
		body = triple[:idx]
		features = strings.Split(triple[idx+1:], ":")
	}

	parts := strings.Split(body, "-")
	var t Target
	switch len(parts) {
	case 4:
		t = Target{Arch: parts[0], Vendor: parts[1], OS: parts[2], CPU: parts[3]}
	case 5:
		t = Target{Arch: parts[0], Vendor: parts[1], OS: parts[2], ABI: parts[3], CPU: parts[4]}
	default:
		return Target{}, fmt.Errorf("offload: malformed target triple %q, expected arch-vendor-os[-abi]-cpu", triple)
	}
	t.Features = features
	return t, nil
}

// HostEntryID builds the mandatory "offload_kind=host" placeholder id that
// every HIP fat binary must include first, even with an empty payload,
// from the host triple the bundle is being built for.
func HostEntryID(hostTriple string) (string, error) {
	t, err := ParseTriple(hostTriple)
	if err != nil {
		return "", fmt.Errorf("offload: host entry id: %w", err)
	}
	return EntryID(KindHost, t)
}
