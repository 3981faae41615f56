package optionsmodule

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/notargets/zhc/abi"
	"github.com/notargets/zhc/mangle"
)

// Entry is one parsed launch_configurations member, recovered as a full
// KernelConfig plus the exact mangled text it came from.
type Entry struct {
	Config  abi.KernelConfig
	Mangled string
}

var overloadLine = regexp.MustCompile(`overload\((".*?")\)`)

// Parse extracts every overload(...) entry from a module generated by
// Generate, in file order, demangling each literal back into a
// KernelConfig.
func Parse(src string) ([]Entry, error) {
	matches := overloadLine.FindAllStringSubmatch(src, -1)
	entries := make([]Entry, 0, len(matches))
	for _, m := range matches {
		mangled, err := strconv.Unquote(m[1])
		if err != nil {
			return nil, fmt.Errorf("optionsmodule: overload literal: %w", err)
		}
		kc, err := mangle.DemangleKernelConfig(mangled)
		if err != nil {
			return nil, fmt.Errorf("optionsmodule: %q: %w", mangled, err)
		}
		entries = append(entries, Entry{Config: kc, Mangled: mangled})
	}
	return entries, nil
}

// VerifyRoundTrip parses src and confirms that re-mangling every recovered
// KernelConfig reproduces the exact bytes seen in the module text — the
// round-trip guarantee the generated literal grammar must satisfy.
func VerifyRoundTrip(src string) error {
	entries, err := Parse(src)
	if err != nil {
		return err
	}
	for _, e := range entries {
		remangled, err := mangle.KernelConfig(e.Config)
		if err != nil {
			return err
		}
		if remangled != e.Mangled {
			return fmt.Errorf("optionsmodule: round trip mismatch, got %q want %q", remangled, e.Mangled)
		}
	}
	return nil
}
