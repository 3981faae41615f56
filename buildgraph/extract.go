package buildgraph

import (
	"fmt"
	"os"
	"strings"

	"github.com/notargets/zhc/abi"
	"github.com/notargets/zhc/mangle"
	"github.com/notargets/zhc/objfile"
)

// ExtractOverloads scans a host object's ELF symbol table for
// __zhc_ka_-prefixed launch sites and builds the OverloadSet every
// downstream step reads. Configs is published only after Make has
// returned: no dependent step may read it beforehand.
type ExtractOverloads struct {
	HostObjectPath string

	Configs *abi.OverloadSet
	// Arena owns every abi.Value tree demangled while this step ran. An
	// embedding build framework calls Arena.Reset once Configs is no
	// longer needed by any downstream step.
	Arena *abi.Arena
}

// NewExtractOverloads constructs the step from a host object path.
func NewExtractOverloads(hostObjectPath string) *ExtractOverloads {
	return &ExtractOverloads{HostObjectPath: hostObjectPath}
}

func (s *ExtractOverloads) Make() error {
	raw, err := os.ReadFile(s.HostObjectPath)
	if err != nil {
		return fmt.Errorf("extractOverloads: %w", err)
	}
	f, err := objfile.Parse(s.HostObjectPath, raw)
	if err != nil {
		return err
	}

	mangleFn := func(o abi.Overload) (string, error) { return mangle.Overload(o) }
	set := abi.NewOverloadSet(mangleFn)
	arena := abi.NewArena()

	for _, sym := range f.Symbols {
		if !strings.HasPrefix(sym.Name, mangle.LaunchSitePrefix) {
			continue
		}
		suffix := strings.TrimPrefix(sym.Name, mangle.LaunchSitePrefix)
		kc, err := mangle.DemangleKernelConfig(suffix)
		if err != nil {
			return fmt.Errorf("extractOverloads: symbol %q: %w", sym.Name, err)
		}
		for _, v := range kc.Overload {
			arena.Own(v)
		}
		if err := set.Add(kc); err != nil {
			return fmt.Errorf("extractOverloads: symbol %q: %w", sym.Name, err)
		}
	}

	s.Configs = set
	s.Arena = arena
	return nil
}
