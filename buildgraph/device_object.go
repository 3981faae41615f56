package buildgraph

import (
	"context"
	"fmt"
	"os"

	"github.com/notargets/zhc/abi"
	"github.com/notargets/zhc/objfile"
	"github.com/notargets/zhc/optionsmodule"
	"github.com/notargets/zhc/platform/amdgpu"
)

// DeviceObject compiles device source against a generated options module
// and extracts the resulting code object's AMDGPU metadata. Make must
// run after the ExtractOverloads step whose Configs it reads has
// returned.
type DeviceObject struct {
	SourcePath     string
	Platform       string
	Overloads      *abi.OverloadSet
	DeviceCompiler string
	ScratchRoot    string
	Exec           Executor

	ObjectPath string
	Metadata   amdgpu.Metadata
	Bindings   []amdgpu.Binding
	// Warnings collects kernel configurations the device object defines
	// but that no launch site ever requested. These do not fail Make; an
	// embedding build framework decides whether to escalate them.
	Warnings []amdgpu.UnknownConfig
	// Arena owns every abi.Value tree demangled from the device object's
	// kernel names while this step ran. An embedding build framework
	// calls Arena.Reset once Bindings/Warnings are no longer needed.
	Arena *abi.Arena
}

// NewDeviceObject constructs the step.
func NewDeviceObject(source, platform string, overloads *abi.OverloadSet, exec Executor, deviceCompiler, scratchRoot string) *DeviceObject {
	return &DeviceObject{
		SourcePath:     source,
		Platform:       platform,
		Overloads:      overloads,
		DeviceCompiler: deviceCompiler,
		ScratchRoot:    scratchRoot,
		Exec:           exec,
	}
}

func (s *DeviceObject) Make(ctx context.Context) error {
	moduleSrc, err := optionsmodule.Generate(optionsmodule.SideDevice, s.Platform, s.Overloads)
	if err != nil {
		return fmt.Errorf("deviceObject: %w", err)
	}

	modulePath := ScratchPath(s.ScratchRoot, "device-object", "launch_configurations")
	objectPath := ScratchPath(s.ScratchRoot, "device-object", "device.o")
	dir := ScratchPath(s.ScratchRoot, "device-object")

	if err := s.Exec.WriteFile(modulePath, []byte(moduleSrc)); err != nil {
		return fmt.Errorf("deviceObject: writing options module: %w", err)
	}

	args := []string{s.SourcePath, "-I", dir, "-c", "-o", objectPath}
	if out, err := s.Exec.Run(ctx, s.DeviceCompiler, args); err != nil {
		return fmt.Errorf("deviceObject: device compilation failed: %w\n%s", err, out)
	}

	raw, err := os.ReadFile(objectPath)
	if err != nil {
		return fmt.Errorf("deviceObject: reading compiled object: %w", err)
	}
	f, err := objfile.Parse(objectPath, raw)
	if err != nil {
		return err
	}
	if f.Machine != amdgpu.EMAMDGPU {
		return &objfile.InvalidElf{Path: objectPath, Reason: fmt.Sprintf("e_machine %d is not AMDGPU", f.Machine)}
	}

	var descriptor []byte
	for _, secName := range []string{".note", ".note.amdgpu"} {
		notes, err := f.Notes(objectPath, secName)
		if err != nil {
			return err
		}
		for _, n := range notes {
			if n.Name == amdgpu.NoteName && n.Type == amdgpu.NoteType {
				descriptor = n.Descriptor
			}
		}
		if descriptor != nil {
			break
		}
	}
	if descriptor == nil {
		return &objfile.InvalidElf{Path: objectPath, Reason: "no NT_AMDGPU_METADATA note found"}
	}

	md, err := amdgpu.ParseMetadata(descriptor)
	if err != nil {
		return &objfile.InvalidElf{Path: objectPath, Reason: err.Error()}
	}

	bindings, warnings, err := amdgpu.CrossReference(s.Overloads, md)
	if err != nil {
		return err
	}

	arena := abi.NewArena()
	for _, b := range bindings {
		for _, v := range b.Config.Overload {
			arena.Own(v)
		}
	}
	for _, w := range warnings {
		for _, v := range w.Config.Overload {
			arena.Own(v)
		}
	}

	s.ObjectPath = objectPath
	s.Metadata = md
	s.Bindings = bindings
	s.Warnings = warnings
	s.Arena = arena
	return nil
}
