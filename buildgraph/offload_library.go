package buildgraph

import (
	"context"
	"fmt"
	"os"

	"github.com/notargets/zhc/offload"
	"github.com/notargets/zhc/platform/amdgpu"
)

// defaultHostTriple is used when the caller never calls SetHostTarget:
// the all-"unknown" placeholder every HIP fat binary's mandatory host
// entry carries when no real host object is being embedded.
const defaultHostTriple = "unknown-unknown-unknown-unknown"

// OffloadLibrary packages one or more device objects into a Clang-
// compatible offload bundle and compiles the small stub that embeds it.
// Make must run after every DeviceObject it was given via AddKernels has
// returned.
type OffloadLibrary struct {
	HostCompiler string
	ScratchRoot  string
	Exec         Executor

	deviceObjects []*DeviceObject
	hostTarget    string

	ObjectPath string
}

// NewOffloadLibrary constructs the step.
func NewOffloadLibrary(exec Executor, hostCompiler, scratchRoot string) *OffloadLibrary {
	return &OffloadLibrary{Exec: exec, HostCompiler: hostCompiler, ScratchRoot: scratchRoot}
}

// AddKernels registers a DeviceObject step whose compiled bytes become one
// hipv4 entry in the bundle.
func (s *OffloadLibrary) AddKernels(d *DeviceObject) *OffloadLibrary {
	s.deviceObjects = append(s.deviceObjects, d)
	return s
}

// SetHostTarget records the host triple ("<arch>-<vendor>-<os>[-<abi>]-<cpu>")
// used to build the bundle's placeholder host entry id.
func (s *OffloadLibrary) SetHostTarget(target string) *OffloadLibrary {
	s.hostTarget = target
	return s
}

func (s *OffloadLibrary) Make(ctx context.Context) error {
	hostTriple := s.hostTarget
	if hostTriple == "" {
		hostTriple = defaultHostTriple
	}
	hostID, err := offload.HostEntryID(hostTriple)
	if err != nil {
		return fmt.Errorf("offloadLibrary: %w", err)
	}

	bundle := offload.NewBundle(offload.DefaultAlignment)
	bundle.Add(offload.Entry{ID: hostID, Payload: nil})

	for _, d := range s.deviceObjects {
		id, err := amdgpu.BundleEntryID(d.Metadata.Target)
		if err != nil {
			return fmt.Errorf("offloadLibrary: %w", err)
		}
		payload, err := os.ReadFile(d.ObjectPath)
		if err != nil {
			return fmt.Errorf("offloadLibrary: reading device object: %w", err)
		}
		bundle.Add(offload.Entry{ID: id, Payload: payload})
	}

	raw, err := bundle.Bytes()
	if err != nil {
		return fmt.Errorf("offloadLibrary: %w", err)
	}

	dirName := offload.ScratchDirName(raw)
	bundlePath := ScratchPath(s.ScratchRoot, dirName, "bundle.bin")
	stubPath := ScratchPath(s.ScratchRoot, dirName, "stub.c")
	objectPath := ScratchPath(s.ScratchRoot, dirName, "offload.o")

	if err := s.Exec.WriteFile(bundlePath, raw); err != nil {
		return fmt.Errorf("offloadLibrary: writing bundle: %w", err)
	}

	stub := offload.GenerateStub(offload.FatbinSymbol, bundlePath)
	if err := s.Exec.WriteFile(stubPath, []byte(stub)); err != nil {
		return fmt.Errorf("offloadLibrary: writing stub: %w", err)
	}

	args := []string{stubPath, "-c", "-o", objectPath}
	if out, err := s.Exec.Run(ctx, s.HostCompiler, args); err != nil {
		return fmt.Errorf("offloadLibrary: host compilation failed: %w\n%s", err, out)
	}

	s.ObjectPath = objectPath
	return nil
}
