// Package buildgraph wires the three build steps into a small DAG:
// ExtractOverloads happens-before DeviceObject, which happens-before the
// corresponding OffloadLibrary. Subprocess compiler invocation goes
// through an Executor seam in the same shape as sagikazarmark-gb's build
// driver, so tests can substitute a fake without touching os/exec.
package buildgraph

import (
	"context"
	"os/exec"
)

// Executor runs a compiler (or other external tool) as a subprocess and
// writes files into the scratch area. Steps never call os/exec directly;
// they go through this seam: subprocess launches block the calling step,
// but the step itself stays substitutable for tests.
type Executor interface {
	Run(ctx context.Context, name string, args []string) ([]byte, error)
	WriteFile(path string, content []byte) error
}

// CommandExecutor is the production Executor, backed by os/exec.
type CommandExecutor struct{}

func (CommandExecutor) Run(ctx context.Context, name string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

func (CommandExecutor) WriteFile(path string, content []byte) error {
	return writeFileAtomic(path, content)
}
