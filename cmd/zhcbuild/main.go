// Command zhcbuild wires the three build-graph steps together for manual
// and integration use. It is deliberately thin: general-purpose argument
// parsing, multi-target fan-out, and dependency scheduling belong to the
// outer build framework this package is meant to be embedded in, not to
// this binary.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/notargets/zhc/buildgraph"
	"github.com/notargets/zhc/platform/amdgpu"
)

var (
	hostObject     = flag.String("host-object", "", "path to the compiled host object")
	deviceSource   = flag.String("device-source", "", "path to the device kernel source")
	platform       = flag.String("platform", "amdgpu", "target platform backend")
	hostCompiler   = flag.String("host-cc", "cc", "host compiler to invoke")
	deviceCompiler = flag.String("device-cc", "hipcc", "device compiler to invoke")
	hostTarget     = flag.String("host-target", "x86_64-unknown-linux-gnu", "host triple for the bundle placeholder entry")
	scratchRoot    = flag.String("scratch-root", ".zhc-scratch", "scratch directory root")
)

func main() {
	flag.Parse()
	logger := log.New(os.Stderr, "zhcbuild: ", 0)

	if *hostObject == "" || *deviceSource == "" {
		fmt.Fprintln(os.Stderr, "usage: zhcbuild -host-object <path> -device-source <path> [options]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := run(logger); err != nil {
		var missing *amdgpu.MissingKernelDeclaration
		if errors.As(err, &missing) {
			fmt.Fprintln(os.Stderr, missing.Error())
		} else {
			fmt.Fprintf(os.Stderr, "zhcbuild: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(logger *log.Logger) error {
	ctx := context.Background()
	exec := buildgraph.CommandExecutor{}

	logger.Println("extractOverloads: starting")
	extract := buildgraph.NewExtractOverloads(*hostObject)
	if err := extract.Make(); err != nil {
		return err
	}
	logger.Printf("extractOverloads: done, %d overload(s) requested\n", extract.Configs.Len())

	logger.Println("deviceObject: starting")
	devObj := buildgraph.NewDeviceObject(*deviceSource, *platform, extract.Configs, exec, *deviceCompiler, *scratchRoot)
	if err := devObj.Make(ctx); err != nil {
		return err
	}
	logger.Printf("deviceObject: done, target %s\n", devObj.Metadata.Target)
	for _, w := range devObj.Warnings {
		logger.Printf("deviceObject: warning: %s\n", w.String())
	}

	logger.Println("offloadLibrary: starting")
	lib := buildgraph.NewOffloadLibrary(exec, *hostCompiler, *scratchRoot)
	lib.AddKernels(devObj).SetHostTarget(*hostTarget)
	if err := lib.Make(ctx); err != nil {
		return err
	}
	logger.Printf("offloadLibrary: done, object written to %s\n", lib.ObjectPath)

	return nil
}
