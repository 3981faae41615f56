// Package amdgpu implements the AMDGPU platform backend: reading AMD HSA
// code-object metadata out of a device object's NT_AMDGPU_METADATA note,
// cross-referencing it against an OverloadSet, and synthesising the
// native parameter lists and offload-bundle entry ids the build driver
// needs for that target.
package amdgpu

import (
	"fmt"

	"github.com/notargets/zhc/wireformat/msgpack"
)

// EMAMDGPU is the ELF e_machine value identifying an AMDGPU code object.
const EMAMDGPU = 224

// NoteName and NoteType identify the note holding AMD HSA code-object
// metadata.
const (
	NoteName = "AMDGPU"
	NoteType = 32 // NT_AMDGPU_METADATA
)

// Kernel is one amdhsa.kernels[*] entry: only the fields the driver reads
// are named; everything else is parsed and discarded by the lenient
// aggregate schema below.
type Kernel struct {
	Name   string // mangled KernelConfig, __zhc_kd_ prefix already present on the wire
	Symbol string // HSA symbol name, retained for the offload bundle
}

// Metadata is the subset of AMD HSA code-object metadata the driver
// consumes.
type Metadata struct {
	Version [2]uint64
	Target  string
	Kernels []Kernel
}

var kernelShape = msgpack.Shape{
	Kind:    msgpack.Aggregate,
	Lenient: true,
	Fields: []msgpack.Field{
		{Name: ".name", Shape: msgpack.Shape{Kind: msgpack.StringShape}, Required: true},
		{Name: ".symbol", Shape: msgpack.Shape{Kind: msgpack.StringShape}, Required: true},
	},
}

var metadataShape = msgpack.Shape{
	Kind:    msgpack.Aggregate,
	Lenient: true,
	Fields: []msgpack.Field{
		{Name: "amdhsa.version", Shape: msgpack.Shape{Kind: msgpack.Sequence, Element: &msgpack.Shape{Kind: msgpack.IntShape, Bits: 64}}, Required: true},
		{Name: "amdhsa.target", Shape: msgpack.Shape{Kind: msgpack.StringShape}, Required: true},
		{Name: "amdhsa.kernels", Shape: msgpack.Shape{Kind: msgpack.Sequence, Element: &kernelShape}, Required: true},
	},
}

// ParseMetadata decodes a NT_AMDGPU_METADATA note descriptor into
// Metadata, rejecting code objects whose version predates 1.0.
func ParseMetadata(descriptor []byte) (Metadata, error) {
	v, err := msgpack.Parse(descriptor, metadataShape)
	if err != nil {
		return Metadata{}, err
	}
	m := v.(map[string]msgpack.Value)

	versionSeq := m["amdhsa.version"].([]msgpack.Value)
	if len(versionSeq) != 2 {
		return Metadata{}, fmt.Errorf("amdgpu: amdhsa.version must have exactly 2 elements, got %d", len(versionSeq))
	}
	var version [2]uint64
	for i, v := range versionSeq {
		version[i] = v.(uint64)
	}
	if version[0] < 1 {
		return Metadata{}, fmt.Errorf("amdgpu: code object version %d.%d predates 1.0", version[0], version[1])
	}

	target := m["amdhsa.target"].(string)

	kernelsSeq := m["amdhsa.kernels"].([]msgpack.Value)
	kernels := make([]Kernel, 0, len(kernelsSeq))
	for _, kv := range kernelsSeq {
		km := kv.(map[string]msgpack.Value)
		kernels = append(kernels, Kernel{
			Name:   km[".name"].(string),
			Symbol: km[".symbol"].(string),
		})
	}

	return Metadata{Version: version, Target: target, Kernels: kernels}, nil
}
