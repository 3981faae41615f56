package abi

import "fmt"

// MaxOverloadArgs bounds Overload length.
const MaxOverloadArgs = 32

// Overload is an ordered list of argument descriptors: index == the
// argument's position in the kernel's source signature.
type Overload []*Value

// NewOverload validates length and builds an Overload.
func NewOverload(args []*Value) (Overload, error) {
	if len(args) > MaxOverloadArgs {
		return nil, fmt.Errorf("abi: overload has %d args, max %d", len(args), MaxOverloadArgs)
	}
	o := make(Overload, len(args))
	copy(o, args)
	return o, nil
}

// Eql reports structural, positional equality.
func (o Overload) Eql(other Overload) bool {
	if len(o) != len(other) {
		return false
	}
	for i := range o {
		if !o[i].Eql(other[i]) {
			return false
		}
	}
	return true
}

func (o Overload) String() string {
	s := "("
	for i, v := range o {
		if i > 0 {
			s += ", "
		}
		s += v.String()
	}
	return s + ")"
}

// Kernel identifies a user-named launch target. Name is opaque to this
// package; the build driver never inspects its structure.
type Kernel struct {
	Name string
}

// KernelConfig is one concrete launch instance: a kernel plus the
// overload of arguments it was launched or defined with.
type KernelConfig struct {
	Kernel   Kernel
	Overload Overload
}

// Eql compares kernel name and overload structurally.
func (kc KernelConfig) Eql(other KernelConfig) bool {
	return kc.Kernel.Name == other.Kernel.Name && kc.Overload.Eql(other.Overload)
}

func (kc KernelConfig) String() string {
	return fmt.Sprintf("%s%s", kc.Kernel.Name, kc.Overload)
}

// OverloadSet is the deduplicated, grouped collection of every overload
// required by a host binary: insertion order is preserved both across
// kernel names and within each kernel's overload list, mirroring the
// order-preserving map pattern used for DeviceMatrices/AllocatedArrays
// before sorting for determinism.
type OverloadSet struct {
	names    []string
	byName   map[string][]Overload
	seen     map[string]map[string]bool // kernel name -> mangled overload -> seen
	mangleFn func(Overload) (string, error)
}

// NewOverloadSet creates an empty set. mangleFn is used only to detect
// duplicate overloads within a kernel: symbols with identical mangled
// names collapse; callers typically pass mangle.Overload.
func NewOverloadSet(mangleFn func(Overload) (string, error)) *OverloadSet {
	return &OverloadSet{
		byName:   make(map[string][]Overload),
		seen:     make(map[string]map[string]bool),
		mangleFn: mangleFn,
	}
}

// Add inserts one KernelConfig, preserving first-seen order for both the
// kernel name and the overload within that kernel, and collapsing exact
// duplicates.
func (s *OverloadSet) Add(kc KernelConfig) error {
	name := kc.Kernel.Name
	key, err := s.mangleFn(kc.Overload)
	if err != nil {
		return fmt.Errorf("abi: mangling overload for dedup: %w", err)
	}

	if _, ok := s.byName[name]; !ok {
		s.names = append(s.names, name)
		s.byName[name] = nil
		s.seen[name] = make(map[string]bool)
	}

	if s.seen[name][key] {
		return nil
	}
	s.seen[name][key] = true
	s.byName[name] = append(s.byName[name], kc.Overload)
	return nil
}

// KernelNames returns kernel names in first-seen insertion order.
func (s *OverloadSet) KernelNames() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// SortedKernelNames returns kernel names sorted stably, for deterministic
// emission: the final map is additionally sorted stably by kernel name
// before emission.
func (s *OverloadSet) SortedKernelNames() []string {
	out := s.KernelNames()
	insertionSortStrings(out)
	return out
}

// Overloads returns the overloads registered for a kernel name, in
// first-seen order.
func (s *OverloadSet) Overloads(name string) []Overload {
	return s.byName[name]
}

// Len returns the total number of distinct overloads across all kernels.
func (s *OverloadSet) Len() int {
	n := 0
	for _, ovls := range s.byName {
		n += len(ovls)
	}
	return n
}

// Lookup reports whether a given mangled overload suffix belongs to the
// named kernel (used by the AMDGPU backend to cross-reference device
// object kernels against this set).
func (s *OverloadSet) Lookup(name string, mangledOverload string) bool {
	return s.seen[name] != nil && s.seen[name][mangledOverload]
}

// insertionSortStrings performs a small stable sort without pulling in
// sort.Strings's indirection for the common tiny-N case; kept in the
// style of the hand-written comparisons in builder_signature.go.
func insertionSortStrings(a []string) {
	for i := 1; i < len(a); i++ {
		v := a[i]
		j := i - 1
		for j >= 0 && a[j] > v {
			a[j+1] = a[j]
			j--
		}
		a[j+1] = v
	}
}
