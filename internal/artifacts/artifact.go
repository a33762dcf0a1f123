// Package artifacts holds compiled contract artifact sets.
//
// A Set is immutable once constructed and is shared by pointer between
// every runner built from it. Bytecode payloads are nil when the compiler
// output could not be resolved to raw bytes (for example when it still
// contains unlinked library placeholders).
package artifacts

import (
	"sort"
	"strings"
)

// Artifact is the compiled output of a single contract
type Artifact struct {
	Name       string
	SourcePath string

	Bytecode         []byte
	DeployedBytecode []byte

	// Functions are the contract's function names without signatures
	Functions []string
}

// Resolved reports whether both the creation and the deployed bytecode are available
func (a *Artifact) Resolved() bool {
	return a.Bytecode != nil && a.DeployedBytecode != nil
}

// TestFunctions returns the functions that are runnable tests
func (a *Artifact) TestFunctions() []string {
	res := make([]string, 0)
	for _, fn := range a.Functions {
		if IsTestFunction(fn) {
			res = append(res, fn)
		}
	}
	return res
}

// IsTestFunction reports whether a function name denotes a unit, fuzz or invariant test
func IsTestFunction(fn string) bool {
	return strings.HasPrefix(fn, "test") || strings.HasPrefix(fn, "invariant")
}

// Set is an immutable mapping of contract name to artifact
type Set struct {
	artifacts map[string]*Artifact
	names     []string
}

// NewSet copies the given artifacts into a new immutable set
func NewSet(arts map[string]Artifact) *Set {
	s := &Set{
		artifacts: make(map[string]*Artifact, len(arts)),
		names:     make([]string, 0, len(arts)),
	}
	for name, a := range arts {
		a := a
		a.Name = name
		a.Bytecode = cloneBytes(a.Bytecode)
		a.DeployedBytecode = cloneBytes(a.DeployedBytecode)
		a.Functions = append([]string(nil), a.Functions...)
		s.artifacts[name] = &a
		s.names = append(s.names, name)
	}
	sort.Strings(s.names)
	return s
}

// Get returns a copy of the named artifact
func (s *Set) Get(name string) (Artifact, bool) {
	a, ok := s.artifacts[name]
	if !ok {
		return Artifact{}, false
	}
	return *a, true
}

// Names returns the contract names in sorted order
func (s *Set) Names() []string {
	return append([]string(nil), s.names...)
}

// Len returns the number of artifacts in the set
func (s *Set) Len() int {
	return len(s.names)
}

// Each calls fn for every artifact in name order. The artifact must not be modified.
func (s *Set) Each(fn func(a *Artifact)) {
	for _, name := range s.names {
		fn(s.artifacts[name])
	}
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	res := make([]byte, len(b))
	copy(res, b)
	return res
}
