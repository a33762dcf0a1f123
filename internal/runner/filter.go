package runner

import (
	"fmt"
	"regexp"

	mapset "github.com/deckarep/golang-set/v2"
)

// Filter selects the suites and test functions of a run
type Filter interface {
	MatchesTest(name string) bool
	MatchesContract(name string) bool
	MatchesPath(path string) bool
}

// PatternFilter matches names against regular expressions.
// A nil pattern matches everything.
type PatternFilter struct {
	test     *regexp.Regexp
	contract *regexp.Regexp
	path     *regexp.Regexp

	excludedTests     mapset.Set[string]
	excludedContracts mapset.Set[string]
}

// MatchAll returns a filter that selects every test
func MatchAll() *PatternFilter {
	return &PatternFilter{
		excludedTests:     mapset.NewThreadUnsafeSet[string](),
		excludedContracts: mapset.NewThreadUnsafeSet[string](),
	}
}

// NewFilter compiles the test, contract and path patterns. Empty patterns match everything.
func NewFilter(testPattern, contractPattern, pathPattern string) (*PatternFilter, error) {
	f := MatchAll()
	var err error
	if f.test, err = compile("test", testPattern); err != nil {
		return nil, err
	}
	if f.contract, err = compile("contract", contractPattern); err != nil {
		return nil, err
	}
	if f.path, err = compile("path", pathPattern); err != nil {
		return nil, err
	}
	return f, nil
}

// MustFilter is like NewFilter but panics on invalid patterns
func MustFilter(testPattern, contractPattern, pathPattern string) *PatternFilter {
	f, err := NewFilter(testPattern, contractPattern, pathPattern)
	if err != nil {
		panic(err)
	}
	return f
}

func compile(kind, pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid %s pattern %q: %w", kind, pattern, err)
	}
	return re, nil
}

// ExcludeTests returns a copy of the filter that also rejects the given test names
func (f *PatternFilter) ExcludeTests(names ...string) *PatternFilter {
	res := f.clone()
	res.excludedTests.Append(names...)
	return res
}

// ExcludeContracts returns a copy of the filter that also rejects the given contracts
func (f *PatternFilter) ExcludeContracts(names ...string) *PatternFilter {
	res := f.clone()
	res.excludedContracts.Append(names...)
	return res
}

func (f *PatternFilter) clone() *PatternFilter {
	return &PatternFilter{
		test:              f.test,
		contract:          f.contract,
		path:              f.path,
		excludedTests:     f.excludedTests.Clone(),
		excludedContracts: f.excludedContracts.Clone(),
	}
}

func (f *PatternFilter) MatchesTest(name string) bool {
	if f.excludedTests.Contains(name) {
		return false
	}
	return f.test == nil || f.test.MatchString(name)
}

func (f *PatternFilter) MatchesContract(name string) bool {
	if f.excludedContracts.Contains(name) {
		return false
	}
	return f.contract == nil || f.contract.MatchString(name)
}

func (f *PatternFilter) MatchesPath(path string) bool {
	return f.path == nil || f.path.MatchString(path)
}
