package config

// FuzzDictionaryConfig controls the pool of observed values used to bias generated inputs
type FuzzDictionaryConfig struct {
	DictionaryWeight           uint32 `toml:"dictionary_weight"`
	IncludeStorage             bool   `toml:"include_storage"`
	IncludePushBytes           bool   `toml:"include_push_bytes"`
	MaxFuzzDictionaryAddresses int    `toml:"max_fuzz_dictionary_addresses"`
	MaxFuzzDictionaryValues    int    `toml:"max_fuzz_dictionary_values"`
}

// FuzzConfig holds parameters for fuzz tests
type FuzzConfig struct {
	Runs           uint32 `toml:"runs"`
	MaxTestRejects uint32 `toml:"max_test_rejects"`
	// Seed is nil when every run should use fresh randomness
	Seed       *uint64              `toml:"seed"`
	Dictionary FuzzDictionaryConfig `toml:"dictionary"`
}

// InvariantConfig holds parameters for invariant tests
type InvariantConfig struct {
	Runs           uint32               `toml:"runs"`
	Depth          uint32               `toml:"depth"`
	FailOnRevert   bool                 `toml:"fail_on_revert"`
	CallOverride   bool                 `toml:"call_override"`
	Dictionary     FuzzDictionaryConfig `toml:"dictionary"`
	ShrinkSequence bool                 `toml:"shrink_sequence"`
	ShrinkRunLimit int                  `toml:"shrink_run_limit"`
}

// TestOptions are the fuzz and invariant parameters handed to the executor
type TestOptions struct {
	Fuzz      FuzzConfig      `toml:"fuzz"`
	Invariant InvariantConfig `toml:"invariant"`
}

const (
	DefaultRuns                = 256
	DefaultMaxTestRejects      = 65536
	DefaultInvariantDepth      = 15
	DefaultFuzzDictWeight      = 40
	DefaultInvariantDictWeight = 80
	DefaultDictionaryCap       = 10_000
	DefaultShrinkRunLimit      = 1 << 18
)

func defaultDictionary(weight uint32) FuzzDictionaryConfig {
	return FuzzDictionaryConfig{
		DictionaryWeight:           weight,
		IncludeStorage:             true,
		IncludePushBytes:           true,
		MaxFuzzDictionaryAddresses: DefaultDictionaryCap,
		MaxFuzzDictionaryValues:    DefaultDictionaryCap,
	}
}

// DefaultTestOptions returns the options used when the caller overrides nothing
func DefaultTestOptions() TestOptions {
	return TestOptions{
		Fuzz: FuzzConfig{
			Runs:           DefaultRuns,
			MaxTestRejects: DefaultMaxTestRejects,
			Seed:           nil,
			Dictionary:     defaultDictionary(DefaultFuzzDictWeight),
		},
		Invariant: InvariantConfig{
			Runs:           DefaultRuns,
			Depth:          DefaultInvariantDepth,
			FailOnRevert:   false,
			CallOverride:   false,
			Dictionary:     defaultDictionary(DefaultInvariantDictWeight),
			ShrinkSequence: true,
			ShrinkRunLimit: DefaultShrinkRunLimit,
		},
	}
}

// Overrides replace single option fields. Nil fields keep the base value.
type Overrides struct {
	FuzzRuns             *uint32 `toml:"fuzz_runs"`
	FuzzMaxTestRejects   *uint32 `toml:"fuzz_max_test_rejects"`
	FuzzSeed             *uint64 `toml:"fuzz_seed"`
	FuzzDictionaryWeight *uint32 `toml:"fuzz_dictionary_weight"`

	InvariantRuns             *uint32 `toml:"invariant_runs"`
	InvariantDepth            *uint32 `toml:"invariant_depth"`
	InvariantFailOnRevert     *bool   `toml:"invariant_fail_on_revert"`
	InvariantCallOverride     *bool   `toml:"invariant_call_override"`
	InvariantDictionaryWeight *uint32 `toml:"invariant_dictionary_weight"`
	InvariantShrinkSequence   *bool   `toml:"invariant_shrink_sequence"`
	InvariantShrinkRunLimit   *int    `toml:"invariant_shrink_run_limit"`

	IncludeStorage   *bool `toml:"include_storage"`
	IncludePushBytes *bool `toml:"include_push_bytes"`
}

// ApplyOverrides returns base with every non-nil override applied. base is not modified.
func ApplyOverrides(base TestOptions, o Overrides) TestOptions {
	res := base
	if base.Fuzz.Seed != nil {
		seed := *base.Fuzz.Seed
		res.Fuzz.Seed = &seed
	}

	set(&res.Fuzz.Runs, o.FuzzRuns)
	set(&res.Fuzz.MaxTestRejects, o.FuzzMaxTestRejects)
	set(&res.Fuzz.Dictionary.DictionaryWeight, o.FuzzDictionaryWeight)
	if o.FuzzSeed != nil {
		seed := *o.FuzzSeed
		res.Fuzz.Seed = &seed
	}

	set(&res.Invariant.Runs, o.InvariantRuns)
	set(&res.Invariant.Depth, o.InvariantDepth)
	set(&res.Invariant.FailOnRevert, o.InvariantFailOnRevert)
	set(&res.Invariant.CallOverride, o.InvariantCallOverride)
	set(&res.Invariant.Dictionary.DictionaryWeight, o.InvariantDictionaryWeight)
	set(&res.Invariant.ShrinkSequence, o.InvariantShrinkSequence)
	set(&res.Invariant.ShrinkRunLimit, o.InvariantShrinkRunLimit)

	set(&res.Fuzz.Dictionary.IncludeStorage, o.IncludeStorage)
	set(&res.Invariant.Dictionary.IncludeStorage, o.IncludeStorage)
	set(&res.Fuzz.Dictionary.IncludePushBytes, o.IncludePushBytes)
	set(&res.Invariant.Dictionary.IncludePushBytes, o.IncludePushBytes)

	return res
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
