package expect

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// tableFile is the TOML layout of an expectation file:
//
//	[[contracts.Counter]]
//	test = "testIncrement"
//	should_pass = true
//	logs = ["x=2"]
type tableFile struct {
	Contracts map[string][]Expectation `toml:"contracts"`
}

// LoadTable reads an expectation table from a TOML file
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read expectation file: %w", err)
	}
	return ParseTable(data)
}

// ParseTable decodes a TOML expectation table. Every entry needs a test name
// and names must be unique within a contract.
func ParseTable(data []byte) (Table, error) {
	var file tableFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	table := make(Table, len(file.Contracts))
	for contract, exps := range file.Contracts {
		seen := make(map[string]bool, len(exps))
		for i, exp := range exps {
			if exp.Test == "" {
				return nil, fmt.Errorf("expectation %d of %s is missing a test name", i, contract)
			}
			if seen[exp.Test] {
				return nil, fmt.Errorf("duplicate expectation for %s::%s", contract, exp.Test)
			}
			seen[exp.Test] = true
		}
		table[contract] = exps
	}
	return table, nil
}
