package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a reduction test case.
type Scenario struct {
	// Name uniquely identifies this scenario and its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Module is the path of the input module document.
	// Relative paths are resolved against the scenario file's directory.
	Module string `yaml:"module"`

	// Passes names the passes to run. Empty means all registered passes.
	Passes []string `yaml:"passes,omitempty"`

	// RunID is an optional fixed run ID. If empty, "test-run-default" is used.
	RunID string `yaml:"run_id,omitempty"`

	// Expect holds the checks applied to the reduced module.
	Expect Expectations `yaml:"expect"`
}

// Expectations describe the reduced module.
type Expectations struct {
	// Accepted is the expected number of accepted candidates, if set.
	Accepted *int `yaml:"accepted,omitempty"`

	// Structs maps a struct label in the reduced module to its field types.
	Structs map[string][]string `yaml:"structs,omitempty"`

	// Unchanged lists struct labels whose fields must survive unmodified.
	Unchanged []string `yaml:"unchanged,omitempty"`
}

func (e Expectations) empty() bool {
	return e.Accepted == nil && len(e.Structs) == 0 && len(e.Unchanged) == 0
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "expects:" vs "expect:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Module != "" && !filepath.IsAbs(scenario.Module) {
		scenario.Module = filepath.Join(filepath.Dir(path), scenario.Module)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarios loads every *.yaml scenario in dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no scenarios in %s", dir)
	}

	scenarios := make([]*Scenario, 0, len(paths))
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(p), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Module == "" {
		return fmt.Errorf("module is required")
	}

	if _, err := os.Stat(s.Module); os.IsNotExist(err) {
		return fmt.Errorf("module file not found: %s", s.Module)
	}

	if s.Expect.empty() {
		return fmt.Errorf("expect must set accepted, structs or unchanged")
	}

	if s.Expect.Accepted != nil && *s.Expect.Accepted < 0 {
		return fmt.Errorf("expect.accepted must be non-negative")
	}

	for label, fields := range s.Expect.Structs {
		if fields == nil {
			return fmt.Errorf("expect.structs[%s]: field list is required (use [] for none)", label)
		}
	}

	for i, label := range s.Expect.Unchanged {
		if label == "" {
			return fmt.Errorf("expect.unchanged[%d]: label is required", i)
		}
	}

	return nil
}
