package testmatrix

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is a named matrix preset, in the same yaml-tagged-struct style as
// core.YAMLCoreProgram: a handful of scalar fields that drive a Builder
// instead of hand-writing a matrix literal for every named test run.
type Scenario struct {
	Name   string `yaml:"name"`
	Seed   int    `yaml:"seed"`
	ColInc int    `yaml:"col_inc"`
	RowInc int    `yaml:"row_inc"`
	Rows   int    `yaml:"rows"`
	Cols   int    `yaml:"cols"`
}

// yamlRoot is the root structure of a scenario file, mirroring core.YAMLRoot's
// single wrapping field around a list of named entries.
type yamlRoot struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// LoadScenariosFromYAML parses a list of named presets from path.
func LoadScenariosFromYAML(path string) ([]Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var root yamlRoot
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	return root.Scenarios, nil
}

// FindScenario returns the first scenario with the given name.
func FindScenario(scenarios []Scenario, name string) (Scenario, error) {
	for _, s := range scenarios {
		if s.Name == name {
			return s, nil
		}
	}
	return Scenario{}, fmt.Errorf("testmatrix: no scenario named %q", name)
}

// Builder converts the preset into a Builder, ready for further With* calls
// or an immediate Build.
func (s Scenario) Builder() Builder {
	return NewBuilder().
		WithSeed(s.Seed).
		WithIncrements(s.ColInc, s.RowInc).
		WithDimensions(s.Rows, s.Cols)
}

// Build synthesizes the matrix this preset describes.
func (s Scenario) Build() [][]int {
	return s.Builder().Build()
}
