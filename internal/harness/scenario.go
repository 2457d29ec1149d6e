package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/gridstore/internal/smartops"
)

// Scenario is one declarative test case.
type Scenario struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description,omitempty"`
	Config      ConfigSpec  `yaml:"config"`
	Initial     []RowSpec   `yaml:"initial,omitempty"`
	Steps       []Step      `yaml:"steps"`
	Assertions  []Assertion `yaml:"assertions,omitempty"`
}

// ConfigSpec mirrors the engine configuration in YAML.
type ConfigSpec struct {
	MinimumRows         int  `yaml:"minimum_rows"`
	AlwaysKeepLastEmpty bool `yaml:"always_keep_last_empty"`
	EnableAutoExpand    bool `yaml:"enable_auto_expand"`
	EnableSmartDelete   bool `yaml:"enable_smart_delete"`
}

func (c ConfigSpec) toConfig() smartops.Config {
	return smartops.Config{
		MinimumRows:         c.MinimumRows,
		AlwaysKeepLastEmpty: c.AlwaysKeepLastEmpty,
		EnableAutoExpand:    c.EnableAutoExpand,
		EnableSmartDelete:   c.EnableSmartDelete,
	}
}

// RowSpec is one row as column -> scalar. A null value is a blank cell.
type RowSpec map[string]any

// Step is one operation. Exactly one action field may be set.
type Step struct {
	Add        []RowSpec `yaml:"add,omitempty"`
	Delete     []int     `yaml:"delete,omitempty"` // grid positions, resolved before the step runs
	AutoExpand bool      `yaml:"auto_expand,omitempty"`
	Cleanup    bool      `yaml:"cleanup,omitempty"`
}

func (s Step) actionCount() int {
	n := 0
	if len(s.Add) > 0 {
		n++
	}
	if len(s.Delete) > 0 {
		n++
	}
	if s.AutoExpand {
		n++
	}
	if s.Cleanup {
		n++
	}
	return n
}

// Validate checks the scenario is well-formed.
func (sc *Scenario) Validate() error {
	if sc.Name == "" {
		return fmt.Errorf("scenario has no name")
	}
	if len(sc.Steps) == 0 {
		return fmt.Errorf("scenario %q has no steps", sc.Name)
	}
	for i, step := range sc.Steps {
		if step.actionCount() != 1 {
			return fmt.Errorf("scenario %q step %d: exactly one action per step", sc.Name, i+1)
		}
	}
	for i, a := range sc.Assertions {
		if err := a.validate(); err != nil {
			return fmt.Errorf("scenario %q assertion %d: %w", sc.Name, i+1, err)
		}
	}
	return nil
}

// LoadScenario reads and validates one scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}
