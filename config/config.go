package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/samber/lo"

	"github.com/scie-teaching/tutoralloc/pkg/model"
)

// SolverConfig selects and budgets the MILP backend.
type SolverConfig struct {
	// Name is the backend: "cbc", "gurobi" or "glpk".
	Name string `json:"name"`
	// TimeLimitSeconds caps the solver wall clock.
	TimeLimitSeconds int `json:"timeLimitSeconds"`
	// Gap is the relative optimality gap the solver may stop at.
	Gap float64 `json:"gap"`
}

// BoundsConfig is an inclusive per-tutor workshop-count range.
type BoundsConfig struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type Config struct {
	Solver SolverConfig `json:"solver"`

	// AvailableWeight and IfNeededWeight score assignments by availability
	// tier; Available must outweigh IfNeeded.
	AvailableWeight float64 `json:"availableWeight"`
	IfNeededWeight  float64 `json:"ifNeededWeight"`
	// DiversityWeight scores gender-diverse pairs; 0 disables the term.
	DiversityWeight float64 `json:"diversityWeight"`

	// MainCourse is assumed for workshop labels without a course suffix.
	MainCourse string `json:"mainCourse"`

	// LoadBounds relaxes the exact contracted workshop counts of a course
	// into one shared range.
	LoadBounds map[string]BoundsConfig `json:"loadBounds"`

	// Supervised lists the workshop categories that need a supertutor.
	// Omitting it supervises every category.
	Supervised map[string]bool `json:"supervised"`

	// DisabledGroups names constraint groups to leave out of the model.
	DisabledGroups []string `json:"disabledGroups"`
}

// Load reads the config file (json or yaml by extension) with optional TA_
// environment overrides, e.g. TA_SOLVER__NAME=glpk. An empty path yields the
// defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	if err := k.Load(env.Provider("TA_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "ta_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Solver.Name == "" {
		c.Solver.Name = "cbc"
	}
	if c.Solver.TimeLimitSeconds == 0 {
		c.Solver.TimeLimitSeconds = 300
	}
	if c.AvailableWeight == 0 {
		c.AvailableWeight = model.DefaultAvailableWeight
	}
	if c.IfNeededWeight == 0 {
		c.IfNeededWeight = model.DefaultIfNeededWeight
	}
}

// Validate checks field coherence.
func (c Config) Validate() error {
	if !lo.Contains([]string{"cbc", "gurobi", "glpk"}, c.Solver.Name) {
		return fmt.Errorf("unknown solver %s", c.Solver.Name)
	}
	if c.Solver.TimeLimitSeconds <= 0 {
		return fmt.Errorf("solver time limit must be positive")
	}
	if c.Solver.Gap < 0 {
		return fmt.Errorf("solver gap cannot be negative")
	}
	if c.IfNeededWeight <= 0 || c.AvailableWeight <= c.IfNeededWeight {
		return fmt.Errorf("weights must satisfy availableWeight > ifNeededWeight > 0")
	}
	if c.DiversityWeight < 0 {
		return fmt.Errorf("diversityWeight cannot be negative")
	}
	for course, bounds := range c.LoadBounds {
		if bounds.Min < 0 || bounds.Max < bounds.Min {
			return fmt.Errorf("loadBounds for %s must satisfy 0 <= min <= max", course)
		}
	}
	for _, group := range c.DisabledGroups {
		if !lo.Contains(model.GroupNames, group) {
			return fmt.Errorf("unknown constraint group %s", group)
		}
	}
	return nil
}

// ModelConfig maps the file-level settings onto the model policy.
func (c Config) ModelConfig() model.Config {
	return model.Config{
		AvailableWeight: c.AvailableWeight,
		IfNeededWeight:  c.IfNeededWeight,
		DiversityWeight: c.DiversityWeight,
		TimeLimit:       time.Duration(c.Solver.TimeLimitSeconds) * time.Second,
		Gap:             c.Solver.Gap,
		LoadBounds: lo.MapValues(c.LoadBounds, func(bounds BoundsConfig, _ string) model.Bounds {
			return model.Bounds{Min: bounds.Min, Max: bounds.Max}
		}),
		Supervised:     c.Supervised,
		DisabledGroups: c.DisabledGroups,
	}
}
