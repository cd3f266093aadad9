package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/scie-teaching/tutoralloc/pkg/model"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("cannot write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")

	assert.Nil(t, err)
	assert.Equal(t, "cbc", cfg.Solver.Name)
	assert.Equal(t, 300, cfg.Solver.TimeLimitSeconds)
	assert.Equal(t, float64(model.DefaultAvailableWeight), cfg.AvailableWeight)
	assert.Equal(t, float64(model.DefaultIfNeededWeight), cfg.IfNeededWeight)
	assert.Equal(t, 0.0, cfg.DiversityWeight)
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{
		"solver": {"name": "glpk", "timeLimitSeconds": 60, "gap": 0.05},
		"availableWeight": 20,
		"ifNeededWeight": 2,
		"diversityWeight": 0.5,
		"mainCourse": "SCIE1000",
		"loadBounds": {"SCIE1000": {"min": 1, "max": 3}},
		"supervised": {"SCIE1000": true, "external": false},
		"disabledGroups": ["diversity"]
	}`)

	cfg, err := Load(path)

	assert.Nil(t, err)
	assert.Equal(t, "glpk", cfg.Solver.Name)
	assert.Equal(t, 0.05, cfg.Solver.Gap)
	assert.Equal(t, "SCIE1000", cfg.MainCourse)
	assert.Equal(t, BoundsConfig{Min: 1, Max: 3}, cfg.LoadBounds["SCIE1000"])
	assert.False(t, cfg.Supervised["external"])
	assert.Equal(t, []string{"diversity"}, cfg.DisabledGroups)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
solver:
  name: gurobi
  timeLimitSeconds: 120
availableWeight: 10
ifNeededWeight: 1
`)

	cfg, err := Load(path)

	assert.Nil(t, err)
	assert.Equal(t, "gurobi", cfg.Solver.Name)
	assert.Equal(t, 120, cfg.Solver.TimeLimitSeconds)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "config.json", `{"solver": {"name": "cbc"}}`)
	t.Setenv("TA_SOLVER__NAME", "glpk")

	cfg, err := Load(path)

	assert.Nil(t, err)
	assert.Equal(t, "glpk", cfg.Solver.Name)
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"Unknown solver":           `{"solver": {"name": "cplex"}}`,
		"Negative gap":             `{"solver": {"gap": -0.1}}`,
		"Inverted weights":         `{"availableWeight": 1, "ifNeededWeight": 10}`,
		"Negative diversity":       `{"diversityWeight": -1}`,
		"Inverted load bounds":     `{"loadBounds": {"SCIE1000": {"min": 3, "max": 1}}}`,
		"Unknown constraint group": `{"disabledGroups": ["fairness"]}`,
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, "config.json", content))
			assert.NotNil(t, err)
		})
	}
}

func TestLoadRejectsUnsupportedExtension(t *testing.T) {
	_, err := Load(writeConfig(t, "config.toml", "solver = 1"))

	assert.NotNil(t, err)
}

func TestModelConfig(t *testing.T) {
	cfg := Config{
		Solver:          SolverConfig{Name: "cbc", TimeLimitSeconds: 60, Gap: 0.1},
		AvailableWeight: 10,
		IfNeededWeight:  1,
		DiversityWeight: 2,
		LoadBounds:      map[string]BoundsConfig{"SCIE1000": {Min: 0, Max: 2}},
		Supervised:      map[string]bool{"SCIE1000": true},
		DisabledGroups:  []string{"firstDay"},
	}

	modelCfg := cfg.ModelConfig()

	assert.Equal(t, 60*time.Second, modelCfg.TimeLimit)
	assert.Equal(t, 0.1, modelCfg.Gap)
	assert.Equal(t, model.Bounds{Min: 0, Max: 2}, modelCfg.LoadBounds["SCIE1000"])
	assert.Equal(t, map[string]bool{"SCIE1000": true}, modelCfg.Supervised)
	assert.Equal(t, []string{"firstDay"}, modelCfg.DisabledGroups)
}
