package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scie-teaching/tutoralloc/config"
	"github.com/scie-teaching/tutoralloc/internal/csvio"
	"github.com/scie-teaching/tutoralloc/pkg/lp"
	"github.com/scie-teaching/tutoralloc/pkg/model"
)

var solvers = map[string]func() lp.Solver{
	"cbc":    lp.NewCBCSolver,
	"gurobi": lp.NewGurobiSolver,
	"glpk":   lp.NewGLPKSolver,
}

var (
	cfgPath          string
	solverOverride   string
	availabilityPath string
	allocationsPath  string
	conflictsPath    string
)

var rootCmd = &cobra.Command{
	Use:   "tutoralloc",
	Short: "Tutor-to-workshop allocation via MILP solvers",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (json or yaml)")
	rootCmd.PersistentFlags().StringVar(&solverOverride, "solver", "", "override the configured backend: cbc, gurobi or glpk")
	rootCmd.PersistentFlags().StringVar(&availabilityPath, "availability", "availability.csv", "tutor availability grid")
	rootCmd.PersistentFlags().StringVar(&allocationsPath, "allocations", "allocations.csv", "contracted workshops per tutor and course")
	rootCmd.PersistentFlags().StringVar(&conflictsPath, "conflicts", "", "optional tutor conflict pairs")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// setup loads the configuration and the dataset shared by every command.
func setup() (*config.Config, lp.Solver, model.ModelInput, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, model.ModelInput{}, fmt.Errorf("load config: %w", err)
	}
	if solverOverride != "" {
		cfg.Solver.Name = solverOverride
	}
	newSolver, ok := solvers[cfg.Solver.Name]
	if !ok {
		return nil, nil, model.ModelInput{}, fmt.Errorf("%v is not a valid solver", cfg.Solver.Name)
	}

	raw, err := csvio.Load(csvio.Dataset{
		Availability: availabilityPath,
		Allocations:  allocationsPath,
		Conflicts:    conflictsPath,
	})
	if err != nil {
		return nil, nil, model.ModelInput{}, fmt.Errorf("load dataset: %w", err)
	}
	if cfg.MainCourse != "" {
		raw.MainCourse = cfg.MainCourse
	}

	input, err := model.ProcessRawInput(raw)
	if err != nil {
		return nil, nil, model.ModelInput{}, err
	}
	return cfg, newSolver(), input, nil
}
