package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scie-teaching/tutoralloc/internal/csvio"
	"github.com/scie-teaching/tutoralloc/internal/logger"
	"github.com/scie-teaching/tutoralloc/internal/report"
	"github.com/scie-teaching/tutoralloc/pkg/model"
)

var (
	schedulePath string
	gridPath     string
	loadsPath    string
)

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Compute an allocation and write the roster",
	RunE:  solve,
}

func init() {
	solveCmd.Flags().StringVar(&schedulePath, "out", "schedule.csv", "workshop roster output")
	solveCmd.Flags().StringVar(&gridPath, "grid-out", "", "optional tutor x workshop grid output")
	solveCmd.Flags().StringVar(&loadsPath, "loads-out", "", "optional per-tutor per-course count output")
	rootCmd.AddCommand(solveCmd)
}

func solve(cmd *cobra.Command, args []string) error {
	log := logger.New("solve")

	cfg, solver, input, err := setup()
	if err != nil {
		return err
	}
	log.Info().
		Str("solver", cfg.Solver.Name).
		Int("tutors", len(input.Tutors)).
		Int("workshops", len(input.Workshops)).
		Msg("dataset loaded")

	allocator := model.NewMILPAllocator(solver, cfg.ModelConfig())
	result, err := allocator.Build(input)
	var infeasible model.InfeasibleError
	if errors.As(err, &infeasible) {
		return fmt.Errorf("%w; run the diagnose command to localize the cause", err)
	}
	if err != nil {
		return err
	}

	if !allocator.Verify(result.Assignment, input) {
		return fmt.Errorf("solver returned an assignment that fails verification")
	}
	log.Info().
		Float64("objective", result.Objective).
		Bool("proven", result.Proven).
		Msg("allocation solved")
	report.Summarize(input, result.Assignment).Log(log)

	if err := csvio.WriteSchedule(schedulePath, input, result.Assignment); err != nil {
		return fmt.Errorf("write schedule: %w", err)
	}
	if gridPath != "" {
		if err := csvio.WriteGrid(gridPath, input, result.Assignment); err != nil {
			return fmt.Errorf("write grid: %w", err)
		}
	}
	if loadsPath != "" {
		if err := csvio.WriteLoads(loadsPath, input, result.Assignment); err != nil {
			return fmt.Errorf("write loads: %w", err)
		}
	}
	log.Info().Str("out", schedulePath).Msg("roster written")
	return nil
}
