package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scie-teaching/tutoralloc/internal/logger"
	"github.com/scie-teaching/tutoralloc/pkg/model"
)

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Localize which constraint group makes the instance unstaffable",
	RunE:  diagnose,
}

func init() {
	rootCmd.AddCommand(diagnoseCmd)
}

func diagnose(cmd *cobra.Command, args []string) error {
	log := logger.New("diagnose")

	cfg, solver, input, err := setup()
	if err != nil {
		return err
	}

	group, err := model.Diagnose(solver, cfg.ModelConfig(), input)
	var infeasible model.InfeasibleError
	switch {
	case errors.As(err, &infeasible):
		log.Warn().Msg("no single constraint group explains the infeasibility")
		fmt.Println("infeasible: no single culprit group; review the dataset")
	case err != nil:
		return err
	case group == "":
		log.Info().Msg("instance is feasible as configured")
		fmt.Println("feasible: nothing to diagnose")
	default:
		log.Info().Str("group", group).Msg("culprit group found")
		fmt.Printf("disabling the %v constraints makes the instance feasible\n", group)
	}
	return nil
}
