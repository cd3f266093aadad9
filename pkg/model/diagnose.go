package model

import (
	"errors"

	"github.com/scie-teaching/tutoralloc/pkg/lp"
)

// Diagnose localizes the constraint group responsible for an infeasible
// instance by re-solving with one group disabled at a time, mirroring the
// manual comment-out-and-rerun workflow this replaces.
//
// It returns ("", nil) when the instance is feasible as configured, the name
// of the first group whose removal restores feasibility, or ("",
// InfeasibleError{}) when no single group explains the infeasibility.
func Diagnose(solver lp.Solver, config Config, input ModelInput) (string, error) {
	if feasible, err := probe(solver, config, input); err != nil {
		return "", err
	} else if feasible {
		return "", nil
	}

	for _, group := range GroupNames {
		if !config.enabled(group) {
			continue
		}
		relaxed := config
		relaxed.DisabledGroups = append(append([]string{}, config.DisabledGroups...), group)

		feasible, err := probe(solver, relaxed, input)
		if err != nil {
			return "", err
		}
		if feasible {
			return group, nil
		}
	}
	return "", InfeasibleError{}
}

// probe runs one solve and reduces the outcome to feasible or not. Build
// errors on a relaxed model count as infeasible for diagnosis purposes;
// backend failures abort.
func probe(solver lp.Solver, config Config, input ModelInput) (bool, error) {
	_, err := NewMILPAllocator(solver, config).Build(input)
	if err == nil {
		return true, nil
	}

	var solverErr SolverError
	if errors.As(err, &solverErr) {
		return false, err
	}
	return false, nil
}
