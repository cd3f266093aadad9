package model

import (
	"fmt"

	"github.com/scie-teaching/tutoralloc/pkg/lp"
)

type milpAllocator struct {
	solver lp.Solver
	config Config
}

// NewMILPAllocator returns an Allocator that formulates the staffing problem
// as a mixed-integer linear program and delegates to the given backend.
func NewMILPAllocator(solver lp.Solver, config Config) Allocator {
	return &milpAllocator{
		solver: solver,
		config: config.withDefaults(),
	}
}

func (allocator *milpAllocator) Build(input ModelInput) (Result, error) {
	//** Initialize decision variables
	// One binary per pair whose availability is not NotAvailable; ineligible
	// pairs have no variable at all, keeping the model small.
	state := constraintState{
		input:  input,
		config: allocator.config,
		vars:   buildVariables(input),
	}

	if err := validateCoverage(state); err != nil {
		return Result{}, err
	}

	//** Build MILP instance
	constraints := assembleConstraints(state)
	composed := composeObjective(state)
	constraints = append(constraints, composed.constraints...)

	constraints, feasible := pruneTrivial(constraints)
	if !feasible {
		return Result{}, InfeasibleError{}
	}

	binaries := make([]string, 0, len(state.vars)+len(composed.binaries))
	for t := range input.Tutors {
		for w := range input.Workshops {
			if variable, ok := state.vars[[2]int{t, w}]; ok {
				binaries = append(binaries, variable)
			}
		}
	}
	binaries = append(binaries, composed.binaries...)

	model := lp.Model{
		Name:        "tutoralloc",
		Sense:       lp.Maximize,
		Objective:   composed.terms,
		Constraints: constraints,
		Binaries:    binaries,
	}

	//** Solve MILP instance
	solution, err := allocator.solver.Solve(model, lp.Options{
		TimeLimit: allocator.config.TimeLimit,
		Gap:       allocator.config.Gap,
	})
	if err != nil {
		return Result{}, SolverError{Err: err}
	}
	if solution.Status == lp.StatusInfeasible {
		return Result{}, InfeasibleError{}
	}

	return Result{
		Assignment: extractAssignment(input, state.vars, solution.Values),
		Objective:  solution.Objective,
		Proven:     solution.Status == lp.StatusOptimal,
	}, nil
}

func (allocator *milpAllocator) Verify(assignment Assignment, input ModelInput) bool {
	return verify(assignment, input, allocator.config)
}

// validateCoverage rejects instances where a workshop requires more tutors
// than could ever staff it, before any solver work is spent.
func validateCoverage(state constraintState) error {
	if !state.config.enabled(GroupCoverage) {
		return nil
	}
	for w, workshop := range state.input.Workshops {
		eligible := 0
		for t := range state.input.Tutors {
			if state.input.Eligible(t, w) {
				eligible++
			}
		}
		if workshop.Required > eligible {
			return ModelBuildError{Detail: fmt.Sprintf("workshop %q requires %v tutors but only %v are eligible", workshop.Name, workshop.Required, eligible)}
		}
	}
	return nil
}
