package lp

import "time"

type Status int

const (
	StatusOptimal    Status = iota // solution proven optimal within the configured gap
	StatusFeasible                 // stopped on the time limit with an incumbent solution
	StatusInfeasible               // no assignment of the variables satisfies the constraints
)

// Options bound a single solve call.
type Options struct {
	TimeLimit time.Duration
	Gap       float64 // relative optimality gap, e.g. 0.05 for 5%
}

type Solution struct {
	Status    Status
	Objective float64
	Values    map[string]float64
}

// Solver submits a model to a MILP backend. Infeasibility is a Status, not an
// error; errors are reserved for backend failures unrelated to feasibility.
type Solver interface {
	Solve(model Model, options Options) (Solution, error)
}
