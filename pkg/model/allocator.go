package model

// Assignment marks which tutor teaches which workshop, indexed
// [tutor][workshop] in ModelInput order.
type Assignment [][]bool

// Result of one allocation run.
type Result struct {
	Assignment Assignment
	Objective  float64
	Proven     bool // true when the solver proved optimality within the configured gap
}

type Allocator interface {
	Build(input ModelInput) (Result, error)

	Verify(assignment Assignment, input ModelInput) bool
}
