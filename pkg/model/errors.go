package model

import "fmt"

// DataError reports malformed or inconsistent dataset content, attributed to
// the sheet it came from.
type DataError struct {
	Table  string
	Detail string
}

func (err DataError) Error() string {
	return fmt.Sprintf("%v sheet: %v", err.Table, err.Detail)
}

// ModelBuildError reports an instance that can never be staffed, detected
// before any solver runs.
type ModelBuildError struct {
	Detail string
}

func (err ModelBuildError) Error() string {
	return fmt.Sprintf("cannot build model: %v", err.Detail)
}

// InfeasibleError reports that the solver proved no assignment satisfies the
// enabled constraint groups.
type InfeasibleError struct{}

func (InfeasibleError) Error() string {
	return "no feasible allocation exists under the enabled constraints"
}

// SolverError wraps a backend failure: a missing executable, a crash or
// unparseable output. The model itself may still be feasible.
type SolverError struct {
	Err error
}

func (err SolverError) Error() string {
	return fmt.Sprintf("solver failed: %v", err.Err)
}

func (err SolverError) Unwrap() error {
	return err.Err
}
