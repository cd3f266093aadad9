package model

import (
	"fmt"
	"testing"

	"github.com/scie-teaching/tutoralloc/pkg/lp"
)

// bruteForceSolver enumerates every binary assignment and returns the proven
// optimum. It stands in for the external MILP executables so the model tests
// stay hermetic; instances must stay small.
type bruteForceSolver struct{}

func (bruteForceSolver) Solve(model lp.Model, _ lp.Options) (lp.Solution, error) {
	n := len(model.Binaries)
	if n > 24 {
		return lp.Solution{}, fmt.Errorf("instance too large for brute force: %v variables", n)
	}

	found := false
	var bestObjective float64
	var bestValues map[string]float64

	for mask := 0; mask < 1<<n; mask++ {
		values := make(map[string]float64, n)
		for i, variable := range model.Binaries {
			if mask&(1<<i) != 0 {
				values[variable] = 1
			}
		}
		if !satisfies(model.Constraints, values) {
			continue
		}

		objective := 0.0
		for _, term := range model.Objective {
			objective += term.Coef * values[term.Var]
		}
		better := objective > bestObjective
		if model.Sense == lp.Minimize {
			better = objective < bestObjective
		}
		if !found || better {
			found = true
			bestObjective = objective
			bestValues = values
		}
	}

	if !found {
		return lp.Solution{Status: lp.StatusInfeasible}, nil
	}
	return lp.Solution{Status: lp.StatusOptimal, Objective: bestObjective, Values: bestValues}, nil
}

func satisfies(constraints []lp.Constraint, values map[string]float64) bool {
	for _, constraint := range constraints {
		total := 0.0
		for _, term := range constraint.Terms {
			total += term.Coef * values[term.Var]
		}
		switch constraint.Op {
		case lp.LE:
			if total > constraint.RHS {
				return false
			}
		case lp.GE:
			if total < constraint.RHS {
				return false
			}
		case lp.EQ:
			if total != constraint.RHS {
				return false
			}
		}
	}
	return true
}

// feasibleRaw is the baseline staffable instance: one supertutor carrying
// two workshops and a second tutor filling the Monday pair.
func feasibleRaw() RawInput {
	return RawInput{
		Workshops: []string{"Mon 8am-10am", "Wed 2pm-4pm"},
		Tutors:    []string{"Alice (Super)", "Bob", "Cara"},
		Availability: map[string][]string{
			"Alice (Super)": {"Available", "Available"},
			"Bob":           {"Available", "NotAvailable"},
			"Cara":          {"IfNeeded", "Available"},
		},
		Required: []int{2, 1},
		Attributes: []RawTutor{
			{Name: "Alice (Super)", Experience: 1, GenderID: "F", Loads: map[string]int{"SCIE1000": 2}},
			{Name: "Bob", Experience: 1, GenderID: "M", Loads: map[string]int{"SCIE1000": 1}},
			{Name: "Cara", Experience: 0, GenderID: "F", Loads: map[string]int{"SCIE1000": 0}},
		},
		Conflicts:  [][2]string{{"Bob", "Cara"}},
		Courses:    []string{"SCIE1000"},
		MainCourse: "SCIE1000",
	}
}

func mustProcess(t *testing.T, raw RawInput) ModelInput {
	t.Helper()
	input, err := ProcessRawInput(raw)
	if err != nil {
		t.Fatalf("cannot process raw input: %v", err)
	}
	return input
}

func tutorIndexByName(t *testing.T, input ModelInput, name string) int {
	t.Helper()
	for i, tutor := range input.Tutors {
		if tutor.Name == name {
			return i
		}
	}
	t.Fatalf("unknown tutor %q", name)
	return -1
}
