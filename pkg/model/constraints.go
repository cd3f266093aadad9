package model

import (
	"fmt"

	"github.com/scie-teaching/tutoralloc/pkg/lp"
)

// Constraint group names. Each group is built independently so that any one
// of them can be disabled to localize an infeasibility.
const (
	GroupCoverage         = "coverage"
	GroupTemporal         = "temporal"
	GroupConflict         = "conflict"
	GroupSupertutor       = "supertutor"
	GroupLoad             = "load"
	GroupExperience       = "experience"
	GroupSupertutorSpread = "supertutorSpread"
	GroupFirstDay         = "firstDay"
	GroupDiversity        = "diversity"
)

// GroupNames lists every constraint group in the order the diagnosis
// workflow probes them.
var GroupNames = []string{
	GroupCoverage,
	GroupTemporal,
	GroupConflict,
	GroupSupertutor,
	GroupLoad,
	GroupExperience,
	GroupSupertutorSpread,
	GroupFirstDay,
	GroupDiversity,
}

var constraintBuilders = map[string]func(state constraintState) []lp.Constraint{
	GroupCoverage:         coverageConstraints,
	GroupTemporal:         temporalConstraints,
	GroupConflict:         conflictConstraints,
	GroupSupertutor:       supertutorConstraints,
	GroupLoad:             loadConstraints,
	GroupExperience:       experienceConstraints,
	GroupSupertutorSpread: supertutorSpreadConstraints,
	GroupFirstDay:         firstDayConstraints,
}

// constraintState carries everything the constraint builders share: the
// normalized input, the policy configuration and the decision variables, one
// per (tutor, workshop) pair whose availability is not NotAvailable.
type constraintState struct {
	input  ModelInput
	config Config
	vars   map[[2]int]string
}

func variableName(tutor, workshop int) string {
	return fmt.Sprintf("x_%v_%v", tutor, workshop)
}

func buildVariables(input ModelInput) map[[2]int]string {
	vars := make(map[[2]int]string)
	for t := range input.Tutors {
		for w := range input.Workshops {
			if input.Eligible(t, w) {
				vars[[2]int{t, w}] = variableName(t, w)
			}
		}
	}
	return vars
}

// coverageConstraints pins each workshop's assigned-tutor count to exactly
// its required count.
func coverageConstraints(state constraintState) []lp.Constraint {
	constraints := make([]lp.Constraint, 0, len(state.input.Workshops))
	for w, workshop := range state.input.Workshops {
		terms := make([]lp.Term, 0)
		for t := range state.input.Tutors {
			if variable, ok := state.vars[[2]int{t, w}]; ok {
				terms = append(terms, lp.Term{Coef: 1, Var: variable})
			}
		}
		constraints = append(constraints, lp.Constraint{
			Name:  fmt.Sprintf("coverage_w%v", w),
			Group: GroupCoverage,
			Terms: terms,
			Op:    lp.EQ,
			RHS:   float64(workshop.Required),
		})
	}
	return constraints
}

// temporalConstraints keep a tutor out of two workshops whose time windows
// intersect, regardless of course.
func temporalConstraints(state constraintState) []lp.Constraint {
	constraints := make([]lp.Constraint, 0)
	for t := range state.input.Tutors {
		for w1 := 0; w1 < len(state.input.Workshops)-1; w1++ {
			variable1, ok := state.vars[[2]int{t, w1}]
			if !ok {
				continue
			}
			for w2 := w1 + 1; w2 < len(state.input.Workshops); w2++ {
				variable2, ok := state.vars[[2]int{t, w2}]
				if !ok || !state.input.Overlaps(w1, w2) {
					continue
				}
				constraints = append(constraints, lp.Constraint{
					Name:  fmt.Sprintf("temporal_t%v_w%v_w%v", t, w1, w2),
					Group: GroupTemporal,
					Terms: []lp.Term{{Coef: 1, Var: variable1}, {Coef: 1, Var: variable2}},
					Op:    lp.LE,
					RHS:   1,
				})
			}
		}
	}
	return constraints
}

// conflictConstraints keep conflicting tutor pairs out of the same workshop.
func conflictConstraints(state constraintState) []lp.Constraint {
	constraints := make([]lp.Constraint, 0)
	for _, pair := range state.input.Conflicts {
		for w := range state.input.Workshops {
			variable1, ok1 := state.vars[[2]int{pair[0], w}]
			variable2, ok2 := state.vars[[2]int{pair[1], w}]
			if !ok1 || !ok2 {
				continue
			}
			constraints = append(constraints, lp.Constraint{
				Name:  fmt.Sprintf("conflict_t%v_t%v_w%v", pair[0], pair[1], w),
				Group: GroupConflict,
				Terms: []lp.Term{{Coef: 1, Var: variable1}, {Coef: 1, Var: variable2}},
				Op:    lp.LE,
				RHS:   1,
			})
		}
	}
	return constraints
}

// supertutorConstraints require at least one supertutor in every workshop of
// a supervised category.
func supertutorConstraints(state constraintState) []lp.Constraint {
	constraints := make([]lp.Constraint, 0)
	for w, workshop := range state.input.Workshops {
		if !state.config.isSupervised(workshop.Category()) || workshop.Required == 0 {
			continue
		}
		terms := make([]lp.Term, 0)
		for t, tutor := range state.input.Tutors {
			if !tutor.Supertutor {
				continue
			}
			if variable, ok := state.vars[[2]int{t, w}]; ok {
				terms = append(terms, lp.Term{Coef: 1, Var: variable})
			}
		}
		constraints = append(constraints, lp.Constraint{
			Name:  fmt.Sprintf("supertutor_w%v", w),
			Group: GroupSupertutor,
			Terms: terms,
			Op:    lp.GE,
			RHS:   1,
		})
	}
	return constraints
}

// loadConstraints bound each tutor's workshop count per course to the
// contracted range.
func loadConstraints(state constraintState) []lp.Constraint {
	constraints := make([]lp.Constraint, 0)
	for t, tutor := range state.input.Tutors {
		for c, course := range state.input.Courses {
			terms := make([]lp.Term, 0)
			for w, workshop := range state.input.Workshops {
				if workshop.Course != course {
					continue
				}
				if variable, ok := state.vars[[2]int{t, w}]; ok {
					terms = append(terms, lp.Term{Coef: 1, Var: variable})
				}
			}

			bounds := state.config.loadBounds(course, tutor.Loads[course])
			if bounds.Min == bounds.Max {
				constraints = append(constraints, lp.Constraint{
					Name:  fmt.Sprintf("load_t%v_c%v", t, c),
					Group: GroupLoad,
					Terms: terms,
					Op:    lp.EQ,
					RHS:   float64(bounds.Min),
				})
				continue
			}
			constraints = append(constraints,
				lp.Constraint{
					Name:  fmt.Sprintf("load_t%v_c%v_lo", t, c),
					Group: GroupLoad,
					Terms: terms,
					Op:    lp.GE,
					RHS:   float64(bounds.Min),
				},
				lp.Constraint{
					Name:  fmt.Sprintf("load_t%v_c%v_hi", t, c),
					Group: GroupLoad,
					Terms: terms,
					Op:    lp.LE,
					RHS:   float64(bounds.Max),
				},
			)
		}
	}
	return constraints
}

// experienceConstraints require at least one experienced tutor per staffed
// workshop.
func experienceConstraints(state constraintState) []lp.Constraint {
	constraints := make([]lp.Constraint, 0)
	for w, workshop := range state.input.Workshops {
		if workshop.Required == 0 {
			continue
		}
		terms := make([]lp.Term, 0)
		for t, tutor := range state.input.Tutors {
			if !tutor.Experienced {
				continue
			}
			if variable, ok := state.vars[[2]int{t, w}]; ok {
				terms = append(terms, lp.Term{Coef: 1, Var: variable})
			}
		}
		constraints = append(constraints, lp.Constraint{
			Name:  fmt.Sprintf("experience_w%v", w),
			Group: GroupExperience,
			Terms: terms,
			Op:    lp.GE,
			RHS:   1,
		})
	}
	return constraints
}

// supertutorSpreadConstraints keep supertutors apart: doubling them up on
// one workshop wastes supervision capacity.
func supertutorSpreadConstraints(state constraintState) []lp.Constraint {
	constraints := make([]lp.Constraint, 0)
	for w := range state.input.Workshops {
		terms := make([]lp.Term, 0)
		for t, tutor := range state.input.Tutors {
			if !tutor.Supertutor {
				continue
			}
			if variable, ok := state.vars[[2]int{t, w}]; ok {
				terms = append(terms, lp.Term{Coef: 1, Var: variable})
			}
		}
		if len(terms) < 2 {
			continue
		}
		constraints = append(constraints, lp.Constraint{
			Name:  fmt.Sprintf("spread_w%v", w),
			Group: GroupSupertutorSpread,
			Terms: terms,
			Op:    lp.LE,
			RHS:   1,
		})
	}
	return constraints
}

// firstDayConstraints put every supertutor in at least one workshop on the
// first teaching day of the week.
func firstDayConstraints(state constraintState) []lp.Constraint {
	constraints := make([]lp.Constraint, 0)
	for t, tutor := range state.input.Tutors {
		if !tutor.Supertutor {
			continue
		}
		terms := make([]lp.Term, 0)
		for w, workshop := range state.input.Workshops {
			if workshop.Day != state.input.FirstDay {
				continue
			}
			if variable, ok := state.vars[[2]int{t, w}]; ok {
				terms = append(terms, lp.Term{Coef: 1, Var: variable})
			}
		}
		constraints = append(constraints, lp.Constraint{
			Name:  fmt.Sprintf("firstday_t%v", t),
			Group: GroupFirstDay,
			Terms: terms,
			Op:    lp.GE,
			RHS:   1,
		})
	}
	return constraints
}
