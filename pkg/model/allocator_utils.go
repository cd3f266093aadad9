package model

import (
	"github.com/samber/lo"

	"github.com/scie-teaching/tutoralloc/pkg/lp"
)

// assembleConstraints runs every enabled constraint builder on its own
// goroutine and collects the generated constraints over a channel.
func assembleConstraints(state constraintState) []lp.Constraint {
	builders := make([]func(constraintState) []lp.Constraint, 0, len(constraintBuilders))
	for group, builder := range constraintBuilders {
		if state.config.enabled(group) {
			builders = append(builders, builder)
		}
	}

	constraintsChannel := make(chan []lp.Constraint)
	for _, builder := range builders {
		go func(builder func(constraintState) []lp.Constraint) {
			constraintsChannel <- builder(state)
		}(builder)
	}

	constraints := make([]lp.Constraint, 0)
	collected := 0
	for batch := range constraintsChannel {
		constraints = append(constraints, batch...)

		if collected++; collected == len(builders) {
			close(constraintsChannel)
		}
	}
	return constraints
}

// pruneTrivial removes constraints with no terms. A termless constraint is
// either vacuously true or plainly unsatisfiable, e.g. a supervision
// requirement on a workshop no supertutor can attend; the latter makes the
// whole model infeasible without involving the solver.
func pruneTrivial(constraints []lp.Constraint) ([]lp.Constraint, bool) {
	pruned := make([]lp.Constraint, 0, len(constraints))
	for _, constraint := range constraints {
		if len(constraint.Terms) > 0 {
			pruned = append(pruned, constraint)
			continue
		}
		switch constraint.Op {
		case lp.GE:
			if constraint.RHS > 0 {
				return nil, false
			}
		case lp.LE:
			if constraint.RHS < 0 {
				return nil, false
			}
		case lp.EQ:
			if constraint.RHS != 0 {
				return nil, false
			}
		}
	}
	return pruned, true
}

// extractAssignment reads the solved variable values back into a tutor by
// workshop matrix. Values above 0.9 count as assigned; MILP backends may
// report binaries as 0.9999....
func extractAssignment(input ModelInput, vars map[[2]int]string, values map[string]float64) Assignment {
	assignment := make(Assignment, len(input.Tutors))
	for t := range input.Tutors {
		assignment[t] = make([]bool, len(input.Workshops))
		for w := range input.Workshops {
			if variable, ok := vars[[2]int{t, w}]; ok && values[variable] > 0.9 {
				assignment[t][w] = true
			}
		}
	}
	return assignment
}

// verify re-checks every enabled constraint group against a solved
// assignment. It trusts nothing the solver reported.
func verify(assignment Assignment, input ModelInput, config Config) bool {
	config = config.withDefaults()

	if len(assignment) != len(input.Tutors) {
		return false
	}
	for t := range assignment {
		if len(assignment[t]) != len(input.Workshops) {
			return false
		}
	}

	// A tutor may only teach workshops they are not unavailable for,
	// regardless of any group toggles.
	for t := range input.Tutors {
		for w := range input.Workshops {
			if assignment[t][w] && !input.Eligible(t, w) {
				return false
			}
		}
	}

	if config.enabled(GroupCoverage) {
		for w, workshop := range input.Workshops {
			assigned := lo.CountBy(lo.Range(len(input.Tutors)), func(t int) bool { return assignment[t][w] })
			if assigned != workshop.Required {
				return false
			}
		}
	}

	if config.enabled(GroupTemporal) {
		for t := range input.Tutors {
			for w1 := 0; w1 < len(input.Workshops)-1; w1++ {
				for w2 := w1 + 1; w2 < len(input.Workshops); w2++ {
					if assignment[t][w1] && assignment[t][w2] && input.Overlaps(w1, w2) {
						return false
					}
				}
			}
		}
	}

	if config.enabled(GroupConflict) {
		for _, pair := range input.Conflicts {
			for w := range input.Workshops {
				if assignment[pair[0]][w] && assignment[pair[1]][w] {
					return false
				}
			}
		}
	}

	if config.enabled(GroupSupertutor) {
		for w, workshop := range input.Workshops {
			if !config.isSupervised(workshop.Category()) || workshop.Required == 0 {
				continue
			}
			if !lo.SomeBy(lo.Range(len(input.Tutors)), func(t int) bool {
				return input.Tutors[t].Supertutor && assignment[t][w]
			}) {
				return false
			}
		}
	}

	if config.enabled(GroupLoad) {
		for t, tutor := range input.Tutors {
			for _, course := range input.Courses {
				assigned := 0
				for w, workshop := range input.Workshops {
					if workshop.Course == course && assignment[t][w] {
						assigned++
					}
				}
				bounds := config.loadBounds(course, tutor.Loads[course])
				if assigned < bounds.Min || assigned > bounds.Max {
					return false
				}
			}
		}
	}

	if config.enabled(GroupExperience) {
		for w, workshop := range input.Workshops {
			if workshop.Required == 0 {
				continue
			}
			if !lo.SomeBy(lo.Range(len(input.Tutors)), func(t int) bool {
				return input.Tutors[t].Experienced && assignment[t][w]
			}) {
				return false
			}
		}
	}

	if config.enabled(GroupSupertutorSpread) {
		for w := range input.Workshops {
			supertutors := lo.CountBy(lo.Range(len(input.Tutors)), func(t int) bool {
				return input.Tutors[t].Supertutor && assignment[t][w]
			})
			if supertutors > 1 {
				return false
			}
		}
	}

	if config.enabled(GroupFirstDay) {
		for t, tutor := range input.Tutors {
			if !tutor.Supertutor {
				continue
			}
			if !lo.SomeBy(lo.Range(len(input.Workshops)), func(w int) bool {
				return input.Workshops[w].Day == input.FirstDay && assignment[t][w]
			}) {
				return false
			}
		}
	}

	return true
}
