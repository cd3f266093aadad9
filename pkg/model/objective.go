package model

import (
	"fmt"

	"github.com/scie-teaching/tutoralloc/pkg/lp"
)

// objective is the composed maximization target: preference terms over the
// decision variables, plus an optional gender-diversity bonus expressed
// through auxiliary pair variables and their linking constraints.
type objective struct {
	terms       []lp.Term
	binaries    []string        // auxiliary variables introduced by the diversity term
	constraints []lp.Constraint // linking constraints, all tagged GroupDiversity
}

// composeObjective builds the weighted sum the solver maximizes. It has no
// side effects on the state it receives.
func composeObjective(state constraintState) objective {
	composed := objective{terms: preferenceTerms(state)}

	if state.config.DiversityWeight > 0 && state.config.enabled(GroupDiversity) {
		terms, binaries, constraints := diversityTerms(state)
		composed.terms = append(composed.terms, terms...)
		composed.binaries = binaries
		composed.constraints = constraints
	}
	return composed
}

// preferenceTerms reward Available assignments over IfNeeded ones.
func preferenceTerms(state constraintState) []lp.Term {
	terms := make([]lp.Term, 0, len(state.vars))
	for t := range state.input.Tutors {
		for w := range state.input.Workshops {
			variable, ok := state.vars[[2]int{t, w}]
			if !ok {
				continue
			}
			weight := state.config.IfNeededWeight
			if state.input.Availability[t][w] == Available {
				weight = state.config.AvailableWeight
			}
			terms = append(terms, lp.Term{Coef: weight, Var: variable})
		}
	}
	return terms
}

// diversityTerms reward workshops staffed by tutors of differing gender
// identities. For each eligible pair at a multi-tutor workshop, an auxiliary
// binary y equals 1 exactly when both tutors are assigned, enforced through
// the standard linearization of a binary product.
func diversityTerms(state constraintState) ([]lp.Term, []string, []lp.Constraint) {
	terms := make([]lp.Term, 0)
	binaries := make([]string, 0)
	constraints := make([]lp.Constraint, 0)

	for w, workshop := range state.input.Workshops {
		if workshop.Required < 2 {
			continue
		}
		for t1 := 0; t1 < len(state.input.Tutors)-1; t1++ {
			variable1, ok := state.vars[[2]int{t1, w}]
			if !ok {
				continue
			}
			for t2 := t1 + 1; t2 < len(state.input.Tutors); t2++ {
				variable2, ok := state.vars[[2]int{t2, w}]
				if !ok || state.input.Tutors[t1].GenderID == state.input.Tutors[t2].GenderID {
					continue
				}

				pair := fmt.Sprintf("y_%v_%v_%v", t1, t2, w)
				binaries = append(binaries, pair)
				terms = append(terms, lp.Term{Coef: state.config.DiversityWeight, Var: pair})

				// y <= x1, y <= x2, y >= x1 + x2 - 1
				constraints = append(constraints,
					lp.Constraint{
						Name:  fmt.Sprintf("link1_%v", pair),
						Group: GroupDiversity,
						Terms: []lp.Term{{Coef: 1, Var: pair}, {Coef: -1, Var: variable1}},
						Op:    lp.LE,
						RHS:   0,
					},
					lp.Constraint{
						Name:  fmt.Sprintf("link2_%v", pair),
						Group: GroupDiversity,
						Terms: []lp.Term{{Coef: 1, Var: pair}, {Coef: -1, Var: variable2}},
						Op:    lp.LE,
						RHS:   0,
					},
					lp.Constraint{
						Name:  fmt.Sprintf("link3_%v", pair),
						Group: GroupDiversity,
						Terms: []lp.Term{{Coef: 1, Var: variable1}, {Coef: 1, Var: variable2}, {Coef: -1, Var: pair}},
						Op:    lp.LE,
						RHS:   1,
					},
				)
			}
		}
	}
	return terms, binaries, constraints
}
