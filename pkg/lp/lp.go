package lp

import (
	"fmt"
	"strings"
)

type Sense int

const (
	Maximize Sense = iota
	Minimize
)

type Op int

const (
	LE Op = iota
	GE
	EQ
)

// Term is one coefficient-variable product of a linear expression.
type Term struct {
	Coef float64
	Var  string
}

// Constraint is a named linear constraint. Group tags the constraint family
// it belongs to, so whole families can be toggled at once.
type Constraint struct {
	Name  string
	Group string
	Terms []Term
	Op    Op
	RHS   float64
}

// Model is a mixed-integer linear program over binary decision variables.
type Model struct {
	Name        string
	Sense       Sense
	Objective   []Term
	Constraints []Constraint
	Binaries    []string
}

// ToLPFormat serializes the model into the CPLEX LP text format, which every
// supported backend accepts as input.
func (m Model) ToLPFormat() string {
	var builder strings.Builder

	if m.Name != "" {
		fmt.Fprintf(&builder, "\\ %v\n", m.Name)
	}

	if m.Sense == Maximize {
		builder.WriteString("Maximize\n")
	} else {
		builder.WriteString("Minimize\n")
	}
	builder.WriteString(" obj:")
	writeExpression(&builder, m.Objective)
	builder.WriteString("\n")

	builder.WriteString("Subject To\n")
	for _, constraint := range m.Constraints {
		fmt.Fprintf(&builder, " %v:", constraint.Name)
		writeExpression(&builder, constraint.Terms)
		fmt.Fprintf(&builder, " %v %v\n", operators[constraint.Op], formatNumber(constraint.RHS))
	}

	builder.WriteString("Binary\n")
	for _, variable := range m.Binaries {
		fmt.Fprintf(&builder, " %v\n", variable)
	}
	builder.WriteString("End\n")

	return builder.String()
}

var operators = map[Op]string{
	LE: "<=",
	GE: ">=",
	EQ: "=",
}

func writeExpression(builder *strings.Builder, terms []Term) {
	if len(terms) == 0 {
		builder.WriteString(" 0")
		return
	}
	for i, term := range terms {
		coefficient := term.Coef
		sign := "+"
		if coefficient < 0 {
			sign = "-"
			coefficient = -coefficient
		}
		if i == 0 && sign == "+" {
			fmt.Fprintf(builder, " %v %v", formatNumber(coefficient), term.Var)
		} else {
			fmt.Fprintf(builder, " %v %v %v", sign, formatNumber(coefficient), term.Var)
		}
	}
}

// formatNumber avoids scientific notation, which some LP readers reject.
func formatNumber(value float64) string {
	formatted := fmt.Sprintf("%.6f", value)
	formatted = strings.TrimRight(formatted, "0")
	return strings.TrimRight(formatted, ".")
}
