package lp

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// writeModelFile dumps the model in LP format into a temporary file and
// returns its path alongside a cleanup function.
func writeModelFile(model Model) (string, func(), error) {
	tmpFile, err := os.CreateTemp("", "tutoralloc-*.lp")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temporary model file: %v", err)
	}
	cleanup := func() { os.Remove(tmpFile.Name()) }

	if _, err := tmpFile.WriteString(model.ToLPFormat()); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to write model file: %v", err)
	}
	if err := tmpFile.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to close model file: %v", err)
	}
	return tmpFile.Name(), cleanup, nil
}

// evaluateObjective recomputes the objective from the parsed variable values.
// Backends disagree on the sign convention they report for maximization, so
// the reported value is never trusted.
func evaluateObjective(model Model, values map[string]float64) float64 {
	return lo.SumBy(model.Objective, func(term Term) float64 {
		return term.Coef * values[term.Var]
	})
}

// variableSet indexes the model's variables for solution parsing.
func variableSet(model Model) map[string]bool {
	return lo.SliceToMap(model.Binaries, func(variable string) (string, bool) {
		return variable, true
	})
}

// firstNumber returns the first field parseable as a float, skipping any
// marker tokens a solver may interleave.
func firstNumber(fields []string) (float64, bool) {
	for _, field := range fields {
		value, err := strconv.ParseFloat(field, 64)
		if err == nil {
			return value, true
		}
	}
	return 0, false
}

func findLine(output string, predicate func(line string) bool) (string, bool) {
	return lo.Find(strings.Split(output, "\n"), predicate)
}
