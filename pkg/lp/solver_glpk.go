package lp

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

const glpsolPath = "glpsol"

type glpkSolver struct{}

// NewGLPKSolver returns a Solver backed by the GNU GLPK "glpsol" executable.
func NewGLPKSolver() Solver {
	return &glpkSolver{}
}

func (solver *glpkSolver) Solve(model Model, options Options) (Solution, error) {
	modelFile, cleanupModel, err := writeModelFile(model)
	if err != nil {
		return Solution{}, err
	}
	defer cleanupModel()

	solutionFile, err := os.CreateTemp("", "tutoralloc-*.out")
	if err != nil {
		return Solution{}, fmt.Errorf("failed to create solution file: %v", err)
	}
	solutionFile.Close()
	defer os.Remove(solutionFile.Name())

	args := []string{"--lp", modelFile, "-o", solutionFile.Name()}
	if options.TimeLimit > 0 {
		args = append(args, "--tmlim", strconv.Itoa(int(options.TimeLimit.Seconds())))
	}
	if options.Gap > 0 {
		args = append(args, "--mipgap", strconv.FormatFloat(options.Gap, 'f', -1, 64))
	}

	cmd := exec.Command(glpsolPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return Solution{}, fmt.Errorf("an error occurred during glpsol execution: %v : %v", err.Error(), stderr.String())
	}

	content, err := os.ReadFile(solutionFile.Name())
	if err != nil {
		return Solution{}, fmt.Errorf("cannot read glpsol solution file: %v", err)
	}
	return parseGLPKSolution(string(content), model)
}

// parseGLPKSolution reads the human-readable report written by "glpsol -o".
// Variable names longer than 12 characters would wrap onto two lines in that
// report; the model builder keeps names short enough to avoid it.
func parseGLPKSolution(content string, model Model) (Solution, error) {
	statusLine, ok := findLine(content, func(line string) bool {
		return strings.HasPrefix(strings.TrimSpace(line), "Status:")
	})
	if !ok {
		return Solution{}, fmt.Errorf("missing status line in glpsol output")
	}

	var status Status
	switch {
	case strings.Contains(statusLine, "NON-OPTIMAL"):
		status = StatusFeasible
	case strings.Contains(statusLine, "OPTIMAL"):
		status = StatusOptimal
	case strings.Contains(statusLine, "EMPTY"), strings.Contains(statusLine, "UNDEFINED"):
		return Solution{Status: StatusInfeasible}, nil
	default:
		return Solution{}, fmt.Errorf("unrecognized glpsol status: %v", strings.TrimSpace(statusLine))
	}

	variables := variableSet(model)
	values := make(map[string]float64)
	for _, line := range strings.Split(content, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 || !variables[fields[1]] {
			continue
		}
		value, ok := firstNumber(fields[2:])
		if !ok {
			return Solution{}, fmt.Errorf("invalid value in glpsol solution line: %v", line)
		}
		values[fields[1]] = value
	}

	return Solution{
		Status:    status,
		Objective: evaluateObjective(model, values),
		Values:    values,
	}, nil
}
