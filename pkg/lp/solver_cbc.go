package lp

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

const cbcPath = "cbc"

type cbcSolver struct{}

// NewCBCSolver returns a Solver backed by the COIN-OR CBC command-line
// executable.
func NewCBCSolver() Solver {
	return &cbcSolver{}
}

func (solver *cbcSolver) Solve(model Model, options Options) (Solution, error) {
	modelFile, cleanupModel, err := writeModelFile(model)
	if err != nil {
		return Solution{}, err
	}
	defer cleanupModel()

	solutionFile, err := os.CreateTemp("", "tutoralloc-*.sol")
	if err != nil {
		return Solution{}, fmt.Errorf("failed to create solution file: %v", err)
	}
	solutionFile.Close()
	defer os.Remove(solutionFile.Name())

	args := []string{modelFile}
	if options.TimeLimit > 0 {
		args = append(args, "sec", strconv.Itoa(int(options.TimeLimit.Seconds())))
	}
	if options.Gap > 0 {
		args = append(args, "ratio", strconv.FormatFloat(options.Gap, 'f', -1, 64))
	}
	args = append(args, "solve", "solu", solutionFile.Name())

	cmd := exec.Command(cbcPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return Solution{}, fmt.Errorf("an error occurred during cbc execution: %v : %v", err.Error(), stderr.String())
	}

	content, err := os.ReadFile(solutionFile.Name())
	if err != nil {
		return Solution{}, fmt.Errorf("cannot read cbc solution file: %v", err)
	}
	return parseCBCSolution(string(content), model)
}

// parseCBCSolution interprets a CBC "solu" file. The first line carries the
// termination status; value lines look like "0 x_0_1 1 10".
func parseCBCSolution(content string, model Model) (Solution, error) {
	lines := strings.Split(content, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return Solution{}, fmt.Errorf("empty cbc solution file")
	}

	statusLine := strings.ToLower(lines[0])
	var status Status
	switch {
	case strings.Contains(statusLine, "infeasible"):
		return Solution{Status: StatusInfeasible}, nil
	case strings.Contains(statusLine, "optimal"):
		status = StatusOptimal
	case strings.Contains(statusLine, "stopped"):
		status = StatusFeasible
	default:
		return Solution{}, fmt.Errorf("unrecognized cbc termination status: %v", lines[0])
	}

	variables := variableSet(model)
	values := make(map[string]float64)
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		if len(fields) < 3 || !variables[fields[1]] {
			continue
		}
		value, ok := firstNumber(fields[2:])
		if !ok {
			return Solution{}, fmt.Errorf("invalid value in cbc solution line: %v", line)
		}
		values[fields[1]] = value
	}

	return Solution{
		Status:    status,
		Objective: evaluateObjective(model, values),
		Values:    values,
	}, nil
}
