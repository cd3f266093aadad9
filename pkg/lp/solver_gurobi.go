package lp

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

const gurobiPath = "gurobi_cl"

type gurobiSolver struct{}

// NewGurobiSolver returns a Solver backed by the Gurobi command-line
// executable. A valid Gurobi license is required.
func NewGurobiSolver() Solver {
	return &gurobiSolver{}
}

func (solver *gurobiSolver) Solve(model Model, options Options) (Solution, error) {
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

	args := []string{}
	if options.TimeLimit > 0 {
		args = append(args, fmt.Sprintf("TimeLimit=%v", int(options.TimeLimit.Seconds())))
	}
	if options.Gap > 0 {
		args = append(args, fmt.Sprintf("MIPGap=%v", options.Gap))
	}
	args = append(args, fmt.Sprintf("ResultFile=%v", solutionFile.Name()), modelFile)

	cmd := exec.Command(gurobiPath, args...)
	var stdOut bytes.Buffer
	cmd.Stdout = &stdOut
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return Solution{}, fmt.Errorf("an error occurred during gurobi execution: %v : %v", err.Error(), stderr.String())
	}

	content, err := os.ReadFile(solutionFile.Name())
	if err != nil {
		return Solution{}, fmt.Errorf("cannot read gurobi solution file: %v", err)
	}
	return parseGurobiSolution(stdOut.String(), string(content), model)
}

// parseGurobiSolution combines the termination status printed on stdout with
// the "name value" pairs of the ResultFile.
func parseGurobiSolution(output, content string, model Model) (Solution, error) {
	var status Status
	switch {
	case strings.Contains(output, "Model is infeasible"):
		return Solution{Status: StatusInfeasible}, nil
	case strings.Contains(output, "Optimal solution found"):
		status = StatusOptimal
	case strings.Contains(output, "Time limit reached"):
		// A timed-out run without an incumbent writes no variable lines.
		if strings.TrimSpace(content) == "" {
			return Solution{Status: StatusInfeasible}, nil
		}
		status = StatusFeasible
	default:
		return Solution{}, fmt.Errorf("unrecognized gurobi termination status")
	}

	variables := variableSet(model)
	values := make(map[string]float64)
	for _, line := range strings.Split(content, "\n") {
		fields := strings.Fields(line)
		if len(fields) != 2 || !variables[fields[0]] {
			continue
		}
		value, ok := firstNumber(fields[1:])
		if !ok {
			return Solution{}, fmt.Errorf("invalid value in gurobi solution line: %v", line)
		}
		values[fields[0]] = value
	}

	return Solution{
		Status:    status,
		Objective: evaluateObjective(model, values),
		Values:    values,
	}, nil
}
