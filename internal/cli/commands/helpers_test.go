package commands

import (
	"os"
	"path/filepath"
	"testing"
)

const cbcLog = `Welcome to the CBC MILP Solver
Version: 2.10.3
Problem MODEL has 200 rows, 100 columns and 800 elements
Cbc0010I After 0 nodes, 1 on tree, 1e+50 best solution, best possible 38000 (1.20 seconds)
Cbc0010I After 100 nodes, 40 on tree, 39000 best solution, best possible 38500 (50.00 seconds)
Cbc0001I Search completed - best objective 38752, took 1000 iterations and 500 nodes (725.37 seconds)

Result - Optimal solution found

Objective value:                38752.00000000
Enumerated nodes:               378472
`

const gurobiLog = `Gurobi Optimizer version 9.1.2 build v9.1.2rc0 (linux64)
Optimize a model with 10 rows, 5 columns and 20 nonzeros
Presolve time: 0.00s

Explored 0 nodes (0 simplex iterations) in 0.01 seconds

Model is infeasible
Best objective -, best bound -, gap -
`

// writeFile creates name under dir with content and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create %s: %v", name, err)
	}
	return path
}

// resetExitCode restores ExitCode after a test that may set it.
func resetExitCode(t *testing.T) {
	t.Helper()
	ExitCode = 0
	t.Cleanup(func() { ExitCode = 0 })
}
