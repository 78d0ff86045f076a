// mipscan - MIP solver log extraction
//
// mipscan turns the console output of mixed-integer solvers (CPLEX, Gurobi,
// CBC, CP-SAT) into normalized run summaries.
package main

import (
	"os"

	"github.com/ccollicutt/mipscan/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
