package detector

import "regexp"

// Signature is one line pattern that identifies a solver dialect.
type Signature struct {
	Dialect    string         // Registered dialect name
	Name       string         // Human-readable name
	Pattern    *regexp.Regexp // Compiled regex (set during init)
	PatternStr string         // Pattern string for reports
	Weight     float64        // Contribution to the dialect score
	Example    string         // Example line
}

// DefaultSignatures returns the built-in dialect signatures.
// Banners carry the most weight; table and summary lines confirm them.
func DefaultSignatures() []*Signature {
	sigs := []*Signature{
		// CPLEX
		{
			Dialect:    "CPLEX",
			Name:       "CPLEX interactive banner",
			PatternStr: `Welcome to IBM\(R\) ILOG\(R\) CPLEX`,
			Weight:     3,
			Example:    "Welcome to IBM(R) ILOG(R) CPLEX(R) Interactive Optimizer 12.6.0.0",
		},
		{
			Dialect:    "CPLEX",
			Name:       "CPLEX log header",
			PatternStr: `^Log started \(V?\d`,
			Weight:     2,
			Example:    "Log started (V12.5.1.0) Mon Jan 01 10:00:00 2018",
		},
		{
			Dialect:    "CPLEX",
			Name:       "CPLEX reduced model",
			PatternStr: `Reduced MIP has \d+ rows, \d+ columns, and \d+ nonzeros`,
			Weight:     1,
			Example:    "Reduced MIP has 100 rows, 50 columns, and 400 nonzeros.",
		},
		{
			Dialect:    "CPLEX",
			Name:       "CPLEX MIP status",
			PatternStr: `^MIP - (Integer|Time limit|Memory limit)`,
			Weight:     2,
			Example:    "MIP - Integer optimal solution:  Objective =  1.0100000000e+02",
		},
		{
			Dialect:    "CPLEX",
			Name:       "CPLEX elapsed banner",
			PatternStr: `^Elapsed time = [\d.]+ sec\. \([\d.]+ ticks`,
			Weight:     1,
			Example:    "Elapsed time = 0.50 sec. (10.00 ticks, tree = 0.01 MB, solutions = 1)",
		},

		// GUROBI
		{
			Dialect:    "GUROBI",
			Name:       "Gurobi version banner",
			PatternStr: `Gurobi Optimizer version \S+`,
			Weight:     3,
			Example:    "Gurobi Optimizer version 9.1.2 build v9.1.2rc0 (linux64)",
		},
		{
			Dialect:    "GUROBI",
			Name:       "Gurobi model size",
			PatternStr: `^Optimize a model with \d+ rows, \d+ columns and \d+ nonzeros`,
			Weight:     2,
			Example:    "Optimize a model with 120 rows, 60 columns and 480 nonzeros",
		},
		{
			Dialect:    "GUROBI",
			Name:       "Gurobi final objective",
			PatternStr: `^Best objective \S+, best bound \S+, gap`,
			Weight:     2,
			Example:    "Best objective -1.500000000000e+01, best bound -1.500000000000e+01, gap 0.0000%",
		},
		{
			Dialect:    "GUROBI",
			Name:       "Gurobi explored summary",
			PatternStr: `^Explored \d+ nodes \(\d+ simplex iterations\)`,
			Weight:     1,
			Example:    "Explored 1234 nodes (5678 simplex iterations) in 10.50 seconds",
		},

		// CBC
		{
			Dialect:    "CBC",
			Name:       "CBC banner",
			PatternStr: `Welcome to the CBC MILP Solver`,
			Weight:     3,
			Example:    "Welcome to the CBC MILP Solver",
		},
		{
			Dialect:    "CBC",
			Name:       "CBC message code",
			PatternStr: `^Cbc\d{4}[IWE] `,
			Weight:     2,
			Example:    "Cbc0010I After 100 nodes, 40 on tree, 39000 best solution, best possible 38500 (50.00 seconds)",
		},
		{
			Dialect:    "CBC",
			Name:       "COIN message code",
			PatternStr: `^(Coin|Cgl|Clp)\d{4}[IWE] `,
			Weight:     1,
			Example:    "Cgl0004I processed model has 180 rows, 95 columns (95 integer (90 of which binary)) and 750 elements",
		},
		{
			Dialect:    "CBC",
			Name:       "CBC result line",
			PatternStr: `^Result - `,
			Weight:     1,
			Example:    "Result - Optimal solution found",
		},

		// CPSAT
		{
			Dialect:    "CPSAT",
			Name:       "CP-SAT banner",
			PatternStr: `^Starting CP-SAT solver`,
			Weight:     3,
			Example:    "Starting CP-SAT solver v9.3.10497",
		},
		{
			Dialect:    "CPSAT",
			Name:       "CP-SAT response summary",
			PatternStr: `^CpSolverResponse summary:`,
			Weight:     2,
			Example:    "CpSolverResponse summary:",
		},
		{
			Dialect:    "CPSAT",
			Name:       "CP-SAT search event",
			PatternStr: `^#(Bound|Done|\d+)\s+[\d.]+s\s`,
			Weight:     1,
			Example:    "#1       0.03s best:50    next:[0,49]     fixed_bools:0/10",
		},
	}

	for _, s := range sigs {
		s.Pattern = regexp.MustCompile(s.PatternStr)
	}
	return sigs
}
