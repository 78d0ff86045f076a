// Package status defines the solver-agnostic status taxonomy and the
// per-dialect phrase tables that map log vocabulary onto it.
package status

import "strings"

// Solver is the normalized terminal state of a solver run. The numeric
// values are part of the output contract.
type Solver int

const (
	NotSolved   Solver = 0
	Solved      Solver = 1
	Infeasible  Solver = -1
	Unbounded   Solver = -2
	Undefined   Solver = -3
	TimeLimit   Solver = -4
	MemoryLimit Solver = -5
)

func (s Solver) String() string {
	switch s {
	case NotSolved:
		return "NotSolved"
	case Solved:
		return "Solved"
	case Infeasible:
		return "Infeasible"
	case Unbounded:
		return "Unbounded"
	case Undefined:
		return "Undefined"
	case TimeLimit:
		return "TimeLimit"
	case MemoryLimit:
		return "MemoryLimit"
	default:
		return "Unknown"
	}
}

// Solution describes what the run established about its solution.
type Solution int

const (
	NoSolutionFound    Solution = 0
	Optimal            Solution = 1
	IntegerFeasible    Solution = 2
	SolutionInfeasible Solution = -1
	SolutionUnbounded  Solution = -2
)

func (s Solution) String() string {
	switch s {
	case NoSolutionFound:
		return "NoSolutionFound"
	case Optimal:
		return "Optimal"
	case IntegerFeasible:
		return "IntegerFeasible"
	case SolutionInfeasible:
		return "Infeasible"
	case SolutionUnbounded:
		return "Unbounded"
	default:
		return "Unknown"
	}
}

// HasIncumbent reports whether a run with this status carries an integer
// solution worth reporting.
func (s Solution) HasIncumbent() bool {
	return s == Optimal || s == IntegerFeasible
}

// solverToSolution is total over Solver.
var solverToSolution = map[Solver]Solution{
	NotSolved:   NoSolutionFound,
	Solved:      Optimal,
	Infeasible:  SolutionInfeasible,
	Unbounded:   SolutionUnbounded,
	Undefined:   NoSolutionFound,
	TimeLimit:   NoSolutionFound,
	MemoryLimit: NoSolutionFound,
}

// SolutionOf returns the solution status implied by a solver status.
func SolutionOf(s Solver) Solution {
	if sol, ok := solverToSolution[s]; ok {
		return sol
	}
	return NoSolutionFound
}

// Phrase binds one raw log phrase to a solver status.
type Phrase struct {
	Text   string
	Status Solver
}

// Map is an ordered phrase table. Order matters for Recognize: the first
// phrase found in the text wins.
type Map []Phrase

// Lookup returns the status bound to an exact raw phrase.
func (m Map) Lookup(raw string) (Solver, bool) {
	for _, p := range m {
		if p.Text == raw {
			return p.Status, true
		}
	}
	return 0, false
}

// Recognize returns the first phrase that occurs literally in text. Phrases
// may contain regex metacharacters; they are matched as plain text.
func (m Map) Recognize(text string) (string, bool) {
	for _, p := range m {
		if strings.Contains(text, p.Text) {
			return p.Text, true
		}
	}
	return "", false
}

// Codes maps a raw status onto the taxonomy. A nil raw status or an unknown
// phrase yields nil codes. When an objective was extracted but the status
// alone implies no solution, the solution status is upgraded to
// IntegerFeasible.
func (m Map) Codes(raw *string, objectivePresent bool) (*Solver, *Solution) {
	if raw == nil {
		return nil, nil
	}
	s, ok := m.Lookup(*raw)
	if !ok {
		return nil, nil
	}
	sol := Correct(SolutionOf(s), objectivePresent)
	return &s, &sol
}

// Correct applies the objective-present upgrade rule.
func Correct(sol Solution, objectivePresent bool) Solution {
	if objectivePresent && sol == NoSolutionFound {
		return IntegerFeasible
	}
	return sol
}
