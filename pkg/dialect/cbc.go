package dialect

import (
	"math"
	"regexp"

	"github.com/ccollicutt/mipscan/pkg/extract"
	"github.com/ccollicutt/mipscan/pkg/progress"
	"github.com/ccollicutt/mipscan/pkg/status"
)

var cbcStatus = status.Map{
	{Text: "Optimal solution found", Status: status.Solved},
	{Text: "Problem is infeasible", Status: status.Infeasible},
	{Text: "Stopped on time limit", Status: status.TimeLimit},
	{Text: "Problem proven infeasible", Status: status.Infeasible},
	{Text: "Problem is unbounded", Status: status.Unbounded},
	{Text: "Pre-processing says infeasible or unbounded", Status: status.Infeasible},
	{Text: "** Current model not valid", Status: status.NotSolved},
}

var (
	cbcVersion    = regexp.MustCompile(`Version: (\S+)`)
	cbcResult     = regexp.MustCompile(`Result - ` + word)
	cbcObjective  = regexp.MustCompile(`best objective ` + num + `( \(best possible ` + num + `\))?, took ` + extract.Number + ` iterations and ` + extract.Number + ` nodes \(` + num + ` seconds\)`)
	cbcMatrix     = regexp.MustCompile(`Problem .+ has ` + num + ` rows, ` + num + ` columns and ` + num + ` elements`)
	cbcMatrixPost = regexp.MustCompile(`Cgl0004I processed model has ` + num + ` rows, ` + num + ` columns \(\d+ integer \(\d+ of which binary\)\) and ` + num + ` elements`)
	cbcTotalTime  = regexp.MustCompile(`Total time \(CPU seconds\):\s*` + num)
	cbcNodes      = regexp.MustCompile(`Enumerated nodes:\s*` + num)
)

// Capture positions of cbcObjective.
const (
	cbcObjectiveGroup = 0
	cbcPossibleGroup  = 2
	cbcSecondsGroup   = 3
)

const cbcNoFeasible = "No feasible solution found"

func cbcGrammar() *LineGrammar {
	return NewLineGrammar(
		`^Cbc0010I.*$`,
		[]string{progress.Node, progress.NodesLeft, progress.BestInteger, progress.CutsBestBound, progress.Time},
		`Cbc0010I After {n} nodes, {n_left} on tree, {b_int} best solution, best possible {b_bound} \({time} seconds\)`,
		uniform(num, "n", "n_left", "b_int", "b_bound", "time"),
	)
}

// CBC reads COIN-OR CBC logs. CBC prints 1e+50 as the incumbent while no
// integer solution exists.
type CBC struct {
	base
}

// NewCBC returns a CBC adapter.
func NewCBC(content string) Adapter {
	return &CBC{base: base{
		name:      "CBC",
		src:       extract.NewSource(content),
		statusMap: cbcStatus,
		grammar:   cbcGrammar(),
	}}
}

func (c *CBC) Version() *string {
	return c.src.Text(cbcVersion, 0)
}

// Stats reads the "Result -" banner and the final "best objective" line.
// The gap is relative to the objective and absent for a zero objective.
func (c *CBC) Stats() Stats {
	raw := c.src.Text(cbcResult, 0)
	if raw == nil {
		return c.recognize()
	}
	st := Stats{Status: raw}
	m, ok := c.src.Match(cbcObjective, extract.First)
	if !ok {
		return st
	}
	if !c.src.Contains(cbcNoFeasible) {
		if f, ok := extract.ParseFloat(m[cbcObjectiveGroup]); ok {
			st.Objective = &f
		}
	}
	st.Bound = st.Objective
	if f, ok := extract.ParseFloat(m[cbcPossibleGroup]); ok {
		st.Bound = &f
	}
	if st.Objective != nil && st.Bound != nil && *st.Objective != 0 {
		g := math.Abs(*st.Objective-*st.Bound) / math.Abs(*st.Objective) * 100
		st.Gap = &g
	}
	return st
}

func (c *CBC) Matrix() *Matrix {
	return matrixOf(c.src.Ints(cbcMatrix, extract.First))
}

func (c *CBC) MatrixPost() *Matrix {
	return matrixOf(c.src.Ints(cbcMatrixPost, extract.First))
}

// Time prefers the CPU total and falls back to the seconds printed on the
// final "best objective" line.
func (c *CBC) Time() *float64 {
	if t := c.src.Float(cbcTotalTime, 0); t != nil {
		return t
	}
	return c.src.Float(cbcObjective, cbcSecondsGroup)
}

func (c *CBC) Nodes() *int {
	return c.src.Int(cbcNodes, 0)
}
