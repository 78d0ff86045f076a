package dialect

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ccollicutt/mipscan/pkg/extract"
	"github.com/ccollicutt/mipscan/pkg/progress"
	"github.com/ccollicutt/mipscan/pkg/status"
)

const (
	num  = extract.NumberGroup
	word = extract.WordGroup
)

var cplexStatus = status.Map{
	{Text: "MIP - Memory limit exceeded", Status: status.MemoryLimit},
	{Text: "MIP - Integer optimal", Status: status.Solved},
	{Text: "MIP - Integer infeasible.", Status: status.Infeasible},
	{Text: "MIP - Time limit exceeded", Status: status.TimeLimit},
	{Text: "MIP - Integer unbounded", Status: status.Unbounded},
	{Text: "MIP - Integer infeasible or unbounded", Status: status.Infeasible},
	{Text: "CPLEX Error  1001: Out of memory", Status: status.MemoryLimit},
	{Text: "No file read", Status: status.NotSolved},
}

// Concatenated runs are cut back to the last one starting at these markers.
var cplexRunMarkers = []string{"Welcome to IBM", "Log started"}

var (
	cplexVersion = []*regexp.Regexp{
		regexp.MustCompile(`Welcome to IBM\(R\) ILOG\(R\) CPLEX\(R\) Interactive Optimizer (\S+)`),
		regexp.MustCompile(`Log started \((\S+)\)`),
		regexp.MustCompile(`Version identifier: (\S+)`),
	}
	cplexObjective    = regexp.MustCompile(`(?m)Objective\s+=\s+` + num + `\s*\n`)
	cplexGap          = regexp.MustCompile(`Current MIP best bound =\s+` + num + ` \(gap = ` + num + `, ` + num + `%\)`)
	cplexMatrix       = regexp.MustCompile(`Reduced MIP has ` + num + ` rows, ` + num + ` columns, and ` + num + ` nonzeros`)
	cplexCuts         = regexp.MustCompile(word + ` cuts applied:  ` + num)
	cplexPresolveTime = regexp.MustCompile(`Presolve time = ` + num + ` sec. \(` + num + ` ticks\)`)
	cplexPresolve     = regexp.MustCompile(`LP Presolve eliminated ` + num + ` rows and ` + num + ` columns`)
	cplexSolution     = regexp.MustCompile(`Solution time =\s+` + num + ` sec\.\s+Iterations = ` + num + `\s+Nodes = ` + num)
	cplexTotal        = regexp.MustCompile(`Total \(root\+branch&cut\) =\s+` + num + ` sec\. \(` + num + ` ticks\)`)
	cplexRoot         = regexp.MustCompile(`Root relaxation solution time = ` + num + ` sec\. \(` + num + ` ticks\)`)
	cplexElapsed      = regexp.MustCompile(`Elapsed time = ` + num + ` sec\. \(` + num + ` ticks, tree = ` + num + ` MB, solutions = ` + num + `\)`)
)

// stateRule matches rows where the objective column carries a node state.
var stateRule = regexp.MustCompile(`\*?\s*\d+\+?\s*\d+\s*(infeasible|cutoff|integral)`)

func cplexGrammar() *LineGrammar {
	return NewLineGrammar(
		`^[\*H]?\s*\d.*$`,
		[]string{progress.Node, progress.NodesLeft, "Objective", "IInf", progress.BestInteger, progress.CutsBestBound, "ItpNode", "Gap"},
		`\s*{n}\s*{n_left}\s+{obj}\s+{iinf}?\s+{b_int}?\s+{b_bound}\s+{ItCnt}\s*{gap}?`,
		withGap(uniform(num, "n", "n_left", "obj", "iinf", "b_int", "b_bound", "ItCnt")),
		Rule{
			// heuristic incumbent row
			Marker: regexp.MustCompile(`\*\s*\d+\+`),
			Apply: func(s slots, _ []string) {
				set(s, "()", "obj", "ItCnt", "iinf")
			},
		},
		Rule{
			Marker: regexp.MustCompile(`[a-zA-Z\s]+: \d+`),
			Apply: func(s slots, _ []string) {
				s["b_bound"] = `([a-zA-Z\s]+: \d+)`
			},
		},
		Rule{
			Marker: stateRule,
			Apply: func(s slots, m []string) {
				state := m[1]
				s["obj"] = "(" + state + ")"
				if state == "integral" {
					s["iinf"] = "(0)"
				} else {
					s["iinf"] = "()"
					s["b_bound"] += "?"
				}
			},
		},
	)
}

func withGap(s slots) slots {
	s["gap"] = `(` + extract.Number + `%)`
	return s
}

// CPLEX reads IBM ILOG CPLEX interactive optimizer logs.
type CPLEX struct {
	base
}

// NewCPLEX returns a CPLEX adapter. Only the last run in content is read.
func NewCPLEX(content string) Adapter {
	c := &CPLEX{base: base{
		name:      "CPLEX",
		src:       extract.NewSource(content).TruncateToLast(cplexRunMarkers...),
		statusMap: cplexStatus,
		grammar:   cplexGrammar(),
	}}
	c.opts = []progress.BuildOption{progress.WithElapsedBanner(progress.ElapsedBanner{
		Start:   "Node",
		Pattern: cplexElapsed,
	})}
	return c
}

func (c *CPLEX) Version() *string {
	for _, re := range cplexVersion {
		if v := c.src.Text(re, 0); v != nil && *v != "" {
			return v
		}
	}
	return nil
}

// Stats takes the status from the first known phrase in the log; the
// objective and the gap line are read independently.
func (c *CPLEX) Stats() Stats {
	st := Stats{Objective: c.src.Float(cplexObjective, 0)}
	if phrase, ok := c.statusMap.Recognize(c.src.Content()); ok {
		st.Status = &phrase
	}
	if g, ok := c.src.Floats(cplexGap, extract.First); ok {
		st.Bound, st.Gap = &g[0], &g[2]
	}
	return st
}

func (c *CPLEX) Matrix() *Matrix {
	return matrixOf(c.src.Ints(cplexMatrix, extract.First))
}

// MatrixPost is the last reduced model CPLEX reported.
func (c *CPLEX) MatrixPost() *Matrix {
	return matrixOf(c.src.Ints(cplexMatrix, extract.Last))
}

func (c *CPLEX) Cuts() map[string]int {
	cuts := map[string]int{}
	for _, g := range c.src.All(cplexCuts) {
		if len(g) < 2 {
			continue
		}
		count, err := strconv.Atoi(strings.TrimSpace(g[1]))
		if err != nil {
			continue
		}
		cuts[strings.TrimSpace(g[0])] = count
	}
	return cuts
}

func (c *CPLEX) Presolve() *Presolve {
	p := &Presolve{Time: c.src.Float(cplexPresolveTime, 0)}
	p.Rows, p.Cols = pair(c.src.Ints(cplexPresolve, extract.First))
	return p
}

func (c *CPLEX) Time() *float64 {
	if t := c.src.Float(cplexSolution, 0); t != nil {
		return t
	}
	return c.src.Float(cplexTotal, 0)
}

func (c *CPLEX) Nodes() *int {
	return floatToInt(c.src.Float(cplexSolution, 2))
}

func (c *CPLEX) RootTime() *float64 {
	return c.src.Float(cplexRoot, 0)
}

// CutsTime is the first elapsed-time banner.
func (c *CPLEX) CutsTime(*progress.Table) *float64 {
	return c.src.Float(cplexElapsed, 0)
}

// Progress adds a Time column rebuilt from elapsed-time banners and the
// total solve time.
func (c *CPLEX) Progress() (*progress.Table, progress.Stats) {
	table, stats := c.base.Progress()
	if table.Empty() {
		return table, stats
	}
	return withTime(table, stats, progress.TimeColumn(table.Len(), stats.Anchors, c.Time()))
}

// withTime sets the Time column. Cells that do not fit the rows discard
// them all so that Candidates minus Dropped still counts the rows.
func withTime(table *progress.Table, stats progress.Stats, cells []string) (*progress.Table, progress.Stats) {
	if err := table.SetColumn(progress.Time, cells); err != nil {
		stats.Dropped = stats.Candidates
		return progress.NewTable(table.Columns...), stats
	}
	return table, stats
}
