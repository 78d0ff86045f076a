package dialect

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ccollicutt/mipscan/pkg/analytics"
	"github.com/ccollicutt/mipscan/pkg/extract"
	"github.com/ccollicutt/mipscan/pkg/progress"
	"github.com/ccollicutt/mipscan/pkg/status"
)

// Longer phrases come first so Recognize prefers them.
var gurobiStatus = status.Map{
	{Text: "Optimal solution found", Status: status.Solved},
	{Text: "Solved with barrier", Status: status.Solved},
	{Text: "Model is infeasible or unbounded", Status: status.Infeasible},
	{Text: "Model is infeasible", Status: status.Infeasible},
	{Text: "Time limit reached", Status: status.TimeLimit},
	{Text: "Out of memory", Status: status.MemoryLimit},
	{Text: "ERROR 10001", Status: status.MemoryLimit},
	{Text: "ERROR 10003", Status: status.NotSolved},
	{Text: "Model is unbounded", Status: status.Unbounded},
}

var (
	gurobiVersion      = regexp.MustCompile(`Gurobi Optimizer version (\S+)`)
	gurobiStats        = regexp.MustCompile(word + `( \(.*\))?\n(Warning:.*\n)?Best objective (` + num + `|-), best bound (` + num + `|-), gap (` + num + `|-)`)
	gurobiCutsBlock    = regexp.MustCompile(`Cutting planes:([\n\s\-\w:]+)Explored`)
	gurobiCutLine      = regexp.MustCompile(`\s*` + word + `: ` + num)
	gurobiMatrix       = regexp.MustCompile(`Optimize a model with ` + num + ` rows, ` + num + ` columns and ` + num + ` nonzeros`)
	gurobiMatrixPost   = regexp.MustCompile(`Presolved: ` + num + ` rows, ` + num + ` columns, ` + num + ` nonzeros`)
	gurobiPresolveTime = regexp.MustCompile(`Presolve time: ` + num + `s`)
	gurobiPresolve     = regexp.MustCompile(`Presolve removed ` + num + ` rows and ` + num + ` columns`)
	gurobiExplored     = regexp.MustCompile(`Explored ` + num + ` nodes \(` + num + ` simplex iterations\) in ` + num + ` seconds`)
	gurobiRoot         = regexp.MustCompile(`Root relaxation: objective ` + num + `, ` + num + ` iterations, ` + num + ` seconds`)
	numberRe           = regexp.MustCompile(num)
)

// Capture positions of gurobiStats.
const (
	gurobiStatusGroup    = 0
	gurobiObjectiveGroup = 3
	gurobiBoundGroup     = 5
	gurobiGapGroup       = 7
)

func gurobiGrammar() *LineGrammar {
	defaults := withGap(uniform(num, "n", "n_left", "obj", "iinf", "b_int", "b_bound", "ItCnt", "depth"))
	defaults["time"] = `(` + extract.Number + `s)`
	return NewLineGrammar(
		`^[\*H]?\s+\d.*$`,
		[]string{progress.Node, progress.NodesLeft, "Objective", "Depth", "IInf", progress.BestInteger, progress.CutsBestBound, "Gap", "ItpNode", progress.Time},
		`\s+{n}\s+{n_left}\s+{obj}\s+{depth}\s+{iinf}?\s+{b_int}?-?\s+{b_bound}\s+{gap}?-?\s+{ItCnt}?-?\s+{time}`,
		defaults,
		Rule{
			// incumbent found by heuristic or at a node
			Marker: regexp.MustCompile(`^[\*H]`),
			Apply: func(s slots, _ []string) {
				set(s, "()", "obj", "iinf", "depth")
			},
		},
		Rule{
			Marker: regexp.MustCompile(`\*\s*\d+\+`),
			Apply: func(s slots, _ []string) {
				set(s, "()", "obj", "ItCnt")
			},
		},
		Rule{
			Marker: regexp.MustCompile(`Cuts: \d+`),
			Apply: func(s slots, _ []string) {
				s["b_bound"] = `(Cuts: \d+)`
			},
		},
		Rule{
			Marker: stateRule,
			Apply: func(s slots, m []string) {
				s["obj"] = "(" + m[1] + ")"
				if m[1] != "integral" {
					s["iinf"] = "()"
				}
			},
		},
	)
}

// Gurobi reads Gurobi Optimizer logs.
type Gurobi struct {
	base
}

// NewGurobi returns a Gurobi adapter.
func NewGurobi(content string) Adapter {
	return &Gurobi{base: base{
		name:      "GUROBI",
		src:       extract.NewSource(content),
		statusMap: gurobiStatus,
		grammar:   gurobiGrammar(),
	}}
}

func (g *Gurobi) Version() *string {
	return g.src.Text(gurobiVersion, 0)
}

// Stats reads the status line and the "Best objective" line below it. A
// dash means the value is unknown.
func (g *Gurobi) Stats() Stats {
	m, ok := g.src.Match(gurobiStats, extract.First)
	if !ok {
		return g.recognize()
	}
	raw := strings.TrimSpace(m[gurobiStatusGroup])
	return Stats{
		Status:    &raw,
		Objective: dashFloat(m[gurobiObjectiveGroup]),
		Bound:     dashFloat(m[gurobiBoundGroup]),
		Gap:       dashFloat(m[gurobiGapGroup]),
	}
}

func dashFloat(s string) *float64 {
	if s == "-" {
		return nil
	}
	f, ok := extract.ParseFloat(s)
	if !ok {
		return nil
	}
	return &f
}

func (g *Gurobi) Matrix() *Matrix {
	return matrixOf(g.src.Ints(gurobiMatrix, extract.First))
}

func (g *Gurobi) MatrixPost() *Matrix {
	return matrixOf(g.src.Ints(gurobiMatrixPost, extract.First))
}

// Cuts parses the "Cutting planes:" block. No block means no cuts.
func (g *Gurobi) Cuts() map[string]int {
	cuts := map[string]int{}
	block, ok := g.src.Match(gurobiCutsBlock, extract.First)
	if !ok {
		return cuts
	}
	for _, line := range strings.Split(block[0], "\n") {
		if line == "" {
			continue
		}
		m, ok := extract.MatchLine(gurobiCutLine, line)
		if !ok || len(m) < 2 {
			continue
		}
		count, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		cuts[m[0]] = count
	}
	return cuts
}

func (g *Gurobi) Presolve() *Presolve {
	p := &Presolve{Time: g.src.Float(gurobiPresolveTime, 0)}
	p.Rows, p.Cols = pair(g.src.Ints(gurobiPresolve, extract.First))
	return p
}

func (g *Gurobi) Time() *float64 {
	return g.src.Float(gurobiExplored, 2)
}

func (g *Gurobi) Nodes() *int {
	return floatToInt(g.src.Float(gurobiExplored, 0))
}

func (g *Gurobi) RootTime() *float64 {
	return g.src.Float(gurobiRoot, 2)
}

// CutsTime reads the Time cell of the row where branching starts.
func (g *Gurobi) CutsTime(table *progress.Table) *float64 {
	row, ok := analytics.CutsEndRow(table)
	if !ok {
		return nil
	}
	m, ok := extract.MatchLine(numberRe, table.Value(row, progress.Time))
	if !ok {
		return nil
	}
	f, ok := extract.ParseFloat(m[0])
	if !ok {
		return nil
	}
	return &f
}
