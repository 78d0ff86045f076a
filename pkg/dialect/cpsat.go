package dialect

import (
	"github.com/ccollicutt/mipscan/pkg/cpsat"
	"github.com/ccollicutt/mipscan/pkg/progress"
	"github.com/ccollicutt/mipscan/pkg/status"
)

// CP-SAT reports its status as a single token.
var cpsatStatus = status.Map{
	{Text: "OPTIMAL", Status: status.Solved},
	{Text: "FEASIBLE", Status: status.Solved},
	{Text: "INFEASIBLE", Status: status.Infeasible},
	{Text: "UNBOUNDED", Status: status.Unbounded},
	{Text: "MODEL_INVALID", Status: status.NotSolved},
	{Text: "UNKNOWN", Status: status.NotSolved},
}

var cpsatSolution = map[string]status.Solution{
	"OPTIMAL":    status.Optimal,
	"FEASIBLE":   status.IntegerFeasible,
	"INFEASIBLE": status.SolutionInfeasible,
	"UNBOUNDED":  status.SolutionUnbounded,
}

// CPSAT delegates to the block parser in package cpsat and translates its
// search trace into the common progress schema.
type CPSAT struct {
	log *cpsat.Log
}

// NewCPSAT returns a CP-SAT adapter.
func NewCPSAT(content string) Adapter {
	return &CPSAT{log: cpsat.Parse(content)}
}

func (c *CPSAT) Name() string          { return "CPSAT" }
func (c *CPSAT) StatusMap() status.Map { return cpsatStatus }
func (c *CPSAT) Version() *string      { return c.log.Version() }

func (c *CPSAT) Stats() Stats {
	r, ok := c.log.Response()
	if !ok {
		return Stats{}
	}
	var st Stats
	if raw, ok := r.Get("status"); ok {
		st.Status = &raw
	}
	st.Objective = r.Float("objective")
	st.Bound = r.Float("best_bound")
	st.Gap = r.Gap()
	return st
}

// StatusCodes maps the status token directly. Unrecognized tokens count as
// not solved.
func (c *CPSAT) StatusCodes(raw *string, objectivePresent bool) (*status.Solver, *status.Solution) {
	if raw == nil {
		return nil, nil
	}
	s, ok := cpsatStatus.Lookup(*raw)
	if !ok {
		s = status.NotSolved
	}
	sol, ok := cpsatSolution[*raw]
	if !ok {
		sol = status.NoSolutionFound
	}
	sol = status.Correct(sol, objectivePresent)
	return &s, &sol
}

// CutPhase is false: CP-SAT has no cutting-plane phase to report.
func (c *CPSAT) CutPhase() bool { return false }

func (c *CPSAT) Matrix() *Matrix                   { return nil }
func (c *CPSAT) MatrixPost() *Matrix               { return nil }
func (c *CPSAT) Cuts() map[string]int              { return nil }
func (c *CPSAT) Presolve() *Presolve               { return nil }
func (c *CPSAT) RootTime() *float64                { return nil }
func (c *CPSAT) CutsTime(*progress.Table) *float64 { return nil }

// Time is the user time of the response summary.
func (c *CPSAT) Time() *float64 {
	r, ok := c.log.Response()
	if !ok {
		return nil
	}
	return r.Float("usertime")
}

// Nodes is always zero; CP-SAT does not branch on a search tree.
func (c *CPSAT) Nodes() *int {
	zero := 0
	return &zero
}

// Progress converts search events into rows. CP-SAT has no node counters,
// so Node and NodesLeft stay absent.
func (c *CPSAT) Progress() (*progress.Table, progress.Stats) {
	table := progress.NewTable(progress.Node, progress.NodesLeft, progress.BestInteger, progress.CutsBestBound, progress.Time, "Event")
	rows := c.log.Table()
	stats := progress.Stats{Candidates: len(rows)}
	for _, r := range rows {
		if table.Append("", "", r.Best, r.Bound, progress.FormatSeconds(r.Time), r.Event) != nil {
			stats.Dropped++
		}
	}
	return table, stats
}
