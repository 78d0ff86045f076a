package analyzer

import (
	"log/slog"

	"github.com/ccollicutt/mipscan/pkg/analytics"
	"github.com/ccollicutt/mipscan/pkg/dialect"
	"github.com/ccollicutt/mipscan/pkg/progress"
	"github.com/ccollicutt/mipscan/pkg/status"
)

// Summarize runs every extractor of a and assembles the run summary. When
// withProgress is false the progress table is left empty and the fields
// derived from it stay nil.
func Summarize(a dialect.Adapter, withProgress bool, logger *slog.Logger) *RunSummary {
	if logger == nil {
		logger = slog.Default()
	}

	st := a.Stats()
	solverCode, solCode := statusCodes(a, st)

	bound, gap := st.Bound, st.Gap
	optimal := solCode != nil && *solCode == status.Optimal
	if optimal {
		if bound == nil {
			bound = st.Objective
		}
		zero := 0.0
		gap = &zero
	}

	s := &RunSummary{
		Version:      a.Version(),
		Solver:       a.Name(),
		Status:       st.Status,
		BestBound:    bound,
		BestSolution: st.Objective,
		Gap:          gap,
		Time:         a.Time(),
		Matrix:       a.Matrix(),
		MatrixPost:   a.MatrixPost(),
		RootTime:     a.RootTime(),
		Presolve:     a.Presolve(),
		StatusCode:   solverCode,
		SolCode:      solCode,
		Nodes:        a.Nodes(),
		Progress:     progress.NewTable(),
	}

	if !withProgress {
		return s
	}

	table, stats := a.Progress()
	logger.Debug("progress table built",
		"dialect", a.Name(),
		"rows", table.Len(),
		"candidates", stats.Candidates,
		"dropped", stats.Dropped,
		"anchors", len(stats.Anchors))

	s.Progress = table
	s.CutInfo = cutInfo(a, table, bound, st.Objective)
	if table.Empty() {
		return s
	}
	s.FirstRelaxed = analytics.FirstRelaxation(table)
	if solCode != nil && solCode.HasIncumbent() {
		s.FirstSolution = analytics.FirstSolution(table)
	}
	return s
}

func statusCodes(a dialect.Adapter, st dialect.Stats) (*status.Solver, *status.Solution) {
	if coder, ok := a.(dialect.StatusCoder); ok {
		return coder.StatusCodes(st.Status, st.Objective != nil)
	}
	return a.StatusMap().Codes(st.Status, st.Objective != nil)
}

// cutInfo is nil without progress rows or for solvers with no cuts phase.
// When no boundary row exists the final bound and solution stand in.
func cutInfo(a dialect.Adapter, table *progress.Table, bound, objective *float64) *CutInfo {
	if table.Empty() {
		return nil
	}
	if phaser, ok := a.(dialect.CutPhaser); ok && !phaser.CutPhase() {
		return nil
	}
	cuts := a.Cuts()
	if len(cuts) == 0 {
		return &CutInfo{}
	}

	after, ok := analytics.ResultsAfterCuts(table)
	if !ok {
		after = analytics.AfterCuts{Bound: bound, Solution: objective}
	}
	if after.Bound == nil {
		after.Bound = bound
	}
	return &CutInfo{
		Time:         a.CutsTime(table),
		Cuts:         cuts,
		BestBound:    after.Bound,
		BestSolution: after.Solution,
	}
}
