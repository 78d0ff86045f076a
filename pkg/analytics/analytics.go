// Package analytics derives search milestones from a progress table: the
// first relaxation, the first incumbent and the state after the cuts phase.
package analytics

import (
	"regexp"
	"strconv"

	"github.com/ccollicutt/mipscan/pkg/extract"
	"github.com/ccollicutt/mipscan/pkg/progress"
)

var (
	bareNumber = regexp.MustCompile(`^\s*` + extract.Number + `$`)
	leadFloat  = regexp.MustCompile(`^([+-]?\d+(\.\d+)?([Ee][+-]?\d+)?)`)
	leadDigit  = regexp.MustCompile(`^\s*-?\d`)

	rootNode    = regexp.MustCompile(`^\*?H?\s*0`)
	reopenedAny = regexp.MustCompile(`^\+?H?\s*[012]`)
	reopenedTwo = regexp.MustCompile(`^\+?H?\s*2`)
)

// NoIncumbent is the incumbent cell one dialect prints before any integer
// solution exists. It is never reported as a value.
var NoIncumbent = regexp.MustCompile(`^\s*1e\+50$`)

// Incumbent is the progress row on which the first integer solution
// appeared. Fields that do not start with a number are nil.
type Incumbent struct {
	Node          *float64 `json:"Node"`
	NodesLeft     *float64 `json:"NodesLeft"`
	BestInteger   *float64 `json:"BestInteger"`
	CutsBestBound *float64 `json:"CutsBestBound"`
}

// AfterCuts holds the bound and incumbent reported when branching starts.
type AfterCuts struct {
	Bound    *float64
	Solution *float64
}

// FirstRelaxation returns the first best-bound cell that is a bare number.
func FirstRelaxation(t *progress.Table) *float64 {
	for _, cell := range t.Column(progress.CutsBestBound) {
		if !bareNumber.MatchString(cell) {
			continue
		}
		if f, ok := extract.ParseFloat(cell); ok {
			return &f
		}
	}
	return nil
}

// FirstSolution returns the first row whose incumbent is a bare number other
// than the no-incumbent sentinel, or nil.
func FirstSolution(t *progress.Table) *Incumbent {
	for i, cell := range t.Column(progress.BestInteger) {
		if !bareNumber.MatchString(cell) || NoIncumbent.MatchString(cell) {
			continue
		}
		return &Incumbent{
			Node:          leading(t.Value(i, progress.Node)),
			NodesLeft:     leading(t.Value(i, progress.NodesLeft)),
			BestInteger:   leading(t.Value(i, progress.BestInteger)),
			CutsBestBound: leading(t.Value(i, progress.CutsBestBound)),
		}
	}
	return nil
}

// ResultsAfterCuts inspects the last row that sits on the boundary between
// the root cuts loop and the branching tree. ok is false when no such row
// exists and the caller should fall back to the final values.
func ResultsAfterCuts(t *progress.Table) (AfterCuts, bool) {
	row := -1
	for i := 0; i < t.Len(); i++ {
		if rootNode.MatchString(t.Value(i, progress.Node)) &&
			reopenedAny.MatchString(t.Value(i, progress.NodesLeft)) {
			row = i
		}
	}
	if row < 0 {
		return AfterCuts{}, false
	}
	return AfterCuts{
		Bound:    numeric(t.Value(row, progress.CutsBestBound)),
		Solution: numeric(t.Value(row, progress.BestInteger)),
	}, true
}

// CutsEndRow returns the first row where the tree reopens with two live
// nodes, falling back to the first row. ok is false for an empty table.
func CutsEndRow(t *progress.Table) (int, bool) {
	if t.Empty() {
		return 0, false
	}
	for i := 0; i < t.Len(); i++ {
		if rootNode.MatchString(t.Value(i, progress.Node)) &&
			reopenedTwo.MatchString(t.Value(i, progress.NodesLeft)) {
			return i, true
		}
	}
	return 0, true
}

func numeric(cell string) *float64 {
	if !leadDigit.MatchString(cell) || NoIncumbent.MatchString(cell) {
		return nil
	}
	f, ok := extract.ParseFloat(cell)
	if !ok {
		return nil
	}
	return &f
}

func leading(cell string) *float64 {
	m := leadFloat.FindStringSubmatch(cell)
	if m == nil {
		return nil
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	return &f
}
