// Package dialect implements one adapter per solver log format. Each
// adapter pulls scalar facts straight from the log text and exposes a
// progress-line grammar for the table builder.
package dialect

import (
	"github.com/ccollicutt/mipscan/pkg/extract"
	"github.com/ccollicutt/mipscan/pkg/progress"
	"github.com/ccollicutt/mipscan/pkg/status"
)

// Matrix holds problem dimensions.
type Matrix struct {
	Constraints int `json:"constraints"`
	Variables   int `json:"variables"`
	Nonzeros    int `json:"nonzeros"`
}

// Presolve holds the presolve pass statistics. Rows and Cols count what was
// removed.
type Presolve struct {
	Time *float64 `json:"time"`
	Rows *int     `json:"rows"`
	Cols *int     `json:"cols"`
}

// Stats is the terminal status line of a run. Any field may be nil.
type Stats struct {
	Status    *string
	Objective *float64
	Bound     *float64
	// Gap is the relative gap in percent.
	Gap *float64
}

// Adapter extracts every fact a dialect knows how to read. Methods return
// nil for facts the log does not contain.
type Adapter interface {
	Name() string
	StatusMap() status.Map

	Version() *string
	Stats() Stats
	Matrix() *Matrix
	MatrixPost() *Matrix
	// Cuts returns applied cuts per family. A nil map means the dialect does
	// not report cuts; an empty map means no cuts were applied.
	Cuts() map[string]int
	Presolve() *Presolve
	Time() *float64
	Nodes() *int
	RootTime() *float64
	// CutsTime returns the elapsed time at the end of the cuts phase.
	CutsTime(table *progress.Table) *float64

	// Progress builds the iteration table.
	Progress() (*progress.Table, progress.Stats)
}

// StatusCoder is implemented by dialects whose status vocabulary does not go
// through the phrase table.
type StatusCoder interface {
	StatusCodes(raw *string, objectivePresent bool) (*status.Solver, *status.Solution)
}

// CutPhaser is implemented by dialects that can tell whether the solver has a
// cutting-plane phase at all.
type CutPhaser interface {
	CutPhase() bool
}

// base carries what every regex-driven dialect shares.
type base struct {
	name      string
	src       *extract.Source
	statusMap status.Map
	grammar   *LineGrammar
	opts      []progress.BuildOption
}

func (b *base) Name() string            { return b.name }
func (b *base) StatusMap() status.Map   { return b.statusMap }
func (b *base) Source() *extract.Source { return b.src }

// Grammar returns the progress-line grammar.
func (b *base) Grammar() progress.Grammar { return b.grammar }

func (b *base) Progress() (*progress.Table, progress.Stats) {
	return progress.Build(b.src.Content(), b.grammar, b.opts...)
}

func (b *base) Cuts() map[string]int                    { return nil }
func (b *base) Presolve() *Presolve                     { return nil }
func (b *base) RootTime() *float64                      { return nil }
func (b *base) CutsTime(table *progress.Table) *float64 { return nil }

// recognize is the status-only fallback used when no terminal banner was
// parsed.
func (b *base) recognize() Stats {
	if phrase, ok := b.statusMap.Recognize(b.src.Content()); ok {
		return Stats{Status: &phrase}
	}
	return Stats{}
}

func matrixOf(v []int, ok bool) *Matrix {
	if !ok || len(v) < 3 {
		return nil
	}
	return &Matrix{Constraints: v[0], Variables: v[1], Nonzeros: v[2]}
}

func pair(v []int, ok bool) (*int, *int) {
	if !ok || len(v) < 2 {
		return nil, nil
	}
	return &v[0], &v[1]
}

func floatToInt(f *float64) *int {
	if f == nil {
		return nil
	}
	n := int(*f)
	return &n
}
