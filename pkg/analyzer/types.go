// Package analyzer turns solver logs into normalized run summaries.
package analyzer

import (
	"encoding/json"
	"time"

	"github.com/ccollicutt/mipscan/pkg/analytics"
	"github.com/ccollicutt/mipscan/pkg/dialect"
	"github.com/ccollicutt/mipscan/pkg/progress"
	"github.com/ccollicutt/mipscan/pkg/status"
)

// RunSummary is the normalized record of one solver run. Nil fields were not
// present in the log.
type RunSummary struct {
	Version *string `json:"version"`
	Solver  string  `json:"solver"`

	// Status is the raw status phrase as printed by the solver.
	Status       *string  `json:"status"`
	BestBound    *float64 `json:"best_bound"`
	BestSolution *float64 `json:"best_solution"`

	// Gap is the relative gap in percent.
	Gap  *float64 `json:"gap"`
	Time *float64 `json:"time"`

	Matrix     *dialect.Matrix   `json:"matrix"`
	MatrixPost *dialect.Matrix   `json:"matrix_post"`
	CutInfo    *CutInfo          `json:"cut_info"`
	RootTime   *float64          `json:"rootTime"`
	Presolve   *dialect.Presolve `json:"presolve"`

	FirstRelaxed  *float64             `json:"first_relaxed"`
	Progress      *progress.Table      `json:"progress"`
	FirstSolution *analytics.Incumbent `json:"first_solution"`

	StatusCode *status.Solver   `json:"status_code"`
	SolCode    *status.Solution `json:"sol_code"`
	Nodes      *int             `json:"nodes"`
}

// Recognized reports whether a status code could be assigned.
func (s *RunSummary) Recognized() bool {
	return s != nil && s.StatusCode != nil
}

// CutInfo describes the cutting-plane phase. A CutInfo with no cuts means
// the phase ran without applying any and marshals as {}.
type CutInfo struct {
	Time         *float64       `json:"time"`
	Cuts         map[string]int `json:"cuts"`
	BestBound    *float64       `json:"best_bound"`
	BestSolution *float64       `json:"best_solution"`
}

// Empty reports whether no cuts were applied.
func (c *CutInfo) Empty() bool {
	return len(c.Cuts) == 0
}

// MarshalJSON emits {} for an empty phase.
func (c *CutInfo) MarshalJSON() ([]byte, error) {
	if c.Empty() {
		return []byte("{}"), nil
	}
	type plain CutInfo
	return json.Marshal((*plain)(c))
}

// RunResult is the outcome of parsing one log in a batch.
type RunResult struct {
	// Source is the file path, or parser.InlineSource.
	Source string

	// Dialect is the adapter that was used.
	Dialect string

	// Summary is nil when Err is set.
	Summary *RunSummary

	// Err is a load or dialect-detection failure for this log.
	Err error

	// Duration is the time spent parsing.
	Duration time.Duration
}

// AnalysisResult contains the complete batch output.
type AnalysisResult struct {
	// Results holds one entry per log, in source order.
	Results []*RunResult

	// Metadata provides context about the analysis.
	Metadata AnalysisMetadata
}

// AnalysisMetadata provides context about the analysis run.
type AnalysisMetadata struct {
	// ConfigFile is the path to the configuration file used.
	ConfigFile string

	// Dialect is the requested dialect ("auto" when detected per log).
	Dialect string

	// Sources lists the logs that were analyzed.
	Sources []string

	// Workers is the parse parallelism.
	Workers int

	// StartTime is when analysis began.
	StartTime time.Time

	// EndTime is when analysis completed.
	EndTime time.Time
}

// Failed returns the number of logs that could not be parsed.
func (r *AnalysisResult) Failed() int {
	count := 0
	for _, res := range r.Results {
		if res.Err != nil {
			count++
		}
	}
	return count
}

// Unrecognized returns the number of parsed logs without a status code.
func (r *AnalysisResult) Unrecognized() int {
	count := 0
	for _, res := range r.Results {
		if res.Err == nil && !res.Summary.Recognized() {
			count++
		}
	}
	return count
}
