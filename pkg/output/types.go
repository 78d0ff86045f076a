// Package output provides formatting and output generation for run summaries.
package output

import (
	"sort"
	"time"

	"github.com/ccollicutt/mipscan/pkg/analyzer"
)

// Report is the complete batch output.
type Report struct {
	// Summary provides aggregate statistics.
	Summary Summary `json:"summary"`

	// Results holds one entry per log.
	Results []Entry `json:"results"`

	// Metadata provides context about the analysis.
	Metadata Metadata `json:"metadata"`
}

// Entry is the outcome for one log.
type Entry struct {
	Source  string               `json:"source"`
	Dialect string               `json:"dialect,omitempty"`
	Error   string               `json:"error,omitempty"`
	Run     *analyzer.RunSummary `json:"run,omitempty"`
}

// Failed reports whether the log could not be parsed.
func (e Entry) Failed() bool {
	return e.Error != ""
}

// Summary provides aggregate statistics.
type Summary struct {
	// Logs is the number of logs in the batch.
	Logs int `json:"logs"`

	// Parsed is the number of logs that produced a summary.
	Parsed int `json:"parsed"`

	// Failed is the number of logs that could not be parsed.
	Failed int `json:"failed"`

	// Unrecognized is the number of parsed logs with no status code.
	Unrecognized int `json:"unrecognized"`

	// BySolution counts parsed logs per solution status name.
	BySolution map[string]int `json:"by_solution"`
}

// Metadata provides context about the analysis run.
type Metadata struct {
	// BatchID identifies the batch in the store and in webhook payloads.
	BatchID string `json:"batch_id,omitempty"`

	// ConfigFile is the path to the configuration file used.
	ConfigFile string `json:"config_file,omitempty"`

	// Dialect is the requested dialect.
	Dialect string `json:"dialect"`

	// Sources lists the logs that were analyzed.
	Sources []string `json:"sources"`

	// AnalyzedAt is when the analysis was performed.
	AnalyzedAt time.Time `json:"analyzed_at"`

	// Duration is how long the analysis took.
	Duration time.Duration `json:"duration"`
}

// NewReport creates a Report from analysis results.
func NewReport(result *analyzer.AnalysisResult, batchID string) *Report {
	report := &Report{
		Results: make([]Entry, 0, len(result.Results)),
		Metadata: Metadata{
			BatchID:    batchID,
			ConfigFile: result.Metadata.ConfigFile,
			Dialect:    result.Metadata.Dialect,
			Sources:    result.Metadata.Sources,
			AnalyzedAt: result.Metadata.EndTime,
			Duration:   result.Metadata.EndTime.Sub(result.Metadata.StartTime),
		},
		Summary: Summary{
			Logs:         len(result.Results),
			Failed:       result.Failed(),
			Unrecognized: result.Unrecognized(),
			BySolution:   map[string]int{},
		},
	}

	for _, r := range result.Results {
		e := Entry{Source: r.Source, Dialect: r.Dialect, Run: r.Summary}
		if r.Err != nil {
			e.Error = r.Err.Error()
		} else {
			report.Summary.Parsed++
			report.Summary.BySolution[solutionName(r.Summary)]++
		}
		report.Results = append(report.Results, e)
	}

	return report
}

// NewSingleReport wraps one parsed log.
func NewSingleReport(source string, s *analyzer.RunSummary) *Report {
	return NewReport(&analyzer.AnalysisResult{
		Results: []*analyzer.RunResult{{Source: source, Dialect: s.Solver, Summary: s}},
		Metadata: analyzer.AnalysisMetadata{
			Dialect: s.Solver,
			Sources: []string{source},
		},
	}, "")
}

// HasUnknown returns true if any log failed or had no recognizable status.
func (r *Report) HasUnknown() bool {
	return r.Summary.Failed > 0 || r.Summary.Unrecognized > 0
}

// SolutionNames returns the keys of BySolution, sorted.
func (s Summary) SolutionNames() []string {
	names := make([]string, 0, len(s.BySolution))
	for n := range s.BySolution {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func solutionName(s *analyzer.RunSummary) string {
	if s == nil || s.SolCode == nil {
		return "Unknown"
	}
	return s.SolCode.String()
}
