package output

import (
	"errors"
	"testing"
	"time"

	"github.com/ccollicutt/mipscan/pkg/analyzer"
	"github.com/ccollicutt/mipscan/pkg/dialect"
	"github.com/ccollicutt/mipscan/pkg/progress"
	"github.com/ccollicutt/mipscan/pkg/status"
)

func ptr[T any](v T) *T { return &v }

func optimalRun() *analyzer.RunSummary {
	table := progress.NewTable(progress.Node, progress.NodesLeft, progress.BestInteger, progress.CutsBestBound)
	_ = table.Append("0", "1", "1e+50", "38000")
	_ = table.Append("100", "40", "39000", "38500")
	return &analyzer.RunSummary{
		Version:      ptr("2.10.3"),
		Solver:       "CBC",
		Status:       ptr("Optimal solution found"),
		BestBound:    ptr(38752.0),
		BestSolution: ptr(38752.0),
		Gap:          ptr(0.0),
		Time:         ptr(725.37),
		Matrix:       &dialect.Matrix{Constraints: 200, Variables: 100, Nonzeros: 800},
		CutInfo:      &analyzer.CutInfo{},
		FirstRelaxed: ptr(38000.0),
		Progress:     table,
		StatusCode:   ptr(status.Solved),
		SolCode:      ptr(status.Optimal),
		Nodes:        ptr(378472),
	}
}

func unknownRun() *analyzer.RunSummary {
	return &analyzer.RunSummary{Solver: "GUROBI", Progress: progress.NewTable()}
}

func createTestReport() *Report {
	start := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	result := &analyzer.AnalysisResult{
		Results: []*analyzer.RunResult{
			{Source: "runs/a.log", Dialect: "CBC", Summary: optimalRun()},
			{Source: "runs/b.log", Dialect: "GUROBI", Summary: unknownRun()},
			{Source: "runs/c.log", Err: errors.New("runs/c.log: could not detect solver dialect")},
		},
		Metadata: analyzer.AnalysisMetadata{
			Dialect:   "auto",
			Sources:   []string{"runs/a.log", "runs/b.log", "runs/c.log"},
			StartTime: start,
			EndTime:   start.Add(1500 * time.Millisecond),
		},
	}
	return NewReport(result, "batch-1")
}

func TestNewReport(t *testing.T) {
	report := createTestReport()

	if report.Summary.Logs != 3 {
		t.Errorf("Logs = %d, want 3", report.Summary.Logs)
	}
	if report.Summary.Parsed != 2 {
		t.Errorf("Parsed = %d, want 2", report.Summary.Parsed)
	}
	if report.Summary.Failed != 1 {
		t.Errorf("Failed = %d, want 1", report.Summary.Failed)
	}
	if report.Summary.Unrecognized != 1 {
		t.Errorf("Unrecognized = %d, want 1", report.Summary.Unrecognized)
	}
	if report.Summary.BySolution["Optimal"] != 1 || report.Summary.BySolution["Unknown"] != 1 {
		t.Errorf("BySolution = %v", report.Summary.BySolution)
	}
	if report.Metadata.Duration != 1500*time.Millisecond {
		t.Errorf("Duration = %v", report.Metadata.Duration)
	}
	if !report.HasUnknown() {
		t.Error("HasUnknown() = false, want true")
	}
	if got := report.Summary.SolutionNames(); len(got) != 2 || got[0] != "Optimal" {
		t.Errorf("SolutionNames() = %v", got)
	}
}

func TestNewSingleReport(t *testing.T) {
	report := NewSingleReport("run.log", optimalRun())
	if report.Summary.Logs != 1 || report.Summary.Parsed != 1 {
		t.Errorf("Summary = %+v", report.Summary)
	}
	if report.HasUnknown() {
		t.Error("HasUnknown() = true, want false")
	}
	if report.Results[0].Dialect != "CBC" {
		t.Errorf("Dialect = %q", report.Results[0].Dialect)
	}
}

func TestNew(t *testing.T) {
	for _, name := range []string{"text", "json", "csv"} {
		f, err := New(name, FormatOptions{})
		if err != nil {
			t.Fatalf("New(%q) error = %v", name, err)
		}
		if f.Name() != name {
			t.Errorf("Name() = %q, want %q", f.Name(), name)
		}
	}
	if _, err := New("xml", FormatOptions{}); err == nil {
		t.Error("New(xml) expected error")
	}
}
