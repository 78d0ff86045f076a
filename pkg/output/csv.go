package output

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/ccollicutt/mipscan/pkg/progress"
)

// SummaryColumns is the header of the CSV report.
var SummaryColumns = []string{
	"source", "solver", "status", "status_code", "sol_code",
	"best_solution", "best_bound", "gap", "time", "nodes", "error",
}

// CSVFormatter writes one row per log.
type CSVFormatter struct {
	opts FormatOptions
}

// NewCSVFormatter creates a new CSV formatter with the given options.
func NewCSVFormatter(opts FormatOptions) *CSVFormatter {
	return &CSVFormatter{opts: opts}
}

// Name returns the format name.
func (f *CSVFormatter) Name() string {
	return "csv"
}

// Format renders the report as CSV. Absent values are empty cells.
func (f *CSVFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SummaryColumns); err != nil {
		return err
	}

	for _, e := range report.Results {
		if err := ctx.Err(); err != nil {
			return err
		}
		record := []string{e.Source, e.Dialect, "", "", "", "", "", "", "", "", e.Error}
		if s := e.Run; s != nil {
			record[2] = cell(s.Status)
			if s.StatusCode != nil {
				record[3] = strconv.Itoa(int(*s.StatusCode))
				record[4] = strconv.Itoa(int(*s.SolCode))
			}
			record[5] = floatCell(s.BestSolution)
			record[6] = floatCell(s.BestBound)
			record[7] = floatCell(s.Gap)
			record[8] = floatCell(s.Time)
			if s.Nodes != nil {
				record[9] = strconv.Itoa(*s.Nodes)
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteProgressCSV writes a progress table with its column names as header.
func WriteProgressCSV(w io.Writer, t *progress.Table) error {
	cw := csv.NewWriter(w)
	if t == nil {
		t = progress.NewTable()
	}
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func cell(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func floatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
