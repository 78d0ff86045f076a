package output

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ccollicutt/mipscan/pkg/analyzer"
	"github.com/ccollicutt/mipscan/pkg/dialect"
	"github.com/ccollicutt/mipscan/pkg/status"
)

// TextFormatter formats reports as human-readable text. Colors are only
// emitted when the writer is a terminal.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

type textStyles struct {
	header lipgloss.Style
	label  lipgloss.Style
	good   lipgloss.Style
	warn   lipgloss.Style
	bad    lipgloss.Style
	muted  lipgloss.Style
}

func newTextStyles(w io.Writer) textStyles {
	r := lipgloss.NewRenderer(w)
	return textStyles{
		header: r.NewStyle().Bold(true),
		label:  r.NewStyle().Width(16),
		good:   r.NewStyle().Foreground(lipgloss.Color("10")),
		warn:   r.NewStyle().Foreground(lipgloss.Color("11")),
		bad:    r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		muted:  r.NewStyle().Faint(true),
	}
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w, newTextStyles(w))
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	_, err := fmt.Fprintf(w, "mipscan: %d logs, %d parsed, %d failed, %d unrecognized\n",
		report.Summary.Logs,
		report.Summary.Parsed,
		report.Summary.Failed,
		report.Summary.Unrecognized)
	return err
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer, st textStyles) error {
	// Header
	fmt.Fprintln(w, st.header.Render("=== mipscan Report ==="))
	fmt.Fprintln(w)

	for _, e := range report.Results {
		f.formatEntry(e, w, st)
	}

	// Summary
	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d logs, %d parsed, %d failed, %d unrecognized\n",
		report.Summary.Logs,
		report.Summary.Parsed,
		report.Summary.Failed,
		report.Summary.Unrecognized)
	for _, name := range report.Summary.SolutionNames() {
		fmt.Fprintf(w, "  %s: %d\n", name, report.Summary.BySolution[name])
	}

	if f.opts.Verbose {
		if report.Metadata.BatchID != "" {
			fmt.Fprintf(w, "Batch: %s\n", report.Metadata.BatchID)
		}
		fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(1e6))
	}

	return nil
}

func (f *TextFormatter) formatEntry(e Entry, w io.Writer, st textStyles) {
	if e.Failed() {
		fmt.Fprintf(w, "%s %s\n", st.bad.Render("[FAILED]"), e.Source)
		fmt.Fprintf(w, "  %s\n\n", e.Error)
		return
	}

	s := e.Run
	fmt.Fprintf(w, "[%s] %s\n", s.Solver, e.Source)

	row := func(label, value string) {
		fmt.Fprintf(w, "  %s%s\n", st.label.Render(label+":"), value)
	}

	row("Status", f.statusText(s, st))
	row("Objective", formatFloat(s.BestSolution))
	row("Bound", formatFloat(s.BestBound))
	row("Gap", formatPercent(s.Gap))
	row("Time", formatSeconds(s.Time))
	row("Nodes", formatInt(s.Nodes))

	if f.opts.Verbose {
		row("Version", formatString(s.Version))
		row("Matrix", formatMatrix(s.Matrix))
		row("Matrix post", formatMatrix(s.MatrixPost))
		row("Presolve", formatPresolve(s.Presolve))
		row("Root time", formatSeconds(s.RootTime))
		row("First relaxed", formatFloat(s.FirstRelaxed))
		if s.FirstSolution != nil {
			row("First solution", fmt.Sprintf("%s at node %s",
				formatFloat(s.FirstSolution.BestInteger), formatFloat(s.FirstSolution.Node)))
		} else {
			row("First solution", "-")
		}
		row("Cuts", formatCuts(s.CutInfo))
		row("Progress rows", strconv.Itoa(s.Progress.Len()))
	}

	fmt.Fprintln(w)
}

func (f *TextFormatter) statusText(s *analyzer.RunSummary, st textStyles) string {
	raw := formatString(s.Status)
	if s.StatusCode == nil {
		return st.warn.Render(raw + " (unrecognized)")
	}
	codes := fmt.Sprintf("%s (%s / %s)", raw, s.StatusCode, s.SolCode)
	switch *s.SolCode {
	case status.Optimal:
		return st.good.Render(codes)
	case status.IntegerFeasible:
		return st.warn.Render(codes)
	case status.SolutionInfeasible, status.SolutionUnbounded:
		return st.bad.Render(codes)
	default:
		return st.muted.Render(codes)
	}
}

func formatString(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func formatFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}

func formatPercent(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64) + "%"
}

func formatSeconds(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64) + "s"
}

func formatInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func formatMatrix(m *dialect.Matrix) string {
	if m == nil {
		return "-"
	}
	return fmt.Sprintf("%d rows, %d columns, %d nonzeros", m.Constraints, m.Variables, m.Nonzeros)
}

func formatPresolve(p *dialect.Presolve) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%s, removed %s rows and %s columns",
		formatSeconds(p.Time), formatInt(p.Rows), formatInt(p.Cols))
}

func formatCuts(c *analyzer.CutInfo) string {
	if c == nil {
		return "-"
	}
	if c.Empty() {
		return "none"
	}
	names := make([]string, 0, len(c.Cuts))
	for name := range c.Cuts {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%d", name, c.Cuts[name])
	}
	return fmt.Sprintf("%s (bound after cuts %s)", strings.Join(parts, ", "), formatFloat(c.BestBound))
}
