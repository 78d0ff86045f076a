package progress

import (
	"regexp"
	"strings"
)

// Grammar is the progress-line contract a dialect exposes.
type Grammar interface {
	// Filter selects candidate iteration-log lines.
	Filter() *regexp.Regexp
	// Schema names the cells ProcessLine returns, in order.
	Schema() []string
	// ProcessLine parses one candidate line. ok is false for lines that
	// resemble data rows but do not fit the grammar.
	ProcessLine(line string) (cells []string, ok bool)
}

// Anchor pins a row count to an elapsed time in seconds.
type Anchor struct {
	Row     int
	Elapsed float64
}

// Stats describes one Build pass.
type Stats struct {
	Candidates int
	Dropped    int
	Anchors    []Anchor
}

// ElapsedBanner recovers time anchors from periodic banners interleaved with
// the iteration log. Banners are only honoured after the first line that
// contains Start.
type ElapsedBanner struct {
	Start   string
	Pattern *regexp.Regexp
	// Group is the capture holding the elapsed seconds.
	Group int
}

// BuildOption configures Build.
type BuildOption func(*builder)

type builder struct {
	banner *ElapsedBanner
}

// WithElapsedBanner collects anchors while the table is built.
func WithElapsedBanner(b ElapsedBanner) BuildOption {
	return func(bl *builder) {
		bl.banner = &b
	}
}

// Build runs the grammar over every filtered line of text. Lines rejected by
// ProcessLine are dropped and counted. Zero matching lines give an empty
// table.
func Build(text string, g Grammar, opts ...BuildOption) (*Table, Stats) {
	bl := &builder{}
	for _, opt := range opts {
		opt(bl)
	}

	table := NewTable(g.Schema()...)
	filter := g.Filter()
	var stats Stats
	started := bl.banner == nil || bl.banner.Start == ""

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if !started && strings.Contains(line, bl.banner.Start) {
			started = true
		}
		if filter.MatchString(line) {
			stats.Candidates++
			cells, ok := g.ProcessLine(line)
			if !ok || table.Append(cells...) != nil {
				stats.Dropped++
			}
			continue
		}
		if bl.banner == nil || !started {
			continue
		}
		if m := bl.banner.Pattern.FindStringSubmatch(line); m != nil && bl.banner.Group+1 < len(m) {
			if f, ok := parseFloat(m[bl.banner.Group+1]); ok {
				stats.Anchors = append(stats.Anchors, Anchor{Row: table.Len(), Elapsed: f})
			}
		}
	}
	return table, stats
}
