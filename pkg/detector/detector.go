// Package detector provides automatic solver dialect detection for log files.
package detector

import (
	"bufio"
	"context"
	"os"
	"sort"
	"strings"
)

// DetectionResult holds the result of analyzing a log.
type DetectionResult struct {
	Matches      []DialectMatch // Dialects that matched, sorted by confidence descending
	SampledLines int            // Number of lines sampled
}

// DialectMatch is a dialect whose signatures appeared in the sample.
type DialectMatch struct {
	Dialect    string
	Confidence float64  // 0.0 to 1.0 (share of the dialect's signature weight seen)
	MatchCount int      // Number of lines that matched any signature
	Signatures []string // Names of the signatures seen
	SampleLine string   // First line that matched
}

// DefaultSampleSize is the number of non-blank lines sampled by default.
const DefaultSampleSize = 2000

// Detector analyzes logs to identify the solver that wrote them.
type Detector struct {
	signatures []*Signature
	sampleSize int
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize sets the number of non-blank lines to sample.
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// WithSignatures replaces the built-in signatures.
func WithSignatures(sigs []*Signature) Option {
	return func(d *Detector) {
		d.signatures = sigs
	}
}

// New creates a new Detector with default signatures.
func New(opts ...Option) *Detector {
	d := &Detector{
		signatures: DefaultSignatures(),
		sampleSize: DefaultSampleSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFromFile analyzes a log file and returns the matching dialects.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*DetectionResult, error) {
	lines, err := d.sampleFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return d.DetectFromLines(lines), nil
}

// DetectFromContent analyzes log text already in memory.
func (d *Detector) DetectFromContent(content string) *DetectionResult {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) >= d.sampleSize {
			break
		}
	}
	return d.DetectFromLines(lines)
}

// Detect returns the best dialect for content, if any signature matched.
func (d *Detector) Detect(content string) (string, bool) {
	best := d.DetectFromContent(content).BestMatch()
	if best == nil {
		return "", false
	}
	return best.Dialect, true
}

// DetectFromLines analyzes a slice of log lines.
func (d *Detector) DetectFromLines(lines []string) *DetectionResult {
	result := &DetectionResult{
		SampledLines: len(lines),
	}
	if len(lines) == 0 {
		return result
	}

	type dialectStats struct {
		seen       map[string]*Signature
		matchCount int
		sampleLine string
	}
	stats := make(map[string]*dialectStats)
	total := make(map[string]float64)
	for _, s := range d.signatures {
		total[s.Dialect] += s.Weight
	}

	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		for _, sig := range d.signatures {
			if !sig.Pattern.MatchString(line) {
				continue
			}
			st := stats[sig.Dialect]
			if st == nil {
				st = &dialectStats{seen: map[string]*Signature{}, sampleLine: line}
				stats[sig.Dialect] = st
			}
			st.seen[sig.Name] = sig
			st.matchCount++
		}
	}

	for dialect, st := range stats {
		var weight float64
		names := make([]string, 0, len(st.seen))
		for name, sig := range st.seen {
			weight += sig.Weight
			names = append(names, name)
		}
		sort.Strings(names)
		confidence := 0.0
		if total[dialect] > 0 {
			confidence = weight / total[dialect]
		}
		result.Matches = append(result.Matches, DialectMatch{
			Dialect:    dialect,
			Confidence: confidence,
			MatchCount: st.matchCount,
			Signatures: names,
			SampleLine: st.sampleLine,
		})
	}

	// Sort by confidence descending, then by lines matched, then by name
	sort.Slice(result.Matches, func(i, j int) bool {
		a, b := result.Matches[i], result.Matches[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.MatchCount != b.MatchCount {
			return a.MatchCount > b.MatchCount
		}
		return a.Dialect < b.Dialect
	})

	return result
}

// sampleFile reads up to sampleSize non-blank lines from a file.
func (d *Detector) sampleFile(_ context.Context, path string) ([]string, error) {
	// #nosec G304 - path is provided by user via CLI
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() && len(lines) < d.sampleSize {
		line := scanner.Text()
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

// BestMatch returns the highest confidence match, or nil if none found.
func (r *DetectionResult) BestMatch() *DialectMatch {
	if len(r.Matches) == 0 {
		return nil
	}
	return &r.Matches[0]
}

// HasMatch returns true if at least one dialect matched.
func (r *DetectionResult) HasMatch() bool {
	return len(r.Matches) > 0
}
