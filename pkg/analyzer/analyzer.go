package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ccollicutt/mipscan/pkg/detector"
	"github.com/ccollicutt/mipscan/pkg/dialect"
	"github.com/ccollicutt/mipscan/pkg/parser"
)

// AutoDialect asks the analyzer to detect the dialect of every log.
const AutoDialect = "auto"

// ErrUndetected is returned when no dialect signature matched a log.
var ErrUndetected = errors.New("could not detect solver dialect")

// Analyzer parses solver logs into run summaries.
type Analyzer struct {
	dialect  string
	detector *detector.Detector

	// Options
	progress   bool
	workers    int
	logger     *slog.Logger
	observers  []Observer
	configFile string
}

// AnalyzerOption configures analyzer behavior.
type AnalyzerOption func(*Analyzer)

// WithProgress controls whether the progress table and the fields derived
// from it are computed (default true).
func WithProgress(enabled bool) AnalyzerOption {
	return func(a *Analyzer) {
		a.progress = enabled
	}
}

// WithWorkers sets how many logs Analyze parses at once.
func WithWorkers(n int) AnalyzerOption {
	return func(a *Analyzer) {
		if n > 0 {
			a.workers = n
		}
	}
}

// WithLogger sets the logger (default slog.Default()).
func WithLogger(l *slog.Logger) AnalyzerOption {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithObserver registers an observer for finished logs.
func WithObserver(o Observer) AnalyzerOption {
	return func(a *Analyzer) {
		if o != nil {
			a.observers = append(a.observers, o)
		}
	}
}

// WithDetector replaces the detector used for AutoDialect.
func WithDetector(d *detector.Detector) AnalyzerOption {
	return func(a *Analyzer) {
		if d != nil {
			a.detector = d
		}
	}
}

// WithConfigFile records the configuration path in the result metadata.
func WithConfigFile(path string) AnalyzerOption {
	return func(a *Analyzer) {
		a.configFile = path
	}
}

// NewAnalyzer creates an analyzer for the named dialect, or AutoDialect.
// An unregistered dialect name is a configuration error.
func NewAnalyzer(dialectName string, opts ...AnalyzerOption) (*Analyzer, error) {
	name := strings.TrimSpace(dialectName)
	switch {
	case strings.EqualFold(name, AutoDialect):
		name = AutoDialect
	case dialect.Known(name):
		name = strings.ToUpper(name)
	default:
		return nil, fmt.Errorf("%w: %q (known: %s, %s)", dialect.ErrUnknownDialect,
			dialectName, strings.Join(dialect.Names(), ", "), AutoDialect)
	}

	a := &Analyzer{
		dialect:  name,
		detector: detector.New(),
		progress: true,
		workers:  runtime.GOMAXPROCS(0),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Dialect returns the configured dialect name.
func (a *Analyzer) Dialect() string {
	return a.dialect
}

// Parse summarizes one log held in memory.
func (a *Analyzer) Parse(ctx context.Context, content string) (*RunSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	adapter, err := a.adapter(content)
	if err != nil {
		return nil, err
	}
	return Summarize(adapter, a.progress, a.logger), nil
}

func (a *Analyzer) adapter(content string) (dialect.Adapter, error) {
	name := a.dialect
	if name == AutoDialect {
		match := a.detector.DetectFromContent(content).BestMatch()
		if match == nil {
			return nil, ErrUndetected
		}
		a.logger.Debug("dialect detected", "dialect", match.Dialect, "confidence", match.Confidence)
		name = match.Dialect
	}
	return dialect.New(name, content)
}

// Analyze parses every log of source, up to the configured number at a
// time. A log that fails to load or whose dialect cannot be detected is
// reported in its RunResult; only cancellation and source failures without
// a named log abort the batch.
func (a *Analyzer) Analyze(ctx context.Context, source parser.LogSource) (*AnalysisResult, error) {
	result := &AnalysisResult{
		Metadata: AnalysisMetadata{
			ConfigFile: a.configFile,
			Dialect:    a.dialect,
			Workers:    a.workers,
			StartTime:  time.Now(),
		},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)

	for {
		in, err := source.Next(gctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			var srcErr *parser.SourceError
			if !errors.As(err, &srcErr) {
				_ = g.Wait()
				return nil, fmt.Errorf("reading log source: %w", err)
			}
			a.logger.Warn("log could not be loaded", "source", srcErr.Source, "error", srcErr.Err)
			res := &RunResult{Source: srcErr.Source, Err: err}
			result.Results = append(result.Results, res)
			result.Metadata.Sources = append(result.Metadata.Sources, srcErr.Source)
			a.notify(res)
			continue
		}

		res := &RunResult{Source: in.Source}
		result.Results = append(result.Results, res)
		result.Metadata.Sources = append(result.Metadata.Sources, in.Source)

		g.Go(func() error {
			a.run(gctx, in, res)
			return gctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result.Metadata.EndTime = time.Now()
	return result, nil
}

// run fills res for one log.
func (a *Analyzer) run(ctx context.Context, in *parser.Input, res *RunResult) {
	start := time.Now()
	defer func() {
		res.Duration = time.Since(start)
		a.notify(res)
	}()

	if err := ctx.Err(); err != nil {
		res.Err = err
		return
	}
	adapter, err := a.adapter(in.Content)
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", in.Source, err)
		a.logger.Warn("log skipped", "source", in.Source, "error", err)
		return
	}
	res.Dialect = adapter.Name()
	res.Summary = Summarize(adapter, a.progress, a.logger)
}

func (a *Analyzer) notify(res *RunResult) {
	for _, o := range a.observers {
		o.ObserveRun(res)
	}
}
