package test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/ccollicutt/mipscan/internal/cli"
	"github.com/ccollicutt/mipscan/internal/cli/commands"
	"github.com/ccollicutt/mipscan/pkg/analyzer"
	"github.com/ccollicutt/mipscan/pkg/config"
	"github.com/ccollicutt/mipscan/pkg/detector"
	"github.com/ccollicutt/mipscan/pkg/output"
	"github.com/ccollicutt/mipscan/pkg/parser"
	"github.com/ccollicutt/mipscan/pkg/status"
	"github.com/ccollicutt/mipscan/pkg/store"
	"github.com/ccollicutt/mipscan/pkg/webhook"
)

var (
	projectRoot string
	rootOnce    sync.Once
)

// chdir changes to the project root directory for tests.
// Config files use paths relative to project root.
func chdir(t *testing.T) {
	t.Helper()
	rootOnce.Do(func() {
		// Get the directory containing this test file, then go up one level
		_, filename, _, _ := runtime.Caller(0)
		projectRoot = filepath.Dir(filepath.Dir(filename))
	})
	if err := os.Chdir(projectRoot); err != nil {
		t.Fatalf("Failed to chdir to project root: %v", err)
	}
}

// requireFile fails the test if the required test file doesn't exist.
// We never skip tests - missing test data is a test failure.
func requireFile(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatalf("Required test file not found: %s", path)
	}
}

// runCLI executes the root command with args and returns stdout, stderr
// and the exit code the binary would use.
func runCLI(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	commands.ExitCode = 0
	t.Cleanup(func() { commands.ExitCode = 0 })

	root := cli.NewRootCommand()
	root.SetArgs(args)
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)

	if err := root.ExecuteContext(context.Background()); err != nil {
		stderr.WriteString("Error: " + err.Error() + "\n")
		return stdout.String(), stderr.String(), 2
	}
	return stdout.String(), stderr.String(), commands.ExitCode
}

func analyzeConfig(t *testing.T, configFile string) (*config.Config, *analyzer.AnalysisResult) {
	t.Helper()
	ctx := context.Background()

	cfg, err := config.Load(ctx, configFile)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	files, err := parser.ExpandGlobs(cfg.LogSources)
	if err != nil {
		t.Fatalf("Failed to expand globs: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("No log files matched")
	}

	a, err := analyzer.NewAnalyzer(cfg.Dialect,
		analyzer.WithWorkers(cfg.Workers),
		analyzer.WithProgress(cfg.GetProgress),
		analyzer.WithConfigFile(configFile),
	)
	if err != nil {
		t.Fatalf("Failed to create analyzer: %v", err)
	}

	source := parser.NewFileSource(files)
	defer source.Close()

	result, err := a.Analyze(ctx, source)
	if err != nil {
		t.Fatalf("Analysis failed: %v", err)
	}
	return cfg, result
}

// TestE2E_AllFixtures runs the full pipeline over every fixture log with
// per-log dialect detection.
func TestE2E_AllFixtures(t *testing.T) {
	chdir(t)
	requireFile(t, filepath.Join("testdata", "logs", "cbc_optimal.log"))

	_, result := analyzeConfig(t, filepath.Join("testdata", "configs", "all.yaml"))

	if len(result.Results) != 6 {
		t.Fatalf("Results = %d, want 6", len(result.Results))
	}
	if result.Failed() != 1 {
		t.Errorf("Failed = %d, want 1 (truncated.log)", result.Failed())
	}
	if result.Unrecognized() != 0 {
		t.Errorf("Unrecognized = %d, want 0", result.Unrecognized())
	}

	want := map[string]struct {
		dialect  string
		solution status.Solution
	}{
		"cbc_optimal.log":       {"CBC", status.Optimal},
		"cbc_timelimit.log":     {"CBC", status.NoSolutionFound},
		"cplex_optimal.log":     {"CPLEX", status.Optimal},
		"cpsat_optimal.log":     {"CPSAT", status.Optimal},
		"gurobi_infeasible.log": {"GUROBI", status.SolutionInfeasible},
	}

	for _, r := range result.Results {
		name := filepath.Base(r.Source)
		if name == "truncated.log" {
			if r.Err == nil {
				t.Error("truncated.log should fail detection")
			}
			continue
		}
		w, ok := want[name]
		if !ok {
			t.Errorf("Unexpected source %s", r.Source)
			continue
		}
		if r.Err != nil {
			t.Errorf("%s: unexpected error %v", name, r.Err)
			continue
		}
		if r.Dialect != w.dialect {
			t.Errorf("%s: dialect = %s, want %s", name, r.Dialect, w.dialect)
		}
		if r.Summary.SolCode == nil || *r.Summary.SolCode != w.solution {
			t.Errorf("%s: sol_code = %v, want %s", name, r.Summary.SolCode, w.solution)
		}
	}
}

// TestE2E_TextOutput tests text report formatting over real logs.
func TestE2E_TextOutput(t *testing.T) {
	chdir(t)
	ctx := context.Background()

	_, result := analyzeConfig(t, filepath.Join("testdata", "configs", "all.yaml"))

	report := output.NewReport(result, "e2e")
	formatter := output.NewTextFormatter(output.FormatOptions{})

	var buf bytes.Buffer
	if err := formatter.Format(ctx, report, &buf); err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	out := buf.String()
	checks := []string{
		"mipscan Report",
		"[CBC] testdata/logs/cbc_optimal.log",
		"[CPLEX] testdata/logs/cplex_optimal.log",
		"[FAILED] testdata/logs/truncated.log",
		"Summary: 6 logs, 5 parsed, 1 failed, 0 unrecognized",
		"Optimal: 3",
	}
	for _, check := range checks {
		if !strings.Contains(out, check) {
			t.Errorf("Output missing %q", check)
		}
	}
}

// TestE2E_JSONOutput tests JSON output with a TOML config.
func TestE2E_JSONOutput(t *testing.T) {
	chdir(t)
	ctx := context.Background()

	cfg, result := analyzeConfig(t, filepath.Join("testdata", "configs", "solved.toml"))
	if cfg.Output != "json" {
		t.Errorf("Output = %s, want json from TOML", cfg.Output)
	}

	report := output.NewReport(result, "e2e")
	formatter := output.NewJSONFormatter(output.FormatOptions{})

	var buf bytes.Buffer
	if err := formatter.Format(ctx, report, &buf); err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	var parsed output.Report
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}

	if parsed.Summary.Logs != 4 || parsed.Summary.Parsed != 4 {
		t.Errorf("Summary = %+v, want 4 parsed logs", parsed.Summary)
	}
	if parsed.Metadata.BatchID != "e2e" {
		t.Errorf("BatchID = %s", parsed.Metadata.BatchID)
	}
	for _, e := range parsed.Results {
		if e.Run == nil || e.Run.StatusCode == nil {
			t.Errorf("%s: expected a recognized run", e.Source)
		}
	}
}

// TestE2E_CLI_Parse runs the parse command through the root command.
func TestE2E_CLI_Parse(t *testing.T) {
	chdir(t)

	stdout, _, code := runCLI(t, "parse", "-o", "json", filepath.Join("testdata", "logs", "cplex_optimal.log"))
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}

	var summary analyzer.RunSummary
	if err := json.Unmarshal([]byte(stdout), &summary); err != nil {
		t.Fatalf("Invalid JSON: %v\n%s", err, stdout)
	}
	if summary.Solver != "CPLEX" {
		t.Errorf("Solver = %s", summary.Solver)
	}
	if summary.CutInfo == nil || summary.CutInfo.Cuts["Gomory fractional"] != 5 {
		t.Errorf("CutInfo = %+v", summary.CutInfo)
	}
}

// TestE2E_CLI_ParseProgressCSV writes the progress table of a log.
func TestE2E_CLI_ParseProgressCSV(t *testing.T) {
	chdir(t)

	stdout, _, code := runCLI(t, "parse", "-o", "csv", filepath.Join("testdata", "logs", "cbc_optimal.log"))
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if lines[0] != "Node,NodesLeft,BestInteger,CutsBestBound,Time" {
		t.Errorf("Header = %q", lines[0])
	}
	if len(lines) < 2 {
		t.Error("Expected progress rows")
	}
}

// TestE2E_CLI_ParseUndetected exits 2 when no dialect can be found.
func TestE2E_CLI_ParseUndetected(t *testing.T) {
	chdir(t)

	_, stderr, code := runCLI(t, "parse", filepath.Join("testdata", "logs", "truncated.log"))
	if code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
	if !strings.Contains(stderr, "Error:") {
		t.Errorf("Expected error on stderr, got %q", stderr)
	}
}

// TestE2E_CLI_BatchStore stores a batch and reads it back.
func TestE2E_CLI_BatchStore(t *testing.T) {
	chdir(t)
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	stdout, _, code := runCLI(t, "batch", "-o", "json", "--store", dbPath, "--fail-on-unknown",
		filepath.Join("testdata", "configs", "all.yaml"))
	if code != 1 {
		t.Errorf("exit code = %d, want 1 (truncated.log failed)", code)
	}

	var report output.Report
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	runs, err := st.Runs(context.Background(), report.Metadata.BatchID)
	if err != nil {
		t.Fatalf("Runs failed: %v", err)
	}
	if len(runs) != 6 {
		t.Fatalf("Stored runs = %d, want 6", len(runs))
	}

	run, err := st.Get(context.Background(), filepath.Join("testdata", "logs", "cbc_optimal.log"))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if run.Nodes == nil || *run.Nodes != 378472 {
		t.Errorf("Nodes = %v, want 378472", run.Nodes)
	}

	table, err := st.Progress(context.Background(), run.Source)
	if err != nil {
		t.Fatalf("Progress failed: %v", err)
	}
	if table.Len() == 0 {
		t.Error("Expected stored progress rows")
	}
}

// TestE2E_CLI_Dialects lists the registered dialects.
func TestE2E_CLI_Dialects(t *testing.T) {
	stdout, _, code := runCLI(t, "dialects")
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if stdout != "CBC\nCPLEX\nCPSAT\nGUROBI\n" {
		t.Errorf("Output = %q", stdout)
	}
}

// TestE2E_CLI_InvalidLogLevel rejects unknown log levels.
func TestE2E_CLI_InvalidLogLevel(t *testing.T) {
	_, _, code := runCLI(t, "--log-level", "loud", "dialects")
	if code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
}

// TestE2E_CLI_ValidateInvalidYAML fails validation on broken YAML.
func TestE2E_CLI_ValidateInvalidYAML(t *testing.T) {
	chdir(t)

	_, _, code := runCLI(t, "validate", filepath.Join("testdata", "configs", "invalid.yaml"))
	if code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
}

// TestE2E_Detect tests dialect detection on every fixture.
func TestE2E_Detect(t *testing.T) {
	chdir(t)
	ctx := context.Background()

	tests := map[string]string{
		"cbc_optimal.log":       "CBC",
		"cplex_optimal.log":     "CPLEX",
		"gurobi_infeasible.log": "GUROBI",
		"cpsat_optimal.log":     "CPSAT",
	}

	d := detector.New()
	for name, want := range tests {
		t.Run(name, func(t *testing.T) {
			result, err := d.DetectFromFile(ctx, filepath.Join("testdata", "logs", name))
			if err != nil {
				t.Fatalf("Detection failed: %v", err)
			}
			best := result.BestMatch()
			if best == nil {
				t.Fatal("No dialect detected")
			}
			if best.Dialect != want {
				t.Errorf("Detected %s, want %s", best.Dialect, want)
			}
		})
	}
}

// TestE2E_Detect_WriteConfig generates a config and runs a batch with it.
func TestE2E_Detect_WriteConfig(t *testing.T) {
	chdir(t)
	configPath := filepath.Join(t.TempDir(), "mipscan.yaml")
	logFile := filepath.Join("testdata", "logs", "cpsat_optimal.log")

	_, _, code := runCLI(t, "detect", "--write-config", configPath, logFile)
	if code != 0 {
		t.Fatalf("detect exit code = %d", code)
	}

	stdout, _, code := runCLI(t, "batch", "-q", configPath)
	if code != 0 {
		t.Fatalf("batch exit code = %d", code)
	}
	if stdout != "mipscan: 1 logs, 1 parsed, 0 failed, 0 unrecognized\n" {
		t.Errorf("Unexpected output: %q", stdout)
	}
}

// TestE2E_Diagnose_WrongDialect reports a dialect mismatch.
func TestE2E_Diagnose_WrongDialect(t *testing.T) {
	chdir(t)

	cfg, err := config.Load(context.Background(), filepath.Join("testdata", "configs", "wrong_dialect.yaml"))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	d := detector.New()
	result, err := d.DetectFromFile(context.Background(), cfg.LogSources[0])
	if err != nil {
		t.Fatalf("Detection failed: %v", err)
	}
	if best := result.BestMatch(); best == nil || best.Dialect == cfg.Dialect {
		t.Errorf("Expected a dialect other than %s, got %+v", cfg.Dialect, best)
	}

	_, _, code := runCLI(t, "diagnose", filepath.Join("testdata", "configs", "wrong_dialect.yaml"))
	if code != 0 {
		t.Errorf("diagnose exit code = %d, want 0", code)
	}
}

// TestE2E_Webhook_SendOnUnknown posts a batch with a failed log.
func TestE2E_Webhook_SendOnUnknown(t *testing.T) {
	chdir(t)

	var receivedPayload []byte
	var receivedAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedAuth = r.Header.Get("Authorization")
		receivedPayload, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"received"}`))
	}))
	defer server.Close()

	_, result := analyzeConfig(t, filepath.Join("testdata", "configs", "all.yaml"))
	report := output.NewReport(result, "e2e")

	if !report.HasUnknown() {
		t.Fatal("Expected unknown logs for webhook test")
	}

	results := webhook.NewClient().SendAll(context.Background(), report, []config.WebhookConfig{
		{Name: "ci", URL: server.URL, Token: "test-token-123", Trigger: config.WebhookTriggerOnUnknown},
	})
	if len(results) != 1 || results[0].Skipped {
		t.Fatalf("Expected webhook to fire, got %+v", results)
	}
	if !results[0].Response.Success() {
		t.Fatalf("Webhook failed: %v", results[0].Response.Error)
	}

	if receivedAuth != "Bearer test-token-123" {
		t.Errorf("Expected Bearer token, got %s", receivedAuth)
	}

	var payload output.Report
	if err := json.Unmarshal(receivedPayload, &payload); err != nil {
		t.Fatalf("Invalid JSON payload: %v", err)
	}
	if payload.Summary.Failed != 1 {
		t.Errorf("Failed in payload = %d, want 1", payload.Summary.Failed)
	}
}

// TestE2E_Webhook_NoSendOnSuccess tests webhook doesn't fire for a clean batch.
func TestE2E_Webhook_NoSendOnSuccess(t *testing.T) {
	chdir(t)

	webhookCalled := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		webhookCalled = true
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	_, result := analyzeConfig(t, filepath.Join("testdata", "configs", "solved.toml"))
	report := output.NewReport(result, "e2e")

	results := webhook.NewClient().SendAll(context.Background(), report, []config.WebhookConfig{
		{URL: server.URL, Trigger: config.WebhookTriggerOnUnknown},
	})

	if !results[0].Skipped {
		t.Error("Expected webhook to be skipped")
	}
	if webhookCalled {
		t.Error("Webhook should not be called for a clean batch")
	}
}
