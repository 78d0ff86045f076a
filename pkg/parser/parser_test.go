package parser

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Content(t *testing.T) {
	in, err := Load(context.Background(), "Result - Optimal solution found\n", true)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if in.Source != InlineSource {
		t.Errorf("Source = %q, want %q", in.Source, InlineSource)
	}
	if in.Size() != 32 {
		t.Errorf("Size() = %d, want 32", in.Size())
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "cbc.log")
	content := "Welcome to the CBC MILP Solver\nVersion: 2.10.3\n"
	if err := os.WriteFile(logFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	in, err := Load(context.Background(), logFile, false)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if in.Source != logFile {
		t.Errorf("Source = %q, want %q", in.Source, logFile)
	}
	if in.Content != content {
		t.Errorf("Content = %q, want %q", in.Content, content)
	}
}

func TestLoad_Empty(t *testing.T) {
	for _, isContent := range []bool{true, false} {
		_, err := Load(context.Background(), "", isContent)
		if !errors.Is(err, ErrEmptyInput) {
			t.Errorf("Load(\"\", %v) error = %v, want ErrEmptyInput", isContent, err)
		}
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(context.Background(), "/nonexistent/file.log", false)
	if err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestFileSource_MultipleFiles(t *testing.T) {
	dir := t.TempDir()

	files := []struct {
		name    string
		content string
	}{
		{"a.log", "Gurobi Optimizer version 9.1.2\n"},
		{"b.log", "Version: 2.10.3\n"},
	}

	var paths []string
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := os.WriteFile(path, []byte(f.content), 0644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, path)
	}

	source := NewFileSource(paths)
	defer source.Close()

	inputs, err := ReadAll(context.Background(), source)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(inputs) != 2 {
		t.Fatalf("Got %d logs, want 2", len(inputs))
	}
	if inputs[1].Content != files[1].content {
		t.Errorf("Content = %q, want %q", inputs[1].Content, files[1].content)
	}
}

func TestFileSource_EmptyList(t *testing.T) {
	source := NewFileSource(nil)
	_, err := source.Next(context.Background())
	if err != io.EOF {
		t.Errorf("Next() error = %v, want io.EOF", err)
	}
}

func TestFileSource_FileNotFound(t *testing.T) {
	source := NewFileSource([]string{"/nonexistent/file.log"})
	defer source.Close()

	_, err := source.Next(context.Background())
	if err == nil {
		t.Error("Next() expected error for missing file")
	}
}

func TestFileSource_ContextCancellation(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "test.log")
	if err := os.WriteFile(logFile, []byte("line\n"), 0644); err != nil {
		t.Fatal(err)
	}

	source := NewFileSource([]string{logFile})
	defer source.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	_, err := source.Next(ctx)
	if err != context.Canceled {
		t.Errorf("Next() error = %v, want context.Canceled", err)
	}
}

func TestStringSource(t *testing.T) {
	source := NewStringSource("one", "two")
	inputs, err := ReadAll(context.Background(), source)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(inputs) != 2 || inputs[0].Content != "one" || inputs[1].Source != InlineSource {
		t.Errorf("ReadAll() = %+v", inputs)
	}
}

func TestFileSource_SourceError(t *testing.T) {
	source := NewFileSource([]string{"/nonexistent/file.log"})
	_, err := source.Next(context.Background())

	var srcErr *SourceError
	if !errors.As(err, &srcErr) {
		t.Fatalf("Next() error = %v, want *SourceError", err)
	}
	if srcErr.Source != "/nonexistent/file.log" {
		t.Errorf("Source = %q", srcErr.Source)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error should wrap os.ErrNotExist: %v", err)
	}
}
