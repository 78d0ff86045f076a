package parser

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// MaxLogSize caps how much of a single log is read into memory.
const MaxLogSize = 512 << 20

// Load returns the log named by pathOrContent. When isContent is true the
// argument is the log text itself, otherwise it is a file path.
func Load(ctx context.Context, pathOrContent string, isContent bool) (*Input, error) {
	if isContent {
		if pathOrContent == "" {
			return nil, ErrEmptyInput
		}
		return &Input{Source: InlineSource, Content: pathOrContent}, nil
	}
	if strings.TrimSpace(pathOrContent) == "" {
		return nil, ErrEmptyInput
	}
	return readFile(ctx, pathOrContent)
}

// FileSource implements LogSource over a list of files, one log per file.
type FileSource struct {
	files     []string
	fileIndex int
}

// NewFileSource creates a LogSource that reads the given files in order.
func NewFileSource(files []string) *FileSource {
	return &FileSource{
		files:     files,
		fileIndex: -1,
	}
}

// Next reads the next file completely.
// Returns io.EOF when all files have been read.
func (s *FileSource) Next(ctx context.Context) (*Input, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	s.fileIndex++
	if s.fileIndex >= len(s.files) {
		return nil, io.EOF
	}
	return readFile(ctx, s.files[s.fileIndex])
}

// Len returns the number of files.
func (s *FileSource) Len() int {
	return len(s.files)
}

// Close is a no-op; files are closed as soon as they are read.
func (s *FileSource) Close() error {
	return nil
}

// StringSource implements LogSource over literal logs.
type StringSource struct {
	contents []string
	index    int
}

// NewStringSource creates a LogSource yielding each content as a log.
func NewStringSource(contents ...string) *StringSource {
	return &StringSource{contents: contents}
}

// Next returns the next literal log.
func (s *StringSource) Next(ctx context.Context) (*Input, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	if s.index >= len(s.contents) {
		return nil, io.EOF
	}
	in := &Input{Source: InlineSource, Content: s.contents[s.index]}
	s.index++
	return in, nil
}

// Close releases nothing.
func (s *StringSource) Close() error {
	return nil
}

// ReadAll drains a source.
func ReadAll(ctx context.Context, src LogSource) ([]*Input, error) {
	var out []*Input
	for {
		in, err := src.Next(ctx)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, in)
	}
}

func readFile(ctx context.Context, path string) (*Input, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, &SourceError{Source: path, Err: fmt.Errorf("opening log file: %w", err)}
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxLogSize))
	if err != nil {
		return nil, &SourceError{Source: path, Err: fmt.Errorf("reading log file: %w", err)}
	}
	return &Input{Source: path, Content: string(data)}, nil
}
