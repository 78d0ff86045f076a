// Package parser loads solver logs from files or literal text.
package parser

import "errors"

// ErrEmptyInput is returned when neither a path nor content was given.
var ErrEmptyInput = errors.New("empty input")

// InlineSource names inputs that were passed as literal content.
const InlineSource = "<inline>"

// Input is one solver log ready to be parsed.
type Input struct {
	// Source is the file path, or InlineSource for literal content.
	Source string

	// Content is the complete log text.
	Content string
}

// Size returns the content length in bytes.
func (i *Input) Size() int {
	return len(i.Content)
}

// SourceError is a failure to read one named log.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return e.Source + ": " + e.Err.Error()
}

func (e *SourceError) Unwrap() error {
	return e.Err
}
