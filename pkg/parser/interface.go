package parser

import (
	"context"
	"io"
)

// LogSource iterates over solver logs.
// Implementations must be safe for sequential access (not concurrent).
type LogSource interface {
	// Next returns the next log.
	// Returns io.EOF when no more logs are available.
	Next(ctx context.Context) (*Input, error)

	// Close releases any resources held by the source.
	Close() error
}

// Ensure io.EOF is available for callers
var _ = io.EOF
