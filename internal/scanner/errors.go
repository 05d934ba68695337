package scanner

import (
	"errors"
	"fmt"
)

// Sentinel errors. Only ErrUnsupportedFormat and ErrRasterNotSupported are
// returned from Scan; the rest are wrapped into per-item messages.
var (
	// ErrUnsupportedFormat is returned when the input is neither vector markup
	// nor a structured object with room/path fields.
	ErrUnsupportedFormat = errors.New("scanner: unsupported format")

	// ErrRasterNotSupported is returned for image input.
	ErrRasterNotSupported = errors.New("scanner: image format scanning not implemented")

	ErrNoSVGRoot       = errors.New("no svg element found")
	ErrMissingGeometry = errors.New("missing geometry")
	ErrBadNumber       = errors.New("invalid number")
)

// ItemError records a failure to extract one room, path or label.
type ItemError struct {
	Kind  string
	Index int
	ID    string
	Err   error
}

// Error implements the error interface.
func (e ItemError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %d (%s): %v", e.Kind, e.Index, e.ID, e.Err)
	}
	return fmt.Sprintf("%s %d: %v", e.Kind, e.Index, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e ItemError) Unwrap() error {
	return e.Err
}
