package pathfind

import (
	"errors"
	"log/slog"
)

// Algorithm is reported in every result's metadata.
const Algorithm = "A*"

var (
	ErrMissingEndpoint = errors.New("pathfind: start or end point missing")
	ErrNodeNotFound    = errors.New("pathfind: node not found")
	ErrNoPath          = errors.New("pathfind: no path found between start and end points")
	ErrSearchLimit     = errors.New("pathfind: search expansion limit reached")
	ErrInvalidPath     = errors.New("pathfind: path validation failed")
)

// Endpoint is anything that resolves to a graph node id. Navigation points
// satisfy it, and NodeRef wraps a bare id.
type Endpoint interface {
	GraphNodeID() string
}

// NodeRef is a plain node id used as an Endpoint.
type NodeRef string

// GraphNodeID returns the id itself.
func (r NodeRef) GraphNodeID() string { return string(r) }

// Metadata describes how a result was computed. ComputationTime is in
// milliseconds.
type Metadata struct {
	StartNode       string  `json:"startNode"`
	EndNode         string  `json:"endNode"`
	Algorithm       string  `json:"algorithm"`
	ComputationTime float64 `json:"computationTime"`
	NodesExplored   int     `json:"nodesExplored"`
}

// PathResult is the outcome of a route computation. On failure Path is empty
// and Error explains why; Cause keeps the typed error for errors.Is.
type PathResult struct {
	Success   bool     `json:"success"`
	Path      []string `json:"path"`
	Length    float64  `json:"length"`
	StepCount int      `json:"stepCount"`
	Error     string   `json:"error,omitempty"`
	Metadata  Metadata `json:"metadata"`
	Cause     error    `json:"-"`
}

// Config tunes the search.
type Config struct {
	// MaxExpansions caps how many nodes A* may expand. Zero means unlimited.
	MaxExpansions int `json:"max_expansions" yaml:"max_expansions" validate:"gte=0"`

	// Workers bounds ComputeRoutes concurrency. Zero or less means 4.
	Workers int `json:"workers" yaml:"workers" validate:"gte=0"`

	Logger *slog.Logger `json:"-" yaml:"-"`
}

// DefaultConfig returns an unlimited search with four route workers.
func DefaultConfig() Config {
	return Config{Workers: 4}
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c Config) workers() int {
	if c.Workers <= 0 {
		return 4
	}
	return c.Workers
}
