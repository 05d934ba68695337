package scanner

import (
	"log/slog"
	"time"
)

// MarkupParser selects the ShapeExtractor used for vector markup.
type MarkupParser string

const (
	// MarkupStructural parses the markup into an XML tree.
	MarkupStructural MarkupParser = "structural"
	// MarkupPattern matches element tags in the raw text. Lower fidelity.
	MarkupPattern MarkupParser = "pattern"
)

// Config controls a single scan.
type Config struct {
	// Source is carried into the result metadata and never interpreted.
	Source string `json:"-" yaml:"-"`

	// Filename is an optional hint used when content sniffing is inconclusive.
	Filename string `json:"-" yaml:"-"`

	MarkupParser MarkupParser `json:"markup_parser" yaml:"markup_parser" validate:"omitempty,oneof=structural pattern"`

	// MinRoomArea drops rooms whose width*height is smaller.
	MinRoomArea float64 `json:"min_room_area" yaml:"min_room_area" validate:"gte=0"`

	// MinPathLength drops segments shorter than this.
	MinPathLength float64 `json:"min_path_length" yaml:"min_path_length" validate:"gte=0"`

	// LabelRadius is the maximum distance from a label to a room center.
	LabelRadius float64 `json:"label_radius" yaml:"label_radius" validate:"gte=0"`

	// LabelConfidenceBoost is added to a room's confidence when a label attaches.
	LabelConfidenceBoost float64 `json:"label_confidence_boost" yaml:"label_confidence_boost" validate:"gte=0,lte=1"`

	// SimplifyTolerance enables Douglas-Peucker simplification of path
	// polylines when positive.
	SimplifyTolerance float64 `json:"simplify_tolerance" yaml:"simplify_tolerance" validate:"gte=0"`

	Now    func() time.Time `json:"-" yaml:"-"`
	Logger *slog.Logger     `json:"-" yaml:"-"`
}

// DefaultConfig returns the scanner defaults.
func DefaultConfig() Config {
	return Config{
		MarkupParser:         MarkupStructural,
		MinRoomArea:          100,
		MinPathLength:        20,
		LabelRadius:          100,
		LabelConfidenceBoost: 0.1,
	}
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c Config) now() time.Time {
	if c.Now != nil {
		return c.Now().UTC()
	}
	return time.Now().UTC()
}

func (c Config) source() string {
	if c.Source == "" {
		return "unknown"
	}
	return c.Source
}
