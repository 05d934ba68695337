// Package scanner turns vector markup or structured floor-plan data into
// rooms and walkable paths.
//
// Scan never fails on malformed content: structural parse errors and items
// that cannot be extracted are reported in ScanResult.Errors and
// ScanResult.Warnings. Only an unrecognised top-level format, or raster input,
// is returned as an error.
package scanner

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// fingerprintNamespace scopes input fingerprints to this scanner.
var fingerprintNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("floorplan-navigator/scanner"))

// Fingerprint returns a deterministic identifier for raw input bytes.
func Fingerprint(input []byte) string {
	return uuid.NewSHA1(fingerprintNamespace, input).String()
}

// Scan detects the input format and extracts rooms and paths from it.
func Scan(input []byte, cfg Config) (*ScanResult, error) {
	log := cfg.logger()
	format := DetectFormat(input, cfg.Filename)

	var (
		x         *extraction
		extractor string
	)
	switch format {
	case FormatMarkup:
		ext := NewShapeExtractor(cfg.MarkupParser)
		extractor = ext.Name()
		x = extractMarkup(string(input), ext)
		if ext.Name() == string(MarkupPattern) {
			x.warnf("markup scanned with the pattern extractor; nested or unusual markup may be missed")
		}
	case FormatStructured:
		plan, errs := decodePlan(input)
		x = extractPlan(plan)
		x.errors = append(errs, x.errors...)
	case FormatRaster:
		return nil, ErrRasterNotSupported
	default:
		return nil, fmt.Errorf("%w: input is neither vector markup nor structured floor-plan data", ErrUnsupportedFormat)
	}

	res := buildResult(x, cfg, format, extractor, Fingerprint(input))
	log.Debug("scan complete",
		slog.String("source", res.Metadata.Source),
		slog.String("format", string(format)),
		slog.Int("rooms", len(res.Rooms)),
		slog.Int("paths", len(res.Paths)),
		slog.Int("warnings", len(res.Warnings)),
		slog.Int("errors", len(res.Errors)))
	return res, nil
}

// ScanPlan extracts rooms and paths from an already decoded plan.
func ScanPlan(plan *Plan, cfg Config) (*ScanResult, error) {
	if plan == nil {
		return nil, fmt.Errorf("%w: nil plan", ErrUnsupportedFormat)
	}
	raw, err := json.Marshal(plan)
	if err != nil {
		return nil, fmt.Errorf("failed to fingerprint plan: %w", err)
	}
	return buildResult(extractPlan(plan), cfg, FormatStructured, "", Fingerprint(raw)), nil
}

func buildResult(x *extraction, cfg Config, format Format, extractor, fingerprint string) *ScanResult {
	rooms, paths, bounds := finalize(x, cfg)
	if len(rooms) == 0 && len(paths) == 0 {
		x.warnf("no rooms or paths found in input")
	}

	res := &ScanResult{
		Rooms:    rooms,
		Paths:    paths,
		Warnings: x.warnings,
		Errors:   x.errors,
		Metadata: Metadata{
			Source:      cfg.source(),
			Timestamp:   cfg.now(),
			Version:     Version,
			Bounds:      bounds,
			Format:      format,
			Extractor:   extractor,
			Fingerprint: fingerprint,
		},
	}
	if res.Warnings == nil {
		res.Warnings = []string{}
	}
	if res.Errors == nil {
		res.Errors = []string{}
	}
	for _, w := range res.Warnings {
		cfg.logger().Warn("scan warning", slog.String("source", res.Metadata.Source), slog.String("warning", w))
	}
	return res
}
