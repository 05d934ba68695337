// Package config loads the settings shared by the floornav commands: the
// scanner, graph and route tuning plus logging and server options.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"floorplan-navigator/internal/navgraph"
	"floorplan-navigator/internal/pathfind"
	"floorplan-navigator/internal/scanner"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "FLOORNAV_"

var validate = validator.New()

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

type ServerConfig struct {
	Addr         string        `yaml:"addr" validate:"required"`
	ReadTimeout  time.Duration `yaml:"read_timeout" validate:"gte=0"`
	WriteTimeout time.Duration `yaml:"write_timeout" validate:"gte=0"`
	// MaxBodyBytes caps uploaded floor plans.
	MaxBodyBytes int64 `yaml:"max_body_bytes" validate:"gt=0"`
}

// Config is the full settings tree.
type Config struct {
	Scan   scanner.Config  `yaml:"scan"`
	Graph  navgraph.Config `yaml:"graph"`
	Route  pathfind.Config `yaml:"route"`
	Log    LogConfig       `yaml:"log"`
	Server ServerConfig    `yaml:"server"`
}

// Default returns every component's defaults.
func Default() Config {
	return Config{
		Scan:  scanner.DefaultConfig(),
		Graph: navgraph.DefaultConfig(),
		Route: pathfind.DefaultConfig(),
		Log:   LogConfig{Level: "info", Format: "text"},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			MaxBodyBytes: 10 << 20,
		},
	}
}

// Load builds a Config from defaults, an optional YAML file, .env files and
// FLOORNAV_* environment variables, in that order of precedence. With no
// envFiles, a .env in the working directory is loaded if it exists.
func Load(path string, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	} else if err := godotenv.Load(envFiles...); err != nil {
		return nil, fmt.Errorf("failed to load env files: %w", err)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read the config file: %w", err)
		}
		if err := cfg.decode(data); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := cfg.decode(data); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse the config file: %w", err)
	}
	return nil
}

// Validate checks every field constraint.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// applyEnv overrides fields from FLOORNAV_* variables.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"LOG_LEVEL":   &c.Log.Level,
		"LOG_FORMAT":  &c.Log.Format,
		"SERVER_ADDR": &c.Server.Addr,
	}
	for key, dst := range str {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	if v, ok := lookup(EnvPrefix + "MARKUP_PARSER"); ok {
		c.Scan.MarkupParser = scanner.MarkupParser(strings.TrimSpace(v))
	}
	if v, ok := lookup(EnvPrefix + "INTERSECTION_SCOPE"); ok {
		c.Graph.IntersectionScope = navgraph.IntersectionScope(strings.TrimSpace(v))
	}

	floats := map[string]*float64{
		"MIN_ROOM_AREA":          &c.Scan.MinRoomArea,
		"MIN_PATH_LENGTH":        &c.Scan.MinPathLength,
		"MERGE_THRESHOLD":        &c.Graph.MergeThreshold,
		"ROOM_CORRIDOR_DISTANCE": &c.Graph.RoomCorridorDistance,
	}
	for key, dst := range floats {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", EnvPrefix, key, err)
		}
		*dst = f
	}

	ints := map[string]*int{
		"MAX_EXPANSIONS": &c.Route.MaxExpansions,
		"ROUTE_WORKERS":  &c.Route.Workers,
	}
	for key, dst := range ints {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", EnvPrefix, key, err)
		}
		*dst = n
	}
	return nil
}

// NewLogger builds a slog logger writing to w with the configured level and
// format.
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: l.level()}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func (l LogConfig) level() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithLogger returns a copy whose components all log through logger.
func (c Config) WithLogger(logger *slog.Logger) Config {
	c.Scan.Logger = logger
	c.Graph.Logger = logger
	c.Route.Logger = logger
	return c
}
