package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"floorplan-navigator/internal/config"
)

var (
	rootCmd = &cobra.Command{
		Use:           "floornav",
		Short:         "Turn floor plans into walkable graphs and route between rooms",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup()
		},
	}

	configPath string
	envFiles   []string
	logLevel   string

	cfg config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "Env files to load before applying FLOORNAV_* overrides (default .env)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level (debug, info, warn, error)")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(pointsCmd)
	rootCmd.AddCommand(routeCmd)
	rootCmd.AddCommand(serveCmd)
}

// setup loads the config and installs the logger every component uses.
func setup() error {
	loaded, err := config.Load(configPath, envFiles...)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		loaded.Log.Level = logLevel
		if err := loaded.Validate(); err != nil {
			return err
		}
	}

	logger := loaded.Log.NewLogger(os.Stderr)
	slog.SetDefault(logger)
	cfg = loaded.WithLogger(logger)
	return nil
}
