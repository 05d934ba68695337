package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"floorplan-navigator/internal/navgraph"
	"floorplan-navigator/internal/navpoints"
	"floorplan-navigator/internal/summary"
)

var (
	graphOut      string
	routeFrom     string
	routeTo       string
	summaryFormat string
)

var scanCmd = &cobra.Command{
	Use:   "scan <floor-plan>",
	Short: "Extract rooms and corridors from an SVG or JSON floor plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scan, err := scanFile(cfg, args[0])
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), scan)
	},
}

var graphCmd = &cobra.Command{
	Use:   "graph <floor-plan>",
	Short: "Build the navigation graph for a floor plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, g, err := buildFromFile(cmd.Context(), cfg, args[0])
		if err != nil {
			return err
		}
		if graphOut == "" {
			return writeJSON(cmd.OutOrStdout(), g)
		}
		if err := navgraph.SaveGraph(g, graphOut); err != nil {
			return err
		}
		slog.Info("graph saved",
			slog.String("file", graphOut),
			slog.Int("nodes", len(g.Nodes)),
			slog.Int("edges", len(g.Edges)))
		return nil
	},
}

var pointsCmd = &cobra.Command{
	Use:   "points <floor-plan>",
	Short: "List the start and end points a route can use",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scan, g, err := buildFromFile(cmd.Context(), cfg, args[0])
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), navpoints.Select(g, navpoints.RoomsFromScan(scan)))
	},
}

var routeCmd = &cobra.Command{
	Use:   "route <floor-plan>",
	Short: "Compute the shortest walkable route between two points",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if routeFrom == "" || routeTo == "" {
			return errors.New("both --from and --to are required")
		}
		scan, g, err := buildFromFile(cmd.Context(), cfg, args[0])
		if err != nil {
			return err
		}
		pts := navpoints.Select(g, navpoints.RoomsFromScan(scan))
		res := routeBetween(cmd.Context(), cfg, g, pts, routeFrom, routeTo)

		s := summary.Generate(scan, g, pts, res, summary.DefaultOptions())
		out := cmd.OutOrStdout()
		switch summaryFormat {
		case "compact":
			fmt.Fprintln(out, s.Compact())
		case "json":
			data, err := s.JSON()
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
		default:
			fmt.Fprint(out, s.Text())
		}

		if !res.Success {
			return fmt.Errorf("no route from %q to %q: %s", routeFrom, routeTo, res.Error)
		}
		return nil
	},
}

func init() {
	graphCmd.Flags().StringVarP(&graphOut, "out", "o", "", "Write the graph to this file instead of stdout")

	routeCmd.Flags().StringVar(&routeFrom, "from", "", "Start point: node id, label or room id")
	routeCmd.Flags().StringVar(&routeTo, "to", "", "End point: node id, label or room id")
	routeCmd.Flags().StringVar(&summaryFormat, "summary", "text", "Summary format: text, compact or json")
}
