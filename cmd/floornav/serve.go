package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/singleflight"

	"floorplan-navigator/internal/config"
	"floorplan-navigator/internal/geometry"
	"floorplan-navigator/internal/navgraph"
	"floorplan-navigator/internal/navpoints"
	"floorplan-navigator/internal/pathfind"
	"floorplan-navigator/internal/scanner"
	"floorplan-navigator/internal/summary"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "floornav_http_requests_total",
		Help: "HTTP requests by handler and status code",
	}, []string{"handler", "code"})

	graphBuildsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "floornav_graph_builds_total",
		Help: "Graph builds by result",
	}, []string{"result"})

	routeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "floornav_route_duration_seconds",
		Help:    "Route computation latency in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
	}, []string{"success"})

	activeGraphNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "floornav_active_graph_nodes",
		Help: "Node count of the graph currently served",
	})
)

var (
	serveAddr  string
	serveGraph string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve graph building and routing over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if serveAddr != "" {
			cfg.Server.Addr = serveAddr
		}
		srv := newServer(cfg, slog.Default(), serveGraph)
		srv.loadStoredGraph()

		httpSrv := &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      srv.routes(),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			slog.Info("server starting", slog.String("addr", cfg.Server.Addr))
			errCh <- httpSrv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
			slog.Info("server shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return httpSrv.Shutdown(shutdownCtx)
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.addr)")
	serveCmd.Flags().StringVar(&serveGraph, "graph-file", "", "Load this graph on startup and save rebuilt graphs to it on request")
}

// activeGraph is the graph being served together with what was derived from
// it. It is replaced as a whole and never mutated.
type activeGraph struct {
	scan   *scanner.ScanResult
	graph  *navgraph.NavigationGraph
	points *navpoints.NavigationPoints
}

type server struct {
	cfg       config.Config
	log       *slog.Logger
	graphFile string

	mu     sync.RWMutex
	active *activeGraph

	builds singleflight.Group
}

func newServer(c config.Config, logger *slog.Logger, graphFile string) *server {
	return &server{cfg: c, log: logger, graphFile: graphFile}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/buildGraph", s.instrument("buildGraph", corsMiddleware(s.buildGraphHandler)))
	mux.HandleFunc("/route", s.instrument("route", corsMiddleware(s.routeHandler)))
	mux.HandleFunc("/points", s.instrument("points", corsMiddleware(s.pointsHandler)))
	mux.HandleFunc("/graphLines", s.instrument("graphLines", corsMiddleware(s.graphLinesHandler)))
	mux.HandleFunc("/health", s.instrument("health", corsMiddleware(s.healthHandler)))
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// loadStoredGraph restores a previously saved graph, if configured.
func (s *server) loadStoredGraph() {
	if s.graphFile == "" {
		return
	}
	g, err := navgraph.LoadGraph(s.graphFile)
	if err != nil {
		s.log.Info("no stored graph loaded", slog.String("file", s.graphFile), slog.String("reason", err.Error()))
		return
	}
	s.setActive(&activeGraph{graph: g, points: navpoints.Select(g, nil)})
	s.log.Info("loaded stored graph",
		slog.String("file", s.graphFile),
		slog.Int("nodes", len(g.Nodes)),
		slog.Int("edges", len(g.Edges)))
}

func (s *server) current() *activeGraph {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *server) setActive(a *activeGraph) {
	s.mu.Lock()
	s.active = a
	s.mu.Unlock()
	activeGraphNodes.Set(float64(len(a.graph.Nodes)))
}

// corsMiddleware adds CORS headers to allow frontend requests
func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *server) instrument(name string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		httpRequestsTotal.WithLabelValues(name, strconv.Itoa(rec.status)).Inc()
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]any{"success": false, "error": msg})
}

type buildGraphRequest struct {
	// Content is the floor plan itself: SVG markup or a JSON plan document.
	Content    string `json:"content"`
	Source     string `json:"source,omitempty"`
	Filename   string `json:"filename,omitempty"`
	Force      bool   `json:"force,omitempty"`
	SaveToFile bool   `json:"saveToFile,omitempty"`
}

type buildGraphResponse struct {
	Success     bool            `json:"success"`
	NumNodes    int             `json:"numNodes"`
	NumEdges    int             `json:"numEdges"`
	NumRooms    int             `json:"numRooms"`
	Bounds      geometry.Bounds `json:"bounds"`
	Fingerprint string          `json:"fingerprint"`
	Warnings    []string        `json:"warnings"`
	Errors      []string        `json:"errors"`
	Summary     string          `json:"summary"`
}

// POST /buildGraph - Scan a floor plan and make its graph the active one
func (s *server) buildGraphHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req buildGraphRequest
	body := http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Content == "" {
		respondError(w, http.StatusBadRequest, "content is required")
		return
	}

	if s.current() != nil && !req.Force {
		respondJSON(w, http.StatusConflict, map[string]any{
			"success": false,
			"error":   "graph already exists",
			"message": "A graph is already active. Set 'force: true' to replace it.",
		})
		return
	}

	input := []byte(req.Content)
	key := scanner.Fingerprint(input)
	v, err, shared := s.builds.Do(key, func() (any, error) {
		return s.build(r.Context(), input, req)
	})
	if err != nil {
		graphBuildsTotal.WithLabelValues("rejected").Inc()
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	active := v.(*activeGraph)
	if shared {
		s.log.Debug("graph build shared with a concurrent request", slog.String("fingerprint", key))
	}

	if req.SaveToFile && s.graphFile != "" {
		if err := navgraph.SaveGraph(active.graph, s.graphFile); err != nil {
			s.log.Warn("failed to save graph", slog.String("error", err.Error()))
		}
	}

	g := active.graph
	respondJSON(w, http.StatusOK, buildGraphResponse{
		Success:     len(g.Errors) == 0,
		NumNodes:    len(g.Nodes),
		NumEdges:    len(g.Edges),
		NumRooms:    g.Metadata.RoomCount,
		Bounds:      g.Bounds,
		Fingerprint: active.scan.Metadata.Fingerprint,
		Warnings:    g.Warnings,
		Errors:      g.Errors,
		Summary:     summary.Generate(active.scan, g, active.points, nil, summary.Options{}).Compact(),
	})
}

func (s *server) build(ctx context.Context, input []byte, req buildGraphRequest) (*activeGraph, error) {
	sc := s.cfg.Scan
	sc.Source = req.Source
	sc.Filename = req.Filename
	scan, err := scanner.Scan(input, sc)
	if err != nil {
		return nil, err
	}

	g := navgraph.Build(ctx, scan, s.cfg.Graph)
	result := "ok"
	if len(g.Errors) > 0 {
		result = "errors"
	}
	graphBuildsTotal.WithLabelValues(result).Inc()

	active := &activeGraph{
		scan:   scan,
		graph:  g,
		points: navpoints.Select(g, navpoints.RoomsFromScan(scan)),
	}
	s.setActive(active)
	s.log.Info("graph built",
		slog.String("source", g.Metadata.Source),
		slog.Int("nodes", len(g.Nodes)),
		slog.Int("edges", len(g.Edges)),
		slog.Int("warnings", len(g.Warnings)))
	return active, nil
}

type routeRequest struct {
	// Start and End accept a node id, a point label or a room id.
	Start string `json:"start"`
	End   string `json:"end"`
}

type routeResponse struct {
	*pathfind.PathResult
	Points  []geometry.Point `json:"points"`
	Summary string           `json:"summary"`
}

// POST /route - Compute a route on the active graph
func (s *server) routeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req routeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	active := s.current()
	if active == nil {
		respondError(w, http.StatusBadRequest, "graph not built. Call /buildGraph first")
		return
	}

	began := time.Now()
	res := routeBetween(r.Context(), s.cfg, active.graph, active.points, req.Start, req.End)
	routeDuration.WithLabelValues(strconv.FormatBool(res.Success)).Observe(time.Since(began).Seconds())

	nodes := active.graph.NodeMap()
	points := make([]geometry.Point, 0, len(res.Path))
	for _, id := range res.Path {
		if n, ok := nodes[id]; ok {
			points = append(points, n.Position)
		}
	}

	s.log.Info("route computed",
		slog.String("start", req.Start),
		slog.String("end", req.End),
		slog.Bool("success", res.Success),
		slog.Int("steps", res.StepCount))

	respondJSON(w, http.StatusOK, routeResponse{
		PathResult: res,
		Points:     points,
		Summary:    summary.Generate(active.scan, active.graph, active.points, res, summary.Options{}).Compact(),
	})
}

// GET /points - List start and end points of the active graph
func (s *server) pointsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	active := s.current()
	if active == nil {
		respondError(w, http.StatusBadRequest, "graph not built. Call /buildGraph first")
		return
	}
	respondJSON(w, http.StatusOK, active.points)
}

// GET /graphLines - Graph edges as line segments for visualization
func (s *server) graphLinesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	active := s.current()
	if active == nil {
		respondError(w, http.StatusBadRequest, "graph not built. Call /buildGraph first")
		return
	}
	lines := active.graph.Lines()
	respondJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"lines":    lines,
		"numNodes": len(active.graph.Nodes),
		"numEdges": len(lines),
	})
}

// GET /health - Health check endpoint
func (s *server) healthHandler(w http.ResponseWriter, r *http.Request) {
	active := s.current()
	numNodes := 0
	if active != nil {
		numNodes = len(active.graph.Nodes)
	}

	status := "ready"
	if active == nil {
		status = "waiting for graph"
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status":   status,
		"hasGraph": active != nil,
		"numNodes": numNodes,
	})
}
