package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/route-profitability/internal/metrics"
	"github.com/sells-group/route-profitability/internal/model"
	"github.com/sells-group/route-profitability/internal/monitoring"
	"github.com/sells-group/route-profitability/internal/pipeline"
	"github.com/sells-group/route-profitability/internal/store"
)

var servePort int

// maxRequestRoutes caps route_count on POST /runs.
const maxRequestRoutes = 1000

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API for analysis runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		if st != nil {
			defer st.Close() //nolint:errcheck
		}

		reg := metrics.New()
		srv := newServer(st, pipeline.New(cfg, st, reg, nil, nil), reg)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		httpSrv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           srv.Router(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = httpSrv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// server exposes run history and on-demand analysis over HTTP. The store may
// be nil, in which case history endpoints answer 503.
type server struct {
	store     store.Store
	pipeline  *pipeline.Pipeline
	metrics   *metrics.Registry
	collector *monitoring.Collector
}

func newServer(st store.Store, p *pipeline.Pipeline, reg *metrics.Registry) *server {
	s := &server{store: st, pipeline: p, metrics: reg}
	if st != nil {
		s.collector = monitoring.NewCollector(st)
	}
	return s
}

// Router builds the chi router with all API routes.
func (s *server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.Gatherer(), promhttp.HandlerOpts{}))

	r.Post("/runs", s.handleCreateRun)
	r.Group(func(r chi.Router) {
		r.Use(s.requireStore)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
		r.Get("/runs/{id}/phases", s.handleListPhases)
		r.Get("/runs/{id}/routes", s.handleListRoutes)
		r.Get("/stats", s.handleStats)
	})

	return r
}

func (s *server) requireStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.store == nil {
			writeError(w, http.StatusServiceUnavailable, "run history store is disabled")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.RunFilter{Status: model.RunStatus(q.Get("status"))}

	var err error
	if filter.Limit, err = intParam(q.Get("limit")); err != nil {
		writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
		return
	}
	if filter.Offset, err = intParam(q.Get("offset")); err != nil {
		writeError(w, http.StatusBadRequest, "offset must be a non-negative integer")
		return
	}

	runs, err := s.store.ListRuns(r.Context(), filter)
	if err != nil {
		s.internalError(w, "list runs", err)
		return
	}
	if runs == nil {
		runs = []model.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, ok := s.lookupRun(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// lookupRun loads the run named by the {id} URL parameter. It writes a 404
// or 500 response and returns false when the run cannot be loaded.
func (s *server) lookupRun(w http.ResponseWriter, r *http.Request) (*model.Run, bool) {
	run, err := s.store.GetRun(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "run not found")
		return nil, false
	}
	if err != nil {
		s.internalError(w, "get run", err)
		return nil, false
	}
	return run, true
}

func (s *server) handleListPhases(w http.ResponseWriter, r *http.Request) {
	run, ok := s.lookupRun(w, r)
	if !ok {
		return
	}
	phases, err := s.store.ListPhases(r.Context(), run.ID)
	if err != nil {
		s.internalError(w, "list phases", err)
		return
	}
	if phases == nil {
		phases = []model.RunPhase{}
	}
	writeJSON(w, http.StatusOK, phases)
}

func (s *server) handleListRoutes(w http.ResponseWriter, r *http.Request) {
	run, ok := s.lookupRun(w, r)
	if !ok {
		return
	}
	recs, err := s.store.ListRouteResults(r.Context(), run.ID)
	if err != nil {
		s.internalError(w, "list route results", err)
		return
	}
	if recs == nil {
		recs = []model.ProfitabilityRecord{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *server) handleStats(w http.ResponseWriter, r *http.Request) {
	var since time.Duration
	if v := r.URL.Query().Get("since"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			writeError(w, http.StatusBadRequest, "since must be a duration such as 24h")
			return
		}
		since = d
	}

	snap, err := s.collector.Collect(r.Context(), since)
	if err != nil {
		s.internalError(w, "collect stats", err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// createRunRequest is the body of POST /runs. Omitted fields take their
// configured defaults.
type createRunRequest struct {
	Seed       *int64 `json:"seed"`
	RouteCount int    `json:"route_count"`
}

func (s *server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	var req createRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.RouteCount < 0 || req.RouteCount > maxRequestRoutes {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("route_count must be between 0 and %d", maxRequestRoutes))
		return
	}

	params := model.RunParams{RouteCount: req.RouteCount, Seed: cfg.Generator.Seed}
	if req.Seed != nil {
		params.Seed = *req.Seed
	}

	res, err := s.pipeline.Run(r.Context(), params)
	if err != nil {
		s.internalError(w, "run analysis", err)
		return
	}

	if s.store != nil {
		run, err := s.store.GetRun(r.Context(), res.RunID)
		if err != nil {
			s.internalError(w, "get run", err)
			return
		}
		writeJSON(w, http.StatusCreated, run)
		return
	}

	writeJSON(w, http.StatusCreated, model.Run{
		ID:     res.RunID,
		Params: res.Params,
		Status: model.RunStatusComplete,
		Result: res.Summary,
	})
}

func (s *server) internalError(w http.ResponseWriter, op string, err error) {
	zap.L().Error("api: "+op+" failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, op+" failed")
}

func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, eris.Errorf("invalid integer %q", v)
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
