package mockapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Version is reported by /api/status.
const Version = "0.3.0"

// Config controls the demo server.
type Config struct {
	Addr     string
	Latency  time.Duration // added to every list response
	Jitter   time.Duration // random extra delay in [0, Jitter)
	FailRate float64       // share of list requests answered with 503
	Seed     uint64
	Counts   Counts
	Logger   *zerolog.Logger
}

// Server serves generated records over HTTP.
type Server struct {
	cfg      Config
	datasets map[string]*Dataset
	log      zerolog.Logger
	started  time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// New generates the fixtures and returns a server ready to Serve.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:7490"
	}
	if cfg.Counts == (Counts{}) {
		cfg.Counts = DefaultCounts
	}
	cfg.FailRate = min(max(cfg.FailRate, 0), 1)
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	return &Server{
		cfg:      cfg,
		datasets: GenerateFixtures(cfg.Seed, cfg.Counts),
		log:      logger.With().Str("component", "mockapi").Logger(),
		started:  time.Now().UTC(),
		rng:      rand.New(rand.NewPCG(cfg.Seed+1, cfg.Seed^0xdeadbeef)),
	}
}

// Resources lists the served resource names in sorted order.
func (s *Server) Resources() []string {
	names := make([]string, 0, len(s.datasets))
	for name := range s.datasets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.Recoverer,
		s.requestLogger,
	)
	r.Get("/api/status", s.handleStatus)
	r.Get("/api/{resource}", s.handleList)
	return r
}

// Serve listens on cfg.Addr and blocks until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		s.log.Info().Str("addr", s.cfg.Addr).Strs("resources", s.Resources()).Msg("mock api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Debug().Msg("shutting down mock api")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	counts := make(map[string]int, len(s.datasets))
	for name, ds := range s.datasets {
		counts[name] = len(ds.Records)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"service":    "healthdesk-mock",
		"version":    Version,
		"started_at": s.started.Format(time.RFC3339),
		"resources":  counts,
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.datasets[chi.URLParam(r, "resource")]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown resource"})
		return
	}

	delay, fail := s.roll()
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}
	if fail {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "temporarily unavailable"})
		return
	}

	q := parseListQuery(r.URL.Query(), ds.Filters)
	items, total := q.apply(ds.Records)
	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"total": total,
		"page":  q.Page,
		"limit": q.Limit,
	})
}

// roll draws the delay and failure outcome for one request.
func (s *Server) roll() (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delay := s.cfg.Latency
	if s.cfg.Jitter > 0 {
		delay += time.Duration(s.rng.Int64N(int64(s.cfg.Jitter)))
	}
	fail := s.cfg.FailRate > 0 && s.rng.Float64() < s.cfg.FailRate
	return delay, fail
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("query", r.URL.RawQuery).
			Str("request_id", middleware.GetReqID(r.Context())).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
