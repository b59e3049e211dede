// Package server exposes study generation, export, share links and the
// recent-query history over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"exegesis/internal/artifact"
	"exegesis/internal/export"
	"exegesis/internal/history"
	"exegesis/internal/logging"
	"exegesis/internal/study"
)

// Generator produces a study for an already-validated request.
// *study.Service satisfies it through Generate.
type Generator interface {
	Generate(ctx context.Context, req study.Request) (*study.Document, error)
}

// HistoryLog is the part of *history.Log the API reads and clears.
type HistoryLog interface {
	Entries() []history.Entry
	Clear(ctx context.Context) error
}

// Options configures the router.
type Options struct {
	AllowedOrigins []string
	ShareBaseURL   string
	RequestTimeout time.Duration
}

// Server holds the HTTP handlers and their collaborators.
type Server struct {
	gen       Generator
	history   HistoryLog
	exports   *export.Registry
	publisher artifact.Publisher
	opts      Options
}

// New wires the handlers. history and publisher may be nil; the routes that
// need them then answer 404.
func New(gen Generator, hist HistoryLog, exports *export.Registry, publisher artifact.Publisher, opts Options) *Server {
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 3 * time.Minute
	}
	return &Server{gen: gen, history: hist, exports: exports, publisher: publisher, opts: opts}
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/studies", s.createStudy)
		r.Post("/export/{format}", s.exportStudy)
		r.Post("/publish/{format}", s.publishStudy)

		r.Get("/share", s.openShare)
		r.Get("/share/link", s.shareLink)

		r.Get("/history", s.listHistory)
		r.Delete("/history", s.clearHistory)
	})

	return r
}

// ListenAndServe serves until ctx is done, then drains for up to 10s.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      s.opts.RequestTimeout + 30*time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Server("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logging.Server("shutting down")
	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logging.Get(logging.CategoryServer).Info("%s %s -> %d (%v) id=%s",
			r.Method, r.URL.Path, ww.Status(), time.Since(start), chimw.GetReqID(r.Context()))
	})
}
