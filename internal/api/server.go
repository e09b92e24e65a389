package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"hearing/internal/adapter/cache"
	"hearing/internal/adapter/source"
	"hearing/internal/port"
	"hearing/internal/usecase"
)

// TokenizerFactory returns a tokenizer that knows the given titles.
type TokenizerFactory func(titles []string) port.Tokenizer

// Options configures request handling.
type Options struct {
	Titles         []string
	Analyze        usecase.AnalyzeOptions
	MaxUploadBytes int64
}

// Server is the HTTP API server for transcript analysis.
type Server struct {
	router     chi.Router
	loader     *source.Loader
	tokenizers TokenizerFactory
	cache      *cache.ReportCache
	opts       Options
	log        *slog.Logger
}

// NewServer creates and configures the HTTP server. cache may be nil.
func NewServer(loader *source.Loader, tokenizers TokenizerFactory, reports *cache.ReportCache, opts Options, log *slog.Logger) *Server {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 20 << 20
	}
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		loader:     loader,
		tokenizers: tokenizers,
		cache:      reports,
		opts:       opts,
		log:        log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(AccessLog(s.log))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/patterns", s.handlePatterns)
		r.Delete("/cache", s.handleInvalidateCache)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
