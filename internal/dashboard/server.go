// Package dashboard serves the interactive news dashboard: one page
// render per request, with lazy per-headline enrichment endpoints.
package dashboard

import (
	"context"
	"html/template"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/seenimoa/finpulse/internal/config"
	"github.com/seenimoa/finpulse/internal/market"
	"github.com/seenimoa/finpulse/internal/news"
)

// NewsFetcher fetches recent articles matching a query.
type NewsFetcher interface {
	Fetch(ctx context.Context, query string, days, maxItems int) ([]news.Article, error)
}

// MarketData provides company fundamentals and price history.
type MarketData interface {
	Fundamentals(ctx context.Context, symbol string) (*market.Snapshot, error)
	History(ctx context.Context, symbol string, lookback time.Duration) ([]market.Candle, error)
}

// Server is the dashboard HTTP server.
type Server struct {
	router chi.Router
	cfg    *config.Config
	news   NewsFetcher
	market MarketData
	tmpl   *template.Template
}

// NewServer creates a dashboard server wired to the live news feed and
// market data provider.
func NewServer(cfg *config.Config) *Server {
	md := market.NewClientWith(
		time.Duration(cfg.Market.CacheTTLSec)*time.Second,
		cfg.Market.RatePerSec,
	)
	return newServerWith(cfg, news.NewFetcher(), md)
}

func newServerWith(cfg *config.Config, nf NewsFetcher, md MarketData) *Server {
	s := &Server{
		cfg:    cfg,
		news:   nf,
		market: md,
		tmpl:   template.Must(template.ParseFS(assets, "templates/*.html")),
	}
	s.router = s.buildRouter()
	return s
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server with graceful shutdown.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	origins := []string{"*"}
	if len(s.cfg.Server.CORSOrigins) > 0 {
		origins = s.cfg.Server.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/", s.handleIndex)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/news", s.handleNews)
		r.Get("/enrich", s.handleEnrich)
		r.Get("/chart/{symbol}", s.handleChart)
	})

	r.Handle("/static/*", http.FileServerFS(assets))

	return r
}
