package dashboard

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/seenimoa/finpulse/internal/chart"
	"github.com/seenimoa/finpulse/internal/market"
	"github.com/seenimoa/finpulse/internal/sentiment"
	"github.com/seenimoa/finpulse/internal/ticker"
)

// historyLookback is the price history window behind each chart.
const historyLookback = 90 * 24 * time.Hour

// articleView is one rendered headline.
type articleView struct {
	Title     string
	Link      string
	Published string
	// Summary is the feed's description HTML rendered verbatim. The
	// feed source is trusted by design.
	Summary   template.HTML
	Sentiment sentiment.Result
}

// pageData drives the index template.
type pageData struct {
	Query      string
	MaxItems   int
	MinBound   int
	MaxBound   int
	FetchError bool
	Articles   []articleView
}

// handleIndex runs one fetch-and-render pass: settings from the query
// string, one news fetch, sentiment per headline.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		query = s.cfg.News.Query
	}
	maxItems := s.clampMaxItems(r.URL.Query().Get("max"))

	data := pageData{
		Query:    query,
		MaxItems: maxItems,
		MinBound: s.cfg.News.MinItemBound,
		MaxBound: s.cfg.News.MaxItemBound,
	}

	articles, err := s.news.Fetch(r.Context(), query, s.cfg.News.Days, maxItems)
	if err != nil {
		// Guard against a failing feed: render the page with an error
		// notice instead of crashing the whole render.
		data.FetchError = true
	}
	for _, a := range articles {
		data.Articles = append(data.Articles, articleView{
			Title:     a.Title,
			Link:      a.Link,
			Published: a.Published,
			Summary:   template.HTML(a.Summary),
			Sentiment: sentiment.Score(a.Title),
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "index.html", data); err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

// scoredArticle is the JSON form of a headline with its sentiment.
type scoredArticle struct {
	Title     string  `json:"title"`
	Link      string  `json:"link"`
	Published string  `json:"published"`
	Summary   string  `json:"summary"`
	Label     string  `json:"label"`
	Polarity  float64 `json:"polarity"`
}

// handleNews returns the scored article list as JSON.
func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		query = s.cfg.News.Query
	}
	maxItems := s.clampMaxItems(r.URL.Query().Get("max"))

	articles, err := s.news.Fetch(r.Context(), query, s.cfg.News.Days, maxItems)
	if err != nil {
		writeError(w, http.StatusBadGateway, fmt.Sprintf("news fetch failed: %v", err))
		return
	}

	out := make([]scoredArticle, 0, len(articles))
	for _, a := range articles {
		res := sentiment.Score(a.Title)
		out = append(out, scoredArticle{
			Title:     a.Title,
			Link:      a.Link,
			Published: a.Published,
			Summary:   a.PlainSummary(),
			Label:     res.Label,
			Polarity:  res.Polarity,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// enrichResponse is the lazy per-headline enrichment payload.
type enrichResponse struct {
	Found   bool            `json:"found"`
	Symbol  string          `json:"symbol,omitempty"`
	Company string          `json:"company,omitempty"`
	Metrics []market.Metric `json:"metrics,omitempty"`
	Chart   string          `json:"chart,omitempty"`
}

// handleEnrich detects ticker candidates in a headline and resolves
// fundamentals for the first candidate that succeeds. An empty
// candidate list and an all-candidates-failed lookup produce the same
// not-found response; the caller cannot tell those apart by design.
func (s *Server) handleEnrich(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	if title == "" {
		writeError(w, http.StatusBadRequest, "missing title parameter")
		return
	}

	for _, candidate := range ticker.Detect(title) {
		snap, err := s.market.Fundamentals(r.Context(), candidate)
		if err != nil {
			continue
		}
		writeJSON(w, http.StatusOK, enrichResponse{
			Found:   true,
			Symbol:  candidate,
			Company: snap.Company,
			Metrics: snap.Metrics,
			Chart:   "/api/v1/chart/" + url.PathEscape(candidate),
		})
		return
	}

	writeJSON(w, http.StatusOK, enrichResponse{Found: false})
}

// handleChart renders the 3-month closing-price chart as PNG. Failures
// respond 404 and the page simply shows no chart.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	candles, err := s.market.History(r.Context(), symbol, historyLookback)
	if err != nil {
		writeError(w, http.StatusNotFound, "chart unavailable")
		return
	}

	png, err := chart.Render(symbol, candles, chart.Config{
		Width:  s.cfg.Chart.Width,
		Height: s.cfg.Chart.Height,
	})
	if err != nil {
		// Empty series and render failures alike: no chart, no error
		// message on the page.
		writeError(w, http.StatusNotFound, "chart unavailable")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// clampMaxItems parses the max-items setting and clamps it to the
// configured bounds; anything unparseable falls back to the default.
func (s *Server) clampMaxItems(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return s.cfg.News.MaxItems
	}
	if n < s.cfg.News.MinItemBound {
		return s.cfg.News.MinItemBound
	}
	if n > s.cfg.News.MaxItemBound {
		return s.cfg.News.MaxItemBound
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already out; nothing useful left to do.
		return
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
