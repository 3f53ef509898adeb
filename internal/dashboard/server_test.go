package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/seenimoa/finpulse/internal/config"
	"github.com/seenimoa/finpulse/internal/market"
	"github.com/seenimoa/finpulse/internal/news"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 8640},
		News: config.NewsConfig{
			Query:        config.DefaultQuery,
			Days:         7,
			MaxItems:     25,
			MinItemBound: 10,
			MaxItemBound: 60,
		},
		Chart: config.ChartConfig{Width: 560, Height: 220},
	}
}

type stubNews struct {
	articles []news.Article
	err      error

	lastQuery    string
	lastMaxItems int
}

func (s *stubNews) Fetch(_ context.Context, query string, _, maxItems int) ([]news.Article, error) {
	s.lastQuery = query
	s.lastMaxItems = maxItems
	return s.articles, s.err
}

type stubMarket struct {
	snapshots map[string]*market.Snapshot
	candles   []market.Candle
	histErr   error

	fundCalls []string
}

func (s *stubMarket) Fundamentals(_ context.Context, symbol string) (*market.Snapshot, error) {
	s.fundCalls = append(s.fundCalls, symbol)
	if snap, ok := s.snapshots[symbol]; ok {
		return snap, nil
	}
	return nil, fmt.Errorf("%w: %s", market.ErrTickerNotFound, symbol)
}

func (s *stubMarket) History(_ context.Context, _ string, _ time.Duration) ([]market.Candle, error) {
	if s.histErr != nil {
		return nil, s.histErr
	}
	return s.candles, nil
}

func newTestServer(t *testing.T, nf *stubNews, md *stubMarket) *Server {
	t.Helper()
	if nf == nil {
		nf = &stubNews{}
	}
	if md == nil {
		md = &stubMarket{}
	}
	return newServerWith(testConfig(), nf, md)
}

func doGet(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestIndexRendersArticles(t *testing.T) {
	nf := &stubNews{articles: []news.Article{
		{Title: "INFY posts strong growth and record profits", Link: "https://example.com/1", Published: "Aug 20, 2026"},
		{Title: "Rupee falls amid market crash fears", Link: "https://example.com/2", Published: "Aug 21, 2026"},
	}}
	s := newTestServer(t, nf, nil)

	rec := doGet(t, s, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "INFY posts strong growth and record profits") {
		t.Error("page missing first headline")
	}
	if !strings.Contains(body, "Aug 21, 2026") {
		t.Error("page missing publish date")
	}
	if !strings.Contains(body, `class="sentiment pos"`) {
		t.Error("page missing positive sentiment badge")
	}
	if !strings.Contains(body, `class="sentiment neg"`) {
		t.Error("page missing negative sentiment badge")
	}
}

func TestIndexEmptyFeedShowsNotice(t *testing.T) {
	s := newTestServer(t, &stubNews{}, nil)

	rec := doGet(t, s, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No recent news found") {
		t.Error("empty feed should show the no-news notice")
	}
}

func TestIndexFetchErrorShowsNotice(t *testing.T) {
	s := newTestServer(t, &stubNews{err: errors.New("connection refused")}, nil)

	rec := doGet(t, s, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Could not fetch news") {
		t.Error("fetch failure should show the error notice, not crash the page")
	}
}

func TestIndexQueryAndMaxOverrides(t *testing.T) {
	nf := &stubNews{}
	s := newTestServer(t, nf, nil)

	doGet(t, s, "/?q=RELIANCE+earnings&max=40")
	if nf.lastQuery != "RELIANCE earnings" {
		t.Errorf("query = %q, want %q", nf.lastQuery, "RELIANCE earnings")
	}
	if nf.lastMaxItems != 40 {
		t.Errorf("maxItems = %d, want 40", nf.lastMaxItems)
	}
}

func TestIndexClampsMaxItems(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"999", 60},
		{"1", 10},
		{"banana", 25},
		{"", 25},
		{"25", 25},
	}
	for _, tt := range tests {
		nf := &stubNews{}
		s := newTestServer(t, nf, nil)
		doGet(t, s, "/?max="+tt.raw)
		if nf.lastMaxItems != tt.want {
			t.Errorf("max=%q: got %d, want %d", tt.raw, nf.lastMaxItems, tt.want)
		}
	}
}

func TestNewsJSON(t *testing.T) {
	nf := &stubNews{articles: []news.Article{
		{Title: "Sensex surges to record high", Link: "https://example.com/1", Published: "Aug 22, 2026", Summary: "<p>Benchmark index gains.</p>"},
	}}
	s := newTestServer(t, nf, nil)

	rec := doGet(t, s, "/api/v1/news")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got []scoredArticle
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d articles, want 1", len(got))
	}
	if got[0].Label == "" {
		t.Error("article missing sentiment label")
	}
	if strings.Contains(got[0].Summary, "<p>") {
		t.Errorf("summary not stripped of markup: %q", got[0].Summary)
	}
}

func TestNewsJSONFetchError(t *testing.T) {
	s := newTestServer(t, &stubNews{err: errors.New("boom")}, nil)

	rec := doGet(t, s, "/api/v1/news")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}

func TestEnrichFirstSuccessfulCandidateWins(t *testing.T) {
	md := &stubMarket{snapshots: map[string]*market.Snapshot{
		"INFY.NS": {
			Symbol:  "INFY.NS",
			Company: "Infosys Limited",
			Metrics: []market.Metric{{Name: "Sector", Value: "Technology"}},
		},
	}}
	s := newTestServer(t, nil, md)

	title := url.QueryEscape("INFY beats TCS estimates this quarter")
	rec := doGet(t, s, "/api/v1/enrich?title="+title)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got enrichResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.Found {
		t.Fatal("expected found = true")
	}
	if got.Symbol != "INFY.NS" {
		t.Errorf("symbol = %q, want INFY.NS", got.Symbol)
	}
	if got.Company != "Infosys Limited" {
		t.Errorf("company = %q, want Infosys Limited", got.Company)
	}
	if got.Chart != "/api/v1/chart/INFY.NS" {
		t.Errorf("chart = %q, want /api/v1/chart/INFY.NS", got.Chart)
	}

	// Candidates run in order INFY, INFY.NS, TCS, TCS.NS; the first
	// success stops the scan before TCS is ever tried.
	wantCalls := []string{"INFY", "INFY.NS"}
	if len(md.fundCalls) != len(wantCalls) {
		t.Fatalf("fundamentals calls = %v, want %v", md.fundCalls, wantCalls)
	}
	for i, want := range wantCalls {
		if md.fundCalls[i] != want {
			t.Errorf("call %d = %q, want %q", i, md.fundCalls[i], want)
		}
	}
}

func TestEnrichNoTickerInTitle(t *testing.T) {
	md := &stubMarket{}
	s := newTestServer(t, nil, md)

	title := url.QueryEscape("Markets rally as rupee strengthens against dollar")
	rec := doGet(t, s, "/api/v1/enrich?title="+title)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got enrichResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Found {
		t.Error("expected found = false for a title with no ticker tokens")
	}
	if len(md.fundCalls) != 0 {
		t.Errorf("expected no fundamentals calls, got %v", md.fundCalls)
	}
}

func TestEnrichAllCandidatesFail(t *testing.T) {
	md := &stubMarket{}
	s := newTestServer(t, nil, md)

	title := url.QueryEscape("INFY results due next week")
	rec := doGet(t, s, "/api/v1/enrich?title="+title)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got enrichResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Found {
		t.Error("expected found = false when every candidate lookup fails")
	}
	if len(md.fundCalls) != 2 {
		t.Errorf("expected both candidates tried, got %v", md.fundCalls)
	}
}

func TestEnrichMissingTitle(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec := doGet(t, s, "/api/v1/enrich")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestChartRendersPNG(t *testing.T) {
	now := time.Now()
	md := &stubMarket{candles: []market.Candle{
		{Time: now.AddDate(0, 0, -3), Close: 100},
		{Time: now.AddDate(0, 0, -2), Close: 105},
		{Time: now.AddDate(0, 0, -1), Close: 103},
	}}
	s := newTestServer(t, nil, md)

	rec := doGet(t, s, "/api/v1/chart/INFY.NS")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q, want image/png", ct)
	}
	body := rec.Body.Bytes()
	if len(body) < 8 || body[0] != 0x89 || string(body[1:4]) != "PNG" {
		t.Error("response body is not a PNG")
	}
}

func TestChartHistoryFailureGives404(t *testing.T) {
	md := &stubMarket{histErr: errors.New("upstream down")}
	s := newTestServer(t, nil, md)

	rec := doGet(t, s, "/api/v1/chart/INFY.NS")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestChartEmptyHistoryGives404(t *testing.T) {
	s := newTestServer(t, nil, &stubMarket{})

	rec := doGet(t, s, "/api/v1/chart/INFY.NS")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec := doGet(t, s, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["status"] != "ok" {
		t.Errorf("status = %q, want ok", got["status"])
	}
}

func TestStaticAssetsServed(t *testing.T) {
	s := newTestServer(t, nil, nil)

	rec := doGet(t, s, "/static/style.css")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "#0A1828") {
		t.Error("stylesheet content not served")
	}
}
