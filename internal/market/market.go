// Package market fetches company fundamentals and daily price history
// from the Yahoo Finance public API.
package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/seenimoa/finpulse/internal/infra"
)

// ErrTickerNotFound is returned when a ticker cannot be resolved.
// By contract every fundamentals failure collapses into this error:
// an unknown symbol, a network error, and a malformed response are
// indistinguishable to the caller.
var ErrTickerNotFound = errors.New("ticker not found")

// Metric is one display row of a fundamentals snapshot.
type Metric struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Snapshot is a sparse company fundamentals snapshot. Metrics holds at
// most the ten recognized display keys, in fixed order; keys whose
// source value is absent are omitted entirely.
type Snapshot struct {
	Symbol  string   `json:"symbol"`
	Company string   `json:"company"`
	Metrics []Metric `json:"metrics"`
}

// Candle is one daily close observation.
type Candle struct {
	Time  time.Time `json:"time"`
	Close float64   `json:"close"`
}

// Client talks to Yahoo Finance.
type Client struct {
	baseURL string
	cache   *infra.Cache
	limiter *infra.RateLimiter
}

// NewClient creates a Yahoo Finance client with default caching and
// rate limiting (5-minute TTL, 5 requests per second).
func NewClient() *Client {
	return NewClientWith(5*time.Minute, 5)
}

// NewClientWith creates a client with explicit cache TTL and per-second
// request budget.
func NewClientWith(cacheTTL time.Duration, ratePerSec int) *Client {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	if ratePerSec <= 0 {
		ratePerSec = 5
	}
	return &Client{
		baseURL: "https://query1.finance.yahoo.com",
		cache:   infra.NewCache(cacheTTL),
		limiter: infra.NewRateLimiter(ratePerSec, time.Second),
	}
}

// --- Yahoo Finance API types ---

type yfValue struct {
	Raw *float64 `json:"raw"`
	Fmt string   `json:"fmt"`
}

type yfQuoteSummaryResponse struct {
	QuoteSummary struct {
		Result []yfQuoteSummaryResult `json:"result"`
		Error  *yfError               `json:"error"`
	} `json:"quoteSummary"`
}

type yfQuoteSummaryResult struct {
	Price                *yfPrice          `json:"price"`
	SummaryProfile       *yfSummaryProfile `json:"summaryProfile"`
	SummaryDetail        *yfSummaryDetail  `json:"summaryDetail"`
	FinancialData        *yfFinancialData  `json:"financialData"`
	DefaultKeyStatistics *yfKeyStatistics  `json:"defaultKeyStatistics"`
}

type yfPrice struct {
	LongName  string   `json:"longName"`
	ShortName string   `json:"shortName"`
	MarketCap *yfValue `json:"marketCap"`
}

type yfSummaryProfile struct {
	Sector   string `json:"sector"`
	Industry string `json:"industry"`
}

type yfSummaryDetail struct {
	TrailingPE       *yfValue `json:"trailingPE"`
	DividendYield    *yfValue `json:"dividendYield"`
	FiftyTwoWeekHigh *yfValue `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow  *yfValue `json:"fiftyTwoWeekLow"`
}

type yfFinancialData struct {
	CurrentPrice *yfValue `json:"currentPrice"`
}

type yfKeyStatistics struct {
	PriceToBook *yfValue `json:"priceToBook"`
}

type yfChartResponse struct {
	Chart struct {
		Result []yfChartResult `json:"result"`
		Error  *yfError        `json:"error"`
	} `json:"chart"`
}

type yfChartResult struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
}

type yfError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// --- Public methods ---

const fundamentalsModules = "price,summaryProfile,summaryDetail,financialData,defaultKeyStatistics"

// Fundamentals returns the company fundamentals snapshot for a Yahoo
// ticker symbol. Any failure (transport error, unknown ticker,
// malformed response, missing info) returns ErrTickerNotFound.
func (c *Client) Fundamentals(ctx context.Context, symbol string) (*Snapshot, error) {
	cacheKey := "fund:" + symbol
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached.(*Snapshot), nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s",
		c.baseURL, url.PathEscape(symbol), fundamentalsModules)

	var resp yfQuoteSummaryResponse
	if err := c.fetchJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, symbol)
	}
	if resp.QuoteSummary.Error != nil || len(resp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, symbol)
	}

	snap := buildSnapshot(symbol, resp.QuoteSummary.Result[0])
	c.cache.Set(cacheKey, snap)
	return snap, nil
}

// History returns daily closing prices for the lookback window ending now.
func (c *Client) History(ctx context.Context, symbol string, lookback time.Duration) ([]Candle, error) {
	cacheKey := fmt.Sprintf("hist:%s:%d", symbol, int64(lookback.Hours()))
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached.([]Candle), nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	now := time.Now()
	u := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d",
		c.baseURL, url.PathEscape(symbol), now.Add(-lookback).Unix(), now.Unix())

	var resp yfChartResponse
	if err := c.fetchJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("yfinance chart %s: %w", symbol, err)
	}
	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("yfinance chart error: %s", resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, symbol)
	}

	candles := parseCandles(resp.Chart.Result[0])
	c.cache.SetWithTTL(cacheKey, candles, 15*time.Minute)
	return candles, nil
}

// --- Internal helpers ---

func (c *Client) fetchJSON(ctx context.Context, url string, dest any) error {
	body, _, err := infra.DoGet(ctx, url, map[string]string{"Accept": "application/json"})
	if err != nil {
		return err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("parse JSON: %w", err)
	}
	return nil
}

// buildSnapshot maps the provider fields onto the fixed display keys.
// Absent values are skipped, never emitted as empty rows.
func buildSnapshot(symbol string, r yfQuoteSummaryResult) *Snapshot {
	snap := &Snapshot{Symbol: symbol}

	company := symbol
	if r.Price != nil {
		if name := coalesce(r.Price.LongName, r.Price.ShortName); name != "" {
			company = name
		}
	}
	snap.Company = company
	snap.add("Company", company)

	if r.SummaryProfile != nil {
		snap.add("Sector", r.SummaryProfile.Sector)
		snap.add("Industry", r.SummaryProfile.Industry)
	}
	if r.Price != nil {
		snap.addNumber("Market Cap", r.Price.MarketCap, formatCompact)
	}
	if r.FinancialData != nil {
		snap.addNumber("Current Price", r.FinancialData.CurrentPrice, formatPrice)
	}
	if r.SummaryDetail != nil {
		snap.addNumber("PE Ratio", r.SummaryDetail.TrailingPE, formatRatio)
	}
	if r.DefaultKeyStatistics != nil {
		snap.addNumber("PB Ratio", r.DefaultKeyStatistics.PriceToBook, formatRatio)
	}
	if r.SummaryDetail != nil {
		snap.addNumber("Dividend Yield", r.SummaryDetail.DividendYield, formatYield)
		snap.addNumber("52W High", r.SummaryDetail.FiftyTwoWeekHigh, formatPrice)
		snap.addNumber("52W Low", r.SummaryDetail.FiftyTwoWeekLow, formatPrice)
	}

	return snap
}

func (s *Snapshot) add(name, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	s.Metrics = append(s.Metrics, Metric{Name: name, Value: value})
}

func (s *Snapshot) addNumber(name string, v *yfValue, format func(float64) string) {
	if v == nil || v.Raw == nil {
		return
	}
	s.add(name, format(*v.Raw))
}

func parseCandles(result yfChartResult) []Candle {
	if len(result.Indicators.Quote) == 0 {
		return nil
	}
	closes := result.Indicators.Quote[0].Close

	candles := make([]Candle, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		candles = append(candles, Candle{
			Time:  time.Unix(ts, 0),
			Close: *closes[i],
		})
	}
	return candles
}

func coalesce(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// --- Display formatting ---

// formatCompact formats a large value in compact Indian notation
// (crores and lakhs).
func formatCompact(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1e12:
		return fmt.Sprintf("%.2f L Cr", v/1e12)
	case abs >= 1e7:
		return fmt.Sprintf("%.2f Cr", v/1e7)
	case abs >= 1e5:
		return fmt.Sprintf("%.2f L", v/1e5)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

func formatPrice(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func formatRatio(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// formatYield renders the dividend yield fraction as a percentage.
func formatYield(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}
