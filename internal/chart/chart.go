// Package chart renders a closing-price trend line as an in-memory PNG.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/seenimoa/finpulse/internal/market"
)

// ErrUnavailable is returned when a chart cannot be produced, whether
// from an empty price series or a render failure. Callers show no
// chart and no error message.
var ErrUnavailable = errors.New("chart unavailable")

// Fixed palette matching the dashboard theme.
var (
	lineColor = drawing.ColorFromHex("84E1D9")
	fillColor = drawing.ColorFromHex("29ABE2").WithAlpha(26)
	axisColor = drawing.ColorFromHex("7FBEEB")
	gridColor = drawing.ColorFromHex("7FBEEB").WithAlpha(50)
)

// Config holds the chart dimensions.
type Config struct {
	Width  int
	Height int
}

// DefaultConfig returns the small fixed figure size used by the dashboard.
func DefaultConfig() Config {
	return Config{Width: 560, Height: 220}
}

// Render draws a line plot of closing price over time with a light fill
// beneath the curve, transparent background, and muted gridlines, and
// returns the PNG-encoded bytes.
func Render(symbol string, candles []market.Candle, cfg Config) (png []byte, err error) {
	// The renderer panics on some degenerate inputs; surface those as
	// ErrUnavailable like any other render failure.
	defer func() {
		if r := recover(); r != nil {
			png, err = nil, fmt.Errorf("%w: %v", ErrUnavailable, r)
		}
	}()

	// go-chart needs at least two points for a line series.
	if len(candles) < 2 {
		return nil, ErrUnavailable
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg = DefaultConfig()
	}

	xs := make([]time.Time, len(candles))
	ys := make([]float64, len(candles))
	for i, c := range candles {
		xs[i] = c.Time
		ys[i] = c.Close
	}

	graph := chart.Chart{
		Title:      fmt.Sprintf("%s - 3 Month Trend", symbol),
		TitleStyle: chart.Style{FontSize: 9, FontColor: axisColor},
		Width:      cfg.Width,
		Height:     cfg.Height,
		Background: chart.Style{FillColor: drawing.ColorTransparent},
		Canvas:     chart.Style{FillColor: drawing.ColorTransparent},
		XAxis: chart.XAxis{
			Style:          chart.Style{FontSize: 8, FontColor: axisColor, StrokeColor: axisColor},
			ValueFormatter: chart.TimeValueFormatterWithFormat("Jan 02"),
		},
		YAxis: chart.YAxis{
			Style:          chart.Style{FontSize: 8, FontColor: axisColor, StrokeColor: axisColor},
			GridMajorStyle: chart.Style{StrokeColor: gridColor, StrokeWidth: 1.0},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name: symbol,
				Style: chart.Style{
					StrokeColor: lineColor,
					StrokeWidth: 1.8,
					FillColor:   fillColor,
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return buf.Bytes(), nil
}
