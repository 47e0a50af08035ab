// Package chart renders a SeriesResult as a bar chart image.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/rewired-gh/boligpris/internal/models"
)

// ErrEmptySeries is returned when there is nothing to draw.
var ErrEmptySeries = errors.New("series is empty")

// Formats accepted by Options.Format.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

const (
	barWidth   = 40
	barSpacing = 12
	sidePad    = 90
)

// Options controls the rendered image.
type Options struct {
	Title       string
	SeriesLabel string
	Width       int
	Height      int
	Format      string
}

// DefaultOptions is a 500x300 chart labelled in NOK.
func DefaultOptions() Options {
	return Options{
		SeriesLabel: "NOK",
		Width:       500,
		Height:      300,
		Format:      FormatPNG,
	}
}

// ContentType returns the MIME type for the configured format.
func (o Options) ContentType() string {
	if o.Format == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// RenderBar draws one bar per (category, value) pair. Pairs beyond the
// shorter of the two sequences are ignored. A missing value keeps its label
// but draws no bar.
func RenderBar(result models.SeriesResult, opts Options) ([]byte, error) {
	n := result.Points()
	if n == 0 {
		return nil, ErrEmptySeries
	}

	// Bars grow from zero; go-chart rejects a zero-height range.
	lo, hi := 0.0, 0.0
	bars := make([]chart.Value, n)
	for i := 0; i < n; i++ {
		if result.Missing(i) {
			bars[i] = chart.Value{
				Label: result.Categories[i],
				Style: chart.Style{
					FillColor:   drawing.ColorTransparent,
					StrokeColor: drawing.ColorTransparent,
				},
			}
			continue
		}
		lo = math.Min(lo, result.Values[i])
		hi = math.Max(hi, result.Values[i])
		bars[i] = chart.Value{
			Label: result.Categories[i],
			Value: result.Values[i],
			Style: chart.Style{
				FillColor:   drawing.ColorFromHex("1976d2"),
				StrokeColor: drawing.ColorFromHex("1565c0"),
				StrokeWidth: 1,
			},
		}
	}

	if hi == lo {
		hi = lo + 1
	}

	width := opts.Width
	if need := n*(barWidth+barSpacing) + sidePad; width < need {
		width = need
	}

	title := opts.Title
	if opts.SeriesLabel != "" {
		if title == "" {
			title = opts.SeriesLabel
		} else {
			title = fmt.Sprintf("%s (%s)", title, opts.SeriesLabel)
		}
	}

	graph := chart.BarChart{
		Title:      title,
		Width:      width,
		Height:     opts.Height,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: lo, Max: hi + (hi-lo)*0.05},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return FormatValue(f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	provider := chart.PNG
	if opts.Format == FormatSVG {
		provider = chart.SVG
	}

	var buf bytes.Buffer
	if err := graph.Render(provider, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}

// FormatValue renders a value with thousands separators, or "n/a" when it is
// missing.
func FormatValue(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return humanize.Comma(int64(math.Round(v)))
}
