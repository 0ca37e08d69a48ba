package chart

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/rustyeddy/tradebook/journal"
)

// ErrNoTrades is returned when there is nothing to plot.
var ErrNoTrades = errors.New("chart: no trades")

// RenderBalance renders a PNG line chart of the running balance by trade
// number. The balance starts from a zero origin at trade 0; the per-trade
// net is drawn as a second, dashed series.
func RenderBalance(entries []journal.Entry) ([]byte, error) {
	if len(entries) == 0 {
		return nil, ErrNoTrades
	}

	n := len(entries) + 1
	xValues := make([]float64, n)
	balance := make([]float64, n)
	net := make([]float64, n)
	zero := make([]float64, n)

	for i, e := range entries {
		xValues[i+1] = float64(i + 1)
		balance[i+1] = e.Cumulative.InexactFloat64()
		net[i+1] = e.Net.InexactFloat64()
	}
	for i := range xValues {
		xValues[i] = float64(i)
	}

	balanceSeries := chart.ContinuousSeries{
		Name: "Balance",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("1f77b4"),
			StrokeWidth: 2.5,
			DotColor:    drawing.ColorFromHex("1f77b4"),
			DotWidth:    3,
		},
		XValues: xValues,
		YValues: balance,
	}

	netSeries := chart.ContinuousSeries{
		Name: "Net",
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex("f59e0b"),
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{5.0, 3.0},
		},
		XValues: xValues[1:],
		YValues: net[1:],
	}

	zeroSeries := chart.ContinuousSeries{
		Name: "Zero",
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex("9ca3af"),
			StrokeWidth:     1,
			StrokeDashArray: []float64{2.0, 2.0},
		},
		XValues: xValues,
		YValues: zero,
	}

	graph := chart.Chart{
		Title:  "Trade balance",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			Name: "Trade",
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			Name: "Net",
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.2f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			zeroSeries,
			netSeries,
			balanceSeries,
		},
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
