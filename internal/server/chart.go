package server

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/chialin/folio/internal/models"
)

// handleHistoryChart handles GET /api/history/chart.png, rendering the
// recorded USD total over time. A single point cannot make a line, so fewer
// than two rows is treated the same as no history.
func (s *Server) handleHistoryChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	series, err := s.app.History.Load()
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	png, err := renderHistoryChart(series.Tail(s.app.Config.Server.MaxHistoryPoints))
	if err != nil {
		WriteError(w, http.StatusNotFound, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// renderHistoryChart renders the USD total series as a PNG line chart.
func renderHistoryChart(series models.HistorySeries) ([]byte, error) {
	if len(series) < 2 {
		return nil, fmt.Errorf("need at least 2 history rows to chart, got %d", len(series))
	}

	xValues := make([]time.Time, 0, len(series))
	yValues := make([]float64, 0, len(series))
	for _, rec := range series {
		t, err := time.Parse(models.DateFormat, rec.Date)
		if err != nil {
			continue
		}
		xValues = append(xValues, t)
		yValues = append(yValues, rec.TotalUSD)
	}
	if len(xValues) < 2 {
		return nil, fmt.Errorf("not enough parsable history rows to chart")
	}

	graph := chart.Chart{
		Title:  "Portfolio Value (USD)",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 02")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.0f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name: "Total USD",
				Style: chart.Style{
					StrokeColor: drawing.ColorFromHex("2563eb"),
					StrokeWidth: 2.5,
				},
				XValues: xValues,
				YValues: yValues,
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}
