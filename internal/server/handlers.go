package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/chialin/folio/internal/common"
	"github.com/chialin/folio/internal/models"
	"github.com/chialin/folio/internal/services/fx"
	"github.com/chialin/folio/internal/services/pricing"
	"github.com/chialin/folio/internal/storage"
)

// DashboardResponse is the combined valuation-plus-history payload behind
// the dashboard view.
type DashboardResponse struct {
	Date      string                     `json:"date"`
	Simulated bool                       `json:"simulated"`
	Totals    models.Totals              `json:"totals"`
	Positions []models.PositionBreakdown `json:"positions"`
	Sources   string                     `json:"sources"`
	History   models.HistorySeries       `json:"history"`
}

// SnapshotResponse is the result of recording one snapshot.
type SnapshotResponse struct {
	Record  models.HistoryRecord `json:"record"`
	Sources string               `json:"sources"`
	Rows    int                  `json:"rows"`
}

// handleHealth handles GET /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": common.GetVersion(),
		"uptime":  time.Since(s.app.StartupTime).Round(time.Second).String(),
	})
}

// handleVersion handles GET /api/version.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
		"full":    common.GetFullVersion(),
	})
}

// handleDashboard handles GET /api/dashboard?date=YYYY-MM-DD.
//
// The portfolio is valued live. When the requested date has no persisted
// snapshot the history series is simulated with today's totals so the view
// shows what recording would produce, without writing anything.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	result, run, err := s.app.Value(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	series, err := s.app.History.Load()
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	simulated := false
	if _, recorded := series.Find(date); !recorded {
		series, err = s.app.History.Simulate(date, result.Totals.USD, result.Totals.TWD)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		simulated = true
	}

	WriteJSON(w, http.StatusOK, DashboardResponse{
		Date:      date,
		Simulated: simulated,
		Totals:    result.Totals,
		Positions: result.Positions,
		Sources:   run.Resolver.DescribeSources(),
		History:   series.Tail(s.app.Config.Server.MaxHistoryPoints),
	})
}

// handleHistory handles GET /api/history.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	series, err := s.app.History.Load()
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if series == nil {
		series = models.HistorySeries{}
	}
	WriteJSON(w, http.StatusOK, series)
}

// handleSnapshot handles POST /api/snapshot?date=YYYY-MM-DD.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	_, series, run, err := s.app.Snapshot(r.Context(), date)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	rec, _ := series.Find(date)
	WriteJSON(w, http.StatusOK, SnapshotResponse{
		Record:  rec,
		Sources: run.Resolver.DescribeSources(),
		Rows:    len(series),
	})
}

// handlePortfolio handles GET and PUT /api/portfolio.
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		def, err := s.app.Portfolio.Load()
		if err != nil {
			WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, def)

	case http.MethodPut:
		var def models.PortfolioDefinition
		if !DecodeJSON(w, r, &def) {
			return
		}
		if err := s.app.Portfolio.Save(&def); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, &def)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPut)
	}
}

// handleReportSend handles POST /api/report/send.
func (s *Server) handleReportSend(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if !s.app.Config.Mail.Enabled {
		WriteError(w, http.StatusConflict, "Mail delivery is disabled in configuration")
		return
	}

	if err := s.app.ReportService.Send(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

// dateParam reads the optional ?date= query parameter, defaulting to today.
func dateParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	date := r.URL.Query().Get("date")
	if date == "" {
		return models.Today(), true
	}
	normalized, err := models.ParseDate(date)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return normalized, true
}

// writeDomainError maps known engine errors to HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	var priceErr *pricing.PriceUnavailableError
	var convErr *fx.ConversionError

	switch {
	case errors.Is(err, storage.ErrHistoryEmpty):
		WriteError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &priceErr), errors.As(err, &convErr):
		WriteError(w, http.StatusBadGateway, err.Error())
	default:
		WriteError(w, http.StatusInternalServerError, err.Error())
	}
}
