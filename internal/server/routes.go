package server

import "net/http"

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	// Valuation and history
	mux.HandleFunc("/api/dashboard", s.handleDashboard)
	mux.HandleFunc("/api/history", s.handleHistory)
	mux.HandleFunc("/api/history/chart.png", s.handleHistoryChart)
	mux.HandleFunc("/api/snapshot", s.handleSnapshot)

	// Portfolio definition
	mux.HandleFunc("/api/portfolio", s.handlePortfolio)

	// Reporting
	mux.HandleFunc("/api/report/send", s.handleReportSend)
}
