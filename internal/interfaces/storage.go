// Package interfaces defines service contracts for Folio
package interfaces

import "github.com/chialin/folio/internal/models"

// PortfolioStore reads and writes the declarative portfolio definition file.
type PortfolioStore interface {
	// Load reads and validates the portfolio definition. A missing or
	// malformed file is a fatal load error.
	Load() (*models.PortfolioDefinition, error)

	// Save validates and writes the definition back to the file.
	Save(def *models.PortfolioDefinition) error
}

// HistoryStore persists the daily history series.
type HistoryStore interface {
	// Load returns the series in chronological order. A missing file yields
	// an empty series, not an error.
	Load() (models.HistorySeries, error)

	// Upsert replaces or inserts the record for a date, recomputes returns
	// for the entire series, persists it, and returns the new series.
	Upsert(date string, totalUSD, totalTWD float64) (models.HistorySeries, error)

	// Simulate performs the same recompute over an in-memory copy without
	// persisting anything.
	Simulate(date string, totalUSD, totalTWD float64) (models.HistorySeries, error)
}
