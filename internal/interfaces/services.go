// Package interfaces defines service contracts for Folio
package interfaces

import (
	"context"

	"github.com/chialin/folio/internal/models"
)

// PriceSource resolves a symbol to a price through an ordered fallback
// chain. Instances track which source served each symbol and are meant to be
// scoped to a single valuation run.
type PriceSource interface {
	// GetPrice returns the latest price for a symbol, trying each source in
	// order. Exhausting all sources yields *pricing.PriceUnavailableError.
	GetPrice(ctx context.Context, symbol string) (float64, error)

	// DescribeSources renders a human-readable summary of the sources used
	// since construction.
	DescribeSources() string
}

// CurrencyConverter converts an amount between two currency codes.
type CurrencyConverter interface {
	// Convert returns the amount expressed in the target currency. Failure
	// of both the rate table and the pair lookup yields *fx.ConversionError.
	Convert(ctx context.Context, amount float64, from, to string) (float64, error)
}

// PortfolioValuator values a declarative portfolio.
type PortfolioValuator interface {
	// Calculate produces per-position valuations and aggregate totals. Any
	// unresolvable price or conversion aborts the whole calculation.
	Calculate(ctx context.Context, def *models.PortfolioDefinition) (*models.PortfolioResult, error)
}

// ReportService builds and delivers the daily email report.
type ReportService interface {
	// Send formats the report from the persisted history and emails it.
	Send(ctx context.Context) error
}
