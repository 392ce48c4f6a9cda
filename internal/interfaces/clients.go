// Package interfaces defines service contracts for Folio
package interfaces

import "context"

// QuoteClient is an online price source. The resolver tries clients in
// order; any error means "fall through to the next source".
type QuoteClient interface {
	// Name identifies the source in logs and source-usage summaries.
	Name() string

	// LatestClose retrieves the most recent close price for a symbol in the
	// symbol's quoting currency.
	LatestClose(ctx context.Context, symbol string) (float64, error)
}
