// Package pricing resolves symbols to prices through an ordered source chain
package pricing

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/chialin/folio/internal/common"
	"github.com/chialin/folio/internal/interfaces"
)

// PriceUnavailableError is returned when no source in the chain could
// resolve a symbol.
type PriceUnavailableError struct {
	Symbol        string
	Attempted     []string
	OnlineAllowed bool
}

func (e *PriceUnavailableError) Error() string {
	return fmt.Sprintf("no price data available for %s (online allowed=%t, sources tried: %s)",
		e.Symbol, e.OnlineAllowed, strings.Join(e.Attempted, ", "))
}

// Resolver tries an ordered list of online sources, then local overrides.
// It records which source served each symbol for transparency. Instances are
// not safe for concurrent use — scope one per valuation run.
type Resolver struct {
	sources     []interfaces.QuoteClient
	overrides   *Overrides
	allowOnline bool
	logger      *common.Logger

	onlineSourcesUsed map[string]bool // source name -> used
	overridesUsed     map[string]bool // symbol -> served from override
}

// NewResolver creates a resolver over the given online sources (tried in
// order) and override table. When allowOnline is false the online sources
// are skipped outright.
func NewResolver(sources []interfaces.QuoteClient, overrides *Overrides, allowOnline bool, logger *common.Logger) *Resolver {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Resolver{
		sources:           sources,
		overrides:         overrides,
		allowOnline:       allowOnline,
		logger:            logger,
		onlineSourcesUsed: make(map[string]bool),
		overridesUsed:     make(map[string]bool),
	}
}

// GetPrice retrieves the latest price for the symbol. Per-source failures
// are expected and logged at debug level; only full exhaustion is an error.
func (r *Resolver) GetPrice(ctx context.Context, symbol string) (float64, error) {
	attempted := make([]string, 0, len(r.sources)+1)

	if r.allowOnline {
		for _, src := range r.sources {
			attempted = append(attempted, src.Name())
			price, err := src.LatestClose(ctx, symbol)
			if err != nil {
				r.logger.Debug().Err(err).Str("symbol", symbol).Str("source", src.Name()).Msg("Price source failed, falling through")
				continue
			}
			r.onlineSourcesUsed[src.Name()] = true
			r.logger.Info().Str("symbol", symbol).Str("source", src.Name()).Float64("price", price).Msg("Price resolved")
			return price, nil
		}
	}

	attempted = append(attempted, "local overrides")
	if price, ok := r.overrides.Get(symbol); ok {
		r.overridesUsed[symbol] = true
		r.logger.Info().Str("symbol", symbol).Float64("price", price).Msg("Price resolved from local override")
		return price, nil
	}

	return 0, &PriceUnavailableError{
		Symbol:        symbol,
		Attempted:     attempted,
		OnlineAllowed: r.allowOnline,
	}
}

// DescribeSources renders a human-readable summary of the sources used since
// construction.
func (r *Resolver) DescribeSources() string {
	var parts []string

	if len(r.onlineSourcesUsed) > 0 {
		parts = append(parts, "Online sources: "+strings.Join(sortedKeys(r.onlineSourcesUsed), ", "))
	}
	if len(r.overridesUsed) > 0 {
		parts = append(parts, "Overrides applied for: "+strings.Join(sortedKeys(r.overridesUsed), ", "))
	}
	if len(parts) == 0 {
		return "No price sources were used."
	}
	return strings.Join(parts, " | ")
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Ensure Resolver implements PriceSource
var _ interfaces.PriceSource = (*Resolver)(nil)
