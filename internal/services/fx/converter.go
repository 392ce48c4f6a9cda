package fx

import (
	"context"
	"fmt"
	"strings"

	"github.com/chialin/folio/internal/common"
	"github.com/chialin/folio/internal/interfaces"
)

// PairSuffix forms the synthetic FX symbol looked up through the price
// resolver, e.g. "USDTWD=X". The resolved price is units of target per unit
// of source.
const PairSuffix = "=X"

// ConversionError is returned when both the rate table and the resolver
// lookup failed for a currency pair.
type ConversionError struct {
	From string
	To   string
	Err  error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("FX conversion %s->%s failed: %v", e.From, e.To, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// Converter converts amounts between currencies. The static rate table is
// consulted first (more reliable for common pairs), then a live pair lookup
// through the price resolver (covers long-tail pairs the table is stale on).
type Converter struct {
	rates    *RateTable
	resolver interfaces.PriceSource
	logger   *common.Logger
}

// NewConverter creates a converter over a rate table and a price resolver.
func NewConverter(rates *RateTable, resolver interfaces.PriceSource, logger *common.Logger) *Converter {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Converter{rates: rates, resolver: resolver, logger: logger}
}

// Convert returns the amount expressed in the target currency.
// Same-currency conversion is an identity and performs no lookup.
func (c *Converter) Convert(ctx context.Context, amount float64, from, to string) (float64, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))

	if from == to {
		return amount, nil
	}

	if c.rates != nil {
		if rate, err := c.rates.Rate(from, to); err == nil {
			return amount * rate, nil
		} else {
			c.logger.Debug().Err(err).Str("from", from).Str("to", to).Msg("Rate table miss, falling back to pair lookup")
		}
	}

	pair := from + to + PairSuffix
	rate, err := c.resolver.GetPrice(ctx, pair)
	if err != nil {
		return 0, &ConversionError{From: from, To: to, Err: err}
	}
	if rate <= 0 {
		return 0, &ConversionError{From: from, To: to, Err: fmt.Errorf("invalid rate %f from pair %s", rate, pair)}
	}

	return amount * rate, nil
}

// Ensure Converter implements CurrencyConverter
var _ interfaces.CurrencyConverter = (*Converter)(nil)
