// Package valuation values a declarative portfolio into dual-currency totals
package valuation

import (
	"context"
	"fmt"

	"github.com/chialin/folio/internal/common"
	"github.com/chialin/folio/internal/interfaces"
	"github.com/chialin/folio/internal/models"
)

// Service implements PortfolioValuator. Price and conversion failures are
// not caught here: a percentage-of-total over an incomplete result would be
// misleading, so the whole calculation aborts.
type Service struct {
	resolver interfaces.PriceSource
	fx       interfaces.CurrencyConverter
	logger   *common.Logger
}

// NewService creates a new valuator over a price resolver and converter.
func NewService(resolver interfaces.PriceSource, fx interfaces.CurrencyConverter, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{resolver: resolver, fx: fx, logger: logger}
}

// Calculate values every holding and aggregates totals. Allocation
// percentages are filled in a second pass: each position's share depends on
// the completed sum of all positions.
func (s *Service) Calculate(ctx context.Context, def *models.PortfolioDefinition) (*models.PortfolioResult, error) {
	result := &models.PortfolioResult{
		Positions: make([]models.PositionBreakdown, 0, len(def.Stocks)+len(def.Cash)),
	}

	for i := range def.Stocks {
		pos, err := s.valueStock(ctx, &def.Stocks[i])
		if err != nil {
			return nil, err
		}
		result.Totals.Add(pos.ValueUSD, pos.ValueTWD, pos.TotalCostUSD, pos.TotalCostTWD)
		result.Positions = append(result.Positions, pos)
	}

	for i := range def.Cash {
		pos, err := s.valueCash(ctx, &def.Cash[i])
		if err != nil {
			return nil, err
		}
		result.Totals.Add(pos.ValueUSD, pos.ValueTWD, pos.TotalCostUSD, pos.TotalCostTWD)
		result.Positions = append(result.Positions, pos)
	}

	// Second pass: allocation percentages over the completed total.
	totalUSD := result.Totals.USD
	if totalUSD == 0 {
		totalUSD = 1.0 // divide-by-zero guard
	}
	for i := range result.Positions {
		result.Positions[i].PortfolioPct = result.Positions[i].ValueUSD / totalUSD * 100.0
	}

	s.logger.Debug().
		Int("positions", len(result.Positions)).
		Float64("total_usd", result.Totals.USD).
		Float64("total_twd", result.Totals.TWD).
		Msg("Portfolio valued")

	return result, nil
}

// valueStock values one equity position: price and cost in the quoting
// currency first, then converted into the other reporting currency.
func (s *Service) valueStock(ctx context.Context, h *models.StockHolding) (models.PositionBreakdown, error) {
	price, err := s.resolver.GetPrice(ctx, h.Symbol)
	if err != nil {
		return models.PositionBreakdown{}, err
	}

	native := models.QuoteCurrency(h.Symbol)

	valueNative := price * h.Shares
	costNative := h.AverageCost * h.Shares

	var valueUSD, valueTWD, costUSD, costTWD float64
	if native == models.CurrencyTWD {
		valueTWD = valueNative
		costTWD = costNative
		if valueUSD, err = s.fx.Convert(ctx, valueNative, models.CurrencyTWD, models.CurrencyUSD); err != nil {
			return models.PositionBreakdown{}, err
		}
		if costUSD, err = s.fx.Convert(ctx, costNative, models.CurrencyTWD, models.CurrencyUSD); err != nil {
			return models.PositionBreakdown{}, err
		}
	} else {
		valueUSD = valueNative
		costUSD = costNative
		if valueTWD, err = s.fx.Convert(ctx, valueNative, models.CurrencyUSD, models.CurrencyTWD); err != nil {
			return models.PositionBreakdown{}, err
		}
		if costTWD, err = s.fx.Convert(ctx, costNative, models.CurrencyUSD, models.CurrencyTWD); err != nil {
			return models.PositionBreakdown{}, err
		}
	}

	roi := 0.0
	if costUSD != 0 {
		roi = (valueUSD - costUSD) / costUSD * 100.0
	}

	return models.PositionBreakdown{
		Name:          h.Symbol,
		Category:      models.CategoryStock,
		Quantity:      h.Shares,
		UnitPrice:     price,
		PriceCurrency: native,
		AverageCost:   h.AverageCost,
		ValueUSD:      valueUSD,
		ValueTWD:      valueTWD,
		TotalCostUSD:  costUSD,
		TotalCostTWD:  costTWD,
		UnrealizedUSD: valueUSD - costUSD,
		UnrealizedTWD: valueTWD - costTWD,
		ROIPct:        roi,
	}, nil
}

// valueCash values one cash balance. Cash has no acquisition basis: cost
// equals value, so unrealized P/L and ROI are fixed at 0.
func (s *Service) valueCash(ctx context.Context, h *models.CashHolding) (models.PositionBreakdown, error) {
	valueUSD, err := s.fx.Convert(ctx, h.Amount, h.Currency, models.CurrencyUSD)
	if err != nil {
		return models.PositionBreakdown{}, fmt.Errorf("cash %s: %w", h.Currency, err)
	}
	valueTWD, err := s.fx.Convert(ctx, h.Amount, h.Currency, models.CurrencyTWD)
	if err != nil {
		return models.PositionBreakdown{}, fmt.Errorf("cash %s: %w", h.Currency, err)
	}

	return models.PositionBreakdown{
		Name:          h.Currency,
		Category:      models.CategoryCash,
		Quantity:      h.Amount,
		PriceCurrency: h.Currency,
		ValueUSD:      valueUSD,
		ValueTWD:      valueTWD,
		TotalCostUSD:  valueUSD,
		TotalCostTWD:  valueTWD,
		UnrealizedUSD: 0,
		UnrealizedTWD: 0,
		ROIPct:        0,
	}, nil
}

// Ensure Service implements PortfolioValuator
var _ interfaces.PortfolioValuator = (*Service)(nil)
