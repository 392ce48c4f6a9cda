// Package models defines data structures for Folio
package models

import (
	"fmt"
	"strings"
)

// Currency codes the engine reports in. Holdings may be denominated in other
// currencies; values are always expressed in both of these.
const (
	CurrencyUSD = "USD"
	CurrencyTWD = "TWD"
)

// QuoteCurrency returns the currency a price source natively quotes the
// symbol in. Symbols carrying a Taiwan market suffix (".TW" listed, ".TWO"
// over-the-counter) quote in TWD; everything else quotes in USD.
func QuoteCurrency(symbol string) string {
	if strings.Contains(strings.ToUpper(symbol), ".TW") {
		return CurrencyTWD
	}
	return CurrencyUSD
}

// StockHolding is a single equity position: point-in-time units held plus
// the average acquisition cost per share in the quoting currency.
type StockHolding struct {
	Symbol      string  `json:"symbol"`
	Shares      float64 `json:"shares"`
	AverageCost float64 `json:"average_cost"` // 0 means unknown basis
}

// Validate rejects malformed entries at the load boundary.
func (h *StockHolding) Validate() error {
	if strings.TrimSpace(h.Symbol) == "" {
		return fmt.Errorf("stock holding has empty symbol")
	}
	if h.Shares == 0 {
		return fmt.Errorf("stock holding %s has zero shares", h.Symbol)
	}
	if h.AverageCost < 0 {
		return fmt.Errorf("stock holding %s has negative average cost", h.Symbol)
	}
	return nil
}

// CashHolding is a cash balance in a single currency.
type CashHolding struct {
	Currency string  `json:"currency"`
	Amount   float64 `json:"amount"`
}

// Validate rejects malformed entries at the load boundary.
func (h *CashHolding) Validate() error {
	if len(strings.TrimSpace(h.Currency)) != 3 {
		return fmt.Errorf("cash holding has invalid currency %q", h.Currency)
	}
	return nil
}

// PortfolioDefinition is the declarative portfolio read from the portfolio
// file. It is loaded fresh per valuation run and immutable during one.
type PortfolioDefinition struct {
	Stocks []StockHolding `json:"stocks"`
	Cash   []CashHolding  `json:"cash"`
}

// Normalize uppercases symbols and currency codes and defaults nil members
// to empty slices.
func (p *PortfolioDefinition) Normalize() {
	if p.Stocks == nil {
		p.Stocks = []StockHolding{}
	}
	if p.Cash == nil {
		p.Cash = []CashHolding{}
	}
	for i := range p.Stocks {
		p.Stocks[i].Symbol = strings.ToUpper(strings.TrimSpace(p.Stocks[i].Symbol))
	}
	for i := range p.Cash {
		p.Cash[i].Currency = strings.ToUpper(strings.TrimSpace(p.Cash[i].Currency))
	}
}

// Validate checks every holding and returns the first problem found.
func (p *PortfolioDefinition) Validate() error {
	for i := range p.Stocks {
		if err := p.Stocks[i].Validate(); err != nil {
			return fmt.Errorf("stocks[%d]: %w", i, err)
		}
	}
	for i := range p.Cash {
		if err := p.Cash[i].Validate(); err != nil {
			return fmt.Errorf("cash[%d]: %w", i, err)
		}
	}
	return nil
}
