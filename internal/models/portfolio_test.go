package models

import "testing"

func TestQuoteCurrency(t *testing.T) {
	tests := []struct {
		symbol string
		want   string
	}{
		{"AAPL", CurrencyUSD},
		{"VOO", CurrencyUSD},
		{"2330.TW", CurrencyTWD},
		{"2330.tw", CurrencyTWD},
		{"6488.TWO", CurrencyTWD},
		{"USDTWD=X", CurrencyUSD},
		{"BRK-B", CurrencyUSD},
	}
	for _, tt := range tests {
		if got := QuoteCurrency(tt.symbol); got != tt.want {
			t.Errorf("QuoteCurrency(%q) = %s, want %s", tt.symbol, got, tt.want)
		}
	}
}

func TestStockHoldingValidate(t *testing.T) {
	tests := []struct {
		name    string
		holding StockHolding
		wantErr bool
	}{
		{"valid", StockHolding{Symbol: "AAPL", Shares: 10, AverageCost: 100}, false},
		{"zero cost allowed", StockHolding{Symbol: "AAPL", Shares: 10}, false},
		{"fractional shares", StockHolding{Symbol: "VOO", Shares: 0.5, AverageCost: 400}, false},
		{"empty symbol", StockHolding{Shares: 10}, true},
		{"blank symbol", StockHolding{Symbol: "  ", Shares: 10}, true},
		{"zero shares", StockHolding{Symbol: "AAPL"}, true},
		{"negative cost", StockHolding{Symbol: "AAPL", Shares: 1, AverageCost: -5}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.holding.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %t", err, tt.wantErr)
			}
		})
	}
}

func TestCashHoldingValidate(t *testing.T) {
	if err := (&CashHolding{Currency: "USD", Amount: 500}).Validate(); err != nil {
		t.Errorf("valid cash rejected: %v", err)
	}
	if err := (&CashHolding{Currency: "US", Amount: 500}).Validate(); err == nil {
		t.Error("2-letter currency accepted")
	}
	if err := (&CashHolding{Currency: "", Amount: 500}).Validate(); err == nil {
		t.Error("empty currency accepted")
	}
}

func TestPortfolioNormalize(t *testing.T) {
	p := &PortfolioDefinition{
		Stocks: []StockHolding{{Symbol: " aapl ", Shares: 1}},
		Cash:   []CashHolding{{Currency: "usd", Amount: 1}},
	}
	p.Normalize()

	if p.Stocks[0].Symbol != "AAPL" {
		t.Errorf("symbol = %q", p.Stocks[0].Symbol)
	}
	if p.Cash[0].Currency != "USD" {
		t.Errorf("currency = %q", p.Cash[0].Currency)
	}

	empty := &PortfolioDefinition{}
	empty.Normalize()
	if empty.Stocks == nil || empty.Cash == nil {
		t.Error("nil members not defaulted to empty slices")
	}
}

func TestPortfolioValidateReportsIndex(t *testing.T) {
	p := &PortfolioDefinition{
		Stocks: []StockHolding{
			{Symbol: "AAPL", Shares: 1},
			{Symbol: "", Shares: 1},
		},
	}
	err := p.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got[:9] != "stocks[1]" {
		t.Errorf("error should name the offending index: %v", err)
	}
}
