package valuation

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/chialin/folio/internal/models"
)

type stubResolver struct {
	prices map[string]float64
}

func (s *stubResolver) GetPrice(_ context.Context, symbol string) (float64, error) {
	if price, ok := s.prices[symbol]; ok {
		return price, nil
	}
	return 0, errors.New("no price for " + symbol)
}

func (s *stubResolver) DescribeSources() string { return "" }

// stubFX converts through a fixed USDTWD rate.
type stubFX struct {
	usdtwd float64
}

func (s *stubFX) Convert(_ context.Context, amount float64, from, to string) (float64, error) {
	if from == to {
		return amount, nil
	}
	if from == "USD" && to == "TWD" {
		return amount * s.usdtwd, nil
	}
	if from == "TWD" && to == "USD" {
		return amount / s.usdtwd, nil
	}
	return 0, errors.New("unsupported pair " + from + to)
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestCalculateMixedPortfolio(t *testing.T) {
	resolver := &stubResolver{prices: map[string]float64{"AAPL": 150}}
	svc := NewService(resolver, &stubFX{usdtwd: 31}, nil)

	def := &models.PortfolioDefinition{
		Stocks: []models.StockHolding{{Symbol: "AAPL", Shares: 10, AverageCost: 100}},
		Cash:   []models.CashHolding{{Currency: "USD", Amount: 500}},
	}

	result, err := svc.Calculate(context.Background(), def)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}

	if len(result.Positions) != 2 {
		t.Fatalf("positions = %d, want 2", len(result.Positions))
	}

	stock := result.Positions[0]
	if !approx(stock.ValueUSD, 1500) || !approx(stock.TotalCostUSD, 1000) {
		t.Errorf("stock value/cost = %v/%v", stock.ValueUSD, stock.TotalCostUSD)
	}
	if !approx(stock.UnrealizedUSD, 500) || !approx(stock.ROIPct, 50) {
		t.Errorf("stock P/L = %v, ROI = %v", stock.UnrealizedUSD, stock.ROIPct)
	}
	if !approx(stock.ValueTWD, 1500*31) {
		t.Errorf("stock ValueTWD = %v", stock.ValueTWD)
	}

	cash := result.Positions[1]
	if !approx(cash.ValueUSD, 500) || !approx(cash.TotalCostUSD, 500) {
		t.Errorf("cash value/cost = %v/%v", cash.ValueUSD, cash.TotalCostUSD)
	}
	if cash.ROIPct != 0 || cash.UnrealizedUSD != 0 {
		t.Error("cash must have zero ROI and P/L")
	}

	if !approx(result.Totals.USD, 2000) {
		t.Errorf("Totals.USD = %v, want 2000", result.Totals.USD)
	}
	if !approx(stock.PortfolioPct, 75) || !approx(cash.PortfolioPct, 25) {
		t.Errorf("allocation = %v / %v, want 75 / 25", stock.PortfolioPct, cash.PortfolioPct)
	}
}

func TestCalculateTaiwanListing(t *testing.T) {
	resolver := &stubResolver{prices: map[string]float64{"2330.TW": 620}}
	svc := NewService(resolver, &stubFX{usdtwd: 31}, nil)

	def := &models.PortfolioDefinition{
		Stocks: []models.StockHolding{{Symbol: "2330.TW", Shares: 100, AverageCost: 500}},
		Cash:   []models.CashHolding{},
	}

	result, err := svc.Calculate(context.Background(), def)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}

	pos := result.Positions[0]
	if pos.PriceCurrency != models.CurrencyTWD {
		t.Errorf("PriceCurrency = %s, want TWD", pos.PriceCurrency)
	}
	if !approx(pos.ValueTWD, 62000) {
		t.Errorf("ValueTWD = %v, want 62000 (native)", pos.ValueTWD)
	}
	if !approx(pos.ValueUSD, 62000.0/31) {
		t.Errorf("ValueUSD = %v, want converted %v", pos.ValueUSD, 62000.0/31)
	}
	// ROI is computed from the USD view; with a single rate it matches native.
	if !approx(pos.ROIPct, 24) {
		t.Errorf("ROIPct = %v, want 24", pos.ROIPct)
	}
}

func TestCalculateEmptyPortfolio(t *testing.T) {
	svc := NewService(&stubResolver{}, &stubFX{usdtwd: 31}, nil)

	result, err := svc.Calculate(context.Background(), &models.PortfolioDefinition{
		Stocks: []models.StockHolding{},
		Cash:   []models.CashHolding{},
	})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if result.Totals.USD != 0 || len(result.Positions) != 0 {
		t.Errorf("empty portfolio result = %+v", result)
	}
}

func TestCalculateAbortsOnUnresolvablePrice(t *testing.T) {
	svc := NewService(&stubResolver{}, &stubFX{usdtwd: 31}, nil)

	def := &models.PortfolioDefinition{
		Stocks: []models.StockHolding{{Symbol: "NOPE", Shares: 1, AverageCost: 1}},
	}
	if _, err := svc.Calculate(context.Background(), def); err == nil {
		t.Fatal("expected error for unresolvable symbol")
	}
}

func TestCalculateAbortsOnConversionFailure(t *testing.T) {
	resolver := &stubResolver{prices: map[string]float64{"AAPL": 150}}
	svc := NewService(resolver, &stubFX{usdtwd: 31}, nil)

	def := &models.PortfolioDefinition{
		Cash: []models.CashHolding{{Currency: "EUR", Amount: 100}},
	}
	if _, err := svc.Calculate(context.Background(), def); err == nil {
		t.Fatal("expected error for unconvertible currency")
	}
}
