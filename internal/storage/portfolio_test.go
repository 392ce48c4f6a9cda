package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chialin/folio/internal/common"
	"github.com/chialin/folio/internal/models"
)

func TestPortfolioFileLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "portfolio.json")

	content := `{
  "stocks": [
    {"symbol": "aapl", "shares": 10, "average_cost": 100},
    {"symbol": "2330.TW", "shares": 100, "average_cost": 500}
  ],
  "cash": [
    {"currency": "usd", "amount": 500}
  ]
}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	store := NewPortfolioFile(path, common.NewSilentLogger())
	def, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(def.Stocks) != 2 || len(def.Cash) != 1 {
		t.Fatalf("got %d stocks, %d cash", len(def.Stocks), len(def.Cash))
	}
	if def.Stocks[0].Symbol != "AAPL" {
		t.Errorf("symbol not normalized: %q", def.Stocks[0].Symbol)
	}
	if def.Cash[0].Currency != "USD" {
		t.Errorf("currency not normalized: %q", def.Cash[0].Currency)
	}
}

func TestPortfolioFileLoadMissingMembers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "portfolio.json")
	if err := os.WriteFile(path, []byte(`{}`), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	store := NewPortfolioFile(path, common.NewSilentLogger())
	def, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if def.Stocks == nil || def.Cash == nil {
		t.Error("missing members should default to empty slices")
	}
	if len(def.Stocks) != 0 || len(def.Cash) != 0 {
		t.Errorf("expected empty portfolio, got %d stocks, %d cash", len(def.Stocks), len(def.Cash))
	}
}

func TestPortfolioFileLoadErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		store := NewPortfolioFile(filepath.Join(dir, "nope.json"), common.NewSilentLogger())
		if _, err := store.Load(); err == nil {
			t.Fatal("expected error for missing file")
		}
	})

	t.Run("not an object", func(t *testing.T) {
		path := filepath.Join(dir, "array.json")
		if err := os.WriteFile(path, []byte(`[1,2,3]`), 0644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
		store := NewPortfolioFile(path, common.NewSilentLogger())
		if _, err := store.Load(); err == nil {
			t.Fatal("expected error for non-object file")
		}
	})

	t.Run("invalid holding", func(t *testing.T) {
		path := filepath.Join(dir, "bad.json")
		content := `{"stocks": [{"symbol": "", "shares": 10, "average_cost": 1}]}`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
		store := NewPortfolioFile(path, common.NewSilentLogger())
		_, err := store.Load()
		if err == nil {
			t.Fatal("expected validation error")
		}
		if !strings.Contains(err.Error(), "invalid portfolio") {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestPortfolioFileSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "portfolio.json")
	store := NewPortfolioFile(path, common.NewSilentLogger())

	def := &models.PortfolioDefinition{
		Stocks: []models.StockHolding{{Symbol: "VOO", Shares: 5, AverageCost: 400}},
		Cash:   []models.CashHolding{{Currency: "TWD", Amount: 10000}},
	}
	if err := store.Save(def); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(loaded.Stocks) != 1 || loaded.Stocks[0].Symbol != "VOO" {
		t.Errorf("round trip lost stocks: %+v", loaded.Stocks)
	}
	if len(loaded.Cash) != 1 || loaded.Cash[0].Amount != 10000 {
		t.Errorf("round trip lost cash: %+v", loaded.Cash)
	}
}

func TestPortfolioFileSaveRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "portfolio.json")
	store := NewPortfolioFile(path, common.NewSilentLogger())

	def := &models.PortfolioDefinition{
		Stocks: []models.StockHolding{{Symbol: "X", Shares: 0, AverageCost: 1}},
	}
	if err := store.Save(def); err == nil {
		t.Fatal("expected error saving invalid portfolio")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("invalid save should not create the file")
	}
}
