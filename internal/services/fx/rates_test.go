package fx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chialin/folio/internal/common"
)

func TestLoadRateTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fx_rates.csv")
	content := "date,pair,rate\n" +
		"2026-01-05,USDTWD,31.0\n" +
		"2026-01-06,USDTWD,31.5\n" +
		"2026-01-05,EURUSD,1.08\n" +
		"bad row\n" +
		"2026-01-05,USDTWD,-1\n" +
		"2026-01-05,USD,5\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	table := LoadRateTable(path, common.NewSilentLogger())
	if table.Len() != 2 {
		t.Errorf("pairs = %d, want 2", table.Len())
	}

	rate, err := table.Rate("USD", "TWD")
	if err != nil {
		t.Fatalf("Rate() error = %v", err)
	}
	if rate != 31.5 {
		t.Errorf("rate = %v, want latest 31.5", rate)
	}
}

func TestLoadRateTableMissingFile(t *testing.T) {
	table := LoadRateTable(filepath.Join(t.TempDir(), "nope.csv"), common.NewSilentLogger())
	if table.Len() != 0 {
		t.Errorf("missing file should yield empty table, got %d pairs", table.Len())
	}
	if _, err := table.Rate("USD", "TWD"); err == nil {
		t.Error("empty table should error on lookup")
	}
}

func TestRateInverse(t *testing.T) {
	table := LoadRateTable("", common.NewSilentLogger())
	table.Add("2026-01-05", "USDTWD", 32.0)

	rate, err := table.Rate("TWD", "USD")
	if err != nil {
		t.Fatalf("Rate() error = %v", err)
	}
	if rate != 1/32.0 {
		t.Errorf("inverse rate = %v, want %v", rate, 1/32.0)
	}
}
