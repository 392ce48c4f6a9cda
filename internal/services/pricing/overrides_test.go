package pricing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chialin/folio/internal/common"
)

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overrides.json")
	if err := os.WriteFile(path, []byte(`{"AAPL": 150.5, "USDTWD=X": 31.0}`), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	o := LoadOverrides(path, common.NewSilentLogger())
	if o.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", o.Len())
	}
	price, ok := o.Get("AAPL")
	if !ok || price != 150.5 {
		t.Errorf("Get(AAPL) = %v, %t", price, ok)
	}
	// Exact string match only, no normalization.
	if _, ok := o.Get("aapl"); ok {
		t.Error("lookup must be case sensitive")
	}
}

func TestLoadOverridesMissingFile(t *testing.T) {
	o := LoadOverrides(filepath.Join(t.TempDir(), "nope.json"), common.NewSilentLogger())
	if o.Len() != 0 {
		t.Errorf("missing file should yield empty table, got %d", o.Len())
	}
}

func TestLoadOverridesMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overrides.json")
	if err := os.WriteFile(path, []byte(`not json`), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	o := LoadOverrides(path, common.NewSilentLogger())
	if o.Len() != 0 {
		t.Errorf("malformed file should yield empty table, got %d", o.Len())
	}
}

func TestOverridesReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overrides.json")
	if err := os.WriteFile(path, []byte(`{"AAPL": 150.0}`), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	o := LoadOverrides(path, common.NewSilentLogger())
	if err := os.WriteFile(path, []byte(`{"AAPL": 151.0, "VOO": 400.0}`), 0644); err != nil {
		t.Fatalf("rewrite fixture: %v", err)
	}
	o.Reload()

	if o.Len() != 2 {
		t.Errorf("Len() after reload = %d, want 2", o.Len())
	}
	if price, _ := o.Get("AAPL"); price != 151.0 {
		t.Errorf("Get(AAPL) after reload = %v, want 151.0", price)
	}
}
