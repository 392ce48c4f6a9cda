package pricing

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/chialin/folio/internal/common"
)

// Overrides is a local price table keyed by exact symbol string, loaded from
// a flat JSON file. A missing file is an empty table, not an error.
type Overrides struct {
	path   string
	logger *common.Logger
	prices map[string]float64
}

// LoadOverrides reads the override file at path. Load problems other than a
// missing file are logged and yield an empty table so valuation can still
// proceed through online sources.
func LoadOverrides(path string, logger *common.Logger) *Overrides {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	o := &Overrides{path: path, logger: logger}
	o.Reload()
	return o
}

// Reload re-reads the override file from disk.
func (o *Overrides) Reload() {
	o.prices = map[string]float64{}

	if o.path == "" {
		return
	}

	data, err := os.ReadFile(o.path)
	if err != nil {
		if os.IsNotExist(err) {
			o.logger.Debug().Str("path", o.path).Msg("No local override file found")
			return
		}
		o.logger.Warn().Err(err).Str("path", o.path).Msg("Failed to read local overrides")
		return
	}

	var raw map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		o.logger.Warn().Err(err).Str("path", o.path).Msg("Failed to parse local overrides")
		return
	}

	o.prices = raw
	o.logger.Info().Int("count", len(raw)).Str("path", o.path).Msg("Loaded local price overrides")
}

// Get returns the override price for the exact symbol string.
func (o *Overrides) Get(symbol string) (float64, bool) {
	price, ok := o.prices[symbol]
	return price, ok
}

// Len returns the number of override entries.
func (o *Overrides) Len() int { return len(o.prices) }

// Set adds or replaces an override in memory. Used by tests and tooling; the
// file on disk is not touched.
func (o *Overrides) Set(symbol string, price float64) {
	o.prices[symbol] = price
}

// String summarizes the table for diagnostics.
func (o *Overrides) String() string {
	return fmt.Sprintf("overrides(%d entries from %s)", len(o.prices), o.path)
}
