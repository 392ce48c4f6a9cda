// Package fx converts amounts between currencies
package fx

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/chialin/folio/internal/common"
)

// ratePoint is one dated observation for a currency pair.
type ratePoint struct {
	date string // YYYY-MM-DD
	rate float64
}

// RateTable is a static historical rate table loaded from a CSV file with
// columns date,pair,rate (pair like "USDTWD", rate = units of the second
// currency per unit of the first). It degrades gracefully: when the exact
// date is missing the most recent observation is used, and an inverse pair
// is accepted by taking the reciprocal. A missing file is an empty table.
type RateTable struct {
	pairs  map[string][]ratePoint // pair -> observations sorted by date asc
	logger *common.Logger
}

// LoadRateTable reads the rate file at path. Parse problems are logged and
// the offending rows skipped; the converter falls back to live lookup for
// pairs the table cannot serve.
func LoadRateTable(path string, logger *common.Logger) *RateTable {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	t := &RateTable{pairs: map[string][]ratePoint{}, logger: logger}

	if path == "" {
		return t
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug().Str("path", path).Msg("No FX rate table found")
		} else {
			logger.Warn().Err(err).Str("path", path).Msg("Failed to open FX rate table")
		}
		return t
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("Failed to parse FX rate table")
		return t
	}

	count := 0
	for i, row := range rows {
		if len(row) < 3 {
			continue
		}
		if i == 0 && strings.EqualFold(strings.TrimSpace(row[0]), "date") {
			continue // header
		}
		date := strings.TrimSpace(row[0])
		pair := strings.ToUpper(strings.TrimSpace(row[1]))
		rate, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		if err != nil || rate <= 0 || len(pair) != 6 {
			continue
		}
		t.pairs[pair] = append(t.pairs[pair], ratePoint{date: date, rate: rate})
		count++
	}

	for pair := range t.pairs {
		points := t.pairs[pair]
		sort.Slice(points, func(i, j int) bool { return points[i].date < points[j].date })
	}

	logger.Info().Int("rates", count).Int("pairs", len(t.pairs)).Str("path", path).Msg("Loaded FX rate table")
	return t
}

// Rate returns how many units of 'to' one unit of 'from' buys, using the
// most recent observation for the pair (or the reciprocal of the inverse
// pair). Returns an error when the table has no data for either direction.
func (t *RateTable) Rate(from, to string) (float64, error) {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)

	if points, ok := t.pairs[from+to]; ok && len(points) > 0 {
		return points[len(points)-1].rate, nil
	}
	if points, ok := t.pairs[to+from]; ok && len(points) > 0 {
		return 1 / points[len(points)-1].rate, nil
	}
	return 0, fmt.Errorf("no rate for %s->%s in table", from, to)
}

// Add inserts an observation. Used by tests and tooling.
func (t *RateTable) Add(date, pair string, rate float64) {
	pair = strings.ToUpper(pair)
	t.pairs[pair] = append(t.pairs[pair], ratePoint{date: date, rate: rate})
	points := t.pairs[pair]
	sort.Slice(points, func(i, j int) bool { return points[i].date < points[j].date })
}

// Len returns the number of pairs in the table.
func (t *RateTable) Len() int { return len(t.pairs) }
