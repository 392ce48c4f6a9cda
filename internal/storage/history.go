package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/chialin/folio/internal/common"
	"github.com/chialin/folio/internal/interfaces"
	"github.com/chialin/folio/internal/models"
)

// ErrHistoryEmpty is returned when an operation needs at least one recorded
// snapshot and the ledger has none.
var ErrHistoryEmpty = errors.New("history is empty")

var historyHeader = []string{"date", "total_usd", "total_twd", "daily_return_pct"}

// HistoryFile is the append-or-replace CSV ledger of daily valuation
// snapshots. Every mutation rewrites the whole file: the series is small
// (one row per day) and a full rewrite keeps the recomputed return column
// consistent with the totals on disk.
type HistoryFile struct {
	path   string
	logger *common.Logger
}

// NewHistoryFile creates a store over the history CSV at path.
func NewHistoryFile(path string, logger *common.Logger) *HistoryFile {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &HistoryFile{path: path, logger: logger}
}

// Load reads the full series sorted by date ascending. A missing file is an
// empty series. Rows that do not parse are skipped with a warning rather
// than failing the whole load.
func (s *HistoryFile) Load() (models.HistorySeries, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.HistorySeries{}, nil
		}
		return nil, fmt.Errorf("failed to open history file %s: %w", s.path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse history file %s: %w", s.path, err)
	}

	series := make(models.HistorySeries, 0, len(rows))
	for i, row := range rows {
		if len(row) < 4 {
			continue
		}
		if i == 0 && strings.EqualFold(strings.TrimSpace(row[0]), "date") {
			continue // header
		}
		rec, err := parseHistoryRow(row)
		if err != nil {
			s.logger.Warn().Err(err).Int("row", i+1).Str("path", s.path).Msg("Skipping malformed history row")
			continue
		}
		series = append(series, rec)
	}

	series.Sort()
	return series, nil
}

// Upsert records the snapshot for date, replacing any existing row with the
// same date. Totals are rounded to cents before comparison or storage, the
// daily return column is recomputed over the whole series, and the file is
// rewritten atomically. Re-running the same date with the same totals yields
// a byte-identical file.
func (s *HistoryFile) Upsert(date string, totalUSD, totalTWD float64) (models.HistorySeries, error) {
	series, err := s.upserted(date, totalUSD, totalTWD)
	if err != nil {
		return nil, err
	}

	if err := s.write(series); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("date", date).
		Float64("total_usd", models.Round2(totalUSD)).
		Int("rows", len(series)).
		Msg("History snapshot recorded")

	return series, nil
}

// Simulate returns the series as it would look after Upsert(date, ...),
// without touching the file. Used to preview a date that has no recorded
// snapshot yet.
func (s *HistoryFile) Simulate(date string, totalUSD, totalTWD float64) (models.HistorySeries, error) {
	return s.upserted(date, totalUSD, totalTWD)
}

func (s *HistoryFile) upserted(date string, totalUSD, totalTWD float64) (models.HistorySeries, error) {
	normalized, err := models.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("invalid snapshot date %q: %w", date, err)
	}
	date = normalized

	series, err := s.Load()
	if err != nil {
		return nil, err
	}

	series = series.Upsert(models.HistoryRecord{
		Date:     date,
		TotalUSD: models.Round2(totalUSD),
		TotalTWD: models.Round2(totalTWD),
	})
	series.RecomputeReturns()
	return series, nil
}

// write rewrites the whole ledger with a header row.
func (s *HistoryFile) write(series models.HistorySeries) error {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write(historyHeader); err != nil {
		return fmt.Errorf("failed to encode history header: %w", err)
	}
	for _, rec := range series {
		row := []string{
			rec.Date,
			strconv.FormatFloat(rec.TotalUSD, 'f', 2, 64),
			strconv.FormatFloat(rec.TotalTWD, 'f', 2, 64),
			strconv.FormatFloat(rec.DailyReturnPct, 'f', 4, 64),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to encode history row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}

	if err := atomicWrite(s.path, []byte(sb.String())); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}
	return nil
}

func parseHistoryRow(row []string) (models.HistoryRecord, error) {
	date := strings.TrimSpace(row[0])
	if _, err := models.ParseDate(date); err != nil {
		return models.HistoryRecord{}, fmt.Errorf("bad date %q: %w", date, err)
	}
	usd, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
	if err != nil {
		return models.HistoryRecord{}, fmt.Errorf("bad total_usd %q: %w", row[1], err)
	}
	twd, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
	if err != nil {
		return models.HistoryRecord{}, fmt.Errorf("bad total_twd %q: %w", row[2], err)
	}
	ret, err := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
	if err != nil {
		return models.HistoryRecord{}, fmt.Errorf("bad daily_return_pct %q: %w", row[3], err)
	}
	return models.HistoryRecord{Date: date, TotalUSD: usd, TotalTWD: twd, DailyReturnPct: ret}, nil
}

// Ensure HistoryFile implements HistoryStore
var _ interfaces.HistoryStore = (*HistoryFile)(nil)
