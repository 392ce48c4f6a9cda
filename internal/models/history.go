package models

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// DateFormat is the calendar-day format used throughout the history series.
const DateFormat = "2006-01-02"

// ParseDate validates a YYYY-MM-DD date string and returns it normalized.
func ParseDate(s string) (string, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t.Format(DateFormat), nil
}

// Today returns the current calendar day as a YYYY-MM-DD string.
func Today() string {
	return time.Now().Format(DateFormat)
}

// HistoryRecord is one day's aggregate snapshot. DailyReturnPct is always
// derived from the series, never supplied by a caller.
type HistoryRecord struct {
	Date           string  `json:"date"`
	TotalUSD       float64 `json:"total_usd"`
	TotalTWD       float64 `json:"total_twd"`
	DailyReturnPct float64 `json:"daily_return_pct"`
}

// HistorySeries is an ordered series of daily records, unique per date.
type HistorySeries []HistoryRecord

// Sort orders the series chronologically. ISO date strings sort correctly
// lexicographically.
func (s HistorySeries) Sort() {
	sort.Slice(s, func(i, j int) bool { return s[i].Date < s[j].Date })
}

// Find returns the record for the exact date string, if present.
func (s HistorySeries) Find(date string) (HistoryRecord, bool) {
	for _, r := range s {
		if r.Date == date {
			return r, true
		}
	}
	return HistoryRecord{}, false
}

// Latest returns the chronologically last record. The series must be sorted.
func (s HistorySeries) Latest() (HistoryRecord, bool) {
	if len(s) == 0 {
		return HistoryRecord{}, false
	}
	return s[len(s)-1], true
}

// Tail returns the last n records (the whole series when n <= 0 or n exceeds
// the length). Used by chart and report consumers to truncate for display.
func (s HistorySeries) Tail(n int) HistorySeries {
	if n <= 0 || n >= len(s) {
		return s
	}
	return s[len(s)-n:]
}

// Upsert replaces the record matching date by exact string equality, or
// appends a new one. It does not recompute returns; callers follow with
// RecomputeReturns.
func (s HistorySeries) Upsert(rec HistoryRecord) HistorySeries {
	for i := range s {
		if s[i].Date == rec.Date {
			s[i].TotalUSD = rec.TotalUSD
			s[i].TotalTWD = rec.TotalTWD
			return s
		}
	}
	return append(s, rec)
}

// RecomputeReturns sorts the series chronologically and rederives
// DailyReturnPct for every record as the percent change of TotalUSD from its
// chronological predecessor. The first record's return is 0.0, as is any
// record whose predecessor total is 0 (divide-by-zero guard). Recomputing the
// whole series means a backfilled or corrected record ripples into the
// following day's return.
func (s HistorySeries) RecomputeReturns() {
	s.Sort()
	for i := range s {
		if i == 0 || s[i-1].TotalUSD == 0 {
			s[i].DailyReturnPct = 0.0
			continue
		}
		s[i].DailyReturnPct = (s[i].TotalUSD - s[i-1].TotalUSD) / s[i-1].TotalUSD * 100.0
	}
}

// Round2 rounds a monetary value to 2 decimals for persistence.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
