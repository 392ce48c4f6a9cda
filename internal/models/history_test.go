package models

import (
	"math"
	"testing"
)

func TestParseDate(t *testing.T) {
	if _, err := ParseDate("2026-01-05"); err != nil {
		t.Errorf("valid date rejected: %v", err)
	}
	for _, bad := range []string{"01/05/2026", "2026-13-01", "yesterday", ""} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("ParseDate(%q) accepted", bad)
		}
	}
}

func TestSeriesUpsert(t *testing.T) {
	s := HistorySeries{{Date: "2026-01-05", TotalUSD: 1000, TotalTWD: 31000}}

	s = s.Upsert(HistoryRecord{Date: "2026-01-06", TotalUSD: 1100, TotalTWD: 34100})
	if len(s) != 2 {
		t.Fatalf("append failed, len = %d", len(s))
	}

	s = s.Upsert(HistoryRecord{Date: "2026-01-05", TotalUSD: 900, TotalTWD: 27900})
	if len(s) != 2 {
		t.Fatalf("replace created duplicate, len = %d", len(s))
	}
	rec, _ := s.Find("2026-01-05")
	if rec.TotalUSD != 900 {
		t.Errorf("replace did not update totals: %+v", rec)
	}
}

func TestRecomputeReturns(t *testing.T) {
	// Out of order on purpose: recompute must sort first.
	s := HistorySeries{
		{Date: "2026-01-07", TotalUSD: 1210},
		{Date: "2026-01-05", TotalUSD: 1000},
		{Date: "2026-01-06", TotalUSD: 1100},
	}
	s.RecomputeReturns()

	want := []struct {
		date string
		ret  float64
	}{
		{"2026-01-05", 0.0},
		{"2026-01-06", 10.0},
		{"2026-01-07", 10.0},
	}
	for i, w := range want {
		if s[i].Date != w.date {
			t.Errorf("row %d date = %s, want %s", i, s[i].Date, w.date)
		}
		if math.Abs(s[i].DailyReturnPct-w.ret) > 1e-9 {
			t.Errorf("row %d return = %v, want %v", i, s[i].DailyReturnPct, w.ret)
		}
	}
}

func TestRecomputeReturnsZeroPredecessor(t *testing.T) {
	s := HistorySeries{
		{Date: "2026-01-05", TotalUSD: 0},
		{Date: "2026-01-06", TotalUSD: 500},
	}
	s.RecomputeReturns()
	if s[1].DailyReturnPct != 0.0 {
		t.Errorf("return after zero total = %v, want 0.0", s[1].DailyReturnPct)
	}
}

func TestTail(t *testing.T) {
	s := HistorySeries{
		{Date: "2026-01-05"}, {Date: "2026-01-06"}, {Date: "2026-01-07"},
	}
	if got := s.Tail(2); len(got) != 2 || got[0].Date != "2026-01-06" {
		t.Errorf("Tail(2) = %+v", got)
	}
	if got := s.Tail(0); len(got) != 3 {
		t.Errorf("Tail(0) should return everything, got %d", len(got))
	}
	if got := s.Tail(10); len(got) != 3 {
		t.Errorf("Tail(10) should return everything, got %d", len(got))
	}
}

func TestLatest(t *testing.T) {
	if _, ok := (HistorySeries{}).Latest(); ok {
		t.Error("empty series should have no latest")
	}
	s := HistorySeries{{Date: "2026-01-05"}, {Date: "2026-01-06"}}
	rec, ok := s.Latest()
	if !ok || rec.Date != "2026-01-06" {
		t.Errorf("Latest() = %+v, %t", rec, ok)
	}
}

func TestRound2(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{1000.006, 1000.01},
		{1000.004, 1000.0},
		{-2.346, -2.35},
		{0, 0},
	}
	for _, tt := range tests {
		if got := Round2(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
