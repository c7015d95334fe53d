package service

import (
	"testing"
	"time"
)

func TestFillDailySeries_ZeroFillsMissingDays(t *testing.T) {
	today := time.Date(2026, 8, 23, 14, 30, 0, 0, time.UTC)
	counts := map[string]int64{
		"2026-08-20": 4,
		"2026-08-23": 9,
	}

	series := FillDailySeries(counts, 7, today)
	if len(series) != 7 {
		t.Fatalf("len = %d, want 7", len(series))
	}

	want := []struct {
		day   string
		votes int64
	}{
		{"2026-08-17", 0},
		{"2026-08-18", 0},
		{"2026-08-19", 0},
		{"2026-08-20", 4},
		{"2026-08-21", 0},
		{"2026-08-22", 0},
		{"2026-08-23", 9},
	}
	for i, w := range want {
		if series[i].Day != w.day || series[i].Votes != w.votes {
			t.Errorf("series[%d] = {%s %d}, want {%s %d}",
				i, series[i].Day, series[i].Votes, w.day, w.votes)
		}
	}
}

func TestFillDailySeries_SingleDay(t *testing.T) {
	today := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)

	series := FillDailySeries(map[string]int64{"2026-08-23": 3}, 1, today)
	if len(series) != 1 {
		t.Fatalf("len = %d, want 1", len(series))
	}
	if series[0].Day != "2026-08-23" || series[0].Votes != 3 {
		t.Errorf("series[0] = {%s %d}, want {2026-08-23 3}", series[0].Day, series[0].Votes)
	}
}

func TestFillDailySeries_Chronological(t *testing.T) {
	// Oldest day first, today last, regardless of map iteration order.
	today := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	series := FillDailySeries(map[string]int64{}, 30, today)
	if len(series) != 30 {
		t.Fatalf("len = %d, want 30", len(series))
	}
	if series[0].Day != "2026-01-31" {
		t.Errorf("first day = %s, want 2026-01-31", series[0].Day)
	}
	if series[len(series)-1].Day != "2026-03-01" {
		t.Errorf("last day = %s, want 2026-03-01", series[len(series)-1].Day)
	}
	for i := 1; i < len(series); i++ {
		if series[i].Day <= series[i-1].Day {
			t.Fatalf("series not ascending at %d: %s after %s", i, series[i].Day, series[i-1].Day)
		}
	}
}

func TestFillDailySeries_NonPositiveDays(t *testing.T) {
	today := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)

	for _, days := range []int{0, -5} {
		if got := FillDailySeries(nil, days, today); len(got) != 0 {
			t.Errorf("days=%d: len = %d, want 0", days, len(got))
		}
	}
}
