package query

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestTargetDate(t *testing.T) {
	// Saturday afternoon; truncation must land on the same calendar day.
	now := time.Date(2024, 6, 1, 15, 30, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(now)

	tests := []struct {
		name    string
		isoDate string
		text    string
		want    string
	}{
		{"explicit date wins", "2024-07-15", "погода завтра", "2024-07-15"},
		{"today word", "", "погода сегодня в Москве", "2024-06-01"},
		{"tomorrow word", "", "погода в Москве завтра", "2024-06-02"},
		{"day after tomorrow", "", "послезавтра в Твери", "2024-06-03"},
		{"trailing punctuation", "", "погода завтра?", "2024-06-02"},
		{"no date words defaults to today", "", "погода в Москве", "2024-06-01"},
		{"first relative word wins", "", "сегодня или завтра", "2024-06-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := targetDate(clock, tt.isoDate, tt.text)
			if err != nil {
				t.Fatalf("targetDate: %v", err)
			}
			if got.Format("2006-01-02") != tt.want {
				t.Errorf("date = %s, want %s", got.Format("2006-01-02"), tt.want)
			}
		})
	}
}

func TestTargetDateBadISO(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	if _, err := targetDate(clock, "01.06.2024", "погода"); err == nil {
		t.Error("expected error for non-ISO date")
	}
}
