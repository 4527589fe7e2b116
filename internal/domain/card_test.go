package domain

import (
	"testing"
	"time"
)

func TestCard_IsDue(t *testing.T) {
	t.Parallel()

	// 09:00 UTC on June 10th.
	asOf := time.Date(2026, 6, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		nextReviewAt time.Time
		archived     bool
		want         bool
	}{
		{"overdue by days", asOf.AddDate(0, 0, -5), false, true},
		{"earlier today", time.Date(2026, 6, 10, 1, 0, 0, 0, time.UTC), false, true},
		{"later today still due", time.Date(2026, 6, 10, 23, 30, 0, 0, time.UTC), false, true},
		{"tomorrow", asOf.AddDate(0, 0, 1), false, false},
		{"tomorrow midnight", time.Date(2026, 6, 11, 0, 0, 0, 0, time.UTC), false, false},
		{"archived overdue", asOf.AddDate(0, 0, -5), true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Card{NextReviewAt: tt.nextReviewAt, Archived: tt.archived}
			if got := c.IsDue(asOf); got != tt.want {
				t.Errorf("IsDue = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCard_IsDue_NonUTCZone(t *testing.T) {
	t.Parallel()

	// Due-ness follows the UTC day regardless of the wall-clock zone on
	// either timestamp.
	est := time.FixedZone("EST", -5*60*60)

	// 20:00 EST June 9th is 01:00 UTC June 10th.
	nextReview := time.Date(2026, 6, 9, 20, 0, 0, 0, est)
	c := Card{NextReviewAt: nextReview}

	asOfBefore := time.Date(2026, 6, 9, 23, 0, 0, 0, time.UTC)
	if c.IsDue(asOfBefore) {
		t.Error("card due on June 9 UTC, but scheduled for June 10 UTC")
	}

	asOfAfter := time.Date(2026, 6, 10, 0, 30, 0, 0, time.UTC)
	if !c.IsDue(asOfAfter) {
		t.Error("card not due on June 10 UTC")
	}
}

func TestDayUTC(t *testing.T) {
	t.Parallel()

	got := DayUTC(time.Date(2026, 6, 10, 23, 59, 59, 999, time.UTC))
	want := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("DayUTC = %v, want %v", got, want)
	}

	// A local time close to midnight can truncate to a different UTC day.
	est := time.FixedZone("EST", -5*60*60)
	got = DayUTC(time.Date(2026, 6, 10, 22, 0, 0, 0, est))
	want = time.Date(2026, 6, 11, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("DayUTC across zones = %v, want %v", got, want)
	}
}

func TestSourceRef_HasDedupKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ref  SourceRef
		want bool
	}{
		{"correction", SourceRef{Type: SourceTypeCorrection, ID: "c1"}, true},
		{"vocabulary", SourceRef{Type: SourceTypeVocabulary, ID: "hola"}, true},
		{"custom", SourceRef{Type: SourceTypeCustom}, false},
		{"custom with stray id", SourceRef{Type: SourceTypeCustom, ID: "x"}, false},
		{"missing id", SourceRef{Type: SourceTypeCorrection}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ref.HasDedupKey(); got != tt.want {
				t.Errorf("HasDedupKey = %v, want %v", got, tt.want)
			}
		})
	}
}
