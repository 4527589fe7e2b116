package study

import (
	"slices"
	"time"

	"github.com/fluentdeck/fluentdeck-backend/internal/domain"
)

// SelectDue returns every non-archived card whose next review date, at UTC
// calendar-day granularity, is on or before asOf. The result is sorted
// ascending by next review date so the most-overdue cards come first.
//
// Pure function: no mutation, same inputs give the same output. The returned
// slice shares card values with the input, not backing storage.
func SelectDue(cards []domain.Card, asOf time.Time) []domain.Card {
	due := make([]domain.Card, 0, len(cards))
	for _, c := range cards {
		if c.IsDue(asOf) {
			due = append(due, c)
		}
	}

	slices.SortStableFunc(due, func(a, b domain.Card) int {
		return a.NextReviewAt.Compare(b.NextReviewAt)
	})

	return due
}
