package domain

import (
	"time"

	"github.com/google/uuid"
)

// Card is the unit of spaced repetition: a front/back prompt pair plus the
// SM-2 scheduling state that decides when it comes up for review next.
type Card struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Front           string
	Back            string
	Hint            *string
	ExampleSentence *string
	Type            CardType
	Category        string
	Difficulty      Difficulty
	Source          SourceRef
	NextReviewAt    time.Time
	IntervalDays    int
	EaseFactor      float64
	ReviewCount     int
	LastReviewedAt  *time.Time
	Archived        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SourceRef identifies the upstream record a card was generated from.
// The pair (Type, ID) is the deduplication key: at most one card may exist
// per distinct pair. CUSTOM cards carry no ID and never deduplicate.
type SourceRef struct {
	Type SourceType
	ID   string
}

// HasDedupKey reports whether the reference participates in deduplication.
func (s SourceRef) HasDedupKey() bool {
	return s.Type != SourceTypeCustom && s.ID != ""
}

// IsDue reports whether the card is eligible for review at asOf.
// Comparison is at UTC calendar-day granularity, so a card scheduled for any
// time-of-day today counts as due for the whole of today.
// Archived cards are never due.
func (c *Card) IsDue(asOf time.Time) bool {
	if c.Archived {
		return false
	}
	return !DayUTC(c.NextReviewAt).After(DayUTC(asOf))
}

// DayUTC truncates t to its UTC calendar day. Every due-date comparison and
// "today" boundary in the scheduler goes through this single definition.
func DayUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// SchedulingUpdate holds the scheduling fields written back after a review.
type SchedulingUpdate struct {
	IntervalDays   int
	EaseFactor     float64
	ReviewCount    int
	NextReviewAt   time.Time
	LastReviewedAt *time.Time
}

// SchedulingSnapshot captures a card's scheduling state before a review.
// Stored with the review log so past reviews can be inspected.
type SchedulingSnapshot struct {
	IntervalDays   int
	EaseFactor     float64
	ReviewCount    int
	NextReviewAt   time.Time
	LastReviewedAt *time.Time
}

// ReviewLog records a single review event for a card.
type ReviewLog struct {
	ID         uuid.UUID
	CardID     uuid.UUID
	UserID     uuid.UUID
	Grade      ReviewGrade
	PrevState  *SchedulingSnapshot
	ReviewedAt time.Time
}
