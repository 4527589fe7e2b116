// Package sm2 implements the SM-2 spaced repetition algorithm.
// Scheduling is pure and deterministic: the same state, grade, and clock
// always produce the same result.
package sm2

import (
	"fmt"
	"math"
	"time"

	"github.com/fluentdeck/fluentdeck-backend/internal/domain"
)

// Ease factor bounds. The clamp keeps interval growth between "slow but
// steady" (1.3x) and the SM-2 ceiling (2.5x); the algorithm can never push
// a card outside this range.
const (
	MinEaseFactor     = 1.3
	MaxEaseFactor     = 2.5
	DefaultEaseFactor = 2.5
)

// Quality is the numeric recall score on the 0–5 SM-2 scale.
type Quality int

const (
	QualityAgain Quality = 0
	QualityHard  Quality = 3
	QualityGood  Quality = 4
	QualityEasy  Quality = 5

	// MinPassingQuality divides successful recall (q >= 3) from failed
	// recall (q < 3).
	MinPassingQuality Quality = 3
)

// Intervals for the first and second successful review of a card, in days.
const (
	FirstInterval  = 1
	SecondInterval = 6
)

// QualityFor maps a review grade to its SM-2 quality score.
// An unrecognized grade is an error, never a silent default.
func QualityFor(grade domain.ReviewGrade) (Quality, error) {
	switch grade {
	case domain.ReviewGradeAgain:
		return QualityAgain, nil
	case domain.ReviewGradeHard:
		return QualityHard, nil
	case domain.ReviewGradeGood:
		return QualityGood, nil
	case domain.ReviewGradeEasy:
		return QualityEasy, nil
	default:
		return 0, fmt.Errorf("%w: %q", domain.ErrUnknownGrade, grade)
	}
}

// State holds the scheduling inputs for a card.
type State struct {
	IntervalDays int
	EaseFactor   float64
	ReviewCount  int
}

// Result is the scheduling state after a review.
type Result struct {
	IntervalDays   int
	EaseFactor     float64
	ReviewCount    int
	NextReviewAt   time.Time
	LastReviewedAt time.Time
}

// Schedule computes the next scheduling state for a card given a grade.
// Pure function: no mutation of inputs, no clock access beyond now.
//
// Failed recall (q < MinPassingQuality) resets the interval to one day and
// the successful-review count to zero; the ease factor is left unchanged.
// Successful recall updates the ease factor first, then grows the interval:
// 1 day for the first success, 6 for the second, round(interval * ease)
// after that. Intervals are uncapped.
func Schedule(state State, grade domain.ReviewGrade, now time.Time) (Result, error) {
	q, err := QualityFor(grade)
	if err != nil {
		return Result{}, err
	}

	ease := state.EaseFactor
	var interval, reviewCount int

	if q < MinPassingQuality {
		interval = FirstInterval
		reviewCount = 0
	} else {
		ease = NextEase(ease, q)
		switch state.ReviewCount {
		case 0:
			interval = FirstInterval
		case 1:
			interval = SecondInterval
		default:
			interval = int(math.Round(float64(state.IntervalDays) * ease))
		}
		reviewCount = state.ReviewCount + 1
	}

	return Result{
		IntervalDays:   interval,
		EaseFactor:     ease,
		ReviewCount:    reviewCount,
		NextReviewAt:   now.AddDate(0, 0, interval),
		LastReviewedAt: now,
	}, nil
}

// NextEase applies the SM-2 ease adjustment for a passing quality score:
//
//	EF' = EF + (0.1 - (5-q)*(0.08 + (5-q)*0.02))
//
// clamped to [MinEaseFactor, MaxEaseFactor].
func NextEase(ease float64, q Quality) float64 {
	miss := float64(5 - q)
	next := ease + (0.1 - miss*(0.08+miss*0.02))
	return clampEase(next)
}

func clampEase(ease float64) float64 {
	if ease < MinEaseFactor {
		return MinEaseFactor
	}
	if ease > MaxEaseFactor {
		return MaxEaseFactor
	}
	return ease
}
