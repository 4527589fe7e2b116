package study

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fluentdeck/fluentdeck-backend/internal/domain"
	"github.com/fluentdeck/fluentdeck-backend/pkg/ctxutil"
)

// Mastery thresholds for the statistics view.
const (
	masteredMinReviews = 5
	masteredMinEase    = 2.5
	strugglingMaxEase  = 2.0
)

// GetDashboard returns the statistics view over the user's card collection
// plus the reviewed-today counter from the review log. The view is computed
// fresh on every call; nothing is cached.
func (s *Service) GetDashboard(ctx context.Context) (domain.Dashboard, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.Dashboard{}, domain.ErrUnauthorized
	}

	now := s.clock.Now()

	cards, err := s.cards.ListByUser(ctx, userID)
	if err != nil {
		return domain.Dashboard{}, fmt.Errorf("list cards: %w", err)
	}

	reviewedToday, err := s.reviews.CountSince(ctx, userID, domain.DayUTC(now))
	if err != nil {
		return domain.Dashboard{}, fmt.Errorf("count reviewed today: %w", err)
	}

	dashboard := domain.Dashboard{
		Stats:         ComputeStats(cards, now),
		ReviewedToday: reviewedToday,
	}

	s.log.InfoContext(ctx, "dashboard loaded",
		slog.String("user_id", userID.String()),
		slog.Int("total_active", dashboard.Stats.TotalActive),
		slog.Int("due_today", dashboard.Stats.DueToday),
	)

	return dashboard, nil
}

// ComputeStats derives the statistics view from a card collection. The
// categories overlap by construction: a card can be both learning and
// struggling. Pure function.
func ComputeStats(cards []domain.Card, asOf time.Time) domain.CollectionStats {
	var stats domain.CollectionStats
	for _, c := range cards {
		if c.Archived {
			stats.Archived++
			continue
		}
		stats.TotalActive++
		if c.IsDue(asOf) {
			stats.DueToday++
		}
		if c.ReviewCount >= masteredMinReviews && c.EaseFactor >= masteredMinEase {
			stats.Mastered++
		}
		if c.ReviewCount < masteredMinReviews {
			stats.Learning++
		}
		if c.EaseFactor < strugglingMaxEase {
			stats.Struggling++
		}
	}
	return stats
}
