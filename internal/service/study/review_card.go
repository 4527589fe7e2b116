package study

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/fluentdeck/fluentdeck-backend/internal/domain"
	"github.com/fluentdeck/fluentdeck-backend/internal/service/study/sm2"
	"github.com/fluentdeck/fluentdeck-backend/pkg/ctxutil"
)

// ReviewCard applies a quality rating to a card: the SM-2 scheduler computes
// the next scheduling state, and the card update plus its review log are
// persisted in one transaction.
//
// An unrecognized grade fails fast with domain.ErrUnknownGrade; it is never
// silently treated as GOOD.
func (s *Service) ReviewCard(ctx context.Context, input ReviewCardInput) (domain.Card, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.Card{}, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return domain.Card{}, err
	}

	now := s.clock.Now()

	card, err := s.cards.GetByID(ctx, userID, input.CardID)
	if err != nil {
		return domain.Card{}, fmt.Errorf("get card: %w", err)
	}

	result, err := sm2.Schedule(sm2.State{
		IntervalDays: card.IntervalDays,
		EaseFactor:   card.EaseFactor,
		ReviewCount:  card.ReviewCount,
	}, input.Grade, now)
	if err != nil {
		return domain.Card{}, err
	}

	snapshot := &domain.SchedulingSnapshot{
		IntervalDays:   card.IntervalDays,
		EaseFactor:     card.EaseFactor,
		ReviewCount:    card.ReviewCount,
		NextReviewAt:   card.NextReviewAt,
		LastReviewedAt: card.LastReviewedAt,
	}

	var updated domain.Card

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		lastReviewed := result.LastReviewedAt

		var updateErr error
		updated, updateErr = s.cards.UpdateScheduling(txCtx, userID, card.ID, domain.SchedulingUpdate{
			IntervalDays:   result.IntervalDays,
			EaseFactor:     result.EaseFactor,
			ReviewCount:    result.ReviewCount,
			NextReviewAt:   result.NextReviewAt,
			LastReviewedAt: &lastReviewed,
		})
		if updateErr != nil {
			return fmt.Errorf("update card: %w", updateErr)
		}

		if _, logErr := s.reviews.Create(txCtx, &domain.ReviewLog{
			ID:         uuid.New(),
			CardID:     card.ID,
			UserID:     userID,
			Grade:      input.Grade,
			PrevState:  snapshot,
			ReviewedAt: now,
		}); logErr != nil {
			return fmt.Errorf("create review log: %w", logErr)
		}

		return nil
	})
	if err != nil {
		return domain.Card{}, err
	}

	s.log.InfoContext(ctx, "card reviewed",
		slog.String("user_id", userID.String()),
		slog.String("card_id", card.ID.String()),
		slog.String("grade", string(input.Grade)),
		slog.Int("interval_days", updated.IntervalDays),
		slog.Float64("ease_factor", updated.EaseFactor),
	)

	return updated, nil
}
