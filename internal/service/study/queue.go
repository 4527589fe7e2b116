package study

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fluentdeck/fluentdeck-backend/internal/domain"
	"github.com/fluentdeck/fluentdeck-backend/pkg/ctxutil"
)

// GetReviewQueue returns the user's current due set: every non-archived
// card due today or earlier, most overdue first.
func (s *Service) GetReviewQueue(ctx context.Context) ([]domain.Card, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	cards, err := s.cards.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}

	queue := SelectDue(cards, s.clock.Now())

	s.log.InfoContext(ctx, "review queue computed",
		slog.String("user_id", userID.String()),
		slog.Int("due_count", len(queue)),
	)

	return queue, nil
}
