package study

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fluentdeck/fluentdeck-backend/internal/domain"
	"github.com/fluentdeck/fluentdeck-backend/pkg/ctxutil"
)

// GetCard returns a single card owned by the current user.
func (s *Service) GetCard(ctx context.Context, input CardIDInput) (domain.Card, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.Card{}, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return domain.Card{}, err
	}

	card, err := s.cards.GetByID(ctx, userID, input.CardID)
	if err != nil {
		return domain.Card{}, fmt.Errorf("get card: %w", err)
	}
	return card, nil
}

// ListCards returns all of the current user's cards, archived included.
func (s *Service) ListCards(ctx context.Context) ([]domain.Card, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	cards, err := s.cards.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	return cards, nil
}

// CreateCustomCard creates a user-authored card. Custom cards are always
// permitted; content duplication is not checked.
func (s *Service) CreateCustomCard(ctx context.Context, input CreateCardInput) (domain.Card, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.Card{}, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return domain.Card{}, err
	}

	card := NewCustomCard(userID, input, s.clock.Now())

	created, err := s.cards.Insert(ctx, card)
	if err != nil {
		return domain.Card{}, fmt.Errorf("insert card: %w", err)
	}

	s.log.InfoContext(ctx, "custom card created",
		slog.String("user_id", userID.String()),
		slog.String("card_id", created.ID.String()),
	)

	return created, nil
}

// ArchiveCard excludes a card from the due set and active statistics
// without deleting it. The core never physically deletes cards.
func (s *Service) ArchiveCard(ctx context.Context, input CardIDInput) (domain.Card, error) {
	return s.setArchived(ctx, input, true)
}

// UnarchiveCard returns an archived card to active rotation.
func (s *Service) UnarchiveCard(ctx context.Context, input CardIDInput) (domain.Card, error) {
	return s.setArchived(ctx, input, false)
}

func (s *Service) setArchived(ctx context.Context, input CardIDInput, archived bool) (domain.Card, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.Card{}, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return domain.Card{}, err
	}

	card, err := s.cards.SetArchived(ctx, userID, input.CardID, archived)
	if err != nil {
		return domain.Card{}, fmt.Errorf("set archived: %w", err)
	}

	s.log.InfoContext(ctx, "card archive state changed",
		slog.String("user_id", userID.String()),
		slog.String("card_id", card.ID.String()),
		slog.Bool("archived", archived),
	)

	return card, nil
}

// GetCardHistory returns the review history of a card with pagination.
func (s *Service) GetCardHistory(ctx context.Context, input GetCardHistoryInput) ([]*domain.ReviewLog, int, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, 0, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, 0, err
	}

	// Ownership check
	if _, err := s.cards.GetByID(ctx, userID, input.CardID); err != nil {
		return nil, 0, fmt.Errorf("get card: %w", err)
	}

	limit := input.Limit
	if limit == 0 {
		limit = 50
	}

	logs, total, err := s.reviews.GetByCardID(ctx, input.CardID, limit, input.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("get review logs: %w", err)
	}
	return logs, total, nil
}
