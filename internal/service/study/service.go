// Package study implements the spaced-repetition business logic: due-set
// selection, card generation from upstream learning events, the review
// session state machine, and the dashboard statistics view.
package study

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fluentdeck/fluentdeck-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type cardRepo interface {
	GetByID(ctx context.Context, userID, cardID uuid.UUID) (domain.Card, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Card, error)
	Insert(ctx context.Context, card domain.Card) (domain.Card, error)
	InsertBatch(ctx context.Context, cards []domain.Card) ([]domain.Card, error)
	UpdateScheduling(ctx context.Context, userID, cardID uuid.UUID, params domain.SchedulingUpdate) (domain.Card, error)
	SetArchived(ctx context.Context, userID, cardID uuid.UUID, archived bool) (domain.Card, error)
}

type reviewLogRepo interface {
	Create(ctx context.Context, log *domain.ReviewLog) (*domain.ReviewLog, error)
	GetByCardID(ctx context.Context, cardID uuid.UUID, limit, offset int) ([]*domain.ReviewLog, int, error)
	CountSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the study business logic on top of the card store.
type Service struct {
	cards   cardRepo
	reviews reviewLogRepo
	tx      txManager
	log     *slog.Logger
	clock   clock
}

// NewService creates a new study service.
func NewService(log *slog.Logger, cards cardRepo, reviews reviewLogRepo, tx txManager) *Service {
	return &Service{
		cards:   cards,
		reviews: reviews,
		tx:      tx,
		log:     log.With("service", "study"),
		clock:   systemClock{},
	}
}
