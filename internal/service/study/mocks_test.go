package study

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/fluentdeck/fluentdeck-backend/internal/domain"
)

// Hand-rolled function-field mocks for the private repo interfaces.

type cardRepoMock struct {
	GetByIDFunc          func(ctx context.Context, userID, cardID uuid.UUID) (domain.Card, error)
	ListByUserFunc       func(ctx context.Context, userID uuid.UUID) ([]domain.Card, error)
	InsertFunc           func(ctx context.Context, card domain.Card) (domain.Card, error)
	InsertBatchFunc      func(ctx context.Context, cards []domain.Card) ([]domain.Card, error)
	UpdateSchedulingFunc func(ctx context.Context, userID, cardID uuid.UUID, params domain.SchedulingUpdate) (domain.Card, error)
	SetArchivedFunc      func(ctx context.Context, userID, cardID uuid.UUID, archived bool) (domain.Card, error)

	mu                    sync.Mutex
	updateSchedulingCalls []domain.SchedulingUpdate
	insertBatchCalls      [][]domain.Card
}

func (m *cardRepoMock) GetByID(ctx context.Context, userID, cardID uuid.UUID) (domain.Card, error) {
	return m.GetByIDFunc(ctx, userID, cardID)
}

func (m *cardRepoMock) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Card, error) {
	return m.ListByUserFunc(ctx, userID)
}

func (m *cardRepoMock) Insert(ctx context.Context, card domain.Card) (domain.Card, error) {
	return m.InsertFunc(ctx, card)
}

func (m *cardRepoMock) InsertBatch(ctx context.Context, cards []domain.Card) ([]domain.Card, error) {
	m.mu.Lock()
	m.insertBatchCalls = append(m.insertBatchCalls, cards)
	m.mu.Unlock()
	return m.InsertBatchFunc(ctx, cards)
}

func (m *cardRepoMock) UpdateScheduling(ctx context.Context, userID, cardID uuid.UUID, params domain.SchedulingUpdate) (domain.Card, error) {
	m.mu.Lock()
	m.updateSchedulingCalls = append(m.updateSchedulingCalls, params)
	m.mu.Unlock()
	return m.UpdateSchedulingFunc(ctx, userID, cardID, params)
}

func (m *cardRepoMock) SetArchived(ctx context.Context, userID, cardID uuid.UUID, archived bool) (domain.Card, error) {
	return m.SetArchivedFunc(ctx, userID, cardID, archived)
}

func (m *cardRepoMock) UpdateSchedulingCalls() []domain.SchedulingUpdate {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateSchedulingCalls
}

func (m *cardRepoMock) InsertBatchCalls() [][]domain.Card {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertBatchCalls
}

type reviewLogRepoMock struct {
	CreateFunc      func(ctx context.Context, log *domain.ReviewLog) (*domain.ReviewLog, error)
	GetByCardIDFunc func(ctx context.Context, cardID uuid.UUID, limit, offset int) ([]*domain.ReviewLog, int, error)
	CountSinceFunc  func(ctx context.Context, userID uuid.UUID, since time.Time) (int, error)

	mu          sync.Mutex
	createCalls []*domain.ReviewLog
}

func (m *reviewLogRepoMock) Create(ctx context.Context, log *domain.ReviewLog) (*domain.ReviewLog, error) {
	m.mu.Lock()
	m.createCalls = append(m.createCalls, log)
	m.mu.Unlock()
	return m.CreateFunc(ctx, log)
}

func (m *reviewLogRepoMock) GetByCardID(ctx context.Context, cardID uuid.UUID, limit, offset int) ([]*domain.ReviewLog, int, error) {
	return m.GetByCardIDFunc(ctx, cardID, limit, offset)
}

func (m *reviewLogRepoMock) CountSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error) {
	return m.CountSinceFunc(ctx, userID, since)
}

func (m *reviewLogRepoMock) CreateCalls() []*domain.ReviewLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createCalls
}

// txManagerMock runs the callback directly, no transaction semantics.
type txManagerMock struct{}

func (txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fixedClock returns a settable time, for deterministic scheduling tests.
type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestService(t *testing.T, cards cardRepo, reviews reviewLogRepo, clk clock) *Service {
	t.Helper()
	svc := NewService(slog.Default(), cards, reviews, txManagerMock{})
	if clk != nil {
		svc.clock = clk
	}
	return svc
}

func ptr[T any](v T) *T { return &v }
