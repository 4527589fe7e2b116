package study

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/fluentdeck/fluentdeck-backend/internal/domain"
	"github.com/fluentdeck/fluentdeck-backend/pkg/ctxutil"
)

var svcNow = time.Date(2026, 5, 5, 14, 0, 0, 0, time.UTC)

// ---------------------------------------------------------------------------
// ReviewCard
// ---------------------------------------------------------------------------

func TestService_ReviewCard_Success(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	cardID := uuid.New()
	stored := domain.Card{
		ID:           cardID,
		UserID:       userID,
		IntervalDays: 6,
		EaseFactor:   2.5,
		ReviewCount:  2,
		NextReviewAt: svcNow.AddDate(0, 0, -1),
	}

	cards := &cardRepoMock{
		GetByIDFunc: func(ctx context.Context, uid, cid uuid.UUID) (domain.Card, error) {
			if uid != userID || cid != cardID {
				t.Errorf("GetByID(%v, %v), want (%v, %v)", uid, cid, userID, cardID)
			}
			return stored, nil
		},
		UpdateSchedulingFunc: func(ctx context.Context, uid, cid uuid.UUID, params domain.SchedulingUpdate) (domain.Card, error) {
			updated := stored
			updated.IntervalDays = params.IntervalDays
			updated.EaseFactor = params.EaseFactor
			updated.ReviewCount = params.ReviewCount
			updated.NextReviewAt = params.NextReviewAt
			updated.LastReviewedAt = params.LastReviewedAt
			return updated, nil
		},
	}
	reviews := &reviewLogRepoMock{
		CreateFunc: func(ctx context.Context, log *domain.ReviewLog) (*domain.ReviewLog, error) {
			return log, nil
		},
	}

	svc := newTestService(t, cards, reviews, &fixedClock{now: svcNow})
	ctx := ctxutil.WithUserID(context.Background(), userID)

	updated, err := svc.ReviewCard(ctx, ReviewCardInput{CardID: cardID, Grade: domain.ReviewGradeGood})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Third success: round(6 * 2.5) = 15 days out.
	if updated.IntervalDays != 15 {
		t.Errorf("interval = %d, want 15", updated.IntervalDays)
	}
	if updated.ReviewCount != 3 {
		t.Errorf("reviewCount = %d, want 3", updated.ReviewCount)
	}
	if !updated.NextReviewAt.Equal(svcNow.AddDate(0, 0, 15)) {
		t.Errorf("nextReviewAt = %v, want %v", updated.NextReviewAt, svcNow.AddDate(0, 0, 15))
	}

	logs := reviews.CreateCalls()
	if len(logs) != 1 {
		t.Fatalf("review log writes: got %d, want 1", len(logs))
	}
	log := logs[0]
	if log.CardID != cardID || log.UserID != userID || log.Grade != domain.ReviewGradeGood {
		t.Errorf("log = %+v", log)
	}
	if log.PrevState == nil || log.PrevState.IntervalDays != 6 || log.PrevState.ReviewCount != 2 {
		t.Errorf("prev state = %+v, want pre-review snapshot", log.PrevState)
	}
}

func TestService_ReviewCard_UnknownGrade(t *testing.T) {
	t.Parallel()

	cards := &cardRepoMock{
		GetByIDFunc: func(ctx context.Context, uid, cid uuid.UUID) (domain.Card, error) {
			return domain.Card{ID: cid, UserID: uid, IntervalDays: 1, EaseFactor: 2.5}, nil
		},
	}
	reviews := &reviewLogRepoMock{}

	svc := newTestService(t, cards, reviews, &fixedClock{now: svcNow})
	ctx := ctxutil.WithUserID(context.Background(), uuid.New())

	_, err := svc.ReviewCard(ctx, ReviewCardInput{CardID: uuid.New(), Grade: "PERFECT"})
	if !errors.Is(err, domain.ErrUnknownGrade) {
		t.Errorf("got %v, want ErrUnknownGrade", err)
	}
	// Nothing persisted on a rejected grade.
	if len(cards.UpdateSchedulingCalls()) != 0 {
		t.Error("card updated despite unknown grade")
	}
	if len(reviews.CreateCalls()) != 0 {
		t.Error("review log written despite unknown grade")
	}
}

func TestService_ReviewCard_NotFound(t *testing.T) {
	t.Parallel()

	cards := &cardRepoMock{
		GetByIDFunc: func(ctx context.Context, uid, cid uuid.UUID) (domain.Card, error) {
			return domain.Card{}, domain.ErrNotFound
		},
	}

	svc := newTestService(t, cards, &reviewLogRepoMock{}, nil)
	ctx := ctxutil.WithUserID(context.Background(), uuid.New())

	_, err := svc.ReviewCard(ctx, ReviewCardInput{CardID: uuid.New(), Grade: domain.ReviewGradeGood})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestService_ReviewCard_NoUserID(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &cardRepoMock{}, &reviewLogRepoMock{}, nil)

	_, err := svc.ReviewCard(context.Background(), ReviewCardInput{CardID: uuid.New(), Grade: domain.ReviewGradeGood})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("got %v, want ErrUnauthorized", err)
	}
}

// ---------------------------------------------------------------------------
// IngestSources
// ---------------------------------------------------------------------------

func TestService_IngestSources_Success(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	cards := &cardRepoMock{
		ListByUserFunc: func(ctx context.Context, uid uuid.UUID) ([]domain.Card, error) {
			return []domain.Card{
				{Source: domain.SourceRef{Type: domain.SourceTypeVocabulary, ID: "hola"}},
			}, nil
		},
		InsertBatchFunc: func(ctx context.Context, batch []domain.Card) ([]domain.Card, error) {
			return batch, nil
		},
	}

	svc := newTestService(t, cards, &reviewLogRepoMock{}, &fixedClock{now: svcNow})
	ctx := ctxutil.WithUserID(context.Background(), userID)

	result, err := svc.IngestSources(ctx, IngestInput{
		Vocabulary: []domain.VocabularyItem{
			{Word: "hola", Meaning: "hello", Confidence: 90},
			{Word: "adiós", Meaning: "goodbye", Confidence: 20},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Created) != 1 {
		t.Errorf("created: got %d, want 1", len(result.Created))
	}
	if result.Skipped != 1 {
		t.Errorf("skipped: got %d, want 1", result.Skipped)
	}
	if len(cards.InsertBatchCalls()) != 1 {
		t.Errorf("insert batches: got %d, want 1", len(cards.InsertBatchCalls()))
	}
}

func TestService_IngestSources_AllDuplicatesSkipsWrite(t *testing.T) {
	t.Parallel()

	cards := &cardRepoMock{
		ListByUserFunc: func(ctx context.Context, uid uuid.UUID) ([]domain.Card, error) {
			return []domain.Card{
				{Source: domain.SourceRef{Type: domain.SourceTypeCorrection, ID: "c1"}},
			}, nil
		},
	}

	svc := newTestService(t, cards, &reviewLogRepoMock{}, &fixedClock{now: svcNow})
	ctx := ctxutil.WithUserID(context.Background(), uuid.New())

	result, err := svc.IngestSources(ctx, IngestInput{
		Corrections: []domain.Correction{{ID: "c1", Incorrect: "a", Corrected: "b"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Skipped != 1 || len(result.Created) != 0 {
		t.Errorf("result = %+v, want 1 skipped, 0 created", result)
	}
	// No cards to insert: the batch write never happens.
	if len(cards.InsertBatchCalls()) != 0 {
		t.Error("InsertBatch called for an empty generation result")
	}
}

func TestService_IngestSources_EmptyBatch(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &cardRepoMock{}, &reviewLogRepoMock{}, nil)
	ctx := ctxutil.WithUserID(context.Background(), uuid.New())

	_, err := svc.IngestSources(ctx, IngestInput{})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("got %v, want ErrValidation", err)
	}
}

// ---------------------------------------------------------------------------
// GetReviewQueue
// ---------------------------------------------------------------------------

func TestService_GetReviewQueue(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	cards := &cardRepoMock{
		ListByUserFunc: func(ctx context.Context, uid uuid.UUID) ([]domain.Card, error) {
			return []domain.Card{
				{ID: uuid.New(), NextReviewAt: svcNow.AddDate(0, 0, -2)},
				{ID: uuid.New(), NextReviewAt: svcNow.AddDate(0, 0, 3)},
				{ID: uuid.New(), NextReviewAt: svcNow.AddDate(0, 0, -1), Archived: true},
			}, nil
		},
	}

	svc := newTestService(t, cards, &reviewLogRepoMock{}, &fixedClock{now: svcNow})
	ctx := ctxutil.WithUserID(context.Background(), userID)

	queue, err := svc.GetReviewQueue(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(queue) != 1 {
		t.Errorf("queue length: got %d, want 1", len(queue))
	}
}

// ---------------------------------------------------------------------------
// GetDashboard
// ---------------------------------------------------------------------------

func TestService_GetDashboard(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	cards := &cardRepoMock{
		ListByUserFunc: func(ctx context.Context, uid uuid.UUID) ([]domain.Card, error) {
			return []domain.Card{
				// Mastered: 5+ reviews at max ease.
				{ReviewCount: 6, EaseFactor: 2.5, NextReviewAt: svcNow.AddDate(0, 0, 10)},
				// Learning and due.
				{ReviewCount: 2, EaseFactor: 2.3, NextReviewAt: svcNow.AddDate(0, 0, -1)},
				// Struggling and learning.
				{ReviewCount: 3, EaseFactor: 1.5, NextReviewAt: svcNow.AddDate(0, 0, 2)},
				// Archived: excluded from everything else.
				{ReviewCount: 9, EaseFactor: 2.5, NextReviewAt: svcNow.AddDate(0, 0, -5), Archived: true},
			}, nil
		},
	}
	reviews := &reviewLogRepoMock{
		CountSinceFunc: func(ctx context.Context, uid uuid.UUID, since time.Time) (int, error) {
			if !since.Equal(domain.DayUTC(svcNow)) {
				t.Errorf("since = %v, want UTC midnight %v", since, domain.DayUTC(svcNow))
			}
			return 4, nil
		},
	}

	svc := newTestService(t, cards, reviews, &fixedClock{now: svcNow})
	ctx := ctxutil.WithUserID(context.Background(), userID)

	d, err := svc.GetDashboard(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := domain.CollectionStats{
		TotalActive: 3,
		DueToday:    1,
		Mastered:    1,
		Learning:    2,
		Struggling:  1,
		Archived:    1,
	}
	if d.Stats != want {
		t.Errorf("stats = %+v, want %+v", d.Stats, want)
	}
	if d.ReviewedToday != 4 {
		t.Errorf("reviewedToday = %d, want 4", d.ReviewedToday)
	}
}

func TestComputeStats_OverlappingCategories(t *testing.T) {
	t.Parallel()

	// A card can be learning and struggling at once; the counters overlap by
	// construction.
	cards := []domain.Card{
		{ReviewCount: 1, EaseFactor: 1.4, NextReviewAt: svcNow.AddDate(0, 0, 5)},
	}

	stats := ComputeStats(cards, svcNow)
	if stats.Learning != 1 || stats.Struggling != 1 {
		t.Errorf("stats = %+v, want learning=1 struggling=1", stats)
	}
}

func TestComputeStats_Empty(t *testing.T) {
	t.Parallel()

	if stats := ComputeStats(nil, svcNow); stats != (domain.CollectionStats{}) {
		t.Errorf("stats = %+v, want zero value", stats)
	}
}

// ---------------------------------------------------------------------------
// Card CRUD
// ---------------------------------------------------------------------------

func TestService_CreateCustomCard(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	cards := &cardRepoMock{
		InsertFunc: func(ctx context.Context, card domain.Card) (domain.Card, error) {
			return card, nil
		},
	}

	svc := newTestService(t, cards, &reviewLogRepoMock{}, &fixedClock{now: svcNow})
	ctx := ctxutil.WithUserID(context.Background(), userID)

	card, err := svc.CreateCustomCard(ctx, CreateCardInput{
		Front:      "___ tarde (greeting)",
		Back:       "Buenas",
		Type:       domain.CardTypeFillBlank,
		Difficulty: domain.DifficultyBeginner,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if card.UserID != userID {
		t.Errorf("userID = %v, want %v", card.UserID, userID)
	}
	if card.Source.Type != domain.SourceTypeCustom {
		t.Errorf("source type = %q, want CUSTOM", card.Source.Type)
	}
}

func TestService_CreateCustomCard_Invalid(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, &cardRepoMock{}, &reviewLogRepoMock{}, nil)
	ctx := ctxutil.WithUserID(context.Background(), uuid.New())

	_, err := svc.CreateCustomCard(ctx, CreateCardInput{Front: "f"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("got %v, want ErrValidation", err)
	}
}

func TestService_ArchiveCard(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	cardID := uuid.New()
	cards := &cardRepoMock{
		SetArchivedFunc: func(ctx context.Context, uid, cid uuid.UUID, archived bool) (domain.Card, error) {
			if !archived {
				t.Error("archived = false, want true")
			}
			return domain.Card{ID: cid, UserID: uid, Archived: archived}, nil
		},
	}

	svc := newTestService(t, cards, &reviewLogRepoMock{}, nil)
	ctx := ctxutil.WithUserID(context.Background(), userID)

	card, err := svc.ArchiveCard(ctx, CardIDInput{CardID: cardID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !card.Archived {
		t.Error("card not archived")
	}
}

func TestService_GetCardHistory_OwnershipChecked(t *testing.T) {
	t.Parallel()

	cards := &cardRepoMock{
		GetByIDFunc: func(ctx context.Context, uid, cid uuid.UUID) (domain.Card, error) {
			return domain.Card{}, domain.ErrNotFound
		},
	}
	reviews := &reviewLogRepoMock{
		GetByCardIDFunc: func(ctx context.Context, cid uuid.UUID, limit, offset int) ([]*domain.ReviewLog, int, error) {
			t.Error("review log read despite failed ownership check")
			return nil, 0, nil
		},
	}

	svc := newTestService(t, cards, reviews, nil)
	ctx := ctxutil.WithUserID(context.Background(), uuid.New())

	_, _, err := svc.GetCardHistory(ctx, GetCardHistoryInput{CardID: uuid.New()})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestService_GetCardHistory_DefaultLimit(t *testing.T) {
	t.Parallel()

	cards := &cardRepoMock{
		GetByIDFunc: func(ctx context.Context, uid, cid uuid.UUID) (domain.Card, error) {
			return domain.Card{ID: cid, UserID: uid}, nil
		},
	}
	reviews := &reviewLogRepoMock{
		GetByCardIDFunc: func(ctx context.Context, cid uuid.UUID, limit, offset int) ([]*domain.ReviewLog, int, error) {
			if limit != 50 {
				t.Errorf("limit = %d, want default 50", limit)
			}
			return nil, 0, nil
		},
	}

	svc := newTestService(t, cards, reviews, nil)
	ctx := ctxutil.WithUserID(context.Background(), uuid.New())

	if _, _, err := svc.GetCardHistory(ctx, GetCardHistoryInput{CardID: uuid.New()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
