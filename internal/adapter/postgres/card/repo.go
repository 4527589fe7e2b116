// Package card implements the Card repository using PostgreSQL.
// Queries are built with squirrel; scanning is done by hand.
package card

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/fluentdeck/fluentdeck-backend/internal/adapter/postgres"
	"github.com/fluentdeck/fluentdeck-backend/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var cardColumns = []string{
	"id", "user_id", "front", "back", "hint", "example_sentence",
	"card_type", "category", "difficulty", "source_type", "source_id",
	"next_review_at", "interval_days", "ease_factor", "review_count",
	"last_reviewed_at", "archived", "created_at", "updated_at",
}

// Repo provides card persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new card repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetByID returns a card by primary key filtered by user_id.
func (r *Repo) GetByID(ctx context.Context, userID, cardID uuid.UUID) (domain.Card, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := psql.Select(cardColumns...).
		From("cards").
		Where(sq.Eq{"id": cardID, "user_id": userID}).
		ToSql()
	if err != nil {
		return domain.Card{}, fmt.Errorf("build get card query: %w", err)
	}

	card, err := scanCard(querier.QueryRow(ctx, query, args...))
	if err != nil {
		return domain.Card{}, postgres.MapError(err, "card", cardID)
	}
	return card, nil
}

// ListByUser returns all of a user's cards, archived included, ordered by
// creation time for deterministic iteration.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Card, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := psql.Select(cardColumns...).
		From("cards").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list cards query: %w", err)
	}

	rows, err := querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()

	cards := make([]domain.Card, 0)
	for rows.Next() {
		card, scanErr := scanCard(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan card: %w", scanErr)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cards: %w", err)
	}

	return cards, nil
}

// Insert stores a single card. A collision on the (user_id, source_type,
// source_id) dedup index surfaces as domain.ErrAlreadyExists with the
// existing card left untouched.
func (r *Repo) Insert(ctx context.Context, card domain.Card) (domain.Card, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := insertBuilder(card).
		Suffix("RETURNING " + columnList()).
		ToSql()
	if err != nil {
		return domain.Card{}, fmt.Errorf("build insert card query: %w", err)
	}

	created, err := scanCard(querier.QueryRow(ctx, query, args...))
	if err != nil {
		return domain.Card{}, postgres.MapError(err, "card", card.ID)
	}
	return created, nil
}

// InsertBatch stores multiple cards in input order. Intended to run inside
// a transaction so a dedup collision rolls the whole batch back.
func (r *Repo) InsertBatch(ctx context.Context, cards []domain.Card) ([]domain.Card, error) {
	if len(cards) == 0 {
		return []domain.Card{}, nil
	}

	created := make([]domain.Card, 0, len(cards))
	for _, card := range cards {
		c, err := r.Insert(ctx, card)
		if err != nil {
			return nil, err
		}
		created = append(created, c)
	}
	return created, nil
}

// UpdateScheduling writes the post-review scheduling state back to a card.
func (r *Repo) UpdateScheduling(ctx context.Context, userID, cardID uuid.UUID, params domain.SchedulingUpdate) (domain.Card, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := psql.Update("cards").
		Set("interval_days", params.IntervalDays).
		Set("ease_factor", params.EaseFactor).
		Set("review_count", params.ReviewCount).
		Set("next_review_at", params.NextReviewAt).
		Set("last_reviewed_at", params.LastReviewedAt).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": cardID, "user_id": userID}).
		Suffix("RETURNING " + columnList()).
		ToSql()
	if err != nil {
		return domain.Card{}, fmt.Errorf("build update scheduling query: %w", err)
	}

	card, err := scanCard(querier.QueryRow(ctx, query, args...))
	if err != nil {
		return domain.Card{}, postgres.MapError(err, "card", cardID)
	}
	return card, nil
}

// SetArchived flips a card's archived flag.
func (r *Repo) SetArchived(ctx context.Context, userID, cardID uuid.UUID, archived bool) (domain.Card, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := psql.Update("cards").
		Set("archived", archived).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": cardID, "user_id": userID}).
		Suffix("RETURNING " + columnList()).
		ToSql()
	if err != nil {
		return domain.Card{}, fmt.Errorf("build set archived query: %w", err)
	}

	card, err := scanCard(querier.QueryRow(ctx, query, args...))
	if err != nil {
		return domain.Card{}, postgres.MapError(err, "card", cardID)
	}
	return card, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func insertBuilder(card domain.Card) sq.InsertBuilder {
	var sourceID *string
	if card.Source.ID != "" {
		id := card.Source.ID
		sourceID = &id
	}

	return psql.Insert("cards").
		Columns(cardColumns...).
		Values(
			card.ID, card.UserID, card.Front, card.Back, card.Hint, card.ExampleSentence,
			card.Type, card.Category, card.Difficulty, card.Source.Type, sourceID,
			card.NextReviewAt, card.IntervalDays, card.EaseFactor, card.ReviewCount,
			card.LastReviewedAt, card.Archived, card.CreatedAt, card.UpdatedAt,
		)
}

func columnList() string {
	list := cardColumns[0]
	for _, c := range cardColumns[1:] {
		list += ", " + c
	}
	return list
}

func scanCard(row pgx.Row) (domain.Card, error) {
	var (
		c        domain.Card
		sourceID *string
	)

	err := row.Scan(
		&c.ID, &c.UserID, &c.Front, &c.Back, &c.Hint, &c.ExampleSentence,
		&c.Type, &c.Category, &c.Difficulty, &c.Source.Type, &sourceID,
		&c.NextReviewAt, &c.IntervalDays, &c.EaseFactor, &c.ReviewCount,
		&c.LastReviewedAt, &c.Archived, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return domain.Card{}, err
	}

	if sourceID != nil {
		c.Source.ID = *sourceID
	}
	return c, nil
}
