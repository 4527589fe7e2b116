// Package reviewlog implements the ReviewLog repository using PostgreSQL.
// The pre-review scheduling snapshot is stored as a JSONB column.
package reviewlog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/fluentdeck/fluentdeck-backend/internal/adapter/postgres"
	"github.com/fluentdeck/fluentdeck-backend/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides review log persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new review log repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// schedulingSnapshotJSON is the storage shape of domain.SchedulingSnapshot.
type schedulingSnapshotJSON struct {
	IntervalDays   int        `json:"interval_days"`
	EaseFactor     float64    `json:"ease_factor"`
	ReviewCount    int        `json:"review_count"`
	NextReviewAt   time.Time  `json:"next_review_at"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
}

// Create stores a review log entry.
func (r *Repo) Create(ctx context.Context, log *domain.ReviewLog) (*domain.ReviewLog, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var prevState []byte
	if log.PrevState != nil {
		var err error
		prevState, err = json.Marshal(schedulingSnapshotJSON(*log.PrevState))
		if err != nil {
			return nil, fmt.Errorf("marshal prev state: %w", err)
		}
	}

	query, args, err := psql.Insert("review_logs").
		Columns("id", "card_id", "user_id", "grade", "prev_state", "reviewed_at").
		Values(log.ID, log.CardID, log.UserID, log.Grade, prevState, log.ReviewedAt).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert review log query: %w", err)
	}

	if _, err := querier.Exec(ctx, query, args...); err != nil {
		return nil, postgres.MapError(err, "review_log", log.ID)
	}

	return log, nil
}

// GetByCardID returns review logs for a card, most recent first, with
// limit/offset pagination. Returns logs, total count, and error.
func (r *Repo) GetByCardID(ctx context.Context, cardID uuid.UUID, limit, offset int) ([]*domain.ReviewLog, int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var total int
	countQuery, countArgs, err := psql.Select("count(*)").
		From("review_logs").
		Where(sq.Eq{"card_id": cardID}).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}
	if err := querier.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count review logs: %w", err)
	}

	builder := psql.Select("id", "card_id", "user_id", "grade", "prev_state", "reviewed_at").
		From("review_logs").
		Where(sq.Eq{"card_id": cardID}).
		OrderBy("reviewed_at DESC").
		Offset(uint64(offset))
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list query: %w", err)
	}

	rows, err := querier.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list review logs: %w", err)
	}
	defer rows.Close()

	logs := make([]*domain.ReviewLog, 0)
	for rows.Next() {
		var (
			log       domain.ReviewLog
			prevState []byte
		)
		if err := rows.Scan(&log.ID, &log.CardID, &log.UserID, &log.Grade, &prevState, &log.ReviewedAt); err != nil {
			return nil, 0, fmt.Errorf("scan review log: %w", err)
		}
		if len(prevState) > 0 {
			var snap schedulingSnapshotJSON
			if err := json.Unmarshal(prevState, &snap); err != nil {
				return nil, 0, fmt.Errorf("unmarshal prev state: %w", err)
			}
			s := domain.SchedulingSnapshot(snap)
			log.PrevState = &s
		}
		logs = append(logs, &log)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate review logs: %w", err)
	}

	return logs, total, nil
}

// CountSince returns the number of a user's reviews recorded at or after
// the given instant (typically a UTC day start).
func (r *Repo) CountSince(ctx context.Context, userID uuid.UUID, since time.Time) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	query, args, err := psql.Select("count(*)").
		From("review_logs").
		Where(sq.Eq{"user_id": userID}).
		Where(sq.GtOrEq{"reviewed_at": since}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count since query: %w", err)
	}

	var count int
	if err := querier.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count reviews since %s: %w", since, err)
	}
	return count, nil
}
