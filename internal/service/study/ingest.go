package study

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fluentdeck/fluentdeck-backend/internal/domain"
	"github.com/fluentdeck/fluentdeck-backend/pkg/ctxutil"
)

// IngestResult holds the outcome of an ingestion run.
type IngestResult struct {
	Created []domain.Card
	Skipped int
	Errors  []SourceError
}

// IngestSources runs the deduplicating generator over a batch of upstream
// events and persists the resulting cards. Sources that already have a card
// are skipped; malformed records are reported per-item without aborting the
// batch. Re-running the same batch is a no-op.
func (s *Service) IngestSources(ctx context.Context, input IngestInput) (IngestResult, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return IngestResult{}, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return IngestResult{}, err
	}

	existing, err := s.cards.ListByUser(ctx, userID)
	if err != nil {
		return IngestResult{}, fmt.Errorf("list cards: %w", err)
	}

	gen := GenerateMissingCards(userID, SourceBatch{
		Corrections: input.Corrections,
		Vocabulary:  input.Vocabulary,
	}, existing, s.clock.Now())

	result := IngestResult{Skipped: gen.Skipped, Errors: gen.Errors}

	if len(gen.Cards) > 0 {
		err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
			created, insErr := s.cards.InsertBatch(txCtx, gen.Cards)
			if insErr != nil {
				return fmt.Errorf("insert cards: %w", insErr)
			}
			result.Created = created
			return nil
		})
		if err != nil {
			return IngestResult{}, err
		}
	}

	s.log.InfoContext(ctx, "sources ingested",
		slog.String("user_id", userID.String()),
		slog.Int("created", len(result.Created)),
		slog.Int("skipped", result.Skipped),
		slog.Int("rejected", len(result.Errors)),
	)

	return result, nil
}
