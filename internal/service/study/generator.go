package study

import (
	"time"

	"github.com/google/uuid"

	"github.com/fluentdeck/fluentdeck-backend/internal/domain"
)

// SourceBatch is a batch of newly arrived upstream events to generate cards
// from. The caller owns growth of the source lists and is expected to pass
// only new records, but re-running with already-processed records is safe.
type SourceBatch struct {
	Corrections []domain.Correction
	Vocabulary  []domain.VocabularyItem
}

// SourceError reports a single rejected source record. One bad record never
// aborts the rest of the batch.
type SourceError struct {
	Ref domain.SourceRef
	Err error
}

// GenerationResult holds the outcome of a generator run.
type GenerationResult struct {
	Cards   []domain.Card
	Skipped int
	Errors  []SourceError
}

// GenerateMissingCards emits cards for the source records in batch that do
// not already have one, consulting existing for (sourceType, sourceId) keys.
// Output order is deterministic: correction cards first, then vocabulary
// cards, each in input order.
//
// Pure batch transform: no I/O, no mutation of inputs. Running it twice with
// the same batch, the second time with the first run's output inserted into
// existing, yields nothing the second time.
func GenerateMissingCards(userID uuid.UUID, batch SourceBatch, existing []domain.Card, now time.Time) GenerationResult {
	seen := make(map[domain.SourceRef]struct{}, len(existing))
	for _, c := range existing {
		if c.Source.HasDedupKey() {
			seen[c.Source] = struct{}{}
		}
	}

	var result GenerationResult

	for _, corr := range batch.Corrections {
		ref := corr.Ref()
		if _, ok := seen[ref]; ok {
			result.Skipped++
			continue
		}
		card, err := NewCardFromCorrection(userID, corr, now)
		if err != nil {
			result.Errors = append(result.Errors, SourceError{Ref: ref, Err: err})
			continue
		}
		seen[ref] = struct{}{}
		result.Cards = append(result.Cards, card)
	}

	for _, item := range batch.Vocabulary {
		ref := item.Ref()
		if _, ok := seen[ref]; ok {
			result.Skipped++
			continue
		}
		card, err := NewCardFromVocabulary(userID, item, now)
		if err != nil {
			result.Errors = append(result.Errors, SourceError{Ref: ref, Err: err})
			continue
		}
		seen[ref] = struct{}{}
		result.Cards = append(result.Cards, card)
	}

	return result
}
