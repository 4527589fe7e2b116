package study

import (
	"github.com/google/uuid"

	"github.com/fluentdeck/fluentdeck-backend/internal/domain"
)

// Batch size caps for a single ingestion call.
const maxIngestBatch = 500

// ReviewCardInput holds the parameters for reviewing a card.
// The grade itself is validated by the scheduler, which rejects unknown
// grades with domain.ErrUnknownGrade.
type ReviewCardInput struct {
	CardID uuid.UUID
	Grade  domain.ReviewGrade
}

// Validate checks all fields and collects all errors.
func (i *ReviewCardInput) Validate() error {
	var errs []domain.FieldError

	if i.CardID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "card_id", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// CardIDInput holds a bare card identifier.
type CardIDInput struct {
	CardID uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i *CardIDInput) Validate() error {
	var errs []domain.FieldError

	if i.CardID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "card_id", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// CreateCardInput holds the parameters for creating a custom card.
type CreateCardInput struct {
	Front           string
	Back            string
	Type            domain.CardType
	Category        string
	Difficulty      domain.Difficulty
	Hint            *string
	ExampleSentence *string
}

// Validate checks all fields and collects all errors.
func (i *CreateCardInput) Validate() error {
	var errs []domain.FieldError

	if i.Front == "" {
		errs = append(errs, domain.FieldError{Field: "front", Message: "required"})
	}
	if i.Back == "" {
		errs = append(errs, domain.FieldError{Field: "back", Message: "required"})
	}
	if !i.Type.IsValid() {
		errs = append(errs, domain.FieldError{Field: "type", Message: "must be TRANSLATION, CONJUGATION, GRAMMAR, or FILL_BLANK"})
	}
	if !i.Difficulty.IsValid() {
		errs = append(errs, domain.FieldError{Field: "difficulty", Message: "must be BEGINNER, INTERMEDIATE, or ADVANCED"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// IngestInput holds a batch of upstream source events.
type IngestInput struct {
	Corrections []domain.Correction
	Vocabulary  []domain.VocabularyItem
}

// Validate checks batch-level constraints. Per-record validation happens in
// the generator so one bad record never rejects the batch.
func (i *IngestInput) Validate() error {
	var errs []domain.FieldError

	if len(i.Corrections) == 0 && len(i.Vocabulary) == 0 {
		errs = append(errs, domain.FieldError{Field: "batch", Message: "at least one source record required"})
	}
	if len(i.Corrections) > maxIngestBatch {
		errs = append(errs, domain.FieldError{Field: "corrections", Message: "too many (max 500)"})
	}
	if len(i.Vocabulary) > maxIngestBatch {
		errs = append(errs, domain.FieldError{Field: "vocabulary", Message: "too many (max 500)"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// GetCardHistoryInput holds the parameters for fetching card review history.
type GetCardHistoryInput struct {
	CardID uuid.UUID
	Limit  int
	Offset int
}

// Validate checks all fields and collects all errors.
func (i *GetCardHistoryInput) Validate() error {
	var errs []domain.FieldError

	if i.CardID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "card_id", Message: "required"})
	}
	if i.Limit < 0 || i.Limit > 200 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be between 0 and 200"})
	}
	if i.Offset < 0 {
		errs = append(errs, domain.FieldError{Field: "offset", Message: "must be >= 0"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
