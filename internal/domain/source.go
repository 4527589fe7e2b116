package domain

import "time"

// Correction is an upstream grammar-correction event. The chat subsystem
// produces these; the card generator turns them into grammar cards.
type Correction struct {
	ID          string
	Incorrect   string
	Corrected   string
	Explanation string
	Category    string
	Difficulty  Difficulty
	CreatedAt   time.Time
}

// Ref returns the deduplication reference for the correction.
func (c Correction) Ref() SourceRef {
	return SourceRef{Type: SourceTypeCorrection, ID: c.ID}
}

// Validate checks the fields required to mint a card from the correction.
func (c Correction) Validate() error {
	var errs []FieldError

	if c.ID == "" {
		errs = append(errs, FieldError{Field: "id", Message: "required"})
	}
	if c.Incorrect == "" {
		errs = append(errs, FieldError{Field: "incorrect", Message: "required"})
	}
	if c.Corrected == "" {
		errs = append(errs, FieldError{Field: "corrected", Message: "required"})
	}
	if c.Difficulty != "" && !c.Difficulty.IsValid() {
		errs = append(errs, FieldError{Field: "difficulty", Message: "must be BEGINNER, INTERMEDIATE, or ADVANCED"})
	}

	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}

// VocabularyItem is an upstream vocabulary-lookup event. The word itself is
// the stable identifier (case-sensitive, as stored by the vocabulary list).
type VocabularyItem struct {
	Word            string
	Meaning         string
	Confidence      int // 0–100 self-reported familiarity
	LastPracticedAt *time.Time
	Source          string
}

// Ref returns the deduplication reference for the vocabulary item.
func (v VocabularyItem) Ref() SourceRef {
	return SourceRef{Type: SourceTypeVocabulary, ID: v.Word}
}

// Validate checks the fields required to mint a card from the item.
func (v VocabularyItem) Validate() error {
	var errs []FieldError

	if v.Word == "" {
		errs = append(errs, FieldError{Field: "word", Message: "required"})
	}
	if v.Meaning == "" {
		errs = append(errs, FieldError{Field: "meaning", Message: "required"})
	}
	if v.Confidence < 0 || v.Confidence > 100 {
		errs = append(errs, FieldError{Field: "confidence", Message: "must be between 0 and 100"})
	}

	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}
