package study

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fluentdeck/fluentdeck-backend/internal/domain"
	"github.com/fluentdeck/fluentdeck-backend/internal/service/study/sm2"
)

// Confidence thresholds for deriving card difficulty from a vocabulary
// item's self-reported familiarity score.
const (
	beginnerMaxConfidence     = 50
	intermediateMaxConfidence = 80
)

// NewCardFromCorrection mints a grammar card from a correction event.
// The card fronts the incorrect sentence; the back shows the corrected text
// with the explanation appended when present.
func NewCardFromCorrection(userID uuid.UUID, corr domain.Correction, now time.Time) (domain.Card, error) {
	if err := corr.Validate(); err != nil {
		return domain.Card{}, err
	}

	back := corr.Corrected
	if corr.Explanation != "" {
		back = fmt.Sprintf("%s\n\n%s", corr.Corrected, corr.Explanation)
	}

	difficulty := corr.Difficulty
	if difficulty == "" {
		difficulty = domain.DifficultyIntermediate
	}

	card := newCard(userID, now)
	card.Front = fmt.Sprintf("Correct this sentence: %q", corr.Incorrect)
	card.Back = back
	card.Type = domain.CardTypeGrammar
	card.Category = corr.Category
	card.Difficulty = difficulty
	card.Source = corr.Ref()
	return card, nil
}

// NewCardFromVocabulary mints a translation card from a vocabulary item.
// The word itself is the source identifier, case-sensitive as stored.
func NewCardFromVocabulary(userID uuid.UUID, item domain.VocabularyItem, now time.Time) (domain.Card, error) {
	if err := item.Validate(); err != nil {
		return domain.Card{}, err
	}

	card := newCard(userID, now)
	card.Front = fmt.Sprintf("Translate: %q", item.Meaning)
	card.Back = item.Word
	card.Type = domain.CardTypeTranslation
	card.Category = "Vocabulary"
	card.Difficulty = DifficultyFromConfidence(item.Confidence)
	card.Source = item.Ref()
	return card, nil
}

// NewCustomCard mints a user-authored card. Custom cards carry no source
// reference and are always permitted, even when their content duplicates an
// existing card.
func NewCustomCard(userID uuid.UUID, input CreateCardInput, now time.Time) domain.Card {
	card := newCard(userID, now)
	card.Front = input.Front
	card.Back = input.Back
	card.Hint = input.Hint
	card.ExampleSentence = input.ExampleSentence
	card.Type = input.Type
	card.Category = input.Category
	card.Difficulty = input.Difficulty
	card.Source = domain.SourceRef{Type: domain.SourceTypeCustom}
	return card
}

// DifficultyFromConfidence derives a difficulty level from a 0–100
// vocabulary confidence score.
func DifficultyFromConfidence(confidence int) domain.Difficulty {
	switch {
	case confidence <= beginnerMaxConfidence:
		return domain.DifficultyBeginner
	case confidence <= intermediateMaxConfidence:
		return domain.DifficultyIntermediate
	default:
		return domain.DifficultyAdvanced
	}
}

// newCard returns a card with the default scheduling state: interval one
// day, maximum ease, no reviews yet, due tomorrow. New cards are never due
// on the day they are created.
func newCard(userID uuid.UUID, now time.Time) domain.Card {
	return domain.Card{
		ID:           uuid.New(),
		UserID:       userID,
		IntervalDays: sm2.FirstInterval,
		EaseFactor:   sm2.DefaultEaseFactor,
		ReviewCount:  0,
		NextReviewAt: now.AddDate(0, 0, 1),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
