package domain

// CardType represents the kind of exercise a card presents.
type CardType string

const (
	CardTypeTranslation CardType = "TRANSLATION"
	CardTypeConjugation CardType = "CONJUGATION"
	CardTypeGrammar     CardType = "GRAMMAR"
	CardTypeFillBlank   CardType = "FILL_BLANK"
)

func (t CardType) String() string { return string(t) }

func (t CardType) IsValid() bool {
	switch t {
	case CardTypeTranslation, CardTypeConjugation, CardTypeGrammar, CardTypeFillBlank:
		return true
	}
	return false
}

// Difficulty is the ordered difficulty level of a card.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "BEGINNER"
	DifficultyIntermediate Difficulty = "INTERMEDIATE"
	DifficultyAdvanced     Difficulty = "ADVANCED"
)

func (d Difficulty) String() string { return string(d) }

func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// SourceType identifies the kind of upstream record a card was minted from.
type SourceType string

const (
	SourceTypeCorrection SourceType = "CORRECTION"
	SourceTypeVocabulary SourceType = "VOCABULARY"
	SourceTypeLesson     SourceType = "LESSON"
	SourceTypeCustom     SourceType = "CUSTOM"
)

func (s SourceType) String() string { return string(s) }

func (s SourceType) IsValid() bool {
	switch s {
	case SourceTypeCorrection, SourceTypeVocabulary, SourceTypeLesson, SourceTypeCustom:
		return true
	}
	return false
}

// ReviewGrade represents the user's self-assessed recall quality.
type ReviewGrade string

const (
	ReviewGradeAgain ReviewGrade = "AGAIN"
	ReviewGradeHard  ReviewGrade = "HARD"
	ReviewGradeGood  ReviewGrade = "GOOD"
	ReviewGradeEasy  ReviewGrade = "EASY"
)

func (g ReviewGrade) String() string { return string(g) }

func (g ReviewGrade) IsValid() bool {
	switch g {
	case ReviewGradeAgain, ReviewGradeHard, ReviewGradeGood, ReviewGradeEasy:
		return true
	}
	return false
}
