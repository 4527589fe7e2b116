package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/fluentdeck/fluentdeck-backend/internal/domain"
	"github.com/fluentdeck/fluentdeck-backend/internal/service/study"
)

// studyService defines the study operations the handler needs.
type studyService interface {
	IngestSources(ctx context.Context, input study.IngestInput) (study.IngestResult, error)
	GetReviewQueue(ctx context.Context) ([]domain.Card, error)
	ReviewCard(ctx context.Context, input study.ReviewCardInput) (domain.Card, error)
	CreateCustomCard(ctx context.Context, input study.CreateCardInput) (domain.Card, error)
	ArchiveCard(ctx context.Context, input study.CardIDInput) (domain.Card, error)
	UnarchiveCard(ctx context.Context, input study.CardIDInput) (domain.Card, error)
	GetCard(ctx context.Context, input study.CardIDInput) (domain.Card, error)
	GetCardHistory(ctx context.Context, input study.GetCardHistoryInput) ([]*domain.ReviewLog, int, error)
	GetDashboard(ctx context.Context) (domain.Dashboard, error)
}

// StudyHandler serves the study API.
type StudyHandler struct {
	svc studyService
}

// NewStudyHandler creates a StudyHandler.
func NewStudyHandler(svc studyService) *StudyHandler {
	return &StudyHandler{svc: svc}
}

// ---------------------------------------------------------------------------
// Wire types
// ---------------------------------------------------------------------------

type correctionRequest struct {
	ID          string    `json:"id"`
	Incorrect   string    `json:"incorrect"`
	Corrected   string    `json:"corrected"`
	Explanation string    `json:"explanation,omitempty"`
	Category    string    `json:"category,omitempty"`
	Difficulty  string    `json:"difficulty,omitempty"`
	Timestamp   time.Time `json:"timestamp,omitempty"`
}

type vocabularyRequest struct {
	Word          string     `json:"word"`
	Meaning       string     `json:"meaning"`
	Confidence    int        `json:"confidence"`
	LastPracticed *time.Time `json:"lastPracticed,omitempty"`
	Source        string     `json:"source,omitempty"`
}

type ingestRequest struct {
	Corrections []correctionRequest `json:"corrections,omitempty"`
	Vocabulary  []vocabularyRequest `json:"vocabulary,omitempty"`
}

type ingestResponse struct {
	Created  []cardResponse  `json:"created"`
	Skipped  int             `json:"skipped"`
	Rejected []rejectedEntry `json:"rejected,omitempty"`
}

type rejectedEntry struct {
	SourceType string `json:"sourceType"`
	SourceID   string `json:"sourceId"`
	Reason     string `json:"reason"`
}

type reviewRequest struct {
	Grade string `json:"grade"`
}

type createCardRequest struct {
	Front           string  `json:"front"`
	Back            string  `json:"back"`
	Type            string  `json:"type"`
	Category        string  `json:"category,omitempty"`
	Difficulty      string  `json:"difficulty"`
	Hint            *string `json:"hint,omitempty"`
	ExampleSentence *string `json:"exampleSentence,omitempty"`
}

type cardResponse struct {
	ID              string     `json:"id"`
	Front           string     `json:"front"`
	Back            string     `json:"back"`
	Hint            *string    `json:"hint,omitempty"`
	ExampleSentence *string    `json:"exampleSentence,omitempty"`
	Type            string     `json:"type"`
	Category        string     `json:"category"`
	Difficulty      string     `json:"difficulty"`
	SourceType      string     `json:"sourceType"`
	SourceID        string     `json:"sourceId,omitempty"`
	NextReviewAt    time.Time  `json:"nextReviewAt"`
	IntervalDays    int        `json:"intervalDays"`
	EaseFactor      float64    `json:"easeFactor"`
	ReviewCount     int        `json:"reviewCount"`
	LastReviewedAt  *time.Time `json:"lastReviewedAt,omitempty"`
	Archived        bool       `json:"archived"`
	CreatedAt       time.Time  `json:"createdAt"`
}

type reviewLogResponse struct {
	ID         string    `json:"id"`
	CardID     string    `json:"cardId"`
	Grade      string    `json:"grade"`
	ReviewedAt time.Time `json:"reviewedAt"`
}

type historyResponse struct {
	Logs  []reviewLogResponse `json:"logs"`
	Total int                 `json:"total"`
}

type dashboardResponse struct {
	TotalActive   int `json:"totalActive"`
	DueToday      int `json:"dueToday"`
	Mastered      int `json:"mastered"`
	Learning      int `json:"learning"`
	Struggling    int `json:"struggling"`
	Archived      int `json:"archived"`
	ReviewedToday int `json:"reviewedToday"`
}

func toCardResponse(c domain.Card) cardResponse {
	return cardResponse{
		ID:              c.ID.String(),
		Front:           c.Front,
		Back:            c.Back,
		Hint:            c.Hint,
		ExampleSentence: c.ExampleSentence,
		Type:            string(c.Type),
		Category:        c.Category,
		Difficulty:      string(c.Difficulty),
		SourceType:      string(c.Source.Type),
		SourceID:        c.Source.ID,
		NextReviewAt:    c.NextReviewAt,
		IntervalDays:    c.IntervalDays,
		EaseFactor:      c.EaseFactor,
		ReviewCount:     c.ReviewCount,
		LastReviewedAt:  c.LastReviewedAt,
		Archived:        c.Archived,
		CreatedAt:       c.CreatedAt,
	}
}

func toCardResponses(cards []domain.Card) []cardResponse {
	out := make([]cardResponse, 0, len(cards))
	for _, c := range cards {
		out = append(out, toCardResponse(c))
	}
	return out
}

// ---------------------------------------------------------------------------
// Handlers
// ---------------------------------------------------------------------------

// Ingest handles POST /api/ingest.
func (h *StudyHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("body", "invalid JSON"))
		return
	}

	input := study.IngestInput{}
	for _, c := range req.Corrections {
		input.Corrections = append(input.Corrections, domain.Correction{
			ID:          c.ID,
			Incorrect:   c.Incorrect,
			Corrected:   c.Corrected,
			Explanation: c.Explanation,
			Category:    c.Category,
			Difficulty:  domain.Difficulty(c.Difficulty),
			CreatedAt:   c.Timestamp,
		})
	}
	for _, v := range req.Vocabulary {
		input.Vocabulary = append(input.Vocabulary, domain.VocabularyItem{
			Word:            v.Word,
			Meaning:         v.Meaning,
			Confidence:      v.Confidence,
			LastPracticedAt: v.LastPracticed,
			Source:          v.Source,
		})
	}

	result, err := h.svc.IngestSources(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := ingestResponse{
		Created: toCardResponses(result.Created),
		Skipped: result.Skipped,
	}
	for _, e := range result.Errors {
		resp.Rejected = append(resp.Rejected, rejectedEntry{
			SourceType: string(e.Ref.Type),
			SourceID:   e.Ref.ID,
			Reason:     e.Err.Error(),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// Queue handles GET /api/queue.
func (h *StudyHandler) Queue(w http.ResponseWriter, r *http.Request) {
	queue, err := h.svc.GetReviewQueue(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCardResponses(queue))
}

// CreateCard handles POST /api/cards.
func (h *StudyHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var req createCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("body", "invalid JSON"))
		return
	}

	card, err := h.svc.CreateCustomCard(r.Context(), study.CreateCardInput{
		Front:           req.Front,
		Back:            req.Back,
		Type:            domain.CardType(req.Type),
		Category:        req.Category,
		Difficulty:      domain.Difficulty(req.Difficulty),
		Hint:            req.Hint,
		ExampleSentence: req.ExampleSentence,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCardResponse(card))
}

// GetCard handles GET /api/cards/{id}.
func (h *StudyHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	cardID, err := parseCardID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	card, err := h.svc.GetCard(r.Context(), study.CardIDInput{CardID: cardID})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCardResponse(card))
}

// Review handles POST /api/cards/{id}/review.
func (h *StudyHandler) Review(w http.ResponseWriter, r *http.Request) {
	cardID, err := parseCardID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.NewValidationError("body", "invalid JSON"))
		return
	}

	card, err := h.svc.ReviewCard(r.Context(), study.ReviewCardInput{
		CardID: cardID,
		Grade:  domain.ReviewGrade(req.Grade),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCardResponse(card))
}

// Archive handles POST /api/cards/{id}/archive.
func (h *StudyHandler) Archive(w http.ResponseWriter, r *http.Request) {
	h.setArchived(w, r, true)
}

// Unarchive handles DELETE /api/cards/{id}/archive.
func (h *StudyHandler) Unarchive(w http.ResponseWriter, r *http.Request) {
	h.setArchived(w, r, false)
}

func (h *StudyHandler) setArchived(w http.ResponseWriter, r *http.Request, archived bool) {
	cardID, err := parseCardID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	input := study.CardIDInput{CardID: cardID}
	var card domain.Card
	if archived {
		card, err = h.svc.ArchiveCard(r.Context(), input)
	} else {
		card, err = h.svc.UnarchiveCard(r.Context(), input)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCardResponse(card))
}

// History handles GET /api/cards/{id}/history.
func (h *StudyHandler) History(w http.ResponseWriter, r *http.Request) {
	cardID, err := parseCardID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	logs, total, err := h.svc.GetCardHistory(r.Context(), study.GetCardHistoryInput{CardID: cardID})
	if err != nil {
		writeError(w, err)
		return
	}

	resp := historyResponse{Total: total, Logs: make([]reviewLogResponse, 0, len(logs))}
	for _, l := range logs {
		resp.Logs = append(resp.Logs, reviewLogResponse{
			ID:         l.ID.String(),
			CardID:     l.CardID.String(),
			Grade:      string(l.Grade),
			ReviewedAt: l.ReviewedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// Dashboard handles GET /api/dashboard.
func (h *StudyHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.GetDashboard(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboardResponse{
		TotalActive:   d.Stats.TotalActive,
		DueToday:      d.Stats.DueToday,
		Mastered:      d.Stats.Mastered,
		Learning:      d.Stats.Learning,
		Struggling:    d.Stats.Struggling,
		Archived:      d.Stats.Archived,
		ReviewedToday: d.ReviewedToday,
	})
}

func parseCardID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, domain.NewValidationError("id", "must be a UUID")
	}
	return id, nil
}
