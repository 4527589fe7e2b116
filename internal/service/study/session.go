package study

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/fluentdeck/fluentdeck-backend/internal/domain"
	"github.com/fluentdeck/fluentdeck-backend/pkg/ctxutil"
)

// SessionState is the coordinator's lifecycle state.
type SessionState string

const (
	SessionNotStarted SessionState = "NOT_STARTED"
	SessionInProgress SessionState = "IN_PROGRESS"
	SessionComplete   SessionState = "COMPLETE"
)

// CardPhase is the per-card sub-phase while a session is in progress.
type CardPhase string

const (
	PhaseFrontShown CardPhase = "FRONT_SHOWN"
	PhaseBackShown  CardPhase = "BACK_SHOWN"
)

// ReviewSession drives an interactive review loop over a due set frozen at
// session start. Cards rescheduled mid-session never re-enter the current
// session, even if their new due date lands on today.
//
// A session is not safe for concurrent use; the caller serializes Rate calls.
// The store write for one rating is persisted before the next rating is
// accepted.
type ReviewSession struct {
	svc      *Service
	userID   uuid.UUID
	queue    []domain.Card
	pos      int
	phase    CardPhase
	state    SessionState
	reviewed int
}

// StartSession computes the due set and returns a session over it.
// An empty due set yields a session already in the Complete state.
func (s *Service) StartSession(ctx context.Context) (*ReviewSession, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	session := &ReviewSession{svc: s, userID: userID, state: SessionNotStarted}
	if err := session.begin(ctx); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "session started",
		slog.String("user_id", userID.String()),
		slog.Int("due_count", len(session.queue)),
	)

	return session, nil
}

// begin takes a fresh due-set snapshot and resets position and counters.
func (rs *ReviewSession) begin(ctx context.Context) error {
	cards, err := rs.svc.cards.ListByUser(ctx, rs.userID)
	if err != nil {
		return fmt.Errorf("list cards: %w", err)
	}

	rs.queue = SelectDue(cards, rs.svc.clock.Now())
	rs.pos = 0
	rs.reviewed = 0
	rs.phase = PhaseFrontShown

	if len(rs.queue) == 0 {
		rs.state = SessionComplete
	} else {
		rs.state = SessionInProgress
	}
	return nil
}

// State returns the session lifecycle state.
func (rs *ReviewSession) State() SessionState { return rs.state }

// Phase returns the current card's sub-phase. Meaningful only in progress.
func (rs *ReviewSession) Phase() CardPhase { return rs.phase }

// Current returns the card under review, or false when the session is not
// in progress.
func (rs *ReviewSession) Current() (domain.Card, bool) {
	if rs.state != SessionInProgress {
		return domain.Card{}, false
	}
	return rs.queue[rs.pos], true
}

// Progress reports how many cards have been rated and the due-set size.
func (rs *ReviewSession) Progress() (reviewed, total int) {
	return rs.reviewed, len(rs.queue)
}

// Reveal flips the current card to show its back. Revealing an already
// revealed card is a no-op.
func (rs *ReviewSession) Reveal() error {
	if rs.state != SessionInProgress {
		return fmt.Errorf("reveal outside active session: %w", domain.ErrConflict)
	}
	rs.phase = PhaseBackShown
	return nil
}

// Rate records the user's grade for the current card: the scheduler is
// applied, the updated card and its review log are persisted, and the
// session advances to the next card (or completes after the last one).
// Valid only after Reveal.
func (rs *ReviewSession) Rate(ctx context.Context, grade domain.ReviewGrade) error {
	if rs.state != SessionInProgress {
		return fmt.Errorf("rate outside active session: %w", domain.ErrConflict)
	}
	if rs.phase != PhaseBackShown {
		return fmt.Errorf("rate before reveal: %w", domain.ErrConflict)
	}

	card := rs.queue[rs.pos]
	if _, err := rs.svc.ReviewCard(ctx, ReviewCardInput{CardID: card.ID, Grade: grade}); err != nil {
		return err
	}

	rs.reviewed++
	if rs.pos == len(rs.queue)-1 {
		rs.state = SessionComplete
	} else {
		rs.pos++
		rs.phase = PhaseFrontShown
	}
	return nil
}

// Restart recomputes a fresh due set from the Complete state. Cards just
// reviewed reappear only if their new due date already makes them due.
func (rs *ReviewSession) Restart(ctx context.Context) error {
	if rs.state != SessionComplete {
		return fmt.Errorf("restart before completion: %w", domain.ErrConflict)
	}
	return rs.begin(ctx)
}
