// Package journey implements the oracle's step state machine: riddle,
// sigil choice, card draw, generated artifact bundle.
package journey

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/junipergrey/veil-oracle/internal/domain"
	"github.com/junipergrey/veil-oracle/internal/observability"
)

// Service validates step ordering, invokes the generator with the
// accumulated context, and applies results through the session store. It is
// the only writer of sessions.
type Service struct {
	generator domain.ContentGenerator
	store     domain.SessionStore
	now       func() time.Time
	newID     func() domain.SessionID
}

func NewService(generator domain.ContentGenerator, store domain.SessionStore) *Service {
	return &Service{
		generator: generator,
		store:     store,
		now:       time.Now,
		newID:     newSessionID,
	}
}

func newSessionID() domain.SessionID {
	return domain.SessionID("oracle_" + uuid.NewString())
}

type StartOutput struct {
	Session *domain.Session
}

// Start opens a new journey: generates the riddle and persists a fresh
// session holding only the riddle fields.
func (s *Service) Start(ctx context.Context) (*StartOutput, error) {
	log := observability.LoggerFromContext(ctx)
	log.Info("starting oracle journey")

	riddle, err := s.generator.GenerateRiddle(ctx)
	if err != nil {
		// The wired generator degrades to fallback content instead of
		// failing; an error here means the integrator bypassed that wrapper.
		log.Error("riddle generation failed", "error", err)
		return nil, fmt.Errorf("generate riddle: %w", err)
	}

	session := &domain.Session{
		ID:            s.newID(),
		RiddleText:    riddle.Text,
		RiddleAnswers: riddle.Answers[:],
		CreatedAt:     s.now(),
	}

	if err := s.store.Create(ctx, session); err != nil {
		log.Error("failed to create session", "error", err)
		return nil, err
	}

	observability.JourneysStarted.Inc()
	log.Info("journey started", "session_id", session.ID)

	return &StartOutput{Session: session}, nil
}

type AnswerRiddleInput struct {
	SessionID domain.SessionID
	Answer    string
}

type AnswerRiddleOutput struct {
	Sigils [2]string
}

// AnswerRiddle records the chosen riddle answer and derives the two sigil
// candidates from it. The answer is accepted as submitted; it is not
// cross-checked against the offered pair.
func (s *Service) AnswerRiddle(ctx context.Context, in AnswerRiddleInput) (*AnswerRiddleOutput, error) {
	if strings.TrimSpace(in.Answer) == "" {
		return nil, fmt.Errorf("%w: empty riddle answer", domain.ErrInvalidInput)
	}

	if _, err := s.store.Get(ctx, in.SessionID); err != nil {
		return nil, err
	}

	log := observability.LoggerFromContext(ctx).With("session_id", in.SessionID)
	log.Info("recording riddle answer")

	sigils, err := s.generator.GenerateSigils(ctx, in.Answer)
	if err != nil {
		log.Error("sigil generation failed", "error", err)
		return nil, fmt.Errorf("generate sigils: %w", err)
	}

	choices := sigils[:]
	if _, err := s.store.Update(ctx, in.SessionID, domain.SessionUpdate{
		SelectedRiddleAnswer: domain.Ptr(in.Answer),
		SigilChoices:         &choices,
	}); err != nil {
		log.Error("failed to update session", "error", err)
		return nil, err
	}

	log.Info("riddle answered, sigils offered")

	return &AnswerRiddleOutput{Sigils: sigils}, nil
}

type ChooseSigilInput struct {
	SessionID domain.SessionID
	Sigil     string
}

// ChooseSigil records the selected sigil. No content is generated at this
// step. The caller is trusted to submit one of the two offered artifacts.
func (s *Service) ChooseSigil(ctx context.Context, in ChooseSigilInput) error {
	if strings.TrimSpace(in.Sigil) == "" {
		return fmt.Errorf("%w: empty sigil", domain.ErrInvalidInput)
	}

	if _, err := s.store.Get(ctx, in.SessionID); err != nil {
		return err
	}

	log := observability.LoggerFromContext(ctx).With("session_id", in.SessionID)

	if _, err := s.store.Update(ctx, in.SessionID, domain.SessionUpdate{
		SelectedSigil: domain.Ptr(in.Sigil),
	}); err != nil {
		log.Error("failed to update session", "error", err)
		return err
	}

	log.Info("sigil chosen")
	return nil
}

type CompleteInput struct {
	SessionID domain.SessionID
	CardValue string
}

type CompleteOutput struct {
	Session *domain.Session
}

// Complete runs the final step: card artwork, mantra, and soundscape are
// generated from the accumulated selections, then written in a single
// consolidated update that marks the session completed. Re-invoking on an
// already-completed session regenerates the bundle.
func (s *Service) Complete(ctx context.Context, in CompleteInput) (*CompleteOutput, error) {
	if strings.TrimSpace(in.CardValue) == "" {
		return nil, fmt.Errorf("%w: empty card value", domain.ErrInvalidInput)
	}

	session, err := s.store.Get(ctx, in.SessionID)
	if err != nil {
		return nil, err
	}
	if !session.HasRiddleAnswer() || !session.HasSigil() {
		return nil, domain.ErrIncompleteSession
	}

	log := observability.LoggerFromContext(ctx).With(
		"session_id", in.SessionID,
		"card", in.CardValue,
	)
	log.Info("completing journey")

	// Artwork and mantra are independent reads of the same input tuple, so
	// they run concurrently. The soundscape needs the mantra and follows it.
	var artwork, mantra string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		artwork, err = s.generator.GenerateCardArtwork(gctx, in.CardValue)
		return err
	})
	g.Go(func() error {
		var err error
		mantra, err = s.generator.GenerateMantra(gctx, session.SelectedRiddleAnswer, session.SelectedSigil, in.CardValue)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Error("artifact generation failed", "error", err)
		return nil, fmt.Errorf("generate artifacts: %w", err)
	}

	sound, err := s.generator.GenerateSoundSpec(ctx, session.SelectedRiddleAnswer, session.SelectedSigil, in.CardValue, mantra)
	if err != nil {
		log.Error("sound generation failed", "error", err)
		return nil, fmt.Errorf("generate sound: %w", err)
	}

	updated, err := s.store.Update(ctx, in.SessionID, domain.SessionUpdate{
		CardValue:   domain.Ptr(in.CardValue),
		Mantra:      domain.Ptr(mantra),
		CardArtwork: domain.Ptr(artwork),
		Sound:       sound,
		Completed:   domain.Ptr(true),
	})
	if err != nil {
		log.Error("failed to update session", "error", err)
		return nil, err
	}

	observability.JourneysCompleted.Inc()
	log.Info("journey completed")

	return &CompleteOutput{Session: updated}, nil
}

// GetSession is a read-only projection of one session.
func (s *Service) GetSession(ctx context.Context, id domain.SessionID) (*domain.Session, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return session, nil
}

const defaultRecentLimit = 10

// ListRecentCompleted returns the most recent finished journeys, newest
// first.
func (s *Service) ListRecentCompleted(ctx context.Context, limit int) ([]*domain.Session, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	sessions, err := s.store.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}

	completed := make([]*domain.Session, 0, len(sessions))
	for _, session := range sessions {
		if session.IsComplete() {
			completed = append(completed, session)
		}
	}
	return completed, nil
}
