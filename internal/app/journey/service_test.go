package journey_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junipergrey/veil-oracle/internal/adapters/llm"
	"github.com/junipergrey/veil-oracle/internal/adapters/storage/memory"
	"github.com/junipergrey/veil-oracle/internal/app/journey"
	"github.com/junipergrey/veil-oracle/internal/domain"
)

func newTestService(t *testing.T) *journey.Service {
	t.Helper()
	return journey.NewService(
		llm.NewResilient(llm.NewMockGenerator()),
		memory.NewSessionStore(),
	)
}

func TestFullJourney(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	started, err := svc.Start(ctx)
	require.NoError(t, err)
	sess := started.Session
	assert.NotEmpty(t, sess.ID)
	assert.NotEmpty(t, sess.RiddleText)
	require.Len(t, sess.RiddleAnswers, 2)
	assert.False(t, sess.Completed)

	answered, err := svc.AnswerRiddle(ctx, journey.AnswerRiddleInput{
		SessionID: sess.ID,
		Answer:    sess.RiddleAnswers[0],
	})
	require.NoError(t, err)
	assert.NotEmpty(t, answered.Sigils[0])
	assert.NotEmpty(t, answered.Sigils[1])

	err = svc.ChooseSigil(ctx, journey.ChooseSigilInput{
		SessionID: sess.ID,
		Sigil:     answered.Sigils[0],
	})
	require.NoError(t, err)

	completed, err := svc.Complete(ctx, journey.CompleteInput{
		SessionID: sess.ID,
		CardValue: "QH",
	})
	require.NoError(t, err)
	bundle := completed.Session
	assert.True(t, bundle.Completed)
	assert.Equal(t, "QH", bundle.CardValue)
	assert.NotEmpty(t, bundle.Mantra)
	assert.NotEmpty(t, bundle.CardArtwork)
	require.NotNil(t, bundle.Sound)
	assert.NoError(t, bundle.Sound.Validate())

	got, err := svc.GetSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.RiddleAnswers[0], got.SelectedRiddleAnswer)
	assert.Equal(t, answered.Sigils[0], got.SelectedSigil)
	assert.Equal(t, "QH", got.CardValue)
	assert.True(t, got.Completed)
	assert.Equal(t, domain.StateCompleted, got.State())
}

func TestCompleteRequiresPriorSteps(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	started, err := svc.Start(ctx)
	require.NoError(t, err)

	// Straight to the final step: rejected.
	_, err = svc.Complete(ctx, journey.CompleteInput{
		SessionID: started.Session.ID,
		CardValue: "AS",
	})
	assert.ErrorIs(t, err, domain.ErrIncompleteSession)

	// Riddle answered but no sigil chosen: still rejected.
	_, err = svc.AnswerRiddle(ctx, journey.AnswerRiddleInput{
		SessionID: started.Session.ID,
		Answer:    started.Session.RiddleAnswers[1],
	})
	require.NoError(t, err)

	_, err = svc.Complete(ctx, journey.CompleteInput{
		SessionID: started.Session.ID,
		CardValue: "AS",
	})
	assert.ErrorIs(t, err, domain.ErrIncompleteSession)

	// The rejections must leave no trace on the session.
	got, err := svc.GetSession(ctx, started.Session.ID)
	require.NoError(t, err)
	assert.False(t, got.Completed)
	assert.Empty(t, got.CardValue)
	assert.Empty(t, got.Mantra)
}

func TestUnknownSessionID(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	unknown := domain.SessionID("oracle_never_issued")

	_, err := svc.AnswerRiddle(ctx, journey.AnswerRiddleInput{SessionID: unknown, Answer: "x"})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	err = svc.ChooseSigil(ctx, journey.ChooseSigilInput{SessionID: unknown, Sigil: "x"})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = svc.Complete(ctx, journey.CompleteInput{SessionID: unknown, CardValue: "QH"})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = svc.GetSession(ctx, unknown)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestEmptyInputsRejected(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	started, err := svc.Start(ctx)
	require.NoError(t, err)
	id := started.Session.ID

	_, err = svc.AnswerRiddle(ctx, journey.AnswerRiddleInput{SessionID: id, Answer: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = svc.ChooseSigil(ctx, journey.ChooseSigilInput{SessionID: id, Sigil: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Complete(ctx, journey.CompleteInput{SessionID: id, CardValue: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecompletionRegeneratesAndStaysCompleted(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	started, err := svc.Start(ctx)
	require.NoError(t, err)
	id := started.Session.ID

	answered, err := svc.AnswerRiddle(ctx, journey.AnswerRiddleInput{
		SessionID: id,
		Answer:    started.Session.RiddleAnswers[0],
	})
	require.NoError(t, err)
	require.NoError(t, svc.ChooseSigil(ctx, journey.ChooseSigilInput{
		SessionID: id,
		Sigil:     answered.Sigils[1],
	}))

	first, err := svc.Complete(ctx, journey.CompleteInput{SessionID: id, CardValue: "QH"})
	require.NoError(t, err)
	assert.True(t, first.Session.Completed)

	// Drawing again is permitted and overwrites the bundle.
	second, err := svc.Complete(ctx, journey.CompleteInput{SessionID: id, CardValue: "3C"})
	require.NoError(t, err)
	assert.True(t, second.Session.Completed)
	assert.Equal(t, "3C", second.Session.CardValue)

	got, err := svc.GetSession(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.Completed)
}

func TestListRecentCompletedFiltersUnfinished(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	finish := func(t *testing.T) domain.SessionID {
		t.Helper()
		started, err := svc.Start(ctx)
		require.NoError(t, err)
		id := started.Session.ID
		answered, err := svc.AnswerRiddle(ctx, journey.AnswerRiddleInput{
			SessionID: id,
			Answer:    started.Session.RiddleAnswers[0],
		})
		require.NoError(t, err)
		require.NoError(t, svc.ChooseSigil(ctx, journey.ChooseSigilInput{
			SessionID: id,
			Sigil:     answered.Sigils[0],
		}))
		_, err = svc.Complete(ctx, journey.CompleteInput{SessionID: id, CardValue: "KD"})
		require.NoError(t, err)
		return id
	}

	doneA := finish(t)
	doneB := finish(t)

	// Two abandoned journeys.
	_, err := svc.Start(ctx)
	require.NoError(t, err)
	_, err = svc.Start(ctx)
	require.NoError(t, err)

	recent, err := svc.ListRecentCompleted(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	ids := []domain.SessionID{recent[0].ID, recent[1].ID}
	assert.Contains(t, ids, doneA)
	assert.Contains(t, ids, doneB)
	for _, sess := range recent {
		assert.True(t, sess.Completed)
	}
}
