// Package storagetest holds the behavioral contract every SessionStore
// backend must satisfy.
package storagetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junipergrey/veil-oracle/internal/domain"
)

// RunSessionStoreContract exercises create/get/update/list semantics
// against a fresh store.
func RunSessionStoreContract(t *testing.T, store domain.SessionStore) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)

	newSession := func(i int) *domain.Session {
		return &domain.Session{
			ID:            domain.SessionID(fmt.Sprintf("oracle_test_%02d", i)),
			RiddleText:    "What walks on borrowed light?",
			RiddleAnswers: []string{"The moon remembering", "A shadow set free"},
			CreatedAt:     base.Add(time.Duration(i) * time.Minute),
		}
	}

	t.Run("get unknown id", func(t *testing.T) {
		_, err := store.Get(ctx, "oracle_missing")
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("update unknown id", func(t *testing.T) {
		_, err := store.Update(ctx, "oracle_missing", domain.SessionUpdate{
			SelectedSigil: domain.Ptr("<svg></svg>"),
		})
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("create then get", func(t *testing.T) {
		sess := newSession(1)
		require.NoError(t, store.Create(ctx, sess))

		got, err := store.Get(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, sess.ID, got.ID)
		assert.Equal(t, sess.RiddleText, got.RiddleText)
		assert.Equal(t, sess.RiddleAnswers, got.RiddleAnswers)
		assert.False(t, got.Completed)
		assert.Empty(t, got.SelectedRiddleAnswer)
	})

	t.Run("duplicate id", func(t *testing.T) {
		err := store.Create(ctx, newSession(1))
		assert.ErrorIs(t, err, domain.ErrDuplicateSession)
	})

	t.Run("partial update leaves other fields untouched", func(t *testing.T) {
		sess := newSession(2)
		require.NoError(t, store.Create(ctx, sess))

		choices := []string{"<svg>a</svg>", "<svg>b</svg>"}
		updated, err := store.Update(ctx, sess.ID, domain.SessionUpdate{
			SelectedRiddleAnswer: domain.Ptr("The moon remembering"),
			SigilChoices:         &choices,
		})
		require.NoError(t, err)
		assert.Equal(t, "The moon remembering", updated.SelectedRiddleAnswer)
		assert.Equal(t, choices, updated.SigilChoices)
		assert.Equal(t, sess.RiddleText, updated.RiddleText)
		assert.Empty(t, updated.SelectedSigil)

		sound := &domain.SoundSpec{
			Instrument: domain.InstrumentPad,
			Scale:      domain.ScaleMinor,
			Pattern:    []string{"A3", "rest", "C4"},
			TempoBPM:   58,
			Mood:       "low tide",
		}
		updated, err = store.Update(ctx, sess.ID, domain.SessionUpdate{
			SelectedSigil: domain.Ptr(choices[0]),
			CardValue:     domain.Ptr("QH"),
			Mantra:        domain.Ptr("I keep what the tide returns."),
			CardArtwork:   domain.Ptr("<svg>card</svg>"),
			Sound:         sound,
			Completed:     domain.Ptr(true),
		})
		require.NoError(t, err)
		assert.True(t, updated.Completed)
		assert.Equal(t, "QH", updated.CardValue)
		assert.Equal(t, "The moon remembering", updated.SelectedRiddleAnswer)
		require.NotNil(t, updated.Sound)
		assert.Equal(t, sound.Pattern, updated.Sound.Pattern)
		assert.Equal(t, sound.TempoBPM, updated.Sound.TempoBPM)

		// Completion is monotonic: a later partial write must not revert it.
		updated, err = store.Update(ctx, sess.ID, domain.SessionUpdate{
			Mantra: domain.Ptr("I keep what the tide returns, again."),
		})
		require.NoError(t, err)
		assert.True(t, updated.Completed)
	})

	t.Run("list recent newest first", func(t *testing.T) {
		for i := 3; i <= 6; i++ {
			require.NoError(t, store.Create(ctx, newSession(i)))
		}

		sessions, err := store.ListRecent(ctx, 3)
		require.NoError(t, err)
		require.Len(t, sessions, 3)
		assert.Equal(t, domain.SessionID("oracle_test_06"), sessions[0].ID)
		assert.Equal(t, domain.SessionID("oracle_test_05"), sessions[1].ID)
		assert.Equal(t, domain.SessionID("oracle_test_04"), sessions[2].ID)
	})
}
