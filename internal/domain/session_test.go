package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/junipergrey/veil-oracle/internal/domain"
)

func TestSessionStatePrefixChain(t *testing.T) {
	sess := &domain.Session{
		ID:            "oracle_x",
		RiddleText:    "r",
		RiddleAnswers: []string{"a", "b"},
		CreatedAt:     time.Now(),
	}
	assert.Equal(t, domain.StateCreated, sess.State())
	assert.False(t, sess.HasRiddleAnswer())

	sess.SelectedRiddleAnswer = "a"
	sess.SigilChoices = []string{"s1", "s2"}
	assert.Equal(t, domain.StateRiddleAnswered, sess.State())

	sess.SelectedSigil = "s1"
	assert.Equal(t, domain.StateSigilChosen, sess.State())

	sess.CardValue = "QH"
	sess.Completed = true
	assert.Equal(t, domain.StateCompleted, sess.State())
	assert.True(t, sess.IsComplete())
}

func TestSessionUpdateApplyLeavesNilFieldsAlone(t *testing.T) {
	sess := &domain.Session{
		ID:                   "oracle_x",
		RiddleText:           "r",
		SelectedRiddleAnswer: "a",
	}

	domain.SessionUpdate{
		SelectedSigil: domain.Ptr("s1"),
	}.Apply(sess)

	assert.Equal(t, "s1", sess.SelectedSigil)
	assert.Equal(t, "a", sess.SelectedRiddleAnswer)
	assert.Equal(t, "r", sess.RiddleText)
	assert.False(t, sess.Completed)
}

func TestSessionCloneIsDeep(t *testing.T) {
	sess := &domain.Session{
		ID:            "oracle_x",
		RiddleAnswers: []string{"a", "b"},
		SigilChoices:  []string{"s1", "s2"},
		Sound: &domain.SoundSpec{
			Instrument: domain.InstrumentPad,
			Scale:      domain.ScaleMinor,
			Pattern:    []string{"A3"},
			TempoBPM:   60,
		},
	}

	clone := sess.Clone()
	clone.RiddleAnswers[0] = "mutated"
	clone.Sound.Pattern[0] = "mutated"

	assert.Equal(t, "a", sess.RiddleAnswers[0])
	assert.Equal(t, "A3", sess.Sound.Pattern[0])
}
