package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/junipergrey/veil-oracle/internal/domain"
)

func validSpec() *domain.SoundSpec {
	return &domain.SoundSpec{
		Instrument: domain.InstrumentBell,
		Scale:      domain.ScalePentatonic,
		Pattern:    []string{"C4", "E4", "rest", "G#4", "Bb3"},
		TempoBPM:   72,
		Mood:       "dawn over still water",
	}
}

func TestSoundSpecValidate(t *testing.T) {
	assert.NoError(t, validSpec().Validate())

	t.Run("unknown instrument", func(t *testing.T) {
		spec := validSpec()
		spec.Instrument = "theremin"
		assert.Error(t, spec.Validate())
	})

	t.Run("unknown scale", func(t *testing.T) {
		spec := validSpec()
		spec.Scale = "chromatic"
		assert.Error(t, spec.Validate())
	})

	t.Run("tempo bounds", func(t *testing.T) {
		spec := validSpec()
		spec.TempoBPM = domain.MinTempoBPM - 1
		assert.Error(t, spec.Validate())

		spec.TempoBPM = domain.MaxTempoBPM + 1
		assert.Error(t, spec.Validate())

		spec.TempoBPM = domain.MinTempoBPM
		assert.NoError(t, spec.Validate())
	})

	t.Run("empty pattern", func(t *testing.T) {
		spec := validSpec()
		spec.Pattern = nil
		assert.Error(t, spec.Validate())
	})

	t.Run("pattern too long", func(t *testing.T) {
		spec := validSpec()
		spec.Pattern = make([]string, domain.MaxPatternLength+1)
		for i := range spec.Pattern {
			spec.Pattern[i] = "C4"
		}
		assert.Error(t, spec.Validate())
	})

	t.Run("code-like token rejected", func(t *testing.T) {
		spec := validSpec()
		spec.Pattern = []string{"C4", `synth.triggerAttack("C4")`}
		assert.Error(t, spec.Validate())
	})
}
