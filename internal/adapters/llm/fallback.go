package llm

import (
	"context"

	"github.com/junipergrey/veil-oracle/internal/domain"
	"github.com/junipergrey/veil-oracle/internal/observability"
)

// Fixed fallback content. A guided journey must not abort mid-flow because
// the upstream generator failed or returned something unusable, so every
// artifact has a hard-coded stand-in.

const (
	fallbackRiddleText = "What grows stronger when divided, yet weakens when whole?"

	fallbackMantra = "In balance and wisdom, I find my path.\n" +
		"The journey within reveals the light,\n" +
		"guiding me through eternal night."

	fallbackSigilCircle = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100" fill="none" stroke="currentColor" stroke-width="2"><circle cx="50" cy="50" r="40"/><circle cx="50" cy="50" r="24"/><line x1="50" y1="10" x2="50" y2="90"/></svg>`

	fallbackSigilTriangles = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100" fill="none" stroke="currentColor" stroke-width="2"><polygon points="50,12 88,80 12,80"/><polygon points="50,88 12,20 88,20"/></svg>`

	fallbackCardArtwork = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 200 320" fill="none" stroke="currentColor" stroke-width="2"><rect x="8" y="8" width="184" height="304" rx="12"/><circle cx="100" cy="120" r="48"/><path d="M60 220 Q100 180 140 220 Q100 260 60 220 Z"/><line x1="40" y1="280" x2="160" y2="280"/></svg>`
)

var fallbackRiddleAnswers = [2]string{
	"The mirror of consciousness",
	"The flame of understanding",
}

// FallbackSoundSpec is the fixed soundscape substituted when sound
// generation fails.
func FallbackSoundSpec() *domain.SoundSpec {
	return &domain.SoundSpec{
		Instrument: domain.InstrumentPad,
		Scale:      domain.ScalePentatonic,
		Pattern:    []string{"C4", "E4", "G4", "rest", "A4", "G4", "E4", "rest"},
		TempoBPM:   60,
		Mood:       "still water under a waning moon",
	}
}

// Resilient wraps an inner generator and absorbs every failure: a call that
// errors is logged, counted, and answered with the fixed fallback for that
// artifact. It is the implementation wired into the state machine, which
// therefore never observes a generation failure.
type Resilient struct {
	inner domain.ContentGenerator
}

func NewResilient(inner domain.ContentGenerator) *Resilient {
	return &Resilient{inner: inner}
}

func (r *Resilient) degraded(ctx context.Context, artifact string, err error) {
	observability.LoggerFromContext(ctx).Warn("generation degraded to fallback",
		"artifact", artifact,
		"error", err,
	)
	observability.GenerationFallbacks.WithLabelValues(artifact).Inc()
}

func (r *Resilient) GenerateRiddle(ctx context.Context) (domain.Riddle, error) {
	riddle, err := r.inner.GenerateRiddle(ctx)
	if err != nil {
		r.degraded(ctx, "riddle", err)
		return domain.Riddle{Text: fallbackRiddleText, Answers: fallbackRiddleAnswers}, nil
	}
	return riddle, nil
}

func (r *Resilient) GenerateSigils(ctx context.Context, riddleAnswer string) ([2]string, error) {
	sigils, err := r.inner.GenerateSigils(ctx, riddleAnswer)
	if err != nil {
		r.degraded(ctx, "sigils", err)
		return [2]string{fallbackSigilCircle, fallbackSigilTriangles}, nil
	}
	return sigils, nil
}

func (r *Resilient) GenerateCardArtwork(ctx context.Context, card string) (string, error) {
	artwork, err := r.inner.GenerateCardArtwork(ctx, card)
	if err != nil {
		r.degraded(ctx, "card_artwork", err)
		return fallbackCardArtwork, nil
	}
	return artwork, nil
}

func (r *Resilient) GenerateMantra(ctx context.Context, riddleAnswer, sigil, card string) (string, error) {
	mantra, err := r.inner.GenerateMantra(ctx, riddleAnswer, sigil, card)
	if err != nil {
		r.degraded(ctx, "mantra", err)
		return fallbackMantra, nil
	}
	return mantra, nil
}

func (r *Resilient) GenerateSoundSpec(ctx context.Context, riddleAnswer, sigil, card, mantra string) (*domain.SoundSpec, error) {
	spec, err := r.inner.GenerateSoundSpec(ctx, riddleAnswer, sigil, card, mantra)
	if err != nil {
		r.degraded(ctx, "sound", err)
		return FallbackSoundSpec(), nil
	}
	// A nil spec without an error means the capability is unavailable; that
	// is passed through, not substituted.
	return spec, nil
}
