package llm

import (
	"context"
	"fmt"

	"github.com/junipergrey/veil-oracle/internal/domain"
)

// MockGenerator is a deterministic offline generator for local mode and
// tests. It never fails.
type MockGenerator struct{}

func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

func (m *MockGenerator) GenerateRiddle(ctx context.Context) (domain.Riddle, error) {
	return domain.Riddle{
		Text: "What flows like water yet burns like fire?",
		Answers: [2]string{
			"The whispers of ancient wisdom",
			"The dance of shadows beneath moonlight",
		},
	}, nil
}

func (m *MockGenerator) GenerateSigils(ctx context.Context, riddleAnswer string) ([2]string, error) {
	title := fmt.Sprintf("<title>%s</title>", riddleAnswer)
	return [2]string{
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100" fill="none" stroke="currentColor" stroke-width="2">` + title + `<circle cx="50" cy="50" r="38"/><line x1="12" y1="50" x2="88" y2="50"/></svg>`,
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100" fill="none" stroke="currentColor" stroke-width="2">` + title + `<polygon points="50,10 90,90 10,90"/><circle cx="50" cy="60" r="14"/></svg>`,
	}, nil
}

func (m *MockGenerator) GenerateCardArtwork(ctx context.Context, card string) (string, error) {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 200 320" fill="none" stroke="currentColor" stroke-width="2"><rect x="8" y="8" width="184" height="304" rx="12"/><text x="100" y="160" text-anchor="middle">%s</text></svg>`, domain.DescribeCard(card)), nil
}

func (m *MockGenerator) GenerateMantra(ctx context.Context, riddleAnswer, sigil, card string) (string, error) {
	return fmt.Sprintf("Holding %q under the sign of %s,\nI walk the quiet road within,\nand what I seek walks with me.",
		riddleAnswer, domain.DescribeCard(card)), nil
}

func (m *MockGenerator) GenerateSoundSpec(ctx context.Context, riddleAnswer, sigil, card, mantra string) (*domain.SoundSpec, error) {
	return &domain.SoundSpec{
		Instrument: domain.InstrumentBell,
		Scale:      domain.ScaleDorian,
		Pattern:    []string{"D4", "F4", "A4", "rest", "C5", "A4", "F4", "rest"},
		TempoBPM:   72,
		Mood:       "slow bells over distant water",
	}, nil
}
