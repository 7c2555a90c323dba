package llm

import (
	"fmt"

	"github.com/junipergrey/veil-oracle/internal/domain"
)

const riddleSystemPrompt = `You are a mystical oracle that creates zen-like koans and riddles.
Create abstract, philosophical riddles that make people think deeply.
Always respond with valid JSON.`

const riddleUserPrompt = `Create a mystical riddle that is abstract like a zen koan, less than 50 words.
Also provide exactly two cryptic, poetic answers that could both be valid interpretations.
Return JSON with "riddle" and "answers" array containing exactly 2 strings.`

const sigilSystemPrompt = `You are a mystical symbol creator. You draw simple geometric sigils as
self-contained SVG documents using basic shapes (circles, lines, polygons) on a
transparent background, stroke only, viewBox "0 0 100 100".
Always respond with valid JSON.`

const mantraSystemPrompt = `You are a mystical poet and spiritual guide. Create short, meaningful
mantras based on a seeker's journey. Always respond with valid JSON.`

const cardArtSystemPrompt = `You are a mystical artist. You draw tarot-style renderings of playing
cards as self-contained SVG documents, viewBox "0 0 200 320", using simple
shapes and at most four colors. Always respond with valid JSON.`

const soundSystemPrompt = `You are a sound designer for meditative soundscapes. You describe music
declaratively, never as code. Always respond with valid JSON.`

func sigilUserPrompt(riddleAnswer string) string {
	return fmt.Sprintf(`Based on this riddle answer: %q, create exactly 2 simple geometric sigils
that capture its essence. Return JSON with a "sigils" array containing exactly
2 strings, each a complete SVG document.`, riddleAnswer)
}

func mantraUserPrompt(riddleAnswer, sigil, card string) string {
	return fmt.Sprintf(`Based on this spiritual journey:
- Riddle answer: %q
- Chosen sigil (SVG): %q
- Drawn card: %q

Create a personal mantra: 4-6 lines, poetic, uplifting, weaving these elements
together. Return JSON with a "mantra" string.`, riddleAnswer, sigil, card)
}

func cardArtUserPrompt(card string) string {
	return fmt.Sprintf(`Draw a tarot-style SVG rendering of the card %q. Return JSON with a
"svg" string containing the complete SVG document.`, domain.DescribeCard(card))
}

func soundUserPrompt(riddleAnswer, sigil, card, mantra string) string {
	return fmt.Sprintf(`Describe a short meditative soundscape for this journey:
- Riddle answer: %q
- Chosen sigil (SVG): %q
- Drawn card: %q
- Personal mantra: %q

Return JSON with fields:
- "instrument": one of "synth", "bell", "pad", "pluck", "drone"
- "scale": one of "major", "minor", "pentatonic", "dorian", "lydian"
- "pattern": array of up to %d note names like "C4" or "rest"
- "tempo_bpm": integer between %d and %d
- "mood": a few words describing the atmosphere`,
		riddleAnswer, sigil, card, mantra,
		domain.MaxPatternLength, domain.MinTempoBPM, domain.MaxTempoBPM)
}
