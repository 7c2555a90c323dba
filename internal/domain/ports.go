package domain

import "context"

// Riddle is the opening prompt of a journey: a short koan plus exactly two
// candidate interpretations.
type Riddle struct {
	Text    string
	Answers [2]string
}

// ContentGenerator produces the generated content for each step of the
// journey. The implementation wired into the state machine never surfaces a
// failure: a generation that goes wrong internally is logged and replaced by
// fixed fallback content, so callers always receive well-formed values.
type ContentGenerator interface {
	GenerateRiddle(ctx context.Context) (Riddle, error)

	// GenerateSigils derives exactly two self-contained SVG sigils from the
	// chosen riddle answer.
	GenerateSigils(ctx context.Context, riddleAnswer string) ([2]string, error)

	// GenerateCardArtwork returns an SVG rendering of the drawn card. An
	// empty string means the capability is unavailable; that is not an error.
	GenerateCardArtwork(ctx context.Context, card string) (string, error)

	GenerateMantra(ctx context.Context, riddleAnswer, sigil, card string) (string, error)

	// GenerateSoundSpec may return nil when the capability is unavailable.
	GenerateSoundSpec(ctx context.Context, riddleAnswer, sigil, card, mantra string) (*SoundSpec, error)
}

// SessionStore persists sessions keyed by id. Implementations guarantee
// per-session last-write-wins; no cross-session transactions are expected.
type SessionStore interface {
	// Create persists a new session. Returns ErrDuplicateSession if the id
	// is already taken.
	Create(ctx context.Context, session *Session) error

	// Get returns the session or ErrSessionNotFound.
	Get(ctx context.Context, id SessionID) (*Session, error)

	// Update merges the partial update into the stored session and returns
	// the result, or ErrSessionNotFound.
	Update(ctx context.Context, id SessionID, update SessionUpdate) (*Session, error)

	// ListRecent returns up to limit sessions, newest first.
	ListRecent(ctx context.Context, limit int) ([]*Session, error)
}
