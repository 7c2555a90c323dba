package domain

// Session is the persisted record of one journey: the riddle offered at
// creation, the choices made along the way, and the artifacts generated at
// the end. Fields fill in strictly forward; nothing is ever retracted.
type Session struct {
	ID SessionID

	// Set once at creation, immutable afterwards.
	RiddleText    string
	RiddleAnswers []string

	// Step 2: riddle answer plus the two sigils derived from it.
	SelectedRiddleAnswer string
	SigilChoices         []string

	// Step 3: the chosen sigil (full SVG content, not an index).
	SelectedSigil string

	// Step 4: the drawn card and the generated artifact bundle.
	CardValue   string
	Mantra      string
	Poem        string
	SongPrompt  string
	CardArtwork string
	ASCIIArt    string
	Sound       *SoundSpec

	Completed bool
	CreatedAt Timestamp
}

// HasRiddleAnswer reports whether the riddle-answer step has been recorded.
func (s *Session) HasRiddleAnswer() bool {
	return s.SelectedRiddleAnswer != ""
}

// HasSigil reports whether the sigil-choice step has been recorded.
func (s *Session) HasSigil() bool {
	return s.SelectedSigil != ""
}

// IsComplete reports whether the journey finished successfully.
func (s *Session) IsComplete() bool {
	return s.Completed
}

// State derives the step state from the prefix chain of filled fields.
func (s *Session) State() StepState {
	switch {
	case s.Completed:
		return StateCompleted
	case s.HasSigil():
		return StateSigilChosen
	case s.HasRiddleAnswer():
		return StateRiddleAnswered
	default:
		return StateCreated
	}
}

// Clone returns a deep copy so stores can hand out sessions without
// aliasing their own state.
func (s *Session) Clone() *Session {
	out := *s
	out.RiddleAnswers = append([]string(nil), s.RiddleAnswers...)
	out.SigilChoices = append([]string(nil), s.SigilChoices...)
	if s.Sound != nil {
		sound := *s.Sound
		sound.Pattern = append([]string(nil), s.Sound.Pattern...)
		out.Sound = &sound
	}
	return &out
}

// SessionUpdate is a partial write against a stored session. Nil fields are
// left untouched by SessionStore.Update.
type SessionUpdate struct {
	SelectedRiddleAnswer *string
	SigilChoices         *[]string
	SelectedSigil        *string
	CardValue            *string
	Mantra               *string
	Poem                 *string
	SongPrompt           *string
	CardArtwork          *string
	ASCIIArt             *string
	Sound                *SoundSpec
	Completed            *bool
}

// Apply merges the update into the session in place.
func (u SessionUpdate) Apply(s *Session) {
	if u.SelectedRiddleAnswer != nil {
		s.SelectedRiddleAnswer = *u.SelectedRiddleAnswer
	}
	if u.SigilChoices != nil {
		s.SigilChoices = append([]string(nil), (*u.SigilChoices)...)
	}
	if u.SelectedSigil != nil {
		s.SelectedSigil = *u.SelectedSigil
	}
	if u.CardValue != nil {
		s.CardValue = *u.CardValue
	}
	if u.Mantra != nil {
		s.Mantra = *u.Mantra
	}
	if u.Poem != nil {
		s.Poem = *u.Poem
	}
	if u.SongPrompt != nil {
		s.SongPrompt = *u.SongPrompt
	}
	if u.CardArtwork != nil {
		s.CardArtwork = *u.CardArtwork
	}
	if u.ASCIIArt != nil {
		s.ASCIIArt = *u.ASCIIArt
	}
	if u.Sound != nil {
		s.Sound = u.Sound
	}
	if u.Completed != nil {
		s.Completed = *u.Completed
	}
}

// Ptr is a small helper for building SessionUpdate literals.
func Ptr[T any](v T) *T { return &v }
