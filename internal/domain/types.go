package domain

import "time"

type SessionID string

// StepState names the position of a session inside the four-step journey.
type StepState string

const (
	StateCreated        StepState = "created"
	StateRiddleAnswered StepState = "riddle_answered"
	StateSigilChosen    StepState = "sigil_chosen"
	StateCompleted      StepState = "completed"
)

type Timestamp = time.Time
