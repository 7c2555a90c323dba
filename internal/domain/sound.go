package domain

import (
	"fmt"
	"regexp"
)

// SoundSpec is a declarative description of the closing soundscape. A fixed
// client-side renderer interprets it; the service never stores or ships
// executable audio code.
type SoundSpec struct {
	Instrument Instrument `json:"instrument"`
	Scale      Scale      `json:"scale"`
	Pattern    []string   `json:"pattern"`
	TempoBPM   int        `json:"tempo_bpm"`
	Mood       string     `json:"mood,omitempty"`
}

type Instrument string

const (
	InstrumentSynth Instrument = "synth"
	InstrumentBell  Instrument = "bell"
	InstrumentPad   Instrument = "pad"
	InstrumentPluck Instrument = "pluck"
	InstrumentDrone Instrument = "drone"
)

type Scale string

const (
	ScaleMajor      Scale = "major"
	ScaleMinor      Scale = "minor"
	ScalePentatonic Scale = "pentatonic"
	ScaleDorian     Scale = "dorian"
	ScaleLydian     Scale = "lydian"
)

const (
	MinTempoBPM      = 40
	MaxTempoBPM      = 200
	MaxPatternLength = 32
)

// Pattern tokens are scientific pitch names or "rest".
var noteToken = regexp.MustCompile(`^([A-G][#b]?[0-8]|rest)$`)

// Validate checks every field against the renderer's fixed vocabulary.
func (s *SoundSpec) Validate() error {
	switch s.Instrument {
	case InstrumentSynth, InstrumentBell, InstrumentPad, InstrumentPluck, InstrumentDrone:
	default:
		return fmt.Errorf("unknown instrument %q", s.Instrument)
	}
	switch s.Scale {
	case ScaleMajor, ScaleMinor, ScalePentatonic, ScaleDorian, ScaleLydian:
	default:
		return fmt.Errorf("unknown scale %q", s.Scale)
	}
	if s.TempoBPM < MinTempoBPM || s.TempoBPM > MaxTempoBPM {
		return fmt.Errorf("tempo %d outside %d-%d", s.TempoBPM, MinTempoBPM, MaxTempoBPM)
	}
	if len(s.Pattern) == 0 {
		return fmt.Errorf("empty pattern")
	}
	if len(s.Pattern) > MaxPatternLength {
		return fmt.Errorf("pattern longer than %d steps", MaxPatternLength)
	}
	for _, tok := range s.Pattern {
		if !noteToken.MatchString(tok) {
			return fmt.Errorf("invalid pattern token %q", tok)
		}
	}
	return nil
}
