package engine

import (
	"fmt"
	"slices"

	"github.com/d1nch8g/briefcast/artifact"
	"github.com/d1nch8g/briefcast/sources"
)

// Stage is the externally visible progress of a generation run.
type Stage int

const (
	StageIdle Stage = iota
	StageFetchingSources
	StageGeneratingScript
	StageGeneratingAudio
)

var stageNames = map[Stage]string{
	StageIdle:             "idle",
	StageFetchingSources:  "fetching_sources",
	StageGeneratingScript: "generating_script",
	StageGeneratingAudio:  "generating_audio",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Message is the human-readable progress line for the stage.
func (s Stage) Message() string {
	switch s {
	case StageIdle:
		return "Ready to generate"
	case StageFetchingSources:
		return "Gathering intelligence..."
	case StageGeneratingScript:
		return "Writing podcast script..."
	case StageGeneratingAudio:
		return "Recording podcast..."
	}
	return s.String()
}

func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Stage) UnmarshalText(b []byte) error {
	for stage, name := range stageNames {
		if name == string(b) {
			*s = stage
			return nil
		}
	}
	return fmt.Errorf("engine: unknown stage %q", b)
}

// State is a snapshot of the engine. Each transition produces a new State;
// a value handed out is never modified afterwards.
type State struct {
	Stage    Stage              `json:"stage"`
	Tickers  []string           `json:"tickers,omitempty"`
	Sources  []sources.Source   `json:"sources"`
	Script   string             `json:"script,omitempty"`
	Artifact *artifact.Artifact `json:"artifact,omitempty"`
	Error    string             `json:"error,omitempty"`
}

// Busy reports whether a run is in flight.
func (s State) Busy() bool {
	return s.Stage != StageIdle
}

func (s State) clone() State {
	s.Tickers = slices.Clone(s.Tickers)
	s.Sources = slices.Clone(s.Sources)
	if s.Sources == nil {
		s.Sources = []sources.Source{}
	}
	return s
}
