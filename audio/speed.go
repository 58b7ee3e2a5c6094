package audio

import (
	"fmt"
	"slices"
	"strconv"
)

// Speeds are the playback rates a briefing can be played at.
var Speeds = []float64{0.5, 0.75, 1, 1.25, 1.5, 2}

// ParseSpeed parses a playback rate such as "1.25" or "1.25x". Only the
// values in Speeds are accepted.
func ParseSpeed(s string) (float64, error) {
	if n := len(s); n > 0 && (s[n-1] == 'x' || s[n-1] == 'X') {
		s = s[:n-1]
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid speed %q", s)
	}
	if !slices.Contains(Speeds, v) {
		return 0, fmt.Errorf("unsupported speed %v, choose one of %v", v, Speeds)
	}
	return v, nil
}

// ChangeSpeed returns w shortened or stretched so that playing it at its own
// sample rate sounds speed times faster. Pitch shifts with the speed.
func ChangeSpeed(w *Waveform, speed float64) (*Waveform, error) {
	if speed <= 0 {
		return nil, fmt.Errorf("audio: invalid speed %v", speed)
	}
	if speed == 1 {
		return w, nil
	}

	rate := w.SampleRate
	out, err := Resample(w, int(float64(rate)/speed))
	if err != nil {
		return nil, err
	}
	out.SampleRate = rate
	return out, nil
}
