package audio

import (
	"fmt"

	resampling "github.com/tphakala/go-audio-resampling"
)

// Resample converts w to the given sample rate. Only mono waveforms are
// supported; the input is returned as is when the rates already match.
func Resample(w *Waveform, rate int) (*Waveform, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("audio: invalid target rate %d", rate)
	}
	if w.Channels != 1 {
		return nil, fmt.Errorf("audio: resample supports mono only, got %d channels", w.Channels)
	}
	if w.SampleRate == rate || len(w.Samples) == 0 {
		return &Waveform{Samples: w.Samples, SampleRate: rate, Channels: 1}, nil
	}

	r, err := resampling.New(&resampling.Config{
		InputRate:  float64(w.SampleRate),
		OutputRate: float64(rate),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create resampler: %w", err)
	}

	input := make([]float64, len(w.Samples))
	for i, s := range w.Samples {
		input[i] = float64(s)
	}
	output, err := r.Process(input)
	if err != nil {
		return nil, fmt.Errorf("resample error: %w", err)
	}
	// The filter holds back its tail until flushed.
	tail, err := r.Flush()
	if err != nil {
		return nil, fmt.Errorf("resample flush error: %w", err)
	}
	output = append(output, tail...)

	samples := make([]float32, len(output))
	for i, s := range output {
		switch {
		case s > 1:
			s = 1
		case s < -1:
			s = -1
		}
		samples[i] = float32(s)
	}
	return &Waveform{
		Samples:    samples,
		SampleRate: rate,
		Channels:   1,
	}, nil
}
