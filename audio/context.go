package audio

import (
	"context"
	"fmt"
	"sync"
)

// DefaultMaxBytes bounds the size of an encoded payload a Context accepts.
const DefaultMaxBytes = 64 << 20

// ContextState is the lifecycle state of a Context.
type ContextState int

const (
	ContextRunning ContextState = iota
	ContextClosed
)

func (s ContextState) String() string {
	if s == ContextClosed {
		return "closed"
	}
	return "running"
}

// Options configures a Context.
type Options struct {
	// MaxBytes is the largest accepted payload, in bytes of encoded text.
	// Zero means DefaultMaxBytes.
	MaxBytes int

	// TargetRate is the rate waveforms from non-PCM codecs are resampled
	// to. Zero means SpeechSampleRate.
	TargetRate int
}

// Context owns the resources needed to turn one payload into a waveform.
// A Context is used for a single decode and must not be reused after
// Close.
type Context struct {
	opts Options

	mu    sync.Mutex
	state ContextState
}

// NewContext acquires a new decoding context.
func NewContext(opts Options) *Context {
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}
	if opts.TargetRate <= 0 {
		opts.TargetRate = SpeechSampleRate
	}
	return &Context{opts: opts}
}

// State reports whether the context is still usable.
func (c *Context) State() ContextState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Decode turns a base64 payload encoded with codec into a waveform.
func (c *Context) Decode(ctx context.Context, payload string, codec Codec) (*Waveform, error) {
	if c.State() == ContextClosed {
		return nil, ErrClosed
	}
	if len(payload) > c.opts.MaxBytes {
		return nil, fmt.Errorf("%w: payload of %d bytes exceeds limit of %d", ErrDecode, len(payload), c.opts.MaxBytes)
	}
	raw, err := DecodeBase64(payload)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch codec {
	case PCM24K:
		return DecodePCM16(raw, SpeechSampleRate, SpeechChannels)
	case MP3:
		w, err := DecodeMP3(raw)
		if err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return Resample(w, c.opts.TargetRate)
	}
	return nil, fmt.Errorf("%w: unsupported codec %d", ErrDecode, int(codec))
}

// Close releases the context. Calling Close more than once is a no-op.
func (c *Context) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = ContextClosed
	return nil
}
