package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/d1nch8g/briefcast/artifact"
	"github.com/d1nch8g/briefcast/audio"
	"github.com/d1nch8g/briefcast/gpt"
	"github.com/d1nch8g/briefcast/sources"
	"github.com/d1nch8g/briefcast/tts"
	"github.com/d1nch8g/briefcast/wav"
)

// AudioContext decodes one speech payload. It is acquired right before
// decoding and closed on every exit path.
type AudioContext interface {
	Decode(ctx context.Context, payload string, codec audio.Codec) (*audio.Waveform, error)
	State() audio.ContextState
	Close() error
}

// EngineConfig holds the configuration for the briefing engine
type EngineConfig struct {
	// MaxPayloadBytes bounds the encoded speech payload. Zero means
	// audio.DefaultMaxBytes.
	MaxPayloadBytes int

	// NewAudioContext acquires the decoding context for a run. Nil means
	// audio.NewContext.
	NewAudioContext func() AudioContext
}

// Engine runs the three generation stages and finishes their output into a
// playable artifact. Only one run may be in flight at a time.
type Engine struct {
	config      EngineConfig
	aggregator  sources.Aggregator
	writer      gpt.ScriptWriter
	synthesizer tts.Synthesizer
	store       *artifact.Store
	slot        *artifact.Slot

	mu      sync.Mutex
	state   State
	subs    map[int]func(State)
	nextSub int
}

// NewEngine creates a new briefing engine instance
func NewEngine(
	config EngineConfig,
	aggregator sources.Aggregator,
	writer gpt.ScriptWriter,
	synthesizer tts.Synthesizer,
	store *artifact.Store,
) *Engine {
	if config.MaxPayloadBytes == 0 {
		config.MaxPayloadBytes = audio.DefaultMaxBytes
	}
	if config.NewAudioContext == nil {
		maxBytes := config.MaxPayloadBytes
		config.NewAudioContext = func() AudioContext {
			return audio.NewContext(audio.Options{MaxBytes: maxBytes})
		}
	}

	return &Engine{
		config:      config,
		aggregator:  aggregator,
		writer:      writer,
		synthesizer: synthesizer,
		store:       store,
		slot:        artifact.NewSlot(store),
		state:       State{Stage: StageIdle}.clone(),
		subs:        make(map[int]func(State)),
	}
}

// Voices returns the voices the configured synthesizer accepts.
func (e *Engine) Voices() []tts.Voice {
	return e.synthesizer.Voices()
}

// Generate runs a full briefing for the comma-separated tickers in input.
//
// A call made while another run is in flight returns ErrBusy and changes
// nothing. Every other failure is reported as an *Error, leaves the engine
// idle with State.Error set and clears any previously published artifact.
func (e *Engine) Generate(ctx context.Context, input string, voice tts.Voice) (State, error) {
	st, voice, err := e.begin(input, voice)
	if err != nil {
		return st, err
	}
	tickers := st.Tickers

	defer func() {
		if r := recover(); r != nil {
			e.fail(e.State().Stage, KindCollaborator, fmt.Errorf("panic: %v", r))
			panic(r)
		}
	}()

	slog.Info("engine: generation started", "tickers", tickers, "voice", voice)

	res, err := e.aggregator.Aggregate(ctx, tickers)
	if err != nil {
		return e.fail(StageFetchingSources, KindCollaborator, err)
	}
	if res == nil {
		return e.fail(StageFetchingSources, KindCollaborator, errors.New("no intelligence received"))
	}
	e.transition(func(s State) State {
		s.Stage = StageGeneratingScript
		s.Sources = res.Sources
		return s
	})

	script, err := e.writer.WriteScript(ctx, res.Content, tickers)
	if err != nil {
		return e.fail(StageGeneratingScript, KindCollaborator, err)
	}
	e.transition(func(s State) State {
		s.Stage = StageGeneratingAudio
		s.Script = script
		return s
	})

	speech, err := e.synthesizer.Synthesize(ctx, script, voice)
	if err != nil {
		return e.fail(StageGeneratingAudio, KindCollaborator, err)
	}
	if speech == nil {
		return e.fail(StageGeneratingAudio, KindCollaborator, errors.New("no audio data received"))
	}

	blob, err := e.finish(ctx, speech)
	if err != nil {
		return e.fail(StageGeneratingAudio, KindDecode, err)
	}

	a := e.store.Publish(blob, wav.MIMEType, wav.Ext)
	e.slot.Replace(a)
	st = e.transition(func(s State) State {
		s.Stage = StageIdle
		s.Artifact = a
		return s
	})

	slog.Info("engine: generation finished", "artifact", a.ID, "bytes", a.Size, "sources", len(st.Sources))
	return st, nil
}

// begin validates the request and moves the engine out of idle. The busy
// check and the transition happen under one lock.
func (e *Engine) begin(input string, voice tts.Voice) (State, tts.Voice, error) {
	e.mu.Lock()
	if e.state.Busy() {
		cur := e.state.clone()
		e.mu.Unlock()
		slog.Warn("engine: generation refused, run in flight", "stage", cur.Stage)
		return cur, "", ErrBusy
	}

	// The previous result is superseded as soon as a new run is requested.
	e.slot.Clear()

	tickers, err := ParseTickers(input)
	if err == nil {
		voice, err = e.resolveVoice(voice)
	}
	next := State{Stage: StageFetchingSources, Tickers: tickers}
	if err != nil {
		next = State{Stage: StageIdle, Error: err.Error()}
	}
	subs := e.setLocked(next)
	e.mu.Unlock()

	notify(subs, next)
	return next.clone(), voice, err
}

func (e *Engine) resolveVoice(voice tts.Voice) (tts.Voice, error) {
	v, err := tts.ParseVoice(string(voice), e.synthesizer.Voices())
	if err != nil {
		return "", &Error{Kind: KindValidation, Stage: StageIdle, Err: err}
	}
	return v, nil
}

// finish turns the speech payload into a WAVE file. The audio context is
// released on every path out of this function.
func (e *Engine) finish(ctx context.Context, speech *tts.Speech) ([]byte, error) {
	actx := e.config.NewAudioContext()
	defer func() {
		if actx.State() == audio.ContextClosed {
			return
		}
		if err := actx.Close(); err != nil {
			slog.Warn("engine: failed to close audio context", "err", err)
		}
	}()

	w, err := actx.Decode(ctx, speech.Audio, speech.Codec)
	if err != nil {
		return nil, err
	}
	slog.Debug("engine: speech decoded", "frames", w.Frames(), "rate", w.SampleRate, "duration", w.Duration())
	return wav.Encode(w), nil
}

func (e *Engine) fail(stage Stage, kind Kind, err error) (State, error) {
	ge := &Error{Kind: kind, Stage: stage, Err: err}
	e.slot.Clear()
	st := e.transition(func(s State) State {
		return State{Stage: StageIdle, Tickers: s.Tickers, Error: ge.Error()}
	})
	slog.Error("engine: generation failed", "stage", stage, "kind", kind, "err", err)
	return st, ge
}

// transition replaces the state with fn(current) and notifies subscribers.
func (e *Engine) transition(fn func(State) State) State {
	e.mu.Lock()
	next := fn(e.state.clone())
	subs := e.setLocked(next)
	e.mu.Unlock()

	notify(subs, next)
	return next.clone()
}

func (e *Engine) setLocked(next State) []func(State) {
	e.state = next.clone()
	slog.Debug("engine: stage", "stage", next.Stage)

	subs := make([]func(State), 0, len(e.subs))
	for _, fn := range e.subs {
		subs = append(subs, fn)
	}
	return subs
}

func notify(subs []func(State), s State) {
	for _, fn := range subs {
		fn(s.clone())
	}
}

// State returns a snapshot of the current state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.clone()
}

// Subscribe registers fn to receive every state transition. The returned
// function removes the subscription. fn must not call Generate.
func (e *Engine) Subscribe(fn func(State)) (cancel func()) {
	e.mu.Lock()
	id := e.nextSub
	e.nextSub++
	e.subs[id] = fn
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.subs, id)
		e.mu.Unlock()
	}
}

// Close releases the current artifact and the synthesizer.
func (e *Engine) Close() error {
	e.slot.Clear()
	if err := e.synthesizer.Close(); err != nil {
		return fmt.Errorf("failed to close TTS client: %w", err)
	}
	return nil
}
