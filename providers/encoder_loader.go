package providers

import (
	"context"
	"log/slog"
	"sync"

	"semsearch.app/pkg/errors"
)

// LoadState enumerates the encoder acquisition lifecycle. The transitions
// are Unloaded -> Primary, Unloaded -> Fallback (when the primary factory
// fails), and Unloaded -> Failed (when both fail). Failed is terminal until
// Reset.
type LoadState int

const (
	StateUnloaded LoadState = iota
	StatePrimary
	StateFallback
	StateFailed
)

func (s LoadState) String() string {
	switch s {
	case StatePrimary:
		return "primary"
	case StateFallback:
		return "fallback"
	case StateFailed:
		return "failed"
	default:
		return "unloaded"
	}
}

// EncoderFactory produces a ready encoder, typically by loading a model.
type EncoderFactory func(ctx context.Context) (Encoder, error)

// EncoderLoader acquires an on-device encoder through an explicit two-step
// state machine: try the primary model, fall back to the secondary on
// failure, and give up when both fail. Keeping the states enumerable beats
// nesting the fallback inside error handlers.
type EncoderLoader struct {
	mu       sync.Mutex
	primary  EncoderFactory
	fallback EncoderFactory
	state    LoadState
	encoder  Encoder
}

func NewEncoderLoader(primary, fallback EncoderFactory) *EncoderLoader {
	return &EncoderLoader{
		primary:  primary,
		fallback: fallback,
	}
}

// Load returns the loaded encoder, acquiring it on first use. Subsequent
// calls return the cached encoder, or the terminal failure until Reset.
func (l *EncoderLoader) Load(ctx context.Context) (Encoder, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.state {
	case StatePrimary, StateFallback:
		return l.encoder, nil
	case StateFailed:
		return nil, errors.NewEncodeError("encoder previously failed to load", nil)
	}

	encoder, err := l.primary(ctx)
	if err == nil {
		l.state = StatePrimary
		l.encoder = encoder
		slog.Info("encoder loaded", "state", l.state.String(), "model", encoder.Model())
		return encoder, nil
	}
	slog.Warn("primary encoder failed to load, trying fallback", "error", err)

	if l.fallback == nil {
		l.state = StateFailed
		return nil, errors.NewEncodeError("primary encoder failed and no fallback configured", err)
	}

	encoder, fallbackErr := l.fallback(ctx)
	if fallbackErr == nil {
		l.state = StateFallback
		l.encoder = encoder
		slog.Info("encoder loaded", "state", l.state.String(), "model", encoder.Model())
		return encoder, nil
	}

	l.state = StateFailed
	slog.Error("fallback encoder failed to load", "error", fallbackErr)
	return nil, errors.NewEncodeError("all encoders failed to load", fallbackErr)
}

// State reports the current lifecycle state.
func (l *EncoderLoader) State() LoadState {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.state
}

// Reset returns the loader to Unloaded so the next Load retries from scratch.
func (l *EncoderLoader) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.state = StateUnloaded
	l.encoder = nil
}
