// Package tts speaks text through an ordered list of voices, falling
// through to the next one whenever a voice fails.
package tts

import (
	"context"
	"errors"
	"fmt"
	"io"
	log "log/slog"
	"time"
)

var ErrNoVoices = errors.New("no voices configured")

type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// Voice is one speech strategy in a Chain.
type Voice interface {
	Speaker
	Name() string
}

// Player plays an encoded MP3 stream to the default output device and
// blocks until playback ends.
type Player interface {
	PlayMP3(ctx context.Context, r io.Reader) error
}

type Chain struct {
	voices []Voice
}

// NewChain builds a chain. Untyped nil entries are dropped; a typed nil
// pointer inside a Voice is kept, so callers append only configured voices.
func NewChain(voices ...Voice) *Chain {
	c := &Chain{}
	for _, v := range voices {
		if v != nil {
			c.voices = append(c.voices, v)
		}
	}
	return c
}

// Names lists the voices in the order they are tried.
func (c *Chain) Names() []string {
	names := make([]string, len(c.voices))
	for i, v := range c.voices {
		names[i] = v.Name()
	}
	return names
}

func (c *Chain) Speak(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}
	if len(c.voices) == 0 {
		return ErrNoVoices
	}

	log.Info("Speaking", "text", text)

	var errs []error
	for _, v := range c.voices {
		start := time.Now()
		err := v.Speak(ctx, text)
		if err == nil {
			log.Debug("Spoke", "voice", v.Name(), "took", time.Since(start))
			return nil
		}

		log.Warn("Voice failed, falling through", "voice", v.Name(), "err", err)
		errs = append(errs, fmt.Errorf("%s: %w", v.Name(), err))
	}

	return errors.Join(errs...)
}
