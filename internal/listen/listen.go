// Package listen turns one microphone capture into at most one transcript.
//
// Every miss is reported as an error wrapping one of ErrWaitTimeout,
// ErrNoMatch or ErrService so callers can log the cause while treating
// all three alike.
package listen

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"regexp"
	"strings"
	"time"
)

var (
	ErrWaitTimeout = errors.New("no speech before timeout")
	ErrNoMatch     = errors.New("speech not recognized")
	ErrService     = errors.New("recognizer failed")
)

// Options bounds a single listen. Timeout is how long to wait for speech
// to start (0 waits forever); PhraseLimit caps the utterance length.
type Options struct {
	Timeout     time.Duration
	PhraseLimit time.Duration
}

var (
	IdleOptions       = Options{PhraseLimit: 4 * time.Second}
	CommandOptions    = Options{Timeout: 8 * time.Second, PhraseLimit: 7 * time.Second}
	CorrectionOptions = Options{PhraseLimit: 6 * time.Second}
)

// Recorder captures mono 16 kHz samples. It returns an empty slice when no
// speech started before timeout.
type Recorder interface {
	Record(ctx context.Context, timeout, phraseLimit time.Duration) ([]float32, error)
}

type Transcriber interface {
	Transcribe(ctx context.Context, pcm16k []float32) (string, error)
}

// Microphone couples a recorder with a transcriber.
type Microphone struct {
	rec Recorder
	tr  Transcriber

	// Dump, when set, receives every non-empty capture.
	Dump func(pcm16k []float32)
}

func NewMicrophone(rec Recorder, tr Transcriber) *Microphone {
	return &Microphone{rec: rec, tr: tr}
}

func (m *Microphone) Listen(ctx context.Context, opt Options) (string, error) {
	pcm, err := m.rec.Record(ctx, opt.Timeout, opt.PhraseLimit)
	if err != nil {
		return "", fmt.Errorf("%w: record: %v", ErrService, err)
	}
	if len(pcm) == 0 {
		return "", ErrWaitTimeout
	}

	if m.Dump != nil {
		m.Dump(pcm)
	}

	start := time.Now()
	raw, err := m.tr.Transcribe(ctx, pcm)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrService, err)
	}
	log.Debug("Transcribed", "raw", raw, "took", time.Since(start))

	text := Clean(raw)
	if text == "" {
		return "", ErrNoMatch
	}

	return text, nil
}

var annotationRe = regexp.MustCompile(`\[[^\]]*\]|\([^)]*\)|\*[^*]*\*`)

// sentencePunct is what the recognizer wraps around an utterance. Only the
// ends are trimmed so "google.com" survives.
const sentencePunct = ".!?,;:…\"' \t\n"

// Clean drops recognizer annotations such as "[BLANK_AUDIO]" or "(music)",
// trims sentence punctuation from both ends and collapses whitespace.
func Clean(raw string) string {
	s := annotationRe.ReplaceAllString(raw, " ")
	s = strings.Trim(s, sentencePunct)
	return strings.Join(strings.Fields(s), " ")
}
