package stt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"
	"sync"

	"github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
)

type Options struct {
	Language      string // "en" when empty; "auto" detects
	Threads       int    // <=0 => NumCPU()
	InitialPrompt string // biases decoding towards expected words
	BeamSize      int    // 0 = greedy
	SplitOnWord   bool
}

// Transcriber runs offline recognition with a whisper.cpp model.
type Transcriber struct {
	model whisper.Model
	opt   Options

	// whisper contexts are not safe to run concurrently on one model
	mu sync.Mutex
}

func NewTranscriber(modelPath string, opt Options) (*Transcriber, error) {
	if modelPath == "" {
		return nil, errors.New("empty model path")
	}
	if opt.Language == "" {
		opt.Language = "en"
	}
	if opt.Threads <= 0 {
		opt.Threads = runtime.NumCPU()
	}

	m, err := whisper.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	return &Transcriber{model: m, opt: opt}, nil
}

func (t *Transcriber) Close() error {
	if t.model == nil {
		return nil
	}
	return t.model.Close()
}

// Transcribe returns the joined segment text. pcm16k must be mono @ 16 kHz,
// float32 in [-1, 1].
func (t *Transcriber) Transcribe(ctx context.Context, pcm16k []float32) (string, error) {
	if t.model == nil {
		return "", errors.New("nil model")
	}
	if len(pcm16k) == 0 {
		return "", errors.New("no audio samples provided")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	wctx, err := t.model.NewContext()
	if err != nil {
		return "", fmt.Errorf("new context: %w", err)
	}

	if err := wctx.SetLanguage(t.opt.Language); err != nil {
		return "", fmt.Errorf("set language: %w", err)
	}
	wctx.SetTranslate(false)
	wctx.SetThreads(uint(t.opt.Threads))

	if t.opt.SplitOnWord {
		wctx.SetSplitOnWord(true)
	}
	if t.opt.BeamSize > 0 {
		wctx.SetBeamSize(t.opt.BeamSize)
	}
	if t.opt.InitialPrompt != "" {
		wctx.SetInitialPrompt(t.opt.InitialPrompt)
	}

	if err := wctx.Process(pcm16k, nil, nil, nil); err != nil {
		return "", fmt.Errorf("process: %w", err)
	}

	var parts []string
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		s, err := wctx.NextSegment()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("next segment: %w", err)
		}
		if text := strings.TrimSpace(s.Text); text != "" {
			parts = append(parts, text)
		}
	}

	return strings.Join(parts, " "), nil
}
