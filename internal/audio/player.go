package audio

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
)

const outputRate beep.SampleRate = 44100

// Player plays MP3 through a speaker initialized once at a fixed rate;
// streams at other rates are resampled.
type Player struct {
	once    sync.Once
	initErr error

	mu sync.Mutex
}

func NewPlayer() *Player { return &Player{} }

func (p *Player) init() error {
	p.once.Do(func() {
		p.initErr = speaker.Init(outputRate, outputRate.N(time.Second/10))
	})
	return p.initErr
}

// PlayMP3 blocks until r is fully played or ctx is done.
func (p *Player) PlayMP3(ctx context.Context, r io.Reader) error {
	if err := p.init(); err != nil {
		return fmt.Errorf("speaker init: %w", err)
	}

	rc, ok := r.(io.ReadCloser)
	if !ok {
		rc = io.NopCloser(r)
	}

	streamer, format, err := mp3.Decode(rc)
	if err != nil {
		return fmt.Errorf("decode mp3: %w", err)
	}
	defer streamer.Close()

	p.mu.Lock()
	defer p.mu.Unlock()

	var s beep.Streamer = streamer
	if format.SampleRate != outputRate {
		s = beep.Resample(4, format.SampleRate, outputRate, streamer)
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(s, beep.Callback(func() {
		close(done)
	})))

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		speaker.Clear()
		return ctx.Err()
	}
}

func (p *Player) PlayFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return p.PlayMP3(ctx, f)
}
