package audio

import (
	"context"
	log "log/slog"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"

	"sucu/internal/audio/vad"
)

const (
	SampleRate = 16000
	frameSize  = 320 // 20ms
)

// Recorder captures from the default input device. A stream is opened per
// Record call so the device is released between listens.
type Recorder struct {
	mu        sync.Mutex
	threshold float64
}

func NewRecorder() *Recorder { return &Recorder{threshold: vad.DefaultThreshold} }

func (r *Recorder) Init() error {
	return portaudio.Initialize()
}

func (r *Recorder) Close() {
	portaudio.Terminate()
}

func (r *Recorder) Threshold() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.threshold
}

// Calibrate samples ambient noise for d and raises the speech threshold
// above it.
func (r *Recorder) Calibrate(d time.Duration) error {
	buf := make([]float32, frameSize)

	stream, err := openInput(buf)
	if err != nil {
		return err
	}
	defer stream.Close()
	defer stream.Stop()

	n := int(d / (20 * time.Millisecond))
	ambient := make([][]float32, 0, n)
	for i := 0; i < n; i++ {
		if err := stream.Read(); err != nil {
			return err
		}
		ambient = append(ambient, append([]float32(nil), buf...))
	}

	th := vad.Calibrated(ambient, vad.DefaultThreshold)

	r.mu.Lock()
	r.threshold = th
	r.mu.Unlock()

	log.Info("Calibrated microphone", "threshold", th, "frames", n)
	return nil
}

// Record waits up to timeout for speech to start and returns the utterance,
// capped at phraseLimit. It returns an empty slice when nobody spoke.
func (r *Recorder) Record(ctx context.Context, timeout, phraseLimit time.Duration) ([]float32, error) {
	buf := make([]float32, frameSize)

	stream, err := openInput(buf)
	if err != nil {
		return nil, err
	}
	defer stream.Close()
	defer stream.Stop()

	seg := vad.New(vad.Config{
		SampleRate: SampleRate,
		Threshold:  r.Threshold(),
		PreRoll:    vad.DefaultPreRoll,
		Timeout:    timeout,
		Limit:      phraseLimit,
	})

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := stream.Read(); err != nil {
			// overflow only means frames were dropped
			if err != portaudio.InputOverflowed {
				return nil, err
			}
		}

		switch seg.Feed(buf) {
		case vad.TimedOut:
			return nil, nil
		case vad.Done:
			out := seg.Samples()
			log.Debug("Recorded", "samples", len(out), "seconds", float64(len(out))/SampleRate)
			return out, nil
		}
	}
}

func openInput(buf []float32) (*portaudio.Stream, error) {
	stream, err := portaudio.OpenDefaultStream(1, 0, SampleRate, len(buf), buf)
	if err != nil {
		return nil, err
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		return nil, err
	}

	return stream, nil
}
