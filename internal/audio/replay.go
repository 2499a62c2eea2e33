package audio

import (
	"context"
	log "log/slog"
	"sync"
	"time"

	"sucu/pkg/audioconv"
)

// Replay stands in for the microphone by handing out one audio file per
// Record call. Once the files run out it calls Drained and blocks until
// ctx is done.
type Replay struct {
	Drained func()

	mu    sync.Mutex
	files []string
}

func NewReplay(files []string) *Replay {
	return &Replay{files: append([]string(nil), files...)}
}

func (r *Replay) Record(ctx context.Context, _, phraseLimit time.Duration) ([]float32, error) {
	r.mu.Lock()
	if len(r.files) == 0 {
		r.mu.Unlock()
		if r.Drained != nil {
			r.Drained()
		}
		<-ctx.Done()
		return nil, ctx.Err()
	}
	path := r.files[0]
	r.files = r.files[1:]
	r.mu.Unlock()

	pcm, err := audioconv.DecodeFile(path)
	if err != nil {
		return nil, err
	}

	if limit := int(phraseLimit.Seconds() * SampleRate); phraseLimit > 0 && len(pcm) > limit {
		pcm = pcm[:limit]
	}

	log.Info("Replaying", "file", path, "samples", len(pcm))
	return pcm, nil
}
