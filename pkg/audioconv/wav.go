package audioconv

import (
	"fmt"
	log "log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WriteWAV stores mono float32 samples as 16-bit PCM.
func WriteWAV(path string, pcm []float32, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)

	data := make([]int, len(pcm))
	for i, x := range pcm {
		data[i] = int(clamp(float64(x), -1, 1) * 32767)
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}

	if err := enc.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("finalize: %w", err)
	}
	return f.Close()
}

// Dumper writes each capture it is handed into Dir as a numbered WAV.
type Dumper struct {
	Dir string

	seq atomic.Uint64
	now func() time.Time
}

func NewDumper(dir string) (*Dumper, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Dumper{Dir: dir, now: time.Now}, nil
}

// Dump matches listen.Microphone.Dump; failures are logged, never returned.
func (d *Dumper) Dump(pcm []float32) {
	n := d.seq.Add(1)
	name := fmt.Sprintf("%s-%04d.wav", d.now().Format("20060102-150405"), n)
	path := filepath.Join(d.Dir, name)

	if err := WriteWAV(path, pcm, TargetRate); err != nil {
		log.Warn("Failed to dump capture", "path", path, "err", err)
		return
	}
	log.Debug("Dumped capture", "path", path, "samples", len(pcm))
}
