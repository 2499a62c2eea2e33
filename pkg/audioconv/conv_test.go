package audioconv

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ramp(n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(i%200)/100 - 1
	}
	return out
}

func TestWriteWAVHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cap.wav")
	require.NoError(t, WriteWAV(path, ramp(1600), TargetRate))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	dec := wav.NewDecoder(f)
	require.True(t, dec.IsValidFile())
	assert.Equal(t, uint32(TargetRate), dec.SampleRate)
	assert.Equal(t, uint16(1), dec.NumChans)
	assert.Equal(t, uint16(16), dec.BitDepth)

	d, err := dec.Duration()
	require.NoError(t, err)
	assert.InDelta(t, 0.1, d.Seconds(), 1e-3)
}

func TestDecodeFileWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cap.wav")
	in := ramp(800)
	require.NoError(t, WriteWAV(path, in, TargetRate))

	out, err := DecodeFile(path)
	require.NoError(t, err)
	require.Len(t, out, len(in))
	for i := range in {
		assert.InDelta(t, in[i], out[i], 1e-3)
	}
}

func TestDecodeFileResamples(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cap.wav")
	require.NoError(t, WriteWAV(path, ramp(3200), 32000))

	out, err := DecodeFile(path)
	require.NoError(t, err)
	assert.Len(t, out, 1600)
}

func TestDecodeFileSniffsMagic(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteWAV(filepath.Join(dir, "cap.wav"), ramp(160), TargetRate))
	require.NoError(t, os.Rename(filepath.Join(dir, "cap.wav"), filepath.Join(dir, "cap.bin")))

	out, err := DecodeFile(filepath.Join(dir, "cap.bin"))
	require.NoError(t, err)
	assert.Len(t, out, 160)
}

func TestSniff(t *testing.T) {
	cases := []struct {
		name  string
		magic []byte
		ok    bool
	}{
		{"riff", []byte("RIFF"), true},
		{"ogg", []byte("OggS"), true},
		{"id3", []byte("ID3\x04"), true},
		{"mpeg1 layer3", []byte{0xFF, 0xFB, 0x90, 0x64}, true},
		{"mpeg2 layer3", []byte{0xFF, 0xF3, 0x48, 0xC4}, true},
		{"mpeg2 layer3 no crc", []byte{0xFF, 0xF2, 0x48, 0xC4}, true},
		{"not sync", []byte{0xFF, 0x00, 0x00, 0x00}, false},
		{"short", []byte{0xFF}, false},
		{"text", []byte("hell"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := sniff(tc.magic)
			assert.Equal(t, tc.ok, ok)
		})
	}
}

func TestDecodeFileUntaggedMP3IsNotUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.bin")
	require.NoError(t, os.WriteFile(path, []byte{0xFF, 0xFB, 0x90, 0x64, 0, 0, 0, 0}, 0o644))

	_, err := DecodeFile(path)
	assert.NotErrorIs(t, err, ErrUnsupported)
}

func TestDecodeFileUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o644))

	_, err := DecodeFile(path)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestDownmix(t *testing.T) {
	assert.Equal(t, []float32{0.5, 0}, Downmix([]float32{1, 0, 0.5, -0.5}, 2))
	assert.Equal(t, []float32{1, 2}, Downmix([]float32{1, 2}, 1))
}

func TestResample(t *testing.T) {
	in := []float32{0, 1, 2, 3}

	assert.Equal(t, in, Resample(in, 16000, 16000))
	assert.Equal(t, []float32{0, 0.5, 1, 1.5, 2, 2.5, 3, 3}, Resample(in, 8000, 16000))
	assert.Equal(t, []float32{0, 2}, Resample(in, 32000, 16000))
}

func TestDumper(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dumps")
	d, err := NewDumper(dir)
	require.NoError(t, err)
	d.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	d.Dump(ramp(160))
	d.Dump(ramp(160))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "20260102-030405-0001.wav", entries[0].Name())
	assert.Equal(t, "20260102-030405-0002.wav", entries[1].Name())
}
