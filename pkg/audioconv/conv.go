// Package audioconv moves speech between files and the mono 16 kHz float32
// samples the recognizer consumes.
package audioconv

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	popus "github.com/pekim/opus"
)

const TargetRate = 16000

var ErrUnsupported = errors.New("unsupported audio format")

// clip is decoded audio before it is brought to the target rate.
type clip struct {
	samples  []float32 // interleaved
	channels int
	rate     int
}

type decoder func(io.ReadSeeker) (clip, error)

var byExt = map[string]decoder{
	".wav":  decodeWAV,
	".mp3":  decodeMP3,
	".ogg":  decodeOgg,
	".oga":  decodeOgg,
	".opus": decodeOpus,
}

var byMagic = map[string]decoder{
	"RIFF":    decodeWAV,
	"OggS":    decodeOgg,
	"ID3\x03": decodeMP3,
	"ID3\x04": decodeMP3,
}

// DecodeFile reads a wav, mp3, ogg/vorbis or ogg/opus file and returns mono
// samples at TargetRate. Unknown extensions are sniffed by magic bytes.
func DecodeFile(path string) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, ok := byExt[strings.ToLower(filepath.Ext(path))]
	if !ok {
		magic, _ := bufio.NewReader(f).Peek(4)
		if dec, ok = sniff(magic); !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnsupported, path)
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
	}

	c, err := dec(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return toTarget(c), nil
}

func sniff(magic []byte) (decoder, bool) {
	if dec, ok := byMagic[string(magic)]; ok {
		return dec, true
	}
	if isMPEGFrameSync(magic) {
		return decodeMP3, true
	}
	return nil, false
}

// isMPEGFrameSync matches an untagged mp3 starting with an MPEG-1/2 layer
// III frame header (0xFF then 0xFB/0xFA for MPEG-1, 0xF3/0xF2 for MPEG-2).
func isMPEGFrameSync(magic []byte) bool {
	if len(magic) < 2 || magic[0] != 0xFF {
		return false
	}
	switch magic[1] {
	case 0xFB, 0xFA, 0xF3, 0xF2:
		return true
	}
	return false
}

func toTarget(c clip) []float32 {
	x := Downmix(c.samples, c.channels)
	return Resample(x, c.rate, TargetRate)
}

func decodeWAV(r io.ReadSeeker) (clip, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return clip{}, errors.New("invalid wav")
	}

	pb, err := dec.FullPCMBuffer()
	if err != nil {
		return clip{}, err
	}
	if pb == nil || len(pb.Data) == 0 {
		return clip{}, errors.New("empty wav")
	}

	bd := int(dec.BitDepth)
	if bd == 0 {
		bd = 16
	}

	c := clip{samples: intsToFloat32(pb.Data, bd), channels: 1, rate: 44100}
	if pb.Format != nil {
		if pb.Format.NumChannels > 0 {
			c.channels = pb.Format.NumChannels
		}
		if pb.Format.SampleRate > 0 {
			c.rate = pb.Format.SampleRate
		}
	}
	return c, nil
}

func decodeMP3(r io.ReadSeeker) (clip, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return clip{}, err
	}

	var raw bytes.Buffer
	if _, err := io.Copy(&raw, dec); err != nil {
		return clip{}, err
	}

	ints := make([]int16, raw.Len()/2)
	if err := binary.Read(&raw, binary.LittleEndian, ints); err != nil {
		return clip{}, err
	}

	rate := dec.SampleRate()
	if rate <= 0 {
		rate = 44100
	}
	// the decoder always emits 16-bit stereo
	return clip{samples: int16sToFloat32(ints), channels: 2, rate: rate}, nil
}

// decodeOgg tries Vorbis first and falls back to Opus.
func decodeOgg(r io.ReadSeeker) (clip, error) {
	c, verr := decodeVorbis(r)
	if verr == nil {
		return c, nil
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return clip{}, err
	}
	c, oerr := decodeOpus(r)
	if oerr != nil {
		return clip{}, fmt.Errorf("neither vorbis (%v) nor opus (%w)", verr, oerr)
	}
	return c, nil
}

func decodeVorbis(r io.ReadSeeker) (clip, error) {
	pcm, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return clip{}, err
	}
	if format == nil || format.Channels <= 0 || format.SampleRate <= 0 {
		return clip{}, errors.New("invalid vorbis stream")
	}
	return clip{samples: pcm, channels: format.Channels, rate: format.SampleRate}, nil
}

func decodeOpus(r io.ReadSeeker) (clip, error) {
	dec, err := popus.NewDecoder(r)
	if err != nil {
		return clip{}, err
	}
	defer dec.Destroy()

	ch := dec.ChannelCount()
	if ch <= 0 {
		ch = 1
	}

	var (
		pcm []float32
		buf = make([]int16, 48000*ch/2)
	)
	for {
		// n counts samples per channel
		n, err := dec.Read(buf)
		if n > 0 {
			pcm = append(pcm, int16sToFloat32(buf[:n*ch])...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return clip{}, err
		}
	}

	// opusfile always decodes at 48 kHz
	return clip{samples: pcm, channels: ch, rate: 48000}, nil
}

func intsToFloat32(data []int, bitDepth int) []float32 {
	out := make([]float32, len(data))
	scale := 1.0 / float64(int64(1)<<(bitDepth-1))
	for i, v := range data {
		out[i] = float32(clamp(float64(v)*scale, -1, 1))
	}
	return out
}

func int16sToFloat32(data []int16) []float32 {
	out := make([]float32, len(data))
	for i, v := range data {
		out[i] = float32(v) / 32768
	}
	return out
}

// Downmix averages interleaved channels into mono.
func Downmix(in []float32, channels int) []float32 {
	if channels <= 1 {
		return in
	}
	n := len(in) / channels
	out := make([]float32, n)
	for i := range out {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += float64(in[i*channels+c])
		}
		out[i] = float32(sum / float64(channels))
	}
	return out
}

// Resample converts between rates with linear interpolation.
func Resample(in []float32, from, to int) []float32 {
	if from == to || len(in) == 0 {
		return in
	}
	ratio := float64(to) / float64(from)
	out := make([]float32, int(math.Ceil(float64(len(in))*ratio)))
	last := len(in) - 1
	for i := range out {
		src := float64(i) / ratio
		i0 := int(src)
		if i0 >= last {
			out[i] = in[last]
			continue
		}
		a := float32(src - float64(i0))
		out[i] = in[i0]*(1-a) + in[i0+1]*a
	}
	return out
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
