// Package vad splits a stream of fixed-size frames into one utterance using
// an energy threshold.
package vad

import (
	"math"
	"time"
)

const (
	DefaultThreshold = 0.015
	DefaultSilence   = 600 * time.Millisecond
	DefaultPreRoll   = 200 * time.Millisecond

	// ambient RMS is scaled by this to get the speech threshold
	calibrationFactor = 1.5
)

type Status int

const (
	Waiting Status = iota
	Speaking
	Done
	TimedOut
)

func (s Status) String() string {
	switch s {
	case Waiting:
		return "waiting"
	case Speaking:
		return "speaking"
	case Done:
		return "done"
	case TimedOut:
		return "timed-out"
	}
	return "unknown"
}

type Config struct {
	SampleRate int
	Threshold  float64
	Silence    time.Duration // trailing quiet that ends an utterance
	PreRoll    time.Duration // audio kept from before speech started
	Timeout    time.Duration // 0 waits forever for speech to start
	Limit      time.Duration // 0 means no cap on utterance length
}

type Segmenter struct {
	cfg Config

	status  Status
	waited  time.Duration
	spoken  time.Duration
	silent  time.Duration
	preroll [][]float32
	kept    time.Duration
	out     []float32
}

func New(cfg Config) *Segmenter {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.Silence <= 0 {
		cfg.Silence = DefaultSilence
	}
	return &Segmenter{cfg: cfg}
}

// Feed consumes one frame and reports the state after it. The frame is
// copied. Frames fed after Done or TimedOut are ignored.
func (s *Segmenter) Feed(frame []float32) Status {
	if s.status == Done || s.status == TimedOut || len(frame) == 0 {
		return s.status
	}

	dur := time.Duration(len(frame)) * time.Second / time.Duration(s.cfg.SampleRate)
	loud := RMS(frame) > s.cfg.Threshold

	switch s.status {
	case Waiting:
		if !loud {
			s.waited += dur
			s.remember(frame, dur)
			if s.cfg.Timeout > 0 && s.waited >= s.cfg.Timeout {
				s.status = TimedOut
			}
			return s.status
		}

		s.status = Speaking
		for _, f := range s.preroll {
			s.out = append(s.out, f...)
		}
		s.preroll = nil
		fallthrough

	case Speaking:
		s.out = append(s.out, frame...)
		s.spoken += dur
		if loud {
			s.silent = 0
		} else {
			s.silent += dur
		}

		if s.silent >= s.cfg.Silence || (s.cfg.Limit > 0 && s.spoken >= s.cfg.Limit) {
			s.status = Done
		}
	}

	return s.status
}

func (s *Segmenter) remember(frame []float32, dur time.Duration) {
	if s.cfg.PreRoll <= 0 {
		return
	}
	s.preroll = append(s.preroll, append([]float32(nil), frame...))
	s.kept += dur
	for s.kept > s.cfg.PreRoll && len(s.preroll) > 1 {
		first := s.preroll[0]
		s.kept -= time.Duration(len(first)) * time.Second / time.Duration(s.cfg.SampleRate)
		s.preroll = s.preroll[1:]
	}
}

func (s *Segmenter) Status() Status { return s.status }

// Samples returns the utterance; it is empty unless speech started.
func (s *Segmenter) Samples() []float32 {
	if s.status == Waiting || s.status == TimedOut {
		return nil
	}
	return s.out
}

func RMS(f []float32) float64 {
	if len(f) == 0 {
		return 0
	}
	var sum float64
	for _, x := range f {
		sum += float64(x * x)
	}
	return math.Sqrt(sum / float64(len(f)))
}

// Calibrated derives a speech threshold from the mean RMS of ambient
// frames, never going below floor.
func Calibrated(ambient [][]float32, floor float64) float64 {
	if len(ambient) == 0 {
		return floor
	}
	var sum float64
	for _, f := range ambient {
		sum += RMS(f)
	}
	return math.Max(floor, sum/float64(len(ambient))*calibrationFactor)
}
