package listen

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecorder struct {
	pcm []float32
	err error

	timeout, phrase time.Duration
}

func (f *fakeRecorder) Record(_ context.Context, timeout, phraseLimit time.Duration) ([]float32, error) {
	f.timeout, f.phrase = timeout, phraseLimit
	return f.pcm, f.err
}

type fakeTranscriber struct {
	text string
	err  error
}

func (f *fakeTranscriber) Transcribe(context.Context, []float32) (string, error) {
	return f.text, f.err
}

func TestListenReturnsCleanText(t *testing.T) {
	rec := &fakeRecorder{pcm: make([]float32, 160)}
	mic := NewMicrophone(rec, &fakeTranscriber{text: "  Open up   Safari. "})

	var dumped int
	mic.Dump = func(pcm []float32) { dumped = len(pcm) }

	text, err := mic.Listen(context.Background(), CommandOptions)
	require.NoError(t, err)
	assert.Equal(t, "Open up Safari", text)
	assert.Equal(t, 160, dumped)
	assert.Equal(t, 8*time.Second, rec.timeout)
	assert.Equal(t, 7*time.Second, rec.phrase)
}

func TestListenOutcomes(t *testing.T) {
	cases := []struct {
		name string
		rec  *fakeRecorder
		tr   *fakeTranscriber
		want error
	}{
		{"timeout", &fakeRecorder{}, &fakeTranscriber{text: "never"}, ErrWaitTimeout},
		{"no match", &fakeRecorder{pcm: []float32{0.1}}, &fakeTranscriber{text: " [BLANK_AUDIO] "}, ErrNoMatch},
		{"recognizer", &fakeRecorder{pcm: []float32{0.1}}, &fakeTranscriber{err: errors.New("boom")}, ErrService},
		{"device", &fakeRecorder{err: errors.New("device busy")}, &fakeTranscriber{}, ErrService},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			text, err := NewMicrophone(tc.rec, tc.tr).Listen(context.Background(), IdleOptions)
			assert.ErrorIs(t, err, tc.want)
			assert.Empty(t, text)
		})
	}
}

func TestClean(t *testing.T) {
	assert.Equal(t, "hey sucu", Clean("[music] hey sucu (coughs)"))
	assert.Equal(t, "", Clean("*silence*"))
	assert.Equal(t, "open chrome", Clean("open\n chrome"))
	assert.Equal(t, "Stop", Clean(" Stop. "))
	assert.Equal(t, "Open Chrome", Clean("Open Chrome."))
	assert.Equal(t, "open google.com", Clean("open google.com!"))
	assert.Equal(t, "Hey Sucu, open notes", Clean("...Hey Sucu, open notes?"))
	assert.Equal(t, "", Clean("... [BLANK_AUDIO] ."))
}
