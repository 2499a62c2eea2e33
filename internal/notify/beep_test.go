package notify

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recPlayer struct {
	played []string
	err    error
}

func (r *recPlayer) PlayFile(_ context.Context, path string) error {
	r.played = append(r.played, path)
	return r.err
}

func TestNewChimeMissingFile(t *testing.T) {
	assert.Nil(t, NewChime("", &recPlayer{}))
	assert.Nil(t, NewChime(filepath.Join(t.TempDir(), "nope.mp3"), &recPlayer{}))
}

func TestChimePlays(t *testing.T) {
	path := filepath.Join(t.TempDir(), "beep.mp3")
	require.NoError(t, os.WriteFile(path, []byte("ID3"), 0o644))

	p := &recPlayer{err: errors.New("no device")}
	c := NewChime(path, p)
	require.NotNil(t, c)

	c.Play(context.Background())
	assert.Equal(t, []string{path}, p.played)
}
