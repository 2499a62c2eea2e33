package notify

import (
	"context"
	log "log/slog"
	"os"
)

// FilePlayer plays an mp3 file to completion.
type FilePlayer interface {
	PlayFile(ctx context.Context, path string) error
}

// Chime plays a short sound when the assistant starts listening for a
// command.
type Chime struct {
	path   string
	player FilePlayer
}

// NewChime returns nil when path does not exist, so the wake hook can be
// skipped entirely.
func NewChime(path string, player FilePlayer) *Chime {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		log.Warn("Chime disabled", "path", path, "err", err)
		return nil
	}
	return &Chime{path: path, player: player}
}

// Play never fails the caller; a broken chime is only logged.
func (c *Chime) Play(ctx context.Context) {
	if err := c.player.PlayFile(ctx, c.path); err != nil {
		log.Warn("Failed to play chime", "path", c.path, "err", err)
	}
}
