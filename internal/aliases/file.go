package aliases

import (
	"encoding/json"
	"errors"
	"fmt"
	log "log/slog"
	"os"
	"path/filepath"
)

const DefaultFile = "app_aliases.json"

// Load builds a table from defaults and overlays the file at path.
// A missing or malformed file is not an error: the defaults are returned.
func Load(path string, defaults Layer) *Table {
	t := NewTable(defaults)

	stored, err := readFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Debug("No alias file, using defaults", "path", path)
		} else {
			log.Warn("Ignoring alias file", "path", path, "err", err)
		}
		return t
	}

	t.Overlay(stored)
	return t
}

func readFile(path string) (Layer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Decode loosely: entries that are not phrase -> name objects are skipped.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	out := make(Layer, len(raw))
	for goos, msg := range raw {
		var mapping map[string]string
		if err := json.Unmarshal(msg, &mapping); err != nil {
			log.Debug("Skipping alias section", "os", goos, "err", err)
			continue
		}
		out[goos] = mapping
	}

	return out, nil
}

// Save writes the merged table to path. The write goes through a temp
// file in the same directory so a crash never leaves a truncated file.
func Save(path string, t *Table) error {
	data, err := json.MarshalIndent(t.Merged(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode aliases: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".aliases-*.json")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}

	return nil
}

// DefaultPath returns app_aliases.json next to the running executable,
// or in the working directory when the executable cannot be located.
func DefaultPath() string {
	exe, err := os.Executable()
	if err != nil {
		return DefaultFile
	}
	return filepath.Join(filepath.Dir(exe), DefaultFile)
}

// Store is a table bound to its file. Every mutation is saved at once.
type Store struct {
	*Table
	path string
}

func Open(path string) *Store {
	return &Store{Table: Load(path, Defaults()), path: path}
}

func (s *Store) Path() string { return s.path }

// Learn records phrase -> app for goos and persists the table. The alias is
// kept in memory even when the save fails.
func (s *Store) Learn(goos, phrase, app string) error {
	s.Set(goos, phrase, app)
	if err := Save(s.path, s.Table); err != nil {
		return fmt.Errorf("save aliases: %w", err)
	}
	log.Info("Learned alias", "os", goos, "phrase", Normalize(phrase), "app", app)
	return nil
}

// Forget removes a learned alias and persists the table.
func (s *Store) Forget(goos, phrase string) (bool, error) {
	if !s.Remove(goos, phrase) {
		return false, nil
	}
	if err := Save(s.path, s.Table); err != nil {
		return true, fmt.Errorf("save aliases: %w", err)
	}
	return true, nil
}
