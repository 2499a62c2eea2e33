package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sucu/internal/aliases"
)

func TestSetAndRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), aliases.DefaultFile)
	store := aliases.Open(path)

	require.NoError(t, run(store, "darwin", false, []string{"set", "My", "Notes", "=", "Obsidian"}))
	assert.Equal(t, "Obsidian", aliases.Open(path).Resolve("darwin", "my notes"))

	require.NoError(t, run(store, "darwin", false, []string{"remove", "my", "notes"}))
	assert.Equal(t, "my notes", aliases.Open(path).Resolve("darwin", "my notes"))
}

func TestRunErrors(t *testing.T) {
	store := aliases.Open(filepath.Join(t.TempDir(), aliases.DefaultFile))

	assert.Error(t, run(store, "darwin", false, []string{"set", "notes"}))
	assert.Error(t, run(store, "darwin", false, []string{"remove"}))
	assert.Error(t, run(store, "darwin", false, []string{"remove", "never", "learned"}))
	assert.Error(t, run(store, "darwin", false, []string{"rename"}))
	assert.NoError(t, run(store, "darwin", true, []string{"list"}))
}
