package aliases

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"VSCode":                   "vscode",
		"  Visual   Studio\tCode ": "visual studio code",
		"":                         "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Normalize(in), "input %q", in)
	}
}

func TestResolveUsesNormalizedKey(t *testing.T) {
	tbl := NewTable(Layer{"darwin": {"vscode": "Visual Studio Code"}})

	assert.Equal(t, "Visual Studio Code", tbl.Resolve("darwin", "VSCode"))
	assert.Equal(t, "Visual Studio Code", tbl.Resolve("darwin", "  vscode "))
	assert.Equal(t, "Emacs", tbl.Resolve("darwin", "Emacs"))
}

func TestResolveUnknownOS(t *testing.T) {
	tbl := NewTable(Defaults())

	assert.Equal(t, "google", tbl.Resolve("plan9", "google"))
	_, ok := tbl.Lookup("plan9", "google")
	assert.False(t, ok)
}

func TestOverrideBeatsDefault(t *testing.T) {
	tbl := NewTable(Defaults())
	tbl.Set("darwin", "Chrome", "Chromium")

	assert.Equal(t, "Chromium", tbl.Resolve("darwin", "chrome"))
	assert.Equal(t, "chrome", tbl.Resolve("windows", "chrome"))

	require.True(t, tbl.Remove("darwin", "CHROME"))
	assert.Equal(t, "Google Chrome", tbl.Resolve("darwin", "chrome"))
	assert.False(t, tbl.Remove("darwin", "chrome"), "defaults are not removable")
}

func TestSetDoesNotTouchDefaults(t *testing.T) {
	defaults := Defaults()
	tbl := NewTable(defaults)
	tbl.Set("darwin", "calculator", "PCalc")

	assert.Equal(t, "Calculator", defaults["darwin"]["calculator"])
	assert.Equal(t, "PCalc", tbl.Merged()["darwin"]["calculator"])
}

func TestMergedAddsUnknownOS(t *testing.T) {
	tbl := NewTable(Defaults())
	tbl.Set("linux", "editor", "gedit")

	merged := tbl.Merged()
	assert.Equal(t, "gedit", merged["linux"]["editor"])
	assert.Equal(t, "calc", merged["windows"]["calculator"])
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)

	tbl := NewTable(Defaults())
	tbl.Set("darwin", "xzyapp", "text editor")
	tbl.Set("windows", "Paint", "mspaint")
	require.NoError(t, Save(path, tbl))

	loaded := Load(path, Defaults()).Merged()

	for goos, mapping := range Defaults() {
		for k := range mapping {
			assert.Contains(t, loaded[goos], k)
		}
	}
	assert.Equal(t, "text editor", loaded["darwin"]["xzyapp"])
	assert.Equal(t, "mspaint", loaded["windows"]["paint"])
}

func TestLoadMissingFile(t *testing.T) {
	tbl := Load(filepath.Join(t.TempDir(), "nope.json"), Defaults())

	assert.Equal(t, Defaults(), tbl.Merged())
	assert.Empty(t, tbl.Overrides())
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	tbl := Load(path, Defaults())
	assert.Equal(t, Defaults(), tbl.Merged())
}

func TestLoadSkipsBadSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	body := `{"darwin": {"Term": "iTerm"}, "windows": 42}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	tbl := Load(path, Defaults())
	assert.Equal(t, "iTerm", tbl.Resolve("darwin", "term"))
	assert.Equal(t, "calc", tbl.Resolve("windows", "calculator"))
}

func TestStoreLearnPersistsImmediately(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	store := Open(path)

	require.NoError(t, store.Learn("darwin", "XzyApp", "text editor"))

	reloaded := Open(path)
	assert.Equal(t, "text editor", reloaded.Resolve("darwin", "xzyapp"))
}

func TestStoreLearnKeepsAliasWhenSaveFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", DefaultFile)
	store := Open(path)

	err := store.Learn("windows", "paint", "mspaint")
	assert.Error(t, err)
	assert.Equal(t, "mspaint", store.Resolve("windows", "paint"))
}

func TestStoreForget(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	store := Open(path)
	require.NoError(t, store.Learn("darwin", "term", "iTerm"))

	removed, err := store.Forget("darwin", "Term")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, "term", Open(path).Resolve("darwin", "term"))

	removed, err = store.Forget("darwin", "term")
	require.NoError(t, err)
	assert.False(t, removed)
}
