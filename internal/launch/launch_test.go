package launch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	calls [][]string
	fail  map[string]error
}

func (r *recorder) run(_ context.Context, name string, args ...string) error {
	r.calls = append(r.calls, append([]string{name}, args...))
	return r.fail[name]
}

func newTestSystem(goos string) (*System, *recorder, *[]string) {
	rec := &recorder{fail: map[string]error{}}
	var opened []string

	s := &System{
		goos:      goos,
		run:       rec.run,
		shellOpen: func(string) error { return errors.New("no shell") },
		openURL: func(link string) error {
			opened = append(opened, link)
			return nil
		},
	}
	return s, rec, &opened
}

func TestOpenAppDarwin(t *testing.T) {
	s, rec, _ := newTestSystem("darwin")

	require.NoError(t, s.OpenApp(context.Background(), "Visual Studio Code"))
	assert.Equal(t, [][]string{{"open", "-a", "Visual Studio Code"}}, rec.calls)
}

func TestOpenAppDarwinFailure(t *testing.T) {
	s, rec, _ := newTestSystem("darwin")
	rec.fail["open"] = errors.New("Unable to find application named 'xzyapp'")

	err := s.OpenApp(context.Background(), "xzyapp")

	var lerr *Error
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, "xzyapp", lerr.Target)
}

func TestOpenAppWindowsFallsBackToStart(t *testing.T) {
	s, rec, _ := newTestSystem("windows")

	require.NoError(t, s.OpenApp(context.Background(), "calc"))
	assert.Equal(t, [][]string{{"cmd", "/c", "start", "", "calc"}}, rec.calls)
}

func TestOpenAppWindowsShellExecute(t *testing.T) {
	s, rec, _ := newTestSystem("windows")
	var got string
	s.shellOpen = func(target string) error {
		got = target
		return nil
	}

	require.NoError(t, s.OpenApp(context.Background(), "notepad"))
	assert.Equal(t, "notepad", got)
	assert.Empty(t, rec.calls)
}

func TestOpenAppWindowsBothFail(t *testing.T) {
	s, rec, _ := newTestSystem("windows")
	rec.fail["cmd"] = errors.New("exit status 1")

	err := s.OpenApp(context.Background(), "nothing")
	var lerr *Error
	assert.ErrorAs(t, err, &lerr)
}

func TestOpenAppUnsupportedOS(t *testing.T) {
	s, rec, _ := newTestSystem("linux")

	err := s.OpenApp(context.Background(), "gedit")
	assert.ErrorIs(t, err, ErrUnsupportedOS)
	assert.Empty(t, rec.calls)
}

func TestOpenURLIn(t *testing.T) {
	cases := []struct {
		goos string
		want []string
	}{
		{"darwin", []string{"open", "-a", "Google Chrome", "https://github.com"}},
		{"windows", []string{"cmd", "/c", "start", "", "Google Chrome", "https://github.com"}},
	}

	for _, tc := range cases {
		t.Run(tc.goos, func(t *testing.T) {
			s, rec, _ := newTestSystem(tc.goos)
			require.NoError(t, s.OpenURLIn(context.Background(), "Google Chrome", "https://github.com"))
			assert.Equal(t, [][]string{tc.want}, rec.calls)
		})
	}
}

func TestOpenURLInUnsupportedOS(t *testing.T) {
	s, _, _ := newTestSystem("linux")

	err := s.OpenURLIn(context.Background(), "firefox", "https://github.com")
	assert.ErrorIs(t, err, ErrUnsupportedOS)
}

func TestWebSearch(t *testing.T) {
	s, _, opened := newTestSystem("linux")

	require.NoError(t, s.WebSearch("text editor & more"))
	assert.Equal(t, []string{"https://www.google.com/search?q=text+editor+%26+more"}, *opened)
}
