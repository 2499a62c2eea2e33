package launch

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	"github.com/pkg/browser"
)

const searchURL = "https://www.google.com/search?q="

var ErrUnsupportedOS = errors.New("unsupported os")

// Error reports a launch that could not be completed.
type Error struct {
	Op     string
	Target string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Target, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Launcher is the set of OS primitives the assistant needs.
type Launcher interface {
	OS() string
	OpenApp(ctx context.Context, name string) error
	OpenURLIn(ctx context.Context, app, link string) error
	OpenDefaultBrowser(link string) error
	WebSearch(query string) error
}

// System launches through the host OS.
type System struct {
	goos string

	run       func(ctx context.Context, name string, args ...string) error
	shellOpen func(target string) error
	openURL   func(link string) error
}

func NewSystem() *System {
	return &System{
		goos:      runtime.GOOS,
		run:       runCommand,
		shellOpen: shellExecute,
		openURL:   browser.OpenURL,
	}
}

func (s *System) OS() string { return s.goos }

func (s *System) OpenApp(ctx context.Context, name string) error {
	switch s.goos {
	case "darwin":
		if err := s.run(ctx, "open", "-a", name); err != nil {
			return &Error{Op: "open app", Target: name, Err: err}
		}
		return nil

	case "windows":
		err := s.shellOpen(name)
		if err == nil {
			return nil
		}
		log.Debug("ShellExecute failed, trying start", "app", name, "err", err)

		if err := s.run(ctx, "cmd", "/c", "start", "", name); err != nil {
			return &Error{Op: "open app", Target: name, Err: err}
		}
		return nil

	default:
		return &Error{Op: "open app", Target: name, Err: fmt.Errorf("%w: %s", ErrUnsupportedOS, s.goos)}
	}
}

func (s *System) OpenURLIn(ctx context.Context, app, link string) error {
	var err error
	switch s.goos {
	case "darwin":
		err = s.run(ctx, "open", "-a", app, link)
	case "windows":
		err = s.run(ctx, "cmd", "/c", "start", "", app, link)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedOS, s.goos)
	}

	if err != nil {
		return &Error{Op: "open url in " + app, Target: link, Err: err}
	}
	return nil
}

func (s *System) OpenDefaultBrowser(link string) error {
	if err := s.openURL(link); err != nil {
		return &Error{Op: "open url", Target: link, Err: err}
	}
	return nil
}

func (s *System) WebSearch(query string) error {
	return s.OpenDefaultBrowser(SearchURL(query))
}

// SearchURL returns the web search address for query.
func SearchURL(query string) string {
	return searchURL + url.QueryEscape(query)
}

func runCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
