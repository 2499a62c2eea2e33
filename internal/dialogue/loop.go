package dialogue

import (
	"context"
	log "log/slog"
	"regexp"
	"strings"
	"time"

	"sucu/internal/command"
	"sucu/internal/listen"
)

const (
	Prompt      = "What do you want?"
	replyCancel = "Okay."
)

// DefaultWakePhrases includes common misrecognitions of "hey sucu".
var DefaultWakePhrases = []string{"hey sucu", "hey suku", "hey suck", "hey siri", "Hey suki", "suqqu"}

type Listener interface {
	Listen(ctx context.Context, opt listen.Options) (string, error)
}

type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// Dispatcher acts on a command utterance; false ends the session.
type Dispatcher interface {
	Handle(ctx context.Context, utterance string) bool
}

type Config struct {
	WakePhrases   []string
	IdleListen    listen.Options
	CommandListen listen.Options

	// Cooldown is the pause after a command round before idling again.
	Cooldown time.Duration

	// OnWake runs before the prompt is spoken, e.g. to play a chime.
	OnWake func(ctx context.Context)
}

func DefaultConfig() Config {
	return Config{
		WakePhrases:   DefaultWakePhrases,
		IdleListen:    listen.IdleOptions,
		CommandListen: listen.CommandOptions,
		Cooldown:      200 * time.Millisecond,
	}
}

// Loop is the two-state listening loop: idle until a wake phrase, then
// awaiting exactly one actionable command.
type Loop struct {
	cfg        Config
	wake       []string
	listener   Listener
	speaker    Speaker
	dispatcher Dispatcher

	state State
}

func NewLoop(cfg Config, listener Listener, speaker Speaker, dispatcher Dispatcher) *Loop {
	wake := make([]string, 0, len(cfg.WakePhrases))
	for _, p := range cfg.WakePhrases {
		if n := NormalizeText(p); n != "" {
			wake = append(wake, n)
		}
	}

	return &Loop{
		cfg:        cfg,
		wake:       wake,
		listener:   listener,
		speaker:    speaker,
		dispatcher: dispatcher,
		state:      Idle,
	}
}

func (l *Loop) State() State { return l.state }

// Run loops until a stop phrase ends the session (nil) or ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	log.Info("Listening for wake phrase", "phrases", l.wake)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		prev := l.state
		if _, done := l.Step(ctx); done {
			log.Info("Session stopped")
			return nil
		}

		if prev == AwaitingCommand && l.state == Idle && l.cfg.Cooldown > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(l.cfg.Cooldown):
			}
		}
	}
}

// Step runs one listen in the current state and applies the transition.
// done reports that the dispatcher ended the session.
func (l *Loop) Step(ctx context.Context) (ev Event, done bool) {
	switch l.state {
	case AwaitingCommand:
		ev, done = l.awaitCommand(ctx)
	default:
		ev = l.awaitWake(ctx)
	}
	if done {
		return ev, true
	}

	next := Next(l.state, ev)
	if next != l.state {
		log.Debug("Dialogue transition", "from", l.state, "event", ev, "to", next)
	}
	l.state = next

	return ev, false
}

func (l *Loop) awaitWake(ctx context.Context) Event {
	text, err := l.listener.Listen(ctx, l.cfg.IdleListen)
	if err != nil || text == "" {
		if err != nil {
			log.Debug("Idle listen missed", "err", err)
		}
		return Silence
	}
	log.Info("Heard", "phase", "wake", "text", text)

	if !l.isWake(text) {
		return Unrelated
	}

	if l.cfg.OnWake != nil {
		l.cfg.OnWake(ctx)
	}
	l.say(ctx, Prompt)
	return WakeHeard
}

func (l *Loop) awaitCommand(ctx context.Context) (Event, bool) {
	text, err := l.listener.Listen(ctx, l.cfg.CommandListen)
	if err != nil || text == "" {
		if err != nil {
			log.Debug("Command listen missed", "err", err)
		}
		return Silence, false
	}
	log.Info("Heard", "phase", "command", "text", text)

	switch {
	case l.isWake(text):
		l.say(ctx, Prompt)
		return Reprompt, false

	case command.IsCancel(text):
		l.say(ctx, replyCancel)
		return Cancelled, false

	case command.IsStop(text):
		if !l.dispatcher.Handle(ctx, text) {
			return Stopped, true
		}
		return Stopped, false

	case !command.HasVerb(text):
		log.Debug("Ignoring utterance without command verb", "text", text)
		return Ignored, false
	}

	if !l.dispatcher.Handle(ctx, text) {
		return Dispatched, true
	}
	return Dispatched, false
}

func (l *Loop) isWake(text string) bool {
	return MatchesWake(text, l.wake)
}

func (l *Loop) say(ctx context.Context, text string) {
	if err := l.speaker.Speak(ctx, text); err != nil {
		log.Error("Failed to voice out", "text", text, "err", err)
	}
}

var nonWordRe = regexp.MustCompile(`[^a-z0-9\s]`)

// NormalizeText lowercases text, drops everything but ASCII letters,
// digits and spaces, and collapses whitespace.
func NormalizeText(text string) string {
	s := nonWordRe.ReplaceAllString(strings.ToLower(text), "")
	return strings.Join(strings.Fields(s), " ")
}

// MatchesWake reports whether the normalized text contains any of the
// normalized wake phrases.
func MatchesWake(text string, wake []string) bool {
	normalized := NormalizeText(text)
	for _, phrase := range wake {
		if strings.Contains(normalized, phrase) {
			return true
		}
	}
	return false
}
