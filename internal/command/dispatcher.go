package command

import (
	"context"
	log "log/slog"
	"math/rand/v2"
	"strings"

	"sucu/internal/aliases"
	"sucu/internal/launch"
	"sucu/internal/listen"
)

const (
	replyStop     = "Stopping now."
	replyCancel   = "Okay."
	replyMissed   = "I did not catch that."
	promptCorrect = "I couldn't find that application. Which app should I open instead?"
)

var Acknowledgments = []string{
	"Alright, sure.",
	"Ok.",
	"Got it.",
	"Sounds good.",
	"Sure.",
	"Whatever you want.",
}

type Speaker interface {
	Speak(ctx context.Context, text string) error
}

type Listener interface {
	Listen(ctx context.Context, opt listen.Options) (string, error)
}

// Notifier receives launch outcomes: "opened", "learned" or "searched".
type Notifier interface {
	Notify(kind, content string)
}

type Config struct {
	Speaker  Speaker
	Listener Listener
	Aliases  AliasStore
	Launcher launch.Launcher
	Notifier Notifier // optional

	// Pick chooses an acknowledgment; random when nil.
	Pick func(options []string) string
}

type Dispatcher struct {
	speaker  Speaker
	listener Listener
	aliases  AliasStore
	launcher launch.Launcher
	resolver *Resolver
	notifier Notifier
	pick     func([]string) string
}

func NewDispatcher(cfg Config) *Dispatcher {
	pick := cfg.Pick
	if pick == nil {
		pick = func(options []string) string {
			return options[rand.IntN(len(options))]
		}
	}

	return &Dispatcher{
		speaker:  cfg.Speaker,
		listener: cfg.Listener,
		aliases:  cfg.Aliases,
		launcher: cfg.Launcher,
		resolver: NewResolver(cfg.Aliases, cfg.Launcher),
		notifier: cfg.Notifier,
		pick:     pick,
	}
}

// Handle interprets one utterance and acts on it. It returns false only
// for a stop phrase.
func (d *Dispatcher) Handle(ctx context.Context, utterance string) bool {
	switch {
	case IsStop(utterance):
		d.say(ctx, replyStop)
		return false
	case IsCancel(utterance):
		d.say(ctx, replyCancel)
		return true
	}

	target := ParseTarget(utterance)
	if target == "" {
		d.say(ctx, replyMissed)
		return true
	}

	if IsURL(target) {
		d.say(ctx, d.opening(target))
		if d.resolver.OpenWebsite(ctx, target) {
			d.notify("opened", target)
		}
		return true
	}

	d.say(ctx, d.opening(target))
	if err := d.resolver.OpenApplication(ctx, target); err != nil {
		log.Warn("Failed to open application", "target", target, "err", err)
		d.correct(ctx, target)
		return true
	}

	d.notify("opened", target)
	return true
}

// correct asks the user for the right application, remembers the answer
// under the originally requested phrase and retries. A web search is the
// last resort.
func (d *Dispatcher) correct(ctx context.Context, target string) {
	d.say(ctx, promptCorrect)

	response, err := d.listener.Listen(ctx, listen.CorrectionOptions)
	response = strings.TrimSpace(response)
	if err != nil {
		log.Info("No correction heard", "err", err)
	}

	if err == nil && response != "" {
		log.Info("Heard", "phase", "correction", "text", response)

		key := aliases.Normalize(target)
		if err := d.aliases.Learn(d.launcher.OS(), key, response); err != nil {
			log.Warn("Failed to save alias", "phrase", key, "err", err)
		} else {
			d.notify("learned", key+" -> "+response)
		}

		d.say(ctx, d.opening(response))
		err := d.resolver.OpenApplication(ctx, response)
		if err == nil {
			d.notify("opened", response)
			return
		}
		log.Warn("Corrected launch failed", "app", response, "err", err)
	}

	d.say(ctx, d.pick(Acknowledgments)+" Opening "+target+" on the web.")
	if err := d.launcher.WebSearch(target); err != nil {
		log.Error("Failed to open web search", "query", target, "err", err)
		return
	}
	d.notify("searched", target)
}

func (d *Dispatcher) opening(target string) string {
	return d.pick(Acknowledgments) + " Opening " + target + "."
}

func (d *Dispatcher) say(ctx context.Context, text string) {
	if err := d.speaker.Speak(ctx, text); err != nil {
		log.Error("Failed to voice out", "text", text, "err", err)
	}
}

func (d *Dispatcher) notify(kind, content string) {
	if d.notifier != nil {
		d.notifier.Notify(kind, content)
	}
}
