package command

import (
	"context"
	log "log/slog"

	"sucu/internal/launch"
)

// browserAlias is the alias key holding the preferred browser per OS.
const browserAlias = "google"

// AliasStore resolves spoken phrases to applications and learns new ones.
type AliasStore interface {
	Resolve(goos, phrase string) string
	Learn(goos, phrase, app string) error
}

// Resolver turns a classified target into an OS action.
type Resolver struct {
	aliases  AliasStore
	launcher launch.Launcher
}

func NewResolver(aliases AliasStore, launcher launch.Launcher) *Resolver {
	return &Resolver{aliases: aliases, launcher: launcher}
}

// OpenWebsite opens target in the aliased browser, falling back to the
// default browser. It reports whether either one opened; failures are only
// logged.
func (r *Resolver) OpenWebsite(ctx context.Context, target string) bool {
	link := NormalizeURL(target)
	browser := r.aliases.Resolve(r.launcher.OS(), browserAlias)

	err := r.launcher.OpenURLIn(ctx, browser, link)
	if err == nil {
		log.Info("Opened website", "url", link, "browser", browser)
		return true
	}
	log.Debug("Browser launch failed, using default", "browser", browser, "err", err)

	if err := r.launcher.OpenDefaultBrowser(link); err != nil {
		log.Error("Failed to open website", "url", link, "err", err)
		return false
	}
	log.Info("Opened website", "url", link)
	return true
}

// OpenApplication launches the application aliased by target, or target
// itself when no alias matches.
func (r *Resolver) OpenApplication(ctx context.Context, target string) error {
	name := r.aliases.Resolve(r.launcher.OS(), target)
	log.Debug("Resolved application", "target", target, "app", name)

	if err := r.launcher.OpenApp(ctx, name); err != nil {
		return err
	}

	log.Info("Opened application", "app", name)
	return nil
}
