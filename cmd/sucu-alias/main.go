package main

import (
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"

	cli "github.com/spf13/pflag"

	"sucu/internal/aliases"
)

const usage = `usage: sucu-alias [flags] <command>

commands:
  list                    show aliases for the selected OS
  set <phrase> = <app>    learn an alias
  remove <phrase>         forget a learned alias

flags:
`

func main() {
	aliasFile := cli.StringP("aliases", "a", aliases.DefaultPath(), "Alias file path")
	goos := cli.String("os", runtime.GOOS, "Platform section to edit (darwin, windows)")
	learned := cli.Bool("learned", false, "List only entries stored in the alias file")
	cli.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		cli.PrintDefaults()
	}
	cli.Parse()

	if err := run(aliases.Open(*aliasFile), *goos, *learned, cli.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "sucu-alias:", err)
		os.Exit(1)
	}
}

func run(store *aliases.Store, goos string, learned bool, args []string) error {
	if len(args) == 0 {
		cli.Usage()
		return fmt.Errorf("missing command")
	}

	switch args[0] {
	case "list":
		layer := store.Merged()
		if learned {
			layer = store.Overrides()
		}
		printSection(layer[goos])
		return nil

	case "set":
		phrase, app, ok := strings.Cut(strings.Join(args[1:], " "), "=")
		phrase, app = strings.TrimSpace(phrase), strings.TrimSpace(app)
		if !ok || phrase == "" || app == "" {
			return fmt.Errorf("set wants <phrase> = <app>")
		}
		if err := store.Learn(goos, phrase, app); err != nil {
			return err
		}
		fmt.Printf("%s -> %s\n", aliases.Normalize(phrase), app)
		return nil

	case "remove":
		phrase := strings.Join(args[1:], " ")
		if phrase == "" {
			return fmt.Errorf("remove wants <phrase>")
		}
		removed, err := store.Forget(goos, phrase)
		if err != nil {
			return err
		}
		if !removed {
			return fmt.Errorf("no learned alias %q", aliases.Normalize(phrase))
		}
		fmt.Printf("removed %s\n", aliases.Normalize(phrase))
		return nil
	}

	return fmt.Errorf("unknown command %q", args[0])
}

func printSection(section map[string]string) {
	phrases := make([]string, 0, len(section))
	width := 0
	for p := range section {
		phrases = append(phrases, p)
		width = max(width, len(p))
	}
	sort.Strings(phrases)

	for _, p := range phrases {
		fmt.Printf("%-*s  %s\n", width, p, section[p])
	}
}
