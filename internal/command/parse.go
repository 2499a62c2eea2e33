package command

import (
	"regexp"
	"strings"
)

// Verb phrases, in precedence order for matches starting at the same index.
var verbs = []string{"open up ", "open ", "launch ", "go to ", "visit "}

var fillers = []string{"the ", "app ", "application ", "game ", "website "}

var (
	stopPhrases   = []string{"stop", "exit", "quit", "stop listening", "close", "shut down"}
	cancelPhrases = []string{"nevermind", "never mind", "cancel"}
)

var domainRe = regexp.MustCompile(`(?i)\b[a-z0-9-]+\.(com|org|net|io|edu|gov|ai|app|dev)\b`)

// ParseTarget strips the command verb and one leading filler word,
// keeping the original casing of what remains. The rightmost verb wins.
func ParseTarget(text string) string {
	target := strings.TrimSpace(text)
	folded := foldASCII(target)

	start, end := -1, -1
	for _, verb := range verbs {
		i := strings.LastIndex(folded, verb)
		if i > start {
			start, end = i, i+len(verb)
		}
	}
	if start >= 0 {
		target = strings.TrimSpace(target[end:])
		folded = foldASCII(target)
	}

	for _, filler := range fillers {
		if strings.HasPrefix(folded, filler) {
			target = strings.TrimSpace(target[len(filler):])
			break
		}
	}

	return target
}

// IsURL reports whether target looks like a web address rather than an
// application name.
func IsURL(target string) bool {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return true
	}
	return domainRe.MatchString(target)
}

// NormalizeURL adds an https scheme when target has none.
func NormalizeURL(target string) string {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return target
	}
	return "https://" + target
}

// HasVerb reports whether the utterance contains any command verb.
func HasVerb(utterance string) bool {
	folded := foldASCII(utterance)
	for _, verb := range verbs {
		if strings.Contains(folded, verb) {
			return true
		}
	}
	return false
}

func IsStop(utterance string) bool   { return oneOf(utterance, stopPhrases) }
func IsCancel(utterance string) bool { return oneOf(utterance, cancelPhrases) }

func oneOf(utterance string, set []string) bool {
	cleaned := strings.ToLower(strings.TrimSpace(utterance))
	for _, p := range set {
		if cleaned == p {
			return true
		}
	}
	return false
}

// foldASCII lowercases A-Z only, so byte offsets stay valid in the original.
func foldASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
