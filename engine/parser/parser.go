// Package parser converts console command strings into Intent structs.
// Intentionally dumb: whitespace-separated words, double quotes group.
package parser

import (
	"strings"

	"github.com/Du4lity5151/DestinationSol/types"
)

var verbAliases = map[string]string{
	"t":    "tick",
	"step": "tick",

	"f":         "factions",
	"faction":   "factions",
	"rel":       "relation",
	"relations": "relation",
	"rep":       "report",

	"s":     "ships",
	"ls":    "ships",
	"ship":  "ships",
	"near":  "nearest",
	"enemy": "nearest",

	"h":      "hero",
	"me":     "hero",
	"sys":    "systems",
	"galaxy": "systems",

	"purchase": "buy",
	"trade":    "buy",

	"port": "travel",
	"jump": "travel",
}

// Parse converts a raw command string into an Intent. The verb is lowered;
// arguments keep their case.
func Parse(input string) types.Intent {
	words := split(strings.TrimSpace(input))
	if len(words) == 0 {
		return types.Intent{}
	}

	verb := strings.ToLower(words[0])
	if alias, ok := verbAliases[verb]; ok {
		verb = alias
	}
	intent := types.Intent{Verb: verb}
	if len(words) > 1 {
		intent.Args = words[1:]
	}
	return intent
}

// split breaks input on whitespace, keeping double-quoted runs together.
// An unterminated quote runs to the end of the input.
func split(input string) []string {
	var (
		words   []string
		cur     strings.Builder
		quoted  bool
		hasWord bool
	)
	flush := func() {
		if hasWord {
			words = append(words, cur.String())
			cur.Reset()
			hasWord = false
		}
	}
	for _, r := range input {
		switch {
		case r == '"':
			quoted = !quoted
			hasWord = true
		case !quoted && (r == ' ' || r == '\t'):
			flush()
		default:
			cur.WriteRune(r)
			hasWord = true
		}
	}
	flush()
	return words
}
