// Package gamestate keeps the per-session Known Game State: an append-only,
// case-insensitively deduplicated list of short facts accumulated from oracle
// responses. Facts are never rewritten or reordered, only appended; rotation
// starts a new session key, which resets the state implicitly.
package gamestate

import (
	"strings"

	pebblestore "github.com/proger/faeton/internal/storage/pebble"
)

// Empty is what prompts see before any fact has been learned.
const Empty = "(none yet)"

func key(game string) []byte {
	k := make([]byte, 0, len("game/")+len(game)+len("/state"))
	k = append(k, "game/"...)
	k = append(k, game...)
	return append(k, "/state"...)
}

// Facts returns the stored fact list in append order.
func Facts(db *pebblestore.DB, game string) []string {
	b, err := db.Get(key(game))
	if err != nil || len(b) == 0 {
		return nil
	}
	var facts []string
	for _, ln := range strings.Split(string(b), "\n") {
		if ln = strings.TrimSpace(ln); ln != "" {
			facts = append(facts, ln)
		}
	}
	return facts
}

// Load renders the state for prompt inclusion, one fact per line.
func Load(db *pebblestore.DB, game string) string {
	facts := Facts(db, game)
	if len(facts) == 0 {
		return Empty
	}
	return strings.Join(facts, "\n")
}

// Merge splits the oracle's new-state text on ';' and newlines, trims each
// part, and appends the parts not already present (case-insensitive) in
// order. The literal "none" and empty input are no-ops. Returns the number
// of facts added.
func Merge(db *pebblestore.DB, game, newStateText string) (int, error) {
	cleaned := strings.TrimSpace(newStateText)
	if cleaned == "" || strings.EqualFold(cleaned, "none") {
		return 0, nil
	}
	existing := Facts(db, game)
	seen := make(map[string]struct{}, len(existing))
	for _, f := range existing {
		seen[strings.ToLower(f)] = struct{}{}
	}
	var additions []string
	for _, part := range strings.FieldsFunc(cleaned, func(r rune) bool { return r == ';' || r == '\n' }) {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		lower := strings.ToLower(item)
		if _, ok := seen[lower]; ok {
			continue
		}
		seen[lower] = struct{}{}
		additions = append(additions, item)
	}
	if len(additions) == 0 {
		return 0, nil
	}
	merged := append(existing, additions...)
	if err := db.Set(key(game), []byte(strings.Join(merged, "\n")+"\n")); err != nil {
		return 0, err
	}
	return len(additions), nil
}
