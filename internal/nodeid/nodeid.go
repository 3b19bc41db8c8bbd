// Package nodeid derives stable per-machine identities from screenshot
// filenames. Capture clients name screenshots with version-1 UUIDs, whose
// 48-bit node field carries the machine's hardware address; that field,
// lower-hex encoded, is the node key used by all node-indexed views.
package nodeid

import (
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// FromFilename extracts the node from a filename expected to be a version-1
// UUID with an optional ".png" extension. Filenames under any other scheme
// return ok=false and are excluded from node-indexed views.
func FromFilename(filename string) (string, bool) {
	name := filename
	if strings.HasSuffix(strings.ToLower(name), ".png") {
		name = name[:len(name)-4]
	}
	u, err := uuid.Parse(name)
	if err != nil {
		return "", false
	}
	if u.Version() != 1 {
		return "", false
	}
	return hex.EncodeToString(u.NodeID()), true
}

// Valid reports whether s is a well-formed node key: exactly 12 lower or
// upper hex digits.
func Valid(s string) bool {
	if len(s) != 12 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

// Equal compares node keys case-insensitively.
func Equal(a, b string) bool { return strings.EqualFold(a, b) }
