// Package session partitions the event log and blob stores into named game
// sessions, tracks the active one, and supports rotation.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	pebblestore "github.com/proger/faeton/internal/storage/pebble"
)

var activeKey = []byte("session/active")

// Manager tracks the active game session and mints new ones.
type Manager struct {
	db   *pebblestore.DB
	root string // directory holding one subdirectory per session

	mu sync.Mutex
}

// NewManager creates a Manager. root is the games directory; it is created
// lazily when the first session is minted.
func NewManager(db *pebblestore.DB, root string) *Manager {
	return &Manager{db: db, root: root}
}

// EnsureActive resumes the persisted active-session id, or mints a new one on
// first use.
func (m *Manager) EnsureActive() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, err := m.db.Get(activeKey); err == nil && len(b) > 0 {
		return string(b), nil
	}
	return m.activate()
}

// Rotate mints and activates a new, empty session. The previous session's
// data stays on disk and remains readable.
func (m *Manager) Rotate() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activate()
}

func (m *Manager) activate() (string, error) {
	id, err := m.mint()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(m.Dir(id), 0o755); err != nil {
		return "", err
	}
	if err := m.db.Set(activeKey, []byte(id)); err != nil {
		return "", err
	}
	return id, nil
}

// mint builds a collision-free session id: wall-clock seconds plus a short
// random suffix, checked against existing session directories.
func (m *Manager) mint() (string, error) {
	for i := 0; i < 32; i++ {
		suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:4]
		id := fmt.Sprintf("%d-%s", time.Now().Unix(), suffix)
		if _, err := os.Stat(m.Dir(id)); os.IsNotExist(err) {
			return id, nil
		}
	}
	return "", fmt.Errorf("session: could not mint a collision-free id under %s", m.root)
}

// Prior lists existing session ids newest-first, excluding the given one.
func (m *Manager) Prior(exclude string) []string {
	entries, err := os.ReadDir(m.root)
	if err != nil {
		return nil
	}
	var ids []string
	for _, e := range entries {
		if !e.IsDir() || e.Name() == exclude {
			continue
		}
		ids = append(ids, e.Name())
	}
	sort.Slice(ids, func(i, j int) bool { return sessionEpoch(ids[i]) > sessionEpoch(ids[j]) })
	return ids
}

func sessionEpoch(id string) int64 {
	whole, _, _ := strings.Cut(id, "-")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// Dir returns the session's directory.
func (m *Manager) Dir(game string) string { return filepath.Join(m.root, game) }

// TextDir returns the session's text blob directory.
func (m *Manager) TextDir(game string) string {
	return filepath.Join(m.root, game, "blobs", "text")
}

// PNGDir returns the session's png blob directory.
func (m *Manager) PNGDir(game string) string {
	return filepath.Join(m.root, game, "blobs", "png")
}
