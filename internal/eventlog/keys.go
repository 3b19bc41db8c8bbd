package eventlog

import (
	"encoding/binary"

	"github.com/proger/faeton/pkg/stamp"
)

// Keyspace helpers for Pebble keys.
//
// Layout (byte-wise, lexicographically sortable):
// - game/{id}/e/{ts_be8}   (event entries, ordered by stamp)
//
// Stamps are non-negative, so big-endian int64 keys sort numerically.

var (
	gamePrefix = []byte("game/")
	entrySeg   = []byte("/e/")
)

func appendBE8(dst []byte, v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return append(dst, b[:]...)
}

// KeyEntry builds the entry key for one event.
func KeyEntry(game string, ts stamp.Stamp) []byte {
	k := KeyEntryPrefix(game)
	return appendBE8(k, uint64(ts))
}

// KeyEntryPrefix builds the range prefix covering all entries of a game.
func KeyEntryPrefix(game string) []byte {
	k := make([]byte, 0, len(gamePrefix)+len(game)+len(entrySeg)+8)
	k = append(k, gamePrefix...)
	k = append(k, game...)
	return append(k, entrySeg...)
}

// stampFromKey recovers the stamp from the trailing 8 bytes of an entry key.
func stampFromKey(key []byte) stamp.Stamp {
	if len(key) < 8 {
		return 0
	}
	return stamp.Stamp(binary.BigEndian.Uint64(key[len(key)-8:]))
}
