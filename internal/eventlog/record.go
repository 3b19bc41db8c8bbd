package eventlog

import (
	"encoding/binary"
	"hash/crc32"
)

// Record encoding: varint bodyLen | body | crc32c(body). The checksum lets a
// scan detect torn or corrupt values and skip them instead of failing.

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// EncodeRecord frames an event body for storage.
func EncodeRecord(body []byte) []byte {
	out := make([]byte, 0, 10+len(body)+4)
	var tmp [10]byte
	n := binary.PutUvarint(tmp[:], uint64(len(body)))
	out = append(out, tmp[:n]...)
	out = append(out, body...)
	crc := crc32.Checksum(body, castagnoli)
	var crcb [4]byte
	binary.BigEndian.PutUint32(crcb[:], crc)
	return append(out, crcb[:]...)
}

// DecodeRecord unframes a stored value, returning false when the length or
// checksum does not hold.
func DecodeRecord(b []byte) ([]byte, bool) {
	if len(b) < 1+4 {
		return nil, false
	}
	blen, n := binary.Uvarint(b)
	if n <= 0 {
		return nil, false
	}
	if n+int(blen)+4 != len(b) {
		return nil, false
	}
	body := b[n : n+int(blen)]
	expect := binary.BigEndian.Uint32(b[len(b)-4:])
	if crc32.Checksum(body, castagnoli) != expect {
		return nil, false
	}
	return append([]byte(nil), body...), true
}
