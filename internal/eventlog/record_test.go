package eventlog

import (
	"bytes"
	"testing"
)

func TestRecordRoundTrip(t *testing.T) {
	body := []byte("type: text\ntext: hi\nts: 1.000000\n")
	got, ok := DecodeRecord(EncodeRecord(body))
	if !ok {
		t.Fatalf("decode failed")
	}
	if !bytes.Equal(got, body) {
		t.Fatalf("body mismatch: %q", got)
	}
}

func TestRecordDetectsCorruption(t *testing.T) {
	enc := EncodeRecord([]byte("type: png\nfilename: a.png\n"))
	enc[len(enc)/2] ^= 0xff
	if _, ok := DecodeRecord(enc); ok {
		t.Fatalf("expected checksum failure")
	}
}

func TestRecordRejectsTruncated(t *testing.T) {
	enc := EncodeRecord([]byte("type: text\n"))
	for _, b := range [][]byte{nil, enc[:3], enc[:len(enc)-1]} {
		if _, ok := DecodeRecord(b); ok {
			t.Fatalf("expected failure for truncated input")
		}
	}
}

func TestRecordEmptyBody(t *testing.T) {
	got, ok := DecodeRecord(EncodeRecord(nil))
	if !ok || len(got) != 0 {
		t.Fatalf("empty body should round trip, ok=%v got=%q", ok, got)
	}
}
