package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/proger/faeton/internal/eventlog"
)

// Helper functions for common HTTP responses

// writeDetail writes an error response with the given status code and detail
// message.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}

// writeKVLines writes a plain-text `key: value` lines response, newlines in
// values escaped.
func writeKVLines(w http.ResponseWriter, pairs []eventlog.KV) {
	var b strings.Builder
	for _, kv := range pairs {
		b.WriteString(kv.Key)
		b.WriteString(": ")
		b.WriteString(strings.ReplaceAll(kv.Value, "\n", "\\n"))
		b.WriteByte('\n')
	}
	writePlain(w, b.String())
}

func writePlain(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(body))
}

func writeHTML(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(body))
}

// contentType extracts the bare media type of a request, lowercased.
func contentType(r *http.Request) string {
	ct := r.Header.Get("Content-Type")
	ct, _, _ = strings.Cut(ct, ";")
	return strings.ToLower(strings.TrimSpace(ct))
}
