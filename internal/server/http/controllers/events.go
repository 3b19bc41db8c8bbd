package controllers

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/proger/faeton/internal/blob"
	"github.com/proger/faeton/internal/eventlog"
	eventsvc "github.com/proger/faeton/internal/services/events"
	logpkg "github.com/proger/faeton/pkg/log"
	"github.com/proger/faeton/pkg/stamp"
)

// EventsController handles the publish, subscribe, and image endpoints.
type EventsController struct {
	svc    *eventsvc.Service
	logger logpkg.Logger
}

// NewEventsController creates a new events controller.
func NewEventsController(svc *eventsvc.Service, logger logpkg.Logger) *EventsController {
	return &EventsController{svc: svc, logger: logger.WithComponent("http.events")}
}

// RegisterRoutes registers publish/subscribe/image routes with the given mux.
func (c *EventsController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/pub", c.handlePub)
	mux.HandleFunc("/pub/", c.handlePubAt)
	mux.HandleFunc("/png", c.handleListPNG)
	mux.HandleFunc("/png/", c.handlePNG)
	mux.HandleFunc("/sub", c.handleSub)
	mux.HandleFunc("/sub/", c.handleSubAt)
}

// readText validates a text/plain UTF-8 publish body. A non-nil error has
// already been written to w.
func readText(w http.ResponseWriter, r *http.Request) (string, bool) {
	if contentType(r) != "text/plain" {
		writeDetail(w, http.StatusUnsupportedMediaType, "content-type must be text/plain")
		return "", false
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "body read failed")
		return "", false
	}
	if !utf8.Valid(body) {
		writeDetail(w, http.StatusBadRequest, "text/plain must be utf-8")
		return "", false
	}
	return string(body), true
}

func (c *EventsController) handlePub(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	text, ok := readText(w, r)
	if !ok {
		return
	}
	node := r.URL.Query().Get("node")
	ts, err := c.svc.PublishText(r.Context(), text, eventlog.SourceUser, node, r.RemoteAddr)
	if err != nil {
		c.logger.Error("publish failed", logpkg.Err(err))
		writeDetail(w, http.StatusInternalServerError, "publish failed")
		return
	}
	writeKVLines(w, []eventlog.KV{{Key: "ok", Value: "true"}, {Key: "ts", Value: ts.String()}})
}

func (c *EventsController) handlePubAt(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	ts, err := stamp.Parse(strings.TrimPrefix(r.URL.Path, "/pub/"))
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "ts must be numeric unix timestamp")
		return
	}
	text, ok := readText(w, r)
	if !ok {
		return
	}
	node := r.URL.Query().Get("node")
	err = c.svc.PublishTextAt(r.Context(), ts, text, eventlog.SourceUser, node, r.RemoteAddr)
	if errors.Is(err, eventlog.ErrConflict) {
		writeDetail(w, http.StatusConflict, "event ts already exists")
		return
	}
	if err != nil {
		c.logger.Error("publish failed", logpkg.Err(err), logpkg.Str("ts", ts.String()))
		writeDetail(w, http.StatusInternalServerError, "publish failed")
		return
	}
	writeKVLines(w, []eventlog.KV{{Key: "ok", Value: "true"}, {Key: "ts", Value: ts.String()}})
}

func (c *EventsController) handlePNG(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/png/")
	switch r.Method {
	case http.MethodPost:
		c.postPNG(w, r, name)
	case http.MethodGet:
		c.getPNG(w, r, name)
	default:
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (c *EventsController) postPNG(w http.ResponseWriter, r *http.Request, name string) {
	if contentType(r) != "image/png" {
		writeDetail(w, http.StatusUnsupportedMediaType, "content-type must be image/png")
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "body read failed")
		return
	}
	if len(body) == 0 {
		writeDetail(w, http.StatusBadRequest, "empty body")
		return
	}
	ts, safe, err := c.svc.PublishPNG(r.Context(), name, body, r.RemoteAddr)
	if errors.Is(err, blob.ErrInvalidName) {
		writeDetail(w, http.StatusBadRequest, "invalid filename")
		return
	}
	if err != nil {
		c.logger.Error("png publish failed", logpkg.Err(err), logpkg.Str("filename", name))
		writeDetail(w, http.StatusInternalServerError, "publish failed")
		return
	}
	writeKVLines(w, []eventlog.KV{
		{Key: "ok", Value: "true"},
		{Key: "ts", Value: ts.String()},
		{Key: "filename", Value: safe},
	})
}

func (c *EventsController) getPNG(w http.ResponseWriter, _ *http.Request, name string) {
	data, err := c.svc.GetPNG(name)
	if errors.Is(err, blob.ErrInvalidName) {
		writeDetail(w, http.StatusBadRequest, "invalid filename")
		return
	}
	if errors.Is(err, blob.ErrNotFound) {
		writeDetail(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "read failed")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(data)
}

func (c *EventsController) handleListPNG(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	rows, err := c.svc.LatestByNode()
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "scan failed")
		return
	}
	if len(rows) == 0 {
		writePlain(w, "")
		return
	}
	var b strings.Builder
	for _, row := range rows {
		b.WriteString(row.Node)
		b.WriteByte(' ')
		b.WriteString(row.TS)
		b.WriteByte(' ')
		b.WriteString(row.URL)
		b.WriteByte('\n')
	}
	writePlain(w, b.String())
}

func (c *EventsController) handleSub(w http.ResponseWriter, r *http.Request) {
	c.subscribe(w, r, 0)
}

func (c *EventsController) handleSubAt(w http.ResponseWriter, r *http.Request) {
	ts, err := stamp.Parse(strings.TrimPrefix(r.URL.Path, "/sub/"))
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "ts must be numeric unix timestamp")
		return
	}
	c.subscribe(w, r, ts)
}

func (c *EventsController) subscribe(w http.ResponseWriter, r *http.Request, cursor stamp.Stamp) {
	if r.Method != http.MethodGet {
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	opts := eventsvc.SubscribeOptions{Filter: r.URL.Query().Get("filter")}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	err := c.svc.Subscribe(r.Context(), cursor, opts, sseSink{w: w, r: r})
	if errors.Is(err, eventsvc.ErrBadFilter) {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		c.logger.Debug("subscription ended", logpkg.Err(err))
	}
}
