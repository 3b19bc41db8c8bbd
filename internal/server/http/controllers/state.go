package controllers

import (
	"fmt"
	"html"
	"net/http"
	"sort"
	"strings"

	"github.com/proger/faeton/internal/oracle"
	eventsvc "github.com/proger/faeton/internal/services/events"
	logpkg "github.com/proger/faeton/pkg/log"
)

// StateController serves the operator dashboard, session rotation, and node
// scrubbing.
type StateController struct {
	svc    *eventsvc.Service
	logger logpkg.Logger
}

// NewStateController creates a new state controller.
func NewStateController(svc *eventsvc.Service, logger logpkg.Logger) *StateController {
	return &StateController{svc: svc, logger: logger.WithComponent("http.state")}
}

// RegisterRoutes registers dashboard and scrub routes with the given mux.
func (c *StateController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/state", c.handleState)
	mux.HandleFunc("/scrub/", c.handleScrub)
}

func (c *StateController) handleState(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		c.renderDashboard(w)
	case http.MethodPost:
		game, err := c.svc.Rotate(r.Context())
		if err != nil {
			c.logger.Error("rotation failed", logpkg.Err(err))
			writeDetail(w, http.StatusInternalServerError, "rotation failed")
			return
		}
		c.logger.Info("session rotated", logpkg.Str("game", game))
		c.renderDashboard(w)
	default:
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (c *StateController) handleScrub(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	node := strings.TrimPrefix(r.URL.Path, "/scrub/")
	removed, err := c.svc.Scrub(r.Context(), node)
	if err != nil {
		c.logger.Error("scrub failed", logpkg.Err(err), logpkg.Str("node", node))
		writeDetail(w, http.StatusInternalServerError, "scrub failed")
		return
	}
	writeHTML(w, fmt.Sprintf(
		"<html><body><p>Scrubbed node %s. Removed %d PNG events.</p>"+
			"<p><a href='/state'>Back to /state</a></p></body></html>",
		html.EscapeString(node), removed))
}

func (c *StateController) renderDashboard(w http.ResponseWriter) {
	rows, err := c.svc.LatestByNode()
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "scan failed")
		return
	}
	knownState, err := c.svc.KnownGameState()
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "state load failed")
		return
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].TS > rows[j].TS })

	var cards strings.Builder
	for _, r := range rows {
		url := html.EscapeString(r.URL)
		node := html.EscapeString(r.Node)
		fmt.Fprintf(&cards,
			"<div style='border:1px solid #ddd;border-radius:8px;padding:10px;margin:8px 0;'>"+
				"<div><b>ts:</b> %s <b>node:</b> %s <b>file:</b> %s</div>"+
				"<form method='post' action='/scrub/%s' style='margin-top:6px;'>"+
				"<button type='submit' style='padding:6px 10px;'>Scrub</button>"+
				"</form>"+
				"<div><a href='%s' target='_blank'>%s</a></div>"+
				"<img src='%s' style='max-width:100%%;height:auto;border:1px solid #ccc;margin-top:8px;' />"+
				"</div>",
			html.EscapeString(r.TS), node, html.EscapeString(r.Filename), node, url, url, url)
	}
	cardsHTML := cards.String()
	if cardsHTML == "" {
		cardsHTML = "<p>No PNG events yet.</p>"
	}

	page := fmt.Sprintf(`<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <title>faetond state</title>
  <style>
    body { font-family: ui-monospace, SFMono-Regular, Menlo, monospace; margin: 20px; }
    pre { background: #f6f8fa; padding: 12px; border-radius: 8px; overflow-x: auto; white-space: pre-wrap; }
  </style>
</head>
<body>
  <h1>faetond /state</h1>
  <form method="post" action="/state" style="margin-bottom:16px;">
    <button type="submit" style="padding:8px 12px;">Reset Game</button>
  </form>
  <h2>Prompt</h2>
  <pre>%s</pre>
  <h2>Known Game State</h2>
  <pre>%s</pre>
  <h2>Players (%d)</h2>
  %s
</body>
</html>`,
		html.EscapeString(oracle.PromptTemplate),
		html.EscapeString(knownState),
		len(rows),
		cardsHTML)
	writeHTML(w, page)
}
