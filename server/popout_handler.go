package server

import (
	_ "embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"winamp7/core/mirror"
	"winamp7/logger"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

//go:embed popout.html
var popoutHTML string

var popoutTemplate = template.Must(template.New("popout").Parse(popoutHTML))

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type popoutResponse struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	WSURL    string `json:"wsUrl"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Left     int    `json:"left"`
	Top      int    `json:"top"`
	Name     string `json:"name"`
	Features string `json:"features"`
}

// popoutURLs returns the page and WebSocket URLs of a window.
func (h *APIHandler) popoutURLs(w *mirror.Window) (page, ws string) {
	base := strings.TrimSuffix(h.cfg.PublicURL, "/")
	q := url.Values{"token": {w.Token()}}.Encode()
	page = base + "/popout/" + w.ID() + "?" + q

	switch {
	case strings.HasPrefix(base, "https://"):
		ws = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		ws = "ws://" + strings.TrimPrefix(base, "http://")
	default:
		ws = base
	}
	ws += "/ws/popout/" + w.ID() + "?" + q
	return page, ws
}

// OpenPopoutHandler opens the pop-out mirror, or returns the live one.
func (h *APIHandler) OpenPopoutHandler(w http.ResponseWriter, r *http.Request) {
	handle, err := h.player.OpenMirror()
	if err != nil {
		if errors.Is(err, mirror.ErrBlocked) {
			http.Error(w, "Pop-out blocked", http.StatusConflict)
			return
		}
		h.fail(w, err)
		return
	}
	win, ok := handle.(*mirror.Window)
	if !ok {
		http.Error(w, "Pop-out not reachable", http.StatusInternalServerError)
		return
	}

	spec := win.Spec()
	page, ws := h.popoutURLs(win)
	writeJSON(w, http.StatusOK, popoutResponse{
		ID:       win.ID(),
		URL:      page,
		WSURL:    ws,
		Width:    spec.Width,
		Height:   spec.Height,
		Left:     spec.Left,
		Top:      spec.Top,
		Name:     spec.Name,
		Features: spec.Features(),
	})
}

// ClosePopoutHandler closes the pop-out from the owner side.
func (h *APIHandler) ClosePopoutHandler(w http.ResponseWriter, r *http.Request) {
	h.player.CloseMirror()
	w.WriteHeader(http.StatusNoContent)
}

// PopoutPageHandler serves the mirror document for an opened window.
func (h *APIHandler) PopoutPageHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	token := r.URL.Query().Get("token")
	win, err := h.hub.Lookup(id, token)
	if err != nil || win.Closed() {
		http.Error(w, "Unknown pop-out", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	err = popoutTemplate.Execute(w, map[string]interface{}{
		"ID":      win.ID(),
		"Token":   token,
		"Initial": win.Spec().Initial,
	})
	if err != nil {
		logger.Error("render pop-out", logger.ErrorField(err))
	}
}

// PopoutSocketHandler attaches the mirror's WebSocket to its window.
func (h *APIHandler) PopoutSocketHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	win, err := h.hub.Lookup(id, r.URL.Query().Get("token"))
	if err != nil {
		http.Error(w, "Unknown pop-out", http.StatusNotFound)
		return
	}

	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("websocket upgrade failed", logger.ErrorField(err))
		return
	}
	if err := win.Serve(conn); err != nil {
		logger.Warn("pop-out connection refused", logger.ErrorField(err), logger.String("window", id))
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()))
		conn.Close()
	}
}
