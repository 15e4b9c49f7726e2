package server

import (
	"encoding/json"
	"errors"
	"io"
	"math/rand"
	"net/http"
	"strconv"

	"winamp7/cache"
	"winamp7/config"
	"winamp7/core/auth"
	"winamp7/core/mirror"
	"winamp7/core/player"
	"winamp7/logger"
	"winamp7/model"
	"winamp7/storage"

	"github.com/gorilla/mux"
)

// APIHandler serves the owner API, the pop-out page and its WebSocket.
type APIHandler struct {
	player *player.Controller
	hub    *mirror.Hub
	store  storage.Store
	recent cache.RecentImages
	signer *auth.Signer
	cfg    *config.Config

	randomCover func() string
}

// NewAPIHandler creates the handler set.
func NewAPIHandler(
	ctrl *player.Controller,
	hub *mirror.Hub,
	store storage.Store,
	recent cache.RecentImages,
	signer *auth.Signer,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		player: ctrl,
		hub:    hub,
		store:  store,
		recent: recent,
		signer: signer,
		cfg:    cfg,
		randomCover: func() string {
			return model.DefaultAlbumArts[rand.Intn(len(model.DefaultAlbumArts))]
		},
	}
}

// playerView is the owner's view of the player.
type playerView struct {
	model.PlayerState
	Status     model.PlaybackStatus `json:"status"`
	Background string               `json:"effectiveBackground"`
}

func (h *APIHandler) view() playerView {
	st := h.player.State()
	return playerView{
		PlayerState: st,
		Status:      st.Status(),
		Background:  st.EffectiveBackground(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("write response", logger.ErrorField(err))
	}
}

func readJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(v)
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, player.ErrEmptyPlaylist), errors.Is(err, mirror.ErrBlocked):
		return http.StatusConflict
	case errors.Is(err, player.ErrIndexOutOfRange), errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrInvalidKey):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *APIHandler) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", logger.ErrorField(err))
	}
	http.Error(w, err.Error(), status)
}

func pathIndex(r *http.Request) (int, error) {
	return strconv.Atoi(mux.Vars(r)["index"])
}

// HealthHandler reports liveness.
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"popouts": h.hub.Count(),
	})
}

// GetPlayerHandler returns the player state.
func (h *APIHandler) GetPlayerHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.view())
}

// transport wraps a parameterless player operation.
func (h *APIHandler) transport(op func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := op(); err != nil {
			h.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, h.view())
	}
}

func (h *APIHandler) TogglePlayHandler() http.HandlerFunc { return h.transport(h.player.TogglePlay) }
func (h *APIHandler) PrevTrackHandler() http.HandlerFunc  { return h.transport(h.player.PrevTrack) }
func (h *APIHandler) NextTrackHandler() http.HandlerFunc  { return h.transport(h.player.NextTrack) }

func (h *APIHandler) ToggleMuteHandler() http.HandlerFunc {
	return h.transport(func() error {
		h.player.ToggleMute()
		return nil
	})
}

type positionRequest struct {
	Position *float64 `json:"position"`
}

// SeekHandler seeks to a fraction of the current track.
func (h *APIHandler) SeekHandler(w http.ResponseWriter, r *http.Request) {
	var req positionRequest
	if err := readJSON(r, &req); err != nil || req.Position == nil {
		http.Error(w, "position is required", http.StatusBadRequest)
		return
	}
	h.player.Seek(*req.Position)
	writeJSON(w, http.StatusOK, h.view())
}

// VolumeHandler sets the volume from a fraction of the volume track.
func (h *APIHandler) VolumeHandler(w http.ResponseWriter, r *http.Request) {
	var req positionRequest
	if err := readJSON(r, &req); err != nil || req.Position == nil {
		http.Error(w, "position is required", http.StatusBadRequest)
		return
	}
	h.player.SetVolume(*req.Position)
	writeJSON(w, http.StatusOK, h.view())
}

// SelectTrackHandler plays the track at the given index.
func (h *APIHandler) SelectTrackHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Index *int `json:"index"`
	}
	if err := readJSON(r, &req); err != nil || req.Index == nil {
		http.Error(w, "index is required", http.StatusBadRequest)
		return
	}
	if err := h.player.SelectTrack(*req.Index); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view())
}

// RemoveTrackHandler deletes a track from the playlist.
func (h *APIHandler) RemoveTrackHandler(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(r)
	if err != nil {
		http.Error(w, "invalid index", http.StatusBadRequest)
		return
	}
	if err := h.player.RemoveTrack(index); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view())
}

// SetCoverHandler sets a track's cover to a named or previously uploaded image.
func (h *APIHandler) SetCoverHandler(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(r)
	if err != nil {
		http.Error(w, "invalid index", http.StatusBadRequest)
		return
	}
	var req struct {
		Cover string `json:"cover"`
	}
	if err := readJSON(r, &req); err != nil || req.Cover == "" {
		http.Error(w, "cover is required", http.StatusBadRequest)
		return
	}
	if err := h.player.SetCover(index, req.Cover); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view())
}

// SetBackgroundHandler selects a named background.
func (h *APIHandler) SetBackgroundHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Background string `json:"background"`
	}
	if err := readJSON(r, &req); err != nil || req.Background == "" {
		http.Error(w, "background is required", http.StatusBadRequest)
		return
	}
	h.player.SetBackground(req.Background)
	writeJSON(w, http.StatusOK, h.view())
}

// RecentHandler lists the recently uploaded images.
func (h *APIHandler) RecentHandler(w http.ResponseWriter, r *http.Request) {
	backgrounds, err := h.recent.List(r.Context(), cache.KindBackground)
	if err != nil {
		h.fail(w, err)
		return
	}
	arts, err := h.recent.List(r.Context(), cache.KindAlbumArt)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{
		"backgrounds": backgrounds,
		"albumArts":   arts,
	})
}

type urlRequest struct {
	URL string `json:"url"`
}

// ApplyRecentBackgroundHandler re-applies an uploaded background.
func (h *APIHandler) ApplyRecentBackgroundHandler(w http.ResponseWriter, r *http.Request) {
	var req urlRequest
	if err := readJSON(r, &req); err != nil || req.URL == "" {
		http.Error(w, "url is required", http.StatusBadRequest)
		return
	}
	h.player.ApplyRecentBackground(req.URL)
	writeJSON(w, http.StatusOK, h.view())
}

// ApplyRecentAlbumArtHandler sets an uploaded image as the current track's cover.
func (h *APIHandler) ApplyRecentAlbumArtHandler(w http.ResponseWriter, r *http.Request) {
	var req urlRequest
	if err := readJSON(r, &req); err != nil || req.URL == "" {
		http.Error(w, "url is required", http.StatusBadRequest)
		return
	}
	if err := h.player.ApplyCoverToCurrent(req.URL); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view())
}
