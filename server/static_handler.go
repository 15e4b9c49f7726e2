package server

import (
	"io"
	"net/http"
	"strings"

	"winamp7/logger"
	"winamp7/storage"
)

// MediaHandler serves uploaded objects from the store.
type MediaHandler struct {
	store storage.Store
}

// NewMediaHandler creates a MediaHandler.
func NewMediaHandler(store storage.Store) *MediaHandler {
	return &MediaHandler{store: store}
}

// ServeHTTP implements http.Handler.
func (h *MediaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, storage.MediaPrefix)

	obj, info, err := h.store.Get(r.Context(), key)
	if err != nil {
		switch statusFor(err) {
		case http.StatusNotFound, http.StatusBadRequest:
			http.Error(w, "File not found", http.StatusNotFound)
		default:
			logger.Error("open media", logger.ErrorField(err), logger.String("key", key))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}
	defer obj.Close()

	w.Header().Set("Content-Type", info.ContentType)
	w.Header().Set("Cache-Control", "public, max-age=31536000")

	// Seekable objects are served with range support.
	if rs, ok := obj.(io.ReadSeeker); ok {
		http.ServeContent(w, r, key, info.LastModified, rs)
		return
	}
	if _, err := io.Copy(w, obj); err != nil {
		logger.Error("Error serving media", logger.ErrorField(err))
	}
}
