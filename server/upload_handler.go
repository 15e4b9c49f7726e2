package server

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"winamp7/cache"
	"winamp7/logger"
	"winamp7/model"
	"winamp7/storage"
)

const maxUploadSize = 256 << 20

func isMP3(fh *multipart.FileHeader) bool {
	if strings.EqualFold(filepath.Ext(fh.Filename), ".mp3") {
		return true
	}
	return fh.Header.Get("Content-Type") == "audio/mpeg"
}

func isImage(fh *multipart.FileHeader) bool {
	if strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
		return true
	}
	return strings.HasPrefix(storage.InferContentType(fh.Filename), "image/")
}

// save stores one uploaded file under folder and returns its media URL.
func (h *APIHandler) save(ctx context.Context, folder string, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer f.Close()

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = storage.InferContentType(fh.Filename)
	}

	key := storage.NewKey(folder, fh.Filename)
	if _, err := h.store.Put(ctx, key, f, fh.Size, contentType); err != nil {
		return "", err
	}
	return storage.MediaURL(key), nil
}

// UploadTracksHandler appends uploaded mp3 files to the playlist. Other files
// are skipped.
func (h *APIHandler) UploadTracksHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	var tracks []model.Track
	for _, fh := range r.MultipartForm.File["files"] {
		if !isMP3(fh) {
			logger.Info("upload skipped, not an mp3", logger.String("file", fh.Filename))
			continue
		}
		url, err := h.save(r.Context(), storage.FolderTracks, fh)
		if err != nil {
			h.fail(w, err)
			return
		}
		tracks = append(tracks, model.NewUploadedTrack(fh.Filename, url, h.randomCover()))
	}
	if len(tracks) == 0 {
		http.Error(w, "No mp3 files in upload", http.StatusBadRequest)
		return
	}

	h.player.AddTracks(tracks...)
	logger.Info("tracks uploaded", logger.Int("count", len(tracks)))
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"tracks": tracks,
		"player": h.view(),
	})
}

// uploadImage stores the single image in the "file" field and remembers it
// as a recent image of kind.
func (h *APIHandler) uploadImage(w http.ResponseWriter, r *http.Request, folder string, kind cache.Kind) (string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(16 << 20); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return "", false
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["file"]
	if len(files) == 0 || !isImage(files[0]) {
		http.Error(w, "An image file is required", http.StatusBadRequest)
		return "", false
	}

	url, err := h.save(r.Context(), folder, files[0])
	if err != nil {
		h.fail(w, err)
		return "", false
	}
	if err := h.recent.Push(r.Context(), kind, url); err != nil {
		logger.Warn("remember recent image", logger.ErrorField(err), logger.String("url", url))
	}
	return url, true
}

// UploadCoverHandler uploads album art for the track at index.
func (h *APIHandler) UploadCoverHandler(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(r)
	if err != nil {
		http.Error(w, "invalid index", http.StatusBadRequest)
		return
	}
	if n := len(h.player.State().Tracks); index < 0 || index >= n {
		http.Error(w, "track index out of range", http.StatusNotFound)
		return
	}

	url, ok := h.uploadImage(w, r, storage.FolderAlbumArt, cache.KindAlbumArt)
	if !ok {
		return
	}
	if err := h.player.SetCover(index, url); err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"url": url, "player": h.view()})
}

// UploadBackgroundHandler uploads a custom background.
func (h *APIHandler) UploadBackgroundHandler(w http.ResponseWriter, r *http.Request) {
	url, ok := h.uploadImage(w, r, storage.FolderBackgrounds, cache.KindBackground)
	if !ok {
		return
	}
	h.player.SetCustomBackground(url)
	writeJSON(w, http.StatusOK, map[string]interface{}{"url": url, "player": h.view()})
}
