package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MediaPrefix is the URL path under which stored objects are served.
const MediaPrefix = "/media/"

// Folders inside the store.
const (
	FolderTracks      = "tracks"
	FolderBackgrounds = "backgrounds"
	FolderAlbumArt    = "album-art"
)

var (
	ErrNotFound   = errors.New("storage: object not found")
	ErrInvalidKey = errors.New("storage: invalid object key")
)

// ObjectInfo describes one stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
	ContentType  string
}

// Store keeps uploaded tracks and images.
type Store interface {
	// Put stores r under key.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (ObjectInfo, error)
	// Get opens the object for reading.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Localize returns a local file path holding the object, for decoders
	// that need a file.
	Localize(ctx context.Context, key string) (string, error)
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
}

// NewKey builds a unique key in folder that keeps the file's base name.
func NewKey(folder, fileName string) string {
	base := strings.ReplaceAll(filepath.Base(fileName), " ", "_")
	if base == "." || base == "/" || base == "" {
		base = "file"
	}
	return path.Join(folder, uuid.NewString()[:8]+"-"+base)
}

// MediaURL returns the URL an object is served at.
func MediaURL(key string) string {
	return MediaPrefix + key
}

// KeyFromURL extracts the object key from a media URL.
func KeyFromURL(url string) (string, bool) {
	if !strings.HasPrefix(url, MediaPrefix) {
		return "", false
	}
	key := strings.TrimPrefix(url, MediaPrefix)
	if err := checkKey(key); err != nil {
		return "", false
	}
	return key, true
}

func checkKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || path.Clean(key) != key || strings.HasPrefix(key, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// InferContentType guesses a content type from the file extension.
func InferContentType(fileName string) string {
	switch strings.ToLower(path.Ext(fileName)) {
	case ".mp3":
		return "audio/mpeg"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	default:
		return "application/octet-stream"
	}
}
