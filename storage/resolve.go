package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Resolver maps track URLs to local files: media URLs through the store,
// anything else relative to the static roots (URL prefix -> directory).
type Resolver struct {
	store Store
	roots map[string]string
}

func NewResolver(store Store, roots map[string]string) *Resolver {
	return &Resolver{store: store, roots: roots}
}

// Resolve returns a local path for url.
func (r *Resolver) Resolve(ctx context.Context, url string) (string, error) {
	if key, ok := KeyFromURL(url); ok && r.store != nil {
		return r.store.Localize(ctx, key)
	}
	for prefix, dir := range r.roots {
		if !strings.HasPrefix(url, prefix) {
			continue
		}
		rel := strings.TrimPrefix(url, prefix)
		if err := checkKey(rel); err != nil {
			return "", err
		}
		p := filepath.Join(dir, filepath.FromSlash(rel))
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("%w: %s", ErrNotFound, url)
		}
		return p, nil
	}
	return "", fmt.Errorf("%w: no root for %s", ErrNotFound, url)
}
