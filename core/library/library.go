package library

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"winamp7/logger"
	"winamp7/model"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
)

// Library is a directory of mp3 files served under a URL prefix.
type Library struct {
	dir    string
	prefix string
	settle time.Duration // quiet period before a new file is considered complete

	mu   sync.Mutex
	seen map[string]bool
}

// New returns a library for dir whose files are reachable at urlPrefix.
func New(dir, urlPrefix string) *Library {
	if !strings.HasSuffix(urlPrefix, "/") {
		urlPrefix += "/"
	}
	return &Library{
		dir:    dir,
		prefix: urlPrefix,
		settle: 500 * time.Millisecond,
		seen:   make(map[string]bool),
	}
}

func isTrackFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".mp3")
}

// track builds the playlist entry for a file. The id is stable per file name
// so rescans produce the same ids.
func (l *Library) track(name string) model.Track {
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(l.prefix+name))
	cover := model.DefaultAlbumArts[int(id[0])%len(model.DefaultAlbumArts)]
	return model.Track{
		ID:     "track-" + id.String(),
		Title:  strings.TrimSuffix(name, filepath.Ext(name)),
		Artist: model.UnknownArtist,
		Album:  model.UnknownAlbum,
		Cover:  model.StringPtr(cover),
		File:   path.Join(l.prefix, name),
	}
}

// markNew records name and reports whether it was not seen before.
func (l *Library) markNew(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.seen[name] {
		return false
	}
	l.seen[name] = true
	return true
}

// Scan lists the mp3 files in the directory, sorted by name. A missing
// directory is an empty library.
func (l *Library) Scan() ([]model.Track, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read library %s: %w", l.dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !isTrackFile(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	tracks := make([]model.Track, 0, len(names))
	for _, name := range names {
		l.markNew(name)
		tracks = append(tracks, l.track(name))
	}
	return tracks, nil
}

// Watch calls add for every mp3 file that appears in the directory after
// Scan, once it has stopped changing. It blocks until ctx is done.
func (l *Library) Watch(ctx context.Context, add func(model.Track)) error {
	if err := os.MkdirAll(l.dir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create library %s: %w", l.dir, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(l.dir); err != nil {
		return fmt.Errorf("watch %s: %w", l.dir, err)
	}
	logger.Info("watching library", logger.String("dir", l.dir))

	var (
		mu      sync.Mutex
		pending = make(map[string]*time.Timer)
	)
	defer func() {
		mu.Lock()
		for _, t := range pending {
			t.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			name := filepath.Base(event.Name)
			if !isTrackFile(name) {
				continue
			}

			mu.Lock()
			if t, ok := pending[name]; ok {
				t.Reset(l.settle)
			} else {
				pending[name] = time.AfterFunc(l.settle, func() {
					mu.Lock()
					delete(pending, name)
					mu.Unlock()
					if ctx.Err() != nil || !l.markNew(name) {
						return
					}
					logger.Info("library track added", logger.String("file", name))
					add(l.track(name))
				})
			}
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("library watcher error", logger.ErrorField(err))

		case <-ctx.Done():
			return nil
		}
	}
}
