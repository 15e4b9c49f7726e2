package cache

import (
	"context"
	"fmt"
	"sync"
)

// MaxRecent is how many images of each kind are remembered.
const MaxRecent = 10

// Kind selects one of the recent image lists.
type Kind string

const (
	KindBackground Kind = "background"
	KindAlbumArt   Kind = "album-art"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindBackground || k == KindAlbumArt
}

// RecentImages remembers recently uploaded image URLs, newest first, without
// duplicates and capped at MaxRecent per kind.
type RecentImages interface {
	Push(ctx context.Context, kind Kind, url string) error
	List(ctx context.Context, kind Kind) ([]string, error)
}

// MemoryRecent keeps recent images in process memory.
type MemoryRecent struct {
	mu    sync.Mutex
	lists map[Kind][]string
}

func NewMemoryRecent() *MemoryRecent {
	return &MemoryRecent{lists: make(map[Kind][]string)}
}

func (m *MemoryRecent) Push(_ context.Context, kind Kind, url string) error {
	if !kind.Valid() {
		return fmt.Errorf("unknown image kind %q", kind)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	list := []string{url}
	for _, u := range m.lists[kind] {
		if u != url {
			list = append(list, u)
		}
	}
	if len(list) > MaxRecent {
		list = list[:MaxRecent]
	}
	m.lists[kind] = list
	return nil
}

func (m *MemoryRecent) List(_ context.Context, kind Kind) ([]string, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown image kind %q", kind)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.lists[kind]...), nil
}
