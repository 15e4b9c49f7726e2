package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	info, err := s.Put(ctx, "tracks/abc-song.mp3", strings.NewReader("ID3data"), 7, "audio/mpeg")
	require.NoError(t, err)
	assert.Equal(t, int64(7), info.Size)

	rc, got, err := s.Get(ctx, "tracks/abc-song.mp3")
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "ID3data", string(data))
	assert.Equal(t, "audio/mpeg", got.ContentType)

	p, err := s.Localize(ctx, "tracks/abc-song.mp3")
	require.NoError(t, err)
	assert.FileExists(t, p)

	_, _, err = s.Get(ctx, "tracks/missing.mp3")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Localize(ctx, "tracks/missing.mp3")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStoreRejectsEscapingKeys(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"../etc/passwd", "/abs.mp3", "a/../../b", ""} {
		_, err := s.Put(ctx, key, strings.NewReader("x"), 1, "")
		assert.ErrorIs(t, err, ErrInvalidKey, key)
	}
}

func TestLocalStoreList(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"tracks/a.mp3", "tracks/b.mp3", "backgrounds/c.png"} {
		_, err := s.Put(ctx, key, strings.NewReader("1234"), 4, "")
		require.NoError(t, err)
	}

	tracks, err := s.List(ctx, FolderTracks)
	require.NoError(t, err)
	assert.Len(t, tracks, 2)

	objects, stats, err := Stats(ctx, s, "")
	require.NoError(t, err)
	assert.Len(t, objects, 3)
	assert.Equal(t, int64(3), stats.TotalObjects)
	assert.Equal(t, int64(12), stats.TotalSize)
	assert.Equal(t, int64(8), stats.ByFolder["tracks"])

	var buf bytes.Buffer
	require.NoError(t, PrintStatus(ctx, &buf, s, ""))
	assert.Contains(t, buf.String(), "backgrounds/c.png")
	assert.Contains(t, buf.String(), "Objects:       3")
}

func TestKeys(t *testing.T) {
	key := NewKey(FolderTracks, "/tmp/My Song.mp3")
	assert.True(t, strings.HasPrefix(key, "tracks/"))
	assert.True(t, strings.HasSuffix(key, "-My_Song.mp3"))

	got, ok := KeyFromURL(MediaURL(key))
	assert.True(t, ok)
	assert.Equal(t, key, got)

	_, ok = KeyFromURL("/music/sample1.mp3")
	assert.False(t, ok)
	_, ok = KeyFromURL("/media/../secret")
	assert.False(t, ok)
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "512 B", FormatSize(512))
	assert.Equal(t, "1.5 KB", FormatSize(1536))
	assert.Equal(t, "3.0 MB", FormatSize(3*1024*1024))
}

func TestResolver(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	_, err = s.Put(ctx, "tracks/x.mp3", strings.NewReader("x"), 1, "")
	require.NoError(t, err)

	music := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(music, "sample1.mp3"), []byte("x"), 0o644))

	r := NewResolver(s, map[string]string{"/music/": music})

	p, err := r.Resolve(ctx, "/media/tracks/x.mp3")
	require.NoError(t, err)
	assert.FileExists(t, p)

	p, err = r.Resolve(ctx, "/music/sample1.mp3")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(music, "sample1.mp3"), p)

	_, err = r.Resolve(ctx, "/music/nope.mp3")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.Resolve(ctx, "https://example.com/a.mp3")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = r.Resolve(ctx, "/music/../../etc/passwd")
	assert.Error(t, err)
}
