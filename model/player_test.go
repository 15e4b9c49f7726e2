package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerStateStatus(t *testing.T) {
	s := PlayerState{}
	assert.Equal(t, StatusStopped, s.Status())

	s.IsPlaying = true
	assert.Equal(t, StatusStopped, s.Status(), "an empty playlist is always stopped")

	s.Tracks = SampleTracks()
	assert.Equal(t, StatusPlaying, s.Status())

	s.IsPlaying = false
	assert.Equal(t, StatusPaused, s.Status())
}

func TestEffectiveBackgroundPrefersCustom(t *testing.T) {
	s := PlayerState{Background: "/backgrounds/a.jpg"}
	assert.Equal(t, "/backgrounds/a.jpg", s.EffectiveBackground())

	s.CustomBackground = StringPtr("/media/bg.png")
	assert.Equal(t, "/media/bg.png", s.EffectiveBackground())
}

func TestCloneIsDeep(t *testing.T) {
	s := PlayerState{Tracks: SampleTracks(), CustomBackground: StringPtr("x")}

	c := s.Clone()
	*c.Tracks[0].Cover = "changed"
	*c.CustomBackground = "y"
	c.Tracks[1].Title = "changed"

	assert.Equal(t, "/album-covers/cover1.jpg", *s.Tracks[0].Cover)
	assert.Equal(t, "x", *s.CustomBackground)
	assert.Equal(t, "Maid with the Flaxen Hair", s.Tracks[1].Title)
}

func TestCurrentTrack(t *testing.T) {
	s := PlayerState{}
	assert.Nil(t, s.CurrentTrack())

	s.Tracks = SampleTracks()
	s.CurrentTrackIndex = 2
	require.NotNil(t, s.CurrentTrack())
	assert.Equal(t, "Kalimba", s.CurrentTrack().Title)
}

func TestNewUploadedTrack(t *testing.T) {
	tr := NewUploadedTrack("/tmp/My Song.mp3", "/media/tracks/abc.mp3", "/album-covers/cover3.jpg")

	assert.Equal(t, "My Song", tr.Title)
	assert.Equal(t, UnknownArtist, tr.Artist)
	assert.Equal(t, UnknownAlbum, tr.Album)
	assert.Zero(t, tr.Duration)
	assert.Equal(t, "/media/tracks/abc.mp3", tr.File)
	assert.Equal(t, "/album-covers/cover3.jpg", tr.CoverURL())
	assert.Contains(t, tr.ID, "track-")

	bare := NewUploadedTrack("x.mp3", "", "")
	assert.Nil(t, bare.Cover)
	assert.Equal(t, "", bare.CoverURL())
}
