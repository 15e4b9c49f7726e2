package player

import (
	"math"
	"testing"

	"winamp7/core/mirror"
	"winamp7/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewControllerLoadsFirstTrackPaused(t *testing.T) {
	c, el, _ := newTestController(threeTracks())

	st := c.State()
	assert.Equal(t, 0, st.CurrentTrackIndex)
	assert.False(t, st.IsPlaying)
	assert.Equal(t, 0.7, st.Volume)
	assert.Equal(t, 100.0, st.Duration)
	assert.Equal(t, model.StatusPaused, c.Status())
	assert.Equal(t, "/music/a.mp3", el.currentSource().URL)
	assert.Equal(t, 0.7, el.volume)
}

func TestNextPrevWraparound(t *testing.T) {
	c, _, _ := newTestController(threeTracks())

	require.NoError(t, c.NextTrack())
	assert.Equal(t, 1, c.State().CurrentTrackIndex)
	require.NoError(t, c.NextTrack())
	assert.Equal(t, 2, c.State().CurrentTrackIndex)
	require.NoError(t, c.NextTrack())
	assert.Equal(t, 0, c.State().CurrentTrackIndex)
	assert.True(t, c.State().IsPlaying)

	require.NoError(t, c.PrevTrack())
	assert.Equal(t, 2, c.State().CurrentTrackIndex)
}

func TestNextPrevAreInverse(t *testing.T) {
	for n := 1; n <= 4; n++ {
		tracks := threeTracks()
		for len(tracks) < n {
			tracks = append(tracks, model.Track{ID: string(rune('d' + len(tracks))), File: "/x.mp3"})
		}
		tracks = tracks[:n]

		for i := 0; i < n; i++ {
			c, _, _ := newTestController(tracks)
			require.NoError(t, c.SelectTrack(i))

			require.NoError(t, c.PrevTrack())
			require.NoError(t, c.NextTrack())
			assert.Equal(t, i, c.State().CurrentTrackIndex, "next(prev(%d)) with %d tracks", i, n)

			require.NoError(t, c.NextTrack())
			require.NoError(t, c.PrevTrack())
			assert.Equal(t, i, c.State().CurrentTrackIndex, "prev(next(%d)) with %d tracks", i, n)
		}
	}
}

func TestTogglePlay(t *testing.T) {
	c, el, _ := newTestController(threeTracks())

	require.NoError(t, c.TogglePlay())
	assert.True(t, c.State().IsPlaying)
	assert.True(t, el.isPlaying())
	assert.Equal(t, model.StatusPlaying, c.Status())

	require.NoError(t, c.TogglePlay())
	assert.False(t, c.State().IsPlaying)
	assert.False(t, el.isPlaying())
}

func TestPlaybackFailureRevertsPlaying(t *testing.T) {
	c, el, _ := newTestController(threeTracks())
	el.playErr = errAutoplay

	require.NoError(t, c.TogglePlay())
	assert.False(t, c.State().IsPlaying)

	require.NoError(t, c.SelectTrack(1))
	assert.False(t, c.State().IsPlaying)
	assert.Equal(t, 1, c.State().CurrentTrackIndex)
}

func TestPlaybackFailsWithoutSource(t *testing.T) {
	c, _, _ := newTestController([]model.Track{{ID: "silent", Title: "no file"}})

	require.NoError(t, c.TogglePlay())
	assert.False(t, c.State().IsPlaying)
}

func TestTogglePlayOnEmptyPlaylist(t *testing.T) {
	c, _, _ := newTestController(nil)

	assert.ErrorIs(t, c.TogglePlay(), ErrEmptyPlaylist)
	assert.ErrorIs(t, c.NextTrack(), ErrEmptyPlaylist)
	assert.ErrorIs(t, c.PrevTrack(), ErrEmptyPlaylist)
	assert.Equal(t, model.StatusStopped, c.Status())
}

func TestSelectTrack(t *testing.T) {
	c, el, _ := newTestController(threeTracks())

	require.NoError(t, c.SelectTrack(2))
	st := c.State()
	assert.Equal(t, 2, st.CurrentTrackIndex)
	assert.True(t, st.IsPlaying)
	assert.Equal(t, "/music/c.mp3", el.currentSource().URL)

	el.SetPosition(42)
	loads := el.loads
	require.NoError(t, c.SelectTrack(2))
	assert.Equal(t, loads+1, el.loads, "reselecting restarts the track")
	assert.Zero(t, c.State().CurrentTime)

	assert.ErrorIs(t, c.SelectTrack(3), ErrIndexOutOfRange)
	assert.ErrorIs(t, c.SelectTrack(-1), ErrIndexOutOfRange)
}

func TestRemoveOnlyTrack(t *testing.T) {
	c, el, _ := newTestController(threeTracks()[:1])
	require.NoError(t, c.TogglePlay())

	require.NoError(t, c.RemoveTrack(0))

	st := c.State()
	assert.Empty(t, st.Tracks)
	assert.Equal(t, 0, st.CurrentTrackIndex)
	assert.False(t, st.IsPlaying)
	assert.False(t, el.isPlaying())
	assert.Equal(t, model.StatusStopped, c.Status())
}

func TestRemoveBeforeCurrentKeepsSameTrack(t *testing.T) {
	c, _, _ := newTestController(threeTracks())
	require.NoError(t, c.SelectTrack(2))

	require.NoError(t, c.RemoveTrack(0))

	st := c.State()
	assert.Equal(t, 1, st.CurrentTrackIndex)
	assert.Equal(t, "c", st.CurrentTrack().ID)
}

func TestRemoveCurrentLastClamps(t *testing.T) {
	c, el, _ := newTestController(threeTracks())
	require.NoError(t, c.SelectTrack(2))

	require.NoError(t, c.RemoveTrack(2))

	st := c.State()
	require.Len(t, st.Tracks, 2)
	assert.Equal(t, 1, st.CurrentTrackIndex)
	assert.Equal(t, "b", st.CurrentTrack().ID)
	assert.True(t, st.IsPlaying)
	assert.Equal(t, "/music/b.mp3", el.currentSource().URL)
}

func TestRemoveCurrentNotLastSlidesToNext(t *testing.T) {
	c, el, _ := newTestController(threeTracks())
	require.NoError(t, c.SelectTrack(1))

	require.NoError(t, c.RemoveTrack(1))

	st := c.State()
	assert.Equal(t, 1, st.CurrentTrackIndex)
	assert.Equal(t, "c", st.CurrentTrack().ID)
	assert.Equal(t, "/music/c.mp3", el.currentSource().URL)
}

func TestRemoveAfterCurrentLeavesIndex(t *testing.T) {
	c, el, _ := newTestController(threeTracks())
	loads := el.loads

	require.NoError(t, c.RemoveTrack(2))

	assert.Equal(t, 0, c.State().CurrentTrackIndex)
	assert.Equal(t, loads, el.loads)
	assert.ErrorIs(t, c.RemoveTrack(5), ErrIndexOutOfRange)
}

func TestSeek(t *testing.T) {
	c, el, _ := newTestController(threeTracks())

	c.Seek(0.5)

	assert.Equal(t, 50.0, el.position)
	assert.Equal(t, 50.0, c.State().CurrentTime)
}

func TestSetVolumeClampsAndMutes(t *testing.T) {
	c, el, _ := newTestController(threeTracks())

	c.SetVolume(-0.3)
	assert.Equal(t, 0.0, c.State().Volume)
	assert.True(t, c.State().IsMuted)
	assert.True(t, el.muted)

	c.SetVolume(1.7)
	assert.Equal(t, 1.0, c.State().Volume)
	assert.False(t, c.State().IsMuted)
	assert.False(t, el.muted)
	assert.Equal(t, 1.0, el.volume)
}

func TestToggleMute(t *testing.T) {
	c, el, _ := newTestController(threeTracks())

	c.ToggleMute()
	assert.True(t, c.State().IsMuted)
	assert.True(t, el.muted)

	c.ToggleMute()
	assert.False(t, c.State().IsMuted)
}

func TestBackgroundPrecedence(t *testing.T) {
	c, _, _ := newTestController(threeTracks())

	c.SetCustomBackground("/media/bg.png")
	assert.Equal(t, "/media/bg.png", c.Snapshot().Background)

	c.SetBackground("/backgrounds/aurora.jpg")
	st := c.State()
	assert.Nil(t, st.CustomBackground)
	assert.Equal(t, "/backgrounds/aurora.jpg", c.Snapshot().Background)

	c.ApplyRecentBackground("/media/old.png")
	st = c.State()
	assert.Equal(t, "", st.Background)
	assert.Equal(t, "/media/old.png", c.Snapshot().Background)
}

func TestCovers(t *testing.T) {
	c, _, _ := newTestController(threeTracks())

	require.NoError(t, c.SetCover(1, "/album-covers/cover6.jpg"))
	assert.Equal(t, "/album-covers/cover6.jpg", c.State().Tracks[1].CoverURL())
	assert.ErrorIs(t, c.SetCover(9, "x"), ErrIndexOutOfRange)

	require.NoError(t, c.ApplyCoverToCurrent("/media/art.png"))
	assert.Equal(t, "/media/art.png", c.Snapshot().Cover)

	empty, _, _ := newTestController(nil)
	assert.ErrorIs(t, empty.ApplyCoverToCurrent("x"), ErrEmptyPlaylist)
}

func TestAddTracksToEmptyPlaylist(t *testing.T) {
	c, el, _ := newTestController(nil)

	c.AddTracks(threeTracks()...)

	st := c.State()
	assert.Len(t, st.Tracks, 3)
	assert.Equal(t, 0, st.CurrentTrackIndex)
	assert.Equal(t, "/music/a.mp3", el.currentSource().URL)
	assert.Equal(t, model.StatusPaused, c.Status())
}

func TestMediaEndedAutoAdvances(t *testing.T) {
	c, _, _ := newTestController(threeTracks())
	require.NoError(t, c.SelectTrack(2))

	c.MediaEnded()

	st := c.State()
	assert.Equal(t, 0, st.CurrentTrackIndex)
	assert.True(t, st.IsPlaying)
}

func TestMediaErrorStopsPlayback(t *testing.T) {
	c, el, _ := newTestController(threeTracks())
	require.NoError(t, c.TogglePlay())

	c.MediaError(errAutoplay)

	assert.False(t, c.State().IsPlaying)
	assert.False(t, el.isPlaying())
}

func TestMediaDurationChangeFillsUnknownDuration(t *testing.T) {
	tracks := threeTracks()
	tracks[0].Duration = 0
	c, el, _ := newTestController(tracks)

	c.MediaDurationChange(el.currentSource(), 123)

	st := c.State()
	assert.Equal(t, 123.0, st.Duration)
	assert.Equal(t, 123.0, st.Tracks[0].Duration)
}

func TestMediaDurationChangeFromPreviousTrackIgnored(t *testing.T) {
	tracks := threeTracks()
	tracks[1].Duration = 0
	c, el, _ := newTestController(tracks)
	first := el.currentSource()

	require.NoError(t, c.SelectTrack(1))
	c.MediaDurationChange(first, 100)

	st := c.State()
	assert.Equal(t, 1, st.CurrentTrackIndex)
	assert.Equal(t, 0.0, st.Duration)
	assert.Equal(t, 0.0, st.Tracks[1].Duration)
	assert.Equal(t, 100.0, st.Tracks[0].Duration)

	c.MediaDurationChange(el.currentSource(), 42)
	assert.Equal(t, 42.0, c.State().Tracks[1].Duration)
}

func TestSnapshotWithZeroDuration(t *testing.T) {
	tracks := threeTracks()
	tracks[0].Duration = 0
	c, _, _ := newTestController(tracks)

	snap := c.Snapshot()
	assert.True(t, math.IsNaN(float64(snap.Progress)))
	assert.Equal(t, "00:00", snap.Duration)
}

func TestOpenMirrorBlocked(t *testing.T) {
	c, _, op := newTestController(threeTracks())
	op.blocked = true

	h, err := c.OpenMirror()

	assert.ErrorIs(t, err, mirror.ErrBlocked)
	assert.Nil(t, h)
	assert.Nil(t, c.MirrorHandle())
}
