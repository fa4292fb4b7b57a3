package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"

	"github.com/tunedeck/tunedeck/internal/app/notification"
	"github.com/tunedeck/tunedeck/internal/domain/identity"
	"github.com/tunedeck/tunedeck/internal/domain/track"
)

// fakeStorage implements store.Storage for manager tests. Only the delete
// path is exercised here; the synchronizer tests cover load/save.
type fakeStorage struct {
	deleteErr error
	deleted   []string
}

func (f *fakeStorage) LoadLiked(ctx context.Context, userID string) ([]track.Track, error) {
	return nil, nil
}

func (f *fakeStorage) SaveLiked(ctx context.Context, userID string, tracks []track.Track) error {
	return nil
}

func (f *fakeStorage) LoadRecentlyPlayed(ctx context.Context, userID string) ([]track.Track, error) {
	return nil, nil
}

func (f *fakeStorage) SaveRecentlyPlayed(ctx context.Context, userID string, tracks []track.Track) error {
	return nil
}

func (f *fakeStorage) DeleteRecentlyPlayedEntry(ctx context.Context, userID, videoID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, userID+"/"+videoID)
	return nil
}

func (f *fakeStorage) Close() error { return nil }

// recordingSink captures notifications for assertions.
type recordingSink struct {
	events []string
}

func (r *recordingSink) Notify(level notification.Level, message string) {
	r.events = append(r.events, fmt.Sprintf("%s: %s", level, message))
}

func newTestManager() (*Manager, *fakeStorage, *recordingSink) {
	storage := &fakeStorage{}
	sink := &recordingSink{}
	return NewManager(NewStore(), storage, sink), storage, sink
}

func TestManager_Select(t *testing.T) {
	mgr, _, sink := newTestManager()

	err := mgr.Select(track.Track{VideoID: "a", Title: "First"})
	assert.NoError(t, err)
	err = mgr.Select(track.Track{VideoID: "b", Title: "Second"})
	assert.NoError(t, err)

	st := mgr.Store()
	assert.Equal(t, "b", st.CurrentTrack().VideoID)
	assert.Equal(t, []track.Track{
		{VideoID: "b", Title: "Second"},
		{VideoID: "a", Title: "First"},
	}, st.RecentlyPlayed())
	assert.Empty(t, sink.events)
}

func TestManager_SelectWithoutVideoID(t *testing.T) {
	mgr, _, sink := newTestManager()
	assert.NoError(t, mgr.Select(track.Track{VideoID: "a"}))

	err := mgr.Select(track.Track{Title: "No ID"})
	assert.ErrorIs(t, err, track.ErrMissingVideoID)

	// Neither the history nor the current track moved
	st := mgr.Store()
	assert.Equal(t, "a", st.CurrentTrack().VideoID)
	assert.Len(t, st.RecentlyPlayed(), 1)
	assert.Len(t, sink.events, 1)
	assert.Contains(t, sink.events[0], "error")
}

func TestManager_ToggleLike(t *testing.T) {
	mgr, _, _ := newTestManager()

	mgr.ToggleLike(track.Track{VideoID: "a"}, false)
	assert.True(t, mgr.Store().IsLiked("a"))

	mgr.ToggleLike(track.Track{VideoID: "a"}, true)
	assert.False(t, mgr.Store().IsLiked("a"))
}

func TestManager_Reorder(t *testing.T) {
	mgr, _, _ := newTestManager()
	mgr.Store().ReplaceLikedSongs([]track.Track{
		{VideoID: "a"}, {VideoID: "b"}, {VideoID: "c"}, {VideoID: "d"},
	})

	mgr.Reorder(0, 2)

	got := mgr.Store().LikedSongs()
	assert.Equal(t, "b", got[0].VideoID)
	assert.Equal(t, "c", got[1].VideoID)
	assert.Equal(t, "a", got[2].VideoID)
	assert.Equal(t, "d", got[3].VideoID)
}

func TestManager_Navigation(t *testing.T) {
	mgr, _, _ := newTestManager()
	mgr.Store().ReplaceLikedSongs([]track.Track{
		{VideoID: "a"}, {VideoID: "b"}, {VideoID: "c"},
	})
	mgr.Store().SetCurrentTrack(&track.Track{VideoID: "b"})

	next, ok := mgr.Next()
	assert.True(t, ok)
	assert.Equal(t, "c", next.VideoID)
	assert.Equal(t, "c", mgr.Store().CurrentTrack().VideoID)

	// At the end now; next yields no change
	_, ok = mgr.Next()
	assert.False(t, ok)
	assert.Equal(t, "c", mgr.Store().CurrentTrack().VideoID)

	prev, ok := mgr.Prev()
	assert.True(t, ok)
	assert.Equal(t, "b", prev.VideoID)
}

func TestManager_DeleteRecentlyPlayed(t *testing.T) {
	mgr, storage, _ := newTestManager()
	st := mgr.Store()
	st.SetIdentity(identity.New("u1", "Alice"))
	st.ReplaceRecentlyPlayed([]track.Track{{VideoID: "a"}, {VideoID: "b"}})

	err := mgr.DeleteRecentlyPlayed(context.Background(), "a")
	assert.NoError(t, err)
	assert.Equal(t, []string{"u1/a"}, storage.deleted)
	assert.Equal(t, []track.Track{{VideoID: "b"}}, st.RecentlyPlayed())
}

func TestManager_DeleteRecentlyPlayedRemoteFailure(t *testing.T) {
	mgr, storage, sink := newTestManager()
	storage.deleteErr = errors.New("store unavailable")
	st := mgr.Store()
	st.SetIdentity(identity.New("u1", "Alice"))
	st.ReplaceRecentlyPlayed([]track.Track{{VideoID: "a"}, {VideoID: "b"}})

	err := mgr.DeleteRecentlyPlayed(context.Background(), "a")
	assert.Error(t, err)

	// Local state untouched, error surfaced once
	assert.Len(t, st.RecentlyPlayed(), 2)
	assert.Len(t, sink.events, 1)
	assert.Contains(t, sink.events[0], "error")
}

func TestManager_DeleteRecentlyPlayedAnonymous(t *testing.T) {
	mgr, storage, _ := newTestManager()
	st := mgr.Store()
	st.ReplaceRecentlyPlayed([]track.Track{{VideoID: "a"}, {VideoID: "b"}})

	err := mgr.DeleteRecentlyPlayed(context.Background(), "b")
	assert.NoError(t, err)

	// No remote call without an identity
	assert.Empty(t, storage.deleted)
	assert.Equal(t, []track.Track{{VideoID: "a"}}, st.RecentlyPlayed())
}
