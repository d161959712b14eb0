package edit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerOpenAndGet(t *testing.T) {
	ctx := context.Background()
	m := NewManager(newFakeStore(roadTripPlaylist()), newFakeCatalog())

	s, err := m.Open(ctx, testPlaylistID, testOwnerID)
	require.NoError(t, err)

	got, err := m.Get(s.ID(), testOwnerID)
	require.NoError(t, err)
	assert.Same(t, s, got)
}

func TestManagerGetHidesOtherUsersSessions(t *testing.T) {
	ctx := context.Background()
	m := NewManager(newFakeStore(roadTripPlaylist()), newFakeCatalog())

	s, err := m.Open(ctx, testPlaylistID, testOwnerID)
	require.NoError(t, err)

	// 他人持有有效会话ID也拿不到会话，错误与不存在时一致
	_, err = m.Get(s.ID(), 99)
	assert.ErrorIs(t, err, ErrSessionClosed)
	_, err = m.Get("no-such-session", testOwnerID)
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestManagerSessionsAreIndependent(t *testing.T) {
	ctx := context.Background()
	second := roadTripPlaylist()
	second.ID = 2
	second.Name = "Workout"
	m := NewManager(newFakeStore(roadTripPlaylist(), second), newFakeCatalog())

	s1, err := m.Open(ctx, 1, testOwnerID)
	require.NoError(t, err)
	s2, err := m.Open(ctx, 2, testOwnerID)
	require.NoError(t, err)
	require.NotEqual(t, s1.ID(), s2.ID())

	_, err = s1.RemoveSong(ctx, 0)
	require.NoError(t, err)

	// s2 的历史不受 s1 编辑的影响
	assert.True(t, s1.CanUndo())
	assert.False(t, s2.CanUndo())
	assert.Len(t, s2.Snapshot().Playlist.Songs, 3)
}

func TestManagerClose(t *testing.T) {
	ctx := context.Background()
	m := NewManager(newFakeStore(roadTripPlaylist()), newFakeCatalog())

	s, err := m.Open(ctx, testPlaylistID, testOwnerID)
	require.NoError(t, err)

	require.NoError(t, m.Close(s.ID(), testOwnerID))

	_, err = m.Get(s.ID(), testOwnerID)
	assert.ErrorIs(t, err, ErrSessionClosed)
	_, err = s.MoveSong(ctx, 0, 1)
	assert.ErrorIs(t, err, ErrSessionClosed)

	// Closing twice reports the session as already gone.
	assert.ErrorIs(t, m.Close(s.ID(), testOwnerID), ErrSessionClosed)
}

func TestManagerCloseAll(t *testing.T) {
	ctx := context.Background()
	second := roadTripPlaylist()
	second.ID = 2
	m := NewManager(newFakeStore(roadTripPlaylist(), second), newFakeCatalog())

	s1, err := m.Open(ctx, 1, testOwnerID)
	require.NoError(t, err)
	s2, err := m.Open(ctx, 2, testOwnerID)
	require.NoError(t, err)

	m.CloseAll()

	for _, s := range []*Session{s1, s2} {
		_, err := s.Undo(ctx)
		assert.ErrorIs(t, err, ErrSessionClosed)
	}
	_, err = m.Get(s1.ID(), testOwnerID)
	assert.ErrorIs(t, err, ErrSessionClosed)
}
