package edit

import (
	"context"
	"fmt"
	"sync"

	"playlister/model"
	"playlister/repository"
)

// fakeStore is an in-memory PlaylistStore mirroring the server-side splice
// semantics, with per-op error injection and call counting.
type fakeStore struct {
	mu        sync.Mutex
	playlists map[int64]*model.Playlist
	calls     map[Op]int
	fail      map[Op]error
}

func newFakeStore(playlists ...*model.Playlist) *fakeStore {
	f := &fakeStore{
		playlists: make(map[int64]*model.Playlist),
		calls:     make(map[Op]int),
		fail:      make(map[Op]error),
	}
	for _, p := range playlists {
		f.playlists[p.ID] = p.Clone()
	}
	return f
}

func (f *fakeStore) failWith(op Op, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.fail, op)
		return
	}
	f.fail[op] = err
}

func (f *fakeStore) callCount(op Op) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// begin records the call and resolves the owned playlist. Caller holds f.mu.
func (f *fakeStore) begin(op Op, id, callerID int64) (*model.Playlist, error) {
	f.calls[op]++
	if err := f.fail[op]; err != nil {
		return nil, err
	}
	p, ok := f.playlists[id]
	if !ok {
		return nil, fmt.Errorf("playlist %d: %w", id, repository.ErrNotFound)
	}
	if p.OwnerID != callerID {
		return nil, fmt.Errorf("playlist %d: %w", id, repository.ErrForbidden)
	}
	return p, nil
}

func (f *fakeStore) GetPlaylistByID(_ context.Context, id int64) (*model.Playlist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.playlists[id]
	if !ok {
		return nil, fmt.Errorf("playlist %d: %w", id, repository.ErrNotFound)
	}
	return p.Clone(), nil
}

func (f *fakeStore) RenamePlaylist(_ context.Context, id, callerID int64, newName string) (*model.Playlist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, err := f.begin(OpRename, id, callerID)
	if err != nil {
		return nil, err
	}
	if newName == "" {
		return nil, fmt.Errorf("empty name: %w", repository.ErrValidation)
	}
	p.Name = newName
	return p.Clone(), nil
}

func (f *fakeStore) MoveSong(_ context.Context, id, callerID int64, from, to int) (*model.Playlist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, err := f.begin(OpMoveSong, id, callerID)
	if err != nil {
		return nil, err
	}
	n := len(p.Songs)
	if from < 0 || from >= n || to < 0 || to >= n {
		return nil, fmt.Errorf("move %d -> %d: %w", from, to, repository.ErrIndexOutOfRange)
	}
	moved := p.Songs[from]
	rest := append(append([]model.SongEntry{}, p.Songs[:from]...), p.Songs[from+1:]...)
	songs := append(append(append([]model.SongEntry{}, rest[:to]...), moved), rest[to:]...)
	p.Songs = songs
	return p.Clone(), nil
}

func (f *fakeStore) RemoveSong(_ context.Context, id, callerID int64, index int) (*model.Playlist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, err := f.begin(OpRemoveSong, id, callerID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(p.Songs) {
		return nil, fmt.Errorf("remove %d: %w", index, repository.ErrIndexOutOfRange)
	}
	p.Songs = append(append([]model.SongEntry{}, p.Songs[:index]...), p.Songs[index+1:]...)
	return p.Clone(), nil
}

func (f *fakeStore) InsertSong(_ context.Context, id, callerID int64, index int, entry model.SongEntry) (*model.Playlist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, err := f.begin(OpInsertSong, id, callerID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index > len(p.Songs) {
		return nil, fmt.Errorf("insert %d: %w", index, repository.ErrIndexOutOfRange)
	}
	songs := append(append([]model.SongEntry{}, p.Songs[:index]...), entry)
	p.Songs = append(songs, p.Songs[index:]...)
	return p.Clone(), nil
}

func (f *fakeStore) UpdateSongField(_ context.Context, id, callerID int64, index int, field model.SongField, value string) (*model.Playlist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, err := f.begin(OpUpdateSongField, id, callerID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(p.Songs) {
		return nil, fmt.Errorf("update %d: %w", index, repository.ErrIndexOutOfRange)
	}
	if err := p.Songs[index].SetField(field, value); err != nil {
		return nil, fmt.Errorf("%v: %w", err, repository.ErrValidation)
	}
	return p.Clone(), nil
}

// fakeCatalog is an in-memory SongCatalog.
type fakeCatalog struct {
	songs map[int64]*model.Song
}

func newFakeCatalog(songs ...*model.Song) *fakeCatalog {
	f := &fakeCatalog{songs: make(map[int64]*model.Song)}
	for _, s := range songs {
		f.songs[s.ID] = s
	}
	return f
}

func (f *fakeCatalog) GetSongByID(_ context.Context, id int64) (*model.Song, error) {
	s, ok := f.songs[id]
	if !ok {
		return nil, fmt.Errorf("song %d: %w", id, repository.ErrNotFound)
	}
	cp := *s
	return &cp, nil
}
