package edit

import (
	"context"
	"fmt"

	"playlister/model"
)

// PlaylistStore is the slice of the playlist repository the edit engine
// consumes. Every mutation returns the reloaded authoritative playlist.
type PlaylistStore interface {
	GetPlaylistByID(ctx context.Context, id int64) (*model.Playlist, error)
	RenamePlaylist(ctx context.Context, id, callerID int64, newName string) (*model.Playlist, error)
	MoveSong(ctx context.Context, id, callerID int64, from, to int) (*model.Playlist, error)
	RemoveSong(ctx context.Context, id, callerID int64, index int) (*model.Playlist, error)
	InsertSong(ctx context.Context, id, callerID int64, index int, entry model.SongEntry) (*model.Playlist, error)
	UpdateSongField(ctx context.Context, id, callerID int64, index int, field model.SongField, value string) (*model.Playlist, error)
}

// SongCatalog is the read-only catalog lookup the edit engine consumes.
type SongCatalog interface {
	GetSongByID(ctx context.Context, id int64) (*model.Song, error)
}

// Gateway executes one effect at a time against the remote store on behalf of
// a single session. It is stateless per call and owned by exactly one session.
type Gateway struct {
	store    PlaylistStore
	catalog  SongCatalog
	callerID int64
}

// NewGateway creates a gateway acting as the given caller.
func NewGateway(store PlaylistStore, catalog SongCatalog, callerID int64) *Gateway {
	return &Gateway{store: store, catalog: catalog, callerID: callerID}
}

// Load fetches the authoritative playlist, without an ownership check; the
// session decides whether the caller may edit it.
func (g *Gateway) Load(ctx context.Context, playlistID int64) (*model.Playlist, error) {
	return g.store.GetPlaylistByID(ctx, playlistID)
}

// LookupSong resolves a catalog song by id.
func (g *Gateway) LookupSong(ctx context.Context, songID int64) (*model.Song, error) {
	return g.catalog.GetSongByID(ctx, songID)
}

// Apply performs one effect against the store and returns the authoritative
// playlist state the store reports back.
func (g *Gateway) Apply(ctx context.Context, playlistID int64, e Effect) (*model.Playlist, error) {
	switch e.Op {
	case OpRename:
		return g.store.RenamePlaylist(ctx, playlistID, g.callerID, e.Name)
	case OpMoveSong:
		return g.store.MoveSong(ctx, playlistID, g.callerID, e.From, e.To)
	case OpRemoveSong:
		return g.store.RemoveSong(ctx, playlistID, g.callerID, e.Index)
	case OpInsertSong:
		return g.store.InsertSong(ctx, playlistID, g.callerID, e.Index, e.Entry)
	case OpUpdateSongField:
		return g.store.UpdateSongField(ctx, playlistID, g.callerID, e.Index, e.Field, e.Value)
	default:
		return nil, fmt.Errorf("unknown effect op: %q", e.Op)
	}
}
