package model

import "time"

// Playlist represents a named, ordered list of songs owned by one user.
// Songs is always loaded ordered by position and mirrors the playlist_songs
// rows; it is not a gorm association.
type Playlist struct {
	ID        int64       `json:"id" gorm:"primaryKey;autoIncrement"`
	OwnerID   int64       `json:"ownerId" gorm:"index"`
	Name      string      `json:"name" gorm:"size:255"`
	Songs     []SongEntry `json:"songs" gorm:"-"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// Clone returns a deep copy, so callers can hand out snapshots without
// exposing the working copy to mutation.
func (p *Playlist) Clone() *Playlist {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Songs = make([]SongEntry, len(p.Songs))
	copy(cp.Songs, p.Songs)
	return &cp
}

// PlaylistSong is one row of a playlist, ordered by Position within its
// playlist. Positions are kept dense (0..n-1).
type PlaylistSong struct {
	ID         int64     `json:"-" gorm:"primaryKey;autoIncrement"`
	PlaylistID int64     `json:"-" gorm:"index:idx_playlist_position,priority:1"`
	Position   int       `json:"-" gorm:"index:idx_playlist_position,priority:2"`
	SongEntry  `json:"entry" gorm:"embedded"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}
