package model

import (
	"fmt"
	"strconv"
	"time"
)

// Song represents a song in the shared catalog.
type Song struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	OwnerID   int64     `json:"ownerId" gorm:"index"`
	Title     string    `json:"title" gorm:"size:255"`
	Artist    string    `json:"artist" gorm:"size:255"`
	Year      int       `json:"year"`
	YouTubeID string    `json:"youTubeId" gorm:"column:youtube_id;size:64"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Entry converts a catalog song into a playlist entry.
func (s *Song) Entry() SongEntry {
	return SongEntry{
		Title:     s.Title,
		Artist:    s.Artist,
		Year:      s.Year,
		YouTubeID: s.YouTubeID,
	}
}

// SongField names one editable field of a SongEntry.
type SongField string

const (
	FieldTitle     SongField = "title"
	FieldArtist    SongField = "artist"
	FieldYear      SongField = "year"
	FieldYouTubeID SongField = "youTubeId"
)

// SongEntry is one entry of a playlist. Identity within a playlist is
// positional, so the entry carries no id of its own and duplicates are legal.
type SongEntry struct {
	Title     string `json:"title" gorm:"size:255"`
	Artist    string `json:"artist" gorm:"size:255"`
	Year      int    `json:"year"`
	YouTubeID string `json:"youTubeId" gorm:"column:youtube_id;size:64"`
}

// FieldValue returns the string form of the named field, or false for an
// unknown field name.
func (e SongEntry) FieldValue(f SongField) (string, bool) {
	switch f {
	case FieldTitle:
		return e.Title, true
	case FieldArtist:
		return e.Artist, true
	case FieldYear:
		return strconv.Itoa(e.Year), true
	case FieldYouTubeID:
		return e.YouTubeID, true
	default:
		return "", false
	}
}

// SetField sets the named field from its string form.
func (e *SongEntry) SetField(f SongField, value string) error {
	switch f {
	case FieldTitle:
		if value == "" {
			return fmt.Errorf("title must not be empty")
		}
		e.Title = value
	case FieldArtist:
		if value == "" {
			return fmt.Errorf("artist must not be empty")
		}
		e.Artist = value
	case FieldYear:
		year, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("year must be a number: %q", value)
		}
		e.Year = year
	case FieldYouTubeID:
		e.YouTubeID = value
	default:
		return fmt.Errorf("unknown song field: %q", f)
	}
	return nil
}
