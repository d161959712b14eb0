package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSongEntryFieldValue(t *testing.T) {
	e := SongEntry{Title: "Dreams", Artist: "Fleetwood Mac", Year: 1977, YouTubeID: "yt-dreams"}

	tests := []struct {
		field SongField
		want  string
	}{
		{FieldTitle, "Dreams"},
		{FieldArtist, "Fleetwood Mac"},
		{FieldYear, "1977"},
		{FieldYouTubeID, "yt-dreams"},
	}
	for _, tt := range tests {
		got, ok := e.FieldValue(tt.field)
		require.True(t, ok, "field %q", tt.field)
		assert.Equal(t, tt.want, got)
	}

	_, ok := e.FieldValue("album")
	assert.False(t, ok)
}

func TestSongEntrySetField(t *testing.T) {
	e := SongEntry{Title: "Dreams", Artist: "Fleetwood Mac", Year: 1977}

	require.NoError(t, e.SetField(FieldYear, "1979"))
	assert.Equal(t, 1979, e.Year)

	require.NoError(t, e.SetField(FieldTitle, "Tusk"))
	assert.Equal(t, "Tusk", e.Title)

	assert.Error(t, e.SetField(FieldTitle, ""))
	assert.Error(t, e.SetField(FieldArtist, ""))
	assert.Error(t, e.SetField(FieldYear, "nineteen"))
	assert.Error(t, e.SetField("album", "Rumours"))

	// Failed sets leave the entry as it was.
	assert.Equal(t, "Tusk", e.Title)
	assert.Equal(t, 1979, e.Year)
}

func TestPlaylistClone(t *testing.T) {
	p := &Playlist{
		ID:      1,
		OwnerID: 7,
		Name:    "Road Trip",
		Songs:   []SongEntry{{Title: "A"}, {Title: "B"}},
	}

	cp := p.Clone()
	cp.Name = "Changed"
	cp.Songs[0].Title = "Changed"
	cp.Songs = append(cp.Songs, SongEntry{Title: "C"})

	assert.Equal(t, "Road Trip", p.Name)
	assert.Equal(t, "A", p.Songs[0].Title)
	assert.Len(t, p.Songs, 2)

	var nilPlaylist *Playlist
	assert.Nil(t, nilPlaylist.Clone())
}

func TestSongEntryConversion(t *testing.T) {
	s := Song{ID: 9, OwnerID: 3, Title: "Dreams", Artist: "Fleetwood Mac", Year: 1977, YouTubeID: "yt-dreams"}
	e := s.Entry()
	assert.Equal(t, SongEntry{Title: "Dreams", Artist: "Fleetwood Mac", Year: 1977, YouTubeID: "yt-dreams"}, e)
}
