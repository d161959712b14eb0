package edit

import (
	"testing"

	"playlister/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandForward(t *testing.T) {
	entry := model.SongEntry{Title: "Hotel California", Artist: "Eagles", Year: 1976}

	tests := []struct {
		name string
		cmd  Command
		want Effect
	}{
		{
			name: "rename applies the new name",
			cmd:  Command{Kind: KindRename, OldName: "Old", NewName: "New"},
			want: Effect{Op: OpRename, Name: "New"},
		},
		{
			name: "move applies from and to as given",
			cmd:  Command{Kind: KindMoveSong, FromIndex: 0, ToIndex: 2},
			want: Effect{Op: OpMoveSong, From: 0, To: 2},
		},
		{
			name: "remove targets the index",
			cmd:  Command{Kind: KindRemoveSong, Index: 1, Entry: entry},
			want: Effect{Op: OpRemoveSong, Index: 1},
		},
		{
			name: "insert carries the entry",
			cmd:  Command{Kind: KindInsertSong, Index: 3, Entry: entry},
			want: Effect{Op: OpInsertSong, Index: 3, Entry: entry},
		},
		{
			name: "field update applies the new value",
			cmd:  Command{Kind: KindUpdateSongField, Index: 2, Field: model.FieldYear, OldValue: "1976", NewValue: "1977"},
			want: Effect{Op: OpUpdateSongField, Index: 2, Field: model.FieldYear, Value: "1977"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cmd.Forward())
		})
	}
}

func TestCommandInverse(t *testing.T) {
	entry := model.SongEntry{Title: "Hotel California", Artist: "Eagles", Year: 1976}

	tests := []struct {
		name string
		cmd  Command
		want Effect
	}{
		{
			name: "rename restores the old name",
			cmd:  Command{Kind: KindRename, OldName: "Old", NewName: "New"},
			want: Effect{Op: OpRename, Name: "Old"},
		},
		{
			name: "move swaps from and to",
			cmd:  Command{Kind: KindMoveSong, FromIndex: 0, ToIndex: 2},
			want: Effect{Op: OpMoveSong, From: 2, To: 0},
		},
		{
			name: "remove inverts to insert of the captured entry",
			cmd:  Command{Kind: KindRemoveSong, Index: 1, Entry: entry},
			want: Effect{Op: OpInsertSong, Index: 1, Entry: entry},
		},
		{
			name: "insert inverts to remove at the same index",
			cmd:  Command{Kind: KindInsertSong, Index: 3, Entry: entry},
			want: Effect{Op: OpRemoveSong, Index: 3},
		},
		{
			name: "field update restores the old value",
			cmd:  Command{Kind: KindUpdateSongField, Index: 2, Field: model.FieldYear, OldValue: "1976", NewValue: "1977"},
			want: Effect{Op: OpUpdateSongField, Index: 2, Field: model.FieldYear, Value: "1976"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cmd.Inverse())
		})
	}
}

// spliceStrings mirrors the store's move semantics: remove at from, then
// insert at to counted with the element already gone.
func spliceStrings(items []string, from, to int) []string {
	moved := items[from]
	rest := append(append([]string{}, items[:from]...), items[from+1:]...)
	return append(append(append([]string{}, rest[:to]...), moved), rest[to:]...)
}

func TestMoveInverseRestoresOrder(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
	}{
		{name: "forward move", from: 0, to: 2},
		{name: "backward move", from: 2, to: 0},
		{name: "adjacent swap down", from: 1, to: 0},
		{name: "adjacent swap up", from: 0, to: 1},
		{name: "no-op move", from: 1, to: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := []string{"A", "B", "C", "D"}
			cmd := Command{Kind: KindMoveSong, FromIndex: tt.from, ToIndex: tt.to}

			fwd := cmd.Forward()
			moved := spliceStrings(original, fwd.From, fwd.To)

			inv := cmd.Inverse()
			restored := spliceStrings(moved, inv.From, inv.To)

			require.Equal(t, original, restored)
		})
	}
}
