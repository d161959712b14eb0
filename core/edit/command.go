package edit

import "playlister/model"

// Kind names one of the closed set of reversible edits.
type Kind string

const (
	KindRename          Kind = "rename"
	KindMoveSong        Kind = "moveSong"
	KindRemoveSong      Kind = "removeSong"
	KindInsertSong      Kind = "insertSong"
	KindUpdateSongField Kind = "updateSongField"
)

// Command is an inert description of one reversible edit plus the prior state
// needed to invert it. Commands are immutable once constructed; inversion
// selects the paired effect instead of mutating the command. The prior state
// (removed entry, old field value, old name) must be captured at construction
// time because the store may have moved on by the time an undo runs.
type Command struct {
	PlaylistID int64 `json:"playlistId"`
	// Seq is a per-session logical sequence number, informational only.
	Seq uint64 `json:"seq"`
	Kind Kind `json:"kind"`

	// Rename
	OldName string `json:"oldName,omitempty"`
	NewName string `json:"newName,omitempty"`

	// MoveSong
	FromIndex int `json:"fromIndex,omitempty"`
	ToIndex   int `json:"toIndex,omitempty"`

	// RemoveSong / InsertSong / UpdateSongField
	Index int             `json:"index,omitempty"`
	Entry model.SongEntry `json:"entry,omitempty"`

	// UpdateSongField
	Field    model.SongField `json:"field,omitempty"`
	OldValue string          `json:"oldValue,omitempty"`
	NewValue string          `json:"newValue,omitempty"`
}

// Op names one store mutation the gateway can execute.
type Op string

const (
	OpRename          Op = "rename"
	OpMoveSong        Op = "moveSong"
	OpRemoveSong      Op = "removeSong"
	OpInsertSong      Op = "insertSong"
	OpUpdateSongField Op = "updateSongField"
)

// Effect is a single store mutation derived from a command. The gateway maps
// it onto one PlaylistStore call.
type Effect struct {
	Op    Op
	Name  string
	From  int
	To    int
	Index int
	Entry model.SongEntry
	Field model.SongField
	Value string
}

// Forward returns the effect that applies the command.
func (c Command) Forward() Effect {
	switch c.Kind {
	case KindRename:
		return Effect{Op: OpRename, Name: c.NewName}
	case KindMoveSong:
		return Effect{Op: OpMoveSong, From: c.FromIndex, To: c.ToIndex}
	case KindRemoveSong:
		return Effect{Op: OpRemoveSong, Index: c.Index}
	case KindInsertSong:
		return Effect{Op: OpInsertSong, Index: c.Index, Entry: c.Entry}
	case KindUpdateSongField:
		return Effect{Op: OpUpdateSongField, Index: c.Index, Field: c.Field, Value: c.NewValue}
	}
	return Effect{}
}

// Inverse returns the effect that reverts the command. The move inverse is
// computed against post-move indices: the element now sits at ToIndex, and
// moving it back to FromIndex with splice semantics restores the original
// order exactly, including when the two indices straddle each other.
func (c Command) Inverse() Effect {
	switch c.Kind {
	case KindRename:
		return Effect{Op: OpRename, Name: c.OldName}
	case KindMoveSong:
		return Effect{Op: OpMoveSong, From: c.ToIndex, To: c.FromIndex}
	case KindRemoveSong:
		return Effect{Op: OpInsertSong, Index: c.Index, Entry: c.Entry}
	case KindInsertSong:
		return Effect{Op: OpRemoveSong, Index: c.Index}
	case KindUpdateSongField:
		return Effect{Op: OpUpdateSongField, Index: c.Index, Field: c.Field, Value: c.OldValue}
	}
	return Effect{}
}
