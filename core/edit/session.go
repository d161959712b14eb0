package edit

import (
	"context"
	"fmt"
	"sync"

	"playlister/logger"
	"playlister/model"
	"playlister/repository"

	"github.com/google/uuid"
)

// Snapshot is what the UI re-renders from after every operation.
type Snapshot struct {
	Playlist *model.Playlist `json:"playlist"`
	CanUndo  bool            `json:"canUndo"`
	CanRedo  bool            `json:"canRedo"`
}

// Session owns the working copy of one open playlist, the undo/redo history
// and a private gateway. Edits are persisted immediately, one at a time; after
// every successful store call the working copy is replaced wholesale with the
// state the store reports back, so the two can only diverge while a call is in
// flight. A second mutation arriving while one is in flight is rejected with
// ErrSessionBusy rather than queued.
type Session struct {
	id string
	gw *Gateway

	mu          sync.Mutex
	playlist    *model.Playlist
	history     *History
	pendingName string
	hasPending  bool
	seq         uint64
	busy        bool
	closed      bool
}

// Open loads the playlist and seeds a fresh session for it. It fails with the
// store's NotFound if the id does not resolve and with Forbidden if the
// gateway's caller is not the owner.
func Open(ctx context.Context, gw *Gateway, playlistID int64) (*Session, error) {
	p, err := gw.Load(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != gw.callerID {
		return nil, fmt.Errorf("playlist %d: %w", playlistID, repository.ErrForbidden)
	}

	s := &Session{
		id:       uuid.NewString(),
		gw:       gw,
		playlist: p.Clone(),
		history:  NewHistory(),
	}
	logger.Info("edit session opened",
		logger.String("sessionId", s.id),
		logger.Int64("playlistId", playlistID),
		logger.Int64("callerId", gw.callerID))
	return s, nil
}

// ID returns the session's identifier.
func (s *Session) ID() string {
	return s.id
}

// CallerID returns the identity the session edits as.
func (s *Session) CallerID() int64 {
	return s.gw.callerID
}

// Snapshot returns a copy of the working state for rendering.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Playlist: s.playlist.Clone(),
		CanUndo:  s.history.CanUndo(),
		CanRedo:  s.history.CanRedo(),
	}
}

// CanUndo reports whether an undo is available.
func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanUndo()
}

// CanRedo reports whether a redo is available.
func (s *Session) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanRedo()
}

// Rename buffers a pending name without touching history or the store. The
// modal calls this on every keystroke; only CommitRename produces a command,
// so typing never floods the undo stack.
func (s *Session) Rename(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.pendingName = text
	s.hasPending = true
}

// CommitRename turns the buffered name into a single rename command. An
// unchanged or absent buffer commits to a no-op without a store call.
func (s *Session) CommitRename(ctx context.Context) (Snapshot, error) {
	if err := s.begin(); err != nil {
		return s.Snapshot(), err
	}
	defer s.end()

	s.mu.Lock()
	if !s.hasPending || s.pendingName == s.playlist.Name {
		s.hasPending = false
		s.mu.Unlock()
		return s.Snapshot(), nil
	}
	c := s.newCommand(KindRename)
	c.OldName = s.playlist.Name
	c.NewName = s.pendingName
	s.mu.Unlock()

	snap, err := s.execute(ctx, c)
	if err == nil {
		s.mu.Lock()
		s.hasPending = false
		s.mu.Unlock()
	}
	return snap, err
}

// MoveSong moves the song at from to position to, counted with the element
// already removed (list splice semantics).
func (s *Session) MoveSong(ctx context.Context, from, to int) (Snapshot, error) {
	if err := s.begin(); err != nil {
		return s.Snapshot(), err
	}
	defer s.end()

	s.mu.Lock()
	n := len(s.playlist.Songs)
	if from < 0 || from >= n || to < 0 || to >= n {
		s.mu.Unlock()
		return s.Snapshot(), fmt.Errorf("move %d -> %d in %d songs: %w", from, to, n, repository.ErrIndexOutOfRange)
	}
	c := s.newCommand(KindMoveSong)
	c.FromIndex = from
	c.ToIndex = to
	s.mu.Unlock()

	return s.execute(ctx, c)
}

// RemoveSong removes the song at index. The full entry is captured into the
// command now; it is unrecoverable after the store applies the removal.
func (s *Session) RemoveSong(ctx context.Context, index int) (Snapshot, error) {
	if err := s.begin(); err != nil {
		return s.Snapshot(), err
	}
	defer s.end()

	s.mu.Lock()
	if index < 0 || index >= len(s.playlist.Songs) {
		s.mu.Unlock()
		return s.Snapshot(), fmt.Errorf("remove %d in %d songs: %w", index, len(s.playlist.Songs), repository.ErrIndexOutOfRange)
	}
	c := s.newCommand(KindRemoveSong)
	c.Index = index
	c.Entry = s.playlist.Songs[index]
	s.mu.Unlock()

	return s.execute(ctx, c)
}

// UpdateSongField sets one field of the song at index, capturing the current
// value for inversion.
func (s *Session) UpdateSongField(ctx context.Context, index int, field model.SongField, value string) (Snapshot, error) {
	if err := s.begin(); err != nil {
		return s.Snapshot(), err
	}
	defer s.end()

	s.mu.Lock()
	if index < 0 || index >= len(s.playlist.Songs) {
		s.mu.Unlock()
		return s.Snapshot(), fmt.Errorf("update %d in %d songs: %w", index, len(s.playlist.Songs), repository.ErrIndexOutOfRange)
	}
	oldValue, ok := s.playlist.Songs[index].FieldValue(field)
	if !ok {
		s.mu.Unlock()
		return s.Snapshot(), fmt.Errorf("unknown song field %q: %w", field, repository.ErrValidation)
	}
	c := s.newCommand(KindUpdateSongField)
	c.Index = index
	c.Field = field
	c.OldValue = oldValue
	c.NewValue = value
	s.mu.Unlock()

	return s.execute(ctx, c)
}

// AddSong appends a catalog song to the end of the playlist as an undoable
// insert command.
func (s *Session) AddSong(ctx context.Context, songID int64) (Snapshot, error) {
	if err := s.begin(); err != nil {
		return s.Snapshot(), err
	}
	defer s.end()

	song, err := s.gw.LookupSong(ctx, songID)
	if err != nil {
		return s.Snapshot(), err
	}

	s.mu.Lock()
	c := s.newCommand(KindInsertSong)
	c.Index = len(s.playlist.Songs)
	c.Entry = song.Entry()
	s.mu.Unlock()

	return s.execute(ctx, c)
}

// Undo reverts the most recent command. On store failure the command is put
// back on top of the undo stack so the user can retry.
func (s *Session) Undo(ctx context.Context) (Snapshot, error) {
	if err := s.begin(); err != nil {
		return s.Snapshot(), err
	}
	defer s.end()

	s.mu.Lock()
	c, err := s.history.PopUndo()
	if err != nil {
		s.mu.Unlock()
		return s.Snapshot(), ErrNothingToUndo
	}
	s.mu.Unlock()

	updated, err := s.gw.Apply(ctx, c.PlaylistID, c.Inverse())
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.history.PushUndo(c)
		logger.Warn("undo failed",
			logger.String("sessionId", s.id),
			logger.String("kind", string(c.Kind)),
			logger.ErrorField(err))
		return s.snapshotLocked(), err
	}
	s.playlist = updated
	s.history.PushRedo(c)
	return s.snapshotLocked(), nil
}

// Redo re-applies the most recently undone command. Symmetric to Undo.
func (s *Session) Redo(ctx context.Context) (Snapshot, error) {
	if err := s.begin(); err != nil {
		return s.Snapshot(), err
	}
	defer s.end()

	s.mu.Lock()
	c, err := s.history.PopRedo()
	if err != nil {
		s.mu.Unlock()
		return s.Snapshot(), ErrNothingToRedo
	}
	s.mu.Unlock()

	updated, err := s.gw.Apply(ctx, c.PlaylistID, c.Forward())
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.history.PushRedo(c)
		logger.Warn("redo failed",
			logger.String("sessionId", s.id),
			logger.String("kind", string(c.Kind)),
			logger.ErrorField(err))
		return s.snapshotLocked(), err
	}
	s.playlist = updated
	s.history.PushUndo(c)
	return s.snapshotLocked(), nil
}

// Close discards the working copy and both stacks. Edits already committed
// remotely stay committed; closing only abandons the ability to undo them.
// An in-flight store call is not cancelled, its result is simply ignored.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.playlist = nil
	s.history = NewHistory()
	s.hasPending = false
	logger.Info("edit session closed", logger.String("sessionId", s.id))
}

// begin claims the single in-flight slot.
func (s *Session) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if s.busy {
		return ErrSessionBusy
	}
	s.busy = true
	return nil
}

func (s *Session) end() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

// newCommand allocates the next sequence number. Caller holds s.mu.
func (s *Session) newCommand(kind Kind) Command {
	s.seq++
	return Command{PlaylistID: s.playlist.ID, Seq: s.seq, Kind: kind}
}

// execute runs the command's forward effect and, on success, adopts the
// store's response as the new working copy and records the command. On
// failure the working copy and history are left untouched. Caller holds the
// in-flight slot.
func (s *Session) execute(ctx context.Context, c Command) (Snapshot, error) {
	updated, err := s.gw.Apply(ctx, c.PlaylistID, c.Forward())
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		logger.Warn("edit command rejected",
			logger.String("sessionId", s.id),
			logger.String("kind", string(c.Kind)),
			logger.Uint64("seq", c.Seq),
			logger.ErrorField(err))
		return s.snapshotLocked(), err
	}
	s.playlist = updated
	s.history.Record(c)
	return s.snapshotLocked(), nil
}

// snapshotLocked builds a snapshot. Caller holds s.mu.
func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		Playlist: s.playlist.Clone(),
		CanUndo:  s.history.CanUndo(),
		CanRedo:  s.history.CanRedo(),
	}
}
