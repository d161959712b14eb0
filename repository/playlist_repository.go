package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"playlister/cache"
	"playlister/logger"
	"playlister/model"

	"gorm.io/gorm"
)

// PlaylistRepository 定义播放列表相关的数据库操作接口。
// 所有修改操作都要求调用者是播放列表的所有者，并在成功后返回
// 重新加载的权威状态（按位置排序的完整歌曲列表）。
type PlaylistRepository interface {
	// CreatePlaylist 创建新播放列表
	CreatePlaylist(ctx context.Context, p *model.Playlist) (*model.Playlist, error)

	// GetPlaylistByID 根据ID获取播放列表（含歌曲，按位置排序）
	GetPlaylistByID(ctx context.Context, id int64) (*model.Playlist, error)

	// GetPlaylistsByOwnerID 获取用户的所有播放列表
	GetPlaylistsByOwnerID(ctx context.Context, ownerID int64) ([]*model.Playlist, error)

	// DeletePlaylist 删除播放列表及其歌曲
	DeletePlaylist(ctx context.Context, id, callerID int64) error

	// RenamePlaylist 重命名播放列表
	RenamePlaylist(ctx context.Context, id, callerID int64, newName string) (*model.Playlist, error)

	// MoveSong 将 from 位置的歌曲移动到 to 位置（标准splice语义）
	MoveSong(ctx context.Context, id, callerID int64, from, to int) (*model.Playlist, error)

	// RemoveSong 移除 index 位置的歌曲
	RemoveSong(ctx context.Context, id, callerID int64, index int) (*model.Playlist, error)

	// InsertSong 在 index 位置插入歌曲
	InsertSong(ctx context.Context, id, callerID int64, index int, entry model.SongEntry) (*model.Playlist, error)

	// UpdateSongField 更新 index 位置歌曲的单个字段
	UpdateSongField(ctx context.Context, id, callerID int64, index int, field model.SongField, value string) (*model.Playlist, error)
}

// mysqlPlaylistRepository implements PlaylistRepository for MySQL via GORM.
type mysqlPlaylistRepository struct {
	db *gorm.DB
}

// NewMySQLPlaylistRepository creates a new instance of mysqlPlaylistRepository.
func NewMySQLPlaylistRepository(db *gorm.DB) PlaylistRepository {
	return &mysqlPlaylistRepository{db: db}
}

// getOwned loads the playlist row and verifies ownership.
func getOwned(tx *gorm.DB, id, callerID int64) (*model.Playlist, error) {
	var p model.Playlist
	if err := tx.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("playlist %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	if p.OwnerID != callerID {
		return nil, fmt.Errorf("playlist %d: %w", id, ErrForbidden)
	}
	return &p, nil
}

// loadSongs returns the playlist's rows ordered by position.
func loadSongs(tx *gorm.DB, playlistID int64) ([]model.PlaylistSong, error) {
	var rows []model.PlaylistSong
	err := tx.Where("playlist_id = ?", playlistID).Order("position ASC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// reload builds the authoritative playlist snapshot and refreshes the cache.
func (r *mysqlPlaylistRepository) reload(ctx context.Context, id int64) (*model.Playlist, error) {
	tx := r.db.WithContext(ctx)

	var p model.Playlist
	if err := tx.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("playlist %d: %w", id, ErrNotFound)
		}
		return nil, err
	}

	rows, err := loadSongs(tx, id)
	if err != nil {
		return nil, err
	}
	p.Songs = make([]model.SongEntry, len(rows))
	for i, row := range rows {
		p.Songs[i] = row.SongEntry
	}

	if err := cache.SetPlaylist(ctx, &p); err != nil {
		logger.Warn("刷新播放列表缓存失败", logger.Int64("playlistId", id), logger.ErrorField(err))
	}
	return &p, nil
}

// afterMutation invalidates the cache and returns the reloaded snapshot.
func (r *mysqlPlaylistRepository) afterMutation(ctx context.Context, id int64) (*model.Playlist, error) {
	if err := cache.InvalidatePlaylist(ctx, id); err != nil {
		logger.Warn("失效播放列表缓存失败", logger.Int64("playlistId", id), logger.ErrorField(err))
	}
	return r.reload(ctx, id)
}

func (r *mysqlPlaylistRepository) CreatePlaylist(ctx context.Context, p *model.Playlist) (*model.Playlist, error) {
	if strings.TrimSpace(p.Name) == "" {
		return nil, fmt.Errorf("playlist name must not be empty: %w", ErrValidation)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := model.Playlist{OwnerID: p.OwnerID, Name: p.Name}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		p.ID = row.ID
		for i, entry := range p.Songs {
			song := model.PlaylistSong{PlaylistID: row.ID, Position: i, SongEntry: entry}
			if err := tx.Create(&song).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.reload(ctx, p.ID)
}

func (r *mysqlPlaylistRepository) GetPlaylistByID(ctx context.Context, id int64) (*model.Playlist, error) {
	// 先查缓存，未命中时回源数据库
	if p, err := cache.GetPlaylist(ctx, id); err == nil && p != nil {
		return p, nil
	}
	return r.reload(ctx, id)
}

func (r *mysqlPlaylistRepository) GetPlaylistsByOwnerID(ctx context.Context, ownerID int64) ([]*model.Playlist, error) {
	var lists []model.Playlist
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&lists).Error
	if err != nil {
		return nil, err
	}

	out := make([]*model.Playlist, 0, len(lists))
	for i := range lists {
		p, err := r.reload(ctx, lists[i].ID)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *mysqlPlaylistRepository) DeletePlaylist(ctx context.Context, id, callerID int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := getOwned(tx, id, callerID); err != nil {
			return err
		}
		if err := tx.Where("playlist_id = ?", id).Delete(&model.PlaylistSong{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Playlist{}, id).Error
	})
	if err != nil {
		return err
	}
	if err := cache.InvalidatePlaylist(ctx, id); err != nil {
		logger.Warn("失效播放列表缓存失败", logger.Int64("playlistId", id), logger.ErrorField(err))
	}
	return nil
}

func (r *mysqlPlaylistRepository) RenamePlaylist(ctx context.Context, id, callerID int64, newName string) (*model.Playlist, error) {
	if strings.TrimSpace(newName) == "" {
		return nil, fmt.Errorf("playlist name must not be empty: %w", ErrValidation)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := getOwned(tx, id, callerID); err != nil {
			return err
		}
		return tx.Model(&model.Playlist{}).Where("id = ?", id).
			Updates(map[string]interface{}{"name": newName, "updated_at": time.Now()}).Error
	})
	if err != nil {
		return nil, err
	}
	return r.afterMutation(ctx, id)
}

func (r *mysqlPlaylistRepository) MoveSong(ctx context.Context, id, callerID int64, from, to int) (*model.Playlist, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := getOwned(tx, id, callerID); err != nil {
			return err
		}
		rows, err := loadSongs(tx, id)
		if err != nil {
			return err
		}
		if from < 0 || from >= len(rows) || to < 0 || to >= len(rows) {
			return fmt.Errorf("move %d -> %d in %d songs: %w", from, to, len(rows), ErrIndexOutOfRange)
		}
		if from == to {
			return nil
		}
		for i, row := range spliceMove(rows, from, to) {
			if row.Position == i {
				continue
			}
			err := tx.Model(&model.PlaylistSong{}).Where("id = ?", row.ID).
				Update("position", i).Error
			if err != nil {
				return err
			}
		}
		return touchPlaylist(tx, id)
	})
	if err != nil {
		return nil, err
	}
	return r.afterMutation(ctx, id)
}

func (r *mysqlPlaylistRepository) RemoveSong(ctx context.Context, id, callerID int64, index int) (*model.Playlist, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := getOwned(tx, id, callerID); err != nil {
			return err
		}
		rows, err := loadSongs(tx, id)
		if err != nil {
			return err
		}
		if index < 0 || index >= len(rows) {
			return fmt.Errorf("remove %d in %d songs: %w", index, len(rows), ErrIndexOutOfRange)
		}
		if err := tx.Delete(&model.PlaylistSong{}, rows[index].ID).Error; err != nil {
			return err
		}
		// 后续歌曲位置前移
		for _, row := range rows[index+1:] {
			err := tx.Model(&model.PlaylistSong{}).Where("id = ?", row.ID).
				Update("position", row.Position-1).Error
			if err != nil {
				return err
			}
		}
		return touchPlaylist(tx, id)
	})
	if err != nil {
		return nil, err
	}
	return r.afterMutation(ctx, id)
}

func (r *mysqlPlaylistRepository) InsertSong(ctx context.Context, id, callerID int64, index int, entry model.SongEntry) (*model.Playlist, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := getOwned(tx, id, callerID); err != nil {
			return err
		}
		rows, err := loadSongs(tx, id)
		if err != nil {
			return err
		}
		// 末尾追加是合法的插入位置
		if index < 0 || index > len(rows) {
			return fmt.Errorf("insert at %d in %d songs: %w", index, len(rows), ErrIndexOutOfRange)
		}
		// 后续歌曲位置后移
		for _, row := range rows[index:] {
			err := tx.Model(&model.PlaylistSong{}).Where("id = ?", row.ID).
				Update("position", row.Position+1).Error
			if err != nil {
				return err
			}
		}
		song := model.PlaylistSong{PlaylistID: id, Position: index, SongEntry: entry}
		if err := tx.Create(&song).Error; err != nil {
			return err
		}
		return touchPlaylist(tx, id)
	})
	if err != nil {
		return nil, err
	}
	return r.afterMutation(ctx, id)
}

func (r *mysqlPlaylistRepository) UpdateSongField(ctx context.Context, id, callerID int64, index int, field model.SongField, value string) (*model.Playlist, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := getOwned(tx, id, callerID); err != nil {
			return err
		}
		rows, err := loadSongs(tx, id)
		if err != nil {
			return err
		}
		if index < 0 || index >= len(rows) {
			return fmt.Errorf("update %d in %d songs: %w", index, len(rows), ErrIndexOutOfRange)
		}
		row := rows[index]
		if err := row.SetField(field, value); err != nil {
			return fmt.Errorf("%v: %w", err, ErrValidation)
		}
		err = tx.Model(&model.PlaylistSong{}).Where("id = ?", row.ID).
			Updates(map[string]interface{}{
				"title":      row.Title,
				"artist":     row.Artist,
				"year":       row.Year,
				"youtube_id": row.YouTubeID,
			}).Error
		if err != nil {
			return err
		}
		return touchPlaylist(tx, id)
	})
	if err != nil {
		return nil, err
	}
	return r.afterMutation(ctx, id)
}

// touchPlaylist bumps the playlist's updated_at after a song-level change.
func touchPlaylist(tx *gorm.DB, id int64) error {
	return tx.Model(&model.Playlist{}).Where("id = ?", id).
		Update("updated_at", time.Now()).Error
}

// spliceMove reorders rows with standard list splice semantics: the element at
// from is removed first, then inserted at to counted in the shortened list.
func spliceMove(rows []model.PlaylistSong, from, to int) []model.PlaylistSong {
	moved := rows[from]
	rest := make([]model.PlaylistSong, 0, len(rows)-1)
	rest = append(rest, rows[:from]...)
	rest = append(rest, rows[from+1:]...)

	out := make([]model.PlaylistSong, 0, len(rows))
	out = append(out, rest[:to]...)
	out = append(out, moved)
	out = append(out, rest[to:]...)
	return out
}
