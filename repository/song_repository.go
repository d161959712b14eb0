package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"playlister/model"

	"gorm.io/gorm"
)

// SongRepository defines the interface for the shared song catalog.
type SongRepository interface {
	// GetSongByID 根据ID获取歌曲
	GetSongByID(ctx context.Context, id int64) (*model.Song, error)

	// SearchSongs 按标题/歌手/年份过滤歌曲，参数为空时返回全部
	SearchSongs(ctx context.Context, title, artist string, year int) ([]*model.Song, error)

	// CreateSong 创建新歌曲
	CreateSong(ctx context.Context, song *model.Song) (*model.Song, error)

	// UpdateSong 更新歌曲信息（仅限上传者）
	UpdateSong(ctx context.Context, song *model.Song, callerID int64) (*model.Song, error)

	// DeleteSong 删除歌曲（仅限上传者）
	DeleteSong(ctx context.Context, id, callerID int64) error

	// CopySong 复制一首歌曲到调用者名下
	CopySong(ctx context.Context, id, callerID int64) (*model.Song, error)
}

// mysqlSongRepository implements SongRepository for MySQL via GORM.
type mysqlSongRepository struct {
	db *gorm.DB
}

// NewMySQLSongRepository creates a new instance of mysqlSongRepository.
func NewMySQLSongRepository(db *gorm.DB) SongRepository {
	return &mysqlSongRepository{db: db}
}

func validateSong(song *model.Song) error {
	if strings.TrimSpace(song.Title) == "" {
		return fmt.Errorf("song title must not be empty: %w", ErrValidation)
	}
	if strings.TrimSpace(song.Artist) == "" {
		return fmt.Errorf("song artist must not be empty: %w", ErrValidation)
	}
	return nil
}

func (r *mysqlSongRepository) GetSongByID(ctx context.Context, id int64) (*model.Song, error) {
	var song model.Song
	if err := r.db.WithContext(ctx).First(&song, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("song %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &song, nil
}

func (r *mysqlSongRepository) SearchSongs(ctx context.Context, title, artist string, year int) ([]*model.Song, error) {
	q := r.db.WithContext(ctx).Model(&model.Song{})
	if title != "" {
		q = q.Where("title LIKE ?", "%"+title+"%")
	}
	if artist != "" {
		q = q.Where("artist LIKE ?", "%"+artist+"%")
	}
	if year > 0 {
		q = q.Where("year = ?", year)
	}

	var songs []*model.Song
	if err := q.Order("title ASC").Find(&songs).Error; err != nil {
		return nil, err
	}
	return songs, nil
}

func (r *mysqlSongRepository) CreateSong(ctx context.Context, song *model.Song) (*model.Song, error) {
	if err := validateSong(song); err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Create(song).Error; err != nil {
		return nil, err
	}
	return song, nil
}

func (r *mysqlSongRepository) UpdateSong(ctx context.Context, song *model.Song, callerID int64) (*model.Song, error) {
	if err := validateSong(song); err != nil {
		return nil, err
	}

	existing, err := r.GetSongByID(ctx, song.ID)
	if err != nil {
		return nil, err
	}
	if existing.OwnerID != callerID {
		return nil, fmt.Errorf("song %d: %w", song.ID, ErrForbidden)
	}

	err = r.db.WithContext(ctx).Model(&model.Song{}).Where("id = ?", song.ID).
		Updates(map[string]interface{}{
			"title":      song.Title,
			"artist":     song.Artist,
			"year":       song.Year,
			"youtube_id": song.YouTubeID,
		}).Error
	if err != nil {
		return nil, err
	}
	return r.GetSongByID(ctx, song.ID)
}

func (r *mysqlSongRepository) DeleteSong(ctx context.Context, id, callerID int64) error {
	existing, err := r.GetSongByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.OwnerID != callerID {
		return fmt.Errorf("song %d: %w", id, ErrForbidden)
	}
	return r.db.WithContext(ctx).Delete(&model.Song{}, id).Error
}

func (r *mysqlSongRepository) CopySong(ctx context.Context, id, callerID int64) (*model.Song, error) {
	existing, err := r.GetSongByID(ctx, id)
	if err != nil {
		return nil, err
	}

	dup := &model.Song{
		OwnerID:   callerID,
		Title:     existing.Title,
		Artist:    existing.Artist,
		Year:      existing.Year,
		YouTubeID: existing.YouTubeID,
	}
	if err := r.db.WithContext(ctx).Create(dup).Error; err != nil {
		return nil, err
	}
	return dup, nil
}
