package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"playlister/model"

	"github.com/redis/go-redis/v9"
)

// 播放列表快照的缓存过期时间
const playlistTTL = 30 * time.Minute

// PlaylistKey 根据播放列表ID生成Redis键
func PlaylistKey(playlistID int64) string {
	return fmt.Sprintf("playlist:%d", playlistID)
}

// GetPlaylist 从缓存读取播放列表快照。缓存未命中或Redis不可用时返回 (nil, nil)，
// 由调用方回源数据库。
func GetPlaylist(ctx context.Context, playlistID int64) (*model.Playlist, error) {
	if RedisClient == nil {
		return nil, nil
	}

	data, err := RedisClient.Get(ctx, PlaylistKey(playlistID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist from cache: %w", err)
	}

	var p model.Playlist
	if err := json.Unmarshal(data, &p); err != nil {
		// 缓存内容损坏，删除后回源
		RedisClient.Del(ctx, PlaylistKey(playlistID))
		return nil, nil
	}
	return &p, nil
}

// SetPlaylist 将播放列表快照写入缓存
func SetPlaylist(ctx context.Context, p *model.Playlist) error {
	if RedisClient == nil || p == nil {
		return nil
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal playlist: %w", err)
	}

	if err := RedisClient.Set(ctx, PlaylistKey(p.ID), data, playlistTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache playlist: %w", err)
	}
	return nil
}

// InvalidatePlaylist 在播放列表变更后删除缓存快照
func InvalidatePlaylist(ctx context.Context, playlistID int64) error {
	if RedisClient == nil {
		return nil
	}
	if err := RedisClient.Del(ctx, PlaylistKey(playlistID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate playlist cache: %w", err)
	}
	return nil
}
