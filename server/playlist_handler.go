package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"playlister/logger"
	"playlister/model"

	"github.com/gorilla/mux"
)

// CreatePlaylistRequest 创建播放列表请求体
type CreatePlaylistRequest struct {
	Name string `json:"name"`
}

// GetPlaylistsHandler 返回当前用户的所有播放列表
func (h *APIHandler) GetPlaylistsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	lists, err := h.playlistRepo.GetPlaylistsByOwnerID(r.Context(), userID)
	if err != nil {
		logger.Error("[Playlists] 获取播放列表失败", logger.Int64("userId", userID), logger.ErrorField(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

// GetPlaylistHandler 获取单个播放列表（含歌曲）
func (h *APIHandler) GetPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	playlistID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid playlist ID", http.StatusBadRequest)
		return
	}

	playlist, err := h.playlistRepo.GetPlaylistByID(r.Context(), playlistID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, playlist)
}

// CreatePlaylistHandler 创建新播放列表
func (h *APIHandler) CreatePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreatePlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.playlistRepo.CreatePlaylist(r.Context(), &model.Playlist{
		OwnerID: userID,
		Name:    req.Name,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	logger.Info("[Playlists] 创建播放列表成功",
		logger.Int64("playlistId", created.ID),
		logger.Int64("userId", userID))
	writeJSON(w, http.StatusCreated, created)
}

// DeletePlaylistHandler 删除播放列表
func (h *APIHandler) DeletePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	playlistID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid playlist ID", http.StatusBadRequest)
		return
	}

	if err := h.playlistRepo.DeletePlaylist(r.Context(), playlistID, userID); err != nil {
		writeError(w, err)
		return
	}

	logger.Info("[Playlists] 删除播放列表成功",
		logger.Int64("playlistId", playlistID),
		logger.Int64("userId", userID))
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// AddSongToPlaylistHandler 将目录中的歌曲追加到播放列表末尾。
// 这是编辑会话之外的普通CRUD操作，不进入任何撤销历史。
func (h *APIHandler) AddSongToPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	playlistID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid playlist ID", http.StatusBadRequest)
		return
	}

	var req struct {
		SongID int64 `json:"songId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	song, err := h.songRepo.GetSongByID(r.Context(), req.SongID)
	if err != nil {
		writeError(w, err)
		return
	}

	current, err := h.playlistRepo.GetPlaylistByID(r.Context(), playlistID)
	if err != nil {
		writeError(w, err)
		return
	}

	updated, err := h.playlistRepo.InsertSong(r.Context(), playlistID, userID, len(current.Songs), song.Entry())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
