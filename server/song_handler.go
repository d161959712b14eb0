package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"playlister/logger"
	"playlister/model"

	"github.com/gorilla/mux"
)

// SongRequest 歌曲创建/更新请求体
type SongRequest struct {
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	Year      int    `json:"year"`
	YouTubeID string `json:"youTubeId"`
}

// SearchSongsHandler 按条件检索歌曲目录
func (h *APIHandler) SearchSongsHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	year, _ := strconv.Atoi(query.Get("year"))

	songs, err := h.songRepo.SearchSongs(r.Context(), query.Get("title"), query.Get("artist"), year)
	if err != nil {
		logger.Error("[Songs] 检索歌曲失败", logger.ErrorField(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, songs)
}

// GetSongHandler 获取单首歌曲
func (h *APIHandler) GetSongHandler(w http.ResponseWriter, r *http.Request) {
	songID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid song ID", http.StatusBadRequest)
		return
	}

	song, err := h.songRepo.GetSongByID(r.Context(), songID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, song)
}

// CreateSongHandler 创建新歌曲
func (h *APIHandler) CreateSongHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req SongRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	song := &model.Song{
		OwnerID:   userID,
		Title:     req.Title,
		Artist:    req.Artist,
		Year:      req.Year,
		YouTubeID: req.YouTubeID,
	}
	created, err := h.songRepo.CreateSong(r.Context(), song)
	if err != nil {
		writeError(w, err)
		return
	}

	logger.Info("[Songs] 创建歌曲成功",
		logger.Int64("songId", created.ID),
		logger.Int64("userId", userID))
	writeJSON(w, http.StatusCreated, created)
}

// UpdateSongHandler 更新歌曲信息
func (h *APIHandler) UpdateSongHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	songID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid song ID", http.StatusBadRequest)
		return
	}

	var req SongRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	song := &model.Song{
		ID:        songID,
		Title:     req.Title,
		Artist:    req.Artist,
		Year:      req.Year,
		YouTubeID: req.YouTubeID,
	}
	updated, err := h.songRepo.UpdateSong(r.Context(), song, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteSongHandler 删除歌曲
func (h *APIHandler) DeleteSongHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	songID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid song ID", http.StatusBadRequest)
		return
	}

	if err := h.songRepo.DeleteSong(r.Context(), songID, userID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// CopySongHandler 复制一首歌曲到当前用户名下
func (h *APIHandler) CopySongHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	songID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid song ID", http.StatusBadRequest)
		return
	}

	dup, err := h.songRepo.CopySong(r.Context(), songID, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dup)
}
