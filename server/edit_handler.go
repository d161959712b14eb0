package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"playlister/core/edit"
	"playlister/logger"
	"playlister/model"

	"github.com/gorilla/mux"
)

// 编辑会话的HTTP接口。每个打开的编辑弹窗对应一个服务端会话，
// 后续请求通过 /api/edit/{sessionId}/... 寻址。

type openSessionRequest struct {
	PlaylistID int64 `json:"playlistId"`
}

type openSessionResponse struct {
	SessionID string `json:"sessionId"`
	edit.Snapshot
}

// OpenEditSessionHandler 打开一个播放列表的编辑会话
func (h *APIHandler) OpenEditSessionHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req openSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	session, err := h.editManager.Open(r.Context(), req.PlaylistID, userID)
	if err != nil {
		logger.Warn("[Edit] 打开编辑会话失败",
			logger.Int64("playlistId", req.PlaylistID),
			logger.Int64("userId", userID),
			logger.ErrorField(err))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, openSessionResponse{
		SessionID: session.ID(),
		Snapshot:  session.Snapshot(),
	})
}

// session resolves the addressed session for the authenticated user.
func (h *APIHandler) session(w http.ResponseWriter, r *http.Request) (*edit.Session, bool) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil, false
	}

	session, err := h.editManager.Get(mux.Vars(r)["sessionId"], userID)
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return session, true
}

// GetEditSessionHandler 返回会话当前快照（用于弹窗重新渲染）
func (h *APIHandler) GetEditSessionHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, session.Snapshot())
}

// CloseEditSessionHandler 关闭会话，丢弃工作副本和撤销历史。
// 已经提交到存储的编辑保持不变。
func (h *APIHandler) CloseEditSessionHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := GetUserIDFromContext(r.Context())
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.editManager.Close(mux.Vars(r)["sessionId"], userID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"closed": true})
}

// RenameHandler 缓冲一次标题输入，不产生命令也不访问存储
func (h *APIHandler) RenameHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	session.Rename(req.Name)
	writeJSON(w, http.StatusOK, session.Snapshot())
}

// CommitRenameHandler 将缓冲的标题提交为单个重命名命令
func (h *APIHandler) CommitRenameHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	snap, err := session.CommitRename(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// MoveSongHandler 移动歌曲位置
func (h *APIHandler) MoveSongHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req struct {
		From int `json:"from"`
		To   int `json:"to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	snap, err := session.MoveSong(r.Context(), req.From, req.To)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// RemoveSongHandler 移除指定位置的歌曲
func (h *APIHandler) RemoveSongHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		http.Error(w, "Invalid song index", http.StatusBadRequest)
		return
	}

	snap, err := session.RemoveSong(r.Context(), index)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// UpdateSongFieldHandler 更新指定位置歌曲的单个字段
func (h *APIHandler) UpdateSongFieldHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		http.Error(w, "Invalid song index", http.StatusBadRequest)
		return
	}

	var req struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	snap, err := session.UpdateSongField(r.Context(), index, model.SongField(req.Field), req.Value)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// AddSongHandler 从歌曲目录添加一首歌到播放列表末尾（可撤销）
func (h *APIHandler) AddSongHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req struct {
		SongID int64 `json:"songId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	snap, err := session.AddSong(r.Context(), req.SongID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// UndoHandler 撤销最近一次编辑
func (h *APIHandler) UndoHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	snap, err := session.Undo(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// RedoHandler 重做最近一次被撤销的编辑
func (h *APIHandler) RedoHandler(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	snap, err := session.Redo(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
