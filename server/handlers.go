package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"playlister/config"
	"playlister/core/auth"
	"playlister/core/edit"
	"playlister/logger"
	"playlister/repository"
)

// APIHandler 处理所有API请求
type APIHandler struct {
	userRepo     repository.UserRepository
	songRepo     repository.SongRepository
	playlistRepo repository.PlaylistRepository
	editManager  *edit.Manager
	cfg          *config.Config
}

// NewAPIHandler 创建新的API处理器
func NewAPIHandler(
	userRepo repository.UserRepository,
	songRepo repository.SongRepository,
	playlistRepo repository.PlaylistRepository,
	editManager *edit.Manager,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		userRepo:     userRepo,
		songRepo:     songRepo,
		playlistRepo: playlistRepo,
		editManager:  editManager,
		cfg:          cfg,
	}
}

type contextKey string

const (
	userIDKey   contextKey = "userID"
	usernameKey contextKey = "username"
)

// AuthMiddleware is a middleware function that checks for a valid JWT token
// and stores the user's identity in the request context.
func (h *APIHandler) AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header is required", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "Invalid authorization header format", http.StatusUnauthorized)
			return
		}

		claims, err := auth.ParseToken(parts[1])
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
		ctx = context.WithValue(ctx, usernameKey, claims.Username)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// GetUserIDFromContext 从请求上下文中取出认证用户ID
func GetUserIDFromContext(ctx context.Context) (int64, error) {
	userID, ok := ctx.Value(userIDKey).(int64)
	if !ok || userID <= 0 {
		return 0, fmt.Errorf("no authenticated user in context")
	}
	return userID, nil
}

// writeJSON 输出JSON响应
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("写入响应失败", logger.ErrorField(err))
	}
}

// errorBody 是所有错误响应的统一结构
type errorBody struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// writeError 将存储层/编辑引擎的类型化错误映射为HTTP状态码
func writeError(w http.ResponseWriter, err error) {
	var status int
	var reason string

	switch {
	case errors.Is(err, repository.ErrNotFound):
		status, reason = http.StatusNotFound, "notFound"
	case errors.Is(err, repository.ErrForbidden):
		status, reason = http.StatusForbidden, "forbidden"
	case errors.Is(err, repository.ErrIndexOutOfRange):
		// 本地索引已过期，客户端应重新加载
		status, reason = http.StatusConflict, "indexOutOfRange"
	case errors.Is(err, repository.ErrValidation):
		status, reason = http.StatusBadRequest, "validation"
	case errors.Is(err, edit.ErrNothingToUndo):
		status, reason = http.StatusConflict, "nothingToUndo"
	case errors.Is(err, edit.ErrNothingToRedo):
		status, reason = http.StatusConflict, "nothingToRedo"
	case errors.Is(err, edit.ErrEmptyHistory):
		status, reason = http.StatusConflict, "emptyHistory"
	case errors.Is(err, edit.ErrSessionBusy):
		status, reason = http.StatusConflict, "sessionBusy"
	case errors.Is(err, edit.ErrSessionClosed):
		status, reason = http.StatusNotFound, "sessionClosed"
	default:
		// 网络/存储故障，客户端可重试同一操作
		status, reason = http.StatusBadGateway, "storeFailure"
	}

	writeJSON(w, status, errorBody{Reason: reason, Message: err.Error()})
}
