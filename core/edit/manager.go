package edit

import (
	"context"
	"fmt"
	"sync"

	"playlister/logger"
)

// Manager 编辑会话管理器：每个打开的编辑弹窗对应一个会话，
// 以会话ID为键。会话之间互相独立，互不共享状态。
type Manager struct {
	store   PlaylistStore
	catalog SongCatalog

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager 创建编辑会话管理器
func NewManager(store PlaylistStore, catalog SongCatalog) *Manager {
	return &Manager{
		store:    store,
		catalog:  catalog,
		sessions: make(map[string]*Session),
	}
}

// Open 为指定用户打开一个播放列表的编辑会话
func (m *Manager) Open(ctx context.Context, playlistID, callerID int64) (*Session, error) {
	gw := NewGateway(m.store, m.catalog, callerID)
	s, err := Open(ctx, gw, playlistID)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()
	return s, nil
}

// Get 返回属于指定用户的会话
func (m *Manager) Get(sessionID string, callerID int64) (*Session, error) {
	m.mu.Lock()
	s, ok := m.sessions[sessionID]
	m.mu.Unlock()
	if !ok || s.CallerID() != callerID {
		// 会话不存在与无权访问不作区分，避免泄露他人会话ID是否有效
		return nil, fmt.Errorf("edit session %q: %w", sessionID, ErrSessionClosed)
	}
	return s, nil
}

// Close 关闭并移除会话
func (m *Manager) Close(sessionID string, callerID int64) error {
	s, err := m.Get(sessionID, callerID)
	if err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()

	s.Close()
	return nil
}

// CloseAll 关闭所有会话（服务器停机时调用）
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
	if len(sessions) > 0 {
		logger.Info("closed all edit sessions", logger.Int("count", len(sessions)))
	}
}
