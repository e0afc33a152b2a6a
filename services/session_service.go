package services

import (
	"errors"
	"sync"

	"github.com/avivhostel-jpg/Smart-Aviv/models"
)

var ErrUnknownSessionEvent = errors.New("unknown session event")

// InterfaceSessionService 定义会话视图状态服务接口
type InterfaceSessionService interface {
	CurrentState() models.AppState
	ApplyEvent(event models.SessionEvent) (models.AppState, error)
	Reset() models.AppState
}

// SessionService 会话视图状态服务：纯归约器加本地持久化。
// 状态在启动时从本地缓存恢复，每次事件后写回。
type SessionService struct {
	local InterfaceLocalStoreService

	mu    sync.RWMutex
	state models.AppState
}

// NewSessionService restores the persisted view state
func NewSessionService(local InterfaceLocalStoreService) InterfaceSessionService {
	return &SessionService{
		local: local,
		state: local.LoadSession(),
	}
}

// CurrentState returns the current view state
func (s *SessionService) CurrentState() models.AppState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// ApplyEvent runs one event through the reducer and persists the result.
// Logout additionally drops the stored session.
func (s *SessionService) ApplyEvent(event models.SessionEvent) (models.AppState, error) {
	if !event.Type.Valid() {
		return models.AppState{}, ErrUnknownSessionEvent
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = s.state.Apply(event)
	if event.Type == models.EventLogout {
		s.local.ClearSession()
	} else {
		s.local.SaveSession(s.state)
	}
	return s.state, nil
}

// Reset drops the session back to the default state
func (s *SessionService) Reset() models.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = models.DefaultAppState()
	s.local.ClearSession()
	return s.state
}
