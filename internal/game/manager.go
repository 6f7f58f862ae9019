package game

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"xiangqi/internal/engine"
	"xiangqi/internal/xiangqi"
)

var ErrGameNotFound = errors.New("game not found")

// Manager 按 id 保存会话。map 由 RWMutex 保护，单个棋盘的修改由会话自己的锁串行化。
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	settings Settings
}

func NewManager(settings Settings) *Manager {
	return &Manager{sessions: make(map[string]*Session), settings: settings}
}

func (m *Manager) NewGame(mode Mode, player xiangqi.Side, diff engine.Difficulty) (*Session, error) {
	s, err := NewSession(m.settings, mode, player, diff)
	if err != nil {
		return nil, err
	}
	s.ID = uuid.NewString()

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s, nil
}

func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return s, nil
}

// With 在会话锁内执行 fn
func (m *Manager) With(id string, fn func(s *Session) error) error {
	s, err := m.Get(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	err = fn(s)
	s.UpdatedAt = time.Now()
	return err
}

func (m *Manager) Delete(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		s.mu.Lock()
		s.CloseOnline()
		s.mu.Unlock()
	}
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
