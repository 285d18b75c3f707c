package state

import (
	"sync"
	"time"
)

// DefaultTTL сколько живёт брошенный диалог
const DefaultTTL = 30 * time.Minute

// Manager хранит диалоги пользователей в памяти процесса
type Manager struct {
	mu       sync.Mutex
	sessions map[int64]*Session // telegramID -> Session
	ttl      time.Duration
	now      func() time.Time
}

// NewManager создаёт менеджер; ttl <= 0 означает DefaultTTL
func NewManager(ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		sessions: make(map[int64]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// GetState получает текущий шаг диалога
func (sm *Manager) GetState(telegramID int64) UserState {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if s := sm.live(telegramID); s != nil {
		return s.State
	}
	return StateNone
}

// Get возвращает копию диалога
func (sm *Manager) Get(telegramID int64) (Session, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if s := sm.live(telegramID); s != nil {
		return *s, true
	}
	return Session{}, false
}

// Start начинает новый диалог, сбрасывая старый
func (sm *Manager) Start(telegramID int64, state UserState) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.sessions[telegramID] = &Session{State: state, UpdatedAt: sm.now()}
}

// Advance меняет черновик и переводит диалог на следующий шаг.
// Возвращает false, если активного диалога нет.
func (sm *Manager) Advance(telegramID int64, next UserState, update func(*BookingDraft)) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	s := sm.live(telegramID)
	if s == nil {
		return false
	}
	if update != nil {
		update(&s.Draft)
	}
	s.State = next
	s.UpdatedAt = sm.now()
	return true
}

// ClearState завершает диалог
func (sm *Manager) ClearState(telegramID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.sessions, telegramID)
}

// live возвращает диалог, удаляя просроченный. Вызывается под mu.
func (sm *Manager) live(telegramID int64) *Session {
	s, ok := sm.sessions[telegramID]
	if !ok {
		return nil
	}
	if sm.now().Sub(s.UpdatedAt) > sm.ttl {
		delete(sm.sessions, telegramID)
		return nil
	}
	return s
}
