package authenticating

import (
	"sync"
	"time"

	"github.com/vfg2006/sales-dashboard/internal/domain"
)

// SessionStore guarda as sessões de login em memória. O dashboard roda
// em um único processo, então não há necessidade de armazenamento
// compartilhado; reiniciar o serviço apenas exige novo login.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
	now      func() time.Time
}

// NewSessionStore cria o armazenamento de sessões
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*domain.Session),
		now:      time.Now,
	}
}

// Put registra uma sessão nova
func (s *SessionStore) Put(session *domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
}

// Get retorna a sessão quando ela existe e ainda é válida; sessões
// expiradas são removidas na leitura
func (s *SessionStore) Get(id string) (*domain.Session, bool) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if session.Expired(s.now()) {
		s.Delete(id)
		return nil, false
	}

	return session, true
}

// Delete remove uma sessão
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len retorna a quantidade de sessões ativas registradas
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
