package editor

import (
	"sync"

	"github.com/formforge/formforge/internal/form"
)

// Manager tracks the live editor sessions of this process, keyed by session
// id. It owns no document state itself.
type Manager struct {
	pipeline *Pipeline

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(pipeline *Pipeline) *Manager {
	return &Manager{
		pipeline: pipeline,
		sessions: make(map[string]*Session),
	}
}

// Open creates a session over doc and registers it.
func (m *Manager) Open(doc *form.Document) *Session {
	s := NewSession(doc, m.pipeline)
	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()
	return s
}

// Get returns the session with the given id.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Close flushes and removes one session. Unknown ids are a no-op.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		s.Close()
	}
}

// CloseAll tears down every session and then the pipeline; used on server
// shutdown so no pending snapshot is lost.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	all := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range all {
		s.Close()
	}
	m.pipeline.Close()
}
