// game/manager.go
package game

import (
	"sync"

	"github.com/wfunc/memorygrid/engine"
	"github.com/wfunc/memorygrid/session"
)

// Manager tracks the running game instance of every session.
type Manager struct {
	instances map[string]*Instance
	mutex     sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		instances: make(map[string]*Instance),
	}
}

// GetOrCreate returns the session's instance, creating it on first use.
func (m *Manager) GetOrCreate(sess *session.Session, cfg engine.Config) *Instance {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if inst, exists := m.instances[sess.GetID()]; exists {
		return inst
	}
	inst := NewInstance(sess, cfg)
	m.instances[sess.GetID()] = inst
	return inst
}

// Get returns the instance for a session id.
func (m *Manager) Get(sessionID string) (*Instance, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	inst, exists := m.instances[sessionID]
	return inst, exists
}

// Remove drops a session's instance, e.g. when the connection closes.
func (m *Manager) Remove(sessionID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.instances, sessionID)
}

// Count returns the number of live instances.
func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.instances)
}
