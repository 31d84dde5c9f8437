// broadcast/broadcast.go
package broadcast

import (
	"errors"

	"github.com/wfunc/memorygrid/session"
)

var (
	ErrSessionNotFound = errors.New("session not found")
)

// Broadcaster pushes packets to connected players. The games are
// single-player, so the unit of addressing is a session (one connection) or
// a user (all of that player's connections).
type Broadcaster interface {
	SendToSession(sessionID string, msgID uint16, data []byte) error
	SendToUser(userID int64, msgID uint16, data []byte) error
}

// SessionBroadcaster resolves targets through the session manager.
type SessionBroadcaster struct {
	sessionManager *session.Manager
}

func NewSessionBroadcaster(sessionManager *session.Manager) *SessionBroadcaster {
	return &SessionBroadcaster{
		sessionManager: sessionManager,
	}
}

func (b *SessionBroadcaster) SendToSession(sessionID string, msgID uint16, data []byte) error {
	s, exists := b.sessionManager.Get(sessionID)
	if !exists {
		return ErrSessionNotFound
	}
	return s.Send(msgID, data)
}

func (b *SessionBroadcaster) SendToUser(userID int64, msgID uint16, data []byte) error {
	for _, s := range b.sessionManager.GetByUserID(userID) {
		if err := s.Send(msgID, data); err != nil {
			// A dead connection is reaped by its own read loop.
			continue
		}
	}
	return nil
}
