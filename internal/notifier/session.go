package notifier

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/staff"
)

// Transport is one live bidirectional client connection. Implementations
// must be safe for concurrent Send calls.
type Transport interface {
	// Send pushes a message to the client. An error means the connection
	// is unusable and the hub will purge the session.
	Send(message Message) error

	// Close tears the connection down. Closing twice must be safe.
	Close() error
}

// session tracks one connected client. A staff member may hold several
// sessions at once (multi-device); each session authenticates at most once
// in its lifetime.
type session struct {
	id            string
	transport     Transport
	staffID       kernel.UUID
	role          staff.Role
	authenticated bool
	connectedAt   time.Time
	lastActivity  time.Time
}

func (s *session) isFor(staffID kernel.UUID) bool {
	return s.authenticated && s.staffID.IsEqual(staffID)
}

// SessionInfo is the read-only view of a session exposed for monitoring.
type SessionInfo struct {
	SessionID     string
	StaffID       string
	Role          string
	Authenticated bool
	ConnectedAt   time.Time
	LastActivity  time.Time
}

func (s *session) info() SessionInfo {
	info := SessionInfo{
		SessionID:     s.id,
		Authenticated: s.authenticated,
		ConnectedAt:   s.connectedAt,
		LastActivity:  s.lastActivity,
	}
	if s.authenticated {
		info.StaffID = s.staffID.String()
		info.Role = s.role.String()
	}
	return info
}
