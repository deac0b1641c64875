package domain

// Role is the part a connection plays in its room.
type Role string

const (
	RoleUnset       Role = ""
	RoleBroadcaster Role = "broadcaster"
	RoleViewer      Role = "viewer"
)

// ParseRole returns the role named by s and whether it is joinable.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleBroadcaster:
		return RoleBroadcaster, true
	case RoleViewer:
		return RoleViewer, true
	default:
		return RoleUnset, false
	}
}

// Session is the signaling state of one connection.
//
// It is only touched from the connection's own read goroutine (messages
// and, last, the close event), so it carries no lock.
type Session struct {
	ID       string
	role     Role
	roomID   string
	viewerID string
	bound    bool
	closed   bool
}

// NewSession creates an unbound session.
func NewSession(id string) *Session {
	return &Session{ID: id}
}

// Bind assigns role, room and viewer id. It succeeds once; a bound
// session keeps its first assignment for life.
func (s *Session) Bind(role Role, roomID, viewerID string) bool {
	if s.bound {
		return false
	}
	s.role = role
	s.roomID = roomID
	s.viewerID = viewerID
	s.bound = true
	return true
}

// Assign records role and viewer id for a join that named no room.
// The session stays unbound.
func (s *Session) Assign(role Role, viewerID string) {
	if s.bound {
		return
	}
	s.role = role
	s.viewerID = viewerID
}

// IsBound reports whether the session belongs to a room.
func (s *Session) IsBound() bool { return s.bound }

// Role returns the session role.
func (s *Session) Role() Role { return s.role }

// RoomID returns the bound room, or "" if unbound.
func (s *Session) RoomID() string {
	if !s.bound {
		return ""
	}
	return s.roomID
}

// ViewerID returns the viewer id; empty for broadcasters.
func (s *Session) ViewerID() string { return s.viewerID }

// MarkClosed records that close handling ran. It returns false if it
// already had.
func (s *Session) MarkClosed() bool {
	if s.closed {
		return false
	}
	s.closed = true
	return true
}
