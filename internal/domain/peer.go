package domain

// Peer is the sending side of a connection as seen by rooms and the router.
type Peer interface {
	// ID identifies the connection; equal IDs mean the same channel.
	ID() string

	// IsOpen reports whether the channel currently accepts messages.
	IsOpen() bool

	// SendMessage encodes and queues a message. Best effort.
	SendMessage(message interface{}) error
}

// Conn is a Peer that also carries its signaling session.
type Conn interface {
	Peer
	Session() *Session
}
