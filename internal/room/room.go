package room

import (
	"sync"

	"github.com/weiawesome/wes-io-live/relay-service/internal/domain"
)

// Room is one signaling scope: at most one broadcaster and a map of viewers
// keyed by viewer id.
//
// All accessors below require the room lock, which Registry.Acquire takes.
type Room struct {
	id string

	mu          sync.Mutex
	broadcaster domain.Peer
	viewers     map[string]domain.Peer
	retired     bool
}

func newRoom(id string) *Room {
	return &Room{
		id:      id,
		viewers: make(map[string]domain.Peer),
	}
}

// ID returns the room identifier.
func (r *Room) ID() string { return r.id }

// Lock takes the room lock.
func (r *Room) Lock() { r.mu.Lock() }

// Unlock releases the room lock.
func (r *Room) Unlock() { r.mu.Unlock() }

// Broadcaster returns the current broadcaster or nil.
func (r *Room) Broadcaster() domain.Peer { return r.broadcaster }

// SetBroadcaster replaces the broadcaster reference.
func (r *Room) SetBroadcaster(p domain.Peer) { r.broadcaster = p }

// ClearBroadcaster drops the broadcaster reference.
func (r *Room) ClearBroadcaster() { r.broadcaster = nil }

// Viewer looks up a viewer by id.
func (r *Room) Viewer(viewerID string) (domain.Peer, bool) {
	p, ok := r.viewers[viewerID]
	return p, ok
}

// PutViewer inserts or overwrites the entry for viewerID.
func (r *Room) PutViewer(viewerID string, p domain.Peer) { r.viewers[viewerID] = p }

// RemoveViewer deletes the entry for viewerID if present.
func (r *Room) RemoveViewer(viewerID string) { delete(r.viewers, viewerID) }

// ViewerCount returns the size of the viewer map.
func (r *Room) ViewerCount() int { return len(r.viewers) }

// Viewers returns the current viewer peers in no particular order.
func (r *Room) Viewers() []domain.Peer {
	out := make([]domain.Peer, 0, len(r.viewers))
	for _, p := range r.viewers {
		out = append(out, p)
	}
	return out
}

// IsEmpty reports whether the room has neither broadcaster nor viewers.
func (r *Room) IsEmpty() bool {
	return r.broadcaster == nil && len(r.viewers) == 0
}

// Summary returns a read-only view of the room.
func (r *Room) Summary() Summary {
	return Summary{
		Room:        r.id,
		Live:        r.broadcaster != nil,
		ViewerCount: len(r.viewers),
	}
}

// Summary describes a room for the stats endpoints.
type Summary struct {
	Room        string `json:"room"`
	Live        bool   `json:"live"`
	ViewerCount int    `json:"viewerCount"`
}
