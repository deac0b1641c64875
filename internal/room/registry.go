package room

import (
	"errors"
	"sort"
	"sync"
)

// ErrRoomNotFound is returned when a room is not in the registry.
var ErrRoomNotFound = errors.New("room not found")

// Registry owns all live rooms keyed by room id.
//
// Lock order is room then registry. The registry lock is never held while
// waiting for a room lock.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*Room
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

// GetOrCreate returns the room for roomID, inserting an empty one if absent.
// The returned room is not locked.
func (reg *Registry) GetOrCreate(roomID string) *Room {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	r, ok := reg.rooms[roomID]
	if !ok {
		r = newRoom(roomID)
		reg.rooms[roomID] = r
	}
	return r
}

// Get returns the room for roomID without creating it.
func (reg *Registry) Get(roomID string) (*Room, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	r, ok := reg.rooms[roomID]
	return r, ok
}

// Acquire returns the room for roomID with its lock held. With create set,
// a missing room is inserted; otherwise ErrRoomNotFound is returned.
// The caller must hand the room back through Release.
func (reg *Registry) Acquire(roomID string, create bool) (*Room, error) {
	for {
		var r *Room
		if create {
			r = reg.GetOrCreate(roomID)
		} else {
			var ok bool
			if r, ok = reg.Get(roomID); !ok {
				return nil, ErrRoomNotFound
			}
		}

		r.Lock()
		if !r.retired {
			return r, nil
		}
		// Removed between lookup and lock; look again.
		r.Unlock()
	}
}

// Release removes the room from the registry if it is empty, then unlocks
// it. It reports whether the room was removed.
func (reg *Registry) Release(r *Room) bool {
	removed := reg.retireIfEmpty(r)
	r.Unlock()
	return removed
}

// RemoveIfEmpty removes roomID if it has no broadcaster and no viewers.
func (reg *Registry) RemoveIfEmpty(roomID string) bool {
	r, err := reg.Acquire(roomID, false)
	if err != nil {
		return false
	}
	return reg.Release(r)
}

// retireIfEmpty requires the room lock.
func (reg *Registry) retireIfEmpty(r *Room) bool {
	if r.retired || !r.IsEmpty() {
		return false
	}

	reg.mu.Lock()
	if cur, ok := reg.rooms[r.id]; ok && cur == r {
		delete(reg.rooms, r.id)
	}
	reg.mu.Unlock()

	r.retired = true
	return true
}

// Len returns the number of live rooms.
func (reg *Registry) Len() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.rooms)
}

// Stats returns the summary of one room.
func (reg *Registry) Stats(roomID string) (Summary, error) {
	r, err := reg.Acquire(roomID, false)
	if err != nil {
		return Summary{}, err
	}
	defer r.Unlock()
	return r.Summary(), nil
}

// Snapshot returns summaries of all live rooms sorted by room id.
func (reg *Registry) Snapshot() []Summary {
	reg.mu.Lock()
	rooms := make([]*Room, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		rooms = append(rooms, r)
	}
	reg.mu.Unlock()

	out := make([]Summary, 0, len(rooms))
	for _, r := range rooms {
		r.Lock()
		if !r.retired {
			out = append(out, r.Summary())
		}
		r.Unlock()
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Room < out[j].Room })
	return out
}
