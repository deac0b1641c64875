package room

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

type stubPeer struct{ id string }

func (p *stubPeer) ID() string                    { return p.id }
func (p *stubPeer) IsOpen() bool                  { return true }
func (p *stubPeer) SendMessage(interface{}) error { return nil }

func TestAcquireCreatesOnlyWhenAsked(t *testing.T) {
	reg := NewRegistry()

	if _, err := reg.Acquire("r1", false); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("Acquire without create: err = %v, want ErrRoomNotFound", err)
	}
	if reg.Len() != 0 {
		t.Fatalf("lookup created a room")
	}

	r, err := reg.Acquire("r1", true)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	r.SetBroadcaster(&stubPeer{id: "b"})
	if reg.Release(r) {
		t.Fatalf("room with broadcaster was removed")
	}
	if _, ok := reg.Get("r1"); !ok {
		t.Fatalf("room missing after broadcaster join")
	}
}

func TestReleaseRemovesEmptyRoom(t *testing.T) {
	reg := NewRegistry()

	r, _ := reg.Acquire("r1", true)
	r.PutViewer("v1", &stubPeer{id: "c1"})
	reg.Release(r)

	r, err := reg.Acquire("r1", false)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	r.RemoveViewer("v1")
	if !reg.Release(r) {
		t.Fatalf("empty room was not removed")
	}
	if reg.Len() != 0 {
		t.Fatalf("Len = %d, want 0", reg.Len())
	}

	// A retired room is never handed out again.
	r2, _ := reg.Acquire("r1", true)
	defer r2.Unlock()
	if r2 == r {
		t.Fatalf("retired room reused")
	}
}

func TestRemoveIfEmpty(t *testing.T) {
	reg := NewRegistry()
	reg.GetOrCreate("empty")
	full := reg.GetOrCreate("full")
	full.Lock()
	full.PutViewer("v", &stubPeer{id: "c"})
	full.Unlock()

	if !reg.RemoveIfEmpty("empty") {
		t.Fatalf("empty room kept")
	}
	if reg.RemoveIfEmpty("full") {
		t.Fatalf("occupied room removed")
	}
	if reg.RemoveIfEmpty("missing") {
		t.Fatalf("missing room reported removed")
	}
}

func TestStatsAndSnapshot(t *testing.T) {
	reg := NewRegistry()

	b, _ := reg.Acquire("b-room", true)
	b.SetBroadcaster(&stubPeer{id: "b"})
	b.PutViewer("v1", &stubPeer{id: "c1"})
	b.PutViewer("v2", &stubPeer{id: "c2"})
	reg.Release(b)

	a, _ := reg.Acquire("a-room", true)
	a.PutViewer("v1", &stubPeer{id: "c3"})
	reg.Release(a)

	s, err := reg.Stats("b-room")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if !s.Live || s.ViewerCount != 2 {
		t.Fatalf("Stats = %+v", s)
	}
	if _, err := reg.Stats("nope"); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("Stats missing: err = %v", err)
	}

	snap := reg.Snapshot()
	if len(snap) != 2 || snap[0].Room != "a-room" || snap[1].Room != "b-room" {
		t.Fatalf("Snapshot = %+v", snap)
	}
	if snap[0].Live {
		t.Fatalf("a-room should not be live")
	}
}

func TestConcurrentJoinLeave(t *testing.T) {
	reg := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			viewerID := fmt.Sprintf("v%d", i)
			for j := 0; j < 100; j++ {
				r, err := reg.Acquire("shared", true)
				if err != nil {
					t.Errorf("Acquire: %v", err)
					return
				}
				r.PutViewer(viewerID, &stubPeer{id: viewerID})
				reg.Release(r)

				r, err = reg.Acquire("shared", false)
				if err != nil {
					t.Errorf("viewer %s lost its room: %v", viewerID, err)
					return
				}
				if _, ok := r.Viewer(viewerID); !ok {
					t.Errorf("viewer %s missing", viewerID)
				}
				r.RemoveViewer(viewerID)
				reg.Release(r)
			}
		}(i)
	}
	wg.Wait()

	if reg.Len() != 0 {
		t.Fatalf("Len = %d after all viewers left", reg.Len())
	}
}
