package domain

import "testing"

func TestSessionBindsOnce(t *testing.T) {
	s := NewSession("c1")
	if s.IsBound() || s.RoomID() != "" {
		t.Fatalf("new session should be unbound")
	}

	if !s.Bind(RoleViewer, "r1", "v1") {
		t.Fatalf("first Bind failed")
	}
	if s.Bind(RoleBroadcaster, "r2", "") {
		t.Fatalf("second Bind succeeded")
	}
	if s.Role() != RoleViewer || s.RoomID() != "r1" || s.ViewerID() != "v1" {
		t.Fatalf("session = %+v", s)
	}

	s.Assign(RoleBroadcaster, "x")
	if s.Role() != RoleViewer {
		t.Fatalf("Assign changed a bound session")
	}
}

func TestSessionAssignKeepsUnbound(t *testing.T) {
	s := NewSession("c1")
	s.Assign(RoleViewer, "v1")
	if s.IsBound() || s.Role() != RoleViewer || s.RoomID() != "" {
		t.Fatalf("session = %+v", s)
	}
	if !s.Bind(RoleBroadcaster, "r1", "") {
		t.Fatalf("Bind after Assign failed")
	}
}

func TestMarkClosed(t *testing.T) {
	s := NewSession("c1")
	if !s.MarkClosed() {
		t.Fatalf("first MarkClosed = false")
	}
	if s.MarkClosed() {
		t.Fatalf("second MarkClosed = true")
	}
}

func TestParseRole(t *testing.T) {
	for in, want := range map[string]Role{"broadcaster": RoleBroadcaster, "viewer": RoleViewer} {
		if got, ok := ParseRole(in); !ok || got != want {
			t.Fatalf("ParseRole(%q) = %q, %v", in, got, ok)
		}
	}
	for _, in := range []string{"", "admin", "Viewer"} {
		if _, ok := ParseRole(in); ok {
			t.Fatalf("ParseRole(%q) accepted", in)
		}
	}
}
