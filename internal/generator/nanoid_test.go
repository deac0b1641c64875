package generator

import (
	"strings"
	"testing"
)

func TestNewNanoIDGeneratorRejectsBadConfig(t *testing.T) {
	cases := []struct {
		name     string
		size     int
		alphabet string
	}{
		{"zero size", 0, DefaultViewerIDAlphabet},
		{"too large", 257, DefaultViewerIDAlphabet},
		{"short alphabet", 8, "a"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewNanoIDGenerator(tc.size, tc.alphabet); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestGenerateProducesValidIDs(t *testing.T) {
	g := NewDefault()
	seen := make(map[string]struct{})
	for i := 0; i < 500; i++ {
		id, err := g.Generate()
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if len(id) != DefaultViewerIDSize {
			t.Fatalf("id %q has length %d, want %d", id, len(id), DefaultViewerIDSize)
		}
		if strings.Trim(id, DefaultViewerIDAlphabet) != "" {
			t.Fatalf("id %q has characters outside the alphabet", id)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
	}
}

func TestGenerateHonoursSizeAndAlphabet(t *testing.T) {
	g, err := NewNanoIDGenerator(4, "ab")
	if err != nil {
		t.Fatalf("NewNanoIDGenerator: %v", err)
	}
	id, err := g.Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(id) != 4 || strings.Trim(id, "ab") != "" {
		t.Fatalf("id = %q", id)
	}
}
