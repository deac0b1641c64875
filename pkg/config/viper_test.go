package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaultsAndEnv(t *testing.T) {
	t.Setenv("RELAY_TEST_PORT", "8080")

	v, err := Load(t.TempDir(), "config",
		WithDefaults(map[string]interface{}{"server.port": 3000, "server.host": "0.0.0.0"}),
		WithEnv(map[string]string{"server.port": "RELAY_TEST_PORT"}),
	)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := v.GetInt("server.port"); got != 8080 {
		t.Fatalf("server.port = %d, want 8080", got)
	}
	if got := v.GetString("server.host"); got != "0.0.0.0" {
		t.Fatalf("server.host = %q", got)
	}
}

func TestLoadRejectsBrokenFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir, "config"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestDuration(t *testing.T) {
	v, err := Load(t.TempDir(), "config", WithDefaults(map[string]interface{}{
		"a": "5s",
		"b": "soon",
	}))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := Duration(v, "a", time.Second); got != 5*time.Second {
		t.Fatalf("a = %s", got)
	}
	if got := Duration(v, "b", time.Second); got != time.Second {
		t.Fatalf("b = %s, want fallback", got)
	}
	if got := Duration(v, "missing", 2*time.Second); got != 2*time.Second {
		t.Fatalf("missing = %s, want fallback", got)
	}
}
