//go:build unix

package platform

import (
	"path/filepath"
	"testing"
)

func TestSocketPath_PrefersRuntimeDir(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	t.Setenv("TMPDIR", "/var/folders/x")
	if got := SocketPath(); got != filepath.Join("/run/user/1000", "discord-ipc-0") {
		t.Errorf("path = %q, want XDG_RUNTIME_DIR to win", got)
	}
}

func TestSocketPath_FallsBackToTempDir(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "")
	t.Setenv("TMPDIR", "/var/folders/x")
	if got := SocketPath(); got != filepath.Join("/var/folders/x", "discord-ipc-0") {
		t.Errorf("path = %q, want $TMPDIR fallback", got)
	}
}
