//go:build unix

package platform

import (
	"context"
	"io"
	"net"
	"os"
	"path/filepath"
)

// Dial connects to the Discord client's unix socket. Discord creates the
// socket in the first of $XDG_RUNTIME_DIR, $TMPDIR, the OS temp dir or /tmp
// that is set, so the lookup mirrors that order.
func Dial(ctx context.Context) (io.ReadWriteCloser, error) {
	var d net.Dialer
	return d.DialContext(ctx, "unix", SocketPath())
}

// SocketPath returns the path Discord binds its first IPC socket to.
func SocketPath() string {
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		// os.TempDir covers the $TMPDIR then /tmp fallbacks.
		dir = os.TempDir()
	}
	return filepath.Join(dir, "discord-ipc-0")
}
