//go:build windows

package platform

import (
	"context"
	"io"

	"github.com/Microsoft/go-winio"
)

const pipePath = `\\.\pipe\discord-ipc-0`

// Dial connects to the Discord client's named pipe.
func Dial(ctx context.Context) (io.ReadWriteCloser, error) {
	return winio.DialPipeContext(ctx, pipePath)
}
