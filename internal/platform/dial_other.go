//go:build !unix && !windows

package platform

import (
	"context"
	"errors"
	"io"
	"runtime"
)

// Dial reports that no local Discord transport exists on this platform.
func Dial(ctx context.Context) (io.ReadWriteCloser, error) {
	return nil, errors.New("discord ipc is not supported on " + runtime.GOOS)
}
