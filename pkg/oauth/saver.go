package oauth

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/zalando/go-keyring"
)

// TokenSaver persists the refresh token between executions. Load returns the
// empty string when no token has been stored yet; that is not an error.
type TokenSaver interface {
	Save(ctx context.Context, token string) error
	Load(ctx context.Context) (string, error)
}

// FileSaver stores the refresh token in a plain file.
type FileSaver struct {
	Path string
}

func (f FileSaver) Save(_ context.Context, token string) error {
	if err := os.WriteFile(f.Path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	return nil
}

func (f FileSaver) Load(_ context.Context) (string, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load refresh token: %w", err)
	}
	return string(data), nil
}

// KeyringSaver stores the refresh token in the OS keychain (Keychain,
// Windows Credential Manager, or the Secret Service on Linux).
type KeyringSaver struct {
	// Service is the keyring service name, e.g. "discordrpc".
	Service string
	// User is the account key, typically the application's client id.
	User string
}

func (k KeyringSaver) Save(_ context.Context, token string) error {
	if err := keyring.Set(k.Service, k.User, token); err != nil {
		return fmt.Errorf("save refresh token to keyring: %w", err)
	}
	return nil
}

func (k KeyringSaver) Load(_ context.Context) (string, error) {
	token, err := keyring.Get(k.Service, k.User)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load refresh token from keyring: %w", err)
	}
	return token, nil
}

// NopSaver discards tokens; it is the default when no saver is configured.
type NopSaver struct{}

func (NopSaver) Save(context.Context, string) error { return nil }

func (NopSaver) Load(context.Context) (string, error) { return "", nil }
