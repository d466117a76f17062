package oauth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nextlevelbuilder/discordrpc/pkg/discord"
)

// refreshMargin is subtracted from the server-declared token lifetime so a
// refresh always happens before the token actually lapses.
const refreshMargin = 10 * time.Second

// ErrNoRefreshToken is returned when a refresh is due but no refresh token
// has been obtained or loaded.
var ErrNoRefreshToken = errors.New("no refresh token available")

// Credential tracks the access-token lifecycle for one session: the granted
// scopes, the stored refresh token and the instant the access token stops
// being trusted. A zero expiry means "expired", so a fresh Credential always
// reports Expired until the first exchange succeeds.
type Credential struct {
	scopes    []Scope
	exchanger Exchanger
	saver     TokenSaver

	refreshToken string
	expiry       time.Time

	// now is replaced in tests.
	now func() time.Time
}

// NewCredential builds a credential for the given exchange strategy. The
// saver may be nil, in which case tokens are not persisted.
func NewCredential(exchanger Exchanger, saver TokenSaver, scopes []Scope) *Credential {
	if saver == nil {
		saver = NopSaver{}
	}
	return &Credential{
		scopes:    scopes,
		exchanger: exchanger,
		saver:     saver,
		now:       time.Now,
	}
}

// Scopes returns the scopes this credential was configured with.
func (c *Credential) Scopes() []Scope { return c.scopes }

// LoadStored pulls a previously persisted refresh token from the saver.
// It reports whether one was found; load failures are logged and treated as
// "nothing stored", since a missing token only forces a full authorize.
func (c *Credential) LoadStored(ctx context.Context) bool {
	token, err := c.saver.Load(ctx)
	if err != nil {
		slog.Warn("stored refresh token unavailable", "error", err)
		return false
	}
	c.refreshToken = token
	return token != ""
}

// Expired reports whether the access token must be refreshed before further
// traffic is sent.
func (c *Credential) Expired() bool {
	return !c.now().Before(c.expiry)
}

// ExchangeCode trades an authorization code for a fresh token pair and
// returns the access token.
func (c *Credential) ExchangeCode(ctx context.Context, clientID discord.Snowflake, apiEndpoint, code string) (string, error) {
	tok, err := c.exchanger.Exchange(ctx, ExchangeRequest{
		Grant:       GrantAuthorizationCode,
		ClientID:    clientID,
		Code:        code,
		APIEndpoint: apiEndpoint,
	})
	if err != nil {
		return "", err
	}
	if err := c.apply(ctx, tok); err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

// Refresh exchanges the stored refresh token for a new token pair when the
// access token has expired. It returns ("", nil) when the token is still
// valid — in that case no network traffic happens and the stored refresh
// token is untouched.
func (c *Credential) Refresh(ctx context.Context, clientID discord.Snowflake, apiEndpoint string) (string, error) {
	if !c.Expired() {
		return "", nil
	}
	if c.refreshToken == "" {
		return "", ErrNoRefreshToken
	}
	tok, err := c.exchanger.Exchange(ctx, ExchangeRequest{
		Grant:        GrantRefreshToken,
		ClientID:     clientID,
		RefreshToken: c.refreshToken,
		APIEndpoint:  apiEndpoint,
	})
	if err != nil {
		return "", err
	}
	if err := c.apply(ctx, tok); err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

// apply installs a token response: computes the early-refresh expiry,
// records the refresh token and persists it best-effort.
func (c *Credential) apply(ctx context.Context, tok *TokenResponse) error {
	lifetime := time.Duration(tok.ExpiresIn) * time.Second
	if lifetime <= refreshMargin {
		return fmt.Errorf("token lifetime %s is within the %s refresh margin", lifetime, refreshMargin)
	}
	c.expiry = c.now().Add(lifetime - refreshMargin)
	c.refreshToken = tok.RefreshToken
	if err := c.saver.Save(ctx, tok.RefreshToken); err != nil {
		slog.Warn("persisting refresh token failed", "error", err)
	}
	return nil
}
