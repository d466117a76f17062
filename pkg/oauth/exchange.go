package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/nextlevelbuilder/discordrpc/pkg/discord"
)

// GrantType selects which OAuth2 grant an exchange performs.
type GrantType string

const (
	GrantAuthorizationCode GrantType = "authorization_code"
	GrantRefreshToken      GrantType = "refresh_token"
)

// ExchangeRequest asks an Exchanger to turn an authorization code or a
// refresh token into an access token. Exactly one of Code and RefreshToken
// is set, matching Grant.
type ExchangeRequest struct {
	Grant        GrantType
	ClientID     discord.Snowflake
	Code         string
	RefreshToken string
	// APIEndpoint is the server-advertised API host from the READY
	// handshake, e.g. "//discord.com/api". Empty selects the default.
	APIEndpoint string
}

// TokenResponse is Discord's token endpoint response, also relayed verbatim
// by the remote secret service.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	Scope        string `json:"scope"`
}

// Exchanger performs a token exchange. The two implementations differ only
// in who holds the client secret: LocalExchanger sends it directly, while
// RemoteExchanger delegates to a relay service that adds it server-side.
type Exchanger interface {
	Exchange(ctx context.Context, req ExchangeRequest) (*TokenResponse, error)
}

const defaultAPIEndpoint = "//discord.com/api"

// LocalExchanger calls the Discord token endpoint directly with a locally
// held client secret.
type LocalExchanger struct {
	Secret string
	// Client defaults to http.DefaultClient.
	Client *http.Client
}

func (e LocalExchanger) Exchange(ctx context.Context, req ExchangeRequest) (*TokenResponse, error) {
	endpoint := req.APIEndpoint
	if endpoint == "" {
		endpoint = defaultAPIEndpoint
	}
	// Discord advertises the endpoint scheme-less ("//discord.com/api").
	if strings.HasPrefix(endpoint, "//") {
		endpoint = "https:" + endpoint
	}
	form := url.Values{
		"grant_type":    {string(req.Grant)},
		"client_id":     {req.ClientID.String()},
		"client_secret": {e.Secret},
	}
	switch req.Grant {
	case GrantAuthorizationCode:
		form.Set("code", req.Code)
	case GrantRefreshToken:
		form.Set("refresh_token", req.RefreshToken)
	default:
		return nil, fmt.Errorf("unknown grant type %q", req.Grant)
	}
	return postForm(ctx, e.Client, endpoint+"/oauth2/token", form)
}

// RemoteExchanger delegates the exchange to a relay service that holds the
// client secret (see internal/relay for the matching server). The request
// never carries a secret.
type RemoteExchanger struct {
	// BaseURL is the relay root, e.g. "https://auth.example.com".
	BaseURL string
	// Client defaults to http.DefaultClient.
	Client *http.Client
}

func (e RemoteExchanger) Exchange(ctx context.Context, req ExchangeRequest) (*TokenResponse, error) {
	base := strings.TrimSuffix(e.BaseURL, "/")
	form := url.Values{"client_id": {req.ClientID.String()}}
	var target string
	switch req.Grant {
	case GrantAuthorizationCode:
		form.Set("code", req.Code)
		target = base + "/token"
	case GrantRefreshToken:
		form.Set("refresh_token", req.RefreshToken)
		target = base + "/refresh"
	default:
		return nil, fmt.Errorf("unknown grant type %q", req.Grant)
	}
	return postForm(ctx, e.Client, target, form)
}

func postForm(ctx context.Context, client *http.Client, target string, form url.Values) (*TokenResponse, error) {
	if client == nil {
		client = http.DefaultClient
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build token request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("token exchange: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("token exchange: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var tok TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	return &tok, nil
}
