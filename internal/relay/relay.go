// Package relay implements the remote-secret token service. It holds the
// OAuth client secret so that distributed app binaries never embed it:
// clients send authorization codes or refresh tokens here, the relay adds
// the secret and forwards the exchange to Discord.
package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nextlevelbuilder/discordrpc/pkg/discord"
	"github.com/nextlevelbuilder/discordrpc/pkg/oauth"
)

const defaultTokenURL = "https://discord.com/api/oauth2/token"

// Config holds the relay's credentials and policy.
type Config struct {
	// Addr is the listen address, e.g. ":8000".
	Addr string
	// ClientID is the only application this relay exchanges tokens for.
	ClientID discord.Snowflake
	// ClientSecret is added to every upstream exchange.
	ClientSecret string
	// AllowedScopes limits what the exchanged tokens may carry. A token
	// that comes back with any scope outside this list is rejected.
	AllowedScopes []oauth.Scope
	// TokenURL overrides the upstream token endpoint, for tests.
	TokenURL string
	// Client defaults to http.DefaultClient.
	Client *http.Client
}

// Server exchanges authorization codes and refresh tokens on behalf of
// clients that do not hold the secret.
type Server struct {
	cfg    Config
	client *http.Client

	mu      sync.RWMutex
	allowed map[oauth.Scope]bool
}

// New builds a relay server from cfg.
func New(cfg Config) *Server {
	if cfg.TokenURL == "" {
		cfg.TokenURL = defaultTokenURL
	}
	client := cfg.Client
	if client == nil {
		client = http.DefaultClient
	}
	s := &Server{cfg: cfg, client: client}
	s.SetAllowedScopes(cfg.AllowedScopes)
	return s
}

// SetAllowedScopes replaces the scope allow-list; safe to call while
// serving, so config reloads take effect without a restart.
func (s *Server) SetAllowedScopes(scopes []oauth.Scope) {
	allowed := make(map[oauth.Scope]bool, len(scopes))
	for _, sc := range scopes {
		allowed[sc] = true
	}
	s.mu.Lock()
	s.allowed = allowed
	s.mu.Unlock()
}

func (s *Server) scopeAllowed(scope oauth.Scope) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.allowed[scope]
}

// Handler returns the relay's route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", s.handleToken)
	mux.HandleFunc("/refresh", s.handleRefresh)
	return mux
}

// Run serves until ctx is cancelled, then drains in-flight exchanges.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.cfg.Addr, Handler: s.Handler()}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("relay listening", "addr", s.cfg.Addr, "client_id", s.cfg.ClientID)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	form, ok := s.parseRequest(w, r)
	if !ok {
		return
	}
	code := form.Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "code is required")
		return
	}
	s.exchange(w, r, url.Values{
		"grant_type": {string(oauth.GrantAuthorizationCode)},
		"code":       {code},
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	form, ok := s.parseRequest(w, r)
	if !ok {
		return
	}
	refreshToken := form.Get("refresh_token")
	if refreshToken == "" {
		writeError(w, http.StatusBadRequest, "refresh_token is required")
		return
	}
	s.exchange(w, r, url.Values{
		"grant_type":    {string(oauth.GrantRefreshToken)},
		"refresh_token": {refreshToken},
	})
}

// parseRequest validates the method and the caller's client id. Every
// request must name the id this relay is configured for; the secret is
// never accepted from the wire.
func (s *Server) parseRequest(w http.ResponseWriter, r *http.Request) (url.Values, bool) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return nil, false
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form data")
		return nil, false
	}
	if r.PostForm.Get("client_id") != s.cfg.ClientID.String() {
		writeError(w, http.StatusBadRequest, "invalid client id")
		return nil, false
	}
	return r.PostForm, true
}

// exchange forwards the grant to the upstream token endpoint with the
// secret attached, then enforces the scope allow-list on the result.
func (s *Server) exchange(w http.ResponseWriter, r *http.Request, form url.Values) {
	form.Set("client_id", s.cfg.ClientID.String())
	form.Set("client_secret", s.cfg.ClientSecret)

	req, err := http.NewRequestWithContext(r.Context(), http.MethodPost, s.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "build upstream request: "+err.Error())
		return
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Warn("upstream exchange failed", "error", err)
		writeError(w, http.StatusInternalServerError, "discord error: "+err.Error())
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		slog.Warn("upstream exchange rejected", "status", resp.Status)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("discord error: %s: %s", resp.Status, strings.TrimSpace(string(body))))
		return
	}

	var tok oauth.TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		writeError(w, http.StatusInternalServerError, "decode upstream response: "+err.Error())
		return
	}

	for _, scope := range strings.Fields(tok.Scope) {
		if !s.scopeAllowed(oauth.Scope(scope)) {
			slog.Warn("disallowed scope in exchanged token", "scope", scope)
			writeError(w, http.StatusBadRequest, "disallowed scope: "+scope)
			return
		}
	}

	slog.Info("token exchanged", "grant", form.Get("grant_type"), "scope", tok.Scope)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(tok)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
