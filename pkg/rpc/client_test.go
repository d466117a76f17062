package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nextlevelbuilder/discordrpc/pkg/discord"
	"github.com/nextlevelbuilder/discordrpc/pkg/oauth"
	"github.com/nextlevelbuilder/discordrpc/pkg/protocol"
)

const readyPayload = `{"cmd":"DISPATCH","evt":"READY","data":{
	"v":1,
	"config":{"cdn_host":"cdn.discordapp.com","api_endpoint":"//discord.com/api","environment":"production"},
	"user":{"id":"53908232506183680","username":"mason","discriminator":"0"}
}}`

// peer runs a scripted Discord side on the other end of a net.Pipe. Script
// failures surface through the error channel, checked by finish.
type peer struct {
	conn net.Conn
	errc chan error
}

func newPeer(t *testing.T, script func(*peer) error) (DialFunc, *peer) {
	t.Helper()
	client, server := net.Pipe()
	p := &peer{conn: server, errc: make(chan error, 1)}
	go func() {
		p.errc <- script(p)
		server.Close()
	}()
	dial := func(context.Context) (io.ReadWriteCloser, error) { return client, nil }
	return dial, p
}

func (p *peer) finish(t *testing.T) {
	t.Helper()
	select {
	case err := <-p.errc:
		if err != nil {
			t.Fatalf("peer script failed: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("peer script did not finish")
	}
}

// expect reads one frame and checks its opcode.
func (p *peer) expect(op protocol.Opcode) (protocol.Frame, error) {
	frame, err := protocol.ReadFrame(p.conn)
	if err != nil {
		return frame, err
	}
	if frame.Op != op {
		return frame, errors.New("unexpected opcode " + frame.Op.String())
	}
	return frame, nil
}

// expectCmd reads a FRAME and checks the envelope's cmd field.
func (p *peer) expectCmd(cmd string) (json.RawMessage, error) {
	frame, err := p.expect(protocol.OpFrame)
	if err != nil {
		return nil, err
	}
	var env struct {
		Cmd  string          `json:"cmd"`
		Args json.RawMessage `json:"args"`
	}
	if err := json.Unmarshal(frame.Payload, &env); err != nil {
		return nil, err
	}
	if env.Cmd != cmd {
		return nil, errors.New("cmd = " + env.Cmd + ", want " + cmd)
	}
	return env.Args, nil
}

// send writes one frame with a raw JSON payload.
func (p *peer) send(op protocol.Opcode, payload string) error {
	buf, err := protocol.AppendFrame(nil, op, json.RawMessage(payload))
	if err != nil {
		return err
	}
	_, err = p.conn.Write(buf)
	return err
}

// handshake consumes the HANDSHAKE frame and answers READY.
func (p *peer) handshake() error {
	frame, err := p.expect(protocol.OpHandshake)
	if err != nil {
		return err
	}
	var hs protocol.Handshake
	if err := json.Unmarshal(frame.Payload, &hs); err != nil {
		return err
	}
	if hs.V != protocol.ProtocolVersion {
		return errors.New("handshake version mismatch")
	}
	if hs.ClientID == 0 {
		return errors.New("handshake missing client id")
	}
	return p.send(protocol.OpFrame, readyPayload)
}

func TestConnect_Handshake(t *testing.T) {
	dial, p := newPeer(t, func(p *peer) error {
		return p.handshake()
	})

	client, err := New(1045).Dialer(dial).Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()
	p.finish(t)

	if client.User().ID != 53908232506183680 {
		t.Errorf("user id = %d", client.User().ID)
	}
	if client.User().Username != "mason" {
		t.Errorf("username = %q, want mason", client.User().Username)
	}
}

func TestConnect_FirstFrameNotReady(t *testing.T) {
	dial, p := newPeer(t, func(p *peer) error {
		if _, err := p.expect(protocol.OpHandshake); err != nil {
			return err
		}
		return p.send(protocol.OpFrame, `{"cmd":"DISPATCH","evt":"ACTIVITY_JOIN","data":{"secret":"s"}}`)
	})

	_, err := New(1045).Dialer(dial).Connect(context.Background())
	if !errors.Is(err, protocol.ErrUnexpectedEvent) {
		t.Errorf("err = %v, want ErrUnexpectedEvent", err)
	}
	p.finish(t)
}

func TestClient_SetActivity(t *testing.T) {
	dial, p := newPeer(t, func(p *peer) error {
		if err := p.handshake(); err != nil {
			return err
		}
		args, err := p.expectCmd(protocol.CmdSetActivity)
		if err != nil {
			return err
		}
		var sa struct {
			PID      int `json:"pid"`
			Activity struct {
				State string `json:"state"`
			} `json:"activity"`
		}
		if err := json.Unmarshal(args, &sa); err != nil {
			return err
		}
		if sa.PID != 4242 {
			return errors.New("wrong pid")
		}
		if sa.Activity.State != "in a match" {
			return errors.New("wrong state " + sa.Activity.State)
		}
		return p.send(protocol.OpFrame, `{"cmd":"SET_ACTIVITY","data":{"name":"Test App","state":"in a match"},"nonce":"n"}`)
	})

	client, err := New(1045).Dialer(dial).Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()

	set, err := client.SetActivity(context.Background(), 4242, discord.StateActivity("in a match"))
	if err != nil {
		t.Fatalf("SetActivity failed: %v", err)
	}
	p.finish(t)

	if set.Name != "Test App" {
		t.Errorf("echoed name = %q, want Test App", set.Name)
	}
}

func TestClient_EventsBufferedDuringCommand(t *testing.T) {
	dial, p := newPeer(t, func(p *peer) error {
		if err := p.handshake(); err != nil {
			return err
		}
		if _, err := p.expectCmd(protocol.CmdGetGuilds); err != nil {
			return err
		}
		// Two pushes sneak in ahead of the command response.
		if err := p.send(protocol.OpFrame, `{"cmd":"DISPATCH","evt":"SPEAKING_START","data":{"user_id":"1"}}`); err != nil {
			return err
		}
		if err := p.send(protocol.OpFrame, `{"cmd":"DISPATCH","evt":"SPEAKING_STOP","data":{"user_id":"2"}}`); err != nil {
			return err
		}
		return p.send(protocol.OpFrame, `{"cmd":"GET_GUILDS","data":{"guilds":[{"id":"7","name":"g"}]},"nonce":"n"}`)
	})

	client, err := New(1045).Dialer(dial).Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()

	guilds, err := client.GetGuilds(context.Background())
	if err != nil {
		t.Fatalf("GetGuilds failed: %v", err)
	}
	p.finish(t)

	if len(guilds) != 1 || guilds[0].ID != 7 {
		t.Errorf("guilds = %+v", guilds)
	}

	// Buffered events drain in arrival order without touching the pipe.
	ev, err := client.Event(context.Background())
	if err != nil {
		t.Fatalf("Event failed: %v", err)
	}
	if ev.EventName() != protocol.EventSpeakingStart {
		t.Errorf("first event = %s, want SPEAKING_START", ev.EventName())
	}
	ev, err = client.Event(context.Background())
	if err != nil {
		t.Fatalf("Event failed: %v", err)
	}
	if ev.EventName() != protocol.EventSpeakingStop {
		t.Errorf("second event = %s, want SPEAKING_STOP", ev.EventName())
	}
}

func TestClient_ErrorEventAbortsCommand(t *testing.T) {
	dial, p := newPeer(t, func(p *peer) error {
		if err := p.handshake(); err != nil {
			return err
		}
		if _, err := p.expectCmd(protocol.CmdGetGuild); err != nil {
			return err
		}
		return p.send(protocol.OpFrame, `{"cmd":"GET_GUILD","evt":"ERROR","data":{"code":4003,"message":"Unknown guild"},"nonce":"n"}`)
	})

	client, err := New(1045).Dialer(dial).Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()

	_, err = client.GetGuild(context.Background(), 9)
	p.finish(t)

	var discordErr protocol.ErrorEvent
	if !errors.As(err, &discordErr) {
		t.Fatalf("err = %v, want ErrorEvent", err)
	}
	if discordErr.Code != 4003 {
		t.Errorf("code = %d, want 4003", discordErr.Code)
	}
}

func TestClient_CloseFrame(t *testing.T) {
	dial, p := newPeer(t, func(p *peer) error {
		if err := p.handshake(); err != nil {
			return err
		}
		return p.send(protocol.OpClose, `{"code":1000,"message":"bye"}`)
	})

	client, err := New(1045).Dialer(dial).Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()

	_, err = client.Event(context.Background())
	p.finish(t)
	if !errors.Is(err, protocol.ErrPipeClosed) {
		t.Errorf("err = %v, want ErrPipeClosed", err)
	}
}

func TestClient_PingUnsupported(t *testing.T) {
	dial, p := newPeer(t, func(p *peer) error {
		if err := p.handshake(); err != nil {
			return err
		}
		return p.send(protocol.OpPing, `{}`)
	})

	client, err := New(1045).Dialer(dial).Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()

	_, err = client.Event(context.Background())
	p.finish(t)

	var unsupported *protocol.UnsupportedOpcodeError
	if !errors.As(err, &unsupported) {
		t.Fatalf("err = %v, want UnsupportedOpcodeError", err)
	}
	if unsupported.Op != protocol.OpPing {
		t.Errorf("op = %v, want PING", unsupported.Op)
	}
}

func TestClient_GetSelectedVoiceChannelNull(t *testing.T) {
	dial, p := newPeer(t, func(p *peer) error {
		if err := p.handshake(); err != nil {
			return err
		}
		if _, err := p.expectCmd(protocol.CmdGetSelectedVoiceChannel); err != nil {
			return err
		}
		return p.send(protocol.OpFrame, `{"cmd":"GET_SELECTED_VOICE_CHANNEL","data":null,"nonce":"n"}`)
	})

	client, err := New(1045).Dialer(dial).Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()

	ch, err := client.GetSelectedVoiceChannel(context.Background())
	if err != nil {
		t.Fatalf("GetSelectedVoiceChannel failed: %v", err)
	}
	p.finish(t)
	if ch != nil {
		t.Errorf("channel = %+v, want nil when not in voice", ch)
	}
}

func TestConnect_AuthorizeFlow(t *testing.T) {
	tokens := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.PostForm.Get("code") != "grantcode" {
			t.Errorf("code = %q, want grantcode", r.PostForm.Get("code"))
		}
		if r.PostForm.Get("client_secret") != "s3cret" {
			t.Errorf("client_secret = %q", r.PostForm.Get("client_secret"))
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "acc",
			"token_type":    "Bearer",
			"expires_in":    604800,
			"refresh_token": "ref",
			"scope":         "rpc",
		})
	}))
	defer tokens.Close()

	// READY advertises the test server as the API endpoint; the exchanger
	// appends /oauth2/token to it.
	ready := `{"cmd":"DISPATCH","evt":"READY","data":{
		"v":1,
		"config":{"cdn_host":"c","api_endpoint":"` + tokens.URL + `","environment":"production"},
		"user":{"id":"53908232506183680","username":"mason","discriminator":"0"}
	}}`

	dial, p := newPeer(t, func(p *peer) error {
		if _, err := p.expect(protocol.OpHandshake); err != nil {
			return err
		}
		if err := p.send(protocol.OpFrame, ready); err != nil {
			return err
		}
		args, err := p.expectCmd(protocol.CmdAuthorize)
		if err != nil {
			return err
		}
		var auth protocol.AuthorizeArgs
		if err := json.Unmarshal(args, &auth); err != nil {
			return err
		}
		if len(auth.Scopes) != 2 {
			return errors.New("want rpc plus one extra scope")
		}
		if err := p.send(protocol.OpFrame, `{"cmd":"AUTHORIZE","data":{"code":"grantcode"},"nonce":"n"}`); err != nil {
			return err
		}
		args, err = p.expectCmd(protocol.CmdAuthenticate)
		if err != nil {
			return err
		}
		if !strings.Contains(string(args), `"access_token":"acc"`) {
			return errors.New("bad authenticate args: " + string(args))
		}
		return p.send(protocol.OpFrame, `{"cmd":"AUTHENTICATE","data":{
			"user":{"id":"53908232506183680","username":"mason","discriminator":"0"},
			"scopes":["rpc","rpc.voice.read"],
			"expires":"2026-09-02T00:00:00Z",
			"application":{"id":"1045","name":"Test App"}
		},"nonce":"n"}`)
	})

	client, err := New(1045).
		Secret("s3cret").
		Scope(oauth.ScopeRPCVoiceRead).
		Dialer(dial).
		Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()
	p.finish(t)
}

func TestConnect_ResumeWithStoredToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("stored-ref"), 0o600); err != nil {
		t.Fatal(err)
	}

	tokens := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.PostForm.Get("grant_type") != "refresh_token" {
			t.Errorf("grant_type = %q, want refresh_token", r.PostForm.Get("grant_type"))
		}
		if r.PostForm.Get("refresh_token") != "stored-ref" {
			t.Errorf("refresh_token = %q, want stored-ref", r.PostForm.Get("refresh_token"))
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "acc-resumed",
			"token_type":    "Bearer",
			"expires_in":    604800,
			"refresh_token": "ref-next",
			"scope":         "rpc",
		})
	}))
	defer tokens.Close()

	ready := `{"cmd":"DISPATCH","evt":"READY","data":{
		"v":1,
		"config":{"cdn_host":"c","api_endpoint":"` + tokens.URL + `","environment":"production"},
		"user":{"id":"53908232506183680","username":"mason","discriminator":"0"}
	}}`

	// With a stored refresh token the session goes straight to
	// AUTHENTICATE; an AUTHORIZE here would fail the script.
	dial, p := newPeer(t, func(p *peer) error {
		if _, err := p.expect(protocol.OpHandshake); err != nil {
			return err
		}
		if err := p.send(protocol.OpFrame, ready); err != nil {
			return err
		}
		args, err := p.expectCmd(protocol.CmdAuthenticate)
		if err != nil {
			return err
		}
		if !strings.Contains(string(args), `"access_token":"acc-resumed"`) {
			return errors.New("bad authenticate args: " + string(args))
		}
		return p.send(protocol.OpFrame, `{"cmd":"AUTHENTICATE","data":{
			"user":{"id":"53908232506183680","username":"mason","discriminator":"0"},
			"scopes":["rpc"],
			"expires":"2026-09-02T00:00:00Z",
			"application":{"id":"1045","name":"Test App"}
		},"nonce":"n"}`)
	})

	client, err := New(1045).
		Secret("s3cret").
		SaveToken(oauth.FileSaver{Path: path}).
		Dialer(dial).
		Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()
	p.finish(t)

	stored, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved token: %v", err)
	}
	if string(stored) != "ref-next" {
		t.Errorf("stored refresh token = %q, want ref-next", stored)
	}
}

func TestConnect_RefreshFailureFallsBackToAuthorize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("stale-ref"), 0o600); err != nil {
		t.Fatal(err)
	}

	var grants []string
	tokens := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		grant := r.PostForm.Get("grant_type")
		grants = append(grants, grant)
		switch grant {
		case "refresh_token":
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
		case "authorization_code":
			if r.PostForm.Get("code") != "grantcode" {
				t.Errorf("code = %q, want grantcode", r.PostForm.Get("code"))
			}
			json.NewEncoder(w).Encode(map[string]any{
				"access_token":  "acc-fresh",
				"token_type":    "Bearer",
				"expires_in":    604800,
				"refresh_token": "ref-fresh",
				"scope":         "rpc",
			})
		default:
			t.Errorf("grant_type = %q", grant)
		}
	}))
	defer tokens.Close()

	ready := `{"cmd":"DISPATCH","evt":"READY","data":{
		"v":1,
		"config":{"cdn_host":"c","api_endpoint":"` + tokens.URL + `","environment":"production"},
		"user":{"id":"53908232506183680","username":"mason","discriminator":"0"}
	}}`

	// The stored refresh token is rejected upstream, so after READY the
	// session must fall back to the full authorize flow.
	dial, p := newPeer(t, func(p *peer) error {
		if _, err := p.expect(protocol.OpHandshake); err != nil {
			return err
		}
		if err := p.send(protocol.OpFrame, ready); err != nil {
			return err
		}
		if _, err := p.expectCmd(protocol.CmdAuthorize); err != nil {
			return err
		}
		if err := p.send(protocol.OpFrame, `{"cmd":"AUTHORIZE","data":{"code":"grantcode"},"nonce":"n"}`); err != nil {
			return err
		}
		args, err := p.expectCmd(protocol.CmdAuthenticate)
		if err != nil {
			return err
		}
		if !strings.Contains(string(args), `"access_token":"acc-fresh"`) {
			return errors.New("bad authenticate args: " + string(args))
		}
		return p.send(protocol.OpFrame, `{"cmd":"AUTHENTICATE","data":{
			"user":{"id":"53908232506183680","username":"mason","discriminator":"0"},
			"scopes":["rpc"],
			"expires":"2026-09-02T00:00:00Z",
			"application":{"id":"1045","name":"Test App"}
		},"nonce":"n"}`)
	})

	client, err := New(1045).
		Secret("s3cret").
		SaveToken(oauth.FileSaver{Path: path}).
		Dialer(dial).
		Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()
	p.finish(t)

	if len(grants) != 2 || grants[0] != "refresh_token" || grants[1] != "authorization_code" {
		t.Errorf("grants = %v, want [refresh_token authorization_code]", grants)
	}
	stored, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved token: %v", err)
	}
	if string(stored) != "ref-fresh" {
		t.Errorf("stored refresh token = %q, want ref-fresh", stored)
	}
}

// staticTokenTransport serves a canned token response without touching the
// network, counting the exchanges it handled.
type staticTokenTransport struct{ calls int }

func (tr *staticTokenTransport) RoundTrip(*http.Request) (*http.Response, error) {
	tr.calls++
	body := `{"access_token":"acc","token_type":"Bearer","expires_in":604800,"refresh_token":"ref","scope":"rpc"}`
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     make(http.Header),
		Body:       io.NopCloser(strings.NewReader(body)),
	}, nil
}

func TestBuilder_HTTPClientAfterSecret(t *testing.T) {
	dial, p := newPeer(t, func(p *peer) error {
		if err := p.handshake(); err != nil {
			return err
		}
		if _, err := p.expectCmd(protocol.CmdAuthorize); err != nil {
			return err
		}
		if err := p.send(protocol.OpFrame, `{"cmd":"AUTHORIZE","data":{"code":"grantcode"},"nonce":"n"}`); err != nil {
			return err
		}
		args, err := p.expectCmd(protocol.CmdAuthenticate)
		if err != nil {
			return err
		}
		if !strings.Contains(string(args), `"access_token":"acc"`) {
			return errors.New("bad authenticate args: " + string(args))
		}
		return p.send(protocol.OpFrame, `{"cmd":"AUTHENTICATE","data":{
			"user":{"id":"53908232506183680","username":"mason","discriminator":"0"},
			"scopes":["rpc"],
			"expires":"2026-09-02T00:00:00Z",
			"application":{"id":"1045","name":"Test App"}
		},"nonce":"n"}`)
	})

	// HTTPClient set after Secret must still be the client that performs
	// the exchange; the transport never reaches the network.
	transport := &staticTokenTransport{}
	client, err := New(1045).
		Secret("s3cret").
		HTTPClient(&http.Client{Transport: transport}).
		Dialer(dial).
		Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()
	p.finish(t)

	if transport.calls != 1 {
		t.Errorf("exchanges via override = %d, want 1", transport.calls)
	}
}

func TestClient_Subscribe(t *testing.T) {
	dial, p := newPeer(t, func(p *peer) error {
		if err := p.handshake(); err != nil {
			return err
		}
		frame, err := p.expect(protocol.OpFrame)
		if err != nil {
			return err
		}
		if !strings.Contains(string(frame.Payload), `"cmd":"SUBSCRIBE"`) ||
			!strings.Contains(string(frame.Payload), `"evt":"MESSAGE_CREATE"`) {
			return errors.New("bad subscribe payload: " + string(frame.Payload))
		}
		return p.send(protocol.OpFrame, `{"cmd":"SUBSCRIBE","data":{"evt":"MESSAGE_CREATE"},"nonce":"n"}`)
	})

	client, err := New(1045).Dialer(dial).Connect(context.Background())
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()

	if err := client.Subscribe(context.Background(), protocol.SubMessageCreate(1017)); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	p.finish(t)
}
