// Package rpc implements the client session for Discord's local RPC
// transport: the connect handshake, command dispatch with in-order response
// correlation, push-event buffering and the authentication/refresh flow that
// runs interleaved with ordinary traffic.
package rpc

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/nextlevelbuilder/discordrpc/pkg/discord"
	"github.com/nextlevelbuilder/discordrpc/pkg/oauth"
	"github.com/nextlevelbuilder/discordrpc/pkg/protocol"
)

// Session owns one connected byte channel and sequences all traffic on it.
// The protocol has no multiplexing: one command is in flight at a time and
// its response is the next non-event message on the stream. Callers must not
// invoke two Session operations concurrently; that discipline is not
// enforced internally and violating it garbles the frame stream.
type Session struct {
	clientID discord.Snowflake
	conn     io.ReadWriteCloser

	// buf is the reused encode buffer; AppendFrame backfills the length
	// field on every send.
	buf []byte

	// queue holds events that arrived while a command response was
	// awaited. It is unbounded by design — the protocol has no flow
	// control, so capping it would drop or stall pushes. Order is
	// preserved.
	queue []protocol.Event

	cred   *oauth.Credential
	config protocol.ServerConfig
}

// connect runs the handshake on an already-dialed channel. The first frame
// from the peer must classify as READY; anything else aborts setup. When a
// secret is configured the session authenticates (or refreshes) before
// returning, so callers always receive a ready-to-use session.
func connect(ctx context.Context, b *Builder, conn io.ReadWriteCloser) (*Session, discord.PartialUser, error) {
	s := &Session{clientID: b.clientID, conn: conn}

	err := s.sendMessage(protocol.OpHandshake, protocol.Handshake{
		V:        protocol.ProtocolVersion,
		ClientID: s.clientID,
	})
	if err != nil {
		return nil, discord.PartialUser{}, err
	}

	ev, err := s.recv(nil)
	if err != nil {
		return nil, discord.PartialUser{}, err
	}
	ready, ok := ev.(protocol.Ready)
	if !ok {
		return nil, discord.PartialUser{}, protocol.ErrUnexpectedEvent
	}
	s.config = ready.Config

	if exchanger := b.newExchanger(); exchanger != nil {
		cred := oauth.NewCredential(exchanger, b.saver, b.scopes)
		hadStored := cred.LoadStored(ctx)
		s.cred = cred
		if hadStored {
			if err := s.refreshAuth(ctx); err != nil {
				slog.Debug("token refresh failed, falling back to authorize", "error", err)
				if err := s.authenticate(ctx); err != nil {
					return nil, discord.PartialUser{}, err
				}
			}
		} else if err := s.authenticate(ctx); err != nil {
			return nil, discord.PartialUser{}, err
		}
	}

	return s, ready.User, nil
}

// sendMessage encodes v into a single frame and writes it out.
func (s *Session) sendMessage(op protocol.Opcode, v any) error {
	buf, err := protocol.AppendFrame(s.buf[:0], op, v)
	if err != nil {
		return err
	}
	s.buf = buf
	slog.Debug("rpc send", "opcode", op, "payload", string(buf[8:]))
	if _, err := s.conn.Write(buf); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// sendCommand runs the refresh check, then sends one command envelope.
func (s *Session) sendCommand(ctx context.Context, cmd string, args any) error {
	if err := s.refreshAuth(ctx); err != nil {
		return err
	}
	return s.sendMessage(protocol.OpFrame, protocol.NewCommand(cmd, args))
}

// recv reads one frame and classifies it. For a message frame it returns
// either a push event (non-nil Event) or fills out with the command
// response (nil, nil). CLOSE drains the payload and reports ErrPipeClosed;
// PING/PONG are recognized but unsupported.
func (s *Session) recv(out any) (protocol.Event, error) {
	frame, err := protocol.ReadFrame(s.conn)
	if err != nil {
		return nil, err
	}
	switch frame.Op {
	case protocol.OpFrame:
		slog.Debug("rpc recv", "payload", string(frame.Payload))
		return protocol.Classify(frame.Payload, out)
	case protocol.OpClose:
		slog.Debug("rpc close", "payload", string(frame.Payload))
		return nil, protocol.ErrPipeClosed
	case protocol.OpPing, protocol.OpPong:
		return nil, &protocol.UnsupportedOpcodeError{Op: frame.Op}
	default:
		return nil, protocol.ErrPipeClosed
	}
}

// response reads until the in-flight command's reply arrives, queueing any
// events that show up first. An ERROR event aborts the command with the
// peer's error instead of being queued.
func (s *Session) response(out any) error {
	for {
		ev, err := s.recv(out)
		if err != nil {
			return err
		}
		if ev == nil {
			return nil
		}
		switch e := ev.(type) {
		case protocol.ErrorEvent:
			return e
		case protocol.Ready:
			return protocol.ErrUnexpectedEvent
		default:
			s.queue = append(s.queue, ev)
		}
	}
}

// event returns the next push event: buffered ones first, in arrival order,
// then a blocking read. A command response here is a protocol-ordering
// violation.
func (s *Session) event(ctx context.Context) (protocol.Event, error) {
	if err := s.refreshAuth(ctx); err != nil {
		return nil, err
	}
	if len(s.queue) > 0 {
		ev := s.queue[0]
		s.queue = s.queue[1:]
		return ev, nil
	}
	ev, err := s.recv(nil)
	if err != nil {
		return nil, err
	}
	switch e := ev.(type) {
	case nil:
		return nil, protocol.ErrUnexpectedResponse
	case protocol.ErrorEvent:
		return nil, e
	case protocol.Ready:
		return nil, protocol.ErrUnexpectedEvent
	default:
		return ev, nil
	}
}

// authenticate runs the full authorization flow: AUTHORIZE for a code, code
// exchange via the configured strategy, then AUTHENTICATE with the access
// token.
func (s *Session) authenticate(ctx context.Context) error {
	if s.cred == nil {
		return nil
	}
	err := s.sendMessage(protocol.OpFrame, protocol.NewCommand(protocol.CmdAuthorize, protocol.AuthorizeArgs{
		Scopes:   s.cred.Scopes(),
		ClientID: s.clientID,
	}))
	if err != nil {
		return err
	}
	var auth protocol.AuthorizeResponse
	if err := s.response(&auth); err != nil {
		return err
	}
	accessToken, err := s.cred.ExchangeCode(ctx, s.clientID, s.config.APIEndpoint, auth.Code)
	if err != nil {
		return err
	}
	return s.sendAuthenticate(accessToken)
}

// refreshAuth performs the lazy expiry check before any outbound traffic.
// When the access token lapsed it refreshes and re-authenticates, draining
// interleaved events into the queue, before anything else is sent.
func (s *Session) refreshAuth(ctx context.Context) error {
	if s.cred == nil {
		return nil
	}
	accessToken, err := s.cred.Refresh(ctx, s.clientID, s.config.APIEndpoint)
	if err != nil {
		return err
	}
	if accessToken == "" {
		return nil
	}
	return s.sendAuthenticate(accessToken)
}

// sendAuthenticate submits AUTHENTICATE and waits for its acknowledgement.
func (s *Session) sendAuthenticate(accessToken string) error {
	err := s.sendMessage(protocol.OpFrame, protocol.NewCommand(protocol.CmdAuthenticate, protocol.AuthenticateArgs{
		AccessToken: accessToken,
	}))
	if err != nil {
		return err
	}
	var res protocol.AuthenticateResponse
	return s.response(&res)
}

// Close closes the underlying channel. Any blocked read fails with the
// channel's error.
func (s *Session) Close() error {
	return s.conn.Close()
}
