package rpc

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/nextlevelbuilder/discordrpc/internal/platform"
	"github.com/nextlevelbuilder/discordrpc/pkg/discord"
	"github.com/nextlevelbuilder/discordrpc/pkg/oauth"
	"github.com/nextlevelbuilder/discordrpc/pkg/protocol"
)

// DialFunc opens the duplex byte channel to the local Discord client. The
// default resolves the platform socket (unix domain socket or named pipe);
// tests substitute an in-memory pipe.
type DialFunc func(ctx context.Context) (io.ReadWriteCloser, error)

// Builder assembles a Client. Chain the setters, then call Connect; setter
// order does not matter.
type Builder struct {
	clientID   discord.Snowflake
	scopes     []oauth.Scope
	secret     string
	relayURL   string
	saver      oauth.TokenSaver
	dial       DialFunc
	httpClient *http.Client
}

// New starts a builder for the given application client id. The "rpc" scope
// is always requested; add more with Scope.
func New(clientID discord.Snowflake) *Builder {
	return &Builder{
		clientID: clientID,
		scopes:   []oauth.Scope{oauth.ScopeRPC},
		saver:    oauth.NopSaver{},
		dial:     platform.Dial,
	}
}

// Secret configures a locally held client secret; token exchanges go
// straight to the Discord API.
func (b *Builder) Secret(secret string) *Builder {
	b.secret = secret
	return b
}

// RemoteSecret configures a relay service that holds the client secret and
// performs exchanges on this app's behalf. baseURL is the relay root. A
// relay takes precedence over a local secret.
func (b *Builder) RemoteSecret(baseURL string) *Builder {
	b.relayURL = baseURL
	return b
}

// Scope adds an OAuth scope to request during authorization.
func (b *Builder) Scope(scope oauth.Scope) *Builder {
	b.scopes = append(b.scopes, scope)
	return b
}

// SaveToken installs a persistence hook for the refresh token. Without one,
// every run performs a full authorize.
func (b *Builder) SaveToken(saver oauth.TokenSaver) *Builder {
	b.saver = saver
	return b
}

// HTTPClient overrides the client used for token exchanges.
func (b *Builder) HTTPClient(c *http.Client) *Builder {
	b.httpClient = c
	return b
}

// Dialer overrides how the byte channel is opened.
func (b *Builder) Dialer(dial DialFunc) *Builder {
	b.dial = dial
	return b
}

// newExchanger resolves the exchange strategy at connect time, so the
// HTTPClient override applies regardless of setter order.
func (b *Builder) newExchanger() oauth.Exchanger {
	switch {
	case b.relayURL != "":
		return oauth.RemoteExchanger{BaseURL: b.relayURL, Client: b.httpClient}
	case b.secret != "":
		return oauth.LocalExchanger{Secret: b.secret, Client: b.httpClient}
	default:
		return nil
	}
}

// Connect opens the platform channel, performs the handshake and, when a
// secret is configured, authenticates before returning.
func (b *Builder) Connect(ctx context.Context) (*Client, error) {
	conn, err := b.dial(ctx)
	if err != nil {
		return nil, fmt.Errorf("dial discord: %w", err)
	}
	session, user, err := connect(ctx, b, conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return &Client{session: session, user: user}, nil
}

// Client is the façade over a connected session. Its methods are thin typed
// wrappers around the session primitives and must not be called
// concurrently.
type Client struct {
	session *Session
	user    discord.PartialUser
}

// User returns the user Discord reported during the handshake.
func (c *Client) User() discord.PartialUser { return c.user }

// Close tears down the connection.
func (c *Client) Close() error { return c.session.Close() }

// SetActivity publishes a rich-presence activity for the given process id
// and returns the activity as Discord recorded it. Pass os.Getpid() unless
// the activity belongs to another process.
func (c *Client) SetActivity(ctx context.Context, pid int, activity discord.Activity) (*discord.Activity, error) {
	err := c.session.sendCommand(ctx, protocol.CmdSetActivity, protocol.SetActivityArgs{
		PID:      pid,
		Activity: activity,
	})
	if err != nil {
		return nil, err
	}
	var res discord.Activity
	if err := c.session.response(&res); err != nil {
		return nil, err
	}
	return &res, nil
}

// GetSelectedVoiceChannel returns the voice channel the user is currently
// in, or nil when not in one.
func (c *Client) GetSelectedVoiceChannel(ctx context.Context) (*discord.Channel, error) {
	if err := c.session.sendCommand(ctx, protocol.CmdGetSelectedVoiceChannel, struct{}{}); err != nil {
		return nil, err
	}
	var res *discord.Channel
	if err := c.session.response(&res); err != nil {
		return nil, err
	}
	return res, nil
}

// GetGuilds lists the guilds the user belongs to.
func (c *Client) GetGuilds(ctx context.Context) ([]discord.PartialGuild, error) {
	if err := c.session.sendCommand(ctx, protocol.CmdGetGuilds, struct{}{}); err != nil {
		return nil, err
	}
	var res protocol.GuildsResponse
	if err := c.session.response(&res); err != nil {
		return nil, err
	}
	return res.Guilds, nil
}

// GetGuild fetches one guild.
func (c *Client) GetGuild(ctx context.Context, guildID discord.Snowflake) (*protocol.GuildResponse, error) {
	if err := c.session.sendCommand(ctx, protocol.CmdGetGuild, protocol.GetGuildArgs{GuildID: guildID}); err != nil {
		return nil, err
	}
	var res protocol.GuildResponse
	if err := c.session.response(&res); err != nil {
		return nil, err
	}
	return &res, nil
}

// GetChannels lists the channels of a guild.
func (c *Client) GetChannels(ctx context.Context, guildID discord.Snowflake) ([]discord.PartialChannel, error) {
	if err := c.session.sendCommand(ctx, protocol.CmdGetChannels, protocol.GetChannelsArgs{GuildID: guildID}); err != nil {
		return nil, err
	}
	var res protocol.ChannelsResponse
	if err := c.session.response(&res); err != nil {
		return nil, err
	}
	return res.Channels, nil
}

// GetChannel fetches one channel.
func (c *Client) GetChannel(ctx context.Context, channelID discord.Snowflake) (*discord.Channel, error) {
	if err := c.session.sendCommand(ctx, protocol.CmdGetChannel, protocol.GetChannelArgs{ChannelID: channelID}); err != nil {
		return nil, err
	}
	var res discord.Channel
	if err := c.session.response(&res); err != nil {
		return nil, err
	}
	return &res, nil
}

// SelectVoiceChannel joins the given voice channel.
func (c *Client) SelectVoiceChannel(ctx context.Context, args protocol.SelectVoiceChannelArgs) (*discord.Channel, error) {
	if err := c.session.sendCommand(ctx, protocol.CmdSelectVoiceChannel, args); err != nil {
		return nil, err
	}
	var res *discord.Channel
	if err := c.session.response(&res); err != nil {
		return nil, err
	}
	return res, nil
}

// SelectTextChannel opens the given text channel in the Discord client.
func (c *Client) SelectTextChannel(ctx context.Context, args protocol.SelectTextChannelArgs) (*discord.Channel, error) {
	if err := c.session.sendCommand(ctx, protocol.CmdSelectTextChannel, args); err != nil {
		return nil, err
	}
	var res *discord.Channel
	if err := c.session.response(&res); err != nil {
		return nil, err
	}
	return res, nil
}

// GetVoiceSettings reads the user's voice configuration.
func (c *Client) GetVoiceSettings(ctx context.Context) (*discord.VoiceSettings, error) {
	if err := c.session.sendCommand(ctx, protocol.CmdGetVoiceSettings, struct{}{}); err != nil {
		return nil, err
	}
	var res discord.VoiceSettings
	if err := c.session.response(&res); err != nil {
		return nil, err
	}
	return &res, nil
}

// SetVoiceSettings updates the user's voice configuration; nil fields are
// left unchanged. Requires the rpc.voice.write scope.
func (c *Client) SetVoiceSettings(ctx context.Context, settings discord.VoiceSettings) (*discord.VoiceSettings, error) {
	if err := c.session.sendCommand(ctx, protocol.CmdSetVoiceSettings, settings); err != nil {
		return nil, err
	}
	var res discord.VoiceSettings
	if err := c.session.response(&res); err != nil {
		return nil, err
	}
	return &res, nil
}

// SetUserVoiceSettings adjusts pan, volume or mute for another user.
func (c *Client) SetUserVoiceSettings(ctx context.Context, args protocol.SetUserVoiceSettingsArgs) error {
	if err := c.session.sendCommand(ctx, protocol.CmdSetUserVoiceSettings, args); err != nil {
		return err
	}
	var res protocol.SetUserVoiceSettingsArgs
	return c.session.response(&res)
}

// SetCertifiedDevices reports the hardware in use to Discord.
func (c *Client) SetCertifiedDevices(ctx context.Context, devices []discord.CertifiedDevice) error {
	err := c.session.sendCommand(ctx, protocol.CmdSetCertifiedDevices, protocol.SetCertifiedDevicesArgs{Devices: devices})
	if err != nil {
		return err
	}
	var res struct{}
	return c.session.response(&res)
}

// SendActivityJoinInvite accepts a pending join request from userID.
func (c *Client) SendActivityJoinInvite(ctx context.Context, userID discord.Snowflake) error {
	err := c.session.sendCommand(ctx, protocol.CmdSendActivityJoinInvite, protocol.ActivityRequestArgs{UserID: userID})
	if err != nil {
		return err
	}
	var res struct{}
	return c.session.response(&res)
}

// CloseActivityRequest rejects a pending join request from userID.
func (c *Client) CloseActivityRequest(ctx context.Context, userID discord.Snowflake) error {
	err := c.session.sendCommand(ctx, protocol.CmdCloseActivityRequest, protocol.ActivityRequestArgs{UserID: userID})
	if err != nil {
		return err
	}
	var res struct{}
	return c.session.response(&res)
}

// Subscribe registers for a push event; wait for deliveries with Event.
func (c *Client) Subscribe(ctx context.Context, sub protocol.Subscription) error {
	if err := c.session.refreshAuth(ctx); err != nil {
		return err
	}
	if err := c.session.sendMessage(protocol.OpFrame, protocol.NewSubscribe(sub)); err != nil {
		return err
	}
	var res struct{}
	return c.session.response(&res)
}

// Unsubscribe cancels a previous Subscribe for the same event and args.
func (c *Client) Unsubscribe(ctx context.Context, sub protocol.Subscription) error {
	if err := c.session.refreshAuth(ctx); err != nil {
		return err
	}
	if err := c.session.sendMessage(protocol.OpFrame, protocol.NewUnsubscribe(sub)); err != nil {
		return err
	}
	var res struct{}
	return c.session.response(&res)
}

// Event blocks until the next push event arrives, draining any events that
// were buffered while command responses were awaited, in arrival order.
func (c *Client) Event(ctx context.Context) (protocol.Event, error) {
	return c.session.event(ctx)
}
