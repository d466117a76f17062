package protocol

import (
	"time"

	"github.com/nextlevelbuilder/discordrpc/pkg/discord"
	"github.com/nextlevelbuilder/discordrpc/pkg/oauth"
)

// Argument objects for the command envelopes. Timeout fields are advisory
// values forwarded to the peer; nothing enforces them locally.

type AuthorizeArgs struct {
	Scopes   []oauth.Scope     `json:"scopes"`
	ClientID discord.Snowflake `json:"client_id"`
	RPCToken string            `json:"rpc_token,omitempty"`
}

type AuthenticateArgs struct {
	AccessToken string `json:"access_token"`
}

type GetGuildArgs struct {
	GuildID discord.Snowflake `json:"guild_id"`
	Timeout *uint64           `json:"timeout,omitempty"`
}

type GetChannelsArgs struct {
	GuildID discord.Snowflake `json:"guild_id"`
}

type GetChannelArgs struct {
	ChannelID discord.Snowflake `json:"channel_id"`
}

type SetUserVoiceSettingsArgs struct {
	UserID discord.Snowflake `json:"user_id"`
	Pan    *discord.Pan      `json:"pan,omitempty"`
	Volume *discord.Volume   `json:"volume,omitempty"`
	Mute   *bool             `json:"mute,omitempty"`
}

type SelectVoiceChannelArgs struct {
	ChannelID discord.Snowflake `json:"channel_id"`
	Timeout   *uint64           `json:"timeout,omitempty"`
	Force     *bool             `json:"force,omitempty"`
}

type SelectTextChannelArgs struct {
	ChannelID discord.Snowflake `json:"channel_id"`
	Timeout   *uint64           `json:"timeout,omitempty"`
}

type SetCertifiedDevicesArgs struct {
	Devices []discord.CertifiedDevice `json:"devices"`
}

type SetActivityArgs struct {
	// PID identifies the process the activity belongs to. Callers supply
	// it explicitly (typically os.Getpid()).
	PID      int              `json:"pid"`
	Activity discord.Activity `json:"activity"`
}

type ActivityRequestArgs struct {
	UserID discord.Snowflake `json:"user_id"`
}

// Response bodies for the commands above.

// AuthorizeResponse carries the authorization code the user approved.
type AuthorizeResponse struct {
	Code string `json:"code"`
}

// AuthenticateResponse confirms an access token and describes its grant.
type AuthenticateResponse struct {
	User        discord.PartialUser `json:"user"`
	Scopes      []oauth.Scope       `json:"scopes"`
	Expires     time.Time           `json:"expires"`
	Application discord.Application `json:"application"`
}

type GuildsResponse struct {
	Guilds []discord.PartialGuild `json:"guilds"`
}

type GuildResponse struct {
	ID      discord.Snowflake `json:"id"`
	Name    string            `json:"name"`
	IconURL string            `json:"icon_url"`
}

type ChannelsResponse struct {
	Channels []discord.PartialChannel `json:"channels"`
}

// ServerConfig is the endpoint configuration Discord advertises once during
// the READY handshake; it never changes for the life of the session.
type ServerConfig struct {
	CDNHost     string `json:"cdn_host"`
	APIEndpoint string `json:"api_endpoint"`
	Environment string `json:"environment"`
}
