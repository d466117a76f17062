package protocol

import (
	"github.com/google/uuid"

	"github.com/nextlevelbuilder/discordrpc/pkg/discord"
)

// ProtocolVersion is sent in the handshake frame. Discord only speaks v1.
const ProtocolVersion = 1

// Handshake is the payload of the initial OpHandshake frame.
type Handshake struct {
	V        int               `json:"v"`
	ClientID discord.Snowflake `json:"client_id"`
}

// Command names. Discord identifies RPC commands by SCREAMING_SNAKE_CASE
// strings in the envelope's cmd field.
const (
	CmdDispatch                = "DISPATCH"
	CmdAuthorize               = "AUTHORIZE"
	CmdAuthenticate            = "AUTHENTICATE"
	CmdSubscribe               = "SUBSCRIBE"
	CmdUnsubscribe             = "UNSUBSCRIBE"
	CmdGetGuilds               = "GET_GUILDS"
	CmdGetGuild                = "GET_GUILD"
	CmdGetChannels             = "GET_CHANNELS"
	CmdGetChannel              = "GET_CHANNEL"
	CmdSetUserVoiceSettings    = "SET_USER_VOICE_SETTINGS"
	CmdSelectVoiceChannel      = "SELECT_VOICE_CHANNEL"
	CmdGetSelectedVoiceChannel = "GET_SELECTED_VOICE_CHANNEL"
	CmdSelectTextChannel       = "SELECT_TEXT_CHANNEL"
	CmdGetVoiceSettings        = "GET_VOICE_SETTINGS"
	CmdSetVoiceSettings        = "SET_VOICE_SETTINGS"
	CmdSetCertifiedDevices     = "SET_CERTIFIED_DEVICES"
	CmdSetActivity             = "SET_ACTIVITY"
	CmdSendActivityJoinInvite  = "SEND_ACTIVITY_JOIN_INVITE"
	CmdCloseActivityRequest    = "CLOSE_ACTIVITY_REQUEST"
)

// CommandEnvelope is the outbound JSON object wrapping one command. Every
// envelope carries a nonce, but responses are correlated by stream order,
// not by the nonce — the protocol allows a single in-flight command.
type CommandEnvelope struct {
	Cmd   string `json:"cmd"`
	Args  any    `json:"args,omitempty"`
	Nonce string `json:"nonce"`
}

// NewCommand wraps a command name and its argument object in an envelope
// with a fresh nonce.
func NewCommand(cmd string, args any) CommandEnvelope {
	return CommandEnvelope{Cmd: cmd, Args: args, Nonce: uuid.NewString()}
}

// SubscribeEnvelope is the outbound JSON object for SUBSCRIBE/UNSUBSCRIBE,
// which additionally names the event being watched.
type SubscribeEnvelope struct {
	Cmd   string `json:"cmd"`
	Evt   string `json:"evt"`
	Args  any    `json:"args,omitempty"`
	Nonce string `json:"nonce"`
}

// NewSubscribe builds a SUBSCRIBE envelope for sub.
func NewSubscribe(sub Subscription) SubscribeEnvelope {
	return SubscribeEnvelope{Cmd: CmdSubscribe, Evt: sub.Event, Args: sub.Args, Nonce: uuid.NewString()}
}

// NewUnsubscribe builds an UNSUBSCRIBE envelope for sub.
func NewUnsubscribe(sub Subscription) SubscribeEnvelope {
	return SubscribeEnvelope{Cmd: CmdUnsubscribe, Evt: sub.Event, Args: sub.Args, Nonce: uuid.NewString()}
}
