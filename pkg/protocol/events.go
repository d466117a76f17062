package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/nextlevelbuilder/discordrpc/pkg/discord"
)

// Event names Discord uses as the evt discriminant of push envelopes.
const (
	EventReady                 = "READY"
	EventError                 = "ERROR"
	EventGuildStatus           = "GUILD_STATUS"
	EventGuildCreate           = "GUILD_CREATE"
	EventChannelCreate         = "CHANNEL_CREATE"
	EventVoiceChannelSelect    = "VOICE_CHANNEL_SELECT"
	EventVoiceStateCreate      = "VOICE_STATE_CREATE"
	EventVoiceStateUpdate      = "VOICE_STATE_UPDATE"
	EventVoiceStateDelete      = "VOICE_STATE_DELETE"
	EventVoiceSettingsUpdate   = "VOICE_SETTINGS_UPDATE"
	EventVoiceConnectionStatus = "VOICE_CONNECTION_STATUS"
	EventSpeakingStart         = "SPEAKING_START"
	EventSpeakingStop          = "SPEAKING_STOP"
	EventMessageCreate         = "MESSAGE_CREATE"
	EventMessageUpdate         = "MESSAGE_UPDATE"
	EventMessageDelete         = "MESSAGE_DELETE"
	EventNotificationCreate    = "NOTIFICATION_CREATE"
	EventActivityJoin          = "ACTIVITY_JOIN"
	EventActivitySpectate      = "ACTIVITY_SPECTATE"
	EventActivityJoinRequest   = "ACTIVITY_JOIN_REQUEST"
)

// Event is implemented by every push-event payload.
type Event interface {
	EventName() string
}

// Ready is the handshake acknowledgement; exactly one is expected, as the
// first message of the session.
type Ready struct {
	V      int                 `json:"v"`
	Config ServerConfig        `json:"config"`
	User   discord.PartialUser `json:"user"`
}

func (Ready) EventName() string { return EventReady }

// ErrorEvent is Discord's application-level error reply, e.g. an invalid
// scope or a rejected command. It doubles as a Go error so the session can
// surface it directly.
type ErrorEvent struct {
	Code    uint64 `json:"code"`
	Message string `json:"message"`
}

func (ErrorEvent) EventName() string { return EventError }

func (e ErrorEvent) Error() string {
	return fmt.Sprintf("discord error %d: %s", e.Code, e.Message)
}

type GuildStatus struct {
	Guild discord.PartialGuild `json:"guild"`
}

func (GuildStatus) EventName() string { return EventGuildStatus }

type GuildCreate struct {
	ID   discord.Snowflake `json:"id"`
	Name string            `json:"name"`
}

func (GuildCreate) EventName() string { return EventGuildCreate }

type ChannelCreate struct {
	ID   discord.Snowflake   `json:"id"`
	Name string              `json:"name"`
	Type discord.ChannelType `json:"type"`
}

func (ChannelCreate) EventName() string { return EventChannelCreate }

// VoiceChannelSelect fires when the current user joins or leaves a voice
// channel; both ids are null on leave.
type VoiceChannelSelect struct {
	ChannelID *discord.Snowflake `json:"channel_id"`
	GuildID   *discord.Snowflake `json:"guild_id"`
}

func (VoiceChannelSelect) EventName() string { return EventVoiceChannelSelect }

type VoiceStateCreate struct {
	discord.VoiceState
}

func (VoiceStateCreate) EventName() string { return EventVoiceStateCreate }

type VoiceStateUpdate struct {
	discord.VoiceState
}

func (VoiceStateUpdate) EventName() string { return EventVoiceStateUpdate }

type VoiceStateDelete struct {
	discord.VoiceState
}

func (VoiceStateDelete) EventName() string { return EventVoiceStateDelete }

type VoiceSettingsUpdate struct {
	discord.VoiceSettings
}

func (VoiceSettingsUpdate) EventName() string { return EventVoiceSettingsUpdate }

type VoiceConnectionStatus struct {
	State       discord.VoiceState `json:"state"`
	Hostname    string             `json:"hostname"`
	Pings       []uint64           `json:"pings"`
	AveragePing uint64             `json:"average_ping"`
	LastPing    uint64             `json:"last_ping"`
}

func (VoiceConnectionStatus) EventName() string { return EventVoiceConnectionStatus }

// SpeakingStart and SpeakingStop share one body shape.
type SpeakingStart struct {
	UserID discord.Snowflake `json:"user_id"`
}

func (SpeakingStart) EventName() string { return EventSpeakingStart }

type SpeakingStop struct {
	UserID discord.Snowflake `json:"user_id"`
}

func (SpeakingStop) EventName() string { return EventSpeakingStop }

type MessageCreate struct {
	ChannelID discord.Snowflake `json:"channel_id"`
	Message   discord.Message   `json:"message"`
}

func (MessageCreate) EventName() string { return EventMessageCreate }

type MessageUpdate struct {
	ChannelID discord.Snowflake `json:"channel_id"`
	Message   discord.Message   `json:"message"`
}

func (MessageUpdate) EventName() string { return EventMessageUpdate }

type MessageDelete struct {
	ChannelID discord.Snowflake `json:"channel_id"`
	Message   discord.Message   `json:"message"`
}

func (MessageDelete) EventName() string { return EventMessageDelete }

type NotificationCreate struct {
	ChannelID discord.Snowflake `json:"channel_id"`
	Message   discord.Message   `json:"message"`
	IconURL   string            `json:"icon_url"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
}

func (NotificationCreate) EventName() string { return EventNotificationCreate }

// ActivityJoin carries the join secret of the activity the user accepted.
type ActivityJoin struct {
	Secret string `json:"secret"`
}

func (ActivityJoin) EventName() string { return EventActivityJoin }

type ActivitySpectate struct {
	Secret string `json:"secret"`
}

func (ActivitySpectate) EventName() string { return EventActivitySpectate }

type ActivityJoinRequest struct {
	User discord.PartialUser `json:"user"`
}

func (ActivityJoinRequest) EventName() string { return EventActivityJoinRequest }

// eventDecoders maps each known event name to a decoder for its body.
// An inbound evt outside this table is an InvalidEventError.
var eventDecoders = map[string]func([]byte) (Event, error){
	EventReady:                 decodeEvent[Ready],
	EventError:                 decodeEvent[ErrorEvent],
	EventGuildStatus:           decodeEvent[GuildStatus],
	EventGuildCreate:           decodeEvent[GuildCreate],
	EventChannelCreate:         decodeEvent[ChannelCreate],
	EventVoiceChannelSelect:    decodeEvent[VoiceChannelSelect],
	EventVoiceStateCreate:      decodeEvent[VoiceStateCreate],
	EventVoiceStateUpdate:      decodeEvent[VoiceStateUpdate],
	EventVoiceStateDelete:      decodeEvent[VoiceStateDelete],
	EventVoiceSettingsUpdate:   decodeEvent[VoiceSettingsUpdate],
	EventVoiceConnectionStatus: decodeEvent[VoiceConnectionStatus],
	EventSpeakingStart:         decodeEvent[SpeakingStart],
	EventSpeakingStop:          decodeEvent[SpeakingStop],
	EventMessageCreate:         decodeEvent[MessageCreate],
	EventMessageUpdate:         decodeEvent[MessageUpdate],
	EventMessageDelete:         decodeEvent[MessageDelete],
	EventNotificationCreate:    decodeEvent[NotificationCreate],
	EventActivityJoin:          decodeEvent[ActivityJoin],
	EventActivitySpectate:      decodeEvent[ActivitySpectate],
	EventActivityJoinRequest:   decodeEvent[ActivityJoinRequest],
}

func decodeEvent[E Event](payload []byte) (Event, error) {
	var body struct {
		Data E `json:"data"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, fmt.Errorf("decode %s body: %w", body.Data.EventName(), err)
	}
	return body.Data, nil
}

// Classify splits an inbound FRAME payload into a push event or a command
// response. It first peeks at the evt field alone; only when the event name
// is known does it parse the full payload with that event's schema (the body
// shape depends on the name, which lives in the same object). When evt is
// absent the payload is a command response and data is unmarshalled into
// out, which may be nil when the caller expects no body.
func Classify(payload []byte, out any) (Event, error) {
	var peek struct {
		Evt string `json:"evt"`
	}
	if err := json.Unmarshal(payload, &peek); err != nil {
		return nil, fmt.Errorf("parse envelope: %w", err)
	}
	if peek.Evt != "" {
		decode, ok := eventDecoders[peek.Evt]
		if !ok {
			return nil, &InvalidEventError{Name: peek.Evt}
		}
		return decode(payload)
	}
	if out == nil {
		return nil, nil
	}
	var body struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, fmt.Errorf("parse envelope: %w", err)
	}
	if len(body.Data) == 0 {
		return nil, nil
	}
	if err := json.Unmarshal(body.Data, out); err != nil {
		return nil, fmt.Errorf("decode command response: %w", err)
	}
	return nil, nil
}
