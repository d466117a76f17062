package discord

import (
	"encoding/json"
	"fmt"
	"time"
)

// PartialGuild identifies a guild by id and name only.
type PartialGuild struct {
	ID   Snowflake `json:"id"`
	Name string    `json:"name"`
}

// PartialChannel identifies a channel by id, name and type.
type PartialChannel struct {
	ID   Snowflake   `json:"id"`
	Name string      `json:"name"`
	Type ChannelType `json:"type"`
}

// ChannelType is Discord's numeric channel kind.
type ChannelType uint8

const (
	ChannelGuildText ChannelType = iota
	ChannelDM
	ChannelGuildVoice
	ChannelGroupDM
	ChannelGuildCategory
	ChannelGuildAnnouncement
	ChannelAnnouncementThread ChannelType = 10
	ChannelPublicThread       ChannelType = 11
	ChannelPrivateThread      ChannelType = 12
	ChannelGuildStageVoice    ChannelType = 13
	ChannelGuildDirectory     ChannelType = 14
	ChannelGuildForum         ChannelType = 15
)

// Channel is the full channel record returned by GET_CHANNEL and
// GET_SELECTED_VOICE_CHANNEL.
type Channel struct {
	ID          Snowflake    `json:"id"`
	GuildID     Snowflake    `json:"guild_id"`
	Name        string       `json:"name"`
	Type        ChannelType  `json:"type"`
	Topic       *string      `json:"topic,omitempty"`
	Bitrate     *uint64      `json:"bitrate,omitempty"`
	UserLimit   uint64       `json:"user_limit"`
	Position    uint64       `json:"position"`
	VoiceStates []VoiceState `json:"voice_states,omitempty"`
	Messages    []Message    `json:"messages,omitempty"`
}

// Message is a chat message as delivered over RPC.
type Message struct {
	ID               Snowflake        `json:"id"`
	ChannelID        Snowflake        `json:"channel_id"`
	Author           User             `json:"author"`
	Content          string           `json:"content"`
	Timestamp        time.Time        `json:"timestamp"`
	EditedTimestamp  *time.Time       `json:"edited_timestamp,omitempty"`
	TTS              bool             `json:"tts"`
	MentionsEveryone bool             `json:"mention_everyone"`
	Mentions         []User           `json:"mentions,omitempty"`
	MentionRoles     []Snowflake      `json:"mention_roles,omitempty"`
	MentionChannels  []ChannelMention `json:"mention_channels,omitempty"`
	Reactions        []Reaction       `json:"reactions,omitempty"`
	Nonce            Nonce            `json:"nonce,omitzero"`
}

// Nonce is a message nonce, which Discord transmits as either a string or a
// bare integer depending on the sender.
type Nonce struct {
	Str string
	Int uint64
	// IsInt reports which representation was on the wire.
	IsInt bool
}

func (n Nonce) MarshalJSON() ([]byte, error) {
	if n.IsInt {
		return json.Marshal(n.Int)
	}
	return json.Marshal(n.Str)
}

func (n *Nonce) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		n.IsInt = false
		return json.Unmarshal(data, &n.Str)
	}
	if err := json.Unmarshal(data, &n.Int); err != nil {
		return fmt.Errorf("nonce must be a string or integer: %w", err)
	}
	n.IsInt = true
	return nil
}

// Reaction is an emoji reaction attached to a message.
type Reaction struct {
	Count uint64 `json:"count"`
	Me    bool   `json:"me"`
	Emoji Emoji  `json:"emoji"`
}

// ChannelMention is a channel referenced from message content.
type ChannelMention struct {
	ID      Snowflake   `json:"id"`
	GuildID Snowflake   `json:"guild_id"`
	Type    ChannelType `json:"type"`
	Name    string      `json:"name"`
}
