package protocol

import "github.com/nextlevelbuilder/discordrpc/pkg/discord"

// Subscription names an event to watch plus the arguments scoping it. Use
// the constructors below; they pin the argument shape each event expects.
type Subscription struct {
	Event string
	Args  any
}

type guildArgs struct {
	GuildID discord.Snowflake `json:"guild_id"`
}

type channelArgs struct {
	ChannelID discord.Snowflake `json:"channel_id"`
}

// SubGuildStatus watches status changes of one guild.
func SubGuildStatus(guildID discord.Snowflake) Subscription {
	return Subscription{Event: EventGuildStatus, Args: guildArgs{GuildID: guildID}}
}

// SubGuildCreate watches guild creation.
func SubGuildCreate() Subscription {
	return Subscription{Event: EventGuildCreate}
}

// SubChannelCreate watches channel creation.
func SubChannelCreate() Subscription {
	return Subscription{Event: EventChannelCreate}
}

// SubVoiceChannelSelect watches the current user joining or leaving voice
// channels.
func SubVoiceChannelSelect() Subscription {
	return Subscription{Event: EventVoiceChannelSelect}
}

// SubVoiceStateCreate watches users joining the given voice channel.
func SubVoiceStateCreate(channelID discord.Snowflake) Subscription {
	return Subscription{Event: EventVoiceStateCreate, Args: channelArgs{ChannelID: channelID}}
}

// SubVoiceStateUpdate watches state changes inside the given voice channel.
func SubVoiceStateUpdate(channelID discord.Snowflake) Subscription {
	return Subscription{Event: EventVoiceStateUpdate, Args: channelArgs{ChannelID: channelID}}
}

// SubVoiceStateDelete watches users leaving the given voice channel.
func SubVoiceStateDelete(channelID discord.Snowflake) Subscription {
	return Subscription{Event: EventVoiceStateDelete, Args: channelArgs{ChannelID: channelID}}
}

// SubVoiceSettingsUpdate watches the current user's voice settings.
func SubVoiceSettingsUpdate() Subscription {
	return Subscription{Event: EventVoiceSettingsUpdate}
}

// SubVoiceConnectionStatus watches voice connection state transitions.
func SubVoiceConnectionStatus() Subscription {
	return Subscription{Event: EventVoiceConnectionStatus}
}

// SubSpeakingStart watches users starting to speak in the given channel.
func SubSpeakingStart(channelID discord.Snowflake) Subscription {
	return Subscription{Event: EventSpeakingStart, Args: channelArgs{ChannelID: channelID}}
}

// SubSpeakingStop watches users stopping speaking in the given channel.
func SubSpeakingStop(channelID discord.Snowflake) Subscription {
	return Subscription{Event: EventSpeakingStop, Args: channelArgs{ChannelID: channelID}}
}

// SubMessageCreate watches messages sent in the given channel.
func SubMessageCreate(channelID discord.Snowflake) Subscription {
	return Subscription{Event: EventMessageCreate, Args: channelArgs{ChannelID: channelID}}
}

// SubMessageUpdate watches message edits and reactions in the given channel.
func SubMessageUpdate(channelID discord.Snowflake) Subscription {
	return Subscription{Event: EventMessageUpdate, Args: channelArgs{ChannelID: channelID}}
}

// SubMessageDelete watches message deletion in the given channel.
func SubMessageDelete(channelID discord.Snowflake) Subscription {
	return Subscription{Event: EventMessageDelete, Args: channelArgs{ChannelID: channelID}}
}

// SubNotificationCreate watches desktop notifications.
func SubNotificationCreate() Subscription {
	return Subscription{Event: EventNotificationCreate}
}

// SubActivityJoin watches the current user accepting a game join.
func SubActivityJoin() Subscription {
	return Subscription{Event: EventActivityJoin}
}

// SubActivitySpectate watches the current user accepting a spectate.
func SubActivitySpectate() Subscription {
	return Subscription{Event: EventActivitySpectate}
}

// SubActivityJoinRequest watches other users asking to join.
func SubActivityJoinRequest() Subscription {
	return Subscription{Event: EventActivityJoinRequest}
}
