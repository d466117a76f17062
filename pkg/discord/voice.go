package discord

import "time"

// Volume is a playback volume from 0 to 200, where 100 is unmodified.
type Volume uint8

// Pan is a left/right audio balance.
type Pan struct {
	Left  float32 `json:"left"`
	Right float32 `json:"right"`
}

// Details names a device vendor or model.
type Details struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// DeviceType classifies an audio/video device.
type DeviceType string

const (
	DeviceAudioInput  DeviceType = "audioinput"
	DeviceAudioOutput DeviceType = "audiooutput"
	DeviceVideoInput  DeviceType = "videoinput"
)

// CertifiedDevice is hardware metadata reported via SET_CERTIFIED_DEVICES.
type CertifiedDevice struct {
	Type                 DeviceType `json:"type"`
	ID                   string     `json:"id"`
	Vendor               Details    `json:"vendor"`
	Model                Details    `json:"model"`
	Related              []string   `json:"related"`
	EchoCancellation     *bool      `json:"echo_cancellation,omitempty"`
	NoiseSuppression     *bool      `json:"noise_suppression,omitempty"`
	AutomaticGainControl *bool      `json:"automatic_gain_control,omitempty"`
	HardwareMute         *bool      `json:"hardware_mute,omitempty"`
}

// Device is an available audio device.
type Device struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// InputSettings configures the input device.
type InputSettings struct {
	DeviceID         string   `json:"device_id"`
	Volume           float32  `json:"volume"`
	AvailableDevices []Device `json:"available_devices,omitempty"`
}

// OutputSettings configures the output device.
type OutputSettings struct {
	DeviceID         string   `json:"device_id"`
	Volume           float32  `json:"volume"`
	AvailableDevices []Device `json:"available_devices,omitempty"`
}

// ModeSettings configures push-to-talk versus voice activity.
type ModeSettings struct {
	Type          VoiceMode `json:"type"`
	Threshold     float32   `json:"threshold"`
	AutoThreshold *bool     `json:"auto_threshold,omitempty"`
	Shortcut      []Key     `json:"shortcut,omitempty"`
	Delay         float32   `json:"delay"`
}

// VoiceMode selects how transmission is triggered.
type VoiceMode string

const (
	ModePushToTalk    VoiceMode = "PUSH_TO_TALK"
	ModeVoiceActivity VoiceMode = "VOICE_ACTIVITY"
)

// Key is a shortcut key binding.
type Key struct {
	Type KeyType `json:"type"`
	Code uint64  `json:"code"`
	Name string  `json:"name"`
}

// KeyType locates a shortcut key on a device.
type KeyType uint8

const (
	KeyboardKey KeyType = iota
	MouseButton
	KeyboardModifierKey
	GamepadButton
)

// VoiceSettings is the full voice configuration, used both as the
// GET/SET_VOICE_SETTINGS payload and the VOICE_SETTINGS_UPDATE event body.
// Nil fields are "leave unchanged" when setting.
type VoiceSettings struct {
	Input                *InputSettings  `json:"input,omitempty"`
	Output               *OutputSettings `json:"output,omitempty"`
	Mode                 *ModeSettings   `json:"mode,omitempty"`
	AutomaticGainControl *bool           `json:"automatic_gain_control,omitempty"`
	EchoCancellation     *bool           `json:"echo_cancellation,omitempty"`
	NoiseSuppression     *bool           `json:"noise_suppression,omitempty"`
	QoS                  *bool           `json:"qos,omitempty"`
	SilenceWarning       *bool           `json:"silence_warning,omitempty"`
	Deaf                 *bool           `json:"deaf,omitempty"`
	Mute                 *bool           `json:"mute,omitempty"`
}

// VoiceState is a user's state within a voice channel.
type VoiceState struct {
	GuildID                 *Snowflake   `json:"guild_id,omitempty"`
	ChannelID               *Snowflake   `json:"channel_id,omitempty"`
	UserID                  *Snowflake   `json:"user_id,omitempty"`
	Member                  *GuildMember `json:"member,omitempty"`
	User                    *PartialUser `json:"user,omitempty"`
	SessionID               *string      `json:"session_id,omitempty"`
	Deaf                    bool         `json:"deaf,omitempty"`
	Mute                    bool         `json:"mute,omitempty"`
	SelfDeaf                bool         `json:"self_deaf,omitempty"`
	SelfMute                bool         `json:"self_mute,omitempty"`
	SelfStream              *bool        `json:"self_stream,omitempty"`
	SelfVideo               bool         `json:"self_video,omitempty"`
	Suppress                bool         `json:"suppress,omitempty"`
	RequestToSpeakTimestamp *time.Time   `json:"request_to_speak_timestamp,omitempty"`
}

// Subject returns the user the state belongs to, checking the explicit
// user_id first, then the embedded user, then the member record.
func (v VoiceState) Subject() (Snowflake, bool) {
	if v.UserID != nil {
		return *v.UserID, true
	}
	if v.User != nil {
		return v.User.ID, true
	}
	if v.Member != nil && v.Member.User != nil {
		return v.Member.User.ID, true
	}
	return 0, false
}
