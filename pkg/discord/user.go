package discord

import "time"

// PartialUser is the abbreviated user record Discord includes in RPC
// payloads, most notably the READY handshake response.
type PartialUser struct {
	Username      string    `json:"username"`
	Discriminator string    `json:"discriminator"`
	ID            Snowflake `json:"id"`
	Avatar        *string   `json:"avatar"`
}

// User is the full user record.
type User struct {
	ID            Snowflake `json:"id"`
	Username      string    `json:"username"`
	Discriminator string    `json:"discriminator"`
	Avatar        *string   `json:"avatar"`
	Bot           *bool     `json:"bot,omitempty"`
	System        *bool     `json:"system,omitempty"`
	MFAEnabled    *bool     `json:"mfa_enabled,omitempty"`
	Banner        *string   `json:"banner,omitempty"`
	AccentColor   *uint64   `json:"accent_color,omitempty"`
	Locale        *string   `json:"locale,omitempty"`
	Verified      *bool     `json:"verified,omitempty"`
	Email         *string   `json:"email,omitempty"`
	Flags         *uint64   `json:"flags,omitempty"`
	PremiumType   *uint64   `json:"premium_type,omitempty"`
	PublicFlags   *uint64   `json:"public_flags,omitempty"`
}

// GuildMember describes a user's membership in a guild.
type GuildMember struct {
	User                       *User       `json:"user,omitempty"`
	Nick                       *string     `json:"nick,omitempty"`
	Avatar                     *string     `json:"avatar,omitempty"`
	Roles                      []Snowflake `json:"roles"`
	JoinedAt                   time.Time   `json:"joined_at"`
	PremiumSince               *time.Time  `json:"premium_since,omitempty"`
	Deaf                       bool        `json:"deaf"`
	Mute                       bool        `json:"mute"`
	Pending                    *bool       `json:"pending,omitempty"`
	Permissions                *string     `json:"permissions,omitempty"`
	CommunicationDisabledUntil *time.Time  `json:"communication_disabled_until,omitempty"`
}

// Application describes the OAuth application returned by AUTHENTICATE.
type Application struct {
	Description string    `json:"description"`
	Icon        *string   `json:"icon"`
	ID          Snowflake `json:"id"`
	RPCOrigins  []string  `json:"rpc_origins,omitempty"`
	Name        string    `json:"name"`
}
