package discord

// Activity is a rich-presence activity. When setting an activity the
// read-only fields (Name, CreatedAt, ApplicationID) are left empty and
// omitted from the payload; Discord fills them in on the way back.
type Activity struct {
	Name          string         `json:"name,omitempty"`
	Type          ActivityType   `json:"type"`
	URL           *string        `json:"url,omitempty"`
	CreatedAt     *UnixTimestamp `json:"created_at,omitempty"`
	Timestamps    *Timestamps    `json:"timestamps,omitempty"`
	ApplicationID *Snowflake     `json:"application_id,omitempty"`
	Details       *string        `json:"details,omitempty"`
	State         *string        `json:"state,omitempty"`
	Emoji         *Emoji         `json:"emoji,omitempty"`
	Party         *Party         `json:"party,omitempty"`
	Assets        *Assets        `json:"assets,omitempty"`
	Secrets       *Secrets       `json:"secrets,omitempty"`
	Instance      *bool          `json:"instance,omitempty"`
	Flags         *ActivityFlags `json:"flags,omitempty"`
	Buttons       []Button       `json:"buttons,omitempty"`
}

// StateActivity builds the minimal activity most integrations need: a plain
// state line shown under the application name.
func StateActivity(state string) Activity {
	return Activity{State: &state}
}

// ActivityType is the numeric activity kind.
type ActivityType uint8

const (
	ActivityGame ActivityType = iota
	ActivityStreaming
	ActivityListening
	ActivityWatching
	ActivityCustom
	ActivityCompeting
)

// Timestamps bounds the current activity, commonly a match start/end.
type Timestamps struct {
	Start *UnixTimestamp `json:"start,omitempty"`
	End   *UnixTimestamp `json:"end,omitempty"`
}

// Emoji is an emoji reference used in activities and reactions.
type Emoji struct {
	Name     string     `json:"name"`
	ID       *Snowflake `json:"id,omitempty"`
	Animated *bool      `json:"animated,omitempty"`
}

// Party describes the player's current party.
type Party struct {
	ID *string `json:"id,omitempty"`
	// Size is [current, max].
	Size [2]int `json:"size"`
}

// Assets references the images shown alongside a rich presence.
type Assets struct {
	LargeImage *string `json:"large_image,omitempty"`
	LargeText  *string `json:"large_text,omitempty"`
	SmallImage *string `json:"small_image,omitempty"`
	SmallText  *string `json:"small_text,omitempty"`
}

// Secrets carries the join/spectate secrets for the current match.
type Secrets struct {
	Join     *string `json:"join,omitempty"`
	Spectate *string `json:"spectate,omitempty"`
	Match    *string `json:"match,omitempty"`
}

// ActivityFlags is a bitfield describing what interactions an activity
// supports.
type ActivityFlags uint32

const (
	FlagInstance ActivityFlags = 1 << iota
	FlagJoin
	FlagSpectate
	FlagJoinRequest
	FlagSync
	FlagPlay
	FlagPartyPrivacyFriends
	FlagPartyPrivacyVoiceChannel
	FlagEmbedded
)

// Has reports whether all bits in flag are set.
func (f ActivityFlags) Has(flag ActivityFlags) bool {
	return f&flag == flag
}

// Button is a clickable link rendered under the presence.
type Button struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}
