// Package discord holds the data schemas exchanged with a local Discord
// client over the RPC socket: identifiers, users, channels, activities and
// voice settings. The transport layer in pkg/protocol treats these as opaque
// JSON; they carry no behavior beyond (de)serialization helpers.
package discord

import (
	"fmt"
	"strconv"
	"time"
)

// Snowflake is Discord's 64-bit numeric identifier. Because JavaScript peers
// cannot represent the full 64-bit range, snowflakes travel on the wire as
// decimal strings and must be quoted/unquoted at every JSON boundary.
type Snowflake uint64

// Timestamp extracts the creation time embedded in the snowflake.
func (s Snowflake) Timestamp() UnixTimestamp {
	return UnixTimestamp((uint64(s) >> 22) + 1420070400000)
}

func (s Snowflake) String() string {
	return strconv.FormatUint(uint64(s), 10)
}

func (s Snowflake) MarshalJSON() ([]byte, error) {
	return strconv.AppendQuote(nil, s.String()), nil
}

func (s *Snowflake) UnmarshalJSON(data []byte) error {
	raw, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("snowflake must be a string: %w", err)
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid snowflake %q: %w", raw, err)
	}
	*s = Snowflake(id)
	return nil
}

// UnixTimestamp is a point in time as milliseconds since the epoch,
// transmitted as a bare JSON number.
type UnixTimestamp uint64

// Now returns the current time as a UnixTimestamp.
func Now() UnixTimestamp {
	return UnixTimestamp(time.Now().UnixMilli())
}

// Time converts the timestamp to a time.Time.
func (t UnixTimestamp) Time() time.Time {
	return time.UnixMilli(int64(t))
}

// Ptr returns a pointer to v, for filling optional schema fields inline.
func Ptr[T any](v T) *T {
	return &v
}
