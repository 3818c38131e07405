package domain

import (
	"strconv"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// Offense is a message that matched a banned term.
type Offense struct {
	GuildID   snowflake.ID
	ChannelID snowflake.ID
	MessageID snowflake.ID
	UserID    snowflake.ID
	Content   string
	Term      string // the banned term that matched
}

// Sanction is the punishment decided for an offense.
type Sanction struct {
	Offense  Offense
	Ordinal  int // 1 for the first active strike
	Level    int
	Duration time.Duration
	At       time.Time
}

// Until returns when the timeout ends.
func (s Sanction) Until() time.Time {
	return s.At.Add(s.Duration)
}

// AuditReason is the reason recorded in the guild's audit log.
func (s Sanction) AuditReason() string {
	return "strike #" + strconv.Itoa(s.Ordinal)
}

// FormatDuration renders d in its largest whole unit: 45s, 2m or 1h.
func FormatDuration(d time.Duration) string {
	seconds := int64(d / time.Second)
	switch {
	case seconds < 60:
		return strconv.FormatInt(seconds, 10) + "s"
	case seconds < 3600:
		return strconv.FormatInt(seconds/60, 10) + "m"
	default:
		return strconv.FormatInt(seconds/3600, 10) + "h"
	}
}
