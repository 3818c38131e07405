package ports

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// NowPlayingInfo is what the now-playing announcement shows.
type NowPlayingInfo struct {
	Title    string
	Artist   string
	Duration string
	URI      string

	SourceName string
	IsStream   bool
	EnqueuedAt time.Time

	RequesterID        snowflake.ID
	RequesterName      string
	RequesterAvatarURL string
}

// NotificationSender posts playback announcements to a text channel.
type NotificationSender interface {
	// SendNowPlaying announces the track that just started.
	SendNowPlaying(channelID snowflake.ID, info *NowPlayingInfo) error

	// SendQueueDrained announces that the queue ran out and the bot left voice.
	SendQueueDrained(channelID snowflake.ID) error
}

// UserInfo is how a requester is shown in announcements.
type UserInfo struct {
	DisplayName string
	AvatarURL   string
}

// UserInfoProvider resolves a requester's guild display name and avatar.
type UserInfoProvider interface {
	GetUserInfo(guildID, userID snowflake.ID) (*UserInfo, error)
}
