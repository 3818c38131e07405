package usecases

import "errors"

// Errors returned by the music player use cases.
// User-facing errors carry the message shown to the user.
var (
	// ErrNotConnected is returned when an operation requires the bot to be in a voice channel.
	ErrNotConnected = errors.New("not connected to a voice channel")

	// ErrUserNotInVoice is returned when the user is not in a voice channel.
	ErrUserNotInVoice = errors.New("you must be in a voice channel")

	// ErrNothingPlaying is returned when pausing without a playing track.
	ErrNothingPlaying = errors.New("nothing is currently playing")

	// ErrNothingPaused is returned when resuming without a paused track.
	ErrNothingPaused = errors.New("nothing is paused")

	// ErrNothingToSkip is returned when skipping without an active track.
	ErrNothingToSkip = errors.New("nothing to skip")

	// ErrEmptyQuery is returned when play is called without a query.
	ErrEmptyQuery = errors.New("the query must not be empty")

	// ErrNoResults is returned when a search yields no results.
	ErrNoResults = errors.New("no results found")

	// ErrResolutionFailed is returned when the track lookup itself failed.
	ErrResolutionFailed = errors.New("failed to look up the track")

	// ErrPlayCancelled is returned when playback was stopped while the track was being looked up.
	ErrPlayCancelled = errors.New("playback was stopped while the track was loading")

	// ErrPlaybackFailed is returned when the audio player refused to start a track.
	ErrPlaybackFailed = errors.New("failed to start playback")
)

// IsUserError reports whether err is an expected outcome of user input that
// should be shown to the user rather than logged as a failure.
func IsUserError(err error) bool {
	for _, target := range []error{
		ErrNotConnected,
		ErrUserNotInVoice,
		ErrNothingPlaying,
		ErrNothingPaused,
		ErrNothingToSkip,
		ErrEmptyQuery,
		ErrNoResults,
		ErrPlayCancelled,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
