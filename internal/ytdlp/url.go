package ytdlp

import (
	"regexp"
	"strings"
)

var playlistURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:https?://)?(?:www\.)?youtube\.com/playlist\?list=[a-zA-Z0-9_-]+`),
	regexp.MustCompile(`(?:https?://)?(?:www\.)?youtube\.com/watch\?v=[a-zA-Z0-9_-]+&list=[a-zA-Z0-9_-]+`),
}

// IsPlaylistURL reports whether the URL looks like a playlist rather than a
// single video. Pure and total: unrecognized input is treated as a single
// video, never an error.
func IsPlaylistURL(url string) bool {
	for _, pattern := range playlistURLPatterns {
		if pattern.MatchString(url) {
			return true
		}
	}
	return strings.Contains(url, "list=")
}
