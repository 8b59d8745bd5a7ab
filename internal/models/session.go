package models

import "time"

// Session is the working set created by one URL submission: the fetched
// records plus one job entry per video id. It lives in memory only and is
// replaced wholesale when a new URL is fetched.
type Session struct {
	SessionID  string                  `json:"session_id"`
	SourceURL  string                  `json:"source_url"`
	IsPlaylist bool                    `json:"is_playlist"`
	Videos     []*VideoRecord          `json:"videos"`
	Jobs       map[string]*DownloadJob `json:"jobs"`
	// FetchError carries the fetch diagnostic when the video list could not
	// be retrieved, so an empty session is distinguishable from an empty
	// playlist.
	FetchError string    `json:"fetch_error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
