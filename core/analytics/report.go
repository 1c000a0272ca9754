package analytics

import (
	"time"

	"alujo/model"
)

// Report envelopes. The JSON field names below are the public contract;
// assembly is field selection only, every figure is computed upstream.

// SummaryCounts heads the artist summary.
type SummaryCounts struct {
	TotalPlays      int64 `json:"total_plays"`
	UniqueListeners int   `json:"unique_listeners"`
	TotalLikes      int64 `json:"total_likes"`
}

// TimeRange carries the reference window boundaries, computed from the
// request time.
type TimeRange struct {
	SevenDays  time.Time `json:"sevenDays"`
	ThirtyDays time.Time `json:"thirtyDays"`
}

// ArtistSummary is the artist-wide report.
type ArtistSummary struct {
	Summary      SummaryCounts  `json:"summary"`
	DailyPlays   map[string]int `json:"dailyPlays"`
	TopTracks    []TrackStat    `json:"topTracks"`
	Demographics map[string]int `json:"demographics"`
	TimeRange    TimeRange      `json:"timeRange"`
}

// TrackSummary is the single-track report. PlayHistory and
// ListenerLocations cover the last 30 days only.
type TrackSummary struct {
	Plays             int64          `json:"plays"`
	Likes             int64          `json:"likes"`
	PlayHistory       map[string]int `json:"playHistory"`
	ListenerLocations map[string]int `json:"listenerLocations"`
}

// ArtistPlayCount is one entry in a listener's top-artist ranking.
type ArtistPlayCount struct {
	Artist model.ArtistRef `json:"artist"`
	Count  int             `json:"count"`
}

// GenreCount is one entry in a genre ranking.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// ListenerSummary is the per-listener report.
type ListenerSummary struct {
	TotalPlays        int64             `json:"total_plays"`
	ArtistsDiscovered int               `json:"artists_discovered"`
	UniqueTracks      int               `json:"unique_tracks"`
	TopArtists        []ArtistPlayCount `json:"topArtists"`
	TopGenres         []GenreCount      `json:"topGenres"`
}
