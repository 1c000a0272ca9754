// Package analytics computes listening reports from raw play and like rows.
// Everything here is a pure function of the rows handed in plus the request
// time; no state survives between requests. Authorization happens before any
// of this code runs.
package analytics

import (
	"context"
	"time"

	"alujo/model"
)

// PlayRow is one play event joined with the fields reports need: the
// track's title, genre and artist, and the listening user's country.
type PlayRow struct {
	TrackID         string
	TrackTitle      string
	Genre           *string
	ArtistID        string
	ArtistStageName string
	UserID          string
	Country         *string
	StartedAt       time.Time
}

// LikeRow is one like joined with the liked track's genre.
type LikeRow struct {
	UserID  string
	TrackID string
	Genre   *string
}

// TrackStat carries per-track play and like totals, used for an artist's
// top-track ranking.
type TrackStat struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Plays int64  `json:"plays"`
	Likes int64  `json:"likes"`
}

// Repository fetches the raw rows reports are computed from. Each report
// pulls its snapshot once at request start.
type Repository interface {
	CountPlaysByArtist(ctx context.Context, artistID string) (int64, error)
	CountLikesByArtist(ctx context.Context, artistID string) (int64, error)
	PlaysByArtist(ctx context.Context, artistID string) ([]PlayRow, error)
	TrackStatsByArtist(ctx context.Context, artistID string) ([]TrackStat, error)

	CountPlaysByTrack(ctx context.Context, trackID string) (int64, error)
	CountLikesByTrack(ctx context.Context, trackID string) (int64, error)
	PlaysByTrackSince(ctx context.Context, trackID string, since time.Time) ([]PlayRow, error)

	CountPlaysByUser(ctx context.Context, userID string) (int64, error)
	PlaysByUser(ctx context.Context, userID string) ([]PlayRow, error)
	LikesByUser(ctx context.Context, userID string) ([]LikeRow, error)

	HistoryByUser(ctx context.Context, userID string, limit, offset int) ([]model.PlayEvent, error)
	AllPlaysByUser(ctx context.Context, userID string) ([]model.PlayEvent, error)
}
