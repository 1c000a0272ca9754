package server

import (
	"net/http"
	"strconv"

	"alujo/config"
	"alujo/core/analytics"
	"alujo/core/auth"
	"alujo/core/discover"
	"alujo/mailer"
	"alujo/repository"
	"alujo/storage"
)

// APIHandler carries the dependencies shared by all HTTP handlers.
type APIHandler struct {
	cfg       *config.Config
	users     repository.UserRepository
	artists   repository.ArtistRepository
	tracks    repository.TrackRepository
	albums    repository.AlbumRepository
	playlists repository.PlaylistRepository
	analytics *analytics.Service
	discover  *discover.Service
	tokens    *auth.TokenIssuer
	media     *storage.MediaStore
	mail      mailer.Mailer
}

// NewAPIHandler wires the handler set.
func NewAPIHandler(
	cfg *config.Config,
	users repository.UserRepository,
	artists repository.ArtistRepository,
	tracks repository.TrackRepository,
	albums repository.AlbumRepository,
	playlists repository.PlaylistRepository,
	analyticsSvc *analytics.Service,
	discoverSvc *discover.Service,
	tokens *auth.TokenIssuer,
	media *storage.MediaStore,
	mail mailer.Mailer,
) *APIHandler {
	return &APIHandler{
		cfg:       cfg,
		users:     users,
		artists:   artists,
		tracks:    tracks,
		albums:    albums,
		playlists: playlists,
		analytics: analyticsSvc,
		discover:  discoverSvc,
		tokens:    tokens,
		media:     media,
		mail:      mail,
	}
}

// queryInt reads an integer query parameter, falling back to def when the
// parameter is absent or malformed.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}
