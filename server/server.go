package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"alujo/cache"
	"alujo/config"
	"alujo/core/analytics"
	"alujo/core/auth"
	"alujo/core/discover"
	"alujo/db"
	"alujo/logger"
	"alujo/mailer"
	"alujo/model"
	"alujo/repository"
	"alujo/storage"
)

const feedCacheTTL = 5 * time.Minute

// Start wires the application together and runs the HTTP server until an
// interrupt arrives.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogOutput,
		MaxSize:    50,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	})

	// Live log-level reload on .env changes.
	stopWatch, err := config.Watch(".env", func(level string) {
		logger.SetLevel(logger.LogLevel(level))
	})
	if err != nil {
		logger.Warn("config watch disabled", logger.ErrorField(err))
	} else {
		defer stopWatch()
	}

	gdb, err := db.Connect(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", logger.ErrorField(err))
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			logger.Error("failed to close database", logger.ErrorField(err))
		}
	}()

	redisClient, err := db.ConnectRedis(cfg)
	if err != nil {
		logger.Fatal("failed to connect to redis", logger.ErrorField(err))
	}
	defer redisClient.Close()

	media, err := storage.NewMediaStore(cfg)
	if err != nil {
		logger.Fatal("failed to initialize media store", logger.ErrorField(err))
	}

	userRepo := repository.NewUserRepository(gdb)
	artistRepo := repository.NewArtistRepository(gdb)
	trackRepo := repository.NewTrackRepository(gdb)
	albumRepo := repository.NewAlbumRepository(gdb)
	playlistRepo := repository.NewPlaylistRepository(gdb)
	analyticsRepo := repository.NewAnalyticsRepository(gdb)
	discoverRepo := repository.NewDiscoverRepository(gdb)

	analyticsSvc := analytics.NewService(analyticsRepo)
	feedCache := cache.NewFeedCache(redisClient, feedCacheTTL)
	discoverSvc := discover.NewService(discoverRepo, analyticsSvc, feedCache)

	tokens := auth.NewTokenIssuer(cfg)
	mail := mailer.NewSMTPMailer(cfg)

	h := NewAPIHandler(cfg, userRepo, artistRepo, trackRepo, albumRepo,
		playlistRepo, analyticsSvc, discoverSvc, tokens, media, mail)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      NewRouter(h),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", logger.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", logger.ErrorField(err))
		}
	}()

	<-stop
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", logger.ErrorField(err))
	}
	logger.Info("server stopped")
}

// NewRouter builds the full route table.
func NewRouter(h *APIHandler) *mux.Router {
	router := mux.NewRouter()
	router.Use(corsMiddleware)

	// Auth
	router.HandleFunc("/api/auth/register", h.RegisterHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/login", h.LoginHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/refresh-token", h.RefreshHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/me", h.AuthMiddleware(h.MeHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/auth/me", h.AuthMiddleware(h.UpdateMeHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/auth/request-password-reset", h.RequestPasswordResetHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/reset-password", h.ResetPasswordHandler).Methods(http.MethodPost)

	// Artists
	router.HandleFunc("/api/artists", h.AuthMiddleware(h.CreateArtistProfileHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/artists/{id}", h.GetArtistHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/artists/{id}", h.AuthMiddleware(h.UpdateArtistHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/artists/{id}/cover", h.AuthMiddleware(h.UploadArtistCoverHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/artists/{id}/follow", h.AuthMiddleware(h.FollowArtistHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/artists/{id}/tracks", h.GetArtistTracksHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/artists/{id}/albums", h.GetArtistAlbumsHandler).Methods(http.MethodGet)

	// Tracks
	router.HandleFunc("/api/tracks", h.AuthMiddleware(h.RequireRole(h.UploadTrackHandler, model.RoleArtist))).Methods(http.MethodPost)
	router.HandleFunc("/api/tracks", h.ListTracksHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/tracks/{id}", h.OptionalAuth(h.GetTrackHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/tracks/{id}", h.AuthMiddleware(h.UpdateTrackHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/tracks/{id}", h.AuthMiddleware(h.DeleteTrackHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/api/tracks/{id}/like", h.AuthMiddleware(h.LikeTrackHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/tracks/{id}/play", h.AuthMiddleware(h.LogPlayHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/tracks/{id}/lyrics", h.OptionalAuth(h.GetLyricsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/tracks/{id}/lyrics", h.AuthMiddleware(h.UpsertLyricsHandler)).Methods(http.MethodPut)

	// Albums
	router.HandleFunc("/api/albums", h.AuthMiddleware(h.RequireRole(h.CreateAlbumHandler, model.RoleArtist))).Methods(http.MethodPost)
	router.HandleFunc("/api/albums/{id}", h.GetAlbumHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/albums/{id}", h.AuthMiddleware(h.UpdateAlbumHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/albums/{id}", h.AuthMiddleware(h.DeleteAlbumHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/api/albums/{id}/tracks", h.AuthMiddleware(h.AddAlbumTrackHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/albums/{id}/tracks/{trackId}", h.AuthMiddleware(h.RemoveAlbumTrackHandler)).Methods(http.MethodDelete)

	// Playlists
	router.HandleFunc("/api/playlists", h.AuthMiddleware(h.CreatePlaylistHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/playlists/user/{userId}", h.OptionalAuth(h.ListUserPlaylistsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/playlists/{id}", h.OptionalAuth(h.GetPlaylistHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/playlists/{id}", h.AuthMiddleware(h.UpdatePlaylistHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/playlists/{id}", h.AuthMiddleware(h.DeletePlaylistHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/api/playlists/{id}/tracks", h.AuthMiddleware(h.AddPlaylistTrackHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/playlists/{id}/tracks/{trackId}", h.AuthMiddleware(h.RemovePlaylistTrackHandler)).Methods(http.MethodDelete)

	// Discover
	router.HandleFunc("/api/discover/editor-picks", h.EditorPicksHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/discover/trending", h.TrendingHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/discover/new-releases", h.NewReleasesHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/discover/recommended", h.OptionalAuth(h.RecommendedHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/discover/genres/{genre}", h.GenreFeedHandler).Methods(http.MethodGet)

	// Analytics
	router.HandleFunc("/api/analytics/artist/{artistId}", h.AuthMiddleware(h.ArtistAnalyticsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/analytics/tracks/{trackId}", h.AuthMiddleware(h.TrackAnalyticsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/analytics/listeners/{userId}", h.AuthMiddleware(h.ListenerAnalyticsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/analytics/history", h.AuthMiddleware(h.HistoryHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/analytics/export", h.AuthMiddleware(h.ExportHandler)).Methods(http.MethodGet)

	return router
}
