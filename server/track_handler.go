package server

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"alujo/apperr"
	"alujo/logger"
	"alujo/model"
	"alujo/repository"
)

type updateTrackRequest struct {
	Title      string  `json:"title" validate:"required,min=1,max=255"`
	Genre      *string `json:"genre" validate:"omitempty,max=50"`
	Visibility string  `json:"visibility" validate:"required,oneof=PUBLIC UNLISTED PRIVATE"`
}

type lyricsRequest struct {
	Content string `json:"content" validate:"required,max=20000"`
}

// resolveOwnedTrack loads the track and checks the caller's artist profile
// owns it. Admins bypass ownership.
func (h *APIHandler) resolveOwnedTrack(r *http.Request, trackID string) (*model.Track, error) {
	track, err := h.tracks.GetByID(r.Context(), trackID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if track == nil {
		return nil, apperr.NotFound("track not found")
	}
	if isAdmin(r.Context()) {
		return track, nil
	}
	artistID, ok := artistIDFrom(r.Context())
	if !ok || track.ArtistID != artistID {
		return nil, apperr.Forbidden("not your track")
	}
	return track, nil
}

// canViewTrack applies the visibility rules. Unlisted tracks are reachable
// by direct link, private ones only by the owning artist or an admin.
func canViewTrack(r *http.Request, track *model.Track) bool {
	if track.Visibility != model.VisibilityPrivate {
		return true
	}
	if isAdmin(r.Context()) {
		return true
	}
	artistID, ok := artistIDFrom(r.Context())
	return ok && track.ArtistID == artistID
}

// UploadTrackHandler ingests a multipart upload: the audio file, optional
// cover art, and the track metadata fields.
func (h *APIHandler) UploadTrackHandler(w http.ResponseWriter, r *http.Request) {
	artistID, ok := artistIDFrom(r.Context())
	if !ok {
		respondError(w, apperr.Forbidden("artist profile required"))
		return
	}

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		respondError(w, apperr.Validation("invalid multipart form"))
		return
	}

	title := r.FormValue("title")
	if title == "" {
		respondError(w, apperr.Validation("title is required"))
		return
	}

	visibility := model.Visibility(r.FormValue("visibility"))
	switch visibility {
	case "":
		visibility = model.VisibilityPublic
	case model.VisibilityPublic, model.VisibilityUnlisted, model.VisibilityPrivate:
	default:
		respondError(w, apperr.Validation("visibility must be one of: PUBLIC UNLISTED PRIVATE"))
		return
	}

	var duration float64
	if raw := r.FormValue("durationSec"); raw != "" {
		d, err := strconv.ParseFloat(raw, 64)
		if err != nil || d < 0 {
			respondError(w, apperr.Validation("durationSec must be a non-negative number"))
			return
		}
		duration = d
	}

	audioFile, audioHeader, err := r.FormFile("trackFile")
	if err != nil {
		respondError(w, apperr.Validation("missing 'trackFile' in form"))
		return
	}
	defer audioFile.Close()

	audioURL, err := h.media.UploadAudio(r.Context(), audioFile, audioHeader.Size,
		audioHeader.Filename, audioHeader.Header.Get("Content-Type"))
	if err != nil {
		respondError(w, apperr.Internal(err))
		return
	}

	track := &model.Track{
		Title:       title,
		AudioURL:    audioURL,
		DurationSec: duration,
		Visibility:  visibility,
		ArtistID:    artistID,
	}
	if genre := r.FormValue("genre"); genre != "" {
		track.Genre = &genre
	}

	if coverFile, coverHeader, err := r.FormFile("coverFile"); err == nil {
		defer coverFile.Close()
		coverURL, err := h.media.UploadImage(r.Context(), coverFile, coverHeader.Size,
			coverHeader.Filename, coverHeader.Header.Get("Content-Type"))
		if err != nil {
			respondError(w, apperr.Internal(err))
			return
		}
		track.CoverURL = &coverURL
	}

	if err := h.tracks.Create(r.Context(), track); err != nil {
		respondError(w, apperr.Internal(err))
		return
	}

	logger.Info("track uploaded",
		logger.String("trackId", track.ID), logger.String("artistId", artistID))
	respondJSON(w, http.StatusCreated, track)
}

// GetTrackHandler returns one track, applying the visibility rules.
func (h *APIHandler) GetTrackHandler(w http.ResponseWriter, r *http.Request) {
	track, err := h.tracks.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, apperr.Internal(err))
		return
	}
	if track == nil || !canViewTrack(r, track) {
		respondError(w, apperr.NotFound("track not found"))
		return
	}
	respondJSON(w, http.StatusOK, track)
}

// ListTracksHandler lists public tracks with optional filters.
func (h *APIHandler) ListTracksHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.TrackFilter{
		ArtistID: q.Get("artistId"),
		AlbumID:  q.Get("albumId"),
		Genre:    q.Get("genre"),
		Search:   q.Get("search"),
		Limit:    queryInt(r, "limit", 20),
		Offset:   queryInt(r, "offset", 0),
	}

	tracks, err := h.tracks.List(r.Context(), filter)
	if err != nil {
		respondError(w, apperr.Internal(err))
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"tracks": tracks})
}

// UpdateTrackHandler updates track metadata. Owner or admin.
func (h *APIHandler) UpdateTrackHandler(w http.ResponseWriter, r *http.Request) {
	var req updateTrackRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := checkValid(req); err != nil {
		respondError(w, err)
		return
	}

	track, err := h.resolveOwnedTrack(r, mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}

	track.Title = req.Title
	track.Genre = req.Genre
	track.Visibility = model.Visibility(req.Visibility)
	if err := h.tracks.Update(r.Context(), track); err != nil {
		respondError(w, apperr.Internal(err))
		return
	}
	respondJSON(w, http.StatusOK, track)
}

// DeleteTrackHandler removes the track row and its stored media.
func (h *APIHandler) DeleteTrackHandler(w http.ResponseWriter, r *http.Request) {
	track, err := h.resolveOwnedTrack(r, mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.tracks.Delete(r.Context(), track.ID); err != nil {
		respondError(w, apperr.Internal(err))
		return
	}

	if err := h.media.Remove(r.Context(), track.AudioURL); err != nil {
		logger.Warn("failed to remove audio object",
			logger.String("trackId", track.ID), logger.ErrorField(err))
	}
	if track.CoverURL != nil {
		if err := h.media.Remove(r.Context(), *track.CoverURL); err != nil {
			logger.Warn("failed to remove cover object",
				logger.String("trackId", track.ID), logger.ErrorField(err))
		}
	}

	logger.Info("track deleted", logger.String("trackId", track.ID))
	respondJSON(w, http.StatusOK, map[string]string{"message": "track deleted"})
}

// LikeTrackHandler toggles the like state for the authenticated user.
func (h *APIHandler) LikeTrackHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		respondError(w, apperr.Unauthorized("authentication required"))
		return
	}

	track, err := h.tracks.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, apperr.Internal(err))
		return
	}
	if track == nil || !canViewTrack(r, track) {
		respondError(w, apperr.NotFound("track not found"))
		return
	}

	liked, err := h.tracks.ToggleLike(r.Context(), track.ID, userID)
	if err != nil {
		respondError(w, apperr.Internal(err))
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"liked": liked})
}

// LogPlayHandler records one playback start for the authenticated user.
func (h *APIHandler) LogPlayHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		respondError(w, apperr.Unauthorized("authentication required"))
		return
	}

	track, err := h.tracks.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, apperr.Internal(err))
		return
	}
	if track == nil || !canViewTrack(r, track) {
		respondError(w, apperr.NotFound("track not found"))
		return
	}

	if err := h.tracks.LogPlay(r.Context(), track.ID, userID); err != nil {
		respondError(w, apperr.Internal(err))
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"message": "play recorded"})
}

// GetLyricsHandler returns the track lyrics, if any.
func (h *APIHandler) GetLyricsHandler(w http.ResponseWriter, r *http.Request) {
	track, err := h.tracks.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, apperr.Internal(err))
		return
	}
	if track == nil || !canViewTrack(r, track) {
		respondError(w, apperr.NotFound("track not found"))
		return
	}

	lyrics, err := h.tracks.GetLyrics(r.Context(), track.ID)
	if err != nil {
		respondError(w, apperr.Internal(err))
		return
	}
	if lyrics == nil {
		respondError(w, apperr.NotFound("no lyrics for this track"))
		return
	}
	respondJSON(w, http.StatusOK, lyrics)
}

// UpsertLyricsHandler creates or replaces the track lyrics. Owner or admin.
func (h *APIHandler) UpsertLyricsHandler(w http.ResponseWriter, r *http.Request) {
	var req lyricsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := checkValid(req); err != nil {
		respondError(w, err)
		return
	}

	track, err := h.resolveOwnedTrack(r, mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}

	lyrics, err := h.tracks.UpsertLyrics(r.Context(), track.ID, req.Content)
	if err != nil {
		respondError(w, apperr.Internal(err))
		return
	}
	respondJSON(w, http.StatusOK, lyrics)
}
