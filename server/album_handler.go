package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"alujo/apperr"
	"alujo/logger"
	"alujo/model"
)

type updateAlbumRequest struct {
	Title      string     `json:"title" validate:"required,min=1,max=100"`
	ReleasedAt *time.Time `json:"releasedAt"`
}

type albumTrackRequest struct {
	TrackID string `json:"trackId" validate:"required,uuid4"`
}

// resolveOwnedAlbum loads the album and checks the caller's artist profile
// owns it. Admins bypass ownership.
func (h *APIHandler) resolveOwnedAlbum(r *http.Request, albumID string) (*model.Album, error) {
	album, err := h.albums.GetByID(r.Context(), albumID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if album == nil {
		return nil, apperr.NotFound("album not found")
	}
	if isAdmin(r.Context()) {
		return album, nil
	}
	artistID, ok := artistIDFrom(r.Context())
	if !ok || album.ArtistID != artistID {
		return nil, apperr.Forbidden("not your album")
	}
	return album, nil
}

// CreateAlbumHandler creates an album from a multipart form: title,
// optional release date (RFC3339) and optional cover art.
func (h *APIHandler) CreateAlbumHandler(w http.ResponseWriter, r *http.Request) {
	artistID, ok := artistIDFrom(r.Context())
	if !ok {
		respondError(w, apperr.Forbidden("artist profile required"))
		return
	}

	if err := r.ParseMultipartForm(8 << 20); err != nil {
		respondError(w, apperr.Validation("invalid multipart form"))
		return
	}

	title := r.FormValue("title")
	if title == "" {
		respondError(w, apperr.Validation("title is required"))
		return
	}

	album := &model.Album{Title: title, ArtistID: artistID}
	if raw := r.FormValue("releasedAt"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(w, apperr.Validation("releasedAt must be an RFC3339 timestamp"))
			return
		}
		album.ReleasedAt = &t
	}

	if coverFile, coverHeader, err := r.FormFile("coverFile"); err == nil {
		defer coverFile.Close()
		coverURL, err := h.media.UploadImage(r.Context(), coverFile, coverHeader.Size,
			coverHeader.Filename, coverHeader.Header.Get("Content-Type"))
		if err != nil {
			respondError(w, apperr.Internal(err))
			return
		}
		album.CoverURL = &coverURL
	}

	if err := h.albums.Create(r.Context(), album); err != nil {
		respondError(w, apperr.Internal(err))
		return
	}

	logger.Info("album created",
		logger.String("albumId", album.ID), logger.String("artistId", artistID))
	respondJSON(w, http.StatusCreated, album)
}

// GetAlbumHandler returns the album with its tracks in track order.
func (h *APIHandler) GetAlbumHandler(w http.ResponseWriter, r *http.Request) {
	album, err := h.albums.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, apperr.Internal(err))
		return
	}
	if album == nil {
		respondError(w, apperr.NotFound("album not found"))
		return
	}
	respondJSON(w, http.StatusOK, album)
}

// UpdateAlbumHandler updates album metadata. Owner or admin.
func (h *APIHandler) UpdateAlbumHandler(w http.ResponseWriter, r *http.Request) {
	var req updateAlbumRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := checkValid(req); err != nil {
		respondError(w, err)
		return
	}

	album, err := h.resolveOwnedAlbum(r, mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}

	album.Title = req.Title
	album.ReleasedAt = req.ReleasedAt
	if err := h.albums.Update(r.Context(), album); err != nil {
		respondError(w, apperr.Internal(err))
		return
	}
	respondJSON(w, http.StatusOK, album)
}

// DeleteAlbumHandler deletes the album, detaching its tracks and removing
// the cover from storage.
func (h *APIHandler) DeleteAlbumHandler(w http.ResponseWriter, r *http.Request) {
	album, err := h.resolveOwnedAlbum(r, mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.albums.Delete(r.Context(), album.ID); err != nil {
		respondError(w, apperr.Internal(err))
		return
	}

	if album.CoverURL != nil {
		if err := h.media.Remove(r.Context(), *album.CoverURL); err != nil {
			logger.Warn("failed to remove album cover",
				logger.String("albumId", album.ID), logger.ErrorField(err))
		}
	}

	logger.Info("album deleted", logger.String("albumId", album.ID))
	respondJSON(w, http.StatusOK, map[string]string{"message": "album deleted"})
}

// AddAlbumTrackHandler assigns one of the artist's tracks to the album with
// the next track number.
func (h *APIHandler) AddAlbumTrackHandler(w http.ResponseWriter, r *http.Request) {
	var req albumTrackRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := checkValid(req); err != nil {
		respondError(w, err)
		return
	}

	album, err := h.resolveOwnedAlbum(r, mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}

	track, err := h.tracks.GetByID(r.Context(), req.TrackID)
	if err != nil {
		respondError(w, apperr.Internal(err))
		return
	}
	if track == nil {
		respondError(w, apperr.NotFound("track not found"))
		return
	}
	if track.ArtistID != album.ArtistID {
		respondError(w, apperr.Validation("track belongs to a different artist"))
		return
	}
	if track.AlbumID != nil {
		respondError(w, apperr.Conflict("track is already on an album"))
		return
	}

	updated, err := h.albums.AddTrack(r.Context(), album.ID, track.ID)
	if err != nil {
		respondError(w, apperr.Internal(err))
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// RemoveAlbumTrackHandler detaches a track from the album.
func (h *APIHandler) RemoveAlbumTrackHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	album, err := h.resolveOwnedAlbum(r, vars["id"])
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.albums.RemoveTrack(r.Context(), album.ID, vars["trackId"]); err != nil {
		respondError(w, apperr.Internal(err))
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "track removed from album"})
}
