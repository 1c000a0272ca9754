package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"alujo/apperr"
	"alujo/logger"
	"alujo/model"
)

type createArtistRequest struct {
	StageName string `json:"stageName" validate:"required,min=2,max=100"`
	Bio       string `json:"bio" validate:"max=2000"`
}

type updateArtistRequest struct {
	StageName string `json:"stageName" validate:"required,min=2,max=100"`
	Bio       string `json:"bio" validate:"max=2000"`
}

// CreateArtistProfileHandler upgrades the authenticated listener to an
// artist by creating their profile.
func (h *APIHandler) CreateArtistProfileHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		respondError(w, apperr.Unauthorized("authentication required"))
		return
	}

	var req createArtistRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := checkValid(req); err != nil {
		respondError(w, err)
		return
	}

	existing, err := h.artists.GetByUserID(r.Context(), userID)
	if err != nil {
		respondError(w, apperr.Internal(err))
		return
	}
	if existing != nil {
		respondError(w, apperr.Conflict("artist profile already exists"))
		return
	}

	profile := &model.ArtistProfile{
		UserID:    userID,
		StageName: req.StageName,
		Bio:       req.Bio,
	}
	if err := h.artists.CreateProfile(r.Context(), profile); err != nil {
		respondError(w, apperr.Internal(err))
		return
	}

	logger.Info("artist profile created",
		logger.String("userId", userID), logger.String("artistId", profile.ID))
	respondJSON(w, http.StatusCreated, profile)
}

// GetArtistHandler returns a public artist profile with its counts.
func (h *APIHandler) GetArtistHandler(w http.ResponseWriter, r *http.Request) {
	artistID := mux.Vars(r)["id"]

	profile, err := h.artists.GetByID(r.Context(), artistID)
	if err != nil {
		respondError(w, apperr.Internal(err))
		return
	}
	if profile == nil {
		respondError(w, apperr.NotFound("artist not found"))
		return
	}

	counts, err := h.artists.Counts(r.Context(), artistID)
	if err != nil {
		respondError(w, apperr.Internal(err))
		return
	}

	resp := map[string]interface{}{
		"artist": profile,
		"counts": counts,
	}
	// Strip the account embed down to its public shape.
	if profile.User != nil {
		resp["user"] = profile.User.Public()
		profile.User = nil
	}
	respondJSON(w, http.StatusOK, resp)
}

// resolveOwnedArtist loads the artist profile and checks the caller owns it.
// Admins bypass ownership.
func (h *APIHandler) resolveOwnedArtist(r *http.Request, artistID string) (*model.ArtistProfile, error) {
	profile, err := h.artists.GetByID(r.Context(), artistID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if profile == nil {
		return nil, apperr.NotFound("artist not found")
	}
	if isAdmin(r.Context()) {
		return profile, nil
	}
	userID, ok := userIDFrom(r.Context())
	if !ok || profile.UserID != userID {
		return nil, apperr.Forbidden("not your artist profile")
	}
	return profile, nil
}

// UpdateArtistHandler updates stage name and bio. Owner or admin only.
func (h *APIHandler) UpdateArtistHandler(w http.ResponseWriter, r *http.Request) {
	artistID := mux.Vars(r)["id"]

	var req updateArtistRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := checkValid(req); err != nil {
		respondError(w, err)
		return
	}

	profile, err := h.resolveOwnedArtist(r, artistID)
	if err != nil {
		respondError(w, err)
		return
	}

	profile.StageName = req.StageName
	profile.Bio = req.Bio
	if err := h.artists.Update(r.Context(), profile); err != nil {
		respondError(w, apperr.Internal(err))
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// UploadArtistCoverHandler replaces the artist cover image. Owner or admin.
func (h *APIHandler) UploadArtistCoverHandler(w http.ResponseWriter, r *http.Request) {
	artistID := mux.Vars(r)["id"]

	profile, err := h.resolveOwnedArtist(r, artistID)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := r.ParseMultipartForm(8 << 20); err != nil {
		respondError(w, apperr.Validation("invalid multipart form"))
		return
	}
	file, header, err := r.FormFile("coverFile")
	if err != nil {
		respondError(w, apperr.Validation("missing 'coverFile' in form"))
		return
	}
	defer file.Close()

	url, err := h.media.UploadImage(r.Context(), file, header.Size,
		header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		respondError(w, apperr.Internal(err))
		return
	}

	if profile.CoverURL != nil {
		if err := h.media.Remove(r.Context(), *profile.CoverURL); err != nil {
			logger.Warn("failed to remove old artist cover",
				logger.String("artistId", artistID), logger.ErrorField(err))
		}
	}

	profile.CoverURL = &url
	if err := h.artists.Update(r.Context(), profile); err != nil {
		respondError(w, apperr.Internal(err))
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// FollowArtistHandler toggles the follow state for the authenticated user.
func (h *APIHandler) FollowArtistHandler(w http.ResponseWriter, r *http.Request) {
	artistID := mux.Vars(r)["id"]
	userID, ok := userIDFrom(r.Context())
	if !ok {
		respondError(w, apperr.Unauthorized("authentication required"))
		return
	}

	profile, err := h.artists.GetByID(r.Context(), artistID)
	if err != nil {
		respondError(w, apperr.Internal(err))
		return
	}
	if profile == nil {
		respondError(w, apperr.NotFound("artist not found"))
		return
	}
	if profile.UserID == userID {
		respondError(w, apperr.Validation("cannot follow your own artist profile"))
		return
	}

	following, err := h.artists.ToggleFollow(r.Context(), artistID, userID)
	if err != nil {
		respondError(w, apperr.Internal(err))
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"following": following})
}

// GetArtistTracksHandler lists the artist's public tracks.
func (h *APIHandler) GetArtistTracksHandler(w http.ResponseWriter, r *http.Request) {
	artistID := mux.Vars(r)["id"]

	tracks, err := h.tracks.ListByArtist(r.Context(), artistID,
		queryInt(r, "limit", 20), queryInt(r, "offset", 0))
	if err != nil {
		respondError(w, apperr.Internal(err))
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"tracks": tracks})
}

// GetArtistAlbumsHandler lists the artist's albums.
func (h *APIHandler) GetArtistAlbumsHandler(w http.ResponseWriter, r *http.Request) {
	artistID := mux.Vars(r)["id"]

	albums, err := h.albums.ListByArtist(r.Context(), artistID,
		queryInt(r, "limit", 20), queryInt(r, "offset", 0))
	if err != nil {
		respondError(w, apperr.Internal(err))
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"albums": albums})
}
