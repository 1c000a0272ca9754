package server

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"alujo/apperr"
	"alujo/logger"
	"alujo/model"
	"alujo/repository"
)

type createPlaylistRequest struct {
	Title    string `json:"title" validate:"required,min=1,max=100"`
	IsPublic *bool  `json:"isPublic"`
}

type updatePlaylistRequest struct {
	Title    string `json:"title" validate:"required,min=1,max=100"`
	IsPublic *bool  `json:"isPublic"`
}

type playlistTrackRequest struct {
	TrackID string `json:"trackId" validate:"required,uuid4"`
}

// resolveOwnedPlaylist loads the playlist and checks the caller owns it.
// Admins bypass ownership.
func (h *APIHandler) resolveOwnedPlaylist(r *http.Request, playlistID string) (*model.Playlist, error) {
	playlist, err := h.playlists.GetByID(r.Context(), playlistID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if playlist == nil {
		return nil, apperr.NotFound("playlist not found")
	}
	if isAdmin(r.Context()) {
		return playlist, nil
	}
	userID, ok := userIDFrom(r.Context())
	if !ok || playlist.OwnerID != userID {
		return nil, apperr.Forbidden("not your playlist")
	}
	return playlist, nil
}

// CreatePlaylistHandler creates a playlist for the authenticated user.
// Playlists default to public.
func (h *APIHandler) CreatePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		respondError(w, apperr.Unauthorized("authentication required"))
		return
	}

	var req createPlaylistRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := checkValid(req); err != nil {
		respondError(w, err)
		return
	}

	playlist := &model.Playlist{Title: req.Title, OwnerID: userID, IsPublic: true}
	if req.IsPublic != nil {
		playlist.IsPublic = *req.IsPublic
	}

	if err := h.playlists.Create(r.Context(), playlist); err != nil {
		respondError(w, apperr.Internal(err))
		return
	}

	logger.Info("playlist created",
		logger.String("playlistId", playlist.ID), logger.String("ownerId", userID))
	respondJSON(w, http.StatusCreated, playlist)
}

// GetPlaylistHandler returns the playlist with its items in order. Private
// playlists are visible only to their owner.
func (h *APIHandler) GetPlaylistHandler(w http.ResponseWriter, r *http.Request) {
	playlist, err := h.playlists.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, apperr.Internal(err))
		return
	}
	if playlist == nil {
		respondError(w, apperr.NotFound("playlist not found"))
		return
	}
	if !playlist.IsPublic && !isAdmin(r.Context()) {
		userID, ok := userIDFrom(r.Context())
		if !ok || playlist.OwnerID != userID {
			respondError(w, apperr.NotFound("playlist not found"))
			return
		}
	}

	resp := map[string]interface{}{"playlist": playlist}
	// Strip the owner embed down to its public shape.
	if playlist.Owner != nil {
		resp["owner"] = playlist.Owner.Public()
		playlist.Owner = nil
	}
	respondJSON(w, http.StatusOK, resp)
}

// ListUserPlaylistsHandler lists a user's playlists. Private ones appear
// only when the caller is that user or an admin.
func (h *APIHandler) ListUserPlaylistsHandler(w http.ResponseWriter, r *http.Request) {
	ownerID := mux.Vars(r)["userId"]

	includePrivate := isAdmin(r.Context())
	if userID, ok := userIDFrom(r.Context()); ok && userID == ownerID {
		includePrivate = true
	}

	playlists, err := h.playlists.ListByOwner(r.Context(), ownerID, includePrivate)
	if err != nil {
		respondError(w, apperr.Internal(err))
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"playlists": playlists})
}

// UpdatePlaylistHandler renames the playlist or flips its visibility.
func (h *APIHandler) UpdatePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	var req updatePlaylistRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := checkValid(req); err != nil {
		respondError(w, err)
		return
	}

	playlist, err := h.resolveOwnedPlaylist(r, mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}

	playlist.Title = req.Title
	if req.IsPublic != nil {
		playlist.IsPublic = *req.IsPublic
	}
	if err := h.playlists.Update(r.Context(), playlist); err != nil {
		respondError(w, apperr.Internal(err))
		return
	}
	respondJSON(w, http.StatusOK, playlist)
}

// DeletePlaylistHandler removes the playlist and its entries.
func (h *APIHandler) DeletePlaylistHandler(w http.ResponseWriter, r *http.Request) {
	playlist, err := h.resolveOwnedPlaylist(r, mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.playlists.Delete(r.Context(), playlist.ID); err != nil {
		respondError(w, apperr.Internal(err))
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "playlist deleted"})
}

// AddPlaylistTrackHandler appends a track to the playlist.
func (h *APIHandler) AddPlaylistTrackHandler(w http.ResponseWriter, r *http.Request) {
	var req playlistTrackRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if err := checkValid(req); err != nil {
		respondError(w, err)
		return
	}

	playlist, err := h.resolveOwnedPlaylist(r, mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}

	track, err := h.tracks.GetByID(r.Context(), req.TrackID)
	if err != nil {
		respondError(w, apperr.Internal(err))
		return
	}
	if track == nil || !canViewTrack(r, track) {
		respondError(w, apperr.NotFound("track not found"))
		return
	}

	item, err := h.playlists.AddTrack(r.Context(), playlist.ID, track.ID)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			respondError(w, apperr.Conflict("track is already in the playlist"))
			return
		}
		respondError(w, apperr.Internal(err))
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

// RemovePlaylistTrackHandler removes a track from the playlist.
func (h *APIHandler) RemovePlaylistTrackHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	playlist, err := h.resolveOwnedPlaylist(r, vars["id"])
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.playlists.RemoveTrack(r.Context(), playlist.ID, vars["trackId"]); err != nil {
		respondError(w, apperr.Internal(err))
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "track removed from playlist"})
}
