package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"alujo/apperr"
	"alujo/model"
)

// ArtistAnalyticsHandler returns the artist dashboard summary. The owning
// artist or an admin only; authorization happens here, never inside the
// aggregation service.
func (h *APIHandler) ArtistAnalyticsHandler(w http.ResponseWriter, r *http.Request) {
	artistID := mux.Vars(r)["artistId"]

	profile, err := h.artists.GetByID(r.Context(), artistID)
	if err != nil {
		respondError(w, apperr.Internal(err))
		return
	}
	if profile == nil {
		respondError(w, apperr.NotFound("artist not found"))
		return
	}
	if !isAdmin(r.Context()) {
		userID, ok := userIDFrom(r.Context())
		if !ok || profile.UserID != userID {
			respondError(w, apperr.Forbidden("not your analytics"))
			return
		}
	}

	summary, err := h.analytics.ArtistSummary(r.Context(), artistID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// TrackAnalyticsHandler returns the per-track summary. The owning artist or
// an admin only.
func (h *APIHandler) TrackAnalyticsHandler(w http.ResponseWriter, r *http.Request) {
	track, err := h.resolveOwnedTrack(r, mux.Vars(r)["trackId"])
	if err != nil {
		respondError(w, err)
		return
	}

	summary, err := h.analytics.TrackSummary(r.Context(), track.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// ListenerAnalyticsHandler returns a listener's own summary. Self or admin.
func (h *APIHandler) ListenerAnalyticsHandler(w http.ResponseWriter, r *http.Request) {
	targetID := mux.Vars(r)["userId"]

	if !isAdmin(r.Context()) {
		userID, ok := userIDFrom(r.Context())
		if !ok || userID != targetID {
			respondError(w, apperr.Forbidden("not your analytics"))
			return
		}
	}

	summary, err := h.analytics.ListenerSummary(r.Context(), targetID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// HistoryHandler returns the caller's play history, newest first.
func (h *APIHandler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		respondError(w, apperr.Unauthorized("authentication required"))
		return
	}

	events, err := h.analytics.History(r.Context(), userID,
		queryInt(r, "limit", 50), queryInt(r, "offset", 0))
	if err != nil {
		respondError(w, err)
		return
	}
	if events == nil {
		events = []model.PlayEvent{}
	}
	respondJSON(w, http.StatusOK, events)
}

// ExportHandler streams the caller's full play history as a JSON download.
func (h *APIHandler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r.Context())
	if !ok {
		respondError(w, apperr.Unauthorized("authentication required"))
		return
	}

	events, err := h.analytics.Export(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	if events == nil {
		events = []model.PlayEvent{}
	}

	w.Header().Set("Content-Disposition", `attachment; filename="analytics-export.json"`)
	respondJSON(w, http.StatusOK, events)
}
