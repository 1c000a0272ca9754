package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

// EditorPicksHandler returns the editorially flagged tracks.
func (h *APIHandler) EditorPicksHandler(w http.ResponseWriter, r *http.Request) {
	tracks, err := h.discover.EditorPicks(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"tracks": tracks})
}

// TrendingHandler returns the most played tracks of the last week.
func (h *APIHandler) TrendingHandler(w http.ResponseWriter, r *http.Request) {
	tracks, err := h.discover.Trending(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"tracks": tracks})
}

// NewReleasesHandler returns the newest public tracks.
func (h *APIHandler) NewReleasesHandler(w http.ResponseWriter, r *http.Request) {
	tracks, err := h.discover.NewReleases(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"tracks": tracks})
}

// RecommendedHandler personalizes by the caller's top liked genres when a
// token is present and falls back to globally most played for guests.
func (h *APIHandler) RecommendedHandler(w http.ResponseWriter, r *http.Request) {
	userID, _ := userIDFrom(r.Context())

	tracks, err := h.discover.Recommended(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"tracks": tracks})
}

// GenreFeedHandler lists public tracks for one genre.
func (h *APIHandler) GenreFeedHandler(w http.ResponseWriter, r *http.Request) {
	tracks, err := h.discover.GenreFeed(r.Context(), mux.Vars(r)["genre"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"tracks": tracks})
}
