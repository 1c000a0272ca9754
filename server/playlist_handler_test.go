package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"alujo/model"
)

type fakePlaylistRepo struct {
	playlists map[string]*model.Playlist
}

func (f *fakePlaylistRepo) Create(ctx context.Context, playlist *model.Playlist) error {
	f.playlists[playlist.ID] = playlist
	return nil
}

func (f *fakePlaylistRepo) GetByID(ctx context.Context, id string) (*model.Playlist, error) {
	return f.playlists[id], nil
}

func (f *fakePlaylistRepo) ListByOwner(ctx context.Context, ownerID string, includePrivate bool) ([]model.Playlist, error) {
	return nil, nil
}

func (f *fakePlaylistRepo) Update(ctx context.Context, playlist *model.Playlist) error {
	return nil
}

func (f *fakePlaylistRepo) Delete(ctx context.Context, id string) error {
	return nil
}

func (f *fakePlaylistRepo) AddTrack(ctx context.Context, playlistID, trackID string) (*model.PlaylistTrack, error) {
	return nil, nil
}

func (f *fakePlaylistRepo) RemoveTrack(ctx context.Context, playlistID, trackID string) error {
	return nil
}

func TestGetPlaylistStripsOwnerToPublicShape(t *testing.T) {
	playlist := &model.Playlist{
		ID:       "pl-1",
		Title:    "Morning drive",
		IsPublic: true,
		OwnerID:  "user-1",
		Owner: &model.User{
			ID:          "user-1",
			Email:       "owner@example.com",
			DisplayName: "Wale",
			Role:        model.RoleListener,
		},
	}
	h := &APIHandler{playlists: &fakePlaylistRepo{playlists: map[string]*model.Playlist{
		playlist.ID: playlist,
	}}}

	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/playlists/pl-1", nil),
		map[string]string{"id": "pl-1"})
	rec := httptest.NewRecorder()
	h.GetPlaylistHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"title":"Morning drive"`)
	assert.Contains(t, body, `"displayName":"Wale"`)
	assert.NotContains(t, body, "owner@example.com")
}

func TestGetPrivatePlaylistHiddenFromStrangers(t *testing.T) {
	playlist := &model.Playlist{
		ID:       "pl-2",
		Title:    "Secret stash",
		IsPublic: false,
		OwnerID:  "user-1",
	}
	h := &APIHandler{playlists: &fakePlaylistRepo{playlists: map[string]*model.Playlist{
		playlist.ID: playlist,
	}}}

	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/playlists/pl-2", nil),
		map[string]string{"id": "pl-2"})
	rec := httptest.NewRecorder()
	h.GetPlaylistHandler(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetPrivatePlaylistVisibleToOwner(t *testing.T) {
	playlist := &model.Playlist{
		ID:       "pl-2",
		Title:    "Secret stash",
		IsPublic: false,
		OwnerID:  "user-1",
	}
	h := &APIHandler{playlists: &fakePlaylistRepo{playlists: map[string]*model.Playlist{
		playlist.ID: playlist,
	}}}

	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/playlists/pl-2", nil),
		map[string]string{"id": "pl-2"})
	ctx := context.WithValue(req.Context(), ctxUserID, "user-1")
	ctx = context.WithValue(ctx, ctxRole, model.RoleListener)
	rec := httptest.NewRecorder()
	h.GetPlaylistHandler(rec, req.WithContext(ctx))

	assert.Equal(t, http.StatusOK, rec.Code)
}
