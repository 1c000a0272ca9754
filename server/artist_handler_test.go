package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"alujo/model"
	"alujo/repository"
)

type fakeArtistRepo struct {
	profiles map[string]*model.ArtistProfile
}

func (f *fakeArtistRepo) CreateProfile(ctx context.Context, profile *model.ArtistProfile) error {
	f.profiles[profile.ID] = profile
	return nil
}

func (f *fakeArtistRepo) GetByID(ctx context.Context, id string) (*model.ArtistProfile, error) {
	return f.profiles[id], nil
}

func (f *fakeArtistRepo) GetByUserID(ctx context.Context, userID string) (*model.ArtistProfile, error) {
	for _, p := range f.profiles {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeArtistRepo) Update(ctx context.Context, profile *model.ArtistProfile) error {
	return nil
}

func (f *fakeArtistRepo) Counts(ctx context.Context, artistID string) (*repository.ArtistProfileCounts, error) {
	return &repository.ArtistProfileCounts{Followers: 3, Tracks: 2, Albums: 1}, nil
}

func (f *fakeArtistRepo) ToggleFollow(ctx context.Context, artistID, followerID string) (bool, error) {
	return true, nil
}

func TestGetArtistStripsAccountToPublicShape(t *testing.T) {
	profile := &model.ArtistProfile{
		ID:        "artist-1",
		UserID:    "user-1",
		StageName: "Seun",
		User: &model.User{
			ID:          "user-1",
			Email:       "seun@example.com",
			DisplayName: "Seun A",
			Role:        model.RoleArtist,
		},
	}
	h := &APIHandler{artists: &fakeArtistRepo{profiles: map[string]*model.ArtistProfile{
		profile.ID: profile,
	}}}

	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/artists/artist-1", nil),
		map[string]string{"id": "artist-1"})
	rec := httptest.NewRecorder()
	h.GetArtistHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"stageName":"Seun"`)
	assert.Contains(t, body, `"displayName":"Seun A"`)
	assert.Contains(t, body, `"followers":3`)
	assert.NotContains(t, body, "seun@example.com")
	assert.NotContains(t, body, "role")
}

func TestGetArtistUnknownIDIs404(t *testing.T) {
	h := &APIHandler{artists: &fakeArtistRepo{profiles: map[string]*model.ArtistProfile{}}}

	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/artists/nope", nil),
		map[string]string{"id": "nope"})
	rec := httptest.NewRecorder()
	h.GetArtistHandler(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
