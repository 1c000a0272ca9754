package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alujo/config"
	"alujo/core/auth"
	"alujo/model"
)

type fakeUserRepo struct {
	users map[string]*model.User
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *model.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	return nil
}

func (f *fakeUserRepo) UpdateCountry(ctx context.Context, userID string, country *string) error {
	return nil
}

func testHandler(t *testing.T, users ...*model.User) (*APIHandler, *auth.TokenIssuer) {
	t.Helper()
	cfg := &config.Config{
		JWTAccessSecret:  "test-access-secret",
		JWTRefreshSecret: "test-refresh-secret",
		AccessTokenTTL:   time.Hour,
		RefreshTokenTTL:  time.Hour,
		ResetTokenTTL:    time.Hour,
	}
	tokens := auth.NewTokenIssuer(cfg)

	repo := &fakeUserRepo{users: map[string]*model.User{}}
	for _, u := range users {
		repo.users[u.ID] = u
	}

	h := &APIHandler{cfg: cfg, users: repo, tokens: tokens}
	return h, tokens
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	h, _ := testHandler(t)
	next := h.AuthMiddleware(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	})

	rec := httptest.NewRecorder()
	next.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"authorization header is required"}`, rec.Body.String())
}

func TestAuthMiddlewareRejectsMalformedHeader(t *testing.T) {
	h, _ := testHandler(t)
	next := h.AuthMiddleware(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	next.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareRejectsGarbageToken(t *testing.T) {
	h, _ := testHandler(t)
	next := h.AuthMiddleware(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	next.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareRejectsDeletedAccount(t *testing.T) {
	h, tokens := testHandler(t)
	token, err := tokens.AccessToken("gone-user")
	require.NoError(t, err)

	next := h.AuthMiddleware(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	next.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddlewareInjectsAccount(t *testing.T) {
	user := &model.User{
		ID:    "user-1",
		Email: "artist@example.com",
		Role:  model.RoleArtist,
		Artist: &model.ArtistProfile{
			ID:     "artist-1",
			UserID: "user-1",
		},
	}
	h, tokens := testHandler(t, user)
	token, err := tokens.AccessToken(user.ID)
	require.NoError(t, err)

	var gotUser, gotArtist string
	var gotRole model.Role
	next := h.AuthMiddleware(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = userIDFrom(r.Context())
		gotRole, _ = roleFrom(r.Context())
		gotArtist, _ = artistIDFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	next.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", gotUser)
	assert.Equal(t, model.RoleArtist, gotRole)
	assert.Equal(t, "artist-1", gotArtist)
}

func TestAuthMiddlewareRejectsRefreshTokenAsAccess(t *testing.T) {
	user := &model.User{ID: "user-1", Role: model.RoleListener}
	h, tokens := testHandler(t, user)
	refresh, err := tokens.RefreshToken(user.ID)
	require.NoError(t, err)

	next := h.AuthMiddleware(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	rec := httptest.NewRecorder()
	next.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRoleForbidsListener(t *testing.T) {
	user := &model.User{ID: "listener-1", Role: model.RoleListener}
	h, tokens := testHandler(t, user)
	token, err := tokens.AccessToken(user.ID)
	require.NoError(t, err)

	next := h.AuthMiddleware(h.RequireRole(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}, model.RoleArtist))

	req := httptest.NewRequest(http.MethodPost, "/api/tracks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	next.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleAdminBypassesCheck(t *testing.T) {
	user := &model.User{ID: "admin-1", Role: model.RoleAdmin}
	h, tokens := testHandler(t, user)
	token, err := tokens.AccessToken(user.ID)
	require.NoError(t, err)

	called := false
	next := h.AuthMiddleware(h.RequireRole(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}, model.RoleArtist))

	req := httptest.NewRequest(http.MethodPost, "/api/tracks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	next.ServeHTTP(rec, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOptionalAuthPassesAnonymous(t *testing.T) {
	h, _ := testHandler(t)

	var hasUser bool
	next := h.OptionalAuth(func(w http.ResponseWriter, r *http.Request) {
		_, hasUser = userIDFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	next.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/discover/recommended", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, hasUser)
}

func TestOptionalAuthAttachesValidAccount(t *testing.T) {
	user := &model.User{ID: "user-9", Role: model.RoleListener}
	h, tokens := testHandler(t, user)
	token, err := tokens.AccessToken(user.ID)
	require.NoError(t, err)

	var gotUser string
	next := h.OptionalAuth(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = userIDFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/discover/recommended", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	next.ServeHTTP(rec, req)

	assert.Equal(t, "user-9", gotUser)
}
