package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alujo/core/analytics"
	"alujo/model"
)

type fakeAnalyticsRepo struct {
	history []model.PlayEvent
}

func (f *fakeAnalyticsRepo) CountPlaysByArtist(ctx context.Context, artistID string) (int64, error) {
	return 0, nil
}

func (f *fakeAnalyticsRepo) CountLikesByArtist(ctx context.Context, artistID string) (int64, error) {
	return 0, nil
}

func (f *fakeAnalyticsRepo) PlaysByArtist(ctx context.Context, artistID string) ([]analytics.PlayRow, error) {
	return nil, nil
}

func (f *fakeAnalyticsRepo) TrackStatsByArtist(ctx context.Context, artistID string) ([]analytics.TrackStat, error) {
	return nil, nil
}

func (f *fakeAnalyticsRepo) CountPlaysByTrack(ctx context.Context, trackID string) (int64, error) {
	return 0, nil
}

func (f *fakeAnalyticsRepo) CountLikesByTrack(ctx context.Context, trackID string) (int64, error) {
	return 0, nil
}

func (f *fakeAnalyticsRepo) PlaysByTrackSince(ctx context.Context, trackID string, since time.Time) ([]analytics.PlayRow, error) {
	return nil, nil
}

func (f *fakeAnalyticsRepo) CountPlaysByUser(ctx context.Context, userID string) (int64, error) {
	return 0, nil
}

func (f *fakeAnalyticsRepo) PlaysByUser(ctx context.Context, userID string) ([]analytics.PlayRow, error) {
	return nil, nil
}

func (f *fakeAnalyticsRepo) LikesByUser(ctx context.Context, userID string) ([]analytics.LikeRow, error) {
	return nil, nil
}

func (f *fakeAnalyticsRepo) HistoryByUser(ctx context.Context, userID string, limit, offset int) ([]model.PlayEvent, error) {
	return f.history, nil
}

func (f *fakeAnalyticsRepo) AllPlaysByUser(ctx context.Context, userID string) ([]model.PlayEvent, error) {
	return f.history, nil
}

func historyRequest(userID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/analytics/history", nil)
	ctx := context.WithValue(req.Context(), ctxUserID, userID)
	ctx = context.WithValue(ctx, ctxRole, model.RoleListener)
	return req.WithContext(ctx)
}

func TestHistoryReturnsBareArray(t *testing.T) {
	repo := &fakeAnalyticsRepo{history: []model.PlayEvent{
		{ID: "ev-1", TrackID: "track-1", UserID: "user-1"},
		{ID: "ev-2", TrackID: "track-2", UserID: "user-1"},
	}}
	h := &APIHandler{analytics: analytics.NewService(repo)}

	rec := httptest.NewRecorder()
	h.HistoryHandler(rec, historyRequest("user-1"))

	assert.Equal(t, http.StatusOK, rec.Code)

	var events []model.PlayEvent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	require.Len(t, events, 2)
	assert.Equal(t, "ev-1", events[0].ID)
}

func TestHistoryEmptyIsEmptyArray(t *testing.T) {
	h := &APIHandler{analytics: analytics.NewService(&fakeAnalyticsRepo{})}

	rec := httptest.NewRecorder()
	h.HistoryHandler(rec, historyRequest("user-1"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestExportSetsAttachmentDisposition(t *testing.T) {
	h := &APIHandler{analytics: analytics.NewService(&fakeAnalyticsRepo{})}

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/export", nil)
	ctx := context.WithValue(req.Context(), ctxUserID, "user-1")
	rec := httptest.NewRecorder()
	h.ExportHandler(rec, req.WithContext(ctx))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="analytics-export.json"`,
		rec.Header().Get("Content-Disposition"))
	assert.JSONEq(t, `[]`, rec.Body.String())
}
