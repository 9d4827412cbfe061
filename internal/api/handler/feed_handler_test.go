package handler

import (
	"Foryou/internal/api/dto"
	"Foryou/internal/model"
	"Foryou/internal/pkg/consts"
	"Foryou/internal/service"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFeedService struct {
	gotUser  uint64
	gotPage  int
	gotLimit int
}

func (f *fakeFeedService) GetForYou(_ context.Context, userID uint64, page, limit int) (*dto.FeedDTO, error) {
	f.gotUser, f.gotPage, f.gotLimit = userID, page, limit
	return &dto.FeedDTO{Videos: []*dto.VideoDTO{}, Page: page, Limit: limit, Source: consts.FeedSourceLive}, nil
}

func (f *fakeFeedService) InvalidateUser(uint64) {}

type fakeTrackService struct {
	viewErr   error
	gotIPHash string
	gotView   *dto.TrackViewDTO
}

func (f *fakeTrackService) TrackView(_ context.Context, _ uint64, ipHash string, req *dto.TrackViewDTO) (*dto.TrackViewResultDTO, error) {
	f.gotIPHash, f.gotView = ipHash, req
	if f.viewErr != nil {
		return nil, f.viewErr
	}
	return &dto.TrackViewResultDTO{OK: true}, nil
}

func (f *fakeTrackService) TrackInteraction(_ context.Context, _ uint64, _ *dto.TrackInteractionDTO) (*dto.TrackInteractionResultDTO, error) {
	return &dto.TrackInteractionResultDTO{OK: true}, nil
}

type fakeScoreService struct {
	score *dto.VideoScoreDTO
}

func (f *fakeScoreService) Recompute(context.Context, uint64) (*model.VideoScore, error) {
	return nil, nil
}

func (f *fakeScoreService) Refresh(context.Context, uint64) (*model.VideoScore, error) {
	return nil, nil
}

func (f *fakeScoreService) GetScore(context.Context, uint64) (*dto.VideoScoreDTO, error) {
	return f.score, nil
}

func setupHandler(feed *fakeFeedService, track *fakeTrackService, score *fakeScoreService, userID uint64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewFeedHandler(feed, track, score, "salt")
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(consts.UserIDKey, userID)
		c.Next()
	})
	r.GET("/foryou", h.ForYou)
	r.POST("/track-view", h.TrackView)
	r.POST("/track-interaction", h.TrackInteraction)
	r.GET("/score/:videoId", h.GetScore)
	return r
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestForYou_NormalizesQuery(t *testing.T) {
	feed := &fakeFeedService{}
	r := setupHandler(feed, &fakeTrackService{}, &fakeScoreService{}, 7)

	w := doRequest(r, http.MethodGet, "/foryou?page=-3&limit=999", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint64(7), feed.gotUser)
	assert.Equal(t, 1, feed.gotPage)
	assert.Equal(t, dto.MaxFeedLimit, feed.gotLimit)
	assert.Contains(t, w.Body.String(), `"source":"live"`)
}

func TestForYou_NonNumericQueryFallsBackToDefaults(t *testing.T) {
	feed := &fakeFeedService{}
	r := setupHandler(feed, &fakeTrackService{}, &fakeScoreService{}, 0)

	w := doRequest(r, http.MethodGet, "/foryou?page=abc&limit=x", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, feed.gotPage)
	assert.Equal(t, dto.DefaultFeedLimit, feed.gotLimit)
}

func TestTrackView_RateLimited(t *testing.T) {
	track := &fakeTrackService{viewErr: &service.RateLimitError{RetryAfter: 1500 * time.Millisecond}}
	r := setupHandler(&fakeFeedService{}, track, &fakeScoreService{}, 3)

	w := doRequest(r, http.MethodPost, "/track-view", `{"videoId":9,"watchTime":3}`)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "2", w.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"`+service.ErrRateLimited.Error()+`","retryAfter":2}`, w.Body.String())
}

func TestTrackView_PassesHashedIP(t *testing.T) {
	track := &fakeTrackService{}
	r := setupHandler(&fakeFeedService{}, track, &fakeScoreService{}, 3)

	w := doRequest(r, http.MethodPost, "/track-view", `{"videoId":9,"watchTime":3,"videoDuration":10}`)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, track.gotView)
	require.NotNil(t, track.gotView.VideoID)
	assert.Equal(t, uint64(9), *track.gotView.VideoID)
	assert.NotEmpty(t, track.gotIPHash)
	assert.NotContains(t, track.gotIPHash, "192.0.2.1")
}

func TestTrackView_ServiceError(t *testing.T) {
	track := &fakeTrackService{viewErr: service.ErrVideoIDRequired}
	r := setupHandler(&fakeFeedService{}, track, &fakeScoreService{}, 3)

	w := doRequest(r, http.MethodPost, "/track-view", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"`+service.ErrVideoIDRequired.Error()+`"}`, w.Body.String())
}

func TestTrackView_MalformedBody(t *testing.T) {
	r := setupHandler(&fakeFeedService{}, &fakeTrackService{}, &fakeScoreService{}, 3)

	w := doRequest(r, http.MethodPost, "/track-view", `{"videoId":"x"`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTrackInteraction_MissingType(t *testing.T) {
	r := setupHandler(&fakeFeedService{}, &fakeTrackService{}, &fakeScoreService{}, 3)

	w := doRequest(r, http.MethodPost, "/track-interaction", `{"videoId":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), service.ErrInteractionType.Error())
}

func TestGetScore(t *testing.T) {
	score := &fakeScoreService{}
	r := setupHandler(&fakeFeedService{}, &fakeTrackService{}, score, 0)

	w := doRequest(r, http.MethodGet, "/score/12", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"score":null}`, w.Body.String())

	score.score = &dto.VideoScoreDTO{VideoID: 12, Score: 42.5, DistributionPhase: "test"}
	w = doRequest(r, http.MethodGet, "/score/12", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"distributionPhase":"test"`)

	w = doRequest(r, http.MethodGet, "/score/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
