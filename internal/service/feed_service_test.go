package service

import (
	"Foryou/internal/model"
	"Foryou/internal/pkg/consts"
	"Foryou/internal/pkg/ranking"
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type feedFixture struct {
	clock        *testClock
	videos       *fakeVideoRepo
	views        *fakeViewRepo
	interactions *fakeInteractionRepo
	follows      *fakeFollowRepo
	interests    *fakeInterestRepo
	svc          FeedService
}

func newFeedFixture(videos ...*model.Video) *feedFixture {
	f := &feedFixture{
		clock:        newTestClock(),
		videos:       newFakeVideoRepo(videos...),
		views:        &fakeViewRepo{},
		interactions: newFakeInteractionRepo(),
		follows:      newFakeFollowRepo(),
		interests:    newFakeInterestRepo(),
	}
	ranker := ranking.NewRanker(fixedRandom{}, f.clock.Now)
	f.svc = NewFeedService(f.videos, f.views, f.interactions, f.follows, NewInterestService(f.interests),
		NewVideoFormatter(nil, f.interactions), ranker, nil, FeedOptions{
			CacheTTL:       15 * time.Second,
			TrendingTTL:    30 * time.Second,
			CacheCapacity:  1000,
			CandidateLimit: 100,
			Now:            f.clock.Now,
		})
	return f
}

func publicVideo(id, userID uint64, score float64, created time.Time) *model.Video {
	return &model.Video{
		ID:               id,
		UserID:           userID,
		Duration:         75,
		EngagementScore:  score,
		IsPublic:         true,
		IsEligibleForFyp: true,
		CreatedAt:        created.Add(-48 * time.Hour),
		User:             model.User{ID: userID, Username: fmt.Sprintf("user%d", userID)},
	}
}

func TestFeedService_AnonymousPagination(t *testing.T) {
	ctx := context.Background()
	now := newTestClock().Now()
	var videos []*model.Video
	for i := uint64(1); i <= 25; i++ {
		videos = append(videos, publicVideo(i, 1000+i, float64(i*100), now))
	}
	f := newFeedFixture(videos...)

	page1, err := f.svc.GetForYou(ctx, 0, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, consts.FeedSourceLive, page1.Source)
	assert.Equal(t, 25, page1.Total)
	assert.True(t, page1.HasMore)
	require.Len(t, page1.Videos, 10)
	assert.Equal(t, uint64(25), page1.Videos[0].ID)
	assert.Equal(t, "1:15", page1.Videos[0].Duration)
	assert.Equal(t, "user1025", page1.Videos[0].User.Username)

	page3, err := f.svc.GetForYou(ctx, 0, 3, 10)
	require.NoError(t, err)
	assert.False(t, page3.HasMore)
	require.Len(t, page3.Videos, 5)
	assert.Equal(t, uint64(5), page3.Videos[0].ID)

	page9, err := f.svc.GetForYou(ctx, 0, 9, 10)
	require.NoError(t, err)
	assert.NotNil(t, page9.Videos)
	assert.Empty(t, page9.Videos)
}

func TestFeedService_CacheHitAndExpiry(t *testing.T) {
	ctx := context.Background()
	f := newFeedFixture(publicVideo(1, 10, 5, newTestClock().Now()))

	first, err := f.svc.GetForYou(ctx, 0, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, consts.FeedSourceLive, first.Source)

	f.clock.Advance(10 * time.Second)
	second, err := f.svc.GetForYou(ctx, 0, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, consts.FeedSourceCache, second.Source)
	assert.Equal(t, first.Videos, second.Videos)
	assert.Equal(t, consts.FeedSourceLive, first.Source, "cached copy is not mutated")

	f.clock.Advance(6 * time.Second)
	third, err := f.svc.GetForYou(ctx, 0, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, consts.FeedSourceLive, third.Source)
}

func TestFeedService_TrendingFallback(t *testing.T) {
	ctx := context.Background()
	f := newFeedFixture(publicVideo(1, 10, 5, newTestClock().Now()))
	f.videos.strategyErr["enriched"] = errors.New("unknown column")

	out, err := f.svc.GetForYou(ctx, 0, 1, 20)
	require.NoError(t, err)
	assert.Len(t, out.Videos, 1)
	assert.Equal(t, []string{"enriched", "joined"}, f.videos.calls)
}

func TestFeedService_AllStrategiesFail(t *testing.T) {
	ctx := context.Background()
	f := newFeedFixture()
	for _, name := range []string{"enriched", "joined", "plain"} {
		f.videos.strategyErr[name] = errors.New("syntax error")
	}

	_, err := f.svc.GetForYou(ctx, 0, 1, 20)
	assert.ErrorIs(t, err, UnExpectedError)
	code, _ := StatusOf(err)
	assert.Equal(t, InternalServerError, code)
}

func TestFeedService_StoreUnreachable(t *testing.T) {
	ctx := context.Background()
	f := newFeedFixture()
	for _, name := range []string{"enriched", "joined", "plain"} {
		f.videos.strategyErr[name] = driver.ErrBadConn
	}

	_, err := f.svc.GetForYou(ctx, 0, 1, 20)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestFeedService_LimitedVideoOnlyForFollowers(t *testing.T) {
	ctx := context.Background()
	now := newTestClock().Now()
	limited := publicVideo(99, 500, 1000, now)
	limited.IsEligibleForFyp = false
	f := newFeedFixture(
		publicVideo(1, 10, 50, now),
		publicVideo(2, 11, 40, now),
		limited,
	)

	stranger, err := f.svc.GetForYou(ctx, 8, 1, 20)
	require.NoError(t, err)
	for _, v := range stranger.Videos {
		assert.NotEqual(t, uint64(99), v.ID)
	}

	require.NoError(t, f.follows.CreateUserFollow(ctx, &model.UserFollow{FollowerID: 9, FollowingID: 500}))
	follower, err := f.svc.GetForYou(ctx, 9, 1, 20)
	require.NoError(t, err)
	require.Len(t, follower.Videos, 3)
	assert.Equal(t, uint64(99), follower.Videos[0].ID)
	assert.True(t, follower.Videos[0].IsFollowing)
	assert.False(t, follower.Videos[1].IsFollowing)
}

func TestFeedService_PersonalSignals(t *testing.T) {
	ctx := context.Background()
	now := newTestClock().Now()
	f := newFeedFixture(
		publicVideo(1, 10, 50, now),
		publicVideo(2, 11, 40, now),
		publicVideo(3, 12, 30, now),
	)
	f.interactions.notInterested[7] = []uint64{1}
	f.interactions.likes[pair{7, 3}] = now
	f.interactions.saves[pair{7, 2}] = struct{}{}

	out, err := f.svc.GetForYou(ctx, 7, 1, 20)
	require.NoError(t, err)
	require.Len(t, out.Videos, 2)
	assert.Equal(t, uint64(2), out.Videos[0].ID)
	assert.True(t, out.Videos[0].IsSaved)
	assert.True(t, out.Videos[1].IsLiked)
	assert.Equal(t, 2, out.Total)
}

func TestFeedService_InvalidateUser(t *testing.T) {
	ctx := context.Background()
	now := newTestClock().Now()
	f := newFeedFixture(publicVideo(1, 10, 50, now))

	_, err := f.svc.GetForYou(ctx, 7, 1, 20)
	require.NoError(t, err)
	_, err = f.svc.GetForYou(ctx, 8, 1, 20)
	require.NoError(t, err)

	f.svc.InvalidateUser(7)

	out, err := f.svc.GetForYou(ctx, 7, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, consts.FeedSourceLive, out.Source)
	out, err = f.svc.GetForYou(ctx, 8, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, consts.FeedSourceCache, out.Source)
	// 热门缓存不随单个用户失效
	assert.Len(t, f.videos.calls, 1)
}

func TestFeedService_InvalidateUserKeepsOtherUsersAndTrending(t *testing.T) {
	ctx := context.Background()
	now := newTestClock().Now()
	f := newFeedFixture(publicVideo(1, 10, 50, now))

	_, err := f.svc.GetForYou(ctx, 7, 1, 20)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		f.svc.InvalidateUser(7)
		out, err := f.svc.GetForYou(ctx, 7, 1, 20)
		require.NoError(t, err)
		assert.Equal(t, consts.FeedSourceLive, out.Source)
	}
	out, err := f.svc.GetForYou(ctx, 9, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, consts.FeedSourceLive, out.Source)
	f.svc.InvalidateUser(0)

	assert.Equal(t, []string{"enriched"}, f.videos.calls)
}
