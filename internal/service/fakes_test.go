package service

import (
	"Foryou/internal/model"
	"Foryou/internal/repository"
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"
)

type pair [2]uint64

type fakeVideoRepo struct {
	mu          sync.Mutex
	videos      map[uint64]*model.Video
	strategyErr map[string]error
	calls       []string
	refreshed   map[uint64]int
}

func newFakeVideoRepo(videos ...*model.Video) *fakeVideoRepo {
	r := &fakeVideoRepo{
		videos:      make(map[uint64]*model.Video),
		strategyErr: make(map[string]error),
		refreshed:   make(map[uint64]int),
	}
	for _, v := range videos {
		r.videos[v.ID] = v
	}
	return r
}

func (r *fakeVideoRepo) GetVideoByID(_ context.Context, videoID uint64) (*model.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.videos[videoID], nil
}

func (r *fakeVideoRepo) trending(name string, limit int) ([]*model.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, name)
	if err := r.strategyErr[name]; err != nil {
		return nil, err
	}
	var out []*model.Video
	for _, v := range r.videos {
		if v.IsPublic && v.IsEligibleForFyp {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EngagementScore != out[j].EngagementScore {
			return out[i].EngagementScore > out[j].EngagementScore
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeVideoRepo) GetTrendingEnriched(_ context.Context, limit int) ([]*model.Video, error) {
	return r.trending("enriched", limit)
}

func (r *fakeVideoRepo) GetTrendingJoined(_ context.Context, limit int) ([]*model.Video, error) {
	return r.trending("joined", limit)
}

func (r *fakeVideoRepo) GetTrendingPlain(_ context.Context, limit int) ([]*model.Video, error) {
	return r.trending("plain", limit)
}

func (r *fakeVideoRepo) GetRecentVideosByUserIDs(_ context.Context, userIDs []uint64, limit int) ([]*model.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	authors := make(map[uint64]struct{}, len(userIDs))
	for _, id := range userIDs {
		authors[id] = struct{}{}
	}
	var out []*model.Video
	for _, v := range r.videos {
		if _, ok := authors[v.UserID]; ok && v.IsPublic {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeVideoRepo) RefreshCounters(_ context.Context, videoID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refreshed[videoID]++
	return nil
}

func (r *fakeVideoRepo) UpdateEngagement(_ context.Context, videoID uint64, score float64, eligible bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.videos[videoID]; ok {
		v.EngagementScore = score
		v.IsEligibleForFyp = eligible
	}
	return nil
}

type fakeScoreRepo struct {
	mu        sync.Mutex
	rows      map[uint64]model.VideoScore
	conflicts int
	updates   int
}

func newFakeScoreRepo() *fakeScoreRepo {
	return &fakeScoreRepo{rows: make(map[uint64]model.VideoScore)}
}

func (r *fakeScoreRepo) GetByVideoID(_ context.Context, videoID uint64) (*model.VideoScore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[videoID]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (r *fakeScoreRepo) Create(_ context.Context, row *model.VideoScore) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[row.VideoID]; ok {
		return false, nil
	}
	r.rows[row.VideoID] = *row
	return true, nil
}

// UpdateWithVersion 前 conflicts 次模拟并发写入者抢先提交
func (r *fakeScoreRepo) UpdateWithVersion(_ context.Context, row *model.VideoScore) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates++
	stored := r.rows[row.VideoID]
	if r.conflicts > 0 {
		r.conflicts--
		stored.Version++
		r.rows[row.VideoID] = stored
		return false, nil
	}
	if stored.Version != row.Version {
		return false, nil
	}
	row.Version++
	r.rows[row.VideoID] = *row
	return true, nil
}

type fakeViewRepo struct {
	mu     sync.Mutex
	events []*model.ViewEvent
}

func (r *fakeViewRepo) Create(_ context.Context, event *model.ViewEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *fakeViewRepo) ExistsSince(_ context.Context, userID, videoID uint64, since time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e.UserID == userID && e.VideoID == videoID && e.CreatedAt.After(since) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeViewRepo) GetStats(_ context.Context, videoID uint64) (*repository.ViewStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var stats repository.ViewStats
	for _, e := range r.events {
		if e.VideoID != videoID {
			continue
		}
		stats.Views++
		stats.WatchTime += e.WatchTimeSeconds
		if e.Completed {
			stats.Completions++
		}
	}
	return &stats, nil
}

func (r *fakeViewRepo) GetRecentWatchedIDs(_ context.Context, userID uint64, limit int) ([]uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uint64
	seen := map[uint64]struct{}{}
	for i := len(r.events) - 1; i >= 0 && len(ids) < limit; i-- {
		e := r.events[i]
		if e.UserID != userID {
			continue
		}
		if _, ok := seen[e.VideoID]; ok {
			continue
		}
		seen[e.VideoID] = struct{}{}
		ids = append(ids, e.VideoID)
	}
	return ids, nil
}

func (r *fakeViewRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

type fakeInteractionRepo struct {
	mu            sync.Mutex
	likes         map[pair]time.Time
	saves         map[pair]struct{}
	comments      []*model.VideoComment
	shares        []*model.VideoShare
	notInterested map[uint64][]uint64
	likedCats     map[uint64]map[string]int
	createLikeErr error
}

func newFakeInteractionRepo() *fakeInteractionRepo {
	return &fakeInteractionRepo{
		likes:         make(map[pair]time.Time),
		saves:         make(map[pair]struct{}),
		notInterested: make(map[uint64][]uint64),
		likedCats:     make(map[uint64]map[string]int),
	}
}

func (r *fakeInteractionRepo) CreateLike(_ context.Context, like *model.VideoLike) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createLikeErr != nil {
		return r.createLikeErr
	}
	key := pair{like.UserID, like.VideoID}
	if _, ok := r.likes[key]; ok {
		return &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
	}
	r.likes[key] = like.CreatedAt
	return nil
}

func (r *fakeInteractionRepo) DeleteLike(_ context.Context, userID, videoID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.likes, pair{userID, videoID})
	return nil
}

func (r *fakeInteractionRepo) CheckLikeExists(_ context.Context, userID, videoID uint64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.likes[pair{userID, videoID}]
	return ok, nil
}

func (r *fakeInteractionRepo) CreateComment(_ context.Context, comment *model.VideoComment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.comments = append(r.comments, comment)
	return nil
}

func (r *fakeInteractionRepo) CreateShare(_ context.Context, share *model.VideoShare) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shares = append(r.shares, share)
	return nil
}

func (r *fakeInteractionRepo) GetCounts(_ context.Context, videoID uint64) (*repository.InteractionCounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var c repository.InteractionCounts
	for k := range r.likes {
		if k[1] == videoID {
			c.Likes++
		}
	}
	for _, cm := range r.comments {
		if cm.VideoID == videoID {
			c.Comments++
		}
	}
	for _, sh := range r.shares {
		if sh.VideoID == videoID {
			c.Shares++
		}
	}
	return &c, nil
}

func (r *fakeInteractionRepo) GetLikedVideoIDs(_ context.Context, userID uint64, videoIDs []uint64) ([]uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []uint64
	for _, id := range videoIDs {
		if _, ok := r.likes[pair{userID, id}]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (r *fakeInteractionRepo) GetSavedVideoIDs(_ context.Context, userID uint64, videoIDs []uint64) ([]uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []uint64
	for _, id := range videoIDs {
		if _, ok := r.saves[pair{userID, id}]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (r *fakeInteractionRepo) GetNotInterestedIDs(_ context.Context, userID uint64) ([]uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.notInterested[userID], nil
}

func (r *fakeInteractionRepo) GetRecentLikedCategories(_ context.Context, userID uint64, _ int) (map[string]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.likedCats[userID], nil
}

type fakeFollowRepo struct {
	mu      sync.Mutex
	follows map[pair]*model.UserFollow
}

func newFakeFollowRepo() *fakeFollowRepo {
	return &fakeFollowRepo{follows: make(map[pair]*model.UserFollow)}
}

func (r *fakeFollowRepo) GetUserFollow(_ context.Context, userID, followingID uint64) (*model.UserFollow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.follows[pair{userID, followingID}], nil
}

func (r *fakeFollowRepo) CreateUserFollow(_ context.Context, f *model.UserFollow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.follows[pair{f.FollowerID, f.FollowingID}] = f
	return nil
}

func (r *fakeFollowRepo) DeleteUserFollow(_ context.Context, f *model.UserFollow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.follows, pair{f.FollowerID, f.FollowingID})
	return nil
}

func (r *fakeFollowRepo) GetFollowingIDs(_ context.Context, userID uint64) ([]uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uint64
	for k := range r.follows {
		if k[0] == userID {
			ids = append(ids, k[1])
		}
	}
	return ids, nil
}

type fakeInterestRepo struct {
	mu      sync.Mutex
	weights map[uint64]map[string]float64
}

func newFakeInterestRepo() *fakeInterestRepo {
	return &fakeInterestRepo{weights: make(map[uint64]map[string]float64)}
}

func (r *fakeInterestRepo) IncrementWeight(_ context.Context, userID uint64, category string, step, max float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.weights[userID] == nil {
		r.weights[userID] = make(map[string]float64)
	}
	w := r.weights[userID][category] + step
	if w > max {
		w = max
	}
	r.weights[userID][category] = w
	return nil
}

func (r *fakeInterestRepo) GetTopCategoryInterests(_ context.Context, userID uint64, limit int) ([]*model.UserInterest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.UserInterest
	for c, w := range r.weights[userID] {
		if strings.HasPrefix(c, "#") {
			continue
		}
		out = append(out, &model.UserInterest{UserID: userID, Category: c, Weight: w})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].Category < out[j].Category
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeInterestRepo) weight(userID uint64, category string) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.weights[userID][category]
}

type fakeAbuseRepo struct {
	mu      sync.Mutex
	entries []*model.AbuseLog
	err     error
}

func (r *fakeAbuseRepo) Create(_ context.Context, entry *model.AbuseLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, entry)
	return nil
}

type fakeInvalidator struct {
	mu    sync.Mutex
	users []uint64
}

func (f *fakeInvalidator) InvalidateUser(userID uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users = append(f.users, userID)
}

type fixedRandom struct {
	n int
	f float64
}

func (r fixedRandom) Float64() float64 { return r.f }

func (r fixedRandom) IntN(int) int { return r.n }

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func strPtr(s string) *string { return &s }

func u64Ptr(v uint64) *uint64 { return &v }

func duplicateKeyErr() error {
	return &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
}
