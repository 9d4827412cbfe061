package service

import (
	"Foryou/internal/api/dto"
	"Foryou/internal/model"
	"Foryou/internal/pkg/cache"
	"Foryou/internal/pkg/consts"
	"Foryou/internal/pkg/ranking"
	"Foryou/internal/pkg/util"
	"Foryou/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	trendingCacheKey     = "trending"
	watchedHistoryLimit  = 200
	likedCategoryLimit   = 50
	followedVideosLimit  = 50
	defaultCandidateSize = 100
)

// FeedOptions 推荐流缓存参数
type FeedOptions struct {
	CacheTTL       time.Duration
	TrendingTTL    time.Duration
	CacheCapacity  int
	CandidateLimit int
	Now            util.Clock
}

// ImpressionRecorder 记录一次推荐流曝光，实现需自行处理超时
type ImpressionRecorder interface {
	RecordImpression(ctx context.Context, userID uint64, source string, page int, videoIDs []uint64)
}

type FeedService interface {
	GetForYou(ctx context.Context, userID uint64, page, limit int) (*dto.FeedDTO, error)
	InvalidateUser(userID uint64)
}

type trendingStrategy struct {
	name  string
	fetch func(ctx context.Context, limit int) ([]*model.Video, error)
}

type feedServiceImpl struct {
	videoRepo       repository.VideoRepo
	viewRepo        repository.ViewEventRepo
	interactionRepo repository.InteractionRepo
	followRepo      repository.UserFollowRepo
	interestService InterestService
	formatter       *VideoFormatter
	ranker          *ranking.Ranker
	impressions     ImpressionRecorder

	feedCache      *cache.TTLCache[string, *dto.FeedDTO]
	trendingCache  *cache.TTLCache[string, []*model.Video]
	strategies     []trendingStrategy
	candidateLimit int
}

func NewFeedService(
	videoRepo repository.VideoRepo,
	viewRepo repository.ViewEventRepo,
	interactionRepo repository.InteractionRepo,
	followRepo repository.UserFollowRepo,
	interestService InterestService,
	formatter *VideoFormatter,
	ranker *ranking.Ranker,
	impressions ImpressionRecorder,
	opts FeedOptions,
) FeedService {
	if opts.CandidateLimit <= 0 {
		opts.CandidateLimit = defaultCandidateSize
	}
	s := &feedServiceImpl{
		videoRepo:       videoRepo,
		viewRepo:        viewRepo,
		interactionRepo: interactionRepo,
		followRepo:      followRepo,
		interestService: interestService,
		formatter:       formatter,
		ranker:          ranker,
		impressions:     impressions,
		feedCache:       cache.NewTTLCache[string, *dto.FeedDTO](opts.CacheTTL, opts.CacheCapacity, opts.Now),
		trendingCache:   cache.NewTTLCache[string, []*model.Video](opts.TrendingTTL, 0, opts.Now),
		candidateLimit:  opts.CandidateLimit,
	}
	s.strategies = []trendingStrategy{
		{name: "enriched", fetch: videoRepo.GetTrendingEnriched},
		{name: "joined", fetch: videoRepo.GetTrendingJoined},
		{name: "plain", fetch: videoRepo.GetTrendingPlain},
	}
	return s
}

// GetForYou 推荐流：命中 15 秒内的缓存直接返回，否则取热门候选、叠加个性化信号排序后分页
func (s *feedServiceImpl) GetForYou(ctx context.Context, userID uint64, page, limit int) (*dto.FeedDTO, error) {
	key := feedCacheKey(userID, page, limit)
	if cached, ok := s.feedCache.Get(key); ok {
		out := *cached
		out.Source = consts.FeedSourceCache
		return &out, nil
	}

	trending, err := s.loadTrending(ctx)
	if err != nil {
		return nil, err
	}

	var ranked []ranking.Scored
	var following map[uint64]struct{}
	if userID == 0 {
		ranked = s.ranker.Rank(trending, nil)
	} else {
		uc, err := s.loadUserContext(ctx, userID)
		if err != nil {
			return nil, err
		}
		following = uc.Following

		pool, err := s.mergeFollowedVideos(ctx, trending, uc.Following)
		if err != nil {
			return nil, err
		}
		ranked = s.ranker.Rank(pool, uc)
	}

	total := len(ranked)
	offset := (page - 1) * limit
	end := offset + limit
	if offset > total {
		offset = total
	}
	if end > total {
		end = total
	}

	pageVideos := make([]*model.Video, 0, end-offset)
	for _, item := range ranked[offset:end] {
		pageVideos = append(pageVideos, item.Video)
	}

	videos, err := s.formatter.Format(ctx, userID, pageVideos, following)
	if err != nil {
		return nil, err
	}

	out := &dto.FeedDTO{
		Videos:  videos,
		Page:    page,
		Limit:   limit,
		HasMore: (page-1)*limit+limit < total,
		Total:   total,
		Source:  consts.FeedSourceLive,
	}
	s.feedCache.Set(key, out)
	if evicted := s.feedCache.EvictIfOverCapacity(); evicted > 0 {
		log.InfoContext(ctx, "feed cache evicted", "count", evicted)
	}

	s.recordImpression(ctx, userID, page, pageVideos)

	result := *out
	return &result, nil
}

// InvalidateUser 丢弃该用户的推荐流缓存，热门缓存按 TTL 过期
func (s *feedServiceImpl) InvalidateUser(userID uint64) {
	if userID == 0 {
		return
	}
	prefix := fmt.Sprintf("u:%d:", userID)
	s.feedCache.DeleteFunc(func(k string) bool {
		return strings.HasPrefix(k, prefix)
	})
}

// loadTrending 依次尝试各级热门查询，取第一个成功的结果
func (s *feedServiceImpl) loadTrending(ctx context.Context) ([]*model.Video, error) {
	if videos, ok := s.trendingCache.Get(trendingCacheKey); ok {
		return videos, nil
	}

	var lastErr error
	for _, strategy := range s.strategies {
		videos, err := runStrategy(ctx, strategy, s.candidateLimit)
		if err == nil {
			s.trendingCache.Set(trendingCacheKey, videos)
			return videos, nil
		}
		log.WarnContext(ctx, "trending strategy failed", "strategy", strategy.name, "err", err)
		lastErr = err
	}

	if isConnectivityError(lastErr) {
		return nil, fmt.Errorf("load trending: %w: %v", ErrStoreUnavailable, lastErr)
	}
	log.ErrorContext(ctx, "all trending strategies failed", "err", lastErr)
	return nil, fmt.Errorf("load trending: %w", UnExpectedError)
}

func runStrategy(ctx context.Context, strategy trendingStrategy, limit int) (videos []*model.Video, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("strategy %s panicked: %v", strategy.name, r)
		}
	}()
	return strategy.fetch(ctx, limit)
}

func (s *feedServiceImpl) loadUserContext(ctx context.Context, userID uint64) (*ranking.UserContext, error) {
	var (
		followingIDs []uint64
		interests    map[string]float64
		watchedIDs   []uint64
		excludedIDs  []uint64
		liked        map[string]int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		followingIDs, err = s.followRepo.GetFollowingIDs(gctx, userID)
		return classifyStoreErr("load following", err)
	})
	g.Go(func() error {
		var err error
		interests, err = s.interestService.GetUserInterests(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		watchedIDs, err = s.viewRepo.GetRecentWatchedIDs(gctx, userID, watchedHistoryLimit)
		return classifyStoreErr("load watched", err)
	})
	g.Go(func() error {
		var err error
		excludedIDs, err = s.interactionRepo.GetNotInterestedIDs(gctx, userID)
		return classifyStoreErr("load not interested", err)
	})
	g.Go(func() error {
		var err error
		liked, err = s.interactionRepo.GetRecentLikedCategories(gctx, userID, likedCategoryLimit)
		return classifyStoreErr("load liked categories", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &ranking.UserContext{
		Following:       toSet(followingIDs),
		Interests:       interests,
		Watched:         toSet(watchedIDs),
		Excluded:        toSet(excludedIDs),
		LikedCategories: liked,
	}, nil
}

// mergeFollowedVideos 关注作者的视频不受分发阶段限制，补进候选池
func (s *feedServiceImpl) mergeFollowedVideos(ctx context.Context, trending []*model.Video, following map[uint64]struct{}) ([]*model.Video, error) {
	pool := make([]*model.Video, 0, len(trending))
	pool = append(pool, trending...)
	if len(following) == 0 {
		return pool, nil
	}

	authorIDs := make([]uint64, 0, len(following))
	for id := range following {
		authorIDs = append(authorIDs, id)
	}
	followed, err := s.videoRepo.GetRecentVideosByUserIDs(ctx, authorIDs, followedVideosLimit)
	if err != nil {
		return nil, classifyStoreErr("load followed videos", err)
	}

	inPool := make(map[uint64]struct{}, len(pool))
	for _, v := range pool {
		inPool[v.ID] = struct{}{}
	}
	for _, v := range followed {
		if _, ok := inPool[v.ID]; ok {
			continue
		}
		inPool[v.ID] = struct{}{}
		pool = append(pool, v)
	}
	return pool, nil
}

func (s *feedServiceImpl) recordImpression(ctx context.Context, userID uint64, page int, videos []*model.Video) {
	if s.impressions == nil || len(videos) == 0 {
		return
	}
	ids := make([]uint64, 0, len(videos))
	for _, v := range videos {
		ids = append(ids, v.ID)
	}
	go s.impressions.RecordImpression(context.WithoutCancel(ctx), userID, consts.FeedSourceLive, page, ids)
}

func feedCacheKey(userID uint64, page, limit int) string {
	if userID == 0 {
		return fmt.Sprintf("anon:%d:%d", page, limit)
	}
	return fmt.Sprintf("u:%d:%d:%d", userID, page, limit)
}
