package service

import (
	"Foryou/internal/api/dto"
	"Foryou/internal/model"
	"Foryou/internal/pkg/consts"
	"Foryou/internal/pkg/guard"
	"Foryou/internal/pkg/util"
	"Foryou/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxCommentRunes    = 1000
	defaultDedupWindow = 2 * time.Second
)

type TrackService interface {
	TrackView(ctx context.Context, userID uint64, ipHash string, req *dto.TrackViewDTO) (*dto.TrackViewResultDTO, error)
	TrackInteraction(ctx context.Context, userID uint64, req *dto.TrackInteractionDTO) (*dto.TrackInteractionResultDTO, error)
}

// FeedInvalidator 互动后清理推荐流缓存
type FeedInvalidator interface {
	InvalidateUser(userID uint64)
}

type trackServiceImpl struct {
	videoRepo       repository.VideoRepo
	viewRepo        repository.ViewEventRepo
	abuseRepo       repository.AbuseLogRepo
	interactionRepo repository.InteractionRepo
	followRepo      repository.UserFollowRepo
	scoreService    ScoreService
	interestService InterestService
	invalidator     FeedInvalidator
	limiter         *guard.ViewRateLimiter
	dedupWindow     time.Duration
	now             util.Clock
}

func NewTrackService(
	videoRepo repository.VideoRepo,
	viewRepo repository.ViewEventRepo,
	abuseRepo repository.AbuseLogRepo,
	interactionRepo repository.InteractionRepo,
	followRepo repository.UserFollowRepo,
	scoreService ScoreService,
	interestService InterestService,
	invalidator FeedInvalidator,
	limiter *guard.ViewRateLimiter,
	dedupWindow time.Duration,
	now util.Clock,
) TrackService {
	if dedupWindow <= 0 {
		dedupWindow = defaultDedupWindow
	}
	if now == nil {
		now = time.Now
	}
	return &trackServiceImpl{
		videoRepo:       videoRepo,
		viewRepo:        viewRepo,
		abuseRepo:       abuseRepo,
		interactionRepo: interactionRepo,
		followRepo:      followRepo,
		scoreService:    scoreService,
		interestService: interestService,
		invalidator:     invalidator,
		limiter:         limiter,
		dedupWindow:     dedupWindow,
		now:             now,
	}
}

// TrackView 记录一次观看：限流、时长校验、2 秒去重后落库，并刷新计数、得分与兴趣
func (s *trackServiceImpl) TrackView(ctx context.Context, userID uint64, ipHash string, req *dto.TrackViewDTO) (*dto.TrackViewResultDTO, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	if req == nil || req.VideoID == nil || *req.VideoID == 0 {
		return nil, ErrVideoIDRequired
	}
	videoID := *req.VideoID

	// 不存在的视频同样计入限流，避免刷量请求绕过
	if ok, retryAfter := s.limiter.Allow(guard.ViewKey(userID, ipHash)); !ok {
		s.logAbuse(ctx, userID, ipHash, videoID, consts.AbuseReasonRateLimited)
		return nil, &RateLimitError{RetryAfter: retryAfter}
	}

	video, err := s.videoRepo.GetVideoByID(ctx, videoID)
	if err != nil {
		return nil, classifyStoreErr("load video", err)
	}
	if video == nil {
		return &dto.TrackViewResultDTO{OK: true}, nil
	}

	// 客户端未上报时长时以服务端记录为准
	duration := req.VideoDuration
	if duration == 0 && video.Duration > 0 {
		duration = float64(video.Duration)
	}

	if err = guard.CheckWatchTime(req.WatchTime, duration); err != nil {
		if errors.Is(err, guard.ErrWatchTimeTooLong) {
			reason := fmt.Sprintf("%s:%.1f/%.1f", guard.ErrWatchTimeTooLong.Error(), req.WatchTime, duration)
			s.logAbuse(ctx, userID, ipHash, videoID, reason)
			return nil, fmt.Errorf("%w: %s", ErrSuspiciousWatchTime, reason)
		}
		return nil, fmt.Errorf("%w: %v", ErrParamInvalid, err)
	}

	now := s.now()
	dup, err := s.viewRepo.ExistsSince(ctx, userID, videoID, now.Add(-s.dedupWindow))
	if err != nil {
		return nil, classifyStoreErr("check duplicate view", err)
	}
	if dup {
		return &dto.TrackViewResultDTO{OK: true, Deduplicated: true}, nil
	}

	event := &model.ViewEvent{
		UserID:               userID,
		VideoID:              videoID,
		WatchTimeSeconds:     req.WatchTime,
		VideoDurationSeconds: duration,
		Completed:            req.Completed,
		Replayed:             req.Replayed,
		ReplayCount:          req.ReplayCount,
		IPHash:               ipHash,
		CreatedAt:            now,
	}
	if err = s.viewRepo.Create(ctx, event); err != nil {
		return nil, classifyStoreErr("create view event", err)
	}

	s.afterEngagement(ctx, videoID)

	if req.Completed {
		if err = s.interestService.RecordCompletion(ctx, userID, video); err != nil {
			log.WarnContext(ctx, "record completion interest failed", "user_id", userID, "video_id", videoID, "err", err)
		}
	}

	s.invalidator.InvalidateUser(userID)
	return &dto.TrackViewResultDTO{OK: true}, nil
}

// TrackInteraction 处理点赞/关注切换与评论/分享写入
func (s *trackServiceImpl) TrackInteraction(ctx context.Context, userID uint64, req *dto.TrackInteractionDTO) (*dto.TrackInteractionResultDTO, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	if req == nil || req.VideoID == nil || *req.VideoID == 0 {
		return nil, ErrVideoIDRequired
	}
	videoID := *req.VideoID
	kind := strings.ToLower(strings.TrimSpace(req.Type))

	var text, platform string
	if req.Data != nil {
		text = strings.TrimSpace(req.Data.Text)
		platform = strings.TrimSpace(req.Data.Platform)
	}

	switch kind {
	case consts.InteractionLike, consts.InteractionShare, consts.InteractionFollow:
	case consts.InteractionComment:
		if text == "" {
			return nil, ErrCommentRequired
		}
		if utf8.RuneCountInString(text) > MaxCommentRunes {
			return nil, ErrCommentTooLong
		}
	default:
		return nil, ErrInteractionType
	}

	video, err := s.videoRepo.GetVideoByID(ctx, videoID)
	if err != nil {
		return nil, classifyStoreErr("load video", err)
	}
	if video == nil {
		return &dto.TrackInteractionResultDTO{OK: true}, nil
	}

	now := s.now()
	switch kind {
	case consts.InteractionLike:
		err = s.toggleLike(ctx, userID, videoID, now)
	case consts.InteractionComment:
		err = s.interactionRepo.CreateComment(ctx, &model.VideoComment{UserID: userID, VideoID: videoID, Content: text, CreatedAt: now})
	case consts.InteractionShare:
		err = s.interactionRepo.CreateShare(ctx, &model.VideoShare{UserID: userID, VideoID: videoID, Platform: platform, CreatedAt: now})
	case consts.InteractionFollow:
		if video.UserID == userID {
			return nil, ErrFollowSelf
		}
		err = s.toggleFollow(ctx, userID, video.UserID, now)
	}
	if err != nil {
		return nil, classifyStoreErr("save "+kind, err)
	}

	if kind != consts.InteractionFollow {
		s.afterEngagement(ctx, videoID)
	}

	s.invalidator.InvalidateUser(userID)
	return &dto.TrackInteractionResultDTO{OK: true}, nil
}

func (s *trackServiceImpl) toggleLike(ctx context.Context, userID, videoID uint64, now time.Time) error {
	exists, err := s.interactionRepo.CheckLikeExists(ctx, userID, videoID)
	if err != nil {
		return err
	}
	if exists {
		return s.interactionRepo.DeleteLike(ctx, userID, videoID)
	}
	err = s.interactionRepo.CreateLike(ctx, &model.VideoLike{UserID: userID, VideoID: videoID, CreatedAt: now})
	if isDuplicateError(err) {
		// 并发点赞，另一请求已写入
		return nil
	}
	return err
}

func (s *trackServiceImpl) toggleFollow(ctx context.Context, userID, authorID uint64, now time.Time) error {
	existing, err := s.followRepo.GetUserFollow(ctx, userID, authorID)
	if err != nil {
		return err
	}
	if existing != nil {
		return s.followRepo.DeleteUserFollow(ctx, existing)
	}
	return s.followRepo.CreateUserFollow(ctx, &model.UserFollow{FollowerID: userID, FollowingID: authorID, CreatedAt: now})
}

// afterEngagement 明细已落库，计数与得分失败只记日志，由补偿任务兜底
func (s *trackServiceImpl) afterEngagement(ctx context.Context, videoID uint64) {
	if err := s.videoRepo.RefreshCounters(ctx, videoID); err != nil {
		log.WarnContext(ctx, "refresh video counters failed", "video_id", videoID, "err", err)
	}
	if _, err := s.scoreService.Recompute(ctx, videoID); err != nil {
		log.WarnContext(ctx, "recompute video score failed", "video_id", videoID, "err", err)
	}
}

// logAbuse 风控日志写入失败不影响响应
func (s *trackServiceImpl) logAbuse(ctx context.Context, userID uint64, ipHash string, videoID uint64, reason string) {
	entry := &model.AbuseLog{
		UserID:    userID,
		IPHash:    ipHash,
		Action:    consts.AbuseActionView,
		VideoID:   &videoID,
		Flagged:   true,
		Reason:    reason,
		CreatedAt: s.now(),
	}
	if err := s.abuseRepo.Create(ctx, entry); err != nil {
		log.WarnContext(ctx, "write abuse log failed", "user_id", userID, "reason", reason, "err", err)
		return
	}
	log.WarnContext(ctx, "view rejected", "user_id", userID, "video_id", videoID, "reason", reason)
}
