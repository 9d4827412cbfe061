package service

import (
	"Foryou/internal/api/dto"
	"Foryou/internal/model"
	"Foryou/internal/pkg/consts"
	"Foryou/internal/pkg/engagement"
	"Foryou/internal/pkg/redis"
	"Foryou/internal/repository"
	"context"
	log "log/slog"

	"github.com/jinzhu/copier"
)

const maxScoreRetries = 3

type ScoreService interface {
	Recompute(ctx context.Context, videoID uint64) (*model.VideoScore, error)
	Refresh(ctx context.Context, videoID uint64) (*model.VideoScore, error)
	GetScore(ctx context.Context, videoID uint64) (*dto.VideoScoreDTO, error)
}

type scoreServiceImpl struct {
	videoRepo       repository.VideoRepo
	scoreRepo       repository.VideoScoreRepo
	viewRepo        repository.ViewEventRepo
	interactionRepo repository.InteractionRepo
	phase           *engagement.PhaseController
}

func NewScoreService(
	videoRepo repository.VideoRepo,
	scoreRepo repository.VideoScoreRepo,
	viewRepo repository.ViewEventRepo,
	interactionRepo repository.InteractionRepo,
	phase *engagement.PhaseController,
) ScoreService {
	return &scoreServiceImpl{
		videoRepo:       videoRepo,
		scoreRepo:       scoreRepo,
		viewRepo:        viewRepo,
		interactionRepo: interactionRepo,
		phase:           phase,
	}
}

// Recompute 用户事件触发：重新聚合视频计数、计算得分，计入一次测试组曝光并推进分发阶段
// 失败时记入脏集合等待定时任务补偿
func (s *scoreServiceImpl) Recompute(ctx context.Context, videoID uint64) (*model.VideoScore, error) {
	return s.recomputeOrMark(ctx, videoID, true)
}

// Refresh 补偿任务与 canal 回放使用，只刷新计数、得分与阶段，不计入测试组曝光
func (s *scoreServiceImpl) Refresh(ctx context.Context, videoID uint64) (*model.VideoScore, error) {
	return s.recomputeOrMark(ctx, videoID, false)
}

func (s *scoreServiceImpl) recomputeOrMark(ctx context.Context, videoID uint64, countEvent bool) (*model.VideoScore, error) {
	row, err := s.recompute(ctx, videoID, countEvent)
	if err != nil {
		markScoreDirty(ctx, videoID)
		return nil, err
	}
	return row, nil
}

func (s *scoreServiceImpl) recompute(ctx context.Context, videoID uint64, countEvent bool) (*model.VideoScore, error) {
	counts, err := s.aggregate(ctx, videoID)
	if err != nil {
		return nil, err
	}

	var row *model.VideoScore
	saved := false
	for attempt := 0; attempt < maxScoreRetries && !saved; attempt++ {
		row, err = s.scoreRepo.GetByVideoID(ctx, videoID)
		if err != nil {
			return nil, classifyStoreErr("load video score", err)
		}

		if row == nil {
			row = s.phase.NewScoreRow(videoID)
			s.advance(ctx, row, counts, countEvent)
			saved, err = s.scoreRepo.Create(ctx, row)
		} else {
			s.advance(ctx, row, counts, countEvent)
			saved, err = s.scoreRepo.UpdateWithVersion(ctx, row)
		}
		if err != nil {
			return nil, classifyStoreErr("save video score", err)
		}
	}

	if !saved {
		// 多次版本冲突：本次结果仍回写视频表，由补偿任务再算一次
		log.WarnContext(ctx, "video score version conflict", "video_id", videoID, "attempts", maxScoreRetries)
		markScoreDirty(ctx, videoID)
	}

	eligible := engagement.Eligible(row.DistributionPhase)
	if err = s.videoRepo.UpdateEngagement(ctx, videoID, row.Score, eligible); err != nil {
		return nil, classifyStoreErr("update video engagement", err)
	}
	return row, nil
}

func (s *scoreServiceImpl) advance(ctx context.Context, row *model.VideoScore, counts engagement.Counts, countEvent bool) {
	from := row.DistributionPhase
	if s.phase.Advance(row, counts, countEvent) {
		log.InfoContext(ctx, "distribution phase changed",
			"video_id", row.VideoID,
			"from", from,
			"to", row.DistributionPhase,
			"max_reach", row.MaxReach,
			"engagement", row.TestGroupEngagement,
		)
	}
}

func (s *scoreServiceImpl) aggregate(ctx context.Context, videoID uint64) (engagement.Counts, error) {
	views, err := s.viewRepo.GetStats(ctx, videoID)
	if err != nil {
		return engagement.Counts{}, classifyStoreErr("aggregate views", err)
	}
	interactions, err := s.interactionRepo.GetCounts(ctx, videoID)
	if err != nil {
		return engagement.Counts{}, classifyStoreErr("aggregate interactions", err)
	}
	return engagement.Counts{
		WatchTime:   views.WatchTime,
		Likes:       interactions.Likes,
		Comments:    interactions.Comments,
		Shares:      interactions.Shares,
		Completions: views.Completions,
		Views:       views.Views,
	}, nil
}

// GetScore 视频尚未产生得分时返回 nil
func (s *scoreServiceImpl) GetScore(ctx context.Context, videoID uint64) (*dto.VideoScoreDTO, error) {
	row, err := s.scoreRepo.GetByVideoID(ctx, videoID)
	if err != nil {
		return nil, classifyStoreErr("load video score", err)
	}
	if row == nil {
		return nil, nil
	}

	var out dto.VideoScoreDTO
	if err = copier.Copy(&out, row); err != nil {
		return nil, err
	}
	out.DistributionPhase = string(row.DistributionPhase)
	return &out, nil
}

func markScoreDirty(ctx context.Context, videoID uint64) {
	if !redis.Enabled() {
		return
	}
	if err := redis.SAdd(ctx, consts.VideoScoreDirtyKey, videoID); err != nil {
		log.WarnContext(ctx, "mark video score dirty failed", "video_id", videoID, "err", err)
	}
}
