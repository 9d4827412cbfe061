package job

import (
	"Foryou/internal/pkg/consts"
	"Foryou/internal/pkg/logger"
	"Foryou/internal/pkg/redis"
	"Foryou/internal/pkg/util"
	"Foryou/internal/service"
	"context"
	log "log/slog"
	"time"
)

const reconcileTimeout = 50 * time.Second

// ScoreReconcileJob 重算写入失败后被标记为 dirty 的视频得分
type ScoreReconcileJob struct {
	scoreSvc service.ScoreService
}

func NewScoreReconcileJob(scoreSvc service.ScoreService) *ScoreReconcileJob {
	return &ScoreReconcileJob{
		scoreSvc: scoreSvc,
	}
}

func (s *ScoreReconcileJob) Run() {
	if !redis.Enabled() {
		return
	}
	ctx, cancel := context.WithTimeout(logger.NewJobContext(context.Background(), "score"), reconcileTimeout)
	defer cancel()

	s.reconcile(ctx)
}

func (s *ScoreReconcileJob) reconcile(ctx context.Context) {
	exists, err := redis.Exists(ctx, consts.VideoScoreDirtyKey)
	if err != nil {
		log.ErrorContext(ctx, "check score dirty set error", "err", err)
		return
	}
	if !exists {
		return
	}

	if err = redis.Rename(ctx, consts.VideoScoreDirtyKey, consts.VideoScoreProcessingKey); err != nil {
		log.ErrorContext(ctx, "rename score dirty set error", "err", err)
		return
	}

	members, err := redis.GetSet(ctx, consts.VideoScoreProcessingKey)
	if err != nil {
		log.ErrorContext(ctx, "get score processing set error", "err", err)
		return
	}

	videoIDs, err := util.StrSliceToUInt64Slice(members)
	if err != nil {
		log.ErrorContext(ctx, "convert score set to int slice error", "err", err)
		return
	}

	log.InfoContext(ctx, "start reconciling video scores", "count", len(videoIDs))

	// Refresh 失败时会自行重新写入 dirty 集合，等待下一轮
	successCount := 0
	for _, vid := range videoIDs {
		if _, err = s.scoreSvc.Refresh(ctx, vid); err != nil {
			log.ErrorContext(ctx, "recompute video score error", "video_id", vid, "err", err)
			continue
		}
		successCount++
	}

	if err = redis.DeleteKey(ctx, consts.VideoScoreProcessingKey); err != nil {
		log.ErrorContext(ctx, "delete score processing set error", "err", err)
	}

	log.InfoContext(ctx, "reconcile video scores finished",
		"total_count", len(videoIDs),
		"success_count", successCount)
}
