package kafka

import (
	"Foryou/internal/model"
	"Foryou/internal/pkg/logger"
	"Foryou/internal/repository"
	"Foryou/internal/service"
	"context"
	"errors"
	"fmt"
	log "log/slog"

	"github.com/IBM/sarama"
)

// interactionTables 点赞/评论/分享明细表，行内均带 video_id
var interactionTables = map[string]struct{}{
	model.VideoLike{}.TableName():    {},
	model.VideoComment{}.TableName(): {},
	model.VideoShare{}.TableName():   {},
}

// InteractionHandler 其他服务写入的互动同样需要刷新计数并重算得分
type InteractionHandler struct {
	videoRepo repository.VideoRepo
	scoreSvc  service.ScoreService
}

func NewInteractionHandler(videoRepo repository.VideoRepo, scoreSvc service.ScoreService) *InteractionHandler {
	return &InteractionHandler{
		videoRepo: videoRepo,
		scoreSvc:  scoreSvc,
	}
}

func (s *InteractionHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("interaction consumer setup")
	return nil
}

func (s *InteractionHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("interaction consumer cleanup")
	return nil
}

func (s *InteractionHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("interaction process batch error", "err", err)
		return err
	}
	return nil
}

func (s *InteractionHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, interactionTables)
	if err != nil {
		// 无法解析或无关的消息直接跳过，避免无限重试
		if !errors.Is(err, ErrTableNotMatch) {
			log.Warn("skip canal message", "offset", msg.Offset, "err", err)
		}
		return nil
	}
	if canalMsg.IsDDL {
		return nil
	}

	switch canalMsg.Type {
	case INSERT, UPDATE, DELETE:
	default:
		return nil
	}

	ctx = logger.NewJobContext(ctx, "canal-"+canalMsg.Table)
	for _, videoID := range affectedVideoIDs(ctx, canalMsg) {
		if err = s.rescore(ctx, videoID); err != nil {
			return err
		}
	}
	return nil
}

// rescore 可重试错误返回给上层，由批处理退避重试
func (s *InteractionHandler) rescore(ctx context.Context, videoID uint64) error {
	if err := s.videoRepo.RefreshCounters(ctx, videoID); err != nil {
		return fmt.Errorf("refresh counters of video %d: %w", videoID, err)
	}
	if _, err := s.scoreSvc.Refresh(ctx, videoID); err != nil {
		// 已写入 dirty 集合，交给定时任务补偿
		log.WarnContext(ctx, "recompute score after canal event failed", "video_id", videoID, "err", err)
	}
	log.DebugContext(ctx, "video rescored by canal event", "video_id", videoID)
	return nil
}

// affectedVideoIDs 收集一条消息涉及的视频，同一视频只处理一次
func affectedVideoIDs(ctx context.Context, msg *CanalMessage) []uint64 {
	seen := make(map[uint64]struct{}, len(msg.Data))
	ids := make([]uint64, 0, len(msg.Data))
	for _, row := range msg.Data {
		videoID, err := rowUint64(row, "video_id")
		if err != nil || videoID == 0 {
			log.WarnContext(ctx, "canal row without video_id", "table", msg.Table, "err", err)
			continue
		}
		if _, ok := seen[videoID]; ok {
			continue
		}
		seen[videoID] = struct{}{}
		ids = append(ids, videoID)
	}
	return ids
}
