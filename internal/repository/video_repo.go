package repository

import (
	"Foryou/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type VideoRepo interface {
	GetVideoByID(ctx context.Context, videoID uint64) (*model.Video, error)
	GetTrendingEnriched(ctx context.Context, limit int) ([]*model.Video, error)
	GetTrendingJoined(ctx context.Context, limit int) ([]*model.Video, error)
	GetTrendingPlain(ctx context.Context, limit int) ([]*model.Video, error)
	GetRecentVideosByUserIDs(ctx context.Context, userIDs []uint64, limit int) ([]*model.Video, error)
	RefreshCounters(ctx context.Context, videoID uint64) error
	UpdateEngagement(ctx context.Context, videoID uint64, score float64, eligible bool) error
}

type VideoRepoImpl struct {
	db *gorm.DB
}

func NewVideoRepo(db *gorm.DB) VideoRepo {
	return &VideoRepoImpl{db: db}
}

// GetVideoByID 根据 ID 获取视频及作者，不存在时返回 nil
func (s *VideoRepoImpl) GetVideoByID(ctx context.Context, videoID uint64) (*model.Video, error) {
	var video model.Video
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("id = ?", videoID).
		First(&video).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &video, nil
}

func (s *VideoRepoImpl) fypScope(db *gorm.DB) *gorm.DB {
	return db.
		Where("videos.is_public = ? AND videos.is_eligible_for_fyp = ?", true, true).
		Order("videos.engagement_score DESC").
		Order("videos.created_at DESC")
}

// GetTrendingEnriched 热门候选：预加载作者资料，并排除分发状态为限流的视频
func (s *VideoRepoImpl) GetTrendingEnriched(ctx context.Context, limit int) ([]*model.Video, error) {
	var videos []*model.Video
	err := s.db.WithContext(ctx).
		Scopes(s.fypScope).
		Preload("User").
		Joins("LEFT JOIN video_scores ON video_scores.video_id = videos.id").
		Where("video_scores.distribution_phase IS NULL OR video_scores.distribution_phase <> ?", model.PhaseLimited).
		Limit(limit).
		Find(&videos).Error
	return videos, err
}

// GetTrendingJoined 热门候选：单次 JOIN 作者表
func (s *VideoRepoImpl) GetTrendingJoined(ctx context.Context, limit int) ([]*model.Video, error) {
	var videos []*model.Video
	err := s.db.WithContext(ctx).
		Scopes(s.fypScope).
		Joins("User").
		Limit(limit).
		Find(&videos).Error
	return videos, err
}

// GetTrendingPlain 热门候选：只查视频表，作者资料为空
func (s *VideoRepoImpl) GetTrendingPlain(ctx context.Context, limit int) ([]*model.Video, error) {
	var videos []*model.Video
	err := s.db.WithContext(ctx).
		Scopes(s.fypScope).
		Limit(limit).
		Find(&videos).Error
	return videos, err
}

// GetRecentVideosByUserIDs 关注作者的最新公开视频，不限分发阶段
func (s *VideoRepoImpl) GetRecentVideosByUserIDs(ctx context.Context, userIDs []uint64, limit int) ([]*model.Video, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var videos []*model.Video
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("user_id IN ? AND is_public = ?", userIDs, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&videos).Error
	return videos, err
}

// RefreshCounters 用明细表重新计算视频的冗余计数
func (s *VideoRepoImpl) RefreshCounters(ctx context.Context, videoID uint64) error {
	return s.db.WithContext(ctx).
		Model(&model.Video{}).
		Where("id = ?", videoID).
		UpdateColumns(map[string]interface{}{
			"views_count":    gorm.Expr("(SELECT COUNT(*) FROM view_events WHERE video_id = ?)", videoID),
			"likes_count":    gorm.Expr("(SELECT COUNT(*) FROM video_likes WHERE video_id = ?)", videoID),
			"comments_count": gorm.Expr("(SELECT COUNT(*) FROM video_comments WHERE video_id = ?)", videoID),
			"shares_count":   gorm.Expr("(SELECT COUNT(*) FROM video_shares WHERE video_id = ?)", videoID),
			"saves_count":    gorm.Expr("(SELECT COUNT(*) FROM video_saves WHERE video_id = ?)", videoID),
		}).Error
}

// UpdateEngagement 回写得分与推荐资格
func (s *VideoRepoImpl) UpdateEngagement(ctx context.Context, videoID uint64, score float64, eligible bool) error {
	return s.db.WithContext(ctx).
		Model(&model.Video{}).
		Where("id = ?", videoID).
		UpdateColumns(map[string]interface{}{
			"engagement_score":    score,
			"is_eligible_for_fyp": eligible,
		}).Error
}
