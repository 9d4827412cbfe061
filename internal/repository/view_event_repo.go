package repository

import (
	"Foryou/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

// ViewStats 单个视频的观看聚合
type ViewStats struct {
	Views       int64
	WatchTime   float64
	Completions int64
}

type ViewEventRepo interface {
	Create(ctx context.Context, event *model.ViewEvent) error
	ExistsSince(ctx context.Context, userID, videoID uint64, since time.Time) (bool, error)
	GetStats(ctx context.Context, videoID uint64) (*ViewStats, error)
	GetRecentWatchedIDs(ctx context.Context, userID uint64, limit int) ([]uint64, error)
}

type ViewEventRepoImpl struct {
	db *gorm.DB
}

func NewViewEventRepo(db *gorm.DB) ViewEventRepo {
	return &ViewEventRepoImpl{db: db}
}

func (s *ViewEventRepoImpl) Create(ctx context.Context, event *model.ViewEvent) error {
	return s.db.WithContext(ctx).Create(event).Error
}

// ExistsSince 判断 since 之后是否已有同一用户对同一视频的观看记录
func (s *ViewEventRepoImpl) ExistsSince(ctx context.Context, userID, videoID uint64, since time.Time) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.ViewEvent{}).
		Where("user_id = ? AND video_id = ? AND created_at > ?", userID, videoID, since).
		Limit(1).
		Count(&count).Error
	return count > 0, err
}

func (s *ViewEventRepoImpl) GetStats(ctx context.Context, videoID uint64) (*ViewStats, error) {
	var stats ViewStats
	err := s.db.WithContext(ctx).Model(&model.ViewEvent{}).
		Select("COUNT(*) AS views, COALESCE(SUM(watch_time_seconds), 0) AS watch_time, COALESCE(SUM(completed), 0) AS completions").
		Where("video_id = ?", videoID).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetRecentWatchedIDs 最近观看过的视频 ID，按时间倒序去重
func (s *ViewEventRepoImpl) GetRecentWatchedIDs(ctx context.Context, userID uint64, limit int) ([]uint64, error) {
	var ids []uint64
	err := s.db.WithContext(ctx).Model(&model.ViewEvent{}).
		Where("user_id = ?", userID).
		Group("video_id").
		Order("MAX(created_at) DESC").
		Limit(limit).
		Pluck("video_id", &ids).Error
	return ids, err
}
