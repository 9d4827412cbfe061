package repository

import (
	"Foryou/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VideoScoreRepo interface {
	GetByVideoID(ctx context.Context, videoID uint64) (*model.VideoScore, error)
	Create(ctx context.Context, row *model.VideoScore) (bool, error)
	UpdateWithVersion(ctx context.Context, row *model.VideoScore) (bool, error)
}

type VideoScoreRepoImpl struct {
	db *gorm.DB
}

func NewVideoScoreRepo(db *gorm.DB) VideoScoreRepo {
	return &VideoScoreRepoImpl{db: db}
}

// GetByVideoID 不存在时返回 nil
func (s *VideoScoreRepoImpl) GetByVideoID(ctx context.Context, videoID uint64) (*model.VideoScore, error) {
	var row model.VideoScore
	err := s.db.WithContext(ctx).Where("video_id = ?", videoID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// Create 插入首行，主键冲突（并发创建）时返回 false
func (s *VideoScoreRepoImpl) Create(ctx context.Context, row *model.VideoScore) (bool, error) {
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(row)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// UpdateWithVersion 乐观锁更新，version 不匹配时返回 false，成功后 row.Version 自增
func (s *VideoScoreRepoImpl) UpdateWithVersion(ctx context.Context, row *model.VideoScore) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&model.VideoScore{}).
		Where("video_id = ? AND version = ?", row.VideoID, row.Version).
		Updates(map[string]interface{}{
			"total_watch_time":      row.TotalWatchTime,
			"total_likes":           row.TotalLikes,
			"total_comments":        row.TotalComments,
			"total_shares":          row.TotalShares,
			"total_completions":     row.TotalCompletions,
			"total_views":           row.TotalViews,
			"score":                 row.Score,
			"test_group_views":      row.TestGroupViews,
			"test_group_engagement": row.TestGroupEngagement,
			"distribution_phase":    row.DistributionPhase,
			"max_reach":             row.MaxReach,
			"version":               row.Version + 1,
		})
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}
	row.Version++
	return true, nil
}
