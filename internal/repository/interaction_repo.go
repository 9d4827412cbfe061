package repository

import (
	"Foryou/internal/model"
	"context"

	"gorm.io/gorm"
)

// InteractionCounts 单个视频的互动聚合
type InteractionCounts struct {
	Likes    int64
	Comments int64
	Shares   int64
}

type InteractionRepo interface {
	CreateLike(ctx context.Context, like *model.VideoLike) error
	DeleteLike(ctx context.Context, userID, videoID uint64) error
	CheckLikeExists(ctx context.Context, userID, videoID uint64) (bool, error)
	CreateComment(ctx context.Context, comment *model.VideoComment) error
	CreateShare(ctx context.Context, share *model.VideoShare) error

	GetCounts(ctx context.Context, videoID uint64) (*InteractionCounts, error)
	GetLikedVideoIDs(ctx context.Context, userID uint64, videoIDs []uint64) ([]uint64, error)
	GetSavedVideoIDs(ctx context.Context, userID uint64, videoIDs []uint64) ([]uint64, error)
	GetNotInterestedIDs(ctx context.Context, userID uint64) ([]uint64, error)
	GetRecentLikedCategories(ctx context.Context, userID uint64, limit int) (map[string]int, error)
}

type InteractionRepoImpl struct {
	db *gorm.DB
}

func NewInteractionRepo(db *gorm.DB) InteractionRepo {
	return &InteractionRepoImpl{db: db}
}

func (s *InteractionRepoImpl) CreateLike(ctx context.Context, like *model.VideoLike) error {
	return s.db.WithContext(ctx).Create(like).Error
}

func (s *InteractionRepoImpl) DeleteLike(ctx context.Context, userID, videoID uint64) error {
	return s.db.WithContext(ctx).
		Where("user_id = ? AND video_id = ?", userID, videoID).
		Delete(&model.VideoLike{}).Error
}

func (s *InteractionRepoImpl) CheckLikeExists(ctx context.Context, userID, videoID uint64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.VideoLike{}).
		Where("user_id = ? AND video_id = ?", userID, videoID).
		Count(&count).Error
	return count > 0, err
}

func (s *InteractionRepoImpl) CreateComment(ctx context.Context, comment *model.VideoComment) error {
	return s.db.WithContext(ctx).Create(comment).Error
}

func (s *InteractionRepoImpl) CreateShare(ctx context.Context, share *model.VideoShare) error {
	return s.db.WithContext(ctx).Create(share).Error
}

func (s *InteractionRepoImpl) GetCounts(ctx context.Context, videoID uint64) (*InteractionCounts, error) {
	var counts InteractionCounts
	db := s.db.WithContext(ctx)
	if err := db.Model(&model.VideoLike{}).Where("video_id = ?", videoID).Count(&counts.Likes).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.VideoComment{}).Where("video_id = ?", videoID).Count(&counts.Comments).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.VideoShare{}).Where("video_id = ?", videoID).Count(&counts.Shares).Error; err != nil {
		return nil, err
	}
	return &counts, nil
}

// GetLikedVideoIDs 在给定视频中筛出用户点赞过的
func (s *InteractionRepoImpl) GetLikedVideoIDs(ctx context.Context, userID uint64, videoIDs []uint64) ([]uint64, error) {
	if len(videoIDs) == 0 {
		return nil, nil
	}
	var ids []uint64
	err := s.db.WithContext(ctx).Model(&model.VideoLike{}).
		Where("user_id = ? AND video_id IN ?", userID, videoIDs).
		Pluck("video_id", &ids).Error
	return ids, err
}

// GetSavedVideoIDs 在给定视频中筛出用户收藏过的
func (s *InteractionRepoImpl) GetSavedVideoIDs(ctx context.Context, userID uint64, videoIDs []uint64) ([]uint64, error) {
	if len(videoIDs) == 0 {
		return nil, nil
	}
	var ids []uint64
	err := s.db.WithContext(ctx).Model(&model.VideoSave{}).
		Where("user_id = ? AND video_id IN ?", userID, videoIDs).
		Pluck("video_id", &ids).Error
	return ids, err
}

func (s *InteractionRepoImpl) GetNotInterestedIDs(ctx context.Context, userID uint64) ([]uint64, error) {
	var ids []uint64
	err := s.db.WithContext(ctx).Model(&model.NotInterested{}).
		Where("user_id = ?", userID).
		Pluck("video_id", &ids).Error
	return ids, err
}

// GetRecentLikedCategories 统计用户最近 limit 次点赞的视频分类分布
func (s *InteractionRepoImpl) GetRecentLikedCategories(ctx context.Context, userID uint64, limit int) (map[string]int, error) {
	var categories []*string
	recent := s.db.Model(&model.VideoLike{}).
		Select("video_id").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit)
	err := s.db.WithContext(ctx).
		Table("(?) AS recent_likes", recent).
		Joins("JOIN videos ON videos.id = recent_likes.video_id").
		Pluck("videos.category", &categories).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]int, len(categories))
	for _, c := range categories {
		if c == nil || *c == "" {
			continue
		}
		out[*c]++
	}
	return out, nil
}
