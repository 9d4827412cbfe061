package repository

import (
	"Foryou/internal/model"
	"context"
	"math"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserInterestRepo interface {
	IncrementWeight(ctx context.Context, userID uint64, category string, step, max float64) error
	GetTopCategoryInterests(ctx context.Context, userID uint64, limit int) ([]*model.UserInterest, error)
}

type userInterestRepoImpl struct {
	db *gorm.DB
}

func NewUserInterestRepository(db *gorm.DB) UserInterestRepo {
	return &userInterestRepoImpl{db: db}
}

// IncrementWeight 累加兴趣权重并封顶，首次写入时权重为 min(step, max)
func (r *userInterestRepoImpl) IncrementWeight(ctx context.Context, userID uint64, category string, step, max float64) error {
	row := &model.UserInterest{
		UserID:    userID,
		Category:  category,
		Weight:    math.Min(step, max),
		UpdatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "category"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"weight":     gorm.Expr("LEAST(weight + ?, ?)", step, max),
			"updated_at": row.UpdatedAt,
		}),
	}).Create(row).Error
}

// GetTopCategoryInterests 按权重倒序取用户的分类兴趣，# 开头的话题行不参与排名
func (r *userInterestRepoImpl) GetTopCategoryInterests(ctx context.Context, userID uint64, limit int) ([]*model.UserInterest, error) {
	var interests []*model.UserInterest
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND category NOT LIKE ?", userID, "#%").
		Order("weight DESC").
		Limit(limit).
		Find(&interests).Error
	return interests, err
}
