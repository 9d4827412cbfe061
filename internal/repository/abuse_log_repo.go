package repository

import (
	"Foryou/internal/model"
	"context"

	"gorm.io/gorm"
)

type AbuseLogRepo interface {
	Create(ctx context.Context, entry *model.AbuseLog) error
}

type AbuseLogRepoImpl struct {
	db *gorm.DB
}

func NewAbuseLogRepo(db *gorm.DB) AbuseLogRepo {
	return &AbuseLogRepoImpl{db: db}
}

func (s *AbuseLogRepoImpl) Create(ctx context.Context, entry *model.AbuseLog) error {
	return s.db.WithContext(ctx).Create(entry).Error
}
