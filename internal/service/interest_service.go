package service

import (
	"Foryou/internal/model"
	"Foryou/internal/pkg/util"
	"Foryou/internal/repository"
	"context"
)

const (
	CategoryStep       = 0.5
	HashtagStep        = 0.3
	MaxInterestWeight  = 100.0
	TopInterestsLimit  = 20
	hashtagInterestPre = "#"
)

type InterestService interface {
	RecordCompletion(ctx context.Context, userID uint64, video *model.Video) error
	GetUserInterests(ctx context.Context, userID uint64) (map[string]float64, error)
}

type interestServiceImpl struct {
	interestRepo repository.UserInterestRepo
}

func NewInterestService(interestRepo repository.UserInterestRepo) InterestService {
	return &interestServiceImpl{interestRepo: interestRepo}
}

// RecordCompletion 完播后提升用户对视频分类与话题的兴趣权重，权重不衰减
func (s *interestServiceImpl) RecordCompletion(ctx context.Context, userID uint64, video *model.Video) error {
	if userID == 0 || video == nil {
		return nil
	}

	if category := video.CategoryName(); category != "" {
		if err := s.interestRepo.IncrementWeight(ctx, userID, category, CategoryStep, MaxInterestWeight); err != nil {
			return classifyStoreErr("update category interest", err)
		}
	}

	seen := make(map[string]struct{}, len(video.Hashtags))
	for _, raw := range video.Hashtags {
		tag := util.NormalizeHashtag(raw)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}

		if err := s.interestRepo.IncrementWeight(ctx, userID, HashtagInterestKey(tag), HashtagStep, MaxInterestWeight); err != nil {
			return classifyStoreErr("update hashtag interest", err)
		}
	}
	return nil
}

// GetUserInterests 权重最高的 20 项分类兴趣，话题兴趣只记录不参与排序
func (s *interestServiceImpl) GetUserInterests(ctx context.Context, userID uint64) (map[string]float64, error) {
	rows, err := s.interestRepo.GetTopCategoryInterests(ctx, userID, TopInterestsLimit)
	if err != nil {
		return nil, classifyStoreErr("load user interests", err)
	}
	out := make(map[string]float64, len(rows))
	for _, row := range rows {
		out[row.Category] = row.Weight
	}
	return out, nil
}

// HashtagInterestKey 话题兴趣以 # 前缀存储，与分类名区分
func HashtagInterestKey(tag string) string {
	return hashtagInterestPre + tag
}
