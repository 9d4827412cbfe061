package ranking

import (
	"Foryou/internal/model"
	"Foryou/internal/pkg/util"
	"sort"
	"time"
)

const (
	FollowBoost      = 200.0
	InterestFactor   = 50.0
	LikedCategoryMul = 30.0
	WatchedPenalty   = 100.0
	JitterRange      = 50.0

	FreshBoost1h  = 150.0
	FreshBoost6h  = 80.0
	FreshBoost24h = 30.0
)

// UserContext 登录用户的个性化信号，匿名用户传 nil
type UserContext struct {
	Following       map[uint64]struct{}
	Interests       map[string]float64
	Watched         map[uint64]struct{}
	Excluded        map[uint64]struct{}
	LikedCategories map[string]int
}

// Scored 排序结果
type Scored struct {
	Video *model.Video
	Score float64
}

type Ranker struct {
	rand util.Random
	now  util.Clock
}

func NewRanker(rand util.Random, now util.Clock) *Ranker {
	if now == nil {
		now = time.Now
	}
	return &Ranker{rand: rand, now: now}
}

// Rank 过滤不感兴趣的视频后按个性化得分降序排列，同分保持输入顺序
func (s *Ranker) Rank(videos []*model.Video, uc *UserContext) []Scored {
	now := s.now()
	out := make([]Scored, 0, len(videos))
	for _, v := range videos {
		if v == nil {
			continue
		}
		if uc != nil {
			if _, ok := uc.Excluded[v.ID]; ok {
				continue
			}
		}
		out = append(out, Scored{Video: v, Score: s.score(v, uc, now)})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

func (s *Ranker) score(v *model.Video, uc *UserContext, now time.Time) float64 {
	score := v.EngagementScore
	if uc != nil {
		if _, ok := uc.Following[v.UserID]; ok {
			score += FollowBoost
		}
		if category := v.CategoryName(); category != "" {
			score += uc.Interests[category] * InterestFactor
			score += float64(uc.LikedCategories[category]) * LikedCategoryMul
		}
		if _, ok := uc.Watched[v.ID]; ok {
			score -= WatchedPenalty
		}
		score += freshness(now.Sub(v.CreatedAt))
	}
	return score + s.rand.Float64()*JitterRange
}

func freshness(age time.Duration) float64 {
	switch {
	case age < time.Hour:
		return FreshBoost1h
	case age < 6*time.Hour:
		return FreshBoost6h
	case age < 24*time.Hour:
		return FreshBoost24h
	default:
		return 0
	}
}
