package engagement

// 各类互动的权重，越深度的互动权重越高
const (
	WatchTimeWeight  = 2.0
	LikeWeight       = 5.0
	CommentWeight    = 6.0
	ShareWeight      = 8.0
	CompletionWeight = 10.0
)

// Counts 某个视频的聚合互动计数，每次重算都从存储重新聚合
type Counts struct {
	WatchTime   float64
	Likes       int64
	Comments    int64
	Shares      int64
	Completions int64
	Views       int64
}

// Score 线性加权得分，负数计数按 0 处理
func Score(c Counts) float64 {
	return nonNeg(c.WatchTime)*WatchTimeWeight +
		float64(nonNegInt(c.Likes))*LikeWeight +
		float64(nonNegInt(c.Comments))*CommentWeight +
		float64(nonNegInt(c.Shares))*ShareWeight +
		float64(nonNegInt(c.Completions))*CompletionWeight
}

// EngagementRatio (点赞+评论+分享)/播放，无播放时为 0
func EngagementRatio(c Counts) float64 {
	if c.Views <= 0 {
		return 0
	}
	interactions := nonNegInt(c.Likes) + nonNegInt(c.Comments) + nonNegInt(c.Shares)
	return float64(interactions) / float64(c.Views)
}

func nonNeg(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func nonNegInt(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
