package dto

import "time"

// VideoDTO 推荐流中单个视频的对外结构
type VideoDTO struct {
	ID              uint64        `json:"id"`
	URL             string        `json:"url"`
	Thumbnail       string        `json:"thumbnail"`
	Duration        string        `json:"duration"` // m:ss
	User            VideoUserDTO  `json:"user"`
	Description     string        `json:"description"`
	Hashtags        []string      `json:"hashtags"`
	Music           VideoMusicDTO `json:"music"`
	Stats           VideoStatsDTO `json:"stats"`
	CreatedAt       string        `json:"createdAt"`
	IsLiked         bool          `json:"isLiked"`
	IsSaved         bool          `json:"isSaved"`
	IsFollowing     bool          `json:"isFollowing"`
	EngagementScore float64       `json:"engagementScore"`
}

type VideoUserDTO struct {
	ID         uint64 `json:"id"`
	Username   string `json:"username"`
	Name       string `json:"name"`
	Avatar     string `json:"avatar"`
	IsVerified bool   `json:"isVerified"`
	Followers  int64  `json:"followers"`
	Following  int64  `json:"following"`
}

type VideoMusicDTO struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

type VideoStatsDTO struct {
	Views    int64 `json:"views"`
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
	Shares   int64 `json:"shares"`
	Saves    int64 `json:"saves"`
}

// VideoScoreDTO 视频得分与分发状态
type VideoScoreDTO struct {
	VideoID             uint64    `json:"videoId"`
	TotalWatchTime      float64   `json:"totalWatchTime"`
	TotalLikes          int64     `json:"totalLikes"`
	TotalComments       int64     `json:"totalComments"`
	TotalShares         int64     `json:"totalShares"`
	TotalCompletions    int64     `json:"totalCompletions"`
	TotalViews          int64     `json:"totalViews"`
	Score               float64   `json:"score"`
	TestGroupViews      int64     `json:"testGroupViews"`
	TestGroupSize       int64     `json:"testGroupSize"`
	TestGroupEngagement float64   `json:"testGroupEngagement"`
	DistributionPhase   string    `json:"distributionPhase"`
	MaxReach            int64     `json:"maxReach"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

type VideoScoreResultDTO struct {
	Score *VideoScoreDTO `json:"score"`
}
