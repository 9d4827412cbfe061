package model

import "time"

// DistributionPhase 视频流量分发阶段
type DistributionPhase string

const (
	PhaseTest      DistributionPhase = "test"
	PhaseExpanding DistributionPhase = "expanding"
	PhaseLimited   DistributionPhase = "limited"
	PhaseViral     DistributionPhase = "viral"
	PhaseStable    DistributionPhase = "stable"
)

// VideoScore 每个视频一行，保存聚合计数、得分与分发状态
type VideoScore struct {
	VideoID             uint64            `gorm:"primaryKey;autoIncrement:false" json:"video_id"`
	TotalWatchTime      float64           `gorm:"not null;default:0" json:"total_watch_time"`
	TotalLikes          int64             `gorm:"not null;default:0" json:"total_likes"`
	TotalComments       int64             `gorm:"not null;default:0" json:"total_comments"`
	TotalShares         int64             `gorm:"not null;default:0" json:"total_shares"`
	TotalCompletions    int64             `gorm:"not null;default:0" json:"total_completions"`
	TotalViews          int64             `gorm:"not null;default:0" json:"total_views"`
	Score               float64           `gorm:"not null;default:0" json:"score"`
	TestGroupViews      int64             `gorm:"not null;default:0" json:"test_group_views"`
	TestGroupSize       int64             `gorm:"not null" json:"test_group_size"`
	TestGroupEngagement float64           `gorm:"not null;default:0" json:"test_group_engagement"`
	DistributionPhase   DistributionPhase `gorm:"type:varchar(16);not null;default:test" json:"distribution_phase"`
	MaxReach            int64             `gorm:"not null" json:"max_reach"`
	Version             int64             `gorm:"not null;default:0" json:"version"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

func (VideoScore) TableName() string {
	return "video_scores"
}
