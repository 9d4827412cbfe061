package model

import (
	"time"
)

type Video struct {
	ID               uint64     `gorm:"primaryKey"`
	UserID           uint64     `gorm:"not null;index:idx_user_id" json:"user_id"`
	VideoURL         string     `gorm:"type:varchar(512);not null" json:"video_url"`
	ThumbnailURL     string     `gorm:"type:varchar(512)" json:"thumbnail_url"`
	Duration         int        `gorm:"not null;default:0" json:"duration"` // 秒
	Caption          string     `gorm:"type:text" json:"caption"`
	Hashtags         StringList `gorm:"type:json" json:"hashtags"`
	Category         *string    `gorm:"type:varchar(64);index:idx_category" json:"category"`
	MusicTitle       *string    `gorm:"type:varchar(255)" json:"music_title"`
	IsPublic         bool       `gorm:"type:tinyint(1);not null;default:1" json:"is_public"`
	ViewsCount       int64      `gorm:"not null;default:0" json:"views_count"`
	LikesCount       int64      `gorm:"not null;default:0" json:"likes_count"`
	CommentsCount    int64      `gorm:"not null;default:0" json:"comments_count"`
	SharesCount      int64      `gorm:"not null;default:0" json:"shares_count"`
	SavesCount       int64      `gorm:"not null;default:0" json:"saves_count"`
	EngagementScore  float64    `gorm:"not null;default:0;index:idx_fyp_score,priority:3,sort:desc" json:"engagement_score"`
	IsEligibleForFyp bool       `gorm:"column:is_eligible_for_fyp;type:tinyint(1);not null;default:1;index:idx_fyp_score,priority:2" json:"is_eligible_for_fyp"`
	CreatedAt        time.Time  `json:"created_at"`

	// 关联关系
	User User `gorm:"foreignKey:UserID;references:ID"`
}

func (Video) TableName() string {
	return "videos"
}

// CategoryName 返回分类名，未分类时为空串
func (v *Video) CategoryName() string {
	if v.Category == nil {
		return ""
	}
	return *v.Category
}
