package model

import (
	"time"
)

type ViewEvent struct {
	ID                   uint64    `gorm:"primaryKey"`
	UserID               uint64    `gorm:"not null;index:idx_user_video_time,priority:1" json:"userId"`
	VideoID              uint64    `gorm:"not null;index:idx_video_id;index:idx_user_video_time,priority:2" json:"videoId"`
	WatchTimeSeconds     float64   `gorm:"not null;default:0" json:"watchTimeSeconds"`
	VideoDurationSeconds float64   `gorm:"not null;default:0" json:"videoDurationSeconds"`
	Completed            bool      `gorm:"type:tinyint(1);not null;default:0" json:"completed"`
	Replayed             bool      `gorm:"type:tinyint(1);not null;default:0" json:"replayed"`
	ReplayCount          int       `gorm:"not null;default:0" json:"replayCount"`
	IPHash               string    `gorm:"column:ip_hash;type:char(64)" json:"ipHash"`
	CreatedAt            time.Time `gorm:"not null;index:idx_user_video_time,priority:3" json:"createdAt"`
}

func (ViewEvent) TableName() string {
	return "view_events"
}
