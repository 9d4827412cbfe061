package model

import (
	"time"
)

type VideoShare struct {
	ID        uint64    `gorm:"primaryKey"`
	UserID    uint64    `gorm:"not null" json:"userId"`
	VideoID   uint64    `gorm:"not null;index:idx_video_id" json:"videoId"`
	Platform  string    `gorm:"type:varchar(32)" json:"platform"`
	CreatedAt time.Time `json:"createdAt"`
}

func (VideoShare) TableName() string {
	return "video_shares"
}
