package model

import (
	"time"
)

type VideoComment struct {
	ID        uint64    `gorm:"primaryKey"`
	UserID    uint64    `gorm:"not null" json:"userId"`
	VideoID   uint64    `gorm:"not null;index:idx_video_id" json:"videoId"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

func (VideoComment) TableName() string {
	return "video_comments"
}
