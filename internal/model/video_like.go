package model

import (
	"time"
)

type VideoLike struct {
	UserID    uint64    `gorm:"primaryKey;autoIncrement:false" json:"userId"`
	VideoID   uint64    `gorm:"primaryKey;autoIncrement:false;index:idx_video_id" json:"videoId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (VideoLike) TableName() string {
	return "video_likes"
}
