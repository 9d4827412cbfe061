package model

import "time"

// VideoSave 收藏记录，由收藏服务写入
type VideoSave struct {
	UserID    uint64    `gorm:"primaryKey;autoIncrement:false" json:"userId"`
	VideoID   uint64    `gorm:"primaryKey;autoIncrement:false;index:idx_video_id" json:"videoId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (VideoSave) TableName() string {
	return "video_saves"
}
