package model

import "time"

// NotInterested 用户标记“不感兴趣”的视频
type NotInterested struct {
	UserID    uint64    `gorm:"primaryKey;autoIncrement:false" json:"userId"`
	VideoID   uint64    `gorm:"primaryKey;autoIncrement:false" json:"videoId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (NotInterested) TableName() string {
	return "not_interested"
}
