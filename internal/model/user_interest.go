package model

import "time"

// UserInterest 用户对某个分类/话题的偏好权重，话题以 # 开头
type UserInterest struct {
	UserID    uint64    `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	Category  string    `gorm:"primaryKey;type:varchar(128)" json:"category"`
	Weight    float64   `gorm:"not null;default:0" json:"weight"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (UserInterest) TableName() string {
	return "user_interests"
}
