package model

import "time"

// AbuseLog 风控日志，只追加，供审核服务读取
type AbuseLog struct {
	ID        uint64    `gorm:"primaryKey"`
	UserID    uint64    `gorm:"not null;index:idx_user_id" json:"userId"`
	IPHash    string    `gorm:"column:ip_hash;type:char(64)" json:"ipHash"`
	Action    string    `gorm:"type:varchar(32);not null" json:"action"`
	VideoID   *uint64   `json:"videoId"`
	Flagged   bool      `gorm:"type:tinyint(1);not null;default:0" json:"flagged"`
	Reason    string    `gorm:"type:varchar(255)" json:"reason"`
	CreatedAt time.Time `json:"createdAt"`
}

func (AbuseLog) TableName() string {
	return "abuse_logs"
}
