package model

// User 用户基础资料，由账号服务维护，本服务只读
type User struct {
	ID             uint64 `gorm:"primaryKey"`
	Username       string `gorm:"type:varchar(64);uniqueIndex;not null" json:"username"`
	Nickname       string `gorm:"type:varchar(64)" json:"nickname"`
	AvatarURL      string `gorm:"type:varchar(255)" json:"avatar_url"`
	IsVerified     bool   `gorm:"type:tinyint(1);not null;default:0" json:"is_verified"`
	FollowersCount int64  `gorm:"not null;default:0" json:"followers_count"`
	FollowingCount int64  `gorm:"not null;default:0" json:"following_count"`
}

func (User) TableName() string {
	return "users"
}
