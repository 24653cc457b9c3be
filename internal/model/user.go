package model

import "time"

// User 用户（账号由认证模块维护，这里只保留展示与归属所需字段）
type User struct {
	ID           int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Username     string    `json:"username" gorm:"type:varchar(150);uniqueIndex;not null"`
	DisplayName  string    `json:"display_name" gorm:"type:varchar(150)"`
	PasswordHash string    `json:"-" gorm:"type:varchar(100)"`
	IsStaff      bool      `json:"-" gorm:"not null;default:false"`
	CreatedAt    time.Time `json:"created_at"`
}

func (User) TableName() string { return "users" }

// FullName 优先返回展示名
func (u *User) FullName() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}
