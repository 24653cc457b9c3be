package model

import (
	"time"
)

// Follow 关注关系（UserID 关注 AuthorID），任一端用户删除时由数据库级联删除
type Follow struct {
	ID       int64 `gorm:"primaryKey;autoIncrement"`
	UserID   int64 `gorm:"not null;index:idx_follow_user;index:idx_follow_pair,unique"`
	User     *User `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	AuthorID int64 `gorm:"not null;index:idx_follow_author;index:idx_follow_pair,unique"`
	Author   *User `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	// 复合唯一键，避免重复关注
	// idx_follow_pair = (user_id, author_id)
	CreatedAt time.Time
}

func (Follow) TableName() string { return "follows" }
