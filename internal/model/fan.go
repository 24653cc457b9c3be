package model

import "time"

// Fan 粉丝关系（AuthorID 的粉丝是 FanID）冗余自 Follow
type Fan struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	AuthorID  int64  `gorm:"not null;index:idx_fan_author;index:idx_fan_pair,unique"`
	Author    *User  `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	FanID     int64  `gorm:"not null;index:idx_fan_pair,unique"`
	Follower  *User  `json:"-" gorm:"foreignKey:FanID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

func (Fan) TableName() string { return "fans" }
