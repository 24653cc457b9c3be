package model

// Group 帖子分组（社区），slug 全局唯一
type Group struct {
	ID          int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Slug        string `json:"slug" gorm:"type:varchar(64);uniqueIndex;not null"`
	Title       string `json:"title" gorm:"type:varchar(200);not null"`
	Description string `json:"description" gorm:"type:text"`
}

func (Group) TableName() string { return "groups" }
