package model

import "time"

// Post 帖子；列表统一按 (created_at DESC, id DESC) 排序
type Post struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	AuthorID  int64     `json:"author_id" gorm:"not null;index:idx_post_author_created,priority:1"`
	Author    *User     `json:"author,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	GroupID   *int64    `json:"group_id,omitempty" gorm:"index:idx_post_group_created,priority:1"`
	Group     *Group    `json:"group,omitempty" gorm:"constraint:OnDelete:SET NULL"`
	ImageRef  string    `json:"image_ref,omitempty" gorm:"type:varchar(255)"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_post_created,priority:1;index:idx_post_author_created,priority:2;index:idx_post_group_created,priority:2"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Post) TableName() string { return "posts" }

// IsAuthoredBy 判断帖子归属
func (p *Post) IsAuthoredBy(userID int64) bool { return p.AuthorID == userID }
