package model

import "time"

// Comment 评论，随所属帖子一起删除
type Comment struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	PostID    int64     `json:"post_id" gorm:"not null;index:idx_comment_post"`
	Post      *Post     `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	AuthorID  int64     `json:"author_id" gorm:"not null;index"`
	Author    *User     `json:"author,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (Comment) TableName() string { return "comments" }
