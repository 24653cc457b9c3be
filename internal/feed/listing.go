package feed

import (
	"time"

	"github.com/d60-Lab/yatube-feed/internal/model"
	"github.com/d60-Lab/yatube-feed/pkg/pagination"
)

// PostsPerPage 所有帖子列表固定每页 10 条
const PostsPerPage = 10

// Listing 组装完成的列表页，首页缓存直接保存该结构
type Listing struct {
	Kind       Kind                          `json:"kind"`
	Page       *pagination.Page[*model.Post] `json:"page"`
	Group      *model.Group                  `json:"group,omitempty"`
	Author     *model.User                   `json:"author,omitempty"`
	Following  bool                          `json:"following"`
	PostsCount int64                         `json:"posts_count"`
	ComposedAt time.Time                     `json:"composed_at"`
}
