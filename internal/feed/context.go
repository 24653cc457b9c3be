package feed

import "fmt"

// Kind 列表上下文类型
type Kind string

const (
	KindAll        Kind = "all"
	KindByGroup    Kind = "group"
	KindByAuthor   Kind = "author"
	KindFollowedBy Kind = "follow"
)

// ListingContext 决定哪些帖子是候选项
type ListingContext struct {
	Kind     Kind
	Slug     string
	Username string
	ViewerID int64
}

func All() ListingContext { return ListingContext{Kind: KindAll} }

func ByGroup(slug string) ListingContext { return ListingContext{Kind: KindByGroup, Slug: slug} }

func ByAuthor(username string) ListingContext {
	return ListingContext{Kind: KindByAuthor, Username: username}
}

func FollowedBy(viewerID int64) ListingContext {
	return ListingContext{Kind: KindFollowedBy, ViewerID: viewerID}
}

func (c ListingContext) String() string {
	switch c.Kind {
	case KindByGroup:
		return fmt.Sprintf("group(%s)", c.Slug)
	case KindByAuthor:
		return fmt.Sprintf("author(%s)", c.Username)
	case KindFollowedBy:
		return fmt.Sprintf("follow(%d)", c.ViewerID)
	default:
		return string(c.Kind)
	}
}
