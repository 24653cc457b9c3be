package model

// Viewer 当前请求的访问者，UserID 为 0 表示匿名
type Viewer struct {
	UserID  int64
	IsStaff bool
}

// Anonymous 匿名访问者
func Anonymous() Viewer { return Viewer{} }

func (v Viewer) IsAuthenticated() bool { return v.UserID != 0 }

// AllModels AutoMigrate 需要的全部模型
func AllModels() []interface{} {
	return []interface{}{&User{}, &Group{}, &Post{}, &Comment{}, &Follow{}, &Fan{}}
}
