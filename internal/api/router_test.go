package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
	"gorm.io/gorm"

	"github.com/d60-Lab/yatube-feed/config"
	"github.com/d60-Lab/yatube-feed/internal/api/handler"
	"github.com/d60-Lab/yatube-feed/internal/feed"
	"github.com/d60-Lab/yatube-feed/internal/model"
	"github.com/d60-Lab/yatube-feed/internal/repository"
	"github.com/d60-Lab/yatube-feed/internal/service"
	"github.com/d60-Lab/yatube-feed/pkg/auth"
	"github.com/d60-Lab/yatube-feed/pkg/database"
	"github.com/d60-Lab/yatube-feed/pkg/response"
)

type envelope[T any] struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    T                 `json:"data"`
	Errors  map[string]string `json:"errors"`
}

type app struct {
	db     *gorm.DB
	router *gin.Engine
	users  repository.UserRepository
	groups repository.GroupRepository
	posts  repository.PostRepository
}

func newApp(t *testing.T) *app {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	cfg := &config.Config{Server: config.ServerConfig{Mode: gin.TestMode}}
	users := repository.NewUserRepository(db)
	groups := repository.NewGroupRepository(db)
	posts := repository.NewPostRepository(db)
	follows := repository.NewFollowRepository(db)
	fans := repository.NewFanRepository(db)

	feedSvc := feed.NewService(feed.NewResolver(users, groups, posts, follows), feed.NewMemoryListingCache(feed.DefaultCacheTTL))
	postSvc := service.NewPostService(posts, groups, repository.NewCommentRepository(db))
	relSvc := service.NewRelationshipService(users, follows, fans, nil)
	authSvc := service.NewAuthService(users, auth.NewTokenManager("test-secret", time.Hour))

	h := handler.New(feedSvc, postSvc, relSvc, authSvc, users)
	return &app{db: db, router: NewRouter(cfg, h, authSvc), users: users, groups: groups, posts: posts}
}

func (a *app) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// signup 注册并登录，返回令牌与用户
func (a *app) signup(t *testing.T, username string) (string, *model.User) {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/v1/auth/register", "", service.RegisterInput{Username: username, Password: "password123"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = a.do(t, http.MethodPost, "/api/v1/auth/login", "", service.LoginInput{Username: username, Password: "password123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp envelope[struct {
		Token string      `json:"token"`
		User  *model.User `json:"user"`
	}]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)
	return resp.Data.Token, resp.Data.User
}

func decodeListing(t *testing.T, w *httptest.ResponseRecorder) feed.Listing {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp envelope[feed.Listing]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Data.Page)
	return resp.Data
}

func TestHealth(t *testing.T) {
	a := newApp(t)
	w := a.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGroupListingPagination(t *testing.T) {
	a := newApp(t)
	ctx := context.Background()
	_, author := a.signup(t, "leo")
	cats := &model.Group{Slug: "cats", Title: "Cats"}
	require.NoError(t, a.groups.Create(ctx, cats))
	require.NoError(t, a.groups.Create(ctx, &model.Group{Slug: "dogs", Title: "Dogs"}))

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 13; i++ {
		gid := cats.ID
		require.NoError(t, a.posts.Create(ctx, &model.Post{AuthorID: author.ID, GroupID: &gid, Text: fmt.Sprintf("cat %d", i), CreatedAt: base.Add(time.Duration(i) * time.Minute)}))
	}
	require.NoError(t, a.posts.Create(ctx, &model.Post{AuthorID: author.ID, Text: "no group", CreatedAt: base.Add(time.Hour)}))

	first := decodeListing(t, a.do(t, http.MethodGet, "/api/v1/groups/cats/posts", "", nil))
	assert.Equal(t, feed.KindByGroup, first.Kind)
	require.NotNil(t, first.Group)
	assert.Equal(t, "cats", first.Group.Slug)
	assert.Len(t, first.Page.Items, 10)
	assert.Equal(t, 2, first.Page.TotalPages)
	assert.Equal(t, "cat 12", first.Page.Items[0].Text)

	second := decodeListing(t, a.do(t, http.MethodGet, "/api/v1/groups/cats/posts?page=2", "", nil))
	assert.Len(t, second.Page.Items, 3)
	assert.Equal(t, "cat 0", second.Page.Items[2].Text)

	clamped := decodeListing(t, a.do(t, http.MethodGet, "/api/v1/groups/cats/posts?page=99", "", nil))
	assert.Equal(t, 2, clamped.Page.Number)

	junk := decodeListing(t, a.do(t, http.MethodGet, "/api/v1/groups/cats/posts?page=abc", "", nil))
	assert.Equal(t, 1, junk.Page.Number)

	empty := decodeListing(t, a.do(t, http.MethodGet, "/api/v1/groups/dogs/posts", "", nil))
	assert.Empty(t, empty.Page.Items)
	assert.Equal(t, 1, empty.Page.TotalPages)

	index := decodeListing(t, a.do(t, http.MethodGet, "/api/v1/posts", "", nil))
	assert.EqualValues(t, 14, index.Page.TotalCount)
	assert.Equal(t, "no group", index.Page.Items[0].Text)

	w := a.do(t, http.MethodGet, "/api/v1/groups/birds/posts", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProfileListing(t *testing.T) {
	a := newApp(t)
	viewerToken, _ := a.signup(t, "anna")
	authorToken, _ := a.signup(t, "leo")

	w := a.do(t, http.MethodPost, "/api/v1/posts", authorToken, service.PostInput{Text: "first"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	anon := decodeListing(t, a.do(t, http.MethodGet, "/api/v1/profiles/leo/posts", "", nil))
	require.NotNil(t, anon.Author)
	assert.Equal(t, "leo", anon.Author.Username)
	assert.EqualValues(t, 1, anon.PostsCount)
	assert.False(t, anon.Following)

	w = a.do(t, http.MethodPost, "/api/v1/profiles/leo/follow", viewerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	followed := decodeListing(t, a.do(t, http.MethodGet, "/api/v1/profiles/leo/posts", viewerToken, nil))
	assert.True(t, followed.Following)

	w = a.do(t, http.MethodGet, "/api/v1/profiles/ghost/posts", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFollowFeed(t *testing.T) {
	a := newApp(t)
	viewerToken, _ := a.signup(t, "anna")
	leoToken, _ := a.signup(t, "leo")
	ivanToken, _ := a.signup(t, "ivan")

	for _, tok := range []string{leoToken, ivanToken} {
		w := a.do(t, http.MethodPost, "/api/v1/posts", tok, service.PostInput{Text: "hello"})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := a.do(t, http.MethodGet, "/api/v1/follow/posts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, response.LoginPath, w.Header().Get("Location"))

	empty := decodeListing(t, a.do(t, http.MethodGet, "/api/v1/follow/posts", viewerToken, nil))
	assert.Empty(t, empty.Page.Items)

	w = a.do(t, http.MethodPost, "/api/v1/profiles/leo/follow", viewerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	// 重复关注幂等
	w = a.do(t, http.MethodPost, "/api/v1/profiles/leo/follow", viewerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	listing := decodeListing(t, a.do(t, http.MethodGet, "/api/v1/follow/posts", viewerToken, nil))
	require.Len(t, listing.Page.Items, 1)
	assert.Equal(t, "leo", listing.Page.Items[0].Author.Username)

	w = a.do(t, http.MethodPost, "/api/v1/profiles/anna/follow", viewerToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(t, http.MethodPost, "/api/v1/profiles/leo/unfollow", viewerToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	listing = decodeListing(t, a.do(t, http.MethodGet, "/api/v1/follow/posts", viewerToken, nil))
	assert.Empty(t, listing.Page.Items)

	w = a.do(t, http.MethodPost, "/api/v1/profiles/leo/follow", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestEditByNonAuthorRedirectsToDetail(t *testing.T) {
	a := newApp(t)
	authorToken, _ := a.signup(t, "leo")
	otherToken, _ := a.signup(t, "anna")

	w := a.do(t, http.MethodPost, "/api/v1/posts", authorToken, service.PostInput{Text: "original"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created envelope[model.Post]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	path := fmt.Sprintf("/api/v1/posts/%d", created.Data.ID)

	w = a.do(t, http.MethodPut, path, otherToken, service.PostInput{Text: "hijacked"})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, path, w.Header().Get("Location"))

	post, err := a.posts.GetByID(context.Background(), created.Data.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", post.Text)

	w = a.do(t, http.MethodPut, path, authorToken, service.PostInput{Text: ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var invalid envelope[map[string]interface{}]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &invalid))
	assert.Contains(t, invalid.Errors, "text")

	w = a.do(t, http.MethodPut, path, authorToken, service.PostInput{Text: "edited"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestPostDetailAndComments(t *testing.T) {
	a := newApp(t)
	authorToken, _ := a.signup(t, "leo")
	readerToken, _ := a.signup(t, "anna")

	w := a.do(t, http.MethodPost, "/api/v1/posts", authorToken, service.PostInput{Text: "with comments"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created envelope[model.Post]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	path := fmt.Sprintf("/api/v1/posts/%d", created.Data.ID)

	w = a.do(t, http.MethodPost, path+"/comments", "", service.CommentInput{Text: "anon"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(t, http.MethodPost, path+"/comments", readerToken, service.CommentInput{Text: "nice"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = a.do(t, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var detail envelope[service.PostDetail]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, "with comments", detail.Data.Post.Text)
	require.Len(t, detail.Data.Comments, 1)
	assert.Equal(t, "nice", detail.Data.Comments[0].Text)
	assert.EqualValues(t, 1, detail.Data.AuthorPosts)

	w = a.do(t, http.MethodGet, "/api/v1/posts/999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = a.do(t, http.MethodGet, "/api/v1/posts/abc", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(t, http.MethodDelete, path, readerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = a.do(t, http.MethodDelete, path, authorToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = a.do(t, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIndexCacheServesStalePageUntilInvalidated(t *testing.T) {
	a := newApp(t)
	authorToken, author := a.signup(t, "leo")
	adminToken, admin := a.signup(t, "admin")
	require.NoError(t, a.db.Model(admin).Update("is_staff", true).Error)

	w := a.do(t, http.MethodPost, "/api/v1/posts", authorToken, service.PostInput{Text: "one"})
	require.Equal(t, http.StatusCreated, w.Code)

	before := decodeListing(t, a.do(t, http.MethodGet, "/api/v1/posts", "", nil))
	assert.EqualValues(t, 1, before.Page.TotalCount)

	w = a.do(t, http.MethodPost, "/api/v1/posts", authorToken, service.PostInput{Text: "two"})
	require.Equal(t, http.StatusCreated, w.Code)

	stale := decodeListing(t, a.do(t, http.MethodGet, "/api/v1/posts", "", nil))
	assert.EqualValues(t, 1, stale.Page.TotalCount)
	assert.Equal(t, before.ComposedAt, stale.ComposedAt)

	// 登录用户不走缓存
	fresh := decodeListing(t, a.do(t, http.MethodGet, "/api/v1/posts", authorToken, nil))
	assert.EqualValues(t, 2, fresh.Page.TotalCount)
	assert.Equal(t, author.ID, fresh.Page.Items[0].AuthorID)

	w = a.do(t, http.MethodPost, "/api/v1/admin/cache/invalidate", authorToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.do(t, http.MethodPost, "/api/v1/admin/cache/invalidate", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	after := decodeListing(t, a.do(t, http.MethodGet, "/api/v1/posts", "", nil))
	assert.EqualValues(t, 2, after.Page.TotalCount)
}

func TestGroupsRequireStaff(t *testing.T) {
	a := newApp(t)
	userToken, _ := a.signup(t, "leo")
	adminToken, admin := a.signup(t, "admin")
	require.NoError(t, a.db.Model(admin).Update("is_staff", true).Error)

	in := service.GroupInput{Slug: "cats", Title: "Cats"}
	w := a.do(t, http.MethodPost, "/api/v1/groups", userToken, in)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.do(t, http.MethodPost, "/api/v1/groups", adminToken, in)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = a.do(t, http.MethodPost, "/api/v1/groups", adminToken, service.GroupInput{Slug: "Bad Slug", Title: "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(t, http.MethodGet, "/api/v1/groups", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var groups envelope[[]model.Group]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &groups))
	require.Len(t, groups.Data, 1)
	assert.Equal(t, "cats", groups.Data[0].Slug)
}

func TestRelationListsNormalizePaging(t *testing.T) {
	a := newApp(t)
	a.signup(t, "leo")

	for _, path := range []string{"/api/v1/profiles/leo/followers", "/api/v1/profiles/leo/following"} {
		w := a.do(t, http.MethodGet, path+"?page=x&page_size=1000000", "", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var resp envelope[struct {
			Page     int `json:"page"`
			PageSize int `json:"page_size"`
		}]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Data.Page, path)
		assert.Equal(t, service.MaxRelationPageSize, resp.Data.PageSize, path)
	}
}

// API 文档须覆盖所有 /api/v1 路由
func TestSwaggerDocCoversRoutes(t *testing.T) {
	a := newApp(t)
	raw, err := swag.ReadDoc()
	require.NoError(t, err)
	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	for _, route := range a.router.Routes() {
		if !strings.HasPrefix(route.Path, "/api/v1/") {
			continue
		}
		path := paramPattern.ReplaceAllString(route.Path, "{$1}")
		ops, ok := doc.Paths[path]
		if assert.True(t, ok, "undocumented path %s", path) {
			assert.Contains(t, ops, strings.ToLower(route.Method), "undocumented %s %s", route.Method, path)
		}
	}
}

var paramPattern = regexp.MustCompile(`:([A-Za-z_]+)`)
