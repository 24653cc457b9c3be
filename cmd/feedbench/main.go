package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/d60-Lab/yatube-feed/config"
	"github.com/d60-Lab/yatube-feed/internal/feed"
	"github.com/d60-Lab/yatube-feed/internal/model"
	"github.com/d60-Lab/yatube-feed/internal/repository"
	"github.com/d60-Lab/yatube-feed/pkg/database"
)

// feedbench 对比首页实时查询与各缓存后端的延迟，以及关注流深分页的代价
func main() {
	ctx := context.Background()
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))
	defer database.Close(db)

	authors := envInt("AUTHORS", 500)
	postsPerAuthor := envInt("POSTS", 40)
	follows := envInt("FOLLOWS", 200)
	repeat := envInt("REPEAT", 2000)

	fmt.Println("Setting up test data...")
	viewer := seed(ctx, db, authors, postsPerAuthor, follows)
	fmt.Printf("Test data ready: %d authors x %d posts, viewer follows %d\n", authors, postsPerAuthor, follows)

	users := repository.NewUserRepository(db)
	resolver := feed.NewResolver(users, repository.NewGroupRepository(db), repository.NewPostRepository(db), repository.NewFollowRepository(db))
	anon := model.Anonymous()

	live := feed.NewService(resolver, feed.NopListingCache{})
	memory := feed.NewService(resolver, feed.NewMemoryListingCache(time.Minute))

	fmt.Println("\nIndex page 1 latency")
	report("No cache", run(repeat, func() error {
		_, err := live.ListAll(ctx, anon, "1")
		return err
	}))
	report("Memory cache", run(repeat, func() error {
		_, err := memory.ListAll(ctx, anon, "1")
		return err
	}))

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = cfg.Redis.Addr
	}
	client := redis.NewClient(&redis.Options{Addr: redisAddr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	defer client.Close()
	if err := client.Ping(ctx).Err(); err != nil {
		fmt.Printf("%-18s skipped: %v\n", "Redis cache", err)
	} else {
		cached := feed.NewService(resolver, feed.NewRedisListingCache(client, time.Minute))
		cached.InvalidateIndex(ctx)
		report("Redis cache", run(repeat, func() error {
			_, err := cached.ListAll(ctx, anon, "1")
			return err
		}))
	}

	me := model.Viewer{UserID: viewer}
	totalPages := int(math.Ceil(float64(follows*postsPerAuthor) / float64(feed.PostsPerPage)))
	rnd := rand.New(rand.NewSource(42))
	fmt.Println("\nFollow feed latency")
	report("First page", run(repeat, func() error {
		_, err := live.ListFollowed(ctx, me, "1")
		return err
	}))
	report("Random page", run(repeat, func() error {
		_, err := live.ListFollowed(ctx, me, strconv.Itoa(1+rnd.Intn(totalPages)))
		return err
	}))
	report("Last page", run(repeat, func() error {
		_, err := live.ListFollowed(ctx, me, strconv.Itoa(totalPages))
		return err
	}))
}

func seed(ctx context.Context, db *gorm.DB, authors, postsPerAuthor, follows int) int64 {
	mustDo(db.Exec("DELETE FROM comments").Error)
	mustDo(db.Exec("DELETE FROM posts").Error)
	mustDo(db.Exec("DELETE FROM follows").Error)
	mustDo(db.Exec("DELETE FROM fans").Error)
	mustDo(db.Exec("DELETE FROM users").Error)

	users := make([]model.User, authors+1)
	for i := range users {
		users[i] = model.User{Username: fmt.Sprintf("bench_%05d", i)}
	}
	mustDo(db.CreateInBatches(&users, 1000).Error)

	base := time.Now().UTC().Add(-time.Duration(authors*postsPerAuthor) * time.Second)
	posts := make([]model.Post, 0, authors*postsPerAuthor)
	for i := 1; i <= authors; i++ {
		for j := 0; j < postsPerAuthor; j++ {
			posts = append(posts, model.Post{
				AuthorID:  users[i].ID,
				Text:      fmt.Sprintf("post %d by %s", j, users[i].Username),
				CreatedAt: base.Add(time.Duration(j*authors+i) * time.Second),
			})
		}
	}
	mustDo(db.Omit("Author", "Group").CreateInBatches(&posts, 1000).Error)

	followRepo := repository.NewFollowRepository(db)
	if follows > authors {
		follows = authors
	}
	for i := 1; i <= follows; i++ {
		mustDo(followRepo.Create(ctx, users[0].ID, users[i].ID))
	}
	return users[0].ID
}

func run(n int, call func() error) []time.Duration {
	// 预热一次，让缓存场景测的是命中路径
	mustDo(call())
	out := make([]time.Duration, 0, n)
	for i := 0; i < n; i++ {
		start := time.Now()
		mustDo(call())
		out = append(out, time.Since(start))
	}
	return out
}

func report(name string, ds []time.Duration) {
	fmt.Printf("%-18s avg=%v p95=%v p99=%v\n", name, avg(ds), pct(ds, 0.95), pct(ds, 0.99))
}

func envInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			return v
		}
	}
	return def
}

func avg(vs []time.Duration) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range vs {
		sum += v
	}
	return sum / time.Duration(len(vs))
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	sorted := append([]time.Duration(nil), vs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	idx := int(math.Ceil(p*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func mustDo(err error) {
	if err != nil {
		panic(err)
	}
}
