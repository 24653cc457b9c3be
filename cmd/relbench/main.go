package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/d60-Lab/yatube-feed/config"
	"github.com/d60-Lab/yatube-feed/internal/model"
	"github.com/d60-Lab/yatube-feed/internal/repository"
	"github.com/d60-Lab/yatube-feed/internal/service"
	"github.com/d60-Lab/yatube-feed/pkg/database"
)

// relbench 测量关注写入（follows 同步写 + fans 异步冗余）的延迟与复制落地耗时
func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))
	defer database.Close(db)

	followRepo := repository.NewFollowRepository(db)
	fanRepo := repository.NewFanRepository(db)
	userRepo := repository.NewUserRepository(db)
	replicator := service.NewFanReplicator(fanRepo, 100000)
	stop := replicator.Start(8)
	relSvc := service.NewRelationshipService(userRepo, followRepo, fanRepo, replicator)

	ctx := context.Background()
	n := envInt("N", 10000)
	conc := envInt("CONC", 1)
	page := envInt("PAGE", 50)

	// 一位热门作者，其余用户都去关注他
	mustDo(db.Exec("DELETE FROM follows").Error)
	mustDo(db.Exec("DELETE FROM fans").Error)
	mustDo(db.Exec("DELETE FROM users WHERE username LIKE 'rel_%'").Error)
	celeb := model.User{Username: "rel_celeb"}
	mustDo(db.Create(&celeb).Error)
	users := make([]model.User, n)
	for i := range users {
		users[i] = model.User{Username: fmt.Sprintf("rel_%06d", i)}
	}
	mustDo(db.CreateInBatches(&users, 1000).Error)

	var (
		repMu   sync.Mutex
		repRecs = make([]time.Duration, 0, n)
		maxQ    int
	)
	doneObserve := make(chan struct{})
	observed := make(chan struct{})
	go func() {
		defer close(observed)
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case d := <-replicator.Metrics():
				repMu.Lock()
				repRecs = append(repRecs, d)
				repMu.Unlock()
			case <-ticker.C:
				if q := replicator.QueueLen(); q > maxQ {
					maxQ = q
				}
			case <-doneObserve:
				return
			}
		}
	}()

	workers := conc
	if workers > n {
		workers = n
	}
	jobs := make(chan int, n)
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)

	asyncCh := make(chan time.Duration, n)
	t0 := time.Now()
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				st := time.Now()
				if err := relSvc.Follow(ctx, users[i].ID, celeb.ID); err != nil {
					fmt.Fprintf(os.Stderr, "follow %d: %v\n", users[i].ID, err)
				}
				asyncCh <- time.Since(st)
			}
		}()
	}
	wg.Wait()
	close(asyncCh)
	asyncDur := time.Since(t0)
	asyncRecs := make([]time.Duration, 0, n)
	for d := range asyncCh {
		asyncRecs = append(asyncRecs, d)
	}

	drainStart := time.Now()
	mustDo(stop(context.Background()))
	drainDur := time.Since(drainStart)
	close(doneObserve)
	<-observed

	// 对照：同步双写
	t1 := time.Now()
	for i := 0; i < n; i++ {
		_ = followRepo.Create(ctx, celeb.ID, users[i].ID)
		_ = fanRepo.Create(ctx, users[i].ID, celeb.ID)
	}
	syncDur := time.Since(t1)

	q0 := time.Now()
	_ = must(relSvc.ListFollowers(ctx, celeb.ID, 1, page))
	fansDur := time.Since(q0)

	q1 := time.Now()
	_ = must(relSvc.ListFollowing(ctx, celeb.ID, 1, page))
	follDur := time.Since(q1)

	total := must(relSvc.FollowerCount(ctx, celeb.ID))

	fmt.Printf("N=%d, CONC=%d, PAGE=%d\n", n, conc, page)
	fmt.Printf("Async follow latency total: %v, per op: %v, p50: %v, p95: %v, p99: %v\n",
		asyncDur, asyncDur/time.Duration(n), pct(asyncRecs, 0.50), pct(asyncRecs, 0.95), pct(asyncRecs, 0.99))
	fmt.Printf("Sync (2 writes) total: %v, per op: %v\n", syncDur, syncDur/time.Duration(n))
	fmt.Printf("Query followers(%d) latency: %v, replicated fans: %d\n", page, fansDur, total)
	fmt.Printf("Query following(%d) latency: %v\n", page, follDur)
	if len(repRecs) > 0 {
		fmt.Printf("Replication landing: samples=%d, p50=%v, p95=%v, p99=%v, maxQueue=%d, drain=%v\n",
			len(repRecs), pct(repRecs, 0.50), pct(repRecs, 0.95), pct(repRecs, 0.99), maxQ, drainDur)
	}
}

func envInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			return v
		}
	}
	return def
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
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
