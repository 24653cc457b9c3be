package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/yatube-feed/internal/repository"
	"github.com/d60-Lab/yatube-feed/pkg/logger"
)

type replicateAction int

const (
	actionAdd replicateAction = iota + 1
	actionRemove
)

type replicateJob struct {
	action   replicateAction
	authorID int64
	fanID    int64
	enqAt    time.Time
}

// FanReplicator 本地异步冗余执行器：follows 写入后异步同步到 fans 表
type FanReplicator struct {
	fanRepo   repository.FanRepository
	ch        chan replicateJob
	metricsCh chan time.Duration
}

func NewFanReplicator(fanRepo repository.FanRepository, queueSize int) *FanReplicator {
	if queueSize <= 0 {
		queueSize = 10000
	}
	return &FanReplicator{fanRepo: fanRepo, ch: make(chan replicateJob, queueSize), metricsCh: make(chan time.Duration, 1024)}
}

// Start 启动 workers 个消费者，返回停止函数
func (r *FanReplicator) Start(workers int) func(context.Context) error {
	if workers <= 0 {
		workers = 4
	}
	stopCh := make(chan struct{})
	for i := 0; i < workers; i++ {
		go func() {
			for {
				select {
				case job := <-r.ch:
					r.apply(job)
				case <-stopCh:
					return
				}
			}
		}()
	}
	return func(ctx context.Context) error {
		close(stopCh)
		// 停止后在当前 goroutine 排空剩余任务
		for {
			select {
			case job := <-r.ch:
				r.apply(job)
			case <-ctx.Done():
				return ctx.Err()
			default:
				return nil
			}
		}
	}
}

func (r *FanReplicator) apply(job replicateJob) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var err error
	switch job.action {
	case actionAdd:
		err = r.fanRepo.Create(ctx, job.authorID, job.fanID)
	case actionRemove:
		err = r.fanRepo.Delete(ctx, job.authorID, job.fanID)
	}
	if err != nil {
		logger.Warn("replicate fan failed", zap.Int64("author", job.authorID), zap.Int64("fan", job.fanID), zap.Error(err))
	}
	if !job.enqAt.IsZero() {
		select {
		case r.metricsCh <- time.Since(job.enqAt):
		default:
		}
	}
}

func (r *FanReplicator) EnqueueAdd(authorID, fanID int64) {
	r.enqueue(replicateJob{action: actionAdd, authorID: authorID, fanID: fanID, enqAt: time.Now()})
}

func (r *FanReplicator) EnqueueRemove(authorID, fanID int64) {
	r.enqueue(replicateJob{action: actionRemove, authorID: authorID, fanID: fanID, enqAt: time.Now()})
}

func (r *FanReplicator) enqueue(job replicateJob) {
	select {
	case r.ch <- job:
	default:
		logger.Warn("replicator queue full, drop job", zap.Int("action", int(job.action)), zap.Int64("author", job.authorID), zap.Int64("fan", job.fanID))
	}
}

// Metrics 返回复制落地耗时的只读通道（每处理一条发送一次 duration）。
func (r *FanReplicator) Metrics() <-chan time.Duration { return r.metricsCh }

// QueueLen 返回当前队列长度（采样值）。
func (r *FanReplicator) QueueLen() int { return len(r.ch) }
