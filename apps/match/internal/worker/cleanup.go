package worker

import (
	"context"
	"time"

	"MatchServer/config"
	"MatchServer/pkg/clock"
	"MatchServer/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var cleanupRemovedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "match_cleanup_removed_total",
	Help: "定期清理删除或过期的记录数",
}, []string{"task"})

// UndoSweeper 清除过期撤销槽位
type UndoSweeper interface {
	CleanupExpired(ctx context.Context) (int64, error)
}

// RecommendationSweeper 清除历史推荐数据
type RecommendationSweeper interface {
	CleanupOldDailyPickViews(ctx context.Context, before time.Time) (int64, error)
	CleanupOldStandouts(ctx context.Context, before time.Time) (int64, error)
}

// FriendRequestSweeper 过期长期未处理的转朋友申请
type FriendRequestSweeper interface {
	ExpireStaleRequests(ctx context.Context, cutoff time.Time) (int64, error)
}

// Report 一轮清理的结果，key 为任务名
type Report map[string]int64

// Cleaner 定期清理任务：过期撤销槽位、历史每日推荐查看记录、历史精选、过期转朋友申请。
// 单个任务失败只记日志，不影响其他任务和下一轮。
type Cleaner struct {
	cfg       config.MatchConfig
	interval  time.Duration
	clock     clock.Clock
	undo      UndoSweeper
	recommend RecommendationSweeper
	friends   FriendRequestSweeper
}

// NewCleaner 创建定期清理任务，interval <= 0 时使用一分钟
func NewCleaner(
	cfg config.MatchConfig,
	interval time.Duration,
	clk clock.Clock,
	undo UndoSweeper,
	recommend RecommendationSweeper,
	friends FriendRequestSweeper,
) *Cleaner {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Cleaner{
		cfg:       cfg,
		interval:  interval,
		clock:     clk,
		undo:      undo,
		recommend: recommend,
		friends:   friends,
	}
}

// Run 按间隔执行清理，阻塞直到 ctx 取消
func (c *Cleaner) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	logger.Info(ctx, "定期清理任务启动", logger.Duration("interval", c.interval))
	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "定期清理任务退出")
			return
		case <-ticker.C:
			c.RunOnce(ctx)
		}
	}
}

// RunOnce 执行一轮清理
func (c *Cleaner) RunOnce(ctx context.Context) Report {
	now := c.clock.Now()
	report := make(Report, 4)

	c.sweep(ctx, report, "undo_state", func() (int64, error) {
		return c.undo.CleanupExpired(ctx)
	})
	c.sweep(ctx, report, "daily_pick_view", func() (int64, error) {
		return c.recommend.CleanupOldDailyPickViews(ctx, now.AddDate(0, 0, -c.cfg.DailyPickViewRetentionDays))
	})
	c.sweep(ctx, report, "standout", func() (int64, error) {
		return c.recommend.CleanupOldStandouts(ctx, now.AddDate(0, 0, -c.cfg.StandoutRetentionDays))
	})
	c.sweep(ctx, report, "friend_request", func() (int64, error) {
		return c.friends.ExpireStaleRequests(ctx, now.Add(-c.cfg.FriendRequestExpiry))
	})
	return report
}

func (c *Cleaner) sweep(ctx context.Context, report Report, task string, fn func() (int64, error)) {
	n, err := fn()
	if err != nil {
		logger.Error(ctx, "定期清理失败",
			logger.String("task", task),
			logger.ErrorField("error", err),
		)
		return
	}
	report[task] = n
	if n > 0 {
		cleanupRemovedTotal.WithLabelValues(task).Add(float64(n))
		logger.Info(ctx, "定期清理完成",
			logger.String("task", task),
			logger.Int64("removed", n),
		)
	}
}
