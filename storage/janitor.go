package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// Janitor 定期删除过期的生成文件
type Janitor struct {
	store    *Store
	maxAge   time.Duration
	interval time.Duration
	cron     *cron.Cron
}

// NewJanitor maxAge 为 0 时不清理
func NewJanitor(store *Store, maxAge, interval time.Duration) *Janitor {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Janitor{store: store, maxAge: maxAge, interval: interval}
}

// Start 启动定时任务
func (j *Janitor) Start() error {
	if j.maxAge <= 0 {
		j.store.Logger.Info("未启用输出文件清理")
		return nil
	}

	j.cron = cron.New()
	_, err := j.cron.AddFunc(fmt.Sprintf("@every %s", j.interval), func() { j.Sweep(time.Now()) })
	if err != nil {
		return fmt.Errorf("scheduling cleanup: %w", err)
	}
	j.cron.Start()
	j.store.Logger.Info("输出文件清理已启动", "max_age", j.maxAge, "interval", j.interval)
	return nil
}

// Sweep 执行一次清理
func (j *Janitor) Sweep(now time.Time) int {
	removed, err := j.store.RemoveOlderThan(j.maxAge, now)
	if err != nil {
		j.store.Logger.Error("清理输出目录失败", "dir", j.store.OutputDir, "error", err)
		return 0
	}
	if removed > 0 {
		j.store.Logger.Info("已清理过期输出文件", "count", removed)
	}
	return removed
}

// Stop 停止定时任务并等待正在执行的清理结束
func (j *Janitor) Stop(ctx context.Context) {
	if j.cron == nil {
		return
	}
	select {
	case <-j.cron.Stop().Done():
	case <-ctx.Done():
	}
}
