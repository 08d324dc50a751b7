package config

import "time"

// AsyncConfig 协程池配置。
// 说明：只用于尽力而为的异步任务（通知、缓存预热），不负责定时调度。
type AsyncConfig struct {
	PoolSize         int           `json:"poolSize" yaml:"poolSize" env:"POOL_SIZE"`                         // 协程池容量
	MaxBlockingTasks int           `json:"maxBlockingTasks" yaml:"maxBlockingTasks" env:"MAX_BLOCKING_TASKS"` // 最大阻塞任务数（0 表示不限制）
	ExpiryDuration   time.Duration `json:"expiryDuration" yaml:"expiryDuration" env:"EXPIRY_DURATION"`       // 空闲 worker 过期时间
	Nonblocking      bool          `json:"nonblocking" yaml:"nonblocking" env:"NONBLOCKING"`                 // 是否非阻塞提交
	ReleaseTimeout   time.Duration `json:"releaseTimeout" yaml:"releaseTimeout" env:"RELEASE_TIMEOUT"`       // 优雅释放等待时间
}

// DefaultAsyncConfig 返回本地开发的默认配置。
func DefaultAsyncConfig() AsyncConfig {
	return AsyncConfig{
		PoolSize:         128,
		MaxBlockingTasks: 1024,
		ExpiryDuration:   10 * time.Second,
		Nonblocking:      false,
		ReleaseTimeout:   5 * time.Second,
	}
}
