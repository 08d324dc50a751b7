package config

import "time"

// BreakerConfig 熔断器配置（保护 Redis 辅助存储）
type BreakerConfig struct {
	MaxRequests  uint32        `json:"maxRequests" yaml:"maxRequests" env:"MAX_REQUESTS"`    // 半开状态下最多允许的请求数
	Interval     time.Duration `json:"interval" yaml:"interval" env:"INTERVAL"`              // 清除计数的时间间隔
	Timeout      time.Duration `json:"timeout" yaml:"timeout" env:"TIMEOUT"`                 // 开启后多久进入半开
	MinRequests  uint32        `json:"minRequests" yaml:"minRequests" env:"MIN_REQUESTS"`    // 触发熔断的最小请求数
	FailureRatio float64       `json:"failureRatio" yaml:"failureRatio" env:"FAILURE_RATIO"` // 触发熔断的失败率
}

// DefaultBreakerConfig 返回默认熔断配置。
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:  3,
		Interval:     15 * time.Second,
		Timeout:      30 * time.Second,
		MinRequests:  5,
		FailureRatio: 0.5,
	}
}
