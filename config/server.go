package config

import "time"

// ServerConfig 进程级配置
type ServerConfig struct {
	Name            string        `json:"name" yaml:"name" env:"NAME"`
	MetricsAddr     string        `json:"metricsAddr" yaml:"metricsAddr" env:"METRICS_ADDR"`             // Prometheus 指标地址
	SnowflakeNode   int64         `json:"snowflakeNode" yaml:"snowflakeNode" env:"SNOWFLAKE_NODE"`       // 雪花算法节点号
	CleanupInterval time.Duration `json:"cleanupInterval" yaml:"cleanupInterval" env:"CLEANUP_INTERVAL"` // 定期清理间隔
	ShutdownTimeout time.Duration `json:"shutdownTimeout" yaml:"shutdownTimeout" env:"SHUTDOWN_TIMEOUT"`
}

// DefaultServerConfig 返回默认进程配置。
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Name:            "match-service",
		MetricsAddr:     ":9091",
		SnowflakeNode:   1,
		CleanupInterval: time.Minute,
		ShutdownTimeout: 10 * time.Second,
	}
}
