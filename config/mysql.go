package config

import "time"

// MySQLConfig MySQL 连接配置
type MySQLConfig struct {
	DSN             string        `json:"dsn" yaml:"dsn" env:"DSN"`                              // 主库 DSN
	Replicas        []string      `json:"replicas" yaml:"replicas" env:"REPLICAS"`               // 只读副本 DSN（可选，dbresolver 读写分离）
	MaxIdleConns    int           `json:"maxIdleConns" yaml:"maxIdleConns" env:"MAX_IDLE_CONNS"` // 最大空闲连接数
	MaxOpenConns    int           `json:"maxOpenConns" yaml:"maxOpenConns" env:"MAX_OPEN_CONNS"` // 最大打开连接数
	ConnMaxLifetime time.Duration `json:"connMaxLifetime" yaml:"connMaxLifetime" env:"CONN_MAX_LIFETIME"`
	SlowThreshold   time.Duration `json:"slowThreshold" yaml:"slowThreshold" env:"SLOW_THRESHOLD"` // 慢查询阈值
	AutoMigrate     bool          `json:"autoMigrate" yaml:"autoMigrate" env:"AUTO_MIGRATE"`       // 启动时自动建表
}

// DefaultMySQLConfig 返回本地开发的默认配置。
func DefaultMySQLConfig() MySQLConfig {
	return MySQLConfig{
		DSN:             "root:root@tcp(127.0.0.1:3306)/match?charset=utf8mb4&parseTime=True&loc=UTC",
		MaxIdleConns:    10,
		MaxOpenConns:    100,
		ConnMaxLifetime: time.Hour,
		SlowThreshold:   200 * time.Millisecond,
		AutoMigrate:     true,
	}
}
