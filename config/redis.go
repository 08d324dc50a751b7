package config

import "time"

// RedisConfig Redis 连接配置
type RedisConfig struct {
	Addr         string        `json:"addr" yaml:"addr" env:"ADDR"`
	Password     string        `json:"password" yaml:"password" env:"PASSWORD"`
	DB           int           `json:"db" yaml:"db" env:"DB"`
	PoolSize     int           `json:"poolSize" yaml:"poolSize" env:"POOL_SIZE"`
	MinIdleConns int           `json:"minIdleConns" yaml:"minIdleConns" env:"MIN_IDLE_CONNS"`
	DialTimeout  time.Duration `json:"dialTimeout" yaml:"dialTimeout" env:"DIAL_TIMEOUT"`
	ReadTimeout  time.Duration `json:"readTimeout" yaml:"readTimeout" env:"READ_TIMEOUT"`
	WriteTimeout time.Duration `json:"writeTimeout" yaml:"writeTimeout" env:"WRITE_TIMEOUT"`
}

// DefaultRedisConfig 返回本地开发的默认配置。
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:         "127.0.0.1:6379",
		PoolSize:     20,
		MinIdleConns: 5,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  50 * time.Millisecond, // 快速失败，辅助缓存不拖慢主流程
		WriteTimeout: 50 * time.Millisecond,
	}
}
