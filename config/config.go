package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config 匹配服务全量配置
type Config struct {
	Server  ServerConfig  `json:"server" yaml:"server" envPrefix:"SERVER_"`
	Logger  LoggerConfig  `json:"logger" yaml:"logger" envPrefix:"LOG_"`
	MySQL   MySQLConfig   `json:"mysql" yaml:"mysql" envPrefix:"MYSQL_"`
	Redis   RedisConfig   `json:"redis" yaml:"redis" envPrefix:"REDIS_"`
	Async   AsyncConfig   `json:"async" yaml:"async" envPrefix:"ASYNC_"`
	Breaker BreakerConfig `json:"breaker" yaml:"breaker" envPrefix:"BREAKER_"`
	Match   MatchConfig   `json:"match" yaml:"match" envPrefix:"MATCH_"`
}

// DefaultConfig 返回全部默认配置
func DefaultConfig() *Config {
	return &Config{
		Server:  DefaultServerConfig(),
		Logger:  DefaultLoggerConfig(),
		MySQL:   DefaultMySQLConfig(),
		Redis:   DefaultRedisConfig(),
		Async:   DefaultAsyncConfig(),
		Breaker: DefaultBreakerConfig(),
		Match:   DefaultMatchConfig(),
	}
}

// Load 加载配置：默认值 -> YAML 文件覆盖 -> 环境变量覆盖（优先级最高）
// path 为空或文件不存在时只使用默认值与环境变量。
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := loadFromYAML(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Match.Validate(); err != nil {
		return nil, fmt.Errorf("invalid match config: %w", err)
	}
	return cfg, nil
}

// loadFromYAML 在默认值之上覆盖 YAML 中出现的字段
func loadFromYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}
