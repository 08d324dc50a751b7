package mysql

import (
	"fmt"
	"sync"

	"MatchServer/config"
	"MatchServer/pkg/logger"

	"go.uber.org/zap"
	driver "gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

var (
	global   *gorm.DB
	globalMu sync.RWMutex
)

// DB 返回全局 gorm 实例（未初始化时为 nil）。
func DB() *gorm.DB {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return global
}

// ReplaceGlobal 替换全局 gorm 实例。
func ReplaceGlobal(db *gorm.DB) {
	globalMu.Lock()
	global = db
	globalMu.Unlock()
}

// Build 根据配置创建 gorm 实例；配置了只读副本时启用 dbresolver 读写分离。
func Build(cfg config.MySQLConfig) (*gorm.DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("mysql dsn is empty")
	}

	db, err := gorm.Open(driver.Open(cfg.DSN), &gorm.Config{
		Logger:                 newGormLogger(cfg),
		SkipDefaultTransaction: true,
		// 唯一键冲突转为 gorm.ErrDuplicatedKey，repository 层据此判断幂等
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}

	if len(cfg.Replicas) > 0 {
		replicas := make([]gorm.Dialector, 0, len(cfg.Replicas))
		for _, dsn := range cfg.Replicas {
			replicas = append(replicas, driver.Open(dsn))
		}
		resolver := dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		}).
			SetMaxIdleConns(cfg.MaxIdleConns).
			SetMaxOpenConns(cfg.MaxOpenConns).
			SetConnMaxLifetime(cfg.ConnMaxLifetime)
		if err := db.Use(resolver); err != nil {
			return nil, fmt.Errorf("register dbresolver: %w", err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return db, nil
}

// newGormLogger 把 gorm 日志桥接到 zap，只输出慢查询和错误。
func newGormLogger(cfg config.MySQLConfig) gormlogger.Interface {
	std := zap.NewStdLog(logger.L().Named("gorm"))
	return gormlogger.New(std, gormlogger.Config{
		SlowThreshold:             cfg.SlowThreshold,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
