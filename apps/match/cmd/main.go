package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"MatchServer/apps/match/internal/repository"
	"MatchServer/apps/match/internal/scoring"
	"MatchServer/apps/match/internal/service"
	"MatchServer/apps/match/internal/worker"
	"MatchServer/config"
	"MatchServer/pkg/async"
	"MatchServer/pkg/breaker"
	"MatchServer/pkg/clock"
	"MatchServer/pkg/lockstripe"
	"MatchServer/pkg/logger"
	"MatchServer/pkg/mysql"
	pkgredis "MatchServer/pkg/redis"
	"MatchServer/pkg/util"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func main() {
	configPath := flag.String("config", "configs/match.yaml", "配置文件路径")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 2. 初始化日志
	zl, err := logger.Build(cfg.Logger)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	logger.ReplaceGlobal(zl)
	defer zl.Sync()

	// 3. 初始化MySQL并建表
	db, err := mysql.Build(cfg.MySQL)
	if err != nil {
		log.Fatalf("初始化MySQL失败: %v", err)
	}
	mysql.ReplaceGlobal(db)
	if cfg.MySQL.AutoMigrate {
		if err := repository.AutoMigrate(db); err != nil {
			log.Fatalf("数据库迁移失败: %v", err)
		}
	}

	// 4. 初始化Redis
	var redisClient *redis.Client
	redisClient, err = pkgredis.Build(cfg.Redis)
	if err != nil {
		// Redis 不可用不阻塞启动：会话统计与推荐查看记录降级
		logger.Warn(ctx, "Redis 初始化失败，滑动会话与每日推荐查看记录将降级",
			logger.ErrorField("error", err),
		)
		redisClient = nil
	} else {
		pkgredis.ReplaceGlobal(redisClient)
		logger.Info(ctx, "Redis 初始化成功", logger.String("addr", cfg.Redis.Addr))
	}

	// 5. 初始化小组件
	if err := util.InitSnowflake(cfg.Server.SnowflakeNode); err != nil {
		log.Fatalf("初始化雪花算法失败: %v", err)
	}
	async.SetContextPropagator(util.PropagateTrace)
	if err := async.Init(cfg.Async); err != nil {
		log.Fatalf("初始化协程池失败: %v", err)
	}
	defer func() {
		if err := async.Release(); err != nil {
			logger.Warn(context.Background(), "释放协程池超时", logger.ErrorField("error", err))
		}
	}()
	redisBreaker := breaker.New("match-redis", cfg.Breaker, repository.ErrRedisNil)

	// 6. 组装依赖 - Repository 层
	likeRepo := repository.NewLikeRepository(db)
	matchRepo := repository.NewMatchRepository(db)
	undoRepo := repository.NewUndoRepository(db)
	userRepo := repository.NewUserRepository(db)
	convRepo := repository.NewConversationRepository(db)
	msgRepo := repository.NewMessageRepository(db)
	friendRepo := repository.NewFriendRequestRepository(db)
	standoutRepo := repository.NewStandoutRepository(db)
	notificationRepo := repository.NewNotificationRepository(db, redisClient)
	sessionRepo := repository.NewSwipeSessionRepository(redisClient, redisBreaker)
	viewRepo := repository.NewDailyPickViewRepository(redisClient, redisBreaker)

	// 7. 组装依赖 - Service 层
	clk := clock.System()
	notifier := service.NewNotifier(notificationRepo, clk)
	activityService := service.NewActivityService(cfg.Match, clk, sessionRepo, lockstripe.New(lockstripe.DefaultStripes))
	finder := service.NewCandidateFinder(userRepo, likeRepo, matchRepo, clk)
	undoService := service.NewUndoService(cfg.Match, clk, undoRepo, likeRepo)
	recommendService, err := service.NewRecommendationService(cfg.Match, clk, likeRepo, userRepo, standoutRepo, viewRepo, finder, scoring.NewCompletionCalculator())
	if err != nil {
		log.Fatalf("初始化推荐服务失败: %v", err)
	}
	engine := &service.Engine{
		Matching:       service.NewMatchingService(clk, lockstripe.New(lockstripe.DefaultStripes), likeRepo, matchRepo, userRepo, activityService, undoService, recommendService, notifier),
		Undo:           undoService,
		Recommendation: recommendService,
		Finder:         finder,
		Messaging:      service.NewMessagingService(cfg.Match, clk, userRepo, matchRepo, convRepo, msgRepo, notifier),
		Relationship:   service.NewRelationshipService(clk, lockstripe.New(lockstripe.DefaultStripes), matchRepo, friendRepo, convRepo, notifier),
		Activity:       activityService,
		Notifier:       notifier,
	}
	if err := engine.Validate(); err != nil {
		log.Fatalf("装配匹配引擎失败: %v", err)
	}
	// 传输层（gRPC/HTTP handler）注册时从 engine 取服务
	logger.Info(ctx, "匹配引擎装配完成", logger.Int("stripes", lockstripe.DefaultStripes))

	// 8. 启动定期清理
	cleaner := worker.NewCleaner(cfg.Match, cfg.Server.CleanupInterval, clk, engine.Undo, engine.Recommendation, engine.Relationship)
	go cleaner.Run(ctx)

	// 9. 启动 Metrics HTTP Server（暴露 Prometheus 指标）
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{
		Addr:              cfg.Server.MetricsAddr,
		Handler:           metricsMux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info(ctx, "Metrics HTTP Server 启动中", logger.String("address", cfg.Server.MetricsAddr))
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "Metrics HTTP Server 启动失败", logger.ErrorField("error", err))
		}
	}()

	logger.Info(ctx, "Match 服务启动成功",
		logger.String("name", cfg.Server.Name),
		logger.String("metrics_address", cfg.Server.MetricsAddr),
		logger.String("user_time_zone", cfg.Match.UserTimeZone),
	)

	// 10. 优雅退出
	<-ctx.Done()
	logger.Info(context.Background(), "收到退出信号，开始关闭")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "关闭 Metrics HTTP Server 失败", logger.ErrorField("error", err))
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Warn(shutdownCtx, "关闭 Redis 失败", logger.ErrorField("error", err))
		}
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
