package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"MatchServer/apps/match/internal/repository"
	"MatchServer/apps/match/internal/scoring"
	"MatchServer/config"
	"MatchServer/model"
	"MatchServer/pkg/clock"
	"MatchServer/pkg/logger"

	lru "github.com/hashicorp/golang-lru/v2"
)

// unlimited 配额不限时 Remaining 的取值
const unlimited = -1

// recommendationServiceImpl 推荐服务实现：每日配额、每日推荐、精选推荐
type recommendationServiceImpl struct {
	cfg          config.MatchConfig
	loc          *time.Location
	clock        clock.Clock
	likeRepo     repository.ILikeRepository
	userRepo     repository.IUserRepository
	standoutRepo repository.IStandoutRepository
	viewRepo     repository.IDailyPickViewRepository
	finder       ICandidateFinder
	completion   scoring.ICompletionCalculator

	// pickCache userID_date -> 今日推荐的用户ID
	pickCache sync.Map
	// standoutCache seekerID|date -> 当天精选列表
	standoutCache *lru.Cache[string, []*model.Standout]
}

// NewRecommendationService 创建推荐服务实例，时区非法时返回错误
func NewRecommendationService(
	cfg config.MatchConfig,
	clk clock.Clock,
	likeRepo repository.ILikeRepository,
	userRepo repository.IUserRepository,
	standoutRepo repository.IStandoutRepository,
	viewRepo repository.IDailyPickViewRepository,
	finder ICandidateFinder,
	completion scoring.ICompletionCalculator,
) (IRecommendationService, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("load user time zone: %w", err)
	}
	size := cfg.StandoutCacheSize
	if size <= 0 {
		size = config.DefaultMatchConfig().StandoutCacheSize
	}
	cache, err := lru.New[string, []*model.Standout](size)
	if err != nil {
		return nil, fmt.Errorf("create standout cache: %w", err)
	}
	return &recommendationServiceImpl{
		cfg:           cfg,
		loc:           loc,
		clock:         clk,
		likeRepo:      likeRepo,
		userRepo:      userRepo,
		standoutRepo:  standoutRepo,
		viewRepo:      viewRepo,
		finder:        finder,
		completion:    completion,
		standoutCache: cache,
	}, nil
}

// ==================== 每日配额 ====================

// CanLike 今日 LIKE 数未达上限
func (s *recommendationServiceImpl) CanLike(ctx context.Context, userID string) (bool, error) {
	if s.cfg.UnlimitedLikes {
		return true, nil
	}
	used, err := s.countToday(ctx, userID, model.DirectionLike)
	if err != nil {
		return false, err
	}
	return used < int64(s.cfg.DailyLikeLimit), nil
}

// CanPass 今日 PASS 数未达上限
func (s *recommendationServiceImpl) CanPass(ctx context.Context, userID string) (bool, error) {
	if s.cfg.UnlimitedPasses {
		return true, nil
	}
	used, err := s.countToday(ctx, userID, model.DirectionPass)
	if err != nil {
		return false, err
	}
	return used < int64(s.cfg.DailyPassLimit), nil
}

// GetDailyStatus 今日配额使用情况
func (s *recommendationServiceImpl) GetDailyStatus(ctx context.Context, userID string) (*DailyStatus, error) {
	likes, err := s.countToday(ctx, userID, model.DirectionLike)
	if err != nil {
		return nil, err
	}
	passes, err := s.countToday(ctx, userID, model.DirectionPass)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	return &DailyStatus{
		LikesUsed:       int(likes),
		LikesRemaining:  remaining(s.cfg.UnlimitedLikes, s.cfg.DailyLikeLimit, likes),
		PassesUsed:      int(passes),
		PassesRemaining: remaining(s.cfg.UnlimitedPasses, s.cfg.DailyPassLimit, passes),
		Date:            clock.DateString(now, s.loc),
		ResetsAt:        s.nextReset(now),
	}, nil
}

// TimeUntilReset 距离用户时区下一个零点的时长
func (s *recommendationServiceImpl) TimeUntilReset() time.Duration {
	now := s.clock.Now()
	return s.nextReset(now).Sub(now)
}

func (s *recommendationServiceImpl) nextReset(now time.Time) time.Time {
	return clock.StartOfDay(now, s.loc).AddDate(0, 0, 1)
}

func (s *recommendationServiceImpl) countToday(ctx context.Context, userID string, direction model.LikeDirection) (int64, error) {
	since := clock.StartOfDay(s.clock.Now(), s.loc)
	n, err := s.likeRepo.CountSince(ctx, userID, direction, since)
	if err != nil {
		return 0, internalError(ctx, "统计今日滑动次数失败", err,
			logger.String("user_id", userID),
			logger.String("direction", string(direction)),
		)
	}
	return n, nil
}

func remaining(isUnlimited bool, limit int, used int64) int {
	if isUnlimited {
		return unlimited
	}
	return max(0, limit-int(used))
}

// today 用户时区的今天
func (s *recommendationServiceImpl) today() string {
	return clock.DateString(s.clock.Now(), s.loc)
}
