package service

import (
	"context"
	"errors"

	"MatchServer/apps/match/internal/repository"
	"MatchServer/config"
	rediskey "MatchServer/consts/redisKey"
	"MatchServer/model"
	"MatchServer/pkg/clock"
	"MatchServer/pkg/lockstripe"
	"MatchServer/pkg/logger"
)

const (
	// minSwipesForVelocityCheck 会话内滑动次数达到该值才检查速度
	minSwipesForVelocityCheck = 10

	msgSessionLimit    = "Session swipe limit reached. Take a break!"
	msgVelocityWarning = "Unusually fast swiping detected. Take a moment to review profiles!"
)

// activityServiceImpl 滑动会话统计实现。
// 会话存放在 Redis，同一用户的读改写由分段锁串行化。
type activityServiceImpl struct {
	cfg         config.MatchConfig
	clock       clock.Clock
	sessionRepo repository.ISwipeSessionRepository
	locks       *lockstripe.Table
}

// NewActivityService 创建活跃度统计服务实例
func NewActivityService(
	cfg config.MatchConfig,
	clk clock.Clock,
	sessionRepo repository.ISwipeSessionRepository,
	locks *lockstripe.Table,
) IActivityService {
	return &activityServiceImpl{
		cfg:         cfg,
		clock:       clk,
		sessionRepo: sessionRepo,
		locks:       locks,
	}
}

// CheckSwipeAllowed 当前会话是否还允许滑动
func (s *activityServiceImpl) CheckSwipeAllowed(ctx context.Context, userID string) (*ActivityResult, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	session, err := s.loadLiveSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return &ActivityResult{Allowed: true}, nil
	}
	if s.cfg.MaxSwipesPerSession > 0 && session.SwipeCount >= s.cfg.MaxSwipesPerSession {
		sessionBlockedTotal.Inc()
		return &ActivityResult{Allowed: false, Session: session, BlockedReason: msgSessionLimit}, nil
	}
	return &ActivityResult{Allowed: true, Session: session}, nil
}

// RecordSwipe 在当前会话中记录一次滑动，会话不存在或已超时则开启新会话
func (s *activityServiceImpl) RecordSwipe(ctx context.Context, userID string, direction model.LikeDirection, matched bool) (*ActivityResult, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()

	now := s.clock.Now()
	session, err := s.loadLiveSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		session = model.NewSwipeSession(userID, now)
	}

	session.SwipeCount++
	if direction == model.DirectionLike {
		session.LikeCount++
	} else {
		session.PassCount++
	}
	if matched {
		session.MatchCount++
	}
	session.LastActivityAt = now

	if err := s.sessionRepo.Save(ctx, session, s.cfg.SessionTimeout+rediskey.SwipeSessionGraceTTL); err != nil {
		logger.Warn(ctx, "保存滑动会话失败",
			logger.String("user_id", userID),
			logger.ErrorField("error", err),
		)
		return nil, err
	}

	result := &ActivityResult{Allowed: true, Session: session}
	if session.SwipeCount >= minSwipesForVelocityCheck &&
		session.SwipesPerMinute(now) > s.cfg.SuspiciousSwipeVelocity {
		result.Warning = msgVelocityWarning
	}
	if s.cfg.MaxSwipesPerSession > 0 && session.SwipeCount >= s.cfg.MaxSwipesPerSession {
		result.Allowed = false
		result.BlockedReason = msgSessionLimit
	}
	return result, nil
}

// CurrentSession 当前会话，没有或已超时返回 nil
func (s *activityServiceImpl) CurrentSession(ctx context.Context, userID string) (*model.SwipeSession, error) {
	unlock := s.locks.Lock(userID)
	defer unlock()
	return s.loadLiveSession(ctx, userID)
}

// EndSession 结束当前会话
func (s *activityServiceImpl) EndSession(ctx context.Context, userID string) error {
	unlock := s.locks.Lock(userID)
	defer unlock()
	return s.sessionRepo.Delete(ctx, userID)
}

// loadLiveSession 读取未超时的会话，调用方需持有该用户的锁
func (s *activityServiceImpl) loadLiveSession(ctx context.Context, userID string) (*model.SwipeSession, error) {
	session, err := s.sessionRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrRedisNil) {
			return nil, nil
		}
		return nil, err
	}
	if session.IsTimedOut(s.clock.Now(), s.cfg.SessionTimeout) {
		return nil, nil
	}
	return session, nil
}
