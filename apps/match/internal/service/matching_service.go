package service

import (
	"context"
	"errors"
	"time"

	"MatchServer/apps/match/internal/repository"
	"MatchServer/consts"
	"MatchServer/model"
	"MatchServer/pkg/async"
	"MatchServer/pkg/clock"
	"MatchServer/pkg/lockstripe"
	"MatchServer/pkg/logger"
	"MatchServer/pkg/util"
)

const (
	msgMatched          = "It's a match!"
	msgLiked            = "Liked!"
	msgPassed           = "Passed."
	msgDailyLikeLimit   = "Daily like limit reached."
	msgDailyPassLimit   = "Daily pass limit reached."
	msgAlreadySwiped    = "Already swiped on this user."
	msgSelfSwipe        = "Cannot swipe on yourself."
	msgInvalidDirection = "Invalid swipe direction."

	matchNotifyTitle   = "New Match!"
	matchNotifyMessage = "You have a new match. Say hello!"
)

// notifyTimeout 异步通知的超时时间
const notifyTimeout = 5 * time.Second

// matchingServiceImpl 滑动与匹配服务实现
type matchingServiceImpl struct {
	clock     clock.Clock
	locks     *lockstripe.Table
	likeRepo  repository.ILikeRepository
	matchRepo repository.IMatchRepository
	userRepo  repository.IUserRepository
	activity  IActivityService
	undo      IUndoService
	recommend IRecommendationService
	notifier  INotifier
}

// NewMatchingService 创建滑动与匹配服务实例
func NewMatchingService(
	clk clock.Clock,
	locks *lockstripe.Table,
	likeRepo repository.ILikeRepository,
	matchRepo repository.IMatchRepository,
	userRepo repository.IUserRepository,
	activity IActivityService,
	undo IUndoService,
	recommend IRecommendationService,
	notifier INotifier,
) IMatchingService {
	return &matchingServiceImpl{
		clock:     clk,
		locks:     locks,
		likeRepo:  likeRepo,
		matchRepo: matchRepo,
		userRepo:  userRepo,
		activity:  activity,
		undo:      undo,
		recommend: recommend,
		notifier:  notifier,
	}
}

// recordOutcome 一次记录的内部结果
type recordOutcome struct {
	match     *model.Match
	duplicate bool
	activity  *ActivityResult
}

// RecordLike 记录一次滑动
// 业务流程：
//  1. 同一有序对已有滑动 -> 直接返回（幂等）
//  2. 保存滑动
//  3. LIKE 且对方也 LIKE 过自己 -> 以规范化对 ID 幂等创建匹配
//  4. 通知活跃度统计（尽力而为）
//
// 错误码映射：
//   - codes.Internal: 存储异常
func (s *matchingServiceImpl) RecordLike(ctx context.Context, like *model.Like) (*model.Match, error) {
	out, err := s.record(ctx, like)
	if err != nil {
		return nil, err
	}
	return out.match, nil
}

func (s *matchingServiceImpl) record(ctx context.Context, like *model.Like) (*recordOutcome, error) {
	out, err := s.recordLocked(ctx, like)
	if err != nil || out.duplicate {
		return out, err
	}

	// 4. 活跃度统计，在对级锁外执行
	activity, err := s.activity.RecordSwipe(ctx, like.FromUserId, like.Direction, out.match != nil)
	if err != nil {
		logger.Warn(ctx, "记录会话统计失败",
			logger.String("user_id", like.FromUserId),
			logger.ErrorField("error", err),
		)
	}
	out.activity = activity
	return out, nil
}

// recordLocked 在规范化对 ID 的分段锁内完成查重、保存和互相喜欢检测
func (s *matchingServiceImpl) recordLocked(ctx context.Context, like *model.Like) (*recordOutcome, error) {
	unlock := s.locks.Lock(model.PairID(like.FromUserId, like.ToUserId))
	defer unlock()

	// 1. 查重
	exists, err := s.likeRepo.Exists(ctx, like.FromUserId, like.ToUserId)
	if err != nil {
		return nil, internalError(ctx, "查询滑动记录失败", err,
			logger.String("from_user_id", like.FromUserId),
			logger.String("to_user_id", like.ToUserId),
		)
	}
	if exists {
		return &recordOutcome{duplicate: true}, nil
	}

	// 2. 保存滑动，并发重复由唯一索引兜底
	if err := s.likeRepo.Save(ctx, like); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return &recordOutcome{duplicate: true}, nil
		}
		return nil, internalError(ctx, "保存滑动记录失败", err,
			logger.String("from_user_id", like.FromUserId),
			logger.String("to_user_id", like.ToUserId),
		)
	}

	// 3. 互相喜欢检测
	out := &recordOutcome{}
	if like.IsLike() {
		reciprocal, err := s.likeRepo.ReciprocalExists(ctx, like.FromUserId, like.ToUserId)
		if err != nil {
			return nil, internalError(ctx, "查询互相喜欢失败", err,
				logger.String("from_user_id", like.FromUserId),
				logger.String("to_user_id", like.ToUserId),
			)
		}
		if reciprocal {
			match, err := s.createMatch(ctx, like)
			if err != nil {
				return nil, err
			}
			out.match = match
		}
	}
	return out, nil
}

// createMatch 幂等创建匹配：主键冲突说明另一方已创建，回读后只返回 ACTIVE 的匹配
func (s *matchingServiceImpl) createMatch(ctx context.Context, like *model.Like) (*model.Match, error) {
	match := model.NewMatch(like.FromUserId, like.ToUserId, s.clock.Now())
	err := s.matchRepo.Create(ctx, match)
	if err == nil {
		matchCreatedTotal.Inc()
		logger.Info(ctx, "匹配创建成功",
			logger.String("match_id", match.Id),
		)
		return match, nil
	}
	if !errors.Is(err, repository.ErrDuplicateKey) {
		return nil, internalError(ctx, "创建匹配失败", err, logger.String("match_id", match.Id))
	}

	existing, err := s.matchRepo.GetByID(ctx, match.Id)
	if err != nil {
		logger.Warn(ctx, "匹配冲突后回读失败",
			logger.String("match_id", match.Id),
			logger.ErrorField("error", err),
		)
		return nil, nil
	}
	if !existing.IsActive() {
		return nil, nil
	}
	return existing, nil
}

// ProcessSwipe 完整的滑动流程
// 业务流程：
//  1. 参数校验（不能滑自己、方向合法）
//  2. 会话滑动上限检查
//  3. 每日配额检查
//  4. 记录滑动（含匹配检测）
//  5. 写撤销槽位
//  6. 匹配成功通知双方，标记精选互动（尽力而为）
func (s *matchingServiceImpl) ProcessSwipe(ctx context.Context, userID, targetID string, direction model.LikeDirection) (*SwipeResult, error) {
	// 1. 参数校验
	like, err := model.NewLike(util.NewUUID(), userID, targetID, direction, s.clock.Now())
	if err != nil {
		s.countSwipe(SwipeInvalid)
		if errors.Is(err, model.ErrSelfLike) {
			return &SwipeResult{Outcome: SwipeInvalid, Code: consts.CodeSelfLike, Message: msgSelfSwipe}, nil
		}
		return &SwipeResult{Outcome: SwipeInvalid, Code: consts.CodeParamError, Message: msgInvalidDirection}, nil
	}

	// 2. 会话上限
	check, err := s.activity.CheckSwipeAllowed(ctx, userID)
	if err != nil {
		logger.Warn(ctx, "检查会话统计失败，放行",
			logger.String("user_id", userID),
			logger.ErrorField("error", err),
		)
	} else if !check.Allowed {
		s.countSwipe(SwipeSessionLimit)
		return &SwipeResult{Outcome: SwipeSessionLimit, Code: consts.CodeSessionLimit, Message: check.BlockedReason}, nil
	}

	// 3. 每日配额
	if result, err := s.checkDailyLimit(ctx, userID, direction); err != nil || result != nil {
		return result, err
	}

	// 4. 记录滑动
	out, err := s.record(ctx, like)
	if err != nil {
		return nil, err
	}
	if out.duplicate {
		s.countSwipe(SwipeDuplicate)
		return &SwipeResult{Outcome: SwipeDuplicate, Code: consts.CodeDuplicateSwipe, Message: msgAlreadySwiped}, nil
	}

	// 5. 撤销槽位
	if err := s.undo.RecordSwipe(ctx, userID, like, out.match); err != nil {
		logger.Warn(ctx, "写入撤销槽位失败",
			logger.String("user_id", userID),
			logger.ErrorField("error", err),
		)
	}

	// 6. 附带动作
	if err := s.recommend.MarkInteracted(ctx, userID, targetID); err != nil {
		logger.Warn(ctx, "标记精选互动失败",
			logger.String("user_id", userID),
			logger.ErrorField("error", err),
		)
	}

	result := &SwipeResult{Code: consts.CodeSuccess, Like: like, Match: out.match}
	switch {
	case out.match != nil:
		result.Outcome, result.Message = SwipeMatched, msgMatched
		s.notifyMatch(ctx, out.match)
	case like.IsLike():
		result.Outcome, result.Message = SwipeLiked, msgLiked
	default:
		result.Outcome, result.Message = SwipePassed, msgPassed
	}
	if out.activity != nil {
		result.Warning = out.activity.Warning
	}
	s.countSwipe(result.Outcome)
	return result, nil
}

// checkDailyLimit 配额用完时返回 DAILY_LIMIT_REACHED 结果
func (s *matchingServiceImpl) checkDailyLimit(ctx context.Context, userID string, direction model.LikeDirection) (*SwipeResult, error) {
	var (
		allowed bool
		err     error
		message string
	)
	if direction == model.DirectionLike {
		allowed, err = s.recommend.CanLike(ctx, userID)
		message = msgDailyLikeLimit
	} else {
		allowed, err = s.recommend.CanPass(ctx, userID)
		message = msgDailyPassLimit
	}
	if err != nil {
		return nil, err
	}
	if allowed {
		return nil, nil
	}
	s.countSwipe(SwipeDailyLimitReached)
	return &SwipeResult{Outcome: SwipeDailyLimitReached, Code: consts.CodeDailyLimitReached, Message: message}, nil
}

// notifyMatch 异步通知双方匹配成功
func (s *matchingServiceImpl) notifyMatch(ctx context.Context, match *model.Match) {
	async.RunSafe(ctx, "notify_match", func(ctx context.Context) {
		for _, userID := range []string{match.UserA, match.UserB} {
			s.notifier.Notify(ctx, userID, model.NotificationMatchFound, matchNotifyTitle, matchNotifyMessage, map[string]string{
				"matchId":     match.Id,
				"otherUserId": match.OtherUser(userID),
			})
		}
	}, notifyTimeout)
}

func (s *matchingServiceImpl) countSwipe(outcome SwipeOutcome) {
	swipeTotal.WithLabelValues(string(outcome)).Inc()
}

// FindPendingLikers 喜欢了我、我还没有回应、且与我没有任何匹配关系的激活用户，按喜欢时间倒序
func (s *matchingServiceImpl) FindPendingLikers(ctx context.Context, userID string) ([]*model.UserProfile, error) {
	likerIDs, err := s.likeRepo.ListPendingLikerIDs(ctx, userID)
	if err != nil {
		return nil, internalError(ctx, "查询待回应的喜欢失败", err, logger.String("user_id", userID))
	}
	if len(likerIDs) == 0 {
		return []*model.UserProfile{}, nil
	}

	matches, err := s.matchRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, internalError(ctx, "查询匹配关系失败", err, logger.String("user_id", userID))
	}
	related := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		related[m.OtherUser(userID)] = struct{}{}
	}

	ids := make([]string, 0, len(likerIDs))
	for _, id := range likerIDs {
		if _, ok := related[id]; !ok {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return []*model.UserProfile{}, nil
	}

	users, err := s.userRepo.BatchGetByIDs(ctx, ids)
	if err != nil {
		return nil, internalError(ctx, "批量查询用户失败", err, logger.String("user_id", userID))
	}
	byID := make(map[string]*model.UserProfile, len(users))
	for _, u := range users {
		byID[u.Id] = u
	}

	// 保持 likeRepo 返回的时间倒序
	result := make([]*model.UserProfile, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok && u.IsActive() {
			result = append(result, u)
		}
	}
	return result, nil
}

