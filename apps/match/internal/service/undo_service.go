package service

import (
	"context"
	"errors"
	"fmt"

	"MatchServer/apps/match/internal/repository"
	"MatchServer/config"
	"MatchServer/consts"
	"MatchServer/model"
	"MatchServer/pkg/clock"
	"MatchServer/pkg/logger"
)

const (
	msgNoUndoState  = "No swipe to undo"
	msgUndoExpired  = "Undo window expired"
	msgUndoLikeGone = "Like not found in database"
	msgUndoFailed   = "Failed to undo: %s"
)

// undoServiceImpl 撤销服务实现：每个用户一个槽位，窗口期内可撤销最近一次滑动
type undoServiceImpl struct {
	cfg      config.MatchConfig
	clock    clock.Clock
	undoRepo repository.IUndoRepository
	likeRepo repository.ILikeRepository
}

// NewUndoService 创建撤销服务实例
func NewUndoService(
	cfg config.MatchConfig,
	clk clock.Clock,
	undoRepo repository.IUndoRepository,
	likeRepo repository.ILikeRepository,
) IUndoService {
	return &undoServiceImpl{
		cfg:      cfg,
		clock:    clk,
		undoRepo: undoRepo,
		likeRepo: likeRepo,
	}
}

// RecordSwipe 覆盖用户的撤销槽位
func (s *undoServiceImpl) RecordSwipe(ctx context.Context, userID string, like *model.Like, match *model.Match) error {
	state := model.NewUndoState(like, match, s.clock.Now().Add(s.cfg.UndoWindow()))
	state.UserId = userID
	if err := s.undoRepo.Save(ctx, state); err != nil {
		return internalError(ctx, "写入撤销槽位失败", err, logger.String("user_id", userID))
	}
	return nil
}

// CanUndo 是否存在未过期的槽位
func (s *undoServiceImpl) CanUndo(ctx context.Context, userID string) (bool, error) {
	state, err := s.liveState(ctx, userID)
	if err != nil {
		return false, err
	}
	return state != nil, nil
}

// SecondsRemaining 撤销窗口剩余秒数
func (s *undoServiceImpl) SecondsRemaining(ctx context.Context, userID string) (int, error) {
	state, err := s.liveState(ctx, userID)
	if err != nil || state == nil {
		return 0, err
	}
	return state.SecondsRemaining(s.clock.Now()), nil
}

// liveState 读取未过期的槽位，过期槽位顺便清除
func (s *undoServiceImpl) liveState(ctx context.Context, userID string) (*model.UndoState, error) {
	state, err := s.undoRepo.GetByUser(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil
		}
		return nil, internalError(ctx, "查询撤销槽位失败", err, logger.String("user_id", userID))
	}
	if state.IsExpired(s.clock.Now()) {
		s.clearSlot(ctx, userID)
		return nil, nil
	}
	return state, nil
}

// Undo 撤销最近一次滑动
// 业务流程：
//  1. 读取槽位，没有 -> 失败
//  2. 已过期 -> 清除槽位，失败
//  3. 同一事务删除滑动与其创建的匹配
//  4. 清除槽位
//
// 删除失败时保留槽位，用户可以重试
func (s *undoServiceImpl) Undo(ctx context.Context, userID string) (*UndoResult, error) {
	// 1. 读取槽位
	state, err := s.undoRepo.GetByUser(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			undoTotal.WithLabelValues("no_state").Inc()
			return undoFailure(consts.CodeNoUndoState, msgNoUndoState), nil
		}
		return nil, internalError(ctx, "查询撤销槽位失败", err, logger.String("user_id", userID))
	}

	// 2. 过期检查
	if state.IsExpired(s.clock.Now()) {
		s.clearSlot(ctx, userID)
		undoTotal.WithLabelValues("expired").Inc()
		return undoFailure(consts.CodeUndoExpired, msgUndoExpired), nil
	}

	// 3. 原子删除
	if err := s.likeRepo.DeleteLikeAndMatch(ctx, state.LikeId, state.MatchId); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			logger.Warn(ctx, "撤销时滑动记录已不存在",
				logger.String("user_id", userID),
				logger.String("like_id", state.LikeId),
			)
			undoTotal.WithLabelValues("like_gone").Inc()
			return undoFailure(consts.CodeUndoLikeGone, msgUndoLikeGone), nil
		}
		logger.Error(ctx, "撤销删除失败",
			logger.String("user_id", userID),
			logger.String("like_id", state.LikeId),
			logger.String("match_id", state.MatchId),
			logger.ErrorField("error", err),
		)
		undoTotal.WithLabelValues("failed").Inc()
		return undoFailure(consts.CodeUndoFailed, fmt.Sprintf(msgUndoFailed, err.Error())), nil
	}

	// 4. 清除槽位
	s.clearSlot(ctx, userID)
	undoTotal.WithLabelValues("success").Inc()

	return &UndoResult{
		Success:      true,
		Code:         consts.CodeSuccess,
		UndoneSwipe:  state.Like(),
		MatchDeleted: state.MatchId != "",
	}, nil
}

// CleanupExpired 清除所有过期槽位
func (s *undoServiceImpl) CleanupExpired(ctx context.Context) (int64, error) {
	n, err := s.undoRepo.DeleteExpired(ctx, s.clock.Now())
	if err != nil {
		return 0, internalError(ctx, "清理过期撤销槽位失败", err)
	}
	return n, nil
}

func (s *undoServiceImpl) clearSlot(ctx context.Context, userID string) {
	if err := s.undoRepo.DeleteByUser(ctx, userID); err != nil {
		logger.Warn(ctx, "清除撤销槽位失败",
			logger.String("user_id", userID),
			logger.ErrorField("error", err),
		)
	}
}
