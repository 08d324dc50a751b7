package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"MatchServer/apps/match/internal/repository"
	"MatchServer/consts"
	"MatchServer/model"
	"MatchServer/pkg/clock"
	"MatchServer/pkg/lockstripe"
	"MatchServer/pkg/logger"
	"MatchServer/pkg/util"
)

const (
	msgActiveMatchRequired  = "An active match is required to request the Friend Zone."
	msgRequestAlreadyExists = "A friend zone request is already pending between these users."
	msgRequestNotFound      = "Friend request not found."
	msgOnlyRecipientAccept  = "Only the recipient can accept a friend request."
	msgOnlyRecipientDecline = "Only the recipient can decline a friend request."
	msgRequestNotPending    = "Request is no longer pending."
	msgMatchMissing         = "Could not find the associated match."
	msgMatchNotActive       = "The match is no longer active."
	msgRequestUpdateFailed  = "Failed to update friend request status: %v"
	msgCompensationFailed   = "Failed to update friend request status and could not restore the match: %v"
	msgNoRelationship       = "No active relationship found between these users."
	msgRelationshipEnded    = "Relationship has already ended."
	msgArchiveFailed        = "Relationship ended but the conversation could not be archived."

	friendRequestTitle    = "New Friend Request"
	friendRequestMessage  = "Someone wants to move your match to the Friend Zone."
	friendAcceptedTitle   = "Friend Request Accepted"
	friendAcceptedMessage = "Your match with the other user has successfully transitioned to the Friend Zone."
	gracefulExitTitle     = "Relationship Ended"
	gracefulExitMessage   = "The other user has gracefully moved on from this relationship."
)

// relationshipServiceImpl 关系生命周期服务实现。
// 跨两张表的流转按 saga 处理：第二步失败时补偿第一步，补偿也失败则显式返回 PARTIAL_FAILURE。
// 申请的查重与创建按规范化对 ID 加分段锁，跨进程由 uidx_pending_key 兜底
type relationshipServiceImpl struct {
	clock      clock.Clock
	locks      *lockstripe.Table
	matchRepo  repository.IMatchRepository
	friendRepo repository.IFriendRequestRepository
	convRepo   repository.IConversationRepository
	notifier   INotifier
}

// NewRelationshipService 创建关系生命周期服务实例
func NewRelationshipService(
	clk clock.Clock,
	locks *lockstripe.Table,
	matchRepo repository.IMatchRepository,
	friendRepo repository.IFriendRequestRepository,
	convRepo repository.IConversationRepository,
	notifier INotifier,
) IRelationshipService {
	return &relationshipServiceImpl{
		clock:      clk,
		locks:      locks,
		matchRepo:  matchRepo,
		friendRepo: friendRepo,
		convRepo:   convRepo,
		notifier:   notifier,
	}
}

// RequestFriendZone 发起转朋友申请
// 业务流程：
//  1. 双方必须有 ACTIVE 匹配
//  2. 双方之间不能已有待处理申请（对级锁内查重并创建）
//  3. 通知对方
func (s *relationshipServiceImpl) RequestFriendZone(ctx context.Context, fromUserID, targetUserID string) (*TransitionResult, error) {
	// 1. 匹配校验
	match, err := s.findMatch(ctx, fromUserID, targetUserID)
	if err != nil {
		return nil, err
	}
	if match == nil || !match.IsActive() {
		return s.done("request", rejected(consts.CodeNoActiveMatch, msgActiveMatchRequired)), nil
	}

	// 2. 查重并创建申请
	req, result, err := s.createPendingRequest(ctx, fromUserID, targetUserID)
	if err != nil || result != nil {
		return s.done("request", result), err
	}

	// 3. 通知对方
	s.notifier.Notify(ctx, targetUserID, model.NotificationFriendRequest, friendRequestTitle, friendRequestMessage,
		map[string]string{"fromUserId": fromUserID})

	return s.done("request", succeeded(match, req)), nil
}

// createPendingRequest 在对级锁内查重并创建申请。
// 锁只覆盖本进程，其他实例并发创建时由唯一索引返回 ErrDuplicateKey，同样按已存在处理
func (s *relationshipServiceImpl) createPendingRequest(ctx context.Context, fromUserID, targetUserID string) (*model.FriendRequest, *TransitionResult, error) {
	unlock := s.locks.Lock(model.PairID(fromUserID, targetUserID))
	defer unlock()

	_, err := s.friendRepo.GetPendingBetween(ctx, fromUserID, targetUserID)
	if err == nil {
		return nil, rejected(consts.CodeFriendRequestPending, msgRequestAlreadyExists), nil
	}
	if !repository.IsNotFound(err) {
		return nil, nil, internalError(ctx, "查询待处理申请失败", err,
			logger.String("from_user_id", fromUserID),
			logger.String("to_user_id", targetUserID),
		)
	}

	req := model.NewFriendRequest(util.NewUUID(), fromUserID, targetUserID, s.clock.Now())
	if err := s.friendRepo.Create(ctx, req); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, rejected(consts.CodeFriendRequestPending, msgRequestAlreadyExists), nil
		}
		return nil, nil, internalError(ctx, "创建转朋友申请失败", err,
			logger.String("from_user_id", fromUserID),
			logger.String("to_user_id", targetUserID),
		)
	}
	return req, nil, nil
}

// AcceptFriendZone 接受转朋友申请
// 业务流程：
//  1. 校验申请存在、响应者是接收方、申请仍待处理、匹配存在
//  2. 匹配 ACTIVE -> FRIENDS（条件更新）
//  3. 申请 PENDING -> ACCEPTED（条件更新）；失败则把匹配恢复为 ACTIVE
//  4. 通知申请方
func (s *relationshipServiceImpl) AcceptFriendZone(ctx context.Context, requestID, responderID string) (*TransitionResult, error) {
	// 1. 校验
	req, result, err := s.loadPendingRequest(ctx, requestID, responderID, msgOnlyRecipientAccept)
	if err != nil || result != nil {
		return s.done("accept", result), err
	}
	match, err := s.findMatch(ctx, req.FromUserId, req.ToUserId)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return s.done("accept", rejected(consts.CodeMatchNotFound, msgMatchMissing)), nil
	}

	// 2. 正向第一步：匹配转为 FRIENDS
	now := s.clock.Now()
	if err := match.TransitionToFriends(now); err != nil {
		return s.done("accept", rejected(consts.CodeInvalidTransition, msgMatchNotActive)), nil
	}
	if err := s.matchRepo.UpdateState(ctx, match, model.MatchStateActive); err != nil {
		if errors.Is(err, repository.ErrStateConflict) {
			return s.done("accept", rejected(consts.CodeInvalidTransition, msgMatchNotActive)), nil
		}
		return nil, internalError(ctx, "更新匹配状态失败", err, logger.String("match_id", match.Id))
	}

	// 3. 正向第二步：申请置为 ACCEPTED
	req.Respond(model.FriendRequestAccepted, now)
	if err := s.friendRepo.UpdateStatus(ctx, req); err != nil {
		req.Reopen()
		return s.done("accept", s.compensateAccept(ctx, match, req, err)), nil
	}

	// 4. 通知申请方
	s.notifier.Notify(ctx, req.FromUserId, model.NotificationFriendRequestAccepted, friendAcceptedTitle, friendAcceptedMessage,
		map[string]string{"responderId": responderID})

	return s.done("accept", succeeded(match, req)), nil
}

// compensateAccept 申请更新失败后把匹配恢复为 ACTIVE
func (s *relationshipServiceImpl) compensateAccept(ctx context.Context, match *model.Match, req *model.FriendRequest, cause error) *TransitionResult {
	logger.Warn(ctx, "更新转朋友申请失败，开始补偿",
		logger.String("request_id", req.Id),
		logger.String("match_id", match.Id),
		logger.ErrorField("error", cause),
	)

	match.RevertToActive(s.clock.Now())
	if err := s.matchRepo.UpdateState(ctx, match, model.MatchStateFriends); err != nil {
		logger.Error(ctx, "补偿失败，匹配停留在 FRIENDS",
			logger.String("request_id", req.Id),
			logger.String("match_id", match.Id),
			logger.ErrorField("cause", cause),
			logger.ErrorField("error", err),
		)
		match.State = model.MatchStateFriends
		return &TransitionResult{
			Outcome: OutcomePartialFailure,
			Code:    consts.CodeTransitionPartial,
			Message: fmt.Sprintf(msgCompensationFailed, cause),
			Match:   match,
			Request: req,
		}
	}

	return &TransitionResult{
		Outcome: OutcomeCompensated,
		Code:    consts.CodeTransitionCompensated,
		Message: fmt.Sprintf(msgRequestUpdateFailed, cause),
		Match:   match,
		Request: req,
	}
}

// DeclineFriendZone 拒绝转朋友申请，不修改匹配
func (s *relationshipServiceImpl) DeclineFriendZone(ctx context.Context, requestID, responderID string) (*TransitionResult, error) {
	req, result, err := s.loadPendingRequest(ctx, requestID, responderID, msgOnlyRecipientDecline)
	if err != nil || result != nil {
		return s.done("decline", result), err
	}

	req.Respond(model.FriendRequestDeclined, s.clock.Now())
	if err := s.friendRepo.UpdateStatus(ctx, req); err != nil {
		if errors.Is(err, repository.ErrRequestNotPending) {
			return s.done("decline", rejected(consts.CodeRequestNotPending, msgRequestNotPending)), nil
		}
		return nil, internalError(ctx, "更新转朋友申请失败", err, logger.String("request_id", requestID))
	}
	return s.done("decline", succeeded(nil, req)), nil
}

// loadPendingRequest 读取并校验申请：存在、响应者是接收方、仍待处理
func (s *relationshipServiceImpl) loadPendingRequest(ctx context.Context, requestID, responderID, notRecipientMsg string) (*model.FriendRequest, *TransitionResult, error) {
	req, err := s.friendRepo.GetByID(ctx, requestID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, rejected(consts.CodeFriendRequestNotFound, msgRequestNotFound), nil
		}
		return nil, nil, internalError(ctx, "查询转朋友申请失败", err, logger.String("request_id", requestID))
	}
	if req.ToUserId != responderID {
		return nil, rejected(consts.CodeNotRequestRecipient, notRecipientMsg), nil
	}
	if !req.IsPending() {
		return nil, rejected(consts.CodeRequestNotPending, msgRequestNotPending), nil
	}
	return req, nil, nil
}

// GracefulExit 体面退出：ACTIVE/FRIENDS -> GRACEFUL_EXIT，归档会话并通知对方
func (s *relationshipServiceImpl) GracefulExit(ctx context.Context, initiatorID, targetUserID string) (*TransitionResult, error) {
	return s.endRelationship(ctx, endAction{
		action: "graceful_exit",
		reason: model.ArchiveReasonGracefulExit,
		apply:  (*model.Match).GracefulExit,
		notify: true,
	}, initiatorID, targetUserID)
}

// Unmatch 解除匹配：ACTIVE/FRIENDS -> UNMATCHED，归档会话
func (s *relationshipServiceImpl) Unmatch(ctx context.Context, initiatorID, targetUserID string) (*TransitionResult, error) {
	return s.endRelationship(ctx, endAction{
		action: "unmatch",
		reason: model.ArchiveReasonUnmatch,
		apply:  (*model.Match).Unmatch,
	}, initiatorID, targetUserID)
}

// Block 拉黑：ACTIVE/FRIENDS -> BLOCKED，归档会话并对双方隐藏
func (s *relationshipServiceImpl) Block(ctx context.Context, initiatorID, targetUserID string) (*TransitionResult, error) {
	return s.endRelationship(ctx, endAction{
		action: "block",
		reason: model.ArchiveReasonBlock,
		apply:  (*model.Match).Block,
		hide:   true,
	}, initiatorID, targetUserID)
}

// endAction 结束关系的几种方式
type endAction struct {
	action string
	reason model.ArchiveReason
	apply  func(m *model.Match, initiator string, now time.Time) error
	hide   bool // 会话对双方不可见
	notify bool // 通知对方
}

// endRelationship 结束关系
// 业务流程：
//  1. 匹配存在且未结束
//  2. 匹配进入终态（条件更新）
//  3. 归档会话；失败时匹配不回滚，返回 PARTIAL_FAILURE
//  4. 按需通知对方
func (s *relationshipServiceImpl) endRelationship(ctx context.Context, act endAction, initiatorID, targetUserID string) (*TransitionResult, error) {
	// 1. 校验
	match, err := s.findMatch(ctx, initiatorID, targetUserID)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return s.done(act.action, rejected(consts.CodeMatchNotFound, msgNoRelationship)), nil
	}
	if match.IsTerminal() {
		return s.done(act.action, rejected(consts.CodeRelationshipEnded, msgRelationshipEnded)), nil
	}

	// 2. 匹配进入终态
	now := s.clock.Now()
	expected := match.State
	if err := act.apply(match, initiatorID, now); err != nil {
		return s.done(act.action, rejected(consts.CodeInvalidTransition, msgRelationshipEnded)), nil
	}
	if err := s.matchRepo.UpdateState(ctx, match, expected); err != nil {
		if errors.Is(err, repository.ErrStateConflict) {
			return s.done(act.action, rejected(consts.CodeRelationshipEnded, msgRelationshipEnded)), nil
		}
		return nil, internalError(ctx, "更新匹配状态失败", err,
			logger.String("match_id", match.Id),
			logger.String("action", act.action),
		)
	}

	// 3. 归档会话
	result := succeeded(match, nil)
	if err := s.archiveConversation(ctx, match.Id, act, now); err != nil {
		logger.Error(ctx, "关系已结束但归档会话失败",
			logger.String("match_id", match.Id),
			logger.String("action", act.action),
			logger.ErrorField("error", err),
		)
		result = &TransitionResult{
			Outcome: OutcomePartialFailure,
			Code:    consts.CodeTransitionPartial,
			Message: msgArchiveFailed,
			Match:   match,
		}
	}

	// 4. 通知
	if act.notify {
		s.notifier.Notify(ctx, targetUserID, model.NotificationGracefulExit, gracefulExitTitle, gracefulExitMessage,
			map[string]string{"initiatorId": initiatorID})
	}

	return s.done(act.action, result), nil
}

// archiveConversation 会话不存在时跳过
func (s *relationshipServiceImpl) archiveConversation(ctx context.Context, id string, act endAction, now time.Time) error {
	conv, err := s.convRepo.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil
		}
		return err
	}
	conv.Archive(act.reason, now)
	if act.hide {
		conv.VisibleToUserA = false
		conv.VisibleToUserB = false
	}
	return s.convRepo.Archive(ctx, conv)
}

// GetPendingRequestsFor 发给用户的待处理申请
func (s *relationshipServiceImpl) GetPendingRequestsFor(ctx context.Context, userID string) ([]*model.FriendRequest, error) {
	list, err := s.friendRepo.ListPendingFor(ctx, userID)
	if err != nil {
		return nil, internalError(ctx, "查询待处理申请失败", err, logger.String("user_id", userID))
	}
	return list, nil
}

// ExpireStaleRequests 过期 cutoff 之前创建的待处理申请
func (s *relationshipServiceImpl) ExpireStaleRequests(ctx context.Context, cutoff time.Time) (int64, error) {
	n, err := s.friendRepo.ExpireBefore(ctx, cutoff, s.clock.Now())
	if err != nil {
		return 0, internalError(ctx, "过期转朋友申请失败", err)
	}
	return n, nil
}

// findMatch 匹配不存在返回 nil
func (s *relationshipServiceImpl) findMatch(ctx context.Context, a, b string) (*model.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, model.PairID(a, b))
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil
		}
		return nil, internalError(ctx, "查询匹配失败", err,
			logger.String("user_a", a),
			logger.String("user_b", b),
		)
	}
	return match, nil
}

// done 记录流转指标
func (s *relationshipServiceImpl) done(action string, result *TransitionResult) *TransitionResult {
	if result != nil {
		transitionTotal.WithLabelValues(action, string(result.Outcome)).Inc()
	}
	return result
}
