package service

import (
	"time"

	"MatchServer/consts"
	"MatchServer/model"
)

// ==================== 滑动结果 ====================

// SwipeOutcome 滑动结果类型
type SwipeOutcome string

const (
	SwipeMatched           SwipeOutcome = "MATCHED"
	SwipeLiked             SwipeOutcome = "LIKED"
	SwipePassed            SwipeOutcome = "PASSED"
	SwipeDailyLimitReached SwipeOutcome = "DAILY_LIMIT_REACHED"
	SwipeSessionLimit      SwipeOutcome = "SESSION_LIMIT_REACHED"
	SwipeDuplicate         SwipeOutcome = "DUPLICATE"
	SwipeInvalid           SwipeOutcome = "INVALID"
)

// SwipeResult 一次滑动的结果
type SwipeResult struct {
	Outcome SwipeOutcome
	Code    int
	Message string
	Like    *model.Like
	Match   *model.Match
	Warning string // 滑动过快等提示，不影响结果
}

// Success 是否成功记录
func (r *SwipeResult) Success() bool {
	return r.Outcome == SwipeMatched || r.Outcome == SwipeLiked || r.Outcome == SwipePassed
}

// ==================== 撤销结果 ====================

// UndoResult 撤销结果，失败时 Message 为面向用户的原因
type UndoResult struct {
	Success      bool
	Code         int
	Message      string
	UndoneSwipe  *model.Like
	MatchDeleted bool
}

func undoFailure(code int, message string) *UndoResult {
	return &UndoResult{Code: code, Message: message}
}

// ==================== 推荐结果 ====================

// DailyStatus 今日配额使用情况，Remaining 为 -1 表示不限
type DailyStatus struct {
	LikesUsed       int
	LikesRemaining  int
	PassesUsed      int
	PassesRemaining int
	Date            string
	ResetsAt        time.Time
}

// DailyPick 今日推荐
type DailyPick struct {
	User        *model.UserProfile
	Date        string
	Reason      string
	AlreadySeen bool
}

// StandoutResult 精选推荐结果，列表为空时 Message 说明原因
type StandoutResult struct {
	Standouts       []*model.Standout
	TotalCandidates int
	FromCache       bool
	Message         string
}

// IsEmpty 是否没有精选
func (r *StandoutResult) IsEmpty() bool { return len(r.Standouts) == 0 }

// ==================== 消息结果 ====================

// SendResult 发送消息结果
type SendResult struct {
	Success bool
	Code    int
	Message string
	Sent    *model.Message
}

func sendFailure(code int, message string) *SendResult {
	return &SendResult{Code: code, Message: message}
}

// ConversationPreview 会话列表项
type ConversationPreview struct {
	Conversation *model.Conversation
	OtherUser    *model.UserProfile
	LastMessage  *model.Message // 没有消息时为 nil
	UnreadCount  int64
}

// ==================== 关系流转结果 ====================

// Outcome 多步流转的结果
type Outcome string

const (
	// OutcomeSuccess 全部步骤成功
	OutcomeSuccess Outcome = "SUCCESS"
	// OutcomeRejected 校验或状态检查未通过，没有任何写入
	OutcomeRejected Outcome = "REJECTED"
	// OutcomeCompensated 第二步失败，第一步已被补偿回滚
	OutcomeCompensated Outcome = "COMPENSATED"
	// OutcomePartialFailure 主步骤已生效，后续步骤或补偿失败，数据待修复
	OutcomePartialFailure Outcome = "PARTIAL_FAILURE"
)

// TransitionResult 关系流转结果
type TransitionResult struct {
	Outcome Outcome
	Code    int
	Message string
	Match   *model.Match
	Request *model.FriendRequest
}

// Success 主步骤是否生效（PARTIAL_FAILURE 也算生效）
func (r *TransitionResult) Success() bool {
	return r.Outcome == OutcomeSuccess || r.Outcome == OutcomePartialFailure
}

func rejected(code int, message string) *TransitionResult {
	return &TransitionResult{Outcome: OutcomeRejected, Code: code, Message: message}
}

func succeeded(match *model.Match, req *model.FriendRequest) *TransitionResult {
	return &TransitionResult{Outcome: OutcomeSuccess, Code: consts.CodeSuccess, Match: match, Request: req}
}

// ==================== 活跃度结果 ====================

// ActivityResult 会话统计结果
type ActivityResult struct {
	Allowed       bool
	Session       *model.SwipeSession
	Warning       string
	BlockedReason string
}
