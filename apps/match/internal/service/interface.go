package service

import (
	"context"
	"time"

	"MatchServer/model"
)

// ==================== 滑动/匹配服务接口 ====================

// IMatchingService 滑动与匹配服务接口
// 职责：记录滑动、检测互相喜欢并幂等创建匹配、滑动流程编排
type IMatchingService interface {
	// RecordLike 记录一次滑动；对方也 LIKE 过自己时返回创建（或已存在）的 ACTIVE 匹配
	RecordLike(ctx context.Context, like *model.Like) (*model.Match, error)

	// ProcessSwipe 完整的滑动流程：配额检查 -> 记录 -> 撤销槽位 -> 通知
	ProcessSwipe(ctx context.Context, userID, targetID string, direction model.LikeDirection) (*SwipeResult, error)

	// FindPendingLikers 喜欢了我但我还没有回应的激活用户，按喜欢时间倒序
	FindPendingLikers(ctx context.Context, userID string) ([]*model.UserProfile, error)
}

// ==================== 撤销服务接口 ====================

// IUndoService 撤销服务接口
// 职责：单槽位、限时的最近一次滑动撤销
type IUndoService interface {
	// RecordSwipe 记录（覆盖）用户的撤销槽位
	RecordSwipe(ctx context.Context, userID string, like *model.Like, match *model.Match) error

	// CanUndo 是否存在未过期的槽位（过期槽位会被顺便清除）
	CanUndo(ctx context.Context, userID string) (bool, error)

	// SecondsRemaining 撤销窗口剩余秒数，没有槽位返回 0
	SecondsRemaining(ctx context.Context, userID string) (int, error)

	// Undo 撤销最近一次滑动及其创建的匹配
	Undo(ctx context.Context, userID string) (*UndoResult, error)

	// CleanupExpired 清除所有过期槽位
	CleanupExpired(ctx context.Context) (int64, error)
}

// ==================== 推荐服务接口 ====================

// IRecommendationService 推荐服务接口
// 职责：每日配额、每日推荐、精选推荐
type IRecommendationService interface {
	// CanLike 今日是否还能 LIKE
	CanLike(ctx context.Context, userID string) (bool, error)

	// CanPass 今日是否还能 PASS
	CanPass(ctx context.Context, userID string) (bool, error)

	// GetDailyStatus 今日配额使用情况
	GetDailyStatus(ctx context.Context, userID string) (*DailyStatus, error)

	// TimeUntilReset 距离配额重置（用户时区零点）的时长
	TimeUntilReset() time.Duration

	// GetDailyPick 今日推荐，没有候选人时返回 nil
	GetDailyPick(ctx context.Context, seeker *model.UserProfile) (*DailyPick, error)

	// MarkDailyPickViewed 标记今日推荐已查看
	MarkDailyPickViewed(ctx context.Context, userID string) error

	// HasViewedDailyPick 今日推荐是否已查看
	HasViewedDailyPick(ctx context.Context, userID string) (bool, error)

	// CleanupOldDailyPickViews 清除 before 之前的查看记录以及非今日的推荐缓存
	CleanupOldDailyPickViews(ctx context.Context, before time.Time) (int64, error)

	// GetStandouts 今日精选推荐
	GetStandouts(ctx context.Context, seeker *model.UserProfile) (*StandoutResult, error)

	// MarkInteracted 标记今日精选已互动
	MarkInteracted(ctx context.Context, seekerID, standoutUserID string) error

	// ResolveUsers 精选条目对应的用户资料
	ResolveUsers(ctx context.Context, standouts []*model.Standout) (map[string]*model.UserProfile, error)

	// CleanupOldStandouts 删除 before 之前的精选记录
	CleanupOldStandouts(ctx context.Context, before time.Time) (int64, error)
}

// ==================== 候选人查找接口 ====================

// ICandidateFinder 为用户查找可推荐的候选人，结果顺序必须稳定
type ICandidateFinder interface {
	FindCandidates(ctx context.Context, seeker *model.UserProfile) ([]*model.UserProfile, error)
}

// ==================== 消息服务接口 ====================

// IMessagingService 消息服务接口
// 职责：消息闸门、会话懒创建、分页、未读计数
type IMessagingService interface {
	// SendMessage 发送消息，业务失败通过 SendResult 返回
	SendMessage(ctx context.Context, senderID, recipientID, content string) (*SendResult, error)

	// GetMessages 分页查询消息（时间正序），非会话成员返回空
	GetMessages(ctx context.Context, userID, otherUserID string, limit, offset int) ([]*model.Message, error)

	// GetConversations 会话列表（含最后一条消息与未读数）
	GetConversations(ctx context.Context, userID string) ([]*ConversationPreview, error)

	// MarkAsRead 标记会话已读
	MarkAsRead(ctx context.Context, userID, conversationID string) error

	// GetUnreadCount 会话未读数
	GetUnreadCount(ctx context.Context, userID, conversationID string) (int64, error)

	// GetTotalUnreadCount 全部会话未读数
	GetTotalUnreadCount(ctx context.Context, userID string) (int64, error)

	// CanMessage 两人之间是否允许发消息
	CanMessage(ctx context.Context, userA, userB string) (bool, error)
}

// ==================== 关系流转服务接口 ====================

// IRelationshipService 关系生命周期服务接口
// 职责：转朋友申请/接受/拒绝、体面退出、解除匹配、拉黑
type IRelationshipService interface {
	// RequestFriendZone 发起转朋友申请
	RequestFriendZone(ctx context.Context, fromUserID, targetUserID string) (*TransitionResult, error)

	// AcceptFriendZone 接受申请：匹配 -> FRIENDS，申请 -> ACCEPTED
	AcceptFriendZone(ctx context.Context, requestID, responderID string) (*TransitionResult, error)

	// DeclineFriendZone 拒绝申请，不修改匹配
	DeclineFriendZone(ctx context.Context, requestID, responderID string) (*TransitionResult, error)

	// GracefulExit 体面退出
	GracefulExit(ctx context.Context, initiatorID, targetUserID string) (*TransitionResult, error)

	// Unmatch 解除匹配
	Unmatch(ctx context.Context, initiatorID, targetUserID string) (*TransitionResult, error)

	// Block 拉黑
	Block(ctx context.Context, initiatorID, targetUserID string) (*TransitionResult, error)

	// GetPendingRequestsFor 发给用户的待处理申请
	GetPendingRequestsFor(ctx context.Context, userID string) ([]*model.FriendRequest, error)

	// ExpireStaleRequests 过期 cutoff 之前创建的待处理申请
	ExpireStaleRequests(ctx context.Context, cutoff time.Time) (int64, error)
}

// ==================== 通知服务接口 ====================

// INotifier 通知服务接口：只负责生成站内通知，投递不在本服务内
type INotifier interface {
	// Notify 尽力而为地生成通知，失败只记日志
	Notify(ctx context.Context, userID string, typ model.NotificationType, title, message string, data map[string]string)

	// List 查询用户通知
	List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*model.Notification, error)

	// MarkRead 标记通知已读
	MarkRead(ctx context.Context, userID string, id int64) (bool, error)

	// UnreadCount 未读通知数
	UnreadCount(ctx context.Context, userID string) (int64, error)
}

// ==================== 活跃度统计接口 ====================

// IActivityService 滑动会话统计（防刷），同一用户的读改写串行执行
type IActivityService interface {
	// CheckSwipeAllowed 当前会话是否还允许滑动
	CheckSwipeAllowed(ctx context.Context, userID string) (*ActivityResult, error)

	// RecordSwipe 在当前会话中记录一次滑动
	RecordSwipe(ctx context.Context, userID string, direction model.LikeDirection, matched bool) (*ActivityResult, error)

	// CurrentSession 当前会话，没有或已超时返回 nil
	CurrentSession(ctx context.Context, userID string) (*model.SwipeSession, error)

	// EndSession 结束当前会话
	EndSession(ctx context.Context, userID string) error
}
