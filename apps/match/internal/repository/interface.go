package repository

import (
	"context"
	"time"

	"MatchServer/model"
)

// ==================== 滑动 Repository ====================

// ILikeRepository 滑动记录数据访问接口
type ILikeRepository interface {
	// Exists 有序对 (from -> to) 是否已有滑动记录（不区分方向）
	Exists(ctx context.Context, fromUserID, toUserID string) (bool, error)

	// Save 保存滑动记录，唯一索引冲突返回 ErrDuplicateKey
	Save(ctx context.Context, like *model.Like) error

	// ReciprocalExists 对方 (to -> from) 是否已经 LIKE 过自己
	ReciprocalExists(ctx context.Context, fromUserID, toUserID string) (bool, error)

	// GetByID 根据ID查询滑动记录
	GetByID(ctx context.Context, id string) (*model.Like, error)

	// Delete 删除滑动记录
	Delete(ctx context.Context, id string) error

	// DeleteLikeAndMatch 在同一事务内删除滑动记录和（可选的）匹配
	// matchID 为空时只删除滑动；滑动不存在返回 ErrRecordNotFound 且不删除匹配
	DeleteLikeAndMatch(ctx context.Context, likeID, matchID string) error

	// CountSince 统计用户某方向自 since 起的滑动次数（每日配额）
	CountSince(ctx context.Context, userID string, direction model.LikeDirection, since time.Time) (int64, error)

	// ListSwipedUserIDs 用户滑动过的所有对象（候选过滤）
	ListSwipedUserIDs(ctx context.Context, userID string) ([]string, error)

	// ListPendingLikerIDs 喜欢了我、但我还没有回应的用户，按时间倒序
	ListPendingLikerIDs(ctx context.Context, userID string) ([]string, error)
}

// ==================== 匹配 Repository ====================

// IMatchRepository 匹配关系数据访问接口
type IMatchRepository interface {
	// GetByID 根据规范化对 ID 查询匹配
	GetByID(ctx context.Context, id string) (*model.Match, error)

	// Create 幂等插入：主键冲突时不写入并返回 ErrDuplicateKey
	Create(ctx context.Context, match *model.Match) error

	// UpdateState 仅当当前状态等于 expected 时写入 match 的状态与结束信息
	// 状态已被他人修改返回 ErrStateConflict
	UpdateState(ctx context.Context, match *model.Match, expected model.MatchState) error

	// ListByUser 查询用户参与的匹配，states 为空表示全部状态
	ListByUser(ctx context.Context, userID string, states ...model.MatchState) ([]*model.Match, error)
}

// ==================== 撤销 Repository ====================

// IUndoRepository 撤销槽位数据访问接口
type IUndoRepository interface {
	// Save 写入或覆盖用户的撤销槽位
	Save(ctx context.Context, state *model.UndoState) error

	// GetByUser 查询用户的撤销槽位，不存在返回 ErrRecordNotFound
	GetByUser(ctx context.Context, userID string) (*model.UndoState, error)

	// DeleteByUser 清除用户的撤销槽位（幂等）
	DeleteByUser(ctx context.Context, userID string) error

	// DeleteExpired 删除 now 之前过期的槽位，返回删除数量
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)

	// FindAll 查询全部槽位
	FindAll(ctx context.Context) ([]*model.UndoState, error)
}

// ==================== 会话 Repository ====================

// IConversationRepository 会话数据访问接口
type IConversationRepository interface {
	// GetByID 根据规范化对 ID 查询会话
	GetByID(ctx context.Context, id string) (*model.Conversation, error)

	// GetOrCreate 会话不存在时创建，并发创建时以已存在的记录为准
	GetOrCreate(ctx context.Context, conv *model.Conversation) (*model.Conversation, error)

	// UpdateLastMessageAt 更新最后消息时间
	UpdateLastMessageAt(ctx context.Context, id string, at time.Time) error

	// UpdateReadAt 更新某一方的已读时间
	UpdateReadAt(ctx context.Context, conv *model.Conversation, userID string, at time.Time) error

	// Archive 写入双方的归档信息与可见性
	Archive(ctx context.Context, conv *model.Conversation) error

	// ListByUser 查询用户参与的会话，按最近活跃倒序
	ListByUser(ctx context.Context, userID string) ([]*model.Conversation, error)
}

// ==================== 消息 Repository ====================

// IMessageRepository 消息数据访问接口
type IMessageRepository interface {
	// Save 保存消息
	Save(ctx context.Context, msg *model.Message) error

	// ListByConversation 分页查询消息，按时间正序
	ListByConversation(ctx context.Context, conversationID string, limit, offset int) ([]*model.Message, error)

	// GetLatest 查询会话最新一条消息，没有消息返回 ErrRecordNotFound
	GetLatest(ctx context.Context, conversationID string) (*model.Message, error)

	// CountUnread 统计 after 之后（after 为 nil 表示全部）非 userID 发送的消息数
	CountUnread(ctx context.Context, conversationID, userID string, after *time.Time) (int64, error)
}

// ==================== 转朋友申请 Repository ====================

// IFriendRequestRepository 转朋友申请数据访问接口
type IFriendRequestRepository interface {
	// Create 创建申请
	Create(ctx context.Context, req *model.FriendRequest) error

	// GetByID 根据ID查询申请
	GetByID(ctx context.Context, id string) (*model.FriendRequest, error)

	// GetPendingBetween 查询一对用户之间的待处理申请，不存在返回 ErrRecordNotFound
	GetPendingBetween(ctx context.Context, userA, userB string) (*model.FriendRequest, error)

	// ListPendingFor 查询发给用户的待处理申请，按时间倒序
	ListPendingFor(ctx context.Context, userID string) ([]*model.FriendRequest, error)

	// UpdateStatus 仅当申请仍为 PENDING 时写入新状态，否则返回 ErrRequestNotPending
	UpdateStatus(ctx context.Context, req *model.FriendRequest) error

	// ExpireBefore 把 cutoff 之前创建的待处理申请置为 EXPIRED，返回影响行数
	ExpireBefore(ctx context.Context, cutoff, now time.Time) (int64, error)
}

// ==================== 通知 Repository ====================

// INotificationRepository 通知数据访问接口
type INotificationRepository interface {
	// Save 保存通知并递增未读计数
	Save(ctx context.Context, n *model.Notification) error

	// ListByUser 查询用户通知，按时间倒序
	ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*model.Notification, error)

	// MarkRead 标记已读，返回是否有记录被更新
	MarkRead(ctx context.Context, userID string, id int64) (bool, error)

	// CountUnread 未读通知数（优先读 Redis 计数，未命中回源 MySQL）
	CountUnread(ctx context.Context, userID string) (int64, error)
}

// ==================== 精选推荐 Repository ====================

// IStandoutRepository 精选推荐数据访问接口
type IStandoutRepository interface {
	// GetForDate 查询用户某天的精选列表，按 Rank 正序；没有记录返回空切片
	GetForDate(ctx context.Context, seekerID, date string) ([]*model.Standout, error)

	// SaveForDate 写入用户某天的精选列表，已存在时返回 ErrDuplicateKey（首个写入者生效）
	SaveForDate(ctx context.Context, seekerID, date string, standouts []*model.Standout) error

	// MarkInteracted 标记用户已与某条精选互动（只记录第一次）
	MarkInteracted(ctx context.Context, seekerID, standoutUserID, date string, at time.Time) error

	// DeleteBefore 删除早于 date 的记录
	DeleteBefore(ctx context.Context, date string) (int64, error)
}

// ==================== 用户资料 Repository ====================

// IUserRepository 用户资料数据访问接口（只读）
type IUserRepository interface {
	// GetByID 查询用户资料
	GetByID(ctx context.Context, id string) (*model.UserProfile, error)

	// BatchGetByIDs 批量查询用户资料，不存在的 ID 被忽略
	BatchGetByIDs(ctx context.Context, ids []string) ([]*model.UserProfile, error)

	// ListActive 查询除 excludeID 外的全部激活用户
	ListActive(ctx context.Context, excludeID string) ([]*model.UserProfile, error)
}

// ==================== 每日推荐查看记录 Repository ====================

// IDailyPickViewRepository 每日推荐查看记录数据访问接口（Redis Set）
type IDailyPickViewRepository interface {
	// MarkViewed 记录用户已查看某天的每日推荐
	MarkViewed(ctx context.Context, userID, date string) error

	// HasViewed 用户是否已查看某天的每日推荐
	HasViewed(ctx context.Context, userID, date string) (bool, error)

	// DeleteBefore 删除早于 date 的查看记录，返回删除的 Key 数
	DeleteBefore(ctx context.Context, date string) (int64, error)
}

// ==================== 滑动会话 Repository ====================

// ISwipeSessionRepository 滑动会话数据访问接口（Redis Hash）
type ISwipeSessionRepository interface {
	// Get 查询用户当前会话，不存在返回 ErrRedisNil
	Get(ctx context.Context, userID string) (*model.SwipeSession, error)

	// Save 写入会话，ttl 之后自动过期
	Save(ctx context.Context, session *model.SwipeSession, ttl time.Duration) error

	// Delete 删除会话
	Delete(ctx context.Context, userID string) error
}
