package model

import "time"

// FriendRequestStatus 转朋友申请状态
type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "PENDING"
	FriendRequestAccepted FriendRequestStatus = "ACCEPTED"
	FriendRequestDeclined FriendRequestStatus = "DECLINED"
	FriendRequestExpired  FriendRequestStatus = "EXPIRED"
)

// FriendRequest 把匹配转为朋友关系的申请。
// PairKey 是规范化对 ID，用于查询一对用户之间的待处理申请；RespondedAt 在 PENDING 时必须为空。
// PendingKey 只在 PENDING 时等于 PairKey，处理后置 NULL，uidx_pending_key 保证一对用户最多一条待处理申请。
type FriendRequest struct {
	Id          string              `gorm:"column:id;type:char(36);primaryKey;comment:uuid"`
	FromUserId  string              `gorm:"column:from_user_id;type:char(36);not null"`
	ToUserId    string              `gorm:"column:to_user_id;type:char(36);not null;index:idx_to_status,priority:1"`
	PairKey     string              `gorm:"column:pair_key;type:varchar(80);not null;index:idx_pair_status,priority:1"`
	PendingKey  *string             `gorm:"column:pending_key;type:varchar(80);uniqueIndex:uidx_pending_key"`
	Status      FriendRequestStatus `gorm:"column:status;type:varchar(10);not null;default:PENDING;index:idx_to_status,priority:2;index:idx_pair_status,priority:2"`
	CreatedAt   time.Time           `gorm:"column:created_at;not null"`
	RespondedAt *time.Time          `gorm:"column:responded_at"`
}

func (FriendRequest) TableName() string { return "match_friend_request" }

// NewFriendRequest 创建待处理申请
func NewFriendRequest(id, fromUserID, toUserID string, now time.Time) *FriendRequest {
	pairKey := PairID(fromUserID, toUserID)
	return &FriendRequest{
		Id:         id,
		FromUserId: fromUserID,
		ToUserId:   toUserID,
		PairKey:    pairKey,
		PendingKey: &pairKey,
		Status:     FriendRequestPending,
		CreatedAt:  now,
	}
}

// IsPending 是否待处理
func (r *FriendRequest) IsPending() bool { return r.Status == FriendRequestPending }

// Respond 结束待处理状态并释放 PendingKey
func (r *FriendRequest) Respond(status FriendRequestStatus, at time.Time) {
	r.Status = status
	r.RespondedAt = &at
	r.PendingKey = nil
}

// Reopen 撤回 Respond，用于写库失败后恢复内存对象
func (r *FriendRequest) Reopen() {
	pairKey := r.PairKey
	r.Status = FriendRequestPending
	r.RespondedAt = nil
	r.PendingKey = &pairKey
}
