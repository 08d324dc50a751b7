package model

import "time"

// UndoState 每个用户唯一的撤销槽位，记录最近一次滑动及其创建的匹配。
// 新的滑动会覆盖旧槽位；撤销成功或过期后清除。
type UndoState struct {
	UserId    string        `gorm:"column:user_id;type:char(36);primaryKey;comment:槽位所属用户"`
	LikeId    string        `gorm:"column:like_id;type:char(36);not null"`
	ToUserId  string        `gorm:"column:to_user_id;type:char(36);not null"`
	Direction LikeDirection `gorm:"column:direction;type:varchar(8);not null"`
	LikedAt   time.Time     `gorm:"column:liked_at;not null"`
	MatchId   string        `gorm:"column:match_id;type:varchar(80);comment:该次滑动创建的匹配，可为空"`
	ExpiresAt time.Time     `gorm:"column:expires_at;not null;index"`
}

func (UndoState) TableName() string { return "match_undo_state" }

// NewUndoState 记录一次滑动，match 为该滑动创建的匹配（可为 nil）
func NewUndoState(like *Like, match *Match, expiresAt time.Time) *UndoState {
	s := &UndoState{
		UserId:    like.FromUserId,
		LikeId:    like.Id,
		ToUserId:  like.ToUserId,
		Direction: like.Direction,
		LikedAt:   like.CreatedAt,
		ExpiresAt: expiresAt,
	}
	if match != nil {
		s.MatchId = match.Id
	}
	return s
}

// Like 还原被记录的滑动
func (s *UndoState) Like() *Like {
	return &Like{
		Id:         s.LikeId,
		FromUserId: s.UserId,
		ToUserId:   s.ToUserId,
		Direction:  s.Direction,
		CreatedAt:  s.LikedAt,
	}
}

// IsExpired now 严格晚于 ExpiresAt 才算过期
func (s *UndoState) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// SecondsRemaining 剩余秒数，不小于 0
func (s *UndoState) SecondsRemaining(now time.Time) int {
	remaining := int(s.ExpiresAt.Sub(now).Seconds())
	if remaining < 0 {
		return 0
	}
	return remaining
}
