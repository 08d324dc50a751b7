package model

import (
	"errors"
	"fmt"
	"time"
)

// MatchState 匹配关系状态
type MatchState string

const (
	MatchStateActive       MatchState = "ACTIVE"        // 正常匹配，可聊天
	MatchStateFriends      MatchState = "FRIENDS"       // 双方同意转为朋友，可聊天
	MatchStateUnmatched    MatchState = "UNMATCHED"     // 一方解除匹配（终态）
	MatchStateGracefulExit MatchState = "GRACEFUL_EXIT" // 一方体面退出（终态）
	MatchStateBlocked      MatchState = "BLOCKED"       // 一方拉黑（终态）
)

// ArchiveReason 会话归档/关系结束原因
type ArchiveReason string

const (
	ArchiveReasonFriendZone   ArchiveReason = "FRIEND_ZONE"
	ArchiveReasonGracefulExit ArchiveReason = "GRACEFUL_EXIT"
	ArchiveReasonUnmatch      ArchiveReason = "UNMATCH"
	ArchiveReasonBlock        ArchiveReason = "BLOCK"
)

// ErrInvalidTransition 非法的状态流转
var ErrInvalidTransition = errors.New("invalid match state transition")

// allowedTransitions 状态机：ACTIVE -> FRIENDS 或终态；FRIENDS -> 终态；终态不可再流转
var allowedTransitions = map[MatchState][]MatchState{
	MatchStateActive:  {MatchStateFriends, MatchStateUnmatched, MatchStateGracefulExit, MatchStateBlocked},
	MatchStateFriends: {MatchStateUnmatched, MatchStateGracefulExit, MatchStateBlocked},
}

// CanTransition 判断状态流转是否合法
func CanTransition(from, to MatchState) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Match 双方互相喜欢形成的关系。Id 来自 PairID，UserA < UserB。
type Match struct {
	Id        string        `gorm:"column:id;type:varchar(80);primaryKey;comment:规范化对ID"`
	UserA     string        `gorm:"column:user_a;type:char(36);not null;index;comment:较小的用户ID"`
	UserB     string        `gorm:"column:user_b;type:char(36);not null;index;comment:较大的用户ID"`
	State     MatchState    `gorm:"column:state;type:varchar(16);not null;default:ACTIVE;comment:关系状态"`
	CreatedAt time.Time     `gorm:"column:created_at;not null"`
	UpdatedAt time.Time     `gorm:"column:updated_at;not null"`
	EndedAt   *time.Time    `gorm:"column:ended_at;comment:进入终态时间"`
	EndedBy   string        `gorm:"column:ended_by;type:char(36);comment:结束方"`
	EndReason ArchiveReason `gorm:"column:end_reason;type:varchar(16);comment:结束原因"`
}

func (Match) TableName() string { return "match_pair" }

// NewMatch 为两名用户创建 ACTIVE 匹配，参数顺序无关
func NewMatch(a, b string, now time.Time) *Match {
	userA, userB := SortPair(a, b)
	return &Match{
		Id:        PairID(a, b),
		UserA:     userA,
		UserB:     userB,
		State:     MatchStateActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Involves 是否包含该用户
func (m *Match) Involves(userID string) bool {
	return m.UserA == userID || m.UserB == userID
}

// OtherUser 返回另一方 ID，不相关的用户返回空串
func (m *Match) OtherUser(userID string) string {
	switch userID {
	case m.UserA:
		return m.UserB
	case m.UserB:
		return m.UserA
	}
	return ""
}

// IsActive 是否处于 ACTIVE
func (m *Match) IsActive() bool { return m.State == MatchStateActive }

// CanMessage ACTIVE 与 FRIENDS 允许发消息
func (m *Match) CanMessage() bool {
	return m.State == MatchStateActive || m.State == MatchStateFriends
}

// IsTerminal 是否已结束
func (m *Match) IsTerminal() bool {
	_, ok := allowedTransitions[m.State]
	return !ok
}

// TransitionToFriends ACTIVE -> FRIENDS
func (m *Match) TransitionToFriends(now time.Time) error {
	return m.transition(MatchStateFriends, "", "", now)
}

// GracefulExit ACTIVE/FRIENDS -> GRACEFUL_EXIT
func (m *Match) GracefulExit(initiator string, now time.Time) error {
	return m.transition(MatchStateGracefulExit, initiator, ArchiveReasonGracefulExit, now)
}

// Unmatch ACTIVE/FRIENDS -> UNMATCHED
func (m *Match) Unmatch(initiator string, now time.Time) error {
	return m.transition(MatchStateUnmatched, initiator, ArchiveReasonUnmatch, now)
}

// Block ACTIVE/FRIENDS -> BLOCKED
func (m *Match) Block(initiator string, now time.Time) error {
	return m.transition(MatchStateBlocked, initiator, ArchiveReasonBlock, now)
}

// RevertToActive 补偿操作：撤回到 ACTIVE 并清空结束信息
func (m *Match) RevertToActive(now time.Time) {
	m.State = MatchStateActive
	m.EndedAt = nil
	m.EndedBy = ""
	m.EndReason = ""
	m.UpdatedAt = now
}

func (m *Match) transition(to MatchState, initiator string, reason ArchiveReason, now time.Time) error {
	if initiator != "" && !m.Involves(initiator) {
		return fmt.Errorf("%w: user %s is not part of match %s", ErrInvalidTransition, initiator, m.Id)
	}
	if !CanTransition(m.State, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.State, to)
	}
	m.State = to
	m.UpdatedAt = now
	if reason != "" {
		ended := now
		m.EndedAt = &ended
		m.EndedBy = initiator
		m.EndReason = reason
	}
	return nil
}
