package model

import "time"

// Conversation 两名用户之间唯一的会话，Id 来自 PairID，首次发消息时懒创建。
// 已读时间、归档、可见性均按用户分别记录。
type Conversation struct {
	Id                 string        `gorm:"column:id;type:varchar(80);primaryKey;comment:规范化对ID"`
	UserA              string        `gorm:"column:user_a;type:char(36);not null;index"`
	UserB              string        `gorm:"column:user_b;type:char(36);not null;index"`
	CreatedAt          time.Time     `gorm:"column:created_at;not null"`
	LastMessageAt      *time.Time    `gorm:"column:last_message_at;comment:最后一条消息时间"`
	UserAReadAt        *time.Time    `gorm:"column:user_a_read_at"`
	UserBReadAt        *time.Time    `gorm:"column:user_b_read_at"`
	UserAArchivedAt    *time.Time    `gorm:"column:user_a_archived_at"`
	UserBArchivedAt    *time.Time    `gorm:"column:user_b_archived_at"`
	UserAArchiveReason ArchiveReason `gorm:"column:user_a_archive_reason;type:varchar(16)"`
	UserBArchiveReason ArchiveReason `gorm:"column:user_b_archive_reason;type:varchar(16)"`
	VisibleToUserA     bool          `gorm:"column:visible_to_user_a;not null;default:true"`
	VisibleToUserB     bool          `gorm:"column:visible_to_user_b;not null;default:true"`
}

func (Conversation) TableName() string { return "match_conversation" }

// NewConversation 创建会话，参数顺序无关
func NewConversation(a, b string, now time.Time) *Conversation {
	userA, userB := SortPair(a, b)
	return &Conversation{
		Id:             PairID(a, b),
		UserA:          userA,
		UserB:          userB,
		CreatedAt:      now,
		VisibleToUserA: true,
		VisibleToUserB: true,
	}
}

// Involves 是否包含该用户
func (c *Conversation) Involves(userID string) bool {
	return c.UserA == userID || c.UserB == userID
}

// OtherUser 返回另一方 ID
func (c *Conversation) OtherUser(userID string) string {
	if userID == c.UserA {
		return c.UserB
	}
	if userID == c.UserB {
		return c.UserA
	}
	return ""
}

// ReadAtFor 返回该用户的最后已读时间
func (c *Conversation) ReadAtFor(userID string) *time.Time {
	if userID == c.UserA {
		return c.UserAReadAt
	}
	if userID == c.UserB {
		return c.UserBReadAt
	}
	return nil
}

// ArchivedAtFor 返回该用户的归档时间
func (c *Conversation) ArchivedAtFor(userID string) *time.Time {
	if userID == c.UserA {
		return c.UserAArchivedAt
	}
	if userID == c.UserB {
		return c.UserBArchivedAt
	}
	return nil
}

// IsVisibleTo 该用户是否能看到会话
func (c *Conversation) IsVisibleTo(userID string) bool {
	if userID == c.UserA {
		return c.VisibleToUserA
	}
	if userID == c.UserB {
		return c.VisibleToUserB
	}
	return false
}

// Archive 为双方归档会话
func (c *Conversation) Archive(reason ArchiveReason, now time.Time) {
	at := now
	c.UserAArchivedAt, c.UserBArchivedAt = &at, &at
	c.UserAArchiveReason, c.UserBArchiveReason = reason, reason
}
