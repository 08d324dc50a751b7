package model

import "time"

// MessageMaxLength 消息内容最大长度（字符数）
const MessageMaxLength = 1000

// Message 会话内的一条消息，不可变。Id 为雪花 ID，天然按时间递增。
type Message struct {
	Id             int64     `gorm:"column:id;primaryKey;autoIncrement:false;comment:雪花ID"`
	ConversationId string    `gorm:"column:conversation_id;type:varchar(80);not null;index:idx_conv_created,priority:1"`
	SenderId       string    `gorm:"column:sender_id;type:char(36);not null"`
	Content        string    `gorm:"column:content;type:varchar(1000);not null"`
	CreatedAt      time.Time `gorm:"column:created_at;not null;index:idx_conv_created,priority:2"`
}

func (Message) TableName() string { return "match_message" }
