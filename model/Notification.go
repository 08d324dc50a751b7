package model

import (
	"errors"
	"strings"
	"time"
)

// NotificationType 通知类型
type NotificationType string

const (
	NotificationMatchFound            NotificationType = "MATCH_FOUND"
	NotificationNewMessage            NotificationType = "NEW_MESSAGE"
	NotificationFriendRequest         NotificationType = "FRIEND_REQUEST"
	NotificationFriendRequestAccepted NotificationType = "FRIEND_REQUEST_ACCEPTED"
	NotificationGracefulExit          NotificationType = "GRACEFUL_EXIT"
)

// ErrBlankNotification 标题或内容为空
var ErrBlankNotification = errors.New("notification title and message must not be blank")

// Notification 站内通知，只负责生成，不负责投递
type Notification struct {
	Id        int64             `gorm:"column:id;primaryKey;autoIncrement:false;comment:雪花ID"`
	UserId    string            `gorm:"column:user_id;type:char(36);not null;index:idx_user_read,priority:1"`
	Type      NotificationType  `gorm:"column:type;type:varchar(32);not null"`
	Title     string            `gorm:"column:title;type:varchar(128);not null"`
	Message   string            `gorm:"column:message;type:varchar(512);not null"`
	Data      map[string]string `gorm:"column:data;type:json;serializer:json;comment:附加数据"`
	IsRead    bool              `gorm:"column:is_read;not null;default:false;index:idx_user_read,priority:2"`
	CreatedAt time.Time         `gorm:"column:created_at;not null"`
}

func (Notification) TableName() string { return "match_notification" }

// NewNotification 创建通知并校验标题与内容
func NewNotification(id int64, userID string, typ NotificationType, title, message string, data map[string]string, now time.Time) (*Notification, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(message) == "" {
		return nil, ErrBlankNotification
	}
	return &Notification{
		Id:        id,
		UserId:    userID,
		Type:      typ,
		Title:     title,
		Message:   message,
		Data:      data,
		CreatedAt: now,
	}, nil
}
