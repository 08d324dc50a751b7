package repository

import (
	"MatchServer/model"

	"gorm.io/gorm"
)

// AutoMigrate 创建或更新本服务的全部表结构
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.UserProfile{},
		&model.Like{},
		&model.Match{},
		&model.UndoState{},
		&model.Conversation{},
		&model.Message{},
		&model.FriendRequest{},
		&model.Notification{},
		&model.Standout{},
	)
}
