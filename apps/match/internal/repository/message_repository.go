package repository

import (
	"context"
	"time"

	"MatchServer/model"

	"gorm.io/gorm"
)

// messageRepositoryImpl 消息数据访问层实现
type messageRepositoryImpl struct {
	db *gorm.DB
}

// NewMessageRepository 创建消息仓储实例
func NewMessageRepository(db *gorm.DB) IMessageRepository {
	return &messageRepositoryImpl{db: db}
}

// Save 保存消息
func (r *messageRepositoryImpl) Save(ctx context.Context, msg *model.Message) error {
	return WrapDBError(r.db.WithContext(ctx).Create(msg).Error)
}

// ListByConversation 分页查询，按时间正序（雪花 ID 作为同一毫秒内的次序）
func (r *messageRepositoryImpl) ListByConversation(ctx context.Context, conversationID string, limit, offset int) ([]*model.Message, error) {
	var msgs []*model.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&msgs).Error
	if err != nil {
		return nil, WrapDBError(err)
	}
	return msgs, nil
}

// GetLatest 查询会话最新一条消息
func (r *messageRepositoryImpl) GetLatest(ctx context.Context, conversationID string) (*model.Message, error) {
	var msg model.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC, id DESC").
		First(&msg).Error
	if err != nil {
		return nil, WrapDBError(err)
	}
	return &msg, nil
}

// CountUnread 统计对方发来的未读消息
func (r *messageRepositoryImpl) CountUnread(ctx context.Context, conversationID, userID string, after *time.Time) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("conversation_id = ? AND sender_id <> ?", conversationID, userID)
	if after != nil {
		query = query.Where("created_at > ?", *after)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, WrapDBError(err)
	}
	return count, nil
}
