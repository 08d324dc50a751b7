package repository

import (
	"context"
	"errors"
	"time"

	"MatchServer/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// conversationRepositoryImpl 会话数据访问层实现
type conversationRepositoryImpl struct {
	db *gorm.DB
}

// NewConversationRepository 创建会话仓储实例
func NewConversationRepository(db *gorm.DB) IConversationRepository {
	return &conversationRepositoryImpl{db: db}
}

// GetByID 根据规范化对 ID 查询会话
func (r *conversationRepositoryImpl) GetByID(ctx context.Context, id string) (*model.Conversation, error) {
	var conv model.Conversation
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&conv).Error; err != nil {
		return nil, WrapDBError(err)
	}
	return &conv, nil
}

// GetOrCreate 先插入（冲突忽略）再回读，双方同时发第一条消息也只有一个会话
func (r *conversationRepositoryImpl) GetOrCreate(ctx context.Context, conv *model.Conversation) (*model.Conversation, error) {
	existing, err := r.GetByID(ctx, conv.Id)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrRecordNotFound) {
		return nil, err
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(conv)
	if result.Error != nil {
		return nil, WrapDBError(result.Error)
	}
	if result.RowsAffected == 1 {
		return conv, nil
	}
	return r.GetByID(ctx, conv.Id)
}

// UpdateLastMessageAt 更新最后消息时间
func (r *conversationRepositoryImpl) UpdateLastMessageAt(ctx context.Context, id string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.Conversation{}).
		Where("id = ?", id).
		Update("last_message_at", at)
	if result.Error != nil {
		return WrapDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// UpdateReadAt 更新某一方的已读时间
func (r *conversationRepositoryImpl) UpdateReadAt(ctx context.Context, conv *model.Conversation, userID string, at time.Time) error {
	column := "user_a_read_at"
	if userID == conv.UserB {
		column = "user_b_read_at"
	}
	err := r.db.WithContext(ctx).
		Model(&model.Conversation{}).
		Where("id = ?", conv.Id).
		Update(column, at).Error
	return WrapDBError(err)
}

// Archive 写入双方的归档信息与可见性
func (r *conversationRepositoryImpl) Archive(ctx context.Context, conv *model.Conversation) error {
	result := r.db.WithContext(ctx).
		Model(&model.Conversation{}).
		Where("id = ?", conv.Id).
		Updates(map[string]interface{}{
			"user_a_archived_at":    conv.UserAArchivedAt,
			"user_b_archived_at":    conv.UserBArchivedAt,
			"user_a_archive_reason": conv.UserAArchiveReason,
			"user_b_archive_reason": conv.UserBArchiveReason,
			"visible_to_user_a":     conv.VisibleToUserA,
			"visible_to_user_b":     conv.VisibleToUserB,
		})
	if result.Error != nil {
		return WrapDBError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// ListByUser 按最近活跃倒序查询用户参与的会话
func (r *conversationRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]*model.Conversation, error) {
	var convs []*model.Conversation
	err := r.db.WithContext(ctx).
		Where("user_a = ? OR user_b = ?", userID, userID).
		Order("COALESCE(last_message_at, created_at) DESC").
		Find(&convs).Error
	if err != nil {
		return nil, WrapDBError(err)
	}
	return convs, nil
}
