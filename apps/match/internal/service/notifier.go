package service

import (
	"context"

	"MatchServer/apps/match/internal/repository"
	"MatchServer/model"
	"MatchServer/pkg/clock"
	"MatchServer/pkg/logger"
	"MatchServer/pkg/util"
)

// notifierImpl 站内通知服务实现
type notifierImpl struct {
	notificationRepo repository.INotificationRepository
	clock            clock.Clock
}

// NewNotifier 创建通知服务实例
func NewNotifier(notificationRepo repository.INotificationRepository, clk clock.Clock) INotifier {
	return &notifierImpl{
		notificationRepo: notificationRepo,
		clock:            clk,
	}
}

// Notify 生成通知。通知失败不影响主流程，只记日志
func (n *notifierImpl) Notify(ctx context.Context, userID string, typ model.NotificationType, title, message string, data map[string]string) {
	notification, err := model.NewNotification(util.NextID(), userID, typ, title, message, data, n.clock.Now())
	if err != nil {
		logger.Warn(ctx, "通知内容非法",
			logger.String("user_id", userID),
			logger.String("type", string(typ)),
			logger.ErrorField("error", err),
		)
		return
	}
	if err := n.notificationRepo.Save(ctx, notification); err != nil {
		logger.Warn(ctx, "保存通知失败",
			logger.String("user_id", userID),
			logger.String("type", string(typ)),
			logger.ErrorField("error", err),
		)
	}
}

// List 查询用户通知
func (n *notifierImpl) List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*model.Notification, error) {
	list, err := n.notificationRepo.ListByUser(ctx, userID, unreadOnly, limit)
	if err != nil {
		return nil, internalError(ctx, "查询通知失败", err, logger.String("user_id", userID))
	}
	return list, nil
}

// MarkRead 标记通知已读
func (n *notifierImpl) MarkRead(ctx context.Context, userID string, id int64) (bool, error) {
	ok, err := n.notificationRepo.MarkRead(ctx, userID, id)
	if err != nil {
		return false, internalError(ctx, "标记通知已读失败", err,
			logger.String("user_id", userID),
			logger.Int64("notification_id", id),
		)
	}
	return ok, nil
}

// UnreadCount 未读通知数
func (n *notifierImpl) UnreadCount(ctx context.Context, userID string) (int64, error) {
	count, err := n.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return 0, internalError(ctx, "查询未读通知数失败", err, logger.String("user_id", userID))
	}
	return count, nil
}
