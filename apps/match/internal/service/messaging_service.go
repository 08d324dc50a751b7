package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"MatchServer/apps/match/internal/repository"
	"MatchServer/config"
	"MatchServer/consts"
	"MatchServer/model"
	"MatchServer/pkg/clock"
	"MatchServer/pkg/logger"
	"MatchServer/pkg/util"
)

const (
	msgSenderNotFound    = "Sender not found or inactive"
	msgRecipientNotFound = "Recipient not found or inactive"
	msgNoActiveMatch     = "Cannot message: no active match"
	msgEmptyMessage      = "Message cannot be empty"
	msgMessageTooLong    = "Message too long (max %d characters)"

	newMessageTitle   = "New Message"
	newMessageMessage = "You have a new message."
)

// messagingServiceImpl 消息服务实现
type messagingServiceImpl struct {
	cfg       config.MatchConfig
	clock     clock.Clock
	userRepo  repository.IUserRepository
	matchRepo repository.IMatchRepository
	convRepo  repository.IConversationRepository
	msgRepo   repository.IMessageRepository
	notifier  INotifier
}

// NewMessagingService 创建消息服务实例
func NewMessagingService(
	cfg config.MatchConfig,
	clk clock.Clock,
	userRepo repository.IUserRepository,
	matchRepo repository.IMatchRepository,
	convRepo repository.IConversationRepository,
	msgRepo repository.IMessageRepository,
	notifier INotifier,
) IMessagingService {
	return &messagingServiceImpl{
		cfg:       cfg,
		clock:     clk,
		userRepo:  userRepo,
		matchRepo: matchRepo,
		convRepo:  convRepo,
		msgRepo:   msgRepo,
		notifier:  notifier,
	}
}

// SendMessage 发送消息
// 业务流程：
//  1. 发送方、接收方都存在且已激活
//  2. 双方有 ACTIVE 或 FRIENDS 的匹配
//  3. 内容去首尾空白后非空，且不超过最大字符数
//  4. 懒创建会话，保存消息，更新会话最后消息时间
func (s *messagingServiceImpl) SendMessage(ctx context.Context, senderID, recipientID, content string) (*SendResult, error) {
	// 1. 用户校验
	ok, err := s.activeUser(ctx, senderID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return sendFailure(consts.CodeUserNotFound, msgSenderNotFound), nil
	}
	ok, err = s.activeUser(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return sendFailure(consts.CodeUserNotFound, msgRecipientNotFound), nil
	}

	// 2. 匹配校验
	allowed, err := s.CanMessage(ctx, senderID, recipientID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return sendFailure(consts.CodeNoActiveMatch, msgNoActiveMatch), nil
	}

	// 3. 内容校验（按字符计数）
	content = strings.TrimSpace(content)
	if content == "" {
		return sendFailure(consts.CodeEmptyMessage, msgEmptyMessage), nil
	}
	if utf8.RuneCountInString(content) > s.cfg.MessageMaxLength {
		return sendFailure(consts.CodeMessageTooLong, fmt.Sprintf(msgMessageTooLong, s.cfg.MessageMaxLength)), nil
	}

	// 4. 会话与消息
	now := s.clock.Now()
	conv, err := s.convRepo.GetOrCreate(ctx, model.NewConversation(senderID, recipientID, now))
	if err != nil {
		return nil, internalError(ctx, "获取会话失败", err,
			logger.String("sender_id", senderID),
			logger.String("recipient_id", recipientID),
		)
	}

	msg := &model.Message{
		Id:             util.NextID(),
		ConversationId: conv.Id,
		SenderId:       senderID,
		Content:        content,
		CreatedAt:      now,
	}
	if err := s.msgRepo.Save(ctx, msg); err != nil {
		return nil, internalError(ctx, "保存消息失败", err, logger.String("conversation_id", conv.Id))
	}

	if err := s.convRepo.UpdateLastMessageAt(ctx, conv.Id, now); err != nil {
		logger.Warn(ctx, "更新会话最后消息时间失败",
			logger.String("conversation_id", conv.Id),
			logger.ErrorField("error", err),
		)
	}

	messageSentTotal.Inc()
	s.notifier.Notify(ctx, recipientID, model.NotificationNewMessage, newMessageTitle, newMessageMessage, map[string]string{
		"conversationId": conv.Id,
		"senderId":       senderID,
	})

	return &SendResult{Success: true, Code: consts.CodeSuccess, Sent: msg}, nil
}

// activeUser 用户是否存在且已激活
func (s *messagingServiceImpl) activeUser(ctx context.Context, userID string) (bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return false, nil
		}
		return false, internalError(ctx, "查询用户失败", err, logger.String("user_id", userID))
	}
	return user.IsActive(), nil
}

// GetMessages 分页查询消息，按时间正序
func (s *messagingServiceImpl) GetMessages(ctx context.Context, userID, otherUserID string, limit, offset int) ([]*model.Message, error) {
	if limit < 1 || limit > s.cfg.MessageMaxPageSize || offset < 0 {
		return nil, invalidArgument(consts.CodeInvalidPage)
	}

	conv, err := s.getConversation(ctx, model.PairID(userID, otherUserID))
	if err != nil {
		return nil, err
	}
	if conv == nil || !conv.Involves(userID) {
		return []*model.Message{}, nil
	}

	msgs, err := s.msgRepo.ListByConversation(ctx, conv.Id, limit, offset)
	if err != nil {
		return nil, internalError(ctx, "查询消息失败", err, logger.String("conversation_id", conv.Id))
	}
	return msgs, nil
}

// GetConversations 会话列表，跳过对方不存在、对我隐藏或已被我归档的会话
func (s *messagingServiceImpl) GetConversations(ctx context.Context, userID string) ([]*ConversationPreview, error) {
	convs, err := s.convRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, internalError(ctx, "查询会话列表失败", err, logger.String("user_id", userID))
	}

	previews := make([]*ConversationPreview, 0, len(convs))
	for _, conv := range convs {
		if !conv.IsVisibleTo(userID) || conv.ArchivedAtFor(userID) != nil {
			continue
		}

		other, err := s.userRepo.GetByID(ctx, conv.OtherUser(userID))
		if err != nil {
			if repository.IsNotFound(err) {
				continue
			}
			return nil, internalError(ctx, "查询会话对方失败", err, logger.String("conversation_id", conv.Id))
		}

		last, err := s.msgRepo.GetLatest(ctx, conv.Id)
		if err != nil {
			if !repository.IsNotFound(err) {
				return nil, internalError(ctx, "查询最新消息失败", err, logger.String("conversation_id", conv.Id))
			}
			last = nil
		}

		unread, err := s.countUnread(ctx, conv, userID)
		if err != nil {
			return nil, err
		}

		previews = append(previews, &ConversationPreview{
			Conversation: conv,
			OtherUser:    other,
			LastMessage:  last,
			UnreadCount:  unread,
		})
	}
	return previews, nil
}

// MarkAsRead 标记会话已读，非会话成员忽略
func (s *messagingServiceImpl) MarkAsRead(ctx context.Context, userID, conversationID string) error {
	conv, err := s.getConversation(ctx, conversationID)
	if err != nil {
		return err
	}
	if conv == nil || !conv.Involves(userID) {
		return nil
	}
	if err := s.convRepo.UpdateReadAt(ctx, conv, userID, s.clock.Now()); err != nil {
		return internalError(ctx, "标记会话已读失败", err,
			logger.String("user_id", userID),
			logger.String("conversation_id", conversationID),
		)
	}
	return nil
}

// GetUnreadCount 会话未读数，非会话成员为 0
func (s *messagingServiceImpl) GetUnreadCount(ctx context.Context, userID, conversationID string) (int64, error) {
	conv, err := s.getConversation(ctx, conversationID)
	if err != nil {
		return 0, err
	}
	if conv == nil || !conv.Involves(userID) {
		return 0, nil
	}
	return s.countUnread(ctx, conv, userID)
}

// GetTotalUnreadCount 全部会话未读数
func (s *messagingServiceImpl) GetTotalUnreadCount(ctx context.Context, userID string) (int64, error) {
	convs, err := s.convRepo.ListByUser(ctx, userID)
	if err != nil {
		return 0, internalError(ctx, "查询会话列表失败", err, logger.String("user_id", userID))
	}
	var total int64
	for _, conv := range convs {
		n, err := s.countUnread(ctx, conv, userID)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// CanMessage 双方匹配处于 ACTIVE 或 FRIENDS
func (s *messagingServiceImpl) CanMessage(ctx context.Context, userA, userB string) (bool, error) {
	match, err := s.matchRepo.GetByID(ctx, model.PairID(userA, userB))
	if err != nil {
		if repository.IsNotFound(err) {
			return false, nil
		}
		return false, internalError(ctx, "查询匹配失败", err,
			logger.String("user_a", userA),
			logger.String("user_b", userB),
		)
	}
	return match.CanMessage(), nil
}

// countUnread 已读时间之后对方发送的消息数；从未读过则统计对方发送的全部消息
func (s *messagingServiceImpl) countUnread(ctx context.Context, conv *model.Conversation, userID string) (int64, error) {
	n, err := s.msgRepo.CountUnread(ctx, conv.Id, userID, conv.ReadAtFor(userID))
	if err != nil {
		return 0, internalError(ctx, "统计未读消息失败", err, logger.String("conversation_id", conv.Id))
	}
	return n, nil
}

// getConversation 会话不存在返回 nil
func (s *messagingServiceImpl) getConversation(ctx context.Context, id string) (*model.Conversation, error) {
	conv, err := s.convRepo.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil
		}
		return nil, internalError(ctx, "查询会话失败", err, logger.String("conversation_id", id))
	}
	return conv, nil
}
