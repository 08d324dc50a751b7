package service

import (
	"context"
	"errors"
	"testing"

	"MatchServer/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_NotifyListAndMarkRead(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.notifier.Notify(ctx, "user-a", model.NotificationMatchFound, "New Match!", "You have a new match. Say hello!",
		map[string]string{"matchId": "user-a_user-b"})
	env.notifier.Notify(ctx, "user-a", model.NotificationNewMessage, "New Message", "You have a new message.", nil)
	env.notifier.Notify(ctx, "user-b", model.NotificationNewMessage, "New Message", "You have a new message.", nil)

	list, err := env.notifier.List(ctx, "user-a", false, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	// 最新的在前
	assert.Equal(t, model.NotificationNewMessage, list[0].Type)
	assert.Equal(t, "user-a_user-b", list[1].Data["matchId"])

	unread, err := env.notifier.UnreadCount(ctx, "user-a")
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	ok, err := env.notifier.MarkRead(ctx, "user-a", list[0].Id)
	require.NoError(t, err)
	assert.True(t, ok)

	// 别人的通知不能标记
	ok, err = env.notifier.MarkRead(ctx, "user-b", list[1].Id)
	require.NoError(t, err)
	assert.False(t, ok)

	list, err = env.notifier.List(ctx, "user-a", true, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, model.NotificationMatchFound, list[0].Type)
}

func TestNotifier_BestEffort(t *testing.T) {
	t.Run("空标题不保存", func(t *testing.T) {
		env := newTestEnv(t)
		env.notifier.Notify(context.Background(), "user-a", model.NotificationNewMessage, " ", "body", nil)
		assert.Empty(t, env.notifications.ofType("user-a", model.NotificationNewMessage))
	})

	t.Run("保存失败不影响调用方", func(t *testing.T) {
		env := newTestEnv(t)
		env.notifications.saveFn = func(ctx context.Context, n *model.Notification) error {
			return errors.New("db down")
		}
		env.notifier.Notify(context.Background(), "user-a", model.NotificationNewMessage, "New Message", "You have a new message.", nil)
	})
}
