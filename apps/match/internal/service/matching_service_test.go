package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"MatchServer/apps/match/internal/repository"
	"MatchServer/config"
	"MatchServer/consts"
	"MatchServer/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
)

func TestRecordLike_ReciprocalCreatesSingleMatch(t *testing.T) {
	tests := []struct {
		name          string
		first, second [2]string
	}{
		{name: "a likes first", first: [2]string{"user-a", "user-b"}, second: [2]string{"user-b", "user-a"}},
		{name: "b likes first", first: [2]string{"user-b", "user-a"}, second: [2]string{"user-a", "user-b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			assert.Nil(t, env.like(t, tt.first[0], tt.first[1]))
			m := env.like(t, tt.second[0], tt.second[1])

			require.NotNil(t, m)
			assert.Equal(t, "user-a_user-b", m.Id)
			assert.Equal(t, "user-a", m.UserA)
			assert.Equal(t, "user-b", m.UserB)
			assert.Equal(t, model.MatchStateActive, m.State)
			assert.Equal(t, 1, env.matches.count())
		})
	}
}

func TestRecordLike_DuplicateIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := model.NewLike("like-1", "user-a", "user-b", model.DirectionLike, env.clock.Now())
	require.NoError(t, err)
	second, err := model.NewLike("like-2", "user-a", "user-b", model.DirectionPass, env.clock.Now())
	require.NoError(t, err)

	m, err := env.matching.RecordLike(ctx, first)
	require.NoError(t, err)
	assert.Nil(t, m)

	m, err = env.matching.RecordLike(ctx, second)
	require.NoError(t, err)
	assert.Nil(t, m)

	assert.Equal(t, 1, env.likes.count())
	stored, err := env.likes.GetByID(ctx, "like-1")
	require.NoError(t, err)
	assert.Equal(t, model.DirectionLike, stored.Direction)
}

func TestRecordLike_PassNeverMatches(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.like(t, "user-b", "user-a")
	pass, err := model.NewLike("pass-1", "user-a", "user-b", model.DirectionPass, env.clock.Now())
	require.NoError(t, err)

	m, err := env.matching.RecordLike(ctx, pass)
	require.NoError(t, err)
	assert.Nil(t, m)
	assert.Equal(t, 0, env.matches.count())

	session, err := env.activity.CurrentSession(ctx, "user-a")
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, 1, session.PassCount)
}

func TestRecordLike_ConcurrentReciprocalLikes(t *testing.T) {
	for i := 0; i < 50; i++ {
		env := newTestEnv(t)
		ctx := context.Background()

		likeAB, _ := model.NewLike("ab", "user-a", "user-b", model.DirectionLike, env.clock.Now())
		likeBA, _ := model.NewLike("ba", "user-b", "user-a", model.DirectionLike, env.clock.Now())

		var (
			wg      sync.WaitGroup
			start   = make(chan struct{})
			results = make([]*model.Match, 2)
			errs    = make([]error, 2)
		)
		for idx, l := range []*model.Like{likeAB, likeBA} {
			wg.Add(1)
			go func(idx int, l *model.Like) {
				defer wg.Done()
				<-start
				results[idx], errs[idx] = env.matching.RecordLike(ctx, l)
			}(idx, l)
		}
		close(start)
		wg.Wait()

		require.NoError(t, errs[0])
		require.NoError(t, errs[1])
		require.Equal(t, 1, env.matches.count(), "iteration %d", i)
		require.True(t, results[0] != nil || results[1] != nil, "iteration %d", i)
		for _, m := range results {
			if m != nil {
				assert.Equal(t, model.PairID("user-a", "user-b"), m.Id)
			}
		}
	}
}

func TestRecordLike_CreateConflict(t *testing.T) {
	tests := []struct {
		name      string
		existing  model.MatchState
		getByIDFn func(ctx context.Context, id string) (*model.Match, error)
		wantMatch bool
	}{
		{name: "existing active match is returned", existing: model.MatchStateActive, wantMatch: true},
		{name: "existing blocked match yields nothing", existing: model.MatchStateBlocked, wantMatch: false},
		{
			name:     "fallback read failure yields nothing",
			existing: model.MatchStateActive,
			getByIDFn: func(ctx context.Context, id string) (*model.Match, error) {
				return nil, repository.ErrDatabase
			},
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			existing := model.NewMatch("user-a", "user-b", testT0.Add(-time.Hour))
			existing.State = tt.existing
			env.matches.put(existing)
			env.matches.getByIDFn = tt.getByIDFn

			env.like(t, "user-a", "user-b")
			m := env.like(t, "user-b", "user-a")

			if tt.wantMatch {
				require.NotNil(t, m)
				assert.Equal(t, existing.CreatedAt, m.CreatedAt)
			} else {
				assert.Nil(t, m)
			}
			assert.Equal(t, 1, env.matches.count())
		})
	}
}

func TestRecordLike_StorageErrorIsInternal(t *testing.T) {
	env := newTestEnv(t)
	env.likes.saveFn = func(ctx context.Context, like *model.Like) error {
		return repository.ErrDatabase
	}

	l, err := model.NewLike("like-1", "user-a", "user-b", model.DirectionLike, env.clock.Now())
	require.NoError(t, err)

	_, err = env.matching.RecordLike(context.Background(), l)
	requireStatusBizCode(t, err, codes.Internal, consts.CodeInternalError)
}

func TestProcessSwipe_Outcomes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("self swipe is invalid", func(t *testing.T) {
		res, err := env.matching.ProcessSwipe(ctx, "user-a", "user-a", model.DirectionLike)
		require.NoError(t, err)
		assert.Equal(t, SwipeInvalid, res.Outcome)
		assert.Equal(t, consts.CodeSelfLike, res.Code)
		assert.False(t, res.Success())
	})

	t.Run("unknown direction is invalid", func(t *testing.T) {
		res, err := env.matching.ProcessSwipe(ctx, "user-a", "user-b", model.LikeDirection("SUPER"))
		require.NoError(t, err)
		assert.Equal(t, SwipeInvalid, res.Outcome)
		assert.Equal(t, consts.CodeParamError, res.Code)
	})

	t.Run("like without reciprocal", func(t *testing.T) {
		res, err := env.matching.ProcessSwipe(ctx, "user-a", "user-b", model.DirectionLike)
		require.NoError(t, err)
		assert.Equal(t, SwipeLiked, res.Outcome)
		assert.Equal(t, "Liked!", res.Message)
		require.NotNil(t, res.Like)
		assert.Nil(t, res.Match)
		assert.True(t, env.undos.has("user-a"))
	})

	t.Run("pass", func(t *testing.T) {
		res, err := env.matching.ProcessSwipe(ctx, "user-a", "user-c", model.DirectionPass)
		require.NoError(t, err)
		assert.Equal(t, SwipePassed, res.Outcome)
		assert.Equal(t, "Passed.", res.Message)
	})

	t.Run("reciprocal like matches and notifies both", func(t *testing.T) {
		res, err := env.matching.ProcessSwipe(ctx, "user-b", "user-a", model.DirectionLike)
		require.NoError(t, err)
		assert.Equal(t, SwipeMatched, res.Outcome)
		assert.Equal(t, "It's a match!", res.Message)
		require.NotNil(t, res.Match)

		state, err := env.undos.GetByUser(ctx, "user-b")
		require.NoError(t, err)
		assert.Equal(t, res.Match.Id, state.MatchId)

		assert.Len(t, env.notifications.ofType("user-a", model.NotificationMatchFound), 1)
		assert.Len(t, env.notifications.ofType("user-b", model.NotificationMatchFound), 1)
	})

	t.Run("duplicate swipe", func(t *testing.T) {
		res, err := env.matching.ProcessSwipe(ctx, "user-a", "user-b", model.DirectionPass)
		require.NoError(t, err)
		assert.Equal(t, SwipeDuplicate, res.Outcome)
		assert.Equal(t, consts.CodeDuplicateSwipe, res.Code)
	})
}

func TestProcessSwipe_DailyLimitResetsAtLocalMidnight(t *testing.T) {
	env := newTestEnv(t, func(c *config.MatchConfig) {
		c.DailyLikeLimit = 50
		c.UserTimeZone = "America/New_York"
	})
	ctx := context.Background()

	// testT0 为纽约时间 08:00
	for i := 0; i < 50; i++ {
		res, err := env.matching.ProcessSwipe(ctx, "user-a", fmt.Sprintf("target-%02d", i), model.DirectionLike)
		require.NoError(t, err)
		require.Equal(t, SwipeLiked, res.Outcome, "like %d", i)
	}

	res, err := env.matching.ProcessSwipe(ctx, "user-a", "target-50", model.DirectionLike)
	require.NoError(t, err)
	assert.Equal(t, SwipeDailyLimitReached, res.Outcome)
	assert.Equal(t, "Daily like limit reached.", res.Message)

	// 纽约 23:59 仍然受限
	env.clock.Set(time.Date(2024, 6, 16, 3, 59, 0, 0, time.UTC))
	res, err = env.matching.ProcessSwipe(ctx, "user-a", "target-50", model.DirectionLike)
	require.NoError(t, err)
	assert.Equal(t, SwipeDailyLimitReached, res.Outcome)

	// 纽约零点重置
	env.clock.Set(time.Date(2024, 6, 16, 4, 0, 0, 0, time.UTC))
	res, err = env.matching.ProcessSwipe(ctx, "user-a", "target-50", model.DirectionLike)
	require.NoError(t, err)
	assert.Equal(t, SwipeLiked, res.Outcome)
}

func TestProcessSwipe_SessionLimit(t *testing.T) {
	env := newTestEnv(t, func(c *config.MatchConfig) {
		c.MaxSwipesPerSession = 3
	})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := env.matching.ProcessSwipe(ctx, "user-a", fmt.Sprintf("target-%d", i), model.DirectionPass)
		require.NoError(t, err)
		require.Equal(t, SwipePassed, res.Outcome)
	}

	res, err := env.matching.ProcessSwipe(ctx, "user-a", "target-3", model.DirectionPass)
	require.NoError(t, err)
	assert.Equal(t, SwipeSessionLimit, res.Outcome)
	assert.Equal(t, consts.CodeSessionLimit, res.Code)
	assert.Equal(t, "Session swipe limit reached. Take a break!", res.Message)

	// 会话超时后开启新会话
	env.clock.Advance(env.cfg.SessionTimeout + time.Second)
	res, err = env.matching.ProcessSwipe(ctx, "user-a", "target-3", model.DirectionPass)
	require.NoError(t, err)
	assert.Equal(t, SwipePassed, res.Outcome)
}

func TestProcessSwipe_VelocityWarning(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	var last *SwipeResult
	for i := 0; i < 10; i++ {
		res, err := env.matching.ProcessSwipe(ctx, "user-a", fmt.Sprintf("target-%d", i), model.DirectionPass)
		require.NoError(t, err)
		if i < 9 {
			assert.Empty(t, res.Warning)
		}
		last = res
	}
	assert.Equal(t, "Unusually fast swiping detected. Take a moment to review profiles!", last.Warning)
}

func TestFindPendingLikers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	inactive := activeUser("user-e", "F", "M")
	inactive.State = model.UserStatePaused
	env.addUsers(
		activeUser("user-a", "M", "F"),
		activeUser("user-b", "F", "M"),
		activeUser("user-c", "F", "M"),
		activeUser("user-d", "F", "M"),
		inactive,
		activeUser("user-f", "F", "M"),
	)

	env.like(t, "user-b", "user-a")
	env.clock.Advance(time.Minute)
	env.like(t, "user-c", "user-a")
	env.clock.Advance(time.Minute)
	env.match(t, "user-d", "user-a")
	env.like(t, "user-e", "user-a")
	env.like(t, "user-f", "user-a")
	pass, _ := model.NewLike("pass-f", "user-a", "user-f", model.DirectionPass, env.clock.Now())
	_, err := env.matching.RecordLike(ctx, pass)
	require.NoError(t, err)

	likers, err := env.matching.FindPendingLikers(ctx, "user-a")
	require.NoError(t, err)

	ids := make([]string, len(likers))
	for i, u := range likers {
		ids[i] = u.Id
	}
	assert.Equal(t, []string{"user-c", "user-b"}, ids)
}
