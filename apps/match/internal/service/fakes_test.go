package service

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"MatchServer/apps/match/internal/repository"
	"MatchServer/apps/match/internal/scoring"
	"MatchServer/config"
	"MatchServer/model"
	"MatchServer/pkg/clock"
	"MatchServer/pkg/lockstripe"
	"MatchServer/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var serviceTestLoggerOnce sync.Once

func initServiceTestLogger() {
	serviceTestLoggerOnce.Do(func() {
		logger.ReplaceGlobal(zap.NewNop())
	})
}

func requireStatusBizCode(t *testing.T, err error, wantGRPCCode codes.Code, wantBizCode int) {
	t.Helper()
	require.Error(t, err)
	st, ok := status.FromError(err)
	require.True(t, ok, "expected grpc status error, got %v", err)
	require.Equal(t, wantGRPCCode, st.Code())
	require.Equal(t, strconv.Itoa(wantBizCode), st.Message())
}

// ==================== 滑动 ====================

type fakeLikeRepository struct {
	mu        sync.Mutex
	likes     map[string]*model.Like
	matchRepo *fakeMatchRepository

	saveFn               func(ctx context.Context, like *model.Like) error
	deleteLikeAndMatchFn func(ctx context.Context, likeID, matchID string) error
	countSinceFn         func(ctx context.Context, userID string, direction model.LikeDirection, since time.Time) (int64, error)
}

func newFakeLikeRepository(matchRepo *fakeMatchRepository) *fakeLikeRepository {
	return &fakeLikeRepository{likes: make(map[string]*model.Like), matchRepo: matchRepo}
}

func (f *fakeLikeRepository) find(from, to string) *model.Like {
	for _, l := range f.likes {
		if l.FromUserId == from && l.ToUserId == to {
			return l
		}
	}
	return nil
}

func (f *fakeLikeRepository) Exists(ctx context.Context, fromUserID, toUserID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.find(fromUserID, toUserID) != nil, nil
}

func (f *fakeLikeRepository) Save(ctx context.Context, like *model.Like) error {
	if f.saveFn != nil {
		return f.saveFn(ctx, like)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.find(like.FromUserId, like.ToUserId) != nil {
		return repository.ErrDuplicateKey
	}
	cp := *like
	f.likes[like.Id] = &cp
	return nil
}

func (f *fakeLikeRepository) ReciprocalExists(ctx context.Context, fromUserID, toUserID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l := f.find(toUserID, fromUserID)
	return l != nil && l.IsLike(), nil
}

func (f *fakeLikeRepository) GetByID(ctx context.Context, id string) (*model.Like, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.likes[id]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	cp := *l
	return &cp, nil
}

func (f *fakeLikeRepository) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.likes[id]; !ok {
		return repository.ErrRecordNotFound
	}
	delete(f.likes, id)
	return nil
}

func (f *fakeLikeRepository) DeleteLikeAndMatch(ctx context.Context, likeID, matchID string) error {
	if f.deleteLikeAndMatchFn != nil {
		return f.deleteLikeAndMatchFn(ctx, likeID, matchID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.likes[likeID]; !ok {
		return repository.ErrRecordNotFound
	}
	delete(f.likes, likeID)
	if matchID != "" {
		f.matchRepo.remove(matchID)
	}
	return nil
}

func (f *fakeLikeRepository) CountSince(ctx context.Context, userID string, direction model.LikeDirection, since time.Time) (int64, error) {
	if f.countSinceFn != nil {
		return f.countSinceFn(ctx, userID, direction, since)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, l := range f.likes {
		if l.FromUserId == userID && l.Direction == direction && !l.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (f *fakeLikeRepository) ListSwipedUserIDs(ctx context.Context, userID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []string
	for _, l := range f.likes {
		if l.FromUserId == userID {
			ids = append(ids, l.ToUserId)
		}
	}
	return ids, nil
}

func (f *fakeLikeRepository) ListPendingLikerIDs(ctx context.Context, userID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var pending []*model.Like
	for _, l := range f.likes {
		if l.ToUserId == userID && l.IsLike() && f.find(userID, l.FromUserId) == nil {
			pending = append(pending, l)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].CreatedAt.After(pending[j].CreatedAt) })
	ids := make([]string, len(pending))
	for i, l := range pending {
		ids[i] = l.FromUserId
	}
	return ids, nil
}

func (f *fakeLikeRepository) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.likes)
}

// ==================== 匹配 ====================

type fakeMatchRepository struct {
	mu      sync.Mutex
	matches map[string]*model.Match

	createFn      func(ctx context.Context, match *model.Match) error
	getByIDFn     func(ctx context.Context, id string) (*model.Match, error)
	updateStateFn func(ctx context.Context, match *model.Match, expected model.MatchState) error
}

func newFakeMatchRepository() *fakeMatchRepository {
	return &fakeMatchRepository{matches: make(map[string]*model.Match)}
}

func (f *fakeMatchRepository) GetByID(ctx context.Context, id string) (*model.Match, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.matches[id]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMatchRepository) Create(ctx context.Context, match *model.Match) error {
	if f.createFn != nil {
		return f.createFn(ctx, match)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.matches[match.Id]; ok {
		return repository.ErrDuplicateKey
	}
	cp := *match
	f.matches[match.Id] = &cp
	return nil
}

func (f *fakeMatchRepository) UpdateState(ctx context.Context, match *model.Match, expected model.MatchState) error {
	if f.updateStateFn != nil {
		return f.updateStateFn(ctx, match, expected)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.matches[match.Id]
	if !ok || stored.State != expected {
		return repository.ErrStateConflict
	}
	cp := *match
	f.matches[match.Id] = &cp
	return nil
}

func (f *fakeMatchRepository) ListByUser(ctx context.Context, userID string, states ...model.MatchState) ([]*model.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []*model.Match
	for _, m := range f.matches {
		if !m.Involves(userID) {
			continue
		}
		if len(states) > 0 && !containsState(states, m.State) {
			continue
		}
		cp := *m
		list = append(list, &cp)
	}
	return list, nil
}

func containsState(states []model.MatchState, s model.MatchState) bool {
	for _, st := range states {
		if st == s {
			return true
		}
	}
	return false
}

func (f *fakeMatchRepository) put(m *model.Match) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *m
	f.matches[m.Id] = &cp
}

func (f *fakeMatchRepository) remove(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.matches, id)
}

func (f *fakeMatchRepository) get(id string) *model.Match {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.matches[id]
	if !ok {
		return nil
	}
	cp := *m
	return &cp
}

func (f *fakeMatchRepository) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.matches)
}

// ==================== 撤销 ====================

type fakeUndoRepository struct {
	mu     sync.Mutex
	states map[string]*model.UndoState
}

func newFakeUndoRepository() *fakeUndoRepository {
	return &fakeUndoRepository{states: make(map[string]*model.UndoState)}
}

func (f *fakeUndoRepository) Save(ctx context.Context, state *model.UndoState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *state
	f.states[state.UserId] = &cp
	return nil
}

func (f *fakeUndoRepository) GetByUser(ctx context.Context, userID string) (*model.UndoState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.states[userID]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeUndoRepository) DeleteByUser(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.states, userID)
	return nil
}

func (f *fakeUndoRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for id, s := range f.states {
		if s.ExpiresAt.Before(now) {
			delete(f.states, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeUndoRepository) FindAll(ctx context.Context) ([]*model.UndoState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := make([]*model.UndoState, 0, len(f.states))
	for _, s := range f.states {
		cp := *s
		list = append(list, &cp)
	}
	return list, nil
}

func (f *fakeUndoRepository) has(userID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.states[userID]
	return ok
}

// ==================== 会话与消息 ====================

type fakeConversationRepository struct {
	mu    sync.Mutex
	convs map[string]*model.Conversation

	archiveFn func(ctx context.Context, conv *model.Conversation) error
}

func newFakeConversationRepository() *fakeConversationRepository {
	return &fakeConversationRepository{convs: make(map[string]*model.Conversation)}
}

func (f *fakeConversationRepository) GetByID(ctx context.Context, id string) (*model.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.convs[id]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeConversationRepository) GetOrCreate(ctx context.Context, conv *model.Conversation) (*model.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.convs[conv.Id]; ok {
		cp := *c
		return &cp, nil
	}
	cp := *conv
	f.convs[conv.Id] = &cp
	out := cp
	return &out, nil
}

func (f *fakeConversationRepository) UpdateLastMessageAt(ctx context.Context, id string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.convs[id]
	if !ok {
		return repository.ErrRecordNotFound
	}
	t := at
	c.LastMessageAt = &t
	return nil
}

func (f *fakeConversationRepository) UpdateReadAt(ctx context.Context, conv *model.Conversation, userID string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.convs[conv.Id]
	if !ok {
		return repository.ErrRecordNotFound
	}
	t := at
	if userID == c.UserA {
		c.UserAReadAt = &t
	} else {
		c.UserBReadAt = &t
	}
	return nil
}

func (f *fakeConversationRepository) Archive(ctx context.Context, conv *model.Conversation) error {
	if f.archiveFn != nil {
		return f.archiveFn(ctx, conv)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.convs[conv.Id]; !ok {
		return repository.ErrRecordNotFound
	}
	cp := *conv
	f.convs[conv.Id] = &cp
	return nil
}

func (f *fakeConversationRepository) ListByUser(ctx context.Context, userID string) ([]*model.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []*model.Conversation
	for _, c := range f.convs {
		if c.Involves(userID) {
			cp := *c
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Id < list[j].Id })
	return list, nil
}

type fakeMessageRepository struct {
	mu   sync.Mutex
	msgs []*model.Message
}

func (f *fakeMessageRepository) Save(ctx context.Context, msg *model.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *msg
	f.msgs = append(f.msgs, &cp)
	return nil
}

func (f *fakeMessageRepository) byConversation(conversationID string) []*model.Message {
	var list []*model.Message
	for _, m := range f.msgs {
		if m.ConversationId == conversationID {
			list = append(list, m)
		}
	}
	return list
}

func (f *fakeMessageRepository) ListByConversation(ctx context.Context, conversationID string, limit, offset int) ([]*model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := f.byConversation(conversationID)
	if offset >= len(list) {
		return []*model.Message{}, nil
	}
	end := min(len(list), offset+limit)
	return list[offset:end], nil
}

func (f *fakeMessageRepository) GetLatest(ctx context.Context, conversationID string) (*model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list := f.byConversation(conversationID)
	if len(list) == 0 {
		return nil, repository.ErrRecordNotFound
	}
	return list[len(list)-1], nil
}

func (f *fakeMessageRepository) CountUnread(ctx context.Context, conversationID, userID string, after *time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, m := range f.byConversation(conversationID) {
		if m.SenderId == userID {
			continue
		}
		if after != nil && !m.CreatedAt.After(*after) {
			continue
		}
		n++
	}
	return n, nil
}

// ==================== 转朋友申请 ====================

type fakeFriendRequestRepository struct {
	mu   sync.Mutex
	reqs map[string]*model.FriendRequest

	createFn       func(ctx context.Context, req *model.FriendRequest) error
	updateStatusFn func(ctx context.Context, req *model.FriendRequest) error
}

func newFakeFriendRequestRepository() *fakeFriendRequestRepository {
	return &fakeFriendRequestRepository{reqs: make(map[string]*model.FriendRequest)}
}

// Create 与 uidx_pending_key 一致：同一对已有 PENDING 申请时返回 ErrDuplicateKey
func (f *fakeFriendRequestRepository) Create(ctx context.Context, req *model.FriendRequest) error {
	if f.createFn != nil {
		return f.createFn(ctx, req)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.reqs {
		if r.PairKey == req.PairKey && r.IsPending() {
			return repository.ErrDuplicateKey
		}
	}
	cp := *req
	f.reqs[req.Id] = &cp
	return nil
}

func (f *fakeFriendRequestRepository) GetByID(ctx context.Context, id string) (*model.FriendRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reqs[id]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeFriendRequestRepository) GetPendingBetween(ctx context.Context, userA, userB string) (*model.FriendRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := model.PairID(userA, userB)
	for _, r := range f.reqs {
		if r.PairKey == key && r.IsPending() {
			cp := *r
			return &cp, nil
		}
	}
	return nil, repository.ErrRecordNotFound
}

func (f *fakeFriendRequestRepository) ListPendingFor(ctx context.Context, userID string) ([]*model.FriendRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []*model.FriendRequest
	for _, r := range f.reqs {
		if r.ToUserId == userID && r.IsPending() {
			cp := *r
			list = append(list, &cp)
		}
	}
	return list, nil
}

func (f *fakeFriendRequestRepository) UpdateStatus(ctx context.Context, req *model.FriendRequest) error {
	if f.updateStatusFn != nil {
		return f.updateStatusFn(ctx, req)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.reqs[req.Id]
	if !ok || !stored.IsPending() {
		return repository.ErrRequestNotPending
	}
	cp := *req
	f.reqs[req.Id] = &cp
	return nil
}

func (f *fakeFriendRequestRepository) ExpireBefore(ctx context.Context, cutoff, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, r := range f.reqs {
		if r.IsPending() && r.CreatedAt.Before(cutoff) {
			r.Respond(model.FriendRequestExpired, now)
			n++
		}
	}
	return n, nil
}

func (f *fakeFriendRequestRepository) pendingCount(pairKey string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.reqs {
		if r.PairKey == pairKey && r.IsPending() {
			n++
		}
	}
	return n
}

func (f *fakeFriendRequestRepository) get(id string) *model.FriendRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reqs[id]
	if !ok {
		return nil
	}
	cp := *r
	return &cp
}

// ==================== 通知 ====================

type fakeNotificationRepository struct {
	mu    sync.Mutex
	items []*model.Notification

	saveFn func(ctx context.Context, n *model.Notification) error
}

func (f *fakeNotificationRepository) Save(ctx context.Context, n *model.Notification) error {
	if f.saveFn != nil {
		return f.saveFn(ctx, n)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *n
	f.items = append(f.items, &cp)
	return nil
}

func (f *fakeNotificationRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*model.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []*model.Notification
	for i := len(f.items) - 1; i >= 0 && len(list) < limit; i-- {
		n := f.items[i]
		if n.UserId == userID && (!unreadOnly || !n.IsRead) {
			list = append(list, n)
		}
	}
	return list, nil
}

func (f *fakeNotificationRepository) MarkRead(ctx context.Context, userID string, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.items {
		if n.Id == id && n.UserId == userID && !n.IsRead {
			n.IsRead = true
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeNotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, item := range f.items {
		if item.UserId == userID && !item.IsRead {
			n++
		}
	}
	return n, nil
}

func (f *fakeNotificationRepository) ofType(userID string, typ model.NotificationType) []*model.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []*model.Notification
	for _, n := range f.items {
		if n.UserId == userID && n.Type == typ {
			list = append(list, n)
		}
	}
	return list
}

// ==================== 精选推荐 ====================

type fakeStandoutRepository struct {
	mu        sync.Mutex
	byKey     map[string][]*model.Standout
	saveCalls int

	saveFn func(ctx context.Context, seekerID, date string, standouts []*model.Standout) error
}

func newFakeStandoutRepository() *fakeStandoutRepository {
	return &fakeStandoutRepository{byKey: make(map[string][]*model.Standout)}
}

func (f *fakeStandoutRepository) GetForDate(ctx context.Context, seekerID, date string) ([]*model.Standout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*model.Standout{}, f.byKey[seekerID+"|"+date]...), nil
}

func (f *fakeStandoutRepository) SaveForDate(ctx context.Context, seekerID, date string, standouts []*model.Standout) error {
	f.mu.Lock()
	f.saveCalls++
	f.mu.Unlock()
	if f.saveFn != nil {
		return f.saveFn(ctx, seekerID, date, standouts)
	}
	return f.put(seekerID, date, standouts)
}

// put 首个写入者生效，与 MySQL 实现一致
func (f *fakeStandoutRepository) put(seekerID, date string, standouts []*model.Standout) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := seekerID + "|" + date
	if len(f.byKey[key]) > 0 {
		return repository.ErrDuplicateKey
	}
	f.byKey[key] = append([]*model.Standout{}, standouts...)
	return nil
}

func (f *fakeStandoutRepository) MarkInteracted(ctx context.Context, seekerID, standoutUserID, date string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, st := range f.byKey[seekerID+"|"+date] {
		if st.StandoutUserId == standoutUserID && st.InteractedAt == nil {
			t := at
			st.InteractedAt = &t
		}
	}
	return nil
}

func (f *fakeStandoutRepository) DeleteBefore(ctx context.Context, date string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for key, list := range f.byKey {
		if _, d, _ := strings.Cut(key, "|"); d < date {
			n += int64(len(list))
			delete(f.byKey, key)
		}
	}
	return n, nil
}

// ==================== 用户 ====================

type fakeUserRepository struct {
	mu    sync.Mutex
	users map[string]*model.UserProfile
}

func newFakeUserRepository(users ...*model.UserProfile) *fakeUserRepository {
	f := &fakeUserRepository{users: make(map[string]*model.UserProfile)}
	for _, u := range users {
		f.users[u.Id] = u
	}
	return f
}

func (f *fakeUserRepository) GetByID(ctx context.Context, id string) (*model.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeUserRepository) BatchGetByIDs(ctx context.Context, ids []string) ([]*model.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []*model.UserProfile
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			list = append(list, u)
		}
	}
	return list, nil
}

func (f *fakeUserRepository) ListActive(ctx context.Context, excludeID string) ([]*model.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []*model.UserProfile
	for _, u := range f.users {
		if u.Id != excludeID && u.IsActive() {
			list = append(list, u)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Id < list[j].Id })
	return list, nil
}

func (f *fakeUserRepository) put(u *model.UserProfile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.Id] = u
}

// ==================== Redis 辅助存储 ====================

type fakeDailyPickViewRepository struct {
	mu    sync.Mutex
	views map[string]struct{}
}

func newFakeDailyPickViewRepository() *fakeDailyPickViewRepository {
	return &fakeDailyPickViewRepository{views: make(map[string]struct{})}
}

func (f *fakeDailyPickViewRepository) MarkViewed(ctx context.Context, userID, date string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.views[date+"|"+userID] = struct{}{}
	return nil
}

func (f *fakeDailyPickViewRepository) HasViewed(ctx context.Context, userID, date string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.views[date+"|"+userID]
	return ok, nil
}

func (f *fakeDailyPickViewRepository) DeleteBefore(ctx context.Context, date string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for key := range f.views {
		if d, _, _ := strings.Cut(key, "|"); d < date {
			delete(f.views, key)
			n++
		}
	}
	return n, nil
}

type fakeSwipeSessionRepository struct {
	mu       sync.Mutex
	sessions map[string]*model.SwipeSession

	saveFn func(ctx context.Context, session *model.SwipeSession, ttl time.Duration) error
}

func newFakeSwipeSessionRepository() *fakeSwipeSessionRepository {
	return &fakeSwipeSessionRepository{sessions: make(map[string]*model.SwipeSession)}
}

func (f *fakeSwipeSessionRepository) Get(ctx context.Context, userID string) (*model.SwipeSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[userID]
	if !ok {
		return nil, repository.ErrRedisNil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSwipeSessionRepository) Save(ctx context.Context, session *model.SwipeSession, ttl time.Duration) error {
	if f.saveFn != nil {
		return f.saveFn(ctx, session, ttl)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *session
	f.sessions[session.UserId] = &cp
	return nil
}

func (f *fakeSwipeSessionRepository) Delete(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, userID)
	return nil
}

// ==================== 测试环境 ====================

// testT0 2024-06-15 12:00 UTC
var testT0 = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	cfg   config.MatchConfig
	clock *clock.Fake

	likes         *fakeLikeRepository
	matches       *fakeMatchRepository
	undos         *fakeUndoRepository
	convs         *fakeConversationRepository
	msgs          *fakeMessageRepository
	friends       *fakeFriendRequestRepository
	notifications *fakeNotificationRepository
	standouts     *fakeStandoutRepository
	users         *fakeUserRepository
	views         *fakeDailyPickViewRepository
	sessions      *fakeSwipeSessionRepository

	notifier     INotifier
	activity     IActivityService
	finder       ICandidateFinder
	undo         IUndoService
	recommend    IRecommendationService
	matching     IMatchingService
	messaging    IMessagingService
	relationship IRelationshipService
}

func newTestEnv(t *testing.T, mutate ...func(*config.MatchConfig)) *testEnv {
	t.Helper()
	initServiceTestLogger()

	cfg := config.DefaultMatchConfig()
	for _, m := range mutate {
		m(&cfg)
	}

	e := &testEnv{cfg: cfg, clock: clock.NewFake(testT0)}
	e.matches = newFakeMatchRepository()
	e.likes = newFakeLikeRepository(e.matches)
	e.undos = newFakeUndoRepository()
	e.convs = newFakeConversationRepository()
	e.msgs = &fakeMessageRepository{}
	e.friends = newFakeFriendRequestRepository()
	e.notifications = &fakeNotificationRepository{}
	e.standouts = newFakeStandoutRepository()
	e.users = newFakeUserRepository()
	e.views = newFakeDailyPickViewRepository()
	e.sessions = newFakeSwipeSessionRepository()

	e.notifier = NewNotifier(e.notifications, e.clock)
	e.activity = NewActivityService(cfg, e.clock, e.sessions, lockstripe.New(0))
	e.finder = NewCandidateFinder(e.users, e.likes, e.matches, e.clock)
	e.undo = NewUndoService(cfg, e.clock, e.undos, e.likes)
	recommend, err := NewRecommendationService(cfg, e.clock, e.likes, e.users, e.standouts, e.views, e.finder, scoring.NewCompletionCalculator())
	require.NoError(t, err)
	e.recommend = recommend
	e.matching = NewMatchingService(e.clock, lockstripe.New(0), e.likes, e.matches, e.users, e.activity, e.undo, e.recommend, e.notifier)
	e.messaging = NewMessagingService(cfg, e.clock, e.users, e.matches, e.convs, e.msgs, e.notifier)
	e.relationship = NewRelationshipService(e.clock, lockstripe.New(0), e.matches, e.friends, e.convs, e.notifier)
	return e
}

// activeUser 创建一个已激活、资料互相匹配的用户
func activeUser(id, gender string, interestedIn ...string) *model.UserProfile {
	return &model.UserProfile{
		Id:            id,
		Nickname:      id,
		State:         model.UserStateActive,
		Gender:        gender,
		InterestedIn:  interestedIn,
		BirthDate:     time.Date(1995, 1, 1, 0, 0, 0, 0, time.UTC),
		MinAge:        18,
		MaxAge:        60,
		MaxDistanceKm: 50,
	}
}

func withLocation(u *model.UserProfile, lat, lon float64) *model.UserProfile {
	u.Lat, u.Lon = &lat, &lon
	return u
}

// addUsers 写入用户
func (e *testEnv) addUsers(users ...*model.UserProfile) {
	for _, u := range users {
		e.users.put(u)
	}
}

// like 直接记录一次 LIKE
func (e *testEnv) like(t *testing.T, from, to string) *model.Match {
	t.Helper()
	l, err := model.NewLike(from+"->"+to, from, to, model.DirectionLike, e.clock.Now())
	require.NoError(t, err)
	m, err := e.matching.RecordLike(context.Background(), l)
	require.NoError(t, err)
	return m
}

// match 让两人互相喜欢并返回匹配
func (e *testEnv) match(t *testing.T, a, b string) *model.Match {
	t.Helper()
	e.like(t, a, b)
	m := e.like(t, b, a)
	require.NotNil(t, m)
	return m
}
