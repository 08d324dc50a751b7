package service

import (
	"context"
	"math"
	"sort"

	"MatchServer/apps/match/internal/repository"
	"MatchServer/apps/match/internal/scoring"
	"MatchServer/model"
	"MatchServer/pkg/clock"
	"MatchServer/pkg/logger"
)

// candidateFinderImpl 默认候选人查找：
// 非本人、已激活、未滑动过、双向性别偏好、双向年龄偏好、距离在 seeker 上限内、未拉黑
type candidateFinderImpl struct {
	userRepo  repository.IUserRepository
	likeRepo  repository.ILikeRepository
	matchRepo repository.IMatchRepository
	clock     clock.Clock
}

// NewCandidateFinder 创建候选人查找实例
func NewCandidateFinder(
	userRepo repository.IUserRepository,
	likeRepo repository.ILikeRepository,
	matchRepo repository.IMatchRepository,
	clk clock.Clock,
) ICandidateFinder {
	return &candidateFinderImpl{
		userRepo:  userRepo,
		likeRepo:  likeRepo,
		matchRepo: matchRepo,
		clock:     clk,
	}
}

type rankedCandidate struct {
	user     *model.UserProfile
	distance float64
}

// FindCandidates 结果按距离升序，距离相同（或未知）按 ID 升序，保证顺序稳定
func (f *candidateFinderImpl) FindCandidates(ctx context.Context, seeker *model.UserProfile) ([]*model.UserProfile, error) {
	active, err := f.userRepo.ListActive(ctx, seeker.Id)
	if err != nil {
		return nil, internalError(ctx, "查询激活用户失败", err, logger.String("user_id", seeker.Id))
	}

	excluded, err := f.excludedIDs(ctx, seeker.Id)
	if err != nil {
		return nil, err
	}

	now := f.clock.Now()
	ranked := make([]rankedCandidate, 0, len(active))
	for _, c := range active {
		if c.Id == seeker.Id || !c.IsActive() {
			continue
		}
		if _, ok := excluded[c.Id]; ok {
			continue
		}
		if !mutualGender(seeker, c) {
			continue
		}
		if !scoring.WithinAgeRange(seeker, c, now) || !scoring.WithinAgeRange(c, seeker, now) {
			continue
		}
		distance := math.Inf(1)
		if km, ok := scoring.ProfileDistanceKm(seeker, c); ok {
			if seeker.MaxDistanceKm > 0 && km > float64(seeker.MaxDistanceKm) {
				continue
			}
			distance = km
		}
		ranked = append(ranked, rankedCandidate{user: c, distance: distance})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].distance != ranked[j].distance {
			return ranked[i].distance < ranked[j].distance
		}
		return ranked[i].user.Id < ranked[j].user.Id
	})

	candidates := make([]*model.UserProfile, len(ranked))
	for i, r := range ranked {
		candidates[i] = r.user
	}

	logger.Debug(ctx, "候选人查找完成",
		logger.String("user_id", seeker.Id),
		logger.Int("active", len(active)),
		logger.Int("candidates", len(candidates)),
	)
	return candidates, nil
}

// excludedIDs 已滑动过以及处于拉黑关系的用户
func (f *candidateFinderImpl) excludedIDs(ctx context.Context, userID string) (map[string]struct{}, error) {
	swiped, err := f.likeRepo.ListSwipedUserIDs(ctx, userID)
	if err != nil {
		return nil, internalError(ctx, "查询已滑动用户失败", err, logger.String("user_id", userID))
	}
	blocked, err := f.matchRepo.ListByUser(ctx, userID, model.MatchStateBlocked)
	if err != nil {
		return nil, internalError(ctx, "查询拉黑关系失败", err, logger.String("user_id", userID))
	}

	excluded := make(map[string]struct{}, len(swiped)+len(blocked))
	for _, id := range swiped {
		excluded[id] = struct{}{}
	}
	for _, m := range blocked {
		excluded[m.OtherUser(userID)] = struct{}{}
	}
	return excluded, nil
}

// mutualGender 双方都对对方的性别感兴趣，性别未填写视为不匹配
func mutualGender(a, b *model.UserProfile) bool {
	if a.Gender == "" || b.Gender == "" {
		return false
	}
	return a.IsInterestedIn(b.Gender) && b.IsInterestedIn(a.Gender)
}
