package service

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"

	"MatchServer/apps/match/internal/scoring"
	"MatchServer/model"
	"MatchServer/pkg/clock"
	"MatchServer/pkg/logger"

	"github.com/cespare/xxhash/v2"
)

// 没有具体理由时的兜底文案
var fillerReasons = []string{
	"Our algorithm thinks you might click!",
	"Something different today!",
	"Expand your horizons!",
	"Why not give them a chance?",
	"Could be a pleasant surprise!",
}

// GetDailyPick 今日推荐
// 同一用户同一天在候选人不变时总是得到同一个人：
// 种子 = 纪元日 XOR xxhash(userID)，结果缓存在 pickCache 中；
// 缓存的人不再是候选人时用 CompareAndSwap 原子替换
func (s *recommendationServiceImpl) GetDailyPick(ctx context.Context, seeker *model.UserProfile) (*DailyPick, error) {
	candidates, err := s.finder.FindCandidates(ctx, seeker)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	now := s.clock.Now()
	date := clock.DateString(now, s.loc)
	seed := uint64(clock.EpochDay(now, s.loc)) ^ xxhash.Sum64String(seeker.Id)

	picked := s.resolvePick(seeker.Id+"_"+date, seed, candidates)
	reason := s.pickReason(seeker, picked, seed^xxhash.Sum64String(picked.Id), now)

	seen, err := s.viewRepo.HasViewed(ctx, seeker.Id, date)
	if err != nil {
		logger.Warn(ctx, "查询每日推荐查看记录失败",
			logger.String("user_id", seeker.Id),
			logger.ErrorField("error", err),
		)
		seen = false
	}

	return &DailyPick{User: picked, Date: date, Reason: reason, AlreadySeen: seen}, nil
}

// resolvePick 读取或写入缓存的推荐，不做先查后写
func (s *recommendationServiceImpl) resolvePick(key string, seed uint64, candidates []*model.UserProfile) *model.UserProfile {
	byID := make(map[string]*model.UserProfile, len(candidates))
	for _, c := range candidates {
		byID[c.Id] = c
	}

	fresh := drawPick(seed, candidates)
	actual, loaded := s.pickCache.LoadOrStore(key, fresh.Id)
	if !loaded {
		return fresh
	}

	cachedID := actual.(string)
	if u, ok := byID[cachedID]; ok {
		return u
	}

	// 缓存的人已不是候选人（被拉黑、已滑动等）
	if s.pickCache.CompareAndSwap(key, cachedID, fresh.Id) {
		return fresh
	}
	// 其他请求抢先替换，以它为准
	if winner, ok := s.pickCache.Load(key); ok {
		if u, ok := byID[winner.(string)]; ok {
			return u
		}
	}
	return fresh
}

func drawPick(seed uint64, candidates []*model.UserProfile) *model.UserProfile {
	rng := rand.New(rand.NewPCG(seed, seed))
	return candidates[rng.IntN(len(candidates))]
}

// pickReason 从具体理由中确定性地挑一条，没有具体理由时从兜底文案中挑
func (s *recommendationServiceImpl) pickReason(seeker, picked *model.UserProfile, seed uint64, now time.Time) string {
	var reasons []string

	if km, ok := scoring.ProfileDistanceKm(seeker, picked); ok {
		if km < s.cfg.NearbyDistanceKm {
			reasons = append(reasons, "Lives nearby!")
		} else if km < s.cfg.CloseDistanceKm {
			reasons = append(reasons, "Close enough for coffee!")
		}
	}

	ageDiff := scoring.AgeDiff(seeker, picked, now)
	if ageDiff <= s.cfg.SimilarAgeDiff {
		reasons = append(reasons, "Similar age")
	} else if ageDiff <= s.cfg.CompatibleAgeDiff {
		reasons = append(reasons, "Age-appropriate match")
	}

	if scoring.SameNonEmpty(seeker.LookingFor, picked.LookingFor) {
		reasons = append(reasons, "Looking for the same thing")
	}
	if scoring.SameNonEmpty(seeker.WantsKids, picked.WantsKids) {
		reasons = append(reasons, "Same stance on kids")
	}
	if scoring.SameNonEmpty(seeker.Drinking, picked.Drinking) {
		reasons = append(reasons, "Compatible drinking habits")
	}
	if scoring.SameNonEmpty(seeker.Smoking, picked.Smoking) {
		reasons = append(reasons, "Compatible smoking habits")
	}

	shared := scoring.CompareInterests(seeker.Interests, picked.Interests).SharedCount
	if shared >= s.cfg.MinSharedInterests {
		reasons = append(reasons, "Many shared interests!")
	} else if shared >= 1 {
		reasons = append(reasons, "Some shared interests")
	}

	if len(reasons) == 0 {
		reasons = fillerReasons
	}
	rng := rand.New(rand.NewPCG(seed, seed))
	return reasons[rng.IntN(len(reasons))]
}

// MarkDailyPickViewed 标记今日推荐已查看
func (s *recommendationServiceImpl) MarkDailyPickViewed(ctx context.Context, userID string) error {
	if err := s.viewRepo.MarkViewed(ctx, userID, s.today()); err != nil {
		return internalError(ctx, "记录每日推荐查看失败", err, logger.String("user_id", userID))
	}
	return nil
}

// HasViewedDailyPick 今日推荐是否已查看
func (s *recommendationServiceImpl) HasViewedDailyPick(ctx context.Context, userID string) (bool, error) {
	seen, err := s.viewRepo.HasViewed(ctx, userID, s.today())
	if err != nil {
		return false, internalError(ctx, "查询每日推荐查看记录失败", err, logger.String("user_id", userID))
	}
	return seen, nil
}

// CleanupOldDailyPickViews 删除 before 所在日期之前的查看记录，并清掉非今日的推荐缓存
func (s *recommendationServiceImpl) CleanupOldDailyPickViews(ctx context.Context, before time.Time) (int64, error) {
	n, err := s.viewRepo.DeleteBefore(ctx, clock.DateString(before, s.loc))
	if err != nil {
		return 0, internalError(ctx, "清理每日推荐查看记录失败", err)
	}

	suffix := "_" + s.today()
	s.pickCache.Range(func(key, _ any) bool {
		if !strings.HasSuffix(key.(string), suffix) {
			s.pickCache.Delete(key)
		}
		return true
	})
	return n, nil
}
