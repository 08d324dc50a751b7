package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"MatchServer/apps/match/internal/repository"
	"MatchServer/apps/match/internal/scoring"
	"MatchServer/model"
	"MatchServer/pkg/clock"
	"MatchServer/pkg/logger"
)

const (
	msgNoStandouts        = "No standouts available. Try adjusting your preferences!"
	msgStandoutsExhausted = "Check back tomorrow for fresh standouts!"

	// compatibleLifestyleScore 生活方式得分达到该值视为相合
	compatibleLifestyleScore = 0.75
)

type scoredCandidate struct {
	user   *model.UserProfile
	score  int
	reason string
}

// GetStandouts 今日精选推荐
// 每个 (seeker, 日期) 只计算一次：进程内 LRU -> 数据库 -> 重新计算并落库。
// 前 DiversityDays 天出现过的人不会再次入选
func (s *recommendationServiceImpl) GetStandouts(ctx context.Context, seeker *model.UserProfile) (*StandoutResult, error) {
	now := s.clock.Now()
	date := clock.DateString(now, s.loc)
	key := standoutCacheKey(seeker.Id, date)

	if cached, ok := s.standoutCache.Get(key); ok {
		return &StandoutResult{Standouts: cached, TotalCandidates: len(cached), FromCache: true}, nil
	}

	stored, err := s.standoutRepo.GetForDate(ctx, seeker.Id, date)
	if err != nil {
		return nil, internalError(ctx, "查询精选推荐失败", err, logger.String("user_id", seeker.Id))
	}
	if len(stored) > 0 {
		s.standoutCache.Add(key, stored)
		return &StandoutResult{Standouts: stored, TotalCandidates: len(stored), FromCache: true}, nil
	}

	return s.generateStandouts(ctx, seeker, date, now)
}

func (s *recommendationServiceImpl) generateStandouts(ctx context.Context, seeker *model.UserProfile, date string, now time.Time) (*StandoutResult, error) {
	candidates, err := s.finder.FindCandidates(ctx, seeker)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return &StandoutResult{Standouts: []*model.Standout{}, Message: msgNoStandouts}, nil
	}

	recent, err := s.recentStandoutIDs(ctx, seeker.Id, now)
	if err != nil {
		return nil, err
	}

	scored := make([]scoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := recent[c.Id]; ok {
			continue
		}
		scored = append(scored, s.scoreCandidate(seeker, c, now))
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].user.Id < scored[j].user.Id
	})
	if len(scored) > s.cfg.MaxStandouts {
		scored = scored[:s.cfg.MaxStandouts]
	}
	if len(scored) == 0 {
		return &StandoutResult{Standouts: []*model.Standout{}, TotalCandidates: len(candidates), Message: msgStandoutsExhausted}, nil
	}

	standouts := make([]*model.Standout, len(scored))
	for i, sc := range scored {
		standouts[i] = &model.Standout{
			SeekerId:       seeker.Id,
			StandoutUserId: sc.user.Id,
			Date:           date,
			Rank:           i + 1,
			Score:          sc.score,
			Reason:         sc.reason,
			CreatedAt:      now,
		}
	}

	if err := s.standoutRepo.SaveForDate(ctx, seeker.Id, date, standouts); err != nil {
		if !errors.Is(err, repository.ErrDuplicateKey) && !errors.Is(err, repository.ErrLockConflict) {
			return nil, internalError(ctx, "保存精选推荐失败", err, logger.String("user_id", seeker.Id))
		}
		return s.adoptStoredStandouts(ctx, seeker.Id, date, standouts, len(candidates))
	}
	s.standoutCache.Add(standoutCacheKey(seeker.Id, date), standouts)

	logger.Info(ctx, "精选推荐生成完成",
		logger.String("user_id", seeker.Id),
		logger.Int("candidates", len(candidates)),
		logger.Int("standouts", len(standouts)),
	)
	return &StandoutResult{Standouts: standouts, TotalCandidates: len(candidates)}, nil
}

// adoptStoredStandouts 并发首写落败时改用已落库的列表，保证同一天所有调用方看到同一份。
// 对方事务尚未提交读不到时，返回本次计算结果但不缓存
func (s *recommendationServiceImpl) adoptStoredStandouts(ctx context.Context, seekerID, date string, generated []*model.Standout, totalCandidates int) (*StandoutResult, error) {
	stored, err := s.standoutRepo.GetForDate(ctx, seekerID, date)
	if err != nil {
		return nil, internalError(ctx, "回读精选推荐失败", err, logger.String("user_id", seekerID))
	}
	if len(stored) == 0 {
		logger.Warn(ctx, "精选推荐并发写入，回读为空，返回本次结果",
			logger.String("user_id", seekerID),
			logger.String("date", date),
		)
		return &StandoutResult{Standouts: generated, TotalCandidates: totalCandidates}, nil
	}
	s.standoutCache.Add(standoutCacheKey(seekerID, date), stored)
	return &StandoutResult{Standouts: stored, TotalCandidates: totalCandidates, FromCache: true}, nil
}

// recentStandoutIDs 前 DiversityDays 天任意一天入选过的用户
func (s *recommendationServiceImpl) recentStandoutIDs(ctx context.Context, seekerID string, now time.Time) (map[string]struct{}, error) {
	recent := make(map[string]struct{})
	start := clock.StartOfDay(now, s.loc)
	for i := 1; i <= s.cfg.DiversityDays; i++ {
		date := clock.DateString(start.AddDate(0, 0, -i), s.loc)
		past, err := s.standoutRepo.GetForDate(ctx, seekerID, date)
		if err != nil {
			return nil, internalError(ctx, "查询历史精选推荐失败", err,
				logger.String("user_id", seekerID),
				logger.String("date", date),
			)
		}
		for _, p := range past {
			recent[p.StandoutUserId] = struct{}{}
		}
	}
	return recent, nil
}

func (s *recommendationServiceImpl) scoreCandidate(seeker, candidate *model.UserProfile, now time.Time) scoredCandidate {
	km, known := scoring.ProfileDistanceKm(seeker, candidate)
	interests := scoring.CompareInterests(seeker.Interests, candidate.Interests)
	lifestyle := scoring.LifestyleScore(seeker, candidate)

	axes := scoring.Axes{
		Distance:     scoring.DistanceScore(km, known, seeker.MaxDistanceKm),
		Age:          scoring.AgeScore(seeker, candidate, now),
		Interest:     scoring.InterestScore(seeker.Interests, candidate.Interests),
		Lifestyle:    lifestyle,
		Completeness: float64(s.completion.Calculate(candidate).Percentage) / 100,
		Activity:     scoring.ActivityScore(candidate.UpdatedAt, now, s.cfg.ActivityBuckets, s.cfg.ActivityFloor),
	}

	return scoredCandidate{
		user:   candidate,
		score:  axes.Composite(s.cfg.StandoutWeights),
		reason: s.standoutReason(seeker, candidate, interests.SharedCount, km, known, lifestyle),
	}
}

// standoutReason 按优先级取第一条成立的理由
func (s *recommendationServiceImpl) standoutReason(seeker, candidate *model.UserProfile, shared int, km float64, known bool, lifestyle float64) string {
	switch {
	case shared >= s.cfg.MinSharedInterests:
		return "Many shared interests"
	case shared >= 1:
		return "Shared interests"
	case known && km < s.cfg.NearbyDistanceKm:
		return "Lives nearby"
	case lifestyle >= compatibleLifestyleScore:
		return "Compatible lifestyle"
	case seeker.LookingFor != "" && seeker.LookingFor == candidate.LookingFor:
		return "Same relationship goals"
	}
	return "Top match for you"
}

// MarkInteracted 标记今日精选已互动，并让缓存失效
func (s *recommendationServiceImpl) MarkInteracted(ctx context.Context, seekerID, standoutUserID string) error {
	now := s.clock.Now()
	date := clock.DateString(now, s.loc)
	if err := s.standoutRepo.MarkInteracted(ctx, seekerID, standoutUserID, date, now); err != nil {
		return internalError(ctx, "标记精选互动失败", err,
			logger.String("user_id", seekerID),
			logger.String("standout_user_id", standoutUserID),
		)
	}
	s.standoutCache.Remove(standoutCacheKey(seekerID, date))
	return nil
}

// ResolveUsers 精选条目对应的用户资料
func (s *recommendationServiceImpl) ResolveUsers(ctx context.Context, standouts []*model.Standout) (map[string]*model.UserProfile, error) {
	result := make(map[string]*model.UserProfile, len(standouts))
	if len(standouts) == 0 {
		return result, nil
	}
	ids := make([]string, len(standouts))
	for i, st := range standouts {
		ids[i] = st.StandoutUserId
	}
	users, err := s.userRepo.BatchGetByIDs(ctx, ids)
	if err != nil {
		return nil, internalError(ctx, "批量查询精选用户失败", err)
	}
	for _, u := range users {
		result[u.Id] = u
	}
	return result, nil
}

// CleanupOldStandouts 删除 before 所在日期之前的精选记录
func (s *recommendationServiceImpl) CleanupOldStandouts(ctx context.Context, before time.Time) (int64, error) {
	cutoff := clock.DateString(before, s.loc)
	n, err := s.standoutRepo.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, internalError(ctx, "清理历史精选推荐失败", err)
	}
	for _, key := range s.standoutCache.Keys() {
		if _, date, ok := strings.Cut(key, "|"); ok && date < cutoff {
			s.standoutCache.Remove(key)
		}
	}
	return n, nil
}

func standoutCacheKey(seekerID, date string) string {
	return seekerID + "|" + date
}
