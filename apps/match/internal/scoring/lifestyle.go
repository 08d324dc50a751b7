package scoring

import "MatchServer/model"

// KidsCompatible 生育观兼容：相同、任一方 OPEN、或 SOMEDAY 与 HAS_KIDS
func KidsCompatible(a, b string) bool {
	if a == b {
		return true
	}
	if a == model.WantsKidsOpen || b == model.WantsKidsOpen {
		return true
	}
	return (a == model.WantsKidsSomeday && b == model.WantsKidsHasKids) ||
		(b == model.WantsKidsSomeday && a == model.WantsKidsHasKids)
}

// LifestyleScore 双方都填写的生活方式字段中兼容的比例；没有可比较字段返回 0.5
func LifestyleScore(a, b *model.UserProfile) float64 {
	var total, matched int
	compare := func(x, y string, compatible func(string, string) bool) {
		if x == "" || y == "" {
			return
		}
		total++
		if compatible(x, y) {
			matched++
		}
	}

	compare(a.Smoking, b.Smoking, equal)
	compare(a.Drinking, b.Drinking, equal)
	compare(a.WantsKids, b.WantsKids, KidsCompatible)
	compare(a.LookingFor, b.LookingFor, equal)

	if total == 0 {
		return Neutral
	}
	return float64(matched) / float64(total)
}

// SameNonEmpty 两个取值都已填写且相同
func SameNonEmpty(a, b string) bool {
	return a != "" && a == b
}

func equal(a, b string) bool { return a == b }
