package scoring

import "sort"

// 兴趣得分
const (
	bothEmptyInterestScore = Neutral
	oneEmptyInterestScore  = 0.3
)

// InterestMatch 两组兴趣的比较结果
type InterestMatch struct {
	Shared       []string // 共同兴趣，按字典序
	SharedCount  int
	OverlapRatio float64 // shared / min(|a|, |b|)
	Jaccard      float64 // shared / |a ∪ b|
}

// CompareInterests 比较两组兴趣，重复项只计一次；任一方为空时结果全为零值
func CompareInterests(a, b []string) InterestMatch {
	setA, setB := toSet(a), toSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return InterestMatch{}
	}

	shared := make([]string, 0)
	for k := range setA {
		if _, ok := setB[k]; ok {
			shared = append(shared, k)
		}
	}
	sort.Strings(shared)

	union := len(setA) + len(setB) - len(shared)
	return InterestMatch{
		Shared:       shared,
		SharedCount:  len(shared),
		OverlapRatio: float64(len(shared)) / float64(min(len(setA), len(setB))),
		Jaccard:      float64(len(shared)) / float64(union),
	}
}

// InterestScore 双方都没填 0.5，只有一方填 0.3，否则为重叠率
func InterestScore(a, b []string) float64 {
	emptyA, emptyB := len(toSet(a)) == 0, len(toSet(b)) == 0
	switch {
	case emptyA && emptyB:
		return bothEmptyInterestScore
	case emptyA || emptyB:
		return oneEmptyInterestScore
	}
	return CompareInterests(a, b).OverlapRatio
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		if it == "" {
			continue
		}
		set[it] = struct{}{}
	}
	return set
}
