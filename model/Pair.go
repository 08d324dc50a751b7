package model

import "strings"

// PairID 由两个用户 ID 生成规范化的对 ID：排序后以 "_" 连接。
// Match 与 Conversation 的主键都来自它，同一对用户无论调用顺序只有一个 ID。
func PairID(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "_" + b
}

// SortPair 返回排序后的两个用户 ID
func SortPair(a, b string) (string, string) {
	if a > b {
		return b, a
	}
	return a, b
}

// SplitPairID 将对 ID 拆回两个用户 ID
func SplitPairID(id string) (string, string, bool) {
	a, b, ok := strings.Cut(id, "_")
	if !ok || a == "" || b == "" {
		return "", "", false
	}
	return a, b, true
}
