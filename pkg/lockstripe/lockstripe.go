// Package lockstripe 固定数量的分段锁，按 key 哈希选锁。
// 同一 key 的操作串行，不同 key 只在哈希碰撞时竞争；段数应大于预期并发用户数。
package lockstripe

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// DefaultStripes 默认分段数
const DefaultStripes = 256

// Table 分段锁表
type Table struct {
	stripes []sync.Mutex
}

// New 创建 n 段锁，n <= 0 时使用 DefaultStripes
func New(n int) *Table {
	if n <= 0 {
		n = DefaultStripes
	}
	return &Table{stripes: make([]sync.Mutex, n)}
}

// Len 段数
func (t *Table) Len() int { return len(t.stripes) }

// index 计算 key 对应的段下标
func (t *Table) index(key string) int {
	return int(xxhash.Sum64String(key) % uint64(len(t.stripes)))
}

// Lock 锁住 key 所在的段，返回解锁函数
func (t *Table) Lock(key string) (unlock func()) {
	mu := &t.stripes[t.index(key)]
	mu.Lock()
	return mu.Unlock
}

// With 在 key 所在段的锁内执行 fn
func (t *Table) With(key string, fn func()) {
	unlock := t.Lock(key)
	defer unlock()
	fn()
}
