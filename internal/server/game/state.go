package game

import (
	"sync"
	"time"
)

// History 是一局棋已出现过的完整局面（FEN）集合，只增不减。
// 搜索只读；一次“记录-搜索-记录”的全过程需要持有 Lock。
type History struct {
	Key       string
	CreatedAt time.Time

	mu    sync.Mutex // 整个搜索周期的独占锁
	setMu sync.RWMutex
	seen  map[string]struct{}
}

func newHistory(key string) *History {
	return &History{
		Key:       key,
		CreatedAt: time.Now(),
		seen:      make(map[string]struct{}),
	}
}

func (h *History) Lock()   { h.mu.Lock() }
func (h *History) Unlock() { h.mu.Unlock() }

func (h *History) Add(fingerprint string) {
	h.setMu.Lock()
	h.seen[fingerprint] = struct{}{}
	h.setMu.Unlock()
}

func (h *History) Contains(fingerprint string) bool {
	h.setMu.RLock()
	_, ok := h.seen[fingerprint]
	h.setMu.RUnlock()
	return ok
}

func (h *History) Len() int {
	h.setMu.RLock()
	defer h.setMu.RUnlock()
	return len(h.seen)
}
