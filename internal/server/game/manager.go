package game

import "sync"

// DefaultCapacity 是同时保留重复局面记忆的对局数
const DefaultCapacity = 10

// Manager 按 game key 保存 History，数量超过容量时按创建顺序淘汰最早的一个（FIFO，不是 LRU）。
// 被淘汰的对局之后重新出现会拿到一份空记忆。
type Manager struct {
	mu       sync.Mutex
	capacity int
	games    map[string]*History
	order    []string // 创建顺序，order[0] 最早
}

func NewManager(capacity int) *Manager {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Manager{
		capacity: capacity,
		games:    make(map[string]*History, capacity+1),
		order:    make([]string, 0, capacity+1),
	}
}

// Acquire 返回 key 的记忆，不存在时创建；创建后立即做淘汰。
func (m *Manager) Acquire(key string) *History {
	m.mu.Lock()
	defer m.mu.Unlock()

	if h, ok := m.games[key]; ok {
		return h
	}
	h := newHistory(key)
	m.games[key] = h
	m.order = append(m.order, key)
	m.evictLocked()
	return h
}

func (m *Manager) evictLocked() {
	for len(m.order) > m.capacity {
		oldest := m.order[0]
		m.order[0] = ""
		m.order = m.order[1:]
		delete(m.games, oldest)
	}
}

func (m *Manager) Get(key string) (*History, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.games[key]
	return h, ok
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.games)
}

func (m *Manager) Capacity() int { return m.capacity }

// Keys 按创建顺序返回，第一个就是下一个被淘汰的。
func (m *Manager) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.order...)
}

// Snapshot 按创建顺序返回当前所有记忆。
func (m *Manager) Snapshot() []*History {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*History, 0, len(m.order))
	for _, key := range m.order {
		out = append(out, m.games[key])
	}
	return out
}
