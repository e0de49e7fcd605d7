package engine

import "time"

// Clock 供迭代加深取时间；测试里换成假时钟
type Clock interface {
	Now() time.Time
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

// History 是某一局已出现局面（完整 FEN）的只读视图
type History interface {
	Contains(fingerprint string) bool
}

// Engine 本身无搜索状态，可以被多个请求共用；
// 每次 Search 的节点计数等放在 searcher 里。
type Engine struct {
	clock Clock
}

type Option func(*Engine)

func WithClock(c Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{clock: wallClock{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
