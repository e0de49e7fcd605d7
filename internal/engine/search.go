package engine

import (
	"time"

	"github.com/notnil/chess"

	"chessbot/internal/rules"
)

const (
	// 一个足够大的值，当成正负无穷
	scoreInf = 1_000_000_000

	// NoTimeLimit 关闭时间检查，只按深度停
	NoTimeLimit time.Duration = -1
)

// 搜索配置
type SearchConfig struct {
	MaxDepth  int           // 最大搜索深度（ply）
	TimeLimit time.Duration // 时间上限；0 表示立刻超时，NoTimeLimit 表示不限制

	// OnDepth 在每一层产出着法后调用（搜索线程同步调用）
	OnDepth func(DepthInfo)

	// Cancelled 与超时检查在同样的位置调用，返回 true 时按超时处理
	Cancelled func() bool
}

type DepthInfo struct {
	Depth    int
	Move     *chess.Move
	Score    int
	Nodes    int64
	Elapsed  time.Duration
	Complete bool // false: 这一层因超时只算了部分根着法
}

// 搜索结果
type SearchResult struct {
	BestMove *chess.Move   // nil 表示没有可用着法
	Score    int           // 白方视角
	Depth    int           // 产出 BestMove 的深度
	Complete bool          // 该深度的根着法是否全部算完
	Nodes    int64         // 节点数
	TimeUsed time.Duration // 花费时间
}

type searcher struct {
	hist  History
	nodes int64
}

// Search 迭代加深：depth 从 1 到 MaxDepth。每层开始前、每个根着法之前检查时间，
// 递归内部不检查。某层只要算完至少一个根着法，其结果就覆盖更浅层的结果。
// 根节点取极大，子节点从极小层开始。
func (e *Engine) Search(b *rules.Board, cfg SearchConfig, h History) SearchResult {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = 1
	}

	s := &searcher{hist: h}
	start := e.clock.Now()
	last := start
	expired := func() bool {
		last = e.clock.Now()
		if cfg.Cancelled != nil && cfg.Cancelled() {
			return true
		}
		return cfg.TimeLimit >= 0 && last.Sub(start) > cfg.TimeLimit
	}

	var res SearchResult
	for depth := 1; depth <= cfg.MaxDepth; depth++ {
		if expired() {
			break
		}

		var bestMove *chess.Move
		bestScore := -scoreInf
		complete := true

		for _, mv := range b.Moves() {
			if expired() {
				complete = false
				break
			}
			var score int
			b.With(mv, func() {
				score = s.alphaBeta(b, depth-1, -scoreInf, scoreInf, false)
			})
			if score > bestScore {
				bestScore = score
				bestMove = mv
			}
		}

		if bestMove == nil {
			continue
		}
		res.BestMove = bestMove
		res.Score = bestScore
		res.Depth = depth
		res.Complete = complete

		if cfg.OnDepth != nil {
			cfg.OnDepth(DepthInfo{
				Depth:    depth,
				Move:     bestMove,
				Score:    bestScore,
				Nodes:    s.nodes,
				Elapsed:  last.Sub(start),
				Complete: complete,
			})
		}
	}

	res.Nodes = s.nodes
	res.TimeUsed = e.clock.Now().Sub(start)
	return res
}

// 标准 alpha-beta，着法按生成顺序，不排序，不查 TT。
func (s *searcher) alphaBeta(b *rules.Board, depth, alpha, beta int, maximizing bool) int {
	s.nodes++

	st := b.Status()
	if depth == 0 || st.Terminal() {
		return evaluate(b, st, s.hist)
	}

	if maximizing {
		best := -scoreInf
		for _, mv := range b.Moves() {
			var score int
			b.With(mv, func() {
				score = s.alphaBeta(b, depth-1, alpha, beta, false)
			})
			best = max(best, score)
			alpha = max(alpha, score)
			if beta <= alpha {
				break
			}
		}
		return best
	}

	best := scoreInf
	for _, mv := range b.Moves() {
		var score int
		b.With(mv, func() {
			score = s.alphaBeta(b, depth-1, alpha, beta, true)
		})
		best = min(best, score)
		beta = min(beta, score)
		if beta <= alpha {
			break
		}
	}
	return best
}
