package main

import (
	"fmt"

	"chessbot/internal/engine"
	"chessbot/internal/rules"
)

var benchPositions = []struct {
	Name string
	FEN  string
}{
	{"start", rules.StartFEN},
	{"italian", "r1bqk1nr/pppp1ppp/2n5/2b1p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 4 4"},
	{"middlegame", "r2q1rk1/pp2bppp/2n1pn2/3p4/3P4/2NBPN2/PP3PPP/R2Q1RK1 w - - 0 10"},
	{"rook-ending", "8/5pk1/6p1/8/3R4/6P1/5PK1/3r4 w - - 0 40"},
}

// runBenchmark 在固定局面上做不限时的定深搜索，打印节点数和 NPS。
func runBenchmark(e *engine.Engine, depth int) {
	var totalNodes int64
	var totalMs int64
	for _, p := range benchPositions {
		b, err := rules.Decode(p.FEN)
		if err != nil {
			fmt.Printf("%-12s bad fen: %v\n", p.Name, err)
			continue
		}
		res := e.Search(b, engine.SearchConfig{MaxDepth: depth, TimeLimit: engine.NoTimeLimit}, nil)
		ms := res.TimeUsed.Milliseconds()
		move := "-"
		if res.BestMove != nil {
			move = b.SAN(res.BestMove)
		}
		fmt.Printf("%-12s depth=%d best=%-6s score=%6d nodes=%9d time=%6dms nps=%d\n",
			p.Name, res.Depth, move, res.Score, res.Nodes, ms, nps(res.Nodes, ms))
		totalNodes += res.Nodes
		totalMs += ms
	}
	fmt.Printf("%-12s nodes=%d time=%dms nps=%d\n", "total", totalNodes, totalMs, nps(totalNodes, totalMs))
}

func nps(nodes, ms int64) int64 {
	if ms <= 0 {
		return nodes * 1000
	}
	return nodes * 1000 / ms
}
