package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"chessbot/internal/engine"
	"chessbot/internal/rules"
)

func main() {
	fen := flag.String("fen", rules.StartFEN, "position to inspect")
	depth := flag.Int("depth", 0, "if > 0, also run a fixed-depth search")
	flag.Parse()

	b, err := rules.Decode(*fen)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	e := engine.NewEngine()

	fmt.Println("FEN:     ", b.Encode())
	fmt.Println("Game key:", b.GameKey())
	fmt.Println("Status:  ", b.Status())
	fmt.Println("Eval:    ", e.Evaluate(b, nil))

	moves := b.Moves()
	san := make([]string, 0, len(moves))
	for _, m := range moves {
		san = append(san, b.SAN(m))
	}
	fmt.Printf("Legal moves (%d): %s\n", len(moves), strings.Join(san, " "))

	if *depth > 0 {
		res := e.Search(b, engine.SearchConfig{MaxDepth: *depth, TimeLimit: engine.NoTimeLimit}, nil)
		if res.BestMove == nil {
			fmt.Println("Best:     none")
			return
		}
		fmt.Printf("Best:     %s (%s) score=%d depth=%d nodes=%d time=%v\n",
			b.SAN(res.BestMove), res.BestMove, res.Score, res.Depth, res.Nodes, res.TimeUsed)
	}
}
