package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/notnil/chess"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"chessbot/internal/advisor"
	"chessbot/internal/config"
	"chessbot/internal/engine"
	"chessbot/internal/rules"
	"chessbot/internal/server/game"
)

type outcome int

const (
	whiteWins outcome = iota
	blackWins
	draw
	unfinished
)

func main() {
	white := flag.String("white", "easy", "difficulty tier for White")
	black := flag.String("black", "medium", "difficulty tier for Black")
	totalGames := flag.Int("games", 2, "number of games to play")
	parallel := flag.Int("parallel", 2, "games played at once (all share one session cache)")
	maxPlies := flag.Int("maxplies", 200, "stop a game after this many plies")
	startFEN := flag.String("fen", rules.StartFEN, "starting position")
	bench := flag.Bool("bench", false, "run the fixed-depth benchmark instead of games")
	benchDepth := flag.Int("bench-depth", 4, "benchmark search depth")
	logLevel := flag.String("log-level", "info", "debug / info / warn / error")
	flag.Parse()

	log, err := config.NewLogger(os.Stderr, *logLevel, false)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	e := engine.NewEngine()
	if *bench {
		runBenchmark(e, *benchDepth)
		return
	}

	// advisor 自己的日志太细，只保留 warn 以上
	a := advisor.New(e, game.NewManager(game.DefaultCapacity), advisor.WithLogger(log.Level(zerolog.WarnLevel)))

	results := make([]outcome, *totalGames)
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(max(*parallel, 1))
	for i := range results {
		i := i
		g.Go(func() error {
			players := [2]string{*white, *black}
			res, plies, err := playGame(ctx, a, *startFEN, players, *maxPlies)
			if err != nil {
				return fmt.Errorf("game %d: %w", i+1, err)
			}
			results[i] = res
			log.Info().Int("game", i+1).Int("plies", plies).Str("result", res.String()).Msg("game-over")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("selfplay")
	}

	var tally [4]int
	for _, r := range results {
		tally[r]++
	}
	fmt.Printf("\n=== Final Score ===\n")
	fmt.Printf("White [%s]: %d\n", *white, tally[whiteWins])
	fmt.Printf("Black [%s]: %d\n", *black, tally[blackWins])
	fmt.Printf("Draws: %d\n", tally[draw])
	fmt.Printf("Unfinished: %d\n", tally[unfinished])
	fmt.Printf("Sessions cached: %d\n", a.Sessions().Len())
}

// playGame 让两个难度轮流通过 advisor 走子，直到终局或超出步数。
func playGame(ctx context.Context, a *advisor.Advisor, fen string, players [2]string, maxPlies int) (outcome, int, error) {
	for ply := 0; ply < maxPlies; ply++ {
		b, err := rules.Decode(fen)
		if err != nil {
			return unfinished, ply, err
		}
		switch st := b.Status(); {
		case st == rules.Checkmate:
			if b.Turn() == chess.White {
				return blackWins, ply, nil
			}
			return whiteWins, ply, nil
		case st.Terminal():
			return draw, ply, nil
		}

		tier := players[0]
		if b.Turn() == chess.Black {
			tier = players[1]
		}
		reply, err := a.Reply(ctx, advisor.Request{FEN: fen, Difficulty: tier})
		if errors.Is(err, advisor.ErrNoLegalMove) {
			return draw, ply, nil
		}
		if err != nil {
			return unfinished, ply, err
		}
		fmt.Printf("%3d. %-6s score=%6d depth=%d nodes=%d time=%v\n",
			ply+1, reply.SAN, reply.Score, reply.Depth, reply.Nodes, reply.Elapsed)
		fen = reply.FEN
	}
	return unfinished, maxPlies, nil
}

func (o outcome) String() string {
	switch o {
	case whiteWins:
		return "1-0"
	case blackWins:
		return "0-1"
	case draw:
		return "1/2-1/2"
	default:
		return "*"
	}
}
