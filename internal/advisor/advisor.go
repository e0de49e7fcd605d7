// Package advisor turns a FEN and a difficulty tier into the position after
// the engine's move, keeping per-game repetition memory across requests.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"chessbot/internal/engine"
	"chessbot/internal/rules"
	"chessbot/internal/server/game"
	"chessbot/internal/store"
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrNoLegalMove    = errors.New("no legal move")
)

const (
	StatusOK      = "ok"
	StatusNoMoves = "no_moves"
)

type Request struct {
	FEN        string
	Difficulty string

	// OnDepth 收到每一层迭代加深的结果，可为 nil
	OnDepth func(engine.DepthInfo)
}

type Reply struct {
	FEN        string // 走完之后的局面；没有着法时是输入局面
	Move       string // UCI
	SAN        string
	Score      int
	Depth      int
	Nodes      int64
	Elapsed    time.Duration
	Status     string
	GameKey    string
	Difficulty string
	DecisionID string // 写入 journal 时才有
}

type Advisor struct {
	engine   *engine.Engine
	sessions *game.Manager
	budgets  engine.Difficulties
	journal  *store.Journal
	log      zerolog.Logger
}

type Option func(*Advisor)

func WithJournal(j *store.Journal) Option {
	return func(a *Advisor) { a.journal = j }
}

func WithLogger(l zerolog.Logger) Option {
	return func(a *Advisor) { a.log = l }
}

func WithDifficulties(d engine.Difficulties) Option {
	return func(a *Advisor) {
		if d != nil {
			a.budgets = d
		}
	}
}

func New(e *engine.Engine, sessions *game.Manager, opts ...Option) *Advisor {
	a := &Advisor{
		engine:   e,
		sessions: sessions,
		budgets:  engine.DefaultDifficulties(),
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Advisor) Sessions() *game.Manager { return a.sessions }

func (a *Advisor) Journal() *store.Journal { return a.journal }

// Reply 记录输入局面，搜索，走子，再记录结果局面。同一局（同一 game key）
// 的请求在整个过程中串行。
func (a *Advisor) Reply(ctx context.Context, req Request) (Reply, error) {
	if strings.TrimSpace(req.FEN) == "" {
		return Reply{}, fmt.Errorf("%w: missing fen", ErrInvalidRequest)
	}
	b, err := rules.Decode(req.FEN)
	if err != nil {
		return Reply{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = engine.DefaultDifficulty
	}
	budget := a.budgets.Lookup(difficulty)

	fenIn := b.Encode()
	key := b.GameKey()
	log := a.log.With().Str("game_key", key).Str("difficulty", difficulty).Logger()

	hist := a.sessions.Acquire(key)
	hist.Lock()
	defer hist.Unlock()

	hist.Add(fenIn)

	cfg := budget.Config()
	cfg.OnDepth = func(d engine.DepthInfo) {
		log.Debug().
			Int("depth", d.Depth).
			Str("move", d.Move.String()).
			Int("score", d.Score).
			Int64("nodes", d.Nodes).
			Bool("complete", d.Complete).
			Dur("elapsed", d.Elapsed).
			Msg("depth-done")
		if req.OnDepth != nil {
			req.OnDepth(d)
		}
	}

	cfg.Cancelled = func() bool { return ctx.Err() != nil }

	res := a.engine.Search(b, cfg, hist)
	if err := ctx.Err(); err != nil {
		// 调用方已经走了：不落子，不记录结果局面，不写 journal
		log.Info().Err(err).Int("depth", res.Depth).Msg("abandoned")
		return Reply{}, err
	}

	reply := Reply{
		FEN:        fenIn,
		Score:      res.Score,
		Depth:      res.Depth,
		Nodes:      res.Nodes,
		Elapsed:    res.TimeUsed,
		GameKey:    key,
		Difficulty: difficulty,
	}
	if res.BestMove == nil {
		reply.Status = StatusNoMoves
		log.Info().Str("status", b.Status().String()).Dur("elapsed", res.TimeUsed).Msg("no-move")
		return reply, ErrNoLegalMove
	}

	reply.Move = res.BestMove.String()
	reply.SAN = b.SAN(res.BestMove)
	b.Push(res.BestMove)
	reply.FEN = b.Encode()
	reply.Status = StatusOK
	hist.Add(reply.FEN)

	if a.journal != nil {
		d, err := a.journal.Record(ctx, store.Decision{
			GameKey:    key,
			FENIn:      fenIn,
			FENOut:     reply.FEN,
			Move:       reply.Move,
			Difficulty: difficulty,
			Depth:      reply.Depth,
			Score:      reply.Score,
			Nodes:      reply.Nodes,
			ElapsedMs:  reply.Elapsed.Milliseconds(),
		})
		if err != nil {
			// 落盘失败不影响这一步棋
			log.Warn().Err(err).Msg("journal-record")
		} else {
			reply.DecisionID = d.ID
		}
	}

	log.Info().
		Str("move", reply.Move).
		Str("san", reply.SAN).
		Int("score", reply.Score).
		Int("depth", reply.Depth).
		Int64("nodes", reply.Nodes).
		Dur("elapsed", reply.Elapsed).
		Msg("best-move")
	return reply, nil
}
