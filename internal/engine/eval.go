package engine

import (
	"github.com/notnil/chess"

	"chessbot/internal/rules"
)

const (
	MateScore         = 10000
	RepetitionPenalty = 500

	centerBonus        = 30
	rookOpenFileBonus  = 50
	knightOutpostBonus = 40
	castlingRightBonus = 50
)

var pieceValue = map[chess.PieceType]int{
	chess.Pawn:   100,
	chess.Knight: 320,
	chess.Bishop: 330,
	chess.Rook:   500,
	chess.Queen:  900,
	chess.King:   20000,
}

var centerSquares = [...]chess.Square{chess.D4, chess.E4, chess.D5, chess.E5}

// Evaluate 从白方视角打分：正数白方好，负数黑方好，与轮到谁走无关。
// h 为 nil 时不做重复局面惩罚。
func (e *Engine) Evaluate(b *rules.Board, h History) int {
	return evaluate(b, b.Status(), h)
}

func evaluate(b *rules.Board, st rules.Status, h History) int {
	if st == rules.Checkmate {
		// 轮到白方且被将死 -> 白方输
		if b.Turn() == chess.White {
			return -MateScore
		}
		return MateScore
	}
	if st.Drawn() {
		return 0
	}

	bd := b.Position().Board()
	probe := outpostProbe{b: b, bd: bd}
	score := 0

	for sq := chess.A1; sq <= chess.H8; sq++ {
		pc := bd.Piece(sq)
		if pc == chess.NoPiece {
			continue
		}

		val := pieceValue[pc.Type()]
		if isCenter(sq) {
			val += centerBonus
		}
		switch pc.Type() {
		case chess.Rook:
			if isOpenFile(bd, sq.File()) {
				val += rookOpenFileBonus
			}
		case chess.Knight:
			if probe.isOutpost(sq, pc.Color()) {
				val += knightOutpostBonus
			}
		}

		if pc.Color() == chess.White {
			score += val
		} else {
			score -= val
		}
	}

	score += castlingRightsScore(b)

	if h != nil && h.Contains(b.Encode()) {
		score -= RepetitionPenalty
	}
	return score
}

func isCenter(sq chess.Square) bool {
	for _, c := range centerSquares {
		if sq == c {
			return true
		}
	}
	return false
}

// 该列上没有任何一方的兵
func isOpenFile(bd *chess.Board, file chess.File) bool {
	for rank := 0; rank < 8; rank++ {
		sq, _ := rules.Square(int(file), rank)
		if bd.Piece(sq).Type() == chess.Pawn {
			return false
		}
	}
	return true
}

// 只看易位权，不看当下能否易位
func castlingRightsScore(b *rules.Board) int {
	score := 0
	for _, side := range []chess.Side{chess.KingSide, chess.QueenSide} {
		if b.CanCastle(chess.White, side) {
			score += castlingRightBonus
		}
		if b.CanCastle(chess.Black, side) {
			score -= castlingRightBonus
		}
	}
	return score
}

// outpostProbe 懒计算“走子方兵的合法落点”，一次评估里只生成一次着法。
type outpostProbe struct {
	b       *rules.Board
	bd      *chess.Board
	ready   bool
	targets [64]bool
}

// isOutpost: 走子方有一步兵的合法着法落在该格上，且敌方兵不在
// 能吃到该格的两个斜前方格上。只看当前局面，不往下算。
func (p *outpostProbe) isOutpost(sq chess.Square, owner chess.Color) bool {
	if !p.pawnCanReach(sq) {
		return false
	}

	enemy := owner.Other()
	dr := -1
	if enemy == chess.White {
		dr = 1
	}
	file, rank := int(sq.File()), int(sq.Rank())
	for _, df := range [...]int{-1, 1} {
		at, ok := rules.Square(file+df, rank+dr)
		if !ok {
			continue
		}
		pc := p.bd.Piece(at)
		if pc.Type() == chess.Pawn && pc.Color() == enemy {
			return false
		}
	}
	return true
}

func (p *outpostProbe) pawnCanReach(sq chess.Square) bool {
	if !p.ready {
		for _, m := range p.b.Moves() {
			if p.bd.Piece(m.S1()).Type() == chess.Pawn {
				p.targets[m.S2()] = true
			}
		}
		p.ready = true
	}
	return p.targets[sq]
}
