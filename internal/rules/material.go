package rules

import "github.com/notnil/chess"

type material struct {
	pieces  int // 含王
	pawns   int
	knights int
	bishops int
	heavy   int // 车 + 后
	queens  int
}

// insufficientMaterial: 双方都无法将死对方时为真。
func insufficientMaterial(bd *chess.Board) bool {
	var side [3]material // 按 chess.Color 下标
	lightBishops, darkBishops := 0, 0

	for sq := chess.A1; sq <= chess.H8; sq++ {
		pc := bd.Piece(sq)
		if pc == chess.NoPiece {
			continue
		}
		m := &side[pc.Color()]
		m.pieces++
		switch pc.Type() {
		case chess.Pawn:
			m.pawns++
		case chess.Knight:
			m.knights++
		case chess.Bishop:
			m.bishops++
			if (int(sq.File())+int(sq.Rank()))%2 == 1 {
				lightBishops++
			} else {
				darkBishops++
			}
		case chess.Rook:
			m.heavy++
		case chess.Queen:
			m.heavy++
			m.queens++
		}
	}

	anyPawns := side[chess.White].pawns+side[chess.Black].pawns > 0
	anyKnights := side[chess.White].knights+side[chess.Black].knights > 0
	sameColorBishops := lightBishops == 0 || darkBishops == 0

	cannotMate := func(us, them material) bool {
		if us.pawns > 0 || us.heavy > 0 {
			return false
		}
		if us.knights > 0 {
			// 单马只有在对方除王、后外没有子时才算不够
			return us.pieces <= 2 && them.pieces-1-them.queens == 0
		}
		if us.bishops > 0 {
			return sameColorBishops && !anyPawns && !anyKnights
		}
		return true
	}
	return cannotMate(side[chess.White], side[chess.Black]) &&
		cannotMate(side[chess.Black], side[chess.White])
}
