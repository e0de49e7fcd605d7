package rules

import "github.com/notnil/chess"

// Status 是局面的终局状态
type Status int8

const (
	Ongoing Status = iota
	Checkmate
	Stalemate
	InsufficientMaterial
	SeventyFiveMoves
)

func (s Status) String() string {
	switch s {
	case Ongoing:
		return "ongoing"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case InsufficientMaterial:
		return "insufficient_material"
	case SeventyFiveMoves:
		return "seventy_five_moves"
	default:
		return "unknown"
	}
}

// Terminal reports whether the game is over in this position.
func (s Status) Terminal() bool { return s != Ongoing }

// Drawn reports the draws the evaluator scores as zero.
// The 75-move rule ends the search but is not one of them.
func (s Status) Drawn() bool {
	return s == Stalemate || s == InsufficientMaterial
}

// Square builds a square from 0-based file/rank. ok is false off the board.
func Square(file, rank int) (chess.Square, bool) {
	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return chess.NoSquare, false
	}
	return chess.Square(rank*8 + file), true
}
