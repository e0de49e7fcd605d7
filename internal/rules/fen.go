package rules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/notnil/chess"
)

// StartFEN 是标准初始局面
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var ErrInvalidEncoding = errors.New("invalid board encoding")

// Decode 解析 FEN。缺少半回合/回合计数的四段 FEN 按 "0 1" 补齐。
func Decode(fen string) (*Board, error) {
	fields := strings.Fields(fen)
	switch len(fields) {
	case 4:
		fields = append(fields, "0", "1")
	case 6:
	default:
		return nil, fmt.Errorf("%w: want 4 or 6 fields, got %d", ErrInvalidEncoding, len(fields))
	}

	opt, err := chess.FEN(strings.Join(fields, " "))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	return NewBoard(chess.NewGame(opt).Position()), nil
}

func NewInitialBoard() *Board {
	b, err := Decode(StartFEN)
	if err != nil {
		panic("rules: start position does not decode: " + err.Error())
	}
	return b
}

// GameKeyOf returns the piece-placement field of a FEN. Side to move,
// castling/en-passant rights and counters are ignored.
func GameKeyOf(fen string) string {
	fen = strings.TrimSpace(fen)
	if i := strings.IndexByte(fen, ' '); i >= 0 {
		return fen[:i]
	}
	return fen
}
