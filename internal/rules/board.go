package rules

import "github.com/notnil/chess"

// Board 是搜索用的可变局面：底层是不可变的 *chess.Position 栈，
// Push/Pop 只移动栈顶，因此 Pop 之后的局面与 Push 之前逐字节相同。
type Board struct {
	stack []*chess.Position
}

func NewBoard(pos *chess.Position) *Board {
	stack := make([]*chess.Position, 1, 16)
	stack[0] = pos
	return &Board{stack: stack}
}

// Position returns the current (top of stack) position.
func (b *Board) Position() *chess.Position {
	return b.stack[len(b.stack)-1]
}

// Ply is the number of moves pushed on top of the root position.
func (b *Board) Ply() int { return len(b.stack) - 1 }

func (b *Board) Push(m *chess.Move) {
	b.stack = append(b.stack, b.Position().Update(m))
}

func (b *Board) Pop() {
	n := len(b.stack)
	if n == 1 {
		panic("rules: pop past the root position")
	}
	b.stack[n-1] = nil
	b.stack = b.stack[:n-1]
}

// With plays m, runs fn and takes m back on every exit path, panics included.
func (b *Board) With(m *chess.Move, fn func()) {
	b.Push(m)
	defer b.Pop()
	fn()
}

// Moves lists the legal moves in generator order.
func (b *Board) Moves() []*chess.Move {
	return b.Position().ValidMoves()
}

func (b *Board) Turn() chess.Color { return b.Position().Turn() }

// CanCastle reports castling rights only, not whether castling is legal now.
func (b *Board) CanCastle(c chess.Color, side chess.Side) bool {
	return b.Position().CastleRights().CanCastle(c, side)
}

// Encode returns the full FEN of the current position.
func (b *Board) Encode() string { return b.Position().String() }

func (b *Board) GameKey() string { return GameKeyOf(b.Encode()) }

func (b *Board) Status() Status {
	pos := b.Position()
	switch pos.Status() {
	case chess.Checkmate:
		return Checkmate
	case chess.Stalemate:
		return Stalemate
	}
	if insufficientMaterial(pos.Board()) {
		return InsufficientMaterial
	}
	if pos.HalfMoveClock() >= 150 {
		return SeventyFiveMoves
	}
	return Ongoing
}

// SAN encodes m in algebraic notation relative to the current position.
func (b *Board) SAN(m *chess.Move) string {
	return chess.AlgebraicNotation{}.Encode(b.Position(), m)
}

// Find returns the legal move whose UCI string is uci.
func (b *Board) Find(uci string) (*chess.Move, bool) {
	for _, m := range b.Moves() {
		if m.String() == uci {
			return m, true
		}
	}
	return nil, false
}
