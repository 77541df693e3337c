package main

// Draw protocol kinds carried by pseudo-moves.
const (
	drawNone uint8 = iota
	drawOffer
	drawAccept
	drawReject
	drawFiftyMoves
	drawRepetition
)

const noSquare = -1

// Move is one ply. A move whose Draw field is not drawNone belongs to the draw
// protocol and leaves the squares untouched.
type Move struct {
	Piece     uint8
	From      int
	To        int
	Capture   int
	Promotion uint8
	Draw      uint8
}

func newMove(squares *chessState, piece uint8, from, to int) Move {
	m := Move{Piece: piece, From: from, To: to, Capture: noSquare}
	if squares[to] != empty {
		m.Capture = to
	}
	return m
}

func newDrawMove(kind uint8) Move {
	return Move{From: noSquare, To: noSquare, Capture: noSquare, Draw: kind}
}

func (m Move) isDraw() bool {
	return m.Draw != drawNone
}

// unrejectable reports whether the move ends the game as a draw without an answer.
func (m Move) unrejectable() bool {
	return m.Draw == drawFiftyMoves || m.Draw == drawRepetition
}

func (m Move) isCapture() bool {
	return m.Capture != noSquare
}

func (m Move) color() uint8 {
	return colorOf(m.Piece)
}

// moveList rejects structural duplicates.
type moveList []Move

func (moves *moveList) add(m Move) {
	for _, other := range *moves {
		if other == m {
			panic(newChessError("move %s already listed", m))
		}
	}
	*moves = append(*moves, m)
}
