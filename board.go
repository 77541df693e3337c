package main

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
)

type chessState [64]uint8

// chessError marks a corrupted model. It is raised with panic, never returned.
type chessError struct {
	err error
}

func newChessError(format string, args ...interface{}) *chessError {
	return &chessError{err: errors.Errorf(format, args...)}
}

func (e *chessError) Error() string {
	return e.err.Error()
}

func (e *chessError) Unwrap() error {
	return e.err
}

// Castling rights, indexed by color then side.
const (
	queenside = 0
	kingside  = 1
)

// Board board.
type Board struct {
	squares chessState

	castling [2][2]bool
	check    [2]bool
	kings    [2]int
	// bishops counts bishops per color on dark (0) and light (1) squares.
	bishops [2][2]int

	history []Move
	hashes  []uint64
	plies   int

	drawOffered bool
	result      uint8

	observers []func(*Board)
	muted     bool
}

func newBoard() *Board {
	board := &Board{}
	board.Reset()
	return board
}

// Reset restores the standard starting position. Observers are kept.
func (board *Board) Reset() {
	board.squares = initialBoard
	board.castling = [2][2]bool{{true, true}, {true, true}}
	board.check = [2]bool{}
	board.kings = [2]int{4, 60}
	board.bishops = [2][2]int{{1, 1}, {1, 1}}
	board.history = nil
	board.hashes = []uint64{board.Hash()}
	board.plies = 0
	board.drawOffered = false
	board.result = ongoing
}

// Observe registers fn to run after every committed move and after undo.
func (board *Board) Observe(fn func(*Board)) {
	board.observers = append(board.observers, fn)
}

func (board *Board) notify() {
	if board.muted {
		return
	}
	for _, fn := range board.observers {
		fn(board)
	}
}

func (board *Board) Result() uint8 {
	return board.result
}

func (board *Board) InCheck(color uint8) bool {
	return board.check[colorIndex(color)]
}

func (board *Board) History() []Move {
	return append([]Move(nil), board.history...)
}

func (board *Board) Squares() chessState {
	return board.squares
}

// Hash identifies the piece placement.
func (board *Board) Hash() uint64 {
	return xxhash.Sum64(board.squares[:])
}

// Clone copies the squares, check flags, king locations and bishop counters.
// Everything else starts fresh and must not be relied upon.
func (board *Board) Clone() *Board {
	return &Board{
		squares: board.squares,
		check:   board.check,
		kings:   board.kings,
		bishops: board.bishops,
	}
}

func validSquare(square int) bool {
	return square >= 0 && square < 64
}

func mustSquare(square int) {
	if !validSquare(square) {
		panic(newChessError("square %d out of range", square))
	}
}

func (board *Board) applyDraw(m Move) {
	switch m.Draw {
	case drawAccept, drawFiftyMoves, drawRepetition:
		board.result = drawn
	case drawOffer:
		board.drawOffered = true
	default:
		board.drawOffered = false
	}
}

// Apply performs m. Committed moves are recorded for history, draw rules and
// observers; uncommitted moves only simulate.
func (board *Board) Apply(m Move, commit bool) {
	if m.isDraw() {
		board.applyDraw(m)
		return
	}
	mustSquare(m.From)
	mustSquare(m.To)
	color := colorOf(m.Piece)
	own := colorIndex(color)
	opp := colorIndex(flipColor(color))

	captured := empty
	if m.isCapture() {
		mustSquare(m.Capture)
		captured = board.squares[m.Capture]
		if commit && kindOf(captured) == king {
			panic(newChessError("move %s captures a king", m))
		}
	}

	board.squares[m.From] = empty
	if m.isCapture() {
		board.squares[m.Capture] = empty
	}
	placed := m.Piece
	if m.Promotion != empty {
		placed = m.Promotion | color
	}
	board.squares[m.To] = placed

	var consequence *Move
	switch kindOf(m.Piece) {
	case king:
		board.kings[own] = m.To
		board.castling[own] = [2]bool{}
		home := m.From - m.From%8
		if m.To-m.From == 2 && board.squares[home+7] == rook|color {
			c := newMove(&board.squares, rook|color, home+7, home+5)
			consequence = &c
		} else if m.From-m.To == 2 && board.squares[home] == rook|color {
			c := newMove(&board.squares, rook|color, home, home+3)
			consequence = &c
		}
	case rook:
		switch m.From {
		case rookHome(color, queenside):
			board.castling[own][queenside] = false
		case rookHome(color, kingside):
			board.castling[own][kingside] = false
		}
	}

	if m.Promotion == bishop {
		board.bishops[own][squareShade(m.To)]++
	}
	if captured != empty {
		if kindOf(captured) == bishop {
			board.bishops[opp][squareShade(m.Capture)]--
		}
		switch m.Capture {
		case rookHome(flipColor(color), queenside):
			board.castling[opp][queenside] = false
		case rookHome(flipColor(color), kingside):
			board.castling[opp][kingside] = false
		}
	}

	if consequence != nil {
		board.Apply(*consequence, false)
	}

	if commit {
		board.history = append(board.history, m)
		if m.isCapture() || kindOf(m.Piece) == pawn {
			board.plies = 0
			board.hashes = nil
		} else {
			board.plies++
			board.hashes = append(board.hashes, board.Hash())
		}
	}

	board.check[0] = isAttacked(&board.squares, board.kings[0], white)
	board.check[1] = isAttacked(&board.squares, board.kings[1], black)
	if commit {
		board.notify()
	}
}

func rookHome(color uint8, side int) int {
	home := 0
	if color == black {
		home = 56
	}
	if side == kingside {
		return home + 7
	}
	return home
}

// squareShade is 0 for dark and 1 for light squares.
func squareShade(square int) int {
	if squareColor(square) == black {
		return 0
	}
	return 1
}

// Undo takes back the last two plies by replaying the rest of the history and
// returns the color to move afterwards.
func (board *Board) Undo() uint8 {
	if len(board.history) < 2 {
		panic(newChessError("undo needs two plies, history has %d", len(board.history)))
	}
	color := flipColor(board.history[len(board.history)-1].color())
	replay := board.history[:len(board.history)-2]
	board.Reset()
	board.muted = true
	for _, m := range replay {
		board.Apply(m, true)
	}
	board.muted = false
	board.notify()
	return color
}

// repeated reports whether any position occurs three times since the last
// capture or pawn move.
func (board *Board) repeated() bool {
	seen := make(map[uint64]int, len(board.hashes))
	for _, h := range board.hashes {
		seen[h]++
		if seen[h] >= repetitionCount {
			return true
		}
	}
	return false
}

func (board *Board) String() string {
	return fmt.Sprintf("%s\n%s", board.squares, resultNames[board.result])
}
