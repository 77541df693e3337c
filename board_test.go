package main

import (
	. "gopkg.in/check.v1"
)

type BoardSuite struct{}

var _ = Suite(&BoardSuite{})

// positionBoard sets up pieces on an otherwise empty board without castling
// rights.
func positionBoard(c *C, pieces map[string]uint8) *Board {
	board := newBoard()
	board.squares = chessState{}
	board.castling = [2][2]bool{}
	board.bishops = [2][2]int{}
	for coord, piece := range pieces {
		square, err := parseCoord(coord)
		c.Assert(err, IsNil)
		board.squares[square] = piece
		switch kindOf(piece) {
		case king:
			board.kings[colorIndex(colorOf(piece))] = square
		case bishop:
			board.bishops[colorIndex(colorOf(piece))][squareShade(square)]++
		}
	}
	board.check[0] = isAttacked(&board.squares, board.kings[0], white)
	board.check[1] = isAttacked(&board.squares, board.kings[1], black)
	board.hashes = []uint64{board.Hash()}
	return board
}

// playLine commits each named move in turn starting with color and returns
// the color to move afterwards.
func playLine(c *C, board *Board, color uint8, line ...string) uint8 {
	for _, name := range line {
		m, err := findMove(board.AllLegalMoves(color), name)
		c.Assert(err, IsNil, Commentf("%s to play %s\n%s", colorName(color), name, board))
		board.Apply(m, true)
		color = flipColor(color)
	}
	return color
}

func moveNames(moves []Move) []string {
	names := make([]string, 0, len(moves))
	for _, m := range moves {
		names = append(names, m.String())
	}
	return names
}

func containsMove(moves []Move, name string) bool {
	_, err := findMove(moves, name)
	return err == nil
}

func (s *BoardSuite) TestInitialMoves(c *C) {
	board := newBoard()
	moves := board.AllLegalMoves(white)
	c.Assert(moves, HasLen, 21)
	c.Assert(moves[20].Draw, Equals, drawOffer)
	c.Assert(boardMoves(moves), HasLen, 20)
	c.Assert(board.Result(), Equals, ongoing)
	c.Assert(containsMove(moves, "Pe2-e4"), Equals, true)
	c.Assert(containsMove(moves, "Ng1-f3"), Equals, true)
	c.Assert(containsMove(moves, "Ke1-e2"), Equals, false)
	c.Assert(board.AllLegalMoves(black), HasLen, 21)
}

func (s *BoardSuite) TestFoolsMate(c *C) {
	board := newBoard()
	color := playLine(c, board, white, "Pf2-f3", "Pe7-e5", "Pg2-g4", "Qd8-h4")
	c.Assert(color, Equals, white)
	c.Assert(board.InCheck(white), Equals, true)
	c.Assert(board.InCheck(black), Equals, false)
	c.Assert(board.AllLegalMoves(white), HasLen, 0)
	c.Assert(board.Result(), Equals, whiteMated)
}

func (s *BoardSuite) TestStalemate(c *C) {
	board := positionBoard(c, map[string]uint8{
		"a8": king | black,
		"b6": queen,
		"h1": king,
	})
	c.Assert(board.InCheck(black), Equals, false)
	c.Assert(board.AllLegalMoves(black), HasLen, 0)
	c.Assert(board.Result(), Equals, blackStalemated)
}

func (s *BoardSuite) TestUndo(c *C) {
	board := newBoard()
	playLine(c, board, white, "Pe2-e4", "Pe7-e5", "Ng1-f3")
	c.Assert(board.Undo(), Equals, black)
	c.Assert(board.History(), HasLen, 1)

	expected := newBoard()
	playLine(c, expected, white, "Pe2-e4")
	c.Assert(board.Squares(), Equals, expected.Squares())
	c.Assert(board.Hash(), Equals, expected.Hash())
	c.Assert(board.castling, Equals, expected.castling)
}

func (s *BoardSuite) TestUndoNotifiesOnce(c *C) {
	board := newBoard()
	calls := 0
	board.Observe(func(*Board) { calls++ })
	playLine(c, board, white, "Pe2-e4", "Pe7-e5", "Ng1-f3", "Nb8-c6")
	c.Assert(calls, Equals, 4)
	c.Assert(board.Undo(), Equals, white)
	c.Assert(calls, Equals, 5)
}

func (s *BoardSuite) TestUndoTooShort(c *C) {
	board := newBoard()
	c.Assert(func() { board.Undo() }, PanicMatches, `undo needs two plies.*`)
	playLine(c, board, white, "Pe2-e4")
	c.Assert(func() { board.Undo() }, PanicMatches, `undo needs two plies.*`)
}

func (s *BoardSuite) TestClone(c *C) {
	board := newBoard()
	playLine(c, board, white, "Pe2-e4")
	clone := board.Clone()
	c.Assert(clone.Squares(), Equals, board.Squares())
	c.Assert(clone.kings, Equals, board.kings)
	c.Assert(clone.bishops, Equals, board.bishops)
	c.Assert(clone.History(), HasLen, 0)

	m, err := findMove(clone.movesForBoard(black), "Pd7-d5")
	c.Assert(err, IsNil)
	clone.Apply(m, false)
	c.Assert(clone.Squares(), Not(Equals), board.Squares())
	c.Assert(board.squares[51], Equals, pawn|black)
}

func (s *BoardSuite) TestCastlingKingside(c *C) {
	board := positionBoard(c, map[string]uint8{
		"e1": king,
		"h1": rook,
		"a1": rook,
		"e8": king | black,
	})
	board.castling[0] = [2]bool{true, true}
	moves := board.AllLegalMoves(white)
	c.Assert(containsMove(moves, "Ke1-g1"), Equals, true)
	c.Assert(containsMove(moves, "Ke1-c1"), Equals, true)

	playLine(c, board, white, "Ke1-g1")
	c.Assert(board.squares[6], Equals, king)
	c.Assert(board.squares[5], Equals, rook)
	c.Assert(board.squares[7], Equals, empty)
	c.Assert(board.squares[4], Equals, empty)
	c.Assert(board.kings[0], Equals, 6)
	c.Assert(board.castling[0], Equals, [2]bool{false, false})
	c.Assert(board.hashes[len(board.hashes)-1], Equals, board.Hash())
	c.Assert(board.History(), HasLen, 1)
}

func (s *BoardSuite) TestCastlingQueenside(c *C) {
	board := positionBoard(c, map[string]uint8{
		"e8": king | black,
		"a8": rook | black,
		"e1": king,
	})
	board.castling[1] = [2]bool{true, false}
	playLine(c, board, black, "Ke8-c8")
	c.Assert(board.squares[58], Equals, king|black)
	c.Assert(board.squares[59], Equals, rook|black)
	c.Assert(board.squares[56], Equals, empty)
}

func (s *BoardSuite) TestCastlingThroughCheck(c *C) {
	board := positionBoard(c, map[string]uint8{
		"e1": king,
		"h1": rook,
		"e8": king | black,
		"f8": rook | black,
	})
	board.castling[0] = [2]bool{false, true}
	c.Assert(containsMove(board.AllLegalMoves(white), "Ke1-g1"), Equals, false)
}

func (s *BoardSuite) TestCastlingOutOfCheck(c *C) {
	board := positionBoard(c, map[string]uint8{
		"e1": king,
		"h1": rook,
		"a8": king | black,
		"e7": rook | black,
	})
	board.castling[0] = [2]bool{false, true}
	c.Assert(board.InCheck(white), Equals, true)
	c.Assert(containsMove(board.AllLegalMoves(white), "Ke1-g1"), Equals, false)
}

func (s *BoardSuite) TestRookMoveRevokesCastling(c *C) {
	board := newBoard()
	playLine(c, board, white, "Pa2-a4", "Pe7-e5", "Ra1-a3")
	c.Assert(board.castling[0], Equals, [2]bool{false, true})
	c.Assert(board.castling[1], Equals, [2]bool{true, true})
}

func (s *BoardSuite) TestRookCaptureRevokesCastling(c *C) {
	board := positionBoard(c, map[string]uint8{
		"e1": king,
		"a1": rook,
		"e8": king | black,
		"a8": rook | black,
		"h8": rook | black,
	})
	board.castling[1] = [2]bool{true, true}
	playLine(c, board, white, "Ra1xa8")
	c.Assert(board.castling[1], Equals, [2]bool{false, true})
	c.Assert(board.InCheck(black), Equals, true)
}

func (s *BoardSuite) TestEnPassant(c *C) {
	board := newBoard()
	color := playLine(c, board, white, "Pe2-e4", "Pa7-a6", "Pe4-e5", "Pd7-d5")
	moves := board.AllLegalMoves(color)
	m, err := findMove(moves, "Pe5xd6")
	c.Assert(err, IsNil)
	c.Assert(m.Capture, Equals, 35)
	board.Apply(m, true)
	c.Assert(board.squares[35], Equals, empty)
	c.Assert(board.squares[43], Equals, pawn)
	c.Assert(board.squares[36], Equals, empty)
	c.Assert(board.plies, Equals, 0)
}

func (s *BoardSuite) TestEnPassantExpires(c *C) {
	board := newBoard()
	color := playLine(c, board, white, "Pe2-e4", "Pa7-a6", "Pe4-e5", "Pd7-d5", "Pa2-a3", "Pa6-a5")
	c.Assert(containsMove(board.AllLegalMoves(color), "Pe5xd6"), Equals, false)
}

func (s *BoardSuite) TestPromotion(c *C) {
	board := positionBoard(c, map[string]uint8{
		"d1": king,
		"a7": pawn,
		"h5": king | black,
	})
	moves := board.AllLegalMoves(white)
	for _, name := range []string{"a7-a8R", "a7-a8N", "a7-a8B", "a7-a8Q"} {
		c.Assert(containsMove(moves, name), Equals, true, Commentf("%s in %v", name, moveNames(moves)))
	}
	playLine(c, board, white, "a7-a8B")
	c.Assert(board.squares[56], Equals, bishop)
	c.Assert(board.bishops[0], Equals, [2]int{0, 1})
}

func (s *BoardSuite) TestBishopCapture(c *C) {
	board := newBoard()
	c.Assert(board.bishops, Equals, [2][2]int{{1, 1}, {1, 1}})
	playLine(c, board, white, "Pe2-e4", "Pb7-b6", "Bf1-a6", "Bc8xa6")
	c.Assert(board.bishops[0], Equals, [2]int{1, 0})
	c.Assert(board.bishops[1], Equals, [2]int{1, 1})
}

func (s *BoardSuite) TestCommitCapturingKing(c *C) {
	board := positionBoard(c, map[string]uint8{
		"e1": king,
		"a1": rook,
		"a8": king | black,
	})
	m := newMove(&board.squares, rook, 0, 56)
	c.Assert(func() { board.Apply(m, true) }, PanicMatches, `.*captures a king`)
}

func (s *BoardSuite) TestDrawOffer(c *C) {
	board := newBoard()
	board.Apply(newDrawMove(drawOffer), true)
	moves := board.AllLegalMoves(black)
	c.Assert(moveNames(moves), DeepEquals, []string{"accept draw", "reject draw"})

	board.Apply(moves[1], true)
	c.Assert(board.drawOffered, Equals, false)
	c.Assert(board.Result(), Equals, ongoing)
	c.Assert(board.History(), HasLen, 0)

	board.Apply(newDrawMove(drawOffer), true)
	board.Apply(board.AllLegalMoves(white)[0], true)
	c.Assert(board.Result(), Equals, drawn)
}

func (s *BoardSuite) TestFiftyMoves(c *C) {
	board := positionBoard(c, map[string]uint8{
		"e1": king,
		"a1": rook,
		"e8": king | black,
	})
	board.plies = fiftyMovePlies - 1
	c.Assert(board.AllLegalMoves(white)[len(board.AllLegalMoves(white))-1].Draw, Equals, drawOffer)
	playLine(c, board, white, "Ra1-a2")
	moves := board.AllLegalMoves(black)
	last := moves[len(moves)-1]
	c.Assert(last.Draw, Equals, drawFiftyMoves)
	c.Assert(last.unrejectable(), Equals, true)
	for _, m := range moves {
		c.Assert(m.Draw, Not(Equals), drawOffer)
	}
	board.Apply(last, true)
	c.Assert(board.Result(), Equals, drawn)
}

func (s *BoardSuite) TestPawnMoveResetsCounter(c *C) {
	board := newBoard()
	playLine(c, board, white, "Ng1-f3", "Ng8-f6")
	c.Assert(board.plies, Equals, 2)
	c.Assert(board.hashes, HasLen, 3)
	playLine(c, board, white, "Pe2-e4")
	c.Assert(board.plies, Equals, 0)
	c.Assert(board.hashes, HasLen, 0)
}

func (s *BoardSuite) TestRepetition(c *C) {
	board := newBoard()
	shuffle := []string{"Ng1-f3", "Ng8-f6", "Nf3-g1", "Nf6-g8"}
	color := playLine(c, board, white, shuffle...)
	c.Assert(board.repeated(), Equals, false)
	color = playLine(c, board, color, shuffle...)
	c.Assert(board.repeated(), Equals, true)
	moves := board.AllLegalMoves(color)
	c.Assert(moves[len(moves)-1].Draw, Equals, drawRepetition)
	c.Assert(moves[len(moves)-2].Draw, Equals, drawOffer)
}

func (s *BoardSuite) TestReset(c *C) {
	board := newBoard()
	playLine(c, board, white, "Pf2-f3", "Pe7-e5", "Pg2-g4", "Qd8-h4")
	board.AllLegalMoves(white)
	board.Reset()
	c.Assert(board.Squares(), Equals, initialBoard)
	c.Assert(board.Result(), Equals, ongoing)
	c.Assert(board.InCheck(white), Equals, false)
	c.Assert(board.History(), HasLen, 0)
}
