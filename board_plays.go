package main

// tryAdd simulates m on a scratch copy and lists it only when the mover's king
// is safe afterwards.
func (board *Board) tryAdd(moves *moveList, m Move) bool {
	scratch := board.Clone()
	scratch.Apply(m, false)
	if scratch.InCheck(m.color()) {
		return false
	}
	moves.add(m)
	return true
}

func (board *Board) capturable(color uint8, square int) bool {
	piece := board.squares[square]
	return piece != empty && colorOf(piece) != color
}

func (board *Board) movesForPawn(moves *moveList, piece uint8, start int) {
	color := colorOf(piece)
	forward, startRow, passantRow, lastRow := 8, 1, 4, 7
	if color == black {
		forward, startRow, passantRow, lastRow = -8, 6, 3, 0
	}
	row, col := start/8, start%8
	next := start + forward
	if !validSquare(next) {
		return
	}

	if row == startRow && board.squares[next] == empty && board.squares[next+forward] == empty {
		board.tryAdd(moves, newMove(&board.squares, piece, start, next+forward))
	} else if row == passantRow && len(board.history) > 0 {
		last := board.history[len(board.history)-1]
		if last.Piece == pawn|flipColor(color) && abs(last.To-last.From) == 16 {
			if col < 7 && last.To == start+1 {
				board.tryAdd(moves, Move{Piece: piece, From: start, To: next + 1, Capture: start + 1})
			} else if col > 0 && last.To == start-1 {
				board.tryAdd(moves, Move{Piece: piece, From: start, To: next - 1, Capture: start - 1})
			}
		}
	}

	targets := make([]int, 0, 3)
	if board.squares[next] == empty {
		targets = append(targets, next)
	}
	if col > 0 && board.capturable(color, next-1) {
		targets = append(targets, next-1)
	}
	if col < 7 && board.capturable(color, next+1) {
		targets = append(targets, next+1)
	}
	for _, end := range targets {
		if end/8 != lastRow {
			board.tryAdd(moves, newMove(&board.squares, piece, start, end))
			continue
		}
		for _, promotion := range promotions {
			m := newMove(&board.squares, piece, start, end)
			m.Promotion = promotion
			board.tryAdd(moves, m)
		}
	}
}

func (board *Board) movesForKnight(moves *moveList, piece uint8, start int) {
	color := colorOf(piece)
	for _, jump := range knightJumps {
		end, ok := offsetSquare(start, jump, 2)
		if !ok || (board.squares[end] != empty && !board.capturable(color, end)) {
			continue
		}
		board.tryAdd(moves, newMove(&board.squares, piece, start, end))
	}
}

func (board *Board) movesForKing(moves *moveList, piece uint8, start int) {
	color := colorOf(piece)
	for _, step := range kingSteps {
		end, ok := offsetSquare(start, step, 1)
		if !ok || (board.squares[end] != empty && !board.capturable(color, end)) {
			continue
		}
		if isAttacked(&board.squares, end, color) {
			continue
		}
		board.tryAdd(moves, newMove(&board.squares, piece, start, end))
	}

	rights := board.castling[colorIndex(color)]
	if board.InCheck(color) {
		return
	}
	if rights[queenside] && board.pathClear(start, -1, 3) && board.pathSafe(color, start, -1) {
		board.tryAdd(moves, newMove(&board.squares, piece, start, start-2))
	}
	if rights[kingside] && board.pathClear(start, 1, 2) && board.pathSafe(color, start, 1) {
		board.tryAdd(moves, newMove(&board.squares, piece, start, start+2))
	}
}

// pathClear reports whether the n squares next to start in direction step are empty.
func (board *Board) pathClear(start, step, n int) bool {
	for i := 1; i <= n; i++ {
		square := start + i*step
		if !validSquare(square) || board.squares[square] != empty {
			return false
		}
	}
	return true
}

// pathSafe reports whether the two squares a castling king crosses are unattacked.
func (board *Board) pathSafe(color uint8, start, step int) bool {
	return !isAttacked(&board.squares, start+step, color) && !isAttacked(&board.squares, start+2*step, color)
}

func (board *Board) movesForRays(moves *moveList, piece uint8, start int, dirs [4][2]int) {
	color := colorOf(piece)
	for _, dir := range dirs {
		row, col := start/8+dir[0], start%8+dir[1]
		for row >= 0 && row < 8 && col >= 0 && col < 8 {
			end := row*8 + col
			if board.squares[end] != empty {
				if board.capturable(color, end) {
					board.tryAdd(moves, newMove(&board.squares, piece, start, end))
				}
				break
			}
			board.tryAdd(moves, newMove(&board.squares, piece, start, end))
			row, col = row+dir[0], col+dir[1]
		}
	}
}

// legalMoves lists the legal moves of the piece on start.
func (board *Board) legalMoves(start int) []Move {
	mustSquare(start)
	piece := board.squares[start]
	moves := moveList{}
	switch kindOf(piece) {
	case empty:
	case pawn:
		board.movesForPawn(&moves, piece, start)
	case knight:
		board.movesForKnight(&moves, piece, start)
	case king:
		board.movesForKing(&moves, piece, start)
	case rook:
		board.movesForRays(&moves, piece, start, orthogonals)
	case bishop:
		board.movesForRays(&moves, piece, start, diagonals)
	case queen:
		board.movesForRays(&moves, piece, start, orthogonals)
		board.movesForRays(&moves, piece, start, diagonals)
	default:
		panic(newChessError("invalid piece %d on %s", piece, coordName(start)))
	}
	return moves
}

// movesForBoard unions legalMoves over every piece of color.
func (board *Board) movesForBoard(color uint8) []Move {
	moves := make([]Move, 0, 48)
	for start, piece := range board.squares {
		if piece != empty && colorOf(piece) == color {
			moves = append(moves, board.legalMoves(start)...)
		}
	}
	return moves
}

// AllLegalMoves lists what color may play, including the draw protocol
// pseudo-moves, and records mate or stalemate when nothing is left.
func (board *Board) AllLegalMoves(color uint8) []Move {
	if board.drawOffered {
		return []Move{newDrawMove(drawAccept), newDrawMove(drawReject)}
	}
	moves := board.movesForBoard(color)
	if len(moves) == 0 {
		switch {
		case board.InCheck(color):
			board.result = matedResult(color)
		case board.InCheck(flipColor(color)):
			board.result = matedResult(flipColor(color))
		default:
			board.result = stalematedResult(color)
		}
		return moves
	}
	if board.plies >= fiftyMovePlies {
		moves = append(moves, newDrawMove(drawFiftyMoves))
	} else {
		moves = append(moves, newDrawMove(drawOffer))
	}
	if board.repeated() {
		moves = append(moves, newDrawMove(drawRepetition))
	}
	return moves
}

func matedResult(color uint8) uint8 {
	if color == black {
		return blackMated
	}
	return whiteMated
}

func stalematedResult(color uint8) uint8 {
	if color == black {
		return blackStalemated
	}
	return whiteStalemated
}
