package main

const (
	pawnValue   = 10
	knightValue = 30
	bishopValue = 30
	rookValue   = 50
	queenValue  = 100
	kingValue   = 10000

	bishopSquareWeight = 2
)

// fitness scores the material and pawn structure of color alone. Callers
// compare fitness(color) against fitness of the opponent.
func fitness(board *Board, color uint8) int {
	own := colorIndex(color)
	opp := colorIndex(flipColor(color))
	score := 0
	for square, piece := range board.squares {
		if piece == empty || colorOf(piece) != color {
			continue
		}
		switch kindOf(piece) {
		case pawn:
			score += pawnValue + pawnStructure(&board.squares, square, color)
		case knight:
			score += knightValue
		case bishop:
			shade := squareShade(square)
			score += bishopValue
			score += bishopSquareWeight * board.bishops[own][1-shade]
			score -= bishopSquareWeight * board.bishops[opp][shade]
		case rook:
			score += rookValue
		case queen:
			score += queenValue
		case king:
			score += kingValue
		}
	}
	return score
}

// pawnStructure penalises a pawn with nothing in front of it and rewards every
// friendly pawn diagonally behind it. Squares off the board do not count.
func pawnStructure(squares *chessState, square int, color uint8) int {
	forward := 8
	if color == black {
		forward = -8
	}
	score := 0
	if ahead := square + forward; validSquare(ahead) && squares[ahead] == empty {
		score--
	}
	for _, side := range [2]int{-1, 1} {
		if behind, ok := offsetSquare(square, -forward+side, 1); ok && squares[behind] == pawn|color {
			score++
		}
	}
	return score
}

// evaluate is the negamax leaf score from the point of view of color.
func evaluate(board *Board, color uint8) int {
	return fitness(board, color) - fitness(board, flipColor(color))
}
