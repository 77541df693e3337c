package main

var knightJumps = [8]int{6, 15, 17, 10, -6, -15, -17, -10}

var kingSteps = [8]int{1, 7, 8, 9, -1, -7, -8, -9}

// Ray directions as row and column deltas.
var (
	orthogonals = [4][2]int{{1, 0}, {-1, 0}, {0, -1}, {0, 1}}
	diagonals   = [4][2]int{{1, 1}, {-1, 1}, {1, -1}, {-1, -1}}
)

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// offsetSquare returns square+offset when it stays on the board and within
// bound columns of the origin, so jumps never wrap around an edge.
func offsetSquare(square, offset, bound int) (int, bool) {
	target := square + offset
	if !validSquare(target) {
		return noSquare, false
	}
	if abs(target%8-square%8) > bound {
		return noSquare, false
	}
	return target, true
}

// rayEnd walks from square in direction (dr, dc) and returns the first occupied
// square, or false when the edge is reached first.
func rayEnd(squares *chessState, square, dr, dc int) (int, bool) {
	row, col := square/8+dr, square%8+dc
	for row >= 0 && row < 8 && col >= 0 && col < 8 {
		target := row*8 + col
		if squares[target] != empty {
			return target, true
		}
		row, col = row+dr, col+dc
	}
	return noSquare, false
}

// isAttacked reports whether a piece of the opponent of defender could capture
// on square, ignoring whether doing so would expose its own king.
func isAttacked(squares *chessState, square int, defender uint8) bool {
	mustSquare(square)
	attacker := flipColor(defender)

	forward := 8
	if defender == black {
		forward = -8
	}
	for _, side := range [2]int{-1, 1} {
		if target, ok := offsetSquare(square, forward+side, 1); ok && squares[target] == pawn|attacker {
			return true
		}
	}
	for _, jump := range knightJumps {
		if target, ok := offsetSquare(square, jump, 2); ok && squares[target] == knight|attacker {
			return true
		}
	}
	for _, step := range kingSteps {
		if target, ok := offsetSquare(square, step, 1); ok && squares[target] == king|attacker {
			return true
		}
	}
	for _, dir := range orthogonals {
		if target, ok := rayEnd(squares, square, dir[0], dir[1]); ok {
			if p := squares[target]; p == rook|attacker || p == queen|attacker {
				return true
			}
		}
	}
	for _, dir := range diagonals {
		if target, ok := rayEnd(squares, square, dir[0], dir[1]); ok {
			if p := squares[target]; p == bishop|attacker || p == queen|attacker {
				return true
			}
		}
	}
	return false
}
