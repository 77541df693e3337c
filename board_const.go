package main

const (
	empty  uint8 = 0
	pawn   uint8 = 1
	rook   uint8 = 2
	knight uint8 = 4
	bishop uint8 = 8
	queen  uint8 = 16
	king   uint8 = 32

	white uint8 = 0
	black uint8 = 64
)

// Board results.
const (
	ongoing uint8 = iota
	whiteMated
	blackMated
	whiteStalemated
	blackStalemated
	drawn
)

const (
	fiftyMovePlies  = 100
	repetitionCount = 3
)

// promotions lists the kinds a pawn may become, in generation order.
var promotions = [4]uint8{rook, knight, bishop, queen}

var initialBoard = chessState{
	rook, knight, bishop, queen, king, bishop, knight, rook,
	pawn, pawn, pawn, pawn, pawn, pawn, pawn, pawn,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0,
	pawn | black, pawn | black, pawn | black, pawn | black, pawn | black, pawn | black, pawn | black, pawn | black,
	rook | black, knight | black, bishop | black, queen | black, king | black, bishop | black, knight | black, rook | black,
}

var valueToPieceWhite = map[uint8]rune{
	bishop: '♗',
	king:   '♔',
	knight: '♘',
	pawn:   '♙',
	queen:  '♕',
	rook:   '♖',
}
var valueToPieceBlack = map[uint8]rune{
	bishop: '♝',
	king:   '♚',
	knight: '♞',
	pawn:   '♟',
	queen:  '♛',
	rook:   '♜',
}

var valueToLetter = map[uint8]byte{
	bishop: 'B',
	king:   'K',
	knight: 'N',
	pawn:   'P',
	queen:  'Q',
	rook:   'R',
}
var resultNames = map[uint8]string{
	ongoing:         "ongoing",
	whiteMated:      "white is mate",
	blackMated:      "black is mate",
	whiteStalemated: "white is stalemate",
	blackStalemated: "black is stalemate",
	drawn:           "draw",
}

func colorOf(piece uint8) uint8 {
	return piece & black
}

func kindOf(piece uint8) uint8 {
	return piece &^ black
}

func flipColor(color uint8) uint8 {
	return color ^ black
}

func colorName(color uint8) string {
	if color == black {
		return "black"
	}
	return "white"
}

// squareColor is black for dark squares (a1 is dark) and white otherwise.
func squareColor(square int) uint8 {
	if (square/8+square%8)%2 == 0 {
		return black
	}
	return white
}

// colorIndex maps white/black to 0/1 for the per-color arrays.
func colorIndex(color uint8) int {
	return int(color >> 6)
}
