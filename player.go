package main

import (
	"math/rand"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Player chooses the moves of one side.
type Player interface {
	// Fitness scores board from the point of view of color.
	Fitness(board *Board, color uint8) int
	// ChooseMove returns false when the game is over and no move is available.
	ChooseMove(board *Board, color uint8, budget time.Duration, rng *rand.Rand) (Move, bool)
	Description() string
}

// moveSelector lets an outside collaborator pick one of moves.
type moveSelector func(board *Board, color uint8, moves []Move) (Move, bool)

type humanPlayer struct {
	selectMove moveSelector
}

func (player *humanPlayer) Fitness(*Board, uint8) int {
	return 0
}

func (player *humanPlayer) ChooseMove(board *Board, color uint8, budget time.Duration, rng *rand.Rand) (Move, bool) {
	moves := board.AllLegalMoves(color)
	if board.Result() != ongoing || len(moves) == 0 || player.selectMove == nil {
		return Move{}, false
	}
	return player.selectMove(board, color, moves)
}

func (player *humanPlayer) Description() string {
	return "A human player."
}

type randomPlayer struct{}

func (randomPlayer) Fitness(*Board, uint8) int {
	return 0
}

func (randomPlayer) ChooseMove(board *Board, color uint8, budget time.Duration, rng *rand.Rand) (Move, bool) {
	moves := board.AllLegalMoves(color)
	if board.Result() != ongoing || len(moves) == 0 {
		return Move{}, false
	}
	choices := make([]Move, 0, len(moves))
	for _, m := range moves {
		if m.Draw != drawOffer {
			choices = append(choices, m)
		}
	}
	return choices[rng.Intn(len(choices))], true
}

func (randomPlayer) Description() string {
	return "A computer player that plays on a random basis."
}

// Player kinds accepted by configuration and the API.
const (
	playerHuman  = "human"
	playerRandom = "random"
	playerSearch = "search"
)

// newPlayer builds a player of kind. Human players need a selector; the API
// passes nil because it plays human moves itself.
func newPlayer(kind string, selector moveSelector, recorder analysisRecorder) (Player, error) {
	kind = strings.ToLower(kind)
	switch kind {
	case playerHuman:
		return &humanPlayer{selectMove: selector}, nil
	case playerRandom:
		return randomPlayer{}, nil
	case playerSearch:
		return &searchPlayer{recorder: recorder}, nil
	default:
		return nil, errors.Errorf("unknown player type %q", kind)
	}
}
