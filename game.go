package main

import (
	"context"
	"math/rand"
	"time"

	"github.com/apex/log"
	"github.com/pkg/errors"
)

// game owns one authoritative board and alternates its two players.
type game struct {
	board   *Board
	players [2]Player
	kinds   [2]string
	turn    uint8
	budget  time.Duration
	rng     *rand.Rand
	updated time.Time

	// onMove runs before every applied move.
	onMove func(Move)
}

func newGame(whitePlayer, blackPlayer Player, kinds [2]string, budget time.Duration, rng *rand.Rand) *game {
	g := &game{
		board:   newBoard(),
		players: [2]Player{whitePlayer, blackPlayer},
		kinds:   kinds,
		turn:    white,
		budget:  budget,
		rng:     rng,
		updated: time.Now(),
	}
	g.board.Observe(func(board *Board) {
		history := board.history
		if len(history) == 0 {
			return
		}
		last := history[len(history)-1]
		log.WithFields(log.Fields{
			"color":  colorName(last.color()),
			"move":   last.String(),
			"check":  board.InCheck(flipColor(last.color())),
			"result": resultNames[board.Result()],
		}).Debug("board changed")
	})
	return g
}

func (g *game) current() Player {
	return g.players[colorIndex(g.turn)]
}

func (g *game) currentKind() string {
	return g.kinds[colorIndex(g.turn)]
}

func (g *game) over() bool {
	return g.board.Result() != ongoing
}

// moves lists what the side to move may play.
func (g *game) moves() []Move {
	return g.board.AllLegalMoves(g.turn)
}

// apply commits m for the side to move and passes the turn.
func (g *game) apply(m Move) {
	if g.onMove != nil {
		g.onMove(m)
	}
	g.board.Apply(m, true)
	g.turn = flipColor(g.turn)
	g.updated = time.Now()
	// settles mate and stalemate for the side now to move
	g.board.AllLegalMoves(g.turn)
}

// step asks the current player for one move and applies it. It reports false
// when the player has nothing to play.
func (g *game) step() bool {
	if g.over() {
		return false
	}
	m, ok := g.current().ChooseMove(g.board, g.turn, g.budget, g.rng)
	if !ok {
		return false
	}
	g.apply(m)
	return true
}

// play runs the turn loop until the game ends, a player declines to move or
// ctx is done.
func (g *game) play(ctx context.Context) error {
	for !g.over() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !g.step() {
			break
		}
	}
	return nil
}

// undo takes back the last two plies.
func (g *game) undo() error {
	if len(g.board.history) < 2 {
		return errors.New("nothing to undo")
	}
	g.turn = g.board.Undo()
	g.updated = time.Now()
	return nil
}

func (g *game) restart() {
	g.board.Reset()
	g.turn = white
	g.updated = time.Now()
}
