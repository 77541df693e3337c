package main

import (
	"math/rand"
	"time"

	. "gopkg.in/check.v1"
)

type PlayerSuite struct{}

var _ = Suite(&PlayerSuite{})

func (s *PlayerSuite) TestNewPlayer(c *C) {
	for kind, description := range map[string]string{
		"human":  "A human player.",
		"Random": "A computer player that plays on a random basis.",
		"search": "A computer player that searches ahead with alpha-beta pruning.",
	} {
		player, err := newPlayer(kind, nil, nil)
		c.Assert(err, IsNil)
		c.Assert(player.Description(), Equals, description)
	}
	_, err := newPlayer("foo", nil, nil)
	c.Assert(err, ErrorMatches, `unknown player type "foo"`)
}

func (s *PlayerSuite) TestFitness(c *C) {
	board := backRankMate(c)
	c.Assert((&humanPlayer{}).Fitness(board, white), Equals, 0)
	c.Assert(randomPlayer{}.Fitness(board, white), Equals, 0)
	c.Assert((&searchPlayer{}).Fitness(board, white), Equals, fitness(board, white))
}

func (s *PlayerSuite) TestRandomNeverOffersDraw(c *C) {
	rng := rand.New(rand.NewSource(11))
	board := newBoard()
	for i := 0; i < 200; i++ {
		m, ok := randomPlayer{}.ChooseMove(board, white, 0, rng)
		c.Assert(ok, Equals, true)
		c.Assert(m.Draw, Equals, drawNone)
	}
}

func (s *PlayerSuite) TestRandomAnswersOffer(c *C) {
	board := newBoard()
	board.Apply(newDrawMove(drawOffer), true)
	m, ok := randomPlayer{}.ChooseMove(board, black, 0, rand.New(rand.NewSource(1)))
	c.Assert(ok, Equals, true)
	c.Assert(m.Draw == drawAccept || m.Draw == drawReject, Equals, true)
}

func (s *PlayerSuite) TestGameOver(c *C) {
	board := newBoard()
	playLine(c, board, white, "Pf2-f3", "Pe7-e5", "Pg2-g4", "Qd8-h4")
	rng := rand.New(rand.NewSource(1))
	called := false
	human := &humanPlayer{selectMove: func(*Board, uint8, []Move) (Move, bool) {
		called = true
		return Move{}, true
	}}
	for _, player := range []Player{human, randomPlayer{}, &searchPlayer{}} {
		_, ok := player.ChooseMove(board, white, 0, rng)
		c.Assert(ok, Equals, false)
	}
	c.Assert(called, Equals, false)
}

func (s *PlayerSuite) TestHumanDelegates(c *C) {
	board := newBoard()
	var offered []Move
	human := &humanPlayer{selectMove: func(b *Board, color uint8, moves []Move) (Move, bool) {
		c.Assert(b, Equals, board)
		c.Assert(color, Equals, white)
		offered = moves
		return moves[3], true
	}}
	m, ok := human.ChooseMove(board, white, time.Second, nil)
	c.Assert(ok, Equals, true)
	c.Assert(offered, HasLen, 21)
	c.Assert(m, Equals, offered[3])

	_, ok = (&humanPlayer{}).ChooseMove(board, white, time.Second, nil)
	c.Assert(ok, Equals, false)
}
