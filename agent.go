package main

import (
	"math"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/apex/log"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const (
	// drawThreshold is the static evaluation below which draws are welcome.
	drawThreshold = 43
	mateScore     = 1000000
	infinity      = math.MaxInt32

	maxSearchDepth = 32
	tieEpsilon     = 1e-9
)

// cancelToken is written once by the orchestrator and read by every worker.
type cancelToken struct {
	stopped atomic.Bool
}

func (token *cancelToken) cancel() {
	token.stopped.Store(true)
}

func (token *cancelToken) cancelled() bool {
	return token.stopped.Load()
}

// candidate is a root move and the worst score of its last completed iteration.
type candidate struct {
	move  Move
	score int
	depth int
}

type analysis struct {
	Board      chessState
	Color      uint8
	Move       Move
	Score      int
	Depth      int
	Candidates int
	Mean       float64
	Deviation  float64
}

type analysisRecorder interface {
	record(analysis) error
}

type searchPlayer struct {
	recorder analysisRecorder
}

func (player *searchPlayer) Fitness(board *Board, color uint8) int {
	return fitness(board, color)
}

func (player *searchPlayer) Description() string {
	return "A computer player that searches ahead with alpha-beta pruning."
}

// ChooseMove answers draw offers statically and otherwise runs one worker per
// root move until the budget is spent.
func (player *searchPlayer) ChooseMove(board *Board, color uint8, budget time.Duration, rng *rand.Rand) (Move, bool) {
	moves := board.AllLegalMoves(color)
	if len(moves) == 0 {
		return Move{}, false
	}
	static := evaluate(board, color)
	candidates := make([]*candidate, 0, len(moves))
	for _, m := range moves {
		switch {
		case m.unrejectable(), m.Draw == drawAccept:
			if static < drawThreshold {
				return m, true
			}
		case m.Draw == drawReject:
			if static >= drawThreshold {
				return m, true
			}
		case !m.isDraw():
			candidates = append(candidates, &candidate{move: m})
		}
	}
	if len(candidates) == 0 {
		return Move{}, false
	}

	token := &cancelToken{}
	var group errgroup.Group
	for _, c := range candidates {
		c := c
		scratch := board.Clone()
		group.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = errors.Errorf("search %s: %v", c.move, r)
				}
			}()
			think(scratch, color, c, token)
			return nil
		})
	}

	var searchErr error
	done := make(chan struct{})
	go func() {
		searchErr = group.Wait()
		close(done)
	}()
	timer := time.NewTimer(budget)
	select {
	case <-timer.C:
	case <-done:
	}
	timer.Stop()
	token.cancel()
	<-done
	if searchErr != nil {
		panic(newChessError("%v", searchErr))
	}

	return player.decide(board, color, candidates, rng), true
}

// decide picks uniformly among the candidates sharing the best completed score.
func (player *searchPlayer) decide(board *Board, color uint8, candidates []*candidate, rng *rand.Rand) Move {
	finished := make([]*candidate, 0, len(candidates))
	scores := make(stats.Float64Data, 0, len(candidates))
	for _, c := range candidates {
		if c.depth > 0 {
			finished = append(finished, c)
			scores = append(scores, float64(c.score))
		}
	}
	if len(finished) == 0 {
		log.WithField("candidates", len(candidates)).Warn("no search iteration completed")
		return candidates[rng.Intn(len(candidates))].move
	}

	best, err := stats.Max(scores)
	if err != nil {
		log.WithError(err).Error("error")
		panic(err)
	}
	ties := make([]*candidate, 0, len(finished))
	depth := 0
	for _, c := range finished {
		if math.Abs(float64(c.score)-best) < tieEpsilon {
			ties = append(ties, c)
		}
		if c.depth > depth {
			depth = c.depth
		}
	}
	choice := ties[rng.Intn(len(ties))]

	mean, _ := stats.Mean(scores)
	deviation, _ := stats.StandardDeviation(scores)
	result := analysis{
		Board:      board.squares,
		Color:      color,
		Move:       choice.move,
		Score:      choice.score,
		Depth:      depth,
		Candidates: len(finished),
		Mean:       mean,
		Deviation:  deviation,
	}
	log.WithFields(log.Fields{
		"color":      colorName(color),
		"move":       choice.move.String(),
		"score":      choice.score,
		"depth":      depth,
		"candidates": len(finished),
		"ties":       len(ties),
		"mean":       mean,
		"deviation":  deviation,
	}).Debug("search complete")
	if player.recorder != nil {
		if err := player.recorder.record(result); err != nil {
			log.WithError(err).Warn("failed to record analysis")
		}
	}
	return choice.move
}

// think deepens the search below c.move one ply per iteration. Each iteration
// scores c.move by the opponent's best reply; an interrupted iteration is
// discarded.
func think(board *Board, color uint8, c *candidate, token *cancelToken) {
	board.Apply(c.move, true)
	if board.InCheck(color) {
		return
	}
	opp := flipColor(color)
	replies := board.movesForBoard(opp)
	if len(replies) == 0 {
		if board.InCheck(opp) {
			c.score = mateScore - 1
		} else {
			c.score = 0
		}
		c.depth = 1
		return
	}
	for depth := 0; depth < maxSearchDepth; depth++ {
		if token.cancelled() {
			return
		}
		worst := infinity
		for _, reply := range replies {
			if token.cancelled() {
				return
			}
			scratch := board.Clone()
			scratch.Apply(reply, false)
			if score := negamax(scratch, color, depth, 2, -infinity, infinity, token); score < worst {
				worst = score
			}
		}
		if token.cancelled() {
			return
		}
		c.score, c.depth = worst, depth+1
	}
}

// negamax scores board for color, the side to move, looking depth plies ahead.
// Mates found sooner score higher.
func negamax(board *Board, color uint8, depth, ply, alpha, beta int, token *cancelToken) int {
	if depth == 0 || token.cancelled() {
		return evaluate(board, color)
	}
	moves := board.movesForBoard(color)
	if len(moves) == 0 {
		if board.InCheck(color) {
			return -(mateScore - ply)
		}
		return 0
	}
	best := -infinity
	for _, m := range moves {
		scratch := board.Clone()
		scratch.Apply(m, false)
		score := -negamax(scratch, flipColor(color), depth-1, ply+1, -beta, -alpha, token)
		if score > best {
			best = score
			if score > alpha {
				alpha = score
			}
			if alpha >= beta {
				break
			}
		}
	}
	return best
}
