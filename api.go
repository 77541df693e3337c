package main

import (
	"errors"
	"math/rand"
	"net/http"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	uuid "github.com/satori/go.uuid"
	"gorm.io/gorm"
)

type gameRequest struct {
	White string
	Black string
}

type playRequest struct {
	Move  *string
	Index *int
}

type gameState struct {
	ID          uuid.UUID
	White       string
	Black       string
	Turn        string
	Result      string
	Check       bool
	DrawOffered bool
	Board       []string
	History     []Move
}

type gameResponse struct {
	Href string
	Game gameState
}

type gamesResponse struct {
	Href  string
	Games []gameState
}

type movesResponse struct {
	Href  string
	Moves []Move
}

type positionView struct {
	Color      string
	Move       string
	Score      int
	Depth      int
	Candidates int
	Mean       float64
	Deviation  float64
	Searches   int
}

type positionsResponse struct {
	Href      string
	Positions []positionView
}

type session struct {
	sync.Mutex
	id   uuid.UUID
	game *game
}

// server holds the games played over HTTP. Sessions live in memory only.
type server struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*session

	store    *store
	recorder analysisRecorder
	budget   time.Duration
	seed     int64
}

func newServer(st *store, budget time.Duration, seed int64) *server {
	return &server{
		sessions: make(map[uuid.UUID]*session),
		store:    st,
		recorder: st.recorder(),
		budget:   budget,
		seed:     seed,
	}
}

func errToHTTP(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.ErrNotFound
	}
	return err
}

func requestID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.FromString(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return id, nil
}

func (srv *server) requestSession(c echo.Context) (*session, error) {
	id, err := requestID(c)
	if err != nil {
		return nil, err
	}
	srv.mu.Lock()
	defer srv.mu.Unlock()
	s, ok := srv.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (srv *server) makeSession(request gameRequest) (*session, error) {
	request.White = strings.ToLower(request.White)
	request.Black = strings.ToLower(request.Black)
	if request.White == "" {
		request.White = playerHuman
	}
	if request.Black == "" {
		request.Black = playerSearch
	}
	whitePlayer, err := newPlayer(request.White, nil, srv.recorder)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	blackPlayer, err := newPlayer(request.Black, nil, srv.recorder)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	seed := srv.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s := &session{
		id:   uuid.NewV4(),
		game: newGame(whitePlayer, blackPlayer, [2]string{request.White, request.Black}, srv.budget, rand.New(rand.NewSource(seed))),
	}
	srv.mu.Lock()
	srv.sessions[s.id] = s
	srv.mu.Unlock()
	log.WithFields(log.Fields{"id": s.id, "white": request.White, "black": request.Black}).Info("game created")
	return s, nil
}

func (srv *server) deleteSession(id uuid.UUID) {
	srv.mu.Lock()
	delete(srv.sessions, id)
	srv.mu.Unlock()
}

func (srv *server) allSessions() []*session {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	sessions := make([]*session, 0, len(srv.sessions))
	for _, s := range srv.sessions {
		sessions = append(sessions, s)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].id.String() < sessions[j].id.String()
	})
	return sessions
}

// state must be called with the session locked.
func (s *session) state() gameState {
	g := s.game
	return gameState{
		ID:          s.id,
		White:       g.kinds[0],
		Black:       g.kinds[1],
		Turn:        colorName(g.turn),
		Result:      resultNames[g.board.Result()],
		Check:       g.board.InCheck(g.turn),
		DrawOffered: g.board.drawOffered,
		Board:       g.board.squares.rows(),
		History:     g.board.History(),
	}
}

func (s *session) href() string {
	return path.Join("/games", s.id.String())
}

func (s *session) response() gameResponse {
	return gameResponse{Href: s.href(), Game: s.state()}
}

// play applies a human move from request, or one computer ply when request
// names no move, then lets computer players reply until a human is to move.
func (s *session) play(request playRequest) error {
	g := s.game
	if g.over() {
		return echo.NewHTTPError(http.StatusBadRequest, "game is over")
	}
	if request.Move == nil && request.Index == nil {
		if g.currentKind() == playerHuman {
			return echo.NewHTTPError(http.StatusNotAcceptable, "player must provide move")
		}
		g.step()
		return nil
	}
	if g.currentKind() != playerHuman {
		return echo.NewHTTPError(http.StatusNotAcceptable, "not your turn")
	}
	moves := g.moves()
	if len(moves) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "game is over")
	}
	var m Move
	if request.Index != nil {
		if *request.Index < 0 || *request.Index >= len(moves) {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid move")
		}
		m = moves[*request.Index]
	} else {
		found, err := findMove(moves, *request.Move)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid move")
		}
		m = found
	}
	g.apply(m)
	for !g.over() && g.currentKind() != playerHuman {
		if !g.step() {
			break
		}
	}
	return nil
}

// sweep drops sessions untouched for ttl and finished sessions untouched for
// a minute.
func (srv *server) sweep(now time.Time, ttl time.Duration) int {
	removed := 0
	for _, s := range srv.allSessions() {
		s.Lock()
		idle := now.Sub(s.game.updated)
		expired := idle > ttl || (s.game.over() && idle > time.Minute)
		s.Unlock()
		if expired {
			srv.deleteSession(s.id)
			removed++
		}
	}
	if removed > 0 {
		log.WithField("removed", removed).Info("expired games")
	}
	return removed
}

func (srv *server) apiHandler() *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.GET("/games", func(c echo.Context) error {
		sessions := srv.allSessions()
		games := make([]gameState, 0, len(sessions))
		for _, s := range sessions {
			s.Lock()
			games = append(games, s.state())
			s.Unlock()
		}
		return c.JSON(http.StatusOK, gamesResponse{Href: "/games", Games: games})
	})
	e.POST("/games", func(c echo.Context) error {
		var request gameRequest
		if err := c.Bind(&request); err != nil {
			return err
		}
		s, err := srv.makeSession(request)
		if err != nil {
			return errToHTTP(err)
		}
		s.Lock()
		defer s.Unlock()
		return c.JSON(http.StatusCreated, s.response())
	})
	e.GET("/games/:id", func(c echo.Context) error {
		s, err := srv.requestSession(c)
		if err != nil {
			return errToHTTP(err)
		}
		s.Lock()
		defer s.Unlock()
		return c.JSON(http.StatusOK, s.response())
	})
	e.PUT("/games/:id", func(c echo.Context) error {
		s, err := srv.requestSession(c)
		if err != nil {
			return errToHTTP(err)
		}
		var request playRequest
		if err := c.Bind(&request); err != nil {
			return err
		}
		s.Lock()
		defer s.Unlock()
		if err := s.play(request); err != nil {
			return errToHTTP(err)
		}
		return c.JSON(http.StatusOK, s.response())
	})
	e.DELETE("/games/:id", func(c echo.Context) error {
		s, err := srv.requestSession(c)
		if err != nil {
			return errToHTTP(err)
		}
		srv.deleteSession(s.id)
		return c.NoContent(http.StatusNoContent)
	})
	e.GET("/games/:id/moves", func(c echo.Context) error {
		s, err := srv.requestSession(c)
		if err != nil {
			return errToHTTP(err)
		}
		s.Lock()
		defer s.Unlock()
		moves := s.game.moves()
		return c.JSON(http.StatusOK, movesResponse{Href: path.Join(s.href(), "moves"), Moves: moves})
	})
	e.POST("/games/:id/undo", func(c echo.Context) error {
		s, err := srv.requestSession(c)
		if err != nil {
			return errToHTTP(err)
		}
		s.Lock()
		defer s.Unlock()
		if err := s.game.undo(); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return c.JSON(http.StatusOK, s.response())
	})
	e.GET("/positions/:board", func(c echo.Context) error {
		var board chessState
		if err := board.decode(c.Param("board")); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		if srv.store == nil {
			return echo.ErrNotFound
		}
		positions, err := srv.store.lookup(board)
		if err != nil {
			return errToHTTP(err)
		}
		views := make([]positionView, 0, len(positions))
		for _, p := range positions {
			views = append(views, positionView{
				Color:      colorName(p.Color),
				Move:       p.Move,
				Score:      p.Score,
				Depth:      p.Depth,
				Candidates: p.Candidates,
				Mean:       p.Mean,
				Deviation:  p.Deviation,
				Searches:   p.Searches,
			})
		}
		return c.JSON(http.StatusOK, positionsResponse{Href: path.Join("/positions", c.Param("board")), Positions: views})
	})

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Gzip())
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())

	return e
}
