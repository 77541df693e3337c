package main

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/apex/log"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Position is the deepest search analysis seen for one position and side.
type Position struct {
	gorm.Model

	Board      chessState `gorm:"<-:create;type:varchar;size:128;uniqueIndex:idx_position;not null"`
	Color      uint8      `gorm:"<-:create;uniqueIndex:idx_position;not null"`
	Move       string
	Score      int
	Depth      int
	Candidates int
	Mean       float64
	Deviation  float64
	Searches   int
}

// store persists search analyses with gorm.
type store struct {
	db *gorm.DB
}

func openStore(dbname string) (*store, error) {
	connStr := strings.Join([]string{"dbname", dbname}, "=")

	database, err := gorm.Open(postgres.Open(connStr), &gorm.Config{
		Logger:      logger.Default.LogMode(logger.Silent),
		QueryFields: true,
	})
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to connect database %s", connStr)
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, err
	}

	// SetMaxIdleConns sets the maximum number of connections in the idle connection pool.
	sqlDB.SetMaxIdleConns(10)
	// SetMaxOpenConns sets the maximum number of open connections to the database.
	sqlDB.SetMaxOpenConns(100)
	// SetConnMaxLifetime sets the maximum amount of time a connection may be reused.
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := database.AutoMigrate(&Position{}); err != nil {
		return nil, pkgerrors.Wrap(err, "migrate positions")
	}
	return &store{db: database}, nil
}

// record keeps the deepest analysis of a position and counts every search.
func (s *store) record(a analysis) error {
	var position Position
	err := s.db.Where("board = ? AND color = ?", a.Board, a.Color).
		Attrs(Position{Board: a.Board, Color: a.Color}).
		FirstOrInit(&position).Error
	if err != nil {
		return pkgerrors.Wrap(err, "find position")
	}
	position.Searches++
	if position.ID == 0 || a.Depth >= position.Depth {
		position.Move = a.Move.String()
		position.Score = a.Score
		position.Depth = a.Depth
		position.Candidates = a.Candidates
		position.Mean = a.Mean
		position.Deviation = a.Deviation
	}
	return pkgerrors.Wrap(s.db.Save(&position).Error, "save position")
}

// lookup returns the analyses stored for a board, one per side.
func (s *store) lookup(board chessState) ([]Position, error) {
	var positions []Position
	if err := s.db.Where("board = ?", board).Order("color").Find(&positions).Error; err != nil {
		return nil, err
	}
	if len(positions) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return positions, nil
}

// recorder hands s to searching players, or nothing when there is no store.
func (s *store) recorder() analysisRecorder {
	if s == nil {
		return nil
	}
	return s
}

func (s *store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func idleError(message string, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return
	}
	if errors.Is(err, http.ErrServerClosed) {
		return
	}
	e := err
	for errors.Unwrap(e) != nil {
		e = errors.Unwrap(e)
	}
	if e.Error() == "sql: database is closed" {
		time.Sleep(1 * time.Second)
		return
	}
	log.WithField("type", reflect.TypeOf(err)).WithError(err).Error(message)
}
