package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/hashicorp/go-multierror"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	sweepInterval = time.Minute
	sessionTTL    = time.Hour
)

var sigint chan os.Signal

func shutdown(e *echo.Echo, st *store) error {
	var result *multierror.Error
	if err := e.Shutdown(context.Background()); err != nil {
		result = multierror.Append(result, err)
	}
	if st != nil {
		if err := st.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func waitShutdown(e *echo.Echo, st *store, idleConnsClosed chan<- interface{}) {
	defer close(idleConnsClosed)

	sigint = make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt)
	defer signal.Stop(sigint)

	<-sigint
	log.Info("received shutdown signal")

	idleError("HTTP server shutdown:", shutdown(e, st))
}

func listenAndServe(srv *server, addr string, idleConnsClosed chan<- interface{}) {
	e := srv.apiHandler()
	go waitShutdown(e, srv.store, idleConnsClosed)

	e.Use(middleware.Logger())

	idleError("HTTP server end:", e.Start(addr))
}

// idle expires abandoned games until ctx is done.
func (srv *server) idle(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			srv.sweep(now, sessionTTL)
		}
	}
}

// Open serves the API on addr until an interrupt arrives.
func Open(srv *server, addr string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.idle(ctx)

	idleConnsClosed := make(chan interface{})
	go listenAndServe(srv, addr, idleConnsClosed)
	<-idleConnsClosed
}

// runText plays one terminal game between the configured players.
func runText(ctx context.Context, cfg *config, st *store, in io.Reader, out io.Writer) error {
	ui := newTextUI(in, out)
	whitePlayer, err := newPlayer(cfg.white, ui.selectMove, st.recorder())
	if err != nil {
		return err
	}
	blackPlayer, err := newPlayer(cfg.black, ui.selectMove, st.recorder())
	if err != nil {
		return err
	}
	seed := cfg.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g := newGame(whitePlayer, blackPlayer, [2]string{cfg.white, cfg.black}, cfg.budget, rand.New(rand.NewSource(seed)))
	log.WithFields(log.Fields{
		"white": whitePlayer.Description(),
		"black": blackPlayer.Description(),
		"seed":  seed,
	}).Info("game started")
	return ui.run(ctx, g)
}

func main() {
	log.SetHandler(cli.Default)

	cfg, err := parseConfig(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.WithError(err).Fatal("invalid arguments")
	}
	if cfg.debug {
		log.SetLevel(log.DebugLevel)
	}

	var st *store
	if cfg.dbname != "" {
		st, err = openStore(cfg.dbname)
		if err != nil {
			log.WithError(err).Fatal("failed to open position store")
		}
	}

	if cfg.text {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		idleError("text game:", runText(ctx, cfg, st, os.Stdin, os.Stdout))
		if st != nil {
			idleError("close store:", st.Close())
		}
		return
	}

	Open(newServer(st, cfg.budget, cfg.seed), cfg.addr)
}
