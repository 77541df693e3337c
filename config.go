package main

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
)

type config struct {
	addr   string
	budget time.Duration
	text   bool
	white  string
	black  string
	seed   int64
	debug  bool

	// dbname enables the position store when set.
	dbname string
}

func parseConfig(args []string, output io.Writer) (*config, error) {
	cfg := &config{}
	flags := flag.NewFlagSet("schach", flag.ContinueOnError)
	flags.SetOutput(output)
	flags.StringVar(&cfg.addr, "addr", ":8080", "HTTP listen address")
	flags.DurationVar(&cfg.budget, "budget", time.Second, "thinking time per computer move")
	flags.BoolVar(&cfg.text, "text", false, "play on the terminal instead of serving HTTP")
	flags.StringVar(&cfg.white, "white", playerHuman, "white player in text mode (human, random, search)")
	flags.StringVar(&cfg.black, "black", playerSearch, "black player in text mode (human, random, search)")
	flags.Int64Var(&cfg.seed, "seed", 0, "random seed, 0 picks one from the clock")
	flags.BoolVar(&cfg.debug, "debug", false, "log search details")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if flags.NArg() > 0 {
		return nil, errors.Errorf("unexpected arguments %v", flags.Args())
	}
	if cfg.budget < 0 {
		return nil, errors.Errorf("negative budget %s", cfg.budget)
	}
	cfg.dbname = os.Getenv("PGDATABASE")
	return cfg, nil
}
