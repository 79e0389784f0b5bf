package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	. "github.com/cricklet/duckchess/internal/helpers"
	"github.com/cricklet/duckchess/internal/search"
	"github.com/cricklet/duckchess/internal/selfplay"
	"github.com/cricklet/duckchess/internal/stockfish"
	combinations "github.com/mxschmitt/golang-combinations"
	"github.com/pkg/profile"
)

type config struct {
	games       int
	workers     int
	maxTurns    int
	white       string
	black       string
	baseline    int
	sweep       bool
	verbose     bool
	traceEngine string
	searchArgs  []string
}

var defaultConfig = config{
	games:    100,
	workers:  4,
	maxTurns: selfplay.DefaultMaxTurns,
	white:    "engine",
	black:    "random",
	baseline: 800,
}

func parseConfig(args []string) (config, Error) {
	c := defaultConfig
	c.searchArgs = []string{}

	intValue := func(value string) (int, Error) {
		return WrapReturn(strconv.Atoi(value))
	}

	for _, arg := range args {
		key, value, _ := strings.Cut(arg, "=")

		var err Error
		switch key {
		case "games":
			c.games, err = intValue(value)
		case "workers":
			c.workers, err = intValue(value)
		case "maxTurns":
			c.maxTurns, err = intValue(value)
		case "elo":
			c.baseline, err = intValue(value)
		case "white":
			c.white = value
		case "black":
			c.black = value
		case "trace":
			c.traceEngine = value
		case "sweep":
			c.sweep = true
		case "verbose":
			c.verbose = true
		case "profile":
		default:
			c.searchArgs = append(c.searchArgs, arg)
		}
		if !IsNil(err) {
			return c, Errorf("couldn't parse %v: %w", arg, err)
		}
	}

	for _, player := range []string{c.white, c.black} {
		if player != "engine" && player != "random" {
			return c, Errorf("unknown player %v, expected engine or random", player)
		}
	}

	return c, NilError
}

func factoryFor(player string, logger Logger, options search.SearcherOptions) selfplay.PlayerFactory {
	if player == "random" {
		return func(game int) selfplay.Player {
			return selfplay.NewRandomPlayer(time.Now().UnixNano() + int64(game))
		}
	}
	return func(game int) selfplay.Player {
		return selfplay.NewEnginePlayer(logger, options)
	}
}

func runTournament(ctx context.Context, c config, searchArgs []string) Error {
	options, err := search.SearcherOptionsFromArgs(searchArgs...)
	if !IsNil(err) {
		return err
	}

	var logger Logger = &SilentLogger
	if c.verbose {
		logger = &DefaultLogger
	}

	matchOptions := selfplay.MatchOptions{MaxTurns: c.maxTurns}
	if c.traceEngine != "" {
		runner := stockfish.NewFairyRunner(stockfish.WithPath(c.traceEngine), stockfish.WithLogger(&SilentLogger))
		defer runner.Close()
		matchOptions.TraceEvaluator = runner
	}

	tournament := selfplay.Tournament{
		Logger:       logger,
		White:        factoryFor(c.white, logger, options),
		Black:        factoryFor(c.black, logger, options),
		Games:        c.games,
		Workers:      c.workers,
		Options:      matchOptions,
		ShowProgress: true,
	}

	start := time.Now()
	result, err := tournament.Run(ctx)

	fmt.Println(result)
	fmt.Printf("elo estimate for white against a %v rated black: %v\n", c.baseline, result.EloEstimate(c.baseline))
	fmt.Println("took", time.Since(start).Round(time.Second))

	trace := result.AverageTrace()
	if len(trace) > 0 {
		fmt.Println("average evaluation per turn (pawns, white positive):")
		fmt.Println(strings.Join(MapSlice(trace, func(v float64) string {
			return fmt.Sprintf("%.1f", v/100)
		}), " "))
	}

	return err
}

// usage: selfplay [games=100] [workers=4] [maxTurns=200] [white=engine] [black=random]
// [elo=800] [trace=/path/to/fairy-stockfish] [sweep] [verbose] [profile] [search options...]
func main() {
	args := os.Args[1:]

	if Contains(args, "profile") {
		p := profile.Start(profile.ProfilePath(RootDir() + "/data/CmdSelfplayMain"))
		defer p.Stop()
	}

	if len(args) > 0 && args[0] == "options" {
		for _, option := range search.AllSearchOptions {
			fmt.Println(option)
		}
		return
	}

	c, err := parseConfig(args)
	if !IsNil(err) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	allSearchArgsToTry := [][]string{c.searchArgs}
	if c.sweep && len(c.searchArgs) > 0 {
		allSearchArgsToTry = append(combinations.All(c.searchArgs), []string{})
	}

	for _, searchArgs := range allSearchArgsToTry {
		if ctx.Err() != nil {
			break
		}
		fmt.Println()
		fmt.Println("search options:", searchArgs)

		err := runTournament(ctx, c, searchArgs)
		if !IsNil(err) {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}
