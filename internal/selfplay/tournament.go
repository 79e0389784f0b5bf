package selfplay

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/cricklet/duckchess/internal/evaluation"
	. "github.com/cricklet/duckchess/internal/helpers"
	elo "github.com/kortemy/elo-go"
)

// winThreshold leaves room for engine mate scores just below evaluation.WinScore.
var winThreshold = evaluation.WinScore - 1000

type Tournament struct {
	Logger Logger

	White PlayerFactory
	Black PlayerFactory

	Games   int
	Workers int
	Options MatchOptions

	ShowProgress bool
}

type TournamentResult struct {
	WhiteName string
	BlackName string

	// Games is indexed by game number; games that were never played are nil.
	Games []*GameResult
}

func (r TournamentResult) Played() []GameResult {
	result := []GameResult{}
	for _, g := range r.Games {
		if g != nil {
			result = append(result, *g)
		}
	}
	return result
}

func (r TournamentResult) Counts() map[Outcome]int {
	counts := map[Outcome]int{}
	for _, g := range r.Played() {
		counts[g.Outcome]++
	}
	return counts
}

// AverageTrace averages the per-turn evaluations across games, skipping decided
// scores so a single won game doesn't swamp the curve.
func (r TournamentResult) AverageTrace() []float64 {
	sums := []int{}
	counts := []int{}
	for _, g := range r.Played() {
		for i, score := range g.Trace {
			if Abs(score) >= winThreshold {
				continue
			}
			for len(sums) <= i {
				sums = append(sums, 0)
				counts = append(counts, 0)
			}
			sums[i] += score
			counts[i]++
		}
	}

	averages := make([]float64, len(sums))
	for i := range sums {
		if counts[i] > 0 {
			averages[i] = float64(sums[i]) / float64(counts[i])
		}
	}
	return averages
}

// EloEstimate rates White against a Black player of the given rating, replaying the
// games in order through the Elo update.
func (r TournamentResult) EloEstimate(blackRating int) int {
	rating := blackRating
	e := elo.NewElo()
	for _, g := range r.Played() {
		outcome, _ := e.Outcome(rating, blackRating, g.Outcome.Score())
		rating = outcome.Rating
	}
	return rating
}

func (r TournamentResult) String() string {
	played := len(r.Played())
	if played == 0 {
		return "no games played"
	}

	counts := r.Counts()
	percent := func(n int) string {
		return fmt.Sprintf("%.1f%%", 100*float64(n)/float64(played))
	}

	lines := []string{
		fmt.Sprintf("out of %v games:", CountString(played)),
		fmt.Sprintf("white (%v) wins: %v (%v)", r.WhiteName, counts[WhiteWins], percent(counts[WhiteWins])),
		fmt.Sprintf("black (%v) wins: %v (%v)", r.BlackName, counts[BlackWins], percent(counts[BlackWins])),
		fmt.Sprintf("draws: %v (%v)", counts[Draw], percent(counts[Draw])),
		fmt.Sprintf("over the move cap: %v", counts[MoveCap]),
	}
	return strings.Join(lines, "\n")
}

// Run plays the games on Workers goroutines, each game with fresh players. Cancelling
// ctx stops new games from starting; games in flight finish.
func (t Tournament) Run(ctx context.Context) (TournamentResult, Error) {
	logger := t.Logger
	if logger == nil {
		logger = &SilentLogger
	}
	workers := Max(1, Min(t.Workers, t.Games))

	result := TournamentResult{
		Games: make([]*GameResult, t.Games),
	}
	if t.Games <= 0 {
		return result, NilError
	}

	{
		white, black := t.White(0), t.Black(0)
		result.WhiteName, result.BlackName = white.Name(), black.Name()
		closePlayer(white)
		closePlayer(black)
	}

	progress := ProgressBar{Set: func(int) {}, Add: func(int) {}, Close: func() {}}
	if t.ShowProgress {
		progress = CreateProgressBar(t.Games, fmt.Sprintf("%v vs %v", result.WhiteName, result.BlackName))
	}
	defer progress.Close()

	jobs := make(chan int)
	errs := []Error{}
	lock := sync.Mutex{}
	wg := sync.WaitGroup{}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				white, black := t.White(i), t.Black(i)
				game, err := PlayGame(white, black, t.Options)
				closePlayer(white)
				closePlayer(black)

				lock.Lock()
				if IsNil(err) {
					result.Games[i] = &game
				} else {
					errs = append(errs, err)
				}
				lock.Unlock()

				logger.Println("game", i, game.String())
				progress.Add(1)
			}
		}()
	}

	var err Error
dispatch:
	for i := 0; i < t.Games; i++ {
		if ctx.Err() != nil {
			err = Wrap(ctx.Err())
			break
		}
		select {
		case <-ctx.Done():
			err = Wrap(ctx.Err())
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	return result, Join(append(errs, err)...)
}
