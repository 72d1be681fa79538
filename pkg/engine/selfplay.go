package engine

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultMatchMaxPlies ends self-play games that would otherwise shuffle kings forever
const DefaultMatchMaxPlies = 200

// MatchOptions controls a self-play match
type MatchOptions struct {
	Games       int   // Number of games to play (default 10)
	WhiteDepth  int   // Search depth for WHITE (0 = engine depth)
	RedDepth    int   // Search depth for RED (0 = engine depth)
	RandomPlies int   // Random opening plies before the engines take over
	Seed        int64 // RNG seed (0 = use current time)
	Workers     int   // Number of games played in parallel (0 = GOMAXPROCS)
	MaxPlies    int   // Ply limit per game (0 = DefaultMatchMaxPlies)
}

// MatchProgress contains progress information during a match
type MatchProgress struct {
	GamesCompleted int     // Number of games completed so far
	GamesTotal     int     // Total number of games
	Percent        float64 // Percentage complete (0-100)
	WhiteWins      int
	RedWins        int
	Draws          int
}

// ProgressCallback is called after each finished game
type ProgressCallback func(progress MatchProgress)

// GameRecord is the outcome of one self-play game
type GameRecord struct {
	Index    int
	Status   Status
	Plies    int
	Material int // Final material balance, positive favours WHITE
}

// MatchResult contains the results of a match
type MatchResult struct {
	Games     int
	WhiteWins int
	RedWins   int
	Draws     int

	// Final material balance statistics
	MeanMaterial   float64
	MaterialStdDev float64
	MaterialCI     float64 // 95% confidence interval half-width

	MeanPlies float64
	Records   []GameRecord // Ordered by game index
	Elapsed   time.Duration
}

// DefaultMatchOptions returns sensible defaults
func DefaultMatchOptions() MatchOptions {
	return MatchOptions{
		Games:       10,
		RandomPlies: 2,
		MaxPlies:    DefaultMatchMaxPlies,
	}
}

// PlayMatch plays engine-vs-engine games from the starting position and
// aggregates the results. callback may be nil.
func (e *Engine) PlayMatch(ctx context.Context, opts MatchOptions, callback ProgressCallback) (*MatchResult, error) {
	// Set defaults
	if opts.Games <= 0 {
		opts.Games = 10
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.MaxPlies <= 0 {
		opts.MaxPlies = DefaultMatchMaxPlies
	}
	if !e.rules.Slides {
		return nil, errors.New("self-play needs rules with slides: the starting position has no captures")
	}

	start := time.Now()

	// Engines for each colour share the cache; games are sequential inside
	// so root parallelism is switched off
	white := e.WithDepth(opts.WhiteDepth)
	red := e.WithDepth(opts.RedDepth)
	white.workers, red.workers = 1, 1
	white.logger, red.logger = discardLogger, discardLogger

	records := make(chan GameRecord, opts.Workers)
	errc := make(chan error, 1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	go func() {
		for i := 0; i < opts.Games; i++ {
			g.Go(func() error {
				rec, err := playSelfGame(gctx, white, red, opts, i)
				if err != nil {
					return err
				}
				select {
				case records <- rec:
					return nil
				case <-gctx.Done():
					return gctx.Err()
				}
			})
		}
		errc <- g.Wait()
		close(records)
	}()

	// Aggregate results
	result := &MatchResult{Records: make([]GameRecord, opts.Games)}
	for rec := range records {
		result.Records[rec.Index] = rec
		result.Games++
		switch {
		case rec.Status.State == Drawn:
			result.Draws++
		case rec.Status.Winner == White:
			result.WhiteWins++
		default:
			result.RedWins++
		}

		if callback != nil {
			callback(MatchProgress{
				GamesCompleted: result.Games,
				GamesTotal:     opts.Games,
				Percent:        float64(result.Games) / float64(opts.Games) * 100,
				WhiteWins:      result.WhiteWins,
				RedWins:        result.RedWins,
				Draws:          result.Draws,
			})
		}
	}
	if err := <-errc; err != nil {
		return nil, err
	}

	material := make([]float64, len(result.Records))
	plies := make([]float64, len(result.Records))
	for i, rec := range result.Records {
		material[i] = float64(rec.Material)
		plies[i] = float64(rec.Plies)
	}
	result.MeanMaterial, result.MaterialStdDev = stat.MeanStdDev(material, nil)
	if math.IsNaN(result.MaterialStdDev) {
		result.MaterialStdDev = 0
	}
	result.MaterialCI = 1.96 * result.MaterialStdDev / math.Sqrt(float64(len(material)))
	result.MeanPlies = floats.Sum(plies) / float64(len(plies))
	result.Elapsed = time.Since(start)

	e.logger.Printf("selfplay games=%d white=%d red=%d draws=%d material=%.2f±%.2f elapsed=%v",
		result.Games, result.WhiteWins, result.RedWins, result.Draws,
		result.MeanMaterial, result.MaterialCI, result.Elapsed)

	return result, nil
}

// playSelfGame plays one game: seeded random opening plies, then each side
// searches at its own depth until the game ends
func playSelfGame(ctx context.Context, white, red *Engine, opts MatchOptions, index int) (GameRecord, error) {
	rng := rand.New(rand.NewSource(opts.Seed + int64(index)*1000003))
	g := NewGame(white, GameOptions{MaxPlies: opts.MaxPlies})

	for g.plies < opts.RandomPlies && !g.Status().Over() {
		moves := g.AllMoves()
		n := 0
		for _, pm := range moves {
			n += len(pm.Moves)
		}
		k := rng.Intn(n)
		for _, pm := range moves {
			if k < len(pm.Moves) {
				if err := g.Play(pm.Piece.Square(), pm.Moves[k].To); err != nil {
					return GameRecord{}, err
				}
				break
			}
			k -= len(pm.Moves)
		}
	}

	for !g.Status().Over() {
		eng := red
		if g.turn == White {
			eng = white
		}
		if _, err := g.searchMove(ctx, eng); err != nil {
			return GameRecord{}, err
		}
	}

	return GameRecord{
		Index:    index,
		Status:   g.Status(),
		Plies:    g.plies,
		Material: g.board.Evaluate(),
	}, nil
}
