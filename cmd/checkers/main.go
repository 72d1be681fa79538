// checkers - play and analyze checkers from the terminal
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/yourusername/checkers/pkg/engine"
)

const (
	ansiRed   = "\033[31m"
	ansiReset = "\033[0m"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "play":
		cmdPlay(args)
	case "eval":
		cmdEval(args)
	case "jumps":
		cmdJumps(args)
	case "best":
		cmdBest(args)
	case "selfplay":
		cmdSelfPlay(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`checkers - Checkers engine

Usage: checkers <command> [options]

Commands:
  play      Play against the engine
  eval      Material evaluation of a position
  jumps     List the moves of one piece
  best      Rank the moves of a side
  selfplay  Engine versus engine match

Use "checkers <command> -h" for command-specific help.

Position ID Format:
  Eight groups of four dark squares, row 1 first, separated by '/'.
  '.' is empty, 'w'/'W' a white man/king, 'r'/'R' a red man/king.
  Start: "wwww/wwww/wwww/..../..../rrrr/rrrr/rrrr"

Squares are a column letter and a row number, e.g. C6.`)
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// rulesFlags registers the move rule flags on fs
func rulesFlags(fs *flag.FlagSet) func() engine.Rules {
	capturesOnly := fs.Bool("captures-only", false, "Only captures are legal, no slides")
	mandatory := fs.Bool("mandatory", false, "Slides are illegal while a capture exists")
	return func() engine.Rules {
		return engine.Rules{Slides: !*capturesOnly, MandatoryCapture: *mandatory}
	}
}

// positionFlag registers -position and its short form -p
func positionFlag(fs *flag.FlagSet) func() string {
	posFlag := fs.String("position", "", "Position ID")
	posShort := fs.String("p", "", "Position ID (short form)")
	return func() string {
		if *posFlag != "" {
			return *posFlag
		}
		return *posShort
	}
}

func parseSide(s string) (engine.Side, error) {
	switch strings.ToLower(s) {
	case "red", "r":
		return engine.Red, nil
	case "white", "w":
		return engine.White, nil
	}
	return engine.Red, fmt.Errorf("side must be red or white, got %q", s)
}

// renderBoard draws b with red pieces in color, row 1 at the top
func renderBoard(w io.Writer, b *engine.Board) {
	cells := b.Cells()
	fmt.Fprint(w, "   ")
	for col := 0; col < engine.Size; col++ {
		fmt.Fprintf(w, " %c ", 'A'+col)
	}
	fmt.Fprintln(w)
	for row := 0; row < engine.Size; row++ {
		fmt.Fprintf(w, "%d  ", row+1)
		for col := 0; col < engine.Size; col++ {
			switch v := cells[row][col]; {
			case v > 0:
				fmt.Fprintf(w, "[%c]", "wW"[v-1])
			case v < 0:
				fmt.Fprintf(w, "[%s%c%s]", ansiRed, "rR"[-v-1], ansiReset)
			default:
				fmt.Fprint(w, "[ ]")
			}
		}
		fmt.Fprintln(w)
	}
}

func formatJump(from engine.Square, j engine.Jump) string {
	s := from.String() + "-" + j.To.String()
	if j.IsCapture() {
		var taken []string
		for _, p := range j.Captured {
			taken = append(taken, p.Square().String())
		}
		s += " x" + strings.Join(taken, ",")
	}
	return s
}

func cmdPlay(args []string) {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	depth := fs.Int("depth", engine.DefaultDepth, "Engine search depth")
	human := fs.String("human", "red", "Side you play (red moves first)")
	maxPlies := fs.Int("max-plies", 0, "Draw after N plies (0 = unlimited)")
	tutor := fs.Bool("tutor", false, "Rate each of your moves")
	verbose := fs.Bool("v", false, "Log engine searches")
	rules := rulesFlags(fs)
	fs.Parse(args)

	humanSide, err := parseSide(*human)
	if err != nil {
		fatal("%v", err)
	}

	opts := engine.EngineOptions{Depth: *depth, Rules: rules()}
	if *verbose {
		opts.Logger = log.New(os.Stderr, "engine: ", log.Ltime)
	}
	eng := engine.NewEngine(opts)
	g := engine.NewGame(eng, engine.GameOptions{HumanSide: humanSide, MaxPlies: *maxPlies})

	fmt.Printf("You play %s, the engine searches %d plies (%s).\n", humanSide, eng.Depth(), eng.Rules())
	fmt.Println("Enter moves as <from> <to>, e.g. \"C6 D5\". \"moves\" lists your options, \"quit\" ends the game.")

	in := bufio.NewScanner(os.Stdin)
	for !g.Status().Over() {
		fmt.Println()
		renderBoard(os.Stdout, g.Board())

		if g.ComputerToMove() {
			res, err := g.ComputerMove(context.Background())
			if err != nil {
				fatal("engine move failed: %v", err)
			}
			fmt.Printf("%s plays (score %+d, %d nodes, %s)\n",
				res.Side, res.Score, res.Nodes, res.Elapsed.Round(time.Millisecond))
			continue
		}

		fmt.Printf("%s to move> ", g.Turn())
		if !in.Scan() {
			return
		}
		line := strings.TrimSpace(in.Text())
		switch line {
		case "":
			continue
		case "quit", "q":
			return
		case "moves", "m":
			for _, pm := range g.AllMoves() {
				for _, j := range pm.Moves {
					fmt.Println("  " + formatJump(pm.Piece.Square(), j))
				}
			}
			continue
		}

		fields := strings.Fields(strings.ReplaceAll(line, "-", " "))
		if len(fields) != 2 {
			fmt.Println("Enter two squares, e.g. \"C6 D5\"")
			continue
		}
		from, err := engine.ParseSquare(fields[0])
		if err != nil {
			fmt.Println(err)
			continue
		}
		to, err := engine.ParseSquare(fields[1])
		if err != nil {
			fmt.Println(err)
			continue
		}

		var review *engine.MoveReview
		if *tutor {
			review, err = eng.ReviewMove(g.Board(), g.Turn(), from, to, eng.Depth())
			if err != nil && !errors.Is(err, engine.ErrIllegalMove) {
				fatal("review failed: %v", err)
			}
		}
		if err := g.Play(from, to); err != nil {
			fmt.Println(err)
			continue
		}
		if review != nil && review.Skill != engine.SkillNone {
			fmt.Printf("Tutor: %s (lost %d), better was %s-%s\n",
				review.Skill, review.Loss, review.Best.From, review.Best.To)
		}
	}

	fmt.Println()
	renderBoard(os.Stdout, g.Board())
	st := g.Status()
	if st.State == engine.Won {
		fmt.Printf("%s wins (%s) after %d plies\n", st.Winner, st.Reason, g.Plies())
	} else {
		fmt.Printf("Draw (%s) after %d plies\n", st.Reason, g.Plies())
	}
}

func cmdEval(args []string) {
	fs := flag.NewFlagSet("eval", flag.ExitOnError)
	position := positionFlag(fs)
	fs.Parse(args)

	if position() == "" {
		fmt.Fprintln(os.Stderr, "Error: position required")
		fmt.Fprintln(os.Stderr, "Usage: checkers eval -position <positionID>")
		os.Exit(1)
	}

	b, err := engine.ParseBoard(position())
	if err != nil {
		fatal("%v", err)
	}

	renderBoard(os.Stdout, b)
	fmt.Printf("Evaluation: %+d (positive favours WHITE)\n", b.Evaluate())
	fmt.Printf("  WHITE: %d pieces\n", b.Count(engine.White))
	fmt.Printf("  RED:   %d pieces\n", b.Count(engine.Red))
	if winner, ok := b.Winner(); ok {
		fmt.Printf("  Winner: %s\n", winner)
	}
}

func cmdJumps(args []string) {
	fs := flag.NewFlagSet("jumps", flag.ExitOnError)
	position := positionFlag(fs)
	square := fs.String("s", "", "Square of the piece, e.g. C6")
	rules := rulesFlags(fs)
	fs.Parse(args)

	if position() == "" || *square == "" {
		fmt.Fprintln(os.Stderr, "Error: position and square required")
		fmt.Fprintln(os.Stderr, "Usage: checkers jumps -position <positionID> -s <square>")
		os.Exit(1)
	}

	b, err := engine.ParseBoard(position())
	if err != nil {
		fatal("%v", err)
	}
	sq, err := engine.ParseSquare(*square)
	if err != nil {
		fatal("%v", err)
	}
	p := b.At(sq)
	if p == nil {
		fatal("no piece on %s", sq)
	}

	moves := b.LegalMoves(p, rules())
	if len(moves) == 0 {
		kind := "man"
		if p.King {
			kind = "king"
		}
		fmt.Printf("%s %s on %s has no moves\n", p.Side, kind, sq)
		return
	}
	for _, j := range moves {
		fmt.Println(formatJump(sq, j))
	}
}

func cmdBest(args []string) {
	fs := flag.NewFlagSet("best", flag.ExitOnError)
	position := positionFlag(fs)
	side := fs.String("side", "red", "Side to move")
	depth := fs.Int("depth", engine.DefaultDepth, "Search depth")
	numMoves := fs.Int("n", 5, "Number of moves to show")
	rules := rulesFlags(fs)
	fs.Parse(args)

	if position() == "" {
		fmt.Fprintln(os.Stderr, "Error: position required")
		fmt.Fprintln(os.Stderr, "Usage: checkers best -position <positionID> -side <red|white> [-depth N]")
		os.Exit(1)
	}

	b, err := engine.ParseBoard(position())
	if err != nil {
		fatal("%v", err)
	}
	s, err := parseSide(*side)
	if err != nil {
		fatal("%v", err)
	}

	eng := engine.NewEngine(engine.EngineOptions{Depth: *depth, Rules: rules()})
	moves, err := eng.RankMoves(b, s, *depth)
	if err != nil {
		fatal("%v", err)
	}
	if len(moves) == 0 {
		fmt.Printf("%s has no legal moves\n", s)
		return
	}

	fmt.Printf("Best moves for %s (depth %d):\n", s, *depth)
	for i, m := range moves {
		if i >= *numMoves {
			break
		}
		mv := m.From.String() + "-" + m.To.String()
		if len(m.Captured) > 0 {
			var taken []string
			for _, sq := range m.Captured {
				taken = append(taken, sq.String())
			}
			mv += " x" + strings.Join(taken, ",")
		}
		fmt.Printf("  %d. %-20s  Score: %+d\n", i+1, mv, m.Score)
	}
}

func cmdSelfPlay(args []string) {
	fs := flag.NewFlagSet("selfplay", flag.ExitOnError)
	games := fs.Int("games", 10, "Number of games")
	whiteDepth := fs.Int("white-depth", engine.DefaultDepth, "WHITE search depth")
	redDepth := fs.Int("red-depth", engine.DefaultDepth, "RED search depth")
	randomPlies := fs.Int("random-plies", 2, "Random opening plies")
	workers := fs.Int("workers", 0, "Games played in parallel (0 = auto)")
	maxPlies := fs.Int("max-plies", engine.DefaultMatchMaxPlies, "Draw after N plies")
	seed := fs.Int64("seed", 0, "Random seed (0 = random)")
	rules := rulesFlags(fs)
	fs.Parse(args)

	eng := engine.NewEngine(engine.EngineOptions{Rules: rules()})
	opts := engine.MatchOptions{
		Games:       *games,
		WhiteDepth:  *whiteDepth,
		RedDepth:    *redDepth,
		RandomPlies: *randomPlies,
		Seed:        *seed,
		Workers:     *workers,
		MaxPlies:    *maxPlies,
	}

	result, err := eng.PlayMatch(context.Background(), opts, func(p engine.MatchProgress) {
		fmt.Fprintf(os.Stderr, "\r%d/%d games (%.0f%%)", p.GamesCompleted, p.GamesTotal, p.Percent)
	})
	fmt.Fprintln(os.Stderr)
	if err != nil {
		fatal("self-play failed: %v", err)
	}

	fmt.Printf("Self-play (%d games, WHITE depth %d vs RED depth %d, %.1fs):\n",
		result.Games, *whiteDepth, *redDepth, result.Elapsed.Seconds())
	fmt.Printf("  WHITE wins: %d\n", result.WhiteWins)
	fmt.Printf("  RED wins:   %d\n", result.RedWins)
	fmt.Printf("  Draws:      %d\n", result.Draws)
	fmt.Printf("  Material:   %+.2f ± %.2f (95%% CI: ±%.2f)\n",
		result.MeanMaterial, result.MaterialStdDev, result.MaterialCI)
	fmt.Printf("  Mean plies: %.1f\n", result.MeanPlies)
}
