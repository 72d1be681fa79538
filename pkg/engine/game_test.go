package engine

import (
	"context"
	"errors"
	"testing"
)

func newTestEngine(depth int) *Engine {
	return NewEngine(EngineOptions{Depth: depth, Rules: DefaultRules(), Workers: 1, CacheSize: -1})
}

func TestNewGame(t *testing.T) {
	g := NewGame(newTestEngine(2), GameOptions{})

	if g.Turn() != Red {
		t.Errorf("Turn() = %s, want RED", g.Turn())
	}
	if g.HumanSide() != Red || g.ComputerSide() != White {
		t.Errorf("human=%s computer=%s", g.HumanSide(), g.ComputerSide())
	}
	if g.ComputerToMove() {
		t.Error("computer to move at the start with a RED human")
	}
	if st := g.Status(); st.Over() {
		t.Errorf("Status() = %+v, want in progress", st)
	}
	if h := g.History(); len(h) != 1 || h[0] != NewBoard().ID() {
		t.Errorf("History() = %v", h)
	}
}

func TestGamePlayValidation(t *testing.T) {
	g := NewGame(newTestEngine(2), GameOptions{})

	tests := []struct {
		name     string
		from, to Square
		want     error
	}{
		{"empty square", Square{4, 1}, Square{3, 2}, ErrNoPiece},
		{"opponent piece", Square{2, 1}, Square{3, 2}, ErrWrongSide},
		{"blocked destination", Square{6, 1}, Square{5, 2}, ErrIllegalMove},
		{"backward move", Square{5, 2}, Square{6, 3}, ErrIllegalMove},
		{"off board", Square{8, 1}, Square{7, 0}, ErrInvalidSquare},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := g.Play(tc.from, tc.to); !errors.Is(err, tc.want) {
				t.Errorf("Play(%s, %s) error = %v, want %v", tc.from, tc.to, err, tc.want)
			}
		})
	}
	if g.Plies() != 0 || g.Turn() != Red {
		t.Error("a rejected move changed the game")
	}
}

func TestGamePlayAndComputerMove(t *testing.T) {
	g := NewGame(newTestEngine(2), GameOptions{})

	moves, err := g.LegalMoves(Square{5, 2})
	if err != nil {
		t.Fatalf("LegalMoves error: %v", err)
	}
	if len(moves) != 2 {
		t.Fatalf("legal moves from C6 = %v, want two slides", moves.Destinations())
	}

	if err := g.Play(Square{5, 2}, Square{4, 3}); err != nil {
		t.Fatalf("Play error: %v", err)
	}
	if g.Turn() != White || g.Plies() != 1 {
		t.Errorf("after RED move: turn=%s plies=%d", g.Turn(), g.Plies())
	}
	if g.Board().Occupant(4, 3) == nil || g.Board().Occupant(5, 2) != nil {
		t.Error("the piece did not move")
	}
	if !g.ComputerToMove() {
		t.Error("expected the computer to move")
	}

	res, err := g.ComputerMove(context.Background())
	if err != nil {
		t.Fatalf("ComputerMove error: %v", err)
	}
	if res.Side != White || !res.Moved {
		t.Errorf("result side=%s moved=%v", res.Side, res.Moved)
	}
	if g.Turn() != Red || g.Plies() != 2 {
		t.Errorf("after computer move: turn=%s plies=%d", g.Turn(), g.Plies())
	}
	if g.Board() != res.Board {
		t.Error("the game did not adopt the searched board")
	}
	if len(g.History()) != 3 {
		t.Errorf("history length = %d, want 3", len(g.History()))
	}
}

func TestGameCaptureRemovesPieces(t *testing.T) {
	b := EmptyBoard()
	b.Place(Red, 5, 2, false)
	b.Place(White, 4, 3, false)
	b.Place(White, 2, 5, false)
	b.Place(White, 0, 1, false)
	g := NewGameFrom(newTestEngine(2), b, Red, GameOptions{})

	if err := g.Play(Square{5, 2}, Square{1, 6}); err != nil {
		t.Fatalf("Play error: %v", err)
	}
	if n := g.Board().Count(White); n != 1 {
		t.Errorf("white pieces after double jump = %d, want 1", n)
	}
}

func TestGameStatus(t *testing.T) {
	t.Run("no pieces", func(t *testing.T) {
		b := EmptyBoard()
		b.Place(White, 2, 1, false)
		g := NewGameFrom(newTestEngine(2), b, Red, GameOptions{})
		st := g.Status()
		if st.State != Won || st.Winner != White || st.Reason != ReasonNoPieces {
			t.Errorf("Status() = %+v", st)
		}
		if err := g.Play(Square{2, 1}, Square{3, 2}); !errors.Is(err, ErrGameOver) {
			t.Errorf("Play after the end: %v, want ErrGameOver", err)
		}
	})

	t.Run("blocked", func(t *testing.T) {
		b := EmptyBoard()
		b.Place(Red, 5, 0, false)
		b.Place(White, 4, 1, false)
		b.Place(White, 3, 2, false)
		g := NewGameFrom(newTestEngine(2), b, Red, GameOptions{})
		st := g.Status()
		if st.State != Won || st.Winner != White || st.Reason != ReasonBlocked {
			t.Errorf("Status() = %+v", st)
		}
		if _, err := g.ComputerMove(context.Background()); !errors.Is(err, ErrGameOver) {
			t.Errorf("ComputerMove when blocked: %v, want ErrGameOver", err)
		}
	})

	t.Run("captures-only opening", func(t *testing.T) {
		e := NewEngine(EngineOptions{Depth: 2, Workers: 1})
		g := NewGame(e, GameOptions{})
		if st := g.Status(); st.State != Won || st.Winner != White {
			t.Errorf("Status() = %+v, want RED blocked", st)
		}
	})

	t.Run("ply limit", func(t *testing.T) {
		g := NewGame(newTestEngine(1), GameOptions{MaxPlies: 2})
		ctx := context.Background()
		for i := 0; i < 2; i++ {
			if _, err := g.ComputerMove(ctx); err != nil {
				t.Fatalf("ComputerMove %d: %v", i, err)
			}
		}
		st := g.Status()
		if st.State != Drawn || st.Reason != ReasonPlyLimit {
			t.Errorf("Status() = %+v, want drawn by ply limit", st)
		}
		if _, err := g.ComputerMove(ctx); !errors.Is(err, ErrGameOver) {
			t.Errorf("ComputerMove after the limit: %v", err)
		}
	})
}

func TestGameHumanSideWhite(t *testing.T) {
	g := NewGame(newTestEngine(1), GameOptions{HumanSide: White})
	if !g.ComputerToMove() {
		t.Error("computer should open when the human plays WHITE")
	}
	if _, err := g.ComputerMove(context.Background()); err != nil {
		t.Fatalf("ComputerMove error: %v", err)
	}
	if g.ComputerToMove() {
		t.Error("expected the human to move")
	}
}
