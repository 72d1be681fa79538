package engine

import (
	"context"
	"errors"
	"fmt"
)

// Game errors
var (
	ErrGameOver    = errors.New("game is over")
	ErrNoPiece     = errors.New("no piece on square")
	ErrWrongSide   = errors.New("piece belongs to the other side")
	ErrIllegalMove = errors.New("illegal move")
)

// GameState is the coarse state of a game
type GameState int

const (
	InProgress GameState = iota
	Won
	Drawn
)

// String returns the lower-case state name
func (s GameState) String() string {
	return [...]string{"in_progress", "won", "drawn"}[s]
}

// Status reasons
const (
	ReasonNoPieces = "no pieces"
	ReasonBlocked  = "blocked"
	ReasonPlyLimit = "ply limit"
)

// Status describes whether and how a game has ended.
// Winner is only meaningful when State is Won.
type Status struct {
	State  GameState
	Winner Side
	Reason string
}

// Over reports whether the game has finished
func (s Status) Over() bool {
	return s.State != InProgress
}

// GameOptions configures a game
type GameOptions struct {
	HumanSide Side // Side played by the human (zero value RED)
	MaxPlies  int  // Draw once this many plies are played (0 = unlimited)
}

// Game holds one game between a human and the engine. RED moves first.
// A Game is not safe for concurrent use.
type Game struct {
	engine   *Engine
	board    *Board
	turn     Side
	human    Side
	plies    int
	maxPlies int
	history  []string
}

// NewGame starts a game from the initial position
func NewGame(eng *Engine, opts GameOptions) *Game {
	return NewGameFrom(eng, NewBoard(), Red, opts)
}

// NewGameFrom starts a game from an arbitrary position with turn to move
func NewGameFrom(eng *Engine, b *Board, turn Side, opts GameOptions) *Game {
	g := &Game{
		engine:   eng,
		board:    b,
		turn:     turn,
		human:    opts.HumanSide,
		maxPlies: opts.MaxPlies,
	}
	g.history = append(g.history, b.ID())
	return g
}

// Board returns the current position. Callers must not modify it.
func (g *Game) Board() *Board { return g.board }

// Turn returns the side to move
func (g *Game) Turn() Side { return g.turn }

// Plies returns the number of plies played
func (g *Game) Plies() int { return g.plies }

// HumanSide returns the side played by the human
func (g *Game) HumanSide() Side { return g.human }

// ComputerSide returns the side played by the engine
func (g *Game) ComputerSide() Side { return g.human.Opponent() }

// ComputerToMove reports whether it is the engine's turn
func (g *Game) ComputerToMove() bool { return g.turn != g.human }

// Rules returns the rules the game is played under
func (g *Game) Rules() Rules { return g.engine.rules }

// History returns the position IDs of the game, starting position first
func (g *Game) History() []string {
	return append([]string(nil), g.history...)
}

// Status reports the outcome: a side without pieces loses, then the side to
// move loses when it has no legal move, then the ply limit draws
func (g *Game) Status() Status {
	if winner, ok := g.board.Winner(); ok {
		return Status{State: Won, Winner: winner, Reason: ReasonNoPieces}
	}
	if !g.board.SideHasMoves(g.turn, g.engine.rules) {
		return Status{State: Won, Winner: g.turn.Opponent(), Reason: ReasonBlocked}
	}
	if g.maxPlies > 0 && g.plies >= g.maxPlies {
		return Status{State: Drawn, Reason: ReasonPlyLimit}
	}
	return Status{State: InProgress}
}

// LegalMoves returns the legal moves of the side-to-move piece on from
func (g *Game) LegalMoves(from Square) (CaptureMap, error) {
	p, err := g.pieceToMove(from)
	if err != nil {
		return nil, err
	}
	return g.board.LegalMoves(p, g.engine.rules), nil
}

// AllMoves returns the legal moves of every piece of the side to move
func (g *Game) AllMoves() []PieceMoves {
	if g.Status().Over() {
		return nil
	}
	return g.board.SideMoves(g.turn, g.engine.rules)
}

// Play moves the piece on from to to, removing any captured pieces
func (g *Game) Play(from, to Square) error {
	moves, err := g.LegalMoves(from)
	if err != nil {
		return err
	}
	j, ok := moves.Lookup(to)
	if !ok {
		return fmt.Errorf("%w: %s-%s", ErrIllegalMove, from, to)
	}

	g.board.Play(from, j)
	g.advance()
	return nil
}

// ComputerMove lets the engine play for the side to move
func (g *Game) ComputerMove(ctx context.Context) (*SearchResult, error) {
	return g.searchMove(ctx, g.engine)
}

func (g *Game) searchMove(ctx context.Context, eng *Engine) (*SearchResult, error) {
	if g.Status().Over() {
		return nil, ErrGameOver
	}

	res, err := eng.BestMove(ctx, g.board, g.turn)
	if err != nil {
		return nil, err
	}
	if !res.Moved {
		return nil, fmt.Errorf("%w: search returned no move for %s", ErrIllegalMove, g.turn)
	}

	g.board = res.Board
	g.advance()
	return res, nil
}

func (g *Game) pieceToMove(from Square) (*Piece, error) {
	if g.Status().Over() {
		return nil, ErrGameOver
	}
	if !from.OnBoard() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSquare, from)
	}
	p := g.board.At(from)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoPiece, from)
	}
	if p.Side != g.turn {
		return nil, fmt.Errorf("%w: %s is %s, %s to move", ErrWrongSide, from, p.Side, g.turn)
	}
	return p, nil
}

func (g *Game) advance() {
	g.turn = g.turn.Opponent()
	g.plies++
	g.history = append(g.history, g.board.ID())
}
