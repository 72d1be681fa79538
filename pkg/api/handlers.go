package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/yourusername/checkers/internal/positionid"
	"github.com/yourusername/checkers/internal/session"
	"github.com/yourusername/checkers/pkg/engine"
)

// ErrInvalidSide is returned for a side name other than red or white.
var ErrInvalidSide = errors.New("invalid side")

// maxRequestDepth bounds the search depth a client may ask for. Deeper
// searches are left to the command line tools.
const maxRequestDepth = 10

// Handlers holds the HTTP handlers, the engine and the live games.
type Handlers struct {
	engine  *engine.Engine
	games   *session.Manager
	version string
	pool    *WorkerPool
}

// NewHandlers creates a new Handlers instance without a worker pool.
func NewHandlers(e *engine.Engine, version string) *Handlers {
	return NewHandlersWithPool(e, version, nil)
}

// NewHandlersWithPool creates a new Handlers instance with a worker pool.
func NewHandlersWithPool(e *engine.Engine, version string, pool *WorkerPool) *Handlers {
	return &Handlers{
		engine:  e,
		games:   session.NewManager(),
		version: version,
		pool:    pool,
	}
}

// Games returns the session manager.
func (h *Handlers) Games() *session.Manager {
	return h.games
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, msg string, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: msg,
		Code:  code,
	})
}

// errorStatus maps an error to an HTTP status and error code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, session.ErrGameNotFound):
		return http.StatusNotFound, "GAME_NOT_FOUND"
	case errors.Is(err, engine.ErrGameOver):
		return http.StatusConflict, "GAME_OVER"
	case errors.Is(err, engine.ErrWrongSide):
		return http.StatusConflict, "WRONG_SIDE"
	case errors.Is(err, engine.ErrNoPiece):
		return http.StatusBadRequest, "NO_PIECE"
	case errors.Is(err, engine.ErrIllegalMove):
		return http.StatusBadRequest, "ILLEGAL_MOVE"
	case errors.Is(err, engine.ErrInvalidSquare):
		return http.StatusBadRequest, "INVALID_SQUARE"
	case errors.Is(err, positionid.ErrInvalidPositionID):
		return http.StatusBadRequest, "INVALID_POSITION"
	case errors.Is(err, engine.ErrInvalidDepth):
		return http.StatusBadRequest, "INVALID_DEPTH"
	case errors.Is(err, ErrInvalidSide):
		return http.StatusBadRequest, "INVALID_SIDE"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "CANCELLED"
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR"
}

// writeEngineError writes the response for an error from the engine or the
// session manager.
func writeEngineError(w http.ResponseWriter, err error) {
	status, code := errorStatus(err)
	writeError(w, status, err.Error(), code)
}

// acquire takes a pool slot for the request, writing 503 on failure:
// CANCELLED when the request ended first, SERVER_BUSY when the queue
// timeout did.
func (h *Handlers) acquire(w http.ResponseWriter, r *http.Request, l Lane) bool {
	if h.pool == nil {
		return true
	}
	if err := h.pool.Wait(r.Context(), l); err != nil {
		if r.Context().Err() != nil {
			writeEngineError(w, err)
			return false
		}
		writeError(w, http.StatusServiceUnavailable, "server busy", "SERVER_BUSY")
		return false
	}
	return true
}

func (h *Handlers) release(l Lane) {
	if h.pool != nil {
		h.pool.Release(l)
	}
}

// decodeJSON reads the request body into v, writing 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return false
	}
	return true
}

// parseSide parses "red" or "white", case-insensitively.
func parseSide(s string) (engine.Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "red":
		return engine.Red, nil
	case "white":
		return engine.White, nil
	}
	return engine.Red, fmt.Errorf("%w: %q", ErrInvalidSide, s)
}

// resolveDepth applies the engine default to an unset depth.
func (h *Handlers) resolveDepth(depth int) (int, error) {
	if depth == 0 {
		return h.engine.Depth(), nil
	}
	if depth < 1 || depth > maxRequestDepth {
		return 0, fmt.Errorf("%w: %d (want 1-%d)", engine.ErrInvalidDepth, depth, maxRequestDepth)
	}
	return depth, nil
}

// parsePosition decodes a required position ID.
func parsePosition(id string) (*engine.Board, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: position is required", positionid.ErrInvalidPositionID)
	}
	return engine.ParseBoard(id)
}

// ============================================================================
// Game operations shared by the HTTP and WebSocket transports
// ============================================================================

func (h *Handlers) createGame(req NewGameRequest) (GameStateResponse, error) {
	depth, err := h.resolveDepth(req.Depth)
	if err != nil {
		return GameStateResponse{}, err
	}
	human := engine.Red
	if req.HumanSide != "" {
		if human, err = parseSide(req.HumanSide); err != nil {
			return GameStateResponse{}, err
		}
	}

	eng := h.engine.WithDepth(depth).WithRules(req.Rules.Rules())
	g := engine.NewGame(eng, engine.GameOptions{HumanSide: human, MaxPlies: req.MaxPlies})
	id := h.games.Create(g)
	return GameToResponse(id, g), nil
}

func (h *Handlers) readGame(id string) (GameStateResponse, error) {
	var resp GameStateResponse
	err := h.games.With(id, func(g *engine.Game) error {
		resp = GameToResponse(id, g)
		return nil
	})
	return resp, err
}

func (h *Handlers) playMove(id string, req PlayRequest) (GameStateResponse, error) {
	from, err := engine.ParseSquare(req.From)
	if err != nil {
		return GameStateResponse{}, err
	}
	to, err := engine.ParseSquare(req.To)
	if err != nil {
		return GameStateResponse{}, err
	}

	var resp GameStateResponse
	err = h.games.With(id, func(g *engine.Game) error {
		if err := g.Play(from, to); err != nil {
			return err
		}
		resp = GameToResponse(id, g)
		return nil
	})
	return resp, err
}

func (h *Handlers) computerMove(ctx context.Context, id string) (GameStateResponse, error) {
	var resp GameStateResponse
	err := h.games.With(id, func(g *engine.Game) error {
		res, err := g.ComputerMove(ctx)
		if err != nil {
			return err
		}
		resp = GameToResponse(id, g)
		resp.Search = SearchToSummary(res)
		return nil
	})
	return resp, err
}

// ============================================================================
// HTTP handlers
// ============================================================================

// Health handles GET /api/health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "ok",
		Version: h.version,
		Ready:   h.engine != nil,
		Games:   h.games.Len(),
	}

	if h.pool != nil {
		stats := h.pool.Stats()
		resp.Pool = &stats
	}
	if h.engine != nil && h.engine.Cache() != nil {
		stats := h.engine.Cache().Stats()
		resp.Cache = &CacheStatsResponse{
			Size:    stats.Size,
			Lookups: stats.Lookups,
			Hits:    stats.Hits,
			HitRate: stats.HitRate,
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// NewGame handles POST /api/games
func (h *Handlers) NewGame(w http.ResponseWriter, r *http.Request) {
	if !h.acquire(w, r, Fast) {
		return
	}
	defer h.release(Fast)

	var req NewGameRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.createGame(req)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// GetGame handles GET /api/games/{id}
func (h *Handlers) GetGame(w http.ResponseWriter, r *http.Request) {
	if !h.acquire(w, r, Fast) {
		return
	}
	defer h.release(Fast)

	resp, err := h.readGame(r.PathValue("id"))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// DeleteGame handles DELETE /api/games/{id}
func (h *Handlers) DeleteGame(w http.ResponseWriter, r *http.Request) {
	if err := h.games.Delete(r.PathValue("id")); err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PlayMove handles POST /api/games/{id}/move
func (h *Handlers) PlayMove(w http.ResponseWriter, r *http.Request) {
	if !h.acquire(w, r, Fast) {
		return
	}
	defer h.release(Fast)

	var req PlayRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.playMove(r.PathValue("id"), req)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ComputerMove handles POST /api/games/{id}/ai
func (h *Handlers) ComputerMove(w http.ResponseWriter, r *http.Request) {
	if !h.acquire(w, r, Slow) {
		return
	}
	defer h.release(Slow)

	resp, err := h.computerMove(r.Context(), r.PathValue("id"))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Evaluate handles POST /api/evaluate
func (h *Handlers) Evaluate(w http.ResponseWriter, r *http.Request) {
	if !h.acquire(w, r, Fast) {
		return
	}
	defer h.release(Fast)

	var req EvaluateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	b, err := parsePosition(req.Position)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	resp := EvaluateResponse{
		Position:    b.ID(),
		Evaluation:  b.Evaluate(),
		WhitePieces: b.Count(engine.White),
		RedPieces:   b.Count(engine.Red),
	}
	for _, p := range b.PiecesOf(engine.White) {
		if p.King {
			resp.WhiteKings++
		}
	}
	for _, p := range b.PiecesOf(engine.Red) {
		if p.King {
			resp.RedKings++
		}
	}
	if winner, ok := b.Winner(); ok {
		resp.Winner = winner.String()
	}

	writeJSON(w, http.StatusOK, resp)
}

// Jumps handles POST /api/jumps
func (h *Handlers) Jumps(w http.ResponseWriter, r *http.Request) {
	if !h.acquire(w, r, Fast) {
		return
	}
	defer h.release(Fast)

	var req JumpsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	b, err := parsePosition(req.Position)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	sq, err := engine.ParseSquare(req.Square)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	p := b.At(sq)
	if p == nil {
		writeEngineError(w, fmt.Errorf("%w: %s", engine.ErrNoPiece, sq))
		return
	}

	writeJSON(w, http.StatusOK, JumpsResponse{
		Position: b.ID(),
		Square:   sq.String(),
		Moves:    legalMoves(sq, b.LegalMoves(p, req.Rules.Rules())),
	})
}

// Analyze handles POST /api/analyze
func (h *Handlers) Analyze(w http.ResponseWriter, r *http.Request) {
	if !h.acquire(w, r, Slow) {
		return
	}
	defer h.release(Slow)

	var req AnalyzeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	b, err := parsePosition(req.Position)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	side, err := parseSide(req.Side)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	depth, err := h.resolveDepth(req.Depth)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	analysis, err := h.engine.WithRules(req.Rules.Rules()).AnalyzePosition(b, side, depth)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	numMoves := req.NumMoves
	if numMoves <= 0 || numMoves > len(analysis.Moves) {
		numMoves = len(analysis.Moves)
	}
	moves := make([]RankedMoveResponse, numMoves)
	for i := 0; i < numMoves; i++ {
		moves[i] = rankedMoveResponse(analysis.Moves[i])
	}

	writeJSON(w, http.StatusOK, AnalyzeResponse{
		Position: b.ID(),
		Side:     side.String(),
		Depth:    depth,
		Moves:    moves,
		NumLegal: analysis.NumMoves,
	})
}

// Review handles POST /api/review
func (h *Handlers) Review(w http.ResponseWriter, r *http.Request) {
	if !h.acquire(w, r, Slow) {
		return
	}
	defer h.release(Slow)

	var req ReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	b, err := parsePosition(req.Position)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	side, err := parseSide(req.Side)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	from, err := engine.ParseSquare(req.From)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	to, err := engine.ParseSquare(req.To)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	depth, err := h.resolveDepth(req.Depth)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	review, err := h.engine.WithRules(req.Rules.Rules()).ReviewMove(b, side, from, to, depth)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	top := make([]RankedMoveResponse, len(review.TopMoves))
	for i, m := range review.TopMoves {
		top[i] = rankedMoveResponse(m)
	}
	writeJSON(w, http.StatusOK, ReviewResponse{
		Played:   rankedMoveResponse(review.Played),
		Best:     rankedMoveResponse(review.Best),
		Loss:     review.Loss,
		Skill:    review.Skill.String(),
		Forced:   review.IsForced,
		TopMoves: top,
	})
}
