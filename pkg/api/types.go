// Package api provides the HTTP/JSON API for the checkers engine.
package api

import (
	"github.com/yourusername/checkers/internal/positionid"
	"github.com/yourusername/checkers/pkg/engine"
)

// ============================================================================
// Request Types
// ============================================================================

// RulesRequest selects the move rules. The zero value is the standard game
// with optional captures.
type RulesRequest struct {
	CapturesOnly     bool `json:"captures_only,omitempty"`     // No slides, captures only
	MandatoryCapture bool `json:"mandatory_capture,omitempty"` // No slides while a capture exists
}

// Rules converts the request to engine rules; nil means the default rules.
func (r *RulesRequest) Rules() engine.Rules {
	if r == nil {
		return engine.DefaultRules()
	}
	return engine.Rules{Slides: !r.CapturesOnly, MandatoryCapture: r.MandatoryCapture}
}

// NewGameRequest is the request body for starting a game.
type NewGameRequest struct {
	Depth     int           `json:"depth,omitempty"`      // Engine search depth (default server depth)
	HumanSide string        `json:"human_side,omitempty"` // "red" (default) or "white"
	MaxPlies  int           `json:"max_plies,omitempty"`  // Draw after N plies (0 = unlimited)
	Rules     *RulesRequest `json:"rules,omitempty"`      // Move rules
}

// PlayRequest is the request body for a human move.
type PlayRequest struct {
	From string `json:"from"` // Square, e.g. "C6"
	To   string `json:"to"`   // Square, e.g. "D5"
}

// EvaluateRequest is the request body for static evaluation.
type EvaluateRequest struct {
	Position string `json:"position"` // Position ID
}

// JumpsRequest is the request body for listing one piece's moves.
type JumpsRequest struct {
	Position string        `json:"position"`        // Position ID
	Square   string        `json:"square"`          // Square of the piece
	Rules    *RulesRequest `json:"rules,omitempty"` // Move rules (default: standard)
}

// AnalyzeRequest is the request body for ranking every move of a side.
type AnalyzeRequest struct {
	Position string        `json:"position"`            // Position ID
	Side     string        `json:"side"`                // Side to move: "red" or "white"
	Depth    int           `json:"depth,omitempty"`     // Search depth (default server depth)
	NumMoves int           `json:"num_moves,omitempty"` // Max moves to return (0 = all)
	Rules    *RulesRequest `json:"rules,omitempty"`     // Move rules
}

// ReviewRequest is the request body for rating a played move.
type ReviewRequest struct {
	Position string        `json:"position"`        // Position ID before the move
	Side     string        `json:"side"`            // Side that moved
	From     string        `json:"from"`            // Origin square
	To       string        `json:"to"`              // Destination square
	Depth    int           `json:"depth,omitempty"` // Search depth (default server depth)
	Rules    *RulesRequest `json:"rules,omitempty"` // Move rules
}

// ============================================================================
// Response Types
// ============================================================================

// LegalMove is one destination of a piece.
type LegalMove struct {
	From     string   `json:"from"`
	To       string   `json:"to"`
	Captures []string `json:"captures,omitempty"` // Captured squares, first jumped first
}

// SearchSummary describes the engine search behind a computer move.
type SearchSummary struct {
	Score     int     `json:"score"` // Positive favours WHITE
	Depth     int     `json:"depth"`
	Nodes     int64   `json:"nodes"`
	ElapsedMs float64 `json:"elapsed_ms"`
}

// GameStateResponse is the state of a game.
type GameStateResponse struct {
	GameID    string           `json:"game_id"`
	Position  string           `json:"position"` // Position ID
	Board     positionid.Board `json:"board"`    // Signed values, [row][col]
	Turn      string           `json:"turn"`
	HumanSide string           `json:"human_side"`
	Status    string           `json:"status"` // "in_progress", "won", "drawn"
	Winner    string           `json:"winner,omitempty"`
	Reason    string           `json:"reason,omitempty"`
	Plies     int              `json:"plies"`
	Legal     []LegalMove      `json:"legal"`            // Moves of the side to move
	Search    *SearchSummary   `json:"search,omitempty"` // Set after a computer move
}

// EvaluateResponse is the static evaluation of a position.
type EvaluateResponse struct {
	Position    string `json:"position"`
	Evaluation  int    `json:"evaluation"` // Material balance, positive favours WHITE
	WhitePieces int    `json:"white_pieces"`
	RedPieces   int    `json:"red_pieces"`
	WhiteKings  int    `json:"white_kings"`
	RedKings    int    `json:"red_kings"`
	Winner      string `json:"winner,omitempty"`
}

// JumpsResponse lists the moves of one piece.
type JumpsResponse struct {
	Position string      `json:"position"`
	Square   string      `json:"square"`
	Moves    []LegalMove `json:"moves"`
}

// RankedMoveResponse is a move with its search score.
type RankedMoveResponse struct {
	From     string   `json:"from"`
	To       string   `json:"to"`
	Captures []string `json:"captures,omitempty"`
	Score    int      `json:"score"`
	Position string   `json:"position"` // Position ID after the move
}

// AnalyzeResponse ranks the moves of a side, best first.
type AnalyzeResponse struct {
	Position string               `json:"position"`
	Side     string               `json:"side"`
	Depth    int                  `json:"depth"`
	Moves    []RankedMoveResponse `json:"moves"`
	NumLegal int                  `json:"num_legal"`
}

// ReviewResponse rates a played move.
type ReviewResponse struct {
	Played   RankedMoveResponse   `json:"played"`
	Best     RankedMoveResponse   `json:"best"`
	Loss     int                  `json:"loss"`
	Skill    string               `json:"skill"`
	Forced   bool                 `json:"forced"`
	TopMoves []RankedMoveResponse `json:"top_moves"`
}

// CacheStatsResponse reports analysis cache usage.
type CacheStatsResponse struct {
	Size    uint32  `json:"size"`
	Lookups uint64  `json:"lookups"`
	Hits    uint64  `json:"hits"`
	HitRate float64 `json:"hit_rate"`
}

// HealthResponse is the response for health check.
type HealthResponse struct {
	Status  string              `json:"status"`
	Version string              `json:"version"`
	Ready   bool                `json:"ready"`
	Games   int                 `json:"games"`
	Pool    *PoolStats          `json:"pool,omitempty"`
	Cache   *CacheStatsResponse `json:"cache,omitempty"`
}

// MatchProgressResponse is a self-play progress event.
type MatchProgressResponse struct {
	GamesCompleted int     `json:"games_completed"`
	GamesTotal     int     `json:"games_total"`
	Percent        float64 `json:"percent"`
	WhiteWins      int     `json:"white_wins"`
	RedWins        int     `json:"red_wins"`
	Draws          int     `json:"draws"`
}

// MatchResultResponse is the final self-play event.
type MatchResultResponse struct {
	Games          int     `json:"games"`
	WhiteWins      int     `json:"white_wins"`
	RedWins        int     `json:"red_wins"`
	Draws          int     `json:"draws"`
	MeanMaterial   float64 `json:"mean_material"`
	MaterialStdDev float64 `json:"material_stddev"`
	MaterialCI     float64 `json:"material_ci"`
	MeanPlies      float64 `json:"mean_plies"`
	ElapsedMs      float64 `json:"elapsed_ms"`
}

// ErrorResponse is returned when an error occurs.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// ============================================================================
// Conversions
// ============================================================================

func squareNames(pieces []*engine.Piece) []string {
	if len(pieces) == 0 {
		return nil
	}
	names := make([]string, len(pieces))
	for i, p := range pieces {
		names[i] = p.Square().String()
	}
	return names
}

func legalMoves(from engine.Square, moves engine.CaptureMap) []LegalMove {
	out := make([]LegalMove, len(moves))
	for i, j := range moves {
		out[i] = LegalMove{From: from.String(), To: j.To.String(), Captures: squareNames(j.Captured)}
	}
	return out
}

func rankedMoveResponse(m engine.RankedMove) RankedMoveResponse {
	var captures []string
	for _, sq := range m.Captured {
		captures = append(captures, sq.String())
	}
	return RankedMoveResponse{
		From:     m.From.String(),
		To:       m.To.String(),
		Captures: captures,
		Score:    m.Score,
		Position: m.Position,
	}
}

// GameToResponse converts a game to its API representation.
func GameToResponse(id string, g *engine.Game) GameStateResponse {
	b := g.Board()
	st := g.Status()
	resp := GameStateResponse{
		GameID:    id,
		Position:  b.ID(),
		Board:     b.Cells(),
		Turn:      g.Turn().String(),
		HumanSide: g.HumanSide().String(),
		Status:    st.State.String(),
		Reason:    st.Reason,
		Plies:     g.Plies(),
		Legal:     []LegalMove{},
	}
	if st.State == engine.Won {
		resp.Winner = st.Winner.String()
	}
	for _, pm := range g.AllMoves() {
		resp.Legal = append(resp.Legal, legalMoves(pm.Piece.Square(), pm.Moves)...)
	}
	return resp
}

// SearchToSummary converts a search result to its API representation.
func SearchToSummary(res *engine.SearchResult) *SearchSummary {
	return &SearchSummary{
		Score:     res.Score,
		Depth:     res.Depth,
		Nodes:     res.Nodes,
		ElapsedMs: float64(res.Elapsed.Microseconds()) / 1000,
	}
}
