package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/yourusername/checkers/pkg/engine"
)

// Self-play limits for the streaming endpoint
const (
	maxStreamGames = 100
	maxStreamDepth = 8
)

// SSEEvent represents a Server-Sent Event.
type SSEEvent struct {
	Event string      `json:"event"` // Event type: "progress", "result", "error", "done"
	Data  interface{} `json:"data"`  // Event data
}

// SelfPlaySSE streams engine-vs-engine match progress as Server-Sent Events.
// GET /api/selfplay/stream?games=...&white_depth=...&red_depth=...&random_plies=...&seed=...
func (h *Handlers) SelfPlaySSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeSSEError(w, "streaming not supported")
		return
	}

	query := r.URL.Query()
	opts := engine.MatchOptions{
		Games:       parseIntParam(query.Get("games"), 10),
		WhiteDepth:  parseIntParam(query.Get("white_depth"), 0),
		RedDepth:    parseIntParam(query.Get("red_depth"), 0),
		RandomPlies: parseIntParam(query.Get("random_plies"), 2),
		Seed:        int64(parseIntParam(query.Get("seed"), 0)),
		MaxPlies:    parseIntParam(query.Get("max_plies"), engine.DefaultMatchMaxPlies),
	}
	if opts.Games < 1 || opts.Games > maxStreamGames {
		writeSSEError(w, fmt.Sprintf("games must be between 1 and %d", maxStreamGames))
		return
	}
	if opts.WhiteDepth < 0 || opts.WhiteDepth > maxStreamDepth || opts.RedDepth < 0 || opts.RedDepth > maxStreamDepth {
		writeSSEError(w, fmt.Sprintf("depths must be at most %d", maxStreamDepth))
		return
	}

	if h.pool != nil {
		if err := h.pool.Wait(r.Context(), Slow); err != nil {
			writeSSEError(w, "server busy")
			return
		}
		defer h.pool.Release(Slow)
	}

	// Progress callback sends SSE events
	callback := func(p engine.MatchProgress) {
		writeSSEEvent(w, "progress", MatchProgressResponse{
			GamesCompleted: p.GamesCompleted,
			GamesTotal:     p.GamesTotal,
			Percent:        p.Percent,
			WhiteWins:      p.WhiteWins,
			RedWins:        p.RedWins,
			Draws:          p.Draws,
		})
		flusher.Flush()
	}

	result, err := h.engine.WithRules(engine.DefaultRules()).PlayMatch(r.Context(), opts, callback)
	if err != nil {
		writeSSEError(w, "self-play failed: "+err.Error())
		return
	}

	writeSSEEvent(w, "result", MatchResultResponse{
		Games:          result.Games,
		WhiteWins:      result.WhiteWins,
		RedWins:        result.RedWins,
		Draws:          result.Draws,
		MeanMaterial:   result.MeanMaterial,
		MaterialStdDev: result.MaterialStdDev,
		MaterialCI:     result.MaterialCI,
		MeanPlies:      result.MeanPlies,
		ElapsedMs:      float64(result.Elapsed.Microseconds()) / 1000,
	})
	flusher.Flush()

	// Send done event to signal completion
	writeSSEEvent(w, "done", nil)
	flusher.Flush()
}

// writeSSEEvent writes a Server-Sent Event to the response.
func writeSSEEvent(w http.ResponseWriter, event string, data interface{}) {
	fmt.Fprintf(w, "event: %s\n", event)
	if data != nil {
		jsonData, _ := json.Marshal(data)
		fmt.Fprintf(w, "data: %s\n", jsonData)
	}
	fmt.Fprintf(w, "\n")
}

// writeSSEError writes an error event and closes the stream.
func writeSSEError(w http.ResponseWriter, message string) {
	writeSSEEvent(w, "error", map[string]string{"error": message})
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
}

// parseIntParam parses an integer from a string with a default value.
func parseIntParam(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	var val int
	if _, err := fmt.Sscanf(s, "%d", &val); err != nil {
		return defaultVal
	}
	return val
}
