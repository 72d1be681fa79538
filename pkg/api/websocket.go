package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// Connection keepalive: the server pings every pingPeriod and drops a
// client that has sent nothing, not even a pong, for pongWait.
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// WSMessage is a generic WebSocket message.
type WSMessage struct {
	Type    string          `json:"type"`    // Message type: "new", "state", "move", "ai", "ping"
	ID      string          `json:"id"`      // Request ID for correlating responses
	Payload json.RawMessage `json:"payload"` // Type-specific payload
}

// WSResponse is a generic WebSocket response.
type WSResponse struct {
	Type    string      `json:"type"`              // Response type: "result", "error", "pong"
	ID      string      `json:"id,omitempty"`      // Request ID
	Payload interface{} `json:"payload,omitempty"` // Response data
	Error   string      `json:"error,omitempty"`   // Error message if any
	Code    string      `json:"code,omitempty"`    // Error code if any
}

// WSGameRequest addresses a game over the WebSocket; From and To are only
// used by "move".
type WSGameRequest struct {
	GameID string `json:"game_id"`
	From   string `json:"from,omitempty"`
	To     string `json:"to,omitempty"`
}

// WSClient represents a connected WebSocket client.
// Requests are handled in order, one at a time, while the connection keeps
// being read so that a disconnect cancels the request in progress.
type WSClient struct {
	conn     *websocket.Conn
	handlers *Handlers
	ctx      context.Context
	cancel   context.CancelFunc
	sendChan chan WSResponse
}

// WebSocket handles WebSocket connections for interactive play.
func (h *Handlers) WebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := &WSClient{conn: conn, handlers: h, ctx: ctx, cancel: cancel, sendChan: make(chan WSResponse, 256)}
	requests := make(chan WSMessage, 16)
	go client.writePump()
	go client.readPump(requests)
	client.dispatch(requests)
}

// writePump owns all writes to the connection: replies and keepalive pings
func (c *WSClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.sendChan:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump queues requests until the client goes away, then cancels the
// client context
func (c *WSClient) readPump(requests chan<- WSMessage) {
	defer close(requests)
	defer c.cancel()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg WSMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		select {
		case requests <- msg:
		case <-c.ctx.Done():
			return
		}
	}
}

// dispatch handles queued requests in arrival order
func (c *WSClient) dispatch(requests <-chan WSMessage) {
	defer close(c.sendChan)
	for msg := range requests {
		c.handleMessage(msg)
	}
}

func (c *WSClient) handleMessage(msg WSMessage) {
	switch msg.Type {
	case "new":
		c.handleNew(msg)
	case "state", "move", "ai":
		c.handleGame(msg)
	case "ping":
		c.sendChan <- WSResponse{Type: "pong", ID: msg.ID}
	default:
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "unknown message type"}
	}
}

func (c *WSClient) sendError(id string, err error) {
	_, code := errorStatus(err)
	c.sendChan <- WSResponse{Type: "error", ID: id, Error: err.Error(), Code: code}
}

func (c *WSClient) handleNew(msg WSMessage) {
	var req NewGameRequest
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "invalid payload"}
			return
		}
	}
	resp, err := c.handlers.createGame(req)
	if err != nil {
		c.sendError(msg.ID, err)
		return
	}
	c.sendChan <- WSResponse{Type: "result", ID: msg.ID, Payload: resp}
}

func (c *WSClient) handleGame(msg WSMessage) {
	var req WSGameRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "invalid payload"}
		return
	}

	var resp GameStateResponse
	var err error
	switch msg.Type {
	case "state":
		resp, err = c.handlers.readGame(req.GameID)
	case "move":
		resp, err = c.handlers.playMove(req.GameID, PlayRequest{From: req.From, To: req.To})
	case "ai":
		if pool := c.handlers.pool; pool != nil {
			if err := pool.Wait(c.ctx, Slow); err != nil {
				c.sendChan <- WSResponse{Type: "error", ID: msg.ID, Error: "server busy", Code: "SERVER_BUSY"}
				return
			}
			defer pool.Release(Slow)
		}
		resp, err = c.handlers.computerMove(c.ctx, req.GameID)
	}
	if err != nil {
		c.sendError(msg.ID, err)
		return
	}
	c.sendChan <- WSResponse{Type: "result", ID: msg.ID, Payload: resp}
}
