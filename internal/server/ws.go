package server

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/stocksensei/stocksensei/internal/models"
	"github.com/stocksensei/stocksensei/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The UI is served from the same origin; no cross-site access.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Event types pushed over the WebSocket.
const (
	eventStatus       = "status"
	eventAgentMessage = "agent_message"
	eventNoCandidates = "no_candidates"
	eventVerdict      = "verdict"
	eventError        = "error"
	eventDone         = "done"
)

type wsEvent struct {
	Type      string       `json:"type"`
	RequestID string       `json:"request_id,omitempty"`
	Message   *wireMessage `json:"message,omitempty"`
	Verdict   string       `json:"verdict,omitempty"`
	Error     string       `json:"error,omitempty"`
	Degraded  []string     `json:"degraded,omitempty"`
}

type wsQuery struct {
	Query string `json:"query"`
}

// wsConn serializes writes; gorilla connections allow one writer at a time.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) send(ev wsEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(30 * time.Second))
	if err := c.conn.WriteJSON(ev); err != nil {
		logger.Warnf("ws write: %v", err)
	}
}

// handleWS streams one analysis per message: the client sends {"query"},
// the server pushes agent messages as they land and closes with a done
// event.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warnf("ws upgrade: %v", err)
		return
	}
	defer conn.Close()

	ws := &wsConn{conn: conn}
	ctx := r.Context()

	for {
		var q wsQuery
		if err := conn.ReadJSON(&q); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debugf("ws read: %v", err)
			}
			return
		}

		q.Query = strings.TrimSpace(q.Query)
		if q.Query == "" {
			ws.send(wsEvent{Type: eventError, Error: "query is required"})
			continue
		}

		ws.send(wsEvent{Type: eventStatus})

		state, err := s.runner.Run(ctx, q.Query, func(m models.AgentMessage) {
			wire := toWireMessage(m)
			ws.send(wsEvent{Type: eventAgentMessage, Message: &wire})
		})
		if err != nil {
			ev := wsEvent{Type: eventError, Error: err.Error()}
			if state != nil {
				ev.RequestID = state.RequestID
			}
			ws.send(ev)
			continue
		}

		if state.NoCandidates {
			ws.send(wsEvent{Type: eventNoCandidates, RequestID: state.RequestID})
		}
		ws.send(wsEvent{
			Type:      eventVerdict,
			RequestID: state.RequestID,
			Verdict:   state.FinalVerdict,
			Degraded:  state.Degraded,
		})
		ws.send(wsEvent{Type: eventDone, RequestID: state.RequestID})
	}
}
