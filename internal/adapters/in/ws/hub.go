// Package ws streams committed step transitions to websocket clients, e.g.
// the wall dashboard on the shop floor.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"shopfloor/internal/core/domain/model/workorder"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 64
)

// TransitionMessage is the JSON frame sent for every transition.
type TransitionMessage struct {
	WorkOrderID      string    `json:"workOrderId"`
	WorkOrderNumber  string    `json:"workOrderNumber"`
	ProjectID        string    `json:"projectId"`
	StepIndex        int       `json:"stepIndex"`
	StepName         string    `json:"stepName"`
	Kind             string    `json:"kind"`
	Status           string    `json:"status"`
	Operator         string    `json:"operator"`
	At               time.Time `json:"at"`
	WorkOrderStatus  string    `json:"workOrderStatus"`
	CurrentStepIndex int       `json:"currentStepIndex"`
	TotalSteps       int       `json:"totalSteps"`
}

func newTransitionMessage(tr workorder.Transition) TransitionMessage {
	return TransitionMessage{
		WorkOrderID:      tr.WorkOrderID.String(),
		WorkOrderNumber:  tr.WorkOrderNumber,
		ProjectID:        tr.ProjectID.String(),
		StepIndex:        tr.StepIndex,
		StepName:         tr.StepName,
		Kind:             tr.Kind.String(),
		Status:           tr.Status.String(),
		Operator:         tr.Operator,
		At:               tr.At,
		WorkOrderStatus:  tr.WorkOrderStatus.String(),
		CurrentStepIndex: tr.CurrentStepIndex,
		TotalSteps:       tr.TotalSteps,
	}
}

// Hub fans transitions out to every connected client. Slow clients lose
// frames instead of slowing down the scan path.
type Hub struct {
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger:  logger.With("component", "live_feed"),
		clients: make(map[*client]struct{}),
	}
}

// ServeHTTP upgrades the request and registers the client.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnContext(r.Context(), "websocket upgrade failed", "error", err)
		return
	}

	c := &client{hub: h, conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go c.writePump()
	go c.readPump()
}

// OnTransition implements ports.TransitionObserver.
func (h *Hub) OnTransition(ctx context.Context, tr workorder.Transition) {
	data, err := json.Marshal(newTransitionMessage(tr))
	if err != nil {
		h.logger.ErrorContext(ctx, "marshal transition", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.logger.WarnContext(ctx, "live feed client too slow, dropping frame")
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// readPump only drains control frames; clients have nothing to say.
func (c *client) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug("live feed client gone", "error", err)
			}
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
