package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Websocket timing. Slow clients are disconnected rather than allowed to
// back the hub up.
const (
	writeWait  = 5 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 20 * time.Second

	clientSendBuf = 16
)

// envelope is the wire format for websocket frames.
type envelope struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

func marshalEnvelope(typ string, data any) ([]byte, error) {
	return json.Marshal(envelope{Type: typ, Data: data})
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// hub tracks connected websocket clients and fans broadcast frames out to
// their per-client send queues.
type hub struct {
	log *slog.Logger

	broadcast  chan []byte
	register   chan *wsClient
	unregister chan *wsClient

	mu      sync.Mutex
	clients map[*wsClient]struct{}
}

func newHub(log *slog.Logger) *hub {
	return &hub{
		log:        log,
		broadcast:  make(chan []byte, 64),
		register:   make(chan *wsClient, 8),
		unregister: make(chan *wsClient, 8),
		clients:    make(map[*wsClient]struct{}),
	}
}

func (h *hub) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			n := len(h.clients)
			h.mu.Unlock()
			h.log.Info("ws client connected", "remote_addr", c.remoteAddr, "clients", n)

		case c := <-h.unregister:
			h.remove(c, "disconnect")

		case msg := <-h.broadcast:
			var slow []*wsClient
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					slow = append(slow, c)
				}
			}
			h.mu.Unlock()
			for _, c := range slow {
				h.remove(c, "slow client")
			}
		}
	}
}

func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		_ = c.conn.Close()
		c.closeSend()
		delete(h.clients, c)
	}
}

func (h *hub) remove(c *wsClient, reason string) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
	}
	n := len(h.clients)
	h.mu.Unlock()

	if ok {
		_ = c.conn.Close()
		c.closeSend()
		h.log.Info("ws client removed", "remote_addr", c.remoteAddr, "reason", reason, "clients", n)
	}
}

// broadcastBytes enqueues a frame for all clients, dropping it if the hub
// queue is full.
func (h *hub) broadcastBytes(msg []byte) {
	select {
	case h.broadcast <- msg:
	default:
		h.log.Warn("ws broadcast queue full, dropping frame", "bytes", len(msg))
	}
}

type wsClient struct {
	hub  *hub
	conn *websocket.Conn
	send chan []byte

	remoteAddr string
	log        *slog.Logger

	closeOnce sync.Once
}

func (c *wsClient) closeSend() {
	c.closeOnce.Do(func() { close(c.send) })
}

// writePump drains the send queue to the connection and keeps the client
// alive with pings. Exits when the queue closes or a write fails.
func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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

// readPump discards inbound frames; its job is pong handling and disconnect
// detection.
func (c *wsClient) readPump() {
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			c.hub.unregister <- c
			return
		}
	}
}

// handleWS upgrades the connection and pushes an initial status frame before
// the broadcast stream takes over.
//
// The pumps deliberately ignore the request context: net/http cancels it
// when this handler returns, which would tear the connection down early.
// The hub owns the connection lifetime instead.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("ws upgrade failed", "error", err)
		return
	}

	client := &wsClient{
		hub:        s.hub,
		conn:       conn,
		send:       make(chan []byte, clientSendBuf),
		remoteAddr: r.RemoteAddr,
		log:        s.log,
	}
	s.hub.register <- client

	go client.writePump()
	go client.readPump()

	init, err := marshalEnvelope("status", s.ctrl.Status())
	if err != nil {
		s.log.Warn("ws init marshal failed", "error", err)
		return
	}
	select {
	case client.send <- init:
	default:
		s.hub.unregister <- client
	}
}
