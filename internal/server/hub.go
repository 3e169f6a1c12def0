// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/pdiddy/doc-digest/internal/workspace"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxInboundSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// client is one connected browser tab. It holds at most one undelivered
// snapshot; a newer offer replaces it and an older one is discarded.
type client struct {
	conn *websocket.Conn
	wake chan struct{}
	done chan struct{}
	stop sync.Once

	mu      sync.Mutex
	pending *workspace.Snapshot
	latest  uint64
	seen    bool
}

func newClient(conn *websocket.Conn) *client {
	return &client{
		conn: conn,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// offer queues snap unless the client already has one with an equal or
// higher Seq. It never blocks.
func (c *client) offer(snap workspace.Snapshot) bool {
	c.mu.Lock()
	if c.seen && snap.Seq <= c.latest {
		c.mu.Unlock()
		return false
	}
	c.seen = true
	c.latest = snap.Seq
	c.pending = &snap
	c.mu.Unlock()

	select {
	case c.wake <- struct{}{}:
	default:
	}
	return true
}

// take returns the pending snapshot, or nil.
func (c *client) take() *workspace.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := c.pending
	c.pending = nil
	return snap
}

func (c *client) close() {
	c.stop.Do(func() { close(c.done) })
}

// Hub fans workspace snapshots out to every connected websocket client.
type Hub struct {
	logger *zap.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

// NewHub returns a Hub; call Run to tie its lifetime to a context.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger:  logger,
		clients: make(map[*client]struct{}),
	}
}

// Run blocks until ctx is cancelled, then closes every client and refuses
// new ones.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()
	h.mu.Lock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		c.close()
	}
	h.mu.Unlock()
}

// Broadcast offers snap to every client. It never blocks.
func (h *Hub) Broadcast(snap workspace.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.offer(snap)
	}
}

// Len returns the number of registered clients.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) add(c *client) bool {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return false
	}
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug("websocket client registered", zap.Int("clients", n))
	return true
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()
	c.close()
	h.logger.Debug("websocket client unregistered", zap.Int("clients", n))
}

// serve upgrades the request, registers the client, and only then reads
// the current snapshot so no change between the two is lost. It returns
// when the client disconnects or the hub stops.
func (h *Hub) serve(w http.ResponseWriter, r *http.Request, current func() workspace.Snapshot) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := newClient(conn)
	if !h.add(c) {
		conn.Close()
		return
	}
	c.offer(current())

	go c.writePump()
	c.readPump()
	h.remove(c)
}

// readPump discards inbound messages and keeps the read deadline alive.
func (c *client) readPump() {
	c.conn.SetReadLimit(maxInboundSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case <-c.wake:
			snap := c.take()
			if snap == nil {
				continue
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(snap); err != nil {
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

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	s.hub.serve(w, r, s.ws.Snapshot)
}
