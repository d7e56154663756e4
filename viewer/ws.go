// Copyright © 2025 The PhyloMovie Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package viewer

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// A stateEvent is pushed to the websocket clients
// after every observable change of the controller.
type stateEvent struct {
	Type   string `json:"type"`
	State  string `json:"state"`
	Index  int    `json:"currentSequenceIndex"`
	Anchor int    `json:"anchor"`
}

// A hub tracks the connected websocket clients
// and broadcasts the state events.
type hub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]bool
	mute  *websocket.Conn
	log   *zap.Logger

	cmdMu sync.Mutex
}

func newHub(log *zap.Logger) *hub {
	return &hub{
		conns: make(map[*websocket.Conn]bool),
		log:   log,
	}
}

func (h *hub) add(c *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c] = true
}

func (h *hub) remove(c *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, c)
	c.Close()
}

// run executes a navigation command
// issued by a client,
// muting the broadcasts to that client
// for its duration:
// the issuer gets a single direct reply
// instead of a broadcast plus a reply.
func (h *hub) run(c *websocket.Conn, fn func() error) error {
	h.cmdMu.Lock()
	defer h.cmdMu.Unlock()

	h.mu.Lock()
	h.mute = c
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		h.mute = nil
		h.mu.Unlock()
	}()
	return fn()
}

// send writes a message to a single client.
// All the writes go through the hub lock,
// as a connection admits a single writer.
func (h *hub) send(c *websocket.Conn, v any) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return c.WriteJSON(v)
}

// broadcast sends an event to every client.
// A client that fails to receive is dropped.
func (h *hub) broadcast(ev any) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.conns {
		if c == h.mute {
			continue
		}
		if err := c.WriteJSON(ev); err != nil {
			h.log.Debug("websocket client dropped", zap.Error(err))
			delete(h.conns, c)
			c.Close()
		}
	}
}

// handleWS upgrades the connection
// and serves the navigation commands of a client,
// replying to each command
// with the resulting state
// or with an error event.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	s.hub.add(conn)
	defer s.hub.remove(conn)

	// initial state for the new client
	s.hub.send(conn, stateEvent{
		Type:  "state",
		State: s.ctrl.State().String(),
		Index: s.ctrl.Current(),
	})

	for {
		var cmd navCommand
		if err := conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Debug("websocket read failed", zap.Error(err))
			}
			return
		}
		err := s.hub.run(conn, func() error {
			return s.navigate(cmd)
		})
		if err != nil {
			s.hub.send(conn, map[string]string{
				"type":  "error",
				"error": err.Error(),
			})
			continue
		}
		s.hub.send(conn, stateEvent{
			Type:  "state",
			State: s.ctrl.State().String(),
			Index: s.ctrl.Current(),
		})
	}
}
