package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/scythe504/guessit-backend/internal"
	"github.com/scythe504/guessit-backend/internal/words"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 64
)

var (
	errConnectionClosed = errors.New("connection closed")
	errSendBufferFull   = errors.New("send buffer full")
)

// =============================================================================
// CONNECTION
// =============================================================================

// wsConnection adapts a gorilla connection to internal.Connection. Frames
// are queued on send and written by writePump, so Send never blocks.
type wsConnection struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	log  zerolog.Logger

	mu          sync.Mutex
	closed      bool
	closeReason string
	onClose     []func()
}

func newWSConnection(conn *websocket.Conn, id string) *wsConnection {
	return &wsConnection{
		id:   id,
		conn: conn,
		send: make(chan []byte, sendBuffer),
		log:  log.With().Str("connection", id).Logger(),
	}
}

func (c *wsConnection) ID() string {
	return c.id
}

func (c *wsConnection) Send(event internal.Event, payload any) error {
	data, err := json.Marshal(internal.Message[any]{Type: string(event), Data: payload})
	if err != nil {
		return fmt.Errorf("marshal %s: %w", event, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errConnectionClosed
	}
	select {
	case c.send <- data:
		return nil
	default:
		return errSendBufferFull
	}
}

// Close flushes queued frames and ends the connection with a close frame
// carrying reason.
func (c *wsConnection) Close(reason string) {
	callbacks := c.shutdown(reason)
	if len(callbacks) > 0 {
		go runAll(callbacks)
	}
}

func (c *wsConnection) OnClose(callback func()) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		go callback()
		return
	}
	c.onClose = append(c.onClose, callback)
	c.mu.Unlock()
}

// shutdown marks the connection closed once and hands back the callbacks
// that still have to run.
func (c *wsConnection) shutdown(reason string) []func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.closeReason = reason
	close(c.send)

	callbacks := c.onClose
	c.onClose = nil
	return callbacks
}

func runAll(callbacks []func()) {
	for _, cb := range callbacks {
		cb()
	}
}

// writePump is the only writer of the underlying connection.
func (c *wsConnection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.mu.Lock()
				reason := c.closeReason
				c.mu.Unlock()
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.log.Debug().Err(err).Msg("[writePump] write failed")
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

// =============================================================================
// WEBSOCKET CONNECTION HANDLING
// =============================================================================

// websocketHandler upgrades the request, announces the client id and hands
// the connection to its room. It then reads inbound actions until the
// connection goes away.
func (s *Server) websocketHandler(w http.ResponseWriter, r *http.Request) {
	key := internal.RoomKey(r.URL.Query().Get("key"))
	username := r.URL.Query().Get("username")

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("[websocketHandler] upgrade failed")
		return
	}

	c := newWSConnection(conn, uuid.NewString())
	go c.writePump()

	if err := c.Send(internal.EventClientID, internal.ClientIDPayload{ID: c.id}); err != nil {
		c.log.Warn().Err(err).Msg("[websocketHandler] could not send client id")
	}
	s.registry.RouteJoin(c, key, username)

	s.readPump(c, key)
}

func (s *Server) readPump(c *wsConnection, key internal.RoomKey) {
	defer func() {
		runAll(c.shutdown("disconnected"))
		s.limiters.Forget(c.id)
		c.log.Debug().Msg("[readPump] connection closed")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn().Err(err).Msg("[readPump] unexpected close")
			}
			return
		}

		var msg internal.Message[json.RawMessage]
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.log.Debug().Err(err).Msg("[readPump] failed to parse message")
			continue
		}
		s.handleAction(c, key, msg)
	}
}

// handleAction answers every inbound action with action.result or
// action.error.
func (s *Server) handleAction(c *wsConnection, key internal.RoomKey, msg internal.Message[json.RawMessage]) {
	reply := func(err error, correct *bool) {
		if err != nil {
			_ = c.Send(internal.EventActionError, internal.ActionErrorPayload{Action: msg.Type, Error: errorCode(err)})
			return
		}
		_ = c.Send(internal.EventActionResult, internal.ActionResultPayload{Action: msg.Type, IsCorrect: correct})
	}
	fail := func(code string) {
		_ = c.Send(internal.EventActionError, internal.ActionErrorPayload{Action: msg.Type, Error: code})
	}

	if !s.limiters.Allow(c.id) {
		fail("RATE_LIMITED")
		return
	}

	switch msg.Type {
	case internal.ActionReady:
		reply(s.registry.SetReady(key, c.id), nil)

	case internal.ActionGuess:
		var data internal.GuessData
		if err := json.Unmarshal(msg.Data, &data); err != nil || words.Normalize(data.Guess) == "" {
			fail("BAD_REQUEST")
			return
		}
		correct, err := s.registry.Guess(key, c.id, data.Guess)
		reply(err, &correct)

	case internal.ActionAddWord:
		var data internal.AddWordData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			fail("BAD_REQUEST")
			return
		}
		if err := words.ValidateCustomWord(words.Normalize(data.Word), s.filter); err != nil {
			fail("INVALID_WORD")
			return
		}
		reply(s.registry.AddCustomWord(key, c.id, data.Word), nil)

	default:
		c.log.Debug().Str("type", msg.Type).Msg("[handleAction] unknown message type")
		fail("UNKNOWN_ACTION")
	}
}
