package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/zeusync/arpg/internal/config"
	"github.com/zeusync/arpg/internal/core/events/bus"
	"github.com/zeusync/arpg/internal/core/observability/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Outbound message types.
const (
	MessageHello = "hello"
	MessageFrame = "frame"
	MessageEvent = "event"
	MessageError = "error"
)

// Notice is a control message sent to a single viewer.
type Notice struct {
	Type    string `json:"type"`
	Session string `json:"session,omitempty"`
	Error   string `json:"error,omitempty"`
}

// EventMessage relays one simulation event to every viewer. Events raised
// while a frame runs reach viewers ahead of that frame.
type EventMessage struct {
	Type   string `json:"type"`
	Event  string `json:"event"`
	Source string `json:"source"`
	Frame  uint64 `json:"frame"`
	Data   any    `json:"data,omitempty"`
}

type viewer struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (v *viewer) close() {
	v.once.Do(func() { close(v.send) })
}

// Hub tracks connected viewers. Frames are marshalled once and fanned out;
// a viewer whose buffer is full misses that frame.
type Hub struct {
	cfg    config.Server
	auth   TokenAuth
	queue  *CommandQueue
	logger log.Log

	mu      sync.RWMutex
	viewers map[string]*viewer
	closed  bool
}

func NewHub(cfg config.Server, queue *CommandQueue, logger log.Log) *Hub {
	return &Hub{
		cfg:     cfg,
		auth:    TokenAuth{Token: cfg.Token},
		queue:   queue,
		logger:  log.OrNop(logger).With(log.String("component", "hub")),
		viewers: make(map[string]*viewer),
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.viewers)
}

// ServeHTTP upgrades a viewer connection and reads its commands until it leaves.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Authorize(r); err != nil {
		h.logger.Warn("viewer rejected", log.String("remote", r.RemoteAddr), log.Error(err))
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}
	if h.Len() >= h.cfg.MaxViewers {
		http.Error(w, ErrMaxClientsReached.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", log.Error(err))
		return
	}

	v := &viewer{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, h.cfg.SendBuffer),
	}
	if err = h.register(v); err != nil {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, err.Error()))
		_ = conn.Close()
		return
	}

	logger := h.logger.With(log.String("session", v.id))
	logger.Info("viewer connected", log.String("remote", r.RemoteAddr))

	go h.writeLoop(v, logger)
	h.notify(v, Notice{Type: MessageHello, Session: v.id})
	h.readLoop(v, logger)

	h.unregister(v)
	logger.Info("viewer disconnected")
}

func (h *Hub) register(v *viewer) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrServerClosed
	}
	if len(h.viewers) >= h.cfg.MaxViewers {
		return ErrMaxClientsReached
	}
	h.viewers[v.id] = v
	return nil
}

func (h *Hub) unregister(v *viewer) {
	h.mu.Lock()
	delete(h.viewers, v.id)
	h.mu.Unlock()
	v.close()
}

func (h *Hub) readLoop(v *viewer, logger log.Log) {
	for {
		_, data, err := v.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("viewer read failed", log.Error(err))
			}
			return
		}
		cmd, err := DecodeCommand(data)
		if err != nil {
			logger.Warn("bad viewer command", log.Error(err))
			h.notify(v, Notice{Type: MessageError, Error: err.Error()})
			continue
		}
		cmd.Session = v.id
		if err = h.queue.Push(cmd); err != nil {
			logger.Warn("viewer command dropped", log.String("action", cmd.Action), log.Error(err))
			h.notify(v, Notice{Type: MessageError, Error: err.Error()})
		}
	}
}

// writeLoop is the only writer on the connection.
func (h *Hub) writeLoop(v *viewer, logger log.Log) {
	defer func() { _ = v.conn.Close() }()
	for msg := range v.send {
		_ = v.conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
		if err := v.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			logger.Warn("viewer write failed", log.Error(err))
			return
		}
	}
	_ = v.conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
	_ = v.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (h *Hub) notify(v *viewer, n Notice) {
	data, err := json.Marshal(n)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.viewers[v.id]; !ok {
		return
	}
	select {
	case v.send <- data:
	default:
	}
}

// Broadcast sends msg to every viewer and returns how many accepted it.
func (h *Hub) Broadcast(msg any) (int, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return 0, errors.Join(ErrInvalidMessage, err)
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	sent := 0
	for _, v := range h.viewers {
		select {
		case v.send <- data:
			sent++
		default:
			h.logger.Debug("viewer lagging, frame dropped", log.String("session", v.id))
		}
	}
	return sent, nil
}

// Forward relays a bus event to every viewer. It runs on the simulation goroutine.
func (h *Hub) Forward(e bus.Event) error {
	_, err := h.Broadcast(EventMessage{
		Type:   MessageEvent,
		Event:  e.Type(),
		Source: e.Source(),
		Frame:  e.Frame(),
		Data:   e.Data(),
	})
	return err
}

// Close disconnects every viewer and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for id, v := range h.viewers {
		v.close()
		delete(h.viewers, id)
	}
}
