package api

import (
	"sync"

	"github.com/cockroachdb/errors"
	json "github.com/goccy/go-json"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/pynezz/cybermap/internal/render"
	"github.com/pynezz/cybermap/internal/threat"
)

// sendBuffer is how many messages a slow viewer may lag behind before
// messages to it are dropped. Every frame is complete, so a dropped frame is
// repaired by the next one.
const sendBuffer = 16

var ErrNoViewers = errors.New("no connected viewers")

const (
	MessageFrame = "frame"
	MessageAlert = "alert"
)

// Message is what the hub pushes to browsers.
type Message struct {
	Type     string          `json:"type"`
	Frame    *render.Frame   `json:"frame,omitempty"`
	Severity threat.Severity `json:"severity,omitempty"`
}

type client struct {
	send chan []byte
}

// Hub fans frames and alert cues out to every connected websocket. It is a
// render.Renderer and an alert.Player, and never blocks the dashboard loop.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
	log     *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{clients: make(map[*client]struct{}), log: log}
}

func (h *Hub) Render(f render.Frame) {
	h.broadcast(Message{Type: MessageFrame, Frame: &f})
}

// Play asks every browser to play the alert sound.
func (h *Hub) Play(severity threat.Severity) error {
	if h.Len() == 0 {
		return ErrNoViewers
	}
	h.broadcast(Message{Type: MessageAlert, Severity: severity})
	return nil
}

// Len returns the number of connected viewers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every viewer.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}

// register adds a viewer and reads its first frame under the same lock
// broadcast takes, so everything queued for the viewer is at least as new as
// that frame.
func (h *Hub) register(snapshot func() render.Frame) (*client, render.Frame, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, render.Frame{}, false
	}
	c := &client{send: make(chan []byte, sendBuffer)}
	h.clients[c] = struct{}{}
	return c, snapshot(), true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		close(c.send)
		delete(h.clients, c)
	}
}

func (h *Hub) broadcast(m Message) {
	b, err := json.Marshal(m)
	if err != nil {
		h.log.Error("failed to encode message", zap.String("type", m.Type), zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- b:
		default:
			h.log.Debug("viewer is lagging, message dropped", zap.String("type", m.Type))
		}
	}
}

// Handler serves one websocket connection: it sends the current frame,
// then everything broadcast until either side closes.
func (h *Hub) Handler(snapshot func() render.Frame) func(*websocket.Conn) {
	return func(conn *websocket.Conn) {
		c, f, ok := h.register(snapshot)
		if !ok {
			return
		}
		defer h.unregister(c)
		h.log.Info("viewer connected", zap.String("remote", conn.RemoteAddr().String()))

		if err := conn.WriteJSON(Message{Type: MessageFrame, Frame: &f}); err != nil {
			h.log.Debug("initial write failed", zap.Error(err))
			return
		}

		// Viewers only listen; reading detects the close.
		gone := make(chan struct{})
		go func() {
			defer close(gone)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
						h.log.Debug("read failed", zap.Error(err))
					}
					return
				}
			}
		}()

		for {
			select {
			case <-gone:
				h.log.Info("viewer disconnected")
				return
			case b, ok := <-c.send:
				if !ok {
					_ = conn.WriteMessage(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
					return
				}
				if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
					h.log.Debug("write failed", zap.Error(err))
					return
				}
			}
		}
	}
}
