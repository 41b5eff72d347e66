package server

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/minaorangina/coopdeck/protocol"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// watcher is one websocket observer. Messages that do not fit in its
// buffer are dropped so a slow watcher never holds up the game.
type watcher struct {
	conn *websocket.Conn
	log  *zap.Logger

	mu      sync.Mutex
	send    chan []byte
	closed  bool
	dropped int
}

func newWatcher(conn *websocket.Conn, buffer int, log *zap.Logger) *watcher {
	return &watcher{
		conn: conn,
		log:  log,
		send: make(chan []byte, buffer),
	}
}

// publish is the bus listener. It runs on the game's goroutine.
func (w *watcher) publish(e protocol.Event) {
	w.push("event", e)
}

func (w *watcher) push(kind string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		w.log.Warn("could not encode message", zap.String("type", kind), zap.Error(err))
		return
	}
	msg, err := json.Marshal(Message{Type: kind, Payload: data})
	if err != nil {
		w.log.Warn("could not encode message", zap.String("type", kind), zap.Error(err))
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}

	select {
	case w.send <- msg:
	default:
		w.dropped++
	}
}

func (w *watcher) Dropped() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dropped
}

func (w *watcher) close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.closed {
		w.closed = true
		close(w.send)
	}
}

func (w *watcher) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		w.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-w.send:
			w.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				w.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := w.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			w.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := w.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards everything the peer sends and returns once the
// connection fails or closes
func (w *watcher) readPump() {
	w.conn.SetReadLimit(maxMessageSize)
	w.conn.SetReadDeadline(time.Now().Add(pongWait))
	w.conn.SetPongHandler(func(string) error {
		w.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := w.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				w.log.Debug("watcher read failed", zap.Error(err))
			}
			return
		}
	}
}
