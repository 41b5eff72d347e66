package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/handlers"
	"github.com/gorilla/websocket"
	"github.com/minaorangina/coopdeck/game"
	"github.com/minaorangina/coopdeck/protocol"
	"go.uber.org/zap"
)

const defaultBuffer = 64

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Source is the session being observed. Watch hands first the current
// snapshot and then subscribes l, with no event published in between.
type Source interface {
	Snapshot() (game.Snapshot, error)
	Watch(first func(game.Snapshot), l protocol.Listener) (stop func(), err error)
}

// Message is the JSON envelope of everything sent to a watcher
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// FeedServer serves a read-only view of a session: its state on request
// and its events as they happen. It accepts no commands.
type FeedServer struct {
	source Source
	log    *zap.Logger
	buffer int

	mu       sync.Mutex
	watchers map[*watcher]struct{}

	http.Server
}

// NewServer creates a new FeedServer
func NewServer(source Source, log *zap.Logger) *FeedServer {
	if log == nil {
		log = zap.NewNop()
	}

	s := &FeedServer{
		source:   source,
		log:      log,
		buffer:   defaultBuffer,
		watchers: map[*watcher]struct{}{},
	}

	router := http.NewServeMux()
	router.Handle("/state", http.HandlerFunc(s.HandleState))
	router.Handle("/ws", http.HandlerFunc(s.HandleWS))

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet}),
	)
	access := zap.NewStdLog(log.Named("http")).Writer()
	s.Handler = handlers.CombinedLoggingHandler(access, cors(router))

	return s
}

// ServeHTTP serves http
func (s *FeedServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Handler.ServeHTTP(w, r)
}

// HandleState writes the session snapshot as JSON
func (s *FeedServer) HandleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	snap, err := s.source.Snapshot()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	bytes, err := json.Marshal(snap)
	if err != nil {
		s.log.Error("could not encode snapshot", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Add("Content-Type", "application/json")
	w.Write(bytes)
}

// HandleWS upgrades to a websocket that receives a snapshot followed by
// every event of the session
func (s *FeedServer) HandleWS(w http.ResponseWriter, r *http.Request) {
	wt := newWatcher(nil, s.buffer, s.log)
	stop, err := s.source.Watch(func(snap game.Snapshot) {
		wt.push("snapshot", snap)
	}, wt.publish)
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	defer stop()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("could not upgrade to websocket", zap.Error(err))
		wt.close()
		return
	}
	wt.conn = conn

	s.track(wt, true)
	s.log.Info("watcher connected", zap.String("remote", r.RemoteAddr), zap.Int("watchers", s.Watchers()))

	go wt.writePump()
	wt.readPump()

	s.track(wt, false)
	wt.close()
	s.log.Info("watcher disconnected", zap.String("remote", r.RemoteAddr), zap.Int("dropped", wt.Dropped()))
}

// Watchers returns the number of connected watchers
func (s *FeedServer) Watchers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.watchers)
}

// Shutdown disconnects every watcher and stops the server
func (s *FeedServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	for wt := range s.watchers {
		wt.conn.Close()
	}
	s.mu.Unlock()

	return s.Server.Shutdown(ctx)
}

func (s *FeedServer) track(wt *watcher, connected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if connected {
		s.watchers[wt] = struct{}{}
	} else {
		delete(s.watchers, wt)
	}
}
