package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/minaorangina/coopdeck/game"
	utils "github.com/minaorangina/coopdeck/internal"
	"github.com/minaorangina/coopdeck/protocol"
	"go.uber.org/zap"
)

var errNoSession = errors.New("no active session")

type fakeSource struct {
	snap game.Snapshot
	bus  *protocol.Bus
	err  error

	// watched runs inside Watch, straight after the subscription
	watched func()
}

func (f *fakeSource) Snapshot() (game.Snapshot, error) {
	if f.err != nil {
		return game.Snapshot{}, f.err
	}
	return f.snap, nil
}

func (f *fakeSource) Watch(first func(game.Snapshot), l protocol.Listener) (func(), error) {
	if f.err != nil {
		return nil, f.err
	}
	first(f.snap)
	handle := f.bus.Subscribe(l)
	if f.watched != nil {
		f.watched()
	}
	return func() { f.bus.Unsubscribe(handle) }, nil
}

func someSource() *fakeSource {
	return &fakeSource{
		snap: game.Snapshot{
			SessionID:             "session-1",
			State:                 game.PlayerTurn,
			Phase:                 game.ActionPhase,
			Turn:                  2,
			VictoryPoints:         35,
			VictoryPointsRequired: 100,
			Players:               []game.PlayerSnapshot{{ID: "p1", Name: "Ada", Hand: []game.CardView{}, InPlay: []game.CardView{}}},
		},
		bus: protocol.NewBus(),
	}
}

func newGetStateRequest() *http.Request {
	request, _ := http.NewRequest(http.MethodGet, "/state", nil)
	return request
}

func wsURL(ts *httptest.Server) string {
	return strings.Replace(ts.URL, "http://", "ws://", 1) + "/ws"
}

func mustDial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts), nil)
	utils.AssertNoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func mustRead(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	utils.AssertNoError(t, err)

	var msg Message
	utils.AssertNoError(t, json.Unmarshal(data, &msg))
	return msg
}

func zapNop() *zap.Logger {
	return zap.NewNop()
}

func assertStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("got status %d, want %d", got, want)
	}
}
