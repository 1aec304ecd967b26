package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.softassert/pkg/assertion"
	"digital.vasic.softassert/pkg/logging"
)

func newTestServer(t *testing.T) (*Server, *EventCollector, *httptest.Server) {
	t.Helper()
	collector := NewEventCollector()
	s := NewServer("", collector, NewDashboard("run-1"))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, collector, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	typ, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.TextMessage, typ)

	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestServer_Health(t *testing.T) {
	_, _, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
}

func TestServer_Dashboard(t *testing.T) {
	_, collector, ts := newTestServer(t)
	collector.EmitFileStarted("login")
	collector.ObserveCheck(assertion.Outcome{Kind: assertion.KindEqual, Passed: true})

	resp, err := http.Get(ts.URL + "/dashboard")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var snap DashboardData
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, "run-1", snap.RunID)
	assert.Equal(t, "running", snap.Files["login"].Status)
	assert.Equal(t, 1, snap.Summary.Passed)
}

func TestServer_WebSocketStream(t *testing.T) {
	s, collector, ts := newTestServer(t)
	conn := dial(t, ts)

	first := readMessage(t, conn)
	assert.Equal(t, "dashboard", first.Type)
	require.NotNil(t, first.Dashboard)
	assert.Equal(t, "run-1", first.Dashboard.RunID)
	assert.Equal(t, 1, s.Clients())

	checker := assertion.New(nil, assertion.WithObserver(collector))
	require.Error(t, checker.ListNotEmpty([]string{}))

	msg := readMessage(t, conn)
	assert.Equal(t, "event", msg.Type)
	require.NotNil(t, msg.Event)
	assert.Equal(t, EventCheck, msg.Event.Type)
	assert.Equal(t, assertion.KindListNotEmpty, msg.Event.Kind)
	assert.Equal(t, "List [] is empty.", msg.Event.Message)
	assert.False(t, msg.Event.Passed)
}

func TestServer_BroadcastsToEveryClient(t *testing.T) {
	s, collector, ts := newTestServer(t)
	a := dial(t, ts)
	b := dial(t, ts)
	readMessage(t, a)
	readMessage(t, b)
	assert.Equal(t, 2, s.Clients())

	collector.EmitFileFailed("cart", "\nFail Test.", time.Millisecond)

	for _, conn := range []*websocket.Conn{a, b} {
		msg := readMessage(t, conn)
		require.NotNil(t, msg.Event)
		assert.Equal(t, EventFileFailed, msg.Event.Type)
		assert.Equal(t, "cart", msg.Event.File)
	}
}

func TestServer_ClientDisconnect(t *testing.T) {
	s, _, ts := newTestServer(t)
	conn := dial(t, ts)
	readMessage(t, conn)
	require.Equal(t, 1, s.Clients())

	conn.Close()
	assert.Eventually(t, func() bool { return s.Clients() == 0 },
		2*time.Second, 10*time.Millisecond)
}

func TestServer_RejectsPlainHTTPOnWS(t *testing.T) {
	rec := logging.NewRecorder()
	s := NewServer("", NewEventCollector(), NewDashboard("run-1"), WithLogger(rec))
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/ws")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t,
		[]string{"WebSocket upgrade failed"},
		rec.Messages(logging.LevelWarn),
	)
}

func TestServer_StartAndStop(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	addr := fmt.Sprintf("127.0.0.1:%d", port)
	s := NewServer(addr, NewEventCollector(), NewDashboard("run-1"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- s.Start(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()
	require.NoError(t, s.Stop(stopCtx))

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_StopBeforeStart(t *testing.T) {
	s := NewServer(":0", NewEventCollector(), NewDashboard("run-1"))
	assert.NoError(t, s.Stop(context.Background()))
}

func TestServer_StartListenError(t *testing.T) {
	s := NewServer("invalid-address", NewEventCollector(), NewDashboard("run-1"))
	err := s.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "monitor server")
}
