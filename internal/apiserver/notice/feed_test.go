package notice

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"school-portal/internal/shared/cache"
)

func dialFeed(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(url, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 10*time.Millisecond)
}

func readMessage(t *testing.T, conn *websocket.Conn) FeedMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg FeedMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestFeed_ConnectAndDisconnect(t *testing.T) {
	feed := NewFeed()
	var active atomic.Int32
	feed.OnConnectionChange(func(n int) { active.Store(int32(n)) })

	server := httptest.NewServer(http.HandlerFunc(feed.HandleWebSocket))
	defer server.Close()

	conn := dialFeed(t, server.URL)
	waitFor(t, func() bool { return feed.Count() == 1 })
	assert.Equal(t, int32(1), active.Load())

	conn.Close()
	waitFor(t, func() bool { return feed.Count() == 0 })
	waitFor(t, func() bool { return active.Load() == 0 })
}

func TestFeed_Broadcast(t *testing.T) {
	feed := NewFeed()
	server := httptest.NewServer(http.HandlerFunc(feed.HandleWebSocket))
	defer server.Close()

	c1 := dialFeed(t, server.URL)
	c2 := dialFeed(t, server.URL)
	waitFor(t, func() bool { return feed.Count() == 2 })

	feed.Broadcast(EventDeleted, "65a1b2c3d4e5f6a7b8c9d0e1", nil)

	for _, c := range []*websocket.Conn{c1, c2} {
		msg := readMessage(t, c)
		assert.Equal(t, EventDeleted, msg.Type)
		assert.Equal(t, "65a1b2c3d4e5f6a7b8c9d0e1", msg.ID)
		assert.Nil(t, msg.Data)
	}
}

func TestFeed_NilIsNoop(t *testing.T) {
	var feed *Feed
	assert.NotPanics(t, func() { feed.Broadcast(EventCreated, "x", nil) })
}

func TestFeed_Close(t *testing.T) {
	feed := NewFeed()
	server := httptest.NewServer(http.HandlerFunc(feed.HandleWebSocket))
	defer server.Close()

	conn := dialFeed(t, server.URL)
	waitFor(t, func() bool { return feed.Count() == 1 })

	feed.Close()
	assert.Equal(t, 0, feed.Count())

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err, "服务端关闭后客户端应收到关闭帧")
}

func TestHandler_BroadcastsWrites(t *testing.T) {
	feed := NewFeed()
	server := httptest.NewServer(http.HandlerFunc(feed.HandleWebSocket))
	defer server.Close()

	store := &mockStore{}
	mux := http.NewServeMux()
	NewHandler(store, cache.NewNoOpCache(), feed, nil).RegisterRoutes(mux)

	conn := dialFeed(t, server.URL)
	waitFor(t, func() bool { return feed.Count() == 1 })

	id := insertedID(t, do(mux, http.MethodPost, "/postNotices", `{"title":"Sports day"}`))
	msg := readMessage(t, conn)
	assert.Equal(t, EventCreated, msg.Type)
	assert.Equal(t, id, msg.ID)
	data, ok := msg.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Sports day", data["title"])
	assert.Equal(t, id, data["_id"])

	do(mux, http.MethodPatch, "/noticeUpdate/"+id, `{"title":"Sports day moved"}`)
	msg = readMessage(t, conn)
	assert.Equal(t, EventUpdated, msg.Type)
	assert.Equal(t, id, msg.ID)

	do(mux, http.MethodDelete, "/deleteNotice/"+id, "")
	msg = readMessage(t, conn)
	assert.Equal(t, EventDeleted, msg.Type)
	assert.Equal(t, id, msg.ID)
}
