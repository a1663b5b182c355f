package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func startHub(t *testing.T) (*Hub, *httptest.Server, context.CancelFunc) {
	t.Helper()

	log, _ := test.NewNullLogger()
	hub := NewHub(log)
	hub.now = func() time.Time { return time.UnixMilli(1700000000000) }

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(func() {
		cancel()
		<-hub.done
		srv.Close()
	})
	return hub, srv, cancel
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestHub_PublishReachesSubscribers(t *testing.T) {
	hub, srv, _ := startHub(t)
	conn := dial(t, srv, "")
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish(TopicCatalog, true, map[string]any{"flights": []string{}})

	msg := readMessage(t, conn)
	assert.Equal(t, MessageTypeSnapshot, msg.Type)
	assert.Equal(t, TopicCatalog, msg.Topic)
	assert.True(t, msg.Loading)
	assert.Equal(t, int64(1700000000000), msg.Timestamp)
}

func TestHub_TopicFilter(t *testing.T) {
	hub, srv, _ := startHub(t)
	conn := dial(t, srv, "?topics=loyalty")
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish(TopicCatalog, false, "ignored")
	hub.Publish(TopicLoyalty, false, map[string]any{"level": "gold"})

	msg := readMessage(t, conn)
	assert.Equal(t, TopicLoyalty, msg.Topic)
	assert.Equal(t, map[string]any{"level": "gold"}, msg.Data)
}

func TestHub_ReplaysLatestSnapshot(t *testing.T) {
	hub, srv, _ := startHub(t)

	hub.Publish(TopicBookings, false, "first")
	hub.Publish(TopicBookings, false, "second")
	// Messages are processed in order, so a registered client sees the last.
	first := dial(t, srv, "?topics=bookings")
	msg := readMessage(t, first)
	if msg.Data == "first" {
		msg = readMessage(t, first)
	}
	assert.Equal(t, "second", msg.Data)

	late := dial(t, srv, "?topics=bookings")
	msg = readMessage(t, late)
	assert.Equal(t, "second", msg.Data)
	assert.Equal(t, 2, hub.ClientCount())
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	hub, srv, cancel := startHub(t)
	conn := dial(t, srv, "")
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	<-hub.done

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "unexpected error: %v", err)
	assert.Equal(t, 0, hub.ClientCount())

	// Publishing after shutdown must not block.
	hub.Publish(TopicCatalog, false, nil)
}

func TestHub_RejectsUnknownTopic(t *testing.T) {
	_, srv, _ := startHub(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?topics=seats"

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestParseTopics(t *testing.T) {
	tests := []struct {
		input    string
		expected map[Topic]bool
		wantErr  bool
	}{
		{"", map[Topic]bool{TopicCatalog: true, TopicBookings: true, TopicLoyalty: true}, false},
		{"Catalog, loyalty", map[Topic]bool{TopicCatalog: true, TopicLoyalty: true}, false},
		{" , ", map[Topic]bool{TopicCatalog: true, TopicBookings: true, TopicLoyalty: true}, false},
		{"catalog,seats", nil, true},
	}

	for _, tt := range tests {
		topics, err := ParseTopics(tt.input)
		if tt.wantErr {
			assert.Error(t, err, tt.input)
			continue
		}
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.expected, topics, tt.input)
	}
}
