package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hurdl/internal/cache"
	"hurdl/internal/config"
	"hurdl/internal/service"
)

func readMessage(t *testing.T, ch <-chan []byte) Message {
	select {
	case data := <-ch:
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message")
		return Message{}
	}
}

func TestHub_BroadcastToDashboards(t *testing.T) {
	hub := NewHub(zap.NewNop())
	conn := &Connection{Username: "admin", Send: make(chan []byte, 4), Hub: hub}

	hub.Register(conn)
	assert.Equal(t, MsgConnected, readMessage(t, conn.Send).Type)
	assert.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 10*time.Millisecond)

	hub.BroadcastToDashboards(service.EventResponseSubmitted, service.SubmissionEvent{Department: "HR", TotalResponses: 3})
	msg := readMessage(t, conn.Send)
	assert.Equal(t, MsgResponseSubmitted, msg.Type)
	var event service.SubmissionEvent
	require.NoError(t, json.Unmarshal(msg.Payload, &event))
	assert.Equal(t, "HR", event.Department)
	assert.Equal(t, 3, event.TotalResponses)

	hub.Unregister(conn)
	assert.Eventually(t, func() bool { return hub.Count() == 0 }, time.Second, 10*time.Millisecond)
	_, open := <-conn.Send
	assert.False(t, open)
}

func newTestAuth(t *testing.T) *service.AuthService {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	svc, err := service.NewAuthService(&config.Config{
		AdminUsername:    "admin",
		AdminPassword:    "hurdl2023",
		JWTSecret:        "secret",
		TokenTTL:         time.Hour,
		MaxLoginAttempts: 5,
		LockoutWindow:    time.Minute,
	}, cache.NewAttemptCache(client), zap.NewNop())
	require.NoError(t, err)
	return svc
}

func TestHandler_DashboardWS(t *testing.T) {
	auth := newTestAuth(t)
	hub := NewHub(zap.NewNop())
	srv := httptest.NewServer(http.HandlerFunc(NewHandler(hub, auth, zap.NewNop()).DashboardWS))
	t.Cleanup(srv.Close)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(wsURL+"?token=bogus", nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	login, err := auth.Login(context.Background(), "admin", "hurdl2023")
	require.NoError(t, err)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?token="+login.Token, nil)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, MsgConnected, msg.Type)

	hub.BroadcastToDashboards(service.EventResponseSubmitted, service.SubmissionEvent{Location: "HQ"})
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, MsgResponseSubmitted, msg.Type)
}
