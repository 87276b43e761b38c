package server

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	"pawcircle/internal/models"
	"pawcircle/internal/notifications"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlertsWebSocketReceivesEvents(t *testing.T) {
	env := newTestEnv(t, nil)
	env.server.StartWiring()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = env.app.Listener(ln) }()

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+ln.Addr().String()+"/api/ws/alerts", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return env.server.alertHub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	alert := &models.EmergencyAlert{PetName: "Pepper"}
	env.server.publisher.Broadcast(context.Background(), notifications.EventEmergencyAlertCreated, alert)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var event struct {
		Type    string                `json:"type"`
		Payload models.EmergencyAlert `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(msg, &event))
	assert.Equal(t, notifications.EventEmergencyAlertCreated, event.Type)
	assert.Equal(t, "Pepper", event.Payload.PetName)
}
