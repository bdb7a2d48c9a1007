package pubsub

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"munch/internal/domain/service"
)

func TestLocalHTTPPublisher_PublishOrderEvent(t *testing.T) {
	var received PubSubPushMessage

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "req-42", r.Header.Get("X-Request-Id"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	publisher := NewLocalHTTPPublisher(server.URL, slog.New(slog.DiscardHandler))

	event := &service.OrderEvent{
		RequestID: "req-42",
		Channel:   service.ChannelOrders,
		Kind:      service.EventKindInsert,
		OrderID:   uuid.New(),
		UserID:    uuid.New(),
		Status:    "New",
	}
	require.NoError(t, publisher.PublishOrderEvent(context.Background(), event))

	assert.Equal(t, service.ChannelOrders, received.Message.Attributes["channel"])
	assert.Equal(t, service.EventKindInsert, received.Message.Attributes["kind"])
	assert.Equal(t, "req-42", received.Message.Attributes["request_id"])
	assert.NotEmpty(t, received.Message.MessageID)

	decoded, err := base64.StdEncoding.DecodeString(received.Message.Data)
	require.NoError(t, err)

	var got service.OrderEvent
	require.NoError(t, json.Unmarshal(decoded, &got))
	assert.Equal(t, event.OrderID, got.OrderID)
	assert.Equal(t, event.Status, got.Status)
}

func TestLocalHTTPPublisher_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	publisher := NewLocalHTTPPublisher(server.URL, slog.New(slog.DiscardHandler))

	err := publisher.PublishOrderEvent(context.Background(), &service.OrderEvent{
		Channel: service.ChannelOrders,
		Kind:    service.EventKindUpdate,
	})
	assert.Error(t, err)
}
