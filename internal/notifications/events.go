package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"pawcircle/internal/middleware"
)

// Event type constants prevent typos in event names.
const (
	EventEmergencyAlertCreated = "emergency_alert_created"
)

// Event is the envelope every websocket message uses.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

func EncodeEvent(eventType string, payload any) (string, error) {
	b, err := json.Marshal(Event{Type: eventType, Payload: payload})
	if err != nil {
		return "", fmt.Errorf("marshal %s event: %w", eventType, err)
	}
	return string(b), nil
}

// Publisher sends broadcast events through Redis when the hub is wired to it and
// straight to the local hub otherwise.
type Publisher struct {
	hub      *Hub
	notifier *Notifier
}

func NewPublisher(hub *Hub, notifier *Notifier) *Publisher {
	return &Publisher{hub: hub, notifier: notifier}
}

// Broadcast encodes and delivers an event. Failures are logged, never returned.
func (p *Publisher) Broadcast(ctx context.Context, eventType string, payload any) {
	message, err := EncodeEvent(eventType, payload)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "failed to encode event", slog.String("error", err.Error()))
		return
	}
	// Redis only while this hub is subscribed to it.
	if p.notifier.Enabled() && (p.hub == nil || p.hub.Wired()) {
		receivers, err := p.notifier.PublishBroadcast(ctx, message)
		if err == nil && receivers > 0 {
			return
		}
		if err != nil {
			middleware.Logger.WarnContext(ctx, "failed to publish event, delivering locally",
				slog.String("type", eventType), slog.String("error", err.Error()))
		}
	}
	if p.hub != nil {
		p.hub.BroadcastAll(message)
	}
}
