package gateway

import (
	"context"
	"encoding/json"

	"guidely/pkg/config"
	"guidely/pkg/kafka"
	"guidely/pkg/logger"
	"guidely/pkg/transport"
)

// BookingEventBridge re-broadcasts booking lifecycle events from the bus to
// every connected client. The consumer group ensures one gateway instance
// picks each event up; the global broadcast then fans it out across
// instances.
type BookingEventBridge struct {
	broadcaster transport.Broadcaster
	log         *logger.Logger
}

func NewBookingEventBridge(broadcaster transport.Broadcaster, cfg *config.Config) *BookingEventBridge {
	return &BookingEventBridge{
		broadcaster: broadcaster,
		log:         cfg.Log,
	}
}

// Handle implements the bus consumer callback.
func (b *BookingEventBridge) Handle(ctx context.Context, msg kafka.Message) error {
	eventType := msg.GetEventType()
	if eventType == "" {
		b.log.Warn("Dropping bus message without event type", "key", msg.Key)
		return nil
	}

	if err := b.broadcaster.BroadcastGlobal(ctx, eventType, json.RawMessage(msg.Value)); err != nil {
		return err
	}

	b.log.Debug("Broadcast booking event", "event", eventType, "key", msg.Key)
	return nil
}
