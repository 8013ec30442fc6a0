// Package transport is the room-based pub/sub layer the realtime features
// ride on. A room is a logical broadcast group: one conversation or one
// tracking session. Implementations fan events out to every subscriber of a
// room; sender exclusion is carried on the envelope and applied at delivery,
// so it works across gateway instances.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
)

// Envelope wraps an event for delivery to room subscribers.
type Envelope struct {
	Event        string          `json:"event"`
	Room         string          `json:"room,omitempty"`
	SenderID     string          `json:"senderId,omitempty"`
	ExceptSender bool            `json:"exceptSender,omitempty"`
	Payload      json.RawMessage `json:"payload,omitempty"`
}

// Decode unmarshals the envelope payload into v.
func (e *Envelope) Decode(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// Handler receives envelopes delivered to a subscription. Handlers must not
// block: slow consumers are expected to buffer on their own channel.
type Handler func(env Envelope)

// Unsubscribe detaches a subscription. Safe to call more than once.
type Unsubscribe func()

// Broadcaster is the room pub/sub contract consumed by the core pipelines.
type Broadcaster interface {
	// EmitToRoom delivers the event to every subscriber of the room,
	// including the sender's own connection.
	EmitToRoom(ctx context.Context, roomID, event string, payload any) error

	// EmitToRoomExceptSender delivers to everyone in the room except
	// connections identified by senderID.
	EmitToRoomExceptSender(ctx context.Context, roomID, senderID, event string, payload any) error

	// BroadcastGlobal delivers to every connected client regardless of rooms.
	BroadcastGlobal(ctx context.Context, event string, payload any) error

	// Subscribe joins a room. Joining the same room twice from the same
	// caller is the caller's responsibility to dedupe.
	Subscribe(roomID string, fn Handler) (Unsubscribe, error)

	// SubscribeGlobal receives global broadcasts.
	SubscribeGlobal(fn Handler) (Unsubscribe, error)
}

func seal(roomID, senderID, event string, exceptSender bool, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to marshal %s payload: %w", event, err)
	}
	return Envelope{
		Event:        event,
		Room:         roomID,
		SenderID:     senderID,
		ExceptSender: exceptSender,
		Payload:      raw,
	}, nil
}
