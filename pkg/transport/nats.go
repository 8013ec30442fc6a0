package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"

	"guidely/pkg/logger"
)

const (
	roomSubjectPrefix = "guidely.rooms."
	globalSubject     = "guidely.broadcast"
)

// NatsBroadcaster fans room traffic out over core NATS subjects so rooms
// span gateway instances. Delivery is at-most-once: a client that misses a
// broadcast reconciles through the conversation fetch, matching the
// pipeline's no-retry semantics.
type NatsBroadcaster struct {
	nc  *nats.Conn
	log *logger.Logger
}

func NewNatsBroadcaster(url string, log *logger.Logger) (*NatsBroadcaster, error) {
	nc, err := nats.Connect(url,
		nats.Name("guidely-gateway"),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}
	return &NatsBroadcaster{nc: nc, log: log}, nil
}

func (b *NatsBroadcaster) Close() {
	if b.nc != nil {
		b.nc.Close()
	}
}

func (b *NatsBroadcaster) EmitToRoom(ctx context.Context, roomID, event string, payload any) error {
	env, err := seal(roomID, "", event, false, payload)
	if err != nil {
		return err
	}
	return b.publish(roomSubject(roomID), env)
}

func (b *NatsBroadcaster) EmitToRoomExceptSender(ctx context.Context, roomID, senderID, event string, payload any) error {
	env, err := seal(roomID, senderID, event, true, payload)
	if err != nil {
		return err
	}
	return b.publish(roomSubject(roomID), env)
}

func (b *NatsBroadcaster) BroadcastGlobal(ctx context.Context, event string, payload any) error {
	env, err := seal("", "", event, false, payload)
	if err != nil {
		return err
	}
	return b.publish(globalSubject, env)
}

func (b *NatsBroadcaster) Subscribe(roomID string, fn Handler) (Unsubscribe, error) {
	return b.subscribe(roomSubject(roomID), fn)
}

func (b *NatsBroadcaster) SubscribeGlobal(fn Handler) (Unsubscribe, error) {
	return b.subscribe(globalSubject, fn)
}

func (b *NatsBroadcaster) publish(subject string, env Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}
	if err := b.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}
	return nil
}

func (b *NatsBroadcaster) subscribe(subject string, fn Handler) (Unsubscribe, error) {
	sub, err := b.nc.Subscribe(subject, func(msg *nats.Msg) {
		var env Envelope
		if err := json.Unmarshal(msg.Data, &env); err != nil {
			b.log.Warn("Dropping malformed envelope", "subject", msg.Subject, "error", err)
			return
		}
		fn(env)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}
	return func() {
		if err := sub.Unsubscribe(); err != nil {
			b.log.Warn("Failed to unsubscribe", "subject", subject, "error", err)
		}
	}, nil
}

// roomSubject maps a room id onto a single NATS subject token. Room ids are
// caller-supplied, so characters with subject semantics are replaced.
func roomSubject(roomID string) string {
	sanitized := strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ':
			return '_'
		}
		return r
	}, roomID)
	return roomSubjectPrefix + sanitized
}
