package transport

import (
	"context"
	"sync"
)

// MemoryBroadcaster is a single-process Broadcaster. It backs unit tests and
// doubles as an event recorder: every emitted envelope is retained and can
// be inspected after the fact.
type MemoryBroadcaster struct {
	mu      sync.Mutex
	nextID  int
	rooms   map[string]map[int]Handler
	global  map[int]Handler
	emitted []Envelope
}

func NewMemoryBroadcaster() *MemoryBroadcaster {
	return &MemoryBroadcaster{
		rooms:  make(map[string]map[int]Handler),
		global: make(map[int]Handler),
	}
}

func (b *MemoryBroadcaster) EmitToRoom(ctx context.Context, roomID, event string, payload any) error {
	env, err := seal(roomID, "", event, false, payload)
	if err != nil {
		return err
	}
	b.deliverRoom(roomID, env)
	return nil
}

func (b *MemoryBroadcaster) EmitToRoomExceptSender(ctx context.Context, roomID, senderID, event string, payload any) error {
	env, err := seal(roomID, senderID, event, true, payload)
	if err != nil {
		return err
	}
	b.deliverRoom(roomID, env)
	return nil
}

func (b *MemoryBroadcaster) BroadcastGlobal(ctx context.Context, event string, payload any) error {
	env, err := seal("", "", event, false, payload)
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.emitted = append(b.emitted, env)
	handlers := make([]Handler, 0, len(b.global))
	for _, fn := range b.global {
		handlers = append(handlers, fn)
	}
	b.mu.Unlock()

	for _, fn := range handlers {
		fn(env)
	}
	return nil
}

func (b *MemoryBroadcaster) Subscribe(roomID string, fn Handler) (Unsubscribe, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.rooms[roomID] == nil {
		b.rooms[roomID] = make(map[int]Handler)
	}
	id := b.nextID
	b.nextID++
	b.rooms[roomID][id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.rooms[roomID], id)
	}, nil
}

func (b *MemoryBroadcaster) SubscribeGlobal(fn Handler) (Unsubscribe, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.global[id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.global, id)
	}, nil
}

// Emitted returns a copy of every envelope published so far, in order.
func (b *MemoryBroadcaster) Emitted() []Envelope {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Envelope, len(b.emitted))
	copy(out, b.emitted)
	return out
}

// EmittedNamed filters Emitted by event name.
func (b *MemoryBroadcaster) EmittedNamed(event string) []Envelope {
	var out []Envelope
	for _, env := range b.Emitted() {
		if env.Event == event {
			out = append(out, env)
		}
	}
	return out
}

func (b *MemoryBroadcaster) deliverRoom(roomID string, env Envelope) {
	b.mu.Lock()
	b.emitted = append(b.emitted, env)
	handlers := make([]Handler, 0, len(b.rooms[roomID]))
	for _, fn := range b.rooms[roomID] {
		handlers = append(handlers, fn)
	}
	b.mu.Unlock()

	for _, fn := range handlers {
		fn(env)
	}
}
