package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"guidely/pkg/config"
	"guidely/pkg/events"
	"guidely/pkg/logger"
	"guidely/pkg/model"
	"guidely/pkg/transport"
)

// Mock repositories and AI collaborators for testing
type mockMessageRepository struct {
	insertFunc        func(ctx context.Context, msg *model.ChatMessage) error
	findBetweenFunc   func(ctx context.Context, userID, contactID string) ([]*model.ChatMessage, error)
	findInvolvingFunc func(ctx context.Context, userID string) ([]*model.ChatMessage, error)
	markReadFunc      func(ctx context.Context, userID, contactID string) (int64, error)
}

func (m *mockMessageRepository) Insert(ctx context.Context, msg *model.ChatMessage) error {
	if m.insertFunc != nil {
		return m.insertFunc(ctx, msg)
	}
	return nil
}

func (m *mockMessageRepository) FindBetween(ctx context.Context, userID, contactID string) ([]*model.ChatMessage, error) {
	if m.findBetweenFunc != nil {
		return m.findBetweenFunc(ctx, userID, contactID)
	}
	return []*model.ChatMessage{}, nil
}

func (m *mockMessageRepository) FindInvolving(ctx context.Context, userID string) ([]*model.ChatMessage, error) {
	if m.findInvolvingFunc != nil {
		return m.findInvolvingFunc(ctx, userID)
	}
	return []*model.ChatMessage{}, nil
}

func (m *mockMessageRepository) MarkRead(ctx context.Context, userID, contactID string) (int64, error) {
	if m.markReadFunc != nil {
		return m.markReadFunc(ctx, userID, contactID)
	}
	return 0, nil
}

type mockUserRepository struct {
	findByIDFunc func(ctx context.Context, id string) (*model.User, error)
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, errors.New("user not found")
}

type mockGuideRepository struct {
	findByIDFunc func(ctx context.Context, id string) (*model.Guide, error)
	existsFunc   func(ctx context.Context, id string) (bool, error)
}

func (m *mockGuideRepository) FindByID(ctx context.Context, id string) (*model.Guide, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, errors.New("guide not found")
}

func (m *mockGuideRepository) Exists(ctx context.Context, id string) (bool, error) {
	if m.existsFunc != nil {
		return m.existsFunc(ctx, id)
	}
	return false, nil
}

type mockTranslator struct {
	translateFunc func(ctx context.Context, text, targetLang string) (string, error)
}

func (m *mockTranslator) Translate(ctx context.Context, text, targetLang string) (string, error) {
	if m.translateFunc != nil {
		return m.translateFunc(ctx, text, targetLang)
	}
	return text, nil
}

type mockCompleter struct {
	completeFunc func(ctx context.Context, prompt, personaContext string) (string, error)
}

func (m *mockCompleter) Complete(ctx context.Context, prompt, personaContext string) (string, error) {
	if m.completeFunc != nil {
		return m.completeFunc(ctx, prompt, personaContext)
	}
	return "ok", nil
}

func newTestConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   logger.ERROR,
			Format:  logger.JSON,
			Service: "test",
		}),
		AITimeout:         time.Second,
		ReplyTypingDelay:  time.Millisecond,
		ReplyComposeDelay: time.Millisecond,
	}
}

type serviceDeps struct {
	repo        *mockMessageRepository
	users       *mockUserRepository
	guides      *mockGuideRepository
	translator  *mockTranslator
	completer   *mockCompleter
	broadcaster *transport.MemoryBroadcaster
}

func newTestService(deps serviceDeps) *messagingService {
	if deps.repo == nil {
		deps.repo = &mockMessageRepository{}
	}
	if deps.users == nil {
		deps.users = &mockUserRepository{}
	}
	if deps.guides == nil {
		deps.guides = &mockGuideRepository{}
	}
	if deps.translator == nil {
		deps.translator = &mockTranslator{}
	}
	if deps.completer == nil {
		deps.completer = &mockCompleter{}
	}
	if deps.broadcaster == nil {
		deps.broadcaster = transport.NewMemoryBroadcaster()
	}
	return &messagingService{
		repo:        deps.repo,
		users:       deps.users,
		guides:      deps.guides,
		translator:  deps.translator,
		completer:   deps.completer,
		broadcaster: deps.broadcaster,
		cfg:         newTestConfig(),
	}
}

func validInput() *model.SendMessageInput {
	return &model.SendMessageInput{
		SenderID:   "user-1",
		ReceiverID: "guide-1",
		Text:       "Hello there",
		RoomID:     "user-1_guide-1",
	}
}

// waitForEvent polls until an envelope with the given event name shows up.
func waitForEvent(t *testing.T, b *transport.MemoryBroadcaster, event string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(b.EmittedNamed(event)) > 0 {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %q event", event)
}

func TestSend_DropsIncompleteInput(t *testing.T) {
	cases := map[string]*model.SendMessageInput{
		"missing sender":   {ReceiverID: "g", Text: "hi", RoomID: "r"},
		"missing receiver": {SenderID: "u", Text: "hi", RoomID: "r"},
		"missing text":     {SenderID: "u", ReceiverID: "g", RoomID: "r"},
		"missing room":     {SenderID: "u", ReceiverID: "g", Text: "hi"},
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			inserts := 0
			broadcaster := transport.NewMemoryBroadcaster()
			svc := newTestService(serviceDeps{
				repo: &mockMessageRepository{
					insertFunc: func(ctx context.Context, msg *model.ChatMessage) error {
						inserts++
						return nil
					},
				},
				broadcaster: broadcaster,
			})

			msg, err := svc.Send(context.Background(), input)
			if err != nil {
				t.Fatalf("expected silent drop, got error: %v", err)
			}
			if msg != nil {
				t.Fatalf("expected nil message, got %+v", msg)
			}
			if inserts != 0 {
				t.Errorf("expected no insert, got %d", inserts)
			}
			if got := len(broadcaster.Emitted()); got != 0 {
				t.Errorf("expected no broadcasts, got %d", got)
			}
		})
	}
}

func TestSend_TranslatesForReceiverLanguage(t *testing.T) {
	var requestedLang string
	svc := newTestService(serviceDeps{
		users: &mockUserRepository{
			findByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
				return &model.User{ID: id, Languages: []string{"Tamil", "English"}}, nil
			},
		},
		translator: &mockTranslator{
			translateFunc: func(ctx context.Context, text, targetLang string) (string, error) {
				requestedLang = targetLang
				return "vanakkam", nil
			},
		},
	})

	msg, err := svc.Send(context.Background(), validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if requestedLang != "ta" {
		t.Errorf("expected translation into %q, got %q", "ta", requestedLang)
	}
	if msg.TranslatedText != "vanakkam" {
		t.Errorf("expected translated text, got %q", msg.TranslatedText)
	}
	if msg.Text != "Hello there" {
		t.Errorf("original text changed: %q", msg.Text)
	}
}

func TestSend_EnglishReceiverStillTranslated(t *testing.T) {
	// The sender may write in any language, so an English-preferring receiver
	// still gets a translation pass with "en" as the target.
	var requestedLang string
	svc := newTestService(serviceDeps{
		users: &mockUserRepository{
			findByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
				return &model.User{ID: id, Languages: []string{"English"}}, nil
			},
		},
		translator: &mockTranslator{
			translateFunc: func(ctx context.Context, text, targetLang string) (string, error) {
				requestedLang = targetLang
				return "Hello, how are you?", nil
			},
		},
	})

	input := validInput()
	input.Text = "Hola, como estas?"
	msg, err := svc.Send(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if requestedLang != "en" {
		t.Errorf("expected translation into %q, got %q", "en", requestedLang)
	}
	if msg.TranslatedText != "Hello, how are you?" {
		t.Errorf("expected translated text, got %q", msg.TranslatedText)
	}
}

func TestSend_UnknownReceiverTranslatedToDefault(t *testing.T) {
	var requestedLang string
	svc := newTestService(serviceDeps{
		translator: &mockTranslator{
			translateFunc: func(ctx context.Context, text, targetLang string) (string, error) {
				requestedLang = targetLang
				return "translated", nil
			},
		},
	})

	msg, err := svc.Send(context.Background(), validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if requestedLang != "en" {
		t.Errorf("unregistered receivers fall back to %q, got %q", "en", requestedLang)
	}
	if msg.TranslatedText != "translated" {
		t.Errorf("expected translated text, got %q", msg.TranslatedText)
	}
}

func TestSend_TranslationFailureKeepsOriginal(t *testing.T) {
	svc := newTestService(serviceDeps{
		users: &mockUserRepository{
			findByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
				return &model.User{ID: id, Languages: []string{"French"}}, nil
			},
		},
		translator: &mockTranslator{
			translateFunc: func(ctx context.Context, text, targetLang string) (string, error) {
				return "", errors.New("service unavailable")
			},
		},
	})

	msg, err := svc.Send(context.Background(), validInput())
	if err != nil {
		t.Fatalf("translation failure must not fail delivery: %v", err)
	}
	if msg.TranslatedText != "Hello there" {
		t.Errorf("expected original text on translation failure, got %q", msg.TranslatedText)
	}
}

func TestSend_NormalizesText(t *testing.T) {
	svc := newTestService(serviceDeps{})

	input := validInput()
	input.Text = "  hello \t  world  "
	msg, err := svc.Send(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Text != "hello world" {
		t.Errorf("expected normalized text, got %q", msg.Text)
	}
}

func TestSend_PersistFailureFailsDelivery(t *testing.T) {
	broadcaster := transport.NewMemoryBroadcaster()
	svc := newTestService(serviceDeps{
		repo: &mockMessageRepository{
			insertFunc: func(ctx context.Context, msg *model.ChatMessage) error {
				return errors.New("write failed")
			},
		},
		broadcaster: broadcaster,
	})

	msg, err := svc.Send(context.Background(), validInput())
	if err == nil {
		t.Fatal("expected an error when persistence fails")
	}
	if msg != nil {
		t.Errorf("expected nil message, got %+v", msg)
	}
	if got := len(broadcaster.Emitted()); got != 0 {
		t.Errorf("expected no broadcast after persist failure, got %d", got)
	}
}

func TestSend_BroadcastsToRoom(t *testing.T) {
	broadcaster := transport.NewMemoryBroadcaster()
	svc := newTestService(serviceDeps{broadcaster: broadcaster})

	msg, err := svc.Send(context.Background(), validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(msg.ID, "msg_") {
		t.Errorf("unexpected message id format: %q", msg.ID)
	}

	emitted := broadcaster.EmittedNamed(events.ReceiveMessage)
	if len(emitted) != 1 {
		t.Fatalf("expected 1 receive_message envelope, got %d", len(emitted))
	}
	if emitted[0].Room != "user-1_guide-1" {
		t.Errorf("broadcast went to wrong room: %q", emitted[0].Room)
	}

	var delivered model.ChatMessage
	if err := emitted[0].Decode(&delivered); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
	if delivered.ID != msg.ID {
		t.Errorf("payload id %q does not match returned message %q", delivered.ID, msg.ID)
	}
	if delivered.RoomID != "user-1_guide-1" {
		t.Errorf("payload room id missing, got %q", delivered.RoomID)
	}
	if delivered.IsRead {
		t.Error("new messages must start unread")
	}
}

func TestSend_GuideReceiverTriggersSimulatedReply(t *testing.T) {
	broadcaster := transport.NewMemoryBroadcaster()
	var inserted []*model.ChatMessage
	svc := newTestService(serviceDeps{
		repo: &mockMessageRepository{
			insertFunc: func(ctx context.Context, msg *model.ChatMessage) error {
				inserted = append(inserted, msg)
				return nil
			},
		},
		guides: &mockGuideRepository{
			existsFunc: func(ctx context.Context, id string) (bool, error) {
				return true, nil
			},
			findByIDFunc: func(ctx context.Context, id string) (*model.Guide, error) {
				return &model.Guide{
					ID:          id,
					Name:        "Asha",
					Location:    "Jaipur",
					Specialties: []string{"food", "history"},
				}, nil
			},
		},
		completer: &mockCompleter{
			completeFunc: func(ctx context.Context, prompt, personaContext string) (string, error) {
				if !strings.Contains(personaContext, "Asha") {
					t.Errorf("persona context missing guide name: %q", personaContext)
				}
				if prompt != "Hello there" {
					t.Errorf("unexpected prompt: %q", prompt)
				}
				return "Happy to show you around!", nil
			},
		},
		broadcaster: broadcaster,
	})

	if _, err := svc.Send(context.Background(), validInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	waitForEvent(t, broadcaster, events.TypingStop)

	emitted := broadcaster.Emitted()
	var sequence []string
	for _, env := range emitted {
		sequence = append(sequence, env.Event)
	}
	want := []string{events.ReceiveMessage, events.TypingStart, events.ReceiveMessage, events.TypingStop}
	if len(sequence) != len(want) {
		t.Fatalf("expected event sequence %v, got %v", want, sequence)
	}
	for i := range want {
		if sequence[i] != want[i] {
			t.Fatalf("expected event sequence %v, got %v", want, sequence)
		}
	}

	var reply model.ChatMessage
	if err := emitted[2].Decode(&reply); err != nil {
		t.Fatalf("failed to decode reply payload: %v", err)
	}
	if !strings.HasPrefix(reply.ID, "msg_ai_") {
		t.Errorf("unexpected reply id format: %q", reply.ID)
	}
	if reply.SenderID != "guide-1" || reply.ReceiverID != "user-1" {
		t.Errorf("reply direction wrong: sender %q receiver %q", reply.SenderID, reply.ReceiverID)
	}
	if reply.Text != "Happy to show you around!" {
		t.Errorf("unexpected reply text: %q", reply.Text)
	}

	if len(inserted) != 2 {
		t.Errorf("expected inbound message and reply persisted, got %d inserts", len(inserted))
	}
}

func TestSend_CompleterFailureUsesFallbackReply(t *testing.T) {
	broadcaster := transport.NewMemoryBroadcaster()
	svc := newTestService(serviceDeps{
		guides: &mockGuideRepository{
			existsFunc: func(ctx context.Context, id string) (bool, error) {
				return true, nil
			},
		},
		completer: &mockCompleter{
			completeFunc: func(ctx context.Context, prompt, personaContext string) (string, error) {
				return "", errors.New("quota exceeded")
			},
		},
		broadcaster: broadcaster,
	})

	if _, err := svc.Send(context.Background(), validInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	waitForEvent(t, broadcaster, events.TypingStop)

	replies := broadcaster.EmittedNamed(events.ReceiveMessage)
	if len(replies) != 2 {
		t.Fatalf("expected inbound message plus reply, got %d", len(replies))
	}
	var reply model.ChatMessage
	if err := replies[1].Decode(&reply); err != nil {
		t.Fatalf("failed to decode reply payload: %v", err)
	}
	if reply.Text != fallbackReply {
		t.Errorf("expected fallback reply, got %q", reply.Text)
	}
}

func TestSend_NonGuideReceiverGetsNoReply(t *testing.T) {
	broadcaster := transport.NewMemoryBroadcaster()
	svc := newTestService(serviceDeps{broadcaster: broadcaster})

	if _, err := svc.Send(context.Background(), validInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Allow more than both reply delays to pass.
	time.Sleep(20 * time.Millisecond)
	if got := len(broadcaster.EmittedNamed(events.TypingStart)); got != 0 {
		t.Errorf("expected no typing indicator for a non-guide receiver, got %d", got)
	}
	if got := len(broadcaster.EmittedNamed(events.ReceiveMessage)); got != 1 {
		t.Errorf("expected only the inbound message, got %d", got)
	}
}

func TestHistory(t *testing.T) {
	t.Run("requires both ids", func(t *testing.T) {
		svc := newTestService(serviceDeps{})
		if _, err := svc.History(context.Background(), "", "c"); err == nil {
			t.Error("expected error for empty user id")
		}
		if _, err := svc.History(context.Background(), "u", ""); err == nil {
			t.Error("expected error for empty contact id")
		}
	})

	t.Run("nil result becomes empty slice", func(t *testing.T) {
		svc := newTestService(serviceDeps{
			repo: &mockMessageRepository{
				findBetweenFunc: func(ctx context.Context, userID, contactID string) ([]*model.ChatMessage, error) {
					return nil, nil
				},
			},
		})
		messages, err := svc.History(context.Background(), "u", "c")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if messages == nil {
			t.Error("expected empty slice, got nil")
		}
	})
}

func TestConversations(t *testing.T) {
	// Oldest first, the order the repository returns them in.
	history := []*model.ChatMessage{
		{ID: "m1", SenderID: "guide-1", ReceiverID: "user-1", Text: "Welcome", Timestamp: "2026-08-01T09:00:00Z", IsRead: true},
		{ID: "m2", SenderID: "user-1", ReceiverID: "guide-1", Text: "Thanks", Timestamp: "2026-08-01T09:05:00Z"},
		{ID: "m3", SenderID: "guide-2", ReceiverID: "user-1", Text: "Free tomorrow?", Timestamp: "2026-08-02T10:00:00Z", IsRead: false},
		{ID: "m4", SenderID: "guide-2", ReceiverID: "user-1", Text: "Ping", Timestamp: "2026-08-02T11:00:00Z", IsRead: false},
	}

	svc := newTestService(serviceDeps{
		repo: &mockMessageRepository{
			findInvolvingFunc: func(ctx context.Context, userID string) ([]*model.ChatMessage, error) {
				return history, nil
			},
		},
		guides: &mockGuideRepository{
			findByIDFunc: func(ctx context.Context, id string) (*model.Guide, error) {
				if id == "guide-1" {
					return &model.Guide{ID: id, Name: "Asha", Avatar: "asha.png"}, nil
				}
				return nil, errors.New("guide not found")
			},
		},
	})

	conversations, err := svc.Conversations(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(conversations) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(conversations))
	}

	// Most recent exchange first.
	first := conversations[0]
	if first.ID != "guide-2" {
		t.Errorf("expected guide-2 first, got %q", first.ID)
	}
	if first.LastMessage != "Ping" {
		t.Errorf("expected latest message, got %q", first.LastMessage)
	}
	if first.UnreadCount != 2 {
		t.Errorf("expected 2 unread, got %d", first.UnreadCount)
	}
	// Unknown in both registries falls back to the raw id.
	if first.Name != "guide-2" {
		t.Errorf("expected raw id as display name, got %q", first.Name)
	}

	second := conversations[1]
	if second.ID != "guide-1" {
		t.Errorf("expected guide-1 second, got %q", second.ID)
	}
	if second.LastMessage != "Thanks" {
		t.Errorf("expected latest message, got %q", second.LastMessage)
	}
	if second.UnreadCount != 0 {
		t.Errorf("expected 0 unread, got %d", second.UnreadCount)
	}
	if second.Name != "Asha" || second.Avatar != "asha.png" {
		t.Errorf("expected registry identity, got %q / %q", second.Name, second.Avatar)
	}
}

func TestConversations_RequiresUserID(t *testing.T) {
	svc := newTestService(serviceDeps{})
	if _, err := svc.Conversations(context.Background(), ""); err == nil {
		t.Error("expected error for empty user id")
	}
}

func TestMarkRead(t *testing.T) {
	var gotUser, gotContact string
	svc := newTestService(serviceDeps{
		repo: &mockMessageRepository{
			markReadFunc: func(ctx context.Context, userID, contactID string) (int64, error) {
				gotUser, gotContact = userID, contactID
				return 3, nil
			},
		},
	})

	if err := svc.MarkRead(context.Background(), "user-1", "guide-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotUser != "user-1" || gotContact != "guide-1" {
		t.Errorf("repository called with %q / %q", gotUser, gotContact)
	}

	// A repeated call is a no-op at the storage filter, never an error.
	if err := svc.MarkRead(context.Background(), "user-1", "guide-1"); err != nil {
		t.Fatalf("second call must succeed: %v", err)
	}

	if err := svc.MarkRead(context.Background(), "", "guide-1"); err == nil {
		t.Error("expected error for empty user id")
	}
}

func TestTyping(t *testing.T) {
	broadcaster := transport.NewMemoryBroadcaster()
	svc := newTestService(serviceDeps{broadcaster: broadcaster})

	evt := &model.TypingEvent{RoomID: "room-1", SenderID: "user-1"}
	if err := svc.Typing(context.Background(), events.TypingStart, evt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	emitted := broadcaster.EmittedNamed(events.TypingStart)
	if len(emitted) != 1 {
		t.Fatalf("expected 1 typing envelope, got %d", len(emitted))
	}
	if !emitted[0].ExceptSender || emitted[0].SenderID != "user-1" {
		t.Errorf("typing must exclude the sender, got %+v", emitted[0])
	}

	// No room means nothing to relay.
	if err := svc.Typing(context.Background(), events.TypingStop, &model.TypingEvent{SenderID: "user-1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(broadcaster.EmittedNamed(events.TypingStop)); got != 0 {
		t.Errorf("expected no relay without a room, got %d", got)
	}
}
