package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	directoryrepo "guidely/internal/directory/repository"
	"guidely/internal/messaging/repository"
	"guidely/pkg/ai"
	"guidely/pkg/config"
	apperrors "guidely/pkg/errors"
	"guidely/pkg/events"
	"guidely/pkg/locale"
	"guidely/pkg/model"
	"guidely/pkg/sanitizer"
	"guidely/pkg/transport"

	"github.com/google/uuid"
)

// fallbackReply is sent when the completion service cannot produce a guide
// reply.
const fallbackReply = "Hello! I am excited to help you explore. How can I assist you today?"

type MessagingService interface {
	// Send runs the delivery pipeline for one client message. Incomplete
	// input is dropped silently: the returned message is nil and no error is
	// reported to the sender.
	Send(ctx context.Context, input *model.SendMessageInput) (*model.ChatMessage, error)

	History(ctx context.Context, userID, contactID string) ([]*model.ChatMessage, error)
	Conversations(ctx context.Context, userID string) ([]*model.Conversation, error)
	MarkRead(ctx context.Context, userID, contactID string) error

	// Typing relays a typing indicator to the room, excluding the sender.
	Typing(ctx context.Context, event string, evt *model.TypingEvent) error
}

type messagingService struct {
	repo        repository.MessageRepository
	users       directoryrepo.UserRepository
	guides      directoryrepo.GuideRepository
	translator  ai.Translator
	completer   ai.Completer
	broadcaster transport.Broadcaster
	cfg         *config.Config
}

func NewMessagingService(
	repo repository.MessageRepository,
	users directoryrepo.UserRepository,
	guides directoryrepo.GuideRepository,
	translator ai.Translator,
	completer ai.Completer,
	broadcaster transport.Broadcaster,
	cfg *config.Config,
) MessagingService {
	return &messagingService{
		repo:        repo,
		users:       users,
		guides:      guides,
		translator:  translator,
		completer:   completer,
		broadcaster: broadcaster,
		cfg:         cfg,
	}
}

func (s *messagingService) Send(ctx context.Context, input *model.SendMessageInput) (*model.ChatMessage, error) {
	if !input.Complete() {
		s.cfg.Log.Debug("Dropping incomplete message",
			"sender_id", input.SenderID,
			"receiver_id", input.ReceiverID,
			"room_id", input.RoomID,
		)
		return nil, nil
	}

	text := sanitizer.TrimAndNormalize(input.Text)

	msg := &model.ChatMessage{
		ID:         newMessageID(),
		SenderID:   input.SenderID,
		ReceiverID: input.ReceiverID,
		Text:       text,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		IsRead:     false,
		RoomID:     input.RoomID,
	}
	msg.TranslatedText = s.translateFor(ctx, input.ReceiverID, text)

	if err := s.repo.Insert(ctx, msg); err != nil {
		s.cfg.Log.Error("Failed to persist message", "id", msg.ID, "error", err)
		return nil, apperrors.Internal("Failed to deliver message", err)
	}

	if err := s.broadcaster.EmitToRoom(ctx, input.RoomID, events.ReceiveMessage, msg); err != nil {
		s.cfg.Log.Warn("Failed to broadcast message", "id", msg.ID, "room_id", input.RoomID, "error", err)
	}

	isGuide, err := s.guides.Exists(ctx, input.ReceiverID)
	if err != nil {
		s.cfg.Log.Warn("Failed to check guide registry", "receiver_id", input.ReceiverID, "error", err)
	}
	if isGuide {
		go s.simulateGuideReply(input.RoomID, input.ReceiverID, input.SenderID, text)
	}

	s.cfg.Log.Info("Message delivered",
		"id", msg.ID,
		"sender_id", msg.SenderID,
		"receiver_id", msg.ReceiverID,
		"room_id", input.RoomID,
	)
	return msg, nil
}

// translateFor resolves the receiver's preferred language and translates the
// text into it. The message carries exactly one translation target, so the
// service is called even when that target is the default language: the sender
// may well be writing in another one. Every failure on this path degrades to
// the original text.
func (s *messagingService) translateFor(ctx context.Context, receiverID, text string) string {
	lang := locale.DefaultLanguage
	user, err := s.users.FindByID(ctx, receiverID)
	if err == nil {
		lang = locale.PreferredLanguage(user.Languages)
	} else {
		s.cfg.Log.Debug("Receiver not in user registry, keeping default language",
			"receiver_id", receiverID,
		)
	}

	translated, err := s.translator.Translate(ctx, text, lang)
	if err != nil {
		s.cfg.Log.Warn("Translation failed, delivering original text",
			"receiver_id", receiverID,
			"language", lang,
			"error", err,
		)
		return text
	}
	return translated
}

// simulateGuideReply runs detached from the originating request: the sender's
// message is already delivered, so nothing here may surface an error to them.
func (s *messagingService) simulateGuideReply(roomID, guideID, toUserID, inboundText string) {
	defer func() {
		if r := recover(); r != nil {
			s.cfg.Log.Error("Simulated reply panicked", "guide_id", guideID, "panic", r)
		}
	}()

	ctx := context.Background()

	time.Sleep(s.cfg.ReplyTypingDelay)
	if err := s.broadcaster.EmitToRoom(ctx, roomID, events.TypingStart, &model.TypingEvent{RoomID: roomID, SenderID: guideID}); err != nil {
		s.cfg.Log.Warn("Failed to broadcast typing indicator", "room_id", roomID, "error", err)
	}

	time.Sleep(s.cfg.ReplyComposeDelay)

	reply := &model.ChatMessage{
		ID:         newReplyID(),
		SenderID:   guideID,
		ReceiverID: toUserID,
		Text:       s.composeReply(ctx, guideID, inboundText),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		IsRead:     false,
		RoomID:     roomID,
	}

	if err := s.repo.Insert(ctx, reply); err != nil {
		s.cfg.Log.Error("Failed to persist simulated reply", "id", reply.ID, "error", err)
	} else if err := s.broadcaster.EmitToRoom(ctx, roomID, events.ReceiveMessage, reply); err != nil {
		s.cfg.Log.Warn("Failed to broadcast simulated reply", "id", reply.ID, "error", err)
	}

	if err := s.broadcaster.EmitToRoom(ctx, roomID, events.TypingStop, &model.TypingEvent{RoomID: roomID, SenderID: guideID}); err != nil {
		s.cfg.Log.Warn("Failed to broadcast typing indicator", "room_id", roomID, "error", err)
	}
}

func (s *messagingService) composeReply(ctx context.Context, guideID, inboundText string) string {
	persona := ""
	guide, err := s.guides.FindByID(ctx, guideID)
	if err == nil {
		persona = personaContext(guide)
	} else {
		s.cfg.Log.Warn("Failed to load guide persona", "guide_id", guideID, "error", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.AITimeout)
	defer cancel()

	reply, err := s.completer.Complete(ctx, inboundText, persona)
	if err != nil {
		s.cfg.Log.Warn("Completion failed, using fallback reply", "guide_id", guideID, "error", err)
		return fallbackReply
	}
	return reply
}

func personaContext(guide *model.Guide) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, a local tour guide", guide.Name)
	if guide.Location != "" {
		fmt.Fprintf(&b, " based in %s", guide.Location)
	}
	b.WriteString(".")
	if len(guide.Specialties) > 0 {
		fmt.Fprintf(&b, " Your specialties: %s.", strings.Join(guide.Specialties, ", "))
	}
	b.WriteString(" Reply to the traveler's message in one or two short, friendly sentences.")
	return b.String()
}

func (s *messagingService) History(ctx context.Context, userID, contactID string) ([]*model.ChatMessage, error) {
	if userID == "" || contactID == "" {
		return nil, apperrors.InvalidInput("Both userId and contactId are required")
	}

	messages, err := s.repo.FindBetween(ctx, userID, contactID)
	if err != nil {
		s.cfg.Log.Error("Failed to load message history", "user_id", userID, "contact_id", contactID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve messages", err)
	}

	if messages == nil {
		messages = []*model.ChatMessage{}
	}
	return messages, nil
}

func (s *messagingService) Conversations(ctx context.Context, userID string) ([]*model.Conversation, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	messages, err := s.repo.FindInvolving(ctx, userID)
	if err != nil {
		s.cfg.Log.Error("Failed to load conversations", "user_id", userID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve conversations", err)
	}

	byContact := make(map[string]*model.Conversation)
	var order []string
	for _, msg := range messages {
		contactID := msg.SenderID
		if contactID == userID {
			contactID = msg.ReceiverID
		}

		convo, ok := byContact[contactID]
		if !ok {
			convo = &model.Conversation{ID: contactID}
			byContact[contactID] = convo
			order = append(order, contactID)
		}

		// Messages arrive oldest first, so the running values end up at
		// the latest message.
		convo.LastMessage = msg.Text
		convo.Timestamp = msg.Timestamp
		if msg.ReceiverID == userID && !msg.IsRead {
			convo.UnreadCount++
		}
	}

	conversations := make([]*model.Conversation, 0, len(order))
	for _, contactID := range order {
		convo := byContact[contactID]
		convo.Name, convo.Avatar = s.displayIdentity(ctx, contactID)
		conversations = append(conversations, convo)
	}

	sort.SliceStable(conversations, func(i, j int) bool {
		return conversations[i].Timestamp > conversations[j].Timestamp
	})

	return conversations, nil
}

// displayIdentity resolves a counterpart's name and avatar from either
// registry, falling back to the raw id.
func (s *messagingService) displayIdentity(ctx context.Context, contactID string) (string, string) {
	if user, err := s.users.FindByID(ctx, contactID); err == nil {
		return user.Name, user.Avatar
	}
	if guide, err := s.guides.FindByID(ctx, contactID); err == nil {
		return guide.Name, guide.Avatar
	}
	return contactID, ""
}

func (s *messagingService) MarkRead(ctx context.Context, userID, contactID string) error {
	if userID == "" || contactID == "" {
		return apperrors.InvalidInput("Both userId and contactId are required")
	}

	count, err := s.repo.MarkRead(ctx, userID, contactID)
	if err != nil {
		s.cfg.Log.Error("Failed to mark conversation read", "user_id", userID, "contact_id", contactID, "error", err)
		return apperrors.Internal("Failed to mark messages read", err)
	}

	s.cfg.Log.Debug("Conversation marked read",
		"user_id", userID,
		"contact_id", contactID,
		"modified", count,
	)
	return nil
}

func (s *messagingService) Typing(ctx context.Context, event string, evt *model.TypingEvent) error {
	if evt.RoomID == "" {
		return nil
	}
	return s.broadcaster.EmitToRoomExceptSender(ctx, evt.RoomID, evt.SenderID, event, evt)
}

func newMessageID() string {
	return fmt.Sprintf("msg_%d_%s", time.Now().UnixMilli(), randomSuffix(9))
}

func newReplyID() string {
	return fmt.Sprintf("msg_ai_%d", time.Now().UnixMilli())
}

func randomSuffix(n int) string {
	s := strings.ReplaceAll(uuid.New().String(), "-", "")
	if n > len(s) {
		n = len(s)
	}
	return s[:n]
}
