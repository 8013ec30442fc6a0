package gateway

import (
	"context"
	"encoding/json"

	messagingservice "guidely/internal/messaging/service"
	trackingservice "guidely/internal/tracking/service"
	"guidely/pkg/config"
	"guidely/pkg/events"
	"guidely/pkg/logger"
	"guidely/pkg/model"
	"guidely/pkg/transport"

	"github.com/gofiber/contrib/websocket"
)

// Handler terminates websocket connections and routes client events into the
// messaging and tracking services. Identity is taken from the userId query
// parameter on upgrade; there is no authentication layer in front of it.
type Handler struct {
	messaging   messagingservice.MessagingService
	tracking    trackingservice.TrackingService
	broadcaster transport.Broadcaster
	cfg         *config.Config
	log         *logger.Logger
}

func NewHandler(
	messaging messagingservice.MessagingService,
	tracking trackingservice.TrackingService,
	broadcaster transport.Broadcaster,
	cfg *config.Config,
) *Handler {
	return &Handler{
		messaging:   messaging,
		tracking:    tracking,
		broadcaster: broadcaster,
		cfg:         cfg,
		log:         cfg.Log,
	}
}

// HandleConnection owns one connection for its lifetime. It blocks until the
// client disconnects.
func (h *Handler) HandleConnection(conn *websocket.Conn) {
	userID := conn.Query("userId")
	if userID == "" {
		h.log.Warn("Rejecting websocket connection without userId")
		conn.WriteJSON(outboundFrame{Event: "error", Data: "userId query parameter is required"})
		conn.Close()
		return
	}

	client := NewClient(conn, userID, h.cfg)
	h.log.Info("Client connected", "client_id", client.ID, "user_id", userID)

	// Rooms this connection joined. Touched only from the read loop.
	rooms := make(map[string]transport.Unsubscribe)

	deliver := func(env transport.Envelope) {
		if env.ExceptSender && env.SenderID == userID {
			return
		}
		client.Enqueue(env.Event, env.Payload)
	}

	unsubGlobal, err := h.broadcaster.SubscribeGlobal(deliver)
	if err != nil {
		h.log.Error("Failed to subscribe client to broadcasts", "client_id", client.ID, "error", err)
		conn.Close()
		return
	}

	defer func() {
		unsubGlobal()
		for roomID, unsub := range rooms {
			unsub()
			h.log.Debug("Left room", "client_id", client.ID, "room_id", roomID)
		}
		conn.Close()
		h.log.Info("Client disconnected", "client_id", client.ID, "user_id", userID)
	}()

	join := func(roomID string) {
		if roomID == "" {
			return
		}
		if _, ok := rooms[roomID]; ok {
			return
		}
		unsub, err := h.broadcaster.Subscribe(roomID, deliver)
		if err != nil {
			h.log.Error("Failed to join room", "client_id", client.ID, "room_id", roomID, "error", err)
			return
		}
		rooms[roomID] = unsub
		h.log.Debug("Joined room", "client_id", client.ID, "room_id", roomID)
	}

	go client.writeLoop()

	client.readLoop(func(frame clientFrame) {
		h.dispatch(client, frame, join)
	})
}

func (h *Handler) dispatch(client *Client, frame clientFrame, join func(roomID string)) {
	ctx, cancel := context.WithTimeout(context.Background(), h.cfg.RequestTimeout)
	defer cancel()

	switch frame.Event {
	case events.JoinRoom:
		var data joinRoomData
		if !h.decode(frame, &data, client) {
			return
		}
		join(data.RoomID)

	case events.SendMessage:
		var input model.SendMessageInput
		if !h.decode(frame, &input, client) {
			return
		}
		if _, err := h.messaging.Send(ctx, &input); err != nil {
			h.log.Error("Message delivery failed", "user_id", client.UserID, "error", err)
		}

	case events.TypingStart, events.TypingStop:
		var evt model.TypingEvent
		if !h.decode(frame, &evt, client) {
			return
		}
		if evt.SenderID == "" {
			evt.SenderID = client.UserID
		}
		if err := h.messaging.Typing(ctx, frame.Event, &evt); err != nil {
			h.log.Warn("Typing relay failed", "user_id", client.UserID, "error", err)
		}

	case events.JoinTrackingRoom:
		var data joinTrackingRoomData
		if !h.decode(frame, &data, client) {
			return
		}
		if data.BookingID != "" {
			join(trackingservice.RoomID(data.BookingID))
		}

	case events.UpdateLocation:
		var update model.LocationUpdate
		if !h.decode(frame, &update, client) {
			return
		}
		if update.UserID == "" {
			update.UserID = client.UserID
		}
		if err := h.tracking.UpdateLocation(ctx, &update); err != nil {
			h.log.Warn("Location relay failed", "user_id", client.UserID, "error", err)
		}

	default:
		h.log.Debug("Ignoring unknown event", "event", frame.Event, "user_id", client.UserID)
	}
}

func (h *Handler) decode(frame clientFrame, v any, client *Client) bool {
	if len(frame.Data) == 0 {
		return false
	}
	if err := json.Unmarshal(frame.Data, v); err != nil {
		h.log.Debug("Dropping malformed event payload",
			"event", frame.Event,
			"user_id", client.UserID,
			"error", err,
		)
		return false
	}
	return true
}
