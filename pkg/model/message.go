package model

// ChatMessage is one direction of a two-party conversation. Rows are
// immutable after insert except for IsRead, which flips false->true when the
// receiver marks the conversation read.
type ChatMessage struct {
	ID             string `json:"id" bson:"_id"`
	SenderID       string `json:"senderId" bson:"sender_id"`
	ReceiverID     string `json:"receiverId" bson:"receiver_id"`
	Text           string `json:"text" bson:"text"`
	TranslatedText string `json:"translatedText,omitempty" bson:"translated_text,omitempty"`
	Timestamp      string `json:"timestamp" bson:"timestamp"`
	IsRead         bool   `json:"isRead" bson:"is_read"`

	// RoomID travels on the broadcast payload only, it is not persisted.
	RoomID string `json:"roomId,omitempty" bson:"-"`
}

// SendMessageInput is the send_message event payload received from a client.
type SendMessageInput struct {
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	Text       string `json:"text"`
	RoomID     string `json:"roomId"`
}

// Complete reports whether every field required for delivery is present.
// Incomplete sends are dropped without reporting an error to the sender.
func (in *SendMessageInput) Complete() bool {
	return in.SenderID != "" && in.ReceiverID != "" && in.Text != "" && in.RoomID != ""
}

// Conversation summarizes the exchange with one counterpart: the most recent
// message plus the number of unread messages they sent to this user.
type Conversation struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Avatar      string `json:"avatar,omitempty"`
	LastMessage string `json:"lastMessage"`
	Timestamp   string `json:"timestamp"`
	UnreadCount int    `json:"unreadCount"`
}

// TypingEvent is relayed between clients in a room, excluding the sender.
type TypingEvent struct {
	RoomID   string `json:"roomId"`
	SenderID string `json:"senderId,omitempty"`
}
