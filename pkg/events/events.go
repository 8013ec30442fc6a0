// Package events names the realtime events and bus topics shared by the API
// service and the gateway.
package events

// Events produced for clients.
const (
	ReceiveMessage  = "receive_message"
	TypingStart     = "typing_start"
	TypingStop      = "typing_stop"
	BookingCreated  = "booking_created"
	BookingUpdated  = "booking_updated"
	ReceiveLocation = "receive_location"
)

// Events consumed from clients.
const (
	JoinRoom         = "join_room"
	SendMessage      = "send_message"
	JoinTrackingRoom = "join_tracking_room"
	UpdateLocation   = "update_location"
)

// Kafka topics and consumer groups for the booking event bus.
const (
	TopicBookingEvents   = "guidely.booking-events"
	GroupGatewayBookings = "guidely-gateway-bookings"
)
