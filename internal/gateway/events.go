package gateway

import "encoding/json"

// clientFrame is the wire format exchanged with websocket clients, both
// directions: {"event": "...", "data": {...}}.
type clientFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type outboundFrame struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// Payloads for the room-management events clients send. The remaining client
// events decode straight into pkg/model types.
type joinRoomData struct {
	RoomID string `json:"roomId"`
}

type joinTrackingRoomData struct {
	BookingID string `json:"bookingId"`
}
