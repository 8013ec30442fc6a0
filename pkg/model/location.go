package model

// LocationUpdate is a position sample relayed between the two parties of a
// booking. Samples are never persisted and coordinates are trusted as the
// client's geolocation API reported them.
type LocationUpdate struct {
	BookingID string  `json:"bookingId"`
	UserID    string  `json:"userId"`
	Role      string  `json:"role,omitempty"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Timestamp int64   `json:"timestamp"`
}
