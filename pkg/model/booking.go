package model

const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"
)

// Booking status is deliberately a free string: the lifecycle manager writes
// whatever status it is given and `completed` arrives from an external
// process. The only transition with a side effect is the move to `confirmed`.
type Booking struct {
	ID         string `json:"id" bson:"_id"`
	GuideID    string `json:"guideId" bson:"guide_id"`
	UserID     string `json:"userId" bson:"user_id"`
	Date       string `json:"date" bson:"date"`
	Time       string `json:"time" bson:"time"`
	Status     string `json:"status" bson:"status"`
	TotalPrice int    `json:"totalPrice" bson:"total_price"`
	Guests     int    `json:"guests" bson:"guests"`
	TourType   string `json:"tourType" bson:"tour_type"`
}

// BookingRequest is the create payload. UserID is optional: absent means a
// guest booking and a guest identifier is synthesized.
type BookingRequest struct {
	GuideID  string `json:"guideId" validate:"required"`
	UserID   string `json:"userId" validate:"omitempty"`
	Date     string `json:"date" validate:"required"`
	Time     string `json:"time" validate:"omitempty"`
	Price    int    `json:"price" validate:"required,min=1"`
	Guests   int    `json:"guests" validate:"omitempty,min=1,max=50"`
	TourType string `json:"tourType" validate:"omitempty,max=100"`
}

// BookingView enriches a booking with the counterpart's display fields for
// list endpoints.
type BookingView struct {
	Booking     `bson:",inline"`
	GuideName   string `json:"guideName,omitempty" bson:"-"`
	GuideAvatar string `json:"guideAvatar,omitempty" bson:"-"`
	UserName    string `json:"userName,omitempty" bson:"-"`
	UserAvatar  string `json:"userAvatar,omitempty" bson:"-"`
}
