package testutil

import (
	"fmt"
	"time"

	"guidely/pkg/model"
)

// BookingBuilder assembles booking documents for integration tests.
type BookingBuilder struct {
	booking model.Booking
}

func NewBookingBuilder() *BookingBuilder {
	return &BookingBuilder{
		booking: model.Booking{
			ID:         fmt.Sprintf("bk_%d", time.Now().UnixMilli()),
			GuideID:    "guide-test",
			UserID:     "user-test",
			Date:       "2026-09-05",
			Time:       "10:00 AM",
			Status:     model.BookingPending,
			TotalPrice: 100,
			Guests:     2,
			TourType:   "City Walk",
		},
	}
}

func (b *BookingBuilder) WithID(id string) *BookingBuilder {
	b.booking.ID = id
	return b
}

func (b *BookingBuilder) WithGuide(guideID string) *BookingBuilder {
	b.booking.GuideID = guideID
	return b
}

func (b *BookingBuilder) WithUser(userID string) *BookingBuilder {
	b.booking.UserID = userID
	return b
}

func (b *BookingBuilder) WithDate(date string) *BookingBuilder {
	b.booking.Date = date
	return b
}

func (b *BookingBuilder) WithStatus(status string) *BookingBuilder {
	b.booking.Status = status
	return b
}

func (b *BookingBuilder) Build() *model.Booking {
	booking := b.booking
	return &booking
}
