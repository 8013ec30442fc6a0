// Package service relays live location samples between the parties of a
// booking. Samples are ephemeral: nothing is persisted and coordinates pass
// through unvalidated. Session expiry is enforced by clients, which stop
// sending and leave the room on their own.
package service

import (
	"context"
	"time"

	"guidely/pkg/config"
	"guidely/pkg/events"
	"guidely/pkg/model"
	"guidely/pkg/transport"
)

type TrackingService interface {
	// UpdateLocation forwards the sample to everyone else in the booking's
	// tracking room.
	UpdateLocation(ctx context.Context, update *model.LocationUpdate) error
}

type trackingService struct {
	broadcaster transport.Broadcaster
	cfg         *config.Config
}

func NewTrackingService(broadcaster transport.Broadcaster, cfg *config.Config) TrackingService {
	return &trackingService{
		broadcaster: broadcaster,
		cfg:         cfg,
	}
}

// RoomID maps a booking to its tracking room.
func RoomID(bookingID string) string {
	return "tracking_" + bookingID
}

func (s *trackingService) UpdateLocation(ctx context.Context, update *model.LocationUpdate) error {
	if update.BookingID == "" {
		s.cfg.Log.Debug("Dropping location update without booking id", "user_id", update.UserID)
		return nil
	}

	if update.Timestamp == 0 {
		update.Timestamp = time.Now().UnixMilli()
	}

	room := RoomID(update.BookingID)
	if err := s.broadcaster.EmitToRoomExceptSender(ctx, room, update.UserID, events.ReceiveLocation, update); err != nil {
		s.cfg.Log.Warn("Failed to relay location update",
			"booking_id", update.BookingID,
			"user_id", update.UserID,
			"error", err,
		)
		return err
	}

	return nil
}
