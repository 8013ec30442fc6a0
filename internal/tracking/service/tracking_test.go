package service

import (
	"context"
	"testing"

	"guidely/pkg/config"
	"guidely/pkg/events"
	"guidely/pkg/logger"
	"guidely/pkg/model"
	"guidely/pkg/transport"
)

func newTestService(broadcaster transport.Broadcaster) TrackingService {
	cfg := &config.Config{
		Log: logger.New(logger.Config{
			Level:   logger.ERROR,
			Format:  logger.JSON,
			Service: "test",
		}),
	}
	return NewTrackingService(broadcaster, cfg)
}

func TestRoomID(t *testing.T) {
	if got := RoomID("bk_123"); got != "tracking_bk_123" {
		t.Errorf("unexpected room id: %q", got)
	}
}

func TestUpdateLocation_RelaysExcludingSender(t *testing.T) {
	broadcaster := transport.NewMemoryBroadcaster()
	svc := newTestService(broadcaster)

	update := &model.LocationUpdate{
		BookingID: "bk_123",
		UserID:    "guide-1",
		Role:      "guide",
		Lat:       26.9124,
		Lng:       75.7873,
		Timestamp: 1756400000000,
	}
	if err := svc.UpdateLocation(context.Background(), update); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	emitted := broadcaster.EmittedNamed(events.ReceiveLocation)
	if len(emitted) != 1 {
		t.Fatalf("expected 1 relay, got %d", len(emitted))
	}
	env := emitted[0]
	if env.Room != "tracking_bk_123" {
		t.Errorf("relayed to wrong room: %q", env.Room)
	}
	if !env.ExceptSender || env.SenderID != "guide-1" {
		t.Errorf("sender must be excluded, got %+v", env)
	}

	var relayed model.LocationUpdate
	if err := env.Decode(&relayed); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
	if relayed.Lat != update.Lat || relayed.Lng != update.Lng {
		t.Errorf("coordinates changed in transit: %+v", relayed)
	}
	if relayed.Timestamp != 1756400000000 {
		t.Errorf("client timestamp must pass through, got %d", relayed.Timestamp)
	}
}

func TestUpdateLocation_StampsMissingTimestamp(t *testing.T) {
	broadcaster := transport.NewMemoryBroadcaster()
	svc := newTestService(broadcaster)

	update := &model.LocationUpdate{BookingID: "bk_123", UserID: "user-1", Lat: 1, Lng: 2}
	if err := svc.UpdateLocation(context.Background(), update); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if update.Timestamp == 0 {
		t.Error("expected a server timestamp to be stamped")
	}
}

func TestUpdateLocation_DropsWithoutBookingID(t *testing.T) {
	broadcaster := transport.NewMemoryBroadcaster()
	svc := newTestService(broadcaster)

	if err := svc.UpdateLocation(context.Background(), &model.LocationUpdate{UserID: "user-1"}); err != nil {
		t.Fatalf("expected silent drop, got error: %v", err)
	}
	if got := len(broadcaster.Emitted()); got != 0 {
		t.Errorf("expected no relay, got %d", got)
	}
}
