package integrationtests

import (
	"context"
	"errors"
	"testing"

	availabilityrepo "guidely/internal/availability/repository"
	bookingserrors "guidely/internal/bookings/errors"
	bookingsrepo "guidely/internal/bookings/repository"
	"guidely/pkg/model"
	"guidely/test/integration/testutil"
)

func TestBookingRepository(t *testing.T) {
	helper := testutil.NewMongoHelper(t)
	defer helper.Close(t)
	defer helper.CleanCollections(t, testutil.BookingsCollection)

	cfg := helper.Config("bookings-integration-tests")
	repo := bookingsrepo.NewMongoBookingRepository(cfg)
	ctx := context.Background()

	booking := testutil.NewBookingBuilder().
		WithID("bk_itest_1").
		WithGuide("guide-itest").
		WithUser("user-itest").
		Build()

	if err := repo.Create(ctx, booking); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	found, err := repo.FindByID(ctx, "bk_itest_1")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if found.GuideID != "guide-itest" || found.Status != model.BookingPending {
		t.Errorf("stored booking does not match: %+v", found)
	}

	if err := repo.UpdateStatus(ctx, "bk_itest_1", model.BookingConfirmed); err != nil {
		t.Fatalf("status update failed: %v", err)
	}
	updated, err := repo.FindByID(ctx, "bk_itest_1")
	if err != nil {
		t.Fatalf("find after update failed: %v", err)
	}
	if updated.Status != model.BookingConfirmed {
		t.Errorf("expected confirmed, got %q", updated.Status)
	}

	byGuide, err := repo.FindByGuide(ctx, "guide-itest")
	if err != nil {
		t.Fatalf("find by guide failed: %v", err)
	}
	if len(byGuide) != 1 {
		t.Errorf("expected 1 booking for guide, got %d", len(byGuide))
	}

	byUser, err := repo.FindByUser(ctx, "user-itest")
	if err != nil {
		t.Fatalf("find by user failed: %v", err)
	}
	if len(byUser) != 1 {
		t.Errorf("expected 1 booking for user, got %d", len(byUser))
	}

	if _, err := repo.FindByID(ctx, "bk_missing"); !errors.Is(err, bookingserrors.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
	if err := repo.UpdateStatus(ctx, "bk_missing", model.BookingCancelled); !errors.Is(err, bookingserrors.ErrNotFound) {
		t.Errorf("expected not found on status update, got %v", err)
	}
}

func TestSlotRepository_LastWriteWins(t *testing.T) {
	helper := testutil.NewMongoHelper(t)
	defer helper.Close(t)
	defer helper.CleanCollections(t, testutil.AvailabilitySlotsCollection)

	cfg := helper.Config("availability-integration-tests")
	repo := availabilityrepo.NewMongoSlotRepository(cfg)
	ctx := context.Background()

	slot := &model.AvailabilitySlot{
		ID:      model.SlotID("guide-itest", "2026-09-05"),
		GuideID: "guide-itest",
		Date:    "2026-09-05",
		Status:  model.SlotAvailable,
	}
	if err := repo.Upsert(ctx, slot); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}

	slot.Status = model.SlotBusy
	if err := repo.Upsert(ctx, slot); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	slots, err := repo.FindByGuide(ctx, "guide-itest")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("expected a single slot per date, got %d", len(slots))
	}
	if slots[0].Status != model.SlotBusy {
		t.Errorf("expected the last write to win, got %q", slots[0].Status)
	}
}
