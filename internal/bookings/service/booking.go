package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	availabilityservice "guidely/internal/availability/service"
	bookingserrors "guidely/internal/bookings/errors"
	"guidely/internal/bookings/repository"
	"guidely/internal/bookings/validator"
	directoryrepo "guidely/internal/directory/repository"
	"guidely/pkg/config"
	apperrors "guidely/pkg/errors"
	"guidely/pkg/events"
	"guidely/pkg/kafka"
	"guidely/pkg/model"
	"guidely/pkg/sanitizer"

	"github.com/google/uuid"
)

const (
	defaultTime     = "10:00 AM"
	defaultGuests   = 1
	defaultTourType = "Custom Tour"
)

// EventPublisher is the slice of the bus producer the lifecycle manager
// needs.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type BookingService interface {
	Create(ctx context.Context, req *model.BookingRequest) (*model.Booking, error)

	// SetStatus writes the given status unconditionally. Confirming a booking
	// additionally marks the guide's date busy, best effort. Cancelling does
	// not free the slot.
	SetStatus(ctx context.Context, id string, status string) (*model.Booking, error)

	List(ctx context.Context, actorID string, role string) ([]*model.BookingView, error)
}

type bookingService struct {
	repo         repository.BookingRepository
	availability availabilityservice.AvailabilityService
	users        directoryrepo.UserRepository
	guides       directoryrepo.GuideRepository
	validator    *validator.BookingValidator
	publisher    EventPublisher
	cfg          *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	availability availabilityservice.AvailabilityService,
	users directoryrepo.UserRepository,
	guides directoryrepo.GuideRepository,
	bookingValidator *validator.BookingValidator,
	publisher EventPublisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:         repo,
		availability: availability,
		users:        users,
		guides:       guides,
		validator:    bookingValidator,
		publisher:    publisher,
		cfg:          cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
	s.sanitize(req)
	if err := s.validator.Validate(req); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	booking := &model.Booking{
		ID:         newBookingID(),
		GuideID:    req.GuideID,
		UserID:     req.UserID,
		Date:       req.Date,
		Time:       req.Time,
		Status:     model.BookingPending,
		TotalPrice: req.Price,
		Guests:     req.Guests,
		TourType:   req.TourType,
	}
	s.applyDefaults(booking)

	if err := s.repo.Create(ctx, booking); err != nil {
		s.cfg.Log.Error("Failed to create booking", "error", err)
		return nil, apperrors.Internal("Failed to create booking", err)
	}

	s.publish(ctx, events.BookingCreated, booking)

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"guide_id", booking.GuideID,
		"user_id", booking.UserID,
		"date", booking.Date,
	)
	return booking, nil
}

func (s *bookingService) SetStatus(ctx context.Context, id string, status string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if status == "" {
		return nil, apperrors.InvalidInput("Status cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		s.cfg.Log.Error("Failed to update booking status", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update booking", err)
	}
	booking.Status = status

	// The slot write is best effort: the status change stands even when the
	// calendar update fails, and cancellation never reverts the slot.
	if status == model.BookingConfirmed {
		if err := s.availability.Set(ctx, booking.GuideID, booking.Date, model.SlotBusy); err != nil {
			s.cfg.Log.Error("Failed to mark guide date busy after confirmation",
				"booking_id", id,
				"guide_id", booking.GuideID,
				"date", booking.Date,
				"error", err,
			)
		}
	}

	s.publish(ctx, events.BookingUpdated, booking)

	s.cfg.Log.Info("Booking status updated", "id", id, "status", status)
	return booking, nil
}

func (s *bookingService) List(ctx context.Context, actorID string, role string) ([]*model.BookingView, error) {
	if actorID == "" {
		return nil, apperrors.InvalidInput("Actor ID cannot be empty")
	}

	var bookings []*model.Booking
	var err error
	if role == "guide" {
		bookings, err = s.repo.FindByGuide(ctx, actorID)
	} else {
		bookings, err = s.repo.FindByUser(ctx, actorID)
	}
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings", "actor_id", actorID, "role", role, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}

	views := make([]*model.BookingView, 0, len(bookings))
	for _, booking := range bookings {
		view := &model.BookingView{Booking: *booking}
		if role == "guide" {
			if user, err := s.users.FindByID(ctx, booking.UserID); err == nil {
				view.UserName = user.Name
				view.UserAvatar = user.Avatar
			}
		} else {
			if guide, err := s.guides.FindByID(ctx, booking.GuideID); err == nil {
				view.GuideName = guide.Name
				view.GuideAvatar = guide.Avatar
			}
		}
		views = append(views, view)
	}

	return views, nil
}

// publish puts a lifecycle event on the bus. Failures are logged only: the
// stored booking is the source of truth and the event can be re-derived.
func (s *bookingService) publish(ctx context.Context, eventType string, booking *model.Booking) {
	if s.publisher == nil {
		return
	}

	msg := kafka.NewMessage().
		WithKey(booking.ID).
		WithValue(booking).
		WithEventType(eventType).
		WithSource("guidely-api").
		Build()

	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.cfg.Log.Warn("Failed to publish booking event",
			"event", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
	}
}

func (s *bookingService) sanitize(req *model.BookingRequest) {
	req.GuideID = sanitizer.TrimAndNormalize(req.GuideID)
	req.UserID = sanitizer.TrimAndNormalize(req.UserID)
	req.Date = sanitizer.TrimAndNormalize(req.Date)
	req.Time = sanitizer.TrimAndNormalize(req.Time)
	req.TourType = sanitizer.TrimAndNormalize(req.TourType)
}

func (s *bookingService) applyDefaults(b *model.Booking) {
	if b.UserID == "" {
		b.UserID = newGuestID()
	}
	if b.Time == "" {
		b.Time = defaultTime
	}
	if b.Guests <= 0 {
		b.Guests = defaultGuests
	}
	if b.TourType == "" {
		b.TourType = defaultTourType
	}
}

func newBookingID() string {
	return fmt.Sprintf("bk_%d", time.Now().UnixMilli())
}

func newGuestID() string {
	s := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "guest_" + s[:9]
}
