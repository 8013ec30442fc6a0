package service

import (
	"context"

	"guidely/internal/availability/repository"
	"guidely/pkg/config"
	apperrors "guidely/pkg/errors"
	"guidely/pkg/model"
	"guidely/pkg/sanitizer"
)

type AvailabilityService interface {
	// Get returns the guide's calendar as a date -> status map.
	Get(ctx context.Context, guideID string) (map[string]string, error)

	// Set writes the slot for (guideID, date), replacing any previous status.
	Set(ctx context.Context, guideID, date, status string) error
}

type availabilityService struct {
	repo repository.SlotRepository
	cfg  *config.Config
}

func NewAvailabilityService(repo repository.SlotRepository, cfg *config.Config) AvailabilityService {
	return &availabilityService{
		repo: repo,
		cfg:  cfg,
	}
}

func (s *availabilityService) Get(ctx context.Context, guideID string) (map[string]string, error) {
	if guideID == "" {
		return nil, apperrors.InvalidInput("Guide ID cannot be empty")
	}

	slots, err := s.repo.FindByGuide(ctx, guideID)
	if err != nil {
		s.cfg.Log.Error("Failed to load availability", "guide_id", guideID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve availability", err)
	}

	calendar := make(map[string]string, len(slots))
	for _, slot := range slots {
		calendar[slot.Date] = slot.Status
	}
	return calendar, nil
}

func (s *availabilityService) Set(ctx context.Context, guideID, date, status string) error {
	if guideID == "" || date == "" {
		return apperrors.InvalidInput("Both guideId and date are required")
	}
	status = sanitizer.NormalizeLabel(status)
	if !validStatus(status) {
		return apperrors.InvalidInput("Status must be one of: available, busy, off")
	}

	slot := &model.AvailabilitySlot{
		ID:      model.SlotID(guideID, date),
		GuideID: guideID,
		Date:    date,
		Status:  status,
	}

	if err := s.repo.Upsert(ctx, slot); err != nil {
		s.cfg.Log.Error("Failed to set availability slot", "slot_id", slot.ID, "error", err)
		return apperrors.Internal("Failed to update availability", err)
	}

	s.cfg.Log.Info("Availability slot updated",
		"guide_id", guideID,
		"date", date,
		"status", status,
	)
	return nil
}

func validStatus(status string) bool {
	switch status {
	case model.SlotAvailable, model.SlotBusy, model.SlotOff:
		return true
	}
	return false
}
