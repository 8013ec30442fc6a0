package validator

import (
	"testing"

	"guidely/pkg/logger"
	"guidely/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestValidator() *BookingValidator {
	return NewBookingValidator(logger.New(logger.Config{
		Level:   logger.ERROR,
		Format:  logger.JSON,
		Service: "test",
	}))
}

func TestValidate_AcceptsMinimalRequest(t *testing.T) {
	v := newTestValidator()

	err := v.Validate(&model.BookingRequest{
		GuideID: "guide-1",
		Date:    "2026-09-05",
		Price:   100,
	})
	assert.NoError(t, err)
}

func TestValidate_RequiredFields(t *testing.T) {
	v := newTestValidator()

	err := v.Validate(&model.BookingRequest{})
	require.Error(t, err)

	verrs, ok := err.(ValidationErrors)
	require.True(t, ok, "expected translated validation errors, got %T", err)

	fields := make(map[string]string)
	for _, ve := range verrs {
		fields[ve.Field] = ve.Message
	}
	assert.Contains(t, fields, "GuideID")
	assert.Contains(t, fields, "Date")
	assert.Contains(t, fields, "Price")
	assert.Equal(t, "GuideID is required", fields["GuideID"])
}

func TestValidate_GuestBounds(t *testing.T) {
	v := newTestValidator()

	base := model.BookingRequest{GuideID: "guide-1", Date: "2026-09-05", Price: 100}

	tooMany := base
	tooMany.Guests = 51
	err := v.Validate(&tooMany)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Guests must be at most 50")

	// Zero guests is omitted from validation; the service fills the default.
	noGuests := base
	noGuests.Guests = 0
	assert.NoError(t, v.Validate(&noGuests))
}

func TestValidate_TourTypeLength(t *testing.T) {
	v := newTestValidator()

	long := make([]byte, 101)
	for i := range long {
		long[i] = 'x'
	}
	err := v.Validate(&model.BookingRequest{
		GuideID:  "guide-1",
		Date:     "2026-09-05",
		Price:    100,
		TourType: string(long),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TourType must be at most 100")
}
