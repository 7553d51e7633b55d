package usecase

import (
	"context"
	"testing"
	"time"

	"kos-booking/internal/data/entity"
	"kos-booking/internal/dto/request"
	"kos-booking/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestIsAvailable(t *testing.T) {
	f := newFixture()
	checker := NewAvailabilityChecker(f.bookings, zap.NewNop())
	march := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	existing := f.seed(entity.BookingStatusConfirmed, march, 2, fixtureNow.Add(time.Hour))
	cancelled := f.seed(entity.BookingStatusCancelled, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), 1, fixtureNow.Add(time.Hour))
	cancelled.UnitID = existing.UnitID
	f.bookings.put(*cancelled)

	tests := []struct {
		name    string
		checkIn time.Time
		months  int
		want    bool
	}{
		{"same start", march, 1, false},
		{"inside stay", time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC), 1, false},
		{"ends on check-in", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), 1, true},
		{"starts on check-out", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), 1, true},
		{"spans whole stay", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), 6, false},
		{"time of day ignored", time.Date(2024, 5, 1, 18, 30, 0, 0, time.UTC), 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := checker.IsAvailable(context.Background(), existing.UnitID, tt.checkIn, tt.months)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	got, err := checker.IsAvailable(context.Background(), uuid.New(), march, 1)
	require.NoError(t, err)
	assert.True(t, got, "other units are unaffected")
}

func TestCheckAvailability(t *testing.T) {
	f := newFixture()
	checker := NewAvailabilityChecker(f.bookings, zap.NewNop())
	f.create(t, "2024-03-01", 2)

	resp, err := checker.CheckAvailability(context.Background(), &request.AvailabilityRequest{
		UnitID:         f.unitID.String(),
		CheckInDate:    "2024-01-31",
		DurationMonths: 1,
	})
	require.NoError(t, err)
	assert.True(t, resp.Available)
	assert.Equal(t, "2024-02-29", resp.CheckOutDate)

	resp, err = checker.CheckAvailability(context.Background(), &request.AvailabilityRequest{
		UnitID:         f.unitID.String(),
		CheckInDate:    "2024-04-30",
		DurationMonths: 1,
	})
	require.NoError(t, err)
	assert.False(t, resp.Available)

	_, err = checker.CheckAvailability(context.Background(), &request.AvailabilityRequest{UnitID: "x", CheckInDate: "2024-04-30", DurationMonths: 1})
	assert.Equal(t, errs.KindValidation, errs.KindOf(err))
}
