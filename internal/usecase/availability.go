package usecase

import (
	"context"
	"time"

	"kos-booking/internal/data/entity"
	"kos-booking/internal/data/repository"
	"kos-booking/internal/dto/request"
	"kos-booking/internal/dto/response"
	"kos-booking/pkg/errs"
	"kos-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AvailabilityChecker interface {
	// IsAvailable reports whether no active-counting booking on the unit
	// overlaps [checkIn, checkIn+durationMonths). Called with a transactional
	// ctx it reads inside that transaction.
	IsAvailable(ctx context.Context, unitID uuid.UUID, checkIn time.Time, durationMonths int) (bool, error)
	CheckAvailability(ctx context.Context, req *request.AvailabilityRequest) (*response.AvailabilityResponse, error)
}

type availabilityChecker struct {
	bookingRepo repository.BookingRepository
	log         *zap.Logger
}

func NewAvailabilityChecker(bookingRepo repository.BookingRepository, log *zap.Logger) AvailabilityChecker {
	return &availabilityChecker{
		bookingRepo: bookingRepo,
		log:         log.With(zap.String("service", "availability")),
	}
}

func (a *availabilityChecker) IsAvailable(ctx context.Context, unitID uuid.UUID, checkIn time.Time, durationMonths int) (bool, error) {
	checkIn = entity.DateOnly(checkIn)
	checkOut := entity.CheckOutDate(checkIn, durationMonths)

	count, err := a.bookingRepo.CountOverlapping(ctx, unitID, checkIn, checkOut)
	if err != nil {
		return false, err
	}

	a.log.Debug("Availability checked",
		zap.String("unit_id", unitID.String()),
		zap.String("check_in", checkIn.Format(time.DateOnly)),
		zap.String("check_out", checkOut.Format(time.DateOnly)),
		zap.Int64("overlapping", count),
	)

	return count == 0, nil
}

func (a *availabilityChecker) CheckAvailability(ctx context.Context, req *request.AvailabilityRequest) (*response.AvailabilityResponse, error) {
	if validationErrs := utils.ValidateStruct(req); len(validationErrs) > 0 {
		return nil, errs.Validation("validation failed: %s", utils.FormatValidationErrors(validationErrs))
	}

	unitID := uuid.MustParse(req.UnitID)
	checkIn, _ := time.Parse(time.DateOnly, req.CheckInDate)

	available, err := a.IsAvailable(ctx, unitID, checkIn, req.DurationMonths)
	if err != nil {
		logFailure(a.log, err, "Failed to check availability", zap.String("unit_id", req.UnitID))
		return nil, err
	}

	return &response.AvailabilityResponse{
		UnitID:       unitID.String(),
		CheckInDate:  checkIn.Format(time.DateOnly),
		CheckOutDate: entity.CheckOutDate(checkIn, req.DurationMonths).Format(time.DateOnly),
		Available:    available,
	}, nil
}
