package usecase

import (
	"context"
	"fmt"
	"time"

	"kos-booking/internal/data/entity"
	"kos-booking/internal/data/repository"
	"kos-booking/internal/dto/request"
	"kos-booking/internal/dto/response"
	"kos-booking/pkg/clock"
	"kos-booking/pkg/errs"
	"kos-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultCodeMaxAttempts = 5

type BookingService interface {
	CreateBooking(ctx context.Context, caller utils.Caller, req *request.CreateBookingRequest) (*response.CreateBookingResponse, error)
	GetBooking(ctx context.Context, caller utils.Caller, bookingID string) (*response.BookingResponse, error)
	ListUserBookings(ctx context.Context, caller utils.Caller, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	ConfirmPayment(ctx context.Context, caller utils.Caller, bookingID string) (*response.BookingResponse, error)
	CancelBooking(ctx context.Context, caller utils.Caller, bookingID string, req *request.CancelBookingRequest) (*response.BookingResponse, error)

	// Admin override
	DeleteBooking(ctx context.Context, caller utils.Caller, bookingID string) error

	// System transitions, driven by the sweeper only
	Expire(ctx context.Context, bookingID uuid.UUID) error
	Activate(ctx context.Context, bookingID uuid.UUID) error
	Complete(ctx context.Context, bookingID uuid.UUID) error
}

// CodeGenerator produces a candidate booking code for the given instant.
type CodeGenerator func(now time.Time) (string, error)

type bookingService struct {
	repo         *repository.Repository
	availability AvailabilityChecker
	notifier     Notifier
	config       utils.BookingConfig
	clock        clock.Clock
	codeGen      CodeGenerator
	log          *zap.Logger
}

func NewBookingService(
	repo *repository.Repository,
	availability AvailabilityChecker,
	notifier Notifier,
	config utils.BookingConfig,
	clk clock.Clock,
	log *zap.Logger,
) BookingService {
	if config.PendingTTL <= 0 {
		config.PendingTTL = 24 * time.Hour
	}
	if config.CodeMaxAttempts <= 0 {
		config.CodeMaxAttempts = defaultCodeMaxAttempts
	}

	return &bookingService{
		repo:         repo,
		availability: availability,
		notifier:     notifier,
		config:       config,
		clock:        clk,
		codeGen:      utils.GenerateBookingCode,
		log:          log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, caller utils.Caller, req *request.CreateBookingRequest) (*response.CreateBookingResponse, error) {
	if caller.UserID == uuid.Nil {
		return nil, errs.Forbidden("authentication required")
	}

	if validationErrs := utils.ValidateStruct(req); len(validationErrs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", validationErrs))
		return nil, errs.Validation("validation failed: %s", utils.FormatValidationErrors(validationErrs))
	}

	unitID := uuid.MustParse(req.UnitID)
	checkIn, _ := time.Parse(time.DateOnly, req.CheckInDate)
	checkOut := entity.CheckOutDate(checkIn, req.DurationMonths)

	now := s.clock.Now()
	if checkIn.Before(entity.DateOnly(now)) {
		return nil, errs.Validation("validation failed: check_in_date %s is in the past", req.CheckInDate)
	}

	var booking *entity.Booking
	err := s.repo.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.User.FindByIDForShare(ctx, caller.UserID); err != nil {
			return err
		}

		// Row lock on the unit serializes concurrent creates for it; the
		// exclusion constraint backs this up at commit.
		unit, err := s.repo.Unit.FindByIDForUpdate(ctx, unitID)
		if err != nil {
			return err
		}
		if !unit.IsActive {
			return errs.Conflict("unit %s is not open for booking", unitID)
		}

		available, err := s.availability.IsAvailable(ctx, unitID, checkIn, req.DurationMonths)
		if err != nil {
			return err
		}
		if !available {
			return errs.Conflict("unit %s is already booked between %s and %s",
				unitID, checkIn.Format(time.DateOnly), checkOut.Format(time.DateOnly))
		}

		code, err := s.allocateBookingCode(ctx, now)
		if err != nil {
			return err
		}

		var notes *string
		if req.Notes != nil && *req.Notes != "" {
			notes = req.Notes
		}

		booking = &entity.Booking{
			BaseNoDelete: entity.BaseNoDelete{
				CreatedAt: now,
				UpdatedAt: now,
			},
			BookingCode:    code,
			UserID:         caller.UserID,
			UnitID:         unitID,
			CheckInDate:    checkIn,
			CheckOutDate:   checkOut,
			DurationMonths: req.DurationMonths,
			TotalPrice:     unit.MonthlyPrice*float64(req.DurationMonths) + s.config.AdminFee,
			AdminFee:       s.config.AdminFee,
			PaymentMethod:  entity.PaymentMethod(req.PaymentMethod),
			BookingStatus:  entity.BookingStatusPending,
			PaymentStatus:  entity.PaymentStatusUnpaid,
			Notes:          notes,
			ExpiresAt:      now.Add(s.config.PendingTTL),
		}

		return s.repo.Booking.Create(ctx, booking)
	})
	if err != nil {
		logFailure(s.log, err, "Failed to create booking",
			zap.String("user_id", caller.UserID.String()),
			zap.String("unit_id", req.UnitID),
			zap.String("check_in", req.CheckInDate),
			zap.Int("duration_months", req.DurationMonths),
		)
		return nil, err
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("booking_code", booking.BookingCode),
		zap.String("user_id", booking.UserID.String()),
		zap.String("unit_id", booking.UnitID.String()),
		zap.Float64("total_price", booking.TotalPrice),
	)

	s.notifier.BookingCreated(ctx, booking)

	return &response.CreateBookingResponse{
		BookingID:   booking.ID.String(),
		BookingCode: booking.BookingCode,
		TotalPrice:  booking.TotalPrice,
		ExpiresAt:   booking.ExpiresAt,
	}, nil
}

// allocateBookingCode retries generation until the repository confirms the
// code is unused, up to the configured number of attempts.
func (s *bookingService) allocateBookingCode(ctx context.Context, now time.Time) (string, error) {
	for attempt := 1; attempt <= s.config.CodeMaxAttempts; attempt++ {
		code, err := s.codeGen(now)
		if err != nil {
			return "", errs.Infrastructure(err, "generate booking code")
		}

		exists, err := s.repo.Booking.ExistsByCode(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}

		s.log.Warn("Booking code collision", zap.String("booking_code", code), zap.Int("attempt", attempt))
	}

	return "", errs.Infrastructure(
		errs.Newf("no unique booking code after %d attempts", s.config.CodeMaxAttempts),
		"allocate booking code",
	)
}

func (s *bookingService) GetBooking(ctx context.Context, caller utils.Caller, bookingID string) (*response.BookingResponse, error) {
	id, err := parseBookingID(bookingID)
	if err != nil {
		return nil, err
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		logFailure(s.log, err, "Failed to get booking", zap.String("booking_id", bookingID))
		return nil, err
	}

	if err := authorize(caller, booking); err != nil {
		return nil, err
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) ListUserBookings(ctx context.Context, caller utils.Caller, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	if caller.UserID == uuid.Nil {
		return nil, errs.Forbidden("authentication required")
	}

	limit := req.Limit()
	offset := req.Offset()

	bookings, err := s.repo.Booking.FindByUserID(ctx, caller.UserID, limit, offset)
	if err != nil {
		logFailure(s.log, err, "Failed to get user bookings",
			zap.String("user_id", caller.UserID.String()),
			zap.Int("page", req.Page),
			zap.Int("per_page", req.PerPage),
		)
		return nil, err
	}

	total, err := s.repo.Booking.CountByUserID(ctx, caller.UserID)
	if err != nil {
		logFailure(s.log, err, "Failed to count user bookings", zap.String("user_id", caller.UserID.String()))
		return nil, err
	}

	bookingResponses := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		bookingResponses[i] = response.BookingToResponse(booking)
	}

	return response.NewPaginatedResponse(bookingResponses, req.Page, limit, total), nil
}

func (s *bookingService) ConfirmPayment(ctx context.Context, caller utils.Caller, bookingID string) (*response.BookingResponse, error) {
	id, err := parseBookingID(bookingID)
	if err != nil {
		return nil, err
	}

	booking, err := s.transition(ctx, &caller, id, entity.EventConfirmPayment,
		func(b *entity.Booking, now time.Time) error {
			if b.IsStale(now) {
				return errs.InvalidTransition(errs.Newf("payment window for booking %s closed at %s",
					b.BookingCode, b.ExpiresAt.Format(time.RFC3339)))
			}
			return nil
		},
		func(b *entity.Booking, now time.Time) {
			b.PaymentStatus = entity.PaymentStatusPaid
			b.ConfirmedAt = &now
		},
	)
	if err != nil {
		return nil, err
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, caller utils.Caller, bookingID string, req *request.CancelBookingRequest) (*response.BookingResponse, error) {
	id, err := parseBookingID(bookingID)
	if err != nil {
		return nil, err
	}

	if validationErrs := utils.ValidateStruct(req); len(validationErrs) > 0 {
		return nil, errs.Validation("validation failed: %s", utils.FormatValidationErrors(validationErrs))
	}

	booking, err := s.transition(ctx, &caller, id, entity.EventCancel,
		func(b *entity.Booking, now time.Time) error {
			if b.CheckInDate.Sub(now) < s.config.CancelWindow {
				return errs.InvalidTransition(errs.Newf("booking %s can no longer be cancelled: less than %s before check-in",
					b.BookingCode, s.config.CancelWindow))
			}
			return nil
		},
		func(b *entity.Booking, now time.Time) {
			reason := req.Reason
			b.CancelledAt = &now
			b.CancelledReason = &reason
			if b.PaymentStatus == entity.PaymentStatusPaid {
				b.PaymentStatus = entity.PaymentStatusRefunded
			}
		},
	)
	if err != nil {
		return nil, err
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) Expire(ctx context.Context, bookingID uuid.UUID) error {
	_, err := s.transition(ctx, nil, bookingID, entity.EventExpire,
		func(b *entity.Booking, now time.Time) error {
			if !b.IsStale(now) {
				return errs.InvalidTransition(errs.Newf("booking %s has not expired yet", b.BookingCode))
			}
			return nil
		},
		nil,
	)
	return err
}

func (s *bookingService) Activate(ctx context.Context, bookingID uuid.UUID) error {
	_, err := s.transition(ctx, nil, bookingID, entity.EventCheckIn,
		func(b *entity.Booking, now time.Time) error {
			if entity.DateOnly(now).Before(b.CheckInDate) {
				return errs.InvalidTransition(errs.Newf("booking %s check-in date not reached", b.BookingCode))
			}
			return nil
		},
		nil,
	)
	return err
}

func (s *bookingService) Complete(ctx context.Context, bookingID uuid.UUID) error {
	_, err := s.transition(ctx, nil, bookingID, entity.EventCheckOut,
		func(b *entity.Booking, now time.Time) error {
			if entity.DateOnly(now).Before(b.CheckOutDate) {
				return errs.InvalidTransition(errs.Newf("booking %s check-out date not reached", b.BookingCode))
			}
			return nil
		},
		nil,
	)
	return err
}

func (s *bookingService) DeleteBooking(ctx context.Context, caller utils.Caller, bookingID string) error {
	if !caller.IsAdmin() {
		return errs.Forbidden("admin access required")
	}

	id, err := parseBookingID(bookingID)
	if err != nil {
		return err
	}

	err = s.repo.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		booking, err := s.repo.Booking.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		blocking, err := s.repo.Booking.CountBlockingByUnit(ctx, booking.UnitID)
		if err != nil {
			return err
		}
		if blocking > 0 {
			return errs.Conflict("unit %s still has %d pending or confirmed bookings", booking.UnitID, blocking)
		}

		return s.repo.Booking.Delete(ctx, id)
	})
	if err != nil {
		logFailure(s.log, err, "Failed to delete booking", zap.String("booking_id", bookingID))
		return err
	}

	s.log.Info("Booking deleted by admin",
		zap.String("booking_id", bookingID),
		zap.String("admin_id", caller.UserID.String()),
	)
	return nil
}

// transition is the single code path that mutates booking_status. It locks
// the row, checks the transition table and the guard, then writes with the
// previous status as a precondition. caller is nil for system transitions.
func (s *bookingService) transition(
	ctx context.Context,
	caller *utils.Caller,
	bookingID uuid.UUID,
	event entity.BookingEvent,
	guard func(b *entity.Booking, now time.Time) error,
	apply func(b *entity.Booking, now time.Time),
) (*entity.Booking, error) {
	var (
		updated *entity.Booking
		from    entity.BookingStatus
	)

	err := s.repo.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		booking, err := s.repo.Booking.FindByIDForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}

		if caller != nil {
			if err := authorize(*caller, booking); err != nil {
				return err
			}
		}

		next, err := entity.NextStatus(booking.BookingStatus, event)
		if err != nil {
			return errs.InvalidTransition(err)
		}

		now := s.clock.Now()
		if guard != nil {
			if err := guard(booking, now); err != nil {
				return err
			}
		}

		from = booking.BookingStatus
		booking.BookingStatus = next
		booking.UpdatedAt = now
		if apply != nil {
			apply(booking, now)
		}

		if err := s.repo.Booking.UpdateStatus(ctx, booking, from); err != nil {
			return err
		}

		updated = booking
		return nil
	})
	if err != nil {
		logFailure(s.log, err, fmt.Sprintf("Failed to %s booking", event),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, err
	}

	s.log.Info("Booking status changed",
		zap.String("booking_id", updated.ID.String()),
		zap.String("booking_code", updated.BookingCode),
		zap.String("event", string(event)),
		zap.String("from", string(from)),
		zap.String("to", string(updated.BookingStatus)),
	)

	s.notifier.BookingStatusChanged(ctx, updated, from)
	return updated, nil
}

func authorize(caller utils.Caller, booking *entity.Booking) error {
	if caller.IsAdmin() || (caller.UserID != uuid.Nil && caller.UserID == booking.UserID) {
		return nil
	}
	return errs.Forbidden("booking %s does not belong to caller", booking.ID)
}

func parseBookingID(bookingID string) (uuid.UUID, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return uuid.Nil, errs.Validation("invalid booking ID format %s", bookingID)
	}
	return id, nil
}
