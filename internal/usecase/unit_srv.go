package usecase

import (
	"context"

	"kos-booking/internal/data/repository"
	"kos-booking/pkg/errs"
	"kos-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UnitService interface {
	// DeleteUnit fails with a conflict while the unit has pending or
	// confirmed bookings; it never cascades.
	DeleteUnit(ctx context.Context, caller utils.Caller, unitID string) error
}

type unitService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewUnitService(repo *repository.Repository, log *zap.Logger) UnitService {
	return &unitService{
		repo: repo,
		log:  log.With(zap.String("service", "unit")),
	}
}

func (s *unitService) DeleteUnit(ctx context.Context, caller utils.Caller, unitID string) error {
	if !caller.IsAdmin() {
		return errs.Forbidden("admin access required")
	}

	id, err := uuid.Parse(unitID)
	if err != nil {
		return errs.Validation("invalid unit ID format %s", unitID)
	}

	err = s.repo.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.Unit.FindByIDForUpdate(ctx, id); err != nil {
			return err
		}

		blocking, err := s.repo.Booking.CountBlockingByUnit(ctx, id)
		if err != nil {
			return err
		}
		if blocking > 0 {
			return errs.Conflict("unit %s has %d pending or confirmed bookings", id, blocking)
		}

		return s.repo.Unit.Delete(ctx, id)
	})
	if err != nil {
		logFailure(s.log, err, "Failed to delete unit", zap.String("unit_id", unitID))
		return err
	}

	s.log.Info("Unit deleted", zap.String("unit_id", unitID), zap.String("admin_id", caller.UserID.String()))
	return nil
}
