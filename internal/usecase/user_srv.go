package usecase

import (
	"context"

	"kos-booking/internal/data/repository"
	"kos-booking/pkg/errs"
	"kos-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	DeleteUser(ctx context.Context, caller utils.Caller, userID string) error
}

type userService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewUserService(repo *repository.Repository, log *zap.Logger) UserService {
	return &userService{
		repo: repo,
		log:  log.With(zap.String("service", "user")),
	}
}

func (us *userService) DeleteUser(ctx context.Context, caller utils.Caller, userID string) error {
	if !caller.IsAdmin() {
		return errs.Forbidden("admin access required")
	}

	id, err := uuid.Parse(userID)
	if err != nil {
		return errs.Validation("invalid user ID format %s", userID)
	}

	err = us.repo.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		user, err := us.repo.User.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		blocking, err := us.repo.Booking.CountBlockingByUser(ctx, id)
		if err != nil {
			return err
		}
		if blocking > 0 {
			return errs.Conflict("user %s has %d pending or confirmed bookings", user.Email, blocking)
		}

		return us.repo.User.Delete(ctx, id)
	})
	if err != nil {
		logFailure(us.log, err, "Failed to delete user", zap.String("user_id", userID))
		return err
	}

	us.log.Info("User deleted", zap.String("user_id", id.String()), zap.String("admin_id", caller.UserID.String()))
	return nil
}
