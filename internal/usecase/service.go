package usecase

import (
	"kos-booking/internal/data/repository"
	"kos-booking/pkg/clock"
	"kos-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Availability AvailabilityChecker
	Booking      BookingService
	Sweeper      SweeperService
	Unit         UnitService
	User         UserService
}

func NewService(repo *repository.Repository, config *utils.Config, clk clock.Clock, log *zap.Logger) *Service {
	notifier := NewLogNotifier(config.Email, log)
	availability := NewAvailabilityChecker(repo.Booking, log)
	booking := NewBookingService(repo, availability, notifier, config.Booking, clk, log)

	return &Service{
		Availability: availability,
		Booking:      booking,
		Sweeper:      NewSweeperService(repo.Booking, booking, config.Booking, clk, log),
		Unit:         NewUnitService(repo, log),
		User:         NewUserService(repo, log),
	}
}
