package adaptor

import (
	"kos-booking/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Booking *BookingHandler
	Unit    *UnitHandler
	User    *UserHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Booking: NewBookingHandler(service.Booking, service.Availability, service.Sweeper, log),
		Unit:    NewUnitHandler(service.Unit, log),
		User:    NewUserHandler(service.User, log),
	}
}
