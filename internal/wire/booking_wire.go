package wire

import (
	"kos-booking/internal/adaptor"
	"kos-booking/internal/data/repository"
	"kos-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/units/{id}/availability", bookingHandler.CheckAvailability)

	// ==================== CALLER ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Caller(repo.User, log))

		r.Post("/api/bookings", bookingHandler.CreateBooking)
		r.Get("/api/bookings/{id}", bookingHandler.GetBooking)
		r.Post("/api/bookings/{id}/pay", bookingHandler.ConfirmPayment)
		r.Post("/api/bookings/{id}/cancel", bookingHandler.CancelBooking)
		r.Get("/api/user/bookings", bookingHandler.ListUserBookings)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/bookings", func(r chi.Router) {
		r.Use(middleware.Caller(repo.User, log))
		r.Use(middleware.Admin(log))

		r.Post("/sweep", bookingHandler.RunSweep)
		r.Delete("/{id}", bookingHandler.DeleteBooking)
	})
}
