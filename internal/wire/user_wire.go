package wire

import (
	"kos-booking/internal/adaptor"
	"kos-booking/internal/data/repository"
	"kos-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireUser(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// Admin user management requires a resolved caller with the admin role.
	r.With(
		middleware.Caller(repo.User, log),
		middleware.Admin(log),
	).Route("/api/admin/users", func(r chi.Router) {
		r.Delete("/{id}", userHandler.DeleteUser)
	})
}
