package wire

import (
	"kos-booking/internal/adaptor"
	"kos-booking/internal/data/repository"
	"kos-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireUnit(
	r chi.Router,
	unitHandler *adaptor.UnitHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	r.With(
		middleware.Caller(repo.User, log),
		middleware.Admin(log),
	).Delete("/api/admin/units/{id}", unitHandler.DeleteUnit)
}
