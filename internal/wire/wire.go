package wire

import (
	"net/http"

	"kos-booking/internal/adaptor"
	"kos-booking/internal/data/repository"
	"kos-booking/internal/usecase"
	"kos-booking/pkg/clock"
	"kos-booking/pkg/middleware"
	"kos-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the router and the services the background jobs need.
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

func Wiring(repo *repository.Repository, config *utils.Config, clk clock.Clock, logger *zap.Logger) *App {
	service := usecase.NewService(repo, config, clk, logger)
	handler := adaptor.NewHandler(service, logger)

	return &App{
		Router:  setupRouter(handler, repo, logger),
		Service: service,
	}
}

func setupRouter(handler *adaptor.Handler, repo *repository.Repository, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	wireBooking(r, handler.Booking, repo, logger)
	wireUnit(r, handler.Unit, repo, logger)
	wireUser(r, handler.User, repo, logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
