package adaptor

import (
	"net/http"

	"kos-booking/internal/usecase"
	"kos-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type UnitHandler struct {
	service usecase.UnitService
	log     *zap.Logger
}

func NewUnitHandler(service usecase.UnitService, log *zap.Logger) *UnitHandler {
	return &UnitHandler{
		service: service,
		log:     log.With(zap.String("handler", "unit")),
	}
}

// DeleteUnit handles DELETE /api/admin/units/{id}
func (h *UnitHandler) DeleteUnit(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteUnit(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete unit")
		return
	}

	utils.ResponseSuccess(w, "Unit deleted", nil)
}
