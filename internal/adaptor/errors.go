package adaptor

import (
	"net/http"

	"kos-booking/pkg/errs"
	"kos-booking/pkg/utils"

	"go.uber.org/zap"
)

// handleServiceError maps an error kind to its HTTP status. Infrastructure
// detail stays in the log.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	kind := errs.KindOf(err)
	fields := []zap.Field{
		zap.Error(err),
		zap.String("operation", operation),
		zap.String("kind", string(kind)),
	}

	switch kind {
	case errs.KindValidation:
		log.Warn(operation+" validation failed", fields...)
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errs.KindNotFound:
		log.Warn(operation+" failed - not found", fields...)
		utils.ResponseNotFound(w, err.Error())

	case errs.KindConflict:
		log.Warn(operation+" failed - conflict", fields...)
		utils.ResponseConflict(w, err.Error())

	case errs.KindInvalidTransition:
		log.Warn(operation+" failed - invalid state", fields...)
		utils.ResponseUnprocessable(w, err.Error())

	case errs.KindForbidden:
		log.Warn(operation+" failed - forbidden", fields...)
		utils.ResponseForbidden(w, err.Error())

	default:
		log.Error("Failed to "+operation, fields...)
		utils.ResponseInternalError(w, "Internal server error")
	}
}

func callerFrom(w http.ResponseWriter, r *http.Request) (utils.Caller, bool) {
	caller, ok := utils.GetCallerFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
	}
	return caller, ok
}
