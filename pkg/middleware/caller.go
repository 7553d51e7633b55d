package middleware

import (
	"net/http"

	"kos-booking/internal/data/repository"
	"kos-booking/pkg/errs"
	"kos-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserIDHeader is set by the upstream auth gateway once the session is verified.
const UserIDHeader = "X-User-ID"

// Caller resolves the user behind the request and stores a utils.Caller in
// the request context.
func Caller(userRepo repository.UserRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(UserIDHeader)
			if raw == "" {
				utils.ResponseUnauthorized(w, "Missing caller identity")
				return
			}

			userID, err := uuid.Parse(raw)
			if err != nil {
				utils.ResponseUnauthorized(w, "Invalid caller identity")
				return
			}

			user, err := userRepo.FindByID(r.Context(), userID)
			if err != nil {
				if errs.KindOf(err) == errs.KindNotFound {
					logger.Warn("Unknown caller", zap.String("user_id", raw))
					utils.ResponseUnauthorized(w, "Unknown caller")
					return
				}
				logger.Error("Failed to resolve caller", zap.String("user_id", raw), zap.Error(err))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			if !user.IsActive {
				utils.ResponseForbidden(w, "Account is disabled")
				return
			}

			ctx := utils.SetCallerContext(r.Context(), utils.Caller{UserID: user.ID, Role: user.Role})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Admin rejects callers without the admin role. It must run after Caller.
func Admin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := utils.GetCallerFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			if !caller.IsAdmin() {
				logger.Warn("Admin check: non-admin access attempt",
					zap.String("user_id", caller.UserID.String()),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "Admin access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
