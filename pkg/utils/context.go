package utils

import (
	"context"

	"kos-booking/internal/data/entity"

	"github.com/google/uuid"
)

type contextKey string

const callerKey contextKey = "caller"

// Caller is the authenticated principal behind a request. Services receive it
// as an explicit argument; the context only carries it from middleware to
// handler.
type Caller struct {
	UserID uuid.UUID
	Role   entity.UserRole
}

func (c Caller) IsAdmin() bool {
	return c.Role == entity.RoleAdmin
}

// SystemCaller is used by background jobs.
var SystemCaller = Caller{Role: entity.RoleAdmin}

func SetCallerContext(ctx context.Context, caller Caller) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

func GetCallerFromContext(ctx context.Context) (Caller, bool) {
	caller, ok := ctx.Value(callerKey).(Caller)
	if !ok || caller.UserID == uuid.Nil {
		return Caller{}, false
	}
	return caller, true
}
