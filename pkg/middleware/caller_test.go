package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"kos-booking/internal/data/entity"
	"kos-booking/pkg/errs"
	"kos-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) FindByIDForShare(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return m.FindByID(ctx, id)
}

func (m *mockUserRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return m.FindByID(ctx, id)
}

func (m *mockUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func echoCaller(t *testing.T, want *utils.Caller) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, ok := utils.GetCallerFromContext(r.Context())
		assert.True(t, ok)
		if want != nil {
			assert.Equal(t, *want, caller)
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestCaller(t *testing.T) {
	admin := &entity.User{Base: entity.Base{ID: uuid.New()}, Role: entity.RoleAdmin, IsActive: true}
	disabled := &entity.User{Base: entity.Base{ID: uuid.New()}, Role: entity.RoleCustomer}
	unknown := uuid.New()
	broken := uuid.New()

	repo := &mockUserRepo{}
	repo.On("FindByID", mock.Anything, admin.ID).Return(admin, nil)
	repo.On("FindByID", mock.Anything, disabled.ID).Return(disabled, nil)
	repo.On("FindByID", mock.Anything, unknown).Return(nil, errs.NotFound("user %s not found", unknown))
	repo.On("FindByID", mock.Anything, broken).Return(nil, errs.Infrastructure(errors.New("timeout"), "find user"))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not a uuid", "admin", http.StatusUnauthorized},
		{"unknown user", unknown.String(), http.StatusUnauthorized},
		{"store failure", broken.String(), http.StatusInternalServerError},
		{"disabled account", disabled.ID.String(), http.StatusForbidden},
		{"resolved", admin.ID.String(), http.StatusNoContent},
	}

	want := utils.Caller{UserID: admin.ID, Role: entity.RoleAdmin}
	h := Caller(repo, zap.NewNop())(echoCaller(t, &want))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(UserIDHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestAdmin(t *testing.T) {
	h := Admin(zap.NewNop())(echoCaller(t, nil))

	tests := []struct {
		name   string
		caller *utils.Caller
		status int
	}{
		{"no caller", nil, http.StatusUnauthorized},
		{"customer", &utils.Caller{UserID: uuid.New(), Role: entity.RoleCustomer}, http.StatusForbidden},
		{"admin", &utils.Caller{UserID: uuid.New(), Role: entity.RoleAdmin}, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/api/admin/units/x", nil)
			if tt.caller != nil {
				req = req.WithContext(utils.SetCallerContext(req.Context(), *tt.caller))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestRecover(t *testing.T) {
	h := Recover(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
}
