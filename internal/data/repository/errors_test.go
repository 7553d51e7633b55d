package repository

import (
	"context"
	"errors"
	"testing"

	"kos-booking/internal/data/entity"
	"kos-booking/pkg/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errs.Kind
	}{
		{"nil", nil, ""},
		{"no rows", pgx.ErrNoRows, errs.KindNotFound},
		{"exclusion violation", &pgconn.PgError{Code: "23P01", ConstraintName: "bookings_no_overlap"}, errs.KindConflict},
		{"unique violation", &pgconn.PgError{Code: "23505", ConstraintName: "bookings_booking_code_key"}, errs.KindConflict},
		{"foreign key violation", &pgconn.PgError{Code: "23503"}, errs.KindConflict},
		{"statement timeout", &pgconn.PgError{Code: "57014"}, errs.KindInfrastructure},
		{"deadline", context.DeadlineExceeded, errs.KindInfrastructure},
		{"connection", errors.New("dial tcp: connection refused"), errs.KindInfrastructure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := translateError(tt.err, "find booking")
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.want, errs.KindOf(err))
		})
	}
}

func TestCheckScanned(t *testing.T) {
	tests := []struct {
		name    string
		status  entity.BookingStatus
		method  entity.PaymentMethod
		wantErr bool
	}{
		{"known values", entity.BookingStatusPending, entity.PaymentMethodTransfer, false},
		{"unknown status", entity.BookingStatus("on_hold"), entity.PaymentMethodTransfer, true},
		{"unknown payment method", entity.BookingStatusConfirmed, entity.PaymentMethod("cash"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkScanned(&entity.Booking{BookingStatus: tt.status, PaymentMethod: tt.method})
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Equal(t, errs.KindInfrastructure, errs.KindOf(translateError(err, "find booking")))
		})
	}
}
