package repository

import (
	"context"
	"fmt"
	"time"

	"kos-booking/internal/data/entity"
	"kos-booking/pkg/database"
	"kos-booking/pkg/errs"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	UpdateStatus(ctx context.Context, booking *entity.Booking, from entity.BookingStatus) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Availability and housekeeping queries
	CountOverlapping(ctx context.Context, unitID uuid.UUID, checkIn, checkOut time.Time) (int64, error)
	FindStalePending(ctx context.Context, now time.Time, after SweepCursor, limit int) ([]*entity.Booking, error)
	FindDueForCheckIn(ctx context.Context, today time.Time, after SweepCursor, limit int) ([]*entity.Booking, error)
	FindDueForCheckOut(ctx context.Context, today time.Time, after SweepCursor, limit int) ([]*entity.Booking, error)
	CountBlockingByUnit(ctx context.Context, unitID uuid.UUID) (int64, error)
	CountBlockingByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

// SweepCursor is the keyset position after which a housekeeping page starts:
// the ordering column of the last row seen, then its id. The zero value
// starts at the beginning.
type SweepCursor struct {
	Key time.Time
	ID  uuid.UUID
}

// Statuses that keep a unit or user from being deleted.
var deletionBlockingStatuses = []string{
	string(entity.BookingStatusPending),
	string(entity.BookingStatusConfirmed),
}

const bookingColumns = `
	id, booking_code, user_id, unit_id, check_in_date, check_out_date, duration_months,
	total_price, admin_fee, payment_method, booking_status, payment_status, notes,
	expires_at, confirmed_at, cancelled_at, cancelled_reason, created_at, updated_at`

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

func (r *bookingRepository) conn(ctx context.Context) database.Querier {
	return database.Conn(ctx, r.db)
}

// Create inserts the booking and fills in the store-assigned ID.
func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (booking_code, user_id, unit_id, check_in_date, check_out_date,
		                      duration_months, total_price, admin_fee, payment_method,
		                      booking_status, payment_status, notes, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id
	`

	err := r.conn(ctx).QueryRow(ctx, query,
		booking.BookingCode,
		booking.UserID,
		booking.UnitID,
		booking.CheckInDate,
		booking.CheckOutDate,
		booking.DurationMonths,
		booking.TotalPrice,
		booking.AdminFee,
		booking.PaymentMethod,
		booking.BookingStatus,
		booking.PaymentStatus,
		booking.Notes,
		booking.ExpiresAt,
		booking.CreatedAt,
		booking.UpdatedAt,
	).Scan(&booking.ID)

	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("booking_code", booking.BookingCode),
			zap.String("unit_id", booking.UnitID.String()),
		)
		return translateError(err, fmt.Sprintf("create booking %s", booking.BookingCode))
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT` + bookingColumns + ` FROM bookings WHERE id = $1`
	return r.findOne(ctx, query, id)
}

// FindByIDForUpdate locks the row until the surrounding transaction ends.
func (r *bookingRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`
	return r.findOne(ctx, query, id)
}

func (r *bookingRepository) findOne(ctx context.Context, query string, id uuid.UUID) (*entity.Booking, error) {
	booking, err := scanBooking(r.conn(ctx).QueryRow(ctx, query, id))
	if err != nil {
		if err != pgx.ErrNoRows {
			r.log.Error("Failed to find booking by ID",
				zap.Error(err),
				zap.String("booking_id", id.String()),
			)
		}
		return nil, translateError(err, fmt.Sprintf("booking %s not found", id))
	}
	return booking, nil
}

func (r *bookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	query := `SELECT` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	bookings, err := r.findMany(ctx, query, userID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, translateError(err, fmt.Sprintf("find bookings by user ID %s", userID))
	}
	return bookings, nil
}

func (r *bookingRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE user_id = $1`

	var count int64
	if err := r.conn(ctx).QueryRow(ctx, query, userID).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, translateError(err, fmt.Sprintf("count bookings by user ID %s", userID))
	}
	return count, nil
}

func (r *bookingRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM bookings WHERE booking_code = $1)`

	var exists bool
	if err := r.conn(ctx).QueryRow(ctx, query, code).Scan(&exists); err != nil {
		r.log.Error("Failed to check booking code", zap.Error(err), zap.String("booking_code", code))
		return false, translateError(err, fmt.Sprintf("check booking code %s", code))
	}
	return exists, nil
}

// UpdateStatus writes the lifecycle columns only if the row is still in
// status from. A lost race surfaces as an invalid transition.
func (r *bookingRepository) UpdateStatus(ctx context.Context, booking *entity.Booking, from entity.BookingStatus) error {
	query := `
		UPDATE bookings
		SET booking_status = $3, payment_status = $4, confirmed_at = $5,
		    cancelled_at = $6, cancelled_reason = $7, updated_at = $8
		WHERE id = $1 AND booking_status = $2
	`

	result, err := r.conn(ctx).Exec(ctx, query,
		booking.ID,
		from,
		booking.BookingStatus,
		booking.PaymentStatus,
		booking.ConfirmedAt,
		booking.CancelledAt,
		booking.CancelledReason,
		booking.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
			zap.String("from", string(from)),
			zap.String("to", string(booking.BookingStatus)),
		)
		return translateError(err, fmt.Sprintf("update booking %s status", booking.ID))
	}

	if result.RowsAffected() == 0 {
		return errs.InvalidTransition(errs.Newf("booking %s is no longer %s", booking.ID, from))
	}

	return nil
}

func (r *bookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM bookings WHERE id = $1`

	result, err := r.conn(ctx).Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return translateError(err, fmt.Sprintf("delete booking %s", id))
	}

	if result.RowsAffected() == 0 {
		return errs.NotFound("booking %s not found", id)
	}

	r.log.Info("Booking deleted", zap.String("booking_id", id.String()))
	return nil
}

// CountOverlapping counts active-counting bookings on the unit whose stay
// intersects [checkIn, checkOut) under the half-open rule.
func (r *bookingRepository) CountOverlapping(ctx context.Context, unitID uuid.UUID, checkIn, checkOut time.Time) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM bookings
		WHERE unit_id = $1
		  AND booking_status = ANY($2)
		  AND check_in_date < $4
		  AND $3 < check_out_date
	`

	statuses := make([]string, len(entity.ActiveCountingStatuses))
	for i, s := range entity.ActiveCountingStatuses {
		statuses[i] = string(s)
	}

	var count int64
	if err := r.conn(ctx).QueryRow(ctx, query, unitID, statuses, checkIn, checkOut).Scan(&count); err != nil {
		r.log.Error("Failed to count overlapping bookings",
			zap.Error(err),
			zap.String("unit_id", unitID.String()),
			zap.Time("check_in", checkIn),
			zap.Time("check_out", checkOut),
		)
		return 0, translateError(err, fmt.Sprintf("count overlapping bookings for unit %s", unitID))
	}
	return count, nil
}

func (r *bookingRepository) FindStalePending(ctx context.Context, now time.Time, after SweepCursor, limit int) ([]*entity.Booking, error) {
	query := `SELECT` + bookingColumns + `
		FROM bookings
		WHERE booking_status = 'pending' AND expires_at < $1
			AND (expires_at, id) > ($2, $3)
		ORDER BY expires_at, id
		LIMIT $4
	`

	bookings, err := r.findMany(ctx, query, now, after.Key, after.ID, limit)
	if err != nil {
		r.log.Error("Failed to find stale pending bookings", zap.Error(err))
		return nil, translateError(err, "find stale pending bookings")
	}
	return bookings, nil
}

func (r *bookingRepository) FindDueForCheckIn(ctx context.Context, today time.Time, after SweepCursor, limit int) ([]*entity.Booking, error) {
	query := `SELECT` + bookingColumns + `
		FROM bookings
		WHERE booking_status = 'confirmed' AND check_in_date <= $1
			AND (check_in_date, id) > ($2, $3)
		ORDER BY check_in_date, id
		LIMIT $4
	`

	bookings, err := r.findMany(ctx, query, today, after.Key, after.ID, limit)
	if err != nil {
		r.log.Error("Failed to find bookings due for check-in", zap.Error(err))
		return nil, translateError(err, "find bookings due for check-in")
	}
	return bookings, nil
}

func (r *bookingRepository) FindDueForCheckOut(ctx context.Context, today time.Time, after SweepCursor, limit int) ([]*entity.Booking, error) {
	query := `SELECT` + bookingColumns + `
		FROM bookings
		WHERE booking_status = 'active' AND check_out_date <= $1
			AND (check_out_date, id) > ($2, $3)
		ORDER BY check_out_date, id
		LIMIT $4
	`

	bookings, err := r.findMany(ctx, query, today, after.Key, after.ID, limit)
	if err != nil {
		r.log.Error("Failed to find bookings due for check-out", zap.Error(err))
		return nil, translateError(err, "find bookings due for check-out")
	}
	return bookings, nil
}

func (r *bookingRepository) CountBlockingByUnit(ctx context.Context, unitID uuid.UUID) (int64, error) {
	return r.countBlocking(ctx, "unit_id", unitID)
}

func (r *bookingRepository) CountBlockingByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	return r.countBlocking(ctx, "user_id", userID)
}

func (r *bookingRepository) countBlocking(ctx context.Context, column string, id uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE ` + column + ` = $1 AND booking_status = ANY($2)`

	var count int64
	if err := r.conn(ctx).QueryRow(ctx, query, id, deletionBlockingStatuses).Scan(&count); err != nil {
		r.log.Error("Failed to count blocking bookings",
			zap.Error(err),
			zap.String(column, id.String()),
		)
		return 0, translateError(err, fmt.Sprintf("count blocking bookings by %s %s", column, id))
	}
	return count, nil
}

func (r *bookingRepository) findMany(ctx context.Context, query string, args ...any) ([]*entity.Booking, error) {
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.BookingCode,
		&booking.UserID,
		&booking.UnitID,
		&booking.CheckInDate,
		&booking.CheckOutDate,
		&booking.DurationMonths,
		&booking.TotalPrice,
		&booking.AdminFee,
		&booking.PaymentMethod,
		&booking.BookingStatus,
		&booking.PaymentStatus,
		&booking.Notes,
		&booking.ExpiresAt,
		&booking.ConfirmedAt,
		&booking.CancelledAt,
		&booking.CancelledReason,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := checkScanned(&booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// checkScanned rejects rows carrying enum values the service does not know.
func checkScanned(b *entity.Booking) error {
	if !b.BookingStatus.IsValid() {
		return errs.Newf("booking %s has unknown status %q", b.ID, b.BookingStatus)
	}
	if !b.PaymentMethod.IsValid() {
		return errs.Newf("booking %s has unknown payment method %q", b.ID, b.PaymentMethod)
	}
	return nil
}
