package usecase

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"

	"kos-booking/internal/data/entity"
	"kos-booking/internal/data/repository"
	"kos-booking/pkg/clock"
	"kos-booking/pkg/errs"
	"kos-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// serialTx runs transactions one at a time, which is what the unit row lock
// achieves for creates on the same unit.
type serialTx struct {
	mu sync.Mutex
}

func (t *serialTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(ctx)
}

type memBookingRepo struct {
	mu        sync.Mutex
	rows      map[uuid.UUID]entity.Booking
	failWrite map[uuid.UUID]error
	failFind  error
	loads     int
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{
		rows:      map[uuid.UUID]entity.Booking{},
		failWrite: map[uuid.UUID]error{},
	}
}

func (r *memBookingRepo) Create(_ context.Context, b *entity.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, row := range r.rows {
		if row.BookingCode == b.BookingCode {
			return errs.Conflict("duplicate booking code %s", b.BookingCode)
		}
		if row.UnitID == b.UnitID && row.BookingStatus.BlocksAvailability() && row.Overlaps(b.CheckInDate, b.CheckOutDate) {
			return errs.Conflict("exclusion constraint bookings_no_overlap")
		}
	}

	b.ID = uuid.New()
	r.rows[b.ID] = *b
	return nil
}

func (r *memBookingRepo) get(id uuid.UUID) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, errs.NotFound("booking %s not found", id)
	}
	return &row, nil
}

func (r *memBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	return r.get(id)
}

func (r *memBookingRepo) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	return r.get(id)
}

func (r *memBookingRepo) FindByUserID(_ context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	all := r.filter(func(b entity.Booking) bool { return b.UserID == userID })
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *memBookingRepo) CountByUserID(_ context.Context, userID uuid.UUID) (int64, error) {
	return int64(len(r.filter(func(b entity.Booking) bool { return b.UserID == userID }))), nil
}

func (r *memBookingRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	return len(r.filter(func(b entity.Booking) bool { return b.BookingCode == code })) > 0, nil
}

func (r *memBookingRepo) UpdateStatus(_ context.Context, b *entity.Booking, from entity.BookingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.failWrite[b.ID]; err != nil {
		return err
	}

	row, ok := r.rows[b.ID]
	if !ok {
		return errs.NotFound("booking %s not found", b.ID)
	}
	if row.BookingStatus != from {
		return errs.InvalidTransition(errs.Newf("booking %s is no longer %s", b.ID, from))
	}

	r.rows[b.ID] = *b
	return nil
}

func (r *memBookingRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return errs.NotFound("booking %s not found", id)
	}
	delete(r.rows, id)
	return nil
}

func (r *memBookingRepo) CountOverlapping(_ context.Context, unitID uuid.UUID, checkIn, checkOut time.Time) (int64, error) {
	return int64(len(r.filter(func(b entity.Booking) bool {
		return b.UnitID == unitID && b.BookingStatus.BlocksAvailability() && b.Overlaps(checkIn, checkOut)
	}))), nil
}

func (r *memBookingRepo) FindStalePending(_ context.Context, now time.Time, after repository.SweepCursor, limit int) ([]*entity.Booking, error) {
	if r.failFind != nil {
		return nil, r.failFind
	}
	r.mu.Lock()
	r.loads++
	r.mu.Unlock()
	return keysetPage(r.filter(func(b entity.Booking) bool { return b.IsStale(now) }),
		func(b *entity.Booking) time.Time { return b.ExpiresAt }, after, limit), nil
}

func (r *memBookingRepo) FindDueForCheckIn(_ context.Context, today time.Time, after repository.SweepCursor, limit int) ([]*entity.Booking, error) {
	return keysetPage(r.filter(func(b entity.Booking) bool {
		return b.BookingStatus == entity.BookingStatusConfirmed && !b.CheckInDate.After(today)
	}), func(b *entity.Booking) time.Time { return b.CheckInDate }, after, limit), nil
}

func (r *memBookingRepo) FindDueForCheckOut(_ context.Context, today time.Time, after repository.SweepCursor, limit int) ([]*entity.Booking, error) {
	return keysetPage(r.filter(func(b entity.Booking) bool {
		return b.BookingStatus == entity.BookingStatusActive && !b.CheckOutDate.After(today)
	}), func(b *entity.Booking) time.Time { return b.CheckOutDate }, after, limit), nil
}

// keysetPage mirrors ORDER BY key, id with a (key, id) > cursor filter.
func keysetPage(bookings []*entity.Booking, key func(b *entity.Booking) time.Time, after repository.SweepCursor, limit int) []*entity.Booking {
	less := func(k1 time.Time, id1 uuid.UUID, k2 time.Time, id2 uuid.UUID) bool {
		if !k1.Equal(k2) {
			return k1.Before(k2)
		}
		return bytes.Compare(id1[:], id2[:]) < 0
	}

	sort.Slice(bookings, func(i, j int) bool {
		return less(key(bookings[i]), bookings[i].ID, key(bookings[j]), bookings[j].ID)
	})

	var out []*entity.Booking
	for _, b := range bookings {
		if less(after.Key, after.ID, key(b), b.ID) {
			out = append(out, b)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (r *memBookingRepo) CountBlockingByUnit(_ context.Context, unitID uuid.UUID) (int64, error) {
	return int64(len(r.filter(func(b entity.Booking) bool {
		return b.UnitID == unitID && blocksDeletion(b.BookingStatus)
	}))), nil
}

func (r *memBookingRepo) CountBlockingByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	return int64(len(r.filter(func(b entity.Booking) bool {
		return b.UserID == userID && blocksDeletion(b.BookingStatus)
	}))), nil
}

func blocksDeletion(s entity.BookingStatus) bool {
	return s == entity.BookingStatusPending || s == entity.BookingStatusConfirmed
}

func (r *memBookingRepo) filter(keep func(b entity.Booking) bool) []*entity.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Booking
	for _, row := range r.rows {
		if keep(row) {
			b := row
			out = append(out, &b)
		}
	}
	return out
}

// put stores a booking directly, bypassing the lifecycle.
func (r *memBookingRepo) put(b entity.Booking) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[b.ID] = b
}

type memUnitRepo struct {
	mu    sync.Mutex
	units map[uuid.UUID]entity.Unit
}

func (r *memUnitRepo) find(id uuid.UUID) (*entity.Unit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.units[id]
	if !ok || u.DeletedAt != nil {
		return nil, errs.NotFound("unit %s not found", id)
	}
	return &u, nil
}

func (r *memUnitRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Unit, error) {
	return r.find(id)
}

func (r *memUnitRepo) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*entity.Unit, error) {
	return r.find(id)
}

func (r *memUnitRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.units[id]
	if !ok || u.DeletedAt != nil {
		return errs.NotFound("unit %s not found", id)
	}
	now := time.Now()
	u.DeletedAt = &now
	r.units[id] = u
	return nil
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]entity.User
}

func (r *memUserRepo) find(id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.DeletedAt != nil {
		return nil, errs.NotFound("user %s not found", id)
	}
	return &u, nil
}

func (r *memUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return r.find(id)
}

func (r *memUserRepo) FindByIDForShare(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return r.find(id)
}

func (r *memUserRepo) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return r.find(id)
}

func (r *memUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.DeletedAt != nil {
		return errs.NotFound("user %s not found", id)
	}
	now := time.Now()
	u.DeletedAt = &now
	r.users[id] = u
	return nil
}

type recordingNotifier struct {
	mu      sync.Mutex
	created int
	changed []entity.BookingStatus
}

func (n *recordingNotifier) BookingCreated(context.Context, *entity.Booking) {
	n.mu.Lock()
	n.created++
	n.mu.Unlock()
}

func (n *recordingNotifier) BookingStatusChanged(_ context.Context, b *entity.Booking, _ entity.BookingStatus) {
	n.mu.Lock()
	n.changed = append(n.changed, b.BookingStatus)
	n.mu.Unlock()
}

type fixture struct {
	clock    *clock.MockClock
	bookings *memBookingRepo
	units    *memUnitRepo
	users    *memUserRepo
	notifier *recordingNotifier
	repo     *repository.Repository
	svc      *bookingService
	sweeper  SweeperService

	unitID   uuid.UUID
	customer utils.Caller
	other    utils.Caller
	admin    utils.Caller
}

var fixtureNow = time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)

func newFixture() *fixture {
	f := &fixture{
		clock:    clock.NewMockClock(fixtureNow),
		bookings: newMemBookingRepo(),
		units:    &memUnitRepo{units: map[uuid.UUID]entity.Unit{}},
		users:    &memUserRepo{users: map[uuid.UUID]entity.User{}},
		notifier: &recordingNotifier{},
		unitID:   uuid.New(),
	}

	f.units.units[f.unitID] = entity.Unit{
		Base:         entity.Base{ID: f.unitID},
		Name:         "Kos Melati No. 3",
		MonthlyPrice: 1500000,
		IsActive:     true,
	}

	f.customer = f.addUser(entity.RoleCustomer)
	f.other = f.addUser(entity.RoleCustomer)
	f.admin = f.addUser(entity.RoleAdmin)

	f.repo = &repository.Repository{
		Booking: f.bookings,
		Unit:    f.units,
		User:    f.users,
		Tx:      &serialTx{},
	}

	config := utils.BookingConfig{
		AdminFee:        5000,
		PendingTTL:      24 * time.Hour,
		CancelWindow:    24 * time.Hour,
		CodeMaxAttempts: 5,
		SweepBatchSize:  100,
		SweepWorkers:    4,
	}

	log := zap.NewNop()
	availability := NewAvailabilityChecker(f.bookings, log)
	f.svc = NewBookingService(f.repo, availability, f.notifier, config, f.clock, log).(*bookingService)
	f.sweeper = NewSweeperService(f.bookings, f.svc, config, f.clock, log)
	return f
}

func (f *fixture) addUser(role entity.UserRole) utils.Caller {
	id := uuid.New()
	f.users.users[id] = entity.User{
		Base:     entity.Base{ID: id},
		Username: id.String()[:8],
		Email:    id.String()[:8] + "@example.com",
		Role:     role,
		IsActive: true,
	}
	return utils.Caller{UserID: id, Role: role}
}
