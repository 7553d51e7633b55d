package repository

import (
	"kos-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Booking BookingRepository
	Unit    UnitRepository
	User    UserRepository
	Tx      database.TxManager
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Booking: NewBookingRepository(db, log),
		Unit:    NewUnitRepository(db, log),
		User:    NewUserRepository(db, log),
		Tx:      database.NewTxManager(db, log),
	}
}
