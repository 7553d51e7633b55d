package repository

import (
	"context"
	"fmt"

	"kos-booking/internal/data/entity"
	"kos-booking/pkg/database"
	"kos-booking/pkg/errs"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UnitRepository is read-mostly: listings are managed elsewhere, this core
// only needs existence, pricing, the row lock and the gated delete.
type UnitRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Unit, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Unit, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

const unitColumns = `id, name, address, monthly_price, is_active, created_at, updated_at, deleted_at`

type unitRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewUnitRepository(db database.PgxIface, log *zap.Logger) UnitRepository {
	return &unitRepository{
		db:  db,
		log: log.With(zap.String("repository", "unit")),
	}
}

func (r *unitRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Unit, error) {
	query := `SELECT ` + unitColumns + ` FROM units WHERE id = $1 AND deleted_at IS NULL`
	return r.findOne(ctx, query, id)
}

// FindByIDForUpdate takes a row lock on the unit so concurrent bookings for the
// same unit serialize on it until the transaction ends.
func (r *unitRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Unit, error) {
	query := `SELECT ` + unitColumns + ` FROM units WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`
	return r.findOne(ctx, query, id)
}

func (r *unitRepository) findOne(ctx context.Context, query string, id uuid.UUID) (*entity.Unit, error) {
	var unit entity.Unit
	err := database.Conn(ctx, r.db).QueryRow(ctx, query, id).Scan(
		&unit.ID,
		&unit.Name,
		&unit.Address,
		&unit.MonthlyPrice,
		&unit.IsActive,
		&unit.CreatedAt,
		&unit.UpdatedAt,
		&unit.DeletedAt,
	)
	if err != nil {
		return nil, translateError(err, fmt.Sprintf("unit %s not found", id))
	}
	return &unit, nil
}

// Delete soft-deletes the unit.
func (r *unitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE units SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete unit", zap.Error(err), zap.String("unit_id", id.String()))
		return translateError(err, fmt.Sprintf("delete unit %s", id))
	}

	if result.RowsAffected() == 0 {
		return errs.NotFound("unit %s not found", id)
	}

	return nil
}
