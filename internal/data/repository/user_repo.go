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

type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByIDForShare(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

const userColumns = `id, username, email, phone, role, is_active, created_at, updated_at, deleted_at`

type userRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewUserRepository(db database.PgxIface, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log.With(zap.String("repository", "user")),
	}
}

func (ur *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND deleted_at IS NULL`
	return ur.findOne(ctx, query, id)
}

// FindByIDForShare keeps the user from being deleted while a booking for it
// is being created.
func (ur *userRepository) FindByIDForShare(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND deleted_at IS NULL FOR SHARE`
	return ur.findOne(ctx, query, id)
}

func (ur *userRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`
	return ur.findOne(ctx, query, id)
}

func (ur *userRepository) findOne(ctx context.Context, query string, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	err := database.Conn(ctx, ur.db).QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Phone,
		&user.Role,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.DeletedAt,
	)
	if err != nil {
		return nil, translateError(err, fmt.Sprintf("user %s not found", id))
	}
	return &user, nil
}

// Delete soft-deletes the user.
func (ur *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := database.Conn(ctx, ur.db).Exec(ctx, query, id)
	if err != nil {
		ur.log.Error("Failed to delete user", zap.Error(err), zap.String("user_id", id.String()))
		return translateError(err, fmt.Sprintf("delete user %s", id))
	}

	if result.RowsAffected() == 0 {
		return errs.NotFound("user %s not found", id)
	}

	return nil
}
