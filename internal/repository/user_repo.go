package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/victor-a-l-001/techchallenger-auth/internal/model"
)

// UserRepository reads accounts and user types from PostgreSQL. The auth
// service never writes to either table; user management owns them.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, email, password, user_type_id, disabled, created_at, updated_at
		 FROM users WHERE lower(email) = lower($1)`, strings.TrimSpace(email)).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.RoleID, &u.Disabled, &u.CreatedAt, &u.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int) (model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, email, password, user_type_id, disabled, created_at, updated_at
		 FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.RoleID, &u.Disabled, &u.CreatedAt, &u.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

func (r *UserRepository) FindRoleByID(ctx context.Context, id model.Role) (model.UserType, error) {
	var ut model.UserType
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, description FROM user_types WHERE id = $1`, int(id)).
		Scan(&ut.ID, &ut.Name, &ut.Description)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.UserType{}, model.ErrRoleNotFound
	}
	if err != nil {
		return model.UserType{}, fmt.Errorf("find user type by id: %w", err)
	}
	return ut, nil
}
