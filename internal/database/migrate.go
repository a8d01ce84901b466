package database

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

//go:embed migrations/001_initial.up.sql
var initialMigrationSQL string

// seedCost matches the bcrypt rounds the original seed data was hashed with.
const seedCost = 10

var requiredTables = []string{
	"user_types",
	"users",
}

// EnsureSchema applies the initial migration when the auth tables are
// missing and seeds the two demo accounts on an empty database. Safe to run
// on every startup.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if db == nil || db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	exists, err := db.hasAllRequiredTables(ctx)
	if err != nil {
		return fmt.Errorf("check existing tables: %w", err)
	}

	if !exists {
		slog.Info("database schema missing tables; applying initial migration")
		if _, err := db.Pool.Exec(ctx, initialMigrationSQL); err != nil {
			return fmt.Errorf("apply initial migration: %w", err)
		}
	}

	if err := db.seedDemoUsers(ctx); err != nil {
		return fmt.Errorf("seed demo users: %w", err)
	}

	slog.Info("database schema ensured")
	return nil
}

// seedDemoUsers inserts the professor/aluno demo accounts the way the
// platform's original seed did: password "123456", hashed at insert time.
func (db *DB) seedDemoUsers(ctx context.Context) error {
	var count int
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("123456"), seedCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	_, err = db.Pool.Exec(ctx,
		`INSERT INTO users (name, email, password, user_type_id, disabled)
		 VALUES ('Professor', 'professor@nulo.com.br', $1, 1, false),
		        ('Aluno', 'aluno@nulo.com.br', $1, 2, false)
		 ON CONFLICT (email) DO NOTHING`, string(hash))
	if err != nil {
		return fmt.Errorf("insert seed users: %w", err)
	}

	slog.Info("seeded demo users")
	return nil
}

func (db *DB) hasAllRequiredTables(ctx context.Context) (bool, error) {
	var count int
	err := db.Pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM information_schema.tables
		WHERE table_schema = 'public'
		  AND table_name = ANY($1)
	`, requiredTables).Scan(&count)
	if err != nil {
		return false, err
	}

	return count == len(requiredTables), nil
}
