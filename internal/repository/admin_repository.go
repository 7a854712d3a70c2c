package repository

import (
	"context"
	"errors"

	"project_turnos/internal/entities"

	"github.com/jackc/pgx/v5"
)

type AdminRepository struct {
	db DB
}

func NewAdminRepository(db DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) Create(ctx context.Context, a *entities.Admin) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO admins (tenant_id, username, password_hash, role, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, a.TenantID, a.Username, a.PasswordHash, a.Role, a.IsActive).Scan(&a.ID)
}

func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*entities.Admin, error) {
	var a entities.Admin
	err := r.db.QueryRow(ctx,
		"SELECT id, tenant_id, username, password_hash, role, is_active FROM admins WHERE username = $1",
		username).Scan(&a.ID, &a.TenantID, &a.Username, &a.PasswordHash, &a.Role, &a.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, entities.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AdminRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM admins").Scan(&n)
	return n, err
}
