package repository

import (
	"context"
	"errors"

	"project_turnos/internal/entities"

	"github.com/jackc/pgx/v5"
)

type ClientRepository struct {
	db DB
}

func NewClientRepository(db DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// GetByPhone looks up a client by the (tenant, phone) identity.
func (r *ClientRepository) GetByPhone(ctx context.Context, tenantID int, phone string) (*entities.Client, error) {
	var c entities.Client
	err := r.db.QueryRow(ctx,
		"SELECT id, tenant_id, name, phone, created_at FROM clients WHERE tenant_id = $1 AND phone = $2",
		tenantID, phone).Scan(&c.ID, &c.TenantID, &c.Name, &c.Phone, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, entities.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Upsert inserts the client or refreshes the stored name when it changed.
// Returns the client id.
func (r *ClientRepository) Upsert(ctx context.Context, tenantID int, phone, name string) (int, error) {
	var id int
	err := r.db.QueryRow(ctx, `
		INSERT INTO clients (tenant_id, phone, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (tenant_id, phone)
		DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, tenantID, phone, name).Scan(&id)
	return id, err
}
