package repository

import (
	"context"
	"errors"

	"project_turnos/internal/entities"

	"github.com/jackc/pgx/v5"
)

type ServiceRepository struct {
	db DB
}

func NewServiceRepository(db DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

const serviceColumns = `id, tenant_id, name, description, duration, price, is_active`

// ListActive returns the tenant's bookable services in id order, which is
// also the 1-based menu order shown to clients.
func (r *ServiceRepository) ListActive(ctx context.Context, tenantID int) ([]entities.Service, error) {
	return r.list(ctx,
		"SELECT "+serviceColumns+" FROM services WHERE tenant_id = $1 AND is_active = true ORDER BY id",
		tenantID)
}

// List returns every service of the tenant, active or not.
func (r *ServiceRepository) List(ctx context.Context, tenantID int) ([]entities.Service, error) {
	return r.list(ctx,
		"SELECT "+serviceColumns+" FROM services WHERE tenant_id = $1 ORDER BY id",
		tenantID)
}

func (r *ServiceRepository) list(ctx context.Context, sql string, args ...any) ([]entities.Service, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	services := []entities.Service{}
	for rows.Next() {
		var s entities.Service
		if err := rows.Scan(&s.ID, &s.TenantID, &s.Name, &s.Description, &s.Duration, &s.Price, &s.IsActive); err != nil {
			return nil, err
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

func (r *ServiceRepository) GetByID(ctx context.Context, tenantID, id int) (*entities.Service, error) {
	var s entities.Service
	err := r.db.QueryRow(ctx,
		"SELECT "+serviceColumns+" FROM services WHERE tenant_id = $1 AND id = $2",
		tenantID, id).Scan(&s.ID, &s.TenantID, &s.Name, &s.Description, &s.Duration, &s.Price, &s.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, entities.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ServiceRepository) Create(ctx context.Context, s *entities.Service) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO services (tenant_id, name, description, duration, price, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, s.TenantID, s.Name, s.Description, s.Duration, s.Price, s.IsActive).Scan(&s.ID)
}

func (r *ServiceRepository) Update(ctx context.Context, s *entities.Service) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE services SET name = $1, description = $2, duration = $3, price = $4, is_active = $5
		WHERE tenant_id = $6 AND id = $7
	`, s.Name, s.Description, s.Duration, s.Price, s.IsActive, s.TenantID, s.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrNotFound
	}
	return nil
}

func (r *ServiceRepository) Delete(ctx context.Context, tenantID, id int) error {
	tag, err := r.db.Exec(ctx,
		"DELETE FROM services WHERE tenant_id = $1 AND id = $2", tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrNotFound
	}
	return nil
}

// CountAppointments returns how many appointments reference the service,
// in any status.
func (r *ServiceRepository) CountAppointments(ctx context.Context, tenantID, serviceID int) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM appointments WHERE tenant_id = $1 AND service_id = $2",
		tenantID, serviceID).Scan(&n)
	return n, err
}

// CountActiveAppointments returns how many pending or confirmed
// appointments reference the service.
func (r *ServiceRepository) CountActiveAppointments(ctx context.Context, tenantID, serviceID int) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM appointments WHERE tenant_id = $1 AND service_id = $2 AND status IN ('pending', 'confirmed')",
		tenantID, serviceID).Scan(&n)
	return n, err
}
