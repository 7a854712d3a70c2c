package repository

import (
	"context"
	"errors"

	"project_turnos/internal/entities"

	"github.com/jackc/pgx/v5"
)

type TenantRepository struct {
	db DB
}

func NewTenantRepository(db DB) *TenantRepository {
	return &TenantRepository{db: db}
}

const tenantColumns = `id, name, business_phone, address, open_time, close_time, slot_duration, working_days, telegram_token, wa_enabled, is_active`

func scanTenant(row pgx.Row) (*entities.Tenant, error) {
	var t entities.Tenant
	err := row.Scan(&t.ID, &t.Name, &t.BusinessPhone, &t.Address, &t.OpenTime, &t.CloseTime,
		&t.SlotDuration, &t.WorkingDays, &t.TelegramToken, &t.WAEnabled, &t.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, entities.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetByBusinessPhone resolves the tenant whose bot answers on phone.
func (r *TenantRepository) GetByBusinessPhone(ctx context.Context, phone string) (*entities.Tenant, error) {
	return scanTenant(r.db.QueryRow(ctx,
		"SELECT "+tenantColumns+" FROM tenants WHERE business_phone = $1 AND is_active = true",
		phone))
}

func (r *TenantRepository) GetByID(ctx context.Context, id int) (*entities.Tenant, error) {
	return scanTenant(r.db.QueryRow(ctx,
		"SELECT "+tenantColumns+" FROM tenants WHERE id = $1", id))
}

func (r *TenantRepository) List(ctx context.Context) ([]entities.Tenant, error) {
	rows, err := r.db.Query(ctx, "SELECT "+tenantColumns+" FROM tenants ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tenants := []entities.Tenant{}
	for rows.Next() {
		var t entities.Tenant
		if err := rows.Scan(&t.ID, &t.Name, &t.BusinessPhone, &t.Address, &t.OpenTime, &t.CloseTime,
			&t.SlotDuration, &t.WorkingDays, &t.TelegramToken, &t.WAEnabled, &t.IsActive); err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}

func (r *TenantRepository) Create(ctx context.Context, t *entities.Tenant) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO tenants (name, business_phone, address, open_time, close_time, slot_duration, working_days, telegram_token, wa_enabled, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`, t.Name, t.BusinessPhone, t.Address, t.OpenTime, t.CloseTime, t.SlotDuration,
		t.WorkingDays, t.TelegramToken, t.WAEnabled, t.IsActive).Scan(&t.ID)
}

// UpdateSettings changes the business profile and scheduling parameters.
func (r *TenantRepository) UpdateSettings(ctx context.Context, t *entities.Tenant) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE tenants
		SET name = $1, business_phone = $2, address = $3, open_time = $4, close_time = $5,
		    slot_duration = $6, working_days = $7, telegram_token = $8, wa_enabled = $9
		WHERE id = $10
	`, t.Name, t.BusinessPhone, t.Address, t.OpenTime, t.CloseTime, t.SlotDuration,
		t.WorkingDays, t.TelegramToken, t.WAEnabled, t.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrNotFound
	}
	return nil
}
