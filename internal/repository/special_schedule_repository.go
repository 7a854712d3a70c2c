package repository

import (
	"context"
	"errors"

	"project_turnos/internal/entities"

	"github.com/jackc/pgx/v5"
)

type SpecialScheduleRepository struct {
	db DB
}

func NewSpecialScheduleRepository(db DB) *SpecialScheduleRepository {
	return &SpecialScheduleRepository{db: db}
}

// GetByDate returns the override for the date, or ErrNotFound when the
// regular hours apply.
func (r *SpecialScheduleRepository) GetByDate(ctx context.Context, tenantID int, date string) (*entities.SpecialSchedule, error) {
	var s entities.SpecialSchedule
	err := r.db.QueryRow(ctx, `
		SELECT id, tenant_id, date, is_closed, open_time, close_time, reason
		FROM special_schedules WHERE tenant_id = $1 AND date = $2
	`, tenantID, date).Scan(&s.ID, &s.TenantID, &s.Date, &s.IsClosed, &s.OpenTime, &s.CloseTime, &s.Reason)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, entities.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SpecialScheduleRepository) List(ctx context.Context, tenantID int) ([]entities.SpecialSchedule, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, tenant_id, date, is_closed, open_time, close_time, reason
		FROM special_schedules WHERE tenant_id = $1 ORDER BY date
	`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schedules := []entities.SpecialSchedule{}
	for rows.Next() {
		var s entities.SpecialSchedule
		if err := rows.Scan(&s.ID, &s.TenantID, &s.Date, &s.IsClosed, &s.OpenTime, &s.CloseTime, &s.Reason); err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}

// Upsert writes the override for (tenant, date), replacing an existing one.
func (r *SpecialScheduleRepository) Upsert(ctx context.Context, s *entities.SpecialSchedule) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO special_schedules (tenant_id, date, is_closed, open_time, close_time, reason)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (tenant_id, date)
		DO UPDATE SET is_closed = EXCLUDED.is_closed, open_time = EXCLUDED.open_time,
		              close_time = EXCLUDED.close_time, reason = EXCLUDED.reason
		RETURNING id
	`, s.TenantID, s.Date, s.IsClosed, s.OpenTime, s.CloseTime, s.Reason).Scan(&s.ID)
}

func (r *SpecialScheduleRepository) Delete(ctx context.Context, tenantID, id int) error {
	tag, err := r.db.Exec(ctx,
		"DELETE FROM special_schedules WHERE tenant_id = $1 AND id = $2", tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrNotFound
	}
	return nil
}
