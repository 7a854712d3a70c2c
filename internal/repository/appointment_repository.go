package repository

import (
	"context"
	"errors"
	"strconv"

	"project_turnos/internal/entities"

	"github.com/jackc/pgx/v5"
)

type AppointmentRepository struct {
	db DB
}

func NewAppointmentRepository(db DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

// OccupiedSlot is a booked interval on a date: start time plus the
// duration of the booked service.
type OccupiedSlot struct {
	Time     string
	Duration int
}

// Occupied returns the start time and service duration of every pending or
// confirmed appointment on the date, in time order.
func (r *AppointmentRepository) Occupied(ctx context.Context, tenantID int, date string) ([]OccupiedSlot, error) {
	rows, err := r.db.Query(ctx, `
		SELECT a.time, s.duration
		FROM appointments a
		JOIN services s ON s.id = a.service_id
		WHERE a.tenant_id = $1 AND a.date = $2 AND a.status IN ('pending', 'confirmed')
		ORDER BY a.time
	`, tenantID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	occupied := []OccupiedSlot{}
	for rows.Next() {
		var o OccupiedSlot
		if err := rows.Scan(&o.Time, &o.Duration); err != nil {
			return nil, err
		}
		occupied = append(occupied, o)
	}
	return occupied, rows.Err()
}

// ExistsAt reports whether a pending or confirmed appointment already
// starts at exactly (date, time).
func (r *AppointmentRepository) ExistsAt(ctx context.Context, tenantID int, date, time string) (bool, error) {
	var one int
	err := r.db.QueryRow(ctx, `
		SELECT 1 FROM appointments
		WHERE tenant_id = $1 AND date = $2 AND time = $3 AND status IN ('pending', 'confirmed')
		LIMIT 1
	`, tenantID, date, time).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *AppointmentRepository) Create(ctx context.Context, a *entities.Appointment) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO appointments (tenant_id, client_id, service_id, date, time, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, a.TenantID, a.ClientID, a.ServiceID, a.Date, a.Time, a.Status).Scan(&a.ID, &a.CreatedAt)
}

// CountActiveByPhone counts the caller's pending or confirmed appointments.
func (r *AppointmentRepository) CountActiveByPhone(ctx context.Context, tenantID int, phone string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM appointments a
		JOIN clients c ON c.id = a.client_id
		WHERE a.tenant_id = $1 AND c.phone = $2 AND a.status IN ('pending', 'confirmed')
	`, tenantID, phone).Scan(&n)
	return n, err
}

const appointmentDetailSelect = `
	SELECT a.id, a.tenant_id, a.client_id, a.service_id, a.date, a.time, a.status, a.created_at,
	       c.name, c.phone, s.name, s.price, s.duration
	FROM appointments a
	JOIN clients c ON c.id = a.client_id
	JOIN services s ON s.id = a.service_id
`

func scanDetails(rows pgx.Rows) ([]entities.AppointmentDetail, error) {
	details := []entities.AppointmentDetail{}
	for rows.Next() {
		var d entities.AppointmentDetail
		if err := rows.Scan(&d.ID, &d.TenantID, &d.ClientID, &d.ServiceID, &d.Date, &d.Time, &d.Status, &d.CreatedAt,
			&d.ClientName, &d.ClientPhone, &d.ServiceName, &d.Price, &d.Duration); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// ListActiveByPhone returns the caller's pending or confirmed appointments,
// soonest first. The slice order is the 1-based index used by CANCELAR <n>.
func (r *AppointmentRepository) ListActiveByPhone(ctx context.Context, tenantID int, phone string) ([]entities.AppointmentDetail, error) {
	rows, err := r.db.Query(ctx, appointmentDetailSelect+`
		WHERE a.tenant_id = $1 AND c.phone = $2 AND a.status IN ('pending', 'confirmed')
		ORDER BY a.date, a.time
	`, tenantID, phone)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDetails(rows)
}

// ListFilter narrows the admin appointment listing.
type ListFilter struct {
	Date   string
	Status string
	Limit  int
	Offset int
}

// List returns appointments for the admin console, newest date first.
func (r *AppointmentRepository) List(ctx context.Context, tenantID int, f ListFilter) ([]entities.AppointmentDetail, error) {
	sql := appointmentDetailSelect + " WHERE a.tenant_id = $1"
	args := []any{tenantID}

	if f.Date != "" {
		args = append(args, f.Date)
		sql += " AND a.date = $" + strconv.Itoa(len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		sql += " AND a.status = $" + strconv.Itoa(len(args))
	}
	sql += " ORDER BY a.date DESC, a.time DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		sql += " LIMIT $" + strconv.Itoa(len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		sql += " OFFSET $" + strconv.Itoa(len(args))
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDetails(rows)
}

func (r *AppointmentRepository) GetByID(ctx context.Context, tenantID, id int) (*entities.AppointmentDetail, error) {
	rows, err := r.db.Query(ctx, appointmentDetailSelect+`
		WHERE a.tenant_id = $1 AND a.id = $2
	`, tenantID, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details, err := scanDetails(rows)
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, entities.ErrNotFound
	}
	return &details[0], nil
}

func (r *AppointmentRepository) UpdateStatus(ctx context.Context, tenantID, id int, status string) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE appointments SET status = $1 WHERE tenant_id = $2 AND id = $3",
		status, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrNotFound
	}
	return nil
}

func (r *AppointmentRepository) Delete(ctx context.Context, tenantID, id int) error {
	tag, err := r.db.Exec(ctx,
		"DELETE FROM appointments WHERE tenant_id = $1 AND id = $2", tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrNotFound
	}
	return nil
}

// StatusCounts returns the number of appointments per status.
func (r *AppointmentRepository) StatusCounts(ctx context.Context, tenantID int) (map[string]int, error) {
	rows, err := r.db.Query(ctx,
		"SELECT status, COUNT(*) FROM appointments WHERE tenant_id = $1 GROUP BY status", tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// Revenue sums the service price of completed appointments.
func (r *AppointmentRepository) Revenue(ctx context.Context, tenantID int) (float64, error) {
	var total float64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(s.price), 0)
		FROM appointments a
		JOIN services s ON s.id = a.service_id
		WHERE a.tenant_id = $1 AND a.status = 'completed'
	`, tenantID).Scan(&total)
	return total, err
}

// ServicePopularity is a service name with its booking count.
type ServicePopularity struct {
	ServiceName string `json:"service_name"`
	Count       int    `json:"count"`
}

// PopularServices returns the most booked services, descending.
func (r *AppointmentRepository) PopularServices(ctx context.Context, tenantID, limit int) ([]ServicePopularity, error) {
	rows, err := r.db.Query(ctx, `
		SELECT s.name, COUNT(*) AS n
		FROM appointments a
		JOIN services s ON s.id = a.service_id
		WHERE a.tenant_id = $1
		GROUP BY s.name
		ORDER BY n DESC
		LIMIT $2
	`, tenantID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	popular := []ServicePopularity{}
	for rows.Next() {
		var p ServicePopularity
		if err := rows.Scan(&p.ServiceName, &p.Count); err != nil {
			return nil, err
		}
		popular = append(popular, p)
	}
	return popular, rows.Err()
}
