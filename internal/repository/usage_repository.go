package repository

import (
	"context"
	"time"
)

// UsageRepository tracks per-tenant daily message volume for the stats
// dashboard.
type UsageRepository struct {
	db DB
}

type DailyUsage struct {
	Date             time.Time `json:"date"`
	MessagesSent     int       `json:"messages_sent"`
	MessagesReceived int       `json:"messages_received"`
}

func NewUsageRepository(db DB) *UsageRepository {
	return &UsageRepository{db: db}
}

// IncrementSent increments messages_sent for today.
func (r *UsageRepository) IncrementSent(ctx context.Context, tenantID int) error {
	today := time.Now().Format("2006-01-02")
	_, err := r.db.Exec(ctx, `
		INSERT INTO message_usage (tenant_id, date, messages_sent, messages_received)
		VALUES ($1, $2, 1, 0)
		ON CONFLICT (tenant_id, date)
		DO UPDATE SET messages_sent = message_usage.messages_sent + 1
	`, tenantID, today)
	return err
}

// IncrementReceived increments messages_received for today.
func (r *UsageRepository) IncrementReceived(ctx context.Context, tenantID int) error {
	today := time.Now().Format("2006-01-02")
	_, err := r.db.Exec(ctx, `
		INSERT INTO message_usage (tenant_id, date, messages_sent, messages_received)
		VALUES ($1, $2, 0, 1)
		ON CONFLICT (tenant_id, date)
		DO UPDATE SET messages_received = message_usage.messages_received + 1
	`, tenantID, today)
	return err
}

// History returns the last N days of message volume, oldest first.
func (r *UsageRepository) History(ctx context.Context, tenantID, days int) ([]DailyUsage, error) {
	startDate := time.Now().AddDate(0, 0, -days).Format("2006-01-02")
	rows, err := r.db.Query(ctx, `
		SELECT date, messages_sent, messages_received
		FROM message_usage
		WHERE tenant_id = $1 AND date >= $2
		ORDER BY date ASC
	`, tenantID, startDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	usage := []DailyUsage{}
	for rows.Next() {
		var u DailyUsage
		if err := rows.Scan(&u.Date, &u.MessagesSent, &u.MessagesReceived); err != nil {
			return nil, err
		}
		usage = append(usage, u)
	}
	return usage, rows.Err()
}
