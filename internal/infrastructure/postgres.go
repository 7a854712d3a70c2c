package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresClient struct {
	Pool *pgxpool.Pool
}

func NewPostgresClient(connString string) (*PostgresClient, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	// Pool configuration
	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	client := &PostgresClient{Pool: pool}

	// Auto-migrate schema
	if err := client.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return client, nil
}

func (p *PostgresClient) Migrate() error {
	ctx := context.Background()

	_, err := p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS tenants (
			id SERIAL PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			business_phone VARCHAR(30) UNIQUE NOT NULL,
			address VARCHAR(255) DEFAULT '',
			open_time VARCHAR(5) NOT NULL DEFAULT '09:00',
			close_time VARCHAR(5) NOT NULL DEFAULT '18:00',
			slot_duration INT NOT NULL DEFAULT 30,
			working_days VARCHAR(20) NOT NULL DEFAULT '1,2,3,4,5',
			telegram_token VARCHAR(100) DEFAULT '',
			wa_enabled BOOLEAN DEFAULT false,
			is_active BOOLEAN DEFAULT true,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("create tenants table: %w", err)
	}

	_, err = p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS admins (
			id SERIAL PRIMARY KEY,
			tenant_id INT NOT NULL REFERENCES tenants(id),
			username VARCHAR(50) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(20) DEFAULT 'admin',
			is_active BOOLEAN DEFAULT true,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("create admins table: %w", err)
	}

	_, err = p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS services (
			id SERIAL PRIMARY KEY,
			tenant_id INT NOT NULL REFERENCES tenants(id),
			name VARCHAR(100) NOT NULL,
			description TEXT DEFAULT '',
			duration INT NOT NULL,
			price DECIMAL(12, 2) NOT NULL DEFAULT 0,
			is_active BOOLEAN DEFAULT true
		);
	`)
	if err != nil {
		return fmt.Errorf("create services table: %w", err)
	}

	_, err = p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS clients (
			id SERIAL PRIMARY KEY,
			tenant_id INT NOT NULL REFERENCES tenants(id),
			name VARCHAR(100) NOT NULL,
			phone VARCHAR(30) NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (tenant_id, phone)
		);
	`)
	if err != nil {
		return fmt.Errorf("create clients table: %w", err)
	}

	_, err = p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS appointments (
			id SERIAL PRIMARY KEY,
			tenant_id INT NOT NULL REFERENCES tenants(id),
			client_id INT NOT NULL REFERENCES clients(id),
			service_id INT NOT NULL REFERENCES services(id),
			date VARCHAR(10) NOT NULL,
			time VARCHAR(5) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("create appointments table: %w", err)
	}
	p.Pool.Exec(ctx, "CREATE INDEX IF NOT EXISTS idx_appointments_day ON appointments (tenant_id, date, status);")

	_, err = p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS special_schedules (
			id SERIAL PRIMARY KEY,
			tenant_id INT NOT NULL REFERENCES tenants(id),
			date VARCHAR(10) NOT NULL,
			is_closed BOOLEAN DEFAULT false,
			open_time VARCHAR(5) DEFAULT '',
			close_time VARCHAR(5) DEFAULT '',
			reason VARCHAR(255) DEFAULT '',
			UNIQUE (tenant_id, date)
		);
	`)
	if err != nil {
		return fmt.Errorf("create special_schedules table: %w", err)
	}

	_, err = p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS message_usage (
			tenant_id INT NOT NULL REFERENCES tenants(id),
			date DATE NOT NULL,
			messages_sent INT DEFAULT 0,
			messages_received INT DEFAULT 0,
			PRIMARY KEY (tenant_id, date)
		);
	`)
	if err != nil {
		return fmt.Errorf("create message_usage table: %w", err)
	}

	return nil
}

func (p *PostgresClient) Close() {
	p.Pool.Close()
}
