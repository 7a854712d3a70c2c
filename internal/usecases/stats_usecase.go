package usecases

import (
	"context"

	"project_turnos/internal/entities"
	"project_turnos/internal/repository"
)

// StatsUsecase aggregates the numbers behind the admin dashboard.
type StatsUsecase struct {
	appointments *repository.AppointmentRepository
	usage        *repository.UsageRepository
}

func NewStatsUsecase(appointments *repository.AppointmentRepository, usage *repository.UsageRepository) *StatsUsecase {
	return &StatsUsecase{appointments: appointments, usage: usage}
}

type DashboardStats struct {
	Total           int                            `json:"total"`
	Pending         int                            `json:"pending"`
	Confirmed       int                            `json:"confirmed"`
	Completed       int                            `json:"completed"`
	Cancelled       int                            `json:"cancelled"`
	Revenue         float64                        `json:"revenue"`
	PopularServices []repository.ServicePopularity `json:"popular_services"`
	MessageVolume   []repository.DailyUsage        `json:"message_volume"`
}

// Overview builds the dashboard summary for a tenant.
func (u *StatsUsecase) Overview(ctx context.Context, tenantID int) (*DashboardStats, error) {
	counts, err := u.appointments.StatusCounts(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	revenue, err := u.appointments.Revenue(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	popular, err := u.appointments.PopularServices(ctx, tenantID, 5)
	if err != nil {
		return nil, err
	}

	volume, err := u.usage.History(ctx, tenantID, 30)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		Pending:         counts[entities.StatusPending],
		Confirmed:       counts[entities.StatusConfirmed],
		Completed:       counts[entities.StatusCompleted],
		Cancelled:       counts[entities.StatusCancelled],
		Revenue:         revenue,
		PopularServices: popular,
		MessageVolume:   volume,
	}
	for _, n := range counts {
		stats.Total += n
	}
	return stats, nil
}
