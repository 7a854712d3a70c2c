package usecases

import (
	"context"
	"errors"
	"time"

	"project_turnos/internal/entities"
	"project_turnos/internal/repository"
	"project_turnos/pkg/logging"
)

// MaxActiveAppointments caps how many pending or confirmed appointments a
// single phone may hold with a tenant.
const MaxActiveAppointments = 2

type AppointmentStore interface {
	Occupied(ctx context.Context, tenantID int, date string) ([]repository.OccupiedSlot, error)
	ExistsAt(ctx context.Context, tenantID int, date, time string) (bool, error)
	Create(ctx context.Context, a *entities.Appointment) error
	CountActiveByPhone(ctx context.Context, tenantID int, phone string) (int, error)
	ListActiveByPhone(ctx context.Context, tenantID int, phone string) ([]entities.AppointmentDetail, error)
	UpdateStatus(ctx context.Context, tenantID, id int, status string) error
}

type ServiceStore interface {
	ListActive(ctx context.Context, tenantID int) ([]entities.Service, error)
	GetByID(ctx context.Context, tenantID, id int) (*entities.Service, error)
}

type ClientStore interface {
	GetByPhone(ctx context.Context, tenantID int, phone string) (*entities.Client, error)
	Upsert(ctx context.Context, tenantID int, phone, name string) (int, error)
}

type ScheduleStore interface {
	GetByDate(ctx context.Context, tenantID int, date string) (*entities.SpecialSchedule, error)
}

// SchedulingUsecase generates availability and commits appointments.
type SchedulingUsecase struct {
	appointments AppointmentStore
	services     ServiceStore
	clients      ClientStore
	schedules    ScheduleStore
	log          *logging.Logger
}

func NewSchedulingUsecase(appointments AppointmentStore, services ServiceStore, clients ClientStore, schedules ScheduleStore, log *logging.Logger) *SchedulingUsecase {
	return &SchedulingUsecase{
		appointments: appointments,
		services:     services,
		clients:      clients,
		schedules:    schedules,
		log:          log,
	}
}

// DayHours is a tenant's effective opening window on a date.
type DayHours struct {
	Open   int
	Close  int
	Closed bool
}

// HoursFor resolves the opening window for a date: a special schedule
// override wins, then the working-day mask, then the tenant defaults.
func (u *SchedulingUsecase) HoursFor(ctx context.Context, tenant *entities.Tenant, date string) (DayHours, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return DayHours{}, entities.NewValidationError("date", "expected YYYY-MM-DD")
	}

	if u.schedules != nil {
		override, err := u.schedules.GetByDate(ctx, tenant.ID, date)
		switch {
		case err == nil:
			if override.IsClosed {
				return DayHours{Closed: true}, nil
			}
			open, err := ParseClock(override.OpenTime)
			if err != nil {
				return DayHours{}, err
			}
			close, err := ParseClock(override.CloseTime)
			if err != nil {
				return DayHours{}, err
			}
			return DayHours{Open: open, Close: close}, nil
		case !errors.Is(err, entities.ErrNotFound):
			return DayHours{}, err
		}
	}

	if !tenant.WorksOn(int(day.Weekday())) {
		return DayHours{Closed: true}, nil
	}

	open, err := ParseClock(tenant.OpenTime)
	if err != nil {
		return DayHours{}, err
	}
	close, err := ParseClock(tenant.CloseTime)
	if err != nil {
		return DayHours{}, err
	}
	return DayHours{Open: open, Close: close}, nil
}

// AvailableSlots returns the free "HH:MM" start times for a service on a
// date, ascending. A closed date yields an empty list.
func (u *SchedulingUsecase) AvailableSlots(ctx context.Context, tenant *entities.Tenant, serviceID int, date string) ([]string, error) {
	service, err := u.services.GetByID(ctx, tenant.ID, serviceID)
	if err != nil {
		return nil, err
	}

	hours, err := u.HoursFor(ctx, tenant, date)
	if err != nil {
		return nil, err
	}
	if hours.Closed {
		return []string{}, nil
	}

	booked, err := u.appointments.Occupied(ctx, tenant.ID, date)
	if err != nil {
		return nil, err
	}

	occupied := make([]Interval, 0, len(booked))
	for _, b := range booked {
		start, err := ParseClock(b.Time)
		if err != nil {
			u.log.Warn("skipping unparseable booked time", "tenant_id", tenant.ID, "time", b.Time)
			continue
		}
		occupied = append(occupied, Interval{Start: start, End: start + b.Duration})
	}

	starts := GenerateSlots(hours.Open, hours.Close, tenant.SlotDuration, service.Duration, occupied)
	slots := make([]string, len(starts))
	for i, s := range starts {
		slots[i] = FormatClock(s)
	}
	return slots, nil
}

// IsAvailable reports whether no pending or confirmed appointment starts at
// exactly (date, time). It is re-run immediately before every insert.
func (u *SchedulingUsecase) IsAvailable(ctx context.Context, tenantID int, date, timeOfDay string) (bool, error) {
	taken, err := u.appointments.ExistsAt(ctx, tenantID, date, timeOfDay)
	if err != nil {
		return false, err
	}
	return !taken, nil
}

// CanBook enforces the per-phone active appointment cap.
func (u *SchedulingUsecase) CanBook(ctx context.Context, tenantID int, phone string) error {
	n, err := u.appointments.CountActiveByPhone(ctx, tenantID, phone)
	if err != nil {
		return err
	}
	if n >= MaxActiveAppointments {
		return entities.ErrLimitReached
	}
	return nil
}

// Book commits an appointment: it upserts the client, re-checks the slot,
// and inserts with status pending. The check-then-insert window is accepted;
// the guard runs as late as possible.
func (u *SchedulingUsecase) Book(ctx context.Context, tenant *entities.Tenant, phone, name string, serviceID int, date, timeOfDay string) (*entities.Appointment, error) {
	clientID, err := u.clients.Upsert(ctx, tenant.ID, phone, name)
	if err != nil {
		return nil, err
	}

	free, err := u.IsAvailable(ctx, tenant.ID, date, timeOfDay)
	if err != nil {
		return nil, err
	}
	if !free {
		return nil, entities.ErrSlotTaken
	}

	appt := &entities.Appointment{
		TenantID:  tenant.ID,
		ClientID:  clientID,
		ServiceID: serviceID,
		Date:      date,
		Time:      timeOfDay,
		Status:    entities.StatusPending,
	}
	if err := u.appointments.Create(ctx, appt); err != nil {
		return nil, err
	}

	u.log.Info("appointment booked",
		"tenant_id", tenant.ID, "appointment_id", appt.ID,
		"date", date, "time", timeOfDay, "service_id", serviceID)
	return appt, nil
}
