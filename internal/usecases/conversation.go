package usecases

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"project_turnos/internal/entities"
	"project_turnos/internal/interfaces"
	"project_turnos/pkg/logging"
)

const minNameLength = 3

// ConversationUsecase drives the multi-turn booking dialog. The tenant is
// resolved per message and passed in; nothing here holds tenant state
// between turns except the StateStore entry.
type ConversationUsecase struct {
	scheduling   *SchedulingUsecase
	services     ServiceStore
	clients      ClientStore
	appointments AppointmentStore
	states       interfaces.StateStore
	log          *logging.Logger
	now          func() time.Time
}

func NewConversationUsecase(scheduling *SchedulingUsecase, services ServiceStore, clients ClientStore, appointments AppointmentStore, states interfaces.StateStore, log *logging.Logger) *ConversationUsecase {
	return &ConversationUsecase{
		scheduling:   scheduling,
		services:     services,
		clients:      clients,
		appointments: appointments,
		states:       states,
		log:          log,
		now:          time.Now,
	}
}

// Handle processes one inbound message and returns the reply. Collaborator
// failures clear any partial dialog and come back as a generic apology.
func (u *ConversationUsecase) Handle(ctx context.Context, tenant *entities.Tenant, phone, text string) string {
	reply, err := u.handle(ctx, tenant, phone, text)
	if err != nil {
		u.log.Error("dialog turn failed", "tenant_id", tenant.ID, "error", err)
		if derr := u.states.Delete(ctx, tenant.ID, phone); derr != nil {
			u.log.Error("clearing dialog state failed", "tenant_id", tenant.ID, "error", derr)
		}
		return msgGenericError
	}
	return reply
}

func (u *ConversationUsecase) handle(ctx context.Context, tenant *entities.Tenant, phone, text string) (string, error) {
	now := u.now()
	trimmed := strings.TrimSpace(text)
	upper := strings.ToUpper(trimmed)

	state, err := u.states.Get(ctx, tenant.ID, phone)
	if err != nil {
		return "", err
	}

	if state != nil && state.Expired(now) {
		// The stale message is not reinterpreted; the caller starts over.
		if err := u.states.Delete(ctx, tenant.ID, phone); err != nil {
			return "", err
		}
		return msgExpired, nil
	}

	// Commands win over whatever step is in flight.
	switch {
	case upper == "RESERVAR":
		return u.startBooking(ctx, tenant, phone, now)
	case strings.HasPrefix(upper, "CANCELAR"):
		return u.handleCancel(ctx, tenant, phone, upper, state, now)
	case upper == "MI TURNO" || upper == "MIS TURNOS":
		return u.listAppointments(ctx, tenant, phone)
	}

	if state == nil {
		return msgWelcome(tenant.Name), nil
	}

	// Every turn, valid or not, refreshes the idle timer.
	state.Touch(now)
	if err := u.states.Put(ctx, state); err != nil {
		return "", err
	}

	switch state.Step {
	case entities.StepSelectService:
		return u.stepSelectService(ctx, tenant, state, trimmed)
	case entities.StepSelectDate:
		return u.stepSelectDate(ctx, tenant, state, trimmed, now)
	case entities.StepConfirmName:
		return u.stepConfirmName(ctx, tenant, state, trimmed)
	case entities.StepFinalConfirmation:
		return u.stepFinalConfirmation(ctx, tenant, state, upper)
	case entities.StepCancelSelection:
		// Reaches here only for input without the CANCELAR prefix; a bare
		// index is accepted too.
		return u.cancelByIndex(ctx, tenant, state, trimmed)
	default:
		if err := u.states.Delete(ctx, tenant.ID, state.Phone); err != nil {
			return "", err
		}
		return msgWelcome(tenant.Name), nil
	}
}

func (u *ConversationUsecase) startBooking(ctx context.Context, tenant *entities.Tenant, phone string, now time.Time) (string, error) {
	if err := u.scheduling.CanBook(ctx, tenant.ID, phone); err != nil {
		if errors.Is(err, entities.ErrLimitReached) {
			return msgLimitReached, nil
		}
		return "", err
	}

	services, err := u.services.ListActive(ctx, tenant.ID)
	if err != nil {
		return "", err
	}
	if len(services) == 0 {
		return msgNoServices, nil
	}

	state := &entities.ConversationState{
		TenantID:    tenant.ID,
		Phone:       phone,
		Step:        entities.StepSelectService,
		LastTouched: now,
	}
	if err := u.states.Put(ctx, state); err != nil {
		return "", err
	}
	return msgServiceMenu(services), nil
}

func (u *ConversationUsecase) stepSelectService(ctx context.Context, tenant *entities.Tenant, state *entities.ConversationState, input string) (string, error) {
	services, err := u.services.ListActive(ctx, tenant.ID)
	if err != nil {
		return "", err
	}

	choice, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || choice < 1 || choice > len(services) {
		return msgInvalidServiceChoice(len(services)), nil
	}

	state.ServiceID = services[choice-1].ID
	state.Step = entities.StepSelectDate
	if err := u.states.Put(ctx, state); err != nil {
		return "", err
	}
	return msgAskDate, nil
}

func (u *ConversationUsecase) stepSelectDate(ctx context.Context, tenant *entities.Tenant, state *entities.ConversationState, input string, now time.Time) (string, error) {
	date, timeOfDay, err := ParseDateTime(input, now)
	if err != nil {
		if entities.IsValidation(err) {
			return err.Error() + "\n\n" + msgAskDate, nil
		}
		return "", err
	}

	service, err := u.services.GetByID(ctx, tenant.ID, state.ServiceID)
	if err != nil {
		return "", err
	}

	hours, err := u.scheduling.HoursFor(ctx, tenant, date)
	if err != nil {
		return "", err
	}
	if hours.Closed {
		return msgDayClosed, nil
	}

	start, err := ParseClock(timeOfDay)
	if err != nil {
		return "", err
	}
	if start < hours.Open || start+service.Duration > hours.Close {
		return msgOutsideHours(FormatClock(hours.Open), FormatClock(hours.Close)), nil
	}

	free, err := u.scheduling.IsAvailable(ctx, tenant.ID, date, timeOfDay)
	if err != nil {
		return "", err
	}
	if !free {
		slots, err := u.scheduling.AvailableSlots(ctx, tenant, state.ServiceID, date)
		if err != nil {
			return "", err
		}
		return msgSlotTaken(slots), nil
	}

	state.Date = date
	state.Time = timeOfDay

	// Known clients skip the name question.
	client, err := u.clients.GetByPhone(ctx, tenant.ID, state.Phone)
	if err != nil && !errors.Is(err, entities.ErrNotFound) {
		return "", err
	}
	if client != nil && len(client.Name) >= minNameLength {
		state.ClientName = client.Name
		state.Step = entities.StepFinalConfirmation
		if err := u.states.Put(ctx, state); err != nil {
			return "", err
		}
		return msgConfirmSummary(service.Name, date, timeOfDay, client.Name), nil
	}

	state.Step = entities.StepConfirmName
	if err := u.states.Put(ctx, state); err != nil {
		return "", err
	}
	return msgAskName, nil
}

func (u *ConversationUsecase) stepConfirmName(ctx context.Context, tenant *entities.Tenant, state *entities.ConversationState, input string) (string, error) {
	name := strings.TrimSpace(input)
	if len([]rune(name)) < minNameLength {
		return msgNameTooShort, nil
	}

	service, err := u.services.GetByID(ctx, tenant.ID, state.ServiceID)
	if err != nil {
		return "", err
	}

	state.ClientName = name
	state.Step = entities.StepFinalConfirmation
	if err := u.states.Put(ctx, state); err != nil {
		return "", err
	}
	return msgConfirmSummary(service.Name, state.Date, state.Time, name), nil
}

func (u *ConversationUsecase) stepFinalConfirmation(ctx context.Context, tenant *entities.Tenant, state *entities.ConversationState, upper string) (string, error) {
	switch upper {
	case "SI", "SÍ", "S":
		return u.commit(ctx, tenant, state)
	case "NO", "N":
		if err := u.states.Delete(ctx, tenant.ID, state.Phone); err != nil {
			return "", err
		}
		return msgAborted, nil
	default:
		return msgConfirmYesOrNo, nil
	}
}

func (u *ConversationUsecase) commit(ctx context.Context, tenant *entities.Tenant, state *entities.ConversationState) (string, error) {
	service, err := u.services.GetByID(ctx, tenant.ID, state.ServiceID)
	if err != nil {
		return "", err
	}

	_, err = u.scheduling.Book(ctx, tenant, state.Phone, state.ClientName, state.ServiceID, state.Date, state.Time)
	if errors.Is(err, entities.ErrSlotTaken) {
		// Someone grabbed the slot mid-dialog. The dialog ends; the caller
		// starts over with fresh availability.
		if derr := u.states.Delete(ctx, tenant.ID, state.Phone); derr != nil {
			return "", derr
		}
		return msgSlotLost, nil
	}
	if err != nil {
		return "", err
	}

	if err := u.states.Delete(ctx, tenant.ID, state.Phone); err != nil {
		return "", err
	}
	return msgBooked(service.Name, state.Date, state.Time), nil
}

func (u *ConversationUsecase) handleCancel(ctx context.Context, tenant *entities.Tenant, phone, upper string, state *entities.ConversationState, now time.Time) (string, error) {
	rest := strings.TrimSpace(strings.TrimPrefix(upper, "CANCELAR"))

	if rest != "" && state != nil && state.Step == entities.StepCancelSelection {
		state.Touch(now)
		if err := u.states.Put(ctx, state); err != nil {
			return "", err
		}
		return u.cancelByIndex(ctx, tenant, state, rest)
	}

	// Bare CANCELAR, or CANCELAR from inside a booking dialog: show the
	// list and switch to the selection step.
	appointments, err := u.appointments.ListActiveByPhone(ctx, tenant.ID, phone)
	if err != nil {
		return "", err
	}
	if len(appointments) == 0 {
		if state != nil {
			if err := u.states.Delete(ctx, tenant.ID, phone); err != nil {
				return "", err
			}
		}
		return msgNoAppointments, nil
	}

	next := &entities.ConversationState{
		TenantID:    tenant.ID,
		Phone:       phone,
		Step:        entities.StepCancelSelection,
		LastTouched: now,
	}
	if err := u.states.Put(ctx, next); err != nil {
		return "", err
	}

	if rest != "" {
		// An index given together with the trigger is honored right away.
		return u.cancelByIndex(ctx, tenant, next, rest)
	}
	return msgCancelList(appointments), nil
}

func (u *ConversationUsecase) cancelByIndex(ctx context.Context, tenant *entities.Tenant, state *entities.ConversationState, input string) (string, error) {
	appointments, err := u.appointments.ListActiveByPhone(ctx, tenant.ID, state.Phone)
	if err != nil {
		return "", err
	}
	if len(appointments) == 0 {
		if err := u.states.Delete(ctx, tenant.ID, state.Phone); err != nil {
			return "", err
		}
		return msgNoAppointments, nil
	}

	choice, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || choice < 1 || choice > len(appointments) {
		return msgInvalidCancelChoice(len(appointments)), nil
	}

	target := appointments[choice-1]
	if err := u.appointments.UpdateStatus(ctx, tenant.ID, target.ID, entities.StatusCancelled); err != nil {
		return "", err
	}
	if err := u.states.Delete(ctx, tenant.ID, state.Phone); err != nil {
		return "", err
	}

	u.log.Info("appointment cancelled by client",
		"tenant_id", tenant.ID, "appointment_id", target.ID)
	return msgCancelled(target.ServiceName, target.Date, target.Time), nil
}

func (u *ConversationUsecase) listAppointments(ctx context.Context, tenant *entities.Tenant, phone string) (string, error) {
	appointments, err := u.appointments.ListActiveByPhone(ctx, tenant.ID, phone)
	if err != nil {
		return "", err
	}
	if len(appointments) == 0 {
		return msgNoAppointments, nil
	}
	return msgAppointmentList(appointments), nil
}
