package usecases

import (
	"context"
	"fmt"
	"testing"
	"time"

	"project_turnos/internal/entities"
	"project_turnos/internal/repository"
	"project_turnos/pkg/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Saturday 2026-08-29 at 12:00, a working day for the test tenant.
var dialogNow = time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

type fakeStates struct {
	m map[string]*entities.ConversationState
}

func newFakeStates() *fakeStates {
	return &fakeStates{m: map[string]*entities.ConversationState{}}
}

func stateKey(tenantID int, phone string) string {
	return fmt.Sprintf("%d:%s", tenantID, phone)
}

func (f *fakeStates) Get(_ context.Context, tenantID int, phone string) (*entities.ConversationState, error) {
	s, ok := f.m[stateKey(tenantID, phone)]
	if !ok {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

func (f *fakeStates) Put(_ context.Context, state *entities.ConversationState) error {
	copied := *state
	f.m[stateKey(state.TenantID, state.Phone)] = &copied
	return nil
}

func (f *fakeStates) Delete(_ context.Context, tenantID int, phone string) error {
	delete(f.m, stateKey(tenantID, phone))
	return nil
}

type fakeAppointments struct {
	occupied      []repository.OccupiedSlot
	takenAt       map[string]bool
	created       []*entities.Appointment
	activeByPhone []entities.AppointmentDetail
	statusUpdates map[int]string
}

func newFakeAppointments() *fakeAppointments {
	return &fakeAppointments{takenAt: map[string]bool{}, statusUpdates: map[int]string{}}
}

func (f *fakeAppointments) Occupied(_ context.Context, _ int, _ string) ([]repository.OccupiedSlot, error) {
	return f.occupied, nil
}

func (f *fakeAppointments) ExistsAt(_ context.Context, _ int, date, timeOfDay string) (bool, error) {
	return f.takenAt[date+" "+timeOfDay], nil
}

func (f *fakeAppointments) Create(_ context.Context, a *entities.Appointment) error {
	a.ID = len(f.created) + 1
	f.created = append(f.created, a)
	return nil
}

func (f *fakeAppointments) CountActiveByPhone(_ context.Context, _ int, _ string) (int, error) {
	return len(f.activeByPhone), nil
}

func (f *fakeAppointments) ListActiveByPhone(_ context.Context, _ int, _ string) ([]entities.AppointmentDetail, error) {
	return f.activeByPhone, nil
}

func (f *fakeAppointments) UpdateStatus(_ context.Context, _ int, id int, status string) error {
	f.statusUpdates[id] = status
	return nil
}

type fakeServices struct {
	services []entities.Service
}

func (f *fakeServices) ListActive(_ context.Context, _ int) ([]entities.Service, error) {
	active := []entities.Service{}
	for _, s := range f.services {
		if s.IsActive {
			active = append(active, s)
		}
	}
	return active, nil
}

func (f *fakeServices) GetByID(_ context.Context, _ int, id int) (*entities.Service, error) {
	for _, s := range f.services {
		if s.ID == id {
			copied := s
			return &copied, nil
		}
	}
	return nil, entities.ErrNotFound
}

type fakeClients struct {
	byPhone map[string]*entities.Client
	nextID  int
}

func newFakeClients() *fakeClients {
	return &fakeClients{byPhone: map[string]*entities.Client{}, nextID: 1}
}

func (f *fakeClients) GetByPhone(_ context.Context, _ int, phone string) (*entities.Client, error) {
	c, ok := f.byPhone[phone]
	if !ok {
		return nil, entities.ErrNotFound
	}
	return c, nil
}

func (f *fakeClients) Upsert(_ context.Context, tenantID int, phone, name string) (int, error) {
	if c, ok := f.byPhone[phone]; ok {
		c.Name = name
		return c.ID, nil
	}
	c := &entities.Client{ID: f.nextID, TenantID: tenantID, Phone: phone, Name: name}
	f.nextID++
	f.byPhone[phone] = c
	return c.ID, nil
}

type fakeSchedules struct {
	overrides map[string]*entities.SpecialSchedule
}

func (f *fakeSchedules) GetByDate(_ context.Context, _ int, date string) (*entities.SpecialSchedule, error) {
	if f.overrides == nil {
		return nil, entities.ErrNotFound
	}
	s, ok := f.overrides[date]
	if !ok {
		return nil, entities.ErrNotFound
	}
	return s, nil
}

type dialogHarness struct {
	engine       *ConversationUsecase
	tenant       *entities.Tenant
	states       *fakeStates
	appointments *fakeAppointments
	clients      *fakeClients
	schedules    *fakeSchedules
}

func newDialogHarness(t *testing.T) *dialogHarness {
	t.Helper()
	appointments := newFakeAppointments()
	services := &fakeServices{services: []entities.Service{
		{ID: 1, TenantID: 1, Name: "Corte", Duration: 30, Price: 5000, IsActive: true},
		{ID: 2, TenantID: 1, Name: "Corte y barba", Duration: 60, Price: 8000, IsActive: true},
	}}
	clients := newFakeClients()
	schedules := &fakeSchedules{}
	states := newFakeStates()
	log := logging.New("error")

	scheduling := NewSchedulingUsecase(appointments, services, clients, schedules, log)
	engine := NewConversationUsecase(scheduling, services, clients, appointments, states, log)
	engine.now = func() time.Time { return dialogNow }

	return &dialogHarness{
		engine: engine,
		tenant: &entities.Tenant{
			ID: 1, Name: "Barbería Sur", BusinessPhone: "5491100000001",
			OpenTime: "09:00", CloseTime: "18:00", SlotDuration: 30,
			WorkingDays: "1,2,3,4,5,6", IsActive: true,
		},
		states:       states,
		appointments: appointments,
		clients:      clients,
		schedules:    schedules,
	}
}

func (h *dialogHarness) send(text string) string {
	return h.engine.Handle(context.Background(), h.tenant, "5491112223334", text)
}

func (h *dialogHarness) state() *entities.ConversationState {
	return h.states.m[stateKey(1, "5491112223334")]
}

func TestBookingHappyPathNewClient(t *testing.T) {
	h := newDialogHarness(t)

	reply := h.send("reservar")
	assert.Contains(t, reply, "1. Corte")
	require.NotNil(t, h.state())
	assert.Equal(t, entities.StepSelectService, h.state().Step)

	reply = h.send("1")
	assert.Contains(t, reply, "lunes 10:30")
	assert.Equal(t, entities.StepSelectDate, h.state().Step)

	reply = h.send("lunes 10:30")
	assert.Contains(t, reply, "nombre")
	assert.Equal(t, entities.StepConfirmName, h.state().Step)

	reply = h.send("Juan Pérez")
	assert.Contains(t, reply, "Juan Pérez")
	assert.Contains(t, reply, "10:30")
	assert.Equal(t, entities.StepFinalConfirmation, h.state().Step)

	reply = h.send("si")
	assert.Contains(t, reply, "reservado")

	require.Len(t, h.appointments.created, 1)
	appt := h.appointments.created[0]
	assert.Equal(t, entities.StatusPending, appt.Status)
	assert.Equal(t, "2026-08-31", appt.Date)
	assert.Equal(t, "10:30", appt.Time)
	assert.Nil(t, h.state(), "dialog state cleared after commit")
}

func TestBookingKnownClientSkipsName(t *testing.T) {
	h := newDialogHarness(t)
	h.clients.byPhone["5491112223334"] = &entities.Client{ID: 7, TenantID: 1, Name: "Ana", Phone: "5491112223334"}

	h.send("RESERVAR")
	h.send("1")
	reply := h.send("lunes 10:30")

	assert.Contains(t, reply, "Ana")
	assert.Equal(t, entities.StepFinalConfirmation, h.state().Step)
}

func TestInvalidInputNeverAdvances(t *testing.T) {
	h := newDialogHarness(t)

	h.send("RESERVAR")
	h.send("no entiendo")
	assert.Equal(t, entities.StepSelectService, h.state().Step)
	h.send("9")
	assert.Equal(t, entities.StepSelectService, h.state().Step)

	h.send("2")
	require.Equal(t, entities.StepSelectDate, h.state().Step)

	h.send("lunes 10:15")
	assert.Equal(t, entities.StepSelectDate, h.state().Step)
	assert.Empty(t, h.state().Date)

	h.send("ayer 10:30")
	assert.Equal(t, entities.StepSelectDate, h.state().Step)
}

func TestDialogExpiryAsksForRestart(t *testing.T) {
	h := newDialogHarness(t)

	h.send("RESERVAR")
	st := h.state()
	// Exactly the TTL counts as expired.
	st.LastTouched = dialogNow.Add(-entities.DialogTTL)

	reply := h.send("1")
	assert.Equal(t, msgExpired, reply)
	assert.Nil(t, h.state(), "expired state is cleared")
	require.Empty(t, h.appointments.created, "stale message is not reinterpreted")
}

func TestInvalidAnswersKeepDialogAlive(t *testing.T) {
	h := newDialogHarness(t)
	h.send("RESERVAR")

	// Three wrong answers four minutes apart. The dialog is never idle a
	// full five minutes, so each reprompt must refresh the timer.
	for i := 1; i <= 3; i++ {
		later := dialogNow.Add(time.Duration(4*i) * time.Minute)
		h.engine.now = func() time.Time { return later }

		reply := h.send("99")
		assert.Contains(t, reply, "número del 1 al 2")
		require.NotNil(t, h.state())
		assert.Equal(t, entities.StepSelectService, h.state().Step)
		assert.Equal(t, later, h.state().LastTouched)
	}
}

func TestBookingLimitReached(t *testing.T) {
	h := newDialogHarness(t)
	h.appointments.activeByPhone = []entities.AppointmentDetail{
		{Appointment: entities.Appointment{ID: 1}}, {Appointment: entities.Appointment{ID: 2}},
	}

	reply := h.send("RESERVAR")
	assert.Equal(t, msgLimitReached, reply)
	assert.Nil(t, h.state())
}

func TestSlotTakenAtDateStepListsFreeSlots(t *testing.T) {
	h := newDialogHarness(t)
	h.appointments.takenAt["2026-08-31 10:00"] = true
	h.appointments.occupied = []repository.OccupiedSlot{{Time: "10:00", Duration: 30}}

	h.send("RESERVAR")
	h.send("1")
	reply := h.send("lunes 10:00")

	assert.Contains(t, reply, "ocupado")
	assert.Contains(t, reply, "09:00")
	assert.NotContains(t, reply, "10:00,")
	assert.Equal(t, entities.StepSelectDate, h.state().Step)
}

func TestSlotGrabbedBeforeConfirmation(t *testing.T) {
	h := newDialogHarness(t)

	h.send("RESERVAR")
	h.send("1")
	h.send("lunes 11:00")
	h.send("Carlos")

	// Another caller takes 11:00 while this dialog sits on the summary.
	h.appointments.takenAt["2026-08-31 11:00"] = true
	h.appointments.occupied = []repository.OccupiedSlot{{Time: "11:00", Duration: 30}}

	reply := h.send("si")
	assert.Equal(t, msgSlotLost, reply)
	assert.Empty(t, h.appointments.created)
	assert.Nil(t, h.state(), "dialog ends when the slot is lost at confirmation")
}

func TestOutsideHoursRejected(t *testing.T) {
	h := newDialogHarness(t)

	h.send("RESERVAR")
	h.send("1")
	reply := h.send("lunes 08:00")

	assert.Contains(t, reply, "09:00")
	assert.Equal(t, entities.StepSelectDate, h.state().Step)

	// The service must also end by closing time.
	reply = h.send("lunes 18:00")
	assert.Contains(t, reply, "Atendemos")
	assert.Equal(t, entities.StepSelectDate, h.state().Step)
}

func TestClosedDayRejected(t *testing.T) {
	h := newDialogHarness(t)
	h.schedules.overrides = map[string]*entities.SpecialSchedule{
		"2026-08-31": {TenantID: 1, Date: "2026-08-31", IsClosed: true},
	}

	h.send("RESERVAR")
	h.send("1")
	reply := h.send("lunes 10:30")

	assert.Equal(t, msgDayClosed, reply)
	assert.Equal(t, entities.StepSelectDate, h.state().Step)
}

func TestCancellationFlow(t *testing.T) {
	h := newDialogHarness(t)
	h.appointments.activeByPhone = []entities.AppointmentDetail{
		{Appointment: entities.Appointment{ID: 41, Date: "2026-08-31", Time: "10:00", Status: entities.StatusPending}, ServiceName: "Corte", Price: 5000},
		{Appointment: entities.Appointment{ID: 42, Date: "2026-09-01", Time: "11:00", Status: entities.StatusConfirmed}, ServiceName: "Corte y barba", Price: 8000},
	}

	reply := h.send("CANCELAR")
	assert.Contains(t, reply, "1. Corte")
	assert.Contains(t, reply, "2. Corte y barba")
	require.NotNil(t, h.state())
	assert.Equal(t, entities.StepCancelSelection, h.state().Step)

	reply = h.send("CANCELAR 2")
	assert.Contains(t, reply, "cancelado")
	assert.Equal(t, entities.StatusCancelled, h.appointments.statusUpdates[42])
	assert.Nil(t, h.state())
}

func TestCancelInvalidIndexReprompts(t *testing.T) {
	h := newDialogHarness(t)
	h.appointments.activeByPhone = []entities.AppointmentDetail{
		{Appointment: entities.Appointment{ID: 41, Date: "2026-08-31", Time: "10:00"}, ServiceName: "Corte"},
	}

	h.send("CANCELAR")
	reply := h.send("CANCELAR 5")
	assert.Contains(t, reply, "inválido")
	assert.Equal(t, entities.StepCancelSelection, h.state().Step)
	assert.Empty(t, h.appointments.statusUpdates)
}

func TestCancelSwitchesOutOfBookingDialog(t *testing.T) {
	h := newDialogHarness(t)
	h.appointments.activeByPhone = []entities.AppointmentDetail{
		{Appointment: entities.Appointment{ID: 41, Date: "2026-08-31", Time: "10:00"}, ServiceName: "Corte"},
	}

	h.send("RESERVAR")
	h.send("1")
	require.Equal(t, entities.StepSelectDate, h.state().Step)

	reply := h.send("CANCELAR")
	assert.Contains(t, reply, "Corte")
	assert.Equal(t, entities.StepCancelSelection, h.state().Step)
}

func TestMiTurnoListsActiveAppointments(t *testing.T) {
	h := newDialogHarness(t)

	reply := h.send("MI TURNO")
	assert.Equal(t, msgNoAppointments, reply)

	h.appointments.activeByPhone = []entities.AppointmentDetail{
		{Appointment: entities.Appointment{ID: 41, Date: "2026-08-31", Time: "10:00", Status: entities.StatusPending}, ServiceName: "Corte", Price: 5000},
	}
	reply = h.send("mi turno")
	assert.Contains(t, reply, "Corte")
	assert.Contains(t, reply, "2026-08-31")
}

func TestUnknownMessageShowsWelcome(t *testing.T) {
	h := newDialogHarness(t)
	reply := h.send("hola")
	assert.Contains(t, reply, "Barbería Sur")
	assert.Nil(t, h.state())
}
