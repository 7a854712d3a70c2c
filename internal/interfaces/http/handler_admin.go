package http

import (
	"errors"
	"net/http"
	"strconv"

	"project_turnos/internal/entities"
	"project_turnos/internal/infrastructure"
	"project_turnos/internal/repository"
	"project_turnos/internal/usecases"
	"project_turnos/pkg/logging"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
)

// AdminHandler serves the authenticated console. Every route is scoped to
// the tenant carried in the JWT.
type AdminHandler struct {
	tenantRepo    *repository.TenantRepository
	scheduleRepo  *repository.SpecialScheduleRepository
	appointments  *repository.AppointmentRepository
	serviceRepo   *repository.ServiceRepository
	services      *usecases.ServiceUsecase
	stats         *usecases.StatsUsecase
	notifications *usecases.NotificationUsecase
	waManager     *infrastructure.WhatsAppManager
	tgManager     *infrastructure.TelegramBotManager
	log           *logging.Logger
}

func NewAdminHandler(deps Deps) *AdminHandler {
	return &AdminHandler{
		tenantRepo:    deps.TenantRepo,
		scheduleRepo:  deps.ScheduleRepo,
		appointments:  deps.Appointments,
		serviceRepo:   deps.ServiceRepo,
		services:      deps.Services,
		stats:         deps.Stats,
		notifications: deps.Notifications,
		waManager:     deps.WAManager,
		tgManager:     deps.TGManager,
		log:           deps.Log,
	}
}

func (h *AdminHandler) fail(c *gin.Context, tenant int, what string, err error) {
	if errors.Is(err, entities.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if entities.IsValidation(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.log.Error(what+" failed", "tenant_id", tenant, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// ListAppointments supports date, status, limit and offset filters.
func (h *AdminHandler) ListAppointments(c *gin.Context) {
	tid := tenantID(c)

	filter := repository.ListFilter{
		Date:   c.Query("date"),
		Status: c.Query("status"),
	}
	if filter.Date != "" && !ValidDate(filter.Date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	if filter.Status != "" && !entities.ValidStatus(filter.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	appointments, err := h.appointments.List(c.Request.Context(), tid, filter)
	if err != nil {
		h.fail(c, tid, "appointment listing", err)
		return
	}
	c.JSON(http.StatusOK, appointments)
}

func (h *AdminHandler) GetAppointment(c *gin.Context) {
	tid := tenantID(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	detail, err := h.appointments.GetByID(c.Request.Context(), tid, id)
	if err != nil {
		h.fail(c, tid, "appointment fetch", err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// UpdateAppointmentStatus moves an appointment through its lifecycle.
func (h *AdminHandler) UpdateAppointmentStatus(c *gin.Context) {
	tid := tenantID(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	var payload struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil || !entities.ValidStatus(payload.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be one of pending, confirmed, completed, cancelled, notavailable"})
		return
	}

	if err := h.appointments.UpdateStatus(c.Request.Context(), tid, id, payload.Status); err != nil {
		h.fail(c, tid, "status update", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": payload.Status})
}

func (h *AdminHandler) DeleteAppointment(c *gin.Context) {
	tid := tenantID(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.appointments.Delete(c.Request.Context(), tid, id); err != nil {
		h.fail(c, tid, "appointment delete", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// SendNotice pushes a confirmation, cancellation or reminder to the client.
func (h *AdminHandler) SendNotice(c *gin.Context) {
	tid := tenantID(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	var payload struct {
		Kind string `json:"kind"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.notifications.Send(c.Request.Context(), tid, id, payload.Kind); err != nil {
		h.fail(c, tid, "notice send", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "sent"})
}

func (h *AdminHandler) ListServices(c *gin.Context) {
	tid := tenantID(c)
	services, err := h.serviceRepo.List(c.Request.Context(), tid)
	if err != nil {
		h.fail(c, tid, "service listing", err)
		return
	}
	c.JSON(http.StatusOK, services)
}

type servicePayload struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Duration    int     `json:"duration"`
	Price       float64 `json:"price"`
	IsActive    *bool   `json:"is_active"`
}

func (h *AdminHandler) CreateService(c *gin.Context) {
	tid := tenantID(c)

	var payload servicePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	service := &entities.Service{
		TenantID:    tid,
		Name:        SanitizeString(payload.Name),
		Description: SanitizeString(payload.Description),
		Duration:    payload.Duration,
		Price:       payload.Price,
		IsActive:    true,
	}
	if payload.IsActive != nil {
		service.IsActive = *payload.IsActive
	}

	if err := h.services.Create(c.Request.Context(), service); err != nil {
		h.fail(c, tid, "service create", err)
		return
	}
	c.JSON(http.StatusCreated, service)
}

func (h *AdminHandler) UpdateService(c *gin.Context) {
	tid := tenantID(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	var payload servicePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	service := &entities.Service{
		ID:          id,
		TenantID:    tid,
		Name:        SanitizeString(payload.Name),
		Description: SanitizeString(payload.Description),
		Duration:    payload.Duration,
		Price:       payload.Price,
		IsActive:    true,
	}
	if payload.IsActive != nil {
		service.IsActive = *payload.IsActive
	}

	if err := h.services.Update(c.Request.Context(), service); err != nil {
		if errors.Is(err, entities.ErrServiceInUse) {
			c.JSON(http.StatusConflict, gin.H{"error": "service has active appointments"})
			return
		}
		h.fail(c, tid, "service update", err)
		return
	}
	c.JSON(http.StatusOK, service)
}

func (h *AdminHandler) DeleteService(c *gin.Context) {
	tid := tenantID(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.services.Delete(c.Request.Context(), tid, id); err != nil {
		if errors.Is(err, entities.ErrServiceInUse) {
			c.JSON(http.StatusConflict, gin.H{"error": "service has appointment history"})
			return
		}
		h.fail(c, tid, "service delete", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *AdminHandler) GetBusiness(c *gin.Context) {
	tid := tenantID(c)
	tenant, err := h.tenantRepo.GetByID(c.Request.Context(), tid)
	if err != nil {
		h.fail(c, tid, "business fetch", err)
		return
	}
	c.JSON(http.StatusOK, tenant)
}

// UpdateBusiness changes the profile and scheduling parameters that drive
// slot generation.
func (h *AdminHandler) UpdateBusiness(c *gin.Context) {
	tid := tenantID(c)

	var payload struct {
		Name          string `json:"name"`
		BusinessPhone string `json:"business_phone"`
		Address       string `json:"address"`
		OpenTime      string `json:"open_time"`
		CloseTime     string `json:"close_time"`
		SlotDuration  int    `json:"slot_duration"`
		WorkingDays   string `json:"working_days"`
		TelegramToken string `json:"telegram_token"`
		WAEnabled     bool   `json:"wa_enabled"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if !ValidateLength(payload.Name, 1, MaxNameLength) || !ValidPhone(payload.BusinessPhone) ||
		!ValidClock(payload.OpenTime) || !ValidClock(payload.CloseTime) ||
		payload.SlotDuration <= 0 || !ValidWorkingDays(payload.WorkingDays) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid business settings"})
		return
	}

	tenant := &entities.Tenant{
		ID:            tid,
		Name:          SanitizeString(payload.Name),
		BusinessPhone: payload.BusinessPhone,
		Address:       SanitizeString(payload.Address),
		OpenTime:      payload.OpenTime,
		CloseTime:     payload.CloseTime,
		SlotDuration:  payload.SlotDuration,
		WorkingDays:   payload.WorkingDays,
		TelegramToken: payload.TelegramToken,
		WAEnabled:     payload.WAEnabled,
	}
	if err := h.tenantRepo.UpdateSettings(c.Request.Context(), tenant); err != nil {
		h.fail(c, tid, "business update", err)
		return
	}
	c.JSON(http.StatusOK, tenant)
}

func (h *AdminHandler) ListSchedules(c *gin.Context) {
	tid := tenantID(c)
	schedules, err := h.scheduleRepo.List(c.Request.Context(), tid)
	if err != nil {
		h.fail(c, tid, "schedule listing", err)
		return
	}
	c.JSON(http.StatusOK, schedules)
}

// UpsertSchedule writes a per-date override: either a closed day or
// alternate hours.
func (h *AdminHandler) UpsertSchedule(c *gin.Context) {
	tid := tenantID(c)

	var payload struct {
		Date      string `json:"date"`
		IsClosed  bool   `json:"is_closed"`
		OpenTime  string `json:"open_time"`
		CloseTime string `json:"close_time"`
		Reason    string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if !ValidDate(payload.Date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	if !payload.IsClosed && (!ValidClock(payload.OpenTime) || !ValidClock(payload.CloseTime)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "open_time and close_time required unless closed"})
		return
	}

	schedule := &entities.SpecialSchedule{
		TenantID:  tid,
		Date:      payload.Date,
		IsClosed:  payload.IsClosed,
		OpenTime:  payload.OpenTime,
		CloseTime: payload.CloseTime,
		Reason:    SanitizeString(payload.Reason),
	}
	if err := h.scheduleRepo.Upsert(c.Request.Context(), schedule); err != nil {
		h.fail(c, tid, "schedule upsert", err)
		return
	}
	c.JSON(http.StatusOK, schedule)
}

func (h *AdminHandler) DeleteSchedule(c *gin.Context) {
	tid := tenantID(c)
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.scheduleRepo.Delete(c.Request.Context(), tid, id); err != nil {
		h.fail(c, tid, "schedule delete", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *AdminHandler) GetStats(c *gin.Context) {
	tid := tenantID(c)
	stats, err := h.stats.Overview(c.Request.Context(), tid)
	if err != nil {
		h.fail(c, tid, "stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ConnectWhatsApp creates and connects the tenant's WhatsApp client.
func (h *AdminHandler) ConnectWhatsApp(c *gin.Context) {
	tid := tenantID(c)
	if h.waManager == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "WhatsApp not configured"})
		return
	}

	client, err := h.waManager.ConnectClient(tid)
	if err != nil {
		h.fail(c, tid, "whatsapp connect", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "connecting",
		"connected": client.IsLoggedIn(),
		"phone":     client.GetPhoneNumber(),
		"name":      client.GetName(),
	})
}

// GetQRCode returns the pairing QR as a PNG.
func (h *AdminHandler) GetQRCode(c *gin.Context) {
	tid := tenantID(c)
	if h.waManager == nil {
		c.String(http.StatusServiceUnavailable, "WhatsApp not configured")
		return
	}

	client, err := h.waManager.GetOrCreateClient(tid)
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to create client: "+err.Error())
		return
	}

	if client.Client.Store.ID == nil && !client.Client.IsConnected() {
		if err := client.Connect(); err != nil {
			c.String(http.StatusInternalServerError, "Failed to connect: "+err.Error())
			return
		}
	}

	qrCodeString := client.GetQR()
	if qrCodeString == "" {
		if client.IsLoggedIn() {
			c.String(http.StatusOK, "Already logged in")
			return
		}
		c.String(http.StatusAccepted, "QR code not yet available. Please wait...")
		return
	}

	png, err := qrcode.Encode(qrCodeString, qrcode.Medium, 256)
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to generate QR code")
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (h *AdminHandler) GetWhatsAppStatus(c *gin.Context) {
	tid := tenantID(c)
	if h.waManager == nil {
		c.JSON(http.StatusOK, gin.H{"connected": false, "error": "WhatsApp not configured"})
		return
	}

	client := h.waManager.GetClient(tid)
	if client == nil {
		client, _ = h.waManager.GetOrCreateClient(tid)
	}
	if client == nil {
		c.JSON(http.StatusOK, gin.H{"connected": false, "initialized": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"connected":   client.IsLoggedIn(),
		"initialized": true,
		"phone":       client.GetPhoneNumber(),
		"name":        client.GetName(),
		"hasQR":       client.GetQR() != "",
	})
}

// LogoutWhatsApp drops the session so a new QR can be scanned.
func (h *AdminHandler) LogoutWhatsApp(c *gin.Context) {
	tid := tenantID(c)
	if h.waManager == nil {
		c.JSON(http.StatusOK, gin.H{"status": "logged_out", "message": "WhatsApp not configured"})
		return
	}

	if err := h.waManager.LogoutClient(tid); err != nil {
		h.log.Warn("whatsapp logout", "tenant_id", tid, "error", err)
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged_out"})
}

// ConnectTelegram starts the tenant's bot with the stored or given token.
func (h *AdminHandler) ConnectTelegram(c *gin.Context) {
	tid := tenantID(c)
	if h.tgManager == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Telegram not configured"})
		return
	}

	var payload struct {
		Token string `json:"token"`
	}
	_ = c.ShouldBindJSON(&payload)

	token := payload.Token
	if token == "" {
		tenant, err := h.tenantRepo.GetByID(c.Request.Context(), tid)
		if err != nil {
			h.fail(c, tid, "tenant fetch", err)
			return
		}
		token = tenant.TelegramToken
	}
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no telegram token configured"})
		return
	}

	instance, err := h.tgManager.ConnectBot(tid, token)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "connected", "bot": instance.Bot.Self.UserName})
}

func (h *AdminHandler) GetTelegramStatus(c *gin.Context) {
	tid := tenantID(c)
	if h.tgManager == nil {
		c.JSON(http.StatusOK, gin.H{"connected": false})
		return
	}
	connected, botName := h.tgManager.GetStatus(tid)
	c.JSON(http.StatusOK, gin.H{"connected": connected, "bot": botName})
}

func (h *AdminHandler) DisconnectTelegram(c *gin.Context) {
	tid := tenantID(c)
	if h.tgManager != nil {
		h.tgManager.DisconnectBot(tid)
	}
	c.JSON(http.StatusOK, gin.H{"status": "disconnected"})
}
