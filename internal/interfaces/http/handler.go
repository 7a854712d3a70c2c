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
)

// Handler serves the public booking surface: the web form endpoints and
// the chat webhook. The tenant is resolved per request from the business
// phone in the query or payload.
type Handler struct {
	tenantRepo     *repository.TenantRepository
	serviceRepo    *repository.ServiceRepository
	scheduling     *usecases.SchedulingUsecase
	messageService *usecases.MessageService
	log            *logging.Logger
}

func NewHandler(tenantRepo *repository.TenantRepository, serviceRepo *repository.ServiceRepository, scheduling *usecases.SchedulingUsecase, messageService *usecases.MessageService, log *logging.Logger) *Handler {
	return &Handler{
		tenantRepo:     tenantRepo,
		serviceRepo:    serviceRepo,
		scheduling:     scheduling,
		messageService: messageService,
		log:            log,
	}
}

// Deps bundles everything SetupRoutes wires together.
type Deps struct {
	TenantRepo    *repository.TenantRepository
	ServiceRepo   *repository.ServiceRepository
	ScheduleRepo  *repository.SpecialScheduleRepository
	Appointments  *repository.AppointmentRepository
	Scheduling    *usecases.SchedulingUsecase
	Services      *usecases.ServiceUsecase
	Stats         *usecases.StatsUsecase
	Notifications *usecases.NotificationUsecase
	Messages      *usecases.MessageService
	Auth          *usecases.AuthUsecase
	WAManager     *infrastructure.WhatsAppManager
	TGManager     *infrastructure.TelegramBotManager
	Log           *logging.Logger
}

func SetupRoutes(r *gin.Engine, deps Deps, middleware *Middleware) {
	h := NewHandler(deps.TenantRepo, deps.ServiceRepo, deps.Scheduling, deps.Messages, deps.Log)
	adminHandler := NewAdminHandler(deps)

	// Apply Security Middleware
	r.Use(SecurityHeaders())
	r.Use(RequestSizeLimiter(10 << 20)) // 10MB max request size
	r.Use(middleware.CORSMiddleware())

	// Public booking routes (the web form)
	public := r.Group("/api/public")
	{
		public.GET("/services", h.GetServices)
		public.GET("/slots", h.GetAvailableSlots)
		public.POST("/appointments", h.CreateAppointment)
	}
	r.POST("/webhook/web", h.HandleWebMessage)

	// Public Auth Routes
	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/login", func(c *gin.Context) {
			var loginReq struct {
				Username string `json:"username"`
				Password string `json:"password"`
			}
			if err := c.ShouldBindJSON(&loginReq); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
				return
			}
			token, err := deps.Auth.Login(c.Request.Context(), loginReq.Username, loginReq.Password)
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"token": token})
		})

		authGroup.POST("/register", func(c *gin.Context) {
			var regReq struct {
				TenantID int    `json:"tenant_id"`
				Username string `json:"username"`
				Password string `json:"password"`
			}
			if err := c.ShouldBindJSON(&regReq); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
				return
			}
			if !ValidSlug(regReq.Username) || len(regReq.Password) < 6 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid username or password (min 6 chars)"})
				return
			}
			if err := deps.Auth.Register(c.Request.Context(), regReq.TenantID, regReq.Username, regReq.Password); err != nil {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusCreated, gin.H{"status": "registered"})
		})
	}

	// Protected admin console routes
	api := r.Group("/api")
	api.Use(middleware.AuthRequired())
	api.Use(middleware.AdminRequired())
	api.Use(middleware.RateLimitPerAdmin(5, 10))
	{
		api.GET("/appointments", adminHandler.ListAppointments)
		api.GET("/appointments/:id", adminHandler.GetAppointment)
		api.PUT("/appointments/:id/status", adminHandler.UpdateAppointmentStatus)
		api.DELETE("/appointments/:id", adminHandler.DeleteAppointment)
		api.POST("/appointments/:id/notify", adminHandler.SendNotice)

		api.GET("/services", adminHandler.ListServices)
		api.POST("/services", adminHandler.CreateService)
		api.PUT("/services/:id", adminHandler.UpdateService)
		api.DELETE("/services/:id", adminHandler.DeleteService)

		api.GET("/business", adminHandler.GetBusiness)
		api.PUT("/business", adminHandler.UpdateBusiness)

		api.GET("/schedules", adminHandler.ListSchedules)
		api.POST("/schedules", adminHandler.UpsertSchedule)
		api.DELETE("/schedules/:id", adminHandler.DeleteSchedule)

		api.GET("/dashboard/stats", adminHandler.GetStats)

		api.GET("/whatsapp/qr", adminHandler.GetQRCode)
		api.GET("/whatsapp/status", adminHandler.GetWhatsAppStatus)
		api.POST("/whatsapp/connect", adminHandler.ConnectWhatsApp)
		api.POST("/whatsapp/logout", adminHandler.LogoutWhatsApp)

		api.POST("/telegram/connect", adminHandler.ConnectTelegram)
		api.GET("/telegram/status", adminHandler.GetTelegramStatus)
		api.POST("/telegram/disconnect", adminHandler.DisconnectTelegram)
	}
}

// resolveTenant loads the tenant from the "business" query parameter.
func (h *Handler) resolveTenant(c *gin.Context) *entities.Tenant {
	phone := c.Query("business")
	if phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "business parameter required"})
		return nil
	}

	tenant, err := h.tenantRepo.GetByBusinessPhone(c.Request.Context(), phone)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "business not found"})
			return nil
		}
		h.log.Error("tenant lookup failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return nil
	}
	return tenant
}

// GetServices lists the tenant's bookable services.
func (h *Handler) GetServices(c *gin.Context) {
	tenant := h.resolveTenant(c)
	if tenant == nil {
		return
	}

	services, err := h.serviceRepo.ListActive(c.Request.Context(), tenant.ID)
	if err != nil {
		h.log.Error("service listing failed", "tenant_id", tenant.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, services)
}

// GetAvailableSlots returns the free start times for a service on a date.
func (h *Handler) GetAvailableSlots(c *gin.Context) {
	tenant := h.resolveTenant(c)
	if tenant == nil {
		return
	}

	date := c.Query("date")
	if !ValidDate(date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	serviceID, err := strconv.Atoi(c.Query("service_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "service_id required"})
		return
	}

	slots, err := h.scheduling.AvailableSlots(c.Request.Context(), tenant, serviceID, date)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "service not found"})
			return
		}
		if entities.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Error("slot generation failed", "tenant_id", tenant.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "slots": slots})
}

// CreateAppointment books through the same commit path the dialog uses.
func (h *Handler) CreateAppointment(c *gin.Context) {
	var payload struct {
		Business  string `json:"business"`
		Phone     string `json:"phone"`
		Name      string `json:"name"`
		ServiceID int    `json:"service_id"`
		Date      string `json:"date"`
		Time      string `json:"time"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if !ValidPhone(payload.Phone) || !ValidDate(payload.Date) || !ValidClock(payload.Time) ||
		!ValidateLength(payload.Name, 3, MaxNameLength) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking fields"})
		return
	}

	tenant, err := h.tenantRepo.GetByBusinessPhone(c.Request.Context(), payload.Business)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "business not found"})
			return
		}
		h.log.Error("tenant lookup failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	if err := h.scheduling.CanBook(c.Request.Context(), tenant.ID, payload.Phone); err != nil {
		if errors.Is(err, entities.ErrLimitReached) {
			c.JSON(http.StatusConflict, gin.H{"error": "active appointment limit reached"})
			return
		}
		h.log.Error("booking precheck failed", "tenant_id", tenant.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	appt, err := h.scheduling.Book(c.Request.Context(), tenant, payload.Phone,
		SanitizeString(payload.Name), payload.ServiceID, payload.Date, payload.Time)
	if err != nil {
		switch {
		case errors.Is(err, entities.ErrSlotTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "slot already taken"})
		case errors.Is(err, entities.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "service not found"})
		default:
			h.log.Error("booking failed", "tenant_id", tenant.ID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}
	c.JSON(http.StatusCreated, appt)
}

// HandleWebMessage feeds the chat widget into the same dialog engine and
// returns the reply inline.
func (h *Handler) HandleWebMessage(c *gin.Context) {
	var payload struct {
		From     string `json:"from"`
		Business string `json:"business"`
		Content  string `json:"content"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !ValidPhone(payload.From) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sender"})
		return
	}

	msg := entities.Message{
		From:     payload.From,
		To:       payload.Business,
		Content:  SanitizeString(payload.Content),
		Platform: "web",
	}

	reply, err := h.messageService.Reply(c.Request.Context(), msg)
	if err != nil {
		h.log.Error("web message failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
