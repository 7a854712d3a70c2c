package usecases

import (
	"context"
	"fmt"

	"project_turnos/internal/entities"
	"project_turnos/internal/interfaces"
	"project_turnos/internal/repository"
	"project_turnos/pkg/logging"
)

// MessengerResolver returns the outbound channel for a tenant, or an error
// when none is connected.
type MessengerResolver func(tenantID int) (interfaces.Messenger, error)

// NotificationUsecase pushes appointment notices to clients over the
// tenant's connected channel.
type NotificationUsecase struct {
	appointments *repository.AppointmentRepository
	usage        *repository.UsageRepository
	resolve      MessengerResolver
	log          *logging.Logger
}

func NewNotificationUsecase(appointments *repository.AppointmentRepository, usage *repository.UsageRepository, resolve MessengerResolver, log *logging.Logger) *NotificationUsecase {
	return &NotificationUsecase{
		appointments: appointments,
		usage:        usage,
		resolve:      resolve,
		log:          log,
	}
}

const (
	NoticeConfirmation = "confirmation"
	NoticeCancellation = "cancellation"
	NoticeReminder     = "reminder"
)

func noticeText(kind string, a *entities.AppointmentDetail) (string, error) {
	switch kind {
	case NoticeConfirmation:
		return fmt.Sprintf("✅ Tu turno de *%s* del %s a las %s fue confirmado. ¡Te esperamos!",
			a.ServiceName, a.Date, a.Time), nil
	case NoticeCancellation:
		return fmt.Sprintf("❌ Tu turno de *%s* del %s a las %s fue cancelado. Escribí *RESERVAR* para elegir otro horario.",
			a.ServiceName, a.Date, a.Time), nil
	case NoticeReminder:
		return fmt.Sprintf("⏰ Te recordamos tu turno de *%s* mañana %s a las %s.",
			a.ServiceName, a.Date, a.Time), nil
	default:
		return "", entities.NewValidationError("kind", "unknown notice type")
	}
}

// Send delivers a notice about an appointment to its client.
func (u *NotificationUsecase) Send(ctx context.Context, tenantID, appointmentID int, kind string) error {
	detail, err := u.appointments.GetByID(ctx, tenantID, appointmentID)
	if err != nil {
		return err
	}

	text, err := noticeText(kind, detail)
	if err != nil {
		return err
	}

	messenger, err := u.resolve(tenantID)
	if err != nil {
		return fmt.Errorf("no channel for tenant %d: %w", tenantID, err)
	}

	if err := messenger.SendMessage(detail.ClientPhone, text); err != nil {
		return err
	}
	if u.usage != nil {
		if err := u.usage.IncrementSent(ctx, tenantID); err != nil {
			u.log.Warn("usage tracking failed", "tenant_id", tenantID, "error", err)
		}
	}
	u.log.Info("notice sent", "tenant_id", tenantID, "appointment_id", appointmentID, "kind", kind)
	return nil
}
