package usecases

import (
	"context"
	"errors"
	"fmt"

	"project_turnos/internal/entities"
	"project_turnos/internal/interfaces"
	"project_turnos/internal/repository"
	"project_turnos/pkg/logging"
)

// TenantStore resolves and lists tenants.
type TenantStore interface {
	GetByBusinessPhone(ctx context.Context, phone string) (*entities.Tenant, error)
	GetByID(ctx context.Context, id int) (*entities.Tenant, error)
}

// MessageService is the per-message front door shared by every channel.
// It resolves the tenant from the number the message arrived on and hands
// the turn to the dialog engine; the tenant never outlives the turn.
type MessageService struct {
	tenants      TenantStore
	conversation *ConversationUsecase
	usage        *repository.UsageRepository
	log          *logging.Logger
}

func NewMessageService(tenants TenantStore, conversation *ConversationUsecase, usage *repository.UsageRepository, log *logging.Logger) *MessageService {
	return &MessageService{
		tenants:      tenants,
		conversation: conversation,
		usage:        usage,
		log:          log,
	}
}

// ProcessMessage handles one inbound message and sends the reply through
// the given messenger. An unresolvable channel identity gets a generic
// apology and the turn ends.
func (s *MessageService) ProcessMessage(ctx context.Context, msg entities.Message, messenger interfaces.Messenger) error {
	tenant, err := s.tenants.GetByBusinessPhone(ctx, msg.To)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			s.log.Warn("no tenant for channel identity", "to", msg.To, "platform", msg.Platform)
			return messenger.SendMessage(msg.From, msgGenericError)
		}
		return err
	}

	if s.usage != nil {
		if err := s.usage.IncrementReceived(ctx, tenant.ID); err != nil {
			s.log.Warn("usage tracking failed", "tenant_id", tenant.ID, "error", err)
		}
	}

	reply := s.conversation.Handle(ctx, tenant, msg.From, msg.Content)
	if reply == "" {
		return nil
	}

	if err := messenger.SendMessage(msg.From, reply); err != nil {
		return fmt.Errorf("send reply: %w", err)
	}
	if s.usage != nil {
		if err := s.usage.IncrementSent(ctx, tenant.ID); err != nil {
			s.log.Warn("usage tracking failed", "tenant_id", tenant.ID, "error", err)
		}
	}
	return nil
}

// Reply computes the dialog answer for a message without sending it.
// The web chat handler uses this to return the reply in the HTTP response.
func (s *MessageService) Reply(ctx context.Context, msg entities.Message) (string, error) {
	tenant, err := s.tenants.GetByBusinessPhone(ctx, msg.To)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return msgGenericError, nil
		}
		return "", err
	}

	if s.usage != nil {
		if err := s.usage.IncrementReceived(ctx, tenant.ID); err != nil {
			s.log.Warn("usage tracking failed", "tenant_id", tenant.ID, "error", err)
		}
	}
	return s.conversation.Handle(ctx, tenant, msg.From, msg.Content), nil
}
