package interfaces

import (
	"context"

	"project_turnos/internal/entities"
)

type Messenger interface {
	SendMessage(to, content string) error
	ReceiveMessage() (entities.Message, error)
}

// StateStore holds in-flight dialog state keyed by (tenant, phone).
// Implementations must keep at most one state per identity.
type StateStore interface {
	Get(ctx context.Context, tenantID int, phone string) (*entities.ConversationState, error)
	Put(ctx context.Context, state *entities.ConversationState) error
	Delete(ctx context.Context, tenantID int, phone string) error
}
