package usecases

import (
	"context"
	"strings"

	"project_turnos/internal/entities"
	"project_turnos/internal/repository"
)

// ServiceUsecase enforces the lifecycle rules around a tenant's service
// catalog.
type ServiceUsecase struct {
	services *repository.ServiceRepository
}

func NewServiceUsecase(services *repository.ServiceRepository) *ServiceUsecase {
	return &ServiceUsecase{services: services}
}

func validateService(s *entities.Service) error {
	if strings.TrimSpace(s.Name) == "" {
		return entities.NewValidationError("name", "required")
	}
	if s.Duration <= 0 {
		return entities.NewValidationError("duration", "must be positive minutes")
	}
	if s.Price < 0 {
		return entities.NewValidationError("price", "must not be negative")
	}
	return nil
}

func (u *ServiceUsecase) Create(ctx context.Context, s *entities.Service) error {
	if err := validateService(s); err != nil {
		return err
	}
	return u.services.Create(ctx, s)
}

// Update applies changes, refusing to deactivate a service while pending or
// confirmed appointments still reference it.
func (u *ServiceUsecase) Update(ctx context.Context, s *entities.Service) error {
	if err := validateService(s); err != nil {
		return err
	}

	current, err := u.services.GetByID(ctx, s.TenantID, s.ID)
	if err != nil {
		return err
	}
	if current.IsActive && !s.IsActive {
		n, err := u.services.CountActiveAppointments(ctx, s.TenantID, s.ID)
		if err != nil {
			return err
		}
		if n > 0 {
			return entities.ErrServiceInUse
		}
	}
	return u.services.Update(ctx, s)
}

// Delete removes a service outright, allowed only when no appointment of
// any status ever referenced it.
func (u *ServiceUsecase) Delete(ctx context.Context, tenantID, id int) error {
	n, err := u.services.CountAppointments(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return entities.ErrServiceInUse
	}
	return u.services.Delete(ctx, tenantID, id)
}
