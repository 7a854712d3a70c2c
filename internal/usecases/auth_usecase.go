package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"project_turnos/internal/entities"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type AdminStore interface {
	Create(ctx context.Context, a *entities.Admin) error
	GetByUsername(ctx context.Context, username string) (*entities.Admin, error)
}

type AuthUsecase struct {
	admins    AdminStore
	jwtSecret []byte
}

func NewAuthUsecase(admins AdminStore, secret string) *AuthUsecase {
	return &AuthUsecase{
		admins:    admins,
		jwtSecret: []byte(secret),
	}
}

func (uc *AuthUsecase) Register(ctx context.Context, tenantID int, username, password string) error {
	existing, err := uc.admins.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, entities.ErrNotFound) {
		return err
	}
	if existing != nil {
		return errors.New("username already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &entities.Admin{
		TenantID:     tenantID,
		Username:     username,
		PasswordHash: string(hashed),
		Role:         "admin",
		IsActive:     true,
	}
	return uc.admins.Create(ctx, admin)
}

func (uc *AuthUsecase) Login(ctx context.Context, username, password string) (string, error) {
	admin, err := uc.admins.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, entities.ErrNotFound) {
		return "", err
	}
	if admin == nil || !admin.IsActive {
		return "", errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", errors.New("invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"admin_id":  admin.ID,
		"tenant_id": admin.TenantID,
		"role":      admin.Role,
		"exp":       time.Now().Add(time.Hour * 24).Unix(),
	})

	tokenString, err := token.SignedString(uc.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %v", err)
	}
	return tokenString, nil
}

// EnsureAdmin creates the initial admin if the username is free (called on
// startup).
func (uc *AuthUsecase) EnsureAdmin(ctx context.Context, tenantID int, username, password string) error {
	admin, err := uc.admins.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, entities.ErrNotFound) {
		return err
	}
	if admin != nil {
		return nil
	}
	return uc.Register(ctx, tenantID, username, password)
}
