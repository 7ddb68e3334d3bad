package usecase

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Billing-api/internal/application/dto"
	"github.com/jhoicas/Billing-api/internal/domain"
	"github.com/jhoicas/Billing-api/internal/domain/entity"
	"github.com/jhoicas/Billing-api/internal/domain/repository"
)

const minPasswordLength = 8

// ProfileUseCase perfil del usuario autenticado.
type ProfileUseCase struct {
	repo repository.UserRepository
}

// NewProfileUseCase construye el caso de uso con el puerto de persistencia.
func NewProfileUseCase(repo repository.UserRepository) *ProfileUseCase {
	return &ProfileUseCase{repo: repo}
}

// Get obtiene el perfil.
func (uc *ProfileUseCase) Get(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	user, err := uc.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toProfileResponse(user), nil
}

// Update cambia nombre y email. Email de otro usuario → domain.ErrEmailAlreadyExists.
func (uc *ProfileUseCase) Update(ctx context.Context, userID string, in dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if name == "" {
		return nil, domain.NewValidationError("name", "requerido")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.NewValidationError("email", "formato inválido")
	}

	user, err := uc.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(user.Email, email) {
		other, err := uc.repo.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != user.ID {
			return nil, domain.ErrEmailAlreadyExists
		}
	}
	user.Name = name
	user.Email = email
	user.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return toProfileResponse(user), nil
}

// ChangePassword verifica la contraseña actual y guarda el hash bcrypt de la nueva.
func (uc *ProfileUseCase) ChangePassword(ctx context.Context, userID string, in dto.ChangePasswordRequest) error {
	if in.CurrentPassword == "" {
		return domain.NewValidationError("currentPassword", "requerido")
	}
	if len(in.NewPassword) < minPasswordLength {
		return domain.NewValidationError("newPassword", "debe tener al menos 8 caracteres")
	}
	user, err := uc.load(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return domain.NewValidationError("currentPassword", "incorrecta")
		}
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return uc.repo.UpdatePassword(ctx, user.ID, string(hash))
}

func (uc *ProfileUseCase) load(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func toProfileResponse(u *entity.User) *dto.ProfileResponse {
	return &dto.ProfileResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role,
		Image:       u.Image,
		CompanyName: u.CompanyName,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
