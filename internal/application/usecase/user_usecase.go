package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/nexus-bills/internal/application/dto"
	"github.com/jhoicas/nexus-bills/internal/domain"
	"github.com/jhoicas/nexus-bills/internal/domain/repository"
	"github.com/jhoicas/nexus-bills/pkg/validator"
)

// UserUseCase profile reads and account edits of the signed-in user.
type UserUseCase struct {
	repo        repository.UserRepository
	companyRepo repository.CompanyRepository
	now         func() time.Time
}

// NewUserUseCase builds the use case with its persistence ports.
func NewUserUseCase(repo repository.UserRepository, companyRepo repository.CompanyRepository) *UserUseCase {
	return &UserUseCase{repo: repo, companyRepo: companyRepo, now: func() time.Time { return time.Now().UTC() }}
}

// ProfileData returns the user and, when present, its company profile.
func (uc *UserUseCase) ProfileData(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	u, err := uc.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := &dto.ProfileResponse{Status: dto.StatusSuccess, User: dto.UserFromEntity(u)}
	p, err := uc.companyRepo.GetByTenant(ctx, userID)
	switch {
	case err == nil:
		out.Company = dto.CompanyFromEntity(p)
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}
	return out, nil
}

// UpdateProfile changes email and names. An email owned by another account is a conflict.
func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if err := validator.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err)
	}
	u, err := uc.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email != "" && !strings.EqualFold(email, u.Email) {
		other, err := uc.repo.GetByEmail(ctx, email)
		if err == nil && other.ID != u.ID {
			return nil, domain.ErrEmailAlreadyExists
		}
		if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		u.Email = email
	}
	u.FirstName = strings.TrimSpace(in.FirstName)
	u.LastName = strings.TrimSpace(in.LastName)
	u.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	out := dto.UserFromEntity(u)
	return &out, nil
}

// ChangePassword verifies the current password and stores the new one.
func (uc *UserUseCase) ChangePassword(ctx context.Context, userID string, in dto.ChangePasswordRequest) error {
	if err := validator.Struct(in); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, err)
	}
	u, err := uc.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.CurrentPassword)); err != nil {
		return fmt.Errorf("%w: current password is incorrect", domain.ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	u.UpdatedAt = uc.now()
	return uc.repo.Update(ctx, u)
}
