package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/nexus-bills/internal/application/dto"
	"github.com/jhoicas/nexus-bills/internal/domain"
	"github.com/jhoicas/nexus-bills/internal/domain/entity"
	"github.com/jhoicas/nexus-bills/internal/domain/repository"
	"github.com/jhoicas/nexus-bills/pkg/jwt"
	"github.com/jhoicas/nexus-bills/pkg/validator"
)

// JWTConfig token generation settings.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// Welcomer greets new accounts. It must not fail registration.
type Welcomer interface {
	Welcome(ctx context.Context, tenantID string)
}

// AccountTxRunner runs fn with account repositories sharing one transaction.
type AccountTxRunner interface {
	RunAccount(ctx context.Context, fn func(users repository.UserRepository, companies repository.CompanyRepository) error) error
}

// AuthUseCase registration and login.
type AuthUseCase struct {
	userRepo    repository.UserRepository
	companyRepo repository.CompanyRepository
	tx          AccountTxRunner
	welcomer    Welcomer
	jwtCfg      JWTConfig
	now         func() time.Time
}

// NewAuthUseCase builds the auth use case. welcomer may be nil.
func NewAuthUseCase(userRepo repository.UserRepository, companyRepo repository.CompanyRepository, welcomer Welcomer, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{
		userRepo:    userRepo,
		companyRepo: companyRepo,
		welcomer:    welcomer,
		jwtCfg:      jwtCfg,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithTx makes registration write the user and its profile atomically.
func (uc *AuthUseCase) WithTx(tx AccountTxRunner) *AuthUseCase {
	uc.tx = tx
	return uc
}

func (uc *AuthUseCase) runAccount(ctx context.Context, fn func(repository.UserRepository, repository.CompanyRepository) error) error {
	if uc.tx == nil {
		return fn(uc.userRepo, uc.companyRepo)
	}
	return uc.tx.RunAccount(ctx, fn)
}

// RegisterUser creates the account, a company profile awaiting onboarding and
// a welcome notification, then logs the user in.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.LoginResponse, error) {
	if err := validator.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err)
	}
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if _, err := uc.userRepo.GetByUsername(ctx, username); err == nil {
		return nil, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if email != "" {
		if _, err := uc.userRepo.GetByEmail(ctx, email); err == nil {
			return nil, domain.ErrEmailAlreadyExists
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Status:       entity.UserStatusActive,
		LastLoginAt:  &now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	profile := &entity.CompanyProfile{
		ID:          uuid.New().String(),
		TenantID:    user.ID,
		CompanyName: strings.TrimSpace(in.CompanyName),
		Email:       email,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = uc.runAccount(ctx, func(users repository.UserRepository, companies repository.CompanyRepository) error {
		if err := users.Create(ctx, user); err != nil {
			return err
		}
		if err := companies.Upsert(ctx, profile); err != nil {
			return fmt.Errorf("register: create company profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if uc.welcomer != nil {
		uc.welcomer.Welcome(ctx, user.ID)
	}
	return uc.issue(user, false)
}

// Login checks username (or email) and password and returns a token.
// Unknown users and wrong passwords are indistinguishable to the caller.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := validator.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err)
	}
	user, err := uc.findLogin(ctx, strings.TrimSpace(in.Username))
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != entity.UserStatusActive {
		return nil, domain.ErrForbidden
	}

	now := uc.now()
	user.LastLoginAt = &now
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	complete := false
	profile, err := uc.companyRepo.GetByTenant(ctx, user.ID)
	switch {
	case err == nil:
		complete = profile.IsComplete()
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}
	return uc.issue(user, complete)
}

func (uc *AuthUseCase) findLogin(ctx context.Context, login string) (*entity.User, error) {
	user, err := uc.userRepo.GetByUsername(ctx, login)
	if err == nil || !errors.Is(err, domain.ErrUserNotFound) || !strings.Contains(login, "@") {
		return user, err
	}
	return uc.userRepo.GetByEmail(ctx, strings.ToLower(login))
}

func (uc *AuthUseCase) issue(user *entity.User, onboardingComplete bool) (*dto.LoginResponse, error) {
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Username, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Status:             dto.StatusSuccess,
		Token:              token,
		User:               dto.UserFromEntity(user),
		OnboardingComplete: onboardingComplete,
	}, nil
}
