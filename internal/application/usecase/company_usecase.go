package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/nexus-bills/internal/application/dto"
	"github.com/jhoicas/nexus-bills/internal/domain"
	"github.com/jhoicas/nexus-bills/internal/domain/entity"
	"github.com/jhoicas/nexus-bills/internal/domain/repository"
	"github.com/jhoicas/nexus-bills/pkg/validator"
)

// CompanyUseCase onboarding and company profile management.
type CompanyUseCase struct {
	repo repository.CompanyRepository
	now  func() time.Time
}

// NewCompanyUseCase builds the use case over its persistence port.
func NewCompanyUseCase(repo repository.CompanyRepository) *CompanyUseCase {
	return &CompanyUseCase{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// CompleteOnboarding saves the company details and marks onboarding complete.
func (uc *CompanyUseCase) CompleteOnboarding(ctx context.Context, tenantID string, in dto.CompanyDetailsRequest) (*dto.CompanyResponse, error) {
	return uc.save(ctx, tenantID, in, true)
}

// UpdateDetails replaces the company details. Onboarding flags are left as they are.
func (uc *CompanyUseCase) UpdateDetails(ctx context.Context, tenantID string, in dto.CompanyDetailsRequest) (*dto.CompanyResponse, error) {
	return uc.save(ctx, tenantID, in, false)
}

func (uc *CompanyUseCase) save(ctx context.Context, tenantID string, in dto.CompanyDetailsRequest, onboard bool) (*dto.CompanyResponse, error) {
	if err := validator.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err)
	}
	now := uc.now()
	p, err := uc.repo.GetByTenant(ctx, tenantID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		p = &entity.CompanyProfile{ID: uuid.New().String(), TenantID: tenantID, CreatedAt: now}
	case err != nil:
		return nil, err
	}

	p.CompanyName = strings.TrimSpace(in.CompanyName)
	p.GSTNumber = strings.ToUpper(strings.TrimSpace(in.GSTNumber))
	p.Address = strings.TrimSpace(in.Address)
	p.City = strings.TrimSpace(in.City)
	p.State = strings.TrimSpace(in.State)
	p.Pincode = strings.TrimSpace(in.Pincode)
	p.Phone = strings.TrimSpace(in.Phone)
	p.Email = strings.TrimSpace(in.Email)
	p.Website = strings.TrimSpace(in.Website)
	p.BankName = strings.TrimSpace(in.BankName)
	p.AccountNumber = strings.TrimSpace(in.AccountNumber)
	p.IFSCCode = strings.ToUpper(strings.TrimSpace(in.IFSCCode))
	p.UpdatedAt = now
	if onboard && !p.OnboardingComplete {
		p.OnboardingComplete = true
		p.OnboardingCompletedAt = &now
	}

	if err := uc.repo.Upsert(ctx, p); err != nil {
		return nil, err
	}
	return dto.CompanyFromEntity(p), nil
}

// Get returns the tenant's profile or ErrNotFound.
func (uc *CompanyUseCase) Get(ctx context.Context, tenantID string) (*dto.CompanyResponse, error) {
	p, err := uc.repo.GetByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return dto.CompanyFromEntity(p), nil
}

// Status reports whether the tenant has company details and finished onboarding.
func (uc *CompanyUseCase) Status(ctx context.Context, tenantID string) (*dto.OnboardingStatusResponse, error) {
	out := &dto.OnboardingStatusResponse{Status: dto.StatusSuccess}
	p, err := uc.repo.GetByTenant(ctx, tenantID)
	if errors.Is(err, domain.ErrNotFound) {
		return out, nil
	}
	if err != nil {
		return nil, err
	}
	out.HasCompanyDetails = strings.TrimSpace(p.CompanyName) != "" && strings.TrimSpace(p.GSTNumber) != ""
	out.OnboardingComplete = p.IsComplete()
	return out, nil
}

// IsOnboarded reports whether the tenant may use the billing endpoints.
// It returns an error only for infrastructure failures.
func (uc *CompanyUseCase) IsOnboarded(ctx context.Context, tenantID string) (bool, error) {
	if tenantID == "" {
		return false, fmt.Errorf("%w: tenant is required", domain.ErrInvalidInput)
	}
	p, err := uc.repo.GetByTenant(ctx, tenantID)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return p.IsComplete(), nil
}
