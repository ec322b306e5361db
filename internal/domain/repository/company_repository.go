package repository

import (
	"context"

	"github.com/jhoicas/nexus-bills/internal/domain/entity"
)

// CompanyRepository persistence port for the tenant's company profile.
type CompanyRepository interface {
	// GetByTenant returns ErrNotFound when the tenant has no profile yet.
	GetByTenant(ctx context.Context, tenantID string) (*entity.CompanyProfile, error)
	// Upsert creates or replaces the profile of p.TenantID.
	Upsert(ctx context.Context, p *entity.CompanyProfile) error
}
