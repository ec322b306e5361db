package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/nexus-bills/internal/domain"
	"github.com/jhoicas/nexus-bills/internal/domain/entity"
	"github.com/jhoicas/nexus-bills/internal/domain/repository"
)

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo company profiles on PostgreSQL, one row per tenant.
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository accepts the pool or a transaction.
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

func (r *CompanyRepo) GetByTenant(ctx context.Context, tenantID string) (*entity.CompanyProfile, error) {
	const query = `
		SELECT id, tenant_id, company_name, gst_number, address, city, state, pincode,
		       phone, email, website, bank_name, account_number, ifsc_code,
		       onboarding_complete, onboarding_completed_at, created_at, updated_at
		FROM company_profiles
		WHERE tenant_id = $1`
	var p entity.CompanyProfile
	err := r.q.QueryRow(ctx, query, tenantID).Scan(
		&p.ID, &p.TenantID, &p.CompanyName, &p.GSTNumber, &p.Address, &p.City, &p.State, &p.Pincode,
		&p.Phone, &p.Email, &p.Website, &p.BankName, &p.AccountNumber, &p.IFSCCode,
		&p.OnboardingComplete, &p.OnboardingCompletedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: get company profile: %w", err)
	}
	return &p, nil
}

// Upsert keeps the existing row id and created_at when the tenant already has a profile.
func (r *CompanyRepo) Upsert(ctx context.Context, p *entity.CompanyProfile) error {
	const query = `
		INSERT INTO company_profiles (
		    id, tenant_id, company_name, gst_number, address, city, state, pincode,
		    phone, email, website, bank_name, account_number, ifsc_code,
		    onboarding_complete, onboarding_completed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (tenant_id) DO UPDATE SET
		    company_name = EXCLUDED.company_name,
		    gst_number = EXCLUDED.gst_number,
		    address = EXCLUDED.address,
		    city = EXCLUDED.city,
		    state = EXCLUDED.state,
		    pincode = EXCLUDED.pincode,
		    phone = EXCLUDED.phone,
		    email = EXCLUDED.email,
		    website = EXCLUDED.website,
		    bank_name = EXCLUDED.bank_name,
		    account_number = EXCLUDED.account_number,
		    ifsc_code = EXCLUDED.ifsc_code,
		    onboarding_complete = EXCLUDED.onboarding_complete,
		    onboarding_completed_at = EXCLUDED.onboarding_completed_at,
		    updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query,
		p.ID, p.TenantID, p.CompanyName, p.GSTNumber, p.Address, p.City, p.State, p.Pincode,
		p.Phone, p.Email, p.Website, p.BankName, p.AccountNumber, p.IFSCCode,
		p.OnboardingComplete, p.OnboardingCompletedAt, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("postgres: upsert company profile: %w", err)
	}
	return nil
}
