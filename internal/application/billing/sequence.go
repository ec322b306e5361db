package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/nexus-bills/internal/domain"
	"github.com/jhoicas/nexus-bills/internal/domain/billing"
	"github.com/jhoicas/nexus-bills/internal/domain/repository"
)

// SequenceGenerator hands out human-readable bill numbers such as KACHA-007.
type SequenceGenerator struct {
	repo repository.SequenceRepository
}

// NewSequenceGenerator builds the generator over an atomic counter store.
func NewSequenceGenerator(repo repository.SequenceRepository) *SequenceGenerator {
	return &SequenceGenerator{repo: repo}
}

// NextBillNumber increments the (tenant, type) counter and formats the result.
// A number handed out is consumed even if the caller never stores the bill.
func (g *SequenceGenerator) NextBillNumber(ctx context.Context, tenantID, billType string) (string, error) {
	billType = strings.ToLower(strings.TrimSpace(billType))
	if tenantID == "" || billType == "" {
		return "", fmt.Errorf("%w: tenant and bill type are required", domain.ErrInvalidInput)
	}
	v, err := g.repo.Next(ctx, tenantID, billType)
	if err != nil {
		return "", fmt.Errorf("sequence: next %s: %w", billing.CounterName(tenantID, billType), err)
	}
	return billing.FormatBillNumber(billType, v), nil
}
