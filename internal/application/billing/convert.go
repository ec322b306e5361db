package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/nexus-bills/internal/application/dto"
	"github.com/jhoicas/nexus-bills/internal/domain/billing"
	"github.com/jhoicas/nexus-bills/internal/domain/entity"
	"github.com/jhoicas/nexus-bills/internal/domain/repository"
)

var convertMessages = map[[2]entity.Stage]string{
	{entity.StageDraft, entity.StageKacha}: "Draft converted to Kacha Bill successfully!",
	{entity.StageDraft, entity.StagePakka}: "Draft converted to Pakka Bill successfully!",
	{entity.StageKacha, entity.StagePakka}: "Kacha Bill converted to Pakka Bill successfully! The kacha bill has been removed.",
}

// Converter moves bills between stages.
type Converter struct {
	bills     repository.BillRepository
	companies repository.CompanyRepository
	seq       *SequenceGenerator
	notifier  Notifier
	now       func() time.Time
}

// NewConverter wires the converter. A nil notifier drops conversion events.
func NewConverter(
	bills repository.BillRepository,
	companies repository.CompanyRepository,
	seq *SequenceGenerator,
	notifier Notifier,
) *Converter {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &Converter{
		bills:     bills,
		companies: companies,
		seq:       seq,
		notifier:  notifier,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source. Used by tests.
func (c *Converter) WithClock(now func() time.Time) *Converter {
	c.now = now
	return c
}

// Convert moves bill id of the tenant from one stage to another and returns
// the new bill. The source is gone once Convert returns without error; on
// any error nothing was written.
func (c *Converter) Convert(ctx context.Context, tenantID string, from, to entity.Stage, id string) (*entity.Bill, error) {
	if err := billing.CheckTransition(from, to); err != nil {
		return nil, err
	}

	// ── 1. source, scoped by tenant ───────────────────────────────────────────
	src, err := c.bills.Get(ctx, tenantID, from, id)
	if err != nil {
		return nil, err
	}

	// ── 2. pakka bills always carry seller data ──────────────────────────────
	var profile *entity.CompanyProfile
	if to == entity.StagePakka {
		if profile, err = loadCompleteProfile(ctx, c.companies, tenantID); err != nil {
			return nil, err
		}
	}

	// ── 3. target document with a fresh number for its stage ──────────────────
	number, err := c.seq.NextBillNumber(ctx, tenantID, string(to))
	if err != nil {
		return nil, err
	}
	dst := billing.BuildConverted(src, from, to, number, profile, c.now())

	// ── 4. insert target + delete source as one unit ─────────────────────────
	newID, err := c.bills.Move(ctx, tenantID, from, to, src.ID, dst)
	if err != nil {
		return nil, fmt.Errorf("convert %s to %s: %w", from, to, err)
	}
	dst.ID = newID
	dst.TenantID = tenantID

	c.notifier.BillConverted(ctx, tenantID, from, to, src.BillNumber, src.CustomerName)
	return dst, nil
}

// ConvertResponse runs Convert and shapes the API result.
func (c *Converter) ConvertResponse(ctx context.Context, tenantID string, from, to entity.Stage, id string) (*dto.ConvertResponse, error) {
	b, err := c.Convert(ctx, tenantID, from, to, id)
	if err != nil {
		return nil, err
	}
	return &dto.ConvertResponse{
		Status:     dto.StatusSuccess,
		Message:    convertMessages[[2]entity.Stage{from, to}],
		BillID:     b.ID,
		BillNumber: b.BillNumber,
		From:       string(from),
		To:         string(to),
	}, nil
}
