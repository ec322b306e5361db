// Package billing holds the bill use cases: saving and reading bills per
// stage, numbering them and converting them between stages.
package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/nexus-bills/internal/application/dto"
	"github.com/jhoicas/nexus-bills/internal/domain"
	"github.com/jhoicas/nexus-bills/internal/domain/billing"
	"github.com/jhoicas/nexus-bills/internal/domain/entity"
	"github.com/jhoicas/nexus-bills/internal/domain/repository"
	"github.com/jhoicas/nexus-bills/pkg/validator"
)

// OverdueAfter age after which a kacha bill counts as overdue.
const OverdueAfter = 7 * 24 * time.Hour

var saveMessages = map[entity.Stage]string{
	entity.StageDraft: "Draft saved successfully!",
	entity.StageKacha: "Kacha Bill generated successfully!",
	entity.StagePakka: "Pakka Bill generated successfully!",
}

// BillUseCase saves, reads and deletes bills of one tenant.
type BillUseCase struct {
	bills     repository.BillRepository
	analytics repository.AnalyticsRepository
	companies repository.CompanyRepository
	seq       *SequenceGenerator
	notifier  Notifier
	now       func() time.Time
}

// NewBillUseCase wires the use case. A nil notifier drops bill events.
func NewBillUseCase(
	bills repository.BillRepository,
	analytics repository.AnalyticsRepository,
	companies repository.CompanyRepository,
	seq *SequenceGenerator,
	notifier Notifier,
) *BillUseCase {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &BillUseCase{
		bills:     bills,
		analytics: analytics,
		companies: companies,
		seq:       seq,
		notifier:  notifier,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source. Used by tests.
func (uc *BillUseCase) WithClock(now func() time.Time) *BillUseCase {
	uc.now = now
	return uc
}

// Save inserts a bill into the stage named by req.Status (draft by default),
// or updates the draft req.DraftID in place.
func (uc *BillUseCase) Save(ctx context.Context, tenantID string, req dto.SaveBillRequest) (*dto.SaveBillResponse, error) {
	if err := validator.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err)
	}
	stage := entity.StageDraft
	if req.Status != "" {
		stage = entity.Stage(req.Status)
	}

	if stage == entity.StageDraft && req.DraftID != "" {
		return uc.updateDraft(ctx, tenantID, req.DraftID, req.Bill)
	}

	b := dto.BillToEntity(req.Bill)
	b.BillType = string(stage)
	if b.TotalAmount.IsZero() {
		b.TotalAmount = b.LineItemsTotal()
	}

	var profile *entity.CompanyProfile
	if stage == entity.StagePakka {
		p, err := loadCompleteProfile(ctx, uc.companies, tenantID)
		if err != nil {
			return nil, err
		}
		profile = p
	}

	number, err := uc.seq.NextBillNumber(ctx, tenantID, string(stage))
	if err != nil {
		return nil, err
	}
	b.BillNumber = number
	if profile != nil {
		billing.StampSeller(b, profile)
		billing.ApplyPakkaDefaults(b)
	}
	t := uc.now()
	b.CreatedAt, b.UpdatedAt = t, t

	id, err := uc.bills.Insert(ctx, tenantID, stage, b)
	if err != nil {
		return nil, fmt.Errorf("bills: insert %s: %w", stage, err)
	}
	b.ID = id
	uc.notifier.BillCreated(ctx, tenantID, stage, b)

	return &dto.SaveBillResponse{
		Status:     dto.StatusSuccess,
		Message:    saveMessages[stage],
		BillID:     id,
		BillNumber: number,
	}, nil
}

// updateDraft behaves like a partial update: keys absent from the body keep
// their stored values.
func (uc *BillUseCase) updateDraft(ctx context.Context, tenantID, draftID string, in dto.BillDTO) (*dto.SaveBillResponse, error) {
	stored, err := uc.bills.Get(ctx, tenantID, entity.StageDraft, draftID)
	if err != nil {
		return nil, err
	}
	b := dto.MergeBillUpdate(stored, in)
	b.BillType = string(entity.StageDraft)
	if b.TotalAmount.IsZero() {
		b.TotalAmount = b.LineItemsTotal()
	}
	if b.BillNumber == "" {
		if b.BillNumber, err = uc.seq.NextBillNumber(ctx, tenantID, string(entity.StageDraft)); err != nil {
			return nil, err
		}
	}
	b.CreatedAt = stored.CreatedAt
	b.UpdatedAt = uc.now()

	if err := uc.bills.Replace(ctx, tenantID, entity.StageDraft, b); err != nil {
		return nil, err
	}
	uc.notifier.BillUpdated(ctx, tenantID, entity.StageDraft, b)

	return &dto.SaveBillResponse{
		Status:     dto.StatusSuccess,
		Message:    "Draft updated successfully!",
		BillID:     b.ID,
		BillNumber: b.BillNumber,
		Updated:    true,
	}, nil
}

// loadCompleteProfile fails unless the tenant profile can be stamped onto a pakka bill.
func loadCompleteProfile(ctx context.Context, repo repository.CompanyRepository, tenantID string) (*entity.CompanyProfile, error) {
	p, err := repo.GetByTenant(ctx, tenantID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrProfileIncomplete
	}
	if err != nil {
		return nil, fmt.Errorf("bills: load company profile: %w", err)
	}
	if !p.IsComplete() {
		return nil, domain.ErrProfileIncomplete
	}
	return p, nil
}

// Get returns one bill of the tenant.
func (uc *BillUseCase) Get(ctx context.Context, tenantID string, stage entity.Stage, id string) (*dto.BillDTO, error) {
	if !stage.Valid() {
		return nil, fmt.Errorf("%w: unknown stage %q", domain.ErrInvalidInput, stage)
	}
	b, err := uc.bills.Get(ctx, tenantID, stage, id)
	if err != nil {
		return nil, err
	}
	out := dto.BillFromEntity(b)
	return &out, nil
}

// List returns every bill of the stage, newest first.
func (uc *BillUseCase) List(ctx context.Context, tenantID string, stage entity.Stage) (*dto.BillListResponse, error) {
	if !stage.Valid() {
		return nil, fmt.Errorf("%w: unknown stage %q", domain.ErrInvalidInput, stage)
	}
	bills, err := uc.bills.List(ctx, tenantID, stage, repository.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("bills: list %s: %w", stage, err)
	}
	items := dto.BillsFromEntities(bills)
	return &dto.BillListResponse{Status: dto.StatusSuccess, Bills: items, Count: len(items)}, nil
}

// Delete removes one bill. Unknown or foreign ids yield ErrNotFound.
func (uc *BillUseCase) Delete(ctx context.Context, tenantID string, stage entity.Stage, id string) error {
	if !stage.Valid() {
		return fmt.Errorf("%w: unknown stage %q", domain.ErrInvalidInput, stage)
	}
	b, err := uc.bills.Get(ctx, tenantID, stage, id)
	if err != nil {
		return err
	}
	if err := uc.bills.Delete(ctx, tenantID, stage, id); err != nil {
		return err
	}
	uc.notifier.BillDeleted(ctx, tenantID, stage, b)
	return nil
}

// OverdueKacha counts kacha bills dated more than a week ago and reports the oldest date.
func (uc *BillUseCase) OverdueKacha(ctx context.Context, tenantID string) (*dto.OverdueResponse, error) {
	f := repository.BillFilter{DateBefore: uc.now().Add(-OverdueAfter).Format(time.DateOnly)}
	n, err := uc.analytics.Count(ctx, tenantID, entity.StageKacha, f)
	if err != nil {
		return nil, fmt.Errorf("bills: count overdue: %w", err)
	}
	out := &dto.OverdueResponse{Status: dto.StatusSuccess, OverdueCount: n}
	if n == 0 {
		return out, nil
	}
	oldest, err := uc.analytics.OldestBillDate(ctx, tenantID, entity.StageKacha, f)
	if err != nil {
		return nil, fmt.Errorf("bills: oldest overdue: %w", err)
	}
	if oldest != "" {
		out.OldestBillDate = &oldest
	}
	return out, nil
}
