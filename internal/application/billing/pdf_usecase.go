package billing

import (
	"context"
	"fmt"
	"regexp"

	"github.com/jhoicas/nexus-bills/internal/domain"
	"github.com/jhoicas/nexus-bills/internal/domain/entity"
	"github.com/jhoicas/nexus-bills/internal/domain/repository"
)

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// PDFUseCase renders stored bills as downloadable PDF documents.
type PDFUseCase struct {
	bills     repository.BillRepository
	generator BillPDFGenerator
}

// NewPDFUseCase builds the use case with its generator.
func NewPDFUseCase(bills repository.BillRepository, generator BillPDFGenerator) *PDFUseCase {
	return &PDFUseCase{bills: bills, generator: generator}
}

// DownloadBillPDF loads the bill scoped by tenant and renders it.
//
// Returns:
//   - (pdfBytes, filename, nil) on success, filename is "<billNumber>.pdf".
//   - domain.ErrNotFound     when the bill does not exist for the tenant.
//   - domain.ErrInvalidInput when stage is unknown.
func (uc *PDFUseCase) DownloadBillPDF(ctx context.Context, tenantID string, stage entity.Stage, id string) ([]byte, string, error) {
	if !stage.Valid() {
		return nil, "", fmt.Errorf("%w: unknown stage %q", domain.ErrInvalidInput, stage)
	}
	b, err := uc.bills.Get(ctx, tenantID, stage, id)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err := uc.generator.GenerateBillPDF(ctx, stage, b)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generate %s: %w", b.BillNumber, err)
	}
	name := unsafeFilename.ReplaceAllString(b.BillNumber, "_")
	if name == "" {
		name = "bill_" + b.ID
	}
	return pdfBytes, name + ".pdf", nil
}
