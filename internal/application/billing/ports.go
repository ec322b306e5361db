package billing

import (
	"context"

	"github.com/jhoicas/nexus-bills/internal/domain/entity"
)

// Notifier receives bill events. Implementations must not fail the caller:
// a lost notification never undoes a bill write.
type Notifier interface {
	BillCreated(ctx context.Context, tenantID string, stage entity.Stage, b *entity.Bill)
	BillUpdated(ctx context.Context, tenantID string, stage entity.Stage, b *entity.Bill)
	BillDeleted(ctx context.Context, tenantID string, stage entity.Stage, b *entity.Bill)
	BillConverted(ctx context.Context, tenantID string, from, to entity.Stage, number, customer string)
}

// BillPDFGenerator renders a stored bill as a PDF document.
type BillPDFGenerator interface {
	GenerateBillPDF(ctx context.Context, stage entity.Stage, b *entity.Bill) ([]byte, error)
}

type nopNotifier struct{}

func (nopNotifier) BillCreated(context.Context, string, entity.Stage, *entity.Bill) {}
func (nopNotifier) BillUpdated(context.Context, string, entity.Stage, *entity.Bill) {}
func (nopNotifier) BillDeleted(context.Context, string, entity.Stage, *entity.Bill) {}
func (nopNotifier) BillConverted(context.Context, string, entity.Stage, entity.Stage, string, string) {
}
