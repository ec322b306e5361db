// Package memory implements every repository port in process. It backs the
// unit tests and STORE_DRIVER=memory; data does not survive a restart.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/jhoicas/nexus-bills/internal/domain"
	"github.com/jhoicas/nexus-bills/internal/domain/billing"
	"github.com/jhoicas/nexus-bills/internal/domain/entity"
	"github.com/jhoicas/nexus-bills/internal/domain/repository"
)

var (
	_ repository.BillRepository      = (*BillStore)(nil)
	_ repository.AnalyticsRepository = (*BillStore)(nil)
	_ repository.SequenceRepository  = (*BillStore)(nil)
)

type billRecord struct {
	seq  int64 // insertion order, stands in for natural document order
	bill *entity.Bill
}

// BillStore keeps one ordered collection per stage plus the counters.
type BillStore struct {
	mu       sync.RWMutex
	seq      int64
	bills    map[entity.Stage][]billRecord
	counters map[string]int64
}

// NewBillStore creates an empty store.
func NewBillStore() *BillStore {
	return &BillStore{
		bills:    make(map[entity.Stage][]billRecord),
		counters: make(map[string]int64),
	}
}

// ==================== Sequence ====================

func (s *BillStore) Next(_ context.Context, tenantID, billType string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := billing.CounterName(tenantID, billType)
	s.counters[key]++
	return s.counters[key], nil
}

// ==================== Bills ====================

func (s *BillStore) Insert(_ context.Context, tenantID string, stage entity.Stage, b *entity.Bill) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(tenantID, stage, b)
}

func (s *BillStore) insertLocked(tenantID string, stage entity.Stage, b *entity.Bill) (string, error) {
	if err := s.checkProvenanceLocked(tenantID, stage, b); err != nil {
		return "", err
	}
	c := b.Clone()
	c.ID = bson.NewObjectID().Hex()
	c.TenantID = tenantID
	s.seq++
	s.bills[stage] = append(s.bills[stage], billRecord{seq: s.seq, bill: c})
	return c.ID, nil
}

// checkProvenanceLocked mirrors the unique (tenant, original id) indexes of the document store.
func (s *BillStore) checkProvenanceLocked(tenantID string, stage entity.Stage, b *entity.Bill) error {
	for _, r := range s.bills[stage] {
		if r.bill.TenantID != tenantID {
			continue
		}
		if b.OriginalDraftID != "" && r.bill.OriginalDraftID == b.OriginalDraftID {
			return fmt.Errorf("%w: draft %s already converted", domain.ErrConflict, b.OriginalDraftID)
		}
		if b.OriginalKachaID != "" && r.bill.OriginalKachaID == b.OriginalKachaID {
			return fmt.Errorf("%w: kacha bill %s already converted", domain.ErrConflict, b.OriginalKachaID)
		}
	}
	return nil
}

func (s *BillStore) indexLocked(tenantID string, stage entity.Stage, id string) int {
	for i, r := range s.bills[stage] {
		if r.bill.ID == id && r.bill.TenantID == tenantID {
			return i
		}
	}
	return -1
}

func (s *BillStore) Replace(_ context.Context, tenantID string, stage entity.Stage, b *entity.Bill) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(tenantID, stage, b.ID)
	if i < 0 {
		return domain.ErrNotFound
	}
	c := b.Clone()
	c.TenantID = tenantID
	s.bills[stage][i].bill = c
	return nil
}

func (s *BillStore) Get(_ context.Context, tenantID string, stage entity.Stage, id string) (*entity.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexLocked(tenantID, stage, id)
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	return s.bills[stage][i].bill.Clone(), nil
}

func (s *BillStore) List(_ context.Context, tenantID string, stage entity.Stage, opts repository.ListOptions) ([]*entity.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := s.filterLocked(tenantID, stage, repository.BillFilter{DateFrom: opts.DateFrom})
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].seq > recs[j].seq })
	if opts.Limit > 0 && len(recs) > opts.Limit {
		recs = recs[:opts.Limit]
	}
	out := make([]*entity.Bill, len(recs))
	for i, r := range recs {
		out[i] = r.bill.Clone()
	}
	return out, nil
}

func (s *BillStore) Delete(_ context.Context, tenantID string, stage entity.Stage, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteLocked(tenantID, stage, id)
}

func (s *BillStore) deleteLocked(tenantID string, stage entity.Stage, id string) error {
	i := s.indexLocked(tenantID, stage, id)
	if i < 0 {
		return domain.ErrNotFound
	}
	recs := s.bills[stage]
	s.bills[stage] = append(recs[:i:i], recs[i+1:]...)
	return nil
}

func (s *BillStore) Move(_ context.Context, tenantID string, from, to entity.Stage, sourceID string, target *entity.Bill) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexLocked(tenantID, from, sourceID) < 0 {
		return "", domain.ErrNotFound
	}
	id, err := s.insertLocked(tenantID, to, target)
	if err != nil {
		return "", err
	}
	if err := s.deleteLocked(tenantID, from, sourceID); err != nil {
		_ = s.deleteLocked(tenantID, to, id)
		return "", err
	}
	return id, nil
}

// ==================== Analytics ====================

func (s *BillStore) filterLocked(tenantID string, stage entity.Stage, f repository.BillFilter) []billRecord {
	var out []billRecord
	for _, r := range s.bills[stage] {
		b := r.bill
		if b.TenantID != tenantID {
			continue
		}
		if f.DateFrom != "" && b.BillDate < f.DateFrom {
			continue
		}
		if f.DateTo != "" && b.BillDate > f.DateTo {
			continue
		}
		if f.DateBefore != "" && b.BillDate >= f.DateBefore {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (s *BillStore) Count(_ context.Context, tenantID string, stage entity.Stage, f repository.BillFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.filterLocked(tenantID, stage, f))), nil
}

func (s *BillStore) AggregateTotals(_ context.Context, tenantID string, stage entity.Stage) (entity.AmountTotals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	totals := entity.AmountTotals{Amount: decimal.Zero}
	for _, r := range s.filterLocked(tenantID, stage, repository.BillFilter{}) {
		totals.Amount = totals.Amount.Add(r.bill.TotalAmount)
		totals.Count++
	}
	return totals, nil
}

func (s *BillStore) ScanAmounts(_ context.Context, tenantID string, stage entity.Stage) ([]decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := s.filterLocked(tenantID, stage, repository.BillFilter{})
	out := make([]decimal.Decimal, len(recs))
	for i, r := range recs {
		out[i] = r.bill.TotalAmount
	}
	return out, nil
}

func (s *BillStore) CustomerNames(_ context.Context, tenantID string, stage entity.Stage) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := s.filterLocked(tenantID, stage, repository.BillFilter{})
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.bill.CustomerName
	}
	return out, nil
}

func (s *BillStore) OldestBillDate(_ context.Context, tenantID string, stage entity.Stage, f repository.BillFilter) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	oldest := ""
	for _, r := range s.filterLocked(tenantID, stage, f) {
		if oldest == "" || r.bill.BillDate < oldest {
			oldest = r.bill.BillDate
		}
	}
	return oldest, nil
}

func now() time.Time { return time.Now().UTC() }
