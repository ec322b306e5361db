package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/jhoicas/nexus-bills/internal/domain"
	"github.com/jhoicas/nexus-bills/internal/domain/billing"
	"github.com/jhoicas/nexus-bills/internal/domain/entity"
	"github.com/jhoicas/nexus-bills/internal/domain/repository"
	"github.com/jhoicas/nexus-bills/pkg/logger"
)

// compile-time interface checks
var (
	_ repository.BillRepository      = (*BillStore)(nil)
	_ repository.AnalyticsRepository = (*BillStore)(nil)
	_ repository.SequenceRepository  = (*BillStore)(nil)
)

// BillStore implements the bill, analytics and sequence ports on MongoDB.
type BillStore struct {
	c   *Client
	log *logger.Logger
}

// NewBillStore builds the store over an open client.
func NewBillStore(c *Client, log *logger.Logger) *BillStore {
	if log == nil {
		log = logger.NewNop()
	}
	return &BillStore{c: c, log: log}
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// scoped is the only way a filter is built: every query carries the tenant.
func scoped(tenantID string, extra bson.M) bson.M {
	f := bson.M{"user_id": tenantID}
	for k, v := range extra {
		f[k] = v
	}
	return f
}

// byID an unparsable id cannot match any document, so it is reported as not found.
func byID(tenantID, id string) (bson.M, bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, bson.ObjectID{}, domain.ErrNotFound
	}
	return scoped(tenantID, bson.M{"_id": oid}), oid, nil
}

func mapWriteErr(op string, err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %s: bill already converted", domain.ErrConflict, op)
	}
	return fmt.Errorf("mongo: %s: %w", op, err)
}

// ==================== Sequence Store ====================

func (s *BillStore) Next(ctx context.Context, tenantID, billType string) (int64, error) {
	name := billing.CounterName(tenantID, billType)
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var m counterModel
	err := s.c.db.Collection(colCounters).
		FindOneAndUpdate(ctx, bson.M{"_id": name}, bson.M{"$inc": bson.M{"sequence_value": int64(1)}}, opts).
		Decode(&m)
	if err != nil {
		return 0, fmt.Errorf("mongo: next %s: %w", name, err)
	}
	return m.Value, nil
}

// ==================== Bill Store ====================

func (s *BillStore) Insert(ctx context.Context, tenantID string, stage entity.Stage, b *entity.Bill) (string, error) {
	col, err := s.c.collection(stage)
	if err != nil {
		return "", err
	}
	m, err := toBillModel(tenantID, b)
	if err != nil {
		return "", err
	}
	m.ID = bson.NewObjectID()
	if _, err := col.InsertOne(ctx, m); err != nil {
		return "", mapWriteErr("insert "+string(stage), err)
	}
	return m.ID.Hex(), nil
}

func (s *BillStore) Replace(ctx context.Context, tenantID string, stage entity.Stage, b *entity.Bill) error {
	col, err := s.c.collection(stage)
	if err != nil {
		return err
	}
	filter, _, err := byID(tenantID, b.ID)
	if err != nil {
		return err
	}
	m, err := toBillModel(tenantID, b)
	if err != nil {
		return err
	}
	res, err := col.ReplaceOne(ctx, filter, m)
	if err != nil {
		return mapWriteErr("replace "+string(stage), err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *BillStore) Get(ctx context.Context, tenantID string, stage entity.Stage, id string) (*entity.Bill, error) {
	col, err := s.c.collection(stage)
	if err != nil {
		return nil, err
	}
	filter, _, err := byID(tenantID, id)
	if err != nil {
		return nil, err
	}
	var m billModel
	if err := col.FindOne(ctx, filter).Decode(&m); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("mongo: get %s: %w", stage, err)
	}
	return fromBillModel(&m)
}

func (s *BillStore) List(ctx context.Context, tenantID string, stage entity.Stage, opts repository.ListOptions) ([]*entity.Bill, error) {
	col, err := s.c.collection(stage)
	if err != nil {
		return nil, err
	}
	find := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	if opts.Limit > 0 {
		find.SetLimit(int64(opts.Limit))
	}
	cur, err := col.Find(ctx, dateFilter(tenantID, repository.BillFilter{DateFrom: opts.DateFrom}), find)
	if err != nil {
		return nil, fmt.Errorf("mongo: list %s: %w", stage, err)
	}
	var models []billModel
	if err := cur.All(ctx, &models); err != nil {
		return nil, fmt.Errorf("mongo: list %s decode: %w", stage, err)
	}
	out := make([]*entity.Bill, 0, len(models))
	for i := range models {
		b, err := fromBillModel(&models[i])
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func (s *BillStore) Delete(ctx context.Context, tenantID string, stage entity.Stage, id string) error {
	col, err := s.c.collection(stage)
	if err != nil {
		return err
	}
	filter, _, err := byID(tenantID, id)
	if err != nil {
		return err
	}
	res, err := col.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("mongo: delete %s: %w", stage, err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Move inserts target into `to` and deletes the source from `from`. With
// transactions enabled both writes commit together; otherwise a failed
// source delete is compensated by deleting the inserted target.
func (s *BillStore) Move(ctx context.Context, tenantID string, from, to entity.Stage, sourceID string, target *entity.Bill) (string, error) {
	fromCol, err := s.c.collection(from)
	if err != nil {
		return "", err
	}
	toCol, err := s.c.collection(to)
	if err != nil {
		return "", err
	}
	srcFilter, _, err := byID(tenantID, sourceID)
	if err != nil {
		return "", err
	}
	m, err := toBillModel(tenantID, target)
	if err != nil {
		return "", err
	}
	m.ID = bson.NewObjectID()

	move := func(ctx context.Context) error {
		if _, err := toCol.InsertOne(ctx, m); err != nil {
			return mapWriteErr("move insert "+string(to), err)
		}
		res, err := fromCol.DeleteOne(ctx, srcFilter)
		if err != nil {
			return fmt.Errorf("mongo: move delete %s: %w", from, err)
		}
		if res.DeletedCount == 0 {
			return domain.ErrNotFound
		}
		return nil
	}

	if s.c.cfg.Transactions {
		sess, err := s.c.client.StartSession()
		if err != nil {
			return "", fmt.Errorf("mongo: start session: %w", err)
		}
		defer sess.EndSession(ctx)
		_, err = sess.WithTransaction(ctx, func(ctx context.Context) (any, error) {
			return nil, move(ctx)
		})
		if err != nil {
			return "", err
		}
		return m.ID.Hex(), nil
	}

	if err := move(ctx); err != nil {
		if _, derr := toCol.DeleteOne(ctx, bson.M{"_id": m.ID, "user_id": tenantID}); derr != nil {
			s.log.Error().Err(derr).
				Str("tenant_id", tenantID).
				Str("source_id", sourceID).
				Str("target_id", m.ID.Hex()).
				Msg("compensating delete failed, bill exists in both stages")
		}
		return "", err
	}
	return m.ID.Hex(), nil
}

// ==================== Analytics ====================

func dateFilter(tenantID string, f repository.BillFilter) bson.M {
	date := bson.M{}
	if f.DateFrom != "" {
		date["$gte"] = f.DateFrom
	}
	if f.DateTo != "" {
		date["$lte"] = f.DateTo
	}
	if f.DateBefore != "" {
		date["$lt"] = f.DateBefore
	}
	if len(date) == 0 {
		return scoped(tenantID, nil)
	}
	return scoped(tenantID, bson.M{"billDate": date})
}

func (s *BillStore) Count(ctx context.Context, tenantID string, stage entity.Stage, f repository.BillFilter) (int64, error) {
	col, err := s.c.collection(stage)
	if err != nil {
		return 0, err
	}
	n, err := col.CountDocuments(ctx, dateFilter(tenantID, f))
	if err != nil {
		return 0, fmt.Errorf("mongo: count %s: %w", stage, err)
	}
	return n, nil
}

func (s *BillStore) AggregateTotals(ctx context.Context, tenantID string, stage entity.Stage) (entity.AmountTotals, error) {
	zero := entity.AmountTotals{Amount: decimal.Zero}
	col, err := s.c.collection(stage)
	if err != nil {
		return zero, err
	}
	pipeline := bson.A{
		bson.M{"$match": scoped(tenantID, nil)},
		bson.M{"$group": bson.M{
			"_id":          nil,
			"total_amount": bson.M{"$sum": "$totalAmount"},
			"count":        bson.M{"$sum": 1},
		}},
	}
	cur, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return zero, fmt.Errorf("mongo: aggregate %s: %w", stage, err)
	}
	defer cur.Close(ctx)

	var results []struct {
		Total any   `bson:"total_amount"`
		Count int64 `bson:"count"`
	}
	if err := cur.All(ctx, &results); err != nil {
		return zero, fmt.Errorf("mongo: aggregate %s decode: %w", stage, err)
	}
	if len(results) == 0 {
		return zero, nil
	}
	amount, err := toDecimal(results[0].Total)
	if err != nil {
		return zero, fmt.Errorf("mongo: aggregate %s total: %w", stage, err)
	}
	return entity.AmountTotals{Amount: amount, Count: results[0].Count}, nil
}

func (s *BillStore) ScanAmounts(ctx context.Context, tenantID string, stage entity.Stage) ([]decimal.Decimal, error) {
	col, err := s.c.collection(stage)
	if err != nil {
		return nil, err
	}
	cur, err := col.Find(ctx, scoped(tenantID, nil), options.Find().SetProjection(bson.M{"totalAmount": 1}))
	if err != nil {
		return nil, fmt.Errorf("mongo: scan %s: %w", stage, err)
	}
	var docs []struct {
		Total any `bson:"totalAmount"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: scan %s decode: %w", stage, err)
	}
	out := make([]decimal.Decimal, 0, len(docs))
	for _, d := range docs {
		v, err := toDecimal(d.Total)
		if err != nil {
			// one malformed amount does not sink the dashboard
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *BillStore) CustomerNames(ctx context.Context, tenantID string, stage entity.Stage) ([]string, error) {
	col, err := s.c.collection(stage)
	if err != nil {
		return nil, err
	}
	cur, err := col.Find(ctx, scoped(tenantID, nil), options.Find().SetProjection(bson.M{"customerName": 1}))
	if err != nil {
		return nil, fmt.Errorf("mongo: customers %s: %w", stage, err)
	}
	var docs []struct {
		Name string `bson:"customerName"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: customers %s decode: %w", stage, err)
	}
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.Name
	}
	return out, nil
}

func (s *BillStore) OldestBillDate(ctx context.Context, tenantID string, stage entity.Stage, f repository.BillFilter) (string, error) {
	col, err := s.c.collection(stage)
	if err != nil {
		return "", err
	}
	opts := options.FindOne().
		SetSort(bson.D{{Key: "billDate", Value: 1}}).
		SetProjection(bson.M{"billDate": 1})
	var doc struct {
		Date string `bson:"billDate"`
	}
	if err := col.FindOne(ctx, dateFilter(tenantID, f), opts).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return "", nil
		}
		return "", fmt.Errorf("mongo: oldest %s: %w", stage, err)
	}
	return doc.Date, nil
}
