// Package mongo stores bills and bill-number counters in MongoDB. Each stage
// has its own collection and every filter carries the owning user_id.
package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/jhoicas/nexus-bills/internal/domain/entity"
	"github.com/jhoicas/nexus-bills/pkg/config"
)

// Collection names.
const (
	colDrafts   = "drafts"
	colKacha    = "kacha_bills"
	colPakka    = "pakka_bills"
	colCounters = "counters"
)

var stageCollections = map[entity.Stage]string{
	entity.StageDraft: colDrafts,
	entity.StageKacha: colKacha,
	entity.StagePakka: colPakka,
}

// Client owns the driver connection. Open it at startup and Close it at shutdown.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
	cfg    config.MongoConfig
}

// Connect dials the deployment and verifies it answers a ping.
func Connect(ctx context.Context, cfg config.MongoConfig) (*Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(cfg.Timeout()).
		SetAppName("nexus-bills")
	c, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeout())
	defer cancel()
	if err := c.Ping(pingCtx, nil); err != nil {
		_ = c.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: ping: %w", err)
	}
	client := &Client{client: c, db: c.Database(cfg.Database), cfg: cfg}
	if cfg.Transactions {
		var hello bson.M
		if err := client.db.RunCommand(pingCtx, bson.D{{Key: "hello", Value: 1}}).Decode(&hello); err != nil {
			_ = c.Disconnect(context.Background())
			return nil, fmt.Errorf("mongo: hello: %w", err)
		}
		client.cfg.Transactions = supportsTransactions(hello)
	}
	return client, nil
}

// supportsTransactions reports whether a hello reply comes from a replica set
// member or a mongos. Standalone servers reject multi-document transactions.
func supportsTransactions(hello bson.M) bool {
	if _, ok := hello["setName"]; ok {
		return true
	}
	msg, _ := hello["msg"].(string)
	return msg == "isdbgrid"
}

// Transactions reports whether conversions run inside a transaction. It is
// false when disabled in config or when the deployment is standalone.
func (c *Client) Transactions() bool {
	return c.cfg.Transactions
}

// Ping checks connectivity.
func (c *Client) Ping(ctx context.Context) error {
	return c.client.Ping(ctx, nil)
}

// Close disconnects the driver.
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// Migrate creates the indexes every collection relies on.
func (c *Client) Migrate(ctx context.Context) error {
	for col, models := range migrationIndexes() {
		if _, err := c.db.Collection(col).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("mongo: migrate %s indexes: %w", col, err)
		}
	}
	return nil
}

func migrationIndexes() map[string][]mongo.IndexModel {
	listing := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "_id", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "billDate", Value: 1}}},
	}
	// at most one converted copy per source bill
	provenance := func(field string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: field, Value: 1}},
			Options: options.Index().
				SetName("uniq_user_" + field).
				SetUnique(true).
				SetPartialFilterExpression(bson.M{field: bson.M{"$exists": true}}),
		}
	}
	return map[string][]mongo.IndexModel{
		colDrafts: listing,
		colKacha:  append(append([]mongo.IndexModel{}, listing...), provenance("original_draft_id")),
		colPakka: append(append([]mongo.IndexModel{}, listing...),
			provenance("original_draft_id"), provenance("original_kacha_id")),
	}
}

func (c *Client) collection(stage entity.Stage) (*mongo.Collection, error) {
	name, ok := stageCollections[stage]
	if !ok {
		return nil, fmt.Errorf("mongo: unknown stage %q", stage)
	}
	return c.db.Collection(name), nil
}
