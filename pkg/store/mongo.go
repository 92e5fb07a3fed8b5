package store

import (
	"context"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/sankeyflow/pkg/chart"
	"github.com/matzehuels/sankeyflow/pkg/errors"
)

// DefaultCollection is the MongoDB collection charts are stored in.
const DefaultCollection = "charts"

// Mongo stores charts as documents in MongoDB.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongo connects to uri and uses the charts collection of database.
func NewMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "ping mongodb")
	}
	return &Mongo{
		client: client,
		coll:   client.Database(database).Collection(DefaultCollection),
	}, nil
}

// Save inserts c as a new document.
func (m *Mongo) Save(ctx context.Context, c chart.Chart) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	rec := Record{ID: NewID(), Chart: c, CreatedAt: time.Now().UTC()}
	if _, err := m.coll.InsertOne(ctx, rec); err != nil {
		return "", errors.Wrap(errors.ErrCodeStorage, err, "insert chart")
	}
	return rec.ID, nil
}

// Get loads a chart document.
func (m *Mongo) Get(ctx context.Context, id string) (*Record, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var rec Record
	err := m.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "find chart %s", id)
	}
	return &rec, nil
}

// Delete removes a chart document.
func (m *Mongo) Delete(ctx context.Context, id string) error {
	if _, err := m.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete chart %s", id)
	}
	return nil
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

var _ Store = (*Mongo)(nil)
