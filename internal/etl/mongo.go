package etl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/balewgize/WooCommerce-migrate/pkg/logger"
	"github.com/balewgize/WooCommerce-migrate/pkg/models"
)

const writeTimeout = 30 * time.Second

// MongoUpserter replaces documents by WooCommerce id. It is safe for
// concurrent use.
type MongoUpserter struct {
	Collection *mongo.Collection
}

func NewMongoUpserter(client *mongo.Client, dbName, collection string) *MongoUpserter {
	return &MongoUpserter{Collection: client.Database(dbName).Collection(collection)}
}

func (m *MongoUpserter) Upsert(ctx context.Context, rec models.Record) error {
	id, ok := rec.ID()
	if !ok {
		return ErrMissingID
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	opts := options.FindOneAndReplace().SetUpsert(true)
	err := m.Collection.FindOneAndReplace(ctx, bson.M{models.IDField: id}, bson.M(rec), opts).Err()
	// No previous document means the replace inserted a new one.
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("upsert %s id %v: %w", m.Collection.Name(), id, err)
	}
	return nil
}

// KnownIDs loads the ids of documents created within [from, to].
func (m *MongoUpserter) KnownIDs(ctx context.Context, from, to time.Time) (KnownIDs, error) {
	filter := bson.M{"date_created": bson.M{"$gte": from, "$lte": to}}
	findOpts := options.Find().SetProjection(bson.M{models.IDField: 1, "_id": 0})

	cursor, err := m.Collection.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("find known ids in %s: %w", m.Collection.Name(), err)
	}
	defer cursor.Close(ctx)

	known := KnownIDs{}
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			logger.Errorf("Error decoding mongo doc: %v", err)
			continue
		}
		if id, ok := models.Record(doc).ID(); ok {
			known.Add(id)
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return known, nil
}

// KnownIDs is the set of ids already stored for a run window. It is built
// before the run starts and only read afterwards.
type KnownIDs map[string]struct{}

func NewKnownIDs(ids ...interface{}) KnownIDs {
	k := KnownIDs{}
	for _, id := range ids {
		k.Add(id)
	}
	return k
}

func (k KnownIDs) Add(id interface{}) {
	k[models.IDKey(id)] = struct{}{}
}

func (k KnownIDs) Contains(id interface{}) bool {
	if k == nil {
		return false
	}
	_, ok := k[models.IDKey(id)]
	return ok
}

// DryRunUpserter counts would-be writes and stores nothing.
type DryRunUpserter struct{}

func (DryRunUpserter) Upsert(ctx context.Context, rec models.Record) error {
	if _, ok := rec.ID(); !ok {
		return ErrMissingID
	}
	return nil
}

// MongoRunLog stores one document per pipeline run.
type MongoRunLog struct {
	Collection *mongo.Collection
}

func NewMongoRunLog(client *mongo.Client, dbName, collection string) *MongoRunLog {
	return &MongoRunLog{Collection: client.Database(dbName).Collection(collection)}
}

type runDocument struct {
	RunID       string    `bson:"run_id"`
	Resource    string    `bson:"resource"`
	StartedAt   time.Time `bson:"started_at"`
	FinishedAt  time.Time `bson:"finished_at"`
	Status      string    `bson:"status"`
	Pages       int       `bson:"pages"`
	FailedPages int       `bson:"failed_pages"`
	Written     int       `bson:"written"`
	Skipped     int       `bson:"skipped"`
	Filtered    int       `bson:"filtered"`
	Dropped     int       `bson:"dropped"`
	Failed      int       `bson:"failed"`
	Error       string    `bson:"error,omitempty"`
}

func (l *MongoRunLog) RecordRun(ctx context.Context, s *RunSummary) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	doc := runDocument{
		RunID:       s.RunID,
		Resource:    s.Resource,
		StartedAt:   s.StartedAt,
		FinishedAt:  s.FinishedAt,
		Status:      s.Status(),
		Pages:       s.Pages,
		FailedPages: s.FailedPages,
		Written:     s.Written,
		Skipped:     s.Skipped,
		Filtered:    s.Filtered,
		Dropped:     s.Dropped,
		Failed:      s.Failed,
		Error:       s.Err,
	}
	if _, err := l.Collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("record run %s: %w", s.RunID, err)
	}
	return nil
}
