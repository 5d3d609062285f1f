package storage

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo reports IllegalOperation (20) when a transaction is started against a
// standalone server.
const mongoIllegalOperation = 20

// MongoIndex is a single-field index created at startup.
type MongoIndex struct {
	Collection string
	Field      string
	Desc       bool
}

type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoStore connects to uri and pings the server.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	clientOpts := options.Client().ApplyURI(uri)
	// Atlas clusters require TLS 1.2+.
	if strings.HasPrefix(uri, "mongodb+srv://") {
		clientOpts.SetTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12})
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{client: client, db: client.Database(database)}, nil
}

// EnsureIndexes creates the given indexes. Failures are logged and ignored.
func (s *MongoStore) EnsureIndexes(ctx context.Context, indexes []MongoIndex) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	for _, idx := range indexes {
		dir := 1
		if idx.Desc {
			dir = -1
		}
		_, err := s.db.Collection(idx.Collection).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: idx.Field, Value: dir}},
		})
		if err != nil {
			log.Printf("[MongoStore] index %s.%s: %v", idx.Collection, idx.Field, err)
		}
	}
}

func toFilter(where []Filter) bson.D {
	filter := bson.D{}
	for _, f := range where {
		filter = append(filter, bson.E{Key: f.Field, Value: f.Value})
	}
	return filter
}

func (s *MongoStore) Find(ctx context.Context, collection string, q Query, out any) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find()
	if q.OrderBy != "" {
		dir := 1
		if q.Desc {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: q.OrderBy, Value: dir}})
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cur, err := s.db.Collection(collection).Find(ctx, toFilter(q.Where), opts)
	if err != nil {
		return err
	}
	return cur.All(ctx, out)
}

func (s *MongoStore) Get(ctx context.Context, collection, id string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func (s *MongoStore) Insert(ctx context.Context, collection string, doc any) (string, error) {
	m, err := toDocument(doc)
	if err != nil {
		return "", err
	}
	id := uuid.New().String()
	m["_id"] = id

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := s.db.Collection(collection).InsertOne(ctx, m); err != nil {
		return "", err
	}
	return id, nil
}

func (s *MongoStore) Set(ctx context.Context, collection, id string, doc any) error {
	m, err := toDocument(doc)
	if err != nil {
		return err
	}
	m["_id"] = id

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err = s.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, m, options.Replace().SetUpsert(true))
	return err
}

func (s *MongoStore) Update(ctx context.Context, collection, id string, fields Fields) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, collection, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	res, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Count(ctx context.Context, collection string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return s.db.Collection(collection).CountDocuments(ctx, bson.D{})
}

func (s *MongoStore) SetExclusive(ctx context.Context, collection, field, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	sess, err := s.client.StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)

	col := s.db.Collection(collection)
	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		res, err := col.UpdateOne(sc, bson.M{"_id": id}, bson.M{"$set": bson.M{field: true}})
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, ErrNotFound
		}
		_, err = col.UpdateMany(sc,
			bson.M{field: true, "_id": bson.M{"$ne": id}},
			bson.M{"$set": bson.M{field: false}},
		)
		return nil, err
	})

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Code == mongoIllegalOperation {
		return ErrTxUnsupported
	}
	return err
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
