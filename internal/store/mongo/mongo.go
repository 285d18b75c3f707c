// Package mongo хранит каждую коллекцию в одноимённой коллекции MongoDB.
// Транзакции требуют replica set.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/store"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	client *mongo.Client
	ops
}

var _ store.Store = (*Store)(nil)

// Connect подключается к MongoDB и проверяет соединение
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// вложенные документы читаются как map, а не bson.D
	clientOptions := options.Client().
		ApplyURI(uri).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true})

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, store.Unavailable("connect mongo", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, store.Unavailable("ping mongo", err)
	}

	return &Store{client: client, ops: ops{db: client.Database(database)}}, nil
}

func (s *Store) FetchAll(ctx context.Context, collection string) ([]store.Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_seq", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := s.db.Collection(collection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, store.Unavailable("fetch "+collection, err)
	}
	defer cursor.Close(ctx)

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, store.Unavailable("decode "+collection, err)
	}

	records := make([]store.Record, 0, len(docs))
	for _, doc := range docs {
		records = append(records, toRecord(doc))
	}
	return records, nil
}

func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx store.Tx) error) error {
	sess, err := s.client.StartSession()
	if err != nil {
		return store.Unavailable("start mongo session", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc, &s.ops)
	})
	return err
}

func (s *Store) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect mongo: %w", err)
	}
	return nil
}

// ops операции над базой; внутри транзакции сессия приходит через ctx
type ops struct {
	db *mongo.Database
}

func (o *ops) Get(ctx context.Context, collection, id string) (store.Record, error) {
	var doc bson.M
	err := o.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return store.Record{}, store.NotFound(collection, id)
		}
		return store.Record{}, store.Unavailable("get "+collection, err)
	}
	return toRecord(doc), nil
}

func (o *ops) Insert(ctx context.Context, collection, id string, doc store.Document) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}

	body := bson.M(store.Strip(doc))
	body["_id"] = id
	body[store.FieldVersion] = int64(1)
	body["_seq"] = time.Now().UnixNano()

	if _, err := o.db.Collection(collection).InsertOne(ctx, body); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", store.VersionConflict(collection, id, 0)
		}
		return "", store.Unavailable("insert "+collection, err)
	}
	return id, nil
}

func (o *ops) Update(ctx context.Context, collection, id string, patch store.Document) error {
	res, err := o.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, updateOf(patch))
	if err != nil {
		return store.Unavailable("update "+collection, err)
	}
	if res.MatchedCount == 0 {
		return store.NotFound(collection, id)
	}
	return nil
}

func (o *ops) CompareAndUpdate(ctx context.Context, collection, id string, expectedVersion int64, patch store.Document) error {
	filter := bson.M{"_id": id, store.FieldVersion: expectedVersion}
	if expectedVersion == 0 {
		// старые документы без поля version
		filter[store.FieldVersion] = bson.M{"$in": bson.A{0, nil}}
	}

	res, err := o.db.Collection(collection).UpdateOne(ctx, filter, updateOf(patch))
	if err != nil {
		return store.Unavailable("compare and update "+collection, err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	if _, err := o.Get(ctx, collection, id); err != nil {
		return err
	}
	return store.VersionConflict(collection, id, expectedVersion)
}

func (o *ops) Remove(ctx context.Context, collection, id string) error {
	res, err := o.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return store.Unavailable("remove "+collection, err)
	}
	if res.DeletedCount == 0 {
		return store.NotFound(collection, id)
	}
	return nil
}

func updateOf(patch store.Document) bson.M {
	update := bson.M{"$inc": bson.M{store.FieldVersion: 1}}
	if set := store.Strip(patch); len(set) > 0 {
		update["$set"] = bson.M(set)
	}
	return update
}

func toRecord(doc bson.M) store.Record {
	id, _ := doc["_id"].(string)
	delete(doc, "_seq")
	return store.Record{
		ID:      id,
		Version: versionOf(doc[store.FieldVersion]),
		Data:    store.Strip(doc),
	}
}

// versionOf документы без поля version считаются версией 0
func versionOf(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int32:
		return int64(n)
	case float64:
		return int64(n)
	}
	return 0
}
