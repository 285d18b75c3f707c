// Package firestore хранилище поверх Cloud Firestore через firebase admin SDK.
// Это исходное хранилище салона, формат документов с ним совместим.
package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/Freeeeeet/salon_scheduler/internal/store"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Store struct {
	client *firestore.Client
	ops
}

var _ store.Store = (*Store)(nil)

// Connect инициализирует firebase приложение и клиент Firestore
func Connect(ctx context.Context, projectID, credentialsFile string) (*Store, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, store.Unavailable("init firebase app", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, store.Unavailable("init firestore client", err)
	}

	return &Store{client: client, ops: ops{client: client}}, nil
}

func (s *Store) FetchAll(ctx context.Context, collection string) ([]store.Record, error) {
	snaps, err := s.client.Collection(collection).Documents(ctx).GetAll()
	if err != nil {
		return nil, store.Unavailable("fetch "+collection, err)
	}

	records := make([]store.Record, 0, len(snaps))
	for _, snap := range snaps {
		records = append(records, toRecord(snap))
	}
	return records, nil
}

// RunInTx транзакция Firestore: все чтения должны идти до записей,
// fn может быть вызвана повторно при конкурентных изменениях
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx store.Tx) error) error {
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		return fn(ctx, &ops{client: s.client, tx: tx})
	})
	return commitError(err)
}

func (s *Store) Close(context.Context) error {
	if err := s.client.Close(); err != nil {
		return fmt.Errorf("close firestore: %w", err)
	}
	return nil
}

// ops вне транзакции tx == nil
type ops struct {
	client *firestore.Client
	tx     *firestore.Transaction
}

func (o *ops) Get(ctx context.Context, collection, id string) (store.Record, error) {
	ref := o.client.Collection(collection).Doc(id)

	var (
		snap *firestore.DocumentSnapshot
		err  error
	)
	if o.tx != nil {
		snap, err = o.tx.Get(ref)
	} else {
		snap, err = ref.Get(ctx)
	}
	if err != nil {
		return store.Record{}, mapError("get", collection, id, err)
	}

	return toRecord(snap), nil
}

func (o *ops) Insert(ctx context.Context, collection, id string, doc store.Document) (string, error) {
	coll := o.client.Collection(collection)
	ref := coll.NewDoc()
	if id != "" {
		ref = coll.Doc(id)
	}

	data := toFirestore(store.Strip(doc)).(map[string]any)
	data[store.FieldVersion] = int64(1)

	var err error
	if o.tx != nil {
		err = o.tx.Create(ref, data)
	} else {
		_, err = ref.Create(ctx, data)
	}
	if err != nil {
		return "", mapError("insert", collection, ref.ID, err)
	}

	return ref.ID, nil
}

func (o *ops) Update(ctx context.Context, collection, id string, patch store.Document) error {
	ref := o.client.Collection(collection).Doc(id)

	var err error
	if o.tx != nil {
		err = o.tx.Update(ref, updatesOf(patch))
	} else {
		_, err = ref.Update(ctx, updatesOf(patch))
	}
	return mapError("update", collection, id, err)
}

// CompareAndUpdate вне транзакции открывает свою, чтобы чтение версии и запись были атомарны
func (o *ops) CompareAndUpdate(ctx context.Context, collection, id string, expectedVersion int64, patch store.Document) error {
	if o.tx != nil {
		return o.compareAndUpdate(collection, id, expectedVersion, patch)
	}

	err := o.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		inTx := &ops{client: o.client, tx: tx}
		return inTx.compareAndUpdate(collection, id, expectedVersion, patch)
	})
	return commitError(err)
}

func (o *ops) compareAndUpdate(collection, id string, expectedVersion int64, patch store.Document) error {
	ref := o.client.Collection(collection).Doc(id)

	snap, err := o.tx.Get(ref)
	if err != nil {
		return mapError("compare and update", collection, id, err)
	}
	if versionOf(snap.Data()[store.FieldVersion]) != expectedVersion {
		return store.VersionConflict(collection, id, expectedVersion)
	}

	return mapError("compare and update", collection, id, o.tx.Update(ref, updatesOf(patch)))
}

func (o *ops) Remove(ctx context.Context, collection, id string) error {
	ref := o.client.Collection(collection).Doc(id)

	var err error
	if o.tx != nil {
		err = o.tx.Delete(ref, firestore.Exists)
	} else {
		_, err = ref.Delete(ctx, firestore.Exists)
	}
	return mapError("remove", collection, id, err)
}

func mapError(op, collection, id string, err error) error {
	switch status.Code(err) {
	case codes.OK:
		return nil
	case codes.NotFound:
		return store.NotFound(collection, id)
	case codes.AlreadyExists:
		return store.VersionConflict(collection, id, 0)
	}
	return store.Unavailable(op+" "+collection, err)
}

// commitError ошибки fn возвращаются как есть, ошибки gRPC при коммите переводятся
func commitError(err error) error {
	switch status.Code(err) {
	case codes.OK, codes.Unknown:
		return err
	case codes.NotFound:
		return fmt.Errorf("commit tx: %w", store.ErrNotFound)
	case codes.Aborted, codes.FailedPrecondition:
		return fmt.Errorf("commit tx: %w: %w", store.ErrVersionConflict, err)
	}
	return store.Unavailable("commit tx", err)
}

func updatesOf(patch store.Document) []firestore.Update {
	updates := []firestore.Update{{Path: store.FieldVersion, Value: firestore.Increment(1)}}
	for k, v := range store.Strip(patch) {
		updates = append(updates, firestore.Update{FieldPath: firestore.FieldPath{k}, Value: toFirestore(v)})
	}
	return updates
}

func toRecord(snap *firestore.DocumentSnapshot) store.Record {
	data := snap.Data()
	return store.Record{
		ID:      snap.Ref.ID,
		Version: versionOf(data[store.FieldVersion]),
		Data:    store.Strip(data),
	}
}

func versionOf(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case float64:
		return int64(n)
	}
	return 0
}

// toFirestore превращает {seconds, nanoseconds} в нативный Timestamp,
// как их писало исходное веб-приложение
func toFirestore(v any) any {
	switch t := v.(type) {
	case map[string]any:
		if ts, ok := asTimestamp(t); ok {
			return ts
		}
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = toFirestore(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = toFirestore(item)
		}
		return out
	}
	return v
}

func asTimestamp(m map[string]any) (time.Time, bool) {
	if len(m) != 2 {
		return time.Time{}, false
	}
	seconds, ok := number(m["seconds"])
	if !ok {
		return time.Time{}, false
	}
	nanos, ok := number(m["nanoseconds"])
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(seconds, nanos).UTC(), true
}

func number(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	}
	return 0, false
}
