// Package memory хранилище в памяти процесса для тестов и локального запуска
package memory

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/Freeeeeet/salon_scheduler/internal/store"
	"github.com/google/uuid"
)

type entry struct {
	seq     int64
	version int64
	data    store.Document
}

type state map[string]map[string]*entry

// Store хранилище в памяти. Транзакции выполняются последовательно.
type Store struct {
	mu   sync.Mutex
	data state
	seq  int64
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{data: state{}}
}

func (s *Store) FetchAll(ctx context.Context, collection string) ([]store.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, store.Unavailable("fetch "+collection, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]store.Record, 0, len(s.data[collection]))
	seqs := make(map[string]int64, len(s.data[collection]))
	for id, e := range s.data[collection] {
		records = append(records, e.record(id))
		seqs[id] = e.seq
	}
	// порядок вставки
	slices.SortFunc(records, func(a, b store.Record) int {
		return cmp.Compare(seqs[a.ID], seqs[b.ID])
	})
	return records, nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (store.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ops().Get(ctx, collection, id)
}

func (s *Store) Insert(ctx context.Context, collection, id string, doc store.Document) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ops().Insert(ctx, collection, id, doc)
}

func (s *Store) Update(ctx context.Context, collection, id string, patch store.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ops().Update(ctx, collection, id, patch)
}

func (s *Store) CompareAndUpdate(ctx context.Context, collection, id string, expectedVersion int64, patch store.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ops().CompareAndUpdate(ctx, collection, id, expectedVersion, patch)
}

func (s *Store) Remove(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ops().Remove(ctx, collection, id)
}

// RunInTx работает над копией данных и подменяет её только при успехе fn.
// Вызовы методов Store изнутри fn заблокируются, нужно использовать tx.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx store.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := &ops{data: s.data.clone(), seq: &s.seq}
	seq := s.seq
	if err := fn(ctx, snapshot); err != nil {
		s.seq = seq
		return err
	}
	s.data = snapshot.data
	return nil
}

func (s *Store) Close(context.Context) error { return nil }

func (s *Store) ops() *ops {
	return &ops{data: s.data, seq: &s.seq}
}

// ops операции над конкретным состоянием без блокировок
type ops struct {
	data state
	seq  *int64
}

func (o *ops) Get(ctx context.Context, collection, id string) (store.Record, error) {
	if err := ctx.Err(); err != nil {
		return store.Record{}, store.Unavailable("get "+collection, err)
	}
	e, ok := o.data[collection][id]
	if !ok {
		return store.Record{}, store.NotFound(collection, id)
	}
	return e.record(id), nil
}

func (o *ops) Insert(ctx context.Context, collection, id string, doc store.Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", store.Unavailable("insert "+collection, err)
	}
	if id == "" {
		id = uuid.NewString()
	}
	if _, exists := o.data[collection][id]; exists {
		return "", store.VersionConflict(collection, id, 0)
	}
	if o.data[collection] == nil {
		o.data[collection] = map[string]*entry{}
	}
	*o.seq++
	o.data[collection][id] = &entry{
		seq:     *o.seq,
		version: 1,
		data:    cloneDoc(store.Strip(doc)),
	}
	return id, nil
}

func (o *ops) Update(ctx context.Context, collection, id string, patch store.Document) error {
	return o.update(ctx, collection, id, 0, patch)
}

func (o *ops) CompareAndUpdate(ctx context.Context, collection, id string, expectedVersion int64, patch store.Document) error {
	if expectedVersion <= 0 {
		return store.VersionConflict(collection, id, expectedVersion)
	}
	return o.update(ctx, collection, id, expectedVersion, patch)
}

func (o *ops) update(ctx context.Context, collection, id string, expectedVersion int64, patch store.Document) error {
	if err := ctx.Err(); err != nil {
		return store.Unavailable("update "+collection, err)
	}
	e, ok := o.data[collection][id]
	if !ok {
		return store.NotFound(collection, id)
	}
	if expectedVersion > 0 && e.version != expectedVersion {
		return store.VersionConflict(collection, id, expectedVersion)
	}

	// копия, чтобы снапшоты транзакций не делили entry
	updated := &entry{seq: e.seq, version: e.version + 1, data: cloneDoc(e.data)}
	for k, v := range store.Strip(patch) {
		updated.data[k] = cloneValue(v)
	}
	o.data[collection][id] = updated
	return nil
}

func (o *ops) Remove(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return store.Unavailable("remove "+collection, err)
	}
	if _, ok := o.data[collection][id]; !ok {
		return store.NotFound(collection, id)
	}
	delete(o.data[collection], id)
	return nil
}

func (e *entry) record(id string) store.Record {
	return store.Record{ID: id, Version: e.version, Data: cloneDoc(e.data)}
}

// clone копирует карты коллекций; сами entry неизменяемы
func (s state) clone() state {
	out := make(state, len(s))
	for name, coll := range s {
		out[name] = maps.Clone(coll)
	}
	return out
}

func cloneDoc(doc store.Document) store.Document {
	out := make(store.Document, len(doc))
	for k, v := range doc {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneDoc(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
