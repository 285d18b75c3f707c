// Package postgres хранит документы в одной JSONB таблице documents
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/salon_scheduler/internal/store"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	pool Pool
	ops
}

var _ store.Store = (*Store)(nil)

// Open создаёт пул соединений и проверяет доступность базы
func Open(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse db dsn: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 1
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, store.Unavailable("open db pool", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, store.Unavailable("ping db", err)
	}
	return pool, nil
}

func New(pool Pool) *Store {
	return &Store{pool: pool, ops: ops{q: pool}}
}

func (s *Store) FetchAll(ctx context.Context, collection string) ([]store.Record, error) {
	query := `
		SELECT id, version, body
		FROM documents
		WHERE collection = $1
		ORDER BY seq
	`

	rows, err := s.pool.Query(ctx, query, collection)
	if err != nil {
		return nil, store.Unavailable("fetch "+collection, err)
	}
	defer rows.Close()

	var records []store.Record
	for rows.Next() {
		var rec store.Record
		if err := rows.Scan(&rec.ID, &rec.Version, &rec.Data); err != nil {
			return nil, store.Unavailable("scan "+collection, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Unavailable("fetch "+collection, err)
	}

	return records, nil
}

// RunInTx открывает транзакцию; Get внутри неё блокирует строку (FOR UPDATE)
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx store.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return store.Unavailable("begin tx", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(ctx, &ops{q: tx, forUpdate: true}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return store.Unavailable("commit tx", err)
	}
	return nil
}

// Close пул закрывается в main, здесь ничего не делаем
func (s *Store) Close(context.Context) error { return nil }

type ops struct {
	q         querier
	forUpdate bool
}

func (o *ops) Get(ctx context.Context, collection, id string) (store.Record, error) {
	query := `
		SELECT id, version, body
		FROM documents
		WHERE collection = $1 AND id = $2
	`
	if o.forUpdate {
		query += " FOR UPDATE"
	}

	var rec store.Record
	err := o.q.QueryRow(ctx, query, collection, id).Scan(&rec.ID, &rec.Version, &rec.Data)
	if err != nil {
		if isNotFound(err) {
			return store.Record{}, store.NotFound(collection, id)
		}
		return store.Record{}, store.Unavailable("get "+collection, err)
	}

	return rec, nil
}

func (o *ops) Insert(ctx context.Context, collection, id string, doc store.Document) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}

	query := `
		INSERT INTO documents (collection, id, body)
		VALUES ($1, $2, $3)
		ON CONFLICT (collection, id) DO NOTHING
	`

	affected, err := execAffected(ctx, o.q, query, collection, id, store.Strip(doc))
	if err != nil {
		return "", store.Unavailable("insert "+collection, err)
	}
	if affected == 0 {
		return "", store.VersionConflict(collection, id, 0)
	}

	return id, nil
}

func (o *ops) Update(ctx context.Context, collection, id string, patch store.Document) error {
	query := `
		UPDATE documents
		SET body = body || $3::jsonb, version = version + 1, updated_at = now()
		WHERE collection = $1 AND id = $2
	`

	affected, err := execAffected(ctx, o.q, query, collection, id, store.Strip(patch))
	if err != nil {
		return store.Unavailable("update "+collection, err)
	}
	if affected == 0 {
		return store.NotFound(collection, id)
	}

	return nil
}

func (o *ops) CompareAndUpdate(ctx context.Context, collection, id string, expectedVersion int64, patch store.Document) error {
	query := `
		UPDATE documents
		SET body = body || $3::jsonb, version = version + 1, updated_at = now()
		WHERE collection = $1 AND id = $2 AND version = $4
	`

	affected, err := execAffected(ctx, o.q, query, collection, id, store.Strip(patch), expectedVersion)
	if err != nil {
		return store.Unavailable("compare and update "+collection, err)
	}
	if affected > 0 {
		return nil
	}

	// отличаем удалённую запись от устаревшей версии
	if _, err := o.Get(ctx, collection, id); err != nil {
		return err
	}
	return store.VersionConflict(collection, id, expectedVersion)
}

func (o *ops) Remove(ctx context.Context, collection, id string) error {
	query := `DELETE FROM documents WHERE collection = $1 AND id = $2`

	affected, err := execAffected(ctx, o.q, query, collection, id)
	if err != nil {
		return store.Unavailable("remove "+collection, err)
	}
	if affected == 0 {
		return store.NotFound(collection, id)
	}

	return nil
}
