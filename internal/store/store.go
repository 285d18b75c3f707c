// Package store описывает документное хранилище, через которое сервисы
// читают и пишут записи. Реализации лежат в подпакетах.
package store

import (
	"context"
	"errors"
	"fmt"
)

// Коллекции, которые использует приложение
const (
	CollectionCustomers        = "customers"
	CollectionAppointments     = "appointments"
	CollectionPackageTemplates = "packageTemplates"
	CollectionCustomerPackages = "customerPackages"
	CollectionPaymentPlans     = "paymentPlans"
)

// Collections все известные коллекции
var Collections = []string{
	CollectionCustomers,
	CollectionAppointments,
	CollectionPackageTemplates,
	CollectionCustomerPackages,
	CollectionPaymentPlans,
}

var (
	ErrNotFound         = errors.New("record not found")
	ErrVersionConflict  = errors.New("record version conflict")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// Document тело записи в виде JSON-совместимого дерева
type Document = map[string]any

// Record запись вместе с идентификатором и версией.
// Версия начинается с 1 и растёт на каждом изменении.
type Record struct {
	ID      string
	Version int64
	Data    Document
}

// Tx операции, доступные внутри транзакции
type Tx interface {
	Get(ctx context.Context, collection, id string) (Record, error)
	// Insert сохраняет документ; при пустом id хранилище назначает его само
	Insert(ctx context.Context, collection, id string, doc Document) (string, error)
	// Update сливает patch с документом на верхнем уровне
	Update(ctx context.Context, collection, id string, patch Document) error
	// CompareAndUpdate как Update, но только если версия не изменилась
	CompareAndUpdate(ctx context.Context, collection, id string, expectedVersion int64, patch Document) error
	Remove(ctx context.Context, collection, id string) error
}

// Store документное хранилище
type Store interface {
	Tx
	FetchAll(ctx context.Context, collection string) ([]Record, error)
	// RunInTx выполняет fn атомарно. Внутри fn нужно использовать переданные ctx и tx.
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	Close(ctx context.Context) error
}

// Unavailable оборачивает ошибку драйвера в ErrStoreUnavailable
func Unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}

// NotFound ошибка отсутствующей записи
func NotFound(collection, id string) error {
	return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
}

// VersionConflict ошибка устаревшей версии
func VersionConflict(collection, id string, expected int64) error {
	return fmt.Errorf("%s/%s at version %d: %w", collection, id, expected, ErrVersionConflict)
}

// Strip убирает служебные поля, которые хранилище держит отдельно от тела
func Strip(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		switch k {
		case FieldID, FieldVersion, "_id":
			continue
		}
		out[k] = v
	}
	return out
}

// Служебные поля документа
const (
	FieldID      = "id"
	FieldVersion = "version"
)
