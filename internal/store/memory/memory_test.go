package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/Freeeeeet/salon_scheduler/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_InsertGetUpdate(t *testing.T) {
	ctx := context.Background()
	s := New()

	id, err := s.Insert(ctx, store.CollectionCustomers, "", store.Document{
		"name":  "Ayşe",
		"phone": "5551234567",
		"tags":  []any{"vip"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	rec, err := s.Get(ctx, store.CollectionCustomers, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rec.Version)
	assert.Equal(t, "Ayşe", rec.Data["name"])

	// изменения возвращённого документа не попадают в хранилище
	rec.Data["tags"].([]any)[0] = "changed"

	require.NoError(t, s.Update(ctx, store.CollectionCustomers, id, store.Document{"phone": "5550000000"}))

	rec, err = s.Get(ctx, store.CollectionCustomers, id)
	require.NoError(t, err)
	assert.Equal(t, int64(2), rec.Version)
	assert.Equal(t, "Ayşe", rec.Data["name"], "update merges fields")
	assert.Equal(t, "5550000000", rec.Data["phone"])
	assert.Equal(t, []any{"vip"}, rec.Data["tags"])
}

func TestStore_InsertDuplicateID(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.Insert(ctx, store.CollectionCustomers, "c1", store.Document{})
	require.NoError(t, err)

	_, err = s.Insert(ctx, store.CollectionCustomers, "c1", store.Document{})
	assert.ErrorIs(t, err, store.ErrVersionConflict)
}

func TestStore_CompareAndUpdate(t *testing.T) {
	ctx := context.Background()
	s := New()

	id, err := s.Insert(ctx, store.CollectionPaymentPlans, "p1", store.Document{"status": "ongoing"})
	require.NoError(t, err)

	require.NoError(t, s.CompareAndUpdate(ctx, store.CollectionPaymentPlans, id, 1, store.Document{"status": "completed"}))

	err = s.CompareAndUpdate(ctx, store.CollectionPaymentPlans, id, 1, store.Document{"status": "ongoing"})
	assert.ErrorIs(t, err, store.ErrVersionConflict)

	rec, err := s.Get(ctx, store.CollectionPaymentPlans, id)
	require.NoError(t, err)
	assert.Equal(t, "completed", rec.Data["status"])
	assert.Equal(t, int64(2), rec.Version)
}

func TestStore_NotFound(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.Get(ctx, store.CollectionAppointments, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.Update(ctx, store.CollectionAppointments, "missing", store.Document{}), store.ErrNotFound)
	assert.ErrorIs(t, s.CompareAndUpdate(ctx, store.CollectionAppointments, "missing", 1, store.Document{}), store.ErrNotFound)
	assert.ErrorIs(t, s.Remove(ctx, store.CollectionAppointments, "missing"), store.ErrNotFound)
}

func TestStore_FetchAllKeepsInsertOrder(t *testing.T) {
	ctx := context.Background()
	s := New()

	for _, id := range []string{"c", "a", "b"} {
		_, err := s.Insert(ctx, store.CollectionAppointments, id, store.Document{})
		require.NoError(t, err)
	}
	require.NoError(t, s.Remove(ctx, store.CollectionAppointments, "a"))

	records, err := s.FetchAll(ctx, store.CollectionAppointments)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "c", records[0].ID)
	assert.Equal(t, "b", records[1].ID)

	empty, err := s.FetchAll(ctx, store.CollectionCustomers)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestStore_RunInTxCommitsAtomically(t *testing.T) {
	ctx := context.Background()
	s := New()

	err := s.RunInTx(ctx, func(ctx context.Context, tx store.Tx) error {
		if _, err := tx.Insert(ctx, store.CollectionCustomerPackages, "pkg", store.Document{"paymentPlanId": "plan"}); err != nil {
			return err
		}
		_, err := tx.Insert(ctx, store.CollectionPaymentPlans, "plan", store.Document{"customerPackageId": "pkg"})
		return err
	})
	require.NoError(t, err)

	_, err = s.Get(ctx, store.CollectionCustomerPackages, "pkg")
	require.NoError(t, err)
	_, err = s.Get(ctx, store.CollectionPaymentPlans, "plan")
	require.NoError(t, err)
}

func TestStore_RunInTxRollsBack(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.Insert(ctx, store.CollectionPaymentPlans, "plan", store.Document{"status": "ongoing"})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = s.RunInTx(ctx, func(ctx context.Context, tx store.Tx) error {
		if _, err := tx.Insert(ctx, store.CollectionCustomerPackages, "pkg", store.Document{}); err != nil {
			return err
		}
		if err := tx.Update(ctx, store.CollectionPaymentPlans, "plan", store.Document{"status": "completed"}); err != nil {
			return err
		}
		if err := tx.Remove(ctx, store.CollectionPaymentPlans, "plan"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.Get(ctx, store.CollectionCustomerPackages, "pkg")
	assert.ErrorIs(t, err, store.ErrNotFound)

	rec, err := s.Get(ctx, store.CollectionPaymentPlans, "plan")
	require.NoError(t, err)
	assert.Equal(t, "ongoing", rec.Data["status"])
	assert.Equal(t, int64(1), rec.Version)
}

func TestStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().FetchAll(ctx, store.CollectionCustomers)
	assert.ErrorIs(t, err, store.ErrStoreUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
}
