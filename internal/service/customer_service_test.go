package service

import (
	"context"
	"testing"

	"github.com/Freeeeeet/salon_scheduler/internal/model"
	"github.com/Freeeeeet/salon_scheduler/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerService_Validation(t *testing.T) {
	f := newFixture(t, ConflictPolicyBlock)
	ctx := context.Background()

	cases := []model.Customer{
		{Name: "", Phone: "5551234567"},
		{Name: "Ayşe", Phone: "   "},
		{Name: "Ayşe", Phone: "5551234567", Email: "not-an-email"},
	}
	for _, c := range cases {
		assert.ErrorIs(t, f.customers.Create(ctx, &c), ErrInvalidInput)
	}
}

func TestCustomerService_CRUDAndSearch(t *testing.T) {
	f := newFixture(t, ConflictPolicyBlock)
	ctx := context.Background()

	ayse := &model.Customer{Name: "  Ayşe Yılmaz ", Phone: "0555 111 22 33"}
	require.NoError(t, f.customers.Create(ctx, ayse))
	assert.Equal(t, "Ayşe Yılmaz", ayse.Name)

	elif := &model.Customer{Name: "Elif Kaya", Phone: "0532 444 55 66", Email: "elif@example.com"}
	require.NoError(t, f.customers.Create(ctx, elif))

	list, err := f.customers.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Ayşe Yılmaz", list[0].Name)

	found, err := f.customers.Search(ctx, "kaya")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, elif.ID, found[0].ID)

	found, err = f.customers.Search(ctx, "111 22")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, ayse.ID, found[0].ID)

	byPhone, err := f.customers.FindByPhone(ctx, "05551112233")
	require.NoError(t, err)
	assert.Equal(t, ayse.ID, byPhone.ID)

	ayse.Notes = "hassas cilt"
	require.NoError(t, f.customers.Update(ctx, ayse))

	got, err := f.customers.Get(ctx, ayse.ID)
	require.NoError(t, err)
	assert.Equal(t, "hassas cilt", got.Notes)

	require.NoError(t, f.customers.Delete(ctx, ayse.ID))
	_, err = f.customers.Get(ctx, ayse.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
