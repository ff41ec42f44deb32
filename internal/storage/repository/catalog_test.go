package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/syara/internal/models"
)

func TestCars(t *testing.T) {
	st, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()
	repo := NewManager().Cars(st.DB)

	want := testCar("Toyota", "Camry")
	created, err := repo.Create(ctx, want)
	require.NoError(t, err)
	want.ID = created.ID
	assert.Equal(t, want, *created)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, want, *got)

	missing, err := repo.GetByID(ctx, created.ID+1)
	require.NoError(t, err)
	assert.Nil(t, missing)

	newTestDataFactory(st).createCar(t, "Honda", "Civic")
	list, err := repo.List(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Toyota", list[0].Brand)
	assert.Equal(t, "Honda", list[1].Brand)
}

func TestOrders(t *testing.T) {
	st, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()
	carID := newTestDataFactory(st).createCar(t, "Toyota", "Camry")
	repo := NewManager().Orders(st.DB)

	o, err := repo.Create(ctx, models.OrderCreate{CarID: carID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, carID, o.CarID)
	assert.Equal(t, 2, o.Quantity)
	assert.False(t, o.CreatedAt.IsZero())

	_, err = repo.Create(ctx, models.OrderCreate{CarID: carID + 100, Quantity: 1})
	require.Error(t, err, "foreign key must reject unknown car")

	list, err := repo.List(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, o.ID, list[0].ID)
}
