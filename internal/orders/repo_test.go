package orders

import (
	"context"
	"testing"
	"time"

	"github.com/davidnier/storefront-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryFindByIDLoadsItems(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := mustCreateWorkboardProduct(t, db, enums.DepartmentGrocery)
	created := mustCreateOrder(t, db, enums.OrderStatusPending, time.Now().UTC(), product)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	require.Len(t, found.Items, 1)
	assert.Equal(t, product.ID, found.Items[0].ProductID)
	assert.Equal(t, product.Name, found.Items[0].ProductName)
}

func TestRepositoryWorkboardExcludesTerminalOrders(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	open := mustCreateOrder(t, db, enums.OrderStatusPending, now)
	preparing := mustCreateOrder(t, db, enums.OrderStatusPreparing, now.Add(time.Second))
	complete := mustCreateOrder(t, db, enums.OrderStatusComplete, now.Add(2*time.Second))
	canceled := mustCreateOrder(t, db, enums.OrderStatusCanceled, now.Add(3*time.Second))

	rows, _, err := repo.ListWorkboard(ctx, WorkboardQuery{})
	require.NoError(t, err)

	ids := orderIDs(rows)
	assert.Contains(t, ids, open.ID)
	assert.Contains(t, ids, preparing.ID)
	assert.NotContains(t, ids, complete.ID)
	assert.NotContains(t, ids, canceled.ID)
}

func TestRepositoryWorkboardOrdersOldestFirst(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	newest := mustCreateOrder(t, db, enums.OrderStatusPending, base.Add(20*time.Second))
	oldest := mustCreateOrder(t, db, enums.OrderStatusPending, base)
	middle := mustCreateOrder(t, db, enums.OrderStatusAccepted, base.Add(10*time.Second))

	rows, _, err := repo.ListWorkboard(ctx, WorkboardQuery{})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []uuid.UUID{oldest.ID, middle.ID, newest.ID}, orderIDs(rows))
}

func TestRepositoryWorkboardFiltersByDepartment(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	butcherProduct := mustCreateWorkboardProduct(t, db, enums.DepartmentButcher)
	groceryProduct := mustCreateWorkboardProduct(t, db, enums.DepartmentGrocery)

	now := time.Now().UTC()
	butcherOrder := mustCreateOrder(t, db, enums.OrderStatusPending, now, butcherProduct)
	groceryOrder := mustCreateOrder(t, db, enums.OrderStatusPending, now.Add(time.Second), groceryProduct)
	mixedOrder := mustCreateOrder(t, db, enums.OrderStatusPending, now.Add(2*time.Second), butcherProduct, groceryProduct)

	department := enums.DepartmentButcher
	rows, _, err := repo.ListWorkboard(ctx, WorkboardQuery{Department: &department})
	require.NoError(t, err)

	ids := orderIDs(rows)
	assert.Contains(t, ids, butcherOrder.ID)
	assert.Contains(t, ids, mixedOrder.ID)
	assert.NotContains(t, ids, groceryOrder.ID)
}

func TestRepositoryWorkboardPagesWithCursor(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	first := mustCreateOrder(t, db, enums.OrderStatusPending, base)
	second := mustCreateOrder(t, db, enums.OrderStatusPending, base.Add(10*time.Second))
	third := mustCreateOrder(t, db, enums.OrderStatusPending, base.Add(20*time.Second))

	query := WorkboardQuery{}
	query.Pagination.Limit = 2
	rows, cursor, err := repo.ListWorkboard(ctx, query)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.NotEmpty(t, cursor)
	assert.Equal(t, []uuid.UUID{first.ID, second.ID}, orderIDs(rows))

	query.Pagination.Cursor = cursor
	rows, cursor, err = repo.ListWorkboard(ctx, query)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, third.ID, rows[0].ID)
	assert.Empty(t, cursor)
}

func TestRepositoryUpdateOrderTotalsPersistsItems(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := mustCreateWorkboardProduct(t, db, enums.DepartmentDeli)
	order := mustCreateOrder(t, db, enums.OrderStatusPending, time.Now().UTC(), product)

	order.Status = enums.OrderStatusReady
	order.Subtotal = decimal.RequireFromString("9.99")
	order.TaxTotal = decimal.RequireFromString("0.87")
	order.GrandTotal = decimal.RequireFromString("10.86")
	order.Items[0].LineTotal = decimal.RequireFromString("9.99")
	order.Items[0].TaxAmount = decimal.RequireFromString("0.87")

	require.NoError(t, repo.UpdateOrderTotals(ctx, order))

	reloaded, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusReady, reloaded.Status)
	assert.Equal(t, "9.99", reloaded.Subtotal.StringFixed(2))
	assert.Equal(t, "10.86", reloaded.GrandTotal.StringFixed(2))
	require.Len(t, reloaded.Items, 1)
	assert.Equal(t, "9.99", reloaded.Items[0].LineTotal.StringFixed(2))
	assert.Equal(t, "0.87", reloaded.Items[0].TaxAmount.StringFixed(2))
}

func TestRepositoryCreateOrderItemsEmptySliceIsNoop(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	require.NoError(t, repo.CreateOrderItems(context.Background(), nil))
}
