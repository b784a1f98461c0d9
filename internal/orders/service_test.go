package orders

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/davidnier/storefront-backend/pkg/enums"
	pkgerrors "github.com/davidnier/storefront-backend/pkg/errors"
	"github.com/davidnier/storefront-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestOrderService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	db := setupOrdersTestDB(t)
	opts := TotalsOptions{DefaultRate: decimal.RequireFromString("0.0875")}
	svc, err := NewService(NewRepository(db), testTxRunner{db: db}, opts, nil, testLogger())
	require.NoError(t, err)
	return svc, db
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "orders-test", Output: &bytes.Buffer{}})
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, code, appErr.Code())
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	db := setupOrdersTestDB(t)

	_, err := NewService(nil, testTxRunner{db: db}, TotalsOptions{}, nil, testLogger())
	assert.Error(t, err)

	_, err = NewService(NewRepository(db), nil, TotalsOptions{}, nil, testLogger())
	assert.Error(t, err)

	_, err = NewService(NewRepository(db), testTxRunner{db: db}, TotalsOptions{}, nil, nil)
	assert.Error(t, err)
}

func TestServiceGetOrder(t *testing.T) {
	svc, db := newTestOrderService(t)
	ctx := context.Background()

	product := mustCreateWorkboardProduct(t, db, enums.DepartmentBakery)
	order := mustCreateOrder(t, db, enums.OrderStatusPending, time.Now().UTC(), product)

	dto, err := svc.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, dto.ID)
	assert.Equal(t, "pending", dto.Status)
	require.Len(t, dto.Items, 1)

	_, err = svc.GetOrder(ctx, uuid.New())
	assertCode(t, err, pkgerrors.CodeNotFound)

	_, err = svc.GetOrder(ctx, uuid.Nil)
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestServiceSetStatusInvalidValue(t *testing.T) {
	svc, _ := newTestOrderService(t)

	_, err := svc.SetStatus(context.Background(), SetStatusInput{OrderID: uuid.New(), Status: "shipped"})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestServiceSetStatusMissingOrder(t *testing.T) {
	svc, _ := newTestOrderService(t)

	_, err := svc.SetStatus(context.Background(), SetStatusInput{OrderID: uuid.New(), Status: "accepted"})
	assertCode(t, err, pkgerrors.CodeNotFound)
}

func TestServiceSetStatusCompleteStampsAndRecomputes(t *testing.T) {
	svc, db := newTestOrderService(t)
	ctx := context.Background()

	product := mustCreateWorkboardProduct(t, db, enums.DepartmentProduce)
	order := mustCreateOrder(t, db, enums.OrderStatusReady, time.Now().UTC(), product)
	order.Items[0].Quantity = decimal.NewFromInt(2)
	require.NoError(t, db.Save(&order.Items[0]).Error)

	dto, err := svc.SetStatus(ctx, SetStatusInput{OrderID: order.ID, Status: "complete"})
	require.NoError(t, err)
	assert.Equal(t, "complete", dto.Status)
	require.NotNil(t, dto.CompletedAt)
	assert.WithinDuration(t, time.Now().UTC(), *dto.CompletedAt, 5*time.Second)

	// 9.99 x 2 at 8.75%
	assert.Equal(t, "19.98", dto.Subtotal.StringFixed(2))
	assert.Equal(t, "1.75", dto.TaxTotal.StringFixed(2))
	assert.Equal(t, "21.73", dto.GrandTotal.StringFixed(2))
}

func TestServiceSetStatusKeepsCompletedAtWhenReopened(t *testing.T) {
	svc, db := newTestOrderService(t)
	ctx := context.Background()

	order := mustCreateOrder(t, db, enums.OrderStatusReady, time.Now().UTC())

	completed, err := svc.SetStatus(ctx, SetStatusInput{OrderID: order.ID, Status: "complete"})
	require.NoError(t, err)
	require.NotNil(t, completed.CompletedAt)

	reopened, err := svc.SetStatus(ctx, SetStatusInput{OrderID: order.ID, Status: "preparing"})
	require.NoError(t, err)
	assert.Equal(t, "preparing", reopened.Status)
	require.NotNil(t, reopened.CompletedAt)
}

func TestServiceSetStatusAllowsBackwardMove(t *testing.T) {
	svc, db := newTestOrderService(t)

	order := mustCreateOrder(t, db, enums.OrderStatusReady, time.Now().UTC())

	dto, err := svc.SetStatus(context.Background(), SetStatusInput{OrderID: order.ID, Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, "pending", dto.Status)
}

func TestServiceBulkSetStatusSkipsMissing(t *testing.T) {
	svc, db := newTestOrderService(t)
	ctx := context.Background()

	first := mustCreateOrder(t, db, enums.OrderStatusPending, time.Now().UTC())
	second := mustCreateOrder(t, db, enums.OrderStatusPending, time.Now().UTC())

	affected, err := svc.BulkSetStatus(ctx, BulkSetStatusInput{
		OrderIDs: []uuid.UUID{first.ID, uuid.New(), second.ID},
		Status:   "accepted",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, affected)

	reloaded, err := svc.GetOrder(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "accepted", reloaded.Status)
}

func TestServiceBulkSetStatusValidation(t *testing.T) {
	svc, _ := newTestOrderService(t)
	ctx := context.Background()

	_, err := svc.BulkSetStatus(ctx, BulkSetStatusInput{Status: "accepted"})
	assertCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.BulkSetStatus(ctx, BulkSetStatusInput{OrderIDs: []uuid.UUID{uuid.New()}, Status: "bogus"})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestServiceListWorkboardUnknownDepartment(t *testing.T) {
	svc, _ := newTestOrderService(t)

	unknown := "florist"
	_, err := svc.ListWorkboard(context.Background(), WorkboardInput{Department: &unknown})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestServiceListWorkboardReturnsOpenOrders(t *testing.T) {
	svc, db := newTestOrderService(t)
	ctx := context.Background()

	now := time.Now().UTC()
	open := mustCreateOrder(t, db, enums.OrderStatusPending, now)
	mustCreateOrder(t, db, enums.OrderStatusComplete, now.Add(time.Second))

	result, err := svc.ListWorkboard(ctx, WorkboardInput{})
	require.NoError(t, err)
	require.Len(t, result.Orders, 1)
	assert.Equal(t, open.ID, result.Orders[0].ID)
	assert.Empty(t, result.NextCursor)
}
