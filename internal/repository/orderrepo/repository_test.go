package orderrepo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitrine/internal/domain"
	apperror "vitrine/internal/errors"
	"vitrine/internal/pkg/logger"
	"vitrine/internal/repository/orderrepo"
)

var (
	orderColumns = []string{
		"id", "owner_id", "status", "payment_method", "customer", "subtotal", "shipping", "total", "created_at", "updated_at",
	}
	itemColumns = []string{
		"order_id", "position", "product_id", "name", "image", "size", "price", "quantity", "line_total",
	}
	customerJSON = []byte(`{"name":"Maria Souza","phone":"11987654321","address":{"zip_code":"01310100","street":"Av. Paulista","number":"1000","city":"São Paulo","state":"SP"}}`)
)

func newRepo(t *testing.T) (*orderrepo.OrderRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return orderrepo.NewOrderRepository(sqlx.NewDb(db, "postgres"), time.Second, logger.NewNopLogger()), sqlMock
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSave_InsertsOrderAndItemsInOneTransaction(t *testing.T) {
	repo, sqlMock := newRepo(t)
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	order := domain.Order{
		ID:            "o1",
		Status:        domain.StatusPendingPayment,
		PaymentMethod: domain.PaymentPix,
		Customer:      domain.Customer{Name: "Maria Souza"},
		Items: []domain.OrderItem{
			{ProductID: "camiseta", Name: "Camiseta", Size: "M", Price: money("79.90"), Quantity: 2, LineTotal: money("159.80")},
			{ProductID: "bone", Name: "Boné", Price: money("39.90"), Quantity: 1, LineTotal: money("39.90")},
		},
		Subtotal:  money("199.70"),
		Total:     money("199.70"),
		CreatedAt: now,
		UpdatedAt: now,
	}

	sqlMock.ExpectBegin()
	sqlMock.ExpectExec("INSERT INTO orders").
		WithArgs("o1", nil, "pending_payment", "pix", sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	sqlMock.ExpectExec("INSERT INTO order_items").
		WithArgs("o1", 0, "camiseta", "Camiseta", "", "M", "79.9", 2, "159.8").
		WillReturnResult(sqlmock.NewResult(0, 1))
	sqlMock.ExpectExec("INSERT INTO order_items").
		WithArgs("o1", 1, "bone", "Boné", "", "", "39.9", 1, "39.9").
		WillReturnResult(sqlmock.NewResult(0, 1))
	sqlMock.ExpectCommit()

	require.NoError(t, repo.Save(context.Background(), order))
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestSave_ItemFailureRollsBack(t *testing.T) {
	repo, sqlMock := newRepo(t)

	sqlMock.ExpectBegin()
	sqlMock.ExpectExec("INSERT INTO orders").WillReturnResult(sqlmock.NewResult(0, 1))
	sqlMock.ExpectExec("INSERT INTO order_items").WillReturnError(errors.New("violação de chave"))
	sqlMock.ExpectRollback()

	err := repo.Save(context.Background(), domain.Order{
		ID:      "o1",
		OwnerID: "u1",
		Items:   []domain.OrderItem{{ProductID: "bone", Quantity: 1}},
	})

	var persistErr *apperror.PersistenceError
	require.ErrorAs(t, err, &persistErr)
	assert.Equal(t, "orders", persistErr.Collection)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestFindAll_GroupsItemsByOrder(t *testing.T) {
	repo, sqlMock := newRepo(t)
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	sqlMock.ExpectQuery("SELECT (.+) FROM orders ORDER BY created_at DESC").
		WillReturnRows(sqlmock.NewRows(orderColumns).
			AddRow("o2", "u1", "paid", "credit", customerJSON, "39.90", "15", "54.90", now.Add(time.Hour), now.Add(time.Hour)).
			AddRow("o1", nil, "pending_payment", "pix", customerJSON, "159.80", "0", "159.80", now, now))
	sqlMock.ExpectQuery("SELECT (.+) FROM order_items ORDER BY order_id, position").
		WillReturnRows(sqlmock.NewRows(itemColumns).
			AddRow("o1", 0, "camiseta", "Camiseta", "c.jpg", "M", "79.90", 2, "159.80").
			AddRow("o2", 0, "bone", "Boné", "b.jpg", "", "39.90", 1, "39.90"))

	orders, err := repo.FindAll(context.Background())

	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "o2", orders[0].ID)
	assert.Equal(t, "u1", orders[0].OwnerID)
	assert.Equal(t, domain.StatusPaid, orders[0].Status)
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, "bone", orders[0].Items[0].ProductID)

	assert.Equal(t, "", orders[1].OwnerID)
	assert.Equal(t, "SP", orders[1].Customer.Address.State)
	require.Len(t, orders[1].Items, 1)
	assert.Equal(t, 2, orders[1].Items[0].Quantity)
	assert.True(t, orders[1].Total.Equal(money("159.80")))
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestFindByID_NotFound(t *testing.T) {
	repo, sqlMock := newRepo(t)

	sqlMock.ExpectQuery("SELECT (.+) FROM orders WHERE id = ").
		WithArgs("nao-existe").
		WillReturnRows(sqlmock.NewRows(orderColumns))

	_, err := repo.FindByID(context.Background(), "nao-existe")

	assert.True(t, apperror.IsNotFound(err))
}

func TestFindByID_DatabaseErrorIsPersistenceError(t *testing.T) {
	repo, sqlMock := newRepo(t)

	sqlMock.ExpectQuery("SELECT (.+) FROM orders WHERE id = ").WillReturnError(errors.New("conexão recusada"))

	_, err := repo.FindByID(context.Background(), "o1")

	assert.IsType(t, &apperror.PersistenceError{}, err)
	assert.False(t, apperror.IsNotFound(err))
}

func TestUpdateStatusAndDelete_RowsAffected(t *testing.T) {
	repo, sqlMock := newRepo(t)
	ctx := context.Background()
	at := time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)

	sqlMock.ExpectExec("UPDATE orders SET status").
		WithArgs("shipped", at, "o1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	sqlMock.ExpectExec("UPDATE orders SET status").
		WithArgs("shipped", at, "o9").
		WillReturnResult(sqlmock.NewResult(0, 0))
	sqlMock.ExpectExec("DELETE FROM orders").
		WithArgs("o9").
		WillReturnResult(sqlmock.NewResult(0, 0))
	sqlMock.ExpectExec("DELETE FROM orders").
		WithArgs("o1").
		WillReturnResult(sqlmock.NewErrorResult(errors.New("driver sem RowsAffected")))

	assert.NoError(t, repo.UpdateStatus(ctx, "o1", domain.StatusShipped, at))
	assert.True(t, apperror.IsNotFound(repo.UpdateStatus(ctx, "o9", domain.StatusShipped, at)))
	assert.True(t, apperror.IsNotFound(repo.Delete(ctx, "o9")))
	assert.IsType(t, &apperror.PersistenceError{}, repo.Delete(ctx, "o1"))
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}
