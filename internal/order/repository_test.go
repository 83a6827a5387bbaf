package order

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"agrocycle-be/internal/produce"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderColumns() []string {
	return []string{
		"id", "customer_id", "producer_id", "total", "status",
		"payment_status", "created_at", "updated_at",
	}
}

// stockDeductPattern pins the full deduction statement: the availability and
// quantity guard plus the sold-out flip at zero, not just the statement head.
const stockDeductPattern = `UPDATE produce_units\s+SET\s+quantity = quantity - \$1,\s+status = CASE WHEN quantity - \$1 <= 0 THEN 'sold_out' ELSE status END,\s+updated_at = NOW\(\)\s+WHERE id = \$2 AND status = 'available' AND quantity >= \$1`

func TestRepository_CreateOrderTx(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer mockDB.Close()

		repo := NewRepository(mockDB)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT producer_id, price FROM produce_units WHERE id = \$1`).
			WithArgs("u1").
			WillReturnRows(sqlmock.NewRows([]string{"producer_id", "price"}).AddRow("farmer-1", 30.0))
		mock.ExpectExec(stockDeductPattern).
			WithArgs(10.0, "u1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO orders`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO order_items`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		order, err := repo.CreateOrderTx(ctx, "customer-1", "farmer-1", []NewLineItem{
			{ProduceID: "u1", Quantity: 10},
		})

		require.NoError(t, err)
		assert.Equal(t, 300.0, order.Total)
		assert.Equal(t, StatusPending, order.Status)
		assert.Equal(t, PaymentUnpaid, order.PaymentStatus)
		require.Len(t, order.Items, 1)
		assert.Equal(t, 30.0, order.Items[0].UnitPrice)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("InsufficientStockRollsBack", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer mockDB.Close()

		repo := NewRepository(mockDB)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT producer_id, price FROM produce_units WHERE id = \$1`).
			WithArgs("u1").
			WillReturnRows(sqlmock.NewRows([]string{"producer_id", "price"}).AddRow("farmer-1", 30.0))
		// Conditional deduction matches zero rows: requested 50 from a 40kg unit.
		mock.ExpectExec(stockDeductPattern).
			WithArgs(50.0, "u1").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		_, err = repo.CreateOrderTx(ctx, "customer-1", "farmer-1", []NewLineItem{
			{ProduceID: "u1", Quantity: 50},
		})

		assert.ErrorIs(t, err, ErrInsufficientStock)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("SecondItemFailureRollsBackFirstDeduction", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer mockDB.Close()

		repo := NewRepository(mockDB)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT producer_id, price FROM produce_units WHERE id = \$1`).
			WithArgs("u1").
			WillReturnRows(sqlmock.NewRows([]string{"producer_id", "price"}).AddRow("farmer-1", 30.0))
		mock.ExpectExec(stockDeductPattern).
			WithArgs(5.0, "u1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT producer_id, price FROM produce_units WHERE id = \$1`).
			WithArgs("u2").
			WillReturnRows(sqlmock.NewRows([]string{"producer_id", "price"}).AddRow("farmer-1", 20.0))
		mock.ExpectExec(stockDeductPattern).
			WithArgs(99.0, "u2").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		_, err = repo.CreateOrderTx(ctx, "customer-1", "farmer-1", []NewLineItem{
			{ProduceID: "u1", Quantity: 5},
			{ProduceID: "u2", Quantity: 99},
		})

		assert.ErrorIs(t, err, ErrInsufficientStock)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UnknownUnit", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer mockDB.Close()

		repo := NewRepository(mockDB)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT producer_id, price FROM produce_units WHERE id = \$1`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		_, err = repo.CreateOrderTx(ctx, "customer-1", "farmer-1", []NewLineItem{
			{ProduceID: "missing", Quantity: 1},
		})

		assert.ErrorIs(t, err, produce.ErrUnitNotFound)
	})

	t.Run("ForeignProduce", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer mockDB.Close()

		repo := NewRepository(mockDB)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT producer_id, price FROM produce_units WHERE id = \$1`).
			WithArgs("u1").
			WillReturnRows(sqlmock.NewRows([]string{"producer_id", "price"}).AddRow("farmer-2", 30.0))
		mock.ExpectRollback()

		_, err = repo.CreateOrderTx(ctx, "customer-1", "farmer-1", []NewLineItem{
			{ProduceID: "u1", Quantity: 1},
		})

		assert.ErrorIs(t, err, ErrForeignProduce)
	})
}

func TestRepository_GetByID(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	repo := NewRepository(mockDB)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows(orderColumns()).
			AddRow("o1", "customer-1", "farmer-1", 300.0, "pending", "unpaid", time.Now(), time.Now())
		itemRows := sqlmock.NewRows([]string{"id", "order_id", "produce_id", "quantity", "unit_price", "subtotal"}).
			AddRow("li1", "o1", "u1", 10.0, 30.0, 300.0)

		mock.ExpectQuery(`SELECT .* FROM orders WHERE id = \$1`).
			WithArgs("o1").
			WillReturnRows(rows)
		mock.ExpectQuery(`SELECT .* FROM order_items WHERE order_id = \$1`).
			WithArgs("o1").
			WillReturnRows(itemRows)

		o, err := repo.GetByID(ctx, "o1")
		require.NoError(t, err)
		assert.Equal(t, 300.0, o.Total)
		assert.Len(t, o.Items, 1)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM orders WHERE id = \$1`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestRepository_ListByCustomer(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	repo := NewRepository(mockDB)
	ctx := context.Background()

	rows := sqlmock.NewRows(orderColumns()).
		AddRow("o1", "customer-1", "farmer-1", 300.0, "pending", "unpaid", time.Now(), time.Now()).
		AddRow("o2", "customer-1", "farmer-2", 120.0, "delivered", "paid", time.Now(), time.Now())

	mock.ExpectQuery(`SELECT .* FROM orders WHERE customer_id = \$1 ORDER BY created_at DESC`).
		WithArgs("customer-1").
		WillReturnRows(rows)

	orders, err := repo.ListByCustomer(ctx, "customer-1")
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}

func TestRepository_UpdateStatus(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	repo := NewRepository(mockDB)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`UPDATE orders SET status = \$1`).
			WithArgs(StatusShipped, "o1", StatusPending).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.UpdateStatus(ctx, "o1", StatusPending, StatusShipped))
	})

	t.Run("DBError", func(t *testing.T) {
		mock.ExpectExec(`UPDATE orders SET status = \$1`).
			WillReturnError(errors.New("db error"))

		assert.Error(t, repo.UpdateStatus(ctx, "o1", StatusPending, StatusShipped))
	})
}

func TestRepository_MarkPaid(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	repo := NewRepository(mockDB)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`UPDATE orders SET payment_status = 'paid'`).
			WithArgs("o1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.MarkPaid(ctx, "o1"))
	})

	t.Run("AlreadyPaid", func(t *testing.T) {
		mock.ExpectExec(`UPDATE orders SET payment_status = 'paid'`).
			WithArgs("o1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		rows := sqlmock.NewRows(orderColumns()).
			AddRow("o1", "customer-1", "farmer-1", 300.0, "pending", "paid", time.Now(), time.Now())
		mock.ExpectQuery(`SELECT .* FROM orders WHERE id = \$1`).
			WithArgs("o1").
			WillReturnRows(rows)
		mock.ExpectQuery(`SELECT .* FROM order_items WHERE order_id = \$1`).
			WithArgs("o1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "produce_id", "quantity", "unit_price", "subtotal"}))

		err := repo.MarkPaid(ctx, "o1")
		assert.ErrorIs(t, err, ErrAlreadyPaid)
	})
}
