package order

import (
	"context"
	"database/sql"
	"errors"

	"agrocycle-be/internal/db"
	"agrocycle-be/internal/logger"
	"agrocycle-be/internal/produce"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repository interface {
	CreateOrderTx(ctx context.Context, customerID, producerID string, items []NewLineItem) (*Order, error)
	GetByID(ctx context.Context, id string) (*Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*Order, error)
	ListByProducer(ctx context.Context, producerID string) ([]*Order, error)
	UpdateStatus(ctx context.Context, id string, from, to Status) error
	MarkPaid(ctx context.Context, id string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(database *sql.DB) Repository {
	return &repository{db: database}
}

// CreateOrderTx prices the requested line items, deducts stock, and records
// the order in one transaction. Each deduction is conditional on the current
// quantity, so two concurrent orders racing for the same unit cannot
// oversell: the loser's UPDATE matches zero rows and the whole order rolls
// back.
func (r *repository) CreateOrderTx(
	ctx context.Context,
	customerID, producerID string,
	items []NewLineItem,
) (*Order, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateOrderTx"),
		zap.String("customer_id", customerID),
		zap.String("producer_id", producerID),
		zap.Int("item_count", len(items)),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, db.WrapErr(err)
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	order := &Order{
		ID:            uuid.New().String(),
		CustomerID:    customerID,
		ProducerID:    producerID,
		Status:        StatusPending,
		PaymentStatus: PaymentUnpaid,
	}

	for _, item := range items {
		var (
			unitProducer string
			unitPrice    float64
		)
		err := tx.QueryRowContext(ctx, `
			SELECT producer_id, price
			FROM produce_units
			WHERE id = $1
		`, item.ProduceID).Scan(&unitProducer, &unitPrice)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, produce.ErrUnitNotFound
		}
		if err != nil {
			return nil, db.WrapErr(err)
		}

		if unitProducer != producerID {
			return nil, ErrForeignProduce
		}

		// Deduct stock; a unit that hits zero is sold out. The guard on
		// status and quantity is what rejects both out-of-stock and
		// non-available units.
		res, err := tx.ExecContext(ctx, `
			UPDATE produce_units
			SET
				quantity = quantity - $1,
				status = CASE WHEN quantity - $1 <= 0 THEN 'sold_out' ELSE status END,
				updated_at = NOW()
			WHERE id = $2 AND status = 'available' AND quantity >= $1
		`, item.Quantity, item.ProduceID)
		if err != nil {
			return nil, db.WrapErr(err)
		}

		affected, _ := res.RowsAffected()
		if affected == 0 {
			log.Warn("stock deduction rejected",
				zap.String("produce_id", item.ProduceID),
				zap.Float64("quantity", item.Quantity),
			)
			return nil, ErrInsufficientStock
		}

		subtotal := unitPrice * item.Quantity
		order.Items = append(order.Items, LineItem{
			ID:        uuid.New().String(),
			OrderID:   order.ID,
			ProduceID: item.ProduceID,
			Quantity:  item.Quantity,
			UnitPrice: unitPrice,
			Subtotal:  subtotal,
		})
		order.Total += subtotal
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, customer_id, producer_id, total, status, payment_status
		) VALUES ($1,$2,$3,$4,$5,$6)
	`,
		order.ID,
		order.CustomerID,
		order.ProducerID,
		order.Total,
		order.Status,
		order.PaymentStatus,
	)
	if err != nil {
		return nil, db.WrapErr(err)
	}

	for _, li := range order.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (
				id, order_id, produce_id, quantity, unit_price, subtotal
			) VALUES ($1,$2,$3,$4,$5,$6)
		`,
			li.ID,
			li.OrderID,
			li.ProduceID,
			li.Quantity,
			li.UnitPrice,
			li.Subtotal,
		)
		if err != nil {
			return nil, db.WrapErr(err)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit order transaction", zap.Error(err))
		return nil, db.WrapErr(err)
	}

	committed = true
	log.Info("order transaction committed",
		zap.String("order_id", order.ID),
		zap.Float64("total", order.Total),
	)

	return order, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Order, error) {
	var o Order
	err := r.db.QueryRowContext(ctx, `
		SELECT id, customer_id, producer_id, total, status, payment_status,
		       created_at, updated_at
		FROM orders
		WHERE id = $1
	`, id).Scan(
		&o.ID,
		&o.CustomerID,
		&o.ProducerID,
		&o.Total,
		&o.Status,
		&o.PaymentStatus,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, db.WrapErr(err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, produce_id, quantity, unit_price, subtotal
		FROM order_items
		WHERE order_id = $1
	`, id)
	if err != nil {
		return nil, db.WrapErr(err)
	}
	defer rows.Close()

	for rows.Next() {
		var li LineItem
		if err := rows.Scan(&li.ID, &li.OrderID, &li.ProduceID, &li.Quantity, &li.UnitPrice, &li.Subtotal); err != nil {
			return nil, db.WrapErr(err)
		}
		o.Items = append(o.Items, li)
	}

	if err := rows.Err(); err != nil {
		return nil, db.WrapErr(err)
	}

	return &o, nil
}

func (r *repository) ListByCustomer(ctx context.Context, customerID string) ([]*Order, error) {
	return r.list(ctx, `customer_id`, customerID)
}

func (r *repository) ListByProducer(ctx context.Context, producerID string) ([]*Order, error) {
	return r.list(ctx, `producer_id`, producerID)
}

func (r *repository) list(ctx context.Context, column, id string) ([]*Order, error) {
	query := `
		SELECT id, customer_id, producer_id, total, status, payment_status,
		       created_at, updated_at
		FROM orders
		WHERE ` + column + ` = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, db.WrapErr(err)
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(
			&o.ID,
			&o.CustomerID,
			&o.ProducerID,
			&o.Total,
			&o.Status,
			&o.PaymentStatus,
			&o.CreatedAt,
			&o.UpdatedAt,
		); err != nil {
			return nil, db.WrapErr(err)
		}
		orders = append(orders, &o)
	}

	if err := rows.Err(); err != nil {
		return nil, db.WrapErr(err)
	}

	return orders, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id string, from, to Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, to, id, from)
	if err != nil {
		return db.WrapErr(err)
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return ErrInvalidStatusChange
	}

	return nil
}

func (r *repository) MarkPaid(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET payment_status = 'paid', updated_at = NOW()
		WHERE id = $1 AND payment_status = 'unpaid'
	`, id)
	if err != nil {
		return db.WrapErr(err)
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return ErrAlreadyPaid
	}

	return nil
}
