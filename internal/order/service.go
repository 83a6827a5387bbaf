package order

import (
	"context"
	"errors"

	"agrocycle-be/internal/logger"
	"agrocycle-be/internal/metrics"

	"go.uber.org/zap"
)

type Service interface {
	PlaceOrder(ctx context.Context, customerID, producerID string, items []NewLineItem) (*Order, error)
	Get(ctx context.Context, id string) (*Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*Order, error)
	ListByProducer(ctx context.Context, producerID string) ([]*Order, error)
	UpdateStatus(ctx context.Context, id string, to Status) error
	MarkPaid(ctx context.Context, id string) error
}

type service struct {
	repo    Repository
	metrics *metrics.Set
}

func NewService(repo Repository, m *metrics.Set) Service {
	if m == nil {
		m = metrics.NewSet()
	}
	return &service{repo: repo, metrics: m}
}

// PlaceOrder validates the request and records the purchase. Stock deduction
// and order persistence are atomic: a partial deduction followed by a
// failure never survives.
func (s *service) PlaceOrder(
	ctx context.Context,
	customerID, producerID string,
	items []NewLineItem,
) (*Order, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "PlaceOrder"),
		zap.String("customer_id", customerID),
		zap.String("producer_id", producerID),
		zap.Int("item_count", len(items)),
	)

	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}

	for _, item := range items {
		if item.Quantity <= 0 {
			log.Warn("rejected line item quantity",
				zap.String("produce_id", item.ProduceID),
				zap.Float64("quantity", item.Quantity),
			)
			return nil, ErrInvalidQuantity
		}
	}

	timer := metrics.StartTimer()

	order, err := s.repo.CreateOrderTx(ctx, customerID, producerID, items)
	if err != nil {
		if errors.Is(err, ErrInsufficientStock) {
			s.metrics.Counter("orders_rejected_stock").Inc()
		}
		log.Error("failed to place order", zap.Error(err))
		return nil, err
	}

	s.metrics.Counter("orders_placed").Inc()

	log.Info("order placed",
		zap.String("order_id", order.ID),
		zap.Float64("total", order.Total),
		zap.Duration("duration", timer.Duration()),
	)

	return order, nil
}

func (s *service) Get(ctx context.Context, id string) (*Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByCustomer(ctx context.Context, customerID string) ([]*Order, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

func (s *service) ListByProducer(ctx context.Context, producerID string) ([]*Order, error) {
	return s.repo.ListByProducer(ctx, producerID)
}

// UpdateStatus is invoked on behalf of the fulfillment collaborator.
func (s *service) UpdateStatus(ctx context.Context, id string, to Status) error {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !CanTransition(o.Status, to) {
		return ErrInvalidStatusChange
	}

	return s.repo.UpdateStatus(ctx, id, o.Status, to)
}

// MarkPaid is invoked on behalf of the payment collaborator. A paid order is
// an immutable transaction record.
func (s *service) MarkPaid(ctx context.Context, id string) error {
	err := s.repo.MarkPaid(ctx, id)
	if errors.Is(err, ErrAlreadyPaid) {
		// Payment webhooks retry; repeating the notification is fine.
		return nil
	}
	return err
}
