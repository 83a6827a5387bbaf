package produce

import (
	"context"
	"time"

	"agrocycle-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type NewUnit struct {
	ProducerID  string
	Name        string
	Category    Category
	Quantity    float64
	UnitLabel   string
	Price       float64
	HarvestDate time.Time
	Organic     bool
	Description *string
	ImageURL    *string
}

type Service interface {
	Create(ctx context.Context, input NewUnit) (*Unit, error)
	Get(ctx context.Context, id string) (*Unit, error)
	ListAvailable(ctx context.Context, producerID *string) ([]*Unit, error)
	SetStatus(ctx context.Context, producerID, id string, to Status) error
	MarkDispatched(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, input NewUnit) (*Unit, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateProduceUnit"),
		zap.String("producer_id", input.ProducerID),
	)

	if input.Quantity <= 0 {
		log.Warn("rejected produce unit with non-positive quantity",
			zap.Float64("quantity", input.Quantity),
		)
		return nil, ErrInvalidQuantity
	}

	if !ValidCategory(input.Category) {
		return nil, ErrUnknownCategory
	}

	unit := &Unit{
		ID:          uuid.New().String(),
		ProducerID:  input.ProducerID,
		Name:        input.Name,
		Category:    input.Category,
		Quantity:    input.Quantity,
		UnitLabel:   input.UnitLabel,
		Price:       input.Price,
		HarvestDate: input.HarvestDate,
		Organic:     input.Organic,
		Status:      StatusAvailable,
		Description: input.Description,
		ImageURL:    input.ImageURL,
	}

	if err := s.repo.Create(ctx, unit); err != nil {
		log.Error("failed to create produce unit", zap.Error(err))
		return nil, err
	}

	log.Info("produce unit created",
		zap.String("unit_id", unit.ID),
		zap.String("category", string(unit.Category)),
		zap.Float64("quantity", unit.Quantity),
	)

	return unit, nil
}

func (s *service) Get(ctx context.Context, id string) (*Unit, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListAvailable(ctx context.Context, producerID *string) ([]*Unit, error) {
	return s.repo.ListAvailable(ctx, producerID)
}

// SetStatus applies a producer-initiated transition: marking a sale complete,
// flagging inventory unsold at end of day, or flagging it spoiled.
func (s *service) SetStatus(ctx context.Context, producerID, id string, to Status) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "SetStatus"),
		zap.String("unit_id", id),
		zap.String("to", string(to)),
	)

	if !ValidStatus(to) {
		return ErrUnknownStatus
	}

	unit, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if unit.ProducerID != producerID {
		log.Warn("status change by non-owner",
			zap.String("caller", producerID),
			zap.String("owner", unit.ProducerID),
		)
		return ErrNotOwner
	}

	if !CanTransition(unit.Status, to) {
		log.Warn("illegal status transition",
			zap.String("from", string(unit.Status)),
		)
		return ErrInvalidTransition
	}

	// Waste inventory leaves the system only through dispatch to a facility.
	// Producers cannot mark unsold or spoiled units consumed themselves.
	if to == StatusSoldOut && (unit.Status == StatusUnsold || unit.Status == StatusSpoiled) {
		log.Warn("waste unit cannot be closed without dispatch",
			zap.String("from", string(unit.Status)),
		)
		return ErrInvalidTransition
	}

	if err := s.repo.UpdateStatus(ctx, id, unit.Status, to); err != nil {
		return err
	}

	log.Info("produce unit status changed",
		zap.String("from", string(unit.Status)),
	)

	return nil
}

// MarkDispatched is the lifecycle coordinator's transition: the unit's waste
// has been routed to a factory and the unit is considered fully consumed.
// Safe to repeat: a unit already sold_out is a no-op so partial-failure
// retries do not error out.
func (s *service) MarkDispatched(ctx context.Context, id string) error {
	unit, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if unit.Status == StatusSoldOut {
		return nil
	}

	if unit.Status != StatusUnsold && unit.Status != StatusSpoiled {
		return ErrInvalidTransition
	}

	return s.repo.UpdateStatus(ctx, id, unit.Status, StatusSoldOut)
}
