package export

import (
	"context"
	"time"

	"agrocycle-be/internal/logger"
	"agrocycle-be/internal/produce"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProduceReader is the slice of the produce registry the ledger needs.
type ProduceReader interface {
	GetByID(ctx context.Context, id string) (*produce.Unit, error)
}

type Service interface {
	CreateExport(ctx context.Context, produceID string, weight float64, facility string, category Category) (*Export, error)
	Get(ctx context.Context, id string) (*Export, error)
	ListByProducer(ctx context.Context, producerID string) ([]*Export, error)
	AdvanceStatus(ctx context.Context, id string, to Status) error
}

type service struct {
	repo   Repository
	units  ProduceReader
	coeffs CoefficientTable
}

func NewService(repo Repository, units ProduceReader, coeffs CoefficientTable) Service {
	if coeffs == nil {
		coeffs = DefaultCoefficients()
	}
	return &service{repo: repo, units: units, coeffs: coeffs}
}

// CreateExport validates the source unit, computes the derived credit and
// impact fields, and persists the export as Scheduled. It does not touch the
// unit's status or the producer profile; that orchestration belongs to the
// lifecycle coordinator so this computation stays pure.
func (s *service) CreateExport(
	ctx context.Context,
	produceID string,
	weight float64,
	facility string,
	category Category,
) (*Export, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateExport"),
		zap.String("produce_id", produceID),
		zap.Float64("weight", weight),
		zap.String("category", string(category)),
	)

	if !ValidCategory(category) {
		return nil, ErrUnknownCategory
	}

	unit, err := s.units.GetByID(ctx, produceID)
	if err != nil {
		log.Warn("source unit lookup failed", zap.Error(err))
		return nil, err
	}

	if unit.Status != produce.StatusUnsold && unit.Status != produce.StatusSpoiled {
		log.Warn("source unit is not waste", zap.String("status", string(unit.Status)))
		return nil, ErrUnitNotWaste
	}

	if weight <= 0 || weight > unit.Quantity {
		log.Warn("rejected export weight", zap.Float64("unit_quantity", unit.Quantity))
		return nil, ErrInvalidWeight
	}

	credits, co2Kg, compostKg := s.coeffs.Derive(weight, category)

	e := &Export{
		ID:             uuid.New().String(),
		ProducerID:     unit.ProducerID,
		ProduceID:      unit.ID,
		ProduceName:    unit.Name,
		Weight:         weight,
		FacilityName:   facility,
		Category:       category,
		PickupDate:     time.Now(),
		Status:         StatusScheduled,
		CreditsEarned:  credits,
		CO2OffsetKg:    co2Kg,
		CompostYieldKg: compostKg,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		log.Error("failed to persist factory export", zap.Error(err))
		return nil, err
	}

	log.Info("factory export created",
		zap.String("export_id", e.ID),
		zap.Int("credits_earned", e.CreditsEarned),
		zap.Float64("co2_offset_kg", e.CO2OffsetKg),
	)

	return e, nil
}

func (s *service) Get(ctx context.Context, id string) (*Export, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByProducer(ctx context.Context, producerID string) ([]*Export, error) {
	return s.repo.ListByProducer(ctx, producerID)
}

// AdvanceStatus is invoked on behalf of the logistics collaborator. The core
// never rewinds an export and never mutates one that is Processed.
func (s *service) AdvanceStatus(ctx context.Context, id string, to Status) error {
	if !ValidStatus(to) {
		return ErrInvalidAdvance
	}

	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if e.Status == StatusProcessed {
		return ErrAlreadyProcessed
	}

	if !CanAdvance(e.Status, to) {
		return ErrInvalidAdvance
	}

	if err := s.repo.UpdateStatus(ctx, id, e.Status, to); err != nil {
		return err
	}

	logger.FromCtx(ctx).Info("export status advanced",
		zap.String("export_id", id),
		zap.String("from", string(e.Status)),
		zap.String("to", string(to)),
	)

	return nil
}
