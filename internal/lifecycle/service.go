package lifecycle

import (
	"context"

	"agrocycle-be/internal/export"
	"agrocycle-be/internal/impact"
	"agrocycle-be/internal/logger"
	"agrocycle-be/internal/metrics"
	"agrocycle-be/internal/produce"

	"go.uber.org/zap"
)

// Service orchestrates a waste conversion: export creation, the
// unsold/spoiled -> sold_out transition, and the producer impact update, as
// one logical operation with an idempotent retry path.
type Service interface {
	ConvertToExport(ctx context.Context, producerID, produceID, facility string, category export.Category) (*export.Export, error)
	Retry(ctx context.Context, producerID, exportID string) error
}

type service struct {
	units   produce.Service
	exports export.Service
	impacts impact.Service
	metrics *metrics.Set
}

func NewService(units produce.Service, exports export.Service, impacts impact.Service, m *metrics.Set) Service {
	if m == nil {
		m = metrics.NewSet()
	}
	return &service{units: units, exports: exports, impacts: impacts, metrics: m}
}

// ConvertToExport routes a unit's full remaining quantity to a processing
// facility. Eligibility (unsold or spoiled, positive quantity) is enforced
// by the export ledger before anything is written. Once the export exists it
// represents a real-world pickup commitment, so a failure in the remaining
// steps is reported as a PartialFailureError rather than rolled back.
func (s *service) ConvertToExport(
	ctx context.Context,
	producerID, produceID, facility string,
	category export.Category,
) (*export.Export, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ConvertToExport"),
		zap.String("producer_id", producerID),
		zap.String("produce_id", produceID),
		zap.String("category", string(category)),
	)

	unit, err := s.units.Get(ctx, produceID)
	if err != nil {
		return nil, err
	}

	if unit.ProducerID != producerID {
		log.Warn("conversion attempted by non-owner", zap.String("owner", unit.ProducerID))
		return nil, ErrNotOwner
	}

	e, err := s.exports.CreateExport(ctx, produceID, unit.Quantity, facility, category)
	if err != nil {
		log.Warn("conversion rejected before export creation", zap.Error(err))
		return nil, err
	}

	log = log.With(zap.String("export_id", e.ID))

	if err := s.units.MarkDispatched(ctx, produceID); err != nil {
		s.metrics.Counter("conversions_partial").Inc()
		log.Error("status transition failed after export creation", zap.Error(err))
		return e, &PartialFailureError{ExportID: e.ID, Step: "status_transition", Err: err}
	}

	if err := s.impacts.ApplyExport(ctx, e); err != nil {
		s.metrics.Counter("conversions_partial").Inc()
		log.Error("impact accumulation failed after export creation", zap.Error(err))
		return e, &PartialFailureError{ExportID: e.ID, Step: "impact_accumulation", Err: err}
	}

	s.metrics.Counter("conversions_completed").Inc()
	log.Info("waste conversion completed",
		zap.Float64("weight", e.Weight),
		zap.Int("credits_earned", e.CreditsEarned),
	)

	return e, nil
}

// Retry finishes a partially completed conversion. Both remaining steps are
// idempotent: a unit already sold_out is a no-op transition, and the
// accumulator tracks which export ids have been applied, so repeating the
// call never double-credits.
func (s *service) Retry(ctx context.Context, producerID, exportID string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Retry"),
		zap.String("export_id", exportID),
	)

	e, err := s.exports.Get(ctx, exportID)
	if err != nil {
		return err
	}

	if e.ProducerID != producerID {
		return ErrNotOwner
	}

	if err := s.units.MarkDispatched(ctx, e.ProduceID); err != nil {
		log.Error("retry: status transition still failing", zap.Error(err))
		return &PartialFailureError{ExportID: e.ID, Step: "status_transition", Err: err}
	}

	if err := s.impacts.ApplyExport(ctx, e); err != nil {
		log.Error("retry: impact accumulation still failing", zap.Error(err))
		return &PartialFailureError{ExportID: e.ID, Step: "impact_accumulation", Err: err}
	}

	s.metrics.Counter("conversions_retried").Inc()
	log.Info("conversion retry completed")

	return nil
}
