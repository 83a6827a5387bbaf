package impact

import (
	"context"
	"errors"

	"agrocycle-be/internal/export"
	"agrocycle-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	ApplyExport(ctx context.Context, e *export.Export) error
	GetProfile(ctx context.Context, producerID string) (*Profile, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// ApplyExport adds an export's derived fields to the producer's cumulative
// stats. Idempotent: applying the same export twice leaves the profile
// unchanged, which is what makes the coordinator's retry path safe.
func (s *service) ApplyExport(ctx context.Context, e *export.Export) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ApplyExport"),
		zap.String("export_id", e.ID),
		zap.String("producer_id", e.ProducerID),
	)

	err := s.repo.ApplyExportTx(ctx, e)
	if errors.Is(err, ErrAlreadyApplied) {
		log.Info("export was already applied, nothing to do")
		return nil
	}
	if err != nil {
		log.Error("failed to apply export to profile", zap.Error(err))
		return err
	}

	log.Info("producer impact updated",
		zap.Int("credits_earned", e.CreditsEarned),
		zap.Float64("waste_reduced_kg", e.Weight),
		zap.Float64("co2_offset_kg", e.CO2OffsetKg),
	)

	return nil
}

func (s *service) GetProfile(ctx context.Context, producerID string) (*Profile, error) {
	return s.repo.GetProfile(ctx, producerID)
}
