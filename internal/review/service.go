package review

import (
	"context"
	"strings"

	"agrocycle-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TrustScoreUpdater is the slice of the impact profile the review module
// feeds into.
type TrustScoreUpdater interface {
	UpdateTrustScore(ctx context.Context, producerID string, score float64) error
}

type Service interface {
	Leave(ctx context.Context, customerID, customerName, producerID string, rating int, comment string) (*Review, error)
	ListByProducer(ctx context.Context, producerID string) ([]*Review, error)
}

type service struct {
	repo     Repository
	profiles TrustScoreUpdater
}

func NewService(repo Repository, profiles TrustScoreUpdater) Service {
	return &service{repo: repo, profiles: profiles}
}

// Leave records a review and refreshes the producer's trust score from the
// new rating average. The score update is best-effort: a stale trust score
// is tolerable, a lost review is not.
func (s *service) Leave(
	ctx context.Context,
	customerID, customerName, producerID string,
	rating int,
	comment string,
) (*Review, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "LeaveReview"),
		zap.String("producer_id", producerID),
		zap.Int("rating", rating),
	)

	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	if strings.TrimSpace(comment) == "" {
		return nil, ErrEmptyComment
	}

	rev := &Review{
		ID:           uuid.New().String(),
		ProducerID:   producerID,
		CustomerID:   customerID,
		CustomerName: customerName,
		Rating:       rating,
		Comment:      comment,
	}

	if err := s.repo.Create(ctx, rev); err != nil {
		log.Error("failed to create review", zap.Error(err))
		return nil, err
	}

	avg, count, err := s.repo.AverageRating(ctx, producerID)
	if err != nil {
		log.Warn("failed to recompute rating average", zap.Error(err))
		return rev, nil
	}

	score := TrustScore(avg)
	if err := s.profiles.UpdateTrustScore(ctx, producerID, score); err != nil {
		log.Warn("failed to update trust score", zap.Error(err))
		return rev, nil
	}

	log.Info("review recorded",
		zap.Float64("average_rating", avg),
		zap.Int("review_count", count),
		zap.Float64("trust_score", score),
	)

	return rev, nil
}

func (s *service) ListByProducer(ctx context.Context, producerID string) ([]*Review, error) {
	return s.repo.ListByProducer(ctx, producerID)
}

// TrustScore maps a 1-5 rating average onto the 0-10 trust scale.
func TrustScore(avgRating float64) float64 {
	score := avgRating * 2
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}
