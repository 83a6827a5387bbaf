package impact

import (
	"context"
	"database/sql"
	"errors"

	"agrocycle-be/internal/db"
	"agrocycle-be/internal/export"
	"agrocycle-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	GetProfile(ctx context.Context, producerID string) (*Profile, error)
	ApplyExportTx(ctx context.Context, e *export.Export) error
	UpdateTrustScore(ctx context.Context, producerID string, score float64) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(database *sql.DB) Repository {
	return &repository{db: database}
}

func (r *repository) GetProfile(ctx context.Context, producerID string) (*Profile, error) {
	query := `
		SELECT
			id, trust_score, verified, fertilizer_credits, waste_reduced_kg,
			co2_saved_kg, compost_generated_kg, created_at, updated_at
		FROM producer_profiles
		WHERE id = $1
	`

	var p Profile
	err := r.db.QueryRowContext(ctx, query, producerID).Scan(
		&p.ID,
		&p.TrustScore,
		&p.Verified,
		&p.FertilizerCredits,
		&p.WasteReducedKg,
		&p.CO2SavedKg,
		&p.CompostGeneratedKg,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, db.WrapErr(err)
	}

	return &p, nil
}

// ApplyExportTx folds an export's derived fields into the producer profile.
// The impact_applications insert carries a primary key on export_id, so a
// retried application hits the unique violation and nothing is counted
// twice. The profile UPDATE takes a row lock, which serializes concurrent
// applications per producer.
func (r *repository) ApplyExportTx(ctx context.Context, e *export.Export) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ApplyExportTx"),
		zap.String("export_id", e.ID),
		zap.String("producer_id", e.ProducerID),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return db.WrapErr(err)
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO impact_applications (export_id, producer_id)
		VALUES ($1, $2)
	`, e.ID, e.ProducerID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == PgUniqueViolation {
			log.Debug("export already applied, skipping")
			return ErrAlreadyApplied
		}
		log.Error("failed to record impact application", zap.Error(err))
		return db.WrapErr(err)
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE producer_profiles
		SET
			fertilizer_credits = fertilizer_credits + $1,
			waste_reduced_kg = waste_reduced_kg + $2,
			co2_saved_kg = co2_saved_kg + $3,
			compost_generated_kg = compost_generated_kg + $4,
			updated_at = NOW()
		WHERE id = $5
	`,
		e.CreditsEarned,
		e.Weight,
		e.CO2OffsetKg,
		e.CompostYieldKg,
		e.ProducerID,
	)
	if err != nil {
		log.Error("failed to update producer profile", zap.Error(err))
		return db.WrapErr(err)
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrProfileNotFound
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit impact application", zap.Error(err))
		return db.WrapErr(err)
	}

	committed = true
	return nil
}

func (r *repository) UpdateTrustScore(ctx context.Context, producerID string, score float64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE producer_profiles
		SET trust_score = $1, updated_at = NOW()
		WHERE id = $2
	`, score, producerID)
	if err != nil {
		return db.WrapErr(err)
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrProfileNotFound
	}

	return nil
}
