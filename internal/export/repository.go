package export

import (
	"context"
	"database/sql"
	"errors"

	"agrocycle-be/internal/db"
	"agrocycle-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, e *Export) error
	GetByID(ctx context.Context, id string) (*Export, error)
	ListByProducer(ctx context.Context, producerID string) ([]*Export, error)
	UpdateStatus(ctx context.Context, id string, from, to Status) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(database *sql.DB) Repository {
	return &repository{db: database}
}

func (r *repository) Create(ctx context.Context, e *Export) error {
	query := `
		INSERT INTO factory_exports (
			id, producer_id, produce_id, produce_name, weight, facility_name,
			category, pickup_date, status, credits_earned, co2_offset_kg,
			compost_yield_kg
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`

	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.ProducerID,
		e.ProduceID,
		e.ProduceName,
		e.Weight,
		e.FacilityName,
		e.Category,
		e.PickupDate,
		e.Status,
		e.CreditsEarned,
		e.CO2OffsetKg,
		e.CompostYieldKg,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == PgUniqueViolation {
			// Unique index on produce_id: a concurrent conversion won the race.
			return ErrAlreadyConverted
		}
		logger.FromCtx(ctx).Error("failed to insert factory export",
			zap.String("export_id", e.ID),
			zap.Error(err),
		)
		return db.WrapErr(err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Export, error) {
	query := `
		SELECT
			id, producer_id, produce_id, produce_name, weight, facility_name,
			category, pickup_date, status, credits_earned, co2_offset_kg,
			compost_yield_kg, created_at
		FROM factory_exports
		WHERE id = $1
	`

	var e Export
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&e.ID,
		&e.ProducerID,
		&e.ProduceID,
		&e.ProduceName,
		&e.Weight,
		&e.FacilityName,
		&e.Category,
		&e.PickupDate,
		&e.Status,
		&e.CreditsEarned,
		&e.CO2OffsetKg,
		&e.CompostYieldKg,
		&e.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrExportNotFound
	}
	if err != nil {
		return nil, db.WrapErr(err)
	}

	return &e, nil
}

func (r *repository) ListByProducer(ctx context.Context, producerID string) ([]*Export, error) {
	query := `
		SELECT
			id, producer_id, produce_id, produce_name, weight, facility_name,
			category, pickup_date, status, credits_earned, co2_offset_kg,
			compost_yield_kg, created_at
		FROM factory_exports
		WHERE producer_id = $1
		ORDER BY pickup_date DESC
	`

	rows, err := r.db.QueryContext(ctx, query, producerID)
	if err != nil {
		return nil, db.WrapErr(err)
	}
	defer rows.Close()

	var exports []*Export
	for rows.Next() {
		var e Export
		if err := rows.Scan(
			&e.ID,
			&e.ProducerID,
			&e.ProduceID,
			&e.ProduceName,
			&e.Weight,
			&e.FacilityName,
			&e.Category,
			&e.PickupDate,
			&e.Status,
			&e.CreditsEarned,
			&e.CO2OffsetKg,
			&e.CompostYieldKg,
			&e.CreatedAt,
		); err != nil {
			return nil, db.WrapErr(err)
		}
		exports = append(exports, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, db.WrapErr(err)
	}

	return exports, nil
}

// UpdateStatus advances an export through the logistics pipeline with a
// compare-and-swap on the last-seen status.
func (r *repository) UpdateStatus(ctx context.Context, id string, from, to Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE factory_exports
		SET status = $1
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
		return ErrInvalidAdvance
	}

	return nil
}
