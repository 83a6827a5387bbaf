package produce

import (
	"context"
	"database/sql"
	"errors"

	"agrocycle-be/internal/db"
	"agrocycle-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, unit *Unit) error
	GetByID(ctx context.Context, id string) (*Unit, error)
	ListAvailable(ctx context.Context, producerID *string) ([]*Unit, error)
	UpdateStatus(ctx context.Context, id string, from, to Status) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(database *sql.DB) Repository {
	return &repository{db: database}
}

func (r *repository) Create(ctx context.Context, unit *Unit) error {
	query := `
		INSERT INTO produce_units (
			id, producer_id, name, category, quantity, unit_label,
			price, harvest_date, organic, status, description, image_url
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`

	_, err := r.db.ExecContext(ctx, query,
		unit.ID,
		unit.ProducerID,
		unit.Name,
		unit.Category,
		unit.Quantity,
		unit.UnitLabel,
		unit.Price,
		unit.HarvestDate,
		unit.Organic,
		unit.Status,
		unit.Description,
		unit.ImageURL,
	)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to insert produce unit",
			zap.String("unit_id", unit.ID),
			zap.Error(err),
		)
		return db.WrapErr(err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Unit, error) {
	query := `
		SELECT
			id, producer_id, name, category, quantity, unit_label,
			price, harvest_date, organic, status, description, image_url,
			created_at, updated_at
		FROM produce_units
		WHERE id = $1
	`

	var u Unit
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&u.ID,
		&u.ProducerID,
		&u.Name,
		&u.Category,
		&u.Quantity,
		&u.UnitLabel,
		&u.Price,
		&u.HarvestDate,
		&u.Organic,
		&u.Status,
		&u.Description,
		&u.ImageURL,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUnitNotFound
	}
	if err != nil {
		return nil, db.WrapErr(err)
	}

	return &u, nil
}

func (r *repository) ListAvailable(ctx context.Context, producerID *string) ([]*Unit, error) {
	query := `
		SELECT
			id, producer_id, name, category, quantity, unit_label,
			price, harvest_date, organic, status, description, image_url,
			created_at, updated_at
		FROM produce_units
		WHERE status = 'available'
	`

	args := []any{}
	if producerID != nil {
		query += ` AND producer_id = $1`
		args = append(args, *producerID)
	}

	query += ` ORDER BY harvest_date DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, db.WrapErr(err)
	}
	defer rows.Close()

	var units []*Unit
	for rows.Next() {
		var u Unit
		if err := rows.Scan(
			&u.ID,
			&u.ProducerID,
			&u.Name,
			&u.Category,
			&u.Quantity,
			&u.UnitLabel,
			&u.Price,
			&u.HarvestDate,
			&u.Organic,
			&u.Status,
			&u.Description,
			&u.ImageURL,
			&u.CreatedAt,
			&u.UpdatedAt,
		); err != nil {
			return nil, db.WrapErr(err)
		}
		units = append(units, &u)
	}

	if err := rows.Err(); err != nil {
		return nil, db.WrapErr(err)
	}

	return units, nil
}

// UpdateStatus moves a unit from one status to another with a compare-and-swap
// on the last-seen status, so a concurrent transition cannot be overwritten.
func (r *repository) UpdateStatus(ctx context.Context, id string, from, to Status) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE produce_units
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, to, id, from)
	if err != nil {
		return db.WrapErr(err)
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		// Either the unit vanished or its status changed underneath us.
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return ErrInvalidTransition
	}

	return nil
}
