package review

import (
	"context"
	"database/sql"

	"agrocycle-be/internal/db"
)

type Repository interface {
	Create(ctx context.Context, r *Review) error
	ListByProducer(ctx context.Context, producerID string) ([]*Review, error)
	AverageRating(ctx context.Context, producerID string) (float64, int, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(database *sql.DB) Repository {
	return &repository{db: database}
}

func (r *repository) Create(ctx context.Context, rev *Review) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reviews (
			id, producer_id, customer_id, customer_name, rating, comment
		) VALUES ($1,$2,$3,$4,$5,$6)
	`,
		rev.ID,
		rev.ProducerID,
		rev.CustomerID,
		rev.CustomerName,
		rev.Rating,
		rev.Comment,
	)
	return db.WrapErr(err)
}

func (r *repository) ListByProducer(ctx context.Context, producerID string) ([]*Review, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, producer_id, customer_id, customer_name, rating, comment, created_at
		FROM reviews
		WHERE producer_id = $1
		ORDER BY created_at DESC
	`, producerID)
	if err != nil {
		return nil, db.WrapErr(err)
	}
	defer rows.Close()

	var reviews []*Review
	for rows.Next() {
		var rev Review
		if err := rows.Scan(
			&rev.ID,
			&rev.ProducerID,
			&rev.CustomerID,
			&rev.CustomerName,
			&rev.Rating,
			&rev.Comment,
			&rev.CreatedAt,
		); err != nil {
			return nil, db.WrapErr(err)
		}
		reviews = append(reviews, &rev)
	}

	if err := rows.Err(); err != nil {
		return nil, db.WrapErr(err)
	}

	return reviews, nil
}

func (r *repository) AverageRating(ctx context.Context, producerID string) (float64, int, error) {
	var (
		avg   sql.NullFloat64
		count int
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT AVG(rating), COUNT(*)
		FROM reviews
		WHERE producer_id = $1
	`, producerID).Scan(&avg, &count)
	if err != nil {
		return 0, 0, db.WrapErr(err)
	}

	return avg.Float64, count, nil
}
